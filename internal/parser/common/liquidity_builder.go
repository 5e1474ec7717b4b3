package common

import (
	"encoding/binary"

	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/ledger"
	"dex-parser-sol/pkg/logger"
)

// LiquidityLayout 描述某协议某指令变体的账户与数据布局。
// 转账 leg 缺失时（资金在 PDA 内部划转、无可见 SPL 转账）按该布局从
// 账户列表与指令数据的固定偏移兜底取数。布局随协议版本变化，属外部参考数据。
type LiquidityLayout struct {
	MinAccounts int

	PoolIndex   int // 池子主账户
	LpMintIndex int // LP mint，-1 表示无
	UserIndex   int // 用户钱包，-1 表示取交易签名者

	// 无转账 leg 时的兜底来源：mint 取账户下标，金额取指令数据中的小端 u64 偏移
	Token0MintIndex    int
	Token1MintIndex    int
	Token0AmountOffset int
	Token1AmountOffset int
}

// PoolEventFromGroup 按台账组 + 布局构造流动性事件。
// token0/token1 优先取转账 leg（mint 与金额均已解出），一条 leg 都没有时
// 才用布局的固定偏移；LP 数量从组内 mintTo / burn leg 提取。
func PoolEventFromGroup(
	ctx *Context,
	eventType core.PoolEventType,
	ix *core.AdaptedInstruction,
	layout *LiquidityLayout,
	amm string,
) *core.PoolEvent {
	if len(ix.Accounts) < layout.MinAccounts {
		logger.Debugf("liquidity dropped: accounts=%d, expect>=%d, program=%s, idx=%s, tx=%s",
			len(ix.Accounts), layout.MinAccounts, ix.ProgramID, ix.Idx(), ctx.Signature())
		return nil
	}

	event := &core.PoolEvent{
		Type:      eventType,
		PoolID:    ix.Accounts[layout.PoolIndex].String(),
		User:      ctx.Signer().String(),
		ProgramID: ix.ProgramID.String(),
		Amm:       amm,
		Slot:      ctx.View.Slot,
		Timestamp: ctx.View.BlockTime,
		Signature: ctx.Signature(),
		Idx:       ix.Idx(),
	}
	if layout.LpMintIndex >= 0 && layout.LpMintIndex < len(ix.Accounts) {
		event.PoolLpMint = ix.Accounts[layout.LpMintIndex].String()
	}
	if layout.UserIndex >= 0 && layout.UserIndex < len(ix.Accounts) {
		event.User = ix.Accounts[layout.UserIndex].String()
	}

	// 组内 leg 拆分：普通转账 → token0/token1，LP 铸造销毁 → lpAmount
	var transferLegs []*core.TransferAction
	for _, action := range ctx.Ledger.GroupFor(ix) {
		switch action.Type {
		case core.TransferTypeTransfer, core.TransferTypeTransferChecked:
			if event.PoolLpMint != "" && action.Info.Mint == event.PoolLpMint {
				continue // 用户收到的 LP token 转账不是资产 leg
			}
			transferLegs = append(transferLegs, action)
		case core.TransferTypeMintTo, core.TransferTypeMintToChecked:
			if eventType != core.PoolRemove && event.LpAmount == nil {
				amount := action.Info.TokenAmount
				event.LpAmount = &amount
			}
		case core.TransferTypeBurn, core.TransferTypeBurnChecked:
			if eventType == core.PoolRemove && event.LpAmount == nil {
				amount := action.Info.TokenAmount
				event.LpAmount = &amount
			}
		}
	}

	if len(transferLegs) > 0 {
		legs := ledger.OrderLpLegs(transferLegs)
		amount0 := legs[0].Info.TokenAmount
		event.Token0 = &amount0
		if len(legs) > 1 {
			amount1 := legs[1].Info.TokenAmount
			event.Token1 = &amount1
		}
		return event
	}

	// 无转账 leg：按布局兜底
	event.Token0 = fallbackTokenAmount(ctx, ix, layout.Token0MintIndex, layout.Token0AmountOffset)
	event.Token1 = fallbackTokenAmount(ctx, ix, layout.Token1MintIndex, layout.Token1AmountOffset)
	return event
}

// fallbackTokenAmount 按账户下标 + 数据偏移兜底构造金额，越界或未配置返回 nil。
func fallbackTokenAmount(ctx *Context, ix *core.AdaptedInstruction, mintIndex, amountOffset int) *core.TokenAmount {
	if mintIndex < 0 || mintIndex >= len(ix.Accounts) {
		return nil
	}
	if amountOffset < 0 || amountOffset+8 > len(ix.Data) {
		return nil
	}
	mint := ix.Accounts[mintIndex]
	amount := binary.LittleEndian.Uint64(ix.Data[amountOffset:])
	out := core.NewTokenAmount(mint.String(), amount, ctx.View.TokenDecimals(mint), ctx.Option.RawAmount)
	return &out
}
