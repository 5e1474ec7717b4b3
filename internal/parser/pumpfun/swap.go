package pumpfun

import (
	"encoding/binary"

	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/decoder"
	"dex-parser-sol/internal/parser/common"
	"dex-parser-sol/internal/types"
	"dex-parser-sol/pkg/logger"

	"github.com/near/borsh-go"
)

// PumpTradeEvent TradeEvent 负载头部（16 字节事件前缀之后）。
// 新版事件在尾部追加了手续费字段，borsh 容忍多余字节，手续费单独按偏移提取。
type PumpTradeEvent struct {
	Mint                 types.Pubkey
	SolAmount            uint64
	TokenAmount          uint64
	IsBuy                bool
	User                 types.Pubkey
	Timestamp            int64
	VirtualSolReserves   uint64
	VirtualTokenReserves uint64
	RealSolReserves      uint64
	RealTokenReserves    uint64
}

// 手续费尾部相对负载起点的偏移：头部 121 字节 + feeRecipient 32 + feeBasisPoints 8
const tradeEventFeeOffset = 161

// 示例交易：
// Sell: https://solscan.io/tx/3NCxJ1jNF1SHjjGKDxMhnzyqwSdEDoitPLzvEdfBZrTPXhxA21YkydApvP8rLzeM36Bpa2jWqnrgryhw9oqgBLpv
// Buy: https://solscan.io/tx/26N7CkAScr2msSTHNoEGtfwWkHwrsqRhwUPjh366SyYG5oY4CojjDQFZR8ZPN7nt5JEqqYBBvWndHxNQcf1mkBzz
//
// Pump.fun buy/sell 指令账户布局：
//  0. Global 配置账户
//  1. 手续费账户
//  2. 被交易代币的 Mint
//  3. Bonding Curve 主账户（池子地址）
//  4. Bonding Curve Vault
//  5. 用户 Token Account
//  6. 用户主账户
func extractSwap(ctx *common.Context, dexCtx core.DexContext, ix *core.AdaptedInstruction, isBuy bool) *core.TradeInfo {
	if len(ix.Accounts) < 7 {
		logger.Debugf("pumpfun swap accounts short: got=%d, tx=%s", len(ix.Accounts), ctx.Signature())
		return nil
	}

	eventIx, err := common.FindEvent(ctx, ix, TradeEventID)
	if err != nil {
		logger.Debugf("pumpfun swap event missing: tx=%s, idx=%s", ctx.Signature(), ix.Idx())
		return nil
	}

	payload := decoder.EventPayload(eventIx.Data)
	var event PumpTradeEvent
	if err := borsh.Deserialize(&event, payload); err != nil {
		logger.Debugf("pumpfun swap event decode: %v, tx=%s", err, ctx.Signature())
		return nil
	}
	if event.IsBuy != isBuy {
		logger.Debugf("pumpfun swap direction mismatch: event=%v, ix=%v, tx=%s", event.IsBuy, isBuy, ctx.Signature())
		return nil
	}
	if event.Mint != ix.Accounts[2] {
		logger.Debugf("pumpfun swap mint mismatch: event=%s, ix=%s, tx=%s", event.Mint, ix.Accounts[2], ctx.Signature())
		return nil
	}

	rawMode := ctx.Option.RawAmount
	solAmount := core.NewTokenAmount(consts.NativeSOLMint.String(), event.SolAmount, consts.SOLDecimals, rawMode)
	tokenAmount := core.NewTokenAmount(event.Mint.String(), event.TokenAmount, ctx.View.TokenDecimals(event.Mint), rawMode)

	trade := &core.TradeInfo{
		User:      event.User.String(),
		ProgramID: dexCtx.ProgramID,
		Amm:       dexCtx.Amm,
		Slot:      ctx.View.Slot,
		Timestamp: ctx.View.BlockTime,
		Signature: ctx.Signature(),
		Idx:       ix.Idx(),
	}
	if isBuy {
		trade.Type = core.TradeBuy
		trade.InputToken = solAmount
		trade.OutputToken = tokenAmount
	} else {
		trade.Type = core.TradeSell
		trade.InputToken = tokenAmount
		trade.OutputToken = solAmount
	}

	if len(payload) >= tradeEventFeeOffset+8 {
		fee := core.NewTokenAmount(consts.NativeSOLMint.String(),
			binary.LittleEndian.Uint64(payload[tradeEventFeeOffset:]), consts.SOLDecimals, rawMode)
		trade.Fee = &fee
	}
	return trade
}
