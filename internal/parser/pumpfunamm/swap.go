package pumpfunamm

import (
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/decoder"
	"dex-parser-sol/internal/parser/common"
	"dex-parser-sol/internal/types"
	"dex-parser-sol/pkg/logger"

	"github.com/near/borsh-go"
)

// PumpAmmSwapEvent BuyEvent / SellEvent 共用头部。
// buy 与 sell 的字段名不同（amountIn/amountOut 互换），但类型布局一致，
// 手续费都在 LpFee / ProtocolFee 两个槽位，以 quote mint 计价。
type PumpAmmSwapEvent struct {
	Timestamp              int64
	BaseAmount             uint64
	QuoteAmountLimit       uint64
	UserBaseTokenReserves  uint64
	UserQuoteTokenReserves uint64
	PoolBaseTokenReserves  uint64
	PoolQuoteTokenReserves uint64
	QuoteAmount            uint64
	LpFeeBasisPoints       uint64
	LpFee                  uint64
	ProtocolFeeBasisPoints uint64
	ProtocolFee            uint64
	QuoteAmountWithLpFee   uint64
	UserQuoteAmount        uint64
	Pool                   types.Pubkey
	User                   types.Pubkey
}

// Pump.fun AMM Swap 指令账户布局：
//  0. Pool
//  1. User
//  2. Global Config
//  3. base mint
//  4. quote mint
//  5. 用户 base token account
//  6. 用户 quote token account
//
// 金额从台账组合成（与池子其余协议一致），事件只用于补充手续费。
func parseTrades(ctx *common.Context, dexCtx core.DexContext, instrs []*core.ClassifiedInstruction) []core.TradeInfo {
	var trades []core.TradeInfo
	for _, ci := range instrs {
		ix := ci.Ix
		tag, ok := decoder.U64Tag(ix.Data)
		if !ok || (tag != Buy && tag != Sell) {
			continue
		}
		trade := common.TradeFromGroup(ctx, dexCtx, ix)
		if trade == nil {
			continue
		}
		attachFee(ctx, ix, tag == Buy, trade)
		trades = append(trades, *trade)
	}
	return trades
}

// attachFee 从伴随事件提取 LP + 协议手续费。事件缺失或解码失败不影响 trade 本身。
func attachFee(ctx *common.Context, ix *core.AdaptedInstruction, isBuy bool, trade *core.TradeInfo) {
	eventID := uint64(SellEventID)
	if isBuy {
		eventID = BuyEventID
	}
	eventIx, err := common.FindEvent(ctx, ix, eventID)
	if err != nil {
		return
	}
	var event PumpAmmSwapEvent
	if err := borsh.Deserialize(&event, decoder.EventPayload(eventIx.Data)); err != nil {
		logger.Debugf("pumpfunamm swap event decode: %v, tx=%s", err, ctx.Signature())
		return
	}
	if len(ix.Accounts) < 5 {
		return
	}
	quoteMint := ix.Accounts[4]
	fee := core.NewTokenAmount(quoteMint.String(), event.LpFee+event.ProtocolFee,
		ctx.View.TokenDecimals(quoteMint), ctx.Option.RawAmount)
	trade.Fee = &fee
}
