package common

import (
	"dex-parser-sol/internal/core"

	"dex-parser-sol/pkg/logger"
)

// TradeFromGroup 以指令的台账组合成 swap。
// 组为空或唯一币种不足时返回 nil（丢弃该候选，不中断整笔解析）。
func TradeFromGroup(ctx *Context, dexCtx core.DexContext, ix *core.AdaptedInstruction) *core.TradeInfo {
	group := ctx.Ledger.GroupFor(ix)
	if len(group) == 0 {
		return nil
	}
	trade, err := ctx.Ledger.SynthesizeTrade(group, dexCtx)
	if err != nil {
		logger.Debugf("swap synthesis dropped: %v, program=%s, idx=%s, tx=%s",
			err, dexCtx.ProgramID, ix.Idx(), ctx.Signature())
		return nil
	}
	return trade
}

// GroupTrades 对一组已分类指令逐条尝试合成 swap，isSwapIx 过滤交易类 discriminator。
func GroupTrades(
	ctx *Context,
	dexCtx core.DexContext,
	instrs []*core.ClassifiedInstruction,
	isSwapIx func(*core.AdaptedInstruction) bool,
) []core.TradeInfo {
	var trades []core.TradeInfo
	for _, ci := range instrs {
		if !isSwapIx(ci.Ix) {
			continue
		}
		if trade := TradeFromGroup(ctx, dexCtx, ci.Ix); trade != nil {
			trades = append(trades, *trade)
		}
	}
	return trades
}
