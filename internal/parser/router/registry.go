package router

import (
	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/ledger"
	"dex-parser-sol/internal/parser/common"
	"dex-parser-sol/internal/types"
	"dex-parser-sol/pkg/logger"
)

// 通用路由 / 交易机器人解析。
// 这些程序不开源或频繁变更，不解析指令数据：每个主指令下、归属底层 AMM
// 程序的台账组各自合成一跳 leg，再做多跳归并。机器人收的小费组只含单一
// 币种，合成失败自然被丢弃。
func RegisterHandlers(m map[types.Pubkey]*common.Entry) {
	entry := &common.Entry{Trade: parseTrades}
	for _, p := range []types.Pubkey{
		consts.OKXRouterProgram,
		consts.BananaGunProgram,
		consts.MaestroProgram,
		consts.BloomProgram,
		consts.NovaProgram,
		consts.MintechProgram,
	} {
		m[p] = entry
	}
}

func parseTrades(ctx *common.Context, dexCtx core.DexContext, instrs []*core.ClassifiedInstruction) []core.TradeInfo {
	var trades []core.TradeInfo
	for _, ci := range instrs {
		ix := ci.Ix
		if !ix.IsOuter() {
			continue
		}
		legs := collectLegs(ctx, ix)
		if len(legs) == 0 {
			continue
		}
		if trade := common.MergeRouteLegs(ctx, dexCtx, legs, ix.Idx()); trade != nil {
			trades = append(trades, *trade)
		}
	}
	return trades
}

// collectLegs 收集路由主指令下每个内层程序组的合成结果作为 hop。
func collectLegs(ctx *common.Context, routeIx *core.AdaptedInstruction) []common.RouteLeg {
	var legs []common.RouteLeg
	seen := make(map[string]bool, 4)

	for _, ix := range ctx.View.Instructions {
		if ix.IxIndex != routeIx.IxIndex || ix.InnerIndex == 0 {
			continue
		}
		if consts.IsSystemProgram(ix.ProgramID) || consts.IsVaultProgram(ix.ProgramID) {
			continue
		}
		key := ledger.GroupKey(ix.ProgramID.String(), ix.IxIndex, ix.InnerIndex)
		if seen[key] {
			continue
		}
		seen[key] = true

		group := ctx.Ledger.Group(key)
		if len(group) == 0 {
			continue
		}
		hop, err := ctx.Ledger.SynthesizeTrade(group, common.DexContextOf(ix.ProgramID))
		if err != nil {
			logger.Debugf("route hop skipped: %v, program=%s, tx=%s", err, ix.ProgramID, ctx.Signature())
			continue
		}
		legs = append(legs, common.RouteLeg{
			Amm:            hop.Amm,
			InputMint:      hop.InputToken.Mint,
			InputAmount:    hop.InputToken.RawUint64(),
			InputDecimals:  hop.InputToken.Decimals,
			OutputMint:     hop.OutputToken.Mint,
			OutputAmount:   hop.OutputToken.RawUint64(),
			OutputDecimals: hop.OutputToken.Decimals,
		})
	}
	return legs
}
