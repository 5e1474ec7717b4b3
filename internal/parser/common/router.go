package common

import (
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/tools"
	"dex-parser-sol/pkg/logger"
)

// RouteLeg 聚合器单跳：一次底层 AMM 兑换的五元组。
type RouteLeg struct {
	Amm            string
	InputMint      string
	InputAmount    uint64
	InputDecimals  uint8
	OutputMint     string
	OutputAmount   uint64
	OutputDecimals uint8
}

// MergeRouteLegs 多跳归并：
// 按 mint 分别汇总输入与输出；两侧汇总额完全相等的 mint 是中间跳，成对删除。
// 对消后输入与输出各剩恰好一个 mint 才归约为一笔 trade —— 多资产路由存在歧义，
// 宁可不出 trade 也不猜（正确性保护，非尽力而为）。
func MergeRouteLegs(ctx *Context, dexCtx core.DexContext, legs []RouteLeg, idx string) *core.TradeInfo {
	if len(legs) == 0 {
		return nil
	}

	tokenIn := make(map[string]uint64, 2)
	tokenOut := make(map[string]uint64, 2)
	decimals := make(map[string]uint8, 4)

	for _, leg := range legs {
		tokenIn[leg.InputMint] += leg.InputAmount
		tokenOut[leg.OutputMint] += leg.OutputAmount
		if _, ok := decimals[leg.InputMint]; !ok {
			decimals[leg.InputMint] = leg.InputDecimals
		}
		if _, ok := decimals[leg.OutputMint]; !ok {
			decimals[leg.OutputMint] = leg.OutputDecimals
		}
	}

	// 中间跳对消：仅当两侧数额恰好相等
	for mint, in := range tokenIn {
		if out, ok := tokenOut[mint]; ok && in == out {
			delete(tokenIn, mint)
			delete(tokenOut, mint)
		}
	}

	if len(tokenIn) != 1 || len(tokenOut) != 1 {
		logger.Debugf("route merge ambiguous: in=%d, out=%d, route=%s, tx=%s",
			len(tokenIn), len(tokenOut), dexCtx.Route, ctx.Signature())
		return nil
	}

	var inputMint, outputMint string
	var inputAmount, outputAmount uint64
	for mint, amount := range tokenIn {
		inputMint, inputAmount = mint, amount
	}
	for mint, amount := range tokenOut {
		outputMint, outputAmount = mint, amount
	}

	tradeType := core.TradeSell
	if tools.IsQuoteMintStr(inputMint) {
		tradeType = core.TradeBuy
	}

	return &core.TradeInfo{
		Type:        tradeType,
		InputToken:  core.NewTokenAmount(inputMint, inputAmount, decimals[inputMint], ctx.Option.RawAmount),
		OutputToken: core.NewTokenAmount(outputMint, outputAmount, decimals[outputMint], ctx.Option.RawAmount),
		User:        ctx.Signer().String(),
		ProgramID:   dexCtx.ProgramID,
		Route:       dexCtx.Route,
		Slot:        ctx.View.Slot,
		Timestamp:   ctx.View.BlockTime,
		Signature:   ctx.Signature(),
		Idx:         idx,
	}
}
