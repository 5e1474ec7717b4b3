package jupiter

import (
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/decoder"
	"dex-parser-sol/internal/parser/common"
	"dex-parser-sol/internal/types"
	"dex-parser-sol/pkg/logger"

	"github.com/near/borsh-go"
)

// JupiterSwapEvent v6 SwapEvent 负载：一条即一个底层 AMM hop。
type JupiterSwapEvent struct {
	Amm          types.Pubkey
	InputMint    types.Pubkey
	InputAmount  uint64
	OutputMint   types.Pubkey
	OutputAmount uint64
}

// 示例交易：
// https://solscan.io/tx/46Jp5EEUrmdCVcE3jeewqUmsMHrzEDBWtakU5BYAuQwCn6FLddG8852zTzFaczUUD3HhyYTEXyo5qJuHgeCi2JPM
//
// parseTrades 对每条 route 指令收集其全部 SwapEvent，
// 按 mint 汇总对消中间 hop，恰好剩一进一出才归约为一笔 trade。
func parseTrades(ctx *common.Context, dexCtx core.DexContext, instrs []*core.ClassifiedInstruction) []core.TradeInfo {
	var trades []core.TradeInfo
	for _, ci := range instrs {
		ix := ci.Ix
		if !isRouteIx(ix) {
			continue
		}
		legs := collectLegs(ctx, ix)
		if len(legs) == 0 {
			logger.Debugf("jupiter route without swap events: tx=%s, idx=%s", ctx.Signature(), ix.Idx())
			continue
		}
		if trade := common.MergeRouteLegs(ctx, dexCtx, legs, ix.Idx()); trade != nil {
			trades = append(trades, *trade)
		}
	}
	return trades
}

func collectLegs(ctx *common.Context, ix *core.AdaptedInstruction) []common.RouteLeg {
	var legs []common.RouteLeg
	for _, eventIx := range common.CollectEvents(ctx, ix, SwapEventID) {
		var event JupiterSwapEvent
		if err := borsh.Deserialize(&event, decoder.EventPayload(eventIx.Data)); err != nil {
			logger.Debugf("jupiter swap event decode: %v, tx=%s", err, ctx.Signature())
			continue
		}
		legs = append(legs, common.RouteLeg{
			Amm:            event.Amm.String(),
			InputMint:      event.InputMint.String(),
			InputAmount:    event.InputAmount,
			InputDecimals:  ctx.View.TokenDecimals(event.InputMint),
			OutputMint:     event.OutputMint.String(),
			OutputAmount:   event.OutputAmount,
			OutputDecimals: ctx.View.TokenDecimals(event.OutputMint),
		})
	}
	return legs
}
