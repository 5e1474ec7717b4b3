package meteoradlmm

import (
	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/decoder"
	"dex-parser-sol/internal/parser/common"
	"dex-parser-sol/internal/types"
)

// 来源: https://github.com/MeteoraAg/dlmm-sdk/blob/main/programs/lb_clmm/src/lib.rs
const (
	Swap                 = 0xf8c69e91e17587c8
	Swap2                = 0x414b3f4ceb5b5b88
	SwapExactOut         = 0xfa49652126cf4bb8
	SwapExactOut2        = 0x2bd7f784893cf351
	SwapWithPriceImpact2 = 0x4a62c0d6b1334b33

	InitializePair2          = 0x493b2478ed536cc6
	InitializeCustomPair     = 0x2e2729876fb7c840
	InitializeCustomPair2    = 0xf349817e3313f16b
	InitializePermissionPair = 0x6c66d555fb033515

	AddLiquidity                  = 0xb59d59438fb63448
	AddLiquidity2                 = 0xe4a24e1c46db7473
	AddLiquidityByWeight          = 0x1c8cee63e7a21595
	AddLiquidityByStrategy        = 0x0703967f94283dc8
	AddLiquidityByStrategy2       = 0x03dd95da6f8d76d5
	AddLiquidityByStrategyOneSide = 0x2905eeaf64e106cd
	AddLiquidityOneSide           = 0x5e9b6797465fdca5
	AddLiquidityOneSidePrecise    = 0xa1c26754ab47fa9a
	AddLiquidityOneSidePrecise2   = 0x2133a3c975627de7

	RemoveLiquidity         = 0x5055d14818ceb16c
	RemoveLiquidity2        = 0xe6d7527ff165e392
	RemoveLiquidityByRange  = 0x1a526698f04a691a
	RemoveLiquidityByRange2 = 0xcc02c391359191cd
	RemoveAllLiquidity      = 0x0a333d2370691855
)

// RegisterHandlers 注册 MeteoraDLMM 的所有指令处理逻辑
func RegisterHandlers(m map[types.Pubkey]*common.Entry) {
	m[consts.MeteoraDLMMProgram] = &common.Entry{
		Trade:     parseTrades,
		Liquidity: parseLiquidity,
	}
}

func isSwapIx(ix *core.AdaptedInstruction) bool {
	tag, ok := decoder.U64Tag(ix.Data)
	if !ok {
		return false
	}
	switch tag {
	case Swap, Swap2, SwapExactOut, SwapExactOut2, SwapWithPriceImpact2:
		return true
	}
	return false
}

func parseTrades(ctx *common.Context, dexCtx core.DexContext, instrs []*core.ClassifiedInstruction) []core.TradeInfo {
	return common.GroupTrades(ctx, dexCtx, instrs, isSwapIx)
}

func parseLiquidity(ctx *common.Context, instrs []*core.ClassifiedInstruction) []core.PoolEvent {
	var events []core.PoolEvent
	for _, ci := range instrs {
		ix := ci.Ix
		tag, ok := decoder.U64Tag(ix.Data)
		if !ok {
			continue
		}
		var event *core.PoolEvent
		switch tag {
		case InitializePair2, InitializeCustomPair, InitializeCustomPair2, InitializePermissionPair:
			event = common.PoolEventFromGroup(ctx, core.PoolCreate, ix, &initializePairLayout, "MeteoraDLMM")
		case AddLiquidity, AddLiquidityByWeight, AddLiquidityByStrategy:
			event = common.PoolEventFromGroup(ctx, core.PoolAdd, ix, &addLiquidityLayout, "MeteoraDLMM")
		case AddLiquidity2, AddLiquidityByStrategy2:
			event = common.PoolEventFromGroup(ctx, core.PoolAdd, ix, &addLiquidity2Layout, "MeteoraDLMM")
		case AddLiquidityByStrategyOneSide, AddLiquidityOneSide, AddLiquidityOneSidePrecise, AddLiquidityOneSidePrecise2:
			event = common.PoolEventFromGroup(ctx, core.PoolAdd, ix, &addOneSideLayout, "MeteoraDLMM")
		case RemoveLiquidity, RemoveLiquidityByRange, RemoveAllLiquidity:
			event = common.PoolEventFromGroup(ctx, core.PoolRemove, ix, &removeLiquidityLayout, "MeteoraDLMM")
		case RemoveLiquidity2, RemoveLiquidityByRange2:
			event = common.PoolEventFromGroup(ctx, core.PoolRemove, ix, &removeLiquidity2Layout, "MeteoraDLMM")
		}
		if event != nil {
			events = append(events, *event)
		}
	}
	return events
}
