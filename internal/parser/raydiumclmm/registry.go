package raydiumclmm

import (
	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/decoder"
	"dex-parser-sol/internal/parser/common"
	"dex-parser-sol/internal/types"
)

// 来源: https://github.com/raydium-io/raydium-clmm/blob/master/programs/amm/src/lib.rs
const (
	Swap                       = 0xf8c69e91e17587c8
	SwapV2                     = 0x2b04ed0b1ac91e62
	CreatePool                 = 0xe992d18ecf6840bc
	OpenPositionV2             = 0x4db84ad67056f1c7
	OpenPositionWithToken22Nft = 0x4dffae527d1dc92e
	IncreaseLiquidity          = 0x2e9cf3760dcdfbb2
	IncreaseLiquidityV2        = 0x851d59df45eeb00a
	DecreaseLiquidity          = 0xa026d06f685b2c01
	DecreaseLiquidityV2        = 0x3a7fbc3e4f52c460
)

// RegisterHandlers 注册 RaydiumCLMM 的所有指令处理逻辑
func RegisterHandlers(m map[types.Pubkey]*common.Entry) {
	m[consts.RaydiumCLMMProgram] = &common.Entry{
		Trade:     parseTrades,
		Liquidity: parseLiquidity,
	}
}

func isSwapIx(ix *core.AdaptedInstruction) bool {
	return decoder.MatchU64(ix.Data, Swap) || decoder.MatchU64(ix.Data, SwapV2)
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
		case CreatePool:
			event = common.PoolEventFromGroup(ctx, core.PoolCreate, ix, &createPoolLayout, "RaydiumCLMM")
		case OpenPositionV2:
			event = common.PoolEventFromGroup(ctx, core.PoolAdd, ix, &openPositionV2Layout, "RaydiumCLMM")
		case OpenPositionWithToken22Nft:
			event = common.PoolEventFromGroup(ctx, core.PoolAdd, ix, &openPositionNftLayout, "RaydiumCLMM")
		case IncreaseLiquidity:
			event = common.PoolEventFromGroup(ctx, core.PoolAdd, ix, &increaseLayout, "RaydiumCLMM")
		case IncreaseLiquidityV2:
			event = common.PoolEventFromGroup(ctx, core.PoolAdd, ix, &increaseV2Layout, "RaydiumCLMM")
		case DecreaseLiquidity:
			event = common.PoolEventFromGroup(ctx, core.PoolRemove, ix, &decreaseLayout, "RaydiumCLMM")
		case DecreaseLiquidityV2:
			event = common.PoolEventFromGroup(ctx, core.PoolRemove, ix, &decreaseV2Layout, "RaydiumCLMM")
		}
		if event != nil {
			events = append(events, *event)
		}
	}
	return events
}
