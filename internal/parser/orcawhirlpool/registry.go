package orcawhirlpool

import (
	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/decoder"
	"dex-parser-sol/internal/parser/common"
	"dex-parser-sol/internal/types"
)

// 来源: https://github.com/orca-so/whirlpools/blob/main/programs/whirlpool/src/lib.rs
const (
	Swap                = 0xf8c69e91e17587c8
	SwapV2              = 0x2b04ed0b1ac91e62
	InitializePool      = 0x5fb40aac54aee828
	InitializePoolV2    = 0xcf2d57f21b3fcc43
	IncreaseLiquidity   = 0x2e9cf3760dcdfbb2
	IncreaseLiquidityV2 = 0x851d59df45eeb00a
	DecreaseLiquidity   = 0xa026d06f685b2c01
	DecreaseLiquidityV2 = 0x3a7fbc3e4f52c460
)

// RegisterHandlers 注册 OrcaWhirlpool 的所有指令处理逻辑
func RegisterHandlers(m map[types.Pubkey]*common.Entry) {
	m[consts.OrcaWhirlpoolProgram] = &common.Entry{
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
		case InitializePool:
			event = common.PoolEventFromGroup(ctx, core.PoolCreate, ix, &initializePoolLayout, "OrcaWhirlpool")
		case InitializePoolV2:
			event = common.PoolEventFromGroup(ctx, core.PoolCreate, ix, &initializePoolV2Layout, "OrcaWhirlpool")
		case IncreaseLiquidity:
			event = common.PoolEventFromGroup(ctx, core.PoolAdd, ix, &increaseLayout, "OrcaWhirlpool")
		case IncreaseLiquidityV2:
			event = common.PoolEventFromGroup(ctx, core.PoolAdd, ix, &increaseV2Layout, "OrcaWhirlpool")
		case DecreaseLiquidity:
			event = common.PoolEventFromGroup(ctx, core.PoolRemove, ix, &decreaseLayout, "OrcaWhirlpool")
		case DecreaseLiquidityV2:
			event = common.PoolEventFromGroup(ctx, core.PoolRemove, ix, &decreaseV2Layout, "OrcaWhirlpool")
		}
		if event != nil {
			events = append(events, *event)
		}
	}
	return events
}
