package raydiumv4

import (
	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/parser/common"
	"dex-parser-sol/internal/types"
)

// 来源: https://github.com/raydium-io/raydium-amm/blob/master/program/src/instruction.rs
const (
	Initialize2 = 1
	Deposit     = 3
	Withdraw    = 4
	SwapBaseIn  = 9
	SwapBaseOut = 11
)

// RegisterHandlers 注册 RaydiumV4 的所有指令处理逻辑
func RegisterHandlers(m map[types.Pubkey]*common.Entry) {
	m[consts.RaydiumV4Program] = &common.Entry{
		Trade:     parseTrades,
		Liquidity: parseLiquidity,
	}
}

func isSwapIx(ix *core.AdaptedInstruction) bool {
	if len(ix.Data) == 0 {
		return false
	}
	return ix.Data[0] == SwapBaseIn || ix.Data[0] == SwapBaseOut
}

func parseTrades(ctx *common.Context, dexCtx core.DexContext, instrs []*core.ClassifiedInstruction) []core.TradeInfo {
	return common.GroupTrades(ctx, dexCtx, instrs, isSwapIx)
}

func parseLiquidity(ctx *common.Context, instrs []*core.ClassifiedInstruction) []core.PoolEvent {
	var events []core.PoolEvent
	for _, ci := range instrs {
		ix := ci.Ix
		if len(ix.Data) == 0 {
			continue
		}
		var event *core.PoolEvent
		switch ix.Data[0] {
		case Initialize2:
			event = common.PoolEventFromGroup(ctx, core.PoolCreate, ix, &initialize2Layout, "RaydiumV4")
		case Deposit:
			event = common.PoolEventFromGroup(ctx, core.PoolAdd, ix, &depositLayout, "RaydiumV4")
		case Withdraw:
			event = common.PoolEventFromGroup(ctx, core.PoolRemove, ix, &withdrawLayout, "RaydiumV4")
		}
		if event != nil {
			events = append(events, *event)
		}
	}
	return events
}
