package raydiumcpmm

import (
	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/decoder"
	"dex-parser-sol/internal/parser/common"
	"dex-parser-sol/internal/types"
)

// 来源: https://github.com/raydium-io/raydium-cp-swap/blob/master/programs/cp-swap/src/lib.rs
const (
	Initialize    = 0xafaf6d1f0d989bed
	Deposit       = 0xf223c68952e1f2b6
	Withdraw      = 0xb712469c946da122
	SwapBaseInput = 0x8fbe5adac41e33de
	SwapBaseOut   = 0x37d96256a34ab4ad
)

// RegisterHandlers 注册 RaydiumCPMM 的所有指令处理逻辑
func RegisterHandlers(m map[types.Pubkey]*common.Entry) {
	m[consts.RaydiumCPMMProgram] = &common.Entry{
		Trade:     parseTrades,
		Liquidity: parseLiquidity,
	}
}

func isSwapIx(ix *core.AdaptedInstruction) bool {
	return decoder.MatchU64(ix.Data, SwapBaseInput) || decoder.MatchU64(ix.Data, SwapBaseOut)
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
		case Initialize:
			event = common.PoolEventFromGroup(ctx, core.PoolCreate, ix, &initializeLayout, "RaydiumCPMM")
		case Deposit:
			event = common.PoolEventFromGroup(ctx, core.PoolAdd, ix, &depositLayout, "RaydiumCPMM")
		case Withdraw:
			event = common.PoolEventFromGroup(ctx, core.PoolRemove, ix, &withdrawLayout, "RaydiumCPMM")
		}
		if event != nil {
			events = append(events, *event)
		}
	}
	return events
}
