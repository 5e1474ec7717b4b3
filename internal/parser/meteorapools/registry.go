package meteorapools

import (
	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/decoder"
	"dex-parser-sol/internal/parser/common"
	"dex-parser-sol/internal/types"
)

// 来源: https://github.com/MeteoraAg/damm-v1-sdk (dynamic-amm program IDL)
const (
	Swap = 0xf8c69e91e17587c8

	InitializePermissionlessPool            = 0x76ad299dad486167
	InitializePermissionlessPoolWithFeeTier = 0x06874493e552a971
	InitializePermissionlessCpPoolConfig    = 0x07a68aabceabecf4
	InitializePermissionlessCpPoolConfig2   = 0x3095dc823d0b09b2

	AddBalanceLiquidity       = 0xa8e3323ebdab54b0
	AddImbalanceLiquidity     = 0x4f237a54ad0f5dbf
	BootstrapLiquidity        = 0x04e4d747e1fd77ce
	RemoveBalanceLiquidity    = 0x856d2cb338ee7221
	RemoveSingleSideLiquidity = 0x45ff4056f063096b
)

// RegisterHandlers 注册 MeteoraPools（dynamic AMM）的所有指令处理逻辑
func RegisterHandlers(m map[types.Pubkey]*common.Entry) {
	m[consts.MeteoraPoolsProgram] = &common.Entry{
		Trade:     parseTrades,
		Liquidity: parseLiquidity,
	}
}

func isSwapIx(ix *core.AdaptedInstruction) bool {
	return decoder.MatchU64(ix.Data, Swap)
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
		case InitializePermissionlessCpPoolConfig, InitializePermissionlessCpPoolConfig2:
			event = common.PoolEventFromGroup(ctx, core.PoolCreate, ix, &createWithConfigLayout, "MeteoraPools")
		case InitializePermissionlessPool, InitializePermissionlessPoolWithFeeTier:
			event = common.PoolEventFromGroup(ctx, core.PoolCreate, ix, &createLayout, "MeteoraPools")
		case AddBalanceLiquidity, AddImbalanceLiquidity, BootstrapLiquidity:
			event = common.PoolEventFromGroup(ctx, core.PoolAdd, ix, &balanceLiquidityLayout, "MeteoraPools")
		case RemoveBalanceLiquidity, RemoveSingleSideLiquidity:
			event = common.PoolEventFromGroup(ctx, core.PoolRemove, ix, &balanceLiquidityLayout, "MeteoraPools")
		}
		if event != nil {
			events = append(events, *event)
		}
	}
	return events
}
