package pumpfun

import (
	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/decoder"
	"dex-parser-sol/internal/parser/common"
	"dex-parser-sol/internal/types"
)

// 来源: https://github.com/pump-fun/pump-public-docs (IDL)
const (
	Create  = 0x181ec828051c0777
	Buy     = 0x66063d1201daebea
	Sell    = 0x33e685a4017f83ad
	Migrate = 0x9beae792ec9ea21e

	// self-CPI 事件
	TradeEventID    = 0xbddb7fd34ee661ee
	CreateEventID   = 0x1b72a94ddeeb6376
	CompleteEventID = 0x5f72619cd42e9808
)

// RegisterHandlers 注册 Pumpfun（bonding curve）的所有指令处理逻辑
func RegisterHandlers(m map[types.Pubkey]*common.Entry) {
	m[consts.PumpFunProgram] = &common.Entry{
		Trade:     parseTrades,
		Liquidity: parseLiquidity,
	}
}

func parseTrades(ctx *common.Context, dexCtx core.DexContext, instrs []*core.ClassifiedInstruction) []core.TradeInfo {
	var trades []core.TradeInfo
	for _, ci := range instrs {
		ix := ci.Ix
		tag, ok := decoder.U64Tag(ix.Data)
		if !ok || (tag != Buy && tag != Sell) {
			continue
		}
		if trade := extractSwap(ctx, dexCtx, ix, tag == Buy); trade != nil {
			trades = append(trades, *trade)
		}
	}
	return trades
}

func parseLiquidity(ctx *common.Context, instrs []*core.ClassifiedInstruction) []core.PoolEvent {
	var events []core.PoolEvent
	for _, ci := range instrs {
		ix := ci.Ix
		if !decoder.MatchU64(ix.Data, Create) {
			continue
		}
		if event := extractCreate(ctx, ix); event != nil {
			events = append(events, *event)
		}
	}
	return events
}
