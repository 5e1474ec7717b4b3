package pumpfunamm

import (
	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/decoder"
	"dex-parser-sol/internal/parser/common"
	"dex-parser-sol/internal/types"
)

// 来源: https://github.com/pump-fun/pump-public-docs (pump_amm IDL)
const (
	Buy        = 0x66063d1201daebea
	Sell       = 0x33e685a4017f83ad
	CreatePool = 0xe992d18ecf6840bc
	Deposit    = 0xf223c68952e1f2b6
	Withdraw   = 0xb712469c946da122

	// self-CPI 事件
	BuyEventID        = 0x67f4521f2cf57777
	SellEventID       = 0x3e2f370aa503dc2a
	CreatePoolEventID = 0xb1310cd2a076a774
	DepositEventID    = 0x78f83d531f8e6b90
	WithdrawEventID   = 0x1609851aa02c47c0
)

// RegisterHandlers 注册 PumpfunAMM（pump swap）的所有指令处理逻辑
func RegisterHandlers(m map[types.Pubkey]*common.Entry) {
	m[consts.PumpFunAMMProgram] = &common.Entry{
		Trade:     parseTrades,
		Liquidity: parseLiquidity,
	}
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
			event = common.PoolEventFromGroup(ctx, core.PoolCreate, ix, &createPoolLayout, "PumpfunAMM")
		case Deposit:
			event = common.PoolEventFromGroup(ctx, core.PoolAdd, ix, &depositLayout, "PumpfunAMM")
		case Withdraw:
			event = common.PoolEventFromGroup(ctx, core.PoolRemove, ix, &depositLayout, "PumpfunAMM")
		}
		if event != nil {
			events = append(events, *event)
		}
	}
	return events
}
