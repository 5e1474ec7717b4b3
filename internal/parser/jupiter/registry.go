package jupiter

import (
	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/decoder"
	"dex-parser-sol/internal/parser/common"
	"dex-parser-sol/internal/types"
)

// 来源: https://station.jup.ag/docs (Jupiter v6 IDL)
const (
	Route                       = 0xe517cb977ae3ad2a
	SharedAccountsRoute         = 0xc1209b3341d69c81
	ExactOutRoute               = 0xd033ef977b2bed5c
	SharedAccountsExactOutRoute = 0xb0d169a89a7d453e

	// self-CPI 事件，每个底层 AMM hop 一条
	SwapEventID = 0x40c6cde8260871e2
)

// DCA 程序指令（keeper 触发的定投单最终 CPI 到 Jupiter 主程序）
const (
	OpenDcaV2 = 0x8e772b6da2340bb1
	CloseDca  = 0x16072162a8b722f3
)

// RegisterHandlers 注册 Jupiter 聚合器与 DCA 程序。
// DCA 程序本身不产出独立事件：它的换币经由 Jupiter 主程序完成。
// 注册空条目只为挡掉未知程序的兜底合成（开仓注资不是交易）；
// 注资的资金流仍由转账清单兜底输出。
func RegisterHandlers(m map[types.Pubkey]*common.Entry) {
	m[consts.JupiterProgram] = &common.Entry{
		Trade: parseTrades,
	}
	m[consts.JupiterDCAProgram] = &common.Entry{}
}

func isRouteIx(ix *core.AdaptedInstruction) bool {
	tag, ok := decoder.U64Tag(ix.Data)
	if !ok {
		return false
	}
	switch tag {
	case Route, SharedAccountsRoute, ExactOutRoute, SharedAccountsExactOutRoute:
		return true
	}
	return false
}
