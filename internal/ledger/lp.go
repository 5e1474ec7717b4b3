package ledger

import (
	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/tools"
)

// OrderLpLegs 把恰好两条流动性 leg 归一化为 [项目代币, 报价资产] 顺序。
// 各协议的账户排列并不一致，该启发式是所有流动性解析器 token0/token1 赋值的基础：
//   - leg0 为原生 SOL 时对调；
//   - leg0 为报价资产而 leg1 不是时对调。
//
// 非两条 leg 的输入原样返回。
func OrderLpLegs(transfers []*core.TransferAction) []*core.TransferAction {
	if len(transfers) != 2 {
		return transfers
	}
	mint0, mint1 := transfers[0].Info.Mint, transfers[1].Info.Mint

	swap := mint0 == consts.NativeSOLMint.String() ||
		(tools.IsQuoteMintStr(mint0) && !tools.IsQuoteMintStr(mint1))
	if swap {
		return []*core.TransferAction{transfers[1], transfers[0]}
	}
	return transfers
}
