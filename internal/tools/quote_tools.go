package tools

import (
	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/types"
)

const (
	WSOLDecimals = 9
	USDCDecimals = 6
	USDTDecimals = 6
)

// USDQuoteMints 表示具有稳定美元价格参考的常用报价币（右对），用于 BUY/SELL 方向判定。
var USDQuoteMints = []types.Pubkey{
	consts.WSOLMint,
	consts.USDCMint,
	consts.USDTMint,
}

// QuoteDecimals 内置报价币的标准精度。
var QuoteDecimals = map[types.Pubkey]uint8{
	consts.WSOLMint: WSOLDecimals,
	consts.USDCMint: USDCDecimals,
	consts.USDTMint: USDTDecimals,
}

// QuotePriority 定义系统内置 quote token 的优先级（数值越小优先级越高）。
var QuotePriority = map[types.Pubkey]int{
	consts.WSOLMint: 1, // 优先级最高，最推荐作为 quote（右对）
	consts.USDCMint: 2,
	consts.USDTMint: 3,

	consts.JitoSOLMint: 101,
	consts.MSOLMint:    102,
	consts.JupSOLMint:  102,
	consts.BSOLMint:    103,
}

// quoteMintStrs 含原生 SOL 哨兵地址的字符串集合，供以字符串承载 mint 的输出层使用。
var quoteMintStrs = func() map[string]bool {
	m := make(map[string]bool, len(QuotePriority)+1)
	for mint := range QuotePriority {
		m[mint.String()] = true
	}
	m[consts.NativeSOLMint.String()] = true
	return m
}()

// IsQuoteMint 判断 mint 是否为内置报价资产（含原生 SOL）。
func IsQuoteMint(p types.Pubkey) bool {
	if p == consts.NativeSOLMint {
		return true
	}
	_, ok := QuotePriority[p]
	return ok
}

// IsQuoteMintStr 字符串版 IsQuoteMint。
func IsQuoteMintStr(mint string) bool {
	return quoteMintStrs[mint]
}

// ChooseQuote 根据 QuotePriority 从交易对的两个 mint 中选出 quote（右对）。
// 返回 false 表示双方都不是内置报价币。
func ChooseQuote(a, b types.Pubkey) (quote types.Pubkey, ok bool) {
	pa, oka := QuotePriority[a]
	pb, okb := QuotePriority[b]

	switch {
	case oka && okb:
		if pa < pb {
			return a, true // a 优先级更高 → 更适合当 quote
		}
		if pb < pa {
			return b, true
		}
	case oka:
		return a, true
	case okb:
		return b, true
	}

	return types.Pubkey{}, false
}
