package core

import "dex-parser-sol/internal/types"

// SolBalance 记录某账户在交易中 SOL 余额的变动快照（含执行前后余额）。
type SolBalance struct {
	Account     types.Pubkey
	PreBalance  uint64 // 交易执行前余额（lamports）
	PostBalance uint64 // 交易执行后余额
}

// Delta 余额变化量（post - pre），可能为负。
func (b *SolBalance) Delta() int64 {
	return int64(b.PostBalance) - int64(b.PreBalance)
}

// TokenBalance 表示某个 SPL Token 账户在交易执行前后的余额信息。
type TokenBalance struct {
	TokenAccount types.Pubkey
	Token        types.Pubkey // mint 地址
	Decimals     uint8
	HasPre       bool
	PreBalance   uint64 // 交易执行前余额（最小单位）
	PostBalance  uint64 // 交易执行后余额
	PreOwner     types.Pubkey
	PostOwner    types.Pubkey
}

// Delta 余额变化量（post - pre），可能为负。
func (b *TokenBalance) Delta() int64 {
	return int64(b.PostBalance) - int64(b.PreBalance)
}

// TokenMeta 表示 TokenAccount → {mint, decimals} 的归属信息。
// 来源优先级：post 余额快照 → pre 余额快照 → 转账类指令扫描 → SOL/9 兜底。
type TokenMeta struct {
	Mint     types.Pubkey
	Decimals uint8
	Owner    types.Pubkey // 未知时为零值
}

// TokenDecimals 表示某 mint 的精度信息。
// 单笔交易涉及的 mint 数量极少（通常 2~3 个），顺序查找比 map 更划算。
type TokenDecimals struct {
	Token    types.Pubkey
	Decimals uint8
}
