package meteorapools

import "dex-parser-sol/internal/parser/common"

// 来源: dynamic-amm program IDL
//
// initializePermissionlessConstantProductPoolWithConfig 账户布局（节选）：
//  0. `[writable]` pool
//  1. `[]`         config
//  2. `[writable]` LP mint
//  3. `[]`         token A mint
//  4. `[]`         token B mint
//  18. `[signer]`   payer
//
// 指令数据: disc u64 | token_a_amount u64 | token_b_amount u64
var createWithConfigLayout = common.LiquidityLayout{
	MinAccounts: 19,
	PoolIndex:   0,
	LpMintIndex: 2,
	UserIndex:   18,

	Token0MintIndex:    3,
	Token1MintIndex:    4,
	Token0AmountOffset: 8,
	Token1AmountOffset: 16,
}

// initializePermissionlessPool[WithFeeTier] 账户布局（节选）：
//  0. `[writable]` pool
//  1. `[writable]` LP mint
//  2. `[]`         token A mint
//  3. `[]`         token B mint
//
// 数据头部是 curve 参数，金额偏移随 curve 变长，只依赖转账 leg。
var createLayout = common.LiquidityLayout{
	MinAccounts: 4,
	PoolIndex:   0,
	LpMintIndex: 1,
	UserIndex:   -1,

	Token0MintIndex:    2,
	Token1MintIndex:    3,
	Token0AmountOffset: -1,
	Token1AmountOffset: -1,
}

// add/remove(Balance|Imbalance|SingleSide)Liquidity 账户布局（节选）：
//  0. `[writable]` pool
//  1. `[writable]` LP mint
//  13. `[signer]`   user
//
// 账户表不含 token mint，金额来自转账 leg。
var balanceLiquidityLayout = common.LiquidityLayout{
	MinAccounts: 14,
	PoolIndex:   0,
	LpMintIndex: 1,
	UserIndex:   13,

	Token0MintIndex:    -1,
	Token1MintIndex:    -1,
	Token0AmountOffset: -1,
	Token1AmountOffset: -1,
}
