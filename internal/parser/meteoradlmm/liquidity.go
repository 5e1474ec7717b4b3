package meteoradlmm

import "dex-parser-sol/internal/parser/common"

// 来源: https://github.com/MeteoraAg/dlmm-sdk/tree/main/programs/lb_clmm/src/instructions
// DLMM 仓位按 bin 记账，没有 LP mint。

// InitializePair* 指令账户布局（节选）：
//  0. `[writable]` lb_pair
//  2. `[]`         token mint X
//  3. `[]`         token mint Y
//  8. `[signer]`   funder
var initializePairLayout = common.LiquidityLayout{
	MinAccounts: 9,
	PoolIndex:   0,
	LpMintIndex: -1,
	UserIndex:   8,

	Token0MintIndex:    2,
	Token1MintIndex:    3,
	Token0AmountOffset: -1,
	Token1AmountOffset: -1,
}

// AddLiquidity / ByWeight / ByStrategy 指令账户布局（节选）：
//  1. `[writable]` lb_pair
//  7. `[]`         token mint X
//  8. `[]`         token mint Y
//  11. `[signer]`   sender
//
// 指令数据: disc u64 | amount_x u64 | amount_y u64 | ...
var addLiquidityLayout = common.LiquidityLayout{
	MinAccounts: 12,
	PoolIndex:   1,
	LpMintIndex: -1,
	UserIndex:   11,

	Token0MintIndex:    7,
	Token1MintIndex:    8,
	Token0AmountOffset: 8,
	Token1AmountOffset: 16,
}

// *2 变体精简了账户表，sender 移至 #9。
var addLiquidity2Layout = common.LiquidityLayout{
	MinAccounts: 10,
	PoolIndex:   1,
	LpMintIndex: -1,
	UserIndex:   9,

	Token0MintIndex:    7,
	Token1MintIndex:    8,
	Token0AmountOffset: 8,
	Token1AmountOffset: 16,
}

// 单边注入只有一个 mint（#5），amount 在数据头部。
var addOneSideLayout = common.LiquidityLayout{
	MinAccounts: 9,
	PoolIndex:   1,
	LpMintIndex: -1,
	UserIndex:   8,

	Token0MintIndex:    5,
	Token1MintIndex:    -1,
	Token0AmountOffset: 8,
	Token1AmountOffset: -1,
}

// Remove 系列数据段是 bin 区间参数，取不到金额，只能依赖转账 leg。
var removeLiquidityLayout = common.LiquidityLayout{
	MinAccounts: 12,
	PoolIndex:   1,
	LpMintIndex: -1,
	UserIndex:   11,

	Token0MintIndex:    7,
	Token1MintIndex:    8,
	Token0AmountOffset: -1,
	Token1AmountOffset: -1,
}

var removeLiquidity2Layout = common.LiquidityLayout{
	MinAccounts: 10,
	PoolIndex:   1,
	LpMintIndex: -1,
	UserIndex:   9,

	Token0MintIndex:    7,
	Token1MintIndex:    8,
	Token0AmountOffset: -1,
	Token1AmountOffset: -1,
}
