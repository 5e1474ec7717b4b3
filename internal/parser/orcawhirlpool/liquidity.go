package orcawhirlpool

import "dex-parser-sol/internal/parser/common"

// 来源: https://github.com/orca-so/whirlpools/tree/main/programs/whirlpool/src/instructions
// Whirlpool 仓位凭证是 NFT，没有 LP mint。

// InitializePool 指令账户布局（节选）：
//  1. `[]`         token mint A
//  2. `[]`         token mint B
//  3. `[signer]`   funder
//  4. `[writable]` whirlpool
//
// 建池不注资，金额兜底不配置。
var initializePoolLayout = common.LiquidityLayout{
	MinAccounts: 5,
	PoolIndex:   4,
	LpMintIndex: -1,
	UserIndex:   3,

	Token0MintIndex:    1,
	Token1MintIndex:    2,
	Token0AmountOffset: -1,
	Token1AmountOffset: -1,
}

// InitializePoolV2: whirlpool 移至 #6，funder 移至 #5。
var initializePoolV2Layout = common.LiquidityLayout{
	MinAccounts: 7,
	PoolIndex:   6,
	LpMintIndex: -1,
	UserIndex:   5,

	Token0MintIndex:    1,
	Token1MintIndex:    2,
	Token0AmountOffset: -1,
	Token1AmountOffset: -1,
}

// IncreaseLiquidity / DecreaseLiquidity 指令账户布局（节选）：
//  0. `[writable]` whirlpool
//  2. `[signer]`   position authority
//
// 指令数据: disc u64 | liquidity u128 | token_max_a u64 | token_max_b u64
var increaseLayout = common.LiquidityLayout{
	MinAccounts: 3,
	PoolIndex:   0,
	LpMintIndex: -1,
	UserIndex:   2,

	Token0MintIndex:    -1,
	Token1MintIndex:    -1,
	Token0AmountOffset: -1,
	Token1AmountOffset: -1,
}

var decreaseLayout = increaseLayout

// V2 变体在 #7/#8 带 token mint A/B，authority 移至 #4。
var increaseV2Layout = common.LiquidityLayout{
	MinAccounts: 9,
	PoolIndex:   0,
	LpMintIndex: -1,
	UserIndex:   4,

	Token0MintIndex:    7,
	Token1MintIndex:    8,
	Token0AmountOffset: 24,
	Token1AmountOffset: 32,
}

var decreaseV2Layout = increaseV2Layout
