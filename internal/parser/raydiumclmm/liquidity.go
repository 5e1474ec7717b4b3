package raydiumclmm

import "dex-parser-sol/internal/parser/common"

// 来源: https://github.com/raydium-io/raydium-clmm/blob/master/programs/amm/src/instructions
// CLMM 仓位凭证是 NFT，没有 LP mint。

// CreatePool: 指令数据只有 sqrt_price_x64 与 open_time，不含注入金额。
//  0. `[signer]`   pool creator
//  2. `[writable]` pool state
//  3. `[]`         token mint0
//  4. `[]`         token mint1
var createPoolLayout = common.LiquidityLayout{
	MinAccounts: 5,
	PoolIndex:   2,
	LpMintIndex: -1,
	UserIndex:   0,

	Token0MintIndex:    3,
	Token1MintIndex:    4,
	Token0AmountOffset: -1,
	Token1AmountOffset: -1,
}

// OpenPositionV2 指令数据: disc u64 | tick 下标 4×i32 | liquidity u128 | amount0Max u64 | amount1Max u64
var openPositionV2Layout = common.LiquidityLayout{
	MinAccounts: 22,
	PoolIndex:   5,
	LpMintIndex: -1,
	UserIndex:   0,

	Token0MintIndex:    20,
	Token1MintIndex:    21,
	Token0AmountOffset: 40,
	Token1AmountOffset: 48,
}

var openPositionNftLayout = common.LiquidityLayout{
	MinAccounts: 20,
	PoolIndex:   4,
	LpMintIndex: -1,
	UserIndex:   0,

	Token0MintIndex:    18,
	Token1MintIndex:    19,
	Token0AmountOffset: 40,
	Token1AmountOffset: 48,
}

// IncreaseLiquidity 指令数据: disc u64 | liquidity u128 | amount0Max u64 | amount1Max u64
var increaseLayout = common.LiquidityLayout{
	MinAccounts: 3,
	PoolIndex:   2,
	LpMintIndex: -1,
	UserIndex:   0,

	Token0MintIndex:    -1,
	Token1MintIndex:    -1,
	Token0AmountOffset: -1,
	Token1AmountOffset: -1,
}

var increaseV2Layout = common.LiquidityLayout{
	MinAccounts: 15,
	PoolIndex:   2,
	LpMintIndex: -1,
	UserIndex:   0,

	Token0MintIndex:    13,
	Token1MintIndex:    14,
	Token0AmountOffset: 24,
	Token1AmountOffset: 32,
}

var decreaseLayout = common.LiquidityLayout{
	MinAccounts: 4,
	PoolIndex:   3,
	LpMintIndex: -1,
	UserIndex:   0,

	Token0MintIndex:    -1,
	Token1MintIndex:    -1,
	Token0AmountOffset: -1,
	Token1AmountOffset: -1,
}

var decreaseV2Layout = common.LiquidityLayout{
	MinAccounts: 16,
	PoolIndex:   3,
	LpMintIndex: -1,
	UserIndex:   0,

	Token0MintIndex:    14,
	Token1MintIndex:    15,
	Token0AmountOffset: 24,
	Token1AmountOffset: 32,
}
