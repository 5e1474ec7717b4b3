package raydiumcpmm

import "dex-parser-sol/internal/parser/common"

// 来源: https://github.com/raydium-io/raydium-cp-swap/blob/master/programs/cp-swap/src/instructions
//
// Initialize 指令账户布局（节选）：
//  0. `[signer]`   creator
//  3. `[writable]` pool state
//  4. `[]`         token0 mint
//  5. `[]`         token1 mint
//  6. `[writable]` LP mint
//
// 指令数据: disc u64 | init_amount_0 u64 | init_amount_1 u64 | open_time u64
var initializeLayout = common.LiquidityLayout{
	MinAccounts: 7,
	PoolIndex:   3,
	LpMintIndex: 6,
	UserIndex:   0,

	Token0MintIndex:    4,
	Token1MintIndex:    5,
	Token0AmountOffset: 8,
	Token1AmountOffset: 16,
}

// Deposit 指令账户布局（节选）：
//  0. `[signer]`   owner
//  2. `[writable]` pool state
//  10. `[]`         token0 vault mint
//  11. `[]`         token1 vault mint
//  12. `[writable]` LP mint
//
// 指令数据: disc u64 | lp_token_amount u64 | maximum_token_0_amount u64 | maximum_token_1_amount u64
var depositLayout = common.LiquidityLayout{
	MinAccounts: 13,
	PoolIndex:   2,
	LpMintIndex: 12,
	UserIndex:   0,

	Token0MintIndex:    10,
	Token1MintIndex:    11,
	Token0AmountOffset: 16,
	Token1AmountOffset: 24,
}

// Withdraw 与 Deposit 布局一致，数据段为 lp_token_amount | minimum_token_0 | minimum_token_1。
var withdrawLayout = common.LiquidityLayout{
	MinAccounts: 13,
	PoolIndex:   2,
	LpMintIndex: 12,
	UserIndex:   0,

	Token0MintIndex:    10,
	Token1MintIndex:    11,
	Token0AmountOffset: 16,
	Token1AmountOffset: 24,
}
