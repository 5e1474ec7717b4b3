package raydiumv4

import "dex-parser-sol/internal/parser/common"

// 来源: https://github.com/raydium-io/raydium-amm/blob/master/program/src/instruction.rs
//
// Initialize2 指令账户布局（节选）：
//  4. `[writable]` AMM 主账户（池子地址）
//  7. `[writable]` LP mint
//  8. `[]`         coin mint
//  9. `[]`         pc mint
//  17. `[signer]`   用户钱包
//
// 指令数据: tag u8 | nonce u8 | open_time u64 | init_pc_amount u64 | init_coin_amount u64
var initialize2Layout = common.LiquidityLayout{
	MinAccounts: 18,
	PoolIndex:   4,
	LpMintIndex: 7,
	UserIndex:   17,

	Token0MintIndex:    8,
	Token1MintIndex:    9,
	Token0AmountOffset: 18,
	Token1AmountOffset: 10,
}

// Deposit 指令账户布局（节选）：
//  1. `[writable]` AMM 主账户
//  5. `[writable]` LP mint
//  12. `[signer]`   用户钱包
//
// 账户列表不含 coin/pc mint，金额只能来自转账 leg。
var depositLayout = common.LiquidityLayout{
	MinAccounts: 13,
	PoolIndex:   1,
	LpMintIndex: 5,
	UserIndex:   12,

	Token0MintIndex:    -1,
	Token1MintIndex:    -1,
	Token0AmountOffset: -1,
	Token1AmountOffset: -1,
}

// Withdraw 指令账户布局（节选）：
//  1. `[writable]` AMM 主账户
//  5. `[writable]` LP mint
//
// 用户钱包位置随 target_orders 是否存在偏移，直接取签名者。
var withdrawLayout = common.LiquidityLayout{
	MinAccounts: 19,
	PoolIndex:   1,
	LpMintIndex: 5,
	UserIndex:   -1,

	Token0MintIndex:    -1,
	Token1MintIndex:    -1,
	Token0AmountOffset: -1,
	Token1AmountOffset: -1,
}
