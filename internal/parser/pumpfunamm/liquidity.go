package pumpfunamm

import "dex-parser-sol/internal/parser/common"

// 来源: pump_amm IDL
//
// create_pool 指令账户布局（节选）：
//  0. `[writable]` pool
//  2. `[signer]`   creator
//  3. `[]`         base mint
//  4. `[]`         quote mint
//  5. `[writable]` LP mint
//
// 指令数据: disc u64 | index u16 | base_amount_in u64 | quote_amount_in u64
var createPoolLayout = common.LiquidityLayout{
	MinAccounts: 6,
	PoolIndex:   0,
	LpMintIndex: 5,
	UserIndex:   2,

	Token0MintIndex:    3,
	Token1MintIndex:    4,
	Token0AmountOffset: 10,
	Token1AmountOffset: 18,
}

// deposit / withdraw 布局与 create_pool 一致，数据段为
// lp_token_amount u64 | max(min)_base_amount u64 | max(min)_quote_amount u64。
var depositLayout = common.LiquidityLayout{
	MinAccounts: 6,
	PoolIndex:   0,
	LpMintIndex: 5,
	UserIndex:   2,

	Token0MintIndex:    3,
	Token1MintIndex:    4,
	Token0AmountOffset: 16,
	Token1AmountOffset: 24,
}
