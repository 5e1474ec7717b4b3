package common

import (
	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/ledger"
	"dex-parser-sol/internal/tx"
	"dex-parser-sol/internal/types"
)

// Context 单笔交易解析的共享上下文，构建一次后在所有协议解析器间传递。
type Context struct {
	View   *tx.TxView
	Ledger *ledger.Ledger
	Option core.Option
}

// Signature 交易签名。
func (c *Context) Signature() string {
	return c.View.Signature
}

// Signer 有效签名者（含 DCA 交易的第三账户规则）。
func (c *Context) Signer() types.Pubkey {
	return c.View.Signer()
}

// DexContextOf 由程序注册表推导解析上下文：
// 直接流动性场所填 Amm，聚合器 / 交易机器人填 Route，两者互斥。
func DexContextOf(programID types.Pubkey) core.DexContext {
	dexCtx := core.DexContext{ProgramID: programID.String()}
	if info, ok := consts.LookupDex(programID); ok {
		if info.IsRoute() {
			dexCtx.Route = info.Name
		} else {
			dexCtx.Amm = info.Name
		}
	}
	return dexCtx
}

// TradeFunc 协议交易解析入口：返回该程序在本笔交易中产生的全部 swap。
type TradeFunc func(ctx *Context, dexCtx core.DexContext, instrs []*core.ClassifiedInstruction) []core.TradeInfo

// LiquidityFunc 协议流动性解析入口。
type LiquidityFunc func(ctx *Context, instrs []*core.ClassifiedInstruction) []core.PoolEvent

// Entry 一个程序的解析器注册项，Trade / Liquidity 均可缺省。
type Entry struct {
	Trade     TradeFunc
	Liquidity LiquidityFunc
}
