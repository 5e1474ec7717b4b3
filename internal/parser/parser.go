package parser

import (
	"fmt"
	"runtime/debug"

	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/ledger"
	"dex-parser-sol/internal/parser/common"
	"dex-parser-sol/internal/parser/jupiter"
	"dex-parser-sol/internal/parser/meteoradlmm"
	"dex-parser-sol/internal/parser/meteorapools"
	"dex-parser-sol/internal/parser/orcawhirlpool"
	"dex-parser-sol/internal/parser/pumpfun"
	"dex-parser-sol/internal/parser/pumpfunamm"
	"dex-parser-sol/internal/parser/raydiumclmm"
	"dex-parser-sol/internal/parser/raydiumcpmm"
	"dex-parser-sol/internal/parser/raydiumv4"
	"dex-parser-sol/internal/parser/router"
	"dex-parser-sol/internal/tx"
	"dex-parser-sol/internal/types"
	"dex-parser-sol/pkg/logger"
)

// Parser 协议解析器调度表。注册表构建后只读，可被任意 goroutine 并发使用；
// 每次 ParseTransaction 的全部状态（视图、台账、索引）均为调用内新建。
type Parser struct {
	registry map[types.Pubkey]*common.Entry
}

// New 构建完整调度表。
func New() *Parser {
	registry := make(map[types.Pubkey]*common.Entry, 20)
	raydiumv4.RegisterHandlers(registry)
	raydiumcpmm.RegisterHandlers(registry)
	raydiumclmm.RegisterHandlers(registry)
	orcawhirlpool.RegisterHandlers(registry)
	meteoradlmm.RegisterHandlers(registry)
	meteorapools.RegisterHandlers(registry)
	pumpfun.RegisterHandlers(registry)
	pumpfunamm.RegisterHandlers(registry)
	jupiter.RegisterHandlers(registry)
	router.RegisterHandlers(registry)
	return &Parser{registry: registry}
}

// ParseTransaction 解析一笔已规范化的交易。
// 永不向上抛异常：内部 panic 被捕获后 State=false、Msg 带签名与错误，
// 已产出的部分结果原样返回。
func (p *Parser) ParseTransaction(view *tx.TxView, opt core.Option) (result *core.Result) {
	result = &core.Result{State: true}
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("parse panic: %v, tx=%s, stack=%s", r, view.Signature, debug.Stack())
			result.State = false
			result.Msg = fmt.Sprintf("tx=%s: %v", view.Signature, r)
		}
	}()

	// mintTo / burn 参与台账：流动性解析需要 LP 铸造销毁 leg
	l := ledger.Build(view, opt.RawAmount,
		core.TransferTypeMintTo, core.TransferTypeMintToChecked,
		core.TransferTypeBurn, core.TransferTypeBurnChecked)
	idx := tx.BuildInstructionIndex(view)
	ctx := &common.Context{View: view, Ledger: l, Option: opt}

	// 路由 / 聚合器完全接管本笔解析：底层 AMM 的 CPI 不再单独产出，
	// 避免同一笔兑换既记在聚合器又记在每个 hop 上。
	for _, programID := range idx.ProgramIDs() {
		if !consts.IsRouteProgram(programID) || !opt.Allows(programID.String()) {
			continue
		}
		entry := p.registry[programID]
		if entry == nil || entry.Trade == nil {
			continue
		}
		trades := entry.Trade(ctx, common.DexContextOf(programID), idx.ByProgram(programID))
		result.Trades = dedupTrades(trades)
		return result
	}

	// 只有挂了实际解析器的程序才算"触达已知 DEX"。
	// 空注册条目（如 Jupiter DCA）与金库封装程序不计入：
	// DCA 注资这类无事件产出的资金流仍需退化为转账清单。
	knownTouched := false
	for _, programID := range idx.ProgramIDs() {
		if entry := p.registry[programID]; entry != nil && (entry.Trade != nil || entry.Liquidity != nil) {
			knownTouched = true
			break
		}
	}

	for _, programID := range idx.ProgramIDs() {
		if !opt.Allows(programID.String()) {
			continue
		}
		entry := p.registry[programID]
		dexCtx := common.DexContextOf(programID)
		instrs := idx.ByProgram(programID)

		switch {
		case entry != nil && entry.Trade != nil:
			result.Trades = append(result.Trades, entry.Trade(ctx, dexCtx, instrs)...)
		case entry == nil && opt.TryUnknownDEX:
			result.Trades = append(result.Trades, p.unknownDexTrades(ctx, dexCtx, programID)...)
		}
		if entry != nil && entry.Liquidity != nil {
			result.Liquidities = append(result.Liquidities, entry.Liquidity(ctx, instrs)...)
		}
	}

	result.Trades = dedupTrades(result.Trades)

	// 全程未触达已知 DEX 且无事件产出：退化为纯转账清单
	// （覆盖限价单结算、DCA 注资、钱包直转等非 DEX 资金流）
	if len(result.Trades) == 0 && len(result.Liquidities) == 0 && !knownTouched {
		for _, action := range l.All() {
			result.Transfers = append(result.Transfers, *action)
		}
	}
	return result
}

// unknownDexTrades 未注册程序的兜底：其台账组凑满两条 leg 就尝试直接合成。
func (p *Parser) unknownDexTrades(ctx *common.Context, dexCtx core.DexContext, programID types.Pubkey) []core.TradeInfo {
	var trades []core.TradeInfo
	for _, group := range ctx.Ledger.ProgramGroups(programID) {
		if len(group) < 2 {
			continue
		}
		trade, err := ctx.Ledger.SynthesizeTrade(group, dexCtx)
		if err != nil {
			continue
		}
		trades = append(trades, *trade)
	}
	return trades
}

// dedupTrades 按 (idx, signature) 去重，保留首条。
func dedupTrades(trades []core.TradeInfo) []core.TradeInfo {
	if len(trades) < 2 {
		return trades
	}
	seen := make(map[string]bool, len(trades))
	out := trades[:0]
	for _, trade := range trades {
		key := trade.Idx + "|" + trade.Signature
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, trade)
	}
	return out
}
