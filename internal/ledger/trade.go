package ledger

import (
	"errors"

	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/tools"
)

// ErrInsufficientUniqueTokens swap 合成失败：转账组内不足 2 种 mint，
// 说明这些 leg 并不构成一次兑换。该候选交易被丢弃，不影响其余解析。
var ErrInsufficientUniqueTokens = errors.New("insufficient unique tokens for swap synthesis")

// SynthesizeTrade 从一组转账 leg 合成 swap 事件。
// 适用于无自描述事件的协议以及未注册程序的兜底推断。
//
// 算法：
//  1. 按首次出现顺序提取 mint 去重序列，不足 2 种则失败；
//  2. input 取第一种、output 取最后一种；若 output 首个 leg 的 source 是签名者，
//     说明朴素顺序猜反了（最后出现的其实是签名者付出的资产），对调 input/output。
//     注意：该启发式对经过中间 PDA 的 3+ leg 交易并非处处成立，此处沿用以保持
//     与历史输出兼容；
//  3. 按 mint 汇总金额，(mint, uiAmount) 相同的 leg 只计一次 —— 同一笔转移可能
//     被底层程序以 transfer 与 transferChecked 各上报一次；
//  4. input mint 为报价资产推导为 BUY，否则 SELL。
func (l *Ledger) SynthesizeTrade(transfers []*core.TransferAction, dexCtx core.DexContext) (*core.TradeInfo, error) {
	// 1. mint 去重序列
	var uniqueMints []string
	seen := make(map[string]bool, 4)
	for _, t := range transfers {
		if !seen[t.Info.Mint] {
			seen[t.Info.Mint] = true
			uniqueMints = append(uniqueMints, t.Info.Mint)
		}
	}
	if len(uniqueMints) < 2 {
		return nil, ErrInsufficientUniqueTokens
	}

	inputMint := uniqueMints[0]
	outputMint := uniqueMints[len(uniqueMints)-1]

	// 2. 方向校正
	signer := l.view.Signer().String()
	for _, t := range transfers {
		if t.Info.Mint == outputMint {
			if t.Info.Source == signer {
				inputMint, outputMint = outputMint, inputMint
			}
			break
		}
	}

	// 3. 金额汇总（按 (mint, uiAmount) 去重）
	var (
		inputAmount, outputAmount     uint64
		inputDecimals, outputDecimals uint8
		inputSet, outputSet           bool
	)
	counted := make(map[string]map[float64]bool, 2)
	for _, t := range transfers {
		mint := t.Info.Mint
		if mint != inputMint && mint != outputMint {
			continue
		}
		if counted[mint] == nil {
			counted[mint] = make(map[float64]bool, 2)
		}
		if counted[mint][t.Info.TokenAmount.UiAmount] {
			continue
		}
		counted[mint][t.Info.TokenAmount.UiAmount] = true

		if mint == inputMint {
			inputAmount += t.Info.TokenAmount.RawUint64()
			if !inputSet {
				inputDecimals, inputSet = t.Info.TokenAmount.Decimals, true
			}
		} else {
			outputAmount += t.Info.TokenAmount.RawUint64()
			if !outputSet {
				outputDecimals, outputSet = t.Info.TokenAmount.Decimals, true
			}
		}
	}

	// 4. 方向推导
	tradeType := core.TradeSell
	if tools.IsQuoteMintStr(inputMint) {
		tradeType = core.TradeBuy
	}

	return &core.TradeInfo{
		Type:        tradeType,
		InputToken:  core.NewTokenAmount(inputMint, inputAmount, inputDecimals, l.rawAmount),
		OutputToken: core.NewTokenAmount(outputMint, outputAmount, outputDecimals, l.rawAmount),
		User:        signer,
		ProgramID:   dexCtx.ProgramID,
		Amm:         dexCtx.Amm,
		Route:       dexCtx.Route,
		Slot:        l.view.Slot,
		Timestamp:   l.view.BlockTime,
		Signature:   l.view.Signature,
		Idx:         transfers[0].Idx,
	}, nil
}
