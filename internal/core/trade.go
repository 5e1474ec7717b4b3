package core

import (
	"strconv"

	"dex-parser-sol/internal/tools"
)

// TradeType 交易方向。BUY 表示用 quote 资产换取项目代币，SELL 相反。
// 方向由 input mint 是否为内置报价资产推导，不独立存储。
type TradeType string

const (
	TradeBuy  TradeType = "BUY"
	TradeSell TradeType = "SELL"
)

// TokenAmount 金额三元组：raw 最小单位字符串 + UI 数值 + 精度。
type TokenAmount struct {
	Mint     string  `json:"mint"`
	Amount   string  `json:"amount"`   // 最小单位十进制字符串
	UiAmount float64 `json:"uiAmount"` // Amount / 10^Decimals；rawAmount 模式下为原始整数值
	Decimals uint8   `json:"decimals"`
}

// NewTokenAmount 构造 TokenAmount。rawMode 为 true 时 UiAmount 不做精度折算。
func NewTokenAmount(mint string, raw uint64, decimals uint8, rawMode bool) TokenAmount {
	ui := float64(raw)
	if !rawMode {
		ui = float64(raw) / tools.Pow10(decimals)
	}
	return TokenAmount{
		Mint:     mint,
		Amount:   strconv.FormatUint(raw, 10),
		UiAmount: ui,
		Decimals: decimals,
	}
}

// RawUint64 解析 raw 金额，解析失败返回 0。
func (a TokenAmount) RawUint64() uint64 {
	v, _ := strconv.ParseUint(a.Amount, 10, 64)
	return v
}

// TradeInfo 一笔归一化的 swap 事件。
type TradeInfo struct {
	Type        TradeType    `json:"type"`
	InputToken  TokenAmount  `json:"inputToken"`  // 用户付出的资产
	OutputToken TokenAmount  `json:"outputToken"` // 用户得到的资产
	Fee         *TokenAmount `json:"fee,omitempty"`
	User        string       `json:"user"`
	ProgramID   string       `json:"programId,omitempty"`
	Amm         string       `json:"amm,omitempty"`   // 直接流动性场所名
	Route       string       `json:"route,omitempty"` // 聚合器 / 机器人名，与 Amm 互斥
	Slot        uint64       `json:"slot"`
	Timestamp   int64        `json:"timestamp"`
	Signature   string       `json:"signature"`
	Idx         string       `json:"idx"` // 指令位置标识，与 TransferAction.Idx 对应
}

// DexContext 当前解析的程序上下文。Amm 与 Route 由注册表 tag 推导，互斥。
type DexContext struct {
	ProgramID string
	Amm       string
	Route     string
}
