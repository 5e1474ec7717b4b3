package core

import (
	"encoding/json"
	"fmt"
	"strconv"

	"dex-parser-sol/internal/types"
)

// ParsedFields 表示 jsonParsed 编码下 RPC 已解析出的指令字段。
// compiled 编码下为 nil，此时 Data 携带原始指令字节。
type ParsedFields struct {
	Program string         // 如 "spl-token"
	Type    string         // 如 "transfer" / "transferChecked"
	Info    map[string]any // 指令参数，保持 RPC 原始键名
}

// Str 读取 Info 中的字符串字段，缺失或类型不符返回 false。
func (p *ParsedFields) Str(key string) (string, bool) {
	if p == nil || p.Info == nil {
		return "", false
	}
	s, ok := p.Info[key].(string)
	return s, ok
}

// Uint64 读取 Info 中的整数字段，兼容 RPC 输出的数字与十进制字符串两种形态。
func (p *ParsedFields) Uint64(key string) (uint64, bool) {
	if p == nil || p.Info == nil {
		return 0, false
	}
	switch v := p.Info[key].(type) {
	case string:
		n, err := strconv.ParseUint(v, 10, 64)
		return n, err == nil
	case float64:
		return uint64(v), true
	case json.Number:
		n, err := strconv.ParseUint(v.String(), 10, 64)
		return n, err == nil
	}
	return 0, false
}

// TokenAmount 读取 Info["tokenAmount"]（transferChecked 等 checked 指令携带）。
func (p *ParsedFields) TokenAmount() (raw uint64, decimals uint8, ok bool) {
	if p == nil || p.Info == nil {
		return 0, 0, false
	}
	ta, isMap := p.Info["tokenAmount"].(map[string]any)
	if !isMap {
		return 0, 0, false
	}
	amountStr, isStr := ta["amount"].(string)
	if !isStr {
		return 0, 0, false
	}
	raw, err := strconv.ParseUint(amountStr, 10, 64)
	if err != nil {
		return 0, 0, false
	}
	d, isNum := ta["decimals"].(float64)
	if !isNum {
		return 0, 0, false
	}
	return raw, uint8(d), true
}

// AdaptedInstruction 表示一条主指令或 inner 指令，已在归一化阶段展平并补充位置信息。
// 两种交易编码（compiled / jsonParsed）统一落到该结构，下游解析器不再感知编码差异。
type AdaptedInstruction struct {
	IxIndex    uint16         // 主指令索引（从 0 开始）
	InnerIndex uint16         // Inner 指令在主指令中的序号，主指令本身为 0，CPI 调用从 1 开始
	ProgramID  types.Pubkey   // 指令对应的程序 ID
	Accounts   []types.Pubkey // 指令涉及的账户列表，保持原始顺序
	Data       []byte         // 指令原始数据；jsonParsed 编码下可能为空
	Parsed     *ParsedFields  // jsonParsed 编码下的已解析字段；compiled 编码为 nil
}

// Idx 指令位置标识 "主指令索引-inner索引"，是 TransferAction 与事件之间唯一的关联键。
func (ix *AdaptedInstruction) Idx() string {
	return fmt.Sprintf("%d-%d", ix.IxIndex, ix.InnerIndex)
}

// IsOuter 是否为主指令。
func (ix *AdaptedInstruction) IsOuter() bool {
	return ix.InnerIndex == 0
}

// ClassifiedInstruction 表示按 ProgramID 归类后的指令条目。
// 每条指令恰好归入一个程序的 bucket，顺序为链上执行顺序。
type ClassifiedInstruction struct {
	Ix        *AdaptedInstruction
	ProgramID types.Pubkey
}
