package ledger

import (
	"fmt"

	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/tx"
	"dex-parser-sol/internal/types"
)

// Ledger 转账台账：把交易内所有代币移动指令按"归属组"对账后的结果。
// 组键为 "<programId>:<outerIndex>[-<innerIndex>]"，同组转账归属同一个逻辑操作
// （一次 swap、一次加仓），是各协议解析器取数的基础。
type Ledger struct {
	view   *tx.TxView
	groups map[string][]*core.TransferAction
	keys   []string // 组键首次出现顺序

	rawAmount bool
	wanted    map[string]bool // 参与分类的转账类型
}

// Build 构建台账。默认仅分类 transfer / transferChecked；
// 流动性解析器可通过 extraTypes 追加 mintTo / burn 及 checked 变体（LP 铸造与销毁）。
func Build(view *tx.TxView, rawAmount bool, extraTypes ...string) *Ledger {
	l := &Ledger{
		view:      view,
		groups:    make(map[string][]*core.TransferAction, 8),
		rawAmount: rawAmount,
		wanted: map[string]bool{
			core.TransferTypeTransfer:        true,
			core.TransferTypeTransferChecked: true,
		},
	}
	for _, t := range extraTypes {
		l.wanted[t] = true
	}
	l.build()
	return l
}

// build 单次线性扫描扁平指令列表完成分组与分类。
//
// 分组规则：主指令以自身程序开组；inner 指令若属于系统程序或指定的 vault
// 包装程序，归入当前组（vault 内部的 CPI 转账仍应记在发起它的 DEX 名下）；
// 否则以该 inner 指令自身的程序开新组，并且新组键在本主指令剩余的 inner
// 序列中持续生效 —— 防止把被调子程序的转账错记到调用方头上。
func (l *Ledger) build() {
	var currentKey string

	for _, ix := range l.view.Instructions {
		if ix.IsOuter() {
			currentKey = GroupKey(ix.ProgramID.String(), ix.IxIndex, 0)
		} else if !consts.IsSystemProgram(ix.ProgramID) && !consts.IsVaultProgram(ix.ProgramID) {
			currentKey = GroupKey(ix.ProgramID.String(), ix.IxIndex, ix.InnerIndex)
		}

		action, ok := l.classify(ix)
		if !ok {
			continue
		}
		if _, exists := l.groups[currentKey]; !exists {
			l.keys = append(l.keys, currentKey)
		}
		l.groups[currentKey] = append(l.groups[currentKey], action)
	}
}

// GroupKey 组键 "<programId>:<outerIndex>[-<innerIndex>]"，innerIndex 为 0 时省略后缀。
func GroupKey(programID string, ixIndex, innerIndex uint16) string {
	if innerIndex == 0 {
		return fmt.Sprintf("%s:%d", programID, ixIndex)
	}
	return fmt.Sprintf("%s:%d-%d", programID, ixIndex, innerIndex)
}

// Group 按组键取转账列表，无则为 nil。
func (l *Ledger) Group(key string) []*core.TransferAction {
	return l.groups[key]
}

// GroupFor 返回指定指令开启的组：主指令取 "prog:ix"，inner 指令取 "prog:ix-inner"。
func (l *Ledger) GroupFor(ix *core.AdaptedInstruction) []*core.TransferAction {
	return l.groups[GroupKey(ix.ProgramID.String(), ix.IxIndex, ix.InnerIndex)]
}

// ProgramGroups 返回归属指定程序的全部组，按出现顺序。
func (l *Ledger) ProgramGroups(programID types.Pubkey) [][]*core.TransferAction {
	prefix := programID.String() + ":"
	var out [][]*core.TransferAction
	for _, key := range l.keys {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			out = append(out, l.groups[key])
		}
	}
	return out
}

// ProgramTransfers 返回归属指定程序的全部转账（跨组展平，保持顺序）。
func (l *Ledger) ProgramTransfers(programID types.Pubkey) []*core.TransferAction {
	var out []*core.TransferAction
	for _, group := range l.ProgramGroups(programID) {
		out = append(out, group...)
	}
	return out
}

// All 返回台账内全部转账，按组首次出现顺序展平。
func (l *Ledger) All() []*core.TransferAction {
	var out []*core.TransferAction
	for _, key := range l.keys {
		out = append(out, l.groups[key]...)
	}
	return out
}
