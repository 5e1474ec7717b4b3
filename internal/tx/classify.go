package tx

import (
	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/types"
)

// InstructionIndex 按 ProgramID 归类后的指令索引。
// 单次线性扫描构建；每条指令恰好落入其自身程序的 bucket，bucket 内保持执行顺序。
type InstructionIndex struct {
	buckets map[types.Pubkey][]*core.ClassifiedInstruction

	// order 非系统程序的首次出现顺序，作为解析器的迭代面。
	// 系统程序（System / Token / ComputeBudget 等）的指令仍可按 ID 单独取出，
	// 但不参与迭代。
	order []types.Pubkey
}

// BuildInstructionIndex 对 TxView 的扁平指令列表做一次线性归类。
func BuildInstructionIndex(v *TxView) *InstructionIndex {
	idx := &InstructionIndex{
		buckets: make(map[types.Pubkey][]*core.ClassifiedInstruction, 8),
	}
	for _, ix := range v.Instructions {
		// System Program 的地址恰好是全零 pubkey，不能以零值当"无程序"哨兵；
		// 适配层保证每条指令的 ProgramID 已解析，这里无条件归桶。
		if _, seen := idx.buckets[ix.ProgramID]; !seen && !consts.IsSystemProgram(ix.ProgramID) {
			idx.order = append(idx.order, ix.ProgramID)
		}
		idx.buckets[ix.ProgramID] = append(idx.buckets[ix.ProgramID], &core.ClassifiedInstruction{
			Ix:        ix,
			ProgramID: ix.ProgramID,
		})
	}
	return idx
}

// ProgramIDs 返回非系统程序 ID，按首次出现顺序。
func (x *InstructionIndex) ProgramIDs() []types.Pubkey {
	return x.order
}

// ByProgram 返回指定程序的全部指令（含系统程序），无则为 nil。
func (x *InstructionIndex) ByProgram(programID types.Pubkey) []*core.ClassifiedInstruction {
	return x.buckets[programID]
}

// Touches 判断交易是否调用过指定程序。
func (x *InstructionIndex) Touches(programID types.Pubkey) bool {
	_, ok := x.buckets[programID]
	return ok
}
