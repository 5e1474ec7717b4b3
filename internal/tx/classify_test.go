package tx

import (
	"testing"

	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/types"

	"github.com/stretchr/testify/require"
)

func TestBuildInstructionIndex(t *testing.T) {
	dexA := keyOf(0x50)
	dexB := keyOf(0x51)

	view := &TxView{
		Instructions: []*core.AdaptedInstruction{
			{IxIndex: 0, InnerIndex: 0, ProgramID: dexA},
			{IxIndex: 0, InnerIndex: 1, ProgramID: consts.TokenProgram},
			{IxIndex: 1, InnerIndex: 0, ProgramID: dexB},
			{IxIndex: 1, InnerIndex: 1, ProgramID: dexA},
			{IxIndex: 2, InnerIndex: 0, ProgramID: consts.SystemProgram},
		},
	}

	idx := BuildInstructionIndex(view)

	// 迭代面只含非系统程序，按首次出现顺序
	require.Equal(t, []types.Pubkey{dexA, dexB}, idx.ProgramIDs())

	// bucket 内保持执行顺序
	ixs := idx.ByProgram(dexA)
	require.Len(t, ixs, 2)
	require.Equal(t, "0-0", ixs[0].Ix.Idx())
	require.Equal(t, "1-1", ixs[1].Ix.Idx())

	// 系统程序仍可单独按 ID 取出
	require.Len(t, idx.ByProgram(consts.TokenProgram), 1)
	require.Len(t, idx.ByProgram(consts.SystemProgram), 1)

	require.True(t, idx.Touches(dexB))
	require.True(t, idx.Touches(consts.SystemProgram))
	require.False(t, idx.Touches(keyOf(0x52)))
}

// System Program 地址是全零 pubkey，不能被误当作"无程序"而丢弃：
// 其指令必须落桶、可按 ID 取出，只是不进入解析器迭代面。
func TestBuildInstructionIndexSystemProgramBucketed(t *testing.T) {
	view := &TxView{
		Instructions: []*core.AdaptedInstruction{
			{IxIndex: 0, InnerIndex: 0, ProgramID: consts.SystemProgram},
			{IxIndex: 1, InnerIndex: 0, ProgramID: consts.SystemProgram},
		},
	}
	idx := BuildInstructionIndex(view)

	require.Empty(t, idx.ProgramIDs())
	require.True(t, idx.Touches(consts.SystemProgram))

	ixs := idx.ByProgram(consts.SystemProgram)
	require.Len(t, ixs, 2)
	require.Equal(t, "0-0", ixs[0].Ix.Idx())
	require.Equal(t, "1-0", ixs[1].Ix.Idx())
}
