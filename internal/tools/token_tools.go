package tools

import (
	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/types"
)

// IsSPLToken 判断一个 ProgramId 字符串是否为标准的 SPL Token 程序。
// 支持 Token v1（Tokenkeg...）和 Token-2022（Tokenz...）
func IsSPLToken(programId string) bool {
	return programId == consts.TokenProgramStr || programId == consts.TokenProgram2022Str
}

func IsSPLTokenProgram(programId types.Pubkey) bool {
	return programId == consts.TokenProgram || programId == consts.TokenProgram2022
}

// Pow10 10 的整数次幂，uint8 精度范围内查表，避免 math.Pow 的浮点开销。
var pow10Table = [...]float64{
	1, 1e1, 1e2, 1e3, 1e4, 1e5, 1e6, 1e7, 1e8, 1e9,
	1e10, 1e11, 1e12, 1e13, 1e14, 1e15, 1e16, 1e17, 1e18, 1e19,
}

func Pow10(decimals uint8) float64 {
	if int(decimals) < len(pow10Table) {
		return pow10Table[decimals]
	}
	v := 1.0
	for i := uint8(0); i < decimals; i++ {
		v *= 10
	}
	return v
}
