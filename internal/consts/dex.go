package consts

import "dex-parser-sol/internal/types"

// Dex 枚举，区块内事件统一使用该编号标识协议。
const (
	DexUnknown       = iota // 0 (保留)
	DexRaydiumV4            // 1
	DexRaydiumCPMM          // 2
	DexRaydiumCLMM          // 3
	DexOrcaWhirlpool        // 4
	DexMeteoraDLMM          // 5
	DexMeteoraPools         // 6
	DexPumpfun              // 7
	DexPumpfunAMM           // 8
	DexJupiter              // 9
	DexJupiterDCA           // 10
	DexOKXRouter            // 11
	DexBananaGun            // 12
	DexMaestro              // 13
	DexBloom                // 14
	DexNova                 // 15
	DexMintech              // 16
)

// DexTag 描述程序在解析层的角色。
type DexTag uint8

const (
	TagAMM   DexTag = 1 << iota // 直接流动性场所
	TagRoute                    // 聚合器 / 路由（内部 CPI 到真实 DEX）
	TagBot                      // 交易机器人（按路由处理）
	TagVault                    // 金库封装程序，其 CPI 内部转账归属调用方
)

// DexInfo 程序注册表条目。静态只读数据，进程启动时构建，运行期不可变。
type DexInfo struct {
	ID   int
	Name string
	Tags DexTag
}

func (d DexInfo) IsAMM() bool   { return d.Tags&TagAMM != 0 }
func (d DexInfo) IsRoute() bool { return d.Tags&(TagRoute|TagBot) != 0 }
func (d DexInfo) IsVault() bool { return d.Tags&TagVault != 0 }

// DexRegistry ProgramID → 协议信息。
var DexRegistry = map[types.Pubkey]DexInfo{
	RaydiumV4Program:     {DexRaydiumV4, "RaydiumV4", TagAMM},
	RaydiumCPMMProgram:   {DexRaydiumCPMM, "RaydiumCPMM", TagAMM},
	RaydiumCLMMProgram:   {DexRaydiumCLMM, "RaydiumCLMM", TagAMM},
	OrcaWhirlpoolProgram: {DexOrcaWhirlpool, "OrcaWhirlpool", TagAMM},
	MeteoraDLMMProgram:   {DexMeteoraDLMM, "MeteoraDLMM", TagAMM},
	MeteoraPoolsProgram:  {DexMeteoraPools, "MeteoraPools", TagAMM},
	MeteoraVaultProgram:  {DexUnknown, "MeteoraVault", TagVault},
	PumpFunProgram:       {DexPumpfun, "Pumpfun", TagAMM},
	PumpFunAMMProgram:    {DexPumpfunAMM, "PumpfunAMM", TagAMM},
	JupiterProgram:       {DexJupiter, "Jupiter", TagRoute},
	JupiterDCAProgram:    {DexJupiterDCA, "JupiterDCA", TagRoute},
	OKXRouterProgram:     {DexOKXRouter, "OKX", TagRoute},
	BananaGunProgram:     {DexBananaGun, "BananaGun", TagBot},
	MaestroProgram:       {DexMaestro, "Maestro", TagBot},
	BloomProgram:         {DexBloom, "Bloom", TagBot},
	NovaProgram:          {DexNova, "Nova", TagBot},
	MintechProgram:       {DexMintech, "Mintech", TagBot},
}

// LookupDex 查询程序注册表。
func LookupDex(p types.Pubkey) (DexInfo, bool) {
	info, ok := DexRegistry[p]
	return info, ok
}

// DexName 按 ProgramID 返回协议名，未注册返回 "Unknown"。
func DexName(p types.Pubkey) string {
	if info, ok := DexRegistry[p]; ok {
		return info.Name
	}
	return "Unknown"
}

// IsVaultProgram 判断是否为金库封装程序（其 CPI 内部转账不单独分组）。
func IsVaultProgram(p types.Pubkey) bool {
	info, ok := DexRegistry[p]
	return ok && info.IsVault()
}

// IsRouteProgram 判断是否为路由 / 机器人程序。
func IsRouteProgram(p types.Pubkey) bool {
	info, ok := DexRegistry[p]
	return ok && info.IsRoute()
}
