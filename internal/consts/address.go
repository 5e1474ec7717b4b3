package consts

import "dex-parser-sol/internal/types"

// Base58 地址常量（可读性高，适合配置与日志使用）
const (
	// 系统基础 Programs
	SystemProgramStr          = "11111111111111111111111111111111"
	TokenProgramStr           = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	TokenProgram2022Str       = "TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb"
	AssociatedTokenProgramStr = "ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL"
	TokenMetaProgramStr       = "metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s"
	ComputeBudgetProgramStr   = "ComputeBudget111111111111111111111111111111"

	// USD 计价基础报价币（具有稳定市场价格）
	WSOLMintStr = "So11111111111111111111111111111111111111112"
	USDCMintStr = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	USDTMintStr = "Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB"

	// 常见 SOL 衍生资产（非稳定计价，用作普通 quote）
	JitoSOLMintStr = "J1toso1uCk3RLmjorhTtrVwY9HJ7X8V9yYac6Y7kGCPn"
	MSOLMintStr    = "mSoLzYCxHdYgdzU16g5QSh3i5K3z3KZK7ytfqcJm7So"
	JupSOLMintStr  = "jupSoLaHXQiZZTSfEWMTRRgpnyFm8f6sZdosWBjx93v"
	BSOLMintStr    = "bSo13r4TkiE4KumL71LsHTPpL2euBYLFx6h9HP3piy1"

	// DEX: Raydium
	RaydiumV4ProgramStr   = "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8"
	RaydiumCPMMProgramStr = "CPMMoo8L3F4NbTegBCKVNunggL7H1ZpdTHKxQB5qKP1C"
	RaydiumCLMMProgramStr = "CAMMCzo5YL8w4VFF8KVHrK22GGUsp5VTaW7grrKgrWqK"

	// DEX: Orca
	OrcaWhirlpoolProgramStr = "whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc"

	// DEX: Meteora
	MeteoraDLMMProgramStr  = "LBUZKhRxPF3XUpBCjp4YzTKgLccjZhTSDM9YuVaPwxo"
	MeteoraPoolsProgramStr = "Eo7WjKq67rjJQSZxS6z3YkapzY3eMj6Xy8X5EQVn5UaB"
	// Meteora Pools 的存取款通过 Vault 程序 CPI 完成，其内部转账仍应归属调用方 DEX
	MeteoraVaultProgramStr = "24Uqj9JCLxUeoC3hGfh5W3s9FM9uCHDS2SG3LYwBpyTi"

	// DEX: PumpFun
	PumpFunProgramStr    = "6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P"
	PumpFunAMMProgramStr = "pAMMBay6oceH9fJKBRHGP5D4bD4sWpmSwMn52FMfXEA"

	// 聚合器 / 路由
	JupiterProgramStr    = "JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4"
	JupiterDCAProgramStr = "DCA265Vj8a9CEuX1eb1LWRnDT7uK6q1xMipnNyatn23M"
	OKXRouterProgramStr  = "6m2CDdhRgxpH4WjvdzxAYbGxwdGUz5MziiL5jek2kBma"

	// 交易机器人（本质上也是路由，内部 CPI 到真实 DEX）
	BananaGunProgramStr = "BANANAjs7FJiPQqJTGFzkZJndT9o7UmKiYYGaJz6frGu"
	MaestroProgramStr   = "MaestroAAe9ge5HTc64VbBQZ6fP77pwvrhM8i1XWSAx"
	BloomProgramStr     = "b1oomGGqPKGD6errbyfbVMBuzSC8WtAAYo8MwNafWW1"
	NovaProgramStr      = "NoVA1TmDUqksaj2hB1nayFkPysjJbFiU76dT4qPw2wm"
	MintechProgramStr   = "minTcHYRLVPubRK8nt6sqe2ZpWrGDLQoNLipDJCGocY"

	// Known Owner Addresses
	RaydiumV4AuthorityStr = "5Q544fKrFoe6tsEbD7S8EmxGTJYAKtTVhAW5Q5pge4j1"
)

var (
	// NativeSOLMint 原生 SOL 的哨兵 mint（非 SPL，余额快照中通常不存在）
	NativeSOLMint = types.Pubkey{}

	// Programs
	SystemProgram          = types.PubkeyFromBase58(SystemProgramStr)
	TokenProgram           = types.PubkeyFromBase58(TokenProgramStr)
	TokenProgram2022       = types.PubkeyFromBase58(TokenProgram2022Str)
	AssociatedTokenProgram = types.PubkeyFromBase58(AssociatedTokenProgramStr)
	TokenMetaProgram       = types.PubkeyFromBase58(TokenMetaProgramStr)
	ComputeBudgetProgram   = types.PubkeyFromBase58(ComputeBudgetProgramStr)

	// 稳定报价币（USD 估值）
	WSOLMint = types.PubkeyFromBase58(WSOLMintStr)
	USDCMint = types.PubkeyFromBase58(USDCMintStr)
	USDTMint = types.PubkeyFromBase58(USDTMintStr)

	// SOL 衍生资产
	JitoSOLMint = types.PubkeyFromBase58(JitoSOLMintStr)
	MSOLMint    = types.PubkeyFromBase58(MSOLMintStr)
	JupSOLMint  = types.PubkeyFromBase58(JupSOLMintStr)
	BSOLMint    = types.PubkeyFromBase58(BSOLMintStr)

	// DEX Program
	RaydiumV4Program     = types.PubkeyFromBase58(RaydiumV4ProgramStr)
	RaydiumCPMMProgram   = types.PubkeyFromBase58(RaydiumCPMMProgramStr)
	RaydiumCLMMProgram   = types.PubkeyFromBase58(RaydiumCLMMProgramStr)
	OrcaWhirlpoolProgram = types.PubkeyFromBase58(OrcaWhirlpoolProgramStr)
	MeteoraDLMMProgram   = types.PubkeyFromBase58(MeteoraDLMMProgramStr)
	MeteoraPoolsProgram  = types.PubkeyFromBase58(MeteoraPoolsProgramStr)
	MeteoraVaultProgram  = types.PubkeyFromBase58(MeteoraVaultProgramStr)
	PumpFunProgram       = types.PubkeyFromBase58(PumpFunProgramStr)
	PumpFunAMMProgram    = types.PubkeyFromBase58(PumpFunAMMProgramStr)

	// 路由 / 机器人
	JupiterProgram    = types.PubkeyFromBase58(JupiterProgramStr)
	JupiterDCAProgram = types.PubkeyFromBase58(JupiterDCAProgramStr)
	OKXRouterProgram  = types.PubkeyFromBase58(OKXRouterProgramStr)
	BananaGunProgram  = types.PubkeyFromBase58(BananaGunProgramStr)
	MaestroProgram    = types.PubkeyFromBase58(MaestroProgramStr)
	BloomProgram      = types.PubkeyFromBase58(BloomProgramStr)
	NovaProgram       = types.PubkeyFromBase58(NovaProgramStr)
	MintechProgram    = types.PubkeyFromBase58(MintechProgramStr)

	// Known Owner
	RaydiumV4Authority = types.PubkeyFromBase58(RaydiumV4AuthorityStr)
)

// SystemPrograms 基础设施程序集合。
// 这些程序不作为独立 DEX 维度参与遍历，但其指令仍可按 ProgramID 精确检索。
var SystemPrograms = map[types.Pubkey]bool{
	SystemProgram:          true,
	TokenProgram:           true,
	TokenProgram2022:       true,
	AssociatedTokenProgram: true,
	TokenMetaProgram:       true,
	ComputeBudgetProgram:   true,
}

// IsSystemProgram 判断是否为系统基础设施程序。
func IsSystemProgram(p types.Pubkey) bool {
	return SystemPrograms[p]
}
