package tx

import (
	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/tools"
	"dex-parser-sol/internal/types"
	sdktoken "github.com/blocto/solana-go-sdk/program/token"
)

// appendQuoteDecimals 将内置报价币与原生 SOL 的标准精度补入 decimals 表（已存在则跳过）。
func appendQuoteDecimals(list []core.TokenDecimals) []core.TokenDecimals {
	has := func(mint types.Pubkey) bool {
		for _, td := range list {
			if td.Token == mint {
				return true
			}
		}
		return false
	}
	for mint, decimals := range tools.QuoteDecimals {
		if !has(mint) {
			list = append(list, core.TokenDecimals{Token: mint, Decimals: decimals})
		}
	}
	if !has(consts.NativeSOLMint) {
		list = append(list, core.TokenDecimals{Token: consts.NativeSOLMint, Decimals: consts.SOLDecimals})
	}
	return list
}

// buildTokenAccountMap 构建 token account → {mint, decimals, owner} 映射。
// 填充顺序（先到先得，余额快照最可信）：
//  1. pre/post 余额快照；
//  2. 携带显式 mint 的指令（transferChecked / mintTo / burn / initializeAccount 系）；
//  3. 普通 transfer 在 src/dst 之间传播已知 mint。
//
// 余额快照覆盖不到的账户很常见：仅作为转账中转、或在本笔交易内被创建又关闭的账户
// 不会出现在快照中，只能从指令参数里恢复归属。
func buildTokenAccountMap(v *TxView) map[types.Pubkey]core.TokenMeta {
	m := make(map[types.Pubkey]core.TokenMeta, len(v.TokenBalances)+8)

	for account, b := range v.TokenBalances {
		owner := b.PostOwner
		if owner == (types.Pubkey{}) && b.HasPre {
			owner = b.PreOwner
		}
		m[account] = core.TokenMeta{Mint: b.Token, Decimals: b.Decimals, Owner: owner}
	}

	for _, ix := range v.Instructions {
		learnExplicitMint(v, m, ix)
	}
	for _, ix := range v.Instructions {
		propagateTransferMint(m, ix)
	}
	return m
}

// learnExplicitMint 从显式携带 mint 的 token 指令中补充映射。
func learnExplicitMint(v *TxView, m map[types.Pubkey]core.TokenMeta, ix *core.AdaptedInstruction) {
	if ix.Parsed != nil {
		learnExplicitMintParsed(v, m, ix)
		return
	}
	if !tools.IsSPLTokenProgram(ix.ProgramID) || len(ix.Data) == 0 {
		return
	}

	switch ix.Data[0] {
	case byte(sdktoken.InstructionTransferChecked):
		// Layout: accounts = [source, mint, destination, authority]，Data[9] 为 decimals
		if len(ix.Accounts) < 4 || len(ix.Data) < 10 {
			return
		}
		meta := core.TokenMeta{Mint: ix.Accounts[1], Decimals: ix.Data[9]}
		fillIfAbsent(m, ix.Accounts[0], meta)
		fillIfAbsent(m, ix.Accounts[2], meta)

	case byte(sdktoken.InstructionMintToChecked):
		// Layout: accounts = [mint, destination, authority]，Data[9] 为 decimals
		if len(ix.Accounts) < 2 || len(ix.Data) < 10 {
			return
		}
		fillIfAbsent(m, ix.Accounts[1], core.TokenMeta{Mint: ix.Accounts[0], Decimals: ix.Data[9]})

	case byte(sdktoken.InstructionBurnChecked):
		// Layout: accounts = [account, mint, authority]，Data[9] 为 decimals
		if len(ix.Accounts) < 2 || len(ix.Data) < 10 {
			return
		}
		fillIfAbsent(m, ix.Accounts[0], core.TokenMeta{Mint: ix.Accounts[1], Decimals: ix.Data[9]})

	case byte(sdktoken.InstructionMintTo):
		// Layout: accounts = [mint, destination, authority]
		if len(ix.Accounts) < 2 {
			return
		}
		fillIfAbsent(m, ix.Accounts[1], core.TokenMeta{Mint: ix.Accounts[0], Decimals: v.TokenDecimals(ix.Accounts[0])})

	case byte(sdktoken.InstructionBurn):
		// Layout: accounts = [account, mint, authority]
		if len(ix.Accounts) < 2 {
			return
		}
		fillIfAbsent(m, ix.Accounts[0], core.TokenMeta{Mint: ix.Accounts[1], Decimals: v.TokenDecimals(ix.Accounts[1])})

	case byte(sdktoken.InstructionInitializeAccount):
		// Layout: accounts = [account, mint, owner, rent]
		if len(ix.Accounts) < 3 {
			return
		}
		fillIfAbsent(m, ix.Accounts[0], core.TokenMeta{
			Mint:     ix.Accounts[1],
			Decimals: v.TokenDecimals(ix.Accounts[1]),
			Owner:    ix.Accounts[2],
		})

	case byte(sdktoken.InstructionInitializeAccount2), byte(sdktoken.InstructionInitializeAccount3):
		// Layout: accounts = [account, mint]，owner 在 Data[1:33]
		if len(ix.Accounts) < 2 || len(ix.Data) < 33 {
			return
		}
		owner, err := types.PubkeyFromBytes(ix.Data[1:33])
		if err != nil {
			return
		}
		fillIfAbsent(m, ix.Accounts[0], core.TokenMeta{
			Mint:     ix.Accounts[1],
			Decimals: v.TokenDecimals(ix.Accounts[1]),
			Owner:    owner,
		})
	}
}

// learnExplicitMintParsed 是 learnExplicitMint 的 jsonParsed 版本，字段为 RPC 解析后的命名参数。
func learnExplicitMintParsed(v *TxView, m map[types.Pubkey]core.TokenMeta, ix *core.AdaptedInstruction) {
	if ix.Parsed.Program != "spl-token" && ix.Parsed.Program != "spl-token-2022" {
		return
	}
	mintStr, ok := ix.Parsed.Str("mint")
	if !ok {
		return
	}
	mint, err := types.TryPubkeyFromBase58(mintStr)
	if err != nil {
		return
	}

	decimals := v.TokenDecimals(mint)
	if _, d, ok := ix.Parsed.TokenAmount(); ok {
		decimals = d
	}
	meta := core.TokenMeta{Mint: mint, Decimals: decimals}

	switch ix.Parsed.Type {
	case core.TransferTypeTransferChecked:
		fillIfAbsentStr(m, ix.Parsed, "source", meta)
		fillIfAbsentStr(m, ix.Parsed, "destination", meta)
	case core.TransferTypeMintTo, core.TransferTypeMintToChecked:
		fillIfAbsentStr(m, ix.Parsed, "account", meta)
	case core.TransferTypeBurn, core.TransferTypeBurnChecked:
		fillIfAbsentStr(m, ix.Parsed, "account", meta)
	case "initializeAccount", "initializeAccount2", "initializeAccount3":
		if ownerStr, ok := ix.Parsed.Str("owner"); ok {
			if owner, err := types.TryPubkeyFromBase58(ownerStr); err == nil {
				meta.Owner = owner
			}
		}
		fillIfAbsentStr(m, ix.Parsed, "account", meta)
	}
}

// propagateTransferMint 对无显式 mint 的普通 transfer，在 src/dst 之间传播已知归属。
func propagateTransferMint(m map[types.Pubkey]core.TokenMeta, ix *core.AdaptedInstruction) {
	var src, dst types.Pubkey

	if ix.Parsed != nil {
		if ix.Parsed.Type != core.TransferTypeTransfer {
			return
		}
		srcStr, ok1 := ix.Parsed.Str("source")
		dstStr, ok2 := ix.Parsed.Str("destination")
		if !ok1 || !ok2 {
			return
		}
		var err error
		if src, err = types.TryPubkeyFromBase58(srcStr); err != nil {
			return
		}
		if dst, err = types.TryPubkeyFromBase58(dstStr); err != nil {
			return
		}
	} else {
		if !tools.IsSPLTokenProgram(ix.ProgramID) || len(ix.Data) == 0 ||
			ix.Data[0] != byte(sdktoken.InstructionTransfer) || len(ix.Accounts) < 3 {
			return
		}
		// Layout: accounts = [source, destination, authority]
		src, dst = ix.Accounts[0], ix.Accounts[1]
	}

	srcMeta, srcKnown := m[src]
	dstMeta, dstKnown := m[dst]
	switch {
	case srcKnown && !dstKnown:
		m[dst] = core.TokenMeta{Mint: srcMeta.Mint, Decimals: srcMeta.Decimals}
	case dstKnown && !srcKnown:
		m[src] = core.TokenMeta{Mint: dstMeta.Mint, Decimals: dstMeta.Decimals}
	}
}

func fillIfAbsent(m map[types.Pubkey]core.TokenMeta, account types.Pubkey, meta core.TokenMeta) {
	if _, ok := m[account]; !ok {
		m[account] = meta
	}
}

func fillIfAbsentStr(m map[types.Pubkey]core.TokenMeta, parsed *core.ParsedFields, key string, meta core.TokenMeta) {
	s, ok := parsed.Str(key)
	if !ok {
		return
	}
	account, err := types.TryPubkeyFromBase58(s)
	if err != nil {
		return
	}
	fillIfAbsent(m, account, meta)
}
