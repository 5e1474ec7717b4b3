package ledger

import (
	"encoding/binary"

	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/tools"
	"dex-parser-sol/internal/types"
	sdktoken "github.com/blocto/solana-go-sdk/program/token"
)

// classify 识别单条指令是否为关注的代币移动，构造 TransferAction。
// mint 或 decimals 无法解出的指令静默丢弃（返回 false），不视为错误。
func (l *Ledger) classify(ix *core.AdaptedInstruction) (*core.TransferAction, bool) {
	if ix.Parsed != nil {
		return l.classifyParsed(ix)
	}
	if ix.ProgramID == consts.SystemProgram {
		return l.classifySystemCompiled(ix)
	}
	if tools.IsSPLTokenProgram(ix.ProgramID) {
		return l.classifyTokenCompiled(ix)
	}
	return nil, false
}

// classifyTokenCompiled 解析 compiled 编码的 SPL Token 指令。
func (l *Ledger) classifyTokenCompiled(ix *core.AdaptedInstruction) (*core.TransferAction, bool) {
	if len(ix.Data) < 9 {
		return nil, false
	}
	amount := binary.LittleEndian.Uint64(ix.Data[1:9])

	var (
		transferType     string
		source, dest     types.Pubkey
		authority        types.Pubkey
		explicitMint     types.Pubkey
		explicitDecimals uint8
		hasExplicit      bool
	)

	switch ix.Data[0] {
	case byte(sdktoken.InstructionTransfer):
		// Layout: accounts = [source, destination, authority]
		if len(ix.Accounts) < 3 {
			return nil, false
		}
		transferType = core.TransferTypeTransfer
		source, dest, authority = ix.Accounts[0], ix.Accounts[1], ix.Accounts[2]

	case byte(sdktoken.InstructionTransferChecked):
		// Layout: accounts = [source, mint, destination, authority]，Data[9] 为 decimals
		if len(ix.Accounts) < 4 || len(ix.Data) < 10 {
			return nil, false
		}
		transferType = core.TransferTypeTransferChecked
		source, dest, authority = ix.Accounts[0], ix.Accounts[2], ix.Accounts[3]
		explicitMint, explicitDecimals, hasExplicit = ix.Accounts[1], ix.Data[9], true

	case byte(sdktoken.InstructionMintTo):
		// Layout: accounts = [mint, destination, authority]
		if len(ix.Accounts) < 3 {
			return nil, false
		}
		transferType = core.TransferTypeMintTo
		dest, authority = ix.Accounts[1], ix.Accounts[2]
		explicitMint, hasExplicit = ix.Accounts[0], false // decimals 仍需解析
		if d, ok := l.view.TryTokenDecimals(explicitMint); ok {
			explicitDecimals, hasExplicit = d, true
		} else if meta, ok := l.view.TokenMetaOf(dest); ok && meta.Mint == explicitMint {
			explicitDecimals, hasExplicit = meta.Decimals, true
		}

	case byte(sdktoken.InstructionMintToChecked):
		if len(ix.Accounts) < 3 || len(ix.Data) < 10 {
			return nil, false
		}
		transferType = core.TransferTypeMintToChecked
		dest, authority = ix.Accounts[1], ix.Accounts[2]
		explicitMint, explicitDecimals, hasExplicit = ix.Accounts[0], ix.Data[9], true

	case byte(sdktoken.InstructionBurn):
		// Layout: accounts = [account, mint, authority]
		if len(ix.Accounts) < 3 {
			return nil, false
		}
		transferType = core.TransferTypeBurn
		source, authority = ix.Accounts[0], ix.Accounts[2]
		explicitMint = ix.Accounts[1]
		if d, ok := l.view.TryTokenDecimals(explicitMint); ok {
			explicitDecimals, hasExplicit = d, true
		} else if meta, ok := l.view.TokenMetaOf(source); ok && meta.Mint == explicitMint {
			explicitDecimals, hasExplicit = meta.Decimals, true
		}

	case byte(sdktoken.InstructionBurnChecked):
		if len(ix.Accounts) < 3 || len(ix.Data) < 10 {
			return nil, false
		}
		transferType = core.TransferTypeBurnChecked
		source, authority = ix.Accounts[0], ix.Accounts[2]
		explicitMint, explicitDecimals, hasExplicit = ix.Accounts[1], ix.Data[9], true

	default:
		return nil, false
	}

	if !l.wanted[transferType] {
		return nil, false
	}

	// mint / decimals 解析：显式参数优先，其次 token account 归属映射
	mint, decimals := explicitMint, explicitDecimals
	if !hasExplicit {
		meta, ok := l.view.TokenMetaOf(source)
		if !ok {
			meta, ok = l.view.TokenMetaOf(dest)
		}
		if !ok {
			return nil, false
		}
		mint, decimals = meta.Mint, meta.Decimals
	}

	return l.newAction(ix, transferType, authority.String(), source, dest, mint, decimals, amount), true
}

// classifySystemCompiled 解析 compiled 编码的 System Program 转账（原生 SOL）。
func (l *Ledger) classifySystemCompiled(ix *core.AdaptedInstruction) (*core.TransferAction, bool) {
	if !l.wanted[core.TransferTypeTransfer] || len(ix.Data) < 12 {
		return nil, false
	}

	var source, dest types.Pubkey
	switch binary.LittleEndian.Uint32(ix.Data[0:4]) {
	case 2: // Transfer: accounts = [from, to]，lamports 在 Data[4:12]
		if len(ix.Accounts) < 2 {
			return nil, false
		}
		source, dest = ix.Accounts[0], ix.Accounts[1]
	case 11: // TransferWithSeed: accounts = [from, base, to]
		if len(ix.Accounts) < 3 {
			return nil, false
		}
		source, dest = ix.Accounts[0], ix.Accounts[2]
	default:
		return nil, false
	}

	lamports := binary.LittleEndian.Uint64(ix.Data[4:12])
	return l.newAction(ix, core.TransferTypeTransfer, source.String(),
		source, dest, consts.NativeSOLMint, consts.SOLDecimals, lamports), true
}

// classifyParsed 解析 jsonParsed 编码的转账类指令。
func (l *Ledger) classifyParsed(ix *core.AdaptedInstruction) (*core.TransferAction, bool) {
	p := ix.Parsed

	// System Program 的原生 SOL 转账
	if p.Program == "system" {
		if p.Type != core.TransferTypeTransfer && p.Type != "transferWithSeed" {
			return nil, false
		}
		if !l.wanted[core.TransferTypeTransfer] {
			return nil, false
		}
		lamports, ok := p.Uint64("lamports")
		if !ok {
			return nil, false
		}
		source, ok1 := parsePubkeyField(p, "source")
		dest, ok2 := parsePubkeyField(p, "destination")
		if !ok1 || !ok2 {
			return nil, false
		}
		return l.newAction(ix, core.TransferTypeTransfer, source.String(),
			source, dest, consts.NativeSOLMint, consts.SOLDecimals, lamports), true
	}

	if p.Program != "spl-token" && p.Program != "spl-token-2022" {
		return nil, false
	}
	if !l.wanted[p.Type] {
		return nil, false
	}

	var (
		amount   uint64
		decimals uint8
		hasBoth  bool
	)
	if raw, d, ok := p.TokenAmount(); ok {
		amount, decimals, hasBoth = raw, d, true
	} else if raw, ok := p.Uint64("amount"); ok {
		amount = raw
	} else {
		return nil, false
	}

	source, _ := parsePubkeyField(p, "source")
	dest, _ := parsePubkeyField(p, "destination")
	switch p.Type {
	case core.TransferTypeMintTo, core.TransferTypeMintToChecked:
		dest, _ = parsePubkeyField(p, "account")
	case core.TransferTypeBurn, core.TransferTypeBurnChecked:
		source, _ = parsePubkeyField(p, "account")
	}

	// mint：显式字段优先，否则从 token account 映射解出
	var mint types.Pubkey
	if m, ok := parsePubkeyField(p, "mint"); ok {
		mint = m
		if !hasBoth {
			if d, ok := l.view.TryTokenDecimals(mint); ok {
				decimals, hasBoth = d, true
			}
		}
	} else {
		meta, ok := l.view.TokenMetaOf(source)
		if !ok {
			meta, ok = l.view.TokenMetaOf(dest)
		}
		if !ok {
			return nil, false
		}
		mint = meta.Mint
		if !hasBoth {
			decimals, hasBoth = meta.Decimals, true
		}
	}
	if !hasBoth {
		return nil, false
	}

	authority, _ := p.Str("authority")
	if authority == "" {
		authority, _ = p.Str("multisigAuthority")
	}
	return l.newAction(ix, p.Type, authority, source, dest, mint, decimals, amount), true
}

// newAction 组装 TransferAction，destinationOwner 从归属映射尽力补全。
func (l *Ledger) newAction(
	ix *core.AdaptedInstruction,
	transferType, authority string,
	source, dest, mint types.Pubkey,
	decimals uint8,
	amount uint64,
) *core.TransferAction {
	info := core.TransferInfo{
		Authority:   authority,
		Mint:        mint.String(),
		TokenAmount: core.NewTokenAmount(mint.String(), amount, decimals, l.rawAmount),
	}
	if source != (types.Pubkey{}) {
		info.Source = source.String()
	}
	if dest != (types.Pubkey{}) {
		info.Destination = dest.String()
		if meta, ok := l.view.TokenMetaOf(dest); ok && meta.Owner != (types.Pubkey{}) {
			info.DestinationOwner = meta.Owner.String()
		}
	}
	return &core.TransferAction{
		Type:      transferType,
		ProgramID: ix.ProgramID.String(),
		Info:      info,
		Idx:       ix.Idx(),
	}
}

func parsePubkeyField(p *core.ParsedFields, key string) (types.Pubkey, bool) {
	s, ok := p.Str(key)
	if !ok {
		return types.Pubkey{}, false
	}
	pk, err := types.TryPubkeyFromBase58(s)
	if err != nil {
		return types.Pubkey{}, false
	}
	return pk, true
}
