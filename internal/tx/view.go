package tx

import (
	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/types"
)

// TxView 是单笔交易的统一只读视图。
// 两种输入编码（gRPC compiled / RPC jsonParsed）在适配阶段统一落到该结构，
// 下游（指令分类、转账台账、各协议解析器）只操作 TxView，不再感知编码差异。
type TxView struct {
	Slot      uint64
	BlockTime int64 // Unix 秒，缺失时为 0
	Signature string
	Signers   []types.Pubkey

	// AccountKeys 完整账户列表：静态 accountKeys + Address Lookup Table 的 writable/readonly。
	// compiled 编码下指令按下标引用该列表。
	AccountKeys []types.Pubkey

	// Instructions 扁平化后的全部指令（主指令 + inner 指令），保持链上执行顺序。
	Instructions []*core.AdaptedInstruction

	// SolBalances 账户 → SOL 余额快照（lamports）。
	SolBalances map[types.Pubkey]*core.SolBalance

	// TokenBalances token account → SPL 余额快照。
	TokenBalances map[types.Pubkey]*core.TokenBalance

	// tokenMap token account → {mint, decimals, owner}，构造时由余额快照 + 指令扫描填充。
	tokenMap map[types.Pubkey]core.TokenMeta

	// decimals mint → decimals 列表，pre 快照优先于 post。
	decimals []core.TokenDecimals

	// touchesDCA 交易是否涉及 DCA 程序（影响 Signer 判定）。
	touchesDCA bool
}

// finalize 在两条适配路径的末尾统一执行：
// 补齐常用 quote 的 decimals、构建 token account 映射，并标记 DCA 交易。
// 调用前 v.decimals 已由适配器按 pre 快照优先的顺序填好。
func (v *TxView) finalize() {
	v.decimals = appendQuoteDecimals(v.decimals)
	v.tokenMap = buildTokenAccountMap(v)

	for _, ix := range v.Instructions {
		if ix.ProgramID == consts.JupiterDCAProgram {
			v.touchesDCA = true
			break
		}
	}
}

// Signer 返回交易的有效签名者。
// 常规交易为第一个账户；DCA 交易中第一个账户是 keeper 机器人，
// 真实用户位于第三个账户（DCA PDA 之后）。
func (v *TxView) Signer() types.Pubkey {
	if v.touchesDCA && len(v.AccountKeys) >= 3 {
		return v.AccountKeys[2]
	}
	if len(v.AccountKeys) > 0 {
		return v.AccountKeys[0]
	}
	return types.Pubkey{}
}

// AccountKeyAt 按下标取账户（含 lookup table 加载的地址），越界返回 false。
func (v *TxView) AccountKeyAt(index int) (types.Pubkey, bool) {
	if index < 0 || index >= len(v.AccountKeys) {
		return types.Pubkey{}, false
	}
	return v.AccountKeys[index], true
}

// TokenDecimals 返回 mint 的 decimals。
// 优先级：交易余额快照（pre 先于 post）→ 常用 quote 表 → 默认 9。
func (v *TxView) TokenDecimals(mint types.Pubkey) uint8 {
	if d, ok := v.TryTokenDecimals(mint); ok {
		return d
	}
	return consts.SOLDecimals
}

// TryTokenDecimals 同 TokenDecimals，但未命中时返回 false 而非兜底值。
func (v *TxView) TryTokenDecimals(mint types.Pubkey) (uint8, bool) {
	for _, td := range v.decimals {
		if td.Token == mint {
			return td.Decimals, true
		}
	}
	return 0, false
}

// TokenMetaOf 查询 token account 的归属信息（mint/decimals/owner）。
func (v *TxView) TokenMetaOf(account types.Pubkey) (core.TokenMeta, bool) {
	meta, ok := v.tokenMap[account]
	return meta, ok
}

// TokenMetaOrSOL 同 TokenMetaOf，未命中时兜底为原生 SOL、9 位精度。
// 该兜底是启发式：系统转账的参与方是钱包地址，不会出现在 SPL 快照中。
func (v *TxView) TokenMetaOrSOL(account types.Pubkey) core.TokenMeta {
	if meta, ok := v.tokenMap[account]; ok {
		return meta
	}
	return core.TokenMeta{Mint: consts.NativeSOLMint, Decimals: consts.SOLDecimals}
}

// SolBalanceDelta 返回账户 SOL 余额变化量（lamports，post - pre）。
func (v *TxView) SolBalanceDelta(account types.Pubkey) (int64, bool) {
	if b, ok := v.SolBalances[account]; ok {
		return b.Delta(), true
	}
	return 0, false
}

// TokenBalanceDelta 返回某钱包在指定 mint 上的余额变化量，
// 跨该钱包名下所有 token account 求和。
func (v *TxView) TokenBalanceDelta(owner, mint types.Pubkey) (int64, bool) {
	var (
		delta int64
		found bool
	)
	for _, b := range v.TokenBalances {
		if b.Token != mint {
			continue
		}
		if b.PostOwner == owner || (b.HasPre && b.PreOwner == owner) {
			delta += b.Delta()
			found = true
		}
	}
	return delta, found
}

// OuterInstruction 返回指定主指令，不存在返回 nil。
func (v *TxView) OuterInstruction(ixIndex uint16) *core.AdaptedInstruction {
	for _, ix := range v.Instructions {
		if ix.IxIndex == ixIndex && ix.IsOuter() {
			return ix
		}
	}
	return nil
}

// InnerInstructions 返回指定主指令下的全部 inner 指令（按执行顺序）。
func (v *TxView) InnerInstructions(ixIndex uint16) []*core.AdaptedInstruction {
	var inners []*core.AdaptedInstruction
	for _, ix := range v.Instructions {
		if ix.IxIndex == ixIndex && !ix.IsOuter() {
			inners = append(inners, ix)
		}
	}
	return inners
}
