package tx

import (
	"encoding/json"
	"fmt"

	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/tools"
	"dex-parser-sol/internal/types"
	"github.com/mr-tron/base58"
)

// RPC getTransaction(jsonParsed) 响应结构。
// 只声明解析所需字段，其余字段由 json 解码自动忽略。

type RpcTransaction struct {
	Slot        uint64    `json:"slot"`
	BlockTime   *int64    `json:"blockTime"`
	Transaction RpcTxBody `json:"transaction"`
	Meta        *RpcMeta  `json:"meta"`
}

type RpcTxBody struct {
	Signatures []string   `json:"signatures"`
	Message    RpcMessage `json:"message"`
}

type RpcMessage struct {
	AccountKeys  []RpcAccountKey  `json:"accountKeys"`
	Instructions []RpcInstruction `json:"instructions"`
}

type RpcAccountKey struct {
	Pubkey   string `json:"pubkey"`
	Signer   bool   `json:"signer"`
	Writable bool   `json:"writable"`
	Source   string `json:"source"` // "transaction" | "lookupTable"
}

// RpcInstruction 同时承载两种形态：
//   - 已解析（jsonParsed 认识该程序）：Program/Parsed 有值，Accounts/Data 为空；
//   - 部分解码（未知程序）：Accounts 为 base58 地址列表，Data 为 base58 指令字节。
type RpcInstruction struct {
	Program     string          `json:"program,omitempty"`
	ProgramId   string          `json:"programId"`
	Accounts    []string        `json:"accounts,omitempty"`
	Data        string          `json:"data,omitempty"`
	Parsed      json.RawMessage `json:"parsed,omitempty"`
	StackHeight *int            `json:"stackHeight,omitempty"`
}

type RpcInnerInstructionSet struct {
	Index        uint16           `json:"index"`
	Instructions []RpcInstruction `json:"instructions"`
}

type RpcUiTokenAmount struct {
	Amount         string  `json:"amount"`
	Decimals       uint8   `json:"decimals"`
	UiAmount       float64 `json:"uiAmount"`
	UiAmountString string  `json:"uiAmountString"`
}

type RpcTokenBalance struct {
	AccountIndex  int              `json:"accountIndex"`
	Mint          string           `json:"mint"`
	Owner         string           `json:"owner,omitempty"`
	ProgramId     string           `json:"programId,omitempty"`
	UiTokenAmount RpcUiTokenAmount `json:"uiTokenAmount"`
}

type RpcLoadedAddresses struct {
	Writable []string `json:"writable"`
	Readonly []string `json:"readonly"`
}

type RpcMeta struct {
	Err               any                      `json:"err"`
	Fee               uint64                   `json:"fee"`
	PreBalances       []uint64                 `json:"preBalances"`
	PostBalances      []uint64                 `json:"postBalances"`
	PreTokenBalances  []RpcTokenBalance        `json:"preTokenBalances"`
	PostTokenBalances []RpcTokenBalance        `json:"postTokenBalances"`
	InnerInstructions []RpcInnerInstructionSet `json:"innerInstructions"`
	LoadedAddresses   *RpcLoadedAddresses      `json:"loadedAddresses,omitempty"`
}

// rpcParsedBody Parsed 字段的标准对象形态；memo 等程序会给出纯字符串，解码失败时按不透明指令处理。
type rpcParsedBody struct {
	Type string         `json:"type"`
	Info map[string]any `json:"info"`
}

// AdaptRpcJSON 解码 getTransaction(jsonParsed) 的 JSON 响应并归一化为 TxView。
func AdaptRpcJSON(data []byte) (*TxView, error) {
	var raw RpcTransaction
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal rpc transaction: %w", err)
	}
	return AdaptRpcTx(&raw)
}

// AdaptRpcTx 将 jsonParsed 编码的交易归一化为 TxView。
// 与 AdaptGrpcTx 输出同构：下游不感知来源差异。
func AdaptRpcTx(raw *RpcTransaction) (_ *TxView, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("AdaptRpcTx panic: %v", r)
		}
	}()

	if raw == nil || raw.Meta == nil {
		return nil, fmt.Errorf("invalid transaction: missing meta")
	}
	if len(raw.Transaction.Signatures) == 0 || len(raw.Transaction.Message.AccountKeys) == 0 {
		return nil, fmt.Errorf("invalid transaction: missing signature or accountKeys")
	}

	accountKeys, signers, err := buildRpcAccountKeys(raw)
	if err != nil {
		return nil, fmt.Errorf("buildRpcAccountKeys error: %w", err)
	}

	instructions, err := buildRpcInstructions(raw)
	if err != nil {
		return nil, fmt.Errorf("buildRpcInstructions error: %w", err)
	}

	tokenBalances, tokenDecimals := buildRpcBalances(raw, accountKeys)

	var blockTime int64
	if raw.BlockTime != nil {
		blockTime = *raw.BlockTime
	}

	view := &TxView{
		Slot:          raw.Slot,
		BlockTime:     blockTime,
		Signature:     raw.Transaction.Signatures[0],
		Signers:       signers,
		AccountKeys:   accountKeys,
		Instructions:  instructions,
		SolBalances:   buildRpcSolBalances(raw, accountKeys),
		TokenBalances: tokenBalances,
		decimals:      tokenDecimals,
	}
	view.finalize()
	return view, nil
}

// buildRpcAccountKeys 解析账户列表并补齐 lookup table 加载的地址。
// jsonParsed 编码通常已把 loaded addresses 并入 accountKeys（source=lookupTable），
// 仅当 meta.loadedAddresses 中存在列表外的地址时才追加。
func buildRpcAccountKeys(raw *RpcTransaction) (accountKeys, signers []types.Pubkey, err error) {
	keys := raw.Transaction.Message.AccountKeys
	accountKeys = make([]types.Pubkey, 0, len(keys))
	seen := make(map[types.Pubkey]bool, len(keys))

	for i, k := range keys {
		pk, err := types.TryPubkeyFromBase58(k.Pubkey)
		if err != nil {
			return nil, nil, fmt.Errorf("accountKeys[%d]: %w", i, err)
		}
		accountKeys = append(accountKeys, pk)
		seen[pk] = true
		if k.Signer {
			signers = append(signers, pk)
		}
	}

	if la := raw.Meta.LoadedAddresses; la != nil {
		for _, s := range append(la.Writable, la.Readonly...) {
			pk, err := types.TryPubkeyFromBase58(s)
			if err != nil {
				return nil, nil, fmt.Errorf("loadedAddresses: %w", err)
			}
			if !seen[pk] {
				accountKeys = append(accountKeys, pk)
				seen[pk] = true
			}
		}
	}

	if len(signers) == 0 {
		signers = accountKeys[:1]
	}
	return accountKeys, signers, nil
}

// buildRpcInstructions 扁平化主指令与 inner 指令，与 gRPC 路径保持一致的位置编号。
func buildRpcInstructions(raw *RpcTransaction) ([]*core.AdaptedInstruction, error) {
	outers := raw.Transaction.Message.Instructions

	// inner 集合按主指令索引建索引，RPC 不保证集合有序
	innerSets := make(map[uint16][]RpcInstruction, len(raw.Meta.InnerInstructions))
	for _, set := range raw.Meta.InnerInstructions {
		innerSets[set.Index] = set.Instructions
	}

	instructions := make([]*core.AdaptedInstruction, 0, max(len(outers)*2, 32))
	for i, outer := range outers {
		ix, err := adaptRpcInstruction(outer, uint16(i), 0)
		if err != nil {
			return nil, err
		}
		instructions = append(instructions, ix)

		for j, inner := range innerSets[uint16(i)] {
			ix, err := adaptRpcInstruction(inner, uint16(i), uint16(j+1))
			if err != nil {
				return nil, err
			}
			instructions = append(instructions, ix)
		}
	}
	return instructions, nil
}

// adaptRpcInstruction 单条指令的归一化：
// 已解析形态保留命名参数（Parsed），部分解码形态还原账户列表与原始字节。
func adaptRpcInstruction(ri RpcInstruction, ixIndex, innerIndex uint16) (*core.AdaptedInstruction, error) {
	programID, err := types.TryPubkeyFromBase58(ri.ProgramId)
	if err != nil {
		return nil, fmt.Errorf("instruction %d-%d programId: %w", ixIndex, innerIndex, err)
	}

	ix := &core.AdaptedInstruction{
		IxIndex:    ixIndex,
		InnerIndex: innerIndex,
		ProgramID:  programID,
	}

	if len(ri.Parsed) > 0 {
		var body rpcParsedBody
		if err := json.Unmarshal(ri.Parsed, &body); err == nil && body.Type != "" {
			ix.Parsed = &core.ParsedFields{
				Program: ri.Program,
				Type:    body.Type,
				Info:    body.Info,
			}
		}
		// memo 等程序的 parsed 为纯字符串，按不透明指令处理
	}

	if len(ri.Accounts) > 0 {
		accounts := make([]types.Pubkey, 0, len(ri.Accounts))
		for _, a := range ri.Accounts {
			pk, err := types.TryPubkeyFromBase58(a)
			if err != nil {
				return nil, fmt.Errorf("instruction %d-%d accounts: %w", ixIndex, innerIndex, err)
			}
			accounts = append(accounts, pk)
		}
		ix.Accounts = accounts
	}

	if ri.Data != "" {
		data, err := base58.Decode(ri.Data)
		if err != nil {
			return nil, fmt.Errorf("instruction %d-%d data: %w", ixIndex, innerIndex, err)
		}
		ix.Data = data
	}
	return ix, nil
}

// buildRpcBalances 与 gRPC 路径同构，decimals 按 pre 优先记录。
func buildRpcBalances(
	raw *RpcTransaction,
	accountKeys []types.Pubkey,
) (map[types.Pubkey]*core.TokenBalance, []core.TokenDecimals) {
	preList := raw.Meta.PreTokenBalances
	postList := raw.Meta.PostTokenBalances

	capacity := len(preList) + len(postList)
	balanceMap := make(map[types.Pubkey]*core.TokenBalance, capacity)
	mints := newMintResolver(capacity)
	owners := newOwnerResolver(capacity)

	accountAt := func(index int) (types.Pubkey, bool) {
		if index < 0 || index >= len(accountKeys) {
			return types.Pubkey{}, false
		}
		return accountKeys[index], true
	}

	for _, pre := range preList {
		// jsonParsed 旧版本响应可能缺 programId，此时不做 SPL 过滤
		if pre.ProgramId != "" && !tools.IsSPLToken(pre.ProgramId) {
			continue
		}
		account, ok := accountAt(pre.AccountIndex)
		if !ok {
			continue
		}
		owner := owners.resolve(pre.Owner)
		balanceMap[account] = &core.TokenBalance{
			TokenAccount: account,
			Token:        mints.resolve(pre.Mint, pre.UiTokenAmount.Decimals),
			Decimals:     pre.UiTokenAmount.Decimals,
			HasPre:       true,
			PreBalance:   tools.ParseUint64(pre.UiTokenAmount.Amount),
			PreOwner:     owner,
			PostOwner:    owner,
		}
	}

	for _, post := range postList {
		if post.ProgramId != "" && !tools.IsSPLToken(post.ProgramId) {
			continue
		}
		account, ok := accountAt(post.AccountIndex)
		if !ok {
			continue
		}
		owner := owners.resolve(post.Owner)
		if tb, exists := balanceMap[account]; exists {
			tb.PostBalance = tools.ParseUint64(post.UiTokenAmount.Amount)
			tb.PostOwner = owner
		} else {
			balanceMap[account] = &core.TokenBalance{
				TokenAccount: account,
				Token:        mints.resolve(post.Mint, post.UiTokenAmount.Decimals),
				Decimals:     post.UiTokenAmount.Decimals,
				PostBalance:  tools.ParseUint64(post.UiTokenAmount.Amount),
				PostOwner:    owner,
			}
		}
	}

	return balanceMap, mints.buildTokenDecimals()
}

func buildRpcSolBalances(raw *RpcTransaction, accountKeys []types.Pubkey) map[types.Pubkey]*core.SolBalance {
	pre := raw.Meta.PreBalances
	post := raw.Meta.PostBalances

	n := min(len(accountKeys), len(pre), len(post))
	balances := make(map[types.Pubkey]*core.SolBalance, n)
	for i := 0; i < n; i++ {
		balances[accountKeys[i]] = &core.SolBalance{
			Account:     accountKeys[i],
			PreBalance:  pre[i],
			PostBalance: post[i],
		}
	}
	return balances
}
