package tx

import (
	"fmt"

	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/tools"
	"dex-parser-sol/internal/types"
	"github.com/mr-tron/base58"
	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"
)

// buildFullAccountKeys 构造交易中完整的账户 Pubkey 列表。
// 拼接 message.accountKeys 与 Address Lookup Table 中的 writable / readonly 地址，
// 供后续通过 accountIndex 高效索引使用。
func buildFullAccountKeys(
	accountKeys, loadedWritable, loadedReadonly [][]byte,
) ([]types.Pubkey, error) {
	// 计算总账户数，确保分配空间恰好
	total := len(accountKeys) + len(loadedWritable) + len(loadedReadonly)
	pubkeys := make([]types.Pubkey, total)

	i := 0 // 写入索引

	// 主账户部分（来自 message.accountKeys）
	for _, b := range accountKeys {
		if len(b) != 32 {
			return nil, fmt.Errorf("invalid pubkey in accountKeys at index %d", i)
		}
		copy(pubkeys[i][:], b)
		i++
	}

	// Address Table 中的 writable 部分
	for _, b := range loadedWritable {
		if len(b) != 32 {
			return nil, fmt.Errorf("invalid pubkey in loadedWritable at index %d", i)
		}
		copy(pubkeys[i][:], b)
		i++
	}

	// Address Table 中的 readonly 部分
	for _, b := range loadedReadonly {
		if len(b) != 32 {
			return nil, fmt.Errorf("invalid pubkey in loadedReadonly at index %d", i)
		}
		copy(pubkeys[i][:], b)
		i++
	}
	return pubkeys, nil
}

// buildGrpcInstructions 扁平化解析主指令与 inner 指令，输出统一结构。
// 每条主指令与其 inner 指令将展开为多条 AdaptedInstruction：
//   - IxIndex：主指令索引；
//   - InnerIndex：0 表示主指令，1及以上表示对应的 inner 指令序号。
func buildGrpcInstructions(
	tx *pb.SubscribeUpdateTransactionInfo,
	accountKeys []types.Pubkey,
) ([]*core.AdaptedInstruction, error) {
	rawInstructions := tx.Transaction.Message.Instructions
	rawInners := tx.Meta.InnerInstructions

	resolveAccounts := func(indices []byte) ([]types.Pubkey, error) {
		accounts := make([]types.Pubkey, 0, len(indices))
		for _, idx := range indices {
			if int(idx) >= len(accountKeys) {
				return nil, fmt.Errorf("account index %d out of range (%d keys)", idx, len(accountKeys))
			}
			accounts = append(accounts, accountKeys[idx])
		}
		return accounts, nil
	}

	// 预分配容量：假设每条主指令平均含有 2 条 inner 指令，最低保留 32 条，避免切片动态扩容
	instructions := make([]*core.AdaptedInstruction, 0, max(len(rawInstructions)*2, 32))
	innerIndex := 0

	for i, inst := range rawInstructions {
		if int(inst.ProgramIdIndex) >= len(accountKeys) {
			return nil, fmt.Errorf("programIdIndex %d out of range at instruction %d", inst.ProgramIdIndex, i)
		}
		accounts, err := resolveAccounts(inst.Accounts)
		if err != nil {
			return nil, err
		}

		// 主指令，InnerIndex = 0
		instructions = append(instructions, &core.AdaptedInstruction{
			IxIndex:    uint16(i),
			InnerIndex: 0,
			ProgramID:  accountKeys[inst.ProgramIdIndex],
			Accounts:   accounts,
			Data:       inst.Data,
		})

		// 解析 inner 指令（如存在），InnerIndex 从1开始递增
		// 注意：每个主指令最多对应一个 inner 指令块，且 inner 列表按主指令索引
		// 递增排列，因此此处采用顺序匹配，无需 map 或多次扫描。
		if innerIndex < len(rawInners) && int(rawInners[innerIndex].Index) == i {
			for j, inner := range rawInners[innerIndex].Instructions {
				if int(inner.ProgramIdIndex) >= len(accountKeys) {
					return nil, fmt.Errorf("programIdIndex %d out of range at inner %d-%d", inner.ProgramIdIndex, i, j)
				}
				innerAccounts, err := resolveAccounts(inner.Accounts)
				if err != nil {
					return nil, err
				}
				instructions = append(instructions, &core.AdaptedInstruction{
					IxIndex:    uint16(i),
					InnerIndex: uint16(j + 1), // InnerIndex从1开始递增
					ProgramID:  accountKeys[inner.ProgramIdIndex],
					Accounts:   innerAccounts,
					Data:       inner.Data,
				})
			}
			innerIndex++
		}
	}

	return instructions, nil
}

// buildGrpcBalances 构建 TokenBalance 映射与 decimals 表。
// decimals 按 pre 快照优先记录（账户可能在交易中被销毁，pre 是唯一来源）。
func buildGrpcBalances(
	tx *pb.SubscribeUpdateTransactionInfo,
	accountKeys []types.Pubkey,
) (map[types.Pubkey]*core.TokenBalance, []core.TokenDecimals) {
	preList := tx.Meta.PreTokenBalances
	postList := tx.Meta.PostTokenBalances

	capacity := len(preList) + len(postList)
	balanceMap := make(map[types.Pubkey]*core.TokenBalance, capacity)
	mints := newMintResolver(capacity)
	owners := newOwnerResolver(capacity)

	accountAt := func(index uint32) (types.Pubkey, bool) {
		if int(index) >= len(accountKeys) {
			return types.Pubkey{}, false
		}
		return accountKeys[index], true
	}

	// 先处理 Pre，decimals 表按此顺序建立
	for _, pre := range preList {
		// 仅处理标准 SPL Token（TokenProgram / Token2022），跳过非标准模拟账户
		if !tools.IsSPLToken(pre.ProgramId) {
			continue
		}
		account, ok := accountAt(pre.AccountIndex)
		if !ok {
			continue
		}
		decimals := uint8(pre.UiTokenAmount.Decimals)
		owner := owners.resolve(pre.Owner)
		balanceMap[account] = &core.TokenBalance{
			TokenAccount: account,
			Token:        mints.resolve(pre.Mint, decimals),
			Decimals:     decimals,
			HasPre:       true,
			PreBalance:   tools.ParseUint64(pre.UiTokenAmount.Amount),
			PreOwner:     owner,
			PostOwner:    owner, // Pre-only（账户被销毁）时默认 PostOwner = PreOwner
		}
	}

	// 再处理 Post，补充最终状态
	for _, post := range postList {
		if !tools.IsSPLToken(post.ProgramId) {
			continue
		}
		account, ok := accountAt(post.AccountIndex)
		if !ok {
			continue
		}
		decimals := uint8(post.UiTokenAmount.Decimals)
		owner := owners.resolve(post.Owner)
		if tb, exists := balanceMap[account]; exists {
			tb.PostBalance = tools.ParseUint64(post.UiTokenAmount.Amount)
			tb.PostOwner = owner
		} else {
			// Post-only（本笔交易中新建的账户）
			balanceMap[account] = &core.TokenBalance{
				TokenAccount: account,
				Token:        mints.resolve(post.Mint, decimals),
				Decimals:     decimals,
				PostBalance:  tools.ParseUint64(post.UiTokenAmount.Amount),
				PostOwner:    owner,
			}
		}
	}

	return balanceMap, mints.buildTokenDecimals()
}

// buildGrpcSolBalances 由 meta 中按账户下标对齐的 lamports 数组构建 SOL 余额映射。
func buildGrpcSolBalances(
	tx *pb.SubscribeUpdateTransactionInfo,
	accountKeys []types.Pubkey,
) map[types.Pubkey]*core.SolBalance {
	pre := tx.Meta.PreBalances
	post := tx.Meta.PostBalances

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

// AdaptGrpcTx 将 gRPC 推送的交易数据归一化为 TxView。
// 完整流程：
//  1. 构建 accountKeys（含 Address Lookup）；
//  2. 构建指令（主 + inner）；
//  3. 构建 SOL / Token 余额（含 decimals 去重）；
//  4. finalize：补齐 decimals、构建 token account 映射。
func AdaptGrpcTx(slot uint64, blockTime int64, tx *pb.SubscribeUpdateTransactionInfo) (_ *TxView, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("AdaptGrpcTx panic: %v", r)
		}
	}()

	if tx == nil || tx.Transaction == nil || tx.Transaction.Message == nil || tx.Meta == nil {
		return nil, fmt.Errorf("invalid transaction: missing message or meta")
	}

	// 构造完整的账户 pubkey 列表（主账户 + Address Lookup 表中的 writable 和 readonly）
	accountKeys, err := buildFullAccountKeys(
		tx.Transaction.Message.AccountKeys,
		tx.Meta.LoadedWritableAddresses,
		tx.Meta.LoadedReadonlyAddresses,
	)
	if err != nil {
		return nil, fmt.Errorf("buildFullAccountKeys error: %w", err)
	}

	// 基本健壮性校验：签名或账户列表为空时立即报错
	if len(tx.Transaction.Signatures) == 0 || len(accountKeys) == 0 {
		return nil, fmt.Errorf("invalid transaction: missing signature or accountKeys")
	}

	// 获取 signer 数量（前 N 个 accountKeys 视为 signer）
	signerCount := int(tx.Transaction.Message.Header.NumRequiredSignatures)
	if signerCount == 0 || len(accountKeys) < signerCount {
		return nil, fmt.Errorf("invalid signer count: %d", signerCount)
	}

	instructions, err := buildGrpcInstructions(tx, accountKeys)
	if err != nil {
		return nil, fmt.Errorf("buildGrpcInstructions error: %w", err)
	}

	tokenBalances, tokenDecimals := buildGrpcBalances(tx, accountKeys)

	view := &TxView{
		Slot:          slot,
		BlockTime:     blockTime,
		Signature:     base58.Encode(tx.Transaction.Signatures[0]),
		Signers:       accountKeys[:signerCount],
		AccountKeys:   accountKeys,
		Instructions:  instructions,
		SolBalances:   buildGrpcSolBalances(tx, accountKeys),
		TokenBalances: tokenBalances,
		decimals:      tokenDecimals,
	}
	view.finalize()
	return view, nil
}
