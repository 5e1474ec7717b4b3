package tx

import (
	"testing"

	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/types"

	"github.com/mr-tron/base58"
	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"
	"github.com/stretchr/testify/require"
)

// rawKey 生成确定性的 32 字节账户。
func rawKey(seed byte) []byte {
	b := make([]byte, 32)
	for i := range b {
		b[i] = seed
	}
	return b
}

func keyOf(seed byte) types.Pubkey {
	var pk types.Pubkey
	copy(pk[:], rawKey(seed))
	return pk
}

// buildGrpcTestTx 构造一笔典型交易：
// 外层为某 DEX 程序指令，inner 为一条 SPL transfer。
//
//	accounts[0] 签名钱包 A
//	accounts[1] A 的 token account（source）
//	accounts[2] B 的 token account（dest）
//	accounts[3] Token Program
//	accounts[4] DEX 程序
func buildGrpcTestTx(t *testing.T) *pb.SubscribeUpdateTransactionInfo {
	t.Helper()

	tokenProgram, err := base58.Decode(consts.TokenProgramStr)
	require.NoError(t, err)

	sig := make([]byte, 64)
	sig[0] = 0xab

	return &pb.SubscribeUpdateTransactionInfo{
		Signature: sig,
		Transaction: &pb.Transaction{
			Signatures: [][]byte{sig},
			Message: &pb.Message{
				Header: &pb.MessageHeader{
					NumRequiredSignatures: 1,
				},
				AccountKeys: [][]byte{
					rawKey(0x01), // A
					rawKey(0x02), // A token account
					rawKey(0x03), // B token account
					tokenProgram,
					rawKey(0x05), // dex program
				},
				Instructions: []*pb.CompiledInstruction{
					{ProgramIdIndex: 4, Accounts: []byte{1, 2, 0}, Data: []byte{9, 0}},
				},
			},
		},
		Meta: &pb.TransactionStatusMeta{
			PreBalances:  []uint64{10_000_000, 2_039_280, 2_039_280, 1, 1},
			PostBalances: []uint64{9_995_000, 2_039_280, 2_039_280, 1, 1},
			InnerInstructions: []*pb.InnerInstructions{
				{
					Index: 0,
					Instructions: []*pb.InnerInstruction{
						{ProgramIdIndex: 3, Accounts: []byte{1, 2, 0}, Data: []byte{3, 88, 2, 0, 0, 0, 0, 0, 0}},
					},
				},
			},
			PreTokenBalances: []*pb.TokenBalance{
				{
					AccountIndex: 1,
					Mint:         base58.Encode(rawKey(0x10)),
					Owner:        base58.Encode(rawKey(0x01)),
					ProgramId:    consts.TokenProgramStr,
					UiTokenAmount: &pb.UiTokenAmount{
						Amount:   "1000",
						Decimals: 6,
					},
				},
				{
					AccountIndex: 2,
					Mint:         base58.Encode(rawKey(0x10)),
					Owner:        base58.Encode(rawKey(0x06)),
					ProgramId:    consts.TokenProgramStr,
					UiTokenAmount: &pb.UiTokenAmount{
						Amount:   "0",
						Decimals: 6,
					},
				},
			},
			PostTokenBalances: []*pb.TokenBalance{
				{
					AccountIndex: 1,
					Mint:         base58.Encode(rawKey(0x10)),
					Owner:        base58.Encode(rawKey(0x01)),
					ProgramId:    consts.TokenProgramStr,
					UiTokenAmount: &pb.UiTokenAmount{
						Amount:   "400",
						Decimals: 6,
					},
				},
				{
					AccountIndex: 2,
					Mint:         base58.Encode(rawKey(0x10)),
					Owner:        base58.Encode(rawKey(0x06)),
					ProgramId:    consts.TokenProgramStr,
					UiTokenAmount: &pb.UiTokenAmount{
						Amount:   "600",
						Decimals: 6,
					},
				},
			},
		},
	}
}

func TestAdaptGrpcTx(t *testing.T) {
	raw := buildGrpcTestTx(t)
	view, err := AdaptGrpcTx(12345, 1700000000, raw)
	require.NoError(t, err)

	require.Equal(t, uint64(12345), view.Slot)
	require.Equal(t, int64(1700000000), view.BlockTime)
	require.Equal(t, base58.Encode(raw.Signature), view.Signature)
	require.Equal(t, keyOf(0x01), view.Signer())
	require.Len(t, view.Signers, 1)

	// 主指令 + inner 指令展平，位置编号与链上一致
	require.Len(t, view.Instructions, 2)
	require.Equal(t, "0-0", view.Instructions[0].Idx())
	require.Equal(t, keyOf(0x05), view.Instructions[0].ProgramID)
	require.True(t, view.Instructions[0].IsOuter())
	require.Equal(t, "0-1", view.Instructions[1].Idx())
	require.Equal(t, consts.TokenProgram, view.Instructions[1].ProgramID)
	require.Equal(t,
		[]types.Pubkey{keyOf(0x02), keyOf(0x03), keyOf(0x01)},
		view.Instructions[1].Accounts)

	// SOL 余额差 = 手续费
	delta, ok := view.SolBalanceDelta(keyOf(0x01))
	require.True(t, ok)
	require.Equal(t, int64(-5000), delta)

	// Token 余额差按 owner 聚合
	delta, ok = view.TokenBalanceDelta(keyOf(0x01), keyOf(0x10))
	require.True(t, ok)
	require.Equal(t, int64(-600), delta)
	delta, ok = view.TokenBalanceDelta(keyOf(0x06), keyOf(0x10))
	require.True(t, ok)
	require.Equal(t, int64(600), delta)

	// decimals 来自余额快照
	d, ok := view.TryTokenDecimals(keyOf(0x10))
	require.True(t, ok)
	require.Equal(t, uint8(6), d)

	// token account 归属
	meta, ok := view.TokenMetaOf(keyOf(0x02))
	require.True(t, ok)
	require.Equal(t, keyOf(0x10), meta.Mint)
	require.Equal(t, keyOf(0x01), meta.Owner)

	// 非 token account 兜底为原生 SOL
	meta = view.TokenMetaOrSOL(keyOf(0x01))
	require.Equal(t, consts.NativeSOLMint, meta.Mint)
	require.Equal(t, uint8(consts.SOLDecimals), meta.Decimals)
}

func TestAdaptGrpcTxLoadedAddresses(t *testing.T) {
	raw := buildGrpcTestTx(t)
	raw.Meta.LoadedWritableAddresses = [][]byte{rawKey(0x20)}
	raw.Meta.LoadedReadonlyAddresses = [][]byte{rawKey(0x21)}

	view, err := AdaptGrpcTx(1, 0, raw)
	require.NoError(t, err)

	require.Len(t, view.AccountKeys, 7)
	pk, ok := view.AccountKeyAt(5)
	require.True(t, ok)
	require.Equal(t, keyOf(0x20), pk)
	pk, ok = view.AccountKeyAt(6)
	require.True(t, ok)
	require.Equal(t, keyOf(0x21), pk)

	_, ok = view.AccountKeyAt(7)
	require.False(t, ok)
}

func TestAdaptGrpcTxInvalid(t *testing.T) {
	_, err := AdaptGrpcTx(1, 0, nil)
	require.Error(t, err)

	raw := buildGrpcTestTx(t)
	raw.Transaction.Message.Header.NumRequiredSignatures = 0
	_, err = AdaptGrpcTx(1, 0, raw)
	require.Error(t, err)

	raw = buildGrpcTestTx(t)
	raw.Transaction.Message.Instructions[0].ProgramIdIndex = 99
	_, err = AdaptGrpcTx(1, 0, raw)
	require.Error(t, err)

	raw = buildGrpcTestTx(t)
	raw.Transaction.Message.AccountKeys[0] = []byte{1, 2, 3}
	_, err = AdaptGrpcTx(1, 0, raw)
	require.Error(t, err)
}
