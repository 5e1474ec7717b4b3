package tx

import (
	"fmt"
	"testing"

	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/types"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/require"
)

func b58(seed byte) string {
	return base58.Encode(rawKey(seed))
}

func TestAdaptRpcJSON(t *testing.T) {
	wallet := b58(0x01)
	srcAcc := b58(0x02)
	dstAcc := b58(0x03)
	mint := b58(0x10)
	dexProgram := b58(0x05)

	data := fmt.Sprintf(`{
		"slot": 555,
		"blockTime": 1700000000,
		"transaction": {
			"signatures": ["5KtP3xyz"],
			"message": {
				"accountKeys": [
					{"pubkey": %q, "signer": true, "writable": true, "source": "transaction"},
					{"pubkey": %q, "signer": false, "writable": true, "source": "transaction"},
					{"pubkey": %q, "signer": false, "writable": true, "source": "transaction"},
					{"pubkey": %q, "signer": false, "writable": false, "source": "transaction"},
					{"pubkey": %q, "signer": false, "writable": false, "source": "transaction"}
				],
				"instructions": [
					{"programId": %q, "accounts": [%q, %q, %q], "data": "7b"}
				]
			}
		},
		"meta": {
			"err": null,
			"fee": 5000,
			"preBalances": [10000000, 2039280, 2039280, 1, 1],
			"postBalances": [9995000, 2039280, 2039280, 1, 1],
			"preTokenBalances": [
				{"accountIndex": 1, "mint": %q, "owner": %q, "programId": %q,
				 "uiTokenAmount": {"amount": "1000", "decimals": 6, "uiAmount": 0.001, "uiAmountString": "0.001"}}
			],
			"postTokenBalances": [
				{"accountIndex": 1, "mint": %q, "owner": %q, "programId": %q,
				 "uiTokenAmount": {"amount": "400", "decimals": 6, "uiAmount": 0.0004, "uiAmountString": "0.0004"}},
				{"accountIndex": 2, "mint": %q, "owner": %q, "programId": %q,
				 "uiTokenAmount": {"amount": "600", "decimals": 6, "uiAmount": 0.0006, "uiAmountString": "0.0006"}}
			],
			"innerInstructions": [
				{"index": 0, "instructions": [
					{"program": "spl-token", "programId": %q,
					 "parsed": {"type": "transferChecked", "info": {
						"source": %q, "destination": %q, "authority": %q, "mint": %q,
						"tokenAmount": {"amount": "600", "decimals": 6, "uiAmount": 0.0006, "uiAmountString": "0.0006"}
					 }}}
				]}
			]
		}
	}`,
		wallet, srcAcc, dstAcc, consts.TokenProgramStr, dexProgram,
		dexProgram, srcAcc, dstAcc, wallet,
		mint, wallet, consts.TokenProgramStr,
		mint, wallet, consts.TokenProgramStr,
		mint, b58(0x06), consts.TokenProgramStr,
		consts.TokenProgramStr,
		srcAcc, dstAcc, wallet, mint,
	)

	view, err := AdaptRpcJSON([]byte(data))
	require.NoError(t, err)

	require.Equal(t, uint64(555), view.Slot)
	require.Equal(t, int64(1700000000), view.BlockTime)
	require.Equal(t, "5KtP3xyz", view.Signature)
	require.Equal(t, keyOf(0x01), view.Signer())

	require.Len(t, view.Instructions, 2)

	// 外层：部分解码形态，账户与数据已还原
	outer := view.Instructions[0]
	require.Equal(t, "0-0", outer.Idx())
	require.Equal(t, keyOf(0x05), outer.ProgramID)
	require.Nil(t, outer.Parsed)
	require.Equal(t, []types.Pubkey{keyOf(0x02), keyOf(0x03), keyOf(0x01)}, outer.Accounts)
	require.NotEmpty(t, outer.Data)

	// inner：已解析形态，命名参数可读
	inner := view.Instructions[1]
	require.Equal(t, "0-1", inner.Idx())
	require.Equal(t, consts.TokenProgram, inner.ProgramID)
	require.NotNil(t, inner.Parsed)
	require.Equal(t, "transferChecked", inner.Parsed.Type)
	src, ok := inner.Parsed.Str("source")
	require.True(t, ok)
	require.Equal(t, srcAcc, src)
	amount, decimals, ok := inner.Parsed.TokenAmount()
	require.True(t, ok)
	require.Equal(t, uint64(600), amount)
	require.Equal(t, uint8(6), decimals)

	// 余额快照与 gRPC 路径同构
	delta, ok := view.SolBalanceDelta(keyOf(0x01))
	require.True(t, ok)
	require.Equal(t, int64(-5000), delta)

	delta, ok = view.TokenBalanceDelta(keyOf(0x01), keyOf(0x10))
	require.True(t, ok)
	require.Equal(t, int64(-600), delta)

	d, ok := view.TryTokenDecimals(keyOf(0x10))
	require.True(t, ok)
	require.Equal(t, uint8(6), d)

	// 已解析指令中的 source/destination 也进入 token map
	meta, ok := view.TokenMetaOf(keyOf(0x03))
	require.True(t, ok)
	require.Equal(t, keyOf(0x10), meta.Mint)
}

func TestAdaptRpcJSONInvalid(t *testing.T) {
	_, err := AdaptRpcJSON([]byte("not json"))
	require.Error(t, err)

	_, err = AdaptRpcJSON([]byte(`{"slot": 1}`))
	require.Error(t, err)

	_, err = AdaptRpcJSON([]byte(`{
		"slot": 1,
		"transaction": {"signatures": ["x"], "message": {"accountKeys": [
			{"pubkey": "!!invalid!!", "signer": true}
		]}},
		"meta": {"err": null}
	}`))
	require.Error(t, err)
}
