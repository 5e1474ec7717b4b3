package parser

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"testing"

	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/decoder"
	"dex-parser-sol/internal/parser/jupiter"
	"dex-parser-sol/internal/parser/meteorapools"
	"dex-parser-sol/internal/parser/pumpfun"
	"dex-parser-sol/internal/tx"
	"dex-parser-sol/internal/types"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testPk 构造可区分的合法 base58 地址（避开全零的哨兵地址）。
func testPk(b byte) string {
	var p types.Pubkey
	p[0] = b
	p[31] = b
	return p.String()
}

// discData 8 字节 discriminator 的 base58 指令数据。
func discData(tag uint64) string {
	return base58.Encode(binary.BigEndian.AppendUint64(nil, tag))
}

// eventData 事件指令数据：16 字节 tag + 负载。
func eventData(eventID uint64, payload []byte) string {
	buf := binary.BigEndian.AppendUint64(nil, decoder.AnchorEventMarker)
	buf = binary.BigEndian.AppendUint64(buf, eventID)
	return base58.Encode(append(buf, payload...))
}

type RpcIx struct {
	Program   string
	ProgramId string
	Parsed    string
	Accounts  []string
	Data      string
}

func (i RpcIx) toRpc() tx.RpcInstruction {
	out := tx.RpcInstruction{
		Program:   i.Program,
		ProgramId: i.ProgramId,
		Accounts:  i.Accounts,
		Data:      i.Data,
	}
	if i.Parsed != "" {
		out.Parsed = json.RawMessage(i.Parsed)
	}
	return out
}

func tokenTransferCheckedIx(source, dest, authority, mint, amount string, decimals uint8) RpcIx {
	return RpcIx{
		Program:   "spl-token",
		ProgramId: consts.TokenProgramStr,
		Parsed: fmt.Sprintf(`{"type":"transferChecked","info":{"source":%q,"destination":%q,"authority":%q,"mint":%q,"tokenAmount":{"amount":%q,"decimals":%d}}}`,
			source, dest, authority, mint, amount, decimals),
	}
}

func systemTransferIx(source, dest string, lamports uint64) RpcIx {
	return RpcIx{
		Program:   "system",
		ProgramId: consts.SystemProgramStr,
		Parsed: fmt.Sprintf(`{"type":"transfer","info":{"source":%q,"destination":%q,"lamports":%d}}`,
			source, dest, lamports),
	}
}

func buildTestView(t *testing.T, signer string, outers []RpcIx, inners map[uint16][]RpcIx) *tx.TxView {
	t.Helper()

	msg := tx.RpcMessage{
		AccountKeys: []tx.RpcAccountKey{{Pubkey: signer, Signer: true, Writable: true}},
	}
	for _, ix := range outers {
		msg.Instructions = append(msg.Instructions, ix.toRpc())
	}

	meta := &tx.RpcMeta{
		PreBalances:  []uint64{10_000_000},
		PostBalances: []uint64{9_000_000},
	}
	for idx, set := range inners {
		converted := make([]tx.RpcInstruction, 0, len(set))
		for _, ix := range set {
			converted = append(converted, ix.toRpc())
		}
		meta.InnerInstructions = append(meta.InnerInstructions, tx.RpcInnerInstructionSet{
			Index:        idx,
			Instructions: converted,
		})
	}

	view, err := tx.AdaptRpcTx(&tx.RpcTransaction{
		Slot:        1000,
		Transaction: tx.RpcTxBody{Signatures: []string{"sig-test"}, Message: msg},
		Meta:        meta,
	})
	require.NoError(t, err)
	return view
}

// 建池场景：MeteoraPools 主指令下的项目代币转账 + 原生 SOL 转账
// 归并为一条 CREATE 事件，token0 为项目代币、token1 为 SOL。
func TestMeteoraPoolsCreate(t *testing.T) {
	signer := testPk(1)
	strikeMint := testPk(2)
	vaultA, vaultB := testPk(3), testPk(4)
	userStrike := testPk(5)

	accounts := make([]string, 19)
	for i := range accounts {
		accounts[i] = testPk(byte(100 + i))
	}
	accounts[3] = strikeMint
	accounts[4] = consts.WSOLMintStr
	accounts[18] = signer

	view := buildTestView(t, signer,
		[]RpcIx{{
			ProgramId: consts.MeteoraPoolsProgramStr,
			Accounts:  accounts,
			Data:      discData(meteorapools.InitializePermissionlessCpPoolConfig),
		}},
		map[uint16][]RpcIx{
			0: {
				tokenTransferCheckedIx(userStrike, vaultA, signer, strikeMint, "100000000", 9),
				systemTransferIx(signer, vaultB, 2740),
			},
		})

	result := New().ParseTransaction(view, core.DefaultOption())
	require.True(t, result.State)
	require.Len(t, result.Liquidities, 1)
	event := result.Liquidities[0]

	assert.Equal(t, core.PoolCreate, event.Type)
	assert.Equal(t, accounts[0], event.PoolID)
	assert.Equal(t, accounts[2], event.PoolLpMint)
	assert.Equal(t, signer, event.User)
	assert.Equal(t, "MeteoraPools", event.Amm)

	require.NotNil(t, event.Token0)
	require.NotNil(t, event.Token1)
	assert.Equal(t, strikeMint, event.Token0.Mint)
	assert.Equal(t, "100000000", event.Token0.Amount)
	assert.Equal(t, consts.NativeSOLMint.String(), event.Token1.Mint)
	assert.Equal(t, "2740", event.Token1.Amount)

	assert.Empty(t, result.Trades)
	assert.Empty(t, result.Transfers) // 触达已知 DEX，不退化为转账清单
}

// 未注册程序 + 两条 leg：兜底合成 trade，programId 保留、amm 为空。
func TestUnknownDexFallback(t *testing.T) {
	signer := testPk(1)
	unknownProg := testPk(2)
	tokenMint := testPk(3)
	poolUsdc, poolToken := testPk(4), testPk(5)
	userToken := testPk(6)

	view := buildTestView(t, signer,
		[]RpcIx{{ProgramId: unknownProg, Accounts: []string{signer}}},
		map[uint16][]RpcIx{
			0: {
				tokenTransferCheckedIx(signer, poolUsdc, signer, consts.USDCMintStr, "5000000", 6),
				tokenTransferCheckedIx(poolToken, userToken, testPk(7), tokenMint, "120000", 6),
			},
		})

	result := New().ParseTransaction(view, core.DefaultOption())
	require.True(t, result.State)
	require.Len(t, result.Trades, 1)

	trade := result.Trades[0]
	assert.Equal(t, core.TradeBuy, trade.Type)
	assert.Equal(t, consts.USDCMintStr, trade.InputToken.Mint)
	assert.Equal(t, "5000000", trade.InputToken.Amount)
	assert.Equal(t, tokenMint, trade.OutputToken.Mint)
	assert.Equal(t, unknownProg, trade.ProgramID)
	assert.Empty(t, trade.Amm)
	assert.Empty(t, result.Transfers)
}

// 关闭兜底后同一笔交易不产出 trade，且因未触达已知 DEX 而退化为转账清单。
func TestUnknownDexDisabled(t *testing.T) {
	signer := testPk(1)
	unknownProg := testPk(2)

	view := buildTestView(t, signer,
		[]RpcIx{{ProgramId: unknownProg, Accounts: []string{signer}}},
		map[uint16][]RpcIx{
			0: {
				tokenTransferCheckedIx(signer, testPk(4), signer, consts.USDCMintStr, "5000000", 6),
				tokenTransferCheckedIx(testPk(5), testPk(6), testPk(7), testPk(3), "120000", 6),
			},
		})

	opt := core.DefaultOption()
	opt.TryUnknownDEX = false
	result := New().ParseTransaction(view, opt)

	require.True(t, result.State)
	assert.Empty(t, result.Trades)
	assert.Len(t, result.Transfers, 2)
}

// 纯转账交易：无 DEX 触达、无事件，完整转账台账作为结果暴露。
func TestPureTransferFallback(t *testing.T) {
	signer := testPk(1)
	view := buildTestView(t, signer,
		[]RpcIx{systemTransferIx(signer, testPk(2), 777)},
		nil)

	result := New().ParseTransaction(view, core.DefaultOption())
	require.True(t, result.State)
	assert.Empty(t, result.Trades)
	assert.Empty(t, result.Liquidities)
	require.Len(t, result.Transfers, 1)
	assert.Equal(t, "777", result.Transfers[0].Info.TokenAmount.Amount)
}

// DCA 开仓注资不产出交易事件，但资金流必须落入转账清单：
// 空注册条目只挡未知程序兜底合成，不得吞掉转账兜底。
func TestDcaFundingTransferFallback(t *testing.T) {
	signer := testPk(1)
	view := buildTestView(t, signer,
		[]RpcIx{{
			ProgramId: consts.JupiterDCAProgramStr,
			Accounts:  []string{testPk(2), signer, testPk(3)},
			Data:      discData(jupiter.OpenDcaV2),
		}},
		map[uint16][]RpcIx{0: {systemTransferIx(signer, testPk(2), 500000)}})

	result := New().ParseTransaction(view, core.DefaultOption())
	require.True(t, result.State)
	assert.Empty(t, result.Trades)
	assert.Empty(t, result.Liquidities)
	require.NotEmpty(t, result.Transfers)
	assert.Equal(t, "500000", result.Transfers[0].Info.TokenAmount.Amount)
}

// 残缺事件负载只丢弃该候选，State 保持 true。
func TestTruncatedEventDropped(t *testing.T) {
	signer := testPk(1)
	accounts := make([]string, 12)
	for i := range accounts {
		accounts[i] = testPk(byte(50 + i))
	}
	accounts[6] = signer

	view := buildTestView(t, signer,
		[]RpcIx{{
			ProgramId: consts.PumpFunProgramStr,
			Accounts:  accounts,
			Data:      discData(pumpfun.Buy),
		}},
		map[uint16][]RpcIx{
			0: {{
				ProgramId: consts.PumpFunProgramStr,
				Accounts:  []string{testPk(90)},
				Data:      eventData(pumpfun.TradeEventID, make([]byte, 10)), // 负载被截断
			}},
		})

	result := New().ParseTransaction(view, core.DefaultOption())
	require.True(t, result.State)
	assert.Empty(t, result.Trades)
	assert.Empty(t, result.Transfers)
}

// jupiterSwapEventPayload 手工编码 SwapEvent 负载。
func jupiterSwapEventPayload(amm, inMint string, inAmount uint64, outMint string, outAmount uint64) []byte {
	buf := make([]byte, 0, 112)
	ammPk := types.PubkeyFromBase58(amm)
	inPk := types.PubkeyFromBase58(inMint)
	outPk := types.PubkeyFromBase58(outMint)
	buf = append(buf, ammPk[:]...)
	buf = append(buf, inPk[:]...)
	buf = binary.LittleEndian.AppendUint64(buf, inAmount)
	buf = append(buf, outPk[:]...)
	buf = binary.LittleEndian.AppendUint64(buf, outAmount)
	return buf
}

// 多跳归并：中间 mint 两侧数额相等被对消，净额恰好一进一出时产出 trade。
func TestJupiterRouteMerge(t *testing.T) {
	signer := testPk(1)
	amm1, amm2 := testPk(2), testPk(3)
	midMint := testPk(4)

	view := buildTestView(t, signer,
		[]RpcIx{{
			ProgramId: consts.JupiterProgramStr,
			Accounts:  []string{signer},
			Data:      discData(jupiter.Route),
		}},
		map[uint16][]RpcIx{
			0: {
				{ProgramId: consts.JupiterProgramStr,
					Data: eventData(jupiter.SwapEventID, jupiterSwapEventPayload(amm1, consts.USDCMintStr, 100, midMint, 50))},
				{ProgramId: consts.JupiterProgramStr,
					Data: eventData(jupiter.SwapEventID, jupiterSwapEventPayload(amm2, midMint, 50, consts.WSOLMintStr, 200))},
			},
		})

	result := New().ParseTransaction(view, core.DefaultOption())
	require.True(t, result.State)
	require.Len(t, result.Trades, 1)

	trade := result.Trades[0]
	assert.Equal(t, core.TradeBuy, trade.Type)
	assert.Equal(t, consts.USDCMintStr, trade.InputToken.Mint)
	assert.Equal(t, "100", trade.InputToken.Amount)
	assert.Equal(t, consts.WSOLMintStr, trade.OutputToken.Mint)
	assert.Equal(t, "200", trade.OutputToken.Amount)
	assert.Equal(t, "Jupiter", trade.Route)
	assert.Empty(t, trade.Amm)
}

// 对消后剩余两个净输入 mint：宁可不出 trade（多资产路由歧义保护）。
func TestJupiterRouteAmbiguous(t *testing.T) {
	signer := testPk(1)

	view := buildTestView(t, signer,
		[]RpcIx{{
			ProgramId: consts.JupiterProgramStr,
			Accounts:  []string{signer},
			Data:      discData(jupiter.Route),
		}},
		map[uint16][]RpcIx{
			0: {
				{ProgramId: consts.JupiterProgramStr,
					Data: eventData(jupiter.SwapEventID, jupiterSwapEventPayload(testPk(2), consts.USDCMintStr, 100, testPk(4), 50))},
				{ProgramId: consts.JupiterProgramStr,
					Data: eventData(jupiter.SwapEventID, jupiterSwapEventPayload(testPk(3), consts.USDTMintStr, 70, consts.WSOLMintStr, 80))},
			},
		})

	result := New().ParseTransaction(view, core.DefaultOption())
	require.True(t, result.State)
	assert.Empty(t, result.Trades)
}

// 同 (idx, signature) 只保留首条。
func TestDedupTrades(t *testing.T) {
	trades := []core.TradeInfo{
		{Idx: "0-1", Signature: "sig", InputToken: core.TokenAmount{Amount: "1"}},
		{Idx: "0-1", Signature: "sig", InputToken: core.TokenAmount{Amount: "2"}},
		{Idx: "0-2", Signature: "sig", InputToken: core.TokenAmount{Amount: "3"}},
	}
	out := dedupTrades(trades)
	require.Len(t, out, 2)
	assert.Equal(t, "1", out[0].InputToken.Amount)
	assert.Equal(t, "3", out[1].InputToken.Amount)
}

// 同一输入解析两次输出完全一致（无隐藏可变状态）。
func TestParseIdempotent(t *testing.T) {
	signer := testPk(1)
	view := buildTestView(t, signer,
		[]RpcIx{{ProgramId: testPk(2), Accounts: []string{signer}}},
		map[uint16][]RpcIx{
			0: {
				tokenTransferCheckedIx(signer, testPk(4), signer, consts.USDCMintStr, "5000000", 6),
				tokenTransferCheckedIx(testPk(5), testPk(6), testPk(7), testPk(3), "120000", 6),
			},
		})

	p := New()
	first := p.ParseTransaction(view, core.DefaultOption())
	second := p.ParseTransaction(view, core.DefaultOption())
	assert.Equal(t, first, second)
}

// RaydiumV4 swap：1 字节 discriminator 走台账策略。
func TestRaydiumV4Swap(t *testing.T) {
	signer := testPk(1)
	tokenMint := testPk(3)

	view := buildTestView(t, signer,
		[]RpcIx{{
			ProgramId: consts.RaydiumV4ProgramStr,
			Accounts:  []string{signer},
			Data:      base58.Encode([]byte{9}), // SwapBaseIn
		}},
		map[uint16][]RpcIx{
			0: {
				tokenTransferCheckedIx(signer, testPk(4), signer, consts.WSOLMintStr, "1000000000", 9),
				tokenTransferCheckedIx(testPk(5), testPk(6), testPk(7), tokenMint, "42000000", 6),
			},
		})

	result := New().ParseTransaction(view, core.DefaultOption())
	require.True(t, result.State)
	require.Len(t, result.Trades, 1)

	trade := result.Trades[0]
	assert.Equal(t, core.TradeBuy, trade.Type)
	assert.Equal(t, "RaydiumV4", trade.Amm)
	assert.Equal(t, consts.WSOLMintStr, trade.InputToken.Mint)
	assert.Equal(t, tokenMint, trade.OutputToken.Mint)
	assert.Equal(t, "0-1", trade.Idx) // 首条 leg 的位置
}
