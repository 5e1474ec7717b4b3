package ledger

import (
	"encoding/json"
	"fmt"
	"testing"

	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/core"
	"dex-parser-sol/internal/tx"
	"dex-parser-sol/internal/types"
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

// tokenTransferIx 构造一条 jsonParsed 的 spl-token transfer 指令。
func tokenTransferIx(source, dest, authority, amount string) RpcIx {
	return RpcIx{
		Program:   "spl-token",
		ProgramId: consts.TokenProgramStr,
		Parsed: fmt.Sprintf(`{"type":"transfer","info":{"source":%q,"destination":%q,"authority":%q,"amount":%q}}`,
			source, dest, authority, amount),
	}
}

// RpcIx 测试用指令描述，转换为 tx.RpcInstruction。
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

// buildTestView 从指令描述构造 TxView：第一条 outer 指令为 index 0，依此类推。
func buildTestView(t *testing.T, signer string, outers []RpcIx, inners map[uint16][]RpcIx, balances []tx.RpcTokenBalance) *tx.TxView {
	t.Helper()

	msg := tx.RpcMessage{
		AccountKeys: []tx.RpcAccountKey{{Pubkey: signer, Signer: true, Writable: true}},
	}
	for _, ix := range outers {
		msg.Instructions = append(msg.Instructions, ix.toRpc())
	}

	meta := &tx.RpcMeta{
		PreBalances:       []uint64{10_000_000},
		PostBalances:      []uint64{9_000_000},
		PostTokenBalances: balances,
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

// 测试分组：DEX 主指令下的 inner 转账归入该 DEX 的组，
// 异程序 inner 指令开新组且新组键持续到主指令结束
func TestBuildGroups(t *testing.T) {
	signer := testPk(1)
	dexProg := testPk(2)
	otherProg := testPk(3)
	srcA, dstA := testPk(4), testPk(5)
	srcB, dstB := testPk(6), testPk(7)
	mint := testPk(8)

	// 通过 transferChecked 指令给账户建立 mint 归属
	view := buildTestView(t, signer,
		[]RpcIx{{ProgramId: dexProg, Accounts: []string{signer}}},
		map[uint16][]RpcIx{
			0: {
				{Program: "spl-token", ProgramId: consts.TokenProgramStr,
					Parsed: fmt.Sprintf(`{"type":"transferChecked","info":{"source":%q,"destination":%q,"authority":%q,"mint":%q,"tokenAmount":{"amount":"100","decimals":6,"uiAmount":0.0001}}}`,
						srcA, dstA, signer, mint)},
				{ProgramId: otherProg, Accounts: []string{signer}},
				{Program: "spl-token", ProgramId: consts.TokenProgramStr,
					Parsed: fmt.Sprintf(`{"type":"transferChecked","info":{"source":%q,"destination":%q,"authority":%q,"mint":%q,"tokenAmount":{"amount":"200","decimals":6,"uiAmount":0.0002}}}`,
						srcB, dstB, signer, mint)},
			},
		}, nil)

	l := Build(view, false)

	dexGroup := l.Group(GroupKey(dexProg, 0, 0))
	require.Len(t, dexGroup, 1)
	assert.Equal(t, "100", dexGroup[0].Info.TokenAmount.Amount)
	assert.Equal(t, "0-1", dexGroup[0].Idx)

	// 第二条转账归入 otherProg 开启的新组
	otherGroup := l.Group(GroupKey(otherProg, 0, 2))
	require.Len(t, otherGroup, 1)
	assert.Equal(t, "200", otherGroup[0].Info.TokenAmount.Amount)

	// ProgramGroups 按程序聚合
	assert.Len(t, l.ProgramGroups(types.PubkeyFromBase58(dexProg)), 1)
	assert.Len(t, l.ProgramTransfers(types.PubkeyFromBase58(otherProg)), 1)
}

// 测试 mint 无法解析的转账被静默丢弃
func TestUnresolvableMintDropped(t *testing.T) {
	signer := testPk(1)
	dexProg := testPk(2)

	view := buildTestView(t, signer,
		[]RpcIx{{ProgramId: dexProg, Accounts: []string{signer}}},
		map[uint16][]RpcIx{
			0: {tokenTransferIx(testPk(4), testPk(5), signer, "100")}, // 无任何 mint 线索
		}, nil)

	l := Build(view, false)
	assert.Empty(t, l.All())
}

// 测试 swap 合成：quote 资产作为 input 推导为 BUY，(mint, uiAmount) 去重生效
func TestSynthesizeTrade(t *testing.T) {
	signer := testPk(1)
	dexProg := testPk(2)
	meme := testPk(9)

	wsolLeg := func(amount string, ui float64) RpcIx {
		return RpcIx{Program: "spl-token", ProgramId: consts.TokenProgramStr,
			Parsed: fmt.Sprintf(`{"type":"transferChecked","info":{"source":%q,"destination":%q,"authority":%q,"mint":%q,"tokenAmount":{"amount":%q,"decimals":9,"uiAmount":%f}}}`,
				testPk(4), testPk(5), signer, consts.WSOLMintStr, amount, ui)}
	}
	memeLeg := func(ixType, amount string, ui float64) RpcIx {
		return RpcIx{Program: "spl-token", ProgramId: consts.TokenProgramStr,
			Parsed: fmt.Sprintf(`{"type":%q,"info":{"source":%q,"destination":%q,"authority":%q,"mint":%q,"tokenAmount":{"amount":%q,"decimals":6,"uiAmount":%f}}}`,
				ixType, testPk(6), testPk(7), testPk(3), meme, amount, ui)}
	}

	view := buildTestView(t, signer,
		[]RpcIx{{ProgramId: dexProg, Accounts: []string{signer}}},
		map[uint16][]RpcIx{
			0: {
				wsolLeg("1000000000", 1.0),
				memeLeg("transferChecked", "5000000", 5.0),
				// 同一笔转移被重复上报：金额相同，必须只计一次
				memeLeg("transfer", "5000000", 5.0),
			},
		}, nil)

	l := Build(view, false)
	group := l.Group(GroupKey(dexProg, 0, 0))
	require.Len(t, group, 3)

	trade, err := l.SynthesizeTrade(group, core.DexContext{ProgramID: dexProg})
	require.NoError(t, err)

	assert.Equal(t, core.TradeBuy, trade.Type)
	assert.Equal(t, consts.WSOLMintStr, trade.InputToken.Mint)
	assert.Equal(t, "1000000000", trade.InputToken.Amount)
	assert.Equal(t, meme, trade.OutputToken.Mint)
	assert.Equal(t, "5000000", trade.OutputToken.Amount) // 重复 leg 未被重复累加
	assert.Equal(t, signer, trade.User)
	assert.Equal(t, "0-1", trade.Idx)
	assert.Equal(t, uint64(1000), trade.Slot)
}

// 测试 swap 合成失败：单一 mint 不构成兑换
func TestSynthesizeTradeInsufficientTokens(t *testing.T) {
	signer := testPk(1)
	dexProg := testPk(2)
	mint := testPk(8)

	view := buildTestView(t, signer,
		[]RpcIx{{ProgramId: dexProg, Accounts: []string{signer}}},
		map[uint16][]RpcIx{
			0: {
				{Program: "spl-token", ProgramId: consts.TokenProgramStr,
					Parsed: fmt.Sprintf(`{"type":"transferChecked","info":{"source":%q,"destination":%q,"authority":%q,"mint":%q,"tokenAmount":{"amount":"100","decimals":6,"uiAmount":0.0001}}}`,
						testPk(4), testPk(5), signer, mint)},
			},
		}, nil)

	l := Build(view, false)
	_, err := l.SynthesizeTrade(l.Group(GroupKey(dexProg, 0, 0)), core.DexContext{})
	assert.ErrorIs(t, err, ErrInsufficientUniqueTokens)
}

// 测试方向校正：output 首 leg 的 source 为签名者时对调 input/output
func TestSynthesizeTradeDirectionCorrection(t *testing.T) {
	signer := testPk(1)
	dexProg := testPk(2)
	meme := testPk(9)

	view := buildTestView(t, signer,
		[]RpcIx{{ProgramId: dexProg, Accounts: []string{signer}}},
		map[uint16][]RpcIx{
			0: {
				// WSOL 先出现（朴素猜测 input），但 meme leg 的 source 是签名者本人，
				// 实际是签名者卖出 meme
				{Program: "spl-token", ProgramId: consts.TokenProgramStr,
					Parsed: fmt.Sprintf(`{"type":"transferChecked","info":{"source":%q,"destination":%q,"authority":%q,"mint":%q,"tokenAmount":{"amount":"1000000000","decimals":9,"uiAmount":1.0}}}`,
						testPk(4), testPk(5), testPk(3), consts.WSOLMintStr)},
				{Program: "spl-token", ProgramId: consts.TokenProgramStr,
					Parsed: fmt.Sprintf(`{"type":"transferChecked","info":{"source":%q,"destination":%q,"authority":%q,"mint":%q,"tokenAmount":{"amount":"5000000","decimals":6,"uiAmount":5.0}}}`,
						signer, testPk(7), signer, meme)},
			},
		}, nil)

	l := Build(view, false)
	trade, err := l.SynthesizeTrade(l.Group(GroupKey(dexProg, 0, 0)), core.DexContext{})
	require.NoError(t, err)

	assert.Equal(t, meme, trade.InputToken.Mint)
	assert.Equal(t, consts.WSOLMintStr, trade.OutputToken.Mint)
	assert.Equal(t, core.TradeSell, trade.Type)
}

// 测试 LP leg 归一化：两种输入顺序均得到 [项目代币, 报价资产]
func TestOrderLpLegs(t *testing.T) {
	project := &core.TransferAction{Info: core.TransferInfo{Mint: testPk(9)}}
	quote := &core.TransferAction{Info: core.TransferInfo{Mint: consts.WSOLMintStr}}
	sol := &core.TransferAction{Info: core.TransferInfo{Mint: consts.NativeSOLMint.String()}}

	ordered := OrderLpLegs([]*core.TransferAction{quote, project})
	assert.Equal(t, []*core.TransferAction{project, quote}, ordered)

	ordered = OrderLpLegs([]*core.TransferAction{project, quote})
	assert.Equal(t, []*core.TransferAction{project, quote}, ordered)

	ordered = OrderLpLegs([]*core.TransferAction{sol, project})
	assert.Equal(t, []*core.TransferAction{project, sol}, ordered)

	// 非两条 leg 原样返回
	single := []*core.TransferAction{project}
	assert.Equal(t, single, OrderLpLegs(single))
}

// 测试原生 SOL 转账：system program 的 transfer 以哨兵 mint 记账
func TestSystemTransferClassified(t *testing.T) {
	signer := testPk(1)
	dest := testPk(5)

	view := buildTestView(t, signer,
		[]RpcIx{{
			Program:   "system",
			ProgramId: consts.SystemProgramStr,
			Parsed: fmt.Sprintf(`{"type":"transfer","info":{"source":%q,"destination":%q,"lamports":2740}}`,
				signer, dest),
		}},
		nil, nil)

	l := Build(view, false)
	all := l.All()
	require.Len(t, all, 1)
	assert.Equal(t, consts.NativeSOLMint.String(), all[0].Info.Mint)
	assert.Equal(t, "2740", all[0].Info.TokenAmount.Amount)
	assert.Equal(t, uint8(9), all[0].Info.TokenAmount.Decimals)
	assert.Equal(t, signer, all[0].Info.Authority)
}
