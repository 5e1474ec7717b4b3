package tools

import (
	"testing"

	"dex-parser-sol/internal/consts"
	"dex-parser-sol/internal/types"

	"github.com/stretchr/testify/require"
)

func TestChooseQuote(t *testing.T) {
	project := types.PubkeyFromBase58("4k3Dyjzvzp8eMZWUXbBCjEvwSkkk59S5iCNLY3QrkX6R")

	// WSOL 优先于 USDC
	quote, ok := ChooseQuote(consts.USDCMint, consts.WSOLMint)
	require.True(t, ok)
	require.Equal(t, consts.WSOLMint, quote)

	// 单边命中
	quote, ok = ChooseQuote(project, consts.USDTMint)
	require.True(t, ok)
	require.Equal(t, consts.USDTMint, quote)

	// 双方都不是报价币
	_, ok = ChooseQuote(project, types.Pubkey{0x01})
	require.False(t, ok)
}

func TestIsQuoteMint(t *testing.T) {
	require.True(t, IsQuoteMint(consts.WSOLMint))
	require.True(t, IsQuoteMint(consts.NativeSOLMint))
	require.False(t, IsQuoteMint(types.Pubkey{0x42}))

	require.True(t, IsQuoteMintStr(consts.USDCMintStr))
	require.False(t, IsQuoteMintStr("not-a-mint"))
}
