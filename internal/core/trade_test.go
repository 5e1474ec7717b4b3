package core

import (
	"math"
	"testing"

	"dex-parser-sol/internal/tools"

	"github.com/stretchr/testify/require"
)

func TestNewTokenAmountRoundTrip(t *testing.T) {
	cases := []struct {
		raw      uint64
		decimals uint8
	}{
		{0, 0},
		{1, 9},
		{2740, 9},
		{100_000_000, 6},
		{1_000_000_000_000, 9},
		{math.MaxUint32, 12},
	}

	for _, tc := range cases {
		a := NewTokenAmount("mint", tc.raw, tc.decimals, false)
		require.Equal(t, tc.raw, a.RawUint64())

		// UiAmount * 10^decimals 在浮点误差内还原 raw
		recovered := a.UiAmount * tools.Pow10(tc.decimals)
		require.InDelta(t, float64(tc.raw), recovered, float64(tc.raw)*1e-12+1e-9)
	}
}

func TestNewTokenAmountRawMode(t *testing.T) {
	a := NewTokenAmount("mint", 123456, 6, true)
	require.Equal(t, "123456", a.Amount)
	require.Equal(t, float64(123456), a.UiAmount)
	require.Equal(t, uint8(6), a.Decimals)
}
