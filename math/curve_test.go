package math

import (
	"testing"

	"github.com/krazyTry/pump-science-go/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const (
	defaultVirtualSol   = 30_000_000_000
	defaultVirtualToken = 1_073_000_000_000_000
)

func TestGetTokensForBuySol(t *testing.T) {
	cases := []struct {
		name string
		sol  uint64
		want uint64
	}{
		{"0.01 sol", 10_000_000, 357_547_484_171},
		{"1 sol", 1_000_000_000, 34_612_903_225_806},
		{"50 sol", 50_000_000_000, 670_625_000_000_000},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := GetTokensForBuySol(defaultVirtualSol, defaultVirtualToken, c.sol)
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}

	_, err := GetTokensForBuySol(defaultVirtualSol, defaultVirtualToken, 0)
	assert.ErrorIs(t, err, shared.ErrZeroAmount)
}

func TestGetSolForSellTokens(t *testing.T) {
	// state after a 1 sol buy
	vs := uint64(31_000_000_000)
	vt := uint64(1_038_387_096_774_194)

	got, err := GetSolForSellTokens(vs, vt, 34_612_904_000_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000_022), got)

	got, err = GetSolForSellTokens(vs, vt, 34_612_903_225_806)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000_000), got)

	_, err = GetSolForSellTokens(vs, vt, 0)
	assert.ErrorIs(t, err, shared.ErrZeroAmount)
}

func TestCompletingBuyCost(t *testing.T) {
	realTokens := uint64(793_100_000_000_000)
	got, err := GetSolForSellTokens(shared.TerminalVirtualSolReserves, defaultVirtualToken-realTokens, realTokens)
	require.NoError(t, err)
	assert.Equal(t, uint64(85_005_359_057), got)
}

func TestOverflowIsAnError(t *testing.T) {
	// vs * vt * 1000 exceeds 2^128
	_, err := GetTokensForBuySol(^uint64(0), ^uint64(0), 1)
	assert.ErrorIs(t, err, shared.ErrArithmetic)

	_, err = GetSolForSellTokens(^uint64(0), ^uint64(0), 1)
	assert.ErrorIs(t, err, shared.ErrArithmetic)
}

// Truncation can hand back at most one lamport more than was paid, and only
// while vs + solIn <= vt * 1000.
func TestBuySellRoundTripBounded(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		vs := rapid.Uint64Range(1, 1_000_000_000_000_000).Draw(t, "vs")
		vt := rapid.Uint64Range(1_000_000_000_000, 10_000_000_000_000_000).Draw(t, "vt")
		solIn := rapid.Uint64Range(1, 1_000_000_000_000_000).Draw(t, "solIn")
		if vs+solIn > vt*1_000 {
			t.Skip("outside the rebased range")
		}

		tokens, err := GetTokensForBuySol(vs, vt, solIn)
		if err != nil || tokens == 0 || tokens >= vt {
			t.Skip("buy not representable")
		}
		solOut, err := GetSolForSellTokens(vs+solIn, vt-tokens, tokens)
		if err != nil {
			return
		}
		if solOut > solIn+1 {
			t.Fatalf("round trip profitable: in=%d out=%d (vs=%d vt=%d)", solIn, solOut, vs, vt)
		}
	})
}

func TestBuySellRoundTripLargeTrades(t *testing.T) {
	// from a fresh default curve, whole-sol buys never round trip at a profit
	for _, solIn := range []uint64{1_000_000_000, 5_000_000_000, 10_000_000_000, 50_000_000_000} {
		tokens, err := GetTokensForBuySol(defaultVirtualSol, defaultVirtualToken, solIn)
		require.NoError(t, err)
		solOut, err := GetSolForSellTokens(defaultVirtualSol+solIn, defaultVirtualToken-tokens, tokens)
		require.NoError(t, err)
		assert.LessOrEqual(t, solOut, solIn)
	}
}

func TestBpsMul(t *testing.T) {
	v, err := BpsMul(9_999, ^uint64(0), 10_000)
	require.NoError(t, err)
	assert.Equal(t, ^uint64(0)/10_000*9_999+(^uint64(0)%10_000)*9_999/10_000, v)

	_, err = BpsMul(1, 1, 0)
	assert.ErrorIs(t, err, shared.ErrArithmetic)
}
