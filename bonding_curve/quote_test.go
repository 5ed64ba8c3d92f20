package bonding_curve

import (
	"testing"

	"github.com/krazyTry/pump-science-go/u128"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpotPrice(t *testing.T) {
	curve := newTestCurve(t, 1)

	// 30 sol / 1_073_000_000 tokens
	want := decimal.RequireFromString("0.0000000279589934")
	assert.True(t, curve.SpotPrice().Sub(want).Abs().LessThan(decimal.New(1, -15)), curve.SpotPrice().String())
	assert.True(t, curve.MarketCap().Sub(decimal.RequireFromString("27.9589934")).Abs().LessThan(decimal.New(1, -6)), curve.MarketCap().String())

	_, err := curve.ApplyBuy(1_000_000_000)
	require.NoError(t, err)
	assert.True(t, curve.SpotPrice().GreaterThan(want))
}

func TestProgress(t *testing.T) {
	curve := newTestCurve(t, 1)
	assert.True(t, curve.Progress().IsZero())

	_, err := curve.ApplyBuy(1_000_000_000)
	require.NoError(t, err)
	// 34_612_903_225_806 of 793_100_000_000_000
	assert.Equal(t, "4.36", curve.Progress().StringFixed(2))

	_, err = curve.ApplyBuy(2_000_000_000_000_000_000)
	require.NoError(t, err)
	assert.True(t, curve.Progress().Equal(decimal.NewFromInt(100)))
}

func TestInvariantK(t *testing.T) {
	curve := newTestCurve(t, 1)
	k, err := curve.InvariantK()
	require.NoError(t, err)
	assert.Equal(t, "32190000000000000000000000", u128.ToBig(k).String())
}

func TestQuoteDoesNotMutate(t *testing.T) {
	curve := newTestCurve(t, 100)
	before := *curve

	buy, fee, err := curve.QuoteBuy(1_000_000_000, 400)
	require.NoError(t, err)
	assert.Equal(t, uint64(10_000_000), fee)
	assert.Equal(t, uint64(34_277_831_558_567), buy.TokenAmount)
	assert.Equal(t, before, *curve)

	_, err = curve.ApplyBuy(1_000_000_000)
	require.NoError(t, err)
	before = *curve

	sell, fee, err := curve.QuoteSell(34_612_903_225_806, 400)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000_000), sell.SolAmount)
	assert.Equal(t, uint64(10_000_000), fee)
	assert.Equal(t, before, *curve)
}
