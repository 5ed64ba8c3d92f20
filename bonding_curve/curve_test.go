package bonding_curve

import (
	"testing"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/krazyTry/pump-science-go/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const testRent = 890_880

var (
	testMint    = solanago.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	testCreator = solanago.MustPublicKeyFromBase58("4Nd1mBQtrMJVYVfKf2PJy9NZUZdTAsp7D4xWLs4gDB4T")
	testTrader  = solanago.MustPublicKeyFromBase58("7YttLkHDoNj9wyDur5pM1ejNaAvT9X4eqaYcHQqtj2G5")
)

func newTestCurve(t require.TestingT, startSlot uint64) *BondingCurve {
	curve, err := NewBondingCurve(testMint, testCreator, shared.DefaultGlobal(), shared.CreateBondingCurveParams{
		Name:      "test",
		Symbol:    "TEST",
		URI:       "https://example.com/test.json",
		StartSlot: &startSlot,
	}, startSlot, 255)
	require.NoError(t, err)
	return curve
}

func TestApplyBuy(t *testing.T) {
	curve := newTestCurve(t, 1)

	res, err := curve.ApplyBuy(1_000_000_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(34_612_903_225_806), res.TokenAmount)
	assert.Equal(t, uint64(1_000_000_000), res.SolAmount)

	assert.Equal(t, uint64(1_000_000_000), curve.RealSolReserves)
	assert.Equal(t, uint64(31_000_000_000), curve.VirtualSolReserves)
	assert.Equal(t, uint64(1_038_387_096_774_194), curve.VirtualTokenReserves)
	assert.Equal(t, uint64(758_487_096_774_194), curve.RealTokenReserves)
	assert.False(t, curve.Complete)
}

func TestApplyBuyCompletes(t *testing.T) {
	curve := newTestCurve(t, 1)

	res, err := curve.ApplyBuy(2_000_000_000_000_000_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(793_100_000_000_000), res.TokenAmount)
	assert.Equal(t, uint64(85_005_359_057), res.SolAmount)

	assert.True(t, curve.Complete)
	assert.Zero(t, curve.RealTokenReserves)
	assert.Equal(t, uint64(85_005_359_057), curve.RealSolReserves)
	assert.Equal(t, uint64(115_005_359_057), curve.VirtualSolReserves)
	assert.Equal(t, uint64(279_900_000_000_000), curve.VirtualTokenReserves)

	_, err = curve.ApplyBuy(1_000_000_000)
	assert.ErrorIs(t, err, shared.ErrCurveComplete)
	_, err = curve.ApplySell(1_000_000)
	assert.ErrorIs(t, err, shared.ErrCurveComplete)
}

func TestApplyBuySequenceCompletes(t *testing.T) {
	curve := newTestCurve(t, 1)

	wantTokens := []uint64{
		34_612_903_225_806,
		32_449_596_774_193,
		30_482_954_545_454,
		28_689_839_572_192,
	}
	for i, want := range wantTokens {
		res, err := curve.ApplyBuy(1_000_000_000)
		require.NoError(t, err)
		assert.Equal(t, want, res.TokenAmount, "buy %d", i)
	}

	for _, sol := range []uint64{30_000_000_000, 30_000_000_000, 21_006_000_000} {
		_, err := curve.ApplyBuy(sol)
		require.NoError(t, err)
	}
	assert.True(t, curve.Complete)
	assert.Zero(t, curve.RealTokenReserves)
	assert.Equal(t, uint64(85_005_359_057), curve.RealSolReserves)
}

func TestApplySell(t *testing.T) {
	curve := newTestCurve(t, 1)
	bought, err := curve.ApplyBuy(1_000_000_000)
	require.NoError(t, err)

	res, err := curve.ApplySell(bought.TokenAmount)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000_000), res.SolAmount)
	assert.Zero(t, curve.RealSolReserves)
	assert.Equal(t, uint64(30_000_000_000), curve.VirtualSolReserves)
	assert.Equal(t, uint64(1_073_000_000_000_000), curve.VirtualTokenReserves)
	assert.Equal(t, uint64(793_100_000_000_000), curve.RealTokenReserves)
}

func TestApplySellInParts(t *testing.T) {
	curve := newTestCurve(t, 1)
	bought, err := curve.ApplyBuy(1_000_000_000)
	require.NoError(t, err)

	half := bought.TokenAmount / 2
	res, err := curve.ApplySell(half)
	require.NoError(t, err)
	assert.Equal(t, uint64(508_196_722), res.SolAmount)
	assert.Equal(t, uint64(491_803_278), curve.RealSolReserves)
	assert.Equal(t, uint64(775_793_548_387_097), curve.RealTokenReserves)

	// the rest is priced at 491_803_279 lamports, one more than the curve holds
	before := *curve
	_, err = curve.ApplySell(bought.TokenAmount - half)
	assert.ErrorIs(t, err, shared.ErrSellFailed)
	assert.Equal(t, before, *curve)
}

func TestApplySellMoreThanBoughtFails(t *testing.T) {
	curve := newTestCurve(t, 1)
	_, err := curve.ApplyBuy(1_000_000_000)
	require.NoError(t, err)
	before := *curve

	// 34_612_904_000_000 tokens are worth 1_000_000_022 lamports, more than the curve holds
	_, err = curve.ApplySell(34_612_904_000_000)
	assert.ErrorIs(t, err, shared.ErrSellFailed)
	assert.ErrorIs(t, err, shared.ErrArithmetic)
	assert.Equal(t, before, *curve)
}

func newCheapCurve(t require.TestingT) *BondingCurve {
	global := shared.DefaultGlobal()
	global.InitialVirtualSolReserves = 15_000_000_000
	curve, err := NewBondingCurve(testMint, testCreator, global, shared.CreateBondingCurveParams{}, 1, 255)
	require.NoError(t, err)
	return curve
}

func TestApplyBuyCompletingCostAboveInput(t *testing.T) {
	curve := newCheapCurve(t)
	before := *curve

	// the terminal reserves price the remaining tokens at 85_005_359_057 lamports
	_, err := curve.ApplyBuy(60_000_000_000)
	assert.ErrorIs(t, err, shared.ErrBuyFailed)
	assert.Equal(t, before, *curve)

	res, err := curve.ApplyBuy(90_000_000_000)
	require.NoError(t, err)
	assert.True(t, curve.Complete)
	assert.LessOrEqual(t, res.SolAmount, uint64(90_000_000_000))
}

func TestApplyZeroAmount(t *testing.T) {
	curve := newTestCurve(t, 1)
	before := *curve

	_, err := curve.ApplyBuy(0)
	assert.ErrorIs(t, err, shared.ErrBuyFailed)
	assert.ErrorIs(t, err, shared.ErrZeroAmount)

	_, err = curve.ApplySell(0)
	assert.ErrorIs(t, err, shared.ErrSellFailed)
	assert.ErrorIs(t, err, shared.ErrZeroAmount)

	assert.Equal(t, before, *curve)
}

func TestTradingOpen(t *testing.T) {
	curve := newTestCurve(t, 100)

	assert.False(t, curve.IsStarted(99))
	assert.True(t, curve.IsStarted(100))
	assert.True(t, curve.IsStarted(101))

	assert.True(t, curve.IsDevBuy(testCreator, 100))
	assert.False(t, curve.IsDevBuy(testCreator, 101))
	assert.False(t, curve.IsDevBuy(testTrader, 100))

	assert.False(t, curve.IsTradingOpen(testCreator, 99))
	assert.True(t, curve.IsTradingOpen(testTrader, 100))
}

func TestCalculateFee(t *testing.T) {
	curve := newTestCurve(t, 1)

	fee, err := curve.CalculateFee(1000, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(990), fee)

	fee, err = curve.CalculateFee(1000, 301)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), fee)

	_, err = curve.CalculateFee(1000, 0)
	assert.ErrorIs(t, err, shared.ErrCurveNotStarted)
}

// tradeLedger tracks what custody would hold if every trade result were executed.
type tradeLedger struct {
	escrow     uint64
	userTokens uint64
}

func (l *tradeLedger) snapshot(curve *BondingCurve) shared.CustodySnapshot {
	return shared.CustodySnapshot{
		SolEscrowLamports:   l.escrow,
		RentExemptMinimum:   testRent,
		TokenAccountBalance: curve.TokenTotalSupply - l.userTokens,
		TokenAccountFrozen:  !curve.Complete,
	}
}

func TestBuysProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		curve := newTestCurve(t, 1)
		ledger := &tradeLedger{escrow: testRent}
		require.NoError(t, CheckInvariant(curve, ledger.snapshot(curve)))

		buys := rapid.SliceOfN(rapid.Uint64Range(1, 40_000_000_000), 1, 50).Draw(t, "buys")
		for _, sol := range buys {
			if curve.Complete {
				break
			}
			prevReal := curve.RealTokenReserves
			res, err := curve.ApplyBuy(sol)
			require.NoError(t, err)
			if !curve.Complete {
				require.Equal(t, sol, res.SolAmount)
			}
			require.LessOrEqual(t, curve.RealTokenReserves, prevReal)
			require.Equal(t, prevReal-res.TokenAmount, curve.RealTokenReserves)

			ledger.escrow += res.SolAmount
			ledger.userTokens += res.TokenAmount
			require.NoError(t, CheckInvariant(curve, ledger.snapshot(curve)))
		}

		if curve.Complete {
			require.Zero(t, curve.RealTokenReserves)
			_, err := curve.ApplyBuy(1)
			require.ErrorIs(t, err, shared.ErrCurveComplete)
			require.True(t, curve.Complete)
		}
	})
}

func TestSellsProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		curve := newTestCurve(t, 1)
		ledger := &tradeLedger{escrow: testRent}

		res, err := curve.ApplyBuy(rapid.Uint64Range(1_000_000, 80_000_000_000).Draw(t, "buy"))
		require.NoError(t, err)
		ledger.escrow += res.SolAmount
		ledger.userTokens += res.TokenAmount

		sells := rapid.SliceOfN(rapid.Uint64Range(1, 1_000_000), 1, 20).Draw(t, "sells")
		for _, part := range sells {
			if ledger.userTokens == 0 {
				break
			}
			amount := ledger.userTokens * part / 1_000_000
			if amount == 0 {
				amount = 1
			}
			prevRealSol := curve.RealSolReserves
			before := *curve

			res, err := curve.ApplySell(amount)
			if err != nil {
				// the last lamport of rounding can exceed what the curve holds
				require.ErrorIs(t, err, shared.ErrSellFailed)
				require.Equal(t, before, *curve)
				continue
			}
			require.LessOrEqual(t, curve.RealSolReserves, prevRealSol)

			ledger.escrow -= res.SolAmount
			ledger.userTokens -= res.TokenAmount
			require.NoError(t, CheckInvariant(curve, ledger.snapshot(curve)))
		}
	})
}
