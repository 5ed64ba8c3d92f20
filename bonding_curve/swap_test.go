package bonding_curve

import (
	"testing"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/krazyTry/pump-science-go/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func swapParams(user solanago.PublicKey, slot uint64) SwapParams {
	return SwapParams{
		User:              user,
		CurrentSlot:       slot,
		UserSolLamports:   1_000_000_000_000,
		UserTokenBalance:  1_000_000_000_000_000,
		RentExemptMinimum: testRent,
	}
}

func TestSettleDevBuy(t *testing.T) {
	curve := newTestCurve(t, 100)

	res, err := Settle(curve, shared.DefaultGlobal(), Buy{ExactInAmount: 1_000_000_000}, swapParams(testCreator, 100), zap.NewNop())
	require.NoError(t, err)
	assert.True(t, res.DevBuy)
	assert.Zero(t, res.FeeLamports)
	assert.Equal(t, uint64(34_612_903_225_806), res.TokenAmount)
	assert.Equal(t, uint64(1_000_000_000), res.SolAmount)
	assert.True(t, res.FreezeTokenAccount)
	assert.Equal(t, []shared.Transfer{
		{Asset: shared.AssetToken, From: shared.PartyCurveTokenAccount, To: shared.PartyUser, Amount: 34_612_903_225_806},
		{Asset: shared.AssetSol, From: shared.PartyUser, To: shared.PartySolEscrow, Amount: 1_000_000_000},
	}, res.Transfers)
	assert.Equal(t, uint64(1_000_000_000), curve.RealSolReserves)
}

func TestSettleBuyFees(t *testing.T) {
	cases := []struct {
		name   string
		user   solanago.PublicKey
		slot   uint64
		fee    uint64
		tokens uint64
	}{
		{"start slot, not creator", testTrader, 100, 990_000_000, 357_547_484_171},
		{"creator one slot late", testCreator, 101, 990_000_000, 357_547_484_171},
		{"flat phase", testTrader, 400, 10_000_000, 34_277_831_558_567},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			curve := newTestCurve(t, 100)
			res, err := Settle(curve, shared.DefaultGlobal(), Buy{ExactInAmount: 1_000_000_000}, swapParams(c.user, c.slot), nil)
			require.NoError(t, err)
			assert.False(t, res.DevBuy)
			assert.Equal(t, c.fee, res.FeeLamports)
			assert.Equal(t, c.tokens, res.TokenAmount)
			assert.Equal(t, 1_000_000_000-c.fee, res.SolAmount)
			require.Len(t, res.Transfers, 3)
			assert.Equal(t, shared.Transfer{Asset: shared.AssetSol, From: shared.PartyUser, To: shared.PartyFeeReceiver, Amount: c.fee}, res.Transfers[2])
		})
	}
}

func TestSettleSell(t *testing.T) {
	curve := newTestCurve(t, 100)
	bought, err := Settle(curve, shared.DefaultGlobal(), Buy{ExactInAmount: 1_000_000_000}, swapParams(testCreator, 100), nil)
	require.NoError(t, err)

	_, err = Settle(curve, shared.DefaultGlobal(), Sell{ExactInAmount: bought.TokenAmount, MinOutAmount: 990_000_001}, swapParams(testCreator, 400), nil)
	assert.ErrorIs(t, err, shared.ErrSlippageExceeded)
	assert.Equal(t, uint64(1_000_000_000), curve.RealSolReserves)

	res, err := Settle(curve, shared.DefaultGlobal(), Sell{ExactInAmount: bought.TokenAmount, MinOutAmount: 990_000_000}, swapParams(testCreator, 400), nil)
	require.NoError(t, err)
	assert.Equal(t, shared.TradeDirectionSell, res.Direction)
	assert.Equal(t, uint64(1_000_000_000), res.SolAmount)
	assert.Equal(t, uint64(10_000_000), res.FeeLamports)
	assert.Equal(t, []shared.Transfer{
		{Asset: shared.AssetToken, From: shared.PartyUser, To: shared.PartyCurveTokenAccount, Amount: bought.TokenAmount},
		{Asset: shared.AssetSol, From: shared.PartySolEscrow, To: shared.PartyUser, Amount: 990_000_000},
		{Asset: shared.AssetSol, From: shared.PartySolEscrow, To: shared.PartyFeeReceiver, Amount: 10_000_000},
	}, res.Transfers)
	assert.Zero(t, curve.RealSolReserves)
}

func TestSettleDevSellPaysFee(t *testing.T) {
	curve := newTestCurve(t, 100)
	bought, err := Settle(curve, shared.DefaultGlobal(), Buy{ExactInAmount: 1_000_000_000}, swapParams(testCreator, 100), nil)
	require.NoError(t, err)

	res, err := Settle(curve, shared.DefaultGlobal(), Sell{ExactInAmount: bought.TokenAmount}, swapParams(testCreator, 100), nil)
	require.NoError(t, err)
	assert.False(t, res.DevBuy)
	assert.Equal(t, uint64(990_000_000), res.FeeLamports)
}

func TestSettleCompletes(t *testing.T) {
	curve := newTestCurve(t, 100)
	params := swapParams(testTrader, 400)
	params.UserSolLamports = 3_000_000_000_000_000_000

	res, err := Settle(curve, shared.DefaultGlobal(), Buy{ExactInAmount: 2_000_000_000_000_000_000}, params, nil)
	require.NoError(t, err)
	assert.True(t, res.Complete)
	assert.False(t, res.FreezeTokenAccount)
	assert.Equal(t, uint64(793_100_000_000_000), res.TokenAmount)
	assert.Equal(t, uint64(85_005_359_057), res.SolAmount)
	assert.Equal(t, uint64(20_000_000_000_000_000), res.FeeLamports)

	_, err = Settle(curve, shared.DefaultGlobal(), Buy{ExactInAmount: 1_000_000_000}, params, nil)
	assert.ErrorIs(t, err, shared.ErrCurveComplete)
}

func TestSettleBuyNeverChargesAboveExactIn(t *testing.T) {
	curve := newCheapCurve(t)
	before := *curve

	res, err := Settle(curve, shared.DefaultGlobal(), Buy{ExactInAmount: 61_000_000_000}, swapParams(testTrader, 400), nil)
	require.ErrorIs(t, err, shared.ErrBuyFailed)
	assert.Nil(t, res)
	assert.Equal(t, before, *curve)
}

func TestSettleRejects(t *testing.T) {
	outdated := shared.DefaultGlobal()
	uninitialized := shared.DefaultGlobal()
	uninitialized.Initialized = false

	cases := []struct {
		name   string
		global shared.Global
		trade  Trade
		params func(SwapParams) SwapParams
		err    error
	}{
		{"not started", shared.DefaultGlobal(), Buy{ExactInAmount: 1_000}, func(p SwapParams) SwapParams {
			p.CurrentSlot = 99
			return p
		}, shared.ErrCurveNotStarted},
		{"zero buy", shared.DefaultGlobal(), Buy{}, nil, shared.ErrZeroAmount},
		{"zero sell", shared.DefaultGlobal(), Sell{}, nil, shared.ErrZeroAmount},
		{"slippage", shared.DefaultGlobal(), Buy{ExactInAmount: 1_000_000_000, MinOutAmount: 34_612_903_225_807}, nil, shared.ErrSlippageExceeded},
		{"insufficient sol", shared.DefaultGlobal(), Buy{ExactInAmount: 1_000_000_000}, func(p SwapParams) SwapParams {
			p.UserSolLamports = 1_000_000_000
			return p
		}, shared.ErrInsufficientUserSOL},
		{"insufficient tokens", shared.DefaultGlobal(), Sell{ExactInAmount: 1_000}, func(p SwapParams) SwapParams {
			p.UserTokenBalance = 999
			return p
		}, shared.ErrInsufficientUserTokens},
		{"sell against empty curve", shared.DefaultGlobal(), Sell{ExactInAmount: 1_000_000}, nil, shared.ErrSellFailed},
		{"config outdated", outdated, Buy{ExactInAmount: 1_000}, func(p SwapParams) SwapParams {
			p.LastRestartSlot = 1
			return p
		}, shared.ErrConfigOutdated},
		{"not initialized", uninitialized, Buy{ExactInAmount: 1_000}, nil, shared.ErrNotInitialized},
		{"unknown trade", shared.DefaultGlobal(), otherTrade{}, nil, shared.ErrUnknownTrade},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			curve := newTestCurve(t, 100)
			before := *curve
			params := swapParams(testCreator, 100)
			if c.params != nil {
				params = c.params(params)
			}
			_, err := Settle(curve, c.global, c.trade, params, nil)
			assert.ErrorIs(t, err, c.err)
			assert.Equal(t, before, *curve)
		})
	}
}

type otherTrade struct{}

func (otherTrade) Direction() shared.TradeDirection { return shared.TradeDirection(7) }

func (otherTrade) Amounts() (uint64, uint64) { return 1, 0 }
