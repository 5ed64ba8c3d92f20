package bonding_curve

import (
	binary "github.com/gagliardetto/binary"
	"github.com/krazyTry/pump-science-go/helpers"
	"github.com/krazyTry/pump-science-go/math"
	"github.com/krazyTry/pump-science-go/shared"
	"github.com/krazyTry/pump-science-go/u128"
	"github.com/shopspring/decimal"
)

// SpotPrice is the marginal price in SOL of one whole token.
func (c *BondingCurve) SpotPrice() decimal.Decimal {
	if c.VirtualTokenReserves == 0 {
		return decimal.Zero
	}
	sol := helpers.FromLamports(c.VirtualSolReserves, shared.SolDecimals)
	tokens := helpers.FromLamports(c.VirtualTokenReserves, shared.TokenDecimals)
	return sol.Div(tokens)
}

// MarketCap values the total supply at the spot price, in SOL.
func (c *BondingCurve) MarketCap() decimal.Decimal {
	return c.SpotPrice().Mul(helpers.FromLamports(c.TokenTotalSupply, shared.TokenDecimals))
}

// Progress is the share of the initial real token reserves already sold, in percent.
func (c *BondingCurve) Progress() decimal.Decimal {
	if c.InitialRealTokenReserves == 0 || c.Complete {
		return decimal.NewFromInt(100)
	}
	sold := decimal.NewFromUint64(c.InitialRealTokenReserves).Sub(decimal.NewFromUint64(c.RealTokenReserves))
	return sold.Mul(decimal.NewFromInt(100)).Div(decimal.NewFromUint64(c.InitialRealTokenReserves))
}

// InvariantK is the constant product vs * vt of the current virtual reserves.
func (c *BondingCurve) InvariantK() (binary.Uint128, error) {
	return u128.FromBig(math.ConstantProduct(c.VirtualSolReserves, c.VirtualTokenReserves))
}

// QuoteBuy returns the tokens a buy of exactIn lamports would receive after
// the fee at currentSlot, without touching the curve.
func (c *BondingCurve) QuoteBuy(exactIn, currentSlot uint64) (*shared.TradeResult, uint64, error) {
	fee, err := c.CalculateFee(exactIn, currentSlot)
	if err != nil {
		return nil, 0, err
	}
	res, err := c.Clone().ApplyBuy(exactIn - fee)
	if err != nil {
		return nil, 0, err
	}
	return res, fee, nil
}

// QuoteSell returns the lamports, before fee, and the fee a sell of exactIn tokens would yield.
func (c *BondingCurve) QuoteSell(exactIn, currentSlot uint64) (*shared.TradeResult, uint64, error) {
	res, err := c.Clone().ApplySell(exactIn)
	if err != nil {
		return nil, 0, err
	}
	fee, err := c.CalculateFee(res.SolAmount, currentSlot)
	if err != nil {
		return nil, 0, err
	}
	return res, fee, nil
}
