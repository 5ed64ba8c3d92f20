package bonding_curve

import (
	"fmt"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/krazyTry/pump-science-go/math"
	"github.com/krazyTry/pump-science-go/math/pool_fees"
	"github.com/krazyTry/pump-science-go/shared"
)

func (c *BondingCurve) GetTokensForBuySol(solAmount uint64) (uint64, error) {
	return math.GetTokensForBuySol(c.VirtualSolReserves, c.VirtualTokenReserves, solAmount)
}

func (c *BondingCurve) GetSolForSellTokens(tokenAmount uint64) (uint64, error) {
	return math.GetSolForSellTokens(c.VirtualSolReserves, c.VirtualTokenReserves, tokenAmount)
}

func (c *BondingCurve) IsStarted(currentSlot uint64) bool {
	return currentSlot >= c.StartSlot
}

// IsDevBuy reports the creator's bootstrap trade: the creator trading in the start slot.
func (c *BondingCurve) IsDevBuy(user solanago.PublicKey, currentSlot uint64) bool {
	return currentSlot == c.StartSlot && user.Equals(c.Creator)
}

// IsTradingOpen reports whether user may trade at currentSlot.
func (c *BondingCurve) IsTradingOpen(user solanago.PublicKey, currentSlot uint64) bool {
	return c.IsStarted(currentSlot) || c.IsDevBuy(user, currentSlot)
}

func (c *BondingCurve) CalculateFee(amount, currentSlot uint64) (uint64, error) {
	return pool_fees.CalculateFeeAt(amount, c.StartSlot, currentSlot)
}

// ApplyBuy moves solAmount lamports into the curve and returns the tokens paid
// out. A buy that would drain the real token reserves is clamped to them, is
// repriced at the terminal virtual sol reserves and completes the curve. The
// repriced cost never exceeds solAmount; a curve whose reserves would charge
// more fails the buy. On error the curve is left unchanged.
func (c *BondingCurve) ApplyBuy(solAmount uint64) (*BuyResult, error) {
	if c.Complete {
		return nil, shared.ErrCurveComplete
	}

	tokenAmount, err := c.GetTokensForBuySol(solAmount)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrBuyFailed, err)
	}

	complete := false
	if tokenAmount >= c.RealTokenReserves {
		tokenAmount = c.RealTokenReserves
		cost, err := completingBuyCost(c.VirtualTokenReserves, tokenAmount)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", shared.ErrBuyFailed, err)
		}
		if cost > solAmount {
			return nil, fmt.Errorf("%w: completing cost %d exceeds %d lamports in", shared.ErrBuyFailed, cost, solAmount)
		}
		solAmount = cost
		complete = true
	}

	virtualToken, err := math.CheckedSubU64(c.VirtualTokenReserves, tokenAmount)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrBuyFailed, err)
	}
	realToken, err := math.CheckedSubU64(c.RealTokenReserves, tokenAmount)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrBuyFailed, err)
	}
	virtualSol, err := math.CheckedAddU64(c.VirtualSolReserves, solAmount)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrBuyFailed, err)
	}
	realSol, err := math.CheckedAddU64(c.RealSolReserves, solAmount)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrBuyFailed, err)
	}

	c.VirtualTokenReserves = virtualToken
	c.RealTokenReserves = realToken
	c.VirtualSolReserves = virtualSol
	c.RealSolReserves = realSol
	if complete {
		c.Complete = true
	}
	return &BuyResult{TokenAmount: tokenAmount, SolAmount: solAmount}, nil
}

// completingBuyCost prices the last tokenAmount tokens as a sell against the
// terminal reserves (115_005_359_056, virtualTokenReserves - tokenAmount).
func completingBuyCost(virtualTokenReserves, tokenAmount uint64) (uint64, error) {
	terminalToken, err := math.CheckedSubU64(virtualTokenReserves, tokenAmount)
	if err != nil {
		return 0, err
	}
	return math.GetSolForSellTokens(shared.TerminalVirtualSolReserves, terminalToken, tokenAmount)
}

// ApplySell moves tokenAmount tokens back into the curve and returns the
// lamports paid out before fees. On error the curve is left unchanged.
func (c *BondingCurve) ApplySell(tokenAmount uint64) (*SellResult, error) {
	if c.Complete {
		return nil, shared.ErrCurveComplete
	}

	solAmount, err := c.GetSolForSellTokens(tokenAmount)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrSellFailed, err)
	}

	virtualToken, err := math.CheckedAddU64(c.VirtualTokenReserves, tokenAmount)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrSellFailed, err)
	}
	realToken, err := math.CheckedAddU64(c.RealTokenReserves, tokenAmount)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrSellFailed, err)
	}
	virtualSol, err := math.CheckedSubU64(c.VirtualSolReserves, solAmount)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrSellFailed, err)
	}
	realSol, err := math.CheckedSubU64(c.RealSolReserves, solAmount)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrSellFailed, err)
	}

	c.VirtualTokenReserves = virtualToken
	c.RealTokenReserves = realToken
	c.VirtualSolReserves = virtualSol
	c.RealSolReserves = realSol
	return &SellResult{TokenAmount: tokenAmount, SolAmount: solAmount}, nil
}
