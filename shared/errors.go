package shared

import (
	"errors"
	"fmt"
)

var (
	ErrArithmetic   = errors.New("arithmetic error")
	ErrZeroAmount   = errors.New("amount must be greater than zero")
	ErrBuyFailed    = errors.New("buy failed")
	ErrSellFailed   = errors.New("sell failed")
	ErrNilCurve     = errors.New("bonding curve is nil")
	ErrUnknownTrade = errors.New("unknown trade direction")

	ErrCurveNotStarted        = errors.New("bonding curve not started")
	ErrCurveComplete          = errors.New("bonding curve is complete")
	ErrCurveNotComplete       = errors.New("bonding curve is not complete")
	ErrSlippageExceeded       = errors.New("slippage exceeded")
	ErrConfigOutdated         = errors.New("global config outdated")
	ErrNotInitialized         = errors.New("global config not initialized")
	ErrInvalidStartSlot       = errors.New("invalid start slot")
	ErrInvalidParameter       = errors.New("invalid parameter")
	ErrInsufficientUserTokens = errors.New("insufficient user tokens")
	ErrInsufficientUserSOL    = errors.New("insufficient user sol")

	ErrMigrationAmount = errors.New("migration amount underflow")

	ErrInvalidAccountData = errors.New("invalid account data")
)

// ErrInvariant is matched by every invariant failure.
var ErrInvariant = errors.New("bonding curve invariant")

// InvariantError names the invariant that tripped.
type InvariantError struct {
	Code   int
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("bonding curve invariant %d: %s", e.Code, e.Reason)
}

func (e *InvariantError) Is(target error) bool {
	if target == ErrInvariant {
		return true
	}
	t, ok := target.(*InvariantError)
	return ok && t.Code == e.Code
}

var (
	ErrInvariantVirtualReserves = &InvariantError{Code: 1, Reason: "virtual reserves must be positive"}
	ErrInvariantSolEscrow       = &InvariantError{Code: 2, Reason: "sol escrow balance below real_sol_reserves"}
	ErrInvariantTokenBalance    = &InvariantError{Code: 3, Reason: "token account balance does not match real_token_reserves"}
	ErrInvariantComplete        = &InvariantError{Code: 4, Reason: "complete with non-zero real_token_reserves"}
	ErrInvariantFrozen          = &InvariantError{Code: 5, Reason: "token account must be frozen exactly while trading"}
)
