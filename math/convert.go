package math

import (
	"math/big"

	"github.com/krazyTry/pump-science-go/shared"
)

var (
	tokenScale = big.NewInt(shared.TokenScale)
	solScale   = big.NewInt(shared.SolScale)
)

// TokenToSolDecimals rebases a 6 decimal token amount onto the 9 decimal sol basis.
// The multiply-then-divide order is part of the protocol.
func TokenToSolDecimals(amount *big.Int) (*big.Int, error) {
	scaled, err := Mul(amount, solScale)
	if err != nil {
		return nil, err
	}
	return Div(scaled, tokenScale)
}

// SolToTokenDecimals rebases a 9 decimal amount back to 6 decimals, truncating.
func SolToTokenDecimals(amount *big.Int) (*big.Int, error) {
	scaled, err := Mul(amount, tokenScale)
	if err != nil {
		return nil, err
	}
	return Div(scaled, solScale)
}
