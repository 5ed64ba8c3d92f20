package math

import (
	"math/big"

	"github.com/krazyTry/pump-science-go/shared"
)

// GetTokensForBuySol prices a buy of solAmount lamports against the virtual
// reserves (vs, vt) with the constant product vs * vt = k. Token amounts are
// rebased to 9 decimals for the product and back to 6 for the result.
func GetTokensForBuySol(virtualSolReserves, virtualTokenReserves, solAmount uint64) (uint64, error) {
	if solAmount == 0 {
		return 0, shared.ErrZeroAmount
	}
	currentSol := U128(virtualSolReserves)
	currentTokens, err := TokenToSolDecimals(U128(virtualTokenReserves))
	if err != nil {
		return 0, err
	}

	newSol, err := Add(currentSol, U128(solAmount))
	if err != nil {
		return 0, err
	}
	newTokens, err := MulDiv(currentSol, currentTokens, newSol)
	if err != nil {
		return 0, err
	}
	tokensOut, err := Sub(currentTokens, newTokens)
	if err != nil {
		return 0, err
	}
	tokensOut, err = SolToTokenDecimals(tokensOut)
	if err != nil {
		return 0, err
	}
	return ToU64(tokensOut)
}

// GetSolForSellTokens prices a sell of tokenAmount base units against (vs, vt).
func GetSolForSellTokens(virtualSolReserves, virtualTokenReserves, tokenAmount uint64) (uint64, error) {
	if tokenAmount == 0 {
		return 0, shared.ErrZeroAmount
	}
	currentSol := U128(virtualSolReserves)
	currentTokens, err := TokenToSolDecimals(U128(virtualTokenReserves))
	if err != nil {
		return 0, err
	}

	tokensIn, err := TokenToSolDecimals(U128(tokenAmount))
	if err != nil {
		return 0, err
	}
	newTokens, err := Add(currentTokens, tokensIn)
	if err != nil {
		return 0, err
	}
	newSol, err := MulDiv(currentSol, currentTokens, newTokens)
	if err != nil {
		return 0, err
	}
	solOut, err := Sub(currentSol, newSol)
	if err != nil {
		return 0, err
	}
	return ToU64(solOut)
}

// ConstantProduct returns vs * vt in raw units.
func ConstantProduct(virtualSolReserves, virtualTokenReserves uint64) *big.Int {
	return new(big.Int).Mul(U128(virtualSolReserves), U128(virtualTokenReserves))
}
