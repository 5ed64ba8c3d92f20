package math

import (
	"math/big"
)

// MulDiv computes x * y / denominator with truncating division.
func MulDiv(x, y, denominator *big.Int) (*big.Int, error) {
	prod, err := Mul(x, y)
	if err != nil {
		return nil, err
	}
	return Div(prod, denominator)
}

// BpsMul returns amount * bps / denominator evaluated in 128-bit math.
func BpsMul(bps, amount, denominator uint64) (uint64, error) {
	v, err := MulDiv(U128(amount), U128(bps), U128(denominator))
	if err != nil {
		return 0, err
	}
	return ToU64(v)
}
