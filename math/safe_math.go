package math

import (
	"fmt"
	"math/big"

	"github.com/krazyTry/pump-science-go/shared"
	"github.com/krazyTry/pump-science-go/u128"
)

// The checked operations below mirror unsigned 128-bit arithmetic: any result
// outside [0, 2^128) is an error rather than a wrap.

func U128(v uint64) *big.Int {
	return new(big.Int).SetUint64(v)
}

func Add(a, b *big.Int) (*big.Int, error) {
	r := new(big.Int).Add(a, b)
	if !u128.Fits(r) {
		return nil, fmt.Errorf("%w: add overflow", shared.ErrArithmetic)
	}
	return r, nil
}

func Sub(a, b *big.Int) (*big.Int, error) {
	if b.Cmp(a) > 0 {
		return nil, fmt.Errorf("%w: subtraction underflow", shared.ErrArithmetic)
	}
	return new(big.Int).Sub(a, b), nil
}

func Mul(a, b *big.Int) (*big.Int, error) {
	r := new(big.Int).Mul(a, b)
	if !u128.Fits(r) {
		return nil, fmt.Errorf("%w: multiplication overflow", shared.ErrArithmetic)
	}
	return r, nil
}

// Div truncates toward zero.
func Div(a, b *big.Int) (*big.Int, error) {
	if b.Sign() == 0 {
		return nil, fmt.Errorf("%w: division by zero", shared.ErrArithmetic)
	}
	return new(big.Int).Quo(a, b), nil
}

// ToU64 narrows v, failing if information would be lost.
func ToU64(v *big.Int) (uint64, error) {
	if v == nil || v.Sign() < 0 || !v.IsUint64() {
		return 0, fmt.Errorf("%w: value does not fit in u64", shared.ErrArithmetic)
	}
	return v.Uint64(), nil
}

func CheckedSubU64(a, b uint64) (uint64, error) {
	if b > a {
		return 0, fmt.Errorf("%w: %d - %d underflows", shared.ErrArithmetic, a, b)
	}
	return a - b, nil
}

func CheckedAddU64(a, b uint64) (uint64, error) {
	r := a + b
	if r < a {
		return 0, fmt.Errorf("%w: %d + %d overflows", shared.ErrArithmetic, a, b)
	}
	return r, nil
}
