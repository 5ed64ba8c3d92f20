package u128

import (
	"errors"
	"math/big"

	binary "github.com/gagliardetto/binary"
)

// Max is 2^128 - 1, the largest value an intermediate curve product may hold.
var Max = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

// Fits reports whether v is representable as an unsigned 128-bit integer.
func Fits(v *big.Int) bool {
	return v != nil && v.Sign() >= 0 && v.Cmp(Max) <= 0
}

func FromBig(v *big.Int) (binary.Uint128, error) {
	if !Fits(v) {
		return binary.Uint128{}, errors.New("value outside the uint128 range")
	}
	lo := new(big.Int).And(v, new(big.Int).SetUint64(^uint64(0))).Uint64()
	hi := new(big.Int).Rsh(v, 64).Uint64()
	return binary.Uint128{Lo: lo, Hi: hi}, nil
}

func ToBig(v binary.Uint128) *big.Int {
	return v.BigInt()
}
