package helpers

import (
	"crypto/sha256"
	"fmt"
	"math/big"
	"reflect"

	binary "github.com/gagliardetto/binary"
	"github.com/krazyTry/pump-science-go/shared"
	"github.com/shopspring/decimal"
)

// RecordHeaderLen is the discriminator plus the layout version byte.
const RecordHeaderLen = 9

// ConvertToLamports scales a whole-unit decimal string to raw units, truncating.
func ConvertToLamports(amount string, tokenDecimal int32) (*big.Int, error) {
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, err
	}
	value = value.Mul(decimal.New(1, tokenDecimal))
	return FromDecimalToBig(value), nil
}

func FromDecimalToBig(value decimal.Decimal) *big.Int {
	return value.Truncate(0).BigInt()
}

// FromLamports converts raw units into a decimal amount of whole tokens.
func FromLamports(amount uint64, tokenDecimal int32) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -tokenDecimal)
}

// Discriminator is the 8 byte anchor account prefix for name.
func Discriminator(name string) [8]byte {
	hash := sha256.Sum256([]byte("account:" + name))
	var out [8]byte
	copy(out[:], hash[:8])
	return out
}

// RecordFieldOffset returns where field starts in the versioned record of v,
// a pointer to a borsh encoded struct. Fields before it must be fixed width.
func RecordFieldOffset(v any, field string) (uint64, error) {
	typ := reflect.TypeOf(v)
	if typ.Kind() != reflect.Pointer || typ.Elem().Kind() != reflect.Struct {
		return 0, fmt.Errorf("%w: %T is not a struct pointer", shared.ErrInvalidParameter, v)
	}
	typ = typ.Elem()

	f, ok := typ.FieldByName(field)
	if !ok || len(f.Index) != 1 {
		return 0, fmt.Errorf("%w: %s has no field %s", shared.ErrInvalidParameter, typ.Name(), field)
	}
	prefix := make([]reflect.StructField, 0, f.Index[0])
	for i := 0; i < f.Index[0]; i++ {
		prefix = append(prefix, typ.Field(i))
	}
	zero := reflect.New(reflect.StructOf(prefix)).Elem().Interface()

	encoded, err := binary.MarshalBorsh(zero)
	if err != nil {
		return 0, err
	}
	return uint64(RecordHeaderLen + len(encoded)), nil
}
