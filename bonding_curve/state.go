package bonding_curve

import (
	"bytes"
	"fmt"

	binary "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/krazyTry/pump-science-go/helpers"
	"github.com/krazyTry/pump-science-go/shared"
)

// EncodeBondingCurve writes the versioned account record of curve.
func EncodeBondingCurve(curve *BondingCurve) ([]byte, error) {
	if curve == nil {
		return nil, shared.ErrNilCurve
	}
	return encodeRecord(shared.AccountKeyBondingCurve, shared.BondingCurveLayoutVersion, *curve)
}

func DecodeBondingCurve(data []byte) (*BondingCurve, error) {
	var curve BondingCurve
	if err := decodeRecord(data, shared.AccountKeyBondingCurve, shared.BondingCurveLayoutVersion, &curve); err != nil {
		return nil, err
	}
	return &curve, nil
}

func EncodeGlobal(global shared.Global) ([]byte, error) {
	return encodeRecord(shared.AccountKeyGlobal, shared.GlobalLayoutVersion, global)
}

func DecodeGlobal(data []byte) (*shared.Global, error) {
	var global shared.Global
	if err := decodeRecord(data, shared.AccountKeyGlobal, shared.GlobalLayoutVersion, &global); err != nil {
		return nil, err
	}
	return &global, nil
}

func encodeRecord(account string, version uint8, v any) ([]byte, error) {
	buf := new(bytes.Buffer)
	discriminator := helpers.Discriminator(account)
	buf.Write(discriminator[:])
	buf.WriteByte(version)
	if err := binary.NewBorshEncoder(buf).Encode(v); err != nil {
		return nil, fmt.Errorf("encode %s: %w", account, err)
	}
	return buf.Bytes(), nil
}

func decodeRecord(data []byte, account string, version uint8, v any) error {
	if len(data) < helpers.RecordHeaderLen {
		return fmt.Errorf("%w: %s record too short (%d bytes)", shared.ErrInvalidAccountData, account, len(data))
	}
	discriminator := helpers.Discriminator(account)
	if !bytes.Equal(data[:8], discriminator[:]) {
		return fmt.Errorf("%w: not a %s record", shared.ErrInvalidAccountData, account)
	}
	if data[8] != version {
		return fmt.Errorf("%w: %s layout version %d, want %d", shared.ErrInvalidAccountData, account, data[8], version)
	}
	dec := binary.NewBorshDecoder(data[helpers.RecordHeaderLen:])
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: decode %s: %v", shared.ErrInvalidAccountData, account, err)
	}
	if dec.Remaining() != 0 {
		return fmt.Errorf("%w: %d trailing bytes after %s", shared.ErrInvalidAccountData, dec.Remaining(), account)
	}
	return nil
}

func recordFilters(field string, value []byte) ([]rpc.RPCFilter, error) {
	offset, err := helpers.RecordFieldOffset(new(BondingCurve), field)
	if err != nil {
		return nil, err
	}
	discriminator := helpers.Discriminator(shared.AccountKeyBondingCurve)
	return []rpc.RPCFilter{
		{Memcmp: &rpc.RPCFilterMemcmp{Offset: 0, Bytes: discriminator[:]}},
		{Memcmp: &rpc.RPCFilterMemcmp{Offset: offset, Bytes: value}},
	}, nil
}

// CreatorFilters selects the curve records launched by creator in a
// getProgramAccounts call.
func CreatorFilters(creator solanago.PublicKey) ([]rpc.RPCFilter, error) {
	return recordFilters("Creator", creator.Bytes())
}

// CompleteFilters selects curve records by their complete flag.
func CompleteFilters(complete bool) ([]rpc.RPCFilter, error) {
	flag := []byte{0}
	if complete {
		flag[0] = 1
	}
	return recordFilters("Complete", flag)
}
