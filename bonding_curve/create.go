package bonding_curve

import (
	solanago "github.com/gagliardetto/solana-go"
	"github.com/krazyTry/pump-science-go/helpers"
	"github.com/krazyTry/pump-science-go/shared"
)

func ValidateCreateParams(params shared.CreateBondingCurveParams, currentSlot uint64) error {
	return helpers.ValidateStartSlot(params.StartSlot, currentSlot)
}

// NewBondingCurve builds a fresh market from the global defaults. The start
// slot defaults to currentSlot.
func NewBondingCurve(
	mint solanago.PublicKey,
	creator solanago.PublicKey,
	global shared.Global,
	params shared.CreateBondingCurveParams,
	currentSlot uint64,
	bump uint8,
) (*BondingCurve, error) {
	if err := ValidateCreateParams(params, currentSlot); err != nil {
		return nil, err
	}

	startSlot := currentSlot
	if params.StartSlot != nil {
		startSlot = *params.StartSlot
	}

	return &BondingCurve{
		Mint:                     mint,
		Creator:                  creator,
		InitialRealTokenReserves: global.InitialRealTokenReserves,
		VirtualSolReserves:       global.InitialVirtualSolReserves,
		VirtualTokenReserves:     global.InitialVirtualTokenReserves,
		RealSolReserves:          0,
		RealTokenReserves:        global.InitialRealTokenReserves,
		TokenTotalSupply:         global.TokenTotalSupply,
		StartSlot:                startSlot,
		Complete:                 false,
		Bump:                     bump,
	}, nil
}

// InitialCustody is what custody holds right after minting: the whole supply
// in a frozen curve token account and an escrow funded only with rent.
func InitialCustody(curve *BondingCurve, rentExemptMinimum uint64) shared.CustodySnapshot {
	return shared.CustodySnapshot{
		SolEscrowLamports:   rentExemptMinimum,
		RentExemptMinimum:   rentExemptMinimum,
		TokenAccountBalance: curve.TokenTotalSupply,
		TokenAccountFrozen:  true,
	}
}
