package pool_fees

import (
	"fmt"

	"github.com/krazyTry/pump-science-go/math"
	"github.com/krazyTry/pump-science-go/shared"
)

type FeePhase uint8

const (
	FeePhaseSnipe FeePhase = iota + 1
	FeePhaseDecay
	FeePhaseFlat
)

func GetFeePhase(slotsPassed uint64) FeePhase {
	switch {
	case slotsPassed < shared.FeePhase1EndSlot:
		return FeePhaseSnipe
	case slotsPassed <= shared.FeePhase2EndSlot:
		return FeePhaseDecay
	default:
		return FeePhaseFlat
	}
}

// FeeBps returns the fee rate in basis points after slotsPassed slots of trading.
//
//	[0, 150)   9900 bps
//	[150, 250] linear, 917 bps at 150 down to 87 bps at 250
//	> 250      100 bps
func FeeBps(slotsPassed uint64) uint64 {
	switch GetFeePhase(slotsPassed) {
	case FeePhaseSnipe:
		return shared.FeePhase1Bps
	case FeePhaseDecay:
		// numerator stays positive inside the phase: 216_200 - 830*250 = 8_700
		return (shared.FeePhase2Offset - shared.FeePhase2Slope*slotsPassed) / shared.FeePhase2Scale
	default:
		return shared.FeePhase3Bps
	}
}

// CalculateFee returns the lamport fee owed on amount. It never exceeds amount.
func CalculateFee(amount uint64, slotsPassed uint64) uint64 {
	// bps <= MaxBasisPoint so the quotient always fits back in u64
	fee, _ := math.BpsMul(FeeBps(slotsPassed), amount, shared.MaxBasisPoint)
	return fee
}

// CalculateFeeAt measures slotsPassed from startSlot.
func CalculateFeeAt(amount, startSlot, currentSlot uint64) (uint64, error) {
	if currentSlot < startSlot {
		return 0, fmt.Errorf("%w: slot %d before start slot %d", shared.ErrCurveNotStarted, currentSlot, startSlot)
	}
	return CalculateFee(amount, currentSlot-startSlot), nil
}
