package bonding_curve

import (
	"fmt"

	"github.com/krazyTry/pump-science-go/shared"
)

// CheckInvariant audits curve against the balances held by custody. Invariants
// are checked in order and the first violation is returned; every failure
// matches shared.ErrInvariant and its own ErrInvariantX value.
func CheckInvariant(curve *BondingCurve, custody shared.CustodySnapshot) error {
	if curve == nil {
		return shared.ErrNilCurve
	}

	// 1. virtual reserves stay positive
	if curve.VirtualSolReserves == 0 || curve.VirtualTokenReserves == 0 {
		return fmt.Errorf("%w: virtual_sol_reserves=%d virtual_token_reserves=%d",
			shared.ErrInvariantVirtualReserves, curve.VirtualSolReserves, curve.VirtualTokenReserves)
	}

	// 2. escrow lamports above rent cover real_sol_reserves
	if custody.SolEscrowLamports < custody.RentExemptMinimum ||
		custody.SolEscrowLamports-custody.RentExemptMinimum < curve.RealSolReserves {
		return fmt.Errorf("%w: real_sol_reserves=%d sol_escrow_lamports=%d rent=%d",
			shared.ErrInvariantSolEscrow, curve.RealSolReserves, custody.SolEscrowLamports, custody.RentExemptMinimum)
	}

	// 3. balance - (supply - initial_real) == real_token_reserves
	if curve.TokenTotalSupply < curve.InitialRealTokenReserves {
		return fmt.Errorf("%w: token_total_supply=%d < initial_real_token_reserves=%d",
			shared.ErrInvariantTokenBalance, curve.TokenTotalSupply, curve.InitialRealTokenReserves)
	}
	bondingLiquidity := curve.TokenTotalSupply - curve.InitialRealTokenReserves
	if custody.TokenAccountBalance < bondingLiquidity ||
		custody.TokenAccountBalance-bondingLiquidity != curve.RealTokenReserves {
		return fmt.Errorf("%w: real_token_reserves=%d token_balance=%d",
			shared.ErrInvariantTokenBalance, curve.RealTokenReserves, custody.TokenAccountBalance)
	}

	// 4. complete only once the real token reserves are drained
	if curve.Complete && curve.RealTokenReserves != 0 {
		return fmt.Errorf("%w: real_token_reserves=%d", shared.ErrInvariantComplete, curve.RealTokenReserves)
	}

	// 5. frozen while trading, released once complete
	if curve.Complete == custody.TokenAccountFrozen {
		return fmt.Errorf("%w: complete=%t frozen=%t",
			shared.ErrInvariantFrozen, curve.Complete, custody.TokenAccountFrozen)
	}
	return nil
}
