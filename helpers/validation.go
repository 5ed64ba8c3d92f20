package helpers

import (
	"fmt"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/krazyTry/pump-science-go/shared"
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{shared.ErrInvalidParameter}, args...)...)
}

// ValidateGlobalSettings checks a settings update before it becomes the global snapshot.
func ValidateGlobalSettings(params shared.GlobalSettingsInput) error {
	if params.MintDecimals > shared.MaxMintDecimals {
		return invalid("mint_decimals %d > %d", params.MintDecimals, shared.MaxMintDecimals)
	}
	if params.TokenTotalSupply > ^uint64(0)/2 {
		return invalid("token_total_supply %d too large", params.TokenTotalSupply)
	}
	if params.FeeReceiver.Equals(solanago.PublicKey{}) {
		return invalid("fee_receiver not set")
	}
	if params.MeteoraConfig.Equals(solanago.PublicKey{}) {
		return invalid("meteora_config not set")
	}
	if params.InitialVirtualTokenReserves == 0 {
		return invalid("initial_virtual_token_reserves must be positive")
	}
	if params.InitialVirtualSolReserves == 0 {
		return invalid("initial_virtual_sol_reserves must be positive")
	}
	if params.InitialRealTokenReserves == 0 {
		return invalid("initial_real_token_reserves must be positive")
	}

	// tokens must be left over for the curve after the migration allocation
	remaining := uint64(0)
	if params.TokenTotalSupply > params.MigrationTokenAllocation {
		remaining = params.TokenTotalSupply - params.MigrationTokenAllocation
	}
	if remaining <= params.InitialRealTokenReserves {
		return invalid("token_total_supply - migration_token_allocation (%d) must exceed initial_real_token_reserves (%d)",
			remaining, params.InitialRealTokenReserves)
	}
	return nil
}

// ValidateGlobal checks a snapshot before a curve operation uses it.
func ValidateGlobal(global shared.Global, lastRestartSlot uint64) error {
	if !global.Initialized {
		return shared.ErrNotInitialized
	}
	if global.IsConfigOutdated(lastRestartSlot) {
		return fmt.Errorf("%w: last_updated_slot %d <= last_restart_slot %d",
			shared.ErrConfigOutdated, global.LastUpdatedSlot, lastRestartSlot)
	}
	return nil
}

// ValidateStartSlot accepts start slots from now up to MaxStartSlotDelay ahead.
func ValidateStartSlot(startSlot *uint64, currentSlot uint64) error {
	if startSlot == nil {
		return nil
	}
	if *startSlot < currentSlot || *startSlot-currentSlot > shared.MaxStartSlotDelay {
		return fmt.Errorf("%w: start slot %d outside [%d, %d+%d]",
			shared.ErrInvalidStartSlot, *startSlot, currentSlot, currentSlot, shared.MaxStartSlotDelay)
	}
	return nil
}
