package bonding_curve

import (
	"fmt"

	"github.com/krazyTry/pump-science-go/shared"
)

// GetMigrationAmounts derives the amounts handed to the external pool once the
// curve is complete. Any underflow aborts the migration.
func GetMigrationAmounts(curve *BondingCurve, global shared.Global) (*shared.MigrationAmounts, error) {
	if curve == nil {
		return nil, shared.ErrNilCurve
	}
	if !curve.Complete {
		return nil, shared.ErrCurveNotComplete
	}

	solAmount := curve.RealSolReserves
	if solAmount < global.MigrateFeeAmount {
		return nil, fmt.Errorf("%w: real_sol_reserves %d < migrate_fee_amount %d",
			shared.ErrMigrationAmount, solAmount, global.MigrateFeeAmount)
	}
	solAmount -= global.MigrateFeeAmount
	if solAmount < shared.MigrationReserveLamports {
		return nil, fmt.Errorf("%w: %d lamports left after fee, %d reserved",
			shared.ErrMigrationAmount, solAmount, uint64(shared.MigrationReserveLamports))
	}
	solAmount -= shared.MigrationReserveLamports

	tokenAmount := curve.TokenTotalSupply
	if tokenAmount < curve.InitialRealTokenReserves {
		return nil, fmt.Errorf("%w: token_total_supply %d < initial_real_token_reserves %d",
			shared.ErrMigrationAmount, tokenAmount, curve.InitialRealTokenReserves)
	}
	tokenAmount -= curve.InitialRealTokenReserves
	if tokenAmount < global.MigrationTokenAllocation {
		return nil, fmt.Errorf("%w: %d tokens left, migration_token_allocation %d",
			shared.ErrMigrationAmount, tokenAmount, global.MigrationTokenAllocation)
	}
	tokenAmount -= global.MigrationTokenAllocation

	return &shared.MigrationAmounts{
		SolAmountToPool:   solAmount,
		TokenAmountToPool: tokenAmount,
	}, nil
}

// MigrationTransfers lists the custody movements of a migration: pool deposits
// first, then the fee receiver's sol fee and token allocation.
func MigrationTransfers(amounts *shared.MigrationAmounts, global shared.Global) []shared.Transfer {
	transfers := []shared.Transfer{
		{Asset: shared.AssetSol, From: shared.PartySolEscrow, To: shared.PartyPool, Amount: amounts.SolAmountToPool},
		{Asset: shared.AssetToken, From: shared.PartyCurveTokenAccount, To: shared.PartyPool, Amount: amounts.TokenAmountToPool},
	}
	if global.MigrateFeeAmount > 0 {
		transfers = append(transfers, shared.Transfer{
			Asset: shared.AssetSol, From: shared.PartySolEscrow, To: shared.PartyFeeReceiver, Amount: global.MigrateFeeAmount,
		})
	}
	if global.MigrationTokenAllocation > 0 {
		transfers = append(transfers, shared.Transfer{
			Asset: shared.AssetToken, From: shared.PartyCurveTokenAccount, To: shared.PartyFeeReceiver, Amount: global.MigrationTokenAllocation,
		})
	}
	return transfers
}
