package custody

import (
	"fmt"

	"github.com/krazyTry/pump-science-go/shared"
)

// Project returns the curve's balances after transfers and the freeze flag,
// without moving anything. Only the sol escrow and the curve token account
// are tracked.
func Project(snapshot shared.CustodySnapshot, transfers []shared.Transfer, freeze bool) (shared.CustodySnapshot, error) {
	for _, tr := range transfers {
		var balance *uint64
		switch {
		case tr.Asset == shared.AssetSol:
			balance = &snapshot.SolEscrowLamports
			if tr.From != shared.PartySolEscrow && tr.To != shared.PartySolEscrow {
				continue
			}
		case tr.Asset == shared.AssetToken:
			balance = &snapshot.TokenAccountBalance
			if tr.From != shared.PartyCurveTokenAccount && tr.To != shared.PartyCurveTokenAccount {
				continue
			}
		default:
			return snapshot, fmt.Errorf("%w: asset %d", ErrInvalidParty, tr.Asset)
		}

		switch {
		case tr.From == tr.To:
			return snapshot, fmt.Errorf("%w: transfer to self", ErrInvalidPayload)
		case tr.From == shared.PartySolEscrow || tr.From == shared.PartyCurveTokenAccount:
			if *balance < tr.Amount {
				return snapshot, fmt.Errorf("%w: curve holds %d, transfer %d", ErrInsufficient, *balance, tr.Amount)
			}
			*balance -= tr.Amount
		default:
			if *balance+tr.Amount < *balance {
				return snapshot, fmt.Errorf("%w: balance overflow", ErrInvalidPayload)
			}
			*balance += tr.Amount
		}
	}
	snapshot.TokenAccountFrozen = freeze
	return snapshot, nil
}
