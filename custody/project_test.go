package custody

import (
	"testing"

	"github.com/krazyTry/pump-science-go/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject(t *testing.T) {
	start := shared.CustodySnapshot{
		SolEscrowLamports:   890_880,
		RentExemptMinimum:   890_880,
		TokenAccountBalance: 1_000_000_000_000_000,
		TokenAccountFrozen:  true,
	}
	buy := []shared.Transfer{
		{Asset: shared.AssetToken, From: shared.PartyCurveTokenAccount, To: shared.PartyUser, Amount: 34_612_903_225_806},
		{Asset: shared.AssetSol, From: shared.PartyUser, To: shared.PartySolEscrow, Amount: 1_000_000_000},
		{Asset: shared.AssetSol, From: shared.PartyUser, To: shared.PartyFeeReceiver, Amount: 10_000_000},
	}

	got, err := Project(start, buy, true)
	require.NoError(t, err)
	assert.Equal(t, shared.CustodySnapshot{
		SolEscrowLamports:   1_000_890_880,
		RentExemptMinimum:   890_880,
		TokenAccountBalance: 1_000_000_000_000_000 - 34_612_903_225_806,
		TokenAccountFrozen:  true,
	}, got)

	got, err = Project(start, nil, false)
	require.NoError(t, err)
	assert.False(t, got.TokenAccountFrozen)

	_, err = Project(start, []shared.Transfer{
		{Asset: shared.AssetSol, From: shared.PartySolEscrow, To: shared.PartyUser, Amount: 890_881},
	}, true)
	assert.ErrorIs(t, err, ErrInsufficient)
}
