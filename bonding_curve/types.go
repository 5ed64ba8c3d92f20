package bonding_curve

import (
	"fmt"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/krazyTry/pump-science-go/shared"
)

// BondingCurve is the per-launch market state. Field order is the persisted
// record order, see EncodeBondingCurve.
type BondingCurve struct {
	Mint    solanago.PublicKey
	Creator solanago.PublicKey

	InitialRealTokenReserves uint64

	VirtualSolReserves   uint64
	VirtualTokenReserves uint64

	RealSolReserves   uint64
	RealTokenReserves uint64

	TokenTotalSupply uint64
	StartSlot        uint64
	Complete         bool
	Bump             uint8
}

func (c *BondingCurve) String() string {
	return fmt.Sprintf(
		"BondingCurve{mint: %s, creator: %s, initial_real_token_reserves: %d, virtual_sol_reserves: %d, virtual_token_reserves: %d, real_sol_reserves: %d, real_token_reserves: %d, token_total_supply: %d, start_slot: %d, complete: %t}",
		c.Mint, c.Creator, c.InitialRealTokenReserves, c.VirtualSolReserves, c.VirtualTokenReserves,
		c.RealSolReserves, c.RealTokenReserves, c.TokenTotalSupply, c.StartSlot, c.Complete,
	)
}

// Clone returns an independent copy; BondingCurve holds no references.
func (c *BondingCurve) Clone() *BondingCurve {
	cp := *c
	return &cp
}

type BuyResult = shared.TradeResult

type SellResult = shared.TradeResult
