package shared

import (
	"fmt"

	solanago "github.com/gagliardetto/solana-go"
)

const (
	TokenDecimals = 6
	SolDecimals   = 9

	// scale factors used to rebase token amounts between 6 and 9 decimals
	TokenScale = 1_000_000
	SolScale   = 1_000_000_000

	MaxBasisPoint = 10_000

	// fee schedule, measured in slots since start_slot
	// phase 1 and 2 follow the published fee table (990 on 1000 lamports, 917 to 87 bps),
	// not the 9999 bps and -9_704_901/2_445_930_392 coefficients of the deployed program
	FeePhase1EndSlot  = 150
	FeePhase2EndSlot  = 250
	FeePhase1Bps      = 9_900
	FeePhase2Slope    = 830
	FeePhase2Offset   = 216_200
	FeePhase2Scale    = 100
	FeePhase3Bps      = 100
	MaxStartSlotDelay = 1_512_000 // ~1 week of 400ms slots

	// virtual sol reserves used to price the completing buy
	TerminalVirtualSolReserves = 115_005_359_056

	// lamports kept back from the pool deposit for account rent
	MigrationReserveLamports = 40_000_000

	MaxMintDecimals = 9

	BondingCurveLayoutVersion = 1
	GlobalLayoutVersion       = 1

	AccountKeyBondingCurve = "BondingCurve"
	AccountKeyGlobal       = "Global"
)

// Global is a read-only snapshot of the process wide launch settings.
// LastUpdatedSlot acts as its version.
type Global struct {
	Initialized        bool
	GlobalAuthority    solanago.PublicKey
	MigrationAuthority solanago.PublicKey
	MigrateFeeAmount   uint64

	MigrationTokenAllocation uint64
	FeeReceiver              solanago.PublicKey

	InitialVirtualTokenReserves uint64
	InitialVirtualSolReserves   uint64
	InitialRealTokenReserves    uint64
	TokenTotalSupply            uint64
	MintDecimals                uint8

	MeteoraConfig    solanago.PublicKey
	WhitelistEnabled bool

	LastUpdatedSlot uint64
}

// DefaultGlobal returns the launch defaults of the protocol.
func DefaultGlobal() Global {
	return Global{
		Initialized:                 true,
		InitialVirtualTokenReserves: 1_073_000_000_000_000,
		InitialVirtualSolReserves:   30_000_000_000,
		InitialRealTokenReserves:    793_100_000_000_000,
		TokenTotalSupply:            1_000_000_000_000_000,
		MintDecimals:                TokenDecimals,
		MigrateFeeAmount:            500,
		MigrationTokenAllocation:    50_000_000_000_000, // 50M
		WhitelistEnabled:            true,
		LastUpdatedSlot:             1,
	}
}

// IsConfigOutdated reports whether the snapshot predates the last cluster restart.
func (g Global) IsConfigOutdated(lastRestartSlot uint64) bool {
	return g.LastUpdatedSlot <= lastRestartSlot
}

type GlobalSettingsInput struct {
	InitialVirtualTokenReserves uint64
	InitialVirtualSolReserves   uint64
	InitialRealTokenReserves    uint64
	TokenTotalSupply            uint64
	MintDecimals                uint8
	MigrateFeeAmount            uint64
	MigrationTokenAllocation    uint64
	FeeReceiver                 solanago.PublicKey
	WhitelistEnabled            bool
	MeteoraConfig               solanago.PublicKey
}

// WithSettings returns a new snapshot carrying params, stamped with slot.
func (g Global) WithSettings(params GlobalSettingsInput, slot uint64) Global {
	g.MintDecimals = params.MintDecimals
	g.InitialVirtualTokenReserves = params.InitialVirtualTokenReserves
	g.InitialVirtualSolReserves = params.InitialVirtualSolReserves
	g.InitialRealTokenReserves = params.InitialRealTokenReserves
	g.TokenTotalSupply = params.TokenTotalSupply
	g.MigrateFeeAmount = params.MigrateFeeAmount
	g.MigrationTokenAllocation = params.MigrationTokenAllocation
	g.FeeReceiver = params.FeeReceiver
	g.WhitelistEnabled = params.WhitelistEnabled
	g.MeteoraConfig = params.MeteoraConfig
	g.LastUpdatedSlot = slot
	return g
}

type CreateBondingCurveParams struct {
	Name      string
	Symbol    string
	URI       string
	StartSlot *uint64
}

// TradeResult is produced by ApplyBuy and ApplySell.
type TradeResult struct {
	TokenAmount uint64
	SolAmount   uint64
}

type TradeDirection uint8

const (
	TradeDirectionBuy TradeDirection = iota
	TradeDirectionSell
)

func (d TradeDirection) String() string {
	switch d {
	case TradeDirectionBuy:
		return "buy"
	case TradeDirectionSell:
		return "sell"
	default:
		return fmt.Sprintf("TradeDirection(%d)", uint8(d))
	}
}

// CustodySnapshot carries the externally held balances the invariant check runs against.
type CustodySnapshot struct {
	SolEscrowLamports   uint64
	RentExemptMinimum   uint64
	TokenAccountBalance uint64
	TokenAccountFrozen  bool
}

type Asset uint8

const (
	AssetSol Asset = iota
	AssetToken
)

// Party is a custody location a transfer moves funds between.
type Party uint8

const (
	PartyUser Party = iota
	PartySolEscrow
	PartyCurveTokenAccount
	PartyFeeReceiver
	PartyPool
)

// Transfer is a balance movement the custody collaborator must execute.
type Transfer struct {
	Asset  Asset
	From   Party
	To     Party
	Amount uint64
}

type MigrationAmounts struct {
	SolAmountToPool   uint64
	TokenAmountToPool uint64
}

type MigrationStatus uint8

const (
	// MigrationPending: custody released the assets, the pool is not confirmed yet.
	MigrationPending MigrationStatus = iota + 1
	MigrationDone
)

func (s MigrationStatus) String() string {
	switch s {
	case MigrationPending:
		return "pending"
	case MigrationDone:
		return "done"
	default:
		return "unknown"
	}
}

type MigrationRecord struct {
	Amounts MigrationAmounts
	Status  MigrationStatus
}
