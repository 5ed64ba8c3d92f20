package custody

import (
	"fmt"

	binary "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"
	"github.com/krazyTry/pump-science-go/shared"
	"github.com/tidwall/gjson"
)

type AccountState uint8

const (
	AccountStateUninitialized AccountState = 0
	AccountStateInitialized   AccountState = 1
	AccountStateFrozen        AccountState = 2
)

// TokenAccountSize is the length of an spl-token account.
const TokenAccountSize = 165

// TokenAccount is the part of an spl-token account the auditor reads.
type TokenAccount struct {
	Mint   solanago.PublicKey
	Owner  solanago.PublicKey
	Amount uint64
	State  AccountState
}

func (a *TokenAccount) IsFrozen() bool {
	return a.State == AccountStateFrozen
}

// https://github.com/solana-labs/solana-program-library/blob/d72289c79a04411c69a8bf1054f7156b6196f9b3/token/js/src/state/account.ts#L69
type tokenAccountLayout struct {
	Mint                 solanago.PublicKey
	Owner                solanago.PublicKey
	Amount               uint64
	DelegateOption       uint32
	Delegate             solanago.PublicKey
	State                uint8
	IsNativeOption       uint32
	IsNative             uint64
	DelegatedAmount      uint64
	CloseAuthorityOption uint32
	CloseAuthority       solanago.PublicKey
}

// DecodeTokenAccount decodes raw spl-token account data.
func DecodeTokenAccount(data []byte) (*TokenAccount, error) {
	if len(data) < TokenAccountSize {
		return nil, fmt.Errorf("%w: token account is %d bytes, want %d", shared.ErrInvalidAccountData, len(data), TokenAccountSize)
	}
	raw := &tokenAccountLayout{}
	if err := binary.NewBinDecoder(data[:TokenAccountSize]).Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidAccountData, err)
	}
	if AccountState(raw.State) > AccountStateFrozen {
		return nil, fmt.Errorf("%w: token account state %d", shared.ErrInvalidAccountData, raw.State)
	}
	return &TokenAccount{
		Mint:   raw.Mint,
		Owner:  raw.Owner,
		Amount: raw.Amount,
		State:  AccountState(raw.State),
	}, nil
}

// ParseTokenAccountJSON reads a jsonParsed token account, either the bare
// account data or a getAccountInfo response wrapping it.
func ParseTokenAccountJSON(raw []byte) (*TokenAccount, error) {
	data := gjson.ParseBytes(raw)
	if v := data.Get("result.value.data"); v.Exists() {
		data = v
	} else if v := data.Get("value.data"); v.Exists() {
		data = v
	}

	info := data.Get("parsed.info")
	if !info.Exists() || data.Get("parsed.type").String() != "account" {
		return nil, fmt.Errorf("%w: not a parsed token account", shared.ErrInvalidAccountData)
	}

	mint, err := solanago.PublicKeyFromBase58(info.Get("mint").String())
	if err != nil {
		return nil, fmt.Errorf("%w: mint: %v", shared.ErrInvalidAccountData, err)
	}
	owner, err := solanago.PublicKeyFromBase58(info.Get("owner").String())
	if err != nil {
		return nil, fmt.Errorf("%w: owner: %v", shared.ErrInvalidAccountData, err)
	}

	var state AccountState
	switch info.Get("state").String() {
	case "initialized":
		state = AccountStateInitialized
	case "frozen":
		state = AccountStateFrozen
	case "uninitialized":
		state = AccountStateUninitialized
	default:
		return nil, fmt.Errorf("%w: token account state %q", shared.ErrInvalidAccountData, info.Get("state").String())
	}

	return &TokenAccount{
		Mint:   mint,
		Owner:  owner,
		Amount: info.Get("tokenAmount.amount").Uint(),
		State:  state,
	}, nil
}

// Snapshot combines the escrow balance and the curve token account into the
// balances the invariant check runs against.
func Snapshot(solEscrowLamports, rentExemptMinimum uint64, account *TokenAccount) shared.CustodySnapshot {
	return shared.CustodySnapshot{
		SolEscrowLamports:   solEscrowLamports,
		RentExemptMinimum:   rentExemptMinimum,
		TokenAccountBalance: account.Amount,
		TokenAccountFrozen:  account.IsFrozen(),
	}
}
