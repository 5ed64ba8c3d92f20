package custody

import (
	"context"
	"errors"
	"fmt"
	"sync"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/krazyTry/pump-science-go/shared"
)

var (
	ErrUnknownMarket  = errors.New("custody: unknown market")
	ErrMarketExists   = errors.New("custody: market already exists")
	ErrInsufficient   = errors.New("custody: insufficient balance")
	ErrInvalidParty   = errors.New("custody: invalid transfer party")
	ErrInvalidPayload = errors.New("custody: invalid movement")
)

// Movement is one market's set of transfers, executed all or nothing. The
// curve token account is frozen afterwards iff Freeze.
type Movement struct {
	Mint      solanago.PublicKey
	User      solanago.PublicKey
	Transfers []shared.Transfer
	Freeze    bool
}

type UserBalance struct {
	Lamports uint64
	Tokens   uint64
}

// Custodian holds the real assets behind each curve.
type Custodian interface {
	RentExemptMinimum() uint64
	// OpenMarket mints supply into a frozen curve token account and funds the
	// sol escrow with rent.
	OpenMarket(ctx context.Context, mint solanago.PublicKey, supply uint64) error
	// CloseMarket removes a market nothing has traded against yet.
	CloseMarket(ctx context.Context, mint solanago.PublicKey) error
	Snapshot(ctx context.Context, mint solanago.PublicKey) (shared.CustodySnapshot, error)
	Balance(ctx context.Context, mint, user solanago.PublicKey) (UserBalance, error)
	Execute(ctx context.Context, movement Movement) error
}

type market struct {
	escrow        uint64
	curveTokens   uint64
	frozen        bool
	feeSol        uint64
	feeTokens     uint64
	poolSol       uint64
	poolTokens    uint64
	holderBalance map[solanago.PublicKey]uint64
}

// Ledger is an in-memory Custodian.
type Ledger struct {
	mu       sync.Mutex
	rent     uint64
	lamports map[solanago.PublicKey]uint64
	markets  map[solanago.PublicKey]*market
}

var _ Custodian = (*Ledger)(nil)

func NewLedger(rentExemptMinimum uint64) *Ledger {
	return &Ledger{
		rent:     rentExemptMinimum,
		lamports: make(map[solanago.PublicKey]uint64),
		markets:  make(map[solanago.PublicKey]*market),
	}
}

func (l *Ledger) RentExemptMinimum() uint64 {
	return l.rent
}

// Fund credits lamports to user.
func (l *Ledger) Fund(user solanago.PublicKey, lamports uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lamports[user] += lamports
}

func (l *Ledger) OpenMarket(_ context.Context, mint solanago.PublicKey, supply uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.markets[mint]; ok {
		return fmt.Errorf("%w: %s", ErrMarketExists, mint)
	}
	l.markets[mint] = &market{
		escrow:        l.rent,
		curveTokens:   supply,
		frozen:        true,
		holderBalance: make(map[solanago.PublicKey]uint64),
	}
	return nil
}

func (l *Ledger) CloseMarket(_ context.Context, mint solanago.PublicKey) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.markets[mint]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMarket, mint)
	}
	if len(m.holderBalance) > 0 || m.escrow != l.rent {
		return fmt.Errorf("%w: %s has traded", ErrInvalidPayload, mint)
	}
	delete(l.markets, mint)
	return nil
}

func (l *Ledger) Snapshot(_ context.Context, mint solanago.PublicKey) (shared.CustodySnapshot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.markets[mint]
	if !ok {
		return shared.CustodySnapshot{}, fmt.Errorf("%w: %s", ErrUnknownMarket, mint)
	}
	return shared.CustodySnapshot{
		SolEscrowLamports:   m.escrow,
		RentExemptMinimum:   l.rent,
		TokenAccountBalance: m.curveTokens,
		TokenAccountFrozen:  m.frozen,
	}, nil
}

func (l *Ledger) Balance(_ context.Context, mint, user solanago.PublicKey) (UserBalance, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.markets[mint]
	if !ok {
		return UserBalance{}, fmt.Errorf("%w: %s", ErrUnknownMarket, mint)
	}
	return UserBalance{Lamports: l.lamports[user], Tokens: m.holderBalance[user]}, nil
}

// Collected returns what the fee receiver and the pool hold for mint.
func (l *Ledger) Collected(mint solanago.PublicKey) (feeSol, feeTokens, poolSol, poolTokens uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if m, ok := l.markets[mint]; ok {
		return m.feeSol, m.feeTokens, m.poolSol, m.poolTokens
	}
	return 0, 0, 0, 0
}

// Execute applies every transfer of movement or none of them.
func (l *Ledger) Execute(_ context.Context, movement Movement) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.markets[movement.Mint]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMarket, movement.Mint)
	}

	// stage on copies, commit once every transfer has cleared
	staged := *m
	userLamports := l.lamports[movement.User]
	userTokens := m.holderBalance[movement.User]

	balance := func(asset shared.Asset, party shared.Party) (*uint64, error) {
		switch {
		case asset == shared.AssetSol && party == shared.PartyUser:
			return &userLamports, nil
		case asset == shared.AssetSol && party == shared.PartySolEscrow:
			return &staged.escrow, nil
		case asset == shared.AssetSol && party == shared.PartyFeeReceiver:
			return &staged.feeSol, nil
		case asset == shared.AssetSol && party == shared.PartyPool:
			return &staged.poolSol, nil
		case asset == shared.AssetToken && party == shared.PartyUser:
			return &userTokens, nil
		case asset == shared.AssetToken && party == shared.PartyCurveTokenAccount:
			return &staged.curveTokens, nil
		case asset == shared.AssetToken && party == shared.PartyFeeReceiver:
			return &staged.feeTokens, nil
		case asset == shared.AssetToken && party == shared.PartyPool:
			return &staged.poolTokens, nil
		}
		return nil, fmt.Errorf("%w: asset %d party %d", ErrInvalidParty, asset, party)
	}

	for _, tr := range movement.Transfers {
		if tr.From == tr.To {
			return fmt.Errorf("%w: transfer to self", ErrInvalidPayload)
		}
		from, err := balance(tr.Asset, tr.From)
		if err != nil {
			return err
		}
		to, err := balance(tr.Asset, tr.To)
		if err != nil {
			return err
		}
		if *from < tr.Amount {
			return fmt.Errorf("%w: party %d holds %d, transfer %d", ErrInsufficient, tr.From, *from, tr.Amount)
		}
		if *to+tr.Amount < *to {
			return fmt.Errorf("%w: balance overflow", ErrInvalidPayload)
		}
		*from -= tr.Amount
		*to += tr.Amount
	}

	staged.frozen = movement.Freeze
	staged.holderBalance = m.holderBalance
	*m = staged
	l.lamports[movement.User] = userLamports
	m.holderBalance[movement.User] = userTokens
	return nil
}
