package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	binary "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"
	"github.com/krazyTry/pump-science-go/bonding_curve"
	"github.com/krazyTry/pump-science-go/shared"
)

var (
	ErrNotFound         = errors.New("store: not found")
	ErrMigrationClaimed = errors.New("store: migration already recorded")
)

// Store persists curves as encoded account records.
type Store interface {
	LoadCurve(ctx context.Context, mint solanago.PublicKey) (*bonding_curve.BondingCurve, error)
	SaveCurve(ctx context.Context, curve *bonding_curve.BondingCurve) error
	ListMints(ctx context.Context) ([]solanago.PublicKey, error)
	LoadGlobal(ctx context.Context) (*shared.Global, error)
	SaveGlobal(ctx context.Context, global shared.Global) error
	// LoadMigration returns ErrNotFound until SaveMigration ran for mint.
	LoadMigration(ctx context.Context, mint solanago.PublicKey) (*shared.MigrationRecord, error)
	// SaveMigration fails with ErrMigrationClaimed when a pending record is
	// saved over an existing one.
	SaveMigration(ctx context.Context, mint solanago.PublicKey, record shared.MigrationRecord) error
	DeleteMigration(ctx context.Context, mint solanago.PublicKey) error
}

// MemoryStore keeps encoded records in a map so that every load goes
// through the same decode path as the redis store.
type MemoryStore struct {
	mu         sync.RWMutex
	curves     map[solanago.PublicKey][]byte
	migrations map[solanago.PublicKey][]byte
	global     []byte
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		curves:     make(map[solanago.PublicKey][]byte),
		migrations: make(map[solanago.PublicKey][]byte),
	}
}

func (s *MemoryStore) LoadCurve(_ context.Context, mint solanago.PublicKey) (*bonding_curve.BondingCurve, error) {
	s.mu.RLock()
	data, ok := s.curves[mint]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: curve %s", ErrNotFound, mint)
	}
	return bonding_curve.DecodeBondingCurve(data)
}

func (s *MemoryStore) SaveCurve(_ context.Context, curve *bonding_curve.BondingCurve) error {
	data, err := bonding_curve.EncodeBondingCurve(curve)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.curves[curve.Mint] = data
	return nil
}

func (s *MemoryStore) ListMints(_ context.Context) ([]solanago.PublicKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	mints := make([]solanago.PublicKey, 0, len(s.curves))
	for mint := range s.curves {
		mints = append(mints, mint)
	}
	sortMints(mints)
	return mints, nil
}

func (s *MemoryStore) LoadGlobal(_ context.Context) (*shared.Global, error) {
	s.mu.RLock()
	data := s.global
	s.mu.RUnlock()
	if data == nil {
		return nil, fmt.Errorf("%w: global", ErrNotFound)
	}
	return bonding_curve.DecodeGlobal(data)
}

func (s *MemoryStore) SaveGlobal(_ context.Context, global shared.Global) error {
	data, err := bonding_curve.EncodeGlobal(global)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.global = data
	return nil
}

func (s *MemoryStore) LoadMigration(_ context.Context, mint solanago.PublicKey) (*shared.MigrationRecord, error) {
	s.mu.RLock()
	data, ok := s.migrations[mint]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: migration %s", ErrNotFound, mint)
	}
	return decodeMigration(data)
}

func (s *MemoryStore) SaveMigration(_ context.Context, mint solanago.PublicKey, record shared.MigrationRecord) error {
	data, err := encodeMigration(record)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.migrations[mint]; ok && record.Status == shared.MigrationPending {
		return fmt.Errorf("%w: %s", ErrMigrationClaimed, mint)
	}
	s.migrations[mint] = data
	return nil
}

func (s *MemoryStore) DeleteMigration(_ context.Context, mint solanago.PublicKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.migrations, mint)
	return nil
}

func encodeMigration(record shared.MigrationRecord) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := binary.NewBorshEncoder(buf).Encode(record); err != nil {
		return nil, fmt.Errorf("encode migration: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeMigration(data []byte) (*shared.MigrationRecord, error) {
	var record shared.MigrationRecord
	if err := binary.NewBorshDecoder(data).Decode(&record); err != nil {
		return nil, fmt.Errorf("%w: migration: %v", shared.ErrInvalidAccountData, err)
	}
	return &record, nil
}
