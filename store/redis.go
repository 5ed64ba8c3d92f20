package store

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/krazyTry/pump-science-go/bonding_curve"
	"github.com/krazyTry/pump-science-go/shared"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix       = "pump-science:"
	curvePrefix     = keyPrefix + "curve:"
	curveIndex      = keyPrefix + "curves"
	migrationPrefix = keyPrefix + "migration:"
	globalKey       = keyPrefix + "global"
)

// RedisStore keeps one encoded record per key.
type RedisStore struct {
	client redis.Cmdable
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(client redis.Cmdable) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	return &RedisStore{client: client}, nil
}

func CurveKey(mint solanago.PublicKey) string {
	return curvePrefix + mint.String()
}

func (s *RedisStore) LoadCurve(ctx context.Context, mint solanago.PublicKey) (*bonding_curve.BondingCurve, error) {
	data, err := s.client.Get(ctx, CurveKey(mint)).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("%w: curve %s", ErrNotFound, mint)
	}
	if err != nil {
		return nil, fmt.Errorf("get curve: %w", err)
	}
	return bonding_curve.DecodeBondingCurve(data)
}

func (s *RedisStore) SaveCurve(ctx context.Context, curve *bonding_curve.BondingCurve) error {
	data, err := bonding_curve.EncodeBondingCurve(curve)
	if err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, CurveKey(curve.Mint), data, 0)
	pipe.SAdd(ctx, curveIndex, curve.Mint.String())
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save curve: %w", err)
	}
	return nil
}

func (s *RedisStore) ListMints(ctx context.Context) ([]solanago.PublicKey, error) {
	members, err := s.client.SMembers(ctx, curveIndex).Result()
	if err != nil {
		return nil, fmt.Errorf("list curves: %w", err)
	}
	mints := make([]solanago.PublicKey, 0, len(members))
	for _, m := range members {
		mint, err := solanago.PublicKeyFromBase58(m)
		if err != nil {
			return nil, fmt.Errorf("list curves: %w", err)
		}
		mints = append(mints, mint)
	}
	sortMints(mints)
	return mints, nil
}

func (s *RedisStore) LoadGlobal(ctx context.Context) (*shared.Global, error) {
	data, err := s.client.Get(ctx, globalKey).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("%w: global", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get global: %w", err)
	}
	return bonding_curve.DecodeGlobal(data)
}

func (s *RedisStore) SaveGlobal(ctx context.Context, global shared.Global) error {
	data, err := bonding_curve.EncodeGlobal(global)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, globalKey, data, 0).Err(); err != nil {
		return fmt.Errorf("save global: %w", err)
	}
	return nil
}

func sortMints(mints []solanago.PublicKey) {
	sort.Slice(mints, func(i, j int) bool {
		return bytes.Compare(mints[i][:], mints[j][:]) < 0
	})
}

func (s *RedisStore) LoadMigration(ctx context.Context, mint solanago.PublicKey) (*shared.MigrationRecord, error) {
	data, err := s.client.Get(ctx, migrationPrefix+mint.String()).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("%w: migration %s", ErrNotFound, mint)
	}
	if err != nil {
		return nil, fmt.Errorf("get migration: %w", err)
	}
	return decodeMigration(data)
}

// SaveMigration claims the mint with SETNX for a pending record, so only one
// process releases a curve's assets.
func (s *RedisStore) SaveMigration(ctx context.Context, mint solanago.PublicKey, record shared.MigrationRecord) error {
	data, err := encodeMigration(record)
	if err != nil {
		return err
	}
	key := migrationPrefix + mint.String()
	if record.Status != shared.MigrationPending {
		if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
			return fmt.Errorf("save migration: %w", err)
		}
		return nil
	}
	ok, err := s.client.SetNX(ctx, key, data, 0).Result()
	if err != nil {
		return fmt.Errorf("save migration: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrMigrationClaimed, mint)
	}
	return nil
}

func (s *RedisStore) DeleteMigration(ctx context.Context, mint solanago.PublicKey) error {
	if err := s.client.Del(ctx, migrationPrefix+mint.String()).Err(); err != nil {
		return fmt.Errorf("delete migration: %w", err)
	}
	return nil
}
