package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"github.com/krazyTry/pump-science-go/bonding_curve"
	"github.com/krazyTry/pump-science-go/custody"
	"github.com/krazyTry/pump-science-go/helpers"
	"github.com/krazyTry/pump-science-go/shared"
	"github.com/krazyTry/pump-science-go/store"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrCurveExists     = errors.New("bonding curve already exists")
	ErrAlreadyMigrated = errors.New("bonding curve already migrated")
	ErrCustodyMismatch = errors.New("custody balances differ from projection")
)

// Migrator creates the external pool from a completed curve. A failed call is
// retried by the next Migrate of the same mint with the same amounts.
type Migrator interface {
	Migrate(ctx context.Context, curve *bonding_curve.BondingCurve, amounts shared.MigrationAmounts) error
}

type Options struct {
	Store     store.Store
	Custodian custody.Custodian
	Migrator  Migrator
	Global    shared.Global

	LastRestartSlot uint64

	Logger  *zap.Logger
	Metrics *Metrics
}

// Engine runs curve operations one at a time per mint. Every mutation is
// audited against the custody state it will leave behind, saved, then executed;
// a custody failure restores the saved record.
type Engine struct {
	store     store.Store
	custodian custody.Custodian
	migrator  Migrator
	logger    *zap.Logger
	metrics   *Metrics

	mu              sync.RWMutex
	global          shared.Global
	lastRestartSlot uint64

	locksMu sync.Mutex
	locks   map[solanago.PublicKey]*mintLock
}

type mintLock struct {
	mu   sync.Mutex
	refs int
}

func New(opts Options) (*Engine, error) {
	if opts.Store == nil {
		return nil, errors.New("engine: store is nil")
	}
	if opts.Custodian == nil {
		return nil, errors.New("engine: custodian is nil")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics("pump_science", nil)
	}
	return &Engine{
		store:           opts.Store,
		custodian:       opts.Custodian,
		migrator:        opts.Migrator,
		logger:          opts.Logger,
		metrics:         opts.Metrics,
		global:          opts.Global,
		lastRestartSlot: opts.LastRestartSlot,
		locks:           make(map[solanago.PublicKey]*mintLock),
	}, nil
}

// Global returns the current settings snapshot.
func (e *Engine) Global() shared.Global {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.global
}

// UpdateGlobal validates params and installs a new snapshot stamped with slot.
func (e *Engine) UpdateGlobal(ctx context.Context, params shared.GlobalSettingsInput, slot uint64) (shared.Global, error) {
	if err := helpers.ValidateGlobalSettings(params); err != nil {
		return shared.Global{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	next := e.global.WithSettings(params, slot)
	next.Initialized = true
	if err := e.store.SaveGlobal(ctx, next); err != nil {
		return shared.Global{}, err
	}
	e.global = next
	e.logger.Info("global settings updated", zap.Uint64("last_updated_slot", slot))
	return next, nil
}

// SetLastRestartSlot records a cluster restart; snapshots not updated since are rejected.
func (e *Engine) SetLastRestartSlot(slot uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastRestartSlot = slot
}

func (e *Engine) snapshot() (shared.Global, uint64) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.global, e.lastRestartSlot
}

// lock serializes work on mint. The entry is dropped once nobody holds or
// waits on it.
func (e *Engine) lock(mint solanago.PublicKey) func() {
	e.locksMu.Lock()
	l, ok := e.locks[mint]
	if !ok {
		l = new(mintLock)
		e.locks[mint] = l
	}
	l.refs++
	e.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		e.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(e.locks, mint)
		}
		e.locksMu.Unlock()
	}
}

func (e *Engine) opLogger(op string, mint solanago.PublicKey) *zap.Logger {
	return e.logger.With(
		zap.String("operation", op),
		zap.String("operation_id", uuid.NewString()),
		zap.Stringer("mint", mint),
	)
}

// audit checks curve against projected, the custody state the movement will
// leave behind.
func (e *Engine) audit(log *zap.Logger, curve *bonding_curve.BondingCurve, projected shared.CustodySnapshot) error {
	if err := bonding_curve.CheckInvariant(curve, projected); err != nil {
		invariant := "unknown"
		var invErr *shared.InvariantError
		if errors.As(err, &invErr) {
			invariant = strconv.Itoa(invErr.Code)
		}
		e.metrics.InvariantFailures.WithLabelValues(invariant).Inc()
		log.Error("invariant check failed", zap.Error(err), zap.Stringer("curve", curve))
		return err
	}
	return nil
}

// execute moves movement through custody and checks that custody ended up
// where projected says. When custody rejects the movement nothing moved, and
// undo reverts the record saved for it.
func (e *Engine) execute(
	ctx context.Context,
	log *zap.Logger,
	movement custody.Movement,
	projected shared.CustodySnapshot,
	undo func(context.Context) error,
) error {
	if err := e.custodian.Execute(ctx, movement); err != nil {
		err = fmt.Errorf("custody: %w", err)
		if uerr := undo(context.WithoutCancel(ctx)); uerr != nil {
			log.Error("rollback failed", zap.Error(uerr), zap.NamedError("cause", err))
			return errors.Join(err, fmt.Errorf("rollback: %w", uerr))
		}
		return err
	}
	actual, err := e.custodian.Snapshot(ctx, movement.Mint)
	if err != nil {
		return fmt.Errorf("custody: %w", err)
	}
	if actual != projected {
		log.Error("custody mismatch", zap.Any("projected", projected), zap.Any("actual", actual))
		return ErrCustodyMismatch
	}
	return nil
}

// CreateCurve opens a market for mint and saves its initial state.
func (e *Engine) CreateCurve(
	ctx context.Context,
	mint solanago.PublicKey,
	creator solanago.PublicKey,
	params shared.CreateBondingCurveParams,
	currentSlot uint64,
	bump uint8,
) (*bonding_curve.BondingCurve, error) {
	unlock := e.lock(mint)
	defer unlock()
	log := e.opLogger("create", mint)

	global, lastRestartSlot := e.snapshot()
	if err := helpers.ValidateGlobal(global, lastRestartSlot); err != nil {
		return nil, err
	}
	if _, err := e.store.LoadCurve(ctx, mint); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrCurveExists, mint)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	curve, err := bonding_curve.NewBondingCurve(mint, creator, global, params, currentSlot, bump)
	if err != nil {
		return nil, err
	}
	if err := e.audit(log, curve, bonding_curve.InitialCustody(curve, e.custodian.RentExemptMinimum())); err != nil {
		return nil, err
	}
	if err := e.custodian.OpenMarket(ctx, mint, curve.TokenTotalSupply); err != nil {
		return nil, fmt.Errorf("custody: %w", err)
	}
	if err := e.store.SaveCurve(ctx, curve); err != nil {
		if cerr := e.custodian.CloseMarket(context.WithoutCancel(ctx), mint); cerr != nil {
			log.Error("rollback failed", zap.Error(cerr), zap.NamedError("cause", err))
			return nil, errors.Join(err, fmt.Errorf("custody: %w", cerr))
		}
		return nil, err
	}

	e.metrics.CurvesCreated.Inc()
	log.Info("bonding curve created",
		zap.Stringer("creator", creator),
		zap.String("name", params.Name),
		zap.String("symbol", params.Symbol),
		zap.Uint64("start_slot", curve.StartSlot),
	)
	return curve, nil
}

// Swap settles trade for user against mint's curve.
func (e *Engine) Swap(
	ctx context.Context,
	mint solanago.PublicKey,
	user solanago.PublicKey,
	trade bonding_curve.Trade,
	currentSlot uint64,
) (*bonding_curve.SwapResult, error) {
	unlock := e.lock(mint)
	defer unlock()
	log := e.opLogger("swap", mint).With(zap.Stringer("user", user))

	res, err := e.swap(ctx, log, mint, user, trade, currentSlot)
	direction := "unknown"
	if trade != nil {
		direction = trade.Direction().String()
	}
	if err != nil {
		e.metrics.TradesTotal.WithLabelValues(direction, "rejected").Inc()
		log.Warn("swap rejected", zap.String("direction", direction), zap.Error(err))
		return nil, err
	}

	e.metrics.TradesTotal.WithLabelValues(direction, "settled").Inc()
	e.metrics.TradeVolume.WithLabelValues(direction).Add(float64(res.SolAmount))
	e.metrics.FeesCollected.Add(float64(res.FeeLamports))
	if res.Complete {
		e.metrics.CurvesCompleted.Inc()
		log.Info("bonding curve complete")
	}
	log.Info("swap settled",
		zap.String("direction", direction),
		zap.Uint64("token_amount", res.TokenAmount),
		zap.Uint64("sol_amount", res.SolAmount),
		zap.Uint64("fee_lamports", res.FeeLamports),
		zap.Bool("dev_buy", res.DevBuy),
	)
	return res, nil
}

func (e *Engine) swap(
	ctx context.Context,
	log *zap.Logger,
	mint solanago.PublicKey,
	user solanago.PublicKey,
	trade bonding_curve.Trade,
	currentSlot uint64,
) (*bonding_curve.SwapResult, error) {
	global, lastRestartSlot := e.snapshot()

	curve, err := e.store.LoadCurve(ctx, mint)
	if err != nil {
		return nil, err
	}
	balance, err := e.custodian.Balance(ctx, mint, user)
	if err != nil {
		return nil, err
	}
	before, err := e.custodian.Snapshot(ctx, mint)
	if err != nil {
		return nil, err
	}

	prev := curve.Clone()
	res, err := bonding_curve.Settle(curve, global, trade, bonding_curve.SwapParams{
		User:              user,
		CurrentSlot:       currentSlot,
		LastRestartSlot:   lastRestartSlot,
		UserSolLamports:   balance.Lamports,
		UserTokenBalance:  balance.Tokens,
		RentExemptMinimum: e.custodian.RentExemptMinimum(),
	}, log)
	if err != nil {
		return nil, err
	}

	projected, err := custody.Project(before, res.Transfers, res.FreezeTokenAccount)
	if err != nil {
		return nil, err
	}
	if err := e.audit(log, curve, projected); err != nil {
		return nil, err
	}
	if err := e.store.SaveCurve(ctx, curve); err != nil {
		return nil, err
	}
	restore := func(ctx context.Context) error {
		return e.store.SaveCurve(ctx, prev)
	}
	movement := custody.Movement{Mint: mint, User: user, Transfers: res.Transfers, Freeze: res.FreezeTokenAccount}
	if err := e.execute(ctx, log, movement, projected, restore); err != nil {
		return nil, err
	}
	return res, nil
}

// Migrate hands a completed curve to the migrator and releases its assets.
// The release is recorded as pending before custody moves anything; a pending
// migration whose migrator call failed resumes with the recorded amounts.
func (e *Engine) Migrate(ctx context.Context, mint solanago.PublicKey) (*shared.MigrationAmounts, error) {
	unlock := e.lock(mint)
	defer unlock()
	log := e.opLogger("migrate", mint)

	if e.migrator == nil {
		return nil, errors.New("engine: no migrator configured")
	}
	global, lastRestartSlot := e.snapshot()
	if err := helpers.ValidateGlobal(global, lastRestartSlot); err != nil {
		return nil, err
	}

	curve, err := e.store.LoadCurve(ctx, mint)
	if err != nil {
		return nil, err
	}

	var amounts shared.MigrationAmounts
	record, err := e.store.LoadMigration(ctx, mint)
	switch {
	case err == nil && record.Status == shared.MigrationDone:
		return nil, fmt.Errorf("%w: %s", ErrAlreadyMigrated, mint)
	case err == nil:
		amounts = record.Amounts
		log.Info("resuming pending migration", zap.Stringer("status", record.Status))
	case errors.Is(err, store.ErrNotFound):
		released, err := e.release(ctx, log, curve, global)
		if err != nil {
			return nil, err
		}
		amounts = *released
	default:
		return nil, err
	}

	if err := e.migrator.Migrate(ctx, curve, amounts); err != nil {
		log.Warn("migrator failed, migration left pending", zap.Error(err))
		return nil, fmt.Errorf("migrator: %w", err)
	}
	if err := e.store.SaveMigration(ctx, mint, shared.MigrationRecord{Amounts: amounts, Status: shared.MigrationDone}); err != nil {
		return nil, err
	}

	e.metrics.Migrations.Inc()
	log.Info("bonding curve migrated",
		zap.Uint64("sol_amount_to_pool", amounts.SolAmountToPool),
		zap.Uint64("token_amount_to_pool", amounts.TokenAmountToPool),
	)
	return &amounts, nil
}

// release records a pending migration for curve and moves its assets to the
// pool and the fee receiver.
func (e *Engine) release(
	ctx context.Context,
	log *zap.Logger,
	curve *bonding_curve.BondingCurve,
	global shared.Global,
) (*shared.MigrationAmounts, error) {
	amounts, err := bonding_curve.GetMigrationAmounts(curve, global)
	if err != nil {
		log.Error("migration amounts", zap.Error(err), zap.Stringer("curve", curve))
		return nil, err
	}

	before, err := e.custodian.Snapshot(ctx, curve.Mint)
	if err != nil {
		return nil, err
	}
	if err := e.audit(log, curve, before); err != nil {
		return nil, err
	}
	transfers := bonding_curve.MigrationTransfers(amounts, global)
	projected, err := custody.Project(before, transfers, false)
	if err != nil {
		return nil, err
	}

	pending := shared.MigrationRecord{Amounts: *amounts, Status: shared.MigrationPending}
	if err := e.store.SaveMigration(ctx, curve.Mint, pending); err != nil {
		return nil, err
	}
	unclaim := func(ctx context.Context) error {
		return e.store.DeleteMigration(ctx, curve.Mint)
	}
	if err := e.execute(ctx, log, custody.Movement{Mint: curve.Mint, Transfers: transfers}, projected, unclaim); err != nil {
		return nil, err
	}
	return amounts, nil
}

// AuditAll checks every stored curve without a migration record against custody.
func (e *Engine) AuditAll(ctx context.Context) error {
	mints, err := e.store.ListMints(ctx)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, mint := range mints {
		mint := mint
		g.Go(func() error {
			unlock := e.lock(mint)
			defer unlock()

			if _, err := e.store.LoadMigration(gctx, mint); err == nil {
				return nil
			} else if !errors.Is(err, store.ErrNotFound) {
				return err
			}
			curve, err := e.store.LoadCurve(gctx, mint)
			if err != nil {
				return err
			}
			snapshot, err := e.custodian.Snapshot(gctx, mint)
			if err != nil {
				return err
			}
			if err := e.audit(e.opLogger("audit", mint), curve, snapshot); err != nil {
				return fmt.Errorf("%s: %w", mint, err)
			}
			return nil
		})
	}
	return g.Wait()
}
