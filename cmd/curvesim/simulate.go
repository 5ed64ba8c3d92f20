package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/krazyTry/pump-science-go/bonding_curve"
	"github.com/krazyTry/pump-science-go/config"
	"github.com/krazyTry/pump-science-go/custody"
	"github.com/krazyTry/pump-science-go/engine"
	"github.com/krazyTry/pump-science-go/logger"
	"github.com/krazyTry/pump-science-go/shared"
	"github.com/krazyTry/pump-science-go/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	envFiles, _ := cmd.Flags().GetStringSlice("env-file")
	return config.Load(path, envFiles...)
}

// printMigrator stands in for the external pool and prints what it receives.
type printMigrator struct {
	cmd *cobra.Command
}

func (m printMigrator) Migrate(_ context.Context, curve *bonding_curve.BondingCurve, amounts shared.MigrationAmounts) error {
	m.cmd.Printf("migrate %s: %d lamports, %d tokens to pool\n", curve.Mint, amounts.SolAmountToPool, amounts.TokenAmountToPool)
	return nil
}

func openStore(ctx context.Context, cfg config.EngineConfig, log *zap.Logger) (store.Store, func(), error) {
	if cfg.RedisAddr == "" {
		return store.NewMemoryStore(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
	_, err := backoff.Retry(ctx,
		func() (string, error) {
			return client.Ping(ctx).Result()
		},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(5),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Warn("redis not reachable, retrying", zap.String("addr", cfg.RedisAddr), zap.Duration("next", next), zap.Error(err))
		}),
	)
	if err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("connect redis %s: %w", cfg.RedisAddr, err)
	}
	st, err := store.NewRedisStore(client)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return st, func() { _ = client.Close() }, nil
}

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate <script.json>",
		Short: "Create a curve and replay a trade script against it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log, err := logger.New(&cfg.Log)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			sc, err := parseScript(raw)
			if err != nil {
				return err
			}
			global, err := cfg.Global.Snapshot()
			if err != nil {
				return fmt.Errorf("global config: %w", err)
			}

			ctx := cmd.Context()
			st, closeStore, err := openStore(ctx, cfg.Engine, log)
			if err != nil {
				return err
			}
			defer closeStore()

			ledger := custody.NewLedger(cfg.Engine.RentExemptMinimum)
			for _, f := range sc.Fund {
				ledger.Fund(f.User, f.Lamports)
			}
			eng, err := engine.New(engine.Options{
				Store:           st,
				Custodian:       ledger,
				Migrator:        printMigrator{cmd: cmd},
				Global:          global,
				LastRestartSlot: cfg.Engine.LastRestartSlot,
				Logger:          log,
				Metrics:         engine.NewMetrics(cfg.Engine.MetricsNamespace, prometheus.NewRegistry()),
			})
			if err != nil {
				return err
			}

			curve, err := eng.CreateCurve(ctx, sc.Mint, sc.Creator, shared.CreateBondingCurveParams{StartSlot: sc.StartSlot}, sc.Slot, 0)
			if err != nil {
				return err
			}
			cmd.Printf("created %s, trading from slot %d\n", curve.Mint, curve.StartSlot)

			for i, t := range sc.Trades {
				res, err := eng.Swap(ctx, sc.Mint, t.User, t.Trade, t.Slot)
				if err != nil {
					cmd.Printf("#%d %s by %s at slot %d rejected: %v\n", i, t.Trade.Direction(), t.User, t.Slot, err)
					continue
				}
				cmd.Printf("#%d %s by %s at slot %d: %d tokens, %d lamports, fee %d, dev buy %t, complete %t\n",
					i, res.Direction, t.User, t.Slot, res.TokenAmount, res.SolAmount, res.FeeLamports, res.DevBuy, res.Complete)
			}

			if curve, err = st.LoadCurve(ctx, sc.Mint); err != nil {
				return err
			}
			cmd.Printf("final %s\n", curve)
			cmd.Printf("price %s SOL, market cap %s SOL, progress %s%%\n",
				curve.SpotPrice().StringFixed(12), curve.MarketCap().StringFixed(4), curve.Progress().StringFixed(2))

			if err := eng.AuditAll(ctx); err != nil {
				return err
			}
			if sc.Migrate && curve.Complete {
				if _, err := eng.Migrate(ctx, sc.Mint); err != nil {
					return err
				}
			}
			return nil
		},
	}
	return cmd
}
