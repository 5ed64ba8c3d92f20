package config

import (
	"errors"
	"fmt"
	"strings"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/joho/godotenv"
	"github.com/krazyTry/pump-science-go/helpers"
	"github.com/krazyTry/pump-science-go/logger"
	"github.com/krazyTry/pump-science-go/shared"
	"github.com/spf13/viper"
)

const EnvPrefix = "PUMP_SCIENCE"

type Config struct {
	Global GlobalConfig  `mapstructure:"global"`
	Engine EngineConfig  `mapstructure:"engine"`
	Log    logger.Config `mapstructure:"log"`
}

// GlobalConfig mirrors shared.Global with base58 keys.
type GlobalConfig struct {
	GlobalAuthority    string `mapstructure:"global_authority"`
	MigrationAuthority string `mapstructure:"migration_authority"`
	FeeReceiver        string `mapstructure:"fee_receiver"`
	MeteoraConfig      string `mapstructure:"meteora_config"`

	InitialVirtualTokenReserves uint64 `mapstructure:"initial_virtual_token_reserves"`
	InitialVirtualSolReserves   uint64 `mapstructure:"initial_virtual_sol_reserves"`
	InitialRealTokenReserves    uint64 `mapstructure:"initial_real_token_reserves"`
	TokenTotalSupply            uint64 `mapstructure:"token_total_supply"`
	MintDecimals                uint8  `mapstructure:"mint_decimals"`
	MigrateFeeAmount            uint64 `mapstructure:"migrate_fee_amount"`
	MigrationTokenAllocation    uint64 `mapstructure:"migration_token_allocation"`
	WhitelistEnabled            bool   `mapstructure:"whitelist_enabled"`
	LastUpdatedSlot             uint64 `mapstructure:"last_updated_slot"`
}

type EngineConfig struct {
	RentExemptMinimum uint64 `mapstructure:"rent_exempt_minimum"`
	LastRestartSlot   uint64 `mapstructure:"last_restart_slot"`
	RedisAddr         string `mapstructure:"redis_addr"`
	RedisDB           int    `mapstructure:"redis_db"`
	MetricsNamespace  string `mapstructure:"metrics_namespace"`
}

const (
	DefaultRentExemptMinimum = 890_880 // rent for a 0 byte system account
	DefaultMetricsNamespace  = "pump_science"
)

func defaults() map[string]any {
	g := shared.DefaultGlobal()
	log := logger.DefaultConfig()
	return map[string]any{
		"global.global_authority":               "",
		"global.migration_authority":            "",
		"global.fee_receiver":                   "",
		"global.meteora_config":                 "",
		"global.initial_virtual_token_reserves": g.InitialVirtualTokenReserves,
		"global.initial_virtual_sol_reserves":   g.InitialVirtualSolReserves,
		"global.initial_real_token_reserves":    g.InitialRealTokenReserves,
		"global.token_total_supply":             g.TokenTotalSupply,
		"global.mint_decimals":                  g.MintDecimals,
		"global.migrate_fee_amount":             g.MigrateFeeAmount,
		"global.migration_token_allocation":     g.MigrationTokenAllocation,
		"global.whitelist_enabled":              g.WhitelistEnabled,
		"global.last_updated_slot":              g.LastUpdatedSlot,

		"engine.rent_exempt_minimum": DefaultRentExemptMinimum,
		"engine.last_restart_slot":   0,
		"engine.redis_addr":          "",
		"engine.redis_db":            0,
		"engine.metrics_namespace":   DefaultMetricsNamespace,

		"log.level":       log.Level,
		"log.log_file":    log.LogFile,
		"log.max_size":    log.MaxSize,
		"log.max_age":     log.MaxAge,
		"log.max_backups": log.MaxBackups,
		"log.compress":    log.Compress,
		"log.development": log.Development,
	}
}

// Load reads path (yaml, json or toml; optional) and overlays PUMP_SCIENCE_*
// variables, including those from envFiles.
func Load(path string, envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", f, err)
		}
	}

	v := viper.New()
	for key, value := range defaults() {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func parseKey(name, value string) (solanago.PublicKey, error) {
	if value == "" {
		return solanago.PublicKey{}, nil
	}
	key, err := solanago.PublicKeyFromBase58(value)
	if err != nil {
		return solanago.PublicKey{}, fmt.Errorf("%w: %s: %v", shared.ErrInvalidParameter, name, err)
	}
	return key, nil
}

// Snapshot validates the settings and returns them as a global snapshot.
func (c GlobalConfig) Snapshot() (shared.Global, error) {
	var errs []error
	key := func(name, value string) solanago.PublicKey {
		k, err := parseKey(name, value)
		if err != nil {
			errs = append(errs, err)
		}
		return k
	}

	global := shared.Global{
		Initialized:        true,
		GlobalAuthority:    key("global_authority", c.GlobalAuthority),
		MigrationAuthority: key("migration_authority", c.MigrationAuthority),
	}
	settings := shared.GlobalSettingsInput{
		InitialVirtualTokenReserves: c.InitialVirtualTokenReserves,
		InitialVirtualSolReserves:   c.InitialVirtualSolReserves,
		InitialRealTokenReserves:    c.InitialRealTokenReserves,
		TokenTotalSupply:            c.TokenTotalSupply,
		MintDecimals:                c.MintDecimals,
		MigrateFeeAmount:            c.MigrateFeeAmount,
		MigrationTokenAllocation:    c.MigrationTokenAllocation,
		FeeReceiver:                 key("fee_receiver", c.FeeReceiver),
		WhitelistEnabled:            c.WhitelistEnabled,
		MeteoraConfig:               key("meteora_config", c.MeteoraConfig),
	}
	if err := errors.Join(errs...); err != nil {
		return shared.Global{}, err
	}
	if err := helpers.ValidateGlobalSettings(settings); err != nil {
		return shared.Global{}, err
	}
	return global.WithSettings(settings, c.LastUpdatedSlot), nil
}
