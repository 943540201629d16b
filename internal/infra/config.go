package infra

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"acdm_go/internal/platform"
)

// Config holds the full application configuration. Sensitive or
// deployment-specific values may be overridden via environment variables
// after loading.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Platform struct {
		Owner            string          `yaml:"owner"`
		RoundDurationSec int64           `yaml:"round_duration_sec"`
		GenesisPrice     int64           `yaml:"genesis_price"`  // base units per token
		GenesisSupply    int64           `yaml:"genesis_supply"` // whole tokens
		PriceGrowth      decimal.Decimal `yaml:"price_growth"`
		PriceIncrement   int64           `yaml:"price_increment"`
		SaleRefLevel1    decimal.Decimal `yaml:"sale_ref_level1"` // percent
		SaleRefLevel2    decimal.Decimal `yaml:"sale_ref_level2"`
		TradeRefLevel1   decimal.Decimal `yaml:"trade_ref_level1"`
		TradeRefLevel2   decimal.Decimal `yaml:"trade_ref_level2"`
	} `yaml:"platform"`

	Server struct {
		ListenAddr string `yaml:"listen_addr"` // ws + stats endpoints
		PprofAddr  string `yaml:"pprof_addr"`
	} `yaml:"server"`

	Storage struct {
		Path string `yaml:"path"` // empty = user config dir
	} `yaml:"storage"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// LoadConfig reads and parses the configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	overrideWithEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	p := &c.Platform
	if p.Owner == "" {
		return fmt.Errorf("platform owner account is required")
	}
	if p.RoundDurationSec <= 0 {
		return fmt.Errorf("round duration must be positive")
	}
	if p.GenesisPrice <= 0 || p.GenesisSupply <= 0 {
		return fmt.Errorf("genesis price and supply must be positive")
	}
	if p.PriceGrowth.LessThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("price growth must be >= 1, got %s", p.PriceGrowth)
	}
	if p.PriceIncrement < 0 {
		return fmt.Errorf("price increment must not be negative")
	}

	hundred := decimal.NewFromInt(100)
	for _, pct := range []decimal.Decimal{p.SaleRefLevel1, p.SaleRefLevel2, p.TradeRefLevel1, p.TradeRefLevel2} {
		if pct.IsNegative() || pct.GreaterThanOrEqual(hundred) {
			return fmt.Errorf("referral percentage out of range: %s", pct)
		}
	}
	if p.SaleRefLevel1.Add(p.SaleRefLevel2).GreaterThanOrEqual(hundred) {
		return fmt.Errorf("combined sale referral percentage must stay below 100")
	}
	if p.TradeRefLevel1.Add(p.TradeRefLevel2).GreaterThanOrEqual(hundred) {
		return fmt.Errorf("combined trade referral percentage must stay below 100")
	}

	if c.Server.ListenAddr == "" {
		return fmt.Errorf("server listen address is required")
	}

	return nil
}

// PlatformConfig maps the yaml section onto the platform's config struct.
func (c *Config) PlatformConfig() platform.Config {
	p := &c.Platform
	return platform.Config{
		Owner:          p.Owner,
		RoundDuration:  time.Duration(p.RoundDurationSec) * time.Second,
		GenesisPrice:   p.GenesisPrice,
		GenesisSupply:  p.GenesisSupply,
		PriceGrowth:    p.PriceGrowth,
		PriceIncrement: p.PriceIncrement,
		SaleRefLevel1:  p.SaleRefLevel1,
		SaleRefLevel2:  p.SaleRefLevel2,
		TradeRefLevel1: p.TradeRefLevel1,
		TradeRefLevel2: p.TradeRefLevel2,
	}
}

// overrideWithEnv overrides configuration values from the environment.
func overrideWithEnv(cfg *Config) {
	if owner := os.Getenv("ACDM_OWNER"); owner != "" {
		cfg.Platform.Owner = owner
	}
	if path := os.Getenv("ACDM_DB_PATH"); path != "" {
		cfg.Storage.Path = path
	}
	if addr := os.Getenv("ACDM_LISTEN_ADDR"); addr != "" {
		cfg.Server.ListenAddr = addr
	}
	if level := os.Getenv("ACDM_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
}
