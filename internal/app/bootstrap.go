package app

import (
	"log/slog"

	"acdm_go/internal/domain"
	"acdm_go/internal/infra"
	"acdm_go/internal/infra/storage"
	"acdm_go/internal/ledger"
	"acdm_go/internal/platform"
)

// Bootstrap orchestrates the application startup sequence
type Bootstrap struct {
	Config   *infra.Config
	Store    *storage.Store
	Ledger   *ledger.Ledger
	Bank     *domain.Bank
	Platform *platform.Platform
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize performs core system initialization (config, logging, DB,
// ledgers, platform state).
func (b *Bootstrap) Initialize(configPath string) error {
	slog.Info("Bootstrapping ACDM platform...")

	// 1. Load Config
	cfg, err := infra.LoadConfig(configPath)
	if err != nil {
		return err // Let main handle the error
	}
	b.Config = cfg

	// 2. Setup Logger
	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)

	// 3. Initialize Storage (journal DB)
	store, err := storage.NewStore(cfg.Storage.Path)
	if err != nil {
		return err
	}
	b.Store = store
	slog.Info("Journal database initialized")

	// 4. Token ledger, cash bank, platform core
	b.Ledger = ledger.New(cfg.Platform.Owner)
	b.Bank = domain.NewBank()
	b.Platform = platform.New(cfg.PlatformConfig(), b.Ledger, b.Bank)

	// 5. Restore the referral registry from the journal
	referrers, err := store.LoadReferralMap()
	if err != nil {
		return err
	}
	b.Platform.SeedReferrers(referrers)
	slog.Info("Referral registry restored", slog.Int("edges", len(referrers)))

	slog.Info("Platform core ready",
		slog.String("owner", cfg.Platform.Owner),
		slog.Int64("round_duration_sec", cfg.Platform.RoundDurationSec))

	return nil
}
