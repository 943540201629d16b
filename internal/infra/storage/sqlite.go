package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"acdm_go/internal/domain"
)

// Store is the SQLite-backed audit journal: round history, order book
// lifecycle, trades, and referral edges. The journal trails the in-memory
// state; live round logic never reads from it.
type Store struct {
	db *gorm.DB
}

// NewStore opens (or creates) the journal database. An empty path resolves
// to the platform-specific user config directory.
func NewStore(path string) (*Store, error) {
	if path == "" {
		resolved, err := defaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve DB path: %w", err)
		}
		path = resolved
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create DB directory: %w", err)
	}

	// Pure Go SQLite
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(
		&domain.RoundRecord{},
		&domain.OrderRecord{},
		&domain.TradeRecord{},
		&domain.ReferralRecord{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Store{db: db}, nil
}

func defaultDBPath() (string, error) {
	var configDir string
	var err error

	if runtime.GOOS == "windows" {
		configDir = os.Getenv("LOCALAPPDATA")
		if configDir == "" {
			configDir, err = os.UserConfigDir()
		}
	} else {
		configDir, err = os.UserConfigDir()
	}

	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, "ACDM", "data", "acdm.db"), nil
}

// ======================================================================================
// Round Operations
// ======================================================================================

// SaveRound creates or updates a round row.
func (s *Store) SaveRound(r *domain.RoundRecord) error {
	return s.db.Save(r).Error
}

// UpdateRoundPhase flips a round row into its next phase. Only kind and
// start time change; price and minted supply from the sale phase survive.
func (s *Store) UpdateRoundPhase(number uint64, kind string, startedAt time.Time) error {
	return s.db.Model(&domain.RoundRecord{}).
		Where("number = ?", number).
		Updates(map[string]interface{}{
			"kind":       kind,
			"started_at": startedAt,
		}).Error
}

// UpdateRoundVolume sets the cumulative trade volume of a round.
func (s *Store) UpdateRoundVolume(number uint64, volume int64) error {
	return s.db.Model(&domain.RoundRecord{}).
		Where("number = ?", number).
		Update("volume", volume).Error
}

// GetRound retrieves a round by number.
func (s *Store) GetRound(number uint64) (*domain.RoundRecord, error) {
	var r domain.RoundRecord
	err := s.db.First(&r, "number = ?", number).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // Not found is not an error
	}
	return &r, err
}

// ListRounds retrieves all rounds in start order.
func (s *Store) ListRounds() ([]domain.RoundRecord, error) {
	var rounds []domain.RoundRecord
	err := s.db.Order("number asc").Find(&rounds).Error
	return rounds, err
}

// ======================================================================================
// Order Operations
// ======================================================================================

// SaveOrder creates or updates an order row.
func (s *Store) SaveOrder(o *domain.OrderRecord) error {
	return s.db.Save(o).Error
}

// UpdateOrderStatus marks an order's terminal status and remaining amount.
func (s *Store) UpdateOrderStatus(id uint64, status string, remaining int64) error {
	return s.db.Model(&domain.OrderRecord{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":           status,
			"remaining_amount": remaining,
		}).Error
}

// GetOrder retrieves an order by id.
func (s *Store) GetOrder(id uint64) (*domain.OrderRecord, error) {
	var o domain.OrderRecord
	err := s.db.First(&o, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &o, err
}

// ListOrdersByStatus retrieves all orders with the given status.
func (s *Store) ListOrdersByStatus(status string) ([]domain.OrderRecord, error) {
	var orders []domain.OrderRecord
	err := s.db.Where("status = ?", status).Order("id asc").Find(&orders).Error
	return orders, err
}

// ======================================================================================
// Trade Operations
// ======================================================================================

// SaveTrade appends a trade row, assigning a uuid when none is set.
func (s *Store) SaveTrade(t *domain.TradeRecord) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return s.db.Create(t).Error
}

// ListTrades retrieves all trades of one round.
func (s *Store) ListTrades(round uint64) ([]domain.TradeRecord, error) {
	var trades []domain.TradeRecord
	err := s.db.Where("round = ?", round).Order("created_at asc").Find(&trades).Error
	return trades, err
}

// ======================================================================================
// Referral Operations
// ======================================================================================

// SaveReferral stores an account -> referrer edge.
func (s *Store) SaveReferral(account, referrer string) error {
	return s.db.Save(&domain.ReferralRecord{Account: account, Referrer: referrer}).Error
}

// LoadReferralMap loads all referral edges as a map.
func (s *Store) LoadReferralMap() (map[string]string, error) {
	var records []domain.ReferralRecord
	if err := s.db.Find(&records).Error; err != nil {
		return nil, err
	}

	result := make(map[string]string, len(records))
	for _, r := range records {
		result[r.Account] = r.Referrer
	}
	return result, nil
}
