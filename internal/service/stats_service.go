package service

import (
	"sort"
	"sync"

	"acdm_go/internal/event"
)

// RoundStats aggregates activity within one round.
type RoundStats struct {
	Round           uint64 `json:"round"`
	Kind            string `json:"kind"`
	Price           int64  `json:"price"`
	SupplyMinted    int64  `json:"supply_minted"`
	TokensSold      int64  `json:"tokens_sold"`
	TokensBurned    int64  `json:"tokens_burned"`
	TradeVolume     int64  `json:"trade_volume"`
	OrdersPlaced    int64  `json:"orders_placed"`
	OrdersFilled    int64  `json:"orders_filled"`
	OrdersCanceled  int64  `json:"orders_canceled"`
	ReferralPayouts int64  `json:"referral_payouts"`
}

// StatsService folds the committed event stream into per-round aggregates.
type StatsService struct {
	mu      sync.RWMutex
	rounds  map[uint64]*RoundStats
	current uint64
}

// NewStatsService creates an empty StatsService instance.
func NewStatsService() *StatsService {
	return &StatsService{
		rounds: make(map[uint64]*RoundStats),
	}
}

// Process folds one committed event into the aggregates. It copies what it
// needs; the caller may recycle the event afterwards.
func (s *StatsService) Process(ev event.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch e := ev.(type) {
	case *event.RoundEvent:
		stats := s.get(e.Number)
		stats.Kind = e.Kind
		stats.Price = e.Price
		if e.Supply > 0 {
			stats.SupplyMinted = e.Supply
		}
		stats.TokensBurned += e.Burned
		s.current = e.Number
	case *event.PurchaseEvent:
		s.get(e.Round).TokensSold += e.Amount
	case *event.TradeEvent:
		stats := s.get(e.Round)
		stats.OrdersFilled++
		stats.TradeVolume = e.RoundVolume
	case *event.OrderEvent:
		stats := s.get(e.Round)
		switch e.Type {
		case event.TypeOrderPlaced:
			stats.OrdersPlaced++
		case event.TypeOrderCanceled, event.TypeOrderClosed:
			stats.OrdersCanceled++
		}
	case *event.ReferralPayoutEvent:
		s.get(e.Round).ReferralPayouts += e.Amount
	}
}

// Current returns the aggregates of the most recent round.
func (s *StatsService) Current() RoundStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if stats, ok := s.rounds[s.current]; ok {
		return *stats
	}
	return RoundStats{}
}

// Round returns the aggregates of a specific round.
func (s *StatsService) Round(number uint64) (RoundStats, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats, ok := s.rounds[number]
	if !ok {
		return RoundStats{}, false
	}
	return *stats, true
}

// All returns every round's aggregates sorted by round number.
func (s *StatsService) All() []RoundStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]RoundStats, 0, len(s.rounds))
	for _, stats := range s.rounds {
		result = append(result, *stats)
	}

	// Sort by round for consistent ordering
	sort.Slice(result, func(i, j int) bool {
		return result[i].Round < result[j].Round
	})

	return result
}

// get requires the lock to be held.
func (s *StatsService) get(round uint64) *RoundStats {
	stats, ok := s.rounds[round]
	if !ok {
		stats = &RoundStats{Round: round}
		s.rounds[round] = stats
	}
	return stats
}
