package infra

import (
	"sync/atomic"
	"time"
)

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety.
type Metrics struct {
	// Counters
	roundsStarted   atomic.Uint64
	ordersPlaced    atomic.Uint64
	ordersFilled    atomic.Uint64
	ordersCanceled  atomic.Uint64
	referralPayouts atomic.Uint64
	errorsTotal     atomic.Uint64

	// Accumulators
	tokensSold     atomic.Int64
	tokensBurned   atomic.Int64
	tradeVolume    atomic.Int64
	referralVolume atomic.Int64
}

// GlobalMetrics is the singleton metrics instance.
var GlobalMetrics = &Metrics{}

// RecordRoundStarted records a round transition.
func (m *Metrics) RecordRoundStarted() {
	m.roundsStarted.Add(1)
}

// RecordTokensSold records a primary sale purchase.
func (m *Metrics) RecordTokensSold(amount int64) {
	m.tokensSold.Add(amount)
}

// RecordTokensBurned records unsold supply burned at a trade round start.
func (m *Metrics) RecordTokensBurned(amount int64) {
	m.tokensBurned.Add(amount)
}

// RecordOrderPlaced records a new order book listing.
func (m *Metrics) RecordOrderPlaced() {
	m.ordersPlaced.Add(1)
}

// RecordOrderFilled records a completed fill and its cost.
func (m *Metrics) RecordOrderFilled(cost int64) {
	m.ordersFilled.Add(1)
	m.tradeVolume.Add(cost)
}

// RecordOrderCanceled records a canceled or force-closed order.
func (m *Metrics) RecordOrderCanceled() {
	m.ordersCanceled.Add(1)
}

// RecordReferralPayout records one bonus credit.
func (m *Metrics) RecordReferralPayout(amount int64) {
	m.referralPayouts.Add(1)
	m.referralVolume.Add(amount)
}

// RecordError records a rejected command.
func (m *Metrics) RecordError() {
	m.errorsTotal.Add(1)
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	RoundsStarted   uint64
	OrdersPlaced    uint64
	OrdersFilled    uint64
	OrdersCanceled  uint64
	ReferralPayouts uint64
	ErrorsTotal     uint64
	TokensSold      int64
	TokensBurned    int64
	TradeVolume     int64
	ReferralVolume  int64
	Timestamp       time.Time
}

// Snapshot returns current metrics as a snapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		RoundsStarted:   m.roundsStarted.Load(),
		OrdersPlaced:    m.ordersPlaced.Load(),
		OrdersFilled:    m.ordersFilled.Load(),
		OrdersCanceled:  m.ordersCanceled.Load(),
		ReferralPayouts: m.referralPayouts.Load(),
		ErrorsTotal:     m.errorsTotal.Load(),
		TokensSold:      m.tokensSold.Load(),
		TokensBurned:    m.tokensBurned.Load(),
		TradeVolume:     m.tradeVolume.Load(),
		ReferralVolume:  m.referralVolume.Load(),
		Timestamp:       time.Now(),
	}
}

// Reset clears all metrics (for testing).
func (m *Metrics) Reset() {
	m.roundsStarted.Store(0)
	m.ordersPlaced.Store(0)
	m.ordersFilled.Store(0)
	m.ordersCanceled.Store(0)
	m.referralPayouts.Store(0)
	m.errorsTotal.Store(0)
	m.tokensSold.Store(0)
	m.tokensBurned.Store(0)
	m.tradeVolume.Store(0)
	m.referralVolume.Store(0)
}
