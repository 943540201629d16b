package infra

import (
	"testing"
)

func TestMetrics_Counters(t *testing.T) {
	m := &Metrics{}

	m.RecordRoundStarted()
	m.RecordRoundStarted()
	m.RecordTokensSold(100)
	m.RecordTokensBurned(50)
	m.RecordOrderPlaced()
	m.RecordOrderFilled(1_000)
	m.RecordOrderCanceled()
	m.RecordReferralPayout(25)
	m.RecordError()

	snap := m.Snapshot()
	if snap.RoundsStarted != 2 {
		t.Errorf("RoundsStarted = %d, want 2", snap.RoundsStarted)
	}
	if snap.TokensSold != 100 {
		t.Errorf("TokensSold = %d, want 100", snap.TokensSold)
	}
	if snap.TokensBurned != 50 {
		t.Errorf("TokensBurned = %d, want 50", snap.TokensBurned)
	}
	if snap.OrdersPlaced != 1 || snap.OrdersFilled != 1 || snap.OrdersCanceled != 1 {
		t.Errorf("order counters = %d/%d/%d, want 1/1/1",
			snap.OrdersPlaced, snap.OrdersFilled, snap.OrdersCanceled)
	}
	if snap.TradeVolume != 1_000 {
		t.Errorf("TradeVolume = %d, want 1000", snap.TradeVolume)
	}
	if snap.ReferralPayouts != 1 || snap.ReferralVolume != 25 {
		t.Errorf("referral = %d/%d, want 1/25", snap.ReferralPayouts, snap.ReferralVolume)
	}
	if snap.ErrorsTotal != 1 {
		t.Errorf("ErrorsTotal = %d, want 1", snap.ErrorsTotal)
	}
}

func TestMetrics_Reset(t *testing.T) {
	m := &Metrics{}
	m.RecordRoundStarted()
	m.RecordOrderFilled(10)

	m.Reset()

	snap := m.Snapshot()
	if snap.RoundsStarted != 0 || snap.OrdersFilled != 0 || snap.TradeVolume != 0 {
		t.Errorf("metrics not reset: %+v", snap)
	}
}
