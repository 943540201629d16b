package service

import (
	"testing"

	"acdm_go/internal/event"
)

func feedSaleCycle(s *StatsService) {
	s.Process(&event.RoundEvent{
		BaseEvent: event.BaseEvent{Seq: 1},
		Number:    1,
		Kind:      "SALE",
		Price:     10_000_000_000_000,
		Supply:    100_000,
	})
	s.Process(&event.PurchaseEvent{
		BaseEvent: event.BaseEvent{Seq: 2},
		Round:     1,
		Buyer:     "alice",
		Amount:    500,
		Price:     10_000_000_000_000,
		Cost:      5_000_000_000_000_000,
	})
	s.Process(&event.ReferralPayoutEvent{
		BaseEvent: event.BaseEvent{Seq: 3},
		Round:     1,
		Source:    "SALE",
		Account:   "alice",
		Referrer:  "bob",
		Level:     1,
		Amount:    250_000_000_000_000,
	})
}

func TestStatsService_SaleAggregation(t *testing.T) {
	s := NewStatsService()
	feedSaleCycle(s)

	cur := s.Current()
	if cur.Round != 1 || cur.Kind != "SALE" {
		t.Errorf("current = %d/%s, want 1/SALE", cur.Round, cur.Kind)
	}
	if cur.SupplyMinted != 100_000 {
		t.Errorf("SupplyMinted = %d, want 100000", cur.SupplyMinted)
	}
	if cur.TokensSold != 500 {
		t.Errorf("TokensSold = %d, want 500", cur.TokensSold)
	}
	if cur.ReferralPayouts != 250_000_000_000_000 {
		t.Errorf("ReferralPayouts = %d", cur.ReferralPayouts)
	}
}

func TestStatsService_TradeAggregation(t *testing.T) {
	s := NewStatsService()
	feedSaleCycle(s)

	s.Process(&event.RoundEvent{
		BaseEvent: event.BaseEvent{Seq: 4},
		Number:    2,
		Kind:      "TRADE",
		Burned:    99_500,
	})
	s.Process(&event.OrderEvent{
		BaseEvent: event.BaseEvent{Seq: 5},
		Type:      event.TypeOrderPlaced,
		Round:     2,
		OrderID:   0,
		Seller:    "alice",
	})
	s.Process(&event.TradeEvent{
		BaseEvent:   event.BaseEvent{Seq: 6},
		Round:       2,
		OrderID:     0,
		Seller:      "alice",
		Buyer:       "carol",
		Amount:      500,
		Cost:        6_000_000_000_000_000,
		RoundVolume: 6_000_000_000_000_000,
	})
	s.Process(&event.OrderEvent{
		BaseEvent: event.BaseEvent{Seq: 7},
		Type:      event.TypeOrderFilled,
		Round:     2,
		OrderID:   0,
	})

	cur := s.Current()
	if cur.Round != 2 || cur.Kind != "TRADE" {
		t.Fatalf("current = %d/%s, want 2/TRADE", cur.Round, cur.Kind)
	}
	if cur.TokensBurned != 99_500 {
		t.Errorf("TokensBurned = %d, want 99500", cur.TokensBurned)
	}
	if cur.OrdersPlaced != 1 || cur.OrdersFilled != 1 {
		t.Errorf("orders = %d placed / %d filled, want 1/1", cur.OrdersPlaced, cur.OrdersFilled)
	}
	if cur.TradeVolume != 6_000_000_000_000_000 {
		t.Errorf("TradeVolume = %d", cur.TradeVolume)
	}

	first, ok := s.Round(1)
	if !ok || first.TokensSold != 500 {
		t.Error("round 1 stats lost after round 2 started")
	}
}

func TestStatsService_CanceledOrders(t *testing.T) {
	s := NewStatsService()
	s.Process(&event.RoundEvent{Number: 2, Kind: "TRADE"})
	s.Process(&event.OrderEvent{Type: event.TypeOrderPlaced, Round: 2, OrderID: 0})
	s.Process(&event.OrderEvent{Type: event.TypeOrderPlaced, Round: 2, OrderID: 1})
	s.Process(&event.OrderEvent{Type: event.TypeOrderCanceled, Round: 2, OrderID: 0})
	s.Process(&event.OrderEvent{Type: event.TypeOrderClosed, Round: 2, OrderID: 1})

	cur := s.Current()
	if cur.OrdersPlaced != 2 || cur.OrdersCanceled != 2 {
		t.Errorf("orders = %d placed / %d canceled, want 2/2", cur.OrdersPlaced, cur.OrdersCanceled)
	}
}

func TestStatsService_AllSorted(t *testing.T) {
	s := NewStatsService()
	for n := uint64(1); n <= 3; n++ {
		kind := "SALE"
		if n%2 == 0 {
			kind = "TRADE"
		}
		s.Process(&event.RoundEvent{Number: n, Kind: kind})
	}

	all := s.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 rounds, got %d", len(all))
	}
	for i, rs := range all {
		if rs.Round != uint64(i+1) {
			t.Errorf("rounds out of order: %v", all)
			break
		}
	}
}

func TestStatsService_UnknownRound(t *testing.T) {
	s := NewStatsService()

	cur := s.Current()
	if cur.Round != 0 {
		t.Error("expected zero stats before any round")
	}
	if _, ok := s.Round(7); ok {
		t.Error("expected miss for unknown round")
	}
}
