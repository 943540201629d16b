package domain

import "time"

// RoundKind identifies the current phase of the platform.
type RoundKind int

const (
	RoundNone RoundKind = iota
	RoundSale
	RoundTrade
)

func (k RoundKind) String() string {
	switch k {
	case RoundSale:
		return "SALE"
	case RoundTrade:
		return "TRADE"
	default:
		return "NONE"
	}
}

// Round holds the timing state of the active phase.
type Round struct {
	Kind      RoundKind
	StartedAt time.Time
	Duration  time.Duration
}

// Elapsed reports whether the round's full duration has passed at now.
func (r *Round) Elapsed(now time.Time) bool {
	return !now.Before(r.StartedAt.Add(r.Duration))
}
