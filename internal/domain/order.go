package domain

import (
	"time"

	"acdm_go/pkg/safe"
)

// Order represents an escrowed listing in the trade round order book.
// All monetary values are strictly int64 base units.
type Order struct {
	ID              uint64
	Seller          string
	RemainingAmount int64 // tokens still escrowed; 0 once filled
	UnitPrice       int64 // base units per token, fixed at creation
	Active          bool  // false once canceled, filled, or force-closed
	CreatedAt       time.Time
}

const (
	OrderStatusOpen     = "OPEN"
	OrderStatusFilled   = "FILLED"
	OrderStatusCanceled = "CANCELED"
	OrderStatusClosed   = "CLOSED" // force-closed at sale round start
)

// Cost returns the payment required to take the full remaining amount.
func (o *Order) Cost() int64 {
	return safe.SafeMul(o.RemainingAmount, o.UnitPrice)
}
