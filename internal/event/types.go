package event

// Type identifies a platform lifecycle event.
type Type string

const (
	TypeRoundStarted   Type = "ROUND_STARTED"
	TypeSalePurchase   Type = "SALE_PURCHASE"
	TypeOrderPlaced    Type = "ORDER_PLACED"
	TypeOrderFilled    Type = "ORDER_FILLED"
	TypeOrderCanceled  Type = "ORDER_CANCELED"
	TypeOrderClosed    Type = "ORDER_CLOSED"
	TypeReferralPayout Type = "REFERRAL_PAYOUT"
)

// Event is what the platform emits after every committed state change.
type Event interface {
	GetType() Type
	GetSeq() uint64
	Stamp(seq uint64, ts int64)
}

// BaseEvent carries the ordering metadata assigned by the sequencer.
type BaseEvent struct {
	Seq uint64 `json:"seq"`
	Ts  int64  `json:"ts"` // unix microseconds
}

func (b *BaseEvent) GetSeq() uint64 { return b.Seq }

// Stamp sets the sequence number and timestamp. Called exactly once by the
// sequencer before the event leaves the hotpath.
func (b *BaseEvent) Stamp(seq uint64, ts int64) {
	b.Seq = seq
	b.Ts = ts
}

// RoundEvent marks a round transition.
type RoundEvent struct {
	BaseEvent
	Number uint64 `json:"number"`
	Kind   string `json:"kind"`
	Price  int64  `json:"price"`
	Supply int64  `json:"supply"` // minted for sale rounds, 0 for trade rounds
	Burned int64  `json:"burned"` // unsold remainder burned entering a trade round
}

func (e *RoundEvent) GetType() Type { return TypeRoundStarted }

// PurchaseEvent is a primary sale purchase.
type PurchaseEvent struct {
	BaseEvent
	Round  uint64 `json:"round"`
	Buyer  string `json:"buyer"`
	Amount int64  `json:"amount"`
	Price  int64  `json:"price"`
	Cost   int64  `json:"cost"`
}

func (e *PurchaseEvent) GetType() Type { return TypeSalePurchase }

// TradeEvent is a completed order fill.
type TradeEvent struct {
	BaseEvent
	Round       uint64 `json:"round"`
	OrderID     uint64 `json:"order_id"`
	Seller      string `json:"seller"`
	Buyer       string `json:"buyer"`
	Amount      int64  `json:"amount"`
	Price       int64  `json:"price"`
	Cost        int64  `json:"cost"`
	RoundVolume int64  `json:"round_volume"` // cumulative volume after this fill
}

func (e *TradeEvent) GetType() Type { return TypeOrderFilled }

// OrderEvent tracks order book lifecycle changes other than fills.
type OrderEvent struct {
	BaseEvent
	Type            Type   `json:"type"` // placed / canceled / closed
	Round           uint64 `json:"round"`
	OrderID         uint64 `json:"order_id"`
	Seller          string `json:"seller"`
	RemainingAmount int64  `json:"remaining_amount"`
	UnitPrice       int64  `json:"unit_price"`
	Status          string `json:"status"`
}

func (e *OrderEvent) GetType() Type { return e.Type }

// ReferralPayoutEvent is one bonus credit to an upstream referrer.
type ReferralPayoutEvent struct {
	BaseEvent
	Round    uint64 `json:"round"`
	Source   string `json:"source"` // "SALE" or "ORDER"
	Account  string `json:"account"`
	Referrer string `json:"referrer"`
	Level    int    `json:"level"`
	Amount   int64  `json:"amount"`
}

func (e *ReferralPayoutEvent) GetType() Type { return TypeReferralPayout }
