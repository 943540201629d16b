package domain

import "time"

// Persistence records for the audit journal. These mirror in-memory state
// kept by the platform; the journal is an observability sink, never a
// source of truth for live round logic.

// RoundRecord is one completed or running round.
type RoundRecord struct {
	Number    uint64    `gorm:"primaryKey" json:"number"`
	Kind      string    `json:"kind" gorm:"index"`
	StartedAt time.Time `json:"started_at"`
	Price     int64     `json:"price"`  // sale price during/entering this round
	Supply    int64     `json:"supply"` // tokens minted for a sale round
	Volume    int64     `json:"volume"` // base units traded in a trade round
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderRecord is the journal row for an order book entry.
type OrderRecord struct {
	ID              uint64    `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Round           uint64    `json:"round" gorm:"index"`
	Seller          string    `json:"seller" gorm:"index"`
	RemainingAmount int64     `json:"remaining_amount"`
	UnitPrice       int64     `json:"unit_price"`
	Status          string    `json:"status" gorm:"index"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TradeRecord is one value transfer: a sale purchase or an order fill.
type TradeRecord struct {
	ID        string    `gorm:"primaryKey" json:"id"` // uuid
	Round     uint64    `json:"round" gorm:"index"`
	Source    string    `json:"source" gorm:"index"` // "SALE" or "ORDER"
	OrderID   uint64    `json:"order_id"`
	Seller    string    `json:"seller"`
	Buyer     string    `json:"buyer" gorm:"index"`
	Amount    int64     `json:"amount"`
	UnitPrice int64     `json:"unit_price"`
	Cost      int64     `json:"cost"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	TradeSourceSale  = "SALE"
	TradeSourceOrder = "ORDER"
)

// ReferralRecord is one account -> referrer edge.
type ReferralRecord struct {
	Account   string    `gorm:"primaryKey" json:"account"`
	Referrer  string    `json:"referrer" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
}
