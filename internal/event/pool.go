package event

import (
	"sync"
)

// sync.Pool-backed allocation for the two high-frequency event kinds.
// Purchases and fills dominate the event stream; round and order lifecycle
// events are rare enough to allocate normally.
//
// Usage:
//
//	ev := AcquireTradeEvent()
//	ev.OrderID = id
//	// ... publish event ...
//	Release(ev)  // return to pool after the sinks are done with it
var tradePool = sync.Pool{
	New: func() interface{} {
		return &TradeEvent{}
	},
}

// AcquireTradeEvent gets a TradeEvent from the pool.
// The returned event has zero values and must be initialized.
func AcquireTradeEvent() *TradeEvent {
	return tradePool.Get().(*TradeEvent)
}

// ReleaseTradeEvent returns a TradeEvent to the pool.
func ReleaseTradeEvent(ev *TradeEvent) {
	if ev == nil {
		return
	}
	ev.Seq = 0
	ev.Ts = 0
	ev.Round = 0
	ev.OrderID = 0
	ev.Seller = ""
	ev.Buyer = ""
	ev.Amount = 0
	ev.Price = 0
	ev.Cost = 0
	ev.RoundVolume = 0

	tradePool.Put(ev)
}

// PurchaseEvent pool
var purchasePool = sync.Pool{
	New: func() interface{} {
		return &PurchaseEvent{}
	},
}

// AcquirePurchaseEvent gets a PurchaseEvent from the pool.
func AcquirePurchaseEvent() *PurchaseEvent {
	return purchasePool.Get().(*PurchaseEvent)
}

// ReleasePurchaseEvent returns a PurchaseEvent to the pool.
func ReleasePurchaseEvent(ev *PurchaseEvent) {
	if ev == nil {
		return
	}
	ev.Seq = 0
	ev.Ts = 0
	ev.Round = 0
	ev.Buyer = ""
	ev.Amount = 0
	ev.Price = 0
	ev.Cost = 0

	purchasePool.Put(ev)
}

// Release returns a pooled event to its pool. Non-pooled kinds are a no-op.
func Release(ev Event) {
	switch e := ev.(type) {
	case *TradeEvent:
		ReleaseTradeEvent(e)
	case *PurchaseEvent:
		ReleasePurchaseEvent(e)
	}
}

// Warmup pre-allocates event objects to reduce GC pressure at startup.
func Warmup() {
	const batchSize = 1000

	trades := make([]*TradeEvent, 0, batchSize)
	for i := 0; i < batchSize; i++ {
		trades = append(trades, AcquireTradeEvent())
	}
	for _, ev := range trades {
		ReleaseTradeEvent(ev)
	}

	purchases := make([]*PurchaseEvent, 0, batchSize)
	for i := 0; i < batchSize; i++ {
		purchases = append(purchases, AcquirePurchaseEvent())
	}
	for _, ev := range purchases {
		ReleasePurchaseEvent(ev)
	}
}
