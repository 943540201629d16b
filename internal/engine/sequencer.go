package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"acdm_go/internal/domain"
	"acdm_go/internal/event"
	"acdm_go/internal/infra"
	"acdm_go/internal/infra/storage"
	"acdm_go/internal/platform"
)

// Op names an externally invocable platform operation.
type Op string

const (
	OpStartSaleRound  Op = "START_SALE_ROUND"
	OpStartTradeRound Op = "START_TRADE_ROUND"
	OpBuy             Op = "BUY"
	OpSetOrder        Op = "SET_ORDER"
	OpBuyOrder        Op = "BUY_ORDER"
	OpCancelOrder     Op = "CANCEL_ORDER"
	OpRegister        Op = "REGISTER"
	OpDeposit         Op = "DEPOSIT"
	OpWithdraw        Op = "WITHDRAW"
)

// Command is one submitted operation. Exactly one command is applied at a
// time; a command either fully commits or leaves the platform unchanged.
type Command struct {
	Op       Op
	Account  string
	Amount   int64
	Price    int64
	Payment  int64
	OrderID  uint64
	Referrer string

	// Reply receives the outcome. Must have capacity 1 or a live reader.
	Reply chan Result
}

// Result is the outcome of a command.
type Result struct {
	OrderID uint64 // assigned id for OpSetOrder
	Err     error
}

// Sequencer is the single-threaded command processor. Total ordering of all
// state mutation comes from this loop: commands commit in the order they
// are drained from the inbox, never concurrently.
type Sequencer struct {
	inbox    chan Command
	platform *platform.Platform
	nextSeq  uint64
	store    *storage.Store

	// Boundary: notified after every committed event, outside criticality.
	onEvent func(event.Event)

	mu sync.RWMutex // external snapshot reads only
}

// NewSequencer creates a sequencer over the given platform. store may be
// nil to disable journaling; onEvent may be nil.
func NewSequencer(inboxSize int, p *platform.Platform, store *storage.Store, onEvent func(event.Event)) *Sequencer {
	s := &Sequencer{
		inbox:    make(chan Command, inboxSize),
		platform: p,
		nextSeq:  1,
		store:    store,
		onEvent:  onEvent,
	}
	p.SetEmitter(s.handleEvent)
	return s
}

// Inbox returns the command channel. External callers submit here.
func (s *Sequencer) Inbox() chan<- Command {
	return s.inbox
}

// Run starts the main command loop. This MUST be run in a single goroutine.
func (s *Sequencer) Run(ctx context.Context) {
	slog.Info("Sequencer started (single-thread hotpath)")

	defer func() {
		if r := recover(); r != nil {
			slog.Error("CRITICAL_PANIC_DETECTED", slog.Any("panic", r))
			s.DumpState("panic_dump.json")
			panic(fmt.Sprintf("HALTED: %v", r))
		}
	}()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Sequencer stopping...")
			return
		case cmd := <-s.inbox:
			s.apply(cmd)
		}
	}
}

// Submit sends a command and waits for its result.
func (s *Sequencer) Submit(ctx context.Context, cmd Command) Result {
	if cmd.Reply == nil {
		cmd.Reply = make(chan Result, 1)
	}
	select {
	case <-ctx.Done():
		return Result{Err: ctx.Err()}
	case s.inbox <- cmd:
	}
	select {
	case <-ctx.Done():
		return Result{Err: ctx.Err()}
	case res := <-cmd.Reply:
		return res
	}
}

func (s *Sequencer) apply(cmd Command) {
	s.mu.Lock()
	res := s.dispatch(cmd)
	s.mu.Unlock()

	if res.Err != nil {
		infra.GlobalMetrics.RecordError()
		slog.Debug("command rejected",
			slog.String("op", string(cmd.Op)),
			slog.String("account", cmd.Account),
			slog.String("class", domain.Classify(res.Err).String()),
			slog.Any("error", res.Err))
	}
	if cmd.Reply != nil {
		cmd.Reply <- res
	}
}

func (s *Sequencer) dispatch(cmd Command) Result {
	switch cmd.Op {
	case OpStartSaleRound:
		return Result{Err: s.platform.StartSaleRound()}
	case OpStartTradeRound:
		return Result{Err: s.platform.StartTradeRound()}
	case OpBuy:
		return Result{Err: s.platform.Buy(cmd.Account, cmd.Amount, cmd.Payment)}
	case OpSetOrder:
		id, err := s.platform.SetOrder(cmd.Account, cmd.Amount, cmd.Price)
		return Result{OrderID: id, Err: err}
	case OpBuyOrder:
		return Result{Err: s.platform.BuyOrder(cmd.Account, cmd.OrderID, cmd.Payment)}
	case OpCancelOrder:
		return Result{Err: s.platform.CancelOrder(cmd.Account, cmd.OrderID)}
	case OpRegister:
		err := s.platform.Register(cmd.Account, cmd.Referrer)
		if err == nil && s.store != nil {
			if serr := s.store.SaveReferral(cmd.Account, cmd.Referrer); serr != nil {
				panic(fmt.Sprintf("PERSISTENCE_FAILURE: %v", serr))
			}
		}
		return Result{Err: err}
	case OpDeposit:
		return Result{Err: s.platform.Deposit(cmd.Account, cmd.Amount)}
	case OpWithdraw:
		return Result{Err: s.platform.Withdraw(cmd.Account, cmd.Amount)}
	default:
		return Result{Err: fmt.Errorf("unknown op %q", cmd.Op)}
	}
}

// handleEvent runs on the hotpath for every committed platform event:
// sequence stamping, journal-first persistence, metrics, then the boundary
// callback. Pooled events are released here and must not escape.
func (s *Sequencer) handleEvent(ev event.Event) {
	ev.Stamp(s.nextSeq, time.Now().UnixMicro())
	s.nextSeq++

	if s.store != nil {
		if err := s.journal(ev); err != nil {
			panic(fmt.Sprintf("PERSISTENCE_FAILURE: %v", err))
		}
	}
	s.record(ev)

	if s.onEvent != nil {
		s.onEvent(ev)
	}
	event.Release(ev)
}

func (s *Sequencer) journal(ev event.Event) error {
	now := time.Now()
	switch e := ev.(type) {
	case *event.RoundEvent:
		// A trade round reuses the sale round's row; a full save would
		// erase the minted supply recorded at sale start.
		if e.Kind == domain.RoundTrade.String() {
			return s.store.UpdateRoundPhase(e.Number, e.Kind, now)
		}
		return s.store.SaveRound(&domain.RoundRecord{
			Number:    e.Number,
			Kind:      e.Kind,
			StartedAt: now,
			Price:     e.Price,
			Supply:    e.Supply,
		})
	case *event.PurchaseEvent:
		return s.store.SaveTrade(&domain.TradeRecord{
			Round:     e.Round,
			Source:    domain.TradeSourceSale,
			Buyer:     e.Buyer,
			Amount:    e.Amount,
			UnitPrice: e.Price,
			Cost:      e.Cost,
		})
	case *event.TradeEvent:
		if err := s.store.SaveTrade(&domain.TradeRecord{
			Round:     e.Round,
			Source:    domain.TradeSourceOrder,
			OrderID:   e.OrderID,
			Seller:    e.Seller,
			Buyer:     e.Buyer,
			Amount:    e.Amount,
			UnitPrice: e.Price,
			Cost:      e.Cost,
		}); err != nil {
			return err
		}
		if err := s.store.UpdateRoundVolume(e.Round, e.RoundVolume); err != nil {
			return err
		}
		return s.store.UpdateOrderStatus(e.OrderID, domain.OrderStatusFilled, 0)
	case *event.OrderEvent:
		if e.Type == event.TypeOrderPlaced {
			return s.store.SaveOrder(&domain.OrderRecord{
				ID:              e.OrderID,
				Round:           e.Round,
				Seller:          e.Seller,
				RemainingAmount: e.RemainingAmount,
				UnitPrice:       e.UnitPrice,
				Status:          e.Status,
			})
		}
		return s.store.UpdateOrderStatus(e.OrderID, e.Status, 0)
	default:
		return nil
	}
}

func (s *Sequencer) record(ev event.Event) {
	switch e := ev.(type) {
	case *event.RoundEvent:
		infra.GlobalMetrics.RecordRoundStarted()
		if e.Burned > 0 {
			infra.GlobalMetrics.RecordTokensBurned(e.Burned)
		}
	case *event.PurchaseEvent:
		infra.GlobalMetrics.RecordTokensSold(e.Amount)
	case *event.TradeEvent:
		infra.GlobalMetrics.RecordOrderFilled(e.Cost)
	case *event.OrderEvent:
		switch e.Type {
		case event.TypeOrderPlaced:
			infra.GlobalMetrics.RecordOrderPlaced()
		case event.TypeOrderCanceled, event.TypeOrderClosed:
			infra.GlobalMetrics.RecordOrderCanceled()
		}
	case *event.ReferralPayoutEvent:
		infra.GlobalMetrics.RecordReferralPayout(e.Amount)
	}
}

// GetSnapshot returns a copy of the platform state (external read).
func (s *Sequencer) GetSnapshot() platform.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.platform.TakeSnapshot()
}

// DumpState writes the entire internal state to a file (for post-mortem).
func (s *Sequencer) DumpState(filename string) {
	slog.Info("Dumping internal state...", slog.String("file", filename))

	data := struct {
		NextSeq  uint64            `json:"next_seq"`
		Platform platform.Snapshot `json:"platform"`
	}{
		NextSeq:  s.nextSeq,
		Platform: s.platform.TakeSnapshot(),
	}

	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		slog.Error("Failed to marshal state", slog.Any("error", err))
		return
	}

	if err := os.WriteFile(filename, b, 0644); err != nil {
		slog.Error("Failed to write state dump", slog.Any("error", err))
	}
}
