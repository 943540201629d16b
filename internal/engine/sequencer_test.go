package engine

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"acdm_go/internal/domain"
	"acdm_go/internal/event"
	"acdm_go/internal/infra/storage"
	"acdm_go/internal/ledger"
	"acdm_go/internal/platform"
)

func newTestPlatform() *platform.Platform {
	cfg := platform.Config{
		Owner:          "platform",
		RoundDuration:  time.Hour,
		GenesisPrice:   10_000_000_000_000,
		GenesisSupply:  1_000,
		PriceGrowth:    decimal.RequireFromString("1.03"),
		PriceIncrement: 4_000_000_000_000,
		SaleRefLevel1:  decimal.NewFromInt(5),
		SaleRefLevel2:  decimal.NewFromInt(3),
		TradeRefLevel1: decimal.RequireFromString("2.5"),
		TradeRefLevel2: decimal.RequireFromString("2.5"),
	}
	l := ledger.New("platform")
	return platform.New(cfg, l, domain.NewBank())
}

func TestSequencer_Lifecycle(t *testing.T) {
	p := newTestPlatform()
	seq := NewSequencer(16, p, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go seq.Run(ctx)

	if res := seq.Submit(ctx, Command{Op: OpStartSaleRound}); res.Err != nil {
		t.Fatalf("StartSaleRound failed: %v", res.Err)
	}
	cost := int64(100) * 10_000_000_000_000
	if res := seq.Submit(ctx, Command{Op: OpDeposit, Account: "bob", Amount: cost}); res.Err != nil {
		t.Fatalf("Deposit failed: %v", res.Err)
	}
	if res := seq.Submit(ctx, Command{Op: OpBuy, Account: "bob", Amount: 100, Payment: cost}); res.Err != nil {
		t.Fatalf("Buy failed: %v", res.Err)
	}

	snap := seq.GetSnapshot()
	if snap.Round != "SALE" {
		t.Errorf("round = %s, want SALE", snap.Round)
	}
	if snap.SaleSupply != 900 {
		t.Errorf("sale supply = %d, want 900", snap.SaleSupply)
	}
}

func TestSequencer_RejectionReachesCaller(t *testing.T) {
	p := newTestPlatform()
	seq := NewSequencer(16, p, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go seq.Run(ctx)

	res := seq.Submit(ctx, Command{Op: OpBuy, Account: "bob", Amount: 1, Payment: 1})
	if res.Err != domain.ErrSaleRoundNotActive {
		t.Errorf("Buy before any round = %v, want ErrSaleRoundNotActive", res.Err)
	}

	res = seq.Submit(ctx, Command{Op: "BOGUS"})
	if res.Err == nil {
		t.Error("unknown op should fail")
	}
}

func TestSequencer_EventsTotallyOrdered(t *testing.T) {
	p := newTestPlatform()

	var mu sync.Mutex
	var seqs []uint64
	seq := NewSequencer(16, p, nil, func(ev event.Event) {
		mu.Lock()
		seqs = append(seqs, ev.GetSeq())
		mu.Unlock()
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go seq.Run(ctx)

	seq.Submit(ctx, Command{Op: OpStartSaleRound})
	cost := int64(1_000) * 10_000_000_000_000
	seq.Submit(ctx, Command{Op: OpDeposit, Account: "bob", Amount: cost})
	seq.Submit(ctx, Command{Op: OpBuy, Account: "bob", Amount: 1_000, Payment: cost})
	// Sold out: the trade round may open immediately.
	if res := seq.Submit(ctx, Command{Op: OpStartTradeRound}); res.Err != nil {
		t.Fatalf("StartTradeRound after sellout failed: %v", res.Err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(seqs) == 0 {
		t.Fatal("no events observed")
	}
	for i, s := range seqs {
		if s != uint64(i+1) {
			t.Fatalf("event %d has seq %d, want %d", i, s, i+1)
		}
	}
}

func TestSequencer_JournalKeepsSaleSupplyAcrossPhases(t *testing.T) {
	store, err := storage.NewStore(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("failed to open journal: %v", err)
	}

	p := newTestPlatform()
	seq := NewSequencer(16, p, store, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go seq.Run(ctx)

	if res := seq.Submit(ctx, Command{Op: OpStartSaleRound}); res.Err != nil {
		t.Fatalf("StartSaleRound failed: %v", res.Err)
	}
	cost := int64(1_000) * 10_000_000_000_000
	seq.Submit(ctx, Command{Op: OpDeposit, Account: "bob", Amount: cost})
	if res := seq.Submit(ctx, Command{Op: OpBuy, Account: "bob", Amount: 1_000, Payment: cost}); res.Err != nil {
		t.Fatalf("Buy failed: %v", res.Err)
	}
	// Sellout lets the trade round open against the same round row.
	if res := seq.Submit(ctx, Command{Op: OpStartTradeRound}); res.Err != nil {
		t.Fatalf("StartTradeRound failed: %v", res.Err)
	}

	row, err := store.GetRound(1)
	if err != nil {
		t.Fatalf("GetRound failed: %v", err)
	}
	if row == nil {
		t.Fatal("round row missing from journal")
	}
	if row.Kind != "TRADE" {
		t.Errorf("kind = %s, want TRADE", row.Kind)
	}
	if row.Supply != 1_000 {
		t.Errorf("supply = %d, want 1000 preserved from the sale phase", row.Supply)
	}
}

func TestSequencer_SubmitHonorsContext(t *testing.T) {
	p := newTestPlatform()
	seq := NewSequencer(16, p, nil, nil)

	// Sequencer not running: Submit must give up when the context dies.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	done := make(chan Result, 1)
	go func() {
		// Fill the inbox so the second submit blocks on send.
		for i := 0; i < 20; i++ {
			seq.Submit(ctx, Command{Op: OpDeposit, Account: "x", Amount: 1})
		}
		done <- Result{}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Submit did not respect context cancellation")
	}
}
