// Package platform implements the two-phase exchange core: the round state
// machine, the primary token sale, the escrowed order book, and the referral
// registry. All state mutation is single-threaded; the engine sequencer is
// the only writer.
package platform

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"acdm_go/internal/domain"
	"acdm_go/internal/event"
	"acdm_go/pkg/safe"
)

// Config fixes the immutable parameters of a platform instance.
type Config struct {
	Owner         string        // platform account on both ledgers
	RoundDuration time.Duration

	GenesisPrice  int64 // base units per token, first sale round
	GenesisSupply int64 // tokens minted for the first sale round

	PriceGrowth    decimal.Decimal // multiplicative factor between sale rounds
	PriceIncrement int64           // additive term, base units

	// Referral percentages (of the payment). Sale splits are paid on top of
	// platform revenue; trade splits are skimmed before the seller payout.
	SaleRefLevel1  decimal.Decimal
	SaleRefLevel2  decimal.Decimal
	TradeRefLevel1 decimal.Decimal
	TradeRefLevel2 decimal.Decimal
}

// Platform is the singleton exchange state. Construction fixes the round
// duration and genesis constants; there is no reconfiguration path.
type Platform struct {
	cfg    Config
	tokens domain.TokenLedger
	bank   *domain.Bank

	clock func() time.Time
	emit  func(event.Event)

	round       domain.RoundKind
	roundStart  time.Time
	roundNum    uint64 // 0 until the first sale round starts
	salePrice   int64
	saleSupply  int64 // remaining in the active sale round
	tradeVolume int64 // base units traded in the active trade round

	orders    []*domain.Order // index == order id; never shrinks
	referrers map[string]string
}

// New creates a platform over the given token ledger and cash bank.
func New(cfg Config, tokens domain.TokenLedger, bank *domain.Bank) *Platform {
	return &Platform{
		cfg:       cfg,
		tokens:    tokens,
		bank:      bank,
		clock:     time.Now,
		referrers: make(map[string]string),
	}
}

// SetEmitter installs the event sink. Must be called before the platform
// starts serving; the sink owns pooled events after publish returns.
func (p *Platform) SetEmitter(emit func(event.Event)) {
	p.emit = emit
}

// StartSaleRound transitions None->Sale or Trade->Sale. Anyone may trigger
// it once the running trade round has elapsed its full duration. Entering
// the sale phase force-closes every still-active order, computes the next
// price and supply, and mints the supply onto the platform balance.
func (p *Platform) StartSaleRound() error {
	now := p.clock()
	switch p.round {
	case domain.RoundSale:
		return domain.ErrRoundNotOver
	case domain.RoundTrade:
		if !p.elapsed(now) {
			return domain.ErrRoundNotOver
		}
	}

	price, supply := p.cfg.GenesisPrice, p.cfg.GenesisSupply
	if p.roundNum > 0 {
		price = NextPrice(p.salePrice, p.cfg.PriceGrowth, p.cfg.PriceIncrement)
		supply = NextSupply(p.tradeVolume, price)
	}

	// Everything past this point must not fail: the forced closure below
	// commits escrow refunds that cannot be rolled back.
	if p.round == domain.RoundTrade {
		p.closeAllOrders()
	}

	if supply > 0 {
		if err := p.tokens.Mint(p.cfg.Owner, supply); err != nil {
			panic(fmt.Sprintf("MINT_FAILURE: %v", err))
		}
	}

	p.round = domain.RoundSale
	p.roundStart = now
	p.roundNum++
	p.salePrice = price
	p.saleSupply = supply

	p.publish(&event.RoundEvent{
		Number: p.roundNum,
		Kind:   domain.RoundSale.String(),
		Price:  price,
		Supply: supply,
	})
	return nil
}

// StartTradeRound transitions Sale->Trade. Permitted once the sale is sold
// out, or after the sale round's duration has elapsed. Any unsold remainder
// is burned; it never carries over.
func (p *Platform) StartTradeRound() error {
	if p.round != domain.RoundSale {
		return domain.ErrSaleRoundNotActive
	}
	now := p.clock()
	if p.saleSupply > 0 && !p.elapsed(now) {
		return domain.ErrSaleRoundNotOver
	}

	burned := p.saleSupply
	p.saleSupply = 0
	p.tradeVolume = 0
	p.round = domain.RoundTrade
	p.roundStart = now

	if burned > 0 {
		if err := p.tokens.Burn(p.cfg.Owner, burned); err != nil {
			panic(fmt.Sprintf("BURN_FAILURE: %v", err))
		}
	}

	p.publish(&event.RoundEvent{
		Number: p.roundNum,
		Kind:   domain.RoundTrade.String(),
		Price:  p.salePrice,
		Burned: burned,
	})
	return nil
}

// Buy purchases amount tokens from the active sale at the round price.
// Payment must match the cost exactly; the buyer's cash balance covers it.
func (p *Platform) Buy(buyer string, amount, payment int64) error {
	if p.round != domain.RoundSale {
		return domain.ErrSaleRoundNotActive
	}
	if amount <= 0 {
		return domain.ErrInvalidAmount
	}
	if amount > p.saleSupply {
		return domain.ErrInsufficientSupply
	}
	cost := safe.SafeMul(amount, p.salePrice)
	if payment < cost {
		return domain.ErrInsufficientPayment
	}
	if payment > cost {
		return domain.ErrExcessPayment
	}
	if err := p.bank.Debit(buyer, cost); err != nil {
		return err
	}

	// Effects before the outbound token transfer.
	p.saleSupply -= amount
	claimed := p.payBonuses(buyer, cost, p.cfg.SaleRefLevel1, p.cfg.SaleRefLevel2, domain.TradeSourceSale)
	p.bank.Credit(p.cfg.Owner, safe.SafeSub(cost, claimed))

	if err := p.tokens.Transfer(p.cfg.Owner, buyer, amount); err != nil {
		panic(fmt.Sprintf("SALE_TRANSFER_FAILURE: %v", err))
	}

	ev := event.AcquirePurchaseEvent()
	ev.Round = p.roundNum
	ev.Buyer = buyer
	ev.Amount = amount
	ev.Price = p.salePrice
	ev.Cost = cost
	p.publish(ev)
	return nil
}

// Register binds account to referrer. The binding is one-shot; a second
// registration and self-referral are both rejected.
func (p *Platform) Register(account, referrer string) error {
	if referrer == "" {
		return domain.ErrUnknownReferrer
	}
	if account == referrer {
		return domain.ErrSelfReferral
	}
	if _, ok := p.referrers[account]; ok {
		return domain.ErrAlreadyRegistered
	}
	p.referrers[account] = referrer
	return nil
}

// SeedReferrers installs previously persisted referral edges. Called once
// at startup before the platform serves commands; seeded edges behave
// exactly like registered ones, including the one-shot rule.
func (p *Platform) SeedReferrers(edges map[string]string) {
	for account, referrer := range edges {
		p.referrers[account] = referrer
	}
}

// Referrer returns the registered referrer of an account, if any.
func (p *Platform) Referrer(account string) (string, bool) {
	ref, ok := p.referrers[account]
	return ref, ok
}

// Deposit credits base currency to an account. Stands in for inbound value
// from the surrounding execution environment.
func (p *Platform) Deposit(account string, amount int64) error {
	if amount <= 0 {
		return domain.ErrInvalidAmount
	}
	p.bank.Credit(account, amount)
	return nil
}

// Withdraw debits base currency from an account.
func (p *Platform) Withdraw(account string, amount int64) error {
	if amount <= 0 {
		return domain.ErrInvalidAmount
	}
	return p.bank.Debit(account, amount)
}

// payBonuses credits up to two referral levels from a payment of cost made
// by (or on behalf of) account. Returns the total actually claimed.
func (p *Platform) payBonuses(account string, cost int64, l1, l2 decimal.Decimal, source string) int64 {
	ref1, ok := p.referrers[account]
	if !ok {
		return 0
	}
	claimed := percentage(cost, l1)
	p.bank.Credit(ref1, claimed)
	p.publish(&event.ReferralPayoutEvent{
		Round:    p.roundNum,
		Source:   source,
		Account:  account,
		Referrer: ref1,
		Level:    1,
		Amount:   claimed,
	})

	if ref2, ok := p.referrers[ref1]; ok {
		bonus := percentage(cost, l2)
		p.bank.Credit(ref2, bonus)
		claimed = safe.SafeAdd(claimed, bonus)
		p.publish(&event.ReferralPayoutEvent{
			Round:    p.roundNum,
			Source:   source,
			Account:  account,
			Referrer: ref2,
			Level:    2,
			Amount:   bonus,
		})
	}
	return claimed
}

// percentage returns pct percent of amount, truncated toward zero.
func percentage(amount int64, pct decimal.Decimal) int64 {
	return decimal.NewFromInt(amount).Mul(pct).Div(decimal.NewFromInt(100)).Truncate(0).IntPart()
}

func (p *Platform) elapsed(now time.Time) bool {
	r := domain.Round{Kind: p.round, StartedAt: p.roundStart, Duration: p.cfg.RoundDuration}
	return r.Elapsed(now)
}

func (p *Platform) publish(ev event.Event) {
	if p.emit == nil {
		event.Release(ev)
		return
	}
	p.emit(ev)
}

// Round returns the active round kind and its start time.
func (p *Platform) Round() (domain.RoundKind, time.Time) {
	return p.round, p.roundStart
}

// RoundNumber returns the 1-based count of sale rounds started so far.
func (p *Platform) RoundNumber() uint64 { return p.roundNum }

// SalePrice returns the price of the active or most recent sale round.
func (p *Platform) SalePrice() int64 { return p.salePrice }

// SaleSupply returns tokens still available in the active sale round.
func (p *Platform) SaleSupply() int64 { return p.saleSupply }

// TradeVolume returns base units traded so far in the active trade round.
func (p *Platform) TradeVolume() int64 { return p.tradeVolume }

// CashBalanceOf returns an account's base-currency balance.
func (p *Platform) CashBalanceOf(account string) int64 {
	return p.bank.BalanceOf(account)
}

// Snapshot is a point-in-time copy of the platform state for dumps and
// observers.
type Snapshot struct {
	Round       string                    `json:"round"`
	RoundNumber uint64                    `json:"round_number"`
	RoundStart  int64                     `json:"round_start"`
	SalePrice   int64                     `json:"sale_price"`
	SaleSupply  int64                     `json:"sale_supply"`
	TradeVolume int64                     `json:"trade_volume"`
	Orders      []domain.Order            `json:"orders"`
	Balances    map[string]domain.Balance `json:"balances"`
	Referrers   map[string]string         `json:"referrers"`
}

// TakeSnapshot copies the full platform state.
func (p *Platform) TakeSnapshot() Snapshot {
	orders := make([]domain.Order, len(p.orders))
	for i, o := range p.orders {
		orders[i] = *o
	}
	refs := make(map[string]string, len(p.referrers))
	for k, v := range p.referrers {
		refs[k] = v
	}
	return Snapshot{
		Round:       p.round.String(),
		RoundNumber: p.roundNum,
		RoundStart:  p.roundStart.Unix(),
		SalePrice:   p.salePrice,
		SaleSupply:  p.saleSupply,
		TradeVolume: p.tradeVolume,
		Orders:      orders,
		Balances:    p.bank.Snapshot(),
		Referrers:   refs,
	}
}
