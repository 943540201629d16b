package domain

import (
	"fmt"

	"acdm_go/pkg/safe"
)

// Balance is one account's base-currency holding with invariant checking.
type Balance struct {
	Account string `json:"account"`
	Amount  int64  `json:"amount"` // base units
}

// Credit adds funds to the balance. Panics on overflow.
func (b *Balance) Credit(amount int64) {
	b.Amount = safe.SafeAdd(b.Amount, amount)
}

// Debit removes funds from the balance. Returns ErrInsufficientFunds
// when the account cannot cover the amount.
func (b *Balance) Debit(amount int64) error {
	if amount > b.Amount {
		return ErrInsufficientFunds
	}
	b.Amount = safe.SafeSub(b.Amount, amount)
	return nil
}

// VerifyInvariant panics if the balance went negative. A negative holding
// means an accounting bug, and we halt rather than keep trading on it.
func (b *Balance) VerifyInvariant() {
	if b.Amount < 0 {
		panic(fmt.Sprintf("BANK_INVARIANT_NEGATIVE_AMOUNT: %s = %d", b.Account, b.Amount))
	}
}

// Bank manages the base-currency balances of all accounts.
// It is not safe for concurrent use; all mutation goes through the sequencer.
type Bank struct {
	balances map[string]*Balance
}

// NewBank creates an empty bank.
func NewBank() *Bank {
	return &Bank{balances: make(map[string]*Balance)}
}

// Get returns the balance for an account, creating it if absent.
func (bk *Bank) Get(account string) *Balance {
	b, ok := bk.balances[account]
	if !ok {
		b = &Balance{Account: account}
		bk.balances[account] = b
	}
	return b
}

// Credit adds funds to an account.
func (bk *Bank) Credit(account string, amount int64) {
	bk.Get(account).Credit(amount)
}

// Debit removes funds from an account.
func (bk *Bank) Debit(account string, amount int64) error {
	return bk.Get(account).Debit(amount)
}

// BalanceOf returns the current holding of an account.
func (bk *Bank) BalanceOf(account string) int64 {
	if b, ok := bk.balances[account]; ok {
		return b.Amount
	}
	return 0
}

// Total returns the sum of all holdings.
func (bk *Bank) Total() int64 {
	var total int64
	for _, b := range bk.balances {
		total = safe.SafeAdd(total, b.Amount)
	}
	return total
}

// VerifyAll checks invariants on every balance.
func (bk *Bank) VerifyAll() {
	for _, b := range bk.balances {
		b.VerifyInvariant()
	}
}

// Snapshot returns a copy of all balances (for state dump).
func (bk *Bank) Snapshot() map[string]Balance {
	result := make(map[string]Balance, len(bk.balances))
	for k, v := range bk.balances {
		result[k] = *v
	}
	return result
}
