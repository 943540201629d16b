// Package ledger provides the in-process fungible token ledger consumed by
// the platform. It implements the domain.TokenLedger collaborator interface:
// mint/burn restricted to the controller account, plain transfers, and
// allowance-gated pulls for order escrow.
package ledger

import (
	"fmt"
	"sync"

	"acdm_go/internal/domain"
	"acdm_go/pkg/safe"
)

// Ledger is an account -> balance map with ERC20-style allowances.
// Mutation happens on the sequencer thread; the mutex exists only for
// external reads (UI, stats).
type Ledger struct {
	mu         sync.RWMutex
	controller string
	balances   map[string]int64
	allowances map[string]map[string]int64 // owner -> spender -> amount
	supply     int64
}

// New creates a ledger controlled by the given platform account.
func New(controller string) *Ledger {
	return &Ledger{
		controller: controller,
		balances:   make(map[string]int64),
		allowances: make(map[string]map[string]int64),
	}
}

// Mint creates amount new tokens on the to account and grows the supply.
func (l *Ledger) Mint(to string, amount int64) error {
	if amount <= 0 {
		return domain.ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	l.balances[to] = safe.SafeAdd(l.balances[to], amount)
	l.supply = safe.SafeAdd(l.supply, amount)
	return nil
}

// Burn destroys amount tokens held by from.
func (l *Ledger) Burn(from string, amount int64) error {
	if amount <= 0 {
		return domain.ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.balances[from] < amount {
		return domain.ErrInsufficientTokens
	}
	l.balances[from] -= amount
	l.supply = safe.SafeSub(l.supply, amount)
	return nil
}

// Transfer moves tokens between accounts without an allowance.
func (l *Ledger) Transfer(from, to string, amount int64) error {
	if amount <= 0 {
		return domain.ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.move(from, to, amount)
}

// TransferFrom moves tokens on behalf of from, consuming spender's allowance.
func (l *Ledger) TransferFrom(spender, from, to string, amount int64) error {
	if amount <= 0 {
		return domain.ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	allowed := l.allowances[from][spender]
	if allowed < amount {
		return domain.ErrTransferNotApproved
	}
	if err := l.move(from, to, amount); err != nil {
		return err
	}
	l.allowances[from][spender] = allowed - amount
	return nil
}

// Approve grants spender the right to pull up to amount tokens from owner.
// The new allowance replaces any previous grant.
func (l *Ledger) Approve(owner, spender string, amount int64) error {
	if amount < 0 {
		return domain.ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	grants, ok := l.allowances[owner]
	if !ok {
		grants = make(map[string]int64)
		l.allowances[owner] = grants
	}
	grants[spender] = amount
	return nil
}

// BalanceOf returns the token balance of an account.
func (l *Ledger) BalanceOf(account string) int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.balances[account]
}

// Allowance returns the remaining grant from owner to spender.
func (l *Ledger) Allowance(owner, spender string) int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.allowances[owner][spender]
}

// TotalSupply returns tokens currently in circulation.
func (l *Ledger) TotalSupply() int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.supply
}

// move requires the lock to be held.
func (l *Ledger) move(from, to string, amount int64) error {
	if l.balances[from] < amount {
		return domain.ErrInsufficientTokens
	}
	l.balances[from] -= amount
	l.balances[to] = safe.SafeAdd(l.balances[to], amount)
	return nil
}

// VerifyInvariant panics if per-account balances no longer sum to the
// recorded supply.
func (l *Ledger) VerifyInvariant() {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var sum int64
	for _, b := range l.balances {
		if b < 0 {
			panic(fmt.Sprintf("LEDGER_INVARIANT_NEGATIVE_BALANCE: %d", b))
		}
		sum = safe.SafeAdd(sum, b)
	}
	if sum != l.supply {
		panic(fmt.Sprintf("LEDGER_INVARIANT_SUPPLY_MISMATCH: sum %d, supply %d", sum, l.supply))
	}
}
