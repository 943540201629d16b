package domain

import "errors"

// Every failure path aborts the whole operation and surfaces one of these.
// Message wording for round/order failures is fixed; callers and UIs match
// on it, so it must not be reworded (including the "sail" spelling).
var (
	// Phase errors: wrong round active for the requested operation.
	ErrRoundNotOver        = errors.New("Round isn't over")
	ErrSaleRoundNotActive  = errors.New("Sale round isn't active")
	ErrTradeRoundNotActive = errors.New("Wait the sail round will end")

	// Timing errors: round duration not yet elapsed / already elapsed.
	ErrSaleRoundNotOver = errors.New("Sale round isn't over")
	ErrTradeRoundOver   = errors.New("Trade round is over")

	// Authorization / state errors on orders.
	ErrNotOrderOwner = errors.New("It's not your order")
	ErrOrderInactive = errors.New("Order canceled already")
	ErrUnknownOrder  = errors.New("Order doesn't exist")

	// Funds errors.
	ErrInsufficientSupply  = errors.New("Not enough tokens left in sale")
	ErrInsufficientPayment = errors.New("Not enough funds sent")
	ErrExcessPayment       = errors.New("Overpayment not accepted")
	ErrInsufficientFunds   = errors.New("Insufficient balance")
	ErrInsufficientTokens  = errors.New("Insufficient token balance")
	ErrTransferNotApproved = errors.New("Token transfer not approved")
	ErrInvalidAmount       = errors.New("Amount must be positive")
	ErrInvalidPrice        = errors.New("Price must be positive")

	// Referral errors.
	ErrSelfReferral      = errors.New("Can't refer yourself")
	ErrAlreadyRegistered = errors.New("Referrer already set")
	ErrUnknownReferrer   = errors.New("Referrer must not be empty")
)

// ErrorClass buckets failures for metrics and logging.
type ErrorClass int

const (
	ClassUnknown ErrorClass = iota
	ClassPhase
	ClassTiming
	ClassAuthorization
	ClassState
	ClassFunds
)

func (c ErrorClass) String() string {
	switch c {
	case ClassPhase:
		return "PHASE"
	case ClassTiming:
		return "TIMING"
	case ClassAuthorization:
		return "AUTHORIZATION"
	case ClassState:
		return "STATE"
	case ClassFunds:
		return "FUNDS"
	default:
		return "UNKNOWN"
	}
}

// Classify maps an operation error onto its taxonomy bucket.
func Classify(err error) ErrorClass {
	switch {
	case err == nil:
		return ClassUnknown
	case errors.Is(err, ErrRoundNotOver),
		errors.Is(err, ErrSaleRoundNotActive),
		errors.Is(err, ErrTradeRoundNotActive):
		return ClassPhase
	case errors.Is(err, ErrSaleRoundNotOver),
		errors.Is(err, ErrTradeRoundOver):
		return ClassTiming
	case errors.Is(err, ErrNotOrderOwner):
		return ClassAuthorization
	case errors.Is(err, ErrOrderInactive),
		errors.Is(err, ErrUnknownOrder),
		errors.Is(err, ErrSelfReferral),
		errors.Is(err, ErrAlreadyRegistered),
		errors.Is(err, ErrUnknownReferrer):
		return ClassState
	case errors.Is(err, ErrInsufficientSupply),
		errors.Is(err, ErrInsufficientPayment),
		errors.Is(err, ErrExcessPayment),
		errors.Is(err, ErrInsufficientFunds),
		errors.Is(err, ErrInsufficientTokens),
		errors.Is(err, ErrTransferNotApproved),
		errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrInvalidPrice):
		return ClassFunds
	default:
		return ClassUnknown
	}
}
