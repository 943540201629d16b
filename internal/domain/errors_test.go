package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorClass
	}{
		{ErrRoundNotOver, ClassPhase},
		{ErrSaleRoundNotActive, ClassPhase},
		{ErrTradeRoundNotActive, ClassPhase},
		{ErrSaleRoundNotOver, ClassTiming},
		{ErrTradeRoundOver, ClassTiming},
		{ErrNotOrderOwner, ClassAuthorization},
		{ErrOrderInactive, ClassState},
		{ErrUnknownOrder, ClassState},
		{ErrAlreadyRegistered, ClassState},
		{ErrSelfReferral, ClassState},
		{ErrInsufficientPayment, ClassFunds},
		{ErrInsufficientSupply, ClassFunds},
		{ErrTransferNotApproved, ClassFunds},
		{ErrInsufficientFunds, ClassFunds},
		{errors.New("something else"), ClassUnknown},
		{nil, ClassUnknown},
	}

	for _, tt := range tests {
		if got := Classify(tt.err); got != tt.want {
			t.Errorf("Classify(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
}

func TestClassify_WrappedError(t *testing.T) {
	wrapped := fmt.Errorf("buyOrder: %w", ErrOrderInactive)
	if got := Classify(wrapped); got != ClassState {
		t.Errorf("Classify(wrapped) = %s, want STATE", got)
	}
}

func TestErrorMessages(t *testing.T) {
	// These strings are part of the external contract; callers match on them.
	fixed := map[error]string{
		ErrSaleRoundNotOver:    "Sale round isn't over",
		ErrTradeRoundNotActive: "Wait the sail round will end",
		ErrTradeRoundOver:      "Trade round is over",
		ErrNotOrderOwner:       "It's not your order",
		ErrOrderInactive:       "Order canceled already",
	}

	for err, want := range fixed {
		if err.Error() != want {
			t.Errorf("message = %q, want %q", err.Error(), want)
		}
	}
}
