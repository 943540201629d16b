package safe

import (
	"math"
	"testing"
)

func TestSafeAdd(t *testing.T) {
	if got := SafeAdd(2, 3); got != 5 {
		t.Errorf("SafeAdd(2, 3) = %d, want 5", got)
	}
	if got := SafeAdd(-2, -3); got != -5 {
		t.Errorf("SafeAdd(-2, -3) = %d, want -5", got)
	}

	defer func() {
		if r := recover(); r == nil {
			t.Error("SafeAdd should panic on overflow")
		}
	}()
	SafeAdd(math.MaxInt64, 1)
}

func TestSafeSub(t *testing.T) {
	if got := SafeSub(10, 4); got != 6 {
		t.Errorf("SafeSub(10, 4) = %d, want 6", got)
	}

	defer func() {
		if r := recover(); r == nil {
			t.Error("SafeSub should panic on overflow")
		}
	}()
	SafeSub(math.MinInt64, 1)
}

func TestSafeMul(t *testing.T) {
	if got := SafeMul(100, 10_000_000_000_000); got != 1_000_000_000_000_000 {
		t.Errorf("SafeMul = %d", got)
	}
	if got := SafeMul(0, math.MaxInt64); got != 0 {
		t.Errorf("SafeMul by zero = %d, want 0", got)
	}

	defer func() {
		if r := recover(); r == nil {
			t.Error("SafeMul should panic on overflow")
		}
	}()
	SafeMul(math.MaxInt64, 2)
}
