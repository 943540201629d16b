package safe

import (
	"fmt"
	"math"
)

// Overflow-safe int64 arithmetic for monetary values.
// Overflow is an invariant violation, not a recoverable error: we halt.

// SafeAdd returns a + b. Panics on overflow.
func SafeAdd(a, b int64) int64 {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		panic(fmt.Sprintf("INT64_ADD_OVERFLOW: %d + %d", a, b))
	}
	return a + b
}

// SafeSub returns a - b. Panics on overflow.
func SafeSub(a, b int64) int64 {
	if (b < 0 && a > math.MaxInt64+b) || (b > 0 && a < math.MinInt64+b) {
		panic(fmt.Sprintf("INT64_SUB_OVERFLOW: %d - %d", a, b))
	}
	return a - b
}

// SafeMul returns a * b. Panics on overflow.
func SafeMul(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	r := a * b
	if r/b != a {
		panic(fmt.Sprintf("INT64_MUL_OVERFLOW: %d * %d", a, b))
	}
	// MinInt64 * -1 is the one case the division check misses.
	if (a == math.MinInt64 && b == -1) || (b == math.MinInt64 && a == -1) {
		panic(fmt.Sprintf("INT64_MUL_OVERFLOW: %d * %d", a, b))
	}
	return r
}
