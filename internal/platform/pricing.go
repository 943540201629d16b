package platform

import (
	"github.com/shopspring/decimal"

	"acdm_go/pkg/safe"
)

// NextPrice computes the sale price that follows prev: prev grown by the
// configured factor, truncated toward zero, plus a fixed increment. The
// increment keeps the price strictly climbing even when trade volume was
// negligible.
func NextPrice(prev int64, growth decimal.Decimal, increment int64) int64 {
	grown := decimal.NewFromInt(prev).Mul(growth).Truncate(0)
	return safe.SafeAdd(grown.IntPart(), increment)
}

// NextSupply computes the token amount purchasable with the full proceeds
// of the previous trade round at the new price, truncated toward zero.
func NextSupply(volume, price int64) int64 {
	if price <= 0 {
		return 0
	}
	return volume / price
}
