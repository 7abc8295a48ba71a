// Package calculator computes per-participant shares for a group total.
package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// EqualSplit divides total evenly among n participants, rounding each
// share to 2 decimal places.
//
// There is no remainder redistribution: the last participant does not
// absorb the rounding residue, so the shares may sum to slightly less or
// more than the total (by under n cents). This is intentional.
func EqualSplit(total decimal.Decimal, n int) ([]decimal.Decimal, error) {
	if n <= 0 {
		return nil, fmt.Errorf("must have at least one participant")
	}

	share := total.DivRound(decimal.NewFromInt(int64(n)), 2)
	shares := make([]decimal.Decimal, n)
	for i := range shares {
		shares[i] = share
	}
	return shares, nil
}

// CustomSplit assigns the caller-supplied amounts to participants by
// position. If amounts is shorter than n, the missing entries default to
// zero. Amounts are not checked against any total; validating the sum is
// the caller's responsibility.
func CustomSplit(amounts []decimal.Decimal, n int) ([]decimal.Decimal, error) {
	if n <= 0 {
		return nil, fmt.Errorf("must have at least one participant")
	}

	shares := make([]decimal.Decimal, n)
	for i := range shares {
		if i < len(amounts) {
			shares[i] = amounts[i]
		} else {
			shares[i] = decimal.Zero
		}
	}
	return shares, nil
}
