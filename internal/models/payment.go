package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is one append-only history row: a participant paid an amount
// into a group at a point in time. Payment rows are never updated or
// deleted individually; they only go away with the group cascade.
type Payment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string

	// GroupID and UserID reference the participant the payment belongs to.
	GroupID string
	UserID  string

	// Amount is the amount paid. For payments without proof this is the
	// participant's stored share; for proof-carrying payments it is the
	// caller-supplied amount, trusted as reported.
	Amount decimal.Decimal

	// PaidAt is when the payment was recorded.
	PaidAt time.Time
}
