package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Group represents a shared expense to be settled by its participants.
// Groups are immutable after creation; the only lifecycle operation is a
// creator-gated hard delete that cascades to participants and payments.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Cena viernes").
	Name string

	// Total is the full amount to be split among the participants.
	// Always positive.
	Total decimal.Decimal

	// Category is a free-text tag for grouping statistics.
	// Defaults to "general".
	Category string

	// DueDate is the optional settlement deadline.
	DueDate *time.Time

	// Description is optional free text.
	Description string

	// CreatorID references the user who created the group. Only the
	// creator may validate proofs or delete the group.
	CreatorID string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// UrgencyTier classifies a group by how close its due date is.
type UrgencyTier string

const (
	UrgencyOverdue UrgencyTier = "overdue"
	UrgencyUrgent  UrgencyTier = "urgent" // due within 1 day
	UrgencySoon    UrgencyTier = "soon"   // due within 3 days
	UrgencyNormal  UrgencyTier = "normal"
	UrgencyNoDue   UrgencyTier = "no_due_date"
)

// Urgency derives the deadline annotations shared by the detail and list
// projections. DaysRemaining truncates toward zero, so a deadline later
// today counts as zero days remaining.
type Urgency struct {
	DaysRemaining *int
	Urgent        bool
	Overdue       bool
	Tier          UrgencyTier
}

// UrgencyAt computes the urgency annotations for a due date at a given
// instant. A nil due date yields the no-due-date tier.
func UrgencyAt(dueDate *time.Time, now time.Time) Urgency {
	if dueDate == nil {
		return Urgency{Tier: UrgencyNoDue}
	}
	days := int(dueDate.Sub(now).Hours() / 24)
	u := Urgency{
		DaysRemaining: &days,
		Urgent:        days >= 0 && days <= 3,
		Overdue:       days < 0,
	}
	switch {
	case days < 0:
		u.Tier = UrgencyOverdue
	case days <= 1:
		u.Tier = UrgencyUrgent
	case days <= 3:
		u.Tier = UrgencySoon
	default:
		u.Tier = UrgencyNormal
	}
	return u
}
