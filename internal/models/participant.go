package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProofStatus is the tri-state validation status of a proof of payment.
// The zero value (unset) means the proof has not been reviewed yet.
type ProofStatus int

const (
	ProofUnreviewed ProofStatus = iota
	ProofApproved
	ProofRejected
)

// String returns the wire representation of the status.
func (s ProofStatus) String() string {
	switch s {
	case ProofApproved:
		return "approved"
	case ProofRejected:
		return "rejected"
	default:
		return "unreviewed"
	}
}

// Participant is one user's membership in a group: their owed share and the
// current state of their payment lifecycle. Unique per (GroupID, UserID).
//
// The lifecycle is: pending (Paid=false) → paid with or without proof →
// for proof-carrying payments only, approved or rejected by the group
// creator. A rejected proof is terminal; it does not reset Paid.
type Participant struct {
	GroupID string
	UserID  string

	// Share is this participant's owed amount. Never negative.
	Share decimal.Decimal

	// Paid reports whether the participant has self-reported payment.
	Paid bool

	// PaidAt is the time the payment was recorded, nil while pending.
	PaidAt *time.Time

	// Method is the free-text payment method the payer declared
	// (e.g., "yape", "transferencia"). Empty while pending.
	Method string

	// Proof is the attached proof-of-payment payload (base64 image),
	// empty when the payment was recorded without proof.
	Proof string

	// Validation state, meaningful only when Proof is non-empty.
	ProofStatus    ProofStatus
	ValidatedAt    *time.Time
	ValidatedBy    string
	ValidationNote string
}

// HasProof reports whether a proof payload is attached.
func (p *Participant) HasProof() bool {
	return p.Proof != ""
}

// ProofPreview returns the first n characters of the proof followed by an
// ellipsis, or empty when no proof is attached. Projections return a
// preview instead of the full payload.
func (p *Participant) ProofPreview(n int) string {
	if p.Proof == "" {
		return ""
	}
	if len(p.Proof) <= n {
		return p.Proof + "..."
	}
	return p.Proof[:n] + "..."
}
