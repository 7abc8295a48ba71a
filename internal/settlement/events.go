package settlement

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event is a settlement-state-change notification fanned out to the
// subscribers of a group channel. The set of variants is closed:
// PaymentRecorded and ProofValidated are the only events published.
type Event interface {
	// EventName is the wire name subscribers dispatch on.
	EventName() string
	// Group is the channel the event is scoped to.
	Group() string
}

// PaymentRecorded is published after a participant's payment commits.
type PaymentRecorded struct {
	GroupID   string          `json:"groupId"`
	UserID    string          `json:"userId"`
	UserName  string          `json:"userName"`
	Amount    decimal.Decimal `json:"amount"`
	WithProof bool            `json:"withProof"`
	At        time.Time       `json:"at"`
}

func (PaymentRecorded) EventName() string { return "payment_recorded" }
func (e PaymentRecorded) Group() string   { return e.GroupID }

// ProofValidated is published after the group creator approves or rejects
// a proof of payment.
type ProofValidated struct {
	GroupID     string    `json:"groupId"`
	UserID      string    `json:"userId"`
	ValidatedBy string    `json:"validatedBy"`
	Approved    bool      `json:"approved"`
	Comment     string    `json:"comment,omitempty"`
	At          time.Time `json:"at"`
}

func (ProofValidated) EventName() string { return "proof_validated" }
func (e ProofValidated) Group() string   { return e.GroupID }

// Notifier delivers events to the live subscribers of a group channel.
// Delivery is best-effort and at-most-once; implementations must not
// block and must never surface delivery failures to the caller. The
// engine publishes only after the state change has committed.
type Notifier interface {
	Publish(event Event)
}

// NopNotifier discards all events. Useful when wiring the engine without
// a live fan-out, and in tests that don't observe notifications.
type NopNotifier struct{}

func (NopNotifier) Publish(Event) {}
