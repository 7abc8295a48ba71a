// Package settlement implements the core of the expense-splitting engine:
// group lifecycle, the per-participant payment state machine, and the
// fan-out of settlement-state changes. It consumes a persistence interface
// and a notification interface and knows nothing about transports.
package settlement

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rcampano/vaquita/internal/models"
)

// Proof previews are truncated so list projections never carry the full
// image payload. Detail rows use the short form, the proof roster the
// longer one.
const (
	proofPreviewShort = 50
	proofPreviewLong  = 100
)

// ParticipantRecord is a participant joined with the owning user's
// display fields, as every read projection needs them together.
type ParticipantRecord struct {
	models.Participant
	Name  string
	Phone string
}

// MarkPaidParams carries one payment recording: the guarded participant
// update and the payment-history insert execute in a single transaction.
type MarkPaidParams struct {
	GroupID string
	UserID  string
	Amount  decimal.Decimal
	Method  string
	Proof   string
	At      time.Time
}

// ProofValidationParams carries one validation decision by the creator.
type ProofValidationParams struct {
	GroupID     string
	UserID      string
	Approved    bool
	ValidatedBy string
	Note        string
	At          time.Time
}

// GroupListEntry is one row of the per-user group list, annotated with
// the querying user's role and payment state.
type GroupListEntry struct {
	Group            models.Group
	Role             string // "creator" or "participant"
	IsCreator        bool
	Share            decimal.Decimal
	Paid             bool
	ParticipantCount int
	PaidCount        int
	Urgency          models.Urgency
}

// PendingPayment is one unpaid participation of the querying user.
type PendingPayment struct {
	GroupID          string
	GroupName        string
	GroupTotal       decimal.Decimal
	Share            decimal.Decimal
	CreatedAt        int64
	CreatorName      string
	CreatorPhone     string
	ParticipantCount int
	PaidCount        int
	PaidPercent      int
	DaysOpen         int
	Urgency          string // "high" after a week open, else "normal"
}

// UpcomingDue is one unpaid participation with an approaching (or
// recently missed) due date.
type UpcomingDue struct {
	GroupID   string
	GroupName string
	Category  string
	DueDate   time.Time
	Share     decimal.Decimal
	Urgency   models.Urgency
}

// CategoryStat aggregates the querying user's groups by category.
type CategoryStat struct {
	Category      string
	GroupCount    int
	TotalAmount   decimal.Decimal
	AverageAmount decimal.Decimal
	PaidCount     int
	AmountPaid    decimal.Decimal
	AmountPending decimal.Decimal
}

// Store is the persistence interface the engine consumes. Multi-row
// writes behind a single method (CreateGroup, MarkPaid,
// DeleteGroupCascade) are atomic: either every row commits or none does.
// Implementations return *Error values so callers can branch on Kind.
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByPhone(ctx context.Context, phone string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// CreateGroup persists the group and all participant rows in one
	// transaction, generating the group ID.
	CreateGroup(ctx context.Context, group *models.Group, participants []*models.Participant) error
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	// DeleteGroupCascade removes payments, then participants, then the
	// group, in one transaction, and reports the removed row counts.
	DeleteGroupCascade(ctx context.Context, groupID string) (paymentsDeleted, participantsDeleted int, err error)

	GetParticipant(ctx context.Context, groupID, userID string) (*ParticipantRecord, error)
	ListParticipants(ctx context.Context, groupID string) ([]*ParticipantRecord, error)
	TotalPaid(ctx context.Context, groupID string) (decimal.Decimal, error)
	CountPayments(ctx context.Context, groupID string) (int, error)

	// MarkPaid flips the participant to paid and appends the payment row
	// atomically. The update is guarded on paid=false so concurrent
	// attempts serialize: the loser gets an AlreadyPaid error.
	MarkPaid(ctx context.Context, p MarkPaidParams) error
	// SetProofValidation records the creator's decision on a
	// proof-carrying payment. Only participants that are paid and carry
	// a proof qualify; anything else is NotFound.
	SetProofValidation(ctx context.Context, p ProofValidationParams) error

	ListGroupsForUser(ctx context.Context, userID string) ([]*GroupListEntry, error)
	ListPendingForUser(ctx context.Context, userID string) ([]*PendingPayment, error)
	ListUpcomingDue(ctx context.Context, userID string, since time.Time) ([]*UpcomingDue, error)
	CategoryStats(ctx context.Context, userID string) ([]*CategoryStat, error)
}

// Service exposes the settlement operations. All dependencies are
// constructor-injected; the service holds no mutable state of its own.
type Service struct {
	store    Store
	notifier Notifier
}

// New creates a settlement service over the given store and notifier.
func New(store Store, notifier Notifier) *Service {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Service{store: store, notifier: notifier}
}
