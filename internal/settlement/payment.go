package settlement

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rcampano/vaquita/internal/metrics"
	"github.com/rcampano/vaquita/internal/models"
)

// PaymentResult is the outcome of a successful payment recording.
type PaymentResult struct {
	GroupID   string
	UserID    string
	UserName  string
	Amount    decimal.Decimal
	WithProof bool
	PaidAt    time.Time
}

// RecordPaymentWithoutProof marks the participant paid for their stored
// share. The participant update and the payment-history insert commit in
// one transaction; the PaymentRecorded event is published only after the
// commit. Paying twice fails with AlreadyPaid.
func (s *Service) RecordPaymentWithoutProof(ctx context.Context, groupID, userID, method string) (*PaymentResult, error) {
	return s.recordPayment(ctx, groupID, userID, method, "", decimal.Zero)
}

// RecordPaymentWithProof marks the participant paid for the
// caller-supplied amount and attaches the proof payload. The amount is
// trusted as reported; reconciling it against the stored share is up to
// the creator's validation.
func (s *Service) RecordPaymentWithProof(ctx context.Context, groupID, userID, method, proof string, amount decimal.Decimal) (*PaymentResult, error) {
	if proof == "" {
		return nil, E(InvalidInput, "proof payload is required")
	}
	if !amount.IsPositive() {
		return nil, E(InvalidInput, "paid amount must be positive")
	}
	return s.recordPayment(ctx, groupID, userID, method, proof, amount)
}

func (s *Service) recordPayment(ctx context.Context, groupID, userID, method, proof string, amount decimal.Decimal) (*PaymentResult, error) {
	withProof := proof != ""
	slog.Info("RecordPayment requested",
		"group_id", groupID,
		"user_id", userID,
		"with_proof", withProof,
	)

	participant, err := s.store.GetParticipant(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if participant.Paid {
		return nil, E(AlreadyPaid, "participant has already paid")
	}

	// Without a proof the amount is the stored share, not caller input.
	if !withProof {
		amount = participant.Share
	}

	paidAt := time.Now()
	err = s.store.MarkPaid(ctx, MarkPaidParams{
		GroupID: groupID,
		UserID:  userID,
		Amount:  amount,
		Method:  method,
		Proof:   proof,
		At:      paidAt,
	})
	if err != nil {
		slog.Error("RecordPayment failed", "group_id", groupID, "user_id", userID, "error", err)
		return nil, err
	}

	metrics.PaymentsRecorded.WithLabelValues(boolLabel(withProof)).Inc()

	// The state change is committed; delivery problems stay in the hub.
	s.notifier.Publish(PaymentRecorded{
		GroupID:   groupID,
		UserID:    userID,
		UserName:  participant.Name,
		Amount:    amount,
		WithProof: withProof,
		At:        paidAt,
	})

	slog.Info("Payment recorded",
		"group_id", groupID,
		"user_id", userID,
		"amount", amount,
		"with_proof", withProof,
	)

	return &PaymentResult{
		GroupID:   groupID,
		UserID:    userID,
		UserName:  participant.Name,
		Amount:    amount,
		WithProof: withProof,
		PaidAt:    paidAt,
	}, nil
}

// ValidationResult is the outcome of a proof validation decision.
type ValidationResult struct {
	GroupID     string
	UserID      string
	ValidatedBy string
	Approved    bool
	ValidatedAt time.Time
}

// ValidateProof records the creator's decision on a proof-carrying
// payment. Any caller other than the group's creator is rejected before
// the participant's state is even looked at. A rejection is terminal: it
// does not reset the participant to pending.
func (s *Service) ValidateProof(ctx context.Context, groupID, userID, validatorID string, approved bool, comment string) (*ValidationResult, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.CreatorID != validatorID {
		slog.Warn("ValidateProof denied", "group_id", groupID, "validator_id", validatorID)
		return nil, E(Unauthorized, "only the group creator can validate proofs of payment")
	}

	validatedAt := time.Now()
	err = s.store.SetProofValidation(ctx, ProofValidationParams{
		GroupID:     groupID,
		UserID:      userID,
		Approved:    approved,
		ValidatedBy: validatorID,
		Note:        comment,
		At:          validatedAt,
	})
	if err != nil {
		return nil, err
	}

	outcome := "rejected"
	if approved {
		outcome = "approved"
	}
	metrics.ProofValidations.WithLabelValues(outcome).Inc()

	s.notifier.Publish(ProofValidated{
		GroupID:     groupID,
		UserID:      userID,
		ValidatedBy: validatorID,
		Approved:    approved,
		Comment:     comment,
		At:          validatedAt,
	})

	slog.Info("Proof validated",
		"group_id", groupID,
		"user_id", userID,
		"outcome", outcome,
	)

	return &ValidationResult{
		GroupID:     groupID,
		UserID:      userID,
		ValidatedBy: validatorID,
		Approved:    approved,
		ValidatedAt: validatedAt,
	}, nil
}

// GetPendingPayments lists every group where the user still owes their
// share, annotated with creator contact info and group progress.
func (s *Service) GetPendingPayments(ctx context.Context, userID string) ([]*PendingPayment, error) {
	rows, err := s.store.ListPendingForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	for _, r := range rows {
		r.DaysOpen = int(now.Sub(time.Unix(r.CreatedAt, 0)).Hours() / 24)
		if r.DaysOpen > 7 {
			r.Urgency = "high"
		} else {
			r.Urgency = "normal"
		}
	}
	slog.Debug("GetPendingPayments", "user_id", userID, "count", len(rows))
	return rows, nil
}

// ProofOfPayment is the full proof payload for one payer, returned only
// by this targeted lookup; every list projection truncates to a preview.
type ProofOfPayment struct {
	GroupID   string
	GroupName string
	UserID    string
	UserName  string
	Phone     string
	Share     decimal.Decimal
	PaidAt    *time.Time
	Method    string
	HasProof  bool
	Proof     string
	Status    models.ProofStatus
}

// GetProofOfPayment fetches one participant's payment with the complete
// proof payload. Participants that have not paid are NotFound.
func (s *Service) GetProofOfPayment(ctx context.Context, groupID, userID string) (*ProofOfPayment, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	participant, err := s.store.GetParticipant(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if !participant.Paid {
		return nil, E(NotFound, "participant has not paid")
	}
	return &ProofOfPayment{
		GroupID:   groupID,
		GroupName: group.Name,
		UserID:    userID,
		UserName:  participant.Name,
		Phone:     participant.Phone,
		Share:     participant.Share,
		PaidAt:    participant.PaidAt,
		Method:    participant.Method,
		HasProof:  participant.HasProof(),
		Proof:     participant.Proof,
		Status:    participant.ProofStatus,
	}, nil
}

// ProofSummary is one payer in the group proof roster.
type ProofSummary struct {
	UserID       string
	Name         string
	Phone        string
	Share        decimal.Decimal
	PaidAt       *time.Time
	Method       string
	HasProof     bool
	ProofPreview string
	Status       models.ProofStatus
}

// GroupProofs is the roster of recorded payments for a group, with proof
// coverage percentages.
type GroupProofs struct {
	GroupID       string
	GroupName     string
	CreatorID     string
	CreatorName   string
	TotalPayments int
	WithProof     int
	WithoutProof  int
	WithProofPct  decimal.Decimal
	Proofs        []ProofSummary
}

// ListGroupProofs returns every payer of a group with a truncated proof
// preview, most recent payment first.
func (s *Service) ListGroupProofs(ctx context.Context, groupID string) (*GroupProofs, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	creator, err := s.store.GetUserByID(ctx, group.CreatorID)
	if err != nil {
		return nil, err
	}
	records, err := s.store.ListParticipants(ctx, groupID)
	if err != nil {
		return nil, err
	}

	out := &GroupProofs{
		GroupID:     groupID,
		GroupName:   group.Name,
		CreatorID:   group.CreatorID,
		CreatorName: creator.Name,
	}
	for _, r := range records {
		if !r.Paid {
			continue
		}
		out.TotalPayments++
		if r.HasProof() {
			out.WithProof++
		} else {
			out.WithoutProof++
		}
		out.Proofs = append(out.Proofs, ProofSummary{
			UserID:       r.UserID,
			Name:         r.Name,
			Phone:        r.Phone,
			Share:        r.Share,
			PaidAt:       r.PaidAt,
			Method:       r.Method,
			HasProof:     r.HasProof(),
			ProofPreview: r.ProofPreview(proofPreviewLong),
			Status:       r.ProofStatus,
		})
	}
	if out.TotalPayments > 0 {
		out.WithProofPct = decimal.NewFromInt(int64(out.WithProof)).
			Div(decimal.NewFromInt(int64(out.TotalPayments))).
			Mul(decimal.NewFromInt(100)).
			Round(1)
	}
	// Most recent payment first.
	sort.SliceStable(out.Proofs, func(i, j int) bool {
		a, b := out.Proofs[i].PaidAt, out.Proofs[j].PaidAt
		if a == nil || b == nil {
			return b == nil && a != nil
		}
		return a.After(*b)
	})
	return out, nil
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
