package settlement

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rcampano/vaquita/internal/calculator"
	"github.com/rcampano/vaquita/internal/metrics"
	"github.com/rcampano/vaquita/internal/models"
)

// CreateGroupInput describes a group-creation request. Participants are
// referenced by phone number; every phone must resolve to an existing
// user or the whole creation fails.
type CreateGroupInput struct {
	Name        string
	CreatorID   string
	Total       decimal.Decimal
	Category    string
	DueDate     *time.Time
	Description string

	// ParticipantPhones lists the payers. The creator is not implicitly
	// included; add their phone to make them a payer too.
	ParticipantPhones []string

	// CustomSplit switches from equal division to the caller-supplied
	// CustomAmounts vector (by position, short vectors pad with zero).
	CustomSplit   bool
	CustomAmounts []decimal.Decimal
}

// CreateGroupResult is the created group plus its computed shares.
type CreateGroupResult struct {
	Group        *models.Group
	Participants []*models.Participant
}

// CreateGroup validates the request, resolves every participant phone,
// computes shares, and persists the group with all participant rows in
// one transaction.
func (s *Service) CreateGroup(ctx context.Context, in CreateGroupInput) (*CreateGroupResult, error) {
	slog.Info("CreateGroup requested",
		"name", in.Name,
		"creator_id", in.CreatorID,
		"participants", len(in.ParticipantPhones),
		"custom_split", in.CustomSplit,
	)

	if !in.Total.IsPositive() {
		return nil, E(InvalidInput, "total amount must be positive")
	}
	if len(in.ParticipantPhones) == 0 {
		return nil, E(InvalidInput, "participant list must not be empty")
	}

	creator, err := s.store.GetUserByID(ctx, in.CreatorID)
	if err != nil {
		return nil, err
	}

	var shares []decimal.Decimal
	if in.CustomSplit && len(in.CustomAmounts) > 0 {
		shares, err = calculator.CustomSplit(in.CustomAmounts, len(in.ParticipantPhones))
	} else {
		shares, err = calculator.EqualSplit(in.Total, len(in.ParticipantPhones))
	}
	if err != nil {
		return nil, Wrap(InvalidInput, err, "cannot split total")
	}

	category := in.Category
	if category == "" {
		category = "general"
	}

	group := &models.Group{
		Name:        in.Name,
		Total:       in.Total,
		Category:    category,
		DueDate:     in.DueDate,
		Description: in.Description,
		CreatorID:   creator.ID,
	}

	// All-or-nothing: an unknown phone aborts the creation before any
	// row is written.
	participants := make([]*models.Participant, len(in.ParticipantPhones))
	for i, phone := range in.ParticipantPhones {
		if shares[i].IsNegative() {
			return nil, E(InvalidInput, "share for %s is negative", phone)
		}
		user, err := s.store.GetUserByPhone(ctx, phone)
		if err != nil {
			if IsKind(err, NotFound) {
				return nil, E(NotFound, "no user registered with phone %s", phone)
			}
			return nil, err
		}
		participants[i] = &models.Participant{
			UserID: user.ID,
			Share:  shares[i],
		}
	}

	if err := s.store.CreateGroup(ctx, group, participants); err != nil {
		slog.Error("CreateGroup failed", "name", in.Name, "error", err)
		return nil, err
	}

	slog.Info("Group created", "group_id", group.ID, "total", group.Total)
	return &CreateGroupResult{Group: group, Participants: participants}, nil
}

// ParticipantDetail is one row of the group detail projection. The proof
// payload is truncated to a preview; fetch the full proof with
// GetProofOfPayment.
type ParticipantDetail struct {
	UserID         string
	Name           string
	Phone          string
	Share          decimal.Decimal
	AmountPaid     decimal.Decimal
	Paid           bool
	PaidAt         *time.Time
	Method         string
	HasProof       bool
	ProofPreview   string
	ProofStatus    models.ProofStatus
	ValidatedAt    *time.Time
	ValidatedBy    string
	ValidationNote string
}

// ProofStats summarizes proof coverage across a group's payers.
type ProofStats struct {
	Participants int
	PaidCount    int
	WithProof    int
	WithoutProof int
	WithProofPct decimal.Decimal
}

// GroupDetail is the full read projection for one group.
type GroupDetail struct {
	Group        models.Group
	Participants []ParticipantDetail
	TotalPaid    decimal.Decimal
	Urgency      models.Urgency
	ProofStats   ProofStats
}

// GetGroupDetail returns the group, its participants with proof
// annotations, the paid aggregate, and the due-date urgency flags.
func (s *Service) GetGroupDetail(ctx context.Context, groupID string) (*GroupDetail, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	records, err := s.store.ListParticipants(ctx, groupID)
	if err != nil {
		return nil, err
	}

	totalPaid, err := s.store.TotalPaid(ctx, groupID)
	if err != nil {
		return nil, err
	}

	detail := &GroupDetail{
		Group:     *group,
		TotalPaid: totalPaid,
		Urgency:   models.UrgencyAt(group.DueDate, time.Now()),
	}

	stats := ProofStats{Participants: len(records)}
	for _, r := range records {
		amountPaid := decimal.Zero
		if r.Paid {
			amountPaid = r.Share
			stats.PaidCount++
			if r.HasProof() {
				stats.WithProof++
			} else {
				stats.WithoutProof++
			}
		}
		detail.Participants = append(detail.Participants, ParticipantDetail{
			UserID:         r.UserID,
			Name:           r.Name,
			Phone:          r.Phone,
			Share:          r.Share,
			AmountPaid:     amountPaid,
			Paid:           r.Paid,
			PaidAt:         r.PaidAt,
			Method:         r.Method,
			HasProof:       r.HasProof(),
			ProofPreview:   r.ProofPreview(proofPreviewShort),
			ProofStatus:    r.ProofStatus,
			ValidatedAt:    r.ValidatedAt,
			ValidatedBy:    r.ValidatedBy,
			ValidationNote: r.ValidationNote,
		})
	}
	if stats.Participants > 0 {
		stats.WithProofPct = decimal.NewFromInt(int64(stats.WithProof)).
			Div(decimal.NewFromInt(int64(stats.Participants))).
			Mul(decimal.NewFromInt(100)).
			Round(1)
	}
	detail.ProofStats = stats

	return detail, nil
}

// ListGroupsForUser returns every group where the user is creator or
// participant, annotated with their role, share, paid flag, and urgency.
func (s *Service) ListGroupsForUser(ctx context.Context, userID string) ([]*GroupListEntry, error) {
	entries, err := s.store.ListGroupsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	for _, e := range entries {
		e.Urgency = models.UrgencyAt(e.Group.DueDate, now)
	}
	slog.Debug("ListGroupsForUser", "user_id", userID, "count", len(entries))
	return entries, nil
}

// DeleteGroupResult reports what a cascade delete removed, for audit.
type DeleteGroupResult struct {
	GroupID             string
	GroupName           string
	CreatorID           string
	DeletedBy           string
	Total               decimal.Decimal
	DeletedPayments     int
	DeletedParticipants int
}

// DeleteGroup hard-deletes a group and everything under it. Only the
// creator may delete; the three-table cascade runs in one transaction.
func (s *Service) DeleteGroup(ctx context.Context, groupID, callerID string) (*DeleteGroupResult, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if group.CreatorID != callerID {
		slog.Warn("DeleteGroup denied", "group_id", groupID, "caller_id", callerID, "creator_id", group.CreatorID)
		return nil, E(Unauthorized, "only the group creator can delete the group")
	}

	payments, participants, err := s.store.DeleteGroupCascade(ctx, groupID)
	if err != nil {
		return nil, err
	}

	metrics.GroupsDeleted.Inc()
	slog.Info("Group deleted",
		"group_id", groupID,
		"deleted_by", callerID,
		"payments_deleted", payments,
		"participants_deleted", participants,
	)

	return &DeleteGroupResult{
		GroupID:             groupID,
		GroupName:           group.Name,
		CreatorID:           group.CreatorID,
		DeletedBy:           callerID,
		Total:               group.Total,
		DeletedPayments:     payments,
		DeletedParticipants: participants,
	}, nil
}

// DeletePreview is the read-only answer to "can this user delete this
// group, and what would go with it".
type DeletePreview struct {
	GroupID          string
	GroupName        string
	CreatorID        string
	CreatorName      string
	IsCreator        bool
	CanDelete        bool
	Warnings         []string
	ParticipantCount int
	PaymentCount     int
	PaidCount        int
	Total            decimal.Decimal
}

// PreviewDelete checks deletion permission without changing anything and
// collects warnings about data the cascade would remove.
func (s *Service) PreviewDelete(ctx context.Context, groupID, callerID string) (*DeletePreview, error) {
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
	paymentCount, err := s.store.CountPayments(ctx, groupID)
	if err != nil {
		return nil, err
	}

	paid := 0
	for _, r := range records {
		if r.Paid {
			paid++
		}
	}

	p := &DeletePreview{
		GroupID:          groupID,
		GroupName:        group.Name,
		CreatorID:        group.CreatorID,
		CreatorName:      creator.Name,
		IsCreator:        group.CreatorID == callerID,
		CanDelete:        group.CreatorID == callerID,
		ParticipantCount: len(records),
		PaymentCount:     paymentCount,
		PaidCount:        paid,
		Total:            group.Total,
	}
	if !p.IsCreator {
		p.Warnings = append(p.Warnings, "only the group creator can delete the group")
	}
	if paymentCount > 0 {
		p.Warnings = append(p.Warnings, fmt.Sprintf("the group has %d recorded payments that will be removed", paymentCount))
	}
	if paid > 0 {
		p.Warnings = append(p.Warnings, fmt.Sprintf("%d participants have already paid", paid))
	}
	return p, nil
}

// CreatorCheck answers the creator-identity preflight used by clients
// before showing creator-only actions.
type CreatorCheck struct {
	GroupID     string
	UserID      string
	GroupName   string
	CreatorID   string
	CreatorName string
	IsCreator   bool
}

// VerifyCreator reports whether the user is the group's creator.
func (s *Service) VerifyCreator(ctx context.Context, groupID, userID string) (*CreatorCheck, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	creator, err := s.store.GetUserByID(ctx, group.CreatorID)
	if err != nil {
		return nil, err
	}
	return &CreatorCheck{
		GroupID:     groupID,
		UserID:      userID,
		GroupName:   group.Name,
		CreatorID:   group.CreatorID,
		CreatorName: creator.Name,
		IsCreator:   group.CreatorID == userID,
	}, nil
}

// GetCategoryStatistics aggregates the user's groups by category.
func (s *Service) GetCategoryStatistics(ctx context.Context, userID string) ([]*CategoryStat, error) {
	stats, err := s.store.CategoryStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	slog.Debug("GetCategoryStatistics", "user_id", userID, "categories", len(stats))
	return stats, nil
}

// GetUpcomingDueDates lists the user's unpaid participations with a due
// date, including dates missed up to a week ago, soonest first.
func (s *Service) GetUpcomingDueDates(ctx context.Context, userID string) ([]*UpcomingDue, error) {
	now := time.Now()
	rows, err := s.store.ListUpcomingDue(ctx, userID, now.AddDate(0, 0, -7))
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		due := r.DueDate
		r.Urgency = models.UrgencyAt(&due, now)
	}
	return rows, nil
}
