package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rcampano/vaquita/internal/models"
	"github.com/rcampano/vaquita/internal/settlement"
)

const participantColumns = `p.group_id, p.user_id, p.share, p.paid, p.paid_at,
	p.method, p.proof, p.proof_status, p.validated_at, p.validated_by, p.validation_note,
	u.name, u.phone`

func scanParticipant(row interface{ Scan(...any) error }) (*settlement.ParticipantRecord, error) {
	rec := &settlement.ParticipantRecord{}
	var share string
	var paidAt, validatedAt sql.NullInt64
	err := row.Scan(&rec.GroupID, &rec.UserID, &share, &rec.Paid, &paidAt,
		&rec.Method, &rec.Proof, &rec.ProofStatus, &validatedAt,
		&rec.ValidatedBy, &rec.ValidationNote, &rec.Name, &rec.Phone)
	if err != nil {
		return nil, err
	}
	if rec.Share, err = scanDec(share); err != nil {
		return nil, err
	}
	rec.PaidAt = timeCol(paidAt)
	rec.ValidatedAt = timeCol(validatedAt)
	return rec, nil
}

// GetParticipant retrieves one participant joined with the owning user.
func (s *Store) GetParticipant(ctx context.Context, groupID, userID string) (*settlement.ParticipantRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+participantColumns+`
		 FROM participants p
		 JOIN users u ON u.id = p.user_id
		 WHERE p.group_id = ? AND p.user_id = ?`,
		groupID, userID,
	)
	rec, err := scanParticipant(row)
	if err == sql.ErrNoRows {
		return nil, settlement.E(settlement.NotFound, "participant %s not found in group %s", userID, groupID)
	}
	if err != nil {
		return nil, persistErr(err, "failed to get participant")
	}
	return rec, nil
}

// ListParticipants retrieves all participants of a group, joined with
// their user records, ordered by display name.
func (s *Store) ListParticipants(ctx context.Context, groupID string) ([]*settlement.ParticipantRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+participantColumns+`
		 FROM participants p
		 JOIN users u ON u.id = p.user_id
		 WHERE p.group_id = ?
		 ORDER BY u.name`,
		groupID,
	)
	if err != nil {
		return nil, persistErr(err, "failed to list participants")
	}
	defer rows.Close()

	var records []*settlement.ParticipantRecord
	for rows.Next() {
		rec, err := scanParticipant(rows)
		if err != nil {
			return nil, persistErr(err, "failed to scan participant")
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr(err, "failed to iterate participants")
	}
	return records, nil
}

// TotalPaid sums the payment history of a group.
func (s *Store) TotalPaid(ctx context.Context, groupID string) (decimal.Decimal, error) {
	var total float64
	err := s.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(CAST(amount AS REAL)), 0) FROM payments WHERE group_id = ?",
		groupID,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, persistErr(err, "failed to sum payments")
	}
	return decimal.NewFromFloat(total).Round(2), nil
}

// CountPayments counts the payment history rows of a group.
func (s *Store) CountPayments(ctx context.Context, groupID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM payments WHERE group_id = ?", groupID,
	).Scan(&n)
	if err != nil {
		return 0, persistErr(err, "failed to count payments")
	}
	return n, nil
}

// MarkPaid flips the participant to paid and appends the payment history
// row in one transaction. The update is guarded on paid = 0 so a second
// concurrent attempt affects no rows and surfaces as AlreadyPaid.
func (s *Store) MarkPaid(ctx context.Context, p settlement.MarkPaidParams) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return persistErr(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	paidAt := p.At
	if paidAt.IsZero() {
		paidAt = time.Now()
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE participants
		 SET paid = 1, paid_at = ?, method = ?, proof = ?
		 WHERE group_id = ? AND user_id = ? AND paid = 0`,
		paidAt.Unix(), p.Method, p.Proof, p.GroupID, p.UserID,
	)
	if err != nil {
		return persistErr(err, "failed to mark participant paid")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Either the participant does not exist or has already paid;
		// re-read to tell the two apart.
		var paid bool
		err := tx.QueryRowContext(ctx,
			"SELECT paid FROM participants WHERE group_id = ? AND user_id = ?",
			p.GroupID, p.UserID,
		).Scan(&paid)
		if err == sql.ErrNoRows {
			return settlement.E(settlement.NotFound, "participant %s not found in group %s", p.UserID, p.GroupID)
		}
		if err != nil {
			return persistErr(err, "failed to check participant state")
		}
		return settlement.E(settlement.AlreadyPaid, "participant has already paid")
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO payments (id, group_id, user_id, amount, paid_at)
		 VALUES (?, ?, ?, ?, ?)`,
		uuid.New().String(), p.GroupID, p.UserID, decCol(p.Amount), paidAt.Unix(),
	)
	if err != nil {
		return persistErr(err, "failed to insert payment")
	}

	if err := tx.Commit(); err != nil {
		return persistErr(err, "failed to commit transaction")
	}
	return nil
}

// SetProofValidation records the creator's decision. Only a paid
// participant carrying a proof qualifies; the WHERE clause enforces both
// so anything else affects no rows.
func (s *Store) SetProofValidation(ctx context.Context, p settlement.ProofValidationParams) error {
	status := models.ProofRejected
	if p.Approved {
		status = models.ProofApproved
	}
	at := p.At
	if at.IsZero() {
		at = time.Now()
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE participants
		 SET proof_status = ?, validated_at = ?, validated_by = ?, validation_note = ?
		 WHERE group_id = ? AND user_id = ? AND paid = 1 AND proof != ''`,
		status, at.Unix(), p.ValidatedBy, p.Note, p.GroupID, p.UserID,
	)
	if err != nil {
		return persistErr(err, "failed to set proof validation")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return settlement.E(settlement.NotFound,
			"participant %s not found in group %s, has not paid, or has no proof", p.UserID, p.GroupID)
	}
	return nil
}
