package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rcampano/vaquita/internal/settlement"
)

// ListGroupsForUser returns every group the user belongs to or created,
// newest first, annotated with the user's role, share and payment state
// plus participant counts.
func (s *Store) ListGroupsForUser(ctx context.Context, userID string) ([]*settlement.GroupListEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT g.id, g.name, g.total, g.category, g.due_date, g.description,
		        g.creator_id, g.created_at,
		        COALESCE(p.share, '0'), COALESCE(p.paid, 0),
		        (SELECT COUNT(*) FROM participants WHERE group_id = g.id),
		        (SELECT COUNT(*) FROM participants WHERE group_id = g.id AND paid = 1)
		 FROM groups g
		 LEFT JOIN participants p ON p.group_id = g.id AND p.user_id = ?
		 WHERE g.creator_id = ? OR p.user_id IS NOT NULL
		 ORDER BY g.created_at DESC`,
		userID, userID,
	)
	if err != nil {
		return nil, persistErr(err, "failed to list groups")
	}
	defer rows.Close()

	var entries []*settlement.GroupListEntry
	for rows.Next() {
		e := &settlement.GroupListEntry{}
		var total, share string
		var dueDate sql.NullInt64
		err := rows.Scan(&e.Group.ID, &e.Group.Name, &total, &e.Group.Category,
			&dueDate, &e.Group.Description, &e.Group.CreatorID, &e.Group.CreatedAt,
			&share, &e.Paid, &e.ParticipantCount, &e.PaidCount)
		if err != nil {
			return nil, persistErr(err, "failed to scan group")
		}
		if e.Group.Total, err = scanDec(total); err != nil {
			return nil, persistErr(err, "failed to parse group total")
		}
		if e.Share, err = scanDec(share); err != nil {
			return nil, persistErr(err, "failed to parse share")
		}
		e.Group.DueDate = timeCol(dueDate)
		e.IsCreator = e.Group.CreatorID == userID
		if e.IsCreator {
			e.Role = "creator"
		} else {
			e.Role = "participant"
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr(err, "failed to iterate groups")
	}
	return entries, nil
}

// ListPendingForUser returns the user's unpaid participations, newest
// group first, joined with the creator's contact fields and the group's
// settlement progress.
func (s *Store) ListPendingForUser(ctx context.Context, userID string) ([]*settlement.PendingPayment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT g.id, g.name, g.total, p.share, g.created_at, u.name, u.phone,
		        (SELECT COUNT(*) FROM participants WHERE group_id = g.id),
		        (SELECT COUNT(*) FROM participants WHERE group_id = g.id AND paid = 1)
		 FROM participants p
		 JOIN groups g ON g.id = p.group_id
		 JOIN users u ON u.id = g.creator_id
		 WHERE p.user_id = ? AND p.paid = 0
		 ORDER BY g.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, persistErr(err, "failed to list pending payments")
	}
	defer rows.Close()

	var pending []*settlement.PendingPayment
	for rows.Next() {
		pp := &settlement.PendingPayment{}
		var total, share string
		err := rows.Scan(&pp.GroupID, &pp.GroupName, &total, &share, &pp.CreatedAt,
			&pp.CreatorName, &pp.CreatorPhone, &pp.ParticipantCount, &pp.PaidCount)
		if err != nil {
			return nil, persistErr(err, "failed to scan pending payment")
		}
		if pp.GroupTotal, err = scanDec(total); err != nil {
			return nil, persistErr(err, "failed to parse group total")
		}
		if pp.Share, err = scanDec(share); err != nil {
			return nil, persistErr(err, "failed to parse share")
		}
		if pp.ParticipantCount > 0 {
			pp.PaidPercent = pp.PaidCount * 100 / pp.ParticipantCount
		}
		pending = append(pending, pp)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr(err, "failed to iterate pending payments")
	}
	return pending, nil
}

// ListUpcomingDue returns the user's unpaid participations in groups with
// a due date at or after since, soonest first.
func (s *Store) ListUpcomingDue(ctx context.Context, userID string, since time.Time) ([]*settlement.UpcomingDue, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT g.id, g.name, g.category, g.due_date, p.share
		 FROM participants p
		 JOIN groups g ON g.id = p.group_id
		 WHERE p.user_id = ? AND p.paid = 0
		   AND g.due_date IS NOT NULL AND g.due_date >= ?
		 ORDER BY g.due_date ASC`,
		userID, since.Unix(),
	)
	if err != nil {
		return nil, persistErr(err, "failed to list upcoming due dates")
	}
	defer rows.Close()

	var due []*settlement.UpcomingDue
	for rows.Next() {
		d := &settlement.UpcomingDue{}
		var share string
		var dueDate int64
		err := rows.Scan(&d.GroupID, &d.GroupName, &d.Category, &dueDate, &share)
		if err != nil {
			return nil, persistErr(err, "failed to scan upcoming due date")
		}
		if d.Share, err = scanDec(share); err != nil {
			return nil, persistErr(err, "failed to parse share")
		}
		d.DueDate = time.Unix(dueDate, 0)
		due = append(due, d)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr(err, "failed to iterate upcoming due dates")
	}
	return due, nil
}

// CategoryStats aggregates the groups the user belongs to or created by
// category, largest total first. Sums go through REAL and are rounded
// back to cents.
func (s *Store) CategoryStats(ctx context.Context, userID string) ([]*settlement.CategoryStat, error) {
	// Participants are pre-aggregated per group so the join does not fan
	// out the group totals.
	rows, err := s.db.QueryContext(ctx,
		`SELECT g.category, COUNT(*),
		        SUM(CAST(g.total AS REAL)), AVG(CAST(g.total AS REAL)),
		        SUM(pc.paid_count), SUM(pc.amount_paid), SUM(pc.amount_pending)
		 FROM groups g
		 JOIN (SELECT group_id,
		              SUM(CASE WHEN paid = 1 THEN 1 ELSE 0 END) AS paid_count,
		              SUM(CASE WHEN paid = 1 THEN CAST(share AS REAL) ELSE 0 END) AS amount_paid,
		              SUM(CASE WHEN paid = 0 THEN CAST(share AS REAL) ELSE 0 END) AS amount_pending
		       FROM participants
		       GROUP BY group_id) pc ON pc.group_id = g.id
		 WHERE g.creator_id = ? OR g.id IN
		       (SELECT group_id FROM participants WHERE user_id = ?)
		 GROUP BY g.category
		 ORDER BY SUM(CAST(g.total AS REAL)) DESC`,
		userID, userID,
	)
	if err != nil {
		return nil, persistErr(err, "failed to aggregate categories")
	}
	defer rows.Close()

	var stats []*settlement.CategoryStat
	for rows.Next() {
		st := &settlement.CategoryStat{}
		var total, avg, paid, pending float64
		err := rows.Scan(&st.Category, &st.GroupCount, &total, &avg,
			&st.PaidCount, &paid, &pending)
		if err != nil {
			return nil, persistErr(err, "failed to scan category stats")
		}
		st.TotalAmount = decimal.NewFromFloat(total).Round(2)
		st.AverageAmount = decimal.NewFromFloat(avg).Round(2)
		st.AmountPaid = decimal.NewFromFloat(paid).Round(2)
		st.AmountPending = decimal.NewFromFloat(pending).Round(2)
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr(err, "failed to iterate category stats")
	}
	return stats, nil
}
