package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/rcampano/vaquita/internal/models"
	"github.com/rcampano/vaquita/internal/settlement"
)

// CreateGroup persists the group and all participant rows in a single
// transaction: either the whole group exists afterwards or none of it.
func (s *Store) CreateGroup(ctx context.Context, group *models.Group, participants []*models.Participant) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return persistErr(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO groups (id, name, total, category, due_date, description, creator_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		group.ID, group.Name, decCol(group.Total), group.Category,
		unixCol(group.DueDate), group.Description, group.CreatorID, group.CreatedAt,
	)
	if err != nil {
		return persistErr(err, "failed to insert group")
	}

	for _, p := range participants {
		p.GroupID = group.ID
		_, err = tx.ExecContext(ctx,
			"INSERT INTO participants (group_id, user_id, share) VALUES (?, ?, ?)",
			group.ID, p.UserID, decCol(p.Share),
		)
		if err != nil {
			return persistErr(err, "failed to insert participant %s", p.UserID)
		}
	}

	if err := tx.Commit(); err != nil {
		return persistErr(err, "failed to commit transaction")
	}
	return nil
}

// GetGroup retrieves a group by ID.
func (s *Store) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group := &models.Group{}
	var total string
	var dueDate sql.NullInt64

	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, total, category, due_date, description, creator_id, created_at
		 FROM groups WHERE id = ?`,
		groupID,
	).Scan(&group.ID, &group.Name, &total, &group.Category, &dueDate,
		&group.Description, &group.CreatorID, &group.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, settlement.E(settlement.NotFound, "group not found: %s", groupID)
	}
	if err != nil {
		return nil, persistErr(err, "failed to get group")
	}

	if group.Total, err = scanDec(total); err != nil {
		return nil, persistErr(err, "failed to parse group total")
	}
	group.DueDate = timeCol(dueDate)
	return group, nil
}

// DeleteGroupCascade removes payments, then participants, then the group,
// in dependency order, inside one transaction. It reports removed row
// counts for audit logging.
func (s *Store) DeleteGroupCascade(ctx context.Context, groupID string) (int, int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, persistErr(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "DELETE FROM payments WHERE group_id = ?", groupID)
	if err != nil {
		return 0, 0, persistErr(err, "failed to delete payments")
	}
	payments, _ := res.RowsAffected()

	res, err = tx.ExecContext(ctx, "DELETE FROM participants WHERE group_id = ?", groupID)
	if err != nil {
		return 0, 0, persistErr(err, "failed to delete participants")
	}
	participants, _ := res.RowsAffected()

	res, err = tx.ExecContext(ctx, "DELETE FROM groups WHERE id = ?", groupID)
	if err != nil {
		return 0, 0, persistErr(err, "failed to delete group")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return 0, 0, settlement.E(settlement.NotFound, "group not found: %s", groupID)
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, persistErr(err, "failed to commit transaction")
	}
	return int(payments), int(participants), nil
}
