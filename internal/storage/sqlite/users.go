package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rcampano/vaquita/internal/models"
	"github.com/rcampano/vaquita/internal/settlement"
)

// CreateUser inserts a new user, generating the ID and timestamp.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt == 0 {
		user.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (id, name, phone, password_hash, created_at) VALUES (?, ?, ?, ?, ?)",
		user.ID, user.Name, user.Phone, user.PasswordHash, user.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return settlement.E(settlement.InvalidInput, "phone %s is already registered", user.Phone)
		}
		return persistErr(err, "failed to insert user")
	}
	return nil
}

// GetUserByPhone retrieves a user by their phone number.
func (s *Store) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	return s.getUser(ctx, "phone", phone)
}

// GetUserByID retrieves a user by their ID.
func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx, "id", id)
}

func (s *Store) getUser(ctx context.Context, column, value string) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, phone, password_hash, created_at FROM users WHERE "+column+" = ?",
		value,
	).Scan(&user.ID, &user.Name, &user.Phone, &user.PasswordHash, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, settlement.E(settlement.NotFound, "user not found: %s", value)
	}
	if err != nil {
		return nil, persistErr(err, "failed to get user")
	}
	return user, nil
}
