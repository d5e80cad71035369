package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/athenaeum/portal/internal/auth"
)

// UserStore implements auth.UserStore on the users table.
type UserStore struct {
	db DBTX
}

func NewUserStore(db DBTX) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) GetUserByEmail(ctx context.Context, email string) (*auth.User, error) {
	query := `
		SELECT id, email, display_name, password_hash, role, created_at
		FROM users WHERE email = $1`

	var user auth.User
	err := s.db.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.DisplayName,
		&user.PasswordHash, &user.Role, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrUserNotFound
		}
		return nil, handlePostgresError("get user", err)
	}

	return &user, nil
}

func (s *UserStore) CreateUser(ctx context.Context, user *auth.User) error {
	query := `
		INSERT INTO users (id, email, display_name, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.db.Exec(ctx, query,
		user.ID, user.Email, user.DisplayName,
		user.PasswordHash, user.Role, user.CreatedAt)
	if err != nil {
		return handlePostgresError("create user", err)
	}

	return nil
}
