package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// EnsureAdmin creates the admin account if no user exists under the
// given email. Existing accounts are left untouched, so password changes
// in the environment do not silently overwrite the stored hash.
func EnsureAdmin(ctx context.Context, store UserStore, email, password, displayName string) error {
	if email == "" || password == "" {
		return errors.New("admin email and password must be set")
	}

	if _, err := store.GetUserByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, ErrUserNotFound) {
		return err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}

	user := &User{
		ID:           uuid.New(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: hash,
		Role:         RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	}
	if err := store.CreateUser(ctx, user); err != nil {
		return err
	}

	slog.Info("seeded admin account", "email", email)
	return nil
}
