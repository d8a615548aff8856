package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/xplorehub/internal/services/api/account"
	"github.com/louisbranch/xplorehub/internal/services/api/storage"
)

// PutUser inserts one user.
func (s *Store) PutUser(ctx context.Context, user account.User) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(user.ID) == "" {
		return fmt.Errorf("user id is required")
	}
	if strings.TrimSpace(user.Email) == "" {
		return fmt.Errorf("user email is required")
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO users (id, name, email, password_hash, role, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		string(user.Role),
		toMillis(user.CreatedAt),
		toMillis(user.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("put user: %w", err)
	}
	return nil
}

// GetUser returns one user by ID.
func (s *Store) GetUser(ctx context.Context, userID string) (account.User, error) {
	if err := s.ready(ctx); err != nil {
		return account.User{}, err
	}
	return s.getUser(ctx, `WHERE id = ?`, strings.TrimSpace(userID))
}

// GetUserByEmail returns one user by normalized email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (account.User, error) {
	if err := s.ready(ctx); err != nil {
		return account.User{}, err
	}
	return s.getUser(ctx, `WHERE email = ?`, strings.ToLower(strings.TrimSpace(email)))
}

func (s *Store) getUser(ctx context.Context, where string, arg string) (account.User, error) {
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, name, email, password_hash, role, created_at, updated_at
		   FROM users `+where,
		arg,
	)
	var (
		user      account.User
		role      string
		createdAt int64
		updatedAt int64
	)
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &role, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return account.User{}, storage.ErrNotFound
		}
		return account.User{}, fmt.Errorf("get user: %w", err)
	}
	user.Role = account.Role(role)
	user.CreatedAt = fromMillis(createdAt)
	user.UpdatedAt = fromMillis(updatedAt)
	return user, nil
}
