package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/solemate/solemate/internal/model"
)

// CreateUser inserts a new user account. The ID, CreatedAt, and UpdatedAt
// fields on u are populated after a successful insert. Returns ErrDuplicate
// when the username or email is already taken.
func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	q := s.db.Rebind(`INSERT INTO users
		(username, email, password_hash, role, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)

	err := s.db.QueryRowxContext(ctx, q,
		u.Username, u.Email, u.PasswordHash, u.Role, u.IsActive,
		u.CreatedAt, u.UpdatedAt,
	).Scan(&u.ID)
	if err != nil {
		if isDuplicateErr(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetUserByUsername returns a user by exact username match.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	q := s.db.Rebind(`SELECT * FROM users WHERE username = ?`)
	if err := s.db.GetContext(ctx, &u, q, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return &u, nil
}

// GetUser returns a user by ID.
func (s *Store) GetUser(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	q := s.db.Rebind(`SELECT * FROM users WHERE id = ?`)
	if err := s.db.GetContext(ctx, &u, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// ListUsers returns user accounts ordered by ID, with offset/limit paging.
func (s *Store) ListUsers(ctx context.Context, offset, limit int) ([]model.User, error) {
	users := []model.User{}
	q := s.db.Rebind(`SELECT * FROM users ORDER BY id LIMIT ? OFFSET ?`)
	if err := s.db.SelectContext(ctx, &users, q, limit, offset); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// DeactivateUser sets is_active to false for the given user. Already-issued
// tokens for the account stop validating immediately, since every request
// re-resolves the user. Returns ErrNotFound if no such user exists.
func (s *Store) DeactivateUser(ctx context.Context, id int64) error {
	q := s.db.Rebind(`UPDATE users SET is_active = ?, updated_at = ? WHERE id = ?`)
	res, err := s.db.ExecContext(ctx, q, false, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateUserPassword replaces the stored password hash.
func (s *Store) UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error {
	q := s.db.Rebind(`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`)
	res, err := s.db.ExecContext(ctx, q, passwordHash, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update user password: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user password: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// HasAnyAdmin reports whether at least one admin account exists. Used by the
// serve command to warn on first run.
func (s *Store) HasAnyAdmin(ctx context.Context) (bool, error) {
	var count int
	q := s.db.Rebind(`SELECT COUNT(*) FROM users WHERE role = ?`)
	if err := s.db.GetContext(ctx, &count, q, model.RoleAdmin); err != nil {
		return false, fmt.Errorf("count admins: %w", err)
	}
	return count > 0, nil
}
