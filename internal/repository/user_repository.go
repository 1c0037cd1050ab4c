package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/haxsilu/science-zone/internal/model"
)

// UserRepo provides data access to staff login accounts.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo returns a UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// GetByUsername returns a user by login name or ErrUserNotFound.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	const q = `SELECT id, username, password_hash, role, created_at FROM users WHERE username = ?`
	var u model.User
	err := r.db.QueryRowContext(ctx, q, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user account.  It is used by startup seeding to
// provision the default admin when the table is empty.
func (r *UserRepo) Create(ctx context.Context, username, passwordHash, role string) error {
	const q = `INSERT INTO users (username, password_hash, role) VALUES (?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, username, passwordHash, role)
	return err
}
