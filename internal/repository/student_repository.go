package repository

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/haxsilu/science-zone/internal/model"
)

// StudentRepo provides data access to the students table.  Students are the
// candidates of the booking subsystem: the booking engine snapshots their
// name and grade into each booking at claim time.
type StudentRepo struct {
	db *sql.DB
}

// NewStudentRepo returns a StudentRepo bound to the given database.
func NewStudentRepo(db *sql.DB) *StudentRepo { return &StudentRepo{db: db} }

// GetByID returns a single student or ErrStudentNotFound.
func (r *StudentRepo) GetByID(ctx context.Context, id uint64) (*model.Student, error) {
	const q = `SELECT id, name, phone, grade, qr_token, created_at FROM students WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, q, id))
}

// GetByPhone returns the student registered under the given phone number or
// ErrStudentNotFound.  Phone numbers are unique and act as login identity.
func (r *StudentRepo) GetByPhone(ctx context.Context, phone string) (*model.Student, error) {
	const q = `SELECT id, name, phone, grade, qr_token, created_at FROM students WHERE phone = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, q, phone))
}

func (r *StudentRepo) scanOne(row *sql.Row) (*model.Student, error) {
	var s model.Student
	err := row.Scan(&s.ID, &s.Name, &s.Phone, &s.Grade, &s.QRToken, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStudentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create registers a new student with a freshly generated QR token and
// returns the stored row.
func (r *StudentRepo) Create(ctx context.Context, name, phone, grade string) (*model.Student, error) {
	token, err := newQRToken()
	if err != nil {
		return nil, err
	}
	const q = `INSERT INTO students (name, phone, grade, qr_token) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, name, phone, grade, token)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, uint64(id))
}

// UpdateProfile refreshes a student's name and grade.  The register-or-login
// flow calls this so repeat logins pick up corrections the student makes.
func (r *StudentRepo) UpdateProfile(ctx context.Context, id uint64, name, grade string) error {
	const q = `UPDATE students SET name = ?, grade = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, name, grade, id)
	return err
}

// newQRToken builds an opaque unique token for attendance scanning.  The
// timestamp prefix keeps tokens roughly sortable by issue time; the random
// suffix makes them unguessable.
func newQRToken() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return fmt.Sprintf("STU-%d-%s", time.Now().UTC().UnixMilli(), hex.EncodeToString(buf)), nil
}
