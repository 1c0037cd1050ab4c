package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/haxsilu/science-zone/internal/model"
)

// SessionRepo provides read and create access to exam sessions.  Sessions
// are provisioned at administrative cadence and never deleted, so no
// locking discipline is required here; the booking engine only consults
// this repository for existence checks and labels.
type SessionRepo struct {
	db *sql.DB
}

// NewSessionRepo returns a SessionRepo bound to the given database.
func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{db: db} }

// Create inserts a new exam session and returns the stored row.  Times are
// persisted in UTC.
func (r *SessionRepo) Create(ctx context.Context, label string, start, end time.Time) (*model.ExamSession, error) {
	const q = `INSERT INTO exam_sessions (label, start_time, end_time) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, label, start.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID returns a single exam session or ErrSessionNotFound.
func (r *SessionRepo) GetByID(ctx context.Context, id uint64) (*model.ExamSession, error) {
	const q = `SELECT id, label, start_time, end_time, created_at FROM exam_sessions WHERE id = ?`
	var s model.ExamSession
	err := r.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.Label, &s.StartTime, &s.EndTime, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns all exam sessions ordered by start time.  When none exist an
// empty slice is returned.
func (r *SessionRepo) List(ctx context.Context) ([]model.ExamSession, error) {
	const q = `SELECT id, label, start_time, end_time, created_at FROM exam_sessions ORDER BY start_time`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	sessions := make([]model.ExamSession, 0)
	for rows.Next() {
		var s model.ExamSession
		if err := rows.Scan(&s.ID, &s.Label, &s.StartTime, &s.EndTime, &s.CreatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}
