package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/haxsilu/science-zone/internal/model"
)

// BookingRepo provides data access to the exam_bookings table.  The booking
// engine is the only writer; it serialises claim attempts per session, and
// the table's unique keys on (session_id, row_idx, seat_pos) and on
// candidate_id back that discipline up at the storage level.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// ListBySession returns every booking in the given session.  Ordering by
// row and position gives deterministic output for rendering.
func (r *BookingRepo) ListBySession(ctx context.Context, sessionID uint64) ([]model.Booking, error) {
	const q = `SELECT id, session_id, row_idx, seat_pos, candidate_id, candidate_name, candidate_grade, created_at
	           FROM exam_bookings
	           WHERE session_id = ?
	           ORDER BY row_idx, seat_pos`
	rows, err := r.db.QueryContext(ctx, q, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	bookings := make([]model.Booking, 0)
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(&b.ID, &b.SessionID, &b.Row, &b.Pos, &b.CandidateID, &b.CandidateName, &b.CandidateGrade, &b.CreatedAt); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}

// FindByCandidate returns the candidate's booking across all sessions, or
// ErrBookingNotFound when the candidate holds no seat anywhere.  A
// candidate can hold at most one booking system-wide.
func (r *BookingRepo) FindByCandidate(ctx context.Context, candidateID uint64) (*model.Booking, error) {
	const q = `SELECT id, session_id, row_idx, seat_pos, candidate_id, candidate_name, candidate_grade, created_at
	           FROM exam_bookings
	           WHERE candidate_id = ?`
	var b model.Booking
	err := r.db.QueryRowContext(ctx, q, candidateID).Scan(
		&b.ID, &b.SessionID, &b.Row, &b.Pos, &b.CandidateID, &b.CandidateName, &b.CandidateGrade, &b.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// GetByID returns a single booking or ErrBookingNotFound.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	const q = `SELECT id, session_id, row_idx, seat_pos, candidate_id, candidate_name, candidate_grade, created_at
	           FROM exam_bookings
	           WHERE id = ?`
	var b model.Booking
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&b.ID, &b.SessionID, &b.Row, &b.Pos, &b.CandidateID, &b.CandidateName, &b.CandidateGrade, &b.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// CandidateBookingDetail is a candidate's booking joined with its session
// window, returned for the "my booking" view.
type CandidateBookingDetail struct {
	model.Booking
	SessionLabel string    `json:"session_label"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
}

// FindDetailByCandidate returns the candidate's booking together with its
// session label and time window, or ErrBookingNotFound.
func (r *BookingRepo) FindDetailByCandidate(ctx context.Context, candidateID uint64) (*CandidateBookingDetail, error) {
	const q = `SELECT b.id, b.session_id, b.row_idx, b.seat_pos, b.candidate_id, b.candidate_name, b.candidate_grade, b.created_at,
	                  s.label, s.start_time, s.end_time
	           FROM exam_bookings b
	           JOIN exam_sessions s ON s.id = b.session_id
	           WHERE b.candidate_id = ?`
	var d CandidateBookingDetail
	err := r.db.QueryRowContext(ctx, q, candidateID).Scan(
		&d.ID, &d.SessionID, &d.Row, &d.Pos, &d.CandidateID, &d.CandidateName, &d.CandidateGrade, &d.CreatedAt,
		&d.SessionLabel, &d.StartTime, &d.EndTime,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Insert stores a new booking and populates the generated ID and creation
// timestamp on the passed record.  A violated unique key is mapped to
// ErrDuplicateSeat or ErrDuplicateCandidate so the engine can report the
// constraint trip distinctly.
func (r *BookingRepo) Insert(ctx context.Context, b *model.Booking) error {
	const q = `INSERT INTO exam_bookings (session_id, row_idx, seat_pos, candidate_id, candidate_name, candidate_grade)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, b.SessionID, b.Row, b.Pos, b.CandidateID, b.CandidateName, b.CandidateGrade)
	if err != nil {
		switch {
		case isDupKey(err, "uq_candidate"):
			return ErrDuplicateCandidate
		case isDupKey(err, ""):
			return ErrDuplicateSeat
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	const sel = `SELECT created_at FROM exam_bookings WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, b.ID).Scan(&b.CreatedAt)
}

// Delete removes a booking by ID.  It returns ErrBookingNotFound when no
// row was deleted, letting callers distinguish "already removed" from
// "removed now".  Deleting a booking frees the seat immediately and has no
// cascading effect.
func (r *BookingRepo) Delete(ctx context.Context, id uint64) error {
	const q = `DELETE FROM exam_bookings WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBookingNotFound
	}
	return nil
}
