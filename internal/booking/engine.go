// Package booking implements the exam seat allocation engine.  The engine
// is the only component allowed to create or delete bookings; it enforces
// seat uniqueness, the one-seat-per-candidate rule across all sessions, and
// the grade diversity rule between adjacent seats.
package booking

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/haxsilu/science-zone/internal/layout"
	"github.com/haxsilu/science-zone/internal/model"
	"github.com/haxsilu/science-zone/internal/repository"
)

// DefaultLockWait bounds how long a claim waits for its per-session lock
// before failing with ErrBusy.  Claims are short, so a few seconds of wait
// only ever accumulates under pathological contention.
const DefaultLockWait = 3 * time.Second

// SessionStore is the read-only view of exam sessions the engine needs.
// GetByID must return repository.ErrSessionNotFound for unknown IDs.
type SessionStore interface {
	GetByID(ctx context.Context, id uint64) (*model.ExamSession, error)
}

// BookingStore is the persistence boundary for bookings.  The engine is the
// sole writer.  Insert must return repository.ErrDuplicateSeat or
// repository.ErrDuplicateCandidate when the corresponding unique key is
// violated, and Delete / FindByCandidate must return
// repository.ErrBookingNotFound when no row matches.
type BookingStore interface {
	ListBySession(ctx context.Context, sessionID uint64) ([]model.Booking, error)
	FindByCandidate(ctx context.Context, candidateID uint64) (*model.Booking, error)
	Insert(ctx context.Context, b *model.Booking) error
	Delete(ctx context.Context, id uint64) error
}

// ClaimRequest carries everything needed to claim one seat.  Candidate
// identity is supplied by the caller and trusted as given; name and grade
// are snapshotted into the booking.
type ClaimRequest struct {
	SessionID      uint64
	Row            int
	Pos            int
	CandidateID    uint64
	CandidateName  string
	CandidateGrade string
}

// Engine validates and commits seat claims.  A claim's check-then-insert
// sequence runs under an exclusive per-session lock so that two concurrent
// claims against the same or adjacent seats cannot both pass validation.
// Claims in different sessions proceed concurrently.
type Engine struct {
	layout   *layout.SeatLayout
	sessions SessionStore
	bookings BookingStore
	locks    *sessionLocks
	lockWait time.Duration
}

// NewEngine constructs a booking engine.  A non-positive lockWait falls
// back to DefaultLockWait.
func NewEngine(l *layout.SeatLayout, sessions SessionStore, bookings BookingStore, lockWait time.Duration) *Engine {
	if l == nil || sessions == nil || bookings == nil {
		panic("nil dependency passed to NewEngine")
	}
	if lockWait <= 0 {
		lockWait = DefaultLockWait
	}
	return &Engine{
		layout:   l,
		sessions: sessions,
		bookings: bookings,
		locks:    newSessionLocks(),
		lockWait: lockWait,
	}
}

// Layout returns the hall layout the engine validates against.
func (e *Engine) Layout() *layout.SeatLayout { return e.layout }

// Occupancy returns every booking in the given session for rendering.  It
// has no side effects and needs no lock: readers tolerate seeing a claim
// either before or after it commits.
func (e *Engine) Occupancy(ctx context.Context, sessionID uint64) ([]model.Booking, error) {
	if _, err := e.sessions.GetByID(ctx, sessionID); err != nil {
		return nil, mapSessionErr(err)
	}
	return e.bookings.ListBySession(ctx, sessionID)
}

// ClaimSeat validates and commits a single seat claim.  Checks run in a
// fixed order, each with its own failure:
//
//  1. the session must exist                       -> ErrSessionNotFound
//  2. (row, pos) must be a seat of the layout      -> ErrInvalidSeat
//  3. the candidate must hold no booking anywhere  -> *DuplicateBookingError
//  4. the seat must be free in this session        -> ErrSeatTaken
//  5. every occupied neighbour must differ in grade -> *AdjacencyError
//
// Steps 3-5 and the insert execute under the session's exclusive lock, so
// the whole sequence is atomic with respect to other claims in the same
// session.  If the lock cannot be acquired within the wait bound, ErrBusy
// is returned and nothing is committed.
func (e *Engine) ClaimSeat(ctx context.Context, req ClaimRequest) (*model.Booking, error) {
	if _, err := e.sessions.GetByID(ctx, req.SessionID); err != nil {
		return nil, mapSessionErr(err)
	}
	if !e.layout.IsValidSeat(req.Row, req.Pos) {
		return nil, ErrInvalidSeat
	}

	if err := e.locks.acquire(ctx, req.SessionID, e.lockWait); err != nil {
		return nil, err
	}
	defer e.locks.release(req.SessionID)

	// One seat per candidate, across all sessions.
	existing, err := e.bookings.FindByCandidate(ctx, req.CandidateID)
	if err == nil {
		return nil, &DuplicateBookingError{SessionLabel: e.sessionLabel(ctx, existing.SessionID)}
	}
	if !errors.Is(err, repository.ErrBookingNotFound) {
		return nil, err
	}

	occupied, err := e.bookings.ListBySession(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	bySeat := make(map[layout.Seat]*model.Booking, len(occupied))
	for i := range occupied {
		b := &occupied[i]
		bySeat[layout.Seat{Row: b.Row, Pos: b.Pos}] = b
	}
	if _, taken := bySeat[layout.Seat{Row: req.Row, Pos: req.Pos}]; taken {
		return nil, ErrSeatTaken
	}
	for _, n := range e.layout.NeighborsOf(req.Row, req.Pos) {
		if b, ok := bySeat[n]; ok && b.CandidateGrade == req.CandidateGrade {
			return nil, &AdjacencyError{Row: n.Row, Pos: n.Pos, Grade: b.CandidateGrade}
		}
	}

	b := &model.Booking{
		SessionID:      req.SessionID,
		Row:            req.Row,
		Pos:            req.Pos,
		CandidateID:    req.CandidateID,
		CandidateName:  req.CandidateName,
		CandidateGrade: req.CandidateGrade,
	}
	if err := e.bookings.Insert(ctx, b); err != nil {
		// The unique keys are a last-resort guard; tripping one while the
		// session lock is held means the locking discipline has a hole and
		// must be investigated, so it is logged apart from an ordinary
		// seat-taken rejection.
		switch {
		case errors.Is(err, repository.ErrDuplicateSeat):
			log.Printf("booking: storage unique key tripped under session lock (session=%d seat=%d/%d): %v",
				req.SessionID, req.Row, req.Pos, err)
			return nil, ErrSeatTaken
		case errors.Is(err, repository.ErrDuplicateCandidate):
			log.Printf("booking: candidate unique key tripped under session lock (candidate=%d): %v",
				req.CandidateID, err)
			return nil, &DuplicateBookingError{}
		}
		return nil, err
	}
	return b, nil
}

// ReleaseSeat deletes a booking, freeing its seat immediately.  No
// adjacency re-validation is needed: removing a booking can only reduce
// constraint pressure.  ErrBookingNotFound is returned when the booking no
// longer exists.
func (e *Engine) ReleaseSeat(ctx context.Context, bookingID uint64) error {
	err := e.bookings.Delete(ctx, bookingID)
	if errors.Is(err, repository.ErrBookingNotFound) {
		return ErrBookingNotFound
	}
	return err
}

// sessionLabel fetches a session's label for error reporting.  A failed
// lookup degrades to an empty label rather than masking the real failure.
func (e *Engine) sessionLabel(ctx context.Context, sessionID uint64) string {
	s, err := e.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return ""
	}
	return s.Label
}

func mapSessionErr(err error) error {
	if errors.Is(err, repository.ErrSessionNotFound) {
		return ErrSessionNotFound
	}
	return err
}
