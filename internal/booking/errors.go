package booking

import (
	"errors"
	"fmt"
)

// Sentinel failures of the booking engine.  Handlers map each to a distinct
// HTTP response; none of them is fatal.
var (
	// ErrSessionNotFound is returned when the requested exam session does
	// not exist.
	ErrSessionNotFound = errors.New("exam session not found")

	// ErrInvalidSeat is returned when (row, pos) is not a seat of the hall
	// layout.  The booking store is never touched in this case.
	ErrInvalidSeat = errors.New("invalid seat position")

	// ErrSeatTaken is returned when the requested seat is already held by
	// another candidate in the same session.
	ErrSeatTaken = errors.New("seat already taken")

	// ErrBookingNotFound is returned by ReleaseSeat when the booking no
	// longer exists, so an administrator can tell "already removed" from
	// "removed now".
	ErrBookingNotFound = errors.New("booking not found")

	// ErrBusy is returned when a claim could not acquire the per-session
	// lock within the configured wait bound.  The caller should retry.
	ErrBusy = errors.New("session is busy, try again")
)

// DuplicateBookingError reports that the candidate already holds a seat in
// some session.  A candidate may hold only one seat system-wide; the label
// of the session holding the existing booking is carried so the student can
// be told where their seat is.
type DuplicateBookingError struct {
	SessionLabel string
}

func (e *DuplicateBookingError) Error() string {
	if e.SessionLabel == "" {
		return "you already have a seat booked"
	}
	return fmt.Sprintf("you already have a seat booked in %s", e.SessionLabel)
}

// AdjacencyError reports that a neighbouring seat is occupied by a
// candidate of the same grade.  The conflicting seat and grade are carried
// so the rejection can explain exactly which neighbour blocks the claim.
type AdjacencyError struct {
	Row   int
	Pos   int
	Grade string
}

func (e *AdjacencyError) Error() string {
	return fmt.Sprintf("a %s student is already seated at row %d seat %d; adjacent seats must hold different grades", e.Grade, e.Row, e.Pos)
}
