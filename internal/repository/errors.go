// Package repository provides MySQL persistence for exam sessions, bookings
// and identity records.  Sentinel errors defined here let handlers and the
// booking engine distinguish failure scenarios without inspecting driver
// errors themselves.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrSessionNotFound is returned when an exam session lookup matches no row.
var ErrSessionNotFound = errors.New("exam session not found")

// ErrBookingNotFound is returned when a booking lookup or delete matches no
// row.  Release handlers translate this into 404 so callers can tell
// "already removed" from "removed now".
var ErrBookingNotFound = errors.New("booking not found")

// ErrStudentNotFound is returned when a student lookup matches no row.
var ErrStudentNotFound = errors.New("student not found")

// ErrUserNotFound is returned when a user lookup matches no row.
var ErrUserNotFound = errors.New("user not found")

// ErrDuplicateSeat is returned when an insert trips the unique
// (session_id, row_idx, seat_pos) key.  Under the engine's per-session lock
// this should never fire; it exists as a last-resort guard against a
// double-booked physical seat.
var ErrDuplicateSeat = errors.New("seat already booked")

// ErrDuplicateCandidate is returned when an insert trips the unique
// candidate_id key, i.e. the candidate already holds a seat in some session.
var ErrDuplicateCandidate = errors.New("candidate already has a booking")

// MySQL error 1062 signals a unique key violation.  The violated key name is
// embedded in the message, which is how the two booking constraints are told
// apart.
const mysqlDupEntry = 1062

func isDupKey(err error, key string) bool {
	var me *mysql.MySQLError
	if !errors.As(err, &me) || me.Number != mysqlDupEntry {
		return false
	}
	// Message format: Duplicate entry '...' for key 'tbl.key_name'
	return key == "" || strings.Contains(me.Message, key)
}
