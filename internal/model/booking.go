package model

import "time"

// Booking associates one seat in one exam session with one candidate.  The
// candidate's name and grade are denormalised snapshots taken at booking
// time; the grade is the value the adjacency rule is enforced against.
//
// Bookings are created only through the booking engine's claim operation and
// deleted individually by the administrative release operation.  They are
// never updated in place.
//
// Fields:
//  ID             – primary key identifier.
//  SessionID      – exam session holding the seat.
//  Row            – 1-based row index of the seat.
//  Pos            – 1-based position within the row.
//  CandidateID    – owning student record.
//  CandidateName  – student name snapshot at booking time.
//  CandidateGrade – student grade snapshot; drives the adjacency rule.
//  CreatedAt      – creation timestamp.
type Booking struct {
	ID             uint64    `json:"id"`              // exam_bookings.id
	SessionID      uint64    `json:"session_id"`      // exam_bookings.session_id
	Row            int       `json:"row"`             // exam_bookings.row_idx
	Pos            int       `json:"pos"`             // exam_bookings.seat_pos
	CandidateID    uint64    `json:"candidate_id"`    // exam_bookings.candidate_id
	CandidateName  string    `json:"candidate_name"`  // exam_bookings.candidate_name
	CandidateGrade string    `json:"candidate_grade"` // exam_bookings.candidate_grade
	CreatedAt      time.Time `json:"created_at"`      // exam_bookings.created_at
}
