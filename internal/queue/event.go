// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

// Seat audit actions.
const (
	ActionClaimed  = "claimed"
	ActionReleased = "released"
)

// SeatEvent is published whenever a seat is claimed or administratively
// released.  It carries enough information for downstream consumers to log
// or notify without querying the primary database.
type SeatEvent struct {
	Action         string `json:"action"`
	BookingID      uint64 `json:"booking_id"`
	SessionID      uint64 `json:"session_id"`
	SessionLabel   string `json:"session_label,omitempty"`
	Row            int    `json:"row"`
	Pos            int    `json:"pos"`
	CandidateID    uint64 `json:"candidate_id"`
	CandidateName  string `json:"candidate_name,omitempty"`
	CandidateGrade string `json:"candidate_grade,omitempty"`
	OccurredAt     string `json:"occurred_at"`
}
