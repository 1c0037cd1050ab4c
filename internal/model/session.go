package model

import "time"

// ExamSession represents a bookable exam sitting with a fixed time window.
// Capacity is intentionally absent: it always equals the total seat count of
// the hall layout and is derived at read time, so a layout change is
// reflected uniformly across every session.
//
// Fields:
//  ID        – primary key identifier.
//  Label     – human readable name shown to students (e.g. "Session 1").
//  StartTime – when the sitting begins (UTC).
//  EndTime   – when the sitting ends (UTC).
//  CreatedAt – creation timestamp.
type ExamSession struct {
	ID        uint64    // exam_sessions.id
	Label     string    // exam_sessions.label
	StartTime time.Time // exam_sessions.start_time
	EndTime   time.Time // exam_sessions.end_time
	CreatedAt time.Time // exam_sessions.created_at
}
