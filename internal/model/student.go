package model

import "time"

// Student is a candidate record.  Students are identified by phone number
// when logging in and carry the grade used for the seat adjacency rule.
// The QR token is issued once on creation and consumed by the attendance
// subsystem, which is outside the booking flow.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – student full name.
//  Phone     – unique phone number used as login identity.
//  Grade     – class grade (e.g. "Grade 7").
//  QRToken   – opaque unique token for attendance scanning.
//  CreatedAt – creation timestamp.
type Student struct {
	ID        uint64    // students.id
	Name      string    // students.name
	Phone     string    // students.phone
	Grade     string    // students.grade
	QRToken   string    // students.qr_token
	CreatedAt time.Time // students.created_at
}
