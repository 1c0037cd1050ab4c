package model

import "time"

// User is a login account as stored in the `users` table.  Only staff
// accounts live here; students authenticate through the register-or-login
// flow and receive tokens without a stored password.
//
// Fields:
//  ID           – primary key identifier.
//  Username     – unique login name.
//  PasswordHash – bcrypt hashed password.
//  Role         – account role ("admin").
//  CreatedAt    – creation timestamp.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	CreatedAt    time.Time // users.created_at
}
