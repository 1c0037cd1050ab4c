package database

import (
	"context"
	"database/sql"
)

// The unique keys on exam_bookings are load-bearing: uq_session_seat stops
// a physical seat from ever being double-booked and uq_candidate enforces
// the one-seat-per-candidate rule system-wide, even if the booking engine's
// per-session locking were to develop a hole.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(64) NOT NULL,
		password_hash VARCHAR(100) NOT NULL,
		role VARCHAR(16) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_username (username)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS students (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(128) NOT NULL,
		phone VARCHAR(32) NOT NULL,
		grade VARCHAR(32) NOT NULL,
		qr_token VARCHAR(64) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_phone (phone),
		UNIQUE KEY uq_qr_token (qr_token)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS exam_sessions (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		label VARCHAR(128) NOT NULL,
		start_time DATETIME NOT NULL,
		end_time DATETIME NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS exam_bookings (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		session_id BIGINT UNSIGNED NOT NULL,
		row_idx INT NOT NULL,
		seat_pos INT NOT NULL,
		candidate_id BIGINT UNSIGNED NOT NULL,
		candidate_name VARCHAR(128) NOT NULL,
		candidate_grade VARCHAR(32) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_session_seat (session_id, row_idx, seat_pos),
		UNIQUE KEY uq_candidate (candidate_id),
		CONSTRAINT fk_booking_session FOREIGN KEY (session_id) REFERENCES exam_sessions(id),
		CONSTRAINT fk_booking_student FOREIGN KEY (candidate_id) REFERENCES students(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates the application tables when they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
