package database

import (
	"context"
	"database/sql"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Seed provisions the default admin account and two exam sessions when the
// respective tables are empty.  It is idempotent across restarts: existing
// rows are left untouched.
func Seed(ctx context.Context, db *sql.DB, adminUser, adminPass string, bcryptCost int) error {
	var adminID uint64
	err := db.QueryRowContext(ctx, `SELECT id FROM users WHERE username = ?`, adminUser).Scan(&adminID)
	if err == sql.ErrNoRows {
		hash, herr := bcrypt.GenerateFromPassword([]byte(adminPass), bcryptCost)
		if herr != nil {
			return herr
		}
		if _, err := db.ExecContext(ctx,
			`INSERT INTO users (username, password_hash, role) VALUES (?, ?, 'admin')`,
			adminUser, string(hash)); err != nil {
			return err
		}
		log.Printf("seed: created admin account %q", adminUser)
	} else if err != nil {
		return err
	}

	var sessionCount int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM exam_sessions`).Scan(&sessionCount); err != nil {
		return err
	}
	if sessionCount > 0 {
		return nil
	}
	// Two sittings on the next Saturday afternoon, mirroring the usual
	// timetable of the institute.
	day := nextSaturday(time.Now().UTC())
	sessions := []struct {
		label      string
		start, end time.Time
	}{
		{"Session 1", day.Add(14 * time.Hour), day.Add(17 * time.Hour)},
		{"Session 2", day.Add(17*time.Hour + 30*time.Minute), day.Add(20*time.Hour + 30*time.Minute)},
	}
	for _, s := range sessions {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO exam_sessions (label, start_time, end_time) VALUES (?, ?, ?)`,
			s.label, s.start, s.end); err != nil {
			return err
		}
	}
	log.Printf("seed: created %d exam sessions", len(sessions))
	return nil
}

func nextSaturday(now time.Time) time.Time {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	for day.Weekday() != time.Saturday || !day.After(now) {
		day = day.AddDate(0, 0, 1)
	}
	return day
}
