package database

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Statements are idempotent so the bootstrap can run on every start.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS teachers (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		phone_number TEXT,
		initials TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS teachers_name_lower_idx ON teachers (LOWER(name))`,

	`CREATE TABLE IF NOT EXISTS attendance (
		id BIGSERIAL PRIMARY KEY,
		teacher_id BIGINT NOT NULL REFERENCES teachers(id),
		date TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS attendance_teacher_date_idx ON attendance (teacher_id, date)`,

	`CREATE TABLE IF NOT EXISTS timetable (
		id BIGSERIAL PRIMARY KEY,
		day TEXT NOT NULL,
		period INT NOT NULL,
		class TEXT NOT NULL,
		teacher_id BIGINT NOT NULL REFERENCES teachers(id)
	)`,
	`CREATE INDEX IF NOT EXISTS timetable_day_idx ON timetable (LOWER(day))`,
	`CREATE INDEX IF NOT EXISTS timetable_teacher_idx ON timetable (teacher_id)`,

	`CREATE TABLE IF NOT EXISTS substitutions (
		id BIGSERIAL PRIMARY KEY,
		date TEXT NOT NULL,
		period INT NOT NULL,
		class TEXT NOT NULL,
		original_teacher_id BIGINT NOT NULL REFERENCES teachers(id),
		substitute_teacher_id BIGINT NOT NULL REFERENCES teachers(id),
		status TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS substitutions_slot_idx
		ON substitutions (date, period, class, original_teacher_id)`,

	`CREATE TABLE IF NOT EXISTS period_configs (
		id BIGSERIAL PRIMARY KEY,
		period_number INT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE
	)`,

	`CREATE TABLE IF NOT EXISTS activity_logs (
		id BIGSERIAL PRIMARY KEY,
		date TEXT NOT NULL,
		teacher_id BIGINT NOT NULL,
		action TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS activity_logs_created_idx ON activity_logs (created_at DESC)`,

	`CREATE TABLE IF NOT EXISTS messages (
		id BIGSERIAL PRIMARY KEY,
		teacher_id BIGINT NOT NULL REFERENCES teachers(id),
		message TEXT NOT NULL,
		date TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Migrate applies the embedded schema to the connected database.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
