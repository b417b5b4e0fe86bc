package store

import (
	"context"
	"fmt"
)

// schema for all tables. Attendance has no uniqueness constraint on
// (student_id, subject_id, date); duplicate marks are resolved at report
// time, not at the storage layer.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id         TEXT PRIMARY KEY,
	email      TEXT NOT NULL UNIQUE,
	password   TEXT NOT NULL,
	role       TEXT NOT NULL,
	name       TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS batches (
	id   TEXT PRIMARY KEY,
	year INTEGER NOT NULL UNIQUE,
	name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS semesters (
	id     TEXT PRIMARY KEY,
	number INTEGER NOT NULL,
	name   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS subjects (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	code        TEXT NOT NULL UNIQUE,
	semester_id TEXT REFERENCES semesters(id)
);

CREATE TABLE IF NOT EXISTS students (
	id          TEXT PRIMARY KEY,
	user_id     TEXT REFERENCES users(id),
	roll_no     TEXT NOT NULL UNIQUE,
	batch_id    TEXT REFERENCES batches(id),
	semester_id TEXT REFERENCES semesters(id)
);

CREATE TABLE IF NOT EXISTS teachers (
	id          TEXT PRIMARY KEY,
	user_id     TEXT REFERENCES users(id),
	employee_id TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS attendance (
	id         TEXT PRIMARY KEY,
	student_id TEXT REFERENCES students(id),
	subject_id TEXT REFERENCES subjects(id),
	teacher_id TEXT REFERENCES teachers(id),
	date       DATE NOT NULL,
	status     TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_attendance_subject_date ON attendance(subject_id, date);
CREATE INDEX IF NOT EXISTS idx_attendance_student      ON attendance(student_id);
CREATE INDEX IF NOT EXISTS idx_students_batch_semester ON students(batch_id, semester_id);
`

// Migrate creates the schema when missing. Safe to run on every start.
func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.Client.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Seed inserts the baseline catalog rows a fresh dev database needs:
// four enrollment batches and eight semesters. Idempotent.
func (d *DB) Seed(ctx context.Context) error {
	for year := 2021; year <= 2024; year++ {
		_, err := d.Client.ExecContext(ctx, `
			INSERT INTO batches (id, year, name)
			VALUES ($1, $2, $3)
			ON CONFLICT (year) DO NOTHING
		`, fmt.Sprintf("batch-%d", year), year, fmt.Sprintf("Batch %d", year))
		if err != nil {
			return fmt.Errorf("seed batches: %w", err)
		}
	}
	for n := 1; n <= 8; n++ {
		_, err := d.Client.ExecContext(ctx, `
			INSERT INTO semesters (id, number, name)
			VALUES ($1, $2, $3)
			ON CONFLICT (id) DO NOTHING
		`, fmt.Sprintf("sem-%d", n), n, fmt.Sprintf("Semester %d", n))
		if err != nil {
			return fmt.Errorf("seed semesters: %w", err)
		}
	}
	return nil
}
