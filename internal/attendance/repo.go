package attendance

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Repository persists attendance marks in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert writes one mark.
func (r *Repository) Insert(ctx context.Context, rec Record) (Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO attendance (id, student_id, subject_id, teacher_id, date, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, rec.ID, rec.StudentID, rec.SubjectID, rec.TeacherID, rec.Date.Format(dateLayout), rec.Status)
	if err := row.Scan(&rec.CreatedAt); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// BulkInsert writes a set of marks in one transaction. Either all rows are
// stored or none are.
func (r *Repository) BulkInsert(ctx context.Context, recs []Record) ([]Record, error) {
	if len(recs) == 0 {
		return nil, nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	out := make([]Record, 0, len(recs))
	for _, rec := range recs {
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
		row := tx.QueryRowContext(ctx, `
			INSERT INTO attendance (id, student_id, subject_id, teacher_id, date, status)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING created_at
		`, rec.ID, rec.StudentID, rec.SubjectID, rec.TeacherID, rec.Date.Format(dateLayout), rec.Status)
		if err := row.Scan(&rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus corrects an existing mark.
func (r *Repository) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE attendance SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

const recordSelect = `
	SELECT id, COALESCE(student_id, ''), COALESCE(subject_id, ''), COALESCE(teacher_id, ''),
	       date, status, created_at
	FROM attendance
`

// Marks are always read oldest first so that a later duplicate overwrites an
// earlier one when reports fold them into a per-(student, date) lookup.
const markOrder = ` ORDER BY created_at, id`

// ListByDateAndSubject returns every mark for one subject on one calendar date.
func (r *Repository) ListByDateAndSubject(ctx context.Context, date time.Time, subjectID string) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, recordSelect+`
		WHERE date = $1 AND subject_id = $2`+markOrder,
		date.Format(dateLayout), subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

// ListByStudentsAndRange returns the marks for a roster of students, one
// subject, and an inclusive date range.
func (r *Repository) ListByStudentsAndRange(ctx context.Context, studentIDs []string, subjectID string, start, end time.Time) ([]Record, error) {
	if len(studentIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(studentIDs))
	args := make([]any, 0, len(studentIDs)+3)
	for i, id := range studentIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args = append(args, id)
	}
	n := len(args)
	args = append(args, subjectID, start.Format(dateLayout), end.Format(dateLayout))

	query := recordSelect + fmt.Sprintf(`
		WHERE student_id IN (%s) AND subject_id = $%d AND date BETWEEN $%d AND $%d`,
		strings.Join(placeholders, ", "), n+1, n+2, n+3) + markOrder

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

// ListByStudentAndRange returns one student's marks inside an inclusive date
// range, joined with subject metadata. An empty subjectID matches every
// subject.
func (r *Repository) ListByStudentAndRange(ctx context.Context, studentID, subjectID string, start, end time.Time) ([]SubjectRecord, error) {
	query := `
		SELECT a.id, COALESCE(a.student_id, ''), COALESCE(a.subject_id, ''), COALESCE(a.teacher_id, ''),
		       a.date, a.status, a.created_at, sub.name, sub.code
		FROM attendance a
		JOIN subjects sub ON sub.id = a.subject_id
		WHERE a.student_id = $1 AND a.date BETWEEN $2 AND $3`
	args := []any{studentID, start.Format(dateLayout), end.Format(dateLayout)}
	if subjectID != "" {
		query += ` AND a.subject_id = $4`
		args = append(args, subjectID)
	}
	query += ` ORDER BY a.created_at, a.id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []SubjectRecord
	for rows.Next() {
		var rec SubjectRecord
		if err := rows.Scan(&rec.ID, &rec.StudentID, &rec.SubjectID, &rec.TeacherID,
			&rec.Date, &rec.Status, &rec.CreatedAt, &rec.SubjectName, &rec.SubjectCode); err != nil {
			return nil, err
		}
		res = append(res, rec)
	}
	return res, rows.Err()
}

// ListHistory returns a student's marks joined with subject and teacher
// metadata, newest first, with optional subject and date filters. This feeds
// the student dashboard's raw history table.
func (r *Repository) ListHistory(ctx context.Context, studentID, subjectID string, from, to *time.Time) ([]HistoryRecord, error) {
	query := `
		SELECT a.id, a.date, a.status, sub.name, sub.code, u.name
		FROM attendance a
		JOIN subjects sub ON sub.id = a.subject_id
		JOIN teachers t   ON t.id = a.teacher_id
		JOIN users u      ON u.id = t.user_id
		WHERE a.student_id = $1`
	args := []any{studentID}
	if subjectID != "" {
		args = append(args, subjectID)
		query += fmt.Sprintf(" AND a.subject_id = $%d", len(args))
	}
	if from != nil {
		args = append(args, from.Format(dateLayout))
		query += fmt.Sprintf(" AND a.date >= $%d", len(args))
	}
	if to != nil {
		args = append(args, to.Format(dateLayout))
		query += fmt.Sprintf(" AND a.date <= $%d", len(args))
	}
	query += " ORDER BY a.date DESC, a.created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []HistoryRecord
	for rows.Next() {
		var h HistoryRecord
		if err := rows.Scan(&h.ID, &h.Date, &h.Status, &h.SubjectName, &h.SubjectCode, &h.TeacherName); err != nil {
			return nil, err
		}
		res = append(res, h)
	}
	return res, rows.Err()
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	var res []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.StudentID, &rec.SubjectID, &rec.TeacherID,
			&rec.Date, &rec.Status, &rec.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, rec)
	}
	return res, rows.Err()
}
