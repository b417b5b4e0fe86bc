package roster

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

// Repository persists roster data in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// ---- users ----

// GetUserByEmail returns a user or nil when no account exists.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, password, role, name, created_at
		FROM users WHERE email = $1
	`, email)
	var u User
	if err := row.Scan(&u.ID, &u.Email, &u.Password, &u.Role, &u.Name, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// GetUser returns a user by id or nil.
func (r *Repository) GetUser(ctx context.Context, id string) (*User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, password, role, name, created_at
		FROM users WHERE id = $1
	`, id)
	var u User
	if err := row.Scan(&u.ID, &u.Email, &u.Password, &u.Role, &u.Name, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a user with a hashed password already applied.
func (r *Repository) CreateUser(ctx context.Context, u User) (User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO users (id, email, password, role, name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, u.ID, u.Email, u.Password, u.Role, u.Name)
	if err := row.Scan(&u.CreatedAt); err != nil {
		return User{}, err
	}
	return u, nil
}

// ---- batches ----

// ListBatches returns all batches ordered by year.
func (r *Repository) ListBatches(ctx context.Context) ([]Batch, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, year, name FROM batches ORDER BY year`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Batch
	for rows.Next() {
		var b Batch
		if err := rows.Scan(&b.ID, &b.Year, &b.Name); err != nil {
			return nil, err
		}
		res = append(res, b)
	}
	return res, rows.Err()
}

// CreateBatch inserts a batch.
func (r *Repository) CreateBatch(ctx context.Context, b Batch) (Batch, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO batches (id, year, name) VALUES ($1, $2, $3)
	`, b.ID, b.Year, b.Name)
	if err != nil {
		return Batch{}, err
	}
	return b, nil
}

// ---- semesters ----

// ListSemesters returns all semesters ordered by number.
func (r *Repository) ListSemesters(ctx context.Context) ([]Semester, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, number, name FROM semesters ORDER BY number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Semester
	for rows.Next() {
		var s Semester
		if err := rows.Scan(&s.ID, &s.Number, &s.Name); err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

// CreateSemester inserts a semester.
func (r *Repository) CreateSemester(ctx context.Context, s Semester) (Semester, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO semesters (id, number, name) VALUES ($1, $2, $3)
	`, s.ID, s.Number, s.Name)
	if err != nil {
		return Semester{}, err
	}
	return s, nil
}

// ---- subjects ----

// ListSubjects returns all subjects ordered by code.
func (r *Repository) ListSubjects(ctx context.Context) ([]Subject, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, code, COALESCE(semester_id, '') FROM subjects ORDER BY code
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSubjects(rows)
}

// ListSubjectsBySemester returns the subjects taught in one semester.
func (r *Repository) ListSubjectsBySemester(ctx context.Context, semesterID string) ([]Subject, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, code, COALESCE(semester_id, '') FROM subjects
		WHERE semester_id = $1 ORDER BY code
	`, semesterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSubjects(rows)
}

// GetSubject returns a subject by id or nil.
func (r *Repository) GetSubject(ctx context.Context, id string) (*Subject, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, code, COALESCE(semester_id, '') FROM subjects WHERE id = $1
	`, id)
	var s Subject
	if err := row.Scan(&s.ID, &s.Name, &s.Code, &s.SemesterID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// CreateSubject inserts a subject.
func (r *Repository) CreateSubject(ctx context.Context, s Subject) (Subject, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO subjects (id, name, code, semester_id) VALUES ($1, $2, $3, $4)
	`, s.ID, s.Name, s.Code, s.SemesterID)
	if err != nil {
		return Subject{}, err
	}
	return s, nil
}

func scanSubjects(rows *sql.Rows) ([]Subject, error) {
	var res []Subject
	for rows.Next() {
		var s Subject
		if err := rows.Scan(&s.ID, &s.Name, &s.Code, &s.SemesterID); err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

// ---- students ----

const studentRowSelect = `
	SELECT s.id, COALESCE(s.user_id, ''), s.roll_no, COALESCE(s.batch_id, ''), COALESCE(s.semester_id, ''),
	       u.name, u.email
	FROM students s
	JOIN users u ON u.id = s.user_id
`

// ListStudentsByBatch returns every student enrolled in a batch, whatever
// their semester, ordered by roll number.
func (r *Repository) ListStudentsByBatch(ctx context.Context, batchID string) ([]StudentRow, error) {
	rows, err := r.db.QueryContext(ctx, studentRowSelect+`
		WHERE s.batch_id = $1 ORDER BY s.roll_no
	`, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStudentRows(rows)
}

// ListStudentsByBatchAndSemester returns the roster for one batch and semester.
func (r *Repository) ListStudentsByBatchAndSemester(ctx context.Context, batchID, semesterID string) ([]StudentRow, error) {
	rows, err := r.db.QueryContext(ctx, studentRowSelect+`
		WHERE s.batch_id = $1 AND s.semester_id = $2 ORDER BY s.roll_no
	`, batchID, semesterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStudentRows(rows)
}

// GetStudent returns a student by id or nil.
func (r *Repository) GetStudent(ctx context.Context, id string) (*Student, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, COALESCE(user_id, ''), roll_no, COALESCE(batch_id, ''), COALESCE(semester_id, '')
		FROM students WHERE id = $1
	`, id)
	var s Student
	if err := row.Scan(&s.ID, &s.UserID, &s.RollNo, &s.BatchID, &s.SemesterID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// GetStudentByUserID returns the student profile for a user account, or nil.
func (r *Repository) GetStudentByUserID(ctx context.Context, userID string) (*Student, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, COALESCE(user_id, ''), roll_no, COALESCE(batch_id, ''), COALESCE(semester_id, '')
		FROM students WHERE user_id = $1
	`, userID)
	var s Student
	if err := row.Scan(&s.ID, &s.UserID, &s.RollNo, &s.BatchID, &s.SemesterID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// CreateStudent inserts a student profile.
func (r *Repository) CreateStudent(ctx context.Context, s Student) (Student, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO students (id, user_id, roll_no, batch_id, semester_id)
		VALUES ($1, $2, $3, $4, $5)
	`, s.ID, s.UserID, s.RollNo, s.BatchID, s.SemesterID)
	if err != nil {
		return Student{}, err
	}
	return s, nil
}

func scanStudentRows(rows *sql.Rows) ([]StudentRow, error) {
	var res []StudentRow
	for rows.Next() {
		var s StudentRow
		if err := rows.Scan(&s.ID, &s.UserID, &s.RollNo, &s.BatchID, &s.SemesterID, &s.Name, &s.Email); err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

// ---- teachers ----

// GetTeacherByUserID returns the teacher profile for a user account, or nil.
func (r *Repository) GetTeacherByUserID(ctx context.Context, userID string) (*Teacher, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, COALESCE(user_id, ''), employee_id FROM teachers WHERE user_id = $1
	`, userID)
	var t Teacher
	if err := row.Scan(&t.ID, &t.UserID, &t.EmployeeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// CreateTeacher inserts a teacher profile.
func (r *Repository) CreateTeacher(ctx context.Context, t Teacher) (Teacher, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO teachers (id, user_id, employee_id) VALUES ($1, $2, $3)
	`, t.ID, t.UserID, t.EmployeeID)
	if err != nil {
		return Teacher{}, err
	}
	return t, nil
}
