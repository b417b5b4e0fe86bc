package attendance

import (
	"context"
	"errors"
	"time"
)

const dateLayout = "2006-01-02"

// Mark statuses stored in the log. A missing row means "not marked", which
// exists only in report output.
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
)

// Record is one attendance mark: a student's presence in one subject on one
// calendar date. The date carries no time-of-day meaning.
type Record struct {
	ID        string    `json:"id"`
	StudentID string    `json:"studentId"`
	SubjectID string    `json:"subjectId"`
	TeacherID string    `json:"teacherId"`
	Date      time.Time `json:"date"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// SubjectRecord is a record joined with its subject's name and code.
type SubjectRecord struct {
	Record
	SubjectName string `json:"subjectName"`
	SubjectCode string `json:"subjectCode"`
}

// HistoryRecord is the student-dashboard row: mark plus subject and teacher
// display fields.
type HistoryRecord struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	Status      string    `json:"status"`
	SubjectName string    `json:"subjectName"`
	SubjectCode string    `json:"subjectCode"`
	TeacherName string    `json:"teacherName"`
}

// ValidStatus reports whether s is a storable mark status.
func ValidStatus(s string) bool {
	return s == StatusPresent || s == StatusAbsent
}

// Service validates and records attendance marks.
type Service struct {
	repo *Repository
}

// NewService creates a service backed by a repository.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

func validateRecord(rec Record) error {
	switch {
	case rec.StudentID == "":
		return errors.New("student id required")
	case rec.SubjectID == "":
		return errors.New("subject id required")
	case rec.TeacherID == "":
		return errors.New("teacher id required")
	case rec.Date.IsZero():
		return errors.New("date required")
	case !ValidStatus(rec.Status):
		return errors.New("status must be present or absent")
	}
	return nil
}

// Mark stores one attendance mark. Duplicate marks for the same
// (student, subject, date) are allowed; reports resolve them last-write-wins.
func (s *Service) Mark(ctx context.Context, rec Record) (Record, error) {
	if err := validateRecord(rec); err != nil {
		return Record{}, err
	}
	return s.repo.Insert(ctx, rec)
}

// BulkMark stores a batch of marks atomically. The whole batch is validated
// before anything is written.
func (s *Service) BulkMark(ctx context.Context, recs []Record) ([]Record, error) {
	for _, rec := range recs {
		if err := validateRecord(rec); err != nil {
			return nil, err
		}
	}
	return s.repo.BulkInsert(ctx, recs)
}

// Correct updates the status of an existing mark.
func (s *Service) Correct(ctx context.Context, id, status string) error {
	if !ValidStatus(status) {
		return errors.New("status must be present or absent")
	}
	return s.repo.UpdateStatus(ctx, id, status)
}
