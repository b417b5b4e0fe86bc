package report

import (
	"context"
	"log"
	"time"

	"rollbook/internal/attendance"
	"rollbook/internal/metrics"
	"rollbook/internal/roster"
)

// RosterStore is the slice of the roster repository the report service needs.
type RosterStore interface {
	ListStudentsByBatch(ctx context.Context, batchID string) ([]roster.StudentRow, error)
	ListStudentsByBatchAndSemester(ctx context.Context, batchID, semesterID string) ([]roster.StudentRow, error)
}

// AttendanceLog is the slice of the attendance repository the report service
// needs. Implementations must return marks in write order (oldest first).
type AttendanceLog interface {
	ListByDateAndSubject(ctx context.Context, date time.Time, subjectID string) ([]attendance.Record, error)
	ListByStudentsAndRange(ctx context.Context, studentIDs []string, subjectID string, start, end time.Time) ([]attendance.Record, error)
	ListByStudentAndRange(ctx context.Context, studentID, subjectID string, start, end time.Time) ([]attendance.SubjectRecord, error)
}

// Cache stores computed reports keyed by their parameter tuple. A nil Cache
// disables caching.
type Cache interface {
	Get(ctx context.Context, key string, v any) (bool, error)
	Set(ctx context.Context, key string, v any) error
}

// Service fetches roster and attendance data and hands it to the pure
// computation functions. It holds no mutable state; concurrent report calls
// do not interact.
type Service struct {
	roster RosterStore
	logbk  AttendanceLog
	cache  Cache
}

// NewService creates a report service. cache may be nil.
func NewService(rosterStore RosterStore, logStore AttendanceLog, cache Cache) *Service {
	return &Service{roster: rosterStore, logbk: logStore, cache: cache}
}

// Day computes the day report for p.
func (s *Service) Day(ctx context.Context, p DayParams) (*DayReport, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	key := "report:" + p.SubjectID + ":day:" + p.BatchID + ":" + p.SemesterID + ":" + dateKey(p.Date)
	var cached DayReport
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	students, err := s.fetchRoster(ctx, p.BatchID, p.SemesterID)
	if err != nil {
		return nil, err
	}
	records, err := s.logbk.ListByDateAndSubject(ctx, p.Date, p.SubjectID)
	if err != nil {
		return nil, err
	}
	rep, err := ComputeDayReport(p, students, recordMarks(records))
	if err != nil {
		return nil, err
	}
	metrics.Reports.WithLabelValues("day").Inc()
	s.cacheSet(ctx, key, rep)
	return rep, nil
}

// BatchRange computes the batch range report for p.
func (s *Service) BatchRange(ctx context.Context, p RangeParams) (*RangeReport, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	key := "report:" + p.SubjectID + ":range:" + p.BatchID + ":" + p.SemesterID +
		":" + dateKey(p.Start) + ":" + dateKey(p.End)
	var cached RangeReport
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	students, err := s.roster.ListStudentsByBatchAndSemester(ctx, p.BatchID, p.SemesterID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(students))
	for i, st := range students {
		ids[i] = st.ID
	}
	records, err := s.logbk.ListByStudentsAndRange(ctx, ids, p.SubjectID, p.Start, p.End)
	if err != nil {
		return nil, err
	}
	rep, err := ComputeBatchRangeReport(p, rosterStudents(students), recordMarks(records))
	if err != nil {
		return nil, err
	}
	metrics.Reports.WithLabelValues("range").Inc()
	s.cacheSet(ctx, key, rep)
	return rep, nil
}

// StudentRange computes the single-student range report for p.
func (s *Service) StudentRange(ctx context.Context, p StudentRangeParams) (*StudentRangeReport, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	subjectPart := p.SubjectID
	if subjectPart == "" {
		subjectPart = "all"
	}
	key := "report:" + subjectPart + ":student:" + p.StudentID +
		":" + dateKey(p.Start) + ":" + dateKey(p.End)
	var cached StudentRangeReport
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	records, err := s.logbk.ListByStudentAndRange(ctx, p.StudentID, p.SubjectID, p.Start, p.End)
	if err != nil {
		return nil, err
	}
	marks := make([]Mark, len(records))
	for i, rec := range records {
		marks[i] = Mark{
			StudentID:   rec.StudentID,
			SubjectID:   rec.SubjectID,
			SubjectName: rec.SubjectName,
			Date:        rec.Date,
			Status:      Status(rec.Status),
		}
	}
	rep, err := ComputeStudentRangeReport(p, marks)
	if err != nil {
		return nil, err
	}
	metrics.Reports.WithLabelValues("student").Inc()
	s.cacheSet(ctx, key, rep)
	return rep, nil
}

// fetchRoster resolves the day-report roster: the whole batch, or one
// batch+semester slice when a semester filter is supplied.
func (s *Service) fetchRoster(ctx context.Context, batchID, semesterID string) ([]Student, error) {
	var (
		rows []roster.StudentRow
		err  error
	)
	if semesterID == "" {
		rows, err = s.roster.ListStudentsByBatch(ctx, batchID)
	} else {
		rows, err = s.roster.ListStudentsByBatchAndSemester(ctx, batchID, semesterID)
	}
	if err != nil {
		return nil, err
	}
	return rosterStudents(rows), nil
}

func (s *Service) cacheGet(ctx context.Context, key string, v any) bool {
	if s.cache == nil {
		return false
	}
	ok, err := s.cache.Get(ctx, key, v)
	if err != nil {
		log.Printf("report cache get %s: %v", key, err)
		return false
	}
	return ok
}

func (s *Service) cacheSet(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, v); err != nil {
		log.Printf("report cache set %s: %v", key, err)
	}
}

func rosterStudents(rows []roster.StudentRow) []Student {
	out := make([]Student, len(rows))
	for i, r := range rows {
		out[i] = Student{ID: r.ID, RollNo: r.RollNo, Name: r.Name, Email: r.Email}
	}
	return out
}

func recordMarks(records []attendance.Record) []Mark {
	out := make([]Mark, len(records))
	for i, rec := range records {
		out[i] = Mark{
			StudentID: rec.StudentID,
			SubjectID: rec.SubjectID,
			Date:      rec.Date,
			Status:    Status(rec.Status),
		}
	}
	return out
}
