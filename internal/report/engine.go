package report

import (
	"math"
	"sort"
	"time"
)

const dateLayout = "2006-01-02"

// Status is the per-day state a report assigns to a student. StatusNotMarked
// exists only in report output; the attendance log never stores it.
type Status string

const (
	StatusPresent   Status = "present"
	StatusAbsent    Status = "absent"
	StatusNotMarked Status = "not_marked"
)

// Student is the roster row the engine consumes. The roster, not the
// attendance log, decides which students appear in a report.
type Student struct {
	ID     string `json:"id"`
	RollNo string `json:"rollNo"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// Mark is one attendance record as the engine sees it. Callers must supply
// marks in write order (oldest first): when the same (student, subject, date)
// was marked more than once, the engine keeps the last mark it sees.
type Mark struct {
	StudentID   string
	SubjectID   string
	SubjectName string
	Date        time.Time
	Status      Status
}

// DayParams identifies a day report: one subject, one batch, one calendar
// date, optionally narrowed to a semester.
type DayParams struct {
	Date       time.Time
	SubjectID  string
	BatchID    string
	SemesterID string
}

func (p DayParams) validate() error {
	switch {
	case p.Date.IsZero():
		return &MissingParameterError{Param: "date"}
	case p.SubjectID == "":
		return &MissingParameterError{Param: "subjectId"}
	case p.BatchID == "":
		return &MissingParameterError{Param: "batchId"}
	}
	return nil
}

// DayRow is one student's line in a day report.
type DayRow struct {
	ID     string `json:"id"`
	RollNo string `json:"rollNo"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Status Status `json:"status"`
}

// DayReport summarises one subject on one date across a roster. The three
// counts always partition TotalStudents.
type DayReport struct {
	Date           string   `json:"date"`
	SubjectID      string   `json:"subjectId"`
	BatchID        string   `json:"batchId"`
	SemesterID     string   `json:"semesterId,omitempty"`
	TotalStudents  int      `json:"totalStudents"`
	PresentCount   int      `json:"presentCount"`
	AbsentCount    int      `json:"absentCount"`
	NotMarkedCount int      `json:"notMarkedCount"`
	Students       []DayRow `json:"students"`
}

// ComputeDayReport builds a day report from a roster and the marks recorded
// for the subject on that date. Students without a mark are reported as
// not_marked. An empty roster yields an empty report, not an error.
func ComputeDayReport(p DayParams, roster []Student, marks []Mark) (*DayReport, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	day := dateKey(p.Date)
	statusByStudent := make(map[string]Status, len(marks))
	for _, m := range marks {
		if dateKey(m.Date) != day {
			continue
		}
		statusByStudent[m.StudentID] = m.Status
	}

	rep := &DayReport{
		Date:          day,
		SubjectID:     p.SubjectID,
		BatchID:       p.BatchID,
		SemesterID:    p.SemesterID,
		TotalStudents: len(roster),
		Students:      make([]DayRow, 0, len(roster)),
	}
	for _, s := range roster {
		status, ok := statusByStudent[s.ID]
		if !ok {
			status = StatusNotMarked
		}
		switch status {
		case StatusPresent:
			rep.PresentCount++
		case StatusAbsent:
			rep.AbsentCount++
		default:
			rep.NotMarkedCount++
		}
		rep.Students = append(rep.Students, DayRow{
			ID:     s.ID,
			RollNo: s.RollNo,
			Name:   s.Name,
			Email:  s.Email,
			Status: status,
		})
	}
	return rep, nil
}

// RangeParams identifies a batch range report.
type RangeParams struct {
	BatchID    string
	SemesterID string
	SubjectID  string
	Start      time.Time
	End        time.Time
}

func (p RangeParams) validate() error {
	switch {
	case p.BatchID == "":
		return &MissingParameterError{Param: "batchId"}
	case p.SemesterID == "":
		return &MissingParameterError{Param: "semesterId"}
	case p.SubjectID == "":
		return &MissingParameterError{Param: "subjectId"}
	case p.Start.IsZero():
		return &MissingParameterError{Param: "startDate"}
	case p.End.IsZero():
		return &MissingParameterError{Param: "endDate"}
	}
	if dayOf(p.Start).After(dayOf(p.End)) {
		return &InvalidRangeError{Start: p.Start, End: p.End}
	}
	return nil
}

// RangeRow is one student's line in a range report: a status for every date
// in the range and the attendance percentage over the marked dates.
type RangeRow struct {
	ID           string            `json:"id"`
	RollNo       string            `json:"rollNo"`
	Name         string            `json:"name"`
	Email        string            `json:"email"`
	StatusByDate map[string]Status `json:"statusByDate"`
	Percent      int               `json:"percent"`
}

// RangeReport is the per-date attendance matrix for a roster. Dates holds
// every calendar date in the range, marked or not.
type RangeReport struct {
	Dates    []string   `json:"dates"`
	Students []RangeRow `json:"students"`
}

// ComputeBatchRangeReport builds the attendance matrix for a roster over an
// inclusive date range. Every date in the range becomes a column; dates with
// no mark are not_marked and excluded from the percentage denominator.
func ComputeBatchRangeReport(p RangeParams, roster []Student, marks []Mark) (*RangeReport, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	dates := dateSequence(p.Start, p.End)

	byStudent := make(map[string]map[string]Status)
	for _, m := range marks {
		day := dateKey(m.Date)
		if _, ok := byStudent[m.StudentID]; !ok {
			byStudent[m.StudentID] = make(map[string]Status)
		}
		byStudent[m.StudentID][day] = m.Status
	}

	rep := &RangeReport{
		Dates:    dates,
		Students: make([]RangeRow, 0, len(roster)),
	}
	for _, s := range roster {
		row := RangeRow{
			ID:           s.ID,
			RollNo:       s.RollNo,
			Name:         s.Name,
			Email:        s.Email,
			StatusByDate: make(map[string]Status, len(dates)),
		}
		present, counted := 0, 0
		for _, day := range dates {
			status, ok := byStudent[s.ID][day]
			if !ok {
				status = StatusNotMarked
			}
			row.StatusByDate[day] = status
			switch status {
			case StatusPresent:
				present++
				counted++
			case StatusAbsent:
				counted++
			}
		}
		row.Percent = percent(present, counted)
		rep.Students = append(rep.Students, row)
	}
	return rep, nil
}

// StudentRangeParams identifies a single-student range report. An empty
// SubjectID asks for one row per subject marked in the range.
type StudentRangeParams struct {
	StudentID string
	SubjectID string
	Start     time.Time
	End       time.Time
}

func (p StudentRangeParams) validate() error {
	switch {
	case p.StudentID == "":
		return &MissingParameterError{Param: "studentId"}
	case p.Start.IsZero():
		return &MissingParameterError{Param: "fromDate"}
	case p.End.IsZero():
		return &MissingParameterError{Param: "toDate"}
	}
	if dayOf(p.Start).After(dayOf(p.End)) {
		return &InvalidRangeError{Start: p.Start, End: p.End}
	}
	return nil
}

// SubjectRange is one subject's slice of a student range report. SubjectName
// is nil when no mark in range named the subject.
type SubjectRange struct {
	SubjectID    string            `json:"subjectId"`
	SubjectName  *string           `json:"subjectName"`
	Dates        []string          `json:"dates"`
	StatusByDate map[string]Status `json:"statusByDate"`
	Present      int               `json:"present"`
	Total        int               `json:"total"`
	Percent      int               `json:"percent"`
}

// Summary aggregates present/marked counts across subjects.
type Summary struct {
	Present int `json:"present"`
	Total   int `json:"total"`
	Percent int `json:"percent"`
}

// StudentRangeReport is the single-student report: one SubjectRange per
// subject (exactly one in single-subject mode) plus the overall summary over
// marked days.
type StudentRangeReport struct {
	Dates    []string       `json:"dates"`
	Subjects []SubjectRange `json:"subjects"`
	Overall  Summary        `json:"overall"`
}

// ComputeStudentRangeReport builds per-subject attendance matrices for one
// student. In single-subject mode the requested subject always yields a row,
// even when nothing was marked. In all-subjects mode each subject marked in
// the range yields its own row; subjects are never collapsed into one line.
func ComputeStudentRangeReport(p StudentRangeParams, marks []Mark) (*StudentRangeReport, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	dates := dateSequence(p.Start, p.End)

	type subjectFold struct {
		name         *string
		statusByDate map[string]Status
	}
	folds := make(map[string]*subjectFold)
	if p.SubjectID != "" {
		folds[p.SubjectID] = &subjectFold{statusByDate: make(map[string]Status)}
	}
	for _, m := range marks {
		if p.SubjectID != "" && m.SubjectID != p.SubjectID {
			continue
		}
		f, ok := folds[m.SubjectID]
		if !ok {
			f = &subjectFold{statusByDate: make(map[string]Status)}
			folds[m.SubjectID] = f
		}
		if m.SubjectName != "" {
			name := m.SubjectName
			f.name = &name
		}
		f.statusByDate[dateKey(m.Date)] = m.Status
	}

	subjectIDs := make([]string, 0, len(folds))
	for id := range folds {
		subjectIDs = append(subjectIDs, id)
	}
	sort.Slice(subjectIDs, func(i, j int) bool {
		a, b := folds[subjectIDs[i]], folds[subjectIDs[j]]
		an, bn := "", ""
		if a.name != nil {
			an = *a.name
		}
		if b.name != nil {
			bn = *b.name
		}
		if an != bn {
			return an < bn
		}
		return subjectIDs[i] < subjectIDs[j]
	})

	rep := &StudentRangeReport{
		Dates:    dates,
		Subjects: make([]SubjectRange, 0, len(subjectIDs)),
	}
	for _, id := range subjectIDs {
		f := folds[id]
		sr := SubjectRange{
			SubjectID:    id,
			SubjectName:  f.name,
			Dates:        dates,
			StatusByDate: make(map[string]Status, len(dates)),
		}
		for _, day := range dates {
			status, ok := f.statusByDate[day]
			if !ok {
				status = StatusNotMarked
			}
			sr.StatusByDate[day] = status
			switch status {
			case StatusPresent:
				sr.Present++
				sr.Total++
			case StatusAbsent:
				sr.Total++
			}
		}
		sr.Percent = percent(sr.Present, sr.Total)
		rep.Overall.Present += sr.Present
		rep.Overall.Total += sr.Total
		rep.Subjects = append(rep.Subjects, sr)
	}
	rep.Overall.Percent = percent(rep.Overall.Present, rep.Overall.Total)
	return rep, nil
}

// dayOf truncates a timestamp to its calendar date.
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func dateKey(t time.Time) string {
	return t.Format(dateLayout)
}

// dateSequence returns every calendar date from start to end inclusive.
func dateSequence(start, end time.Time) []string {
	var dates []string
	for d, last := dayOf(start), dayOf(end); !d.After(last); d = d.AddDate(0, 0, 1) {
		dates = append(dates, dateKey(d))
	}
	return dates
}

// percent rounds present/counted to the nearest whole percentage, halves up.
// A zero denominator is defined as 0, not an error.
func percent(present, counted int) int {
	if counted == 0 {
		return 0
	}
	return int(math.Round(float64(present) / float64(counted) * 100))
}
