package report

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

var testRoster = []Student{
	{ID: "s1", RollNo: "001", Name: "Asha", Email: "asha@example.com"},
	{ID: "s2", RollNo: "002", Name: "Ben", Email: "ben@example.com"},
	{ID: "s3", RollNo: "003", Name: "Chitra", Email: "chitra@example.com"},
}

func TestComputeDayReportRosterDrivesRows(t *testing.T) {
	// Only s1 has a mark; s2 and s3 must still appear, as not_marked.
	rep, err := ComputeDayReport(DayParams{
		Date:      day("2024-01-10"),
		SubjectID: "subjX",
		BatchID:   "batchB",
	}, testRoster, []Mark{
		{StudentID: "s1", SubjectID: "subjX", Date: day("2024-01-10"), Status: StatusPresent},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rep.TotalStudents != 3 || rep.PresentCount != 1 || rep.AbsentCount != 0 || rep.NotMarkedCount != 2 {
		t.Fatalf("counts = %d/%d/%d/%d, want 3/1/0/2",
			rep.TotalStudents, rep.PresentCount, rep.AbsentCount, rep.NotMarkedCount)
	}
	if len(rep.Students) != 3 {
		t.Fatalf("len(students) = %d, want 3", len(rep.Students))
	}
	for _, row := range rep.Students[1:] {
		if row.Status != StatusNotMarked {
			t.Errorf("student %s status = %s, want not_marked", row.ID, row.Status)
		}
	}
}

func TestComputeDayReportCountsPartitionTotal(t *testing.T) {
	rep, err := ComputeDayReport(DayParams{
		Date:      day("2024-01-10"),
		SubjectID: "subjX",
		BatchID:   "batchB",
	}, testRoster, []Mark{
		{StudentID: "s1", Date: day("2024-01-10"), Status: StatusPresent},
		{StudentID: "s2", Date: day("2024-01-10"), Status: StatusAbsent},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := rep.PresentCount + rep.AbsentCount + rep.NotMarkedCount; got != rep.TotalStudents {
		t.Fatalf("partition sum = %d, want %d", got, rep.TotalStudents)
	}
	if rep.TotalStudents != len(testRoster) {
		t.Fatalf("totalStudents = %d, want roster size %d", rep.TotalStudents, len(testRoster))
	}
}

func TestComputeDayReportDuplicateLastWins(t *testing.T) {
	// Two marks for s1 on the same day: the later write must win.
	rep, err := ComputeDayReport(DayParams{
		Date:      day("2024-01-10"),
		SubjectID: "subjX",
		BatchID:   "batchB",
	}, testRoster, []Mark{
		{StudentID: "s1", Date: day("2024-01-10"), Status: StatusPresent},
		{StudentID: "s1", Date: day("2024-01-10"), Status: StatusAbsent},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rep.Students[0].Status != StatusAbsent {
		t.Fatalf("status = %s, want absent (last mark)", rep.Students[0].Status)
	}
	if rep.AbsentCount != 1 || rep.PresentCount != 0 {
		t.Fatalf("counts present=%d absent=%d, want 0/1", rep.PresentCount, rep.AbsentCount)
	}
}

func TestComputeDayReportIgnoresTimeOfDay(t *testing.T) {
	marked := time.Date(2024, 1, 10, 14, 30, 0, 0, time.FixedZone("x", 3600))
	rep, err := ComputeDayReport(DayParams{
		Date:      day("2024-01-10"),
		SubjectID: "subjX",
		BatchID:   "batchB",
	}, testRoster[:1], []Mark{
		{StudentID: "s1", Date: marked, Status: StatusPresent},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rep.PresentCount != 1 {
		t.Fatalf("presentCount = %d, want 1 (time-of-day ignored)", rep.PresentCount)
	}
}

func TestComputeDayReportMissingParameters(t *testing.T) {
	cases := []struct {
		name   string
		params DayParams
		want   string
	}{
		{"no date", DayParams{SubjectID: "x", BatchID: "b"}, "date"},
		{"no subject", DayParams{Date: day("2024-01-10"), BatchID: "b"}, "subjectId"},
		{"no batch", DayParams{Date: day("2024-01-10"), SubjectID: "x"}, "batchId"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ComputeDayReport(tc.params, testRoster, nil)
			var missing *MissingParameterError
			if !errors.As(err, &missing) {
				t.Fatalf("err = %v, want MissingParameterError", err)
			}
			if missing.Param != tc.want {
				t.Fatalf("param = %s, want %s", missing.Param, tc.want)
			}
		})
	}
}

func TestComputeDayReportSemesterOptional(t *testing.T) {
	rep, err := ComputeDayReport(DayParams{
		Date:      day("2024-01-10"),
		SubjectID: "x",
		BatchID:   "b",
	}, nil, nil)
	if err != nil {
		t.Fatalf("semesterId must be optional, got %v", err)
	}
	if rep.TotalStudents != 0 || len(rep.Students) != 0 {
		t.Fatalf("empty roster must yield an empty report, got %+v", rep)
	}
}

func validRange() RangeParams {
	return RangeParams{
		BatchID:    "batchB",
		SemesterID: "sem1",
		SubjectID:  "subjX",
		Start:      day("2024-01-01"),
		End:        day("2024-01-03"),
	}
}

func TestComputeBatchRangeReportShape(t *testing.T) {
	rep, err := ComputeBatchRangeReport(validRange(), testRoster, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rep.Dates) != 3 {
		t.Fatalf("len(dates) = %d, want 3", len(rep.Dates))
	}
	want := []string{"2024-01-01", "2024-01-02", "2024-01-03"}
	if !reflect.DeepEqual(rep.Dates, want) {
		t.Fatalf("dates = %v, want %v", rep.Dates, want)
	}
	for _, row := range rep.Students {
		if len(row.StatusByDate) != len(rep.Dates) {
			t.Errorf("student %s has %d statuses, want %d", row.ID, len(row.StatusByDate), len(rep.Dates))
		}
	}
}

func TestComputeBatchRangeReportGapFillAndPercent(t *testing.T) {
	// s1: present 01-01, unmarked 01-02, absent 01-03 -> 1 present / 2 counted = 50%.
	rep, err := ComputeBatchRangeReport(validRange(), testRoster[:1], []Mark{
		{StudentID: "s1", Date: day("2024-01-01"), Status: StatusPresent},
		{StudentID: "s1", Date: day("2024-01-03"), Status: StatusAbsent},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	row := rep.Students[0]
	want := map[string]Status{
		"2024-01-01": StatusPresent,
		"2024-01-02": StatusNotMarked,
		"2024-01-03": StatusAbsent,
	}
	if !reflect.DeepEqual(row.StatusByDate, want) {
		t.Fatalf("statusByDate = %v, want %v", row.StatusByDate, want)
	}
	if row.Percent != 50 {
		t.Fatalf("percent = %d, want 50", row.Percent)
	}
}

func TestComputeBatchRangeReportRoundingBoundaries(t *testing.T) {
	// Thirds exercise the rounding rule: 1/3 -> 33, 2/3 -> 67.
	params := validRange()
	marksFor := func(statuses ...Status) []Mark {
		var marks []Mark
		for i, st := range statuses {
			marks = append(marks, Mark{
				StudentID: "s1",
				Date:      day("2024-01-01").AddDate(0, 0, i),
				Status:    st,
			})
		}
		return marks
	}

	cases := []struct {
		name  string
		marks []Mark
		want  int
	}{
		{"one third", marksFor(StatusPresent, StatusAbsent, StatusAbsent), 33},
		{"two thirds", marksFor(StatusPresent, StatusPresent, StatusAbsent), 67},
		{"half", marksFor(StatusPresent, StatusAbsent), 50},
		{"all unmarked", nil, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rep, err := ComputeBatchRangeReport(params, testRoster[:1], tc.marks)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := rep.Students[0].Percent; got != tc.want {
				t.Fatalf("percent = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestComputeBatchRangeReportSingleDayRange(t *testing.T) {
	params := validRange()
	params.End = params.Start
	rep, err := ComputeBatchRangeReport(params, testRoster, nil)
	if err != nil {
		t.Fatalf("start == end must be valid, got %v", err)
	}
	if len(rep.Dates) != 1 {
		t.Fatalf("len(dates) = %d, want 1", len(rep.Dates))
	}
}

func TestComputeBatchRangeReportInvalidRange(t *testing.T) {
	params := validRange()
	params.Start = day("2024-02-05")
	params.End = day("2024-02-01")
	_, err := ComputeBatchRangeReport(params, testRoster, nil)
	var badRange *InvalidRangeError
	if !errors.As(err, &badRange) {
		t.Fatalf("err = %v, want InvalidRangeError", err)
	}
}

func TestComputeBatchRangeReportDuplicateLastWins(t *testing.T) {
	rep, err := ComputeBatchRangeReport(validRange(), testRoster[:1], []Mark{
		{StudentID: "s1", Date: day("2024-01-02"), Status: StatusAbsent},
		{StudentID: "s1", Date: day("2024-01-02"), Status: StatusPresent},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := rep.Students[0].StatusByDate["2024-01-02"]; got != StatusPresent {
		t.Fatalf("status = %s, want present (last mark)", got)
	}
}

func TestComputeBatchRangeReportIdempotent(t *testing.T) {
	marks := []Mark{
		{StudentID: "s1", Date: day("2024-01-01"), Status: StatusPresent},
		{StudentID: "s2", Date: day("2024-01-02"), Status: StatusAbsent},
	}
	first, err := ComputeBatchRangeReport(validRange(), testRoster, marks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := ComputeBatchRangeReport(validRange(), testRoster, marks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("same inputs must produce identical reports")
	}
}

func studentParams(subjectID string) StudentRangeParams {
	return StudentRangeParams{
		StudentID: "s1",
		SubjectID: subjectID,
		Start:     day("2024-01-01"),
		End:       day("2024-01-03"),
	}
}

func TestComputeStudentRangeReportSingleSubject(t *testing.T) {
	rep, err := ComputeStudentRangeReport(studentParams("subjX"), []Mark{
		{StudentID: "s1", SubjectID: "subjX", SubjectName: "Algorithms", Date: day("2024-01-01"), Status: StatusPresent},
		{StudentID: "s1", SubjectID: "subjX", SubjectName: "Algorithms", Date: day("2024-01-03"), Status: StatusAbsent},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rep.Subjects) != 1 {
		t.Fatalf("len(subjects) = %d, want 1", len(rep.Subjects))
	}
	sub := rep.Subjects[0]
	if sub.SubjectName == nil || *sub.SubjectName != "Algorithms" {
		t.Fatalf("subjectName = %v, want Algorithms", sub.SubjectName)
	}
	if sub.Present != 1 || sub.Total != 2 || sub.Percent != 50 {
		t.Fatalf("present/total/percent = %d/%d/%d, want 1/2/50", sub.Present, sub.Total, sub.Percent)
	}
	if sub.StatusByDate["2024-01-02"] != StatusNotMarked {
		t.Fatalf("gap day must be not_marked, got %s", sub.StatusByDate["2024-01-02"])
	}
}

func TestComputeStudentRangeReportSingleSubjectNoMarks(t *testing.T) {
	rep, err := ComputeStudentRangeReport(studentParams("subjX"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rep.Subjects) != 1 {
		t.Fatalf("requested subject must still yield a row, got %d rows", len(rep.Subjects))
	}
	sub := rep.Subjects[0]
	if sub.SubjectName != nil {
		t.Fatalf("subjectName = %v, want nil when nothing was marked", *sub.SubjectName)
	}
	if sub.Total != 0 || sub.Percent != 0 {
		t.Fatalf("total/percent = %d/%d, want 0/0", sub.Total, sub.Percent)
	}
	if len(sub.StatusByDate) != 3 {
		t.Fatalf("len(statusByDate) = %d, want 3", len(sub.StatusByDate))
	}
}

func TestComputeStudentRangeReportAllSubjects(t *testing.T) {
	// No subject filter: one row per subject, never a collapsed row.
	rep, err := ComputeStudentRangeReport(studentParams(""), []Mark{
		{StudentID: "s1", SubjectID: "subjB", SubjectName: "Databases", Date: day("2024-01-01"), Status: StatusPresent},
		{StudentID: "s1", SubjectID: "subjA", SubjectName: "Algorithms", Date: day("2024-01-01"), Status: StatusAbsent},
		{StudentID: "s1", SubjectID: "subjA", SubjectName: "Algorithms", Date: day("2024-01-02"), Status: StatusPresent},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rep.Subjects) != 2 {
		t.Fatalf("len(subjects) = %d, want 2", len(rep.Subjects))
	}
	if *rep.Subjects[0].SubjectName != "Algorithms" || *rep.Subjects[1].SubjectName != "Databases" {
		t.Fatalf("subjects not sorted by name: %v, %v", rep.Subjects[0].SubjectName, rep.Subjects[1].SubjectName)
	}
	if rep.Overall.Present != 2 || rep.Overall.Total != 3 {
		t.Fatalf("overall = %d/%d, want 2/3", rep.Overall.Present, rep.Overall.Total)
	}
	if rep.Overall.Percent != 67 {
		t.Fatalf("overall percent = %d, want 67", rep.Overall.Percent)
	}
}

func TestComputeStudentRangeReportInvalidRange(t *testing.T) {
	params := studentParams("subjX")
	params.Start = day("2024-02-05")
	params.End = day("2024-02-01")
	_, err := ComputeStudentRangeReport(params, nil)
	var badRange *InvalidRangeError
	if !errors.As(err, &badRange) {
		t.Fatalf("err = %v, want InvalidRangeError", err)
	}
}

func TestComputeStudentRangeReportMissingStudent(t *testing.T) {
	params := studentParams("")
	params.StudentID = ""
	_, err := ComputeStudentRangeReport(params, nil)
	var missing *MissingParameterError
	if !errors.As(err, &missing) || missing.Param != "studentId" {
		t.Fatalf("err = %v, want MissingParameterError{studentId}", err)
	}
}

func TestDateSequenceCoversWeekends(t *testing.T) {
	// 2024-01-05 is a Friday; the sequence must not skip the weekend.
	dates := dateSequence(day("2024-01-05"), day("2024-01-08"))
	want := []string{"2024-01-05", "2024-01-06", "2024-01-07", "2024-01-08"}
	if !reflect.DeepEqual(dates, want) {
		t.Fatalf("dates = %v, want %v", dates, want)
	}
}
