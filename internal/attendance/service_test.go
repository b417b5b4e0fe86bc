package attendance

import (
	"context"
	"testing"
	"time"
)

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusPresent, StatusAbsent} {
		if !ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = false", s)
		}
	}
	for _, s := range []string{"", "not_marked", "late", "PRESENT"} {
		if ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = true", s)
		}
	}
}

func TestMarkRejectsInvalidRecords(t *testing.T) {
	svc := NewService(nil)
	date := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	valid := Record{
		StudentID: "s1",
		SubjectID: "subjX",
		TeacherID: "t1",
		Date:      date,
		Status:    StatusPresent,
	}

	cases := []struct {
		name   string
		mutate func(*Record)
	}{
		{"missing student", func(r *Record) { r.StudentID = "" }},
		{"missing subject", func(r *Record) { r.SubjectID = "" }},
		{"missing teacher", func(r *Record) { r.TeacherID = "" }},
		{"missing date", func(r *Record) { r.Date = time.Time{} }},
		{"bad status", func(r *Record) { r.Status = "late" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := valid
			tc.mutate(&rec)
			if _, err := svc.Mark(context.Background(), rec); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestBulkMarkValidatesWholeBatch(t *testing.T) {
	svc := NewService(nil)
	date := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	recs := []Record{
		{StudentID: "s1", SubjectID: "subjX", TeacherID: "t1", Date: date, Status: StatusPresent},
		{StudentID: "s2", SubjectID: "subjX", TeacherID: "t1", Date: date, Status: "late"},
	}
	if _, err := svc.BulkMark(context.Background(), recs); err == nil {
		t.Fatal("one invalid record must fail the whole batch before writing")
	}
}

func TestCorrectRejectsInvalidStatus(t *testing.T) {
	svc := NewService(nil)
	if err := svc.Correct(context.Background(), "id", "late"); err == nil {
		t.Fatal("expected validation error")
	}
}
