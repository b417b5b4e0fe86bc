package report

import (
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Attendance"

// BuildRangeWorkbook renders a range report as an xlsx workbook: one row per
// student, one column per date, percentage last. Not-marked days render as a
// dash so marked absences stay visually distinct.
func BuildRangeWorkbook(rep *RangeReport, title string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	headers := append([]string{"Roll No", "Name"}, rep.Dates...)
	headers = append(headers, "Percent")
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(exportSheet, cell, h); err != nil {
			return nil, err
		}
	}

	for r, student := range rep.Students {
		values := make([]any, 0, len(headers))
		values = append(values, student.RollNo, student.Name)
		for _, day := range rep.Dates {
			values = append(values, statusCell(student.StatusByDate[day]))
		}
		values = append(values, student.Percent)
		for c, v := range values {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(exportSheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	if title != "" {
		if err := f.SetDocProps(&excelize.DocProperties{Title: title}); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func statusCell(s Status) string {
	switch s {
	case StatusPresent:
		return "Present"
	case StatusAbsent:
		return "Absent"
	default:
		return "-"
	}
}
