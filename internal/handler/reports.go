package handler

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"rollbook/internal/report"
)

// DayReport handles GET /api/reports/attendance: one subject, one batch, one
// date, optionally narrowed to a semester.
func (h *Handler) DayReport(c *gin.Context) {
	date, err := parseDate(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be yyyy-mm-dd"})
		return
	}
	rep, err := h.reports.Day(c.Request.Context(), report.DayParams{
		Date:       date,
		SubjectID:  c.Query("subjectId"),
		BatchID:    c.Query("batchId"),
		SemesterID: c.Query("semesterId"),
	})
	if err != nil {
		reportError(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

func rangeParamsFromQuery(c *gin.Context) (report.RangeParams, error) {
	start, err := parseDate(c.Query("startDate"))
	if err != nil {
		return report.RangeParams{}, err
	}
	end, err := parseDate(c.Query("endDate"))
	if err != nil {
		return report.RangeParams{}, err
	}
	return report.RangeParams{
		BatchID:    c.Query("batchId"),
		SemesterID: c.Query("semesterId"),
		SubjectID:  c.Query("subjectId"),
		Start:      start,
		End:        end,
	}, nil
}

// RangeReport handles GET /api/reports/attendance-range: the per-date matrix
// for a roster over an inclusive date range.
func (h *Handler) RangeReport(c *gin.Context) {
	params, err := rangeParamsFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dates must be yyyy-mm-dd"})
		return
	}
	rep, err := h.reports.BatchRange(c.Request.Context(), params)
	if err != nil {
		reportError(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

// ExportRangeReport handles GET /api/reports/attendance-range/export: the
// same report as an xlsx workbook.
func (h *Handler) ExportRangeReport(c *gin.Context) {
	params, err := rangeParamsFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dates must be yyyy-mm-dd"})
		return
	}
	rep, err := h.reports.BatchRange(c.Request.Context(), params)
	if err != nil {
		reportError(c, err)
		return
	}

	title := "Attendance"
	if subject, err := h.roster.GetSubject(c.Request.Context(), params.SubjectID); err == nil && subject != nil {
		title = subject.Name + " attendance"
	}
	book, err := report.BuildRangeWorkbook(rep, title)
	if err != nil {
		log.Printf("build workbook failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build export"})
		return
	}

	filename := fmt.Sprintf("attendance_%s_%s_%s.xlsx",
		params.BatchID, params.Start.Format(dateLayout), params.End.Format(dateLayout))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := book.Write(c.Writer); err != nil {
		log.Printf("write workbook failed: %v", err)
	}
}

// StudentReport handles GET /api/reports/student/:studentId. With a
// subjectId filter the response is the single subject's matrix; without one
// it is one matrix per subject plus an overall summary.
func (h *Handler) StudentReport(c *gin.Context) {
	start, err := parseDate(c.Query("fromDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fromDate must be yyyy-mm-dd"})
		return
	}
	end, err := parseDate(c.Query("toDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "toDate must be yyyy-mm-dd"})
		return
	}

	params := report.StudentRangeParams{
		StudentID: c.Param("studentId"),
		SubjectID: c.Query("subjectId"),
		Start:     start,
		End:       end,
	}
	rep, err := h.reports.StudentRange(c.Request.Context(), params)
	if err != nil {
		reportError(c, err)
		return
	}

	if params.SubjectID != "" && len(rep.Subjects) == 1 {
		sub := rep.Subjects[0]
		c.JSON(http.StatusOK, gin.H{
			"dates":        sub.Dates,
			"statusByDate": sub.StatusByDate,
			"present":      sub.Present,
			"total":        sub.Total,
			"percent":      sub.Percent,
			"subjectName":  sub.SubjectName,
		})
		return
	}
	c.JSON(http.StatusOK, rep)
}
