package handler

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rollbook/internal/attendance"
	"rollbook/internal/metrics"
	"rollbook/internal/queue"
)

type markRequest struct {
	StudentID string `json:"studentId" binding:"required"`
	SubjectID string `json:"subjectId" binding:"required"`
	TeacherID string `json:"teacherId" binding:"required"`
	Date      string `json:"date" binding:"required"`
	Status    string `json:"status" binding:"required,oneof=present absent"`
}

func (r markRequest) record() (attendance.Record, error) {
	date, err := parseDate(r.Date)
	if err != nil {
		return attendance.Record{}, err
	}
	return attendance.Record{
		StudentID: r.StudentID,
		SubjectID: r.SubjectID,
		TeacherID: r.TeacherID,
		Date:      date,
		Status:    r.Status,
	}, nil
}

// Mark handles POST /api/attendance: store one mark.
func (h *Handler) Mark(c *gin.Context) {
	var req markRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec, err := req.record()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be yyyy-mm-dd"})
		return
	}

	stored, err := h.marks.Mark(c.Request.Context(), rec)
	if err != nil {
		log.Printf("mark attendance failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save attendance"})
		return
	}
	metrics.AttendanceMarks.Inc()
	h.publishMarked(c.Request.Context(), map[markedKey]struct{}{
		{subjectID: stored.SubjectID, date: stored.Date.Format(dateLayout)}: {},
	})
	c.JSON(http.StatusCreated, stored)
}

// BulkMark handles POST /api/attendance/bulk: store a whole roster's marks in
// one transaction.
func (h *Handler) BulkMark(c *gin.Context) {
	var req struct {
		AttendanceRecords []markRequest `json:"attendanceRecords" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recs := make([]attendance.Record, 0, len(req.AttendanceRecords))
	touched := make(map[markedKey]struct{})
	for _, mr := range req.AttendanceRecords {
		rec, err := mr.record()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be yyyy-mm-dd"})
			return
		}
		recs = append(recs, rec)
		touched[markedKey{subjectID: rec.SubjectID, date: rec.Date.Format(dateLayout)}] = struct{}{}
	}

	stored, err := h.marks.BulkMark(c.Request.Context(), recs)
	if err != nil {
		log.Printf("bulk mark failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save attendance records"})
		return
	}
	metrics.AttendanceMarks.Add(float64(len(stored)))
	h.publishMarked(c.Request.Context(), touched)
	c.JSON(http.StatusCreated, gin.H{"records": stored})
}

// Correct handles PATCH /api/attendance/:id: fix the status of a mark.
// Cached reports referencing the old status age out with the cache TTL.
func (h *Handler) Correct(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required,oneof=present absent"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.marks.Correct(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "attendance record not found"})
			return
		}
		log.Printf("correct attendance failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update attendance"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "status": req.Status})
}

// DayMarks handles GET /api/attendance/:date/:subjectId: the raw marks for a
// subject on one date, without roster gap-filling.
func (h *Handler) DayMarks(c *gin.Context) {
	date, err := time.Parse(dateLayout, c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be yyyy-mm-dd"})
		return
	}
	records, err := h.log.ListByDateAndSubject(c.Request.Context(), date, c.Param("subjectId"))
	if err != nil {
		log.Printf("list attendance failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch attendance"})
		return
	}
	if records == nil {
		records = []attendance.Record{}
	}
	c.JSON(http.StatusOK, records)
}

// History handles GET /api/student-attendance/:studentId: a student's marks
// newest first with optional subject and date filters.
func (h *Handler) History(c *gin.Context) {
	var from, to *time.Time
	if v := c.Query("fromDate"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "fromDate must be yyyy-mm-dd"})
			return
		}
		from = &t
	}
	if v := c.Query("toDate"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "toDate must be yyyy-mm-dd"})
			return
		}
		to = &t
	}

	records, err := h.log.ListHistory(c.Request.Context(), c.Param("studentId"), c.Query("subjectId"), from, to)
	if err != nil {
		log.Printf("list history failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch student attendance"})
		return
	}
	if records == nil {
		records = []attendance.HistoryRecord{}
	}
	c.JSON(http.StatusOK, records)
}

type markedKey struct {
	subjectID string
	date      string
}

// publishMarked tells consumers which (subject, date) pairs just changed so
// they can drop stale cached reports. Publish failures only log; the write
// already succeeded and the cache TTL bounds staleness.
func (h *Handler) publishMarked(ctx context.Context, touched map[markedKey]struct{}) {
	if h.queue == nil {
		return
	}
	for key := range touched {
		msg, err := queue.NewMarkedMessage(queue.MarkedEvent{SubjectID: key.subjectID, Date: key.date})
		if err != nil {
			log.Printf("encode marked event failed: %v", err)
			continue
		}
		if err := h.queue.Publish(ctx, msg); err != nil {
			log.Printf("queue publish failed: %v", err)
		}
	}
}
