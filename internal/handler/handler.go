package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rollbook/internal/attendance"
	"rollbook/internal/config"
	"rollbook/internal/queue"
	"rollbook/internal/report"
	"rollbook/internal/roster"
)

const dateLayout = "2006-01-02"

// Handler carries the collaborators the HTTP routes need.
type Handler struct {
	cfg     config.App
	roster  *roster.Repository
	marks   *attendance.Service
	log     *attendance.Repository
	reports *report.Service
	queue   queue.Queue
}

// New creates a handler. q may be nil when no queue backend is configured.
func New(cfg config.App, rosterRepo *roster.Repository, markSvc *attendance.Service, logRepo *attendance.Repository, reportSvc *report.Service, q queue.Queue) *Handler {
	return &Handler{
		cfg:     cfg,
		roster:  rosterRepo,
		marks:   markSvc,
		log:     logRepo,
		reports: reportSvc,
		queue:   q,
	}
}

// parseDate parses a yyyy-mm-dd value. Empty input returns the zero time so
// the report engine can flag the missing parameter itself.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, s)
}

// reportError maps engine errors to status codes: parameter and range
// problems are the caller's fault, everything else is a collaborator failure.
func reportError(c *gin.Context, err error) {
	var missing *report.MissingParameterError
	var badRange *report.InvalidRangeError
	if errors.As(err, &missing) || errors.As(err, &badRange) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate report"})
}
