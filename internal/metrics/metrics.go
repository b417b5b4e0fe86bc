package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// AttendanceMarks counts marks written, single and bulk alike.
var AttendanceMarks = promauto.NewCounter(prometheus.CounterOpts{
	Name: "rollbook_attendance_marks_total",
	Help: "Number of attendance marks written.",
})

// Reports counts computed reports by kind (day, range, student).
var Reports = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "rollbook_reports_total",
	Help: "Number of attendance reports computed, excluding cache hits.",
}, []string{"kind"})
