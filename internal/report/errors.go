package report

import "time"

// MissingParameterError reports a required report parameter that was absent.
type MissingParameterError struct {
	Param string
}

func (e *MissingParameterError) Error() string {
	return "missing required parameter: " + e.Param
}

// InvalidRangeError reports a date range whose start falls after its end.
type InvalidRangeError struct {
	Start time.Time
	End   time.Time
}

func (e *InvalidRangeError) Error() string {
	return "invalid date range: start " + e.Start.Format(dateLayout) +
		" is after end " + e.End.Format(dateLayout)
}
