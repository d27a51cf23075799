package workflow

import (
	"fmt"
	"time"

	"github.com/tyatlocalbzz/localbzz-app/internal/models"
)

// DateLayout is the wire format of a run's start date.
const DateLayout = "2006-01-02"

// Anchor selects the reference date a step offset is applied to.
type Anchor string

const (
	AnchorStartDate  Anchor = models.AnchorStartDate
	AnchorEndOfMonth Anchor = models.AnchorEndOfMonth
)

// ParseDate parses a YYYY-MM-DD calendar date as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("workflow: parse date %q: %w", s, err)
	}
	return t, nil
}

// ResolveDueDate applies offsetDays to the anchor date derived from start.
// Any anchor other than end_of_month is treated as start_date. The result
// is a calendar date at UTC midnight; month and year rollover come from
// time.Date normalisation.
func ResolveDueDate(start time.Time, anchor Anchor, offsetDays int) time.Time {
	y, m, d := start.Date()
	if anchor == AnchorEndOfMonth {
		// Day 0 of the next month is the last day of this one.
		return time.Date(y, m+1, offsetDays, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(y, m, d+offsetDays, 0, 0, 0, 0, time.UTC)
}

// FirstOfNextMonth returns the first day of the month after t.
func FirstOfNextMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m+1, 1, 0, 0, 0, 0, time.UTC)
}
