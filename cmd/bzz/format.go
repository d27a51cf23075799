package main

import (
	"time"

	"github.com/tyatlocalbzz/localbzz-app/internal/workflow"
)

// truncate shortens s to max runes, marking the cut with "...".
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

// orDash returns *s, or "-" when s is nil or empty.
func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

// optional returns &s, or nil when s is empty.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// formatDate renders t as YYYY-MM-DD, or "-" when unset.
func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format(workflow.DateLayout)
}

// parseDateFlag parses an optional YYYY-MM-DD flag value.
func parseDateFlag(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := workflow.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
