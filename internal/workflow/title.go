package workflow

import (
	"strings"
	"time"
)

// MonthToken is replaced with the full English month name of the start date.
const MonthToken = "{{Month}}"

// RenderTitle substitutes every MonthToken in template. Other tokens are
// left as written.
func RenderTitle(template string, start time.Time) string {
	return strings.ReplaceAll(template, MonthToken, start.Month().String())
}
