// Package horizon keeps auto-scheduled clients' task calendars filled a
// fixed number of months ahead by triggering one workflow run at a time.
package horizon

import (
	"time"

	"github.com/tyatlocalbzz/localbzz-app/internal/models"
	"github.com/tyatlocalbzz/localbzz-app/internal/workflow"
)

// DefaultMonths is the forward window kept populated.
const DefaultMonths = 6

// Reason explains a Decision.
type Reason string

const (
	ReasonNoClient         Reason = "no_client"
	ReasonAutoDisabled     Reason = "auto_disabled"
	ReasonNoTemplate       Reason = "no_template"
	ReasonInactive         Reason = "inactive"
	ReasonAlreadyTriggered Reason = "already_triggered"
	ReasonFilled           Reason = "horizon_filled"
	ReasonNoTasks          Reason = "no_tasks"
	ReasonUnderFilled      Reason = "under_filled"
)

// Decision is the outcome of evaluating one client's horizon. When Trigger
// is set, StartDate is the first day of the month to generate.
type Decision struct {
	Trigger    bool
	Reason     Reason
	TemplateID string
	Furthest   *time.Time
	Horizon    time.Time
	StartDate  time.Time
}

// Evaluate decides whether client needs one more month of tasks. It is
// pure: tasks is the client's full task list and now the evaluation time.
func Evaluate(client *models.Client, tasks []models.Task, now time.Time, months int) Decision {
	d := Decision{Horizon: now.AddDate(0, months, 0)}
	switch {
	case client == nil:
		d.Reason = ReasonNoClient
		return d
	case !client.AutoWorkflowEnabled:
		d.Reason = ReasonAutoDisabled
		return d
	case client.DefaultTemplateID == nil || *client.DefaultTemplateID == "":
		d.Reason = ReasonNoTemplate
		return d
	case client.Status != models.ClientActive:
		d.Reason = ReasonInactive
		return d
	}
	d.TemplateID = *client.DefaultTemplateID

	d.Furthest = FurthestDueDate(tasks)
	if d.Furthest == nil {
		d.Trigger = true
		d.Reason = ReasonNoTasks
		d.StartDate = workflow.FirstOfNextMonth(now.UTC())
		return d
	}
	if !d.Furthest.Before(d.Horizon) {
		d.Reason = ReasonFilled
		return d
	}
	d.Trigger = true
	d.Reason = ReasonUnderFilled
	d.StartDate = workflow.FirstOfNextMonth(d.Furthest.UTC())
	return d
}

// FurthestDueDate returns the latest non-nil due date in tasks, or nil.
func FurthestDueDate(tasks []models.Task) *time.Time {
	var furthest *time.Time
	for i := range tasks {
		due := tasks[i].DueDate
		if due == nil {
			continue
		}
		if furthest == nil || due.After(*furthest) {
			v := *due
			furthest = &v
		}
	}
	return furthest
}
