package models

import "time"

// Task types.
const (
	TaskShoot       = "shoot"
	TaskDeliverable = "deliverable"
	TaskMeeting     = "meeting"
	TaskMilestone   = "milestone"
	TaskOpportunity = "opportunity"
)

// Task statuses.
const (
	StatusTodo       = "todo"
	StatusScheduled  = "scheduled"
	StatusInProgress = "in_progress"
	StatusReview     = "review"
	StatusDone       = "done"
	StatusSkipped    = "skipped"
)

// Task priorities.
const (
	PriorityNormal   = "normal"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

// TaskTypes lists every recognised task type.
var TaskTypes = []string{TaskShoot, TaskDeliverable, TaskMeeting, TaskMilestone, TaskOpportunity}

// TaskStatuses lists every recognised task status.
var TaskStatuses = []string{StatusTodo, StatusScheduled, StatusInProgress, StatusReview, StatusDone, StatusSkipped}

// TaskPriorities lists every recognised task priority.
var TaskPriorities = []string{PriorityNormal, PriorityHigh, PriorityCritical}

// Task is a unit of agency work owned by a client. ParentID is only set by
// the workflow generator, and WorkflowStage records the template that
// produced the task.
type Task struct {
	ID             string     `gorm:"primaryKey;size:36" json:"id"`
	ClientID       string     `gorm:"size:36;not null;index" json:"client_id"`
	Title          string     `gorm:"not null" json:"title"`
	TaskType       string     `gorm:"size:16;not null;index" json:"task_type"`
	Status         string     `gorm:"size:16;default:todo;index" json:"status"`
	Priority       string     `gorm:"size:16;default:normal" json:"priority"`
	DueDate        *time.Time `gorm:"index" json:"due_date"`
	StartTime      *time.Time `json:"start_time"`
	EndTime        *time.Time `json:"end_time"`
	AssignedTo     *string    `gorm:"size:64;index" json:"assigned_to"`
	ParentID       *string    `gorm:"size:36;index" json:"parent_id"`
	WorkflowStage  *string    `gorm:"size:36" json:"workflow_stage"`
	CompletedAt    *time.Time `json:"completed_at"`
	Notes          string     `gorm:"type:text" json:"notes"`
	Location       string     `json:"location"`
	AssetLink      string     `json:"asset_link"`
	TranscriptPath string     `json:"transcript_path"`
	InternalNotes  string     `gorm:"type:text" json:"internal_notes"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// IsClosed reports whether the task no longer needs attention.
func (t *Task) IsClosed() bool {
	return t.Status == StatusDone || t.Status == StatusSkipped
}

// Contains reports whether v is one of values.
func Contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
