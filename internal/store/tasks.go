package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tyatlocalbzz/localbzz-app/internal/models"
)

// TaskFilter holds optional filters for listing tasks. Range bounds are
// inclusive.
type TaskFilter struct {
	ClientID   string
	TaskType   string
	Status     string
	AssignedTo string
	ParentID   string
	DueFrom    *time.Time
	DueTo      *time.Time
	StartFrom  *time.Time
	StartTo    *time.Time
	OpenOnly   bool
}

// updatableTaskColumns lists the columns UpdateTask accepts.
var updatableTaskColumns = map[string]bool{
	"title":           true,
	"task_type":       true,
	"status":          true,
	"priority":        true,
	"due_date":        true,
	"start_time":      true,
	"end_time":        true,
	"assigned_to":     true,
	"completed_at":    true,
	"notes":           true,
	"location":        true,
	"asset_link":      true,
	"transcript_path": true,
	"internal_notes":  true,
}

// CreateTask inserts t. ID, status and priority are filled in when empty;
// type, status and priority must be known values. Times are stored in UTC.
func (s *Store) CreateTask(ctx context.Context, t *models.Task) error {
	if strings.TrimSpace(t.ClientID) == "" {
		return invalidf("task client_id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return invalidf("task title is required")
	}
	if t.Status == "" {
		t.Status = models.StatusTodo
	}
	if t.Priority == "" {
		t.Priority = models.PriorityNormal
	}
	if err := validateTaskValues(t.TaskType, t.Status, t.Priority); err != nil {
		return err
	}
	if t.ID == "" {
		t.ID = NewID()
	}
	t.DueDate = utc(t.DueDate)
	t.StartTime = utc(t.StartTime)
	t.EndTime = utc(t.EndTime)
	if t.Status == models.StatusDone && t.CompletedAt == nil {
		now := s.now().UTC()
		t.CompletedAt = &now
	}

	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("store: create task: %w", err)
	}
	return nil
}

// GetTask retrieves a task by ID.
func (s *Store) GetTask(ctx context.Context, id string) (*models.Task, error) {
	var t models.Task
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, notFound(err, "task", id)
	}
	return &t, nil
}

// ListTasks returns tasks matching f ordered by due date ascending with
// undated tasks last, then by creation time.
func (s *Store) ListTasks(ctx context.Context, f TaskFilter) ([]models.Task, error) {
	q := s.db.WithContext(ctx).Model(&models.Task{})

	if f.ClientID != "" {
		q = q.Where("client_id = ?", f.ClientID)
	}
	if f.TaskType != "" {
		q = q.Where("task_type = ?", f.TaskType)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.AssignedTo != "" {
		q = q.Where("assigned_to = ?", f.AssignedTo)
	}
	if f.ParentID != "" {
		q = q.Where("parent_id = ?", f.ParentID)
	}
	if f.DueFrom != nil {
		q = q.Where("due_date >= ?", f.DueFrom.UTC())
	}
	if f.DueTo != nil {
		q = q.Where("due_date <= ?", f.DueTo.UTC())
	}
	if f.StartFrom != nil {
		q = q.Where("start_time >= ?", f.StartFrom.UTC())
	}
	if f.StartTo != nil {
		q = q.Where("start_time <= ?", f.StartTo.UTC())
	}
	if f.OpenOnly {
		q = q.Where("status NOT IN ?", []string{models.StatusDone, models.StatusSkipped})
	}

	var tasks []models.Task
	if err := q.Order("CASE WHEN due_date IS NULL THEN 1 ELSE 0 END, due_date ASC, created_at ASC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("store: list tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTask modifies task columns and returns the updated task. Moving a
// task to done without an explicit completed_at stamps it with the
// current time.
func (s *Store) UpdateTask(ctx context.Context, id string, updates map[string]interface{}) (*models.Task, error) {
	for k := range updates {
		if !updatableTaskColumns[k] {
			return nil, invalidf("task column %q cannot be updated", k)
		}
	}

	if _, err := s.GetTask(ctx, id); err != nil {
		return nil, err
	}

	if v, ok := updates["task_type"]; ok {
		if str, _ := v.(string); !models.Contains(models.TaskTypes, str) {
			return nil, invalidf("invalid task type %v", v)
		}
	}
	if v, ok := updates["priority"]; ok {
		if str, _ := v.(string); !models.Contains(models.TaskPriorities, str) {
			return nil, invalidf("invalid task priority %v", v)
		}
	}
	if v, ok := updates["status"]; ok {
		status, _ := v.(string)
		if !models.Contains(models.TaskStatuses, status) {
			return nil, invalidf("invalid task status %v", v)
		}
		if _, explicit := updates["completed_at"]; status == models.StatusDone && !explicit {
			stamped := make(map[string]interface{}, len(updates)+1)
			for k, v := range updates {
				stamped[k] = v
			}
			stamped["completed_at"] = s.now().UTC()
			updates = stamped
		}
	}

	if err := s.db.WithContext(ctx).Model(&models.Task{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("store: update task %s: %w", id, err)
	}
	return s.GetTask(ctx, id)
}

// DeleteTask removes a task by ID.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Task{})
	if res.Error != nil {
		return fmt.Errorf("store: delete task %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("store: task %s: %w", id, ErrNotFound)
	}
	return nil
}

func validateTaskValues(taskType, status, priority string) error {
	if !models.Contains(models.TaskTypes, taskType) {
		return invalidf("invalid task type %q", taskType)
	}
	if !models.Contains(models.TaskStatuses, status) {
		return invalidf("invalid task status %q", status)
	}
	if !models.Contains(models.TaskPriorities, priority) {
		return invalidf("invalid task priority %q", priority)
	}
	return nil
}
