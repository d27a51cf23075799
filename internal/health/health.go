// Package health classifies open tasks as healthy, at risk or critical and
// finds active clients with no shoot booked.
package health

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/tyatlocalbzz/localbzz-app/internal/models"
	"github.com/tyatlocalbzz/localbzz-app/internal/store"
)

// Status is a task's health.
type Status string

const (
	Healthy  Status = "healthy"
	Risk     Status = "risk"
	Critical Status = "critical"
)

const (
	// RiskWindow is how close a due date must be to count as at risk.
	RiskWindow = 48 * time.Hour
	// GhostWindow is how far ahead a booked shoot keeps a client off the
	// ghost list.
	GhostWindow = 35 * 24 * time.Hour
)

// Red flag labels.
const (
	FlagUnassigned = "Unassigned"
	FlagOverdue    = "Overdue"
	FlagCritical   = "Critical"
)

// Source lists the clients and tasks a report reads.
type Source interface {
	ListClients(ctx context.Context, f store.ClientFilter) ([]models.Client, error)
	ListTasks(ctx context.Context, f store.TaskFilter) ([]models.Task, error)
}

// TaskHealth is a task annotated with its client's name and health.
type TaskHealth struct {
	models.Task
	ClientName string `json:"client_name"`
	Health     Status `json:"health_status"`
	Flag       string `json:"flag,omitempty"`
}

// Assess returns the health of t at now. Closed tasks are healthy; an
// unassigned or overdue task is critical; one due within RiskWindow is at
// risk.
func Assess(t *models.Task, now time.Time) Status {
	switch {
	case t.IsClosed():
		return Healthy
	case t.AssignedTo == nil || *t.AssignedTo == "":
		return Critical
	case t.DueDate == nil:
		return Healthy
	case t.DueDate.Before(now):
		return Critical
	case t.DueDate.After(now) && t.DueDate.Before(now.Add(RiskWindow)):
		return Risk
	default:
		return Healthy
	}
}

// Flag labels a critical task for display.
func Flag(t *models.Task, now time.Time) string {
	switch {
	case t.AssignedTo == nil || *t.AssignedTo == "":
		return FlagUnassigned
	case t.DueDate != nil && t.DueDate.Before(now):
		return FlagOverdue
	default:
		return FlagCritical
	}
}

// Annotate computes the health of every task. clientNames maps client IDs
// to names and may be nil.
func Annotate(tasks []models.Task, clientNames map[string]string, now time.Time) []TaskHealth {
	out := make([]TaskHealth, len(tasks))
	for i := range tasks {
		h := TaskHealth{
			Task:       tasks[i],
			ClientName: clientNames[tasks[i].ClientID],
			Health:     Assess(&tasks[i], now),
		}
		if h.Health == Critical {
			h.Flag = Flag(&tasks[i], now)
		}
		out[i] = h
	}
	return out
}

// RedFlags keeps the critical tasks, ordered by due date with undated
// tasks last.
func RedFlags(tasks []TaskHealth) []TaskHealth {
	var out []TaskHealth
	for _, t := range tasks {
		if t.Health == Critical {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].DueDate, out[j].DueDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
	return out
}

// GhostClients returns the active clients in clients that have no shoot
// starting within [now, now+GhostWindow] in shoots.
func GhostClients(clients []models.Client, shoots []models.Task, now time.Time) []models.Client {
	until := now.Add(GhostWindow)
	booked := make(map[string]bool)
	for _, s := range shoots {
		if s.TaskType != models.TaskShoot || s.StartTime == nil {
			continue
		}
		if s.StartTime.Before(now) || s.StartTime.After(until) {
			continue
		}
		booked[s.ClientID] = true
	}

	var out []models.Client
	for _, c := range clients {
		if c.Status == models.ClientActive && !booked[c.ID] {
			out = append(out, c)
		}
	}
	return out
}

// Report loads the tasks matching f and annotates them with client names
// and health.
func Report(ctx context.Context, src Source, f store.TaskFilter, now time.Time) ([]TaskHealth, error) {
	tasks, err := src.ListTasks(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("health: list tasks: %w", err)
	}
	clients, err := src.ListClients(ctx, store.ClientFilter{})
	if err != nil {
		return nil, fmt.Errorf("health: list clients: %w", err)
	}
	names := make(map[string]string, len(clients))
	for _, c := range clients {
		names[c.ID] = c.Name
	}
	return Annotate(tasks, names, now), nil
}

// FindGhostClients loads active clients and upcoming shoots and returns
// the clients with nothing booked.
func FindGhostClients(ctx context.Context, src Source, now time.Time) ([]models.Client, error) {
	clients, err := src.ListClients(ctx, store.ClientFilter{Status: models.ClientActive})
	if err != nil {
		return nil, fmt.Errorf("health: list clients: %w", err)
	}
	until := now.Add(GhostWindow)
	shoots, err := src.ListTasks(ctx, store.TaskFilter{
		TaskType:  models.TaskShoot,
		StartFrom: &now,
		StartTo:   &until,
	})
	if err != nil {
		return nil, fmt.Errorf("health: list shoots: %w", err)
	}
	return GhostClients(clients, shoots, now), nil
}
