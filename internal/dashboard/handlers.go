package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tyatlocalbzz/localbzz-app/internal/events"
	"github.com/tyatlocalbzz/localbzz-app/internal/health"
	"github.com/tyatlocalbzz/localbzz-app/internal/horizon"
	"github.com/tyatlocalbzz/localbzz-app/internal/metrics"
	"github.com/tyatlocalbzz/localbzz-app/internal/models"
	"github.com/tyatlocalbzz/localbzz-app/internal/store"
	"github.com/tyatlocalbzz/localbzz-app/internal/workflow"
	"go.uber.org/zap"
)

// Store is the persistence the API reads and writes.
type Store interface {
	workflow.Store
	ListClients(ctx context.Context, f store.ClientFilter) ([]models.Client, error)
	CreateClient(ctx context.Context, c *models.Client) error
	UpdateClient(ctx context.Context, id string, updates map[string]interface{}) (*models.Client, error)
	DeleteClient(ctx context.Context, id string) error
	ListTasks(ctx context.Context, f store.TaskFilter) ([]models.Task, error)
	GetTask(ctx context.Context, id string) (*models.Task, error)
	UpdateTask(ctx context.Context, id string, updates map[string]interface{}) (*models.Task, error)
	DeleteTask(ctx context.Context, id string) error
	ListTemplates(ctx context.Context) ([]models.WorkflowTemplate, error)
}

// timeColumns are task columns sent as RFC 3339 or YYYY-MM-DD strings.
var timeColumns = map[string]bool{
	"due_date":     true,
	"start_time":   true,
	"end_time":     true,
	"completed_at": true,
}

type api struct {
	store  Store
	runner workflow.Runner
	events events.Publisher
	log    *zap.Logger
	months int
	now    func() time.Time
}

// respondError maps store errors onto HTTP statuses.
func (a *api) respondError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		a.log.Error(op, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// handleHealthz reports liveness plus the event broker connection. A lost
// broker degrades the report but not the status code, since publishing
// never fails a run.
func (a *api) handleHealthz(c *gin.Context) {
	body := gin.H{"status": "ok", "events": events.Status(a.events)}
	if body["events"] == events.StatusDisconnected {
		body["status"] = "degraded"
	}
	c.JSON(http.StatusOK, body)
}

func (a *api) handleRunWorkflow(c *gin.Context) {
	var req workflow.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, workflow.Response{Success: false, Error: "Invalid JSON body"})
		return
	}
	req.Source = metrics.SourceManual

	resp := workflow.Handle(c.Request.Context(), a.runner, req)
	if !resp.Success {
		c.JSON(http.StatusBadRequest, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (a *api) handleListClients(c *gin.Context) {
	f := store.ClientFilter{Status: c.Query("status")}
	if raw := c.Query("auto_workflow"); raw != "" {
		auto, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid auto_workflow"})
			return
		}
		f.AutoWorkflow = &auto
	}

	clients, err := a.store.ListClients(c.Request.Context(), f)
	if err != nil {
		a.respondError(c, "list clients", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clients": clients})
}

func (a *api) handleGhostClients(c *gin.Context) {
	ghosts, err := health.FindGhostClients(c.Request.Context(), a.store, a.now())
	if err != nil {
		a.respondError(c, "ghost clients", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clients": ghosts})
}

func (a *api) handleGetClient(c *gin.Context) {
	client, err := a.store.GetClient(c.Request.Context(), c.Param("id"))
	if err != nil {
		a.respondError(c, "get client", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"client": client})
}

func (a *api) handleCreateClient(c *gin.Context) {
	var client models.Client
	if err := c.ShouldBindJSON(&client); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	client.ID = ""
	client.Tasks = nil

	ctx := c.Request.Context()
	if client.DefaultTemplateID != nil && *client.DefaultTemplateID != "" {
		if err := a.checkTemplate(ctx, *client.DefaultTemplateID); err != nil {
			a.respondError(c, "create client", err)
			return
		}
	}
	if err := a.store.CreateClient(ctx, &client); err != nil {
		a.respondError(c, "create client", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"client": client})
}

func (a *api) handleUpdateClient(c *gin.Context) {
	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil || len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ctx := c.Request.Context()
	if id, ok := updates["default_template_id"].(string); ok && id != "" {
		if err := a.checkTemplate(ctx, id); err != nil {
			a.respondError(c, "update client", err)
			return
		}
	}
	client, err := a.store.UpdateClient(ctx, c.Param("id"), updates)
	if err != nil {
		a.respondError(c, "update client", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"client": client})
}

func (a *api) handleDeleteClient(c *gin.Context) {
	if err := a.store.DeleteClient(c.Request.Context(), c.Param("id")); err != nil {
		a.respondError(c, "delete client", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// checkTemplate rejects a default template that does not exist, so the
// horizon never schedules against a missing template.
func (a *api) checkTemplate(ctx context.Context, id string) error {
	if _, err := a.store.GetTemplate(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("unknown default_template_id %q: %w", id, store.ErrInvalid)
		}
		return err
	}
	return nil
}

func (a *api) handleClientTasks(c *gin.Context) {
	ctx := c.Request.Context()
	client, err := a.store.GetClient(ctx, c.Param("id"))
	if err != nil {
		a.respondError(c, "get client", err)
		return
	}
	tasks, err := a.store.ListTasks(ctx, store.TaskFilter{ClientID: client.ID})
	if err != nil {
		a.respondError(c, "list tasks", err)
		return
	}
	names := map[string]string{client.ID: client.Name}
	c.JSON(http.StatusOK, gin.H{"tasks": health.Annotate(tasks, names, a.now())})
}

// handleClientHorizon runs one observation session for the client. Each
// request is its own session, like one mount of a client page, so the
// once-per-session latch never spans requests. A failed generation is
// reported in the body but is not an HTTP error.
func (a *api) handleClientHorizon(c *gin.Context) {
	ctx := c.Request.Context()
	client, err := a.store.GetClient(ctx, c.Param("id"))
	if err != nil {
		a.respondError(c, "get client", err)
		return
	}
	tasks, err := a.store.ListTasks(ctx, store.TaskFilter{ClientID: client.ID})
	if err != nil {
		a.respondError(c, "list tasks", err)
		return
	}

	session := horizon.NewSession(a.runner, horizon.SessionOpts{Months: a.months, Logger: a.log, Now: a.now})
	d, runErr := session.Observe(ctx, client, tasks)

	body := gin.H{
		"enabled":   session.Enabled(),
		"triggered": d.Trigger,
		"reason":    d.Reason,
	}
	if !d.Horizon.IsZero() {
		body["horizon"] = d.Horizon.Format(workflow.DateLayout)
	}
	if d.Furthest != nil {
		body["furthest_due_date"] = d.Furthest.Format(workflow.DateLayout)
	}
	if d.Trigger {
		body["start_date"] = d.StartDate.Format(workflow.DateLayout)
	}
	if runErr != nil {
		body["error"] = runErr.Error()
	}
	c.JSON(http.StatusOK, body)
}

func (a *api) handleCreateTask(c *gin.Context) {
	var task models.Task
	if err := c.ShouldBindJSON(&task); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	// Parent links and IDs belong to the workflow generator.
	task.ID = ""
	task.ParentID = nil

	if err := a.store.CreateTask(c.Request.Context(), &task); err != nil {
		a.respondError(c, "create task", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"task": task})
}

func (a *api) handleUpdateTask(c *gin.Context) {
	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil || len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	for col, v := range updates {
		if !timeColumns[col] {
			continue
		}
		t, err := parseTimeValue(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid %s: %v", col, err)})
			return
		}
		updates[col] = t
	}

	task, err := a.store.UpdateTask(c.Request.Context(), c.Param("id"), updates)
	if err != nil {
		a.respondError(c, "update task", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
}

func (a *api) handleDeleteTask(c *gin.Context) {
	if err := a.store.DeleteTask(c.Request.Context(), c.Param("id")); err != nil {
		a.respondError(c, "delete task", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *api) handleTaskHealth(c *gin.Context) {
	f := store.TaskFilter{
		ClientID: c.Query("client_id"),
		OpenOnly: c.Query("all") != "true",
	}
	report, err := health.Report(c.Request.Context(), a.store, f, a.now())
	if err != nil {
		a.respondError(c, "task health", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": report})
}

func (a *api) handleRedFlags(c *gin.Context) {
	report, err := health.Report(c.Request.Context(), a.store, store.TaskFilter{OpenOnly: true}, a.now())
	if err != nil {
		a.respondError(c, "red flags", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": health.RedFlags(report)})
}

func (a *api) handleListTemplates(c *gin.Context) {
	templates, err := a.store.ListTemplates(c.Request.Context())
	if err != nil {
		a.respondError(c, "list templates", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

func (a *api) handleTemplateSteps(c *gin.Context) {
	steps, err := a.store.ListSteps(c.Request.Context(), c.Param("id"))
	if err != nil {
		a.respondError(c, "list steps", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"steps": steps})
}

// parseTimeValue converts a JSON value into a UTC time, or nil for null.
func parseTimeValue(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("want a date string, got %T", v)
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := workflow.ParseDate(s)
	if err != nil {
		return nil, fmt.Errorf("want RFC 3339 or YYYY-MM-DD, got %q", s)
	}
	return t, nil
}
