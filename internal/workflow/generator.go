package workflow

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/tyatlocalbzz/localbzz-app/internal/events"
	"github.com/tyatlocalbzz/localbzz-app/internal/logger"
	"github.com/tyatlocalbzz/localbzz-app/internal/metrics"
	"github.com/tyatlocalbzz/localbzz-app/internal/models"
	"github.com/tyatlocalbzz/localbzz-app/internal/store"
	"go.uber.org/zap"
)

// ClientStore loads clients. A missing client is reported with an error
// matching store.ErrNotFound.
type ClientStore interface {
	GetClient(ctx context.Context, id string) (*models.Client, error)
}

// TemplateStore loads templates and their steps. ListSteps returns an
// error matching store.ErrNotFound when the template has no steps.
type TemplateStore interface {
	GetTemplate(ctx context.Context, id string) (*models.WorkflowTemplate, error)
	ListSteps(ctx context.Context, templateID string) ([]models.WorkflowStep, error)
}

// TaskStore persists one task and assigns its ID.
type TaskStore interface {
	CreateTask(ctx context.Context, task *models.Task) error
}

// Store is everything a Generator reads from and writes to.
type Store interface {
	ClientStore
	TemplateStore
	TaskStore
}

// Request asks for one run. Source labels the caller in metrics and
// events and is not part of the wire format.
type Request struct {
	ClientID   string `json:"clientId"`
	TemplateID string `json:"templateId"`
	StartDate  string `json:"startDate"`
	Source     string `json:"-"`
}

// Validate checks the three required fields and parses StartDate.
func (r Request) Validate() (time.Time, error) {
	var missing []string
	if strings.TrimSpace(r.ClientID) == "" {
		missing = append(missing, "clientId")
	}
	if strings.TrimSpace(r.TemplateID) == "" {
		missing = append(missing, "templateId")
	}
	if strings.TrimSpace(r.StartDate) == "" {
		missing = append(missing, "startDate")
	}
	if len(missing) > 0 {
		return time.Time{}, &ValidationError{
			Fields: missing,
			Reason: "Missing required fields: clientId, templateId, startDate",
		}
	}
	start, err := ParseDate(strings.TrimSpace(r.StartDate))
	if err != nil {
		return time.Time{}, &ValidationError{
			Fields: []string{"startDate"},
			Reason: "Invalid startDate: " + r.StartDate + " (want YYYY-MM-DD)",
		}
	}
	return start, nil
}

// Result lists the tasks a run created, in step order. After a StoreError
// it holds the tasks persisted before the failure.
type Result struct {
	TaskIDs []string      `json:"taskIds"`
	Count   int           `json:"count"`
	Tasks   []models.Task `json:"-"`
}

func (r *Result) add(t models.Task) {
	r.TaskIDs = append(r.TaskIDs, t.ID)
	r.Tasks = append(r.Tasks, t)
	r.Count = len(r.TaskIDs)
}

// GeneratorOpts holds optional collaborators for NewGenerator.
type GeneratorOpts struct {
	Publisher events.Publisher
	Logger    *zap.Logger
	Now       func() time.Time
}

// Generator runs workflow templates against a Store.
type Generator struct {
	store     Store
	publisher events.Publisher
	log       *zap.Logger
	now       func() time.Time
}

// NewGenerator returns a Generator backed by st.
func NewGenerator(st Store, opts GeneratorOpts) *Generator {
	g := &Generator{
		store:     st,
		publisher: opts.Publisher,
		log:       logger.OrNop(opts.Logger),
		now:       opts.Now,
	}
	if g.publisher == nil {
		g.publisher = events.Nop{}
	}
	if g.now == nil {
		g.now = time.Now
	}
	return g
}

// Run expands the template into tasks for the client. Tasks are created
// sequentially in step order, each one awaited before the next, so a
// dependent step always finds its parent's ID. A failed create stops the
// run and returns the partial Result with a *StoreError; nothing is rolled
// back.
func (g *Generator) Run(ctx context.Context, req Request) (*Result, error) {
	source := req.Source
	if source == "" {
		source = metrics.SourceManual
	}
	began := time.Now()
	res, err := g.run(ctx, req)
	metrics.RecordWorkflowRun(source, outcome(err), res.Count, time.Since(began))

	log := g.log.With(
		zap.String("client_id", req.ClientID),
		zap.String("template_id", req.TemplateID),
		zap.String("start_date", req.StartDate),
		zap.String("source", source),
	)
	if err != nil {
		log.Warn("workflow run failed", zap.Int("created", res.Count), zap.Error(err))
		return res, err
	}
	log.Info("workflow run complete", zap.Int("created", res.Count))

	ev := events.TasksGeneratedEvent{
		ClientID:    req.ClientID,
		TemplateID:  req.TemplateID,
		StartDate:   req.StartDate,
		TaskIDs:     res.TaskIDs,
		Source:      source,
		GeneratedAt: g.now().UTC(),
	}
	if perr := g.publisher.Publish(ctx, events.TasksGenerated, ev); perr != nil {
		log.Warn("publish tasks generated event", zap.Error(perr))
	}
	return res, nil
}

func (g *Generator) run(ctx context.Context, req Request) (*Result, error) {
	res := &Result{}

	start, err := req.Validate()
	if err != nil {
		return res, err
	}

	client, err := g.store.GetClient(ctx, req.ClientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return res, &NotFoundError{Kind: "Client", ID: req.ClientID}
		}
		return res, &StoreError{Op: "load client", Err: err}
	}

	if _, err := g.store.GetTemplate(ctx, req.TemplateID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return res, &NotFoundError{Kind: "Template", ID: req.TemplateID}
		}
		return res, &StoreError{Op: "load template", Err: err}
	}

	steps, err := g.store.ListSteps(ctx, req.TemplateID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return res, &StoreError{Op: "load workflow steps", Err: err}
	}
	if len(steps) == 0 {
		return res, &NotFoundError{Kind: "Workflow steps", ID: req.TemplateID}
	}

	plan := NewPlan(steps)
	ids := make([]string, plan.Len())
	for i, ps := range plan.Steps {
		task := BuildTask(client, req.TemplateID, start, ps.Step)
		if ps.Parent != NoParent {
			parentID := ids[ps.Parent]
			task.ParentID = &parentID
		}
		if err := g.store.CreateTask(ctx, task); err != nil {
			return res, &StoreError{Op: "create task", Step: ps.Step.StepOrder, Created: res.Count, Err: err}
		}
		ids[i] = task.ID
		res.add(*task)
	}
	return res, nil
}

// BuildTask computes the task one step produces, without a parent link.
// Shoots start at their due date; other types have no start time.
func BuildTask(client *models.Client, templateID string, start time.Time, step models.WorkflowStep) *models.Task {
	due := ResolveDueDate(start, Anchor(step.DateAnchor), step.RelativeDayOffset)
	stage := templateID

	task := &models.Task{
		ClientID:      client.ID,
		Title:         RenderTitle(step.TitleTemplate, start),
		TaskType:      step.TaskType,
		Status:        models.StatusTodo,
		Priority:      models.PriorityNormal,
		DueDate:       &due,
		AssignedTo:    ResolveAssignee(ParseRole(step.AssignRole), client),
		WorkflowStage: &stage,
	}
	if step.TaskType == models.TaskShoot {
		startTime := due
		task.StartTime = &startTime
	}
	return task
}

// outcome labels err for metrics.
func outcome(err error) string {
	var (
		verr *ValidationError
		nerr *NotFoundError
		serr *StoreError
	)
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &verr):
		return "validation"
	case errors.As(err, &nerr):
		return "not_found"
	case errors.As(err, &serr):
		return "store"
	default:
		return "error"
	}
}
