package horizon

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tyatlocalbzz/localbzz-app/internal/models"
	"github.com/tyatlocalbzz/localbzz-app/internal/store"
	"github.com/tyatlocalbzz/localbzz-app/internal/workflow"
)

type memSource struct {
	mu       sync.Mutex
	clients  []models.Client
	tasks    map[string][]models.Task
	tasksErr error
}

func (m *memSource) ListClients(_ context.Context, f store.ClientFilter) ([]models.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Client
	for _, c := range m.clients {
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		if f.AutoWorkflow != nil && c.AutoWorkflowEnabled != *f.AutoWorkflow {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (m *memSource) ListTasks(_ context.Context, f store.TaskFilter) ([]models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tasksErr != nil {
		return nil, m.tasksErr
	}
	return append([]models.Task(nil), m.tasks[f.ClientID]...), nil
}

// monthRunner adds one task due on the last day of the generated month,
// the way a one-month template would.
type monthRunner struct {
	src  *memSource
	runs int
}

func (r *monthRunner) Run(_ context.Context, req workflow.Request) (*workflow.Result, error) {
	start, err := workflow.ParseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	due := workflow.ResolveDueDate(start, workflow.AnchorEndOfMonth, 0)
	r.src.mu.Lock()
	r.src.tasks[req.ClientID] = append(r.src.tasks[req.ClientID], models.Task{ID: req.StartDate, DueDate: &due})
	r.src.mu.Unlock()
	r.runs++
	return &workflow.Result{TaskIDs: []string{req.StartDate}, Count: 1}, nil
}

func TestSweep_OnlyEligibleClients(t *testing.T) {
	paused := autoClient("paused")
	paused.Status = models.ClientPaused
	manual := autoClient("manual")
	manual.AutoWorkflowEnabled = false
	noTemplate := autoClient("no-template")
	noTemplate.DefaultTemplateID = nil

	src := &memSource{
		clients: []models.Client{*autoClient("short"), *autoClient("full"), *paused, *manual, *noTemplate},
		tasks: map[string][]models.Task{
			"full": {dueIn(200)},
		},
	}
	r := &recordingRunner{}
	sw, err := NewSweeper(src, r, SweeperOpts{Now: fixedNow})
	require.NoError(t, err)

	report, err := sw.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SweepReport{Evaluated: 3, Triggered: 1, Failed: 0}, report)
	require.Equal(t, 1, r.count())
	assert.Equal(t, "short", r.requests[0].ClientID)
	assert.Equal(t, "2024-04-01", r.requests[0].StartDate)
}

func TestSweep_OneMonthPerSweep(t *testing.T) {
	src := &memSource{
		clients: []models.Client{*autoClient("c1")},
		tasks:   map[string][]models.Task{},
	}
	r := &monthRunner{src: src}
	sw, err := NewSweeper(src, r, SweeperOpts{Now: fixedNow})
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		_, err := sw.Sweep(ctx)
		require.NoError(t, err)
	}

	// April through September fills the window ending 2024-09-15.
	assert.Equal(t, 6, r.runs)
	furthest := FurthestDueDate(src.tasks["c1"])
	require.NotNil(t, furthest)
	assert.Equal(t, day(2024, 9, 30), *furthest)
}

func TestSweep_FailuresAreCounted(t *testing.T) {
	src := &memSource{
		clients: []models.Client{*autoClient("c1"), *autoClient("c2")},
		tasks:   map[string][]models.Task{},
	}
	r := &recordingRunner{err: errors.New("store down")}
	sw, err := NewSweeper(src, r, SweeperOpts{Now: fixedNow})
	require.NoError(t, err)

	report, err := sw.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Triggered)
	assert.Equal(t, 2, report.Failed)
	assert.Equal(t, 2, r.count())
}

func TestSweep_TaskListFailureSkipsClient(t *testing.T) {
	src := &memSource{
		clients:  []models.Client{*autoClient("c1")},
		tasksErr: errors.New("timeout"),
	}
	r := &recordingRunner{}
	sw, err := NewSweeper(src, r, SweeperOpts{Now: fixedNow})
	require.NoError(t, err)

	report, err := sw.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SweepReport{Failed: 1}, report)
	assert.Zero(t, r.count())
}

func TestNewSweeper_BadSchedule(t *testing.T) {
	_, err := NewSweeper(&memSource{}, &recordingRunner{}, SweeperOpts{Schedule: "every hour"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `horizon: parse schedule "every hour"`)
}

func TestSweeper_NextDuration(t *testing.T) {
	sw, err := NewSweeper(&memSource{}, &recordingRunner{}, SweeperOpts{})
	require.NoError(t, err)

	now := time.Date(2024, 3, 15, 10, 15, 0, 0, time.UTC)
	assert.Equal(t, 45*time.Minute, sw.nextDuration(now))

	sw, err = NewSweeper(&memSource{}, &recordingRunner{}, SweeperOpts{Schedule: "30 6 * * *"})
	require.NoError(t, err)
	assert.Equal(t, 20*time.Hour+15*time.Minute, sw.nextDuration(now))
}

func TestSweeper_RunStopsOnCancel(t *testing.T) {
	sw, err := NewSweeper(&memSource{}, &recordingRunner{}, SweeperOpts{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() { done <- sw.Run(ctx) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
