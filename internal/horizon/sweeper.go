package horizon

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/tyatlocalbzz/localbzz-app/internal/logger"
	"github.com/tyatlocalbzz/localbzz-app/internal/models"
	"github.com/tyatlocalbzz/localbzz-app/internal/store"
	"github.com/tyatlocalbzz/localbzz-app/internal/workflow"
	"go.uber.org/zap"
)

// DefaultSchedule sweeps at the top of every hour.
const DefaultSchedule = "0 * * * *"

// cronParser uses standard 5-field cron expressions (minute, hour, dom, month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Source lists the clients and tasks a sweep evaluates.
type Source interface {
	ListClients(ctx context.Context, f store.ClientFilter) ([]models.Client, error)
	ListTasks(ctx context.Context, f store.TaskFilter) ([]models.Task, error)
}

// SweeperOpts configures a Sweeper.
type SweeperOpts struct {
	Months   int
	Schedule string
	Logger   *zap.Logger
	Now      func() time.Time
}

// Sweeper evaluates every auto-scheduled client on a cron schedule. Each
// client gets a fresh Session per sweep, so a short horizon grows by one
// month per sweep.
type Sweeper struct {
	src      Source
	runner   workflow.Runner
	months   int
	schedule cron.Schedule
	log      *zap.Logger
	now      func() time.Time
}

// SweepReport summarises one sweep.
type SweepReport struct {
	Evaluated int
	Triggered int
	Failed    int
}

// NewSweeper returns a Sweeper. An empty schedule uses DefaultSchedule.
func NewSweeper(src Source, runner workflow.Runner, opts SweeperOpts) (*Sweeper, error) {
	expr := opts.Schedule
	if expr == "" {
		expr = DefaultSchedule
	}
	sched, err := cronParser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("horizon: parse schedule %q: %w", expr, err)
	}
	s := &Sweeper{
		src:      src,
		runner:   runner,
		months:   opts.Months,
		schedule: sched,
		log:      logger.OrNop(opts.Logger),
		now:      opts.Now,
	}
	if s.months <= 0 {
		s.months = DefaultMonths
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// Sweep evaluates every active client with auto workflow enabled once.
// A failed run is counted and logged; the sweep moves on to the next
// client.
func (s *Sweeper) Sweep(ctx context.Context) (SweepReport, error) {
	var report SweepReport
	enabled := true
	clients, err := s.src.ListClients(ctx, store.ClientFilter{
		Status:       models.ClientActive,
		AutoWorkflow: &enabled,
	})
	if err != nil {
		return report, fmt.Errorf("horizon: list clients: %w", err)
	}

	for i := range clients {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		client := &clients[i]
		tasks, err := s.src.ListTasks(ctx, store.TaskFilter{ClientID: client.ID})
		if err != nil {
			s.log.Warn("horizon: list tasks", zap.String("client_id", client.ID), zap.Error(err))
			report.Failed++
			continue
		}

		report.Evaluated++
		session := NewSession(s.runner, SessionOpts{Months: s.months, Logger: s.log, Now: s.now})
		d, err := session.Observe(ctx, client, tasks)
		if d.Trigger {
			report.Triggered++
		}
		if err != nil {
			report.Failed++
		}
	}
	return report, nil
}

// Run sweeps on schedule until ctx is cancelled. Sweeps never overlap.
func (s *Sweeper) Run(ctx context.Context) error {
	s.log.Info("horizon sweeper started", zap.Int("months", s.months))
	for {
		sleepWithContext(ctx, s.nextDuration(time.Now()))
		select {
		case <-ctx.Done():
			s.log.Info("horizon sweeper stopped")
			return nil
		default:
		}

		report, err := s.Sweep(ctx)
		if err != nil {
			s.log.Error("horizon sweep", zap.Error(err))
			continue
		}
		s.log.Info("horizon sweep complete",
			zap.Int("evaluated", report.Evaluated),
			zap.Int("triggered", report.Triggered),
			zap.Int("failed", report.Failed),
		)
	}
}

// nextDuration returns the time until the next scheduled sweep after now.
func (s *Sweeper) nextDuration(now time.Time) time.Duration {
	d := s.schedule.Next(now).Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// sleepWithContext sleeps for the given duration but returns early if ctx is cancelled.
func sleepWithContext(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
