package horizon

import (
	"context"
	"sync"
	"time"

	"github.com/tyatlocalbzz/localbzz-app/internal/logger"
	"github.com/tyatlocalbzz/localbzz-app/internal/metrics"
	"github.com/tyatlocalbzz/localbzz-app/internal/models"
	"github.com/tyatlocalbzz/localbzz-app/internal/workflow"
	"go.uber.org/zap"
)

// SessionOpts configures a Session.
type SessionOpts struct {
	Months int
	Logger *zap.Logger
	Now    func() time.Time
}

// Session is one observation lifecycle for one client. It triggers at
// most one generation run until the observed client changes. The latch is
// in memory only: two sessions for the same client may both trigger.
type Session struct {
	runner workflow.Runner
	months int
	log    *zap.Logger
	now    func() time.Time

	mu           sync.Mutex
	clientID     string
	hasTriggered bool
	generating   bool
	enabled      bool
}

// NewSession returns a Session that generates through runner.
func NewSession(runner workflow.Runner, opts SessionOpts) *Session {
	s := &Session{
		runner: runner,
		months: opts.Months,
		log:    logger.OrNop(opts.Logger),
		now:    opts.Now,
	}
	if s.months <= 0 {
		s.months = DefaultMonths
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Watch points the session at clientID. Switching to a different client
// resets the latch.
func (s *Session) Watch(clientID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watch(clientID)
}

func (s *Session) watch(clientID string) {
	if clientID == s.clientID {
		return
	}
	s.clientID = clientID
	s.hasTriggered = false
	s.enabled = false
}

// Observe evaluates the client's horizon and, when it is short and the
// session has not triggered yet, runs one generation for the next month.
// The latch is set before the run starts, so a failed run is not retried
// within the session; the failure is logged and returned.
func (s *Session) Observe(ctx context.Context, client *models.Client, tasks []models.Task) (Decision, error) {
	s.mu.Lock()
	if client != nil {
		s.watch(client.ID)
	}
	s.enabled = client.AutoGenerationEligible()
	if s.hasTriggered {
		s.mu.Unlock()
		metrics.RecordHorizonDecision(string(ReasonAlreadyTriggered))
		return Decision{Reason: ReasonAlreadyTriggered}, nil
	}
	d := Evaluate(client, tasks, s.now(), s.months)
	if !d.Trigger {
		s.mu.Unlock()
		metrics.RecordHorizonDecision(string(d.Reason))
		return d, nil
	}
	s.hasTriggered = true
	s.generating = true
	s.mu.Unlock()
	metrics.RecordHorizonDecision(string(d.Reason))

	defer func() {
		s.mu.Lock()
		s.generating = false
		s.mu.Unlock()
	}()

	startDate := d.StartDate.Format(workflow.DateLayout)
	log := s.log.With(
		zap.String("client_id", client.ID),
		zap.String("template_id", d.TemplateID),
		zap.String("start_date", startDate),
	)
	log.Info("horizon short, generating next month", zap.String("reason", string(d.Reason)))

	_, err := s.runner.Run(ctx, workflow.Request{
		ClientID:   client.ID,
		TemplateID: d.TemplateID,
		StartDate:  startDate,
		Source:     metrics.SourceHorizon,
	})
	if err != nil {
		log.Warn("horizon generation failed", zap.Error(err))
		return d, err
	}
	return d, nil
}

// Generating reports whether a triggered run is in progress.
func (s *Session) Generating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generating
}

// Triggered reports whether the session has used its one run.
func (s *Session) Triggered() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasTriggered
}

// Enabled reports whether the last observed client passed every
// auto-generation gate.
func (s *Session) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}
