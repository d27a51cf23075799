package dashboard

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tyatlocalbzz/localbzz-app/internal/events"
	"github.com/tyatlocalbzz/localbzz-app/internal/logger"
	"github.com/tyatlocalbzz/localbzz-app/internal/workflow"
	"go.uber.org/zap"
)

// StartOpts holds configuration for the dashboard server.
type StartOpts struct {
	Store  Store
	Runner workflow.Runner
	Events events.Publisher
	Logger *zap.Logger
	Port   int
	Months int
	Out    io.Writer
	Now    func() time.Time
}

// Start launches the dashboard HTTP server. It blocks until ctx is cancelled,
// then shuts down gracefully.
func Start(ctx context.Context, opts StartOpts) error {
	router, err := NewRouter(opts)
	if err != nil {
		return err
	}
	if opts.Port <= 0 {
		opts.Port = 8080
	}

	addr := fmt.Sprintf(":%d", opts.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Graceful shutdown on context cancellation.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	if opts.Out != nil {
		fmt.Fprintf(opts.Out, "Dashboard API running at http://localhost:%d\n", opts.Port)
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}

// NewRouter builds the Gin engine with middleware and every route
// registered.
func NewRouter(opts StartOpts) (*gin.Engine, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("dashboard: store is required")
	}
	if opts.Runner == nil {
		return nil, fmt.Errorf("dashboard: runner is required")
	}

	a := &api{
		store:  opts.Store,
		runner: opts.Runner,
		events: opts.Events,
		log:    logger.OrNop(opts.Logger),
		months: opts.Months,
		now:    opts.Now,
	}
	if a.now == nil {
		a.now = time.Now
	}
	if a.events == nil {
		a.events = events.Nop{}
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(a.log), recordMetrics(), cors())
	registerRoutes(router, a)
	return router, nil
}
