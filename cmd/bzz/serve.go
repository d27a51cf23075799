package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tyatlocalbzz/localbzz-app/internal/dashboard"
	"github.com/tyatlocalbzz/localbzz-app/internal/horizon"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		port       int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard API and the horizon sweeper",
		Long: `Serves the JSON API (including POST /functions/run-workflow) and, when
horizon.enabled is set, sweeps auto-scheduled clients on horizon.schedule.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath, port)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (overrides server.port)")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string, port int) error {
	a, err := newApp(configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	if port == 0 {
		port = a.cfg.Server.Port
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(cmd.OutOrStdout(), "\nReceived %s, shutting down...\n", sig)
		cancel()
	}()

	if a.cfg.Horizon.Enabled {
		sweeper, err := horizon.NewSweeper(a.store, a.generator, horizon.SweeperOpts{
			Months:   a.cfg.Horizon.Months,
			Schedule: a.cfg.Horizon.Schedule,
			Logger:   a.log,
		})
		if err != nil {
			return err
		}
		go func() {
			if err := sweeper.Run(ctx); err != nil && ctx.Err() == nil {
				a.log.Error("horizon sweeper stopped", zap.Error(err))
			}
		}()
	}

	return dashboard.Start(ctx, dashboard.StartOpts{
		Store:  a.store,
		Runner: a.generator,
		Events: a.publisher,
		Logger: a.log,
		Port:   port,
		Months: a.cfg.Horizon.Months,
		Out:    cmd.OutOrStdout(),
	})
}
