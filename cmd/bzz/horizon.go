package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/tyatlocalbzz/localbzz-app/internal/horizon"
	"github.com/tyatlocalbzz/localbzz-app/internal/store"
	"github.com/tyatlocalbzz/localbzz-app/internal/workflow"
)

func newHorizonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "horizon",
		Short: "Rolling task horizon commands",
	}

	cmd.AddCommand(newHorizonCheckCmd())
	cmd.AddCommand(newHorizonSweepCmd())
	return cmd
}

func newHorizonCheckCmd() *cobra.Command {
	var (
		configPath string
		run        bool
	)

	cmd := &cobra.Command{
		Use:   "check <client-id>",
		Short: "Report whether a client's task horizon needs another month",
		Long: `Evaluates the client's furthest due date against the configured horizon.
Without --run nothing is generated. With --run, one month is generated when
the horizon is short.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHorizonCheck(cmd, configPath, args[0], run)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().BoolVar(&run, "run", false, "generate the next month when the horizon is short")
	return cmd
}

func runHorizonCheck(cmd *cobra.Command, configPath, clientID string, run bool) error {
	a, err := newApp(configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()
	client, err := a.store.GetClient(ctx, clientID)
	if err != nil {
		return err
	}
	tasks, err := a.store.ListTasks(ctx, store.TaskFilter{ClientID: client.ID})
	if err != nil {
		return err
	}

	var (
		d      horizon.Decision
		runErr error
	)
	if run {
		session := horizon.NewSession(a.generator, horizon.SessionOpts{Months: a.cfg.Horizon.Months, Logger: a.log})
		d, runErr = session.Observe(ctx, client, tasks)
	} else {
		d = horizon.Evaluate(client, tasks, time.Now(), a.cfg.Horizon.Months)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Client:   %s (%s)\n", client.Name, client.ID)
	fmt.Fprintf(out, "Furthest: %s\n", formatDate(d.Furthest))
	fmt.Fprintf(out, "Horizon:  %s\n", d.Horizon.Format(workflow.DateLayout))
	fmt.Fprintf(out, "Decision: %s\n", d.Reason)
	switch {
	case !d.Trigger:
	case !run:
		fmt.Fprintf(out, "Would generate from %s. Pass --run to generate.\n", d.StartDate.Format(workflow.DateLayout))
	case runErr == nil:
		fmt.Fprintf(out, "Generated from %s\n", d.StartDate.Format(workflow.DateLayout))
	}
	return runErr
}

func newHorizonSweepCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run one horizon sweep over every auto-scheduled client",
		Long: `Evaluates every active client with auto workflow enabled and generates at
most one month per client. 'bzz serve' runs the same sweep on the configured
schedule.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHorizonSweep(cmd, configPath)
		},
	}

	addConfigFlag(cmd, &configPath)
	return cmd
}

func runHorizonSweep(cmd *cobra.Command, configPath string) error {
	a, err := newApp(configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	sweeper, err := horizon.NewSweeper(a.store, a.generator, horizon.SweeperOpts{
		Months:   a.cfg.Horizon.Months,
		Schedule: a.cfg.Horizon.Schedule,
		Logger:   a.log,
	})
	if err != nil {
		return err
	}

	report, err := sweeper.Sweep(context.Background())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Evaluated %d clients, generated %d months, %d failures\n",
		report.Evaluated, report.Triggered, report.Failed)
	return nil
}
