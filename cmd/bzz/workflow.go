package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tyatlocalbzz/localbzz-app/internal/metrics"
	"github.com/tyatlocalbzz/localbzz-app/internal/workflow"
)

func newWorkflowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workflow",
		Short: "Workflow commands",
	}

	cmd.AddCommand(newWorkflowRunCmd())
	return cmd
}

func newWorkflowRunCmd() *cobra.Command {
	var (
		configPath string
		req        workflow.Request
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate a client's tasks from a workflow template",
		Long: `Expands every step of the template into a task for the client, dated
relative to --start. Running twice creates the tasks twice.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Source = metrics.SourceCLI
			return runWorkflowRun(cmd, configPath, req)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVar(&req.ClientID, "client", "", "client ID (required)")
	cmd.Flags().StringVar(&req.TemplateID, "template", "", "template ID (required)")
	cmd.Flags().StringVar(&req.StartDate, "start", "", "start date YYYY-MM-DD (required)")
	cmd.MarkFlagRequired("client")
	cmd.MarkFlagRequired("template")
	cmd.MarkFlagRequired("start")
	return cmd
}

func runWorkflowRun(cmd *cobra.Command, configPath string, req workflow.Request) error {
	a, err := newApp(configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.generator.Run(context.Background(), req)
	out := cmd.OutOrStdout()
	if err != nil {
		if res.Count > 0 {
			fmt.Fprintf(out, "Created %d tasks before the failure:\n", res.Count)
			for _, id := range res.TaskIDs {
				fmt.Fprintf(out, "  %s\n", id)
			}
		}
		return err
	}

	fmt.Fprintf(out, "Created %d tasks\n", res.Count)
	for _, t := range res.Tasks {
		fmt.Fprintf(out, "  %s  %s  %s\n", t.ID, formatDate(t.DueDate), t.Title)
	}
	return nil
}
