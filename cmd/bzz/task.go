package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/tyatlocalbzz/localbzz-app/internal/health"
	"github.com/tyatlocalbzz/localbzz-app/internal/models"
	"github.com/tyatlocalbzz/localbzz-app/internal/store"
)

func newTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Task commands",
	}

	cmd.AddCommand(newTaskListCmd())
	cmd.AddCommand(newTaskUpdateCmd())
	cmd.AddCommand(newTaskCompleteCmd())
	cmd.AddCommand(newTaskDeleteCmd())
	cmd.AddCommand(newTaskHealthCmd())
	return cmd
}

func newTaskListCmd() *cobra.Command {
	var (
		configPath string
		f          store.TaskFilter
		from, to   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Long:  "Lists tasks ordered by due date, undated tasks last. Output is formatted as a table.",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if f.DueFrom, err = parseDateFlag(from); err != nil {
				return fmt.Errorf("invalid --from: %w", err)
			}
			if f.DueTo, err = parseDateFlag(to); err != nil {
				return fmt.Errorf("invalid --to: %w", err)
			}
			return runTaskList(cmd, configPath, f)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVar(&f.ClientID, "client", "", "filter by client ID")
	cmd.Flags().StringVar(&f.TaskType, "type", "", "filter by task type")
	cmd.Flags().StringVar(&f.Status, "status", "", "filter by status")
	cmd.Flags().StringVar(&f.AssignedTo, "assignee", "", "filter by assignee")
	cmd.Flags().BoolVar(&f.OpenOnly, "open", false, "hide done and skipped tasks")
	cmd.Flags().StringVar(&from, "from", "", "due on or after YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "due on or before YYYY-MM-DD")
	return cmd
}

func runTaskList(cmd *cobra.Command, configPath string, f store.TaskFilter) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	tasks, err := store.New(gormDB).ListTasks(context.Background(), f)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(tasks) == 0 {
		fmt.Fprintln(out, "No tasks found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tTYPE\tSTATUS\tDUE\tASSIGNEE")
	for _, t := range tasks {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, truncate(t.Title, 40), t.TaskType, t.Status, formatDate(t.DueDate), orDash(t.AssignedTo))
	}
	w.Flush()
	return nil
}

func newTaskUpdateCmd() *cobra.Command {
	var (
		configPath string
		title      string
		status     string
		priority   string
		due        string
		assignee   string
		notes      string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update task fields",
		Long:  "Updates only the fields whose flags are given. Pass --assignee \"\" to unassign.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			updates := make(map[string]interface{})
			flags := cmd.Flags()
			if flags.Changed("title") {
				updates["title"] = title
			}
			if flags.Changed("status") {
				updates["status"] = status
			}
			if flags.Changed("priority") {
				updates["priority"] = priority
			}
			if flags.Changed("notes") {
				updates["notes"] = notes
			}
			if flags.Changed("assignee") {
				if assignee == "" {
					updates["assigned_to"] = nil
				} else {
					updates["assigned_to"] = assignee
				}
			}
			if flags.Changed("due") {
				d, err := parseDateFlag(due)
				if err != nil {
					return fmt.Errorf("invalid --due: %w", err)
				}
				updates["due_date"] = d
			}
			if len(updates) == 0 {
				return fmt.Errorf("no fields to update")
			}
			return runTaskUpdate(cmd, configPath, args[0], updates)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&status, "status", "", "new status")
	cmd.Flags().StringVar(&priority, "priority", "", "new priority")
	cmd.Flags().StringVar(&due, "due", "", "new due date (YYYY-MM-DD, empty clears)")
	cmd.Flags().StringVar(&assignee, "assignee", "", "new assignee")
	cmd.Flags().StringVar(&notes, "notes", "", "new notes")
	return cmd
}

func runTaskUpdate(cmd *cobra.Command, configPath, id string, updates map[string]interface{}) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	t, err := store.New(gormDB).UpdateTask(context.Background(), id, updates)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s (%s, %s)\n", t.ID, t.Title, t.Status)
	return nil
}

func newTaskCompleteCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "complete <id>",
		Short: "Mark a task done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTaskUpdate(cmd, configPath, args[0], map[string]interface{}{"status": models.StatusDone})
		},
	}

	addConfigFlag(cmd, &configPath)
	return cmd
}

func newTaskDeleteCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			if err := store.New(gormDB).DeleteTask(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", args[0])
			return nil
		},
	}

	addConfigFlag(cmd, &configPath)
	return cmd
}

func newTaskHealthCmd() *cobra.Command {
	var (
		configPath string
		clientID   string
		redFlags   bool
	)

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Show open tasks with their health",
		Long: `Shows open tasks as healthy, risk (due within 48 hours) or critical
(unassigned or overdue). With --red-flags, only critical tasks are listed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTaskHealth(cmd, configPath, clientID, redFlags, time.Now())
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVar(&clientID, "client", "", "only this client's tasks")
	cmd.Flags().BoolVar(&redFlags, "red-flags", false, "only critical tasks")
	return cmd
}

func runTaskHealth(cmd *cobra.Command, configPath, clientID string, redFlags bool, now time.Time) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	report, err := health.Report(context.Background(), store.New(gormDB),
		store.TaskFilter{ClientID: clientID, OpenOnly: true}, now)
	if err != nil {
		return err
	}
	if redFlags {
		report = health.RedFlags(report)
	}

	out := cmd.OutOrStdout()
	if len(report) == 0 {
		fmt.Fprintln(out, "No open tasks.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "HEALTH\tFLAG\tCLIENT\tTITLE\tDUE\tASSIGNEE")
	for _, t := range report {
		flag := t.Flag
		if flag == "" {
			flag = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			t.Health, flag, truncate(t.ClientName, 24), truncate(t.Title, 40), formatDate(t.DueDate), orDash(t.AssignedTo))
	}
	w.Flush()
	return nil
}
