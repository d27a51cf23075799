package main

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tyatlocalbzz/localbzz-app/internal/store"
)

func newTemplateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Workflow template commands",
	}

	cmd.AddCommand(newTemplateListCmd())
	cmd.AddCommand(newTemplateShowCmd())
	return cmd
}

func newTemplateListCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List workflow templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}

			templates, err := store.New(gormDB).ListTemplates(context.Background())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(templates) == 0 {
				fmt.Fprintln(out, "No templates found. Run 'bzz db init' to seed the built-in ones.")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION")
			for _, t := range templates {
				fmt.Fprintf(w, "%s\t%s\t%s\n", t.ID, t.Name, truncate(t.Description, 50))
			}
			w.Flush()
			return nil
		},
	}

	addConfigFlag(cmd, &configPath)
	return cmd
}

func newTemplateShowCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a template and its steps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTemplateShow(cmd, configPath, args[0])
		},
	}

	addConfigFlag(cmd, &configPath)
	return cmd
}

func runTemplateShow(cmd *cobra.Command, configPath, id string) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	st := store.New(gormDB)
	ctx := context.Background()
	t, err := st.GetTemplate(ctx, id)
	if err != nil {
		return err
	}
	steps, err := st.ListSteps(ctx, id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:          %s\n", t.ID)
	fmt.Fprintf(out, "Name:        %s\n", t.Name)
	if t.Description != "" {
		fmt.Fprintf(out, "Description: %s\n", t.Description)
	}
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tTITLE\tTYPE\tROLE\tANCHOR\tOFFSET\tDEPENDS ON")
	for _, s := range steps {
		dep := "-"
		if s.IsDependentOnStep != nil {
			dep = strconv.Itoa(*s.IsDependentOnStep)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%+d\t%s\n",
			s.StepOrder, s.TitleTemplate, s.TaskType, s.AssignRole, s.DateAnchor, s.RelativeDayOffset, dep)
	}
	w.Flush()
	return nil
}
