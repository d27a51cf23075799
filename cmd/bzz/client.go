package main

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/tyatlocalbzz/localbzz-app/internal/health"
	"github.com/tyatlocalbzz/localbzz-app/internal/models"
	"github.com/tyatlocalbzz/localbzz-app/internal/store"
)

func newClientCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Client commands",
	}

	cmd.AddCommand(newClientListCmd())
	cmd.AddCommand(newClientShowCmd())
	cmd.AddCommand(newClientCreateCmd())
	cmd.AddCommand(newClientUpdateCmd())
	cmd.AddCommand(newClientDeleteCmd())
	cmd.AddCommand(newClientGhostsCmd())
	return cmd
}

func newClientListCmd() *cobra.Command {
	var (
		configPath string
		status     string
		auto       string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List clients",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := store.ClientFilter{Status: status}
			if auto != "" {
				v, err := strconv.ParseBool(auto)
				if err != nil {
					return fmt.Errorf("invalid --auto %q: %w", auto, err)
				}
				f.AutoWorkflow = &v
			}
			return runClientList(cmd, configPath, f)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVar(&status, "status", "", "filter by status (active, lead, paused, churned)")
	cmd.Flags().StringVar(&auto, "auto", "", "filter by auto workflow (true or false)")
	return cmd
}

func runClientList(cmd *cobra.Command, configPath string, f store.ClientFilter) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	clients, err := store.New(gormDB).ListClients(context.Background(), f)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(clients) == 0 {
		fmt.Fprintln(out, "No clients found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTATUS\tPHASE\tAUTO\tTEMPLATE")
	for _, c := range clients {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\t%s\n",
			c.ID, truncate(c.Name, 30), c.Status, c.Phase, c.AutoWorkflowEnabled, orDash(c.DefaultTemplateID))
	}
	w.Flush()
	return nil
}

func newClientShowCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show client details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClientShow(cmd, configPath, args[0])
		},
	}

	addConfigFlag(cmd, &configPath)
	return cmd
}

func runClientShow(cmd *cobra.Command, configPath, id string) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	c, err := store.New(gormDB).GetClient(context.Background(), id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:           %s\n", c.ID)
	fmt.Fprintf(out, "Name:         %s\n", c.Name)
	fmt.Fprintf(out, "Status:       %s\n", c.Status)
	fmt.Fprintf(out, "Phase:        %s\n", c.Phase)
	fmt.Fprintf(out, "Auto:         %t\n", c.AutoWorkflowEnabled)
	fmt.Fprintf(out, "Template:     %s\n", orDash(c.DefaultTemplateID))
	fmt.Fprintf(out, "Photographer: %s\n", orDash(c.DefaultPhotographerID))
	fmt.Fprintf(out, "Editor:       %s\n", orDash(c.DefaultEditorID))
	if c.Notes != "" {
		fmt.Fprintf(out, "\nNotes:\n  %s\n", c.Notes)
	}
	return nil
}

func newClientGhostsCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "ghosts",
		Short: "List active clients with no shoot in the next 35 days",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClientGhosts(cmd, configPath, time.Now())
		},
	}

	addConfigFlag(cmd, &configPath)
	return cmd
}

func runClientGhosts(cmd *cobra.Command, configPath string, now time.Time) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	ghosts, err := health.FindGhostClients(context.Background(), store.New(gormDB), now)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(ghosts) == 0 {
		fmt.Fprintln(out, "Every active client has a shoot booked.")
		return nil
	}
	for _, c := range ghosts {
		fmt.Fprintf(out, "%s  %s\n", c.ID, c.Name)
	}
	return nil
}

func newClientCreateCmd() *cobra.Command {
	var (
		configPath string
		c          models.Client
		template   string
		photog     string
		editor     string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a client",
		RunE: func(cmd *cobra.Command, args []string) error {
			c.DefaultTemplateID = optional(template)
			c.DefaultPhotographerID = optional(photog)
			c.DefaultEditorID = optional(editor)
			return runClientCreate(cmd, configPath, &c)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVar(&c.Name, "name", "", "client name (required)")
	cmd.Flags().StringVar(&c.Status, "status", models.ClientActive, "status (active, lead, paused, churned)")
	cmd.Flags().StringVar(&c.Phase, "phase", models.PhaseMonthly, "phase (foundations, monthly, project)")
	cmd.Flags().StringVar(&c.Notes, "notes", "", "notes")
	cmd.Flags().BoolVar(&c.AutoWorkflowEnabled, "auto", false, "keep the task horizon filled automatically")
	cmd.Flags().StringVar(&template, "template", "", "default workflow template ID")
	cmd.Flags().StringVar(&photog, "photographer", "", "default photographer")
	cmd.Flags().StringVar(&editor, "editor", "", "default editor")
	cmd.MarkFlagRequired("name")
	return cmd
}

func runClientCreate(cmd *cobra.Command, configPath string, c *models.Client) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	st := store.New(gormDB)
	ctx := context.Background()
	if c.DefaultTemplateID != nil {
		if _, err := st.GetTemplate(ctx, *c.DefaultTemplateID); err != nil {
			return err
		}
	}
	if err := st.CreateClient(ctx, c); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created client %s (%s)\n", c.ID, c.Name)
	return nil
}

func newClientUpdateCmd() *cobra.Command {
	var (
		configPath string
		name       string
		status     string
		phase      string
		notes      string
		auto       bool
		template   string
		photog     string
		editor     string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update client settings",
		Long:  "Updates only the fields whose flags are given. Pass an empty value to clear a default template, photographer or editor.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			updates := make(map[string]interface{})
			flags := cmd.Flags()
			if flags.Changed("name") {
				updates["name"] = name
			}
			if flags.Changed("status") {
				updates["status"] = status
			}
			if flags.Changed("phase") {
				updates["phase"] = phase
			}
			if flags.Changed("notes") {
				updates["notes"] = notes
			}
			if flags.Changed("auto") {
				updates["auto_workflow_enabled"] = auto
			}
			if flags.Changed("template") {
				updates["default_template_id"] = optional(template)
			}
			if flags.Changed("photographer") {
				updates["default_photographer_id"] = optional(photog)
			}
			if flags.Changed("editor") {
				updates["default_editor_id"] = optional(editor)
			}
			if len(updates) == 0 {
				return fmt.Errorf("no fields to update")
			}
			return runClientUpdate(cmd, configPath, args[0], optional(template), updates)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&status, "status", "", "new status")
	cmd.Flags().StringVar(&phase, "phase", "", "new phase")
	cmd.Flags().StringVar(&notes, "notes", "", "new notes")
	cmd.Flags().BoolVar(&auto, "auto", false, "keep the task horizon filled automatically")
	cmd.Flags().StringVar(&template, "template", "", "default workflow template ID")
	cmd.Flags().StringVar(&photog, "photographer", "", "default photographer")
	cmd.Flags().StringVar(&editor, "editor", "", "default editor")
	return cmd
}

func runClientUpdate(cmd *cobra.Command, configPath, id string, template *string, updates map[string]interface{}) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	st := store.New(gormDB)
	ctx := context.Background()
	if _, set := updates["default_template_id"]; set && template != nil {
		if _, err := st.GetTemplate(ctx, *template); err != nil {
			return err
		}
	}
	c, err := st.UpdateClient(ctx, id, updates)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated client %s (%s, %s, auto=%t)\n", c.ID, c.Name, c.Status, c.AutoWorkflowEnabled)
	return nil
}

func newClientDeleteCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a client and all of its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			if err := store.New(gormDB).DeleteClient(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted client %s\n", args[0])
			return nil
		},
	}

	addConfigFlag(cmd, &configPath)
	return cmd
}
