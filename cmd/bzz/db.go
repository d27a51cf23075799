package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/tyatlocalbzz/localbzz-app/internal/db"
)

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database management commands",
	}

	cmd.AddCommand(newDBInitCmd())
	cmd.AddCommand(newDBSeedCmd())
	return cmd
}

func newDBInitCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the localbzz database",
		Long:  "Migrates all tables and seeds the built-in and configured workflow templates.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBInit(cmd, configPath)
		},
	}

	addConfigFlag(cmd, &configPath)
	return cmd
}

func runDBInit(cmd *cobra.Command, configPath string) error {
	out := cmd.OutOrStdout()

	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Connected to %s database\n", cfg.Database.Driver)

	if err := db.AutoMigrate(gormDB); err != nil {
		return err
	}
	fmt.Fprintf(out, "Migrated %d tables\n", len(db.AllModels()))

	templates := append(db.DefaultTemplates(), cfg.Templates...)
	if err := db.SeedTemplates(gormDB, templates); err != nil {
		return err
	}
	fmt.Fprintf(out, "Seeded %d templates:", len(templates))
	for _, t := range templates {
		fmt.Fprintf(out, " %q", t.Name)
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "\nlocalbzz database initialized successfully.")
	return nil
}

func newDBSeedCmd() *cobra.Command {
	var (
		configPath string
		demo       bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed workflow templates and optional demo data",
		Long: `Seeds the built-in and configured workflow templates.

With --demo, also loads six demo clients and their tasks dated relative to
today. Demo clients are upserted, so reseeding does not duplicate them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBSeed(cmd, configPath, demo)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().BoolVar(&demo, "demo", false, "also load demo clients and tasks")
	return cmd
}

func runDBSeed(cmd *cobra.Command, configPath string, demo bool) error {
	out := cmd.OutOrStdout()

	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(gormDB); err != nil {
		return err
	}

	templates := append(db.DefaultTemplates(), cfg.Templates...)
	if err := db.SeedTemplates(gormDB, templates); err != nil {
		return err
	}
	fmt.Fprintf(out, "Seeded %d templates\n", len(templates))

	if !demo {
		return nil
	}
	if err := db.SeedDemo(gormDB, time.Now()); err != nil {
		return err
	}
	fmt.Fprintln(out, "Seeded demo clients and tasks")
	return nil
}
