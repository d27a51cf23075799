package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

const defaultConfigPath = "bzz.yaml"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bzz",
		Short: "localbzz agency workflow engine",
		Long:  "bzz turns workflow templates into dated client tasks and keeps auto-scheduled clients filled months ahead.",
	}

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newDBCmd())
	cmd.AddCommand(newClientCmd())
	cmd.AddCommand(newTaskCmd())
	cmd.AddCommand(newTemplateCmd())
	cmd.AddCommand(newWorkflowCmd())
	cmd.AddCommand(newHorizonCmd())
	cmd.AddCommand(newServeCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "bzz %s (commit: %s, built: %s)\n", Version, Commit, Date)
		},
	}
}

func addConfigFlag(cmd *cobra.Command, configPath *string) {
	cmd.Flags().StringVarP(configPath, "config", "c", defaultConfigPath, "path to bzz config file")
}

func execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(newRootCmd()))
}
