package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	port       string
	dbPath     string
}

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}

	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:          "student-app",
		Short:        "Offline learning store: module sync, quiz results and progress",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", envConfig, "path to YAML config")
	cmd.PersistentFlags().StringVar(&opts.port, "port", os.Getenv("PORT"), "port to listen on (overrides server.port)")
	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", os.Getenv("STORE_PATH"), "SQLite database file (overrides store.path)")

	cmd.AddCommand(NewServeCmd(opts))
	cmd.AddCommand(NewMigrateCmd(opts))
	cmd.AddCommand(NewSyncCmd(opts))
	cmd.AddCommand(NewImportCmd(opts))
	cmd.AddCommand(NewProgressCmd(opts))
	cmd.AddCommand(NewResultsCmd(opts))
	return cmd
}
