package cmd

import (
	"fmt"
	"os"

	"relation-manager/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configDir string
	logLevel  string
)

// RootCmd is the base command. Subcommands share the configuration flags below.
var RootCmd = &cobra.Command{
	Use:   "relation-manager",
	Short: "Relation Manager Service",
	Long: `Relation Manager keeps many-to-many link tables in sync with the entities they join.
It serves the declared relations over HTTP and exports them to S3 compatible storage.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "Directory holding .env and config.yaml")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override log.level (debug, info, warn, error)")
}

// Execute runs the root command and exits with status 1 on failure.
func Execute() {
	cmd, err := RootCmd.ExecuteC()
	if err == nil {
		return
	}

	l, logErr := logger.New(&logger.Config{Level: "debug", Format: "console"})
	if logErr != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	l.Error("command failed", zap.String("command", cmd.CommandPath()), zap.Error(err))
	_ = l.Sync()
	os.Exit(1)
}
