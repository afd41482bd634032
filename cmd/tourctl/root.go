package main

import (
	"github.com/spf13/cobra"

	"github.com/iliyamo/aerial-tour-booking/internal/logger"
)

var (
	// configFile is set by the --config flag.
	configFile string
	flagJSON   bool
)

var rootCmd = &cobra.Command{
	Use:           "tourctl",
	Short:         "Administer the aerial tour booking service",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd, configFile); err != nil {
			return err
		}
		logger.InitWriter(cmd.ErrOrStderr(), "dev")
		return logger.SetLevelString(cfg.GetString(keyLogLevel))
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file (default: ./tourctl.yaml if present)")
	pf.String("db-driver", "", "database driver: mysql or sqlite (env DB_DRIVER)")
	pf.String("db-path", "", "sqlite database file (env DB_PATH)")
	pf.BoolVar(&flagJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(toursCmd)
	rootCmd.AddCommand(hashPasswordCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(demoCmd)
}
