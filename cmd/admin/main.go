package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/templui/profiledesk/cmd/admin/cmd"
	"github.com/templui/profiledesk/internal/config"
	"github.com/templui/profiledesk/internal/logger"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "admin",
		Short:        "Operational tools for profiledesk",
		SilenceUsage: true,
		PersistentPreRun: func(c *cobra.Command, args []string) {
			logger.Init(logger.Options{Development: true})
		},
	}

	rootCmd.AddCommand(cmd.MigrateCmd(config.Load))
	rootCmd.AddCommand(cmd.DirsCmd(config.Load))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
