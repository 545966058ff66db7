// Package cli wires the configuration, storage and transport layers into the
// testownik commands.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// Execute builds the command tree and runs it. Flags default from the
// environment, so PORT and CONFIG_PATH work in containers without extra
// arguments while explicit flags still win.
func Execute() error {
	var (
		port       string
		configPath string
	)

	root := &cobra.Command{
		Use:           "testownik",
		Short:         "Quiz attempt and progress engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&port, "port", envOr("PORT", ""), "port to listen on")
	root.PersistentFlags().StringVar(&configPath, "config", envOr("CONFIG_PATH", "config/config.yaml"), "path to YAML config")

	root.AddCommand(NewStartCmd(&configPath, &port))
	root.AddCommand(NewMigrateCmd(&configPath))
	return root.Execute()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
