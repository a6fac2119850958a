// Package cmd wires the command line entry points.
package cmd

import (
	"log/slog"
	"os"

	"github.com/princinho/dealsbackend/config"
	"github.com/princinho/dealsbackend/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dealsbackend",
	Short: "Deals marketplace API server",
	Long: `dealsbackend serves the deals marketplace HTTP API: accounts and
authentication, roles and permissions, categories, deals, likes,
messages and links.

Configuration is read from the environment and an optional .env file.`,
	SilenceUsage: true,
}

// Execute runs the root command. Running without a subcommand starts the server.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.RunE = serveCmd.RunE
	rootCmd.AddCommand(serveCmd, seedAdminCmd)
}

func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	return cfg, logging.New(cfg.Env), nil
}
