package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"robin/internal/config"
	"robin/internal/database"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	envFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "bugstat",
	Short: "Bug status reports over the local Bugzilla snapshots",
	Long: `bugstat computes the bug status summary the API serves, straight from the
database, and refreshes the Bugzilla snapshots it reads.

Example:
  bugstat refresh
  bugstat report --team kvm --start 2024-01-01 --end 2024-03-31 --per-member
  bugstat report --org`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		}
		if err := godotenv.Load(envFile); err != nil && cmd.Flags().Changed("env-file") {
			return fmt.Errorf("failed to load %s: %w", envFile, err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "environment file to load")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every aggregation")

	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(refreshCmd)
}

// env holds what every subcommand connects to
type env struct {
	cfg    *config.Config
	db     *database.DB
	arches *config.ArchitectureTable
}

func connect(ctx context.Context) (*env, error) {
	cfg := config.Load()

	arches, err := config.LoadArchitectures(cfg.Report.ArchitecturesFile)
	if err != nil {
		return nil, err
	}

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, db: db, arches: arches}, nil
}
