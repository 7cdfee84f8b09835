package main

import (
	"context"
	"fmt"

	"superheroes/internal/config"
	"superheroes/internal/logging"
	"superheroes/internal/repository"
	"superheroes/internal/repository/postgres"
	"superheroes/internal/repository/sqlite"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries what every subcommand needs once flags are parsed
type app struct {
	configPath string
	cfg        *config.Config
	logger     *zap.Logger
}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "superheroes",
		Short: "Superheroes roster server and tooling",
		Long: `Superheroes serves a roster of heroes, their powers and the strength
with which each hero holds each power, over a JSON HTTP API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default: search standard locations)")

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(newServeCommand(a))
	rootCmd.AddCommand(newSeedCommand(a))
	rootCmd.AddCommand(newExportCommand(a))

	return rootCmd
}

func (a *app) init() error {
	cfg, path, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	if path != "" {
		logger.Debug("config loaded", zap.String("path", path))
	}
	return nil
}

// openStore opens the repository selected by database.driver
func (a *app) openStore(ctx context.Context) (repository.Repository, error) {
	switch a.cfg.Database.Driver {
	case config.DriverPostgres:
		repo, err := postgres.New(ctx, a.cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres store: %w", err)
		}
		a.logger.Info("store opened", zap.String("driver", config.DriverPostgres))
		return repo, nil
	default:
		repo, err := sqlite.New(a.cfg.Database.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		a.logger.Info("store opened",
			zap.String("driver", config.DriverSQLite),
			zap.String("path", a.cfg.Database.Path))
		return repo, nil
	}
}
