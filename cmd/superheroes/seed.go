package main

import (
	"os"
	"path/filepath"
	"strings"

	"superheroes/internal/codec"
	"superheroes/internal/domain"
	"superheroes/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSeedCommand(a *app) *cobra.Command {
	var (
		file   string
		format string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace the store contents with a roster document",
		Long: `Seed replaces every hero, power and hero power in the store with the
records of a roster document. Without --file the built-in sample roster is used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			repo, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			if file == "" {
				roster, err := codec.DefaultRoster()
				if err != nil {
					return err
				}
				if err := repo.ImportRoster(ctx, roster); err != nil {
					return err
				}
				a.logSeeded(roster, "built-in")
				return nil
			}

			c, err := codec.ForFormat(formatFor(file, format))
			if err != nil {
				return err
			}
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			svc := service.NewRosterService(repo, nil, a.logger)
			_, err = svc.Import(ctx, c, f)
			return err
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "roster document to load")
	cmd.Flags().StringVar(&format, "format", "", "document format: json or yaml (default: from file extension)")
	return cmd
}

func (a *app) logSeeded(roster *domain.Roster, source string) {
	a.logger.Info("roster seeded",
		zap.String("source", source),
		zap.Int("heroes", len(roster.Heroes)),
		zap.Int("powers", len(roster.Powers)),
		zap.Int("hero_powers", len(roster.HeroPowers)))
}

// formatFor returns format, or infers it from the file extension
func formatFor(file, format string) string {
	if format != "" {
		return format
	}
	return strings.TrimPrefix(filepath.Ext(file), ".")
}
