package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hal-directory/backend/internal/application/services"
	"github.com/hal-directory/backend/internal/infrastructure/observability"
	"github.com/hal-directory/backend/internal/infrastructure/storage"
	"github.com/hal-directory/backend/pkg/config"
)

// openStore is replaced in tests
var openStore = func(ctx context.Context, migrate bool) (*storage.Repositories, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	observability.InitLogger("halctl", cfg.Log.Env, cfg.Log.Level)
	return storage.Open(ctx, cfg, migrate)
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "halctl",
		Short:         "Operator tasks for the HAL directory",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		migrateCmd(),
		seedCmd(),
		importCSVCmd(),
		recomputeRatingsCmd(),
	)
	return cmd
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			repos, err := openStore(ctx, true)
			if err != nil {
				return err
			}
			defer repos.Close()

			fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	var (
		file  string
		reset bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load companies and blog posts from a YAML fixture",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open fixture: %w", err)
			}
			defer f.Close()

			repos, err := openStore(ctx, true)
			if err != nil {
				return err
			}
			defer repos.Close()

			result, err := services.NewSeedService(repos.Companies, repos.Blog).Seed(ctx, f, reset)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d companies and %d blog posts\n", result.Companies, result.Posts)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "data/seed.yaml", "Seed fixture path (YAML)")
	cmd.Flags().BoolVar(&reset, "reset", false, "Remove existing companies and blog posts first")
	return cmd
}

func importCSVCmd() *cobra.Command {
	var (
		file   string
		sample bool
	)

	cmd := &cobra.Command{
		Use:   "import-csv",
		Short: "Import companies from a CSV file",
		Long: `Import companies from a CSV file with the header

  name,nameRu,description,descriptionRu,category,city,address,phone,email,website,image

Rows without a name or phone are skipped. Use --sample to print an example file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if sample {
				return services.WriteSampleCSV(cmd.OutOrStdout())
			}
			if file == "" {
				return fmt.Errorf("--file is required")
			}

			ctx, cancel := commandContext(cmd)
			defer cancel()

			var r io.Reader = cmd.InOrStdin()
			if file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return fmt.Errorf("open csv: %w", err)
				}
				defer f.Close()
				r = f
			}

			repos, err := openStore(ctx, true)
			if err != nil {
				return err
			}
			defer repos.Close()

			result, err := services.NewSeedService(repos.Companies, repos.Blog).ImportCSV(ctx, r)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d companies, %d rows skipped\n", result.Imported, result.Errors)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "CSV file path, or - for stdin")
	cmd.Flags().BoolVar(&sample, "sample", false, "Print a sample CSV and exit")
	return cmd
}

func recomputeRatingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recompute-ratings",
		Short: "Recompute every company's rating from its reviews",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			repos, err := openStore(ctx, false)
			if err != nil {
				return err
			}
			defer repos.Close()

			updated, err := services.NewRatingAggregator(repos.Companies, repos.Reviews).RecomputeAll(ctx)
			if err != nil {
				log.Error().Err(err).Int("updated", updated).Msg("Rating recompute finished with errors")
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recomputed ratings for %d companies\n", updated)
			return nil
		},
	}
}
