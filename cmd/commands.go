package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/siahsang/ncnews/internal/config"
	"github.com/siahsang/ncnews/internal/database"
	"github.com/siahsang/ncnews/internal/utils/databaseutils"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	dbURL      string
	port       int
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "ncnews",
		Short:         "REST API for topics, articles, comments and users",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultConfigPath, "Path to the YAML config file")
	root.PersistentFlags().StringVar(&opts.dbURL, "db", "", "Database connection URL (overrides DATABASE_URL)")
	root.PersistentFlags().IntVarP(&opts.port, "port", "p", 0, "HTTP port (overrides PORT)")

	root.AddCommand(
		newServeCommand(opts),
		newMigrateCommand(opts),
		newSeedCommand(opts),
	)

	return root
}

func (o *rootOptions) load() (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, err
	}

	if o.dbURL != "" {
		cfg.Database.URL = o.dbURL
	}
	if o.port != 0 {
		cfg.Port = o.port
	}

	return cfg, cfg.Validate()
}

// withDatabase loads the config, opens the pool and hands both to fn. The pool
// is closed when fn returns.
func (o *rootOptions) withDatabase(ctx context.Context, fn func(cfg config.Config, db *sql.DB, logger *slog.Logger) error) error {
	cfg, err := o.load()
	if err != nil {
		return err
	}

	logger := configLogger(cfg)

	db, err := database.Open(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}

	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("error closing database connection", "error", err)
		}
	}()

	return fn(cfg, db, logger)
}

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Create the schema if needed and serve the API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return opts.withDatabase(ctx, func(cfg config.Config, db *sql.DB, logger *slog.Logger) error {
				if err := database.CreateSchema(ctx, db); err != nil {
					return err
				}
				logger.Info("database schema ready")

				return newApplication(cfg, db, logger).serve(ctx)
			})
		},
	}
}

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withDatabase(cmd.Context(), func(cfg config.Config, db *sql.DB, logger *slog.Logger) error {
				if err := database.CreateSchema(cmd.Context(), db); err != nil {
					return err
				}
				logger.Info("database schema ready")
				return nil
			})
		},
	}
}

func newSeedCommand(opts *rootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace all data with a seed dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := database.DefaultSeedData()
			if file != "" {
				data, err = database.LoadSeedFile(file)
			}
			if err != nil {
				return err
			}

			return opts.withDatabase(cmd.Context(), func(cfg config.Config, db *sql.DB, logger *slog.Logger) error {
				if err := database.CreateSchema(cmd.Context(), db); err != nil {
					return err
				}

				session := databaseutils.NewSession(db, logger)
				sqlTemplate := databaseutils.NewSQLTemplate(db, cfg.Database.QueryTimeout)

				summary, err := database.Seed(cmd.Context(), session, sqlTemplate, data)
				if err != nil {
					return err
				}

				logger.Info("database seeded",
					"topics", summary.Topics,
					"users", summary.Users,
					"articles", summary.Articles,
					"comments", summary.Comments)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON seed file (defaults to the bundled development data)")
	return cmd
}
