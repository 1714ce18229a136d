package main

import (
	"database/sql"
	"log/slog"
	"os"
	"strings"

	"github.com/golang-cz/devslog"
	"github.com/siahsang/ncnews/internal/config"
	"github.com/siahsang/ncnews/internal/core"
	"github.com/siahsang/ncnews/internal/utils/databaseutils"
)

type application struct {
	config config.Config
	core   *core.Core
	logger *slog.Logger
}

func newApplication(cfg config.Config, db *sql.DB, logger *slog.Logger) *application {
	sqlTemplate := databaseutils.NewSQLTemplate(db, cfg.Database.QueryTimeout)

	return &application{
		config: cfg,
		core:   core.NewCore(sqlTemplate, logger),
		logger: logger,
	}
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// configLogger uses devslog for development and JSON lines in production.
func configLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		level = slog.LevelInfo
	}

	if cfg.Env == config.EnvProduction {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	}

	handler := devslog.NewHandler(
		os.Stdout, &devslog.Options{
			HandlerOptions: &slog.HandlerOptions{
				AddSource: true,
				Level:     level,
			},
			NewLineAfterLog: false,
		})

	return slog.New(handler)
}
