//go:build integration

// Package testutil starts a throwaway postgres for integration tests and
// resets it to the bundled seed data between tests.
package testutil

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/ncnews/internal/config"
	"github.com/siahsang/ncnews/internal/database"
	"github.com/siahsang/ncnews/internal/utils/databaseutils"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

type Postgres struct {
	DB     *sql.DB
	Logger *slog.Logger

	container *postgres.PostgresContainer
}

// StartPostgres runs a postgres container, connects to it and creates the
// schema. Call Close when done.
func StartPostgres(ctx context.Context) (*Postgres, error) {
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("nc_news_test"),
		postgres.WithUsername("ncnews"),
		postgres.WithPassword("ncnews"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		return nil, xerrors.Newf("starting postgres container: %w", err)
	}

	pg := &Postgres{
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		container: container,
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		pg.Close(ctx)
		return nil, xerrors.New(err)
	}

	cfg := config.Default().Database
	cfg.URL = connStr

	pg.DB, err = database.Open(ctx, cfg, pg.Logger)
	if err != nil {
		pg.Close(ctx)
		return nil, err
	}

	if err := database.CreateSchema(ctx, pg.DB); err != nil {
		pg.Close(ctx)
		return nil, err
	}

	return pg, nil
}

func (pg *Postgres) Close(ctx context.Context) {
	if pg.DB != nil {
		_ = pg.DB.Close()
	}
	if err := pg.container.Terminate(ctx); err != nil {
		pg.Logger.Error("failed to terminate container", "error", err)
	}
}

// ResetDB reloads the bundled seed data, so every test starts from the same
// rows and ids.
func (pg *Postgres) ResetDB(t *testing.T) {
	t.Helper()

	data, err := database.DefaultSeedData()
	if err != nil {
		t.Fatalf("loading seed data: %v", err)
	}

	session := databaseutils.NewSession(pg.DB, pg.Logger)
	sqlTemplate := databaseutils.NewSQLTemplate(pg.DB, 0)

	if _, err := database.Seed(context.Background(), session, sqlTemplate, data); err != nil {
		t.Fatalf("seeding database: %v", err)
	}
}
