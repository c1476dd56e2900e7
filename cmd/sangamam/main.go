package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"sangamam/internal/attendance"
	"sangamam/internal/config"
	"sangamam/internal/core"
	"sangamam/internal/feed"
	"sangamam/internal/logging"
	"sangamam/internal/notify"
	"sangamam/internal/store"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Debug("configuration loaded",
		"database_configured", cfg.Database.Configured(),
		"email_configured", cfg.Email.Configured(),
		"storage_dir", cfg.Storage.Dir,
	)

	local, err := store.Open(cfg.Storage.Dir)
	if err != nil {
		slog.Error("failed to open local store", "error", err)
		os.Exit(1)
	}
	defer local.Close()

	ctx := context.Background()

	// The remote database is optional: without it the app runs entirely
	// on the local store.
	var remote store.RemoteStore
	if cfg.Database.Configured() {
		poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
		if err != nil {
			slog.Error("failed to parse database URL", "error", err)
			os.Exit(1)
		}
		poolConfig.MaxConns = int32(cfg.Database.MaxConns)
		poolConfig.MinConns = int32(cfg.Database.MinConns)
		poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime

		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		r := store.NewRemote(pool)
		if err := r.EnsureSchema(ctx); err != nil {
			// Degrade to local-only rather than refuse to start: the
			// check-in desk must work with the network down.
			slog.Warn("database unreachable, running on local store only", "error", err)
		} else {
			remote = r
			slog.Info("connected to database")
		}
	}

	gateway := store.NewGateway(local, remote, slog.Default())

	tracker, err := attendance.NewTracker(local, gateway, slog.Default())
	if err != nil {
		slog.Error("failed to load attendance state", "error", err)
		os.Exit(1)
	}

	fetcher := feed.NewHTTPFetcher(
		cfg.Sheets.URL,
		cfg.Sheets.MinPayloadBytes,
		&http.Client{Timeout: cfg.Sheets.FetchTimeout},
	)
	syncer := feed.NewSyncer(fetcher, feed.NewCache(local), slog.Default())

	mailer := notify.NewMailer(cfg.Email, nil, slog.Default())

	service := core.NewService(syncer, gateway, tracker, mailer, slog.Default())
	defer service.Close()

	if err := newRootCmd(service).ExecuteContext(ctx); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
