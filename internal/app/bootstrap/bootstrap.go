// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.
package bootstrap

import (
	"log/slog"
	"strings"

	irvengine "rankvote/contexts/election-core/irv-engine"
	"rankvote/contexts/election-core/irv-engine/adapters/memory"
	postgresadapter "rankvote/contexts/election-core/irv-engine/adapters/postgres"
	"rankvote/internal/platform/config"
	"rankvote/internal/platform/db"
	"rankvote/internal/platform/httpserver"
)

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

// BuildAPI wires the API process. Elections always live in the in-memory
// store (ballots are never persisted); the postgres archive is attached only
// when configured, to keep an audit trail of decided outcomes.
func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	store := memory.NewStore(nil)

	deps := irvengine.Dependencies{
		Elections: store,
		Archive:   store,
		Clock:     postgresadapter.SystemClock{},
		IDGen:     postgresadapter.UUIDGenerator{},
		Logger:    logger,
	}

	var pg *db.Postgres
	if cfg.EnableResultArchive && strings.TrimSpace(cfg.PostgresDSN) != "" {
		pg, err = db.Connect(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		archive := postgresadapter.NewArchive(pg.DB, logger)
		if err := archive.Migrate(); err != nil {
			_ = pg.Close()
			return nil, err
		}
		deps.Archive = archive
	}

	module := irvengine.NewModule(deps)
	module.Store = store

	server := httpserver.New(module, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func (a *APIApp) Run() error {
	return a.server.Start()
}

func (a *APIApp) Close() error {
	return a.postgres.Close()
}

func normalizeAddr(port string) string {
	port = strings.TrimSpace(port)
	if port == "" {
		return ":8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}
