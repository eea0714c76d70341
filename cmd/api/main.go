package main

import (
	"log/slog"
	"os"

	"rankvote/internal/app/bootstrap"
)

// API process entrypoint.
// Data flow:
// 1) Load config.
// 2) Build app wiring (ports + adapters + use cases).
// 3) Start HTTP server.
func main() {
	app, err := bootstrap.BuildAPI()
	if err != nil {
		slog.Error("api bootstrap failed", "error", err.Error())
		os.Exit(1)
	}
	defer func() {
		_ = app.Close()
	}()

	if err := app.Run(); err != nil {
		slog.Error("api server stopped", "error", err.Error())
		os.Exit(1)
	}
}
