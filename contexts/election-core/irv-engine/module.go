package irvengine

import (
	"log/slog"

	httpadapter "rankvote/contexts/election-core/irv-engine/adapters/http"
	"rankvote/contexts/election-core/irv-engine/adapters/memory"
	"rankvote/contexts/election-core/irv-engine/application/commands"
	"rankvote/contexts/election-core/irv-engine/application/queries"
	"rankvote/contexts/election-core/irv-engine/domain/entities"
	"rankvote/contexts/election-core/irv-engine/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Elections ports.ElectionRepository
	Archive   ports.ResultArchive
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	electionUseCase := commands.ElectionUseCase{
		Elections: deps.Elections,
		Archive:   deps.Archive,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		Logger:    deps.Logger,
	}
	standingsUseCase := queries.StandingsUseCase{
		Elections: deps.Elections,
	}
	return Module{
		Handler: httpadapter.Handler{
			Elections: electionUseCase,
			Standings: standingsUseCase,
			Logger:    deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.Election, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Elections: store,
		Archive:   store,
		Clock:     store,
		IDGen:     store,
		Logger:    logger,
	})
	module.Store = store
	return module
}
