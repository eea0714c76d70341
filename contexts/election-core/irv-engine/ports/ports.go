package ports

import (
	"context"
	"time"

	"rankvote/contexts/election-core/irv-engine/domain/entities"
)

type ElectionRepository interface {
	SaveElection(ctx context.Context, election entities.Election) error
	GetElection(ctx context.Context, electionID string) (entities.Election, error)
	ListElections(ctx context.Context) ([]entities.Election, error)
}

// ElectionOutcome is the audit record of a finished election. It carries the
// final result and per-round aggregates only; individual ballots are never
// written outside the in-memory store.
type ElectionOutcome struct {
	ElectionID  string
	Name        string
	Status      string
	Winner      string
	BallotCount int
	Rounds      []entities.RoundResult
	DecidedAt   time.Time
}

type ResultArchive interface {
	ArchiveOutcome(ctx context.Context, outcome ElectionOutcome) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
