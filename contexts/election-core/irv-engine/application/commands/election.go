package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	application "rankvote/contexts/election-core/irv-engine/application"
	"rankvote/contexts/election-core/irv-engine/domain/entities"
	domainerrors "rankvote/contexts/election-core/irv-engine/domain/errors"
	"rankvote/contexts/election-core/irv-engine/ports"
)

// CreateElectionCommand registers a new election with a fixed candidate set.
type CreateElectionCommand struct {
	Name       string
	Candidates []string
}

// CastBallotCommand submits one voter's full ranking into an open election.
type CastBallotCommand struct {
	ElectionID string
	Ranking    []string
}

type CastBallotResult struct {
	BallotID    string
	ElectionID  string
	BallotCount int
}

// DecideElectionCommand runs the instant runoff to completion.
type DecideElectionCommand struct {
	ElectionID string
}

// DecideElectionResult carries the final election state. Replayed is set when
// the election was already decided and the stored outcome is returned as-is.
type DecideElectionResult struct {
	Election entities.Election
	Replayed bool
}

// ElectionUseCase orchestrates the election write model: configuration
// validation at creation, ballot validation on cast, and the round loop plus
// outcome archiving on decide.
type ElectionUseCase struct {
	Elections ports.ElectionRepository
	Archive   ports.ResultArchive
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func (uc ElectionUseCase) CreateElection(ctx context.Context, cmd CreateElectionCommand) (entities.Election, error) {
	logger := application.ResolveLogger(uc.Logger)

	name := strings.TrimSpace(cmd.Name)
	candidates := make([]string, 0, len(cmd.Candidates))
	for _, candidate := range cmd.Candidates {
		candidates = append(candidates, strings.TrimSpace(candidate))
	}

	electionID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Election{}, err
	}
	election, err := entities.NewElection(electionID, name, candidates, uc.Clock.Now().UTC())
	if err != nil {
		logger.Warn("election create validation failed",
			"event", "election_create_validation_failed",
			"module", "election-core/irv-engine",
			"layer", "application",
			"name", name,
			"candidate_count", len(candidates),
		)
		return entities.Election{}, err
	}
	if err := uc.Elections.SaveElection(ctx, *election); err != nil {
		return entities.Election{}, err
	}

	logger.Info("election created",
		"event", "election_created",
		"module", "election-core/irv-engine",
		"layer", "application",
		"election_id", election.ElectionID,
		"candidate_count", len(election.Candidates),
	)
	return *election, nil
}

func (uc ElectionUseCase) CastBallot(ctx context.Context, cmd CastBallotCommand) (CastBallotResult, error) {
	logger := application.ResolveLogger(uc.Logger)

	electionID := strings.TrimSpace(cmd.ElectionID)
	if electionID == "" || len(cmd.Ranking) == 0 {
		return CastBallotResult{}, domainerrors.ErrInvalidBallotInput
	}

	election, err := uc.Elections.GetElection(ctx, electionID)
	if err != nil {
		return CastBallotResult{}, err
	}
	if election.Status != entities.ElectionStatusOpen {
		logger.Warn("ballot rejected for closed election",
			"event", "election_ballot_rejected_closed",
			"module", "election-core/irv-engine",
			"layer", "application",
			"election_id", electionID,
			"status", string(election.Status),
		)
		return CastBallotResult{}, domainerrors.ErrElectionClosed
	}

	ballotID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return CastBallotResult{}, err
	}
	ranking := make([]string, 0, len(cmd.Ranking))
	for _, candidate := range cmd.Ranking {
		ranking = append(ranking, strings.TrimSpace(candidate))
	}
	if err := election.AddBallot(entities.Ballot{BallotID: ballotID, Ranking: ranking}); err != nil {
		logger.Warn("ballot validation failed",
			"event", "election_ballot_validation_failed",
			"module", "election-core/irv-engine",
			"layer", "application",
			"election_id", electionID,
			"error", err.Error(),
		)
		return CastBallotResult{}, err
	}
	election.UpdatedAt = uc.Clock.Now().UTC()
	if err := uc.Elections.SaveElection(ctx, election); err != nil {
		return CastBallotResult{}, err
	}

	logger.Info("ballot accepted",
		"event", "election_ballot_accepted",
		"module", "election-core/irv-engine",
		"layer", "application",
		"election_id", electionID,
		"ballot_id", ballotID,
		"ballot_count", len(election.Ballots),
	)
	return CastBallotResult{
		BallotID:    ballotID,
		ElectionID:  electionID,
		BallotCount: len(election.Ballots),
	}, nil
}

// DecideElection drives the round loop to a terminal state. Deciding an
// already-decided election replays the stored outcome; an undecidable
// election surfaces ErrUndecidableElection on every decide call.
func (uc ElectionUseCase) DecideElection(ctx context.Context, cmd DecideElectionCommand) (DecideElectionResult, error) {
	logger := application.ResolveLogger(uc.Logger)

	electionID := strings.TrimSpace(cmd.ElectionID)
	election, err := uc.Elections.GetElection(ctx, electionID)
	if err != nil {
		return DecideElectionResult{}, err
	}

	switch election.Status {
	case entities.ElectionStatusDecided:
		return DecideElectionResult{Election: election, Replayed: true}, nil
	case entities.ElectionStatusUndecidable:
		return DecideElectionResult{Election: election, Replayed: true}, domainerrors.ErrUndecidableElection
	}

	now := uc.Clock.Now().UTC()
	winner, runErr := election.RunElection(now)
	if runErr != nil && !errors.Is(runErr, domainerrors.ErrUndecidableElection) {
		return DecideElectionResult{}, runErr
	}
	if err := uc.Elections.SaveElection(ctx, election); err != nil {
		return DecideElectionResult{}, err
	}
	uc.archiveOutcome(ctx, logger, election, now)

	if runErr != nil {
		logger.Info("election undecidable",
			"event", "election_undecidable",
			"module", "election-core/irv-engine",
			"layer", "application",
			"election_id", electionID,
			"rounds", len(election.Rounds),
		)
		return DecideElectionResult{Election: election}, runErr
	}

	logger.Info("election decided",
		"event", "election_decided",
		"module", "election-core/irv-engine",
		"layer", "application",
		"election_id", electionID,
		"winner", winner,
		"rounds", len(election.Rounds),
	)
	return DecideElectionResult{Election: election}, nil
}

// archiveOutcome writes the audit record. Archiving is best effort: a failed
// write must not un-decide an election that already reached a terminal state.
func (uc ElectionUseCase) archiveOutcome(ctx context.Context, logger *slog.Logger, election entities.Election, decidedAt time.Time) {
	if uc.Archive == nil {
		return
	}
	err := uc.Archive.ArchiveOutcome(ctx, ports.ElectionOutcome{
		ElectionID:  election.ElectionID,
		Name:        election.Name,
		Status:      string(election.Status),
		Winner:      election.Winner,
		BallotCount: len(election.Ballots),
		Rounds:      election.Rounds,
		DecidedAt:   decidedAt,
	})
	if err != nil {
		logger.Error("election outcome archive failed",
			"event", "election_outcome_archive_failed",
			"module", "election-core/irv-engine",
			"layer", "application",
			"election_id", election.ElectionID,
			"error", err.Error(),
		)
	}
}
