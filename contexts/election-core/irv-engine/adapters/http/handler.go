package httpadapter

import (
	"context"
	"log/slog"

	"rankvote/contexts/election-core/irv-engine/application/commands"
	"rankvote/contexts/election-core/irv-engine/application/queries"
	"rankvote/contexts/election-core/irv-engine/domain/entities"
	httptransport "rankvote/contexts/election-core/irv-engine/transport/http"
)

type Handler struct {
	Elections commands.ElectionUseCase
	Standings queries.StandingsUseCase
	Logger    *slog.Logger
}

func (h Handler) CreateElectionHandler(ctx context.Context, req httptransport.CreateElectionRequest) (httptransport.ElectionResponse, error) {
	election, err := h.Elections.CreateElection(ctx, commands.CreateElectionCommand{
		Name:       req.Name,
		Candidates: req.Candidates,
	})
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	return electionResponse(election.ElectionID, election.Name, election.Candidates, election.Status, election.Winner, len(election.Ballots), election.Rounds), nil
}

func (h Handler) GetElectionHandler(ctx context.Context, electionID string) (httptransport.ElectionResponse, error) {
	summary, err := h.Standings.Summary(ctx, electionID)
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	return electionResponse(summary.ElectionID, summary.Name, summary.Candidates, summary.Status, summary.Winner, summary.BallotCount, summary.Rounds), nil
}

func (h Handler) ListElectionsHandler(ctx context.Context) (httptransport.ElectionListResponse, error) {
	summaries, err := h.Standings.ListSummaries(ctx)
	if err != nil {
		return httptransport.ElectionListResponse{}, err
	}
	items := make([]httptransport.ElectionResponse, 0, len(summaries))
	for _, summary := range summaries {
		items = append(items, electionResponse(summary.ElectionID, summary.Name, summary.Candidates, summary.Status, summary.Winner, summary.BallotCount, summary.Rounds))
	}
	return httptransport.ElectionListResponse{Items: items}, nil
}

func (h Handler) CastBallotHandler(ctx context.Context, electionID string, req httptransport.CastBallotRequest) (httptransport.CastBallotResponse, error) {
	result, err := h.Elections.CastBallot(ctx, commands.CastBallotCommand{
		ElectionID: electionID,
		Ranking:    req.Ranking,
	})
	if err != nil {
		return httptransport.CastBallotResponse{}, err
	}
	return httptransport.CastBallotResponse{
		BallotID:    result.BallotID,
		ElectionID:  result.ElectionID,
		BallotCount: result.BallotCount,
	}, nil
}

func (h Handler) StandingsHandler(ctx context.Context, electionID string) (httptransport.StandingsResponse, error) {
	view, err := h.Standings.Standings(ctx, electionID)
	if err != nil {
		return httptransport.StandingsResponse{}, err
	}
	standings := make([]httptransport.StandingItem, 0, len(view.Standings))
	for _, standing := range view.Standings {
		standings = append(standings, httptransport.StandingItem{
			Candidate: standing.Candidate,
			Votes:     standing.Votes,
		})
	}
	return httptransport.StandingsResponse{
		ElectionID:       view.ElectionID,
		Status:           string(view.Status),
		Standings:        standings,
		Remaining:        view.Remaining,
		TotalBallots:     view.TotalBallots,
		CountedVotes:     view.CountedVotes,
		ExhaustedBallots: view.ExhaustedBallots,
	}, nil
}

// DecideElectionHandler runs the runoff. An undecidable election surfaces as
// a domain error so the server can map it to a distinct status code.
func (h Handler) DecideElectionHandler(ctx context.Context, electionID string) (httptransport.DecideElectionResponse, error) {
	result, err := h.Elections.DecideElection(ctx, commands.DecideElectionCommand{
		ElectionID: electionID,
	})
	if err != nil {
		return httptransport.DecideElectionResponse{}, err
	}
	return httptransport.DecideElectionResponse{
		ElectionID: result.Election.ElectionID,
		Status:     string(result.Election.Status),
		Winner:     result.Election.Winner,
		Rounds:     mapRounds(result.Election.Rounds),
		Replayed:   result.Replayed,
	}, nil
}

func electionResponse(
	electionID string,
	name string,
	candidates []string,
	status entities.ElectionStatus,
	winner string,
	ballotCount int,
	rounds []entities.RoundResult,
) httptransport.ElectionResponse {
	return httptransport.ElectionResponse{
		ElectionID:  electionID,
		Name:        name,
		Candidates:  candidates,
		Status:      string(status),
		Winner:      winner,
		BallotCount: ballotCount,
		Rounds:      mapRounds(rounds),
	}
}

func mapRounds(rounds []entities.RoundResult) []httptransport.RoundResult {
	if len(rounds) == 0 {
		return nil
	}
	items := make([]httptransport.RoundResult, 0, len(rounds))
	for _, round := range rounds {
		items = append(items, httptransport.RoundResult{
			Round:      round.Round,
			Counts:     round.Counts,
			TotalVotes: round.TotalVotes,
			Eliminated: round.Eliminated,
		})
	}
	return items
}
