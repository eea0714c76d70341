package queries

import (
	"context"
	"sort"
	"strings"

	"rankvote/contexts/election-core/irv-engine/domain/entities"
	"rankvote/contexts/election-core/irv-engine/ports"
)

// Standing is one remaining candidate's current first-preference count.
type Standing struct {
	Candidate string
	Votes     int
}

// StandingsView is the read model of an election's current round: live
// counts over the remaining field plus how many ballots are exhausted.
type StandingsView struct {
	ElectionID       string
	Status           entities.ElectionStatus
	Standings        []Standing
	Remaining        []string
	TotalBallots     int
	CountedVotes     int
	ExhaustedBallots int
}

// SummaryView describes an election's configuration and terminal state.
type SummaryView struct {
	ElectionID  string
	Name        string
	Candidates  []string
	Status      entities.ElectionStatus
	Winner      string
	BallotCount int
	Rounds      []entities.RoundResult
}

type StandingsUseCase struct {
	Elections ports.ElectionRepository
}

// Standings tallies the election as it stands, without mutating it. Rows are
// sorted by descending votes with candidate name as tie-break.
func (uc StandingsUseCase) Standings(ctx context.Context, electionID string) (StandingsView, error) {
	election, err := uc.Elections.GetElection(ctx, strings.TrimSpace(electionID))
	if err != nil {
		return StandingsView{}, err
	}

	counts := election.VoteCounts()
	standings := make([]Standing, 0, len(counts))
	counted := 0
	for candidate, votes := range counts {
		standings = append(standings, Standing{Candidate: candidate, Votes: votes})
		counted += votes
	}
	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Votes == standings[j].Votes {
			return standings[i].Candidate < standings[j].Candidate
		}
		return standings[i].Votes > standings[j].Votes
	})

	return StandingsView{
		ElectionID:       election.ElectionID,
		Status:           election.Status,
		Standings:        standings,
		Remaining:        election.RemainingCandidates(),
		TotalBallots:     len(election.Ballots),
		CountedVotes:     counted,
		ExhaustedBallots: len(election.Ballots) - counted,
	}, nil
}

func (uc StandingsUseCase) Summary(ctx context.Context, electionID string) (SummaryView, error) {
	election, err := uc.Elections.GetElection(ctx, strings.TrimSpace(electionID))
	if err != nil {
		return SummaryView{}, err
	}
	return summaryView(election), nil
}

func (uc StandingsUseCase) ListSummaries(ctx context.Context) ([]SummaryView, error) {
	elections, err := uc.Elections.ListElections(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]SummaryView, 0, len(elections))
	for _, election := range elections {
		summaries = append(summaries, summaryView(election))
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].ElectionID < summaries[j].ElectionID
	})
	return summaries, nil
}

func summaryView(election entities.Election) SummaryView {
	return SummaryView{
		ElectionID:  election.ElectionID,
		Name:        election.Name,
		Candidates:  election.Candidates,
		Status:      election.Status,
		Winner:      election.Winner,
		BallotCount: len(election.Ballots),
		Rounds:      election.Rounds,
	}
}
