package queries

import (
	"context"
	"errors"
	"testing"
	"time"

	"rankvote/contexts/election-core/irv-engine/domain/entities"
	domainerrors "rankvote/contexts/election-core/irv-engine/domain/errors"
)

type testRepo struct {
	elections map[string]entities.Election
}

func (r *testRepo) SaveElection(_ context.Context, election entities.Election) error {
	r.elections[election.ElectionID] = *election.Clone()
	return nil
}

func (r *testRepo) GetElection(_ context.Context, electionID string) (entities.Election, error) {
	election, ok := r.elections[electionID]
	if !ok {
		return entities.Election{}, domainerrors.ErrElectionNotFound
	}
	return *election.Clone(), nil
}

func (r *testRepo) ListElections(_ context.Context) ([]entities.Election, error) {
	items := make([]entities.Election, 0, len(r.elections))
	for _, election := range r.elections {
		items = append(items, *election.Clone())
	}
	return items, nil
}

func seedElection(t *testing.T) (*testRepo, *entities.Election) {
	t.Helper()
	now := time.Date(2026, time.March, 12, 9, 0, 0, 0, time.UTC)
	election, err := entities.NewElection("election-1", "seed", []string{"Alice", "Bob", "Charlie"}, now)
	if err != nil {
		t.Fatalf("new election failed: %v", err)
	}
	for _, ranking := range [][]string{
		{"Alice", "Bob", "Charlie"},
		{"Alice", "Charlie", "Bob"},
		{"Bob", "Alice", "Charlie"},
	} {
		if err := election.AddBallot(entities.Ballot{Ranking: ranking}); err != nil {
			t.Fatalf("add ballot failed: %v", err)
		}
	}
	repo := &testRepo{elections: make(map[string]entities.Election)}
	if err := repo.SaveElection(context.Background(), *election); err != nil {
		t.Fatalf("save election failed: %v", err)
	}
	return repo, election
}

func TestStandingsSortedWithNameTieBreak(t *testing.T) {
	repo, _ := seedElection(t)
	uc := StandingsUseCase{Elections: repo}

	view, err := uc.Standings(context.Background(), "election-1")
	if err != nil {
		t.Fatalf("standings failed: %v", err)
	}
	if len(view.Standings) != 3 {
		t.Fatalf("expected all remaining candidates listed, got %d", len(view.Standings))
	}
	if view.Standings[0].Candidate != "Alice" || view.Standings[0].Votes != 2 {
		t.Fatalf("expected Alice leading with 2, got %+v", view.Standings[0])
	}
	if view.Standings[1].Candidate != "Bob" || view.Standings[2].Candidate != "Charlie" {
		t.Fatalf("expected name tie-break ordering, got %+v", view.Standings)
	}
	if view.TotalBallots != 3 || view.CountedVotes != 3 || view.ExhaustedBallots != 0 {
		t.Fatalf("unexpected ballot accounting: %+v", view)
	}
	if len(view.Remaining) != len(view.Standings) {
		t.Fatalf("standings rows must cover the remaining set")
	}
}

func TestStandingsCountsExhaustedBallots(t *testing.T) {
	repo, election := seedElection(t)
	if err := election.Eliminate("Bob"); err != nil {
		t.Fatalf("eliminate Bob failed: %v", err)
	}
	if err := election.Eliminate("Alice"); err != nil {
		t.Fatalf("eliminate Alice failed: %v", err)
	}
	if err := repo.SaveElection(context.Background(), *election); err != nil {
		t.Fatalf("save election failed: %v", err)
	}

	uc := StandingsUseCase{Elections: repo}
	view, err := uc.Standings(context.Background(), "election-1")
	if err != nil {
		t.Fatalf("standings failed: %v", err)
	}
	if view.CountedVotes != 3 || view.ExhaustedBallots != 0 {
		t.Fatalf("all ballots still transfer to Charlie, got %+v", view)
	}
	if len(view.Standings) != 1 || view.Standings[0].Candidate != "Charlie" {
		t.Fatalf("expected only Charlie remaining, got %+v", view.Standings)
	}
}

func TestSummaryNotFound(t *testing.T) {
	repo := &testRepo{elections: make(map[string]entities.Election)}
	uc := StandingsUseCase{Elections: repo}
	if _, err := uc.Summary(context.Background(), "missing"); !errors.Is(err, domainerrors.ErrElectionNotFound) {
		t.Fatalf("expected election not found, got %v", err)
	}
}

func TestListSummariesSortedByID(t *testing.T) {
	repo, _ := seedElection(t)
	now := time.Date(2026, time.March, 12, 9, 0, 0, 0, time.UTC)
	other, err := entities.NewElection("election-0", "other", []string{"X", "Y"}, now)
	if err != nil {
		t.Fatalf("new election failed: %v", err)
	}
	if err := repo.SaveElection(context.Background(), *other); err != nil {
		t.Fatalf("save election failed: %v", err)
	}

	uc := StandingsUseCase{Elections: repo}
	summaries, err := uc.ListSummaries(context.Background())
	if err != nil {
		t.Fatalf("list summaries failed: %v", err)
	}
	if len(summaries) != 2 || summaries[0].ElectionID != "election-0" || summaries[1].ElectionID != "election-1" {
		t.Fatalf("expected deterministic ordering, got %+v", summaries)
	}
}
