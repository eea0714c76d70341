package commands

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"rankvote/contexts/election-core/irv-engine/domain/entities"
	domainerrors "rankvote/contexts/election-core/irv-engine/domain/errors"
	"rankvote/contexts/election-core/irv-engine/ports"
)

type testRepo struct {
	elections map[string]entities.Election
}

func newTestRepo() *testRepo {
	return &testRepo{elections: make(map[string]entities.Election)}
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

type testArchive struct {
	outcomes []ports.ElectionOutcome
}

func (a *testArchive) ArchiveOutcome(_ context.Context, outcome ports.ElectionOutcome) error {
	a.outcomes = append(a.outcomes, outcome)
	return nil
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type seqIDGen struct {
	next int
}

func (g *seqIDGen) NewID(_ context.Context) (string, error) {
	g.next++
	return fmt.Sprintf("id-%d", g.next), nil
}

func newTestUseCase(repo *testRepo, archive *testArchive) ElectionUseCase {
	uc := ElectionUseCase{
		Elections: repo,
		Clock:     fixedClock{now: time.Date(2026, time.March, 12, 9, 0, 0, 0, time.UTC)},
		IDGen:     &seqIDGen{},
	}
	if archive != nil {
		uc.Archive = archive
	}
	return uc
}

func TestCreateElectionTrimsAndSaves(t *testing.T) {
	repo := newTestRepo()
	uc := newTestUseCase(repo, nil)

	election, err := uc.CreateElection(context.Background(), CreateElectionCommand{
		Name:       "  city council  ",
		Candidates: []string{" Alice ", "Bob", "Charlie"},
	})
	if err != nil {
		t.Fatalf("create election failed: %v", err)
	}
	if election.ElectionID == "" {
		t.Fatalf("expected generated election id")
	}
	if election.Name != "city council" {
		t.Fatalf("expected trimmed name, got %q", election.Name)
	}
	if election.Candidates[0] != "Alice" {
		t.Fatalf("expected trimmed candidate, got %q", election.Candidates[0])
	}
	if _, err := repo.GetElection(context.Background(), election.ElectionID); err != nil {
		t.Fatalf("expected election persisted, got %v", err)
	}
}

func TestCreateElectionRejectsBadConfiguration(t *testing.T) {
	uc := newTestUseCase(newTestRepo(), nil)

	if _, err := uc.CreateElection(context.Background(), CreateElectionCommand{
		Candidates: []string{"Alice"},
	}); !errors.Is(err, domainerrors.ErrInvalidConfiguration) {
		t.Fatalf("expected invalid configuration, got %v", err)
	}
	if _, err := uc.CreateElection(context.Background(), CreateElectionCommand{
		Candidates: []string{"Alice", "Alice"},
	}); !errors.Is(err, domainerrors.ErrInvalidConfiguration) {
		t.Fatalf("expected invalid configuration for duplicates, got %v", err)
	}
}

func TestCastBallotStoresValidRanking(t *testing.T) {
	repo := newTestRepo()
	uc := newTestUseCase(repo, nil)

	election, err := uc.CreateElection(context.Background(), CreateElectionCommand{
		Candidates: []string{"Alice", "Bob"},
	})
	if err != nil {
		t.Fatalf("create election failed: %v", err)
	}

	result, err := uc.CastBallot(context.Background(), CastBallotCommand{
		ElectionID: election.ElectionID,
		Ranking:    []string{"Alice", "Bob"},
	})
	if err != nil {
		t.Fatalf("cast ballot failed: %v", err)
	}
	if result.BallotID == "" || result.BallotCount != 1 {
		t.Fatalf("unexpected cast result: %+v", result)
	}

	if _, err := uc.CastBallot(context.Background(), CastBallotCommand{
		ElectionID: election.ElectionID,
		Ranking:    []string{"Alice", "Alice"},
	}); !errors.Is(err, domainerrors.ErrDuplicateCandidate) {
		t.Fatalf("expected duplicate candidate, got %v", err)
	}

	stored, err := repo.GetElection(context.Background(), election.ElectionID)
	if err != nil {
		t.Fatalf("get election failed: %v", err)
	}
	if len(stored.Ballots) != 1 {
		t.Fatalf("rejected ballot must not change the store, got %d ballots", len(stored.Ballots))
	}
}

func TestCastBallotUnknownElection(t *testing.T) {
	uc := newTestUseCase(newTestRepo(), nil)
	if _, err := uc.CastBallot(context.Background(), CastBallotCommand{
		ElectionID: "missing",
		Ranking:    []string{"Alice", "Bob"},
	}); !errors.Is(err, domainerrors.ErrElectionNotFound) {
		t.Fatalf("expected election not found, got %v", err)
	}
}

func TestDecideElectionArchivesOutcomeAndReplays(t *testing.T) {
	repo := newTestRepo()
	archive := &testArchive{}
	uc := newTestUseCase(repo, archive)

	election, err := uc.CreateElection(context.Background(), CreateElectionCommand{
		Candidates: []string{"Alice", "Bob", "Charlie"},
	})
	if err != nil {
		t.Fatalf("create election failed: %v", err)
	}
	for _, ranking := range [][]string{
		{"Alice", "Bob", "Charlie"},
		{"Alice", "Charlie", "Bob"},
		{"Bob", "Alice", "Charlie"},
		{"Bob", "Charlie", "Alice"},
		{"Charlie", "Alice", "Bob"},
	} {
		if _, err := uc.CastBallot(context.Background(), CastBallotCommand{
			ElectionID: election.ElectionID,
			Ranking:    ranking,
		}); err != nil {
			t.Fatalf("cast ballot failed: %v", err)
		}
	}

	result, err := uc.DecideElection(context.Background(), DecideElectionCommand{ElectionID: election.ElectionID})
	if err != nil {
		t.Fatalf("decide election failed: %v", err)
	}
	if result.Replayed {
		t.Fatalf("first decide must not be a replay")
	}
	if result.Election.Winner != "Alice" {
		t.Fatalf("expected Alice to win after transfer, got %q", result.Election.Winner)
	}
	if len(archive.outcomes) != 1 || archive.outcomes[0].Winner != "Alice" {
		t.Fatalf("expected one archived outcome for Alice, got %+v", archive.outcomes)
	}

	replay, err := uc.DecideElection(context.Background(), DecideElectionCommand{ElectionID: election.ElectionID})
	if err != nil {
		t.Fatalf("decide replay failed: %v", err)
	}
	if !replay.Replayed || replay.Election.Winner != "Alice" {
		t.Fatalf("expected replayed outcome, got %+v", replay)
	}
	if len(archive.outcomes) != 1 {
		t.Fatalf("replay must not archive again, got %d outcomes", len(archive.outcomes))
	}

	if _, err := uc.CastBallot(context.Background(), CastBallotCommand{
		ElectionID: election.ElectionID,
		Ranking:    []string{"Alice", "Bob", "Charlie"},
	}); !errors.Is(err, domainerrors.ErrElectionClosed) {
		t.Fatalf("expected election closed after decide, got %v", err)
	}
}

func TestDecideElectionUndecidable(t *testing.T) {
	repo := newTestRepo()
	archive := &testArchive{}
	uc := newTestUseCase(repo, archive)

	election, err := uc.CreateElection(context.Background(), CreateElectionCommand{
		Candidates: []string{"X", "Y"},
	})
	if err != nil {
		t.Fatalf("create election failed: %v", err)
	}
	for _, ranking := range [][]string{{"X", "Y"}, {"Y", "X"}} {
		if _, err := uc.CastBallot(context.Background(), CastBallotCommand{
			ElectionID: election.ElectionID,
			Ranking:    ranking,
		}); err != nil {
			t.Fatalf("cast ballot failed: %v", err)
		}
	}

	result, err := uc.DecideElection(context.Background(), DecideElectionCommand{ElectionID: election.ElectionID})
	if !errors.Is(err, domainerrors.ErrUndecidableElection) {
		t.Fatalf("expected undecidable election, got %v", err)
	}
	if result.Election.Status != entities.ElectionStatusUndecidable {
		t.Fatalf("expected undecidable status, got %s", result.Election.Status)
	}
	if len(archive.outcomes) != 1 || archive.outcomes[0].Status != string(entities.ElectionStatusUndecidable) {
		t.Fatalf("expected archived undecidable outcome, got %+v", archive.outcomes)
	}

	replay, err := uc.DecideElection(context.Background(), DecideElectionCommand{ElectionID: election.ElectionID})
	if !errors.Is(err, domainerrors.ErrUndecidableElection) {
		t.Fatalf("expected undecidable on replay, got %v", err)
	}
	if !replay.Replayed {
		t.Fatalf("expected undecidable replay marker")
	}
}
