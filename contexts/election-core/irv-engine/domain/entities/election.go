package entities

import (
	"sort"
	"time"

	domainerrors "rankvote/contexts/election-core/irv-engine/domain/errors"
)

type ElectionStatus string

const (
	ElectionStatusOpen        ElectionStatus = "open"
	ElectionStatusDecided     ElectionStatus = "decided"
	ElectionStatusUndecidable ElectionStatus = "undecidable"
)

// Ballot is one voter's complete ranking over the election's candidates,
// most preferred first. Rankings are immutable once accepted.
type Ballot struct {
	BallotID string
	Ranking  []string
}

// RoundResult records one counting round of an instant runoff.
type RoundResult struct {
	Round      int            `json:"round"`
	Counts     map[string]int `json:"counts"`
	TotalVotes int            `json:"total_votes"`
	Eliminated string         `json:"eliminated,omitempty"`
}

// Election is the instant-runoff state machine. It owns the candidate
// registry, the accepted ballots, and the elimination set; all counting and
// round logic lives here. Elections are single-owner state: callers must not
// share one instance across goroutines.
type Election struct {
	ElectionID string
	Name       string
	Candidates []string
	Ballots    []Ballot
	Eliminated map[string]bool
	Status     ElectionStatus
	Winner     string
	Rounds     []RoundResult
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewElection registers the candidate set for a fresh election. The set is
// fixed for the election's lifetime: at least two candidates, no duplicates.
func NewElection(electionID string, name string, candidates []string, now time.Time) (*Election, error) {
	if len(candidates) < 2 {
		return nil, domainerrors.ErrInvalidConfiguration
	}
	seen := make(map[string]bool, len(candidates))
	registered := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate == "" || seen[candidate] {
			return nil, domainerrors.ErrInvalidConfiguration
		}
		seen[candidate] = true
		registered = append(registered, candidate)
	}
	return &Election{
		ElectionID: electionID,
		Name:       name,
		Candidates: registered,
		Ballots:    make([]Ballot, 0),
		Eliminated: make(map[string]bool),
		Status:     ElectionStatusOpen,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// AddBallot validates and stores one full ranking. Validation is ordered and
// atomic: length, then membership, then uniqueness, and a rejected ballot
// leaves the store untouched.
func (e *Election) AddBallot(ballot Ballot) error {
	if len(ballot.Ranking) != len(e.Candidates) {
		return domainerrors.ErrBallotLength
	}
	registered := make(map[string]bool, len(e.Candidates))
	for _, candidate := range e.Candidates {
		registered[candidate] = true
	}
	for _, candidate := range ballot.Ranking {
		if !registered[candidate] {
			return domainerrors.ErrUnknownCandidate
		}
	}
	ranked := make(map[string]bool, len(ballot.Ranking))
	for _, candidate := range ballot.Ranking {
		if ranked[candidate] {
			return domainerrors.ErrDuplicateCandidate
		}
		ranked[candidate] = true
	}
	ranking := make([]string, len(ballot.Ranking))
	copy(ranking, ballot.Ranking)
	e.Ballots = append(e.Ballots, Ballot{
		BallotID: ballot.BallotID,
		Ranking:  ranking,
	})
	return nil
}

// RemainingCandidates returns the non-eliminated candidates in registration
// order.
func (e *Election) RemainingCandidates() []string {
	remaining := make([]string, 0, len(e.Candidates))
	for _, candidate := range e.Candidates {
		if !e.Eliminated[candidate] {
			remaining = append(remaining, candidate)
		}
	}
	return remaining
}

// VoteCounts tallies each ballot's highest-ranked non-eliminated candidate.
// Every remaining candidate appears in the result, zero-count candidates
// included, so the key set always equals RemainingCandidates. Ballots whose
// entire ranking is eliminated are exhausted and count for no one.
func (e *Election) VoteCounts() map[string]int {
	counts := make(map[string]int, len(e.Candidates))
	for _, candidate := range e.RemainingCandidates() {
		counts[candidate] = 0
	}
	for _, ballot := range e.Ballots {
		for _, candidate := range ballot.Ranking {
			if !e.Eliminated[candidate] {
				counts[candidate]++
				break
			}
		}
	}
	return counts
}

// MajorityWinner reports the candidate holding a strict majority of the
// round's counted votes, if any. Exactly half is not a majority, and a round
// with zero counted votes has no winner.
func (e *Election) MajorityWinner(counts map[string]int) (string, bool) {
	total := 0
	for _, votes := range counts {
		total += votes
	}
	if total == 0 {
		return "", false
	}
	for candidate, votes := range counts {
		if votes*2 > total {
			return candidate, true
		}
	}
	return "", false
}

// LastPlace returns every candidate holding the round's minimum count,
// sorted by name.
func (e *Election) LastPlace(counts map[string]int) []string {
	minimum := -1
	for _, votes := range counts {
		if minimum < 0 || votes < minimum {
			minimum = votes
		}
	}
	last := make([]string, 0, len(counts))
	for candidate, votes := range counts {
		if votes == minimum {
			last = append(last, candidate)
		}
	}
	sort.Strings(last)
	return last
}

// IsTie reports whether every candidate in the subset holds the same count.
func (e *Election) IsTie(counts map[string]int, subset []string) bool {
	for i := 1; i < len(subset); i++ {
		if counts[subset[i]] != counts[subset[0]] {
			return false
		}
	}
	return true
}

// Eliminate removes a remaining candidate from all future counting rounds.
// Elimination is permanent.
func (e *Election) Eliminate(candidate string) error {
	registered := false
	for _, name := range e.Candidates {
		if name == candidate {
			registered = true
			break
		}
	}
	if !registered {
		return domainerrors.ErrUnknownCandidate
	}
	if e.Eliminated[candidate] {
		return domainerrors.ErrAlreadyEliminated
	}
	e.Eliminated[candidate] = true
	return nil
}

// RunElection drives counting rounds until a strict majority emerges or the
// whole remaining field is tied. Each round tallies transfers, checks for a
// majority, and otherwise eliminates the last-place candidate; a last-place
// tie among fewer than all remaining candidates is broken by eliminating the
// lexicographically smallest name. A tie across the entire remaining field
// ends the election as undecidable. The loop runs at most candidate-count
// minus one rounds.
func (e *Election) RunElection(now time.Time) (string, error) {
	if e.Status != ElectionStatusOpen {
		return "", domainerrors.ErrElectionClosed
	}
	e.Rounds = e.Rounds[:0]
	for round := 1; ; round++ {
		counts := e.VoteCounts()
		total := 0
		for _, votes := range counts {
			total += votes
		}
		record := RoundResult{
			Round:      round,
			Counts:     counts,
			TotalVotes: total,
		}

		if winner, ok := e.MajorityWinner(counts); ok {
			e.Rounds = append(e.Rounds, record)
			e.Status = ElectionStatusDecided
			e.Winner = winner
			e.UpdatedAt = now
			return winner, nil
		}

		last := e.LastPlace(counts)
		if len(last) == len(counts) {
			e.Rounds = append(e.Rounds, record)
			e.Status = ElectionStatusUndecidable
			e.UpdatedAt = now
			return "", domainerrors.ErrUndecidableElection
		}

		eliminee := last[0]
		if err := e.Eliminate(eliminee); err != nil {
			return "", err
		}
		record.Eliminated = eliminee
		e.Rounds = append(e.Rounds, record)
	}
}

// Clone deep-copies the election so stored state never aliases caller state.
func (e *Election) Clone() *Election {
	clone := &Election{
		ElectionID: e.ElectionID,
		Name:       e.Name,
		Candidates: append([]string(nil), e.Candidates...),
		Ballots:    make([]Ballot, 0, len(e.Ballots)),
		Eliminated: make(map[string]bool, len(e.Eliminated)),
		Status:     e.Status,
		Winner:     e.Winner,
		Rounds:     make([]RoundResult, 0, len(e.Rounds)),
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
	for _, ballot := range e.Ballots {
		clone.Ballots = append(clone.Ballots, Ballot{
			BallotID: ballot.BallotID,
			Ranking:  append([]string(nil), ballot.Ranking...),
		})
	}
	for candidate, eliminated := range e.Eliminated {
		clone.Eliminated[candidate] = eliminated
	}
	for _, round := range e.Rounds {
		counts := make(map[string]int, len(round.Counts))
		for candidate, votes := range round.Counts {
			counts[candidate] = votes
		}
		clone.Rounds = append(clone.Rounds, RoundResult{
			Round:      round.Round,
			Counts:     counts,
			TotalVotes: round.TotalVotes,
			Eliminated: round.Eliminated,
		})
	}
	return clone
}
