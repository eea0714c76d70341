package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"rankvote/contexts/election-core/irv-engine/domain/entities"
	domainerrors "rankvote/contexts/election-core/irv-engine/domain/errors"
	"rankvote/contexts/election-core/irv-engine/ports"

	"github.com/google/uuid"
)

// Store is the in-process election repository. Elections live only for the
// lifetime of the process; the store also provides the clock, ID generation,
// and an in-memory outcome archive so a module can be wired with no external
// infrastructure.
type Store struct {
	mu sync.RWMutex

	elections map[string]entities.Election
	outcomes  map[string]ports.ElectionOutcome
}

func NewStore(seed []entities.Election) *Store {
	elections := make(map[string]entities.Election, len(seed))
	for _, election := range seed {
		elections[election.ElectionID] = *election.Clone()
	}
	return &Store{
		elections: elections,
		outcomes:  make(map[string]ports.ElectionOutcome),
	}
}

func (s *Store) SaveElection(_ context.Context, election entities.Election) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elections[strings.TrimSpace(election.ElectionID)] = *election.Clone()
	return nil
}

func (s *Store) GetElection(_ context.Context, electionID string) (entities.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	election, ok := s.elections[strings.TrimSpace(electionID)]
	if !ok {
		return entities.Election{}, domainerrors.ErrElectionNotFound
	}
	return *election.Clone(), nil
}

func (s *Store) ListElections(_ context.Context) ([]entities.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Election, 0, len(s.elections))
	for _, election := range s.elections {
		items = append(items, *election.Clone())
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ElectionID < items[j].ElectionID
	})
	return items, nil
}

func (s *Store) ArchiveOutcome(_ context.Context, outcome ports.ElectionOutcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.outcomes[outcome.ElectionID]; ok {
		return domainerrors.ErrConflict
	}
	s.outcomes[outcome.ElectionID] = outcome
	return nil
}

// GetOutcome exposes archived outcomes to tests and diagnostics.
func (s *Store) GetOutcome(electionID string) (ports.ElectionOutcome, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	outcome, ok := s.outcomes[strings.TrimSpace(electionID)]
	return outcome, ok
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
