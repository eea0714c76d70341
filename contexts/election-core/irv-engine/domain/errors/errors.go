package errors

import "errors"

var (
	ErrInvalidConfiguration = errors.New("election needs at least two distinct candidates")
	ErrInvalidBallotInput   = errors.New("invalid ballot input")
	ErrBallotLength         = errors.New("ballot must rank every candidate exactly once")
	ErrUnknownCandidate     = errors.New("candidate is not registered in this election")
	ErrDuplicateCandidate   = errors.New("ballot ranks a candidate more than once")
	ErrAlreadyEliminated    = errors.New("candidate is already eliminated")
	ErrUndecidableElection  = errors.New("election is undecidable: all remaining candidates are tied")
	ErrElectionNotFound     = errors.New("election not found")
	ErrElectionClosed       = errors.New("election is already decided")
	ErrConflict             = errors.New("election conflict")
)
