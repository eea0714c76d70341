package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateElectionRequest struct {
	Name       string   `json:"name"`
	Candidates []string `json:"candidates"`
}

type RoundResult struct {
	Round      int            `json:"round"`
	Counts     map[string]int `json:"counts"`
	TotalVotes int            `json:"total_votes"`
	Eliminated string         `json:"eliminated,omitempty"`
}

type ElectionResponse struct {
	ElectionID  string        `json:"election_id"`
	Name        string        `json:"name"`
	Candidates  []string      `json:"candidates"`
	Status      string        `json:"status"`
	Winner      string        `json:"winner,omitempty"`
	BallotCount int           `json:"ballot_count"`
	Rounds      []RoundResult `json:"rounds,omitempty"`
}

type CastBallotRequest struct {
	Ranking []string `json:"ranking"`
}

type CastBallotResponse struct {
	BallotID    string `json:"ballot_id"`
	ElectionID  string `json:"election_id"`
	BallotCount int    `json:"ballot_count"`
}

type StandingItem struct {
	Candidate string `json:"candidate"`
	Votes     int    `json:"votes"`
}

type StandingsResponse struct {
	ElectionID       string         `json:"election_id"`
	Status           string         `json:"status"`
	Standings        []StandingItem `json:"standings"`
	Remaining        []string       `json:"remaining"`
	TotalBallots     int            `json:"total_ballots"`
	CountedVotes     int            `json:"counted_votes"`
	ExhaustedBallots int            `json:"exhausted_ballots"`
}

type DecideElectionResponse struct {
	ElectionID string        `json:"election_id"`
	Status     string        `json:"status"`
	Winner     string        `json:"winner,omitempty"`
	Rounds     []RoundResult `json:"rounds"`
	Replayed   bool          `json:"replayed"`
}

type ElectionListResponse struct {
	Items []ElectionResponse `json:"items"`
}
