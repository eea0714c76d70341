package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	irvengine "rankvote/contexts/election-core/irv-engine"
	domainerrors "rankvote/contexts/election-core/irv-engine/domain/errors"
	electionhttp "rankvote/contexts/election-core/irv-engine/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "rankvote/internal/platform/httpserver/docs"
)

type Server struct {
	mux       *http.ServeMux
	logger    *slog.Logger
	addr      string
	elections irvengine.Module
}

func New(elections irvengine.Module, logger *slog.Logger, addr string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:       http.NewServeMux(),
		logger:    logger,
		addr:      addr,
		elections: elections,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the routed mux for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("GET /healthz", s.handleHealthz)

	s.mux.HandleFunc("POST /v1/elections", s.handleCreateElection)
	s.mux.HandleFunc("GET /v1/elections", s.handleListElections)
	s.mux.HandleFunc("GET /v1/elections/{election_id}", s.handleGetElection)
	s.mux.HandleFunc("POST /v1/elections/{election_id}/ballots", s.handleCastBallot)
	s.mux.HandleFunc("GET /v1/elections/{election_id}/standings", s.handleStandings)
	s.mux.HandleFunc("POST /v1/elections/{election_id}/decide", s.handleDecideElection)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateElection(w http.ResponseWriter, r *http.Request) {
	var req electionhttp.CreateElectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	resp, err := s.elections.Handler.CreateElectionHandler(r.Context(), req)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListElections(w http.ResponseWriter, r *http.Request) {
	resp, err := s.elections.Handler.ListElectionsHandler(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetElection(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("election_id")
	resp, err := s.elections.Handler.GetElectionHandler(r.Context(), electionID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCastBallot(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("election_id")
	var req electionhttp.CastBallotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	resp, err := s.elections.Handler.CastBallotHandler(r.Context(), electionID, req)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleStandings(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("election_id")
	resp, err := s.elections.Handler.StandingsHandler(r.Context(), electionID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDecideElection(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("election_id")
	resp, err := s.elections.Handler.DecideElectionHandler(r.Context(), electionID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// writeDomainError maps engine errors onto transport semantics. Validation
// failures are client errors; an undecidable election is a well-formed
// request whose outcome cannot be produced, reported as 422.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domainerrors.ErrElectionNotFound):
		writeError(w, http.StatusNotFound, "election_not_found", err.Error())
	case errors.Is(err, domainerrors.ErrInvalidConfiguration):
		writeError(w, http.StatusBadRequest, "invalid_configuration", err.Error())
	case errors.Is(err, domainerrors.ErrInvalidBallotInput):
		writeError(w, http.StatusBadRequest, "invalid_ballot_input", err.Error())
	case errors.Is(err, domainerrors.ErrBallotLength):
		writeError(w, http.StatusBadRequest, "ballot_length_mismatch", err.Error())
	case errors.Is(err, domainerrors.ErrUnknownCandidate):
		writeError(w, http.StatusBadRequest, "unknown_candidate", err.Error())
	case errors.Is(err, domainerrors.ErrDuplicateCandidate):
		writeError(w, http.StatusBadRequest, "duplicate_candidate", err.Error())
	case errors.Is(err, domainerrors.ErrAlreadyEliminated):
		writeError(w, http.StatusConflict, "already_eliminated", err.Error())
	case errors.Is(err, domainerrors.ErrElectionClosed):
		writeError(w, http.StatusConflict, "election_closed", err.Error())
	case errors.Is(err, domainerrors.ErrConflict):
		writeError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, domainerrors.ErrUndecidableElection):
		writeError(w, http.StatusUnprocessableEntity, "undecidable_election", err.Error())
	default:
		s.logger.Error("unhandled election error",
			"event", "http_unhandled_election_error",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"error", err.Error(),
		)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, electionhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
