package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/votesecure/platform/internal/services"
	"github.com/votesecure/platform/internal/store"
	"github.com/votesecure/platform/types"
)

// ElectionHandler serves election reads and ballot submission for voters.
type ElectionHandler struct {
	electionService *services.ElectionService
	voteService     *services.VoteService
	userService     *services.UserService
}

func NewElectionHandler(electionService *services.ElectionService, voteService *services.VoteService, userService *services.UserService) *ElectionHandler {
	return &ElectionHandler{
		electionService: electionService,
		voteService:     voteService,
		userService:     userService,
	}
}

// ElectionRouter registers the /elections routes. All routes require auth.
func ElectionRouter(r chi.Router, handler *ElectionHandler, authMiddleware func(http.Handler) http.Handler) {
	r.Use(authMiddleware)
	r.Get("/", handler.ListElections)
	r.Route("/{electionID}", func(r chi.Router) {
		r.Get("/", handler.GetElection)
		r.Post("/vote", handler.CastVote)
	})
}

func (h *ElectionHandler) ListElections(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	page, limit, offset, err := parsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, total, err := h.electionService.List(r.Context(), userID, offset, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list elections")
		return
	}

	writeJSON(w, http.StatusOK, ElectionListResponse{
		Items: items,
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

func (h *ElectionHandler) GetElection(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := parseElectionID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	election, err := h.electionService.Get(r.Context(), id, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "election not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch election")
		return
	}

	writeJSON(w, http.StatusOK, election)
}

// CastVote records a single-choice ballot. Eligibility, the voting window,
// candidate membership and the one-vote rule are all enforced in the vote
// service; the UI's own gating is advisory only.
func (h *ElectionHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	voter, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load user")
		return
	}

	electionID, err := parseElectionID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.CandidateID < 1 {
		writeError(w, http.StatusBadRequest, "candidateId is required")
		return
	}

	vote, err := h.voteService.Cast(r.Context(), voter, electionID, req.CandidateID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "election or candidate not found")
		case errors.Is(err, services.ErrElectionNotActive):
			writeError(w, http.StatusConflict, services.ErrElectionNotActive.Error())
		case errors.Is(err, services.ErrAlreadyVoted):
			writeError(w, http.StatusConflict, services.ErrAlreadyVoted.Error())
		case errors.Is(err, services.ErrVoterNotEligible):
			writeError(w, http.StatusForbidden, services.ErrVoterNotEligible.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to cast vote")
		}
		return
	}

	writeJSON(w, http.StatusCreated, CastVoteResponse{
		ElectionID: vote.ElectionID,
		Message:    "Your vote has been recorded.",
	})
}

type CastVoteRequest struct {
	CandidateID int `json:"candidateId"`
}

type CastVoteResponse struct {
	ElectionID int    `json:"election_id"`
	Message    string `json:"message"`
}

// ElectionListResponse is the paginated list response payload.
type ElectionListResponse struct {
	Items []types.Election `json:"items"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
	Total int              `json:"total"`
}

func parseElectionID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "electionID")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, errors.New("invalid election id")
	}
	return id, nil
}
