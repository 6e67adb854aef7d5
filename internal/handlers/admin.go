package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/votesecure/platform/internal/services"
	"github.com/votesecure/platform/internal/store"
	"github.com/votesecure/platform/types"
)

// AdminHandler serves the administration surface: platform statistics, voter
// approval, and election management.
type AdminHandler struct {
	statsService    *services.StatsService
	userService     *services.UserService
	electionService *services.ElectionService
}

func NewAdminHandler(statsService *services.StatsService, userService *services.UserService, electionService *services.ElectionService) *AdminHandler {
	return &AdminHandler{
		statsService:    statsService,
		userService:     userService,
		electionService: electionService,
	}
}

// AdminRouter registers the /admin routes. All routes require auth plus the
// admin role.
func AdminRouter(r chi.Router, handler *AdminHandler, authMiddleware func(http.Handler) http.Handler) {
	r.Use(authMiddleware, handler.RequireAdmin)
	r.Get("/stats", handler.GetStats)
	r.Get("/voters", handler.ListVoters)
	r.Put("/voters/{userID}/approve", handler.ApproveVoter)
	r.Post("/elections", handler.CreateElection)
	r.Put("/elections/{electionID}", handler.UpdateElection)
	r.Delete("/elections/{electionID}", handler.DeleteElection)
}

// RequireAdmin re-checks the caller's role on every request. The role on any
// previously issued view of the user is not trusted.
func (h *AdminHandler) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromContext(r.Context())
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		user, err := h.userService.GetByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to load user")
			return
		}

		if !strings.EqualFold(user.Role, types.RoleAdmin) {
			writeError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsService.Platform(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// ListVoters returns voter accounts filtered by status, defaulting to the
// pending-approval queue.
func (h *AdminHandler) ListVoters(w http.ResponseWriter, r *http.Request) {
	page, limit, offset, err := parsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	status := strings.TrimSpace(r.URL.Query().Get("status"))
	if status == "" {
		status = types.StatusPending
	}
	if status != types.StatusPending && status != types.StatusApproved {
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}

	voters, total, err := h.userService.ListByStatus(r.Context(), status, offset, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list voters")
		return
	}

	writeJSON(w, http.StatusOK, VoterListResponse{
		Items: voters,
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

func (h *AdminHandler) ApproveVoter(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "userID")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := h.userService.Approve(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "voter not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to approve voter")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *AdminHandler) CreateElection(w http.ResponseWriter, r *http.Request) {
	election, err := parseElectionUpsert(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.electionService.Create(r.Context(), election)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *AdminHandler) UpdateElection(w http.ResponseWriter, r *http.Request) {
	id, err := parseElectionID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	election, err := parseElectionUpsert(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	election.ID = id

	updated, err := h.electionService.Update(r.Context(), election)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "election not found")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *AdminHandler) DeleteElection(w http.ResponseWriter, r *http.Request) {
	id, err := parseElectionID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.electionService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "election not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete election")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ElectionUpsertRequest is the JSON payload for creating or updating an
// election together with its ballot.
type ElectionUpsertRequest struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	StartDate   time.Time          `json:"startDate"`
	EndDate     time.Time          `json:"endDate"`
	Candidates  []CandidateRequest `json:"candidates"`
}

type CandidateRequest struct {
	Name        string `json:"name"`
	Party       string `json:"party"`
	Description string `json:"description"`
	Experience  string `json:"experience"`
}

// VoterListResponse is the paginated voter list payload.
type VoterListResponse struct {
	Items []types.User `json:"items"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
	Total int          `json:"total"`
}

func parseElectionUpsert(r *http.Request) (types.Election, error) {
	var req ElectionUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return types.Election{}, errors.New("invalid request")
	}

	election := types.Election{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}
	for _, candidate := range req.Candidates {
		name := strings.TrimSpace(candidate.Name)
		if name == "" {
			return types.Election{}, errors.New("candidate name is required")
		}
		election.Candidates = append(election.Candidates, types.Candidate{
			Name:        name,
			Party:       strings.TrimSpace(candidate.Party),
			Description: strings.TrimSpace(candidate.Description),
			Experience:  strings.TrimSpace(candidate.Experience),
		})
	}
	return election, nil
}
