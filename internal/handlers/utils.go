package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
)

type contextKey string

const contextSubjectKey contextKey = "sub"

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

// ErrorResponse is a simple error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

func userIDFromContext(ctx context.Context) (int, error) {
	value := ctx.Value(contextSubjectKey)
	switch subject := value.(type) {
	case int:
		if subject < 1 {
			return 0, errors.New("invalid subject")
		}
		return subject, nil
	case int64:
		if subject < 1 {
			return 0, errors.New("invalid subject")
		}
		return int(subject), nil
	case float64:
		if subject < 1 {
			return 0, errors.New("invalid subject")
		}
		return int(subject), nil
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(subject))
		if err != nil || parsed < 1 {
			return 0, errors.New("invalid subject")
		}
		return parsed, nil
	default:
		return 0, errors.New("missing subject")
	}
}

// Healthz reports process liveness.
func Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

func parsePagination(r *http.Request) (page, limit, offset int, err error) {
	page = defaultPage
	limit = defaultLimit

	if raw := strings.TrimSpace(r.URL.Query().Get("page")); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 1 {
			return 0, 0, 0, errors.New("invalid page")
		}
	}

	rawLimit := strings.TrimSpace(r.URL.Query().Get("limit"))
	if rawLimit == "" {
		rawLimit = strings.TrimSpace(r.URL.Query().Get("per_page"))
	}
	if rawLimit != "" {
		limit, err = strconv.Atoi(rawLimit)
		if err != nil || limit < 1 {
			return 0, 0, 0, errors.New("invalid limit")
		}
	}

	if limit > maxLimit {
		limit = maxLimit
	}

	offset = (page - 1) * limit
	return page, limit, offset, nil
}
