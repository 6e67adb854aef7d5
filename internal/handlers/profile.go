package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/votesecure/platform/internal/services"
	"github.com/votesecure/platform/internal/storage"
	"github.com/votesecure/platform/internal/store"
)

const (
	maxAvatarBytes     = 5 << 20
	maxMultipartMemory = 8 << 20
	formFieldAvatar    = "avatar"
)

// ProfileHandler serves the authenticated user's own record: reads, contact
// field updates, and avatar upload/download.
type ProfileHandler struct {
	userService *services.UserService
	storage     *storage.Storage
}

func NewProfileHandler(userService *services.UserService, store *storage.Storage) *ProfileHandler {
	return &ProfileHandler{
		userService: userService,
		storage:     store,
	}
}

// ProfileRouter registers the /user routes. All routes require auth.
func ProfileRouter(r chi.Router, handler *ProfileHandler, authMiddleware func(http.Handler) http.Handler) {
	r.Use(authMiddleware)
	r.Get("/profile", handler.GetProfile)
	r.Put("/profile", handler.UpdateProfile)
	r.Post("/avatar", handler.UploadAvatar)
	r.Get("/avatar", handler.GetAvatar)
}

func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
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

	writeJSON(w, http.StatusOK, user)
}

// UpdateProfile merges the mutable contact fields. Email, voter ID and role
// cannot be changed through this endpoint.
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	if strings.TrimSpace(req.Name) == "" && strings.TrimSpace(req.Phone) == "" && strings.TrimSpace(req.Address) == "" {
		writeError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), userID, req.Name, req.Phone, req.Address)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// UploadAvatar stores the uploaded image in object storage and records its
// key on the user. Returns 503 when no storage backend is configured.
func (h *ProfileHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		writeError(w, http.StatusServiceUnavailable, "avatar storage is not configured")
		return
	}

	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile(formFieldAvatar)
	if err != nil {
		writeError(w, http.StatusBadRequest, "avatar file is required")
		return
	}
	data, err := readFileLimited(file, maxAvatarBytes)
	_ = file.Close()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := storage.AvatarKey(userID)
	contentType := header.Header.Get("Content-Type")
	if err := h.storage.Put(r.Context(), key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store avatar")
		return
	}

	user, err := h.userService.SetAvatarKey(r.Context(), userID, key)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update user")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *ProfileHandler) GetAvatar(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		writeError(w, http.StatusServiceUnavailable, "avatar storage is not configured")
		return
	}

	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil || user.AvatarKey == "" {
		writeError(w, http.StatusNotFound, "no avatar uploaded")
		return
	}

	reader, err := h.storage.Get(r.Context(), user.AvatarKey)
	if err != nil {
		writeError(w, http.StatusNotFound, "no avatar uploaded")
		return
	}
	defer reader.Close()

	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, reader)
}

type UpdateProfileRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func readFileLimited(reader io.Reader, limit int64) ([]byte, error) {
	limited := io.LimitReader(reader, limit+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, errors.New("failed to read upload")
	}
	if int64(len(data)) > limit {
		return nil, errors.New("uploaded file too large")
	}
	return data, nil
}
