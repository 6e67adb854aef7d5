package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/votesecure/platform/internal/services"
	"github.com/votesecure/platform/internal/store"
	"github.com/votesecure/platform/types"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenTTL = 24 * time.Hour

// AuthHandler provides signup and JWT login endpoints.
type AuthHandler struct {
	userService *services.UserService
	events      services.Publisher
	secret      []byte
	tokenTTL    time.Duration
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(userService *services.UserService, events services.Publisher, jwtSecret string, tokenTTL time.Duration) *AuthHandler {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &AuthHandler{
		userService: userService,
		events:      events,
		secret:      []byte(jwtSecret),
		tokenTTL:    tokenTTL,
	}
}

// AuthRouter registers signup and login routes on the given router.
func AuthRouter(r chi.Router, handler *AuthHandler) {
	r.Post("/signup", handler.Signup)
	r.Post("/login", handler.Login)
}

// RequireAuth enforces JWT authentication and injects the subject into context.
func (h *AuthHandler) RequireAuth(next http.Handler) http.Handler {
	return requireAuth(h.secret)(next)
}

// RequireAuth constructs auth middleware for other routers.
func RequireAuth(jwtSecret string) func(http.Handler) http.Handler {
	return requireAuth([]byte(jwtSecret))
}

func requireAuth(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := bearerToken(r)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			subject, err := parseTokenSubject(tokenString, secret)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			ctx := context.WithValue(r.Context(), contextSubjectKey, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Signup creates a voter account in the pending state. No token is issued;
// the account must be approved by an administrator before it can log in.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	if _, err := h.userService.GetByUsername(r.Context(), req.Username); err == nil {
		writeError(w, http.StatusConflict, "username already exists")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, "failed to check user")
		return
	}
	if _, err := h.userService.GetByEmail(r.Context(), req.Email); err == nil {
		writeError(w, http.StatusConflict, "email already registered")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, "failed to check user")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	user, err := h.userService.Create(r.Context(), types.User{
		Username:     req.Username,
		Email:        req.Email,
		Name:         req.Username,
		Phone:        strings.TrimSpace(req.Phone),
		Address:      strings.TrimSpace(req.Address),
		Role:         types.RoleUser,
		Status:       types.StatusPending,
		PasswordHash: string(hashed),
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			writeError(w, http.StatusConflict, "username or email already registered")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	h.publishRegistered(r.Context(), user)

	writeJSON(w, http.StatusCreated, SignupResponse{
		User:    user,
		Message: "Registration successful. Your account is pending approval.",
	})
}

// Login verifies credentials and returns a JWT for approved accounts.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing credentials")
		return
	}

	user, err := h.userService.GetByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to authenticate")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if user.Status != types.StatusApproved {
		writeError(w, http.StatusForbidden, "account pending approval")
		return
	}

	token, err := issueToken(user.ID, h.secret, h.tokenTTL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create token")
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{Token: token, User: user})
}

func (h *AuthHandler) publishRegistered(ctx context.Context, user types.User) {
	if h.events == nil {
		return
	}
	payload, err := json.Marshal(map[string]any{
		"user_id":  user.ID,
		"voter_id": user.VoterID,
		"email":    user.Email,
	})
	if err != nil {
		return
	}
	if _, err := h.events.Publish(ctx, services.ChannelVoterRegistered, payload, nil); err != nil {
		slog.Warn("failed to publish registration event", "error", err, "user_id", user.ID)
	}
}

type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Password string `json:"password"`
}

type SignupResponse struct {
	User    types.User `json:"user"`
	Message string     `json:"message"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string     `json:"token"`
	User  types.User `json:"user"`
}

func issueToken(userID int, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.Itoa(userID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func parseTokenSubject(tokenString string, secret []byte) (string, error) {
	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return secret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", errors.New("invalid token")
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", errors.New("missing subject")
	}
	return claims.Subject, nil
}

func bearerToken(r *http.Request) (string, error) {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if auth == "" {
		return "", errors.New("missing authorization")
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization")
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errors.New("invalid authorization")
	}
	return token, nil
}
