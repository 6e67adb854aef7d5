package handlers

import (
	"net/http"
	"testing"

	"github.com/votesecure/platform/internal/services"
	"github.com/votesecure/platform/types"
)

func TestSignupCreatesPendingAccount(t *testing.T) {
	env := newTestEnv(t)

	recorder := env.do(t, http.MethodPost, "/api/signup", "", SignupRequest{
		Username: "jane_voter",
		Email:    "jane@example.com",
		Phone:    "555-0101",
		Password: "secret123",
	})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", recorder.Code, recorder.Body.String())
	}

	resp := decodeBody[SignupResponse](t, recorder)
	if resp.User.Status != types.StatusPending {
		t.Fatalf("status = %q, want pending", resp.User.Status)
	}
	if resp.User.Role != types.RoleUser {
		t.Fatalf("role = %q, want user", resp.User.Role)
	}
	if resp.User.VoterID != "V00001" {
		t.Fatalf("voterId = %q, want V00001", resp.User.VoterID)
	}
	if resp.Message == "" {
		t.Fatalf("expected a pending-approval message")
	}

	if env.events.published(services.ChannelVoterRegistered) != 1 {
		t.Fatalf("expected one voter.registered event")
	}
}

func TestSignupDoesNotIssueToken(t *testing.T) {
	env := newTestEnv(t)

	recorder := env.do(t, http.MethodPost, "/api/signup", "", SignupRequest{
		Username: "jane_voter",
		Email:    "jane@example.com",
		Password: "secret123",
	})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("status = %d", recorder.Code)
	}

	raw := decodeBody[map[string]any](t, recorder)
	if _, ok := raw["token"]; ok {
		t.Fatalf("signup must not issue a token")
	}
}

func TestSignupRejectsDuplicates(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "taken", types.RoleUser, types.StatusPending)

	recorder := env.do(t, http.MethodPost, "/api/signup", "", SignupRequest{
		Username: "taken",
		Email:    "other@example.com",
		Password: "secret123",
	})
	if recorder.Code != http.StatusConflict {
		t.Fatalf("duplicate username status = %d", recorder.Code)
	}
	if resp := decodeBody[ErrorResponse](t, recorder); resp.Error != "username already exists" {
		t.Fatalf("error = %q", resp.Error)
	}

	recorder = env.do(t, http.MethodPost, "/api/signup", "", SignupRequest{
		Username: "someone_else",
		Email:    "taken@example.com",
		Password: "secret123",
	})
	if recorder.Code != http.StatusConflict {
		t.Fatalf("duplicate email status = %d", recorder.Code)
	}
	if resp := decodeBody[ErrorResponse](t, recorder); resp.Error != "email already registered" {
		t.Fatalf("error = %q", resp.Error)
	}
}

func TestSignupRequiresFields(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		req  SignupRequest
	}{
		{"missing username", SignupRequest{Email: "a@example.com", Password: "x"}},
		{"missing email", SignupRequest{Username: "a", Password: "x"}},
		{"missing password", SignupRequest{Username: "a", Email: "a@example.com"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			recorder := env.do(t, http.MethodPost, "/api/signup", "", tc.req)
			if recorder.Code != http.StatusBadRequest {
				t.Fatalf("status = %d", recorder.Code)
			}
		})
	}
}

func TestLoginApprovedAccount(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "john_voter", types.RoleUser, types.StatusApproved)

	recorder := env.do(t, http.MethodPost, "/api/login", "", LoginRequest{
		Username: "john_voter",
		Password: "password123",
	})
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", recorder.Code, recorder.Body.String())
	}

	resp := decodeBody[AuthResponse](t, recorder)
	if resp.Token == "" {
		t.Fatalf("expected a token")
	}
	if resp.User.ID != user.ID {
		t.Fatalf("user id = %d, want %d", resp.User.ID, user.ID)
	}

	subject, err := parseTokenSubject(resp.Token, []byte(testSecret))
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if subject != "1" {
		t.Fatalf("token subject = %q", subject)
	}
}

func TestLoginPendingAccount(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "pending_voter", types.RoleUser, types.StatusPending)

	recorder := env.do(t, http.MethodPost, "/api/login", "", LoginRequest{
		Username: "pending_voter",
		Password: "password123",
	})
	if recorder.Code != http.StatusForbidden {
		t.Fatalf("status = %d", recorder.Code)
	}
	if resp := decodeBody[ErrorResponse](t, recorder); resp.Error != "account pending approval" {
		t.Fatalf("error = %q", resp.Error)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "john_voter", types.RoleUser, types.StatusApproved)

	tests := []struct {
		name string
		req  LoginRequest
	}{
		{"wrong password", LoginRequest{Username: "john_voter", Password: "wrong"}},
		{"unknown user", LoginRequest{Username: "nobody", Password: "password123"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			recorder := env.do(t, http.MethodPost, "/api/login", "", tc.req)
			if recorder.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d", recorder.Code)
			}
		})
	}
}

func TestRequireAuthRejectsBadTokens(t *testing.T) {
	env := newTestEnv(t)

	recorder := env.do(t, http.MethodGet, "/api/user/profile", "", nil)
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("missing token status = %d", recorder.Code)
	}

	recorder = env.do(t, http.MethodGet, "/api/user/profile", "not-a-jwt", nil)
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token status = %d", recorder.Code)
	}
}
