// Package client is the Go client for the VoteSecure platform API. It holds
// the session store, the role-gated view guard, and the ballot, profile and
// signup flows; all backend access goes through the Gateway interface so
// tests and offline development can swap in a mock.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/votesecure/platform/types"
)

// Credentials are the login form values.
type Credentials struct {
	Username string
	Password string
}

// SignupData is the payload sent to the signup endpoint after client-side
// validation has passed.
type SignupData struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Password string `json:"password"`
}

// ProfileUpdate carries the mutable contact fields of a profile save.
type ProfileUpdate struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Gateway is the data-fetching boundary between the client flows and the
// backend. Implementations must return *ValidationError never (validation is
// the caller's job), *NetworkError on transport failure, and *RejectedError
// on a non-2xx response.
type Gateway interface {
	Login(ctx context.Context, creds Credentials) (types.User, string, error)
	Signup(ctx context.Context, data SignupData) (types.User, error)
	Profile(ctx context.Context, token string) (types.User, error)
	UpdateProfile(ctx context.Context, token string, update ProfileUpdate) (types.User, error)
	Elections(ctx context.Context, token string) ([]types.Election, error)
	Election(ctx context.Context, token string, id int) (types.Election, error)
	CastVote(ctx context.Context, token string, electionID, candidateID int) error
}

const defaultHTTPTimeout = 15 * time.Second

// HTTPGateway talks to a running platform server over REST, carrying the
// bearer token on every authenticated call.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
}

// NewHTTPGateway constructs a gateway for the given base URL
// (e.g. "http://localhost:8080").
func NewHTTPGateway(baseURL string) *HTTPGateway {
	return &HTTPGateway{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultHTTPTimeout},
	}
}

func (g *HTTPGateway) Login(ctx context.Context, creds Credentials) (types.User, string, error) {
	var resp struct {
		Token string     `json:"token"`
		User  types.User `json:"user"`
	}
	body := map[string]string{"username": creds.Username, "password": creds.Password}
	if err := g.do(ctx, http.MethodPost, "/api/login", "", body, &resp); err != nil {
		return types.User{}, "", err
	}
	return resp.User, resp.Token, nil
}

func (g *HTTPGateway) Signup(ctx context.Context, data SignupData) (types.User, error) {
	var resp struct {
		User types.User `json:"user"`
	}
	if err := g.do(ctx, http.MethodPost, "/api/signup", "", data, &resp); err != nil {
		return types.User{}, err
	}
	return resp.User, nil
}

func (g *HTTPGateway) Profile(ctx context.Context, token string) (types.User, error) {
	var user types.User
	if err := g.do(ctx, http.MethodGet, "/api/user/profile", token, nil, &user); err != nil {
		return types.User{}, err
	}
	return user, nil
}

func (g *HTTPGateway) UpdateProfile(ctx context.Context, token string, update ProfileUpdate) (types.User, error) {
	var user types.User
	if err := g.do(ctx, http.MethodPut, "/api/user/profile", token, update, &user); err != nil {
		return types.User{}, err
	}
	return user, nil
}

func (g *HTTPGateway) Elections(ctx context.Context, token string) ([]types.Election, error) {
	var resp struct {
		Items []types.Election `json:"items"`
	}
	if err := g.do(ctx, http.MethodGet, "/api/elections", token, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (g *HTTPGateway) Election(ctx context.Context, token string, id int) (types.Election, error) {
	var election types.Election
	path := fmt.Sprintf("/api/elections/%d", id)
	if err := g.do(ctx, http.MethodGet, path, token, nil, &election); err != nil {
		return types.Election{}, err
	}
	return election, nil
}

func (g *HTTPGateway) CastVote(ctx context.Context, token string, electionID, candidateID int) error {
	path := fmt.Sprintf("/api/elections/%d/vote", electionID)
	body := map[string]int{"candidateId": candidateID}
	return g.do(ctx, http.MethodPost, path, token, body, nil)
}

func (g *HTTPGateway) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &NetworkError{Err: err}
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return &NetworkError{Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		return &RejectedError{StatusCode: resp.StatusCode, Message: payload.Error}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &NetworkError{Err: err}
		}
	}
	return nil
}
