package client

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/votesecure/platform/types"
)

// Session is the authenticated identity held by the session store. The user
// is present exactly when the token is.
type Session struct {
	User  types.User
	Token string
}

// Authenticated reports whether someone is logged in.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// TokenStore persists the bearer token across process restarts. Load returns
// an empty string when no token is stored.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// FileTokenStore keeps the token in a file with owner-only permissions.
type FileTokenStore struct {
	Path string
}

func (f *FileTokenStore) Load() (string, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (f *FileTokenStore) Save(token string) error {
	return os.WriteFile(f.Path, []byte(token), 0o600)
}

func (f *FileTokenStore) Clear() error {
	err := os.Remove(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// MemoryTokenStore holds the token in memory only. Used in tests and
// wherever persistence across restarts is not wanted.
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
}

func (m *MemoryTokenStore) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *MemoryTokenStore) Save(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *MemoryTokenStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}

// UserUpdate carries the fields mergeable into the current session user
// after a successful profile save. Nil fields are left untouched.
type UserUpdate struct {
	Name    *string
	Phone   *string
	Address *string
}

// SessionStore is the single authority for "is someone logged in, and as
// whom". It is an explicit injected dependency of every view, created empty
// at startup and cleared on logout; there is no ambient singleton.
type SessionStore struct {
	mu       sync.RWMutex
	gateway  Gateway
	tokens   TokenStore
	session  Session
	watchers []func(Session)
}

// NewSessionStore constructs an anonymous session store. The token store may
// be nil, in which case nothing is persisted across restarts.
func NewSessionStore(gateway Gateway, tokens TokenStore) *SessionStore {
	if tokens == nil {
		tokens = &MemoryTokenStore{}
	}
	return &SessionStore{gateway: gateway, tokens: tokens}
}

// Login delegates to the backend and, on success, installs the returned user
// and token as the current session. On any failure the session is left
// unchanged and the error is surfaced to the caller.
func (s *SessionStore) Login(ctx context.Context, creds Credentials) (Session, error) {
	user, token, err := s.gateway.Login(ctx, creds)
	if err != nil {
		return Session{}, err
	}

	session := Session{User: user, Token: token}
	s.mu.Lock()
	s.session = session
	// A persistence failure does not fail the login, but it means the next
	// Resume comes up anonymous, so it must not pass silently.
	if err := s.tokens.Save(token); err != nil {
		slog.Warn("persist session token", "error", err)
	}
	watchers := append(([]func(Session))(nil), s.watchers...)
	s.mu.Unlock()

	notify(watchers, session)
	return session, nil
}

// Resume restores a persisted token from a previous run. The user record is
// re-fetched so the user-iff-token invariant holds; a token the backend no
// longer accepts is discarded.
func (s *SessionStore) Resume(ctx context.Context) (Session, error) {
	token, err := s.tokens.Load()
	if err != nil || token == "" {
		return Session{}, err
	}

	user, err := s.gateway.Profile(ctx, token)
	if err != nil {
		var rejected *RejectedError
		if errors.As(err, &rejected) && rejected.Unauthorized() {
			_ = s.tokens.Clear()
			return Session{}, nil
		}
		return Session{}, err
	}

	session := Session{User: user, Token: token}
	s.mu.Lock()
	s.session = session
	watchers := append(([]func(Session))(nil), s.watchers...)
	s.mu.Unlock()

	notify(watchers, session)
	return session, nil
}

// Logout clears the session and the persisted token. Calling it on an
// already anonymous store is a no-op.
func (s *SessionStore) Logout() {
	s.mu.Lock()
	if !s.session.Authenticated() {
		s.mu.Unlock()
		return
	}
	s.session = Session{}
	_ = s.tokens.Clear()
	watchers := append(([]func(Session))(nil), s.watchers...)
	s.mu.Unlock()

	notify(watchers, Session{})
}

// UpdateUser merges fields into the current user, used after a successful
// profile save. It is a no-op when unauthenticated.
func (s *SessionStore) UpdateUser(update UserUpdate) {
	s.mu.Lock()
	if !s.session.Authenticated() {
		s.mu.Unlock()
		return
	}
	if update.Name != nil {
		s.session.User.Name = *update.Name
	}
	if update.Phone != nil {
		s.session.User.Phone = *update.Phone
	}
	if update.Address != nil {
		s.session.User.Address = *update.Address
	}
	session := s.session
	watchers := append(([]func(Session))(nil), s.watchers...)
	s.mu.Unlock()

	notify(watchers, session)
}

// CurrentUser returns the logged-in user, if any. Synchronous read.
func (s *SessionStore) CurrentUser() (types.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.User, s.session.Authenticated()
}

// Current returns the full session snapshot.
func (s *SessionStore) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// Token returns the bearer token for outgoing calls, empty when anonymous.
func (s *SessionStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Token
}

// Subscribe registers a watcher invoked on every session change. The
// returned function removes the watcher; views call it on teardown.
func (s *SessionStore) Subscribe(watcher func(Session)) func() {
	s.mu.Lock()
	s.watchers = append(s.watchers, watcher)
	index := len(s.watchers) - 1
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if index < len(s.watchers) {
			s.watchers[index] = nil
		}
	}
}

func notify(watchers []func(Session), session Session) {
	for _, watcher := range watchers {
		if watcher != nil {
			watcher(session)
		}
	}
}
