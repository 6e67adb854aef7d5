package client

import (
	"context"
	"errors"
	"sync"
)

// ErrNotEditing is returned by Save when edit mode was never entered.
var ErrNotEditing = errors.New("profile is not in edit mode")

// ProfileDraft is the editable copy of the mutable contact fields. Email and
// voter ID are display-only and have no place here.
type ProfileDraft struct {
	Name    string
	Phone   string
	Address string
}

// ProfileEditor manages the edit-mode draft for the profile view. The draft
// is distinct from the committed user record in the session store: Cancel
// discards it, and Save commits it only after the backend accepts it.
type ProfileEditor struct {
	mu       sync.Mutex
	sessions *SessionStore
	gateway  Gateway
	editing  bool
	draft    ProfileDraft
}

func NewProfileEditor(sessions *SessionStore, gateway Gateway) *ProfileEditor {
	return &ProfileEditor{sessions: sessions, gateway: gateway}
}

// Begin enters edit mode with a draft copied from the committed user.
func (e *ProfileEditor) Begin() error {
	user, ok := e.sessions.CurrentUser()
	if !ok {
		return ErrNotLoggedIn
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.editing = true
	e.draft = ProfileDraft{Name: user.Name, Phone: user.Phone, Address: user.Address}
	return nil
}

// Editing reports whether edit mode is active.
func (e *ProfileEditor) Editing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.editing
}

// Draft returns the current draft values.
func (e *ProfileEditor) Draft() ProfileDraft {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft
}

func (e *ProfileEditor) SetName(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.editing {
		e.draft.Name = name
	}
}

func (e *ProfileEditor) SetPhone(phone string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.editing {
		e.draft.Phone = phone
	}
}

func (e *ProfileEditor) SetAddress(address string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.editing {
		e.draft.Address = address
	}
}

// Cancel discards the draft and leaves edit mode. The committed user record
// is untouched.
func (e *ProfileEditor) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.editing = false
	e.draft = ProfileDraft{}
}

// Save sends the draft to the backend. Only on success is the draft
// committed into the session store and edit mode exited; on failure the
// draft and edit mode survive so the user can retry.
func (e *ProfileEditor) Save(ctx context.Context) error {
	e.mu.Lock()
	if !e.editing {
		e.mu.Unlock()
		return ErrNotEditing
	}
	draft := e.draft
	e.mu.Unlock()

	token := e.sessions.Token()
	if token == "" {
		return ErrNotLoggedIn
	}

	update := ProfileUpdate{Name: draft.Name, Phone: draft.Phone, Address: draft.Address}
	if _, err := e.gateway.UpdateProfile(ctx, token, update); err != nil {
		return err
	}

	e.sessions.UpdateUser(UserUpdate{
		Name:    &draft.Name,
		Phone:   &draft.Phone,
		Address: &draft.Address,
	})

	e.mu.Lock()
	e.editing = false
	e.draft = ProfileDraft{}
	e.mu.Unlock()
	return nil
}
