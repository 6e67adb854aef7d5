package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/votesecure/platform/types"
)

// Ballot flow errors surfaced to the view.
var (
	ErrNoSelection    = errors.New("no candidate selected")
	ErrNotConfirmed   = errors.New("submission requires confirmation")
	ErrSubmitInFlight = errors.New("a submission is already in flight")
	ErrUnknownChoice  = errors.New("candidate is not on this ballot")
	ErrNotLoggedIn    = errors.New("not logged in")
)

// Confirmation is shown to the voter between selection and submission.
type Confirmation struct {
	Candidate types.Candidate
	Warning   string
}

// DashboardPath is where the voter lands after a successful submission.
const DashboardPath = "/dashboard"

const irreversibleWarning = "Please confirm your vote selection. This action cannot be undone."

// BallotFlow drives single-choice voting for one election: select exactly
// one candidate, confirm, submit once. Reselecting replaces the previous
// choice; a failed submission keeps the selection so the voter can reopen
// the confirmation and retry.
type BallotFlow struct {
	mu        sync.Mutex
	sessions  *SessionStore
	gateway   Gateway
	election  types.Election
	selected  int
	confirmed bool
	inFlight  bool
}

func NewBallotFlow(sessions *SessionStore, gateway Gateway, election types.Election) *BallotFlow {
	return &BallotFlow{sessions: sessions, gateway: gateway, election: election}
}

// Select marks the candidate as the single current choice, replacing any
// previous selection and invalidating a pending confirmation.
func (b *BallotFlow) Select(candidateID int) error {
	candidate, ok := b.candidate(candidateID)
	if !ok {
		return ErrUnknownChoice
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.selected = candidate.ID
	b.confirmed = false
	return nil
}

// Selected returns the currently chosen candidate, if any.
func (b *BallotFlow) Selected() (types.Candidate, bool) {
	b.mu.Lock()
	id := b.selected
	b.mu.Unlock()
	if id == 0 {
		return types.Candidate{}, false
	}
	return b.candidate(id)
}

// CanSubmit reports whether the submit control should be enabled. It is
// false whenever the selection is empty or a submission is in flight.
func (b *BallotFlow) CanSubmit() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.selected != 0 && !b.inFlight
}

// Confirm opens the mandatory confirmation step, returning the selected
// candidate's identity and the irreversibility warning the view must show.
func (b *BallotFlow) Confirm() (Confirmation, error) {
	b.mu.Lock()
	id := b.selected
	if id == 0 {
		b.mu.Unlock()
		return Confirmation{}, ErrNoSelection
	}
	b.confirmed = true
	b.mu.Unlock()

	candidate, _ := b.candidate(id)
	return Confirmation{Candidate: candidate, Warning: irreversibleWarning}, nil
}

// CancelConfirmation closes the confirmation dialog without submitting. The
// selection is kept.
func (b *BallotFlow) CancelConfirmation() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.confirmed = false
}

// Submit fires the vote exactly once per confirmation. On success the local
// selection is cleared and the voter is directed to the dashboard; on any
// failure the selection is left intact and the confirmation is consumed, so
// a retry has to go through Confirm again.
func (b *BallotFlow) Submit(ctx context.Context) (string, error) {
	b.mu.Lock()
	switch {
	case b.inFlight:
		b.mu.Unlock()
		return "", ErrSubmitInFlight
	case b.selected == 0:
		b.mu.Unlock()
		return "", ErrNoSelection
	case !b.confirmed:
		b.mu.Unlock()
		return "", ErrNotConfirmed
	}
	candidateID := b.selected
	b.confirmed = false
	b.inFlight = true
	b.mu.Unlock()

	token := b.sessions.Token()
	if token == "" {
		b.mu.Lock()
		b.inFlight = false
		b.mu.Unlock()
		return "", ErrNotLoggedIn
	}

	err := b.gateway.CastVote(ctx, token, b.election.ID, candidateID)

	b.mu.Lock()
	b.inFlight = false
	if err == nil {
		b.selected = 0
	}
	b.mu.Unlock()

	if err != nil {
		return "", err
	}
	return DashboardPath, nil
}

func (b *BallotFlow) candidate(id int) (types.Candidate, bool) {
	for _, candidate := range b.election.Candidates {
		if candidate.ID == id {
			return candidate, true
		}
	}
	return types.Candidate{}, false
}

// Countdown recomputes the advisory time-remaining display on a periodic
// tick. The backend remains the authority on whether voting is open.
type Countdown struct {
	endDate  time.Time
	interval time.Duration
	now      func() time.Time
}

func NewCountdown(endDate time.Time, interval time.Duration) *Countdown {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Countdown{endDate: endDate, interval: interval, now: time.Now}
}

// Remaining formats the time left until the voting window closes.
func (c *Countdown) Remaining() string {
	difference := c.endDate.Sub(c.now())
	if difference <= 0 {
		return "Voting has ended"
	}
	hours := int(difference / time.Hour)
	minutes := int(difference%time.Hour) / int(time.Minute)
	return fmt.Sprintf("%dh %dm remaining", hours, minutes)
}

// Run pushes the current display to tick immediately and then on every
// interval until ctx is cancelled. The owning view cancels ctx on teardown,
// so no update can fire after the view is gone.
func (c *Countdown) Run(ctx context.Context, tick func(remaining string)) {
	tick(c.Remaining())

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tick(c.Remaining())
		}
	}
}
