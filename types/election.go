package types

import "time"

// Election statuses, derived from the voting window rather than stored.
const (
	ElectionUpcoming  = "upcoming"
	ElectionActive    = "active"
	ElectionCompleted = "completed"
)

// Election represents a single-choice election with a fixed voting window.
type Election struct {
	// ID is the unique identifier of the election.
	ID int `json:"id" db:"id"`

	// Title is the human-readable name of the election.
	Title string `json:"title" db:"title"`

	// Description contains the full election statement shown to voters.
	Description string `json:"description" db:"description"`

	// StartDate is the instant the voting window opens.
	StartDate time.Time `json:"startDate" db:"start_date"`

	// EndDate is the instant the voting window closes. Votes cast at or
	// after this instant are rejected.
	EndDate time.Time `json:"endDate" db:"end_date"`

	// Status is the derived lifecycle state: "upcoming" before StartDate,
	// "active" inside the window, "completed" after EndDate. It is computed
	// at read time and never persisted.
	Status string `json:"status" db:"-"`

	// TotalVotes is the number of ballots cast so far.
	TotalVotes int `json:"totalVotes" db:"-"`

	// HasVoted reports whether the requesting voter has already cast a
	// ballot in this election. Only populated on authenticated reads.
	HasVoted bool `json:"hasVoted" db:"-"`

	// Candidates are the choices on the ballot.
	Candidates []Candidate `json:"candidates,omitempty" db:"-"`

	// CreatedAt is the timestamp at which the election was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the election.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// StatusAt derives the lifecycle state of the election at the given instant.
func (e Election) StatusAt(now time.Time) string {
	switch {
	case now.Before(e.StartDate):
		return ElectionUpcoming
	case now.Before(e.EndDate):
		return ElectionActive
	default:
		return ElectionCompleted
	}
}

// Candidate represents one choice on an election ballot.
type Candidate struct {
	// ID is the unique identifier of the candidate.
	ID int `json:"id" db:"id"`

	// ElectionID is the identifier of the election this candidate runs in.
	ElectionID int `json:"election_id" db:"election_id"`

	// Name is the candidate's full name.
	Name string `json:"name" db:"name"`

	// Party is the candidate's political affiliation.
	Party string `json:"party" db:"party"`

	// Description is a short biography shown on the ballot.
	Description string `json:"description" db:"description"`

	// Experience lists the candidate's prior offices and positions.
	Experience string `json:"experience" db:"experience"`
}
