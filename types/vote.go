package types

import "time"

// Vote records a single ballot cast by a voter in an election. The database
// enforces at most one vote per (election, user) pair.
type Vote struct {
	ID          int       `json:"id" db:"id"`
	ElectionID  int       `json:"election_id" db:"election_id"`
	CandidateID int       `json:"candidate_id" db:"candidate_id"`
	UserID      int       `json:"user_id" db:"user_id"`
	CastAt      time.Time `json:"cast_at" db:"cast_at"`
}

// ElectionTally summarizes turnout for one election on the admin dashboard.
type ElectionTally struct {
	ElectionID int     `json:"election_id"`
	Title      string  `json:"title"`
	Status     string  `json:"status"`
	Votes      int     `json:"votes"`
	Turnout    float64 `json:"turnout"`
}

// PlatformStats is the aggregate view served to the admin dashboard.
type PlatformStats struct {
	TotalVoters        int             `json:"totalVoters"`
	PendingApprovals   int             `json:"pendingApprovals"`
	TotalElections     int             `json:"totalElections"`
	ActiveElections    int             `json:"activeElections"`
	UpcomingElections  int             `json:"upcomingElections"`
	CompletedElections int             `json:"completedElections"`
	VoterTurnout       float64         `json:"voterTurnout"`
	Elections          []ElectionTally `json:"elections"`
}
