package client

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/votesecure/platform/types"
)

// MockGateway is an in-memory Gateway for tests and offline development. It
// ships with a small set of demo elections and accepts any login unless an
// error hook is set.
type MockGateway struct {
	mu sync.Mutex

	// User is the account returned by Login, Signup and Profile.
	User types.User

	// Token is the bearer token issued by Login.
	Token string

	// ElectionList is the canned election data.
	ElectionList []types.Election

	// Error hooks. When non-nil the corresponding call fails without
	// touching any state.
	LoginErr         error
	SignupErr        error
	ProfileErr       error
	UpdateProfileErr error
	ElectionsErr     error
	CastVoteErr      error

	// SignupCalls counts Signup invocations, letting tests assert that
	// local validation short-circuits before the network.
	SignupCalls int

	// CastVotes records (electionID, candidateID) pairs in call order.
	CastVotes [][2]int

	voted map[int]bool
}

// NewMockGateway returns a mock pre-loaded with an approved voter account and
// three demo elections in the upcoming, active and completed states.
func NewMockGateway() *MockGateway {
	now := time.Now()
	return &MockGateway{
		User: types.User{
			ID:               1,
			Username:         "john_voter",
			Email:            "john@example.com",
			Role:             types.RoleUser,
			Status:           types.StatusApproved,
			VoterID:          "V00001",
			RegistrationDate: now.AddDate(0, -1, 0),
		},
		Token: "mock-token",
		ElectionList: []types.Election{
			{
				ID:          1,
				Title:       "Presidential Election 2026",
				Description: "National presidential election to elect the next president.",
				StartDate:   now.Add(-24 * time.Hour),
				EndDate:     now.Add(72 * time.Hour),
				Status:      types.ElectionActive,
				TotalVotes:  15234,
				Candidates: []types.Candidate{
					{ID: 1, ElectionID: 1, Name: "Sarah Johnson", Party: "Progressive Party", Description: "Former state governor focused on healthcare and education reform.", Experience: "Governor (2018-2024), State Senator (2012-2018)"},
					{ID: 2, ElectionID: 1, Name: "Michael Chen", Party: "Unity Party", Description: "Business leader and economist advocating fiscal responsibility.", Experience: "CEO of TechCorp (2015-2024), Economic Advisor (2010-2015)"},
					{ID: 3, ElectionID: 1, Name: "Elena Rodriguez", Party: "Green Alliance", Description: "Environmental scientist championing renewable energy.", Experience: "EPA Director (2020-2024), Climate Researcher (2010-2020)"},
				},
			},
			{
				ID:          2,
				Title:       "City Council Election",
				Description: "Election for city council representatives.",
				StartDate:   now.Add(7 * 24 * time.Hour),
				EndDate:     now.Add(14 * 24 * time.Hour),
				Status:      types.ElectionUpcoming,
				Candidates: []types.Candidate{
					{ID: 4, ElectionID: 2, Name: "Robert Williams", Party: "Independent", Description: "Community organizer with a focus on housing.", Experience: "District Board Member (2019-2024)"},
					{ID: 5, ElectionID: 2, Name: "Lisa Thompson", Party: "Civic Union", Description: "Urban planner advocating for public transit.", Experience: "City Planning Office (2016-2024)"},
				},
			},
			{
				ID:          3,
				Title:       "School Board Election",
				Description: "Election for the district school board.",
				StartDate:   now.Add(-14 * 24 * time.Hour),
				EndDate:     now.Add(-7 * 24 * time.Hour),
				Status:      types.ElectionCompleted,
				TotalVotes:  8921,
				Candidates: []types.Candidate{
					{ID: 6, ElectionID: 3, Name: "David Park", Party: "Education First", Description: "Teacher of twenty years.", Experience: "High School Principal (2015-2024)"},
				},
			},
		},
		voted: make(map[int]bool),
	}
}

func (m *MockGateway) Login(ctx context.Context, creds Credentials) (types.User, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoginErr != nil {
		return types.User{}, "", m.LoginErr
	}
	user := m.User
	if creds.Username != "" {
		user.Username = creds.Username
	}
	return user, m.Token, nil
}

func (m *MockGateway) Signup(ctx context.Context, data SignupData) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SignupCalls++
	if m.SignupErr != nil {
		return types.User{}, m.SignupErr
	}
	user := m.User
	user.Username = data.Username
	user.Email = data.Email
	user.Status = types.StatusPending
	return user, nil
}

func (m *MockGateway) Profile(ctx context.Context, token string) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ProfileErr != nil {
		return types.User{}, m.ProfileErr
	}
	if token != m.Token {
		return types.User{}, &RejectedError{StatusCode: http.StatusUnauthorized, Message: "invalid or expired token"}
	}
	return m.User, nil
}

func (m *MockGateway) UpdateProfile(ctx context.Context, token string, update ProfileUpdate) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateProfileErr != nil {
		return types.User{}, m.UpdateProfileErr
	}
	if update.Name != "" {
		m.User.Name = update.Name
	}
	if update.Phone != "" {
		m.User.Phone = update.Phone
	}
	if update.Address != "" {
		m.User.Address = update.Address
	}
	return m.User, nil
}

func (m *MockGateway) Elections(ctx context.Context, token string) ([]types.Election, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ElectionsErr != nil {
		return nil, m.ElectionsErr
	}
	out := make([]types.Election, len(m.ElectionList))
	copy(out, m.ElectionList)
	for i := range out {
		out[i].HasVoted = m.voted[out[i].ID]
	}
	return out, nil
}

func (m *MockGateway) Election(ctx context.Context, token string, id int) (types.Election, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ElectionsErr != nil {
		return types.Election{}, m.ElectionsErr
	}
	for _, e := range m.ElectionList {
		if e.ID == id {
			e.HasVoted = m.voted[id]
			return e, nil
		}
	}
	return types.Election{}, &RejectedError{StatusCode: http.StatusNotFound, Message: "election not found"}
}

func (m *MockGateway) CastVote(ctx context.Context, token string, electionID, candidateID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CastVoteErr != nil {
		return m.CastVoteErr
	}
	if m.voted[electionID] {
		return &RejectedError{StatusCode: http.StatusConflict, Message: "you have already voted in this election"}
	}
	m.voted[electionID] = true
	m.CastVotes = append(m.CastVotes, [2]int{electionID, candidateID})
	return nil
}
