package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/votesecure/platform/types"
)

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	env := newTestEnv(t)
	voter := env.createUser(t, "john_voter", types.RoleUser, types.StatusApproved)

	recorder := env.do(t, http.MethodGet, "/api/admin/stats", env.tokenFor(t, voter), nil)
	if recorder.Code != http.StatusForbidden {
		t.Fatalf("status = %d", recorder.Code)
	}
	if resp := decodeBody[ErrorResponse](t, recorder); resp.Error != "admin access required" {
		t.Fatalf("error = %q", resp.Error)
	}
}

func TestGetStats(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin", types.RoleAdmin, types.StatusApproved)
	voterA := env.createUser(t, "voter_a", types.RoleUser, types.StatusApproved)
	voterB := env.createUser(t, "voter_b", types.RoleUser, types.StatusApproved)
	env.createUser(t, "voter_c", types.RoleUser, types.StatusPending)

	now := time.Now()
	active := env.createElection(t, "Active", now.Add(-time.Hour), now.Add(time.Hour), "A", "B")
	env.createElection(t, "Upcoming", now.Add(time.Hour), now.Add(2*time.Hour), "C")

	seedVote := func(userID int) {
		vote := types.Vote{ElectionID: active.ID, CandidateID: active.Candidates[0].ID, UserID: userID}
		if _, err := env.votes.Create(context.Background(), vote); err != nil {
			t.Fatalf("seed vote: %v", err)
		}
	}
	seedVote(voterA.ID)
	seedVote(voterB.ID)

	recorder := env.do(t, http.MethodGet, "/api/admin/stats", env.tokenFor(t, admin), nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", recorder.Code, recorder.Body.String())
	}

	stats := decodeBody[types.PlatformStats](t, recorder)
	if stats.TotalVoters != 2 {
		t.Fatalf("totalVoters = %d", stats.TotalVoters)
	}
	if stats.PendingApprovals != 1 {
		t.Fatalf("pendingApprovals = %d", stats.PendingApprovals)
	}
	if stats.TotalElections != 2 || stats.ActiveElections != 1 || stats.UpcomingElections != 1 {
		t.Fatalf("election counts = %d/%d/%d", stats.TotalElections, stats.ActiveElections, stats.UpcomingElections)
	}
	if stats.VoterTurnout != 100 {
		t.Fatalf("voterTurnout = %v", stats.VoterTurnout)
	}
	if len(stats.Elections) != 2 {
		t.Fatalf("tallies = %d", len(stats.Elections))
	}
	if stats.Elections[0].Votes != 2 || stats.Elections[0].Turnout != 100 {
		t.Fatalf("active tally = %+v", stats.Elections[0])
	}
}

func TestGetStatsCoversAllElections(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin", types.RoleAdmin, types.StatusApproved)

	// More elections than a single repository page holds.
	const count = 502
	now := time.Now()
	for i := 0; i < count; i++ {
		election := types.Election{
			Title:     "Election",
			StartDate: now.Add(-time.Hour),
			EndDate:   now.Add(time.Hour),
		}
		if _, err := env.elections.Create(context.Background(), election); err != nil {
			t.Fatalf("seed election %d: %v", i, err)
		}
	}

	recorder := env.do(t, http.MethodGet, "/api/admin/stats", env.tokenFor(t, admin), nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d", recorder.Code)
	}

	stats := decodeBody[types.PlatformStats](t, recorder)
	if stats.TotalElections != count {
		t.Fatalf("totalElections = %d", stats.TotalElections)
	}
	if stats.ActiveElections != count {
		t.Fatalf("activeElections = %d", stats.ActiveElections)
	}
	if len(stats.Elections) != count {
		t.Fatalf("tallies = %d", len(stats.Elections))
	}
}

func TestListVotersDefaultsToPending(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin", types.RoleAdmin, types.StatusApproved)
	env.createUser(t, "approved_voter", types.RoleUser, types.StatusApproved)
	pending := env.createUser(t, "pending_voter", types.RoleUser, types.StatusPending)

	recorder := env.do(t, http.MethodGet, "/api/admin/voters", env.tokenFor(t, admin), nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d", recorder.Code)
	}

	resp := decodeBody[VoterListResponse](t, recorder)
	if resp.Total != 1 || len(resp.Items) != 1 {
		t.Fatalf("total = %d, items = %d", resp.Total, len(resp.Items))
	}
	if resp.Items[0].ID != pending.ID {
		t.Fatalf("unexpected voter: %+v", resp.Items[0])
	}

	recorder = env.do(t, http.MethodGet, "/api/admin/voters?status=approved", env.tokenFor(t, admin), nil)
	resp = decodeBody[VoterListResponse](t, recorder)
	if resp.Total != 1 || resp.Items[0].Username != "approved_voter" {
		t.Fatalf("approved filter = %+v", resp.Items)
	}

	recorder = env.do(t, http.MethodGet, "/api/admin/voters?status=bogus", env.tokenFor(t, admin), nil)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("bogus status = %d", recorder.Code)
	}
}

func TestApproveVoter(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin", types.RoleAdmin, types.StatusApproved)
	pending := env.createUser(t, "pending_voter", types.RoleUser, types.StatusPending)
	token := env.tokenFor(t, admin)

	recorder := env.do(t, http.MethodPut, "/api/admin/voters/2/approve", token, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", recorder.Code, recorder.Body.String())
	}
	user := decodeBody[types.User](t, recorder)
	if user.ID != pending.ID || user.Status != types.StatusApproved {
		t.Fatalf("unexpected user after approval: %+v", user)
	}

	// Approving again is a no-op.
	recorder = env.do(t, http.MethodPut, "/api/admin/voters/2/approve", token, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("repeat approval status = %d", recorder.Code)
	}

	recorder = env.do(t, http.MethodPut, "/api/admin/voters/99/approve", token, nil)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("unknown voter status = %d", recorder.Code)
	}

	// The account can log in now.
	login := env.do(t, http.MethodPost, "/api/login", "", LoginRequest{
		Username: "pending_voter",
		Password: "password123",
	})
	if login.Code != http.StatusOK {
		t.Fatalf("login after approval status = %d", login.Code)
	}
}

func TestCreateElection(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin", types.RoleAdmin, types.StatusApproved)
	token := env.tokenFor(t, admin)

	now := time.Now()
	recorder := env.do(t, http.MethodPost, "/api/admin/elections", token, ElectionUpsertRequest{
		Title:     "Board Election",
		StartDate: now.Add(-time.Hour),
		EndDate:   now.Add(time.Hour),
		Candidates: []CandidateRequest{
			{Name: "Sarah Johnson", Party: "Progressive Party"},
			{Name: "Michael Chen", Party: "Unity Party"},
		},
	})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", recorder.Code, recorder.Body.String())
	}

	election := decodeBody[types.Election](t, recorder)
	if election.ID == 0 {
		t.Fatalf("expected an id")
	}
	if election.Status != types.ElectionActive {
		t.Fatalf("status = %q", election.Status)
	}
	if len(election.Candidates) != 2 {
		t.Fatalf("candidates = %d", len(election.Candidates))
	}
}

func TestCreateElectionValidation(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin", types.RoleAdmin, types.StatusApproved)
	token := env.tokenFor(t, admin)

	now := time.Now()
	tests := []struct {
		name string
		req  ElectionUpsertRequest
	}{
		{"missing title", ElectionUpsertRequest{StartDate: now, EndDate: now.Add(time.Hour)}},
		{"missing dates", ElectionUpsertRequest{Title: "X"}},
		{"end before start", ElectionUpsertRequest{Title: "X", StartDate: now.Add(time.Hour), EndDate: now}},
		{"unnamed candidate", ElectionUpsertRequest{Title: "X", StartDate: now, EndDate: now.Add(time.Hour), Candidates: []CandidateRequest{{Party: "P"}}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			recorder := env.do(t, http.MethodPost, "/api/admin/elections", token, tc.req)
			if recorder.Code != http.StatusBadRequest {
				t.Fatalf("status = %d", recorder.Code)
			}
		})
	}
}

func TestUpdateElectionReplacesBallot(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin", types.RoleAdmin, types.StatusApproved)
	token := env.tokenFor(t, admin)

	now := time.Now()
	env.createElection(t, "Board Election", now.Add(-time.Hour), now.Add(time.Hour), "Old A", "Old B")

	recorder := env.do(t, http.MethodPut, "/api/admin/elections/1", token, ElectionUpsertRequest{
		Title:     "Board Election",
		StartDate: now.Add(-time.Hour),
		EndDate:   now.Add(time.Hour),
		Candidates: []CandidateRequest{
			{Name: "New C", Party: "Unity Party"},
		},
	})
	if recorder.Code != http.StatusOK {
		t.Fatalf("update status = %d, body = %s", recorder.Code, recorder.Body.String())
	}
	updated := decodeBody[types.Election](t, recorder)
	if len(updated.Candidates) != 1 || updated.Candidates[0].Name != "New C" {
		t.Fatalf("update response ballot = %+v", updated.Candidates)
	}

	// The replacement must be persisted, not just echoed.
	recorder = env.do(t, http.MethodGet, "/api/elections/1", token, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("get status = %d", recorder.Code)
	}
	fetched := decodeBody[types.Election](t, recorder)
	if len(fetched.Candidates) != 1 || fetched.Candidates[0].Name != "New C" {
		t.Fatalf("fetched ballot = %+v", fetched.Candidates)
	}
	if fetched.Candidates[0].ID == 0 {
		t.Fatalf("replacement candidate has no id")
	}

	// Updating without a candidate list keeps the ballot.
	recorder = env.do(t, http.MethodPut, "/api/admin/elections/1", token, ElectionUpsertRequest{
		Title:     "Board Election Renamed",
		StartDate: now.Add(-time.Hour),
		EndDate:   now.Add(time.Hour),
	})
	if recorder.Code != http.StatusOK {
		t.Fatalf("rename status = %d", recorder.Code)
	}
	if renamed := decodeBody[types.Election](t, recorder); len(renamed.Candidates) != 1 || renamed.Candidates[0].Name != "New C" {
		t.Fatalf("rename response ballot = %+v", renamed.Candidates)
	}

	recorder = env.do(t, http.MethodGet, "/api/elections/1", token, nil)
	if fetched := decodeBody[types.Election](t, recorder); len(fetched.Candidates) != 1 || fetched.Candidates[0].Name != "New C" {
		t.Fatalf("ballot after rename = %+v", fetched.Candidates)
	}
}

func TestUpdateAndDeleteElection(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin", types.RoleAdmin, types.StatusApproved)
	token := env.tokenFor(t, admin)

	now := time.Now()
	env.createElection(t, "Original", now.Add(-time.Hour), now.Add(time.Hour), "A")

	recorder := env.do(t, http.MethodPut, "/api/admin/elections/1", token, ElectionUpsertRequest{
		Title:     "Renamed",
		StartDate: now.Add(-time.Hour),
		EndDate:   now.Add(2 * time.Hour),
	})
	if recorder.Code != http.StatusOK {
		t.Fatalf("update status = %d, body = %s", recorder.Code, recorder.Body.String())
	}
	if election := decodeBody[types.Election](t, recorder); election.Title != "Renamed" {
		t.Fatalf("title = %q", election.Title)
	}

	recorder = env.do(t, http.MethodDelete, "/api/admin/elections/1", token, nil)
	if recorder.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", recorder.Code)
	}

	recorder = env.do(t, http.MethodDelete, "/api/admin/elections/1", token, nil)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("repeat delete status = %d", recorder.Code)
	}
}
