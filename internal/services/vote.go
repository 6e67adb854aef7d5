package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/votesecure/platform/internal/store"
	"github.com/votesecure/platform/types"
)

// Ballot rule violations surfaced to the HTTP layer.
var (
	ErrElectionNotActive = errors.New("election is not open for voting")
	ErrAlreadyVoted      = errors.New("vote already cast in this election")
	ErrVoterNotEligible  = errors.New("account is not eligible to vote")
)

// Event channels published by the vote and signup flows.
const (
	ChannelVoteCast        = "vote.cast"
	ChannelVoterRegistered = "voter.registered"
)

// Publisher sends platform events to the configured broker. A nil Publisher
// disables publishing.
type Publisher interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
}

// VoteRepository defines persistence operations for ballots.
type VoteRepository interface {
	Create(ctx context.Context, vote types.Vote) (types.Vote, error)
	HasVoted(ctx context.Context, electionID, userID int) (bool, error)
	CountByElection(ctx context.Context, electionID int) (int, error)
	DistinctVoters(ctx context.Context) (int, error)
	ElectionsVotedBy(ctx context.Context, userID int) (map[int]bool, error)
}

// VoteService enforces the ballot rules: the election window must be open,
// the candidate must be on the ballot, the voter must be an approved account
// with the voter role, and each voter gets exactly one vote per election.
type VoteService struct {
	votes     VoteRepository
	elections ElectionRepository
	events    Publisher
	now       func() time.Time
}

func NewVoteService(votes VoteRepository, elections ElectionRepository, events Publisher) *VoteService {
	return &VoteService{votes: votes, elections: elections, events: events, now: time.Now}
}

// Cast records a ballot for the given voter. The uniqueness check is left to
// the database constraint so two concurrent submissions cannot both land.
func (s *VoteService) Cast(ctx context.Context, voter types.User, electionID, candidateID int) (types.Vote, error) {
	if voter.Role != types.RoleUser || voter.Status != types.StatusApproved {
		return types.Vote{}, ErrVoterNotEligible
	}

	election, err := s.elections.Get(ctx, electionID)
	if err != nil {
		return types.Vote{}, err
	}
	if election.StatusAt(s.now()) != types.ElectionActive {
		return types.Vote{}, ErrElectionNotActive
	}

	if _, err := s.elections.GetCandidate(ctx, electionID, candidateID); err != nil {
		return types.Vote{}, err
	}

	vote, err := s.votes.Create(ctx, types.Vote{
		ElectionID:  electionID,
		CandidateID: candidateID,
		UserID:      voter.ID,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return types.Vote{}, ErrAlreadyVoted
		}
		return types.Vote{}, err
	}

	s.publishCast(ctx, election, vote)
	return vote, nil
}

func (s *VoteService) HasVoted(ctx context.Context, electionID, userID int) (bool, error) {
	return s.votes.HasVoted(ctx, electionID, userID)
}

// publishCast emits a vote.cast event. Publishing is best effort; the ballot
// is already durable when this runs.
func (s *VoteService) publishCast(ctx context.Context, election types.Election, vote types.Vote) {
	if s.events == nil {
		return
	}

	payload, err := json.Marshal(map[string]any{
		"election_id":  vote.ElectionID,
		"candidate_id": vote.CandidateID,
		"cast_at":      vote.CastAt,
	})
	if err != nil {
		return
	}

	attrs := map[string]string{"election": strconv.Itoa(election.ID)}
	if _, err := s.events.Publish(ctx, ChannelVoteCast, payload, attrs); err != nil {
		slog.Warn("failed to publish vote event", "error", err, "election_id", election.ID)
	}
}
