package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/votesecure/platform/types"
)

// ElectionRepository defines persistence operations for elections.
type ElectionRepository interface {
	List(ctx context.Context, offset, limit int) ([]types.Election, int, error)
	Get(ctx context.Context, id int) (types.Election, error)
	Create(ctx context.Context, election types.Election) (types.Election, error)
	Update(ctx context.Context, election types.Election) (types.Election, error)
	Delete(ctx context.Context, id int) error
	GetCandidate(ctx context.Context, electionID, candidateID int) (types.Candidate, error)
}

// VoteReader is the subset of vote persistence the election service needs to
// annotate read models.
type VoteReader interface {
	CountByElection(ctx context.Context, electionID int) (int, error)
	ElectionsVotedBy(ctx context.Context, userID int) (map[int]bool, error)
}

// ElectionService encapsulates election use-cases. Reads are annotated with
// the derived status, vote totals, and the caller's has-voted flag so clients
// never have to compute them.
type ElectionService struct {
	repo  ElectionRepository
	votes VoteReader
	now   func() time.Time
}

func NewElectionService(repo ElectionRepository, votes VoteReader) *ElectionService {
	return &ElectionService{repo: repo, votes: votes, now: time.Now}
}

func (s *ElectionService) List(ctx context.Context, userID, offset, limit int) ([]types.Election, int, error) {
	elections, total, err := s.repo.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	voted := map[int]bool{}
	if userID > 0 {
		if voted, err = s.votes.ElectionsVotedBy(ctx, userID); err != nil {
			return nil, 0, err
		}
	}

	now := s.now()
	for i := range elections {
		if err := s.annotate(ctx, &elections[i], now, voted); err != nil {
			return nil, 0, err
		}
	}
	return elections, total, nil
}

func (s *ElectionService) Get(ctx context.Context, id, userID int) (types.Election, error) {
	election, err := s.repo.Get(ctx, id)
	if err != nil {
		return types.Election{}, err
	}

	voted := map[int]bool{}
	if userID > 0 {
		if voted, err = s.votes.ElectionsVotedBy(ctx, userID); err != nil {
			return types.Election{}, err
		}
	}

	if err := s.annotate(ctx, &election, s.now(), voted); err != nil {
		return types.Election{}, err
	}
	return election, nil
}

func (s *ElectionService) Create(ctx context.Context, election types.Election) (types.Election, error) {
	if err := validateElection(election); err != nil {
		return types.Election{}, err
	}
	created, err := s.repo.Create(ctx, election)
	if err != nil {
		return types.Election{}, err
	}
	created.Status = created.StatusAt(s.now())
	return created, nil
}

func (s *ElectionService) Update(ctx context.Context, election types.Election) (types.Election, error) {
	if err := validateElection(election); err != nil {
		return types.Election{}, err
	}
	updated, err := s.repo.Update(ctx, election)
	if err != nil {
		return types.Election{}, err
	}
	updated.Status = updated.StatusAt(s.now())
	return updated, nil
}

func (s *ElectionService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

func (s *ElectionService) annotate(ctx context.Context, election *types.Election, now time.Time, voted map[int]bool) error {
	election.Status = election.StatusAt(now)
	election.HasVoted = voted[election.ID]
	count, err := s.votes.CountByElection(ctx, election.ID)
	if err != nil {
		return err
	}
	election.TotalVotes = count
	return nil
}

func validateElection(election types.Election) error {
	if strings.TrimSpace(election.Title) == "" {
		return errors.New("title is required")
	}
	if election.StartDate.IsZero() || election.EndDate.IsZero() {
		return errors.New("start and end dates are required")
	}
	if !election.EndDate.After(election.StartDate) {
		return errors.New("end date must be after start date")
	}
	return nil
}
