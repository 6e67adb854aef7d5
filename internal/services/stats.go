package services

import (
	"context"
	"math"
	"time"

	"github.com/votesecure/platform/types"
)

// StatsService aggregates the numbers behind the admin dashboard.
type StatsService struct {
	users     UserRepository
	elections ElectionRepository
	votes     VoteRepository
	now       func() time.Time
}

func NewStatsService(users UserRepository, elections ElectionRepository, votes VoteRepository) *StatsService {
	return &StatsService{users: users, elections: elections, votes: votes, now: time.Now}
}

// Platform computes platform-wide totals plus a per-election turnout row for
// each known election. Turnout is the share of approved voters who have cast
// a ballot, as a percentage rounded to one decimal.
func (s *StatsService) Platform(ctx context.Context) (types.PlatformStats, error) {
	approved, err := s.users.CountByStatus(ctx, types.StatusApproved)
	if err != nil {
		return types.PlatformStats{}, err
	}
	pending, err := s.users.CountByStatus(ctx, types.StatusPending)
	if err != nil {
		return types.PlatformStats{}, err
	}

	elections, total, err := s.listAllElections(ctx)
	if err != nil {
		return types.PlatformStats{}, err
	}

	stats := types.PlatformStats{
		TotalVoters:      approved,
		PendingApprovals: pending,
		TotalElections:   total,
		Elections:        make([]types.ElectionTally, 0, len(elections)),
	}

	now := s.now()
	for _, election := range elections {
		switch election.StatusAt(now) {
		case types.ElectionActive:
			stats.ActiveElections++
		case types.ElectionUpcoming:
			stats.UpcomingElections++
		case types.ElectionCompleted:
			stats.CompletedElections++
		}

		votes, err := s.votes.CountByElection(ctx, election.ID)
		if err != nil {
			return types.PlatformStats{}, err
		}
		stats.Elections = append(stats.Elections, types.ElectionTally{
			ElectionID: election.ID,
			Title:      election.Title,
			Status:     election.StatusAt(now),
			Votes:      votes,
			Turnout:    percentage(votes, approved),
		})
	}

	voters, err := s.votes.DistinctVoters(ctx)
	if err != nil {
		return types.PlatformStats{}, err
	}
	stats.VoterTurnout = percentage(voters, approved)

	return stats, nil
}

const statsPageSize = 500

// listAllElections pages through the repository so the tallies cover every
// election, not just the first page.
func (s *StatsService) listAllElections(ctx context.Context) ([]types.Election, int, error) {
	var all []types.Election
	for offset := 0; ; offset += statsPageSize {
		page, total, err := s.elections.List(ctx, offset, statsPageSize)
		if err != nil {
			return nil, 0, err
		}
		all = append(all, page...)
		if len(all) >= total || len(page) == 0 {
			return all, total, nil
		}
	}
}

func percentage(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(whole)*1000) / 10
}
