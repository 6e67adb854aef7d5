package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/votesecure/platform/types"
)

// VoteRepository handles persistence for cast ballots.
type VoteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) *VoteRepository {
	return &VoteRepository{db: db}
}

// Create records a ballot. The UNIQUE (election_id, user_id) constraint makes
// a repeat vote surface as ErrDuplicate.
func (r *VoteRepository) Create(ctx context.Context, vote types.Vote) (types.Vote, error) {
	vote.CastAt = time.Now()

	const query = `
		INSERT INTO votes (election_id, candidate_id, user_id, cast_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		vote.ElectionID,
		vote.CandidateID,
		vote.UserID,
		vote.CastAt,
	).Scan(&vote.ID); err != nil {
		return types.Vote{}, translateError(err)
	}
	return vote, nil
}

func (r *VoteRepository) HasVoted(ctx context.Context, electionID, userID int) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM votes WHERE election_id = $1 AND user_id = $2)`
	var voted bool
	if err := r.db.QueryRowContext(ctx, query, electionID, userID).Scan(&voted); err != nil {
		return false, err
	}
	return voted, nil
}

func (r *VoteRepository) CountByElection(ctx context.Context, electionID int) (int, error) {
	const query = `SELECT COUNT(1) FROM votes WHERE election_id = $1`
	var count int
	if err := r.db.QueryRowContext(ctx, query, electionID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// DistinctVoters counts users who have cast at least one ballot, used for the
// turnout figure on the admin dashboard.
func (r *VoteRepository) DistinctVoters(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(DISTINCT user_id) FROM votes`
	var count int
	if err := r.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// ElectionsVotedBy returns the set of election IDs the user has voted in.
func (r *VoteRepository) ElectionsVotedBy(ctx context.Context, userID int) (map[int]bool, error) {
	const query = `SELECT election_id FROM votes WHERE user_id = $1`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	voted := make(map[int]bool)
	for rows.Next() {
		var electionID int
		if err := rows.Scan(&electionID); err != nil {
			return nil, err
		}
		voted[electionID] = true
	}
	return voted, rows.Err()
}
