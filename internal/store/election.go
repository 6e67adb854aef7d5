package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/votesecure/platform/types"
)

// ElectionRepository handles persistence for elections and their candidates.
type ElectionRepository struct {
	db *sql.DB
}

func NewElectionRepository(db *sql.DB) *ElectionRepository {
	return &ElectionRepository{db: db}
}

func (r *ElectionRepository) List(ctx context.Context, offset, limit int) ([]types.Election, int, error) {
	if offset < 0 {
		offset = 0
	}
	if limit < 1 {
		limit = 20
	}

	const countQuery = `SELECT COUNT(1) FROM elections`
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, err
	}

	const listQuery = `
		SELECT id, title, description, start_date, end_date, created_at, updated_at
		FROM elections
		ORDER BY start_date, id
		OFFSET $1 LIMIT $2`
	rows, err := r.db.QueryContext(ctx, listQuery, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	elections := make([]types.Election, 0, limit)
	for rows.Next() {
		var election types.Election
		if err := rows.Scan(
			&election.ID,
			&election.Title,
			&election.Description,
			&election.StartDate,
			&election.EndDate,
			&election.CreatedAt,
			&election.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		elections = append(elections, election)
	}
	return elections, total, rows.Err()
}

func (r *ElectionRepository) Get(ctx context.Context, id int) (types.Election, error) {
	const query = `
		SELECT id, title, description, start_date, end_date, created_at, updated_at
		FROM elections
		WHERE id = $1`
	var election types.Election
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&election.ID,
		&election.Title,
		&election.Description,
		&election.StartDate,
		&election.EndDate,
		&election.CreatedAt,
		&election.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Election{}, ErrNotFound
		}
		return types.Election{}, err
	}

	candidates, err := r.candidatesFor(ctx, id)
	if err != nil {
		return types.Election{}, err
	}
	election.Candidates = candidates
	return election, nil
}

// Create inserts the election and its candidates in one transaction.
func (r *ElectionRepository) Create(ctx context.Context, election types.Election) (types.Election, error) {
	now := time.Now()
	election.CreatedAt = now
	election.UpdatedAt = now

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return types.Election{}, err
	}
	defer tx.Rollback()

	const insertQuery = `
		INSERT INTO elections (title, description, start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	if err := tx.QueryRowContext(
		ctx,
		insertQuery,
		election.Title,
		election.Description,
		election.StartDate,
		election.EndDate,
		election.CreatedAt,
		election.UpdatedAt,
	).Scan(&election.ID); err != nil {
		return types.Election{}, err
	}

	for i := range election.Candidates {
		candidate := &election.Candidates[i]
		candidate.ElectionID = election.ID
		const candidateQuery = `
			INSERT INTO candidates (election_id, name, party, description, experience)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`
		if err := tx.QueryRowContext(
			ctx,
			candidateQuery,
			candidate.ElectionID,
			candidate.Name,
			candidate.Party,
			candidate.Description,
			candidate.Experience,
		).Scan(&candidate.ID); err != nil {
			return types.Election{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return types.Election{}, err
	}
	return election, nil
}

// Update persists the election and, when a candidate list is given, replaces
// the ballot in the same transaction. A nil candidate list keeps the existing
// ballot; removing a candidate cascades to its votes.
func (r *ElectionRepository) Update(ctx context.Context, election types.Election) (types.Election, error) {
	election.UpdatedAt = time.Now()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return types.Election{}, err
	}
	defer tx.Rollback()

	const query = `
		UPDATE elections
		SET title = $1,
			description = $2,
			start_date = $3,
			end_date = $4,
			updated_at = $5
		WHERE id = $6`
	result, err := tx.ExecContext(
		ctx,
		query,
		election.Title,
		election.Description,
		election.StartDate,
		election.EndDate,
		election.UpdatedAt,
		election.ID,
	)
	if err != nil {
		return types.Election{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Election{}, err
	}
	if affected == 0 {
		return types.Election{}, ErrNotFound
	}

	if election.Candidates != nil {
		const deleteQuery = `DELETE FROM candidates WHERE election_id = $1`
		if _, err := tx.ExecContext(ctx, deleteQuery, election.ID); err != nil {
			return types.Election{}, err
		}
		for i := range election.Candidates {
			candidate := &election.Candidates[i]
			candidate.ElectionID = election.ID
			const candidateQuery = `
				INSERT INTO candidates (election_id, name, party, description, experience)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING id`
			if err := tx.QueryRowContext(
				ctx,
				candidateQuery,
				candidate.ElectionID,
				candidate.Name,
				candidate.Party,
				candidate.Description,
				candidate.Experience,
			).Scan(&candidate.ID); err != nil {
				return types.Election{}, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return types.Election{}, err
	}

	if election.Candidates == nil {
		candidates, err := r.candidatesFor(ctx, election.ID)
		if err != nil {
			return types.Election{}, err
		}
		election.Candidates = candidates
	}
	return election, nil
}

func (r *ElectionRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM elections WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetCandidate returns a candidate only when it belongs to the election.
func (r *ElectionRepository) GetCandidate(ctx context.Context, electionID, candidateID int) (types.Candidate, error) {
	const query = `
		SELECT id, election_id, name, party, description, experience
		FROM candidates
		WHERE id = $1 AND election_id = $2`
	var candidate types.Candidate
	err := r.db.QueryRowContext(ctx, query, candidateID, electionID).Scan(
		&candidate.ID,
		&candidate.ElectionID,
		&candidate.Name,
		&candidate.Party,
		&candidate.Description,
		&candidate.Experience,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Candidate{}, ErrNotFound
		}
		return types.Candidate{}, err
	}
	return candidate, nil
}

func (r *ElectionRepository) candidatesFor(ctx context.Context, electionID int) ([]types.Candidate, error) {
	const query = `
		SELECT id, election_id, name, party, description, experience
		FROM candidates
		WHERE election_id = $1
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, electionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []types.Candidate
	for rows.Next() {
		var candidate types.Candidate
		if err := rows.Scan(
			&candidate.ID,
			&candidate.ElectionID,
			&candidate.Name,
			&candidate.Party,
			&candidate.Description,
			&candidate.Experience,
		); err != nil {
			return nil, err
		}
		candidates = append(candidates, candidate)
	}
	return candidates, rows.Err()
}
