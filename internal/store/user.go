package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/votesecure/platform/types"
)

const userColumns = `id, username, email, name, phone, address, role, voter_id, status, avatar_key, password_hash, registration_date, updated_at`

// UserRepository handles persistence for user accounts.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (types.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (types.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE username = $1`, userColumns)
	return r.scanOne(r.db.QueryRowContext(ctx, query, username))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (types.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

// Create inserts the user and assigns its voter ID from the generated row ID
// in the same transaction, so voter IDs are unique without a second sequence.
func (r *UserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	now := time.Now()
	user.RegistrationDate = now
	user.UpdatedAt = now

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return types.User{}, err
	}
	defer tx.Rollback()

	const insertQuery = `
		INSERT INTO users (username, email, name, phone, address, role, voter_id, status, avatar_key, password_hash, registration_date, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, '', $7, $8, $9, $10, $11)
		RETURNING id`
	if err := tx.QueryRowContext(
		ctx,
		insertQuery,
		user.Username,
		user.Email,
		user.Name,
		user.Phone,
		user.Address,
		user.Role,
		user.Status,
		user.AvatarKey,
		user.PasswordHash,
		user.RegistrationDate,
		user.UpdatedAt,
	).Scan(&user.ID); err != nil {
		return types.User{}, translateError(err)
	}

	user.VoterID = fmt.Sprintf("V%05d", user.ID)
	const voterIDQuery = `UPDATE users SET voter_id = $1 WHERE id = $2`
	if _, err := tx.ExecContext(ctx, voterIDQuery, user.VoterID, user.ID); err != nil {
		return types.User{}, err
	}

	if err := tx.Commit(); err != nil {
		return types.User{}, err
	}
	return user, nil
}

// Update persists the mutable fields of the user. Username, email, role and
// voter ID are deliberately not part of the statement.
func (r *UserRepository) Update(ctx context.Context, user types.User) (types.User, error) {
	user.UpdatedAt = time.Now()

	const query = `
		UPDATE users
		SET name = $1,
			phone = $2,
			address = $3,
			status = $4,
			avatar_key = $5,
			password_hash = $6,
			updated_at = $7
		WHERE id = $8`
	result, err := r.db.ExecContext(
		ctx,
		query,
		user.Name,
		user.Phone,
		user.Address,
		user.Status,
		user.AvatarKey,
		user.PasswordHash,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return types.User{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.User{}, err
	}
	if affected == 0 {
		return types.User{}, ErrNotFound
	}
	return user, nil
}

func (r *UserRepository) ListByStatus(ctx context.Context, status string, offset, limit int) ([]types.User, int, error) {
	if offset < 0 {
		offset = 0
	}
	if limit < 1 {
		limit = 20
	}

	const countQuery = `SELECT COUNT(1) FROM users WHERE status = $1 AND role = 'user'`
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, status).Scan(&total); err != nil {
		return nil, 0, err
	}

	listQuery := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE status = $1 AND role = 'user'
		ORDER BY id
		OFFSET $2 LIMIT $3`, userColumns)
	rows, err := r.db.QueryContext(ctx, listQuery, status, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := make([]types.User, 0, limit)
	for rows.Next() {
		user, err := r.scanOne(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, user)
	}
	return users, total, rows.Err()
}

func (r *UserRepository) CountByStatus(ctx context.Context, status string) (int, error) {
	const query = `SELECT COUNT(1) FROM users WHERE status = $1 AND role = 'user'`
	var count int
	if err := r.db.QueryRowContext(ctx, query, status).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *UserRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM users WHERE id = $1`
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

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *UserRepository) scanOne(row rowScanner) (types.User, error) {
	var user types.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Name,
		&user.Phone,
		&user.Address,
		&user.Role,
		&user.VoterID,
		&user.Status,
		&user.AvatarKey,
		&user.PasswordHash,
		&user.RegistrationDate,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return user, nil
}

// translateError maps postgres unique violations to ErrDuplicate.
func translateError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}
