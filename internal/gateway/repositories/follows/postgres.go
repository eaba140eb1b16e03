package follows

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/snapgram/internal/common"
	"github.com/dmitrijs2005/snapgram/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Exists(ctx context.Context, followerID, followeeID int64) (bool, error) {
	query :=
		`SELECT EXISTS (
		   SELECT 1 FROM follows WHERE follower_id = $1 AND followee_id = $2
		 )`

	var ok bool
	if err := r.db.QueryRowContext(ctx, query, followerID, followeeID).Scan(&ok); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return ok, nil
}

// Insert adds the edge. A second insert of the same pair yields
// common.ErrorAlreadyExists.
func (r *PostgresRepository) Insert(ctx context.Context, followerID, followeeID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO follows (follower_id, followee_id) VALUES ($1, $2)`, followerID, followeeID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Delete removes the edge and reports whether it existed.
func (r *PostgresRepository) Delete(ctx context.Context, followerID, followeeID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2`, followerID, followeeID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

func (r *PostgresRepository) Followees(ctx context.Context, followerID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT followee_id FROM follows WHERE follower_id = $1`, followerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return ids, nil
}

func (r *PostgresRepository) count(ctx context.Context, query string, userID int64) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) CountFollowers(ctx context.Context, userID int64) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM follows WHERE followee_id = $1`, userID)
}

func (r *PostgresRepository) CountFollowing(ctx context.Context, userID int64) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM follows WHERE follower_id = $1`, userID)
}
