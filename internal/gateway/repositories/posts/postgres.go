package posts

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/snapgram/internal/dbx"
	"github.com/dmitrijs2005/snapgram/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {

	query :=
		`INSERT INTO posts (user_id, image_url, caption)
         VALUES ($1, $2, $3)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query, post.UserID, post.ImageURL, post.Caption).
		Scan(&post.ID, &post.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return post, nil
}

func scanPosts(rows *sql.Rows) ([]models.Post, error) {
	defer rows.Close()

	result := make([]models.Post, 0)
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.UserID, &p.ImageURL, &p.Caption, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// ListByUsers returns every post owned by one of userIDs, newest first.
func (r *PostgresRepository) ListByUsers(ctx context.Context, userIDs []int64) ([]models.Post, error) {
	if len(userIDs) == 0 {
		return []models.Post{}, nil
	}

	query :=
		`SELECT id, user_id, image_url, caption, created_at FROM posts
		 WHERE user_id = ANY($1)
		 ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, userIDs)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return scanPosts(rows)
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]models.Post, error) {
	query :=
		`SELECT id, user_id, image_url, caption, created_at FROM posts
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2
		 `

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return scanPosts(rows)
}

func (r *PostgresRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
