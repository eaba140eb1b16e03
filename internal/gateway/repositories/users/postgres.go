package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/snapgram/internal/common"
	"github.com/dmitrijs2005/snapgram/internal/dbx"
	"github.com/dmitrijs2005/snapgram/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, email, password_hash, username, first_name, last_name, phone_number, profile_url, created_at`

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (email, password_hash, username, first_name, last_name, phone_number)
         VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash, user.UserName, user.FirstName, user.LastName, user.PhoneNumber).
		Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.UserName, &user.FirstName,
		&user.LastName, &user.PhoneNumber, &user.ProfileURL, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *PostgresRepository) scanSummaries(rows *sql.Rows) ([]models.UserSummary, error) {
	defer rows.Close()

	result := make([]models.UserSummary, 0)
	for rows.Next() {
		var s models.UserSummary
		if err := rows.Scan(&s.ID, &s.UserName, &s.FirstName, &s.LastName, &s.ProfileURL); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// GetSummaries returns the users among ids that exist, in no particular
// order. Unknown ids are silently skipped.
func (r *PostgresRepository) GetSummaries(ctx context.Context, ids []int64) ([]models.UserSummary, error) {
	if len(ids) == 0 {
		return []models.UserSummary{}, nil
	}

	query :=
		`SELECT id, username, first_name, last_name, profile_url FROM users
		 WHERE id = ANY($1)`

	rows, err := r.db.QueryContext(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return r.scanSummaries(rows)
}

// escapeLike makes text match literally inside a LIKE pattern with ESCAPE '\'.
func escapeLike(text string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(text)
}

// Search matches text as a case-insensitive substring of the username, first
// name or last name.
func (r *PostgresRepository) Search(ctx context.Context, text string, limit int) ([]models.UserSummary, error) {
	query :=
		`SELECT id, username, first_name, last_name, profile_url FROM users
		 WHERE username ILIKE $1 ESCAPE '\' OR first_name ILIKE $1 ESCAPE '\' OR last_name ILIKE $1 ESCAPE '\'
		 ORDER BY username
		 LIMIT $2
		 `

	rows, err := r.db.QueryContext(ctx, query, "%"+escapeLike(text)+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return r.scanSummaries(rows)
}

func (r *PostgresRepository) UpdateProfileURL(ctx context.Context, id int64, url string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET profile_url = $1 WHERE id = $2`, url, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
