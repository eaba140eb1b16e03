package users

import (
	"context"

	"github.com/dmitrijs2005/snapgram/internal/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetSummaries(ctx context.Context, ids []int64) ([]models.UserSummary, error)
	Search(ctx context.Context, text string, limit int) ([]models.UserSummary, error)
	UpdateProfileURL(ctx context.Context, id int64, url string) error
}
