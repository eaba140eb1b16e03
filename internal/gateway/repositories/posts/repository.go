package posts

import (
	"context"

	"github.com/dmitrijs2005/snapgram/internal/models"
)

type Repository interface {
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	ListByUsers(ctx context.Context, userIDs []int64) ([]models.Post, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]models.Post, error)
	CountByUser(ctx context.Context, userID int64) (int64, error)
}
