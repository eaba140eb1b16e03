package client

import (
	"context"

	"github.com/dmitrijs2005/snapgram/internal/models"
)

// Client is everything the services need from the remote data gateway.
type Client interface {
	Close() error
	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserSummaries(ctx context.Context, ids []int64) ([]models.UserSummary, error)
	SearchUsers(ctx context.Context, text string, limit int) ([]models.UserSummary, error)
	UpdateProfileURL(ctx context.Context, userID int64, url string) error

	CreatePost(ctx context.Context, post *models.Post) (*models.Post, error)
	ListPostsByUsers(ctx context.Context, userIDs []int64) ([]models.Post, error)
	ListPostsByUser(ctx context.Context, userID int64, limit int) ([]models.Post, error)
	CountPosts(ctx context.Context, userID int64) (int64, error)

	FollowExists(ctx context.Context, followerID, followeeID int64) (bool, error)
	InsertFollow(ctx context.Context, followerID, followeeID int64) error
	DeleteFollow(ctx context.Context, followerID, followeeID int64) (bool, error)
	Followees(ctx context.Context, followerID int64) ([]int64, error)
	CountFollowers(ctx context.Context, userID int64) (int64, error)
	CountFollowing(ctx context.Context, userID int64) (int64, error)

	PutObject(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
