package follows

import "context"

type Repository interface {
	Exists(ctx context.Context, followerID, followeeID int64) (bool, error)
	Insert(ctx context.Context, followerID, followeeID int64) error
	Delete(ctx context.Context, followerID, followeeID int64) (bool, error)
	Followees(ctx context.Context, followerID int64) ([]int64, error)
	CountFollowers(ctx context.Context, userID int64) (int64, error)
	CountFollowing(ctx context.Context, userID int64) (int64, error)
}
