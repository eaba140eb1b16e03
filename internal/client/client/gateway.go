package client

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/snapgram/internal/gateway/repositories/repomanager"
	"github.com/dmitrijs2005/snapgram/internal/gateway/storage"
	"github.com/dmitrijs2005/snapgram/internal/logging"
	"github.com/dmitrijs2005/snapgram/internal/metrics"
	"github.com/dmitrijs2005/snapgram/internal/models"
	"github.com/dmitrijs2005/snapgram/internal/retryx"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// sqlOpen is a seam for tests.
var sqlOpen = sql.Open

type Options struct {
	RetryDelay time.Duration
	Metrics    *metrics.Metrics
	Logger     logging.Logger
}

// GatewayClient talks to the gateway database and content store directly.
// Reads and idempotent writes are retried once on transient failures.
// CreateUser and CreatePost are not retried since a lost
// acknowledgement would otherwise duplicate the row or report a false
// conflict.
type GatewayClient struct {
	db      *sql.DB
	repos   repomanager.RepositoryManager
	store   storage.ContentStore
	retry   retryx.Policy
	metrics *metrics.Metrics
	log     logging.Logger
}

func NewGatewayClient(db *sql.DB, repos repomanager.RepositoryManager, store storage.ContentStore, opts Options) *GatewayClient {
	return &GatewayClient{
		db:      db,
		repos:   repos,
		store:   store,
		retry:   retryx.Once(opts.RetryDelay),
		metrics: opts.Metrics,
		log:     opts.Logger,
	}
}

// Open connects to the gateway database at dsn using the pgx driver.
func Open(ctx context.Context, dsn string, store storage.ContentStore, opts Options) (*GatewayClient, error) {
	db, err := sqlOpen("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open gateway: %w", err)
	}
	return NewGatewayClient(db, repomanager.NewPostgresRepositoryManager(), store, opts), nil
}

func (c *GatewayClient) Close() error {
	return c.db.Close()
}

func (c *GatewayClient) Ping(ctx context.Context) error {
	if err := c.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}

func (c *GatewayClient) policy(ctx context.Context, op string) retryx.Policy {
	p := c.retry
	p.OnRetry = func(err error) {
		c.metrics.Retry(op)
		if c.log != nil {
			c.log.Warn(ctx, "retrying gateway call", "op", op, "error", err.Error())
		}
	}
	return p
}

func call[T any](ctx context.Context, c *GatewayClient, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	return retryx.Value(ctx, c.policy(ctx, op), fn)
}

func callOnce[T any](ctx context.Context, c *GatewayClient, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	p := c.policy(ctx, op)
	p.MaxRetries = 0
	return retryx.Value(ctx, p, fn)
}

func (c *GatewayClient) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	return callOnce(ctx, c, "users.create", func(ctx context.Context) (*models.User, error) {
		return c.repos.Users(c.db).Create(ctx, user)
	})
}

func (c *GatewayClient) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return call(ctx, c, "users.by_email", func(ctx context.Context) (*models.User, error) {
		return c.repos.Users(c.db).GetByEmail(ctx, email)
	})
}

func (c *GatewayClient) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return call(ctx, c, "users.by_id", func(ctx context.Context) (*models.User, error) {
		return c.repos.Users(c.db).GetByID(ctx, id)
	})
}

func (c *GatewayClient) GetUserSummaries(ctx context.Context, ids []int64) ([]models.UserSummary, error) {
	return call(ctx, c, "users.by_ids", func(ctx context.Context) ([]models.UserSummary, error) {
		return c.repos.Users(c.db).GetSummaries(ctx, ids)
	})
}

func (c *GatewayClient) SearchUsers(ctx context.Context, text string, limit int) ([]models.UserSummary, error) {
	return call(ctx, c, "users.search", func(ctx context.Context) ([]models.UserSummary, error) {
		return c.repos.Users(c.db).Search(ctx, text, limit)
	})
}

func (c *GatewayClient) UpdateProfileURL(ctx context.Context, userID int64, url string) error {
	_, err := call(ctx, c, "users.update_profile_url", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.repos.Users(c.db).UpdateProfileURL(ctx, userID, url)
	})
	return err
}

func (c *GatewayClient) CreatePost(ctx context.Context, post *models.Post) (*models.Post, error) {
	return callOnce(ctx, c, "posts.create", func(ctx context.Context) (*models.Post, error) {
		return c.repos.Posts(c.db).Create(ctx, post)
	})
}

func (c *GatewayClient) ListPostsByUsers(ctx context.Context, userIDs []int64) ([]models.Post, error) {
	return call(ctx, c, "posts.by_users", func(ctx context.Context) ([]models.Post, error) {
		return c.repos.Posts(c.db).ListByUsers(ctx, userIDs)
	})
}

func (c *GatewayClient) ListPostsByUser(ctx context.Context, userID int64, limit int) ([]models.Post, error) {
	return call(ctx, c, "posts.by_user", func(ctx context.Context) ([]models.Post, error) {
		return c.repos.Posts(c.db).ListByUser(ctx, userID, limit)
	})
}

func (c *GatewayClient) CountPosts(ctx context.Context, userID int64) (int64, error) {
	return call(ctx, c, "posts.count", func(ctx context.Context) (int64, error) {
		return c.repos.Posts(c.db).CountByUser(ctx, userID)
	})
}

func (c *GatewayClient) FollowExists(ctx context.Context, followerID, followeeID int64) (bool, error) {
	return call(ctx, c, "follows.exists", func(ctx context.Context) (bool, error) {
		return c.repos.Follows(c.db).Exists(ctx, followerID, followeeID)
	})
}

// InsertFollow is safe to retry: a replayed insert surfaces as
// common.ErrorAlreadyExists, which callers treat as success.
func (c *GatewayClient) InsertFollow(ctx context.Context, followerID, followeeID int64) error {
	_, err := call(ctx, c, "follows.insert", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.repos.Follows(c.db).Insert(ctx, followerID, followeeID)
	})
	return err
}

func (c *GatewayClient) DeleteFollow(ctx context.Context, followerID, followeeID int64) (bool, error) {
	return call(ctx, c, "follows.delete", func(ctx context.Context) (bool, error) {
		return c.repos.Follows(c.db).Delete(ctx, followerID, followeeID)
	})
}

func (c *GatewayClient) Followees(ctx context.Context, followerID int64) ([]int64, error) {
	return call(ctx, c, "follows.followees", func(ctx context.Context) ([]int64, error) {
		return c.repos.Follows(c.db).Followees(ctx, followerID)
	})
}

func (c *GatewayClient) CountFollowers(ctx context.Context, userID int64) (int64, error) {
	return call(ctx, c, "follows.count_followers", func(ctx context.Context) (int64, error) {
		return c.repos.Follows(c.db).CountFollowers(ctx, userID)
	})
}

func (c *GatewayClient) CountFollowing(ctx context.Context, userID int64) (int64, error) {
	return call(ctx, c, "follows.count_following", func(ctx context.Context) (int64, error) {
		return c.repos.Follows(c.db).CountFollowing(ctx, userID)
	})
}

func (c *GatewayClient) PutObject(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	return call(ctx, c, "storage.put", func(ctx context.Context) (string, error) {
		return c.store.Put(ctx, key, data, contentType)
	})
}
