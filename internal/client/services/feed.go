package services

import (
	"context"
	"sort"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/dmitrijs2005/snapgram/internal/client/client"
	"github.com/dmitrijs2005/snapgram/internal/common"
	"github.com/dmitrijs2005/snapgram/internal/logging"
	"github.com/dmitrijs2005/snapgram/internal/metrics"
	"github.com/dmitrijs2005/snapgram/internal/models"
	"github.com/samber/lo"
)

// FeedService builds the home feed: posts by everyone the viewer follows,
// newest first, each joined with its author.
type FeedService interface {
	ComposeFeed(ctx context.Context, viewerID int64) ([]models.FeedItem, error)
}

type feedService struct {
	client    client.Client
	authors   *ristretto.Cache
	authorTTL time.Duration
	metrics   *metrics.Metrics
	log       logging.Logger
}

// NewFeedService caches author summaries for authorTTL. A zero TTL disables
// the cache.
func NewFeedService(c client.Client, authorTTL time.Duration, m *metrics.Metrics, log logging.Logger) (FeedService, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10_000,
		MaxCost:     1_000,
		BufferItems: 64,
		// Every author costs 1, so MaxCost is the number of cached authors.
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}
	return &feedService{client: c, authors: cache, authorTTL: authorTTL, metrics: m, log: log}, nil
}

func (s *feedService) ComposeFeed(ctx context.Context, viewerID int64) ([]models.FeedItem, error) {
	if viewerID == 0 {
		return nil, common.ErrorNotAuthenticated
	}

	followees, err := s.client.Followees(ctx, viewerID)
	if err != nil {
		s.metrics.Feed(metrics.ResultError)
		return nil, err
	}
	followees = lo.Uniq(followees)
	if len(followees) == 0 {
		s.metrics.Feed(metrics.ResultOK)
		return []models.FeedItem{}, nil
	}

	posts, err := s.client.ListPostsByUsers(ctx, followees)
	if err != nil {
		s.metrics.Feed(metrics.ResultError)
		return nil, err
	}
	sortNewestFirst(posts)

	authorIDs := lo.Uniq(lo.Map(posts, func(p models.Post, _ int) int64 { return p.UserID }))
	authors := s.resolveAuthors(ctx, authorIDs)

	items := lo.Map(posts, func(p models.Post, _ int) models.FeedItem {
		return models.FeedItem{Post: p, Author: authors[p.UserID]}
	})

	items, err = discard(ctx, items)
	if err != nil {
		s.metrics.Feed(metrics.ResultError)
		return nil, err
	}
	s.metrics.Feed(metrics.ResultOK)
	return items, nil
}

// sortNewestFirst orders by created_at desc, breaking ties by id desc.
func sortNewestFirst(posts []models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID > posts[j].ID
	})
}

// resolveAuthors never fails: authors it cannot load are simply absent
// from the result.
func (s *feedService) resolveAuthors(ctx context.Context, ids []int64) map[int64]*models.UserSummary {
	out := make(map[int64]*models.UserSummary, len(ids))
	missing := make([]int64, 0, len(ids))

	for _, id := range ids {
		if v, ok := s.authors.Get(id); ok {
			if a, ok := v.(models.UserSummary); ok {
				out[id] = &a
				continue
			}
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return out
	}

	found, err := s.client.GetUserSummaries(ctx, missing)
	if err != nil {
		s.log.Warn(ctx, "feed author lookup failed", "authors", len(missing), "error", err.Error())
		return out
	}

	for _, a := range found {
		a := a
		out[a.ID] = &a
		if s.authorTTL > 0 {
			s.authors.SetWithTTL(a.ID, a, 1, s.authorTTL)
		}
	}
	s.authors.Wait()
	return out
}
