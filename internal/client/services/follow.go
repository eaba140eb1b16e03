package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/snapgram/internal/client/client"
	"github.com/dmitrijs2005/snapgram/internal/common"
	"github.com/dmitrijs2005/snapgram/internal/lockx"
	"github.com/dmitrijs2005/snapgram/internal/logging"
	"github.com/dmitrijs2005/snapgram/internal/metrics"
	"github.com/dmitrijs2005/snapgram/internal/models"
)

// FollowService manages follow edges. Every returned Relationship is the
// state the gateway confirmed.
type FollowService interface {
	GetRelationship(ctx context.Context, viewerID, targetID int64) (models.Relationship, error)
	Follow(ctx context.Context, viewerID, targetID int64) error
	Unfollow(ctx context.Context, viewerID, targetID int64) error
	Toggle(ctx context.Context, viewerID, targetID int64) (models.Relationship, error)
}

type followPair struct {
	viewer, target int64
}

type followService struct {
	client  client.Client
	locks   *lockx.Keyed[followPair]
	metrics *metrics.Metrics
	log     logging.Logger
}

func NewFollowService(c client.Client, m *metrics.Metrics, log logging.Logger) FollowService {
	return &followService{client: c, locks: &lockx.Keyed[followPair]{}, metrics: m, log: log}
}

func checkPair(viewerID, targetID int64) error {
	if viewerID == 0 {
		return common.ErrorNotAuthenticated
	}
	if viewerID == targetID {
		return common.ErrorInvalidOperation
	}
	return nil
}

func (s *followService) GetRelationship(ctx context.Context, viewerID, targetID int64) (models.Relationship, error) {
	if viewerID == 0 || viewerID == targetID {
		return models.Relationship{}, nil
	}
	ok, err := s.client.FollowExists(ctx, viewerID, targetID)
	if err != nil {
		return models.Relationship{}, err
	}
	return discard(ctx, models.Relationship{Following: ok})
}

func (s *followService) Follow(ctx context.Context, viewerID, targetID int64) error {
	if err := checkPair(viewerID, targetID); err != nil {
		return err
	}
	unlock, err := s.locks.Lock(ctx, followPair{viewerID, targetID})
	if err != nil {
		return err
	}
	defer unlock()

	_, err = s.follow(ctx, viewerID, targetID)
	return err
}

func (s *followService) Unfollow(ctx context.Context, viewerID, targetID int64) error {
	if err := checkPair(viewerID, targetID); err != nil {
		return err
	}
	unlock, err := s.locks.Lock(ctx, followPair{viewerID, targetID})
	if err != nil {
		return err
	}
	defer unlock()

	_, err = s.unfollow(ctx, viewerID, targetID)
	return err
}

// Toggle reads the current state and applies the opposite transition while
// holding the pair's lock for both steps.
func (s *followService) Toggle(ctx context.Context, viewerID, targetID int64) (models.Relationship, error) {
	if err := checkPair(viewerID, targetID); err != nil {
		return models.Relationship{}, err
	}
	unlock, err := s.locks.Lock(ctx, followPair{viewerID, targetID})
	if err != nil {
		return models.Relationship{}, err
	}
	defer unlock()

	following, err := s.client.FollowExists(ctx, viewerID, targetID)
	if err != nil {
		return models.Relationship{}, err
	}

	if following {
		if _, err := s.unfollow(ctx, viewerID, targetID); err != nil {
			return models.Relationship{Following: true}, err
		}
		return models.Relationship{Following: false}, nil
	}

	if _, err := s.follow(ctx, viewerID, targetID); err != nil {
		return models.Relationship{Following: false}, err
	}
	return models.Relationship{Following: true}, nil
}

// follow must run under the pair lock. It reports whether an edge was added.
func (s *followService) follow(ctx context.Context, viewerID, targetID int64) (bool, error) {
	exists, err := s.client.FollowExists(ctx, viewerID, targetID)
	if err != nil {
		s.metrics.Follow(metrics.ResultError)
		return false, err
	}
	if exists {
		s.metrics.Follow(metrics.ResultNoop)
		return false, nil
	}

	if err := s.client.InsertFollow(ctx, viewerID, targetID); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			s.metrics.Follow(metrics.ResultNoop)
			return false, nil
		}
		s.metrics.Follow(metrics.ResultError)
		s.log.Warn(ctx, "follow failed", "viewer", viewerID, "target", targetID, "error", err.Error())
		return false, err
	}

	s.metrics.Follow(metrics.ResultOK)
	s.log.Info(ctx, "followed", "viewer", viewerID, "target", targetID)
	return true, nil
}

// unfollow must run under the pair lock. A missing edge is not an error.
func (s *followService) unfollow(ctx context.Context, viewerID, targetID int64) (bool, error) {
	deleted, err := s.client.DeleteFollow(ctx, viewerID, targetID)
	if err != nil {
		s.metrics.Unfollow(metrics.ResultError)
		s.log.Warn(ctx, "unfollow failed", "viewer", viewerID, "target", targetID, "error", err.Error())
		return false, err
	}
	if !deleted {
		s.metrics.Unfollow(metrics.ResultNoop)
		return false, nil
	}
	s.metrics.Unfollow(metrics.ResultOK)
	s.log.Info(ctx, "unfollowed", "viewer", viewerID, "target", targetID)
	return true, nil
}
