package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/snapgram/internal/client/client"
	"github.com/dmitrijs2005/snapgram/internal/common"
	"github.com/dmitrijs2005/snapgram/internal/filex"
	"github.com/dmitrijs2005/snapgram/internal/gateway/storage"
	"github.com/dmitrijs2005/snapgram/internal/lockx"
	"github.com/dmitrijs2005/snapgram/internal/logging"
	"github.com/dmitrijs2005/snapgram/internal/metrics"
	"github.com/dmitrijs2005/snapgram/internal/models"
	"golang.org/x/sync/errgroup"
)

// ProfilePostsLimit caps the posts listed on a profile.
const ProfilePostsLimit = 60

const (
	uploadKindAvatar = "avatar"
	uploadKindPost   = "post"
)

// nowFunc is a seam for tests.
var nowFunc = time.Now

// ProfileService aggregates profile data and handles uploads.
//
// Uploads happen in two steps: store the bytes, then record the URL. A
// failure of the first step is common.ErrorUpload with nothing to show for
// it. A failure of the second is common.ErrorUpdate and still hands back the
// stored URL so that only the record step has to be repeated.
type ProfileService interface {
	GetStats(ctx context.Context, userID int64) models.Stats
	GetProfile(ctx context.Context, viewerID, userID int64) (*models.Profile, error)
	UpdateProfileImage(ctx context.Context, userID int64, data []byte, ext string) (string, error)
	LinkProfileImage(ctx context.Context, userID int64, url string) error
	UploadPost(ctx context.Context, userID int64, data []byte, ext string, caption string) (*models.Post, error)
}

type profileService struct {
	client  client.Client
	follows FollowService
	avatars *lockx.Keyed[int64]
	metrics *metrics.Metrics
	log     logging.Logger
}

func NewProfileService(c client.Client, follows FollowService, m *metrics.Metrics, log logging.Logger) ProfileService {
	return &profileService{client: c, follows: follows, avatars: &lockx.Keyed[int64]{}, metrics: m, log: log}
}

// GetStats runs the three counts concurrently. A failed count reads as 0.
func (s *profileService) GetStats(ctx context.Context, userID int64) models.Stats {
	var st models.Stats
	var g errgroup.Group

	count := func(name string, dst *int64, fn func(context.Context, int64) (int64, error)) {
		g.Go(func() error {
			n, err := fn(ctx, userID)
			if err != nil {
				s.log.Warn(ctx, "stats count failed", "count", name, "user_id", userID, "error", err.Error())
				return nil
			}
			*dst = n
			return nil
		})
	}
	count("posts", &st.PostCount, s.client.CountPosts)
	count("followers", &st.FollowerCount, s.client.CountFollowers)
	count("following", &st.FollowingCount, s.client.CountFollowing)

	_ = g.Wait()
	return st
}

func (s *profileService) GetProfile(ctx context.Context, viewerID, userID int64) (*models.Profile, error) {
	u, err := s.client.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	p := &models.Profile{
		User:  u.Summary(),
		Stats: s.GetStats(ctx, userID),
		Own:   viewerID != 0 && viewerID == userID,
	}

	posts, err := s.client.ListPostsByUser(ctx, userID, ProfilePostsLimit)
	if err != nil {
		s.log.Warn(ctx, "profile posts failed", "user_id", userID, "error", err.Error())
		posts = []models.Post{}
	}
	p.Posts = posts

	rel, err := s.follows.GetRelationship(ctx, viewerID, userID)
	if err != nil {
		s.log.Warn(ctx, "profile relationship failed", "user_id", userID, "error", err.Error())
	}
	p.Relationship = rel

	return discard(ctx, p)
}

func (s *profileService) UpdateProfileImage(ctx context.Context, userID int64, data []byte, ext string) (string, error) {
	if userID == 0 {
		return "", common.ErrorNotAuthenticated
	}
	unlock, err := s.avatars.Lock(ctx, userID)
	if err != nil {
		return "", err
	}
	defer unlock()

	url, err := s.client.PutObject(ctx, storage.AvatarKey(userID, ext), data, filex.ContentTypeFor(ext))
	if err != nil {
		s.metrics.Upload(uploadKindAvatar, metrics.ResultError)
		return "", fmt.Errorf("%w: %w", common.ErrorUpload, err)
	}

	if err := s.link(ctx, userID, url); err != nil {
		s.metrics.Upload(uploadKindAvatar, metrics.ResultError)
		return url, err
	}
	s.metrics.Upload(uploadKindAvatar, metrics.ResultOK)
	return url, nil
}

func (s *profileService) LinkProfileImage(ctx context.Context, userID int64, url string) error {
	if userID == 0 {
		return common.ErrorNotAuthenticated
	}
	if strings.TrimSpace(url) == "" {
		return fmt.Errorf("%w: empty url", common.ErrorValidation)
	}
	unlock, err := s.avatars.Lock(ctx, userID)
	if err != nil {
		return err
	}
	defer unlock()

	return s.link(ctx, userID, url)
}

func (s *profileService) link(ctx context.Context, userID int64, url string) error {
	if err := s.client.UpdateProfileURL(ctx, userID, url); err != nil {
		s.log.Warn(ctx, "profile url update failed", "user_id", userID, "url", url, "error", err.Error())
		return fmt.Errorf("%w: %w", common.ErrorUpdate, err)
	}
	s.log.Info(ctx, "profile picture updated", "user_id", userID)
	return nil
}

// UploadPost stores the image and creates the post. When only the insert
// fails the error is common.ErrorUpdate and the returned post has ImageURL
// set and no ID.
func (s *profileService) UploadPost(ctx context.Context, userID int64, data []byte, ext string, caption string) (*models.Post, error) {
	if userID == 0 {
		return nil, common.ErrorNotAuthenticated
	}

	url, err := s.client.PutObject(ctx, storage.PostKey(userID, nowFunc(), ext), data, filex.ContentTypeFor(ext))
	if err != nil {
		s.metrics.Upload(uploadKindPost, metrics.ResultError)
		return nil, fmt.Errorf("%w: %w", common.ErrorUpload, err)
	}

	draft := &models.Post{UserID: userID, ImageURL: url}
	if c := strings.TrimSpace(caption); c != "" {
		draft.Caption = &c
	}

	post, err := s.client.CreatePost(ctx, draft)
	if err != nil {
		s.metrics.Upload(uploadKindPost, metrics.ResultError)
		s.log.Warn(ctx, "post insert failed", "user_id", userID, "url", url, "error", err.Error())
		return draft, fmt.Errorf("%w: %w", common.ErrorUpdate, err)
	}
	s.metrics.Upload(uploadKindPost, metrics.ResultOK)
	s.log.Info(ctx, "post uploaded", "user_id", userID, "post_id", post.ID)
	return post, nil
}
