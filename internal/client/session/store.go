// Package session keeps the signed-in user's identity in the local metadata
// store as a signed, expiring token. The value is never cached in memory:
// every Get reads and verifies it again.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/snapgram/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/snapgram/internal/logging"
)

type Store struct {
	repo   metadata.Repository
	secret []byte
	ttl    time.Duration
	log    logging.Logger
	now    func() time.Time
}

func NewStore(repo metadata.Repository, secret []byte, ttl time.Duration, log logging.Logger) *Store {
	return &Store{repo: repo, secret: secret, ttl: ttl, log: log, now: time.Now}
}

// Get returns the signed-in user id. ok is false when there is no session.
// A token that fails verification or has expired is removed.
func (s *Store) Get(ctx context.Context) (int64, bool, error) {
	raw, err := s.repo.Get(ctx, metadata.KeySession)
	if err != nil {
		return 0, false, err
	}
	if len(raw) == 0 {
		return 0, false, nil
	}

	id, err := userIDFromToken(string(raw), s.secret, s.now)
	if err != nil {
		if s.log != nil {
			s.log.Warn(ctx, "discarding session", "reason", err.Error())
		}
		if cerr := s.Clear(ctx); cerr != nil {
			return 0, false, errors.Join(err, cerr)
		}
		return 0, false, nil
	}
	return id, true, nil
}

func (s *Store) Set(ctx context.Context, userID int64) error {
	tok, err := generateToken(userID, s.secret, s.now(), s.ttl)
	if err != nil {
		return err
	}
	return s.repo.Set(ctx, metadata.KeySession, []byte(tok))
}

func (s *Store) Clear(ctx context.Context) error {
	return s.repo.Delete(ctx, metadata.KeySession)
}
