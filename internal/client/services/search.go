package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/snapgram/internal/client/client"
	"github.com/dmitrijs2005/snapgram/internal/common"
	"github.com/dmitrijs2005/snapgram/internal/models"
)

// SearchLimit caps the number of users a search returns.
const SearchLimit = 100

type SearchService interface {
	SearchUsers(ctx context.Context, query string) ([]models.UserSummary, error)
}

type searchService struct {
	client client.Client
}

func NewSearchService(c client.Client) SearchService {
	return &searchService{client: c}
}

// SearchUsers matches query case-insensitively against usernames and names.
// A blank query matches nothing and does not reach the gateway.
func (s *searchService) SearchUsers(ctx context.Context, query string) ([]models.UserSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.UserSummary{}, nil
	}
	users, err := s.client.SearchUsers(ctx, query, SearchLimit)
	if err != nil {
		return nil, err
	}
	return discard(ctx, users)
}

// LiveSearch runs as-you-type searches. Each Query waits for the debounce
// interval and is superseded by any later Query; a superseded call returns
// common.ErrorStaleResult and its result, if any, is dropped.
type LiveSearch struct {
	search   SearchService
	debounce time.Duration

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

func NewLiveSearch(search SearchService, debounce time.Duration) *LiveSearch {
	return &LiveSearch{search: search, debounce: debounce}
}

func (l *LiveSearch) begin(ctx context.Context) (context.Context, uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
	}
	l.seq++
	ctx, l.cancel = context.WithCancel(ctx)
	return ctx, l.seq
}

func (l *LiveSearch) current(seq uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.seq == seq
}

// finish releases the query context once seq is done, unless a newer query
// already replaced it.
func (l *LiveSearch) finish(seq uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.seq == seq && l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

func (l *LiveSearch) Query(ctx context.Context, text string) ([]models.UserSummary, error) {
	qctx, seq := l.begin(ctx)
	defer l.finish(seq)

	if l.debounce > 0 {
		t := time.NewTimer(l.debounce)
		select {
		case <-t.C:
		case <-qctx.Done():
			t.Stop()
			if !l.current(seq) {
				return nil, common.ErrorStaleResult
			}
			return nil, ctx.Err()
		}
	}
	if !l.current(seq) {
		return nil, common.ErrorStaleResult
	}

	users, err := l.search.SearchUsers(qctx, text)
	if !l.current(seq) {
		return nil, common.ErrorStaleResult
	}
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Stop cancels the query in flight, if any.
func (l *LiveSearch) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.seq++
}
