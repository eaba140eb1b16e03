package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/snapgram/internal/common"
	"github.com/dmitrijs2005/snapgram/internal/models"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPeople(gw *fakeGateway) {
	gw.addUser("anna", "Anna", "Karenina")
	gw.addUser("jo", "Joanna", "Smith")
	gw.addUser("bob", "Bob", "Builder")
}

func names(us []models.UserSummary) []string {
	return lo.Map(us, func(u models.UserSummary, _ int) string { return u.UserName })
}

func TestSearchUsers(t *testing.T) {
	gw := newFakeGateway()
	seedPeople(gw)
	s := NewSearchService(gw)

	got, err := s.SearchUsers(context.Background(), "ann")
	require.NoError(t, err)
	assert.Equal(t, []string{"anna", "jo"}, names(got))

	got, err = s.SearchUsers(context.Background(), "  BOB ")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, names(got))
}

func TestSearchUsers_BlankQueryMakesNoCall(t *testing.T) {
	gw := newFakeGateway()
	seedPeople(gw)
	s := NewSearchService(gw)

	for _, q := range []string{"", "   ", "\t"} {
		got, err := s.SearchUsers(context.Background(), q)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	}
	assert.Zero(t, gw.callCount("users.search"))
}

func TestSearchUsers_Error(t *testing.T) {
	gw := newFakeGateway()
	gw.failOn("users.search", common.ErrorTransientGateway)

	_, err := NewSearchService(gw).SearchUsers(context.Background(), "x")
	require.ErrorIs(t, err, common.ErrorTransientGateway)
}

func TestLiveSearch_SupersededDuringDebounceNeverCalls(t *testing.T) {
	gw := newFakeGateway()
	seedPeople(gw)
	live := NewLiveSearch(NewSearchService(gw), 50*time.Millisecond)

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = live.Query(context.Background(), "an")
	}()
	time.Sleep(10 * time.Millisecond)

	got, err := live.Query(context.Background(), "ann")
	wg.Wait()

	require.ErrorIs(t, firstErr, common.ErrorStaleResult)
	require.NoError(t, err)
	assert.Equal(t, []string{"anna", "jo"}, names(got))
	assert.Equal(t, 1, gw.callCount("users.search"))
}

func TestLiveSearch_InFlightResultIgnoredWhenSuperseded(t *testing.T) {
	gw := newFakeGateway()
	seedPeople(gw)
	live := NewLiveSearch(NewSearchService(gw), 0)

	started := make(chan struct{})
	release := make(chan struct{})
	var first int32
	gw.beforeCall = func(op string) {
		if atomic.CompareAndSwapInt32(&first, 0, 1) {
			close(started)
			<-release
		}
	}

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = live.Query(context.Background(), "bob")
	}()
	<-started

	got, err := live.Query(context.Background(), "ann")
	close(release)
	wg.Wait()

	require.NoError(t, err)
	assert.Equal(t, []string{"anna", "jo"}, names(got))
	require.ErrorIs(t, firstErr, common.ErrorStaleResult)
}

func TestLiveSearch_ParentCancel(t *testing.T) {
	live := NewLiveSearch(NewSearchService(newFakeGateway()), time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := live.Query(ctx, "x")
	require.True(t, errors.Is(err, context.Canceled))
}

func TestLiveSearch_Stop(t *testing.T) {
	gw := newFakeGateway()
	live := NewLiveSearch(NewSearchService(gw), time.Second)

	done := make(chan error, 1)
	go func() {
		_, err := live.Query(context.Background(), "x")
		done <- err
	}()
	time.Sleep(10 * time.Millisecond)
	live.Stop()

	select {
	case err := <-done:
		require.ErrorIs(t, err, common.ErrorStaleResult)
	case <-time.After(2 * time.Second):
		t.Fatal("query not stopped")
	}
	assert.Zero(t, gw.callCount("users.search"))
}
