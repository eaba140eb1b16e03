package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()

	m.Follow(ResultOK)
	m.Follow(ResultOK)
	m.Follow(ResultNoop)
	m.Unfollow(ResultError)
	m.Feed(ResultOK)
	m.Upload("avatar", ResultOK)
	m.Retry("posts.by_users")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.FollowRequests.WithLabelValues(ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FollowRequests.WithLabelValues(ResultNoop)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UnfollowRequests.WithLabelValues(ResultError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FeedsComposed.WithLabelValues(ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Uploads.WithLabelValues("avatar", ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GatewayRetries.WithLabelValues("posts.by_users")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.Follow(ResultOK)
		m.Unfollow(ResultOK)
		m.Feed(ResultOK)
		m.Upload("post", ResultError)
		m.Retry("ping")
	})
}

func TestHandler_ExposesCounters(t *testing.T) {
	m := New()
	m.Follow(ResultOK)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `snapgram_follow_requests_total{result="ok"} 1`), string(body))
}
