// Package metrics exposes the client's prometheus counters. Every method is
// safe to call on a nil *Metrics, which turns instrumentation off.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultOK    = "ok"
	ResultNoop  = "noop"
	ResultError = "error"
)

type Metrics struct {
	Registry *prometheus.Registry

	FollowRequests   *prometheus.CounterVec
	UnfollowRequests *prometheus.CounterVec
	FeedsComposed    *prometheus.CounterVec
	Uploads          *prometheus.CounterVec
	GatewayRetries   *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		FollowRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "snapgram_follow_requests_total",
				Help: "Follow requests by outcome",
			},
			[]string{"result"},
		),
		UnfollowRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "snapgram_unfollow_requests_total",
				Help: "Unfollow requests by outcome",
			},
			[]string{"result"},
		),
		FeedsComposed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "snapgram_feeds_composed_total",
				Help: "Feed compositions by outcome",
			},
			[]string{"result"},
		),
		Uploads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "snapgram_uploads_total",
				Help: "Content uploads by kind and outcome",
			},
			[]string{"kind", "result"},
		),
		GatewayRetries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "snapgram_gateway_retries_total",
				Help: "Gateway calls retried after a transient failure",
			},
			[]string{"op"},
		),
	}

	m.Registry.MustRegister(m.FollowRequests)
	m.Registry.MustRegister(m.UnfollowRequests)
	m.Registry.MustRegister(m.FeedsComposed)
	m.Registry.MustRegister(m.Uploads)
	m.Registry.MustRegister(m.GatewayRetries)

	return m
}

func (m *Metrics) Follow(result string) {
	if m != nil {
		m.FollowRequests.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) Unfollow(result string) {
	if m != nil {
		m.UnfollowRequests.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) Feed(result string) {
	if m != nil {
		m.FeedsComposed.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) Upload(kind, result string) {
	if m != nil {
		m.Uploads.WithLabelValues(kind, result).Inc()
	}
}

func (m *Metrics) Retry(op string) {
	if m != nil {
		m.GatewayRetries.WithLabelValues(op).Inc()
	}
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
