package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/snapgram/internal/client/client"
	"github.com/dmitrijs2005/snapgram/internal/client/config"
	"github.com/dmitrijs2005/snapgram/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/snapgram/internal/client/services"
	"github.com/dmitrijs2005/snapgram/internal/client/session"
	"github.com/dmitrijs2005/snapgram/internal/gateway/storage"
	"github.com/dmitrijs2005/snapgram/internal/logging"
	"github.com/dmitrijs2005/snapgram/internal/metrics"
	"github.com/dmitrijs2005/snapgram/internal/models"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// pingTimeout bounds a single liveness probe of the gateway.
const pingTimeout = 3 * time.Second

// searcher is the part of services.LiveSearch the REPL uses.
type searcher interface {
	Query(ctx context.Context, text string) ([]models.UserSummary, error)
	Stop()
}

type App struct {
	config   *config.Config
	auth     services.AuthService
	follows  services.FollowService
	feed     services.FeedService
	profiles services.ProfileService
	search   searcher
	metrics  *metrics.Metrics
	log      logging.Logger
	localDB  *sql.DB

	reader *bufio.Reader
	out    io.Writer

	mu   sync.RWMutex
	mode Mode
}

// NewApp wires the local session database, the gateway client and the
// services described by c.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log, err := logging.New(c.LogBackend, c.LogLevel, os.Stderr)
	if err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, c.LocalDBPath)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", c.LocalDBPath, "error", err)
		return nil, err
	}

	meta := metadata.NewSQLiteRepository(db)
	secret, err := session.LoadOrCreateSecret(ctx, meta, c.SessionSecret)
	if err != nil {
		log.Error(ctx, "error loading session secret", "error", err)
		_ = db.Close()
		return nil, err
	}

	m := metrics.New()
	sessions := session.NewStore(meta, secret, c.SessionTTL, log)

	store := storage.NewS3Store(storage.Config{
		Region:        c.S3Region,
		User:          c.S3User,
		Password:      c.S3Password,
		BaseEndpoint:  c.S3BaseEndpoint,
		Bucket:        c.S3Bucket,
		PublicBaseURL: c.S3PublicBaseURL,
	}, &http.Client{Timeout: c.RequestTimeout})

	gw, err := client.Open(ctx, c.GatewayDSN, store, client.Options{
		RetryDelay: c.RetryDelay,
		Metrics:    m,
		Logger:     log,
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	feed, err := services.NewFeedService(gw, c.AuthorCacheTTL, m, log)
	if err != nil {
		_ = gw.Close()
		_ = db.Close()
		return nil, err
	}

	follows := services.NewFollowService(gw, m, log)

	return &App{
		config:   c,
		auth:     services.NewAuthService(gw, sessions, log),
		follows:  follows,
		feed:     feed,
		profiles: services.NewProfileService(gw, follows, m, log),
		search:   services.NewLiveSearch(services.NewSearchService(gw), c.SearchDebounce),
		metrics:  m,
		log:      log,
		localDB:  db,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		mode:     ModeOffline,
	}, nil
}

func (a *App) Mode() Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed && a.log != nil {
		a.log.Info(context.Background(), "switched mode", "mode", string(mode))
	}
}

// Run starts the optional metrics endpoint and the REPL, and releases
// every resource once the REPL returns.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	defer func() {
		a.search.Stop()
		if err := a.auth.Close(ctx); err != nil {
			a.log.Warn(ctx, "closing gateway", "error", err)
		}
		if err := a.localDB.Close(); err != nil {
			a.log.Warn(ctx, "closing local database", "error", err)
		}
	}()

	if addr := a.config.MetricsAddr; addr != "" {
		go func() {
			if err := a.metrics.Serve(ctx, addr); err != nil {
				a.log.Error(ctx, "metrics endpoint stopped", "addr", addr, "error", err)
			}
		}()
	}

	a.Root(ctx)
}

// checkOnline probes the gateway once and records the outcome.
func (a *App) checkOnline(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := a.auth.Ping(pctx)
	cancel()

	if err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	a.checkOnline(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// commandContext bounds one command by the configured request timeout.
func (a *App) commandContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config == nil || a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}
