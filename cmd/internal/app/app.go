// Package app wires the tally server runtime: config, logging, persistence,
// the HTTP surface, and the background session sweeper.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"tally/cmd/identity"
	"tally/cmd/internal/api"
	"tally/cmd/internal/auth/session"
	"tally/cmd/internal/commitment"
	"tally/cmd/internal/feedback"
	"tally/cmd/internal/milestone"
	"tally/cmd/internal/timelog"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

// App is the tally server runtime.
type App struct {
	cfg Config
	log Logger

	dbPool    *pgxpool.Pool
	dbEnabled bool

	sessions *session.Service
	handler  *api.Handler
}

// New constructs a fully wired App instance from config and logger.
func New(cfg Config, log Logger) (*App, error) {
	if log == nil {
		log = NewLogger(cfg.LogLevel, cfg.LogFormat)
	}

	if err := ValidateSecurityConfig(cfg); err != nil {
		return nil, err
	}

	sessCfg, err := session.LoadConfigFromEnv()
	if err != nil {
		return nil, err
	}
	apiCfg, err := api.LoadConfigFromEnv()
	if err != nil {
		return nil, err
	}

	a := &App{cfg: cfg, log: log}

	var deps wiredDeps
	if cfg.DatabaseURL == "" {
		log.Info("db.disabled.inmemory_store")
		deps = newMemoryDeps()
	} else {
		pool, err := NewDBPool(context.Background(), cfg)
		if err != nil {
			return nil, err
		}
		log.Info("db.enabled.postgres_store")
		a.dbPool = pool
		a.dbEnabled = true
		deps, err = newPostgresDeps(pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
	}

	sessions, err := session.NewService(sessCfg, deps.SessionStore())
	if err != nil {
		if a.dbPool != nil {
			a.dbPool.Close()
		}
		return nil, err
	}
	deps.Sessions = sessions
	a.sessions = sessions

	gen, err := feedback.NewFromEnv()
	if err != nil {
		if a.dbPool != nil {
			a.dbPool.Close()
		}
		return nil, err
	}
	if _, noop := gen.(feedback.Noop); noop {
		log.Info("feedback.disabled.no_api_key")
	}
	deps.Feedback = gen

	handler, err := api.NewHandler(log, apiCfg, deps.Deps)
	if err != nil {
		if a.dbPool != nil {
			a.dbPool.Close()
		}
		return nil, err
	}
	a.handler = handler

	return a, nil
}

// wiredDeps carries api.Deps plus the raw session store, which the service is
// built on after the stores exist.
type wiredDeps struct {
	api.Deps
	sessionStore session.Store
}

func (d wiredDeps) SessionStore() session.Store { return d.sessionStore }

// newMemoryDeps wires the in-memory dev mode. The memory stores resolve
// cross-entity lookups through injected closures instead of importing each
// other.
func newMemoryDeps() wiredDeps {
	users := identity.NewMemoryStore()
	commitments := commitment.NewMemoryStore()

	logs := timelog.NewMemoryStore(func(ctx context.Context, commitmentID string) (timelog.CommitmentView, bool) {
		c, ok := commitments.Lookup(ctx, commitmentID)
		if !ok {
			return timelog.CommitmentView{}, false
		}
		return timelog.CommitmentView{ID: c.ID, UserID: c.UserID, Title: c.Title, Category: c.Category}, true
	})
	commitments.SetMinutesFunc(logs.SumMinutesForCommitment)

	milestones := milestone.NewMemoryStore(func(ctx context.Context, commitmentID string) (string, bool) {
		c, ok := commitments.Lookup(ctx, commitmentID)
		return c.UserID, ok
	})

	sessionStore := session.NewMemoryStore(func(ctx context.Context, userID string) (session.User, error) {
		u, err := users.GetByID(ctx, userID)
		if err != nil {
			if identity.IsNotFound(err) {
				return session.User{}, session.ErrNotFound
			}
			return session.User{}, err
		}
		return session.User{ID: u.ID, Username: u.Username}, nil
	})

	return wiredDeps{
		Deps: api.Deps{
			Users:       users,
			Commitments: commitments,
			Logs:        logs,
			Milestones:  milestones,
		},
		sessionStore: sessionStore,
	}
}

func newPostgresDeps(pool *pgxpool.Pool) (wiredDeps, error) {
	users, err := identity.NewPostgresStore(pool)
	if err != nil {
		return wiredDeps{}, err
	}

	return wiredDeps{
		Deps: api.Deps{
			Users:       users,
			Commitments: commitment.NewPostgresStore(pool),
			Logs:        timelog.NewPostgresStore(pool),
			Milestones:  milestone.NewPostgresStore(pool),
		},
		sessionStore: session.NewPostgresStore(pool),
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal
// server error. The session sweeper runs alongside when configured.
func (a *App) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	registerHTTP(mux, a.log, a.cfg, a.dbPool, a.dbEnabled, a.handler)

	var root http.Handler = mux
	root = a.handler.WithSession(root)
	root = WithSecurityHeaders(root)
	root = WithCORS(root, a.cfg, a.log)
	root = WithRequestLogging(root, a.log)

	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           root,
		ReadHeaderTimeout: nonZeroDuration(a.cfg.ReadHeaderTimeout, 5*time.Second),
		ReadTimeout:       nonZeroDuration(a.cfg.ReadTimeout, 15*time.Second),
		WriteTimeout:      nonZeroDuration(a.cfg.WriteTimeout, 15*time.Second),
		IdleTimeout:       nonZeroDuration(a.cfg.IdleTimeout, 60*time.Second),
		MaxHeaderBytes:    nonZeroInt(a.cfg.MaxHeaderBytes, 1<<20),
	}

	a.log.Info("server.start",
		"addr", a.cfg.HTTPAddr,
		"url", runtimeBaseURL(a.cfg.HTTPAddr),
		"db_enabled", a.dbEnabled,
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.log.Info("server.stop", "reason", "context_done")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.log.Error("server.shutdown.fail", "err", err)
			return err
		}
		return nil
	})

	if a.cfg.SessionSweepInterval > 0 {
		g.Go(func() error {
			return a.runSweeper(gctx)
		})
	}

	err := g.Wait()

	if a.dbPool != nil {
		a.dbPool.Close()
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		a.log.Error("server.fail", "err", err)
		return err
	}
	a.log.Info("server.stopped")
	return nil
}

// runSweeper deletes expired session rows on a fixed interval. Failures are
// logged and retried on the next tick.
func (a *App) runSweeper(ctx context.Context) error {
	ticker := time.NewTicker(a.cfg.SessionSweepInterval)
	defer ticker.Stop()

	a.log.Info("session.sweeper.start", "interval", a.cfg.SessionSweepInterval)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n, err := a.sessions.SweepExpired(ctx, time.Now().UTC())
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				a.log.Error("session.sweeper.fail", "err", err)
				continue
			}
			if n > 0 {
				a.log.Info("session.sweeper.swept", "count", n)
			}
		}
	}
}

func nonZeroDuration(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}

func nonZeroInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
