package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"deptportal/internal/apiclient"
	"deptportal/internal/domain/dashboard"
	"deptportal/internal/platform/config"
	"deptportal/internal/platform/crypto"
	"deptportal/internal/platform/db"
	"deptportal/internal/platform/jobs"
	"deptportal/internal/platform/logging"
	"deptportal/internal/platform/metrics"
	"deptportal/internal/session"
	"deptportal/internal/transport/http/api"
	authhandler "deptportal/internal/transport/http/handlers/auth"
	employeehandler "deptportal/internal/transport/http/handlers/employee"
	managerhandler "deptportal/internal/transport/http/handlers/manager"
	"deptportal/internal/transport/http/middleware"
	"deptportal/internal/transport/http/shared"
	"deptportal/internal/transport/http/views"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	Config   config.Config
	DB       *db.Pool
	Router   http.Handler
	Metrics  *metrics.Collector
	Sessions *session.Manager
	Boards   *dashboard.Registry
	Jobs     *jobs.Service
}

// New wires the portal. The Postgres pool is opened only for the postgres
// session backend.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	log := logging.Base()
	app := &App{
		Config:  cfg,
		Metrics: metrics.New(),
		Jobs:    jobs.New(log),
	}

	store, sweep, err := app.sessionStore(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Sessions, err = session.NewManager(store, cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("session manager: %w", err)
	}

	client := apiclient.New(cfg.APIBaseURL,
		apiclient.WithTimeout(cfg.APITimeout),
		apiclient.WithMetrics(app.Metrics),
	)
	app.Boards = dashboard.NewRegistry(client, cfg.PageSize)

	// Rows left behind by a previous process are cleared before serving.
	app.Jobs.RunNow(ctx, jobs.JobSessionSweep, sweep)
	app.Jobs.Every(jobs.JobSessionSweep, cfg.SweepInterval, sweep)
	app.Jobs.Every(jobs.JobBoardPrune, cfg.SweepInterval, func(context.Context) (int64, error) {
		return int64(app.Boards.Prune(cfg.SessionTTL)), nil
	})

	renderer, err := views.New()
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("views: %w", err)
	}
	pages := &shared.Responder{Views: renderer, Flashes: app.Sessions, NavigateDelay: cfg.NavigateDelay}

	app.Router = app.routes(client, pages)
	return app, nil
}

func (a *App) sessionStore(ctx context.Context) (session.Store, jobs.RunFunc, error) {
	if a.Config.SessionBackend != config.SessionBackendPostgres {
		store := session.NewMemoryStore()
		return store, func(context.Context) (int64, error) {
			return int64(store.Sweep()), nil
		}, nil
	}

	pool, err := db.Connect(ctx, a.Config.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("db connect: %w", err)
	}
	a.DB = pool
	if a.Config.RunMigrations {
		if err := db.Migrate(ctx, pool); err != nil {
			return nil, nil, fmt.Errorf("migrations: %w", err)
		}
	}
	sealer, err := crypto.NewSealer(a.Config.SessionSecret)
	if err != nil {
		return nil, nil, fmt.Errorf("token sealer: %w", err)
	}
	store := session.NewPostgresStore(pool, sealer)
	return store, store.Sweep, nil
}

func (a *App) routes(client *apiclient.Client, pages *shared.Responder) http.Handler {
	cfg := a.Config
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(a.Metrics))
	router.Use(chimw.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.LoadSession(a.Sessions))

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		pages.Error(w, r, http.StatusNotFound, "This page does not exist.")
	})

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if a.DB != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := a.DB.Ping(ctx); err != nil {
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			snap := a.Metrics.Snapshot()
			snap["activeBoards"] = a.Boards.Len()
			if last, ok := a.Jobs.Last(jobs.JobSessionSweep); ok {
				snap["lastSessionSweep"] = map[string]any{"affected": last.Affected, "failed": last.Err != nil}
			}
			api.Success(w, snap, middleware.GetRequestID(r.Context()))
		})
	}

	limited := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages.Error(w, r, http.StatusTooManyRequests, "Too many attempts. Please wait a minute and try again.")
	})
	credentialLimit := middleware.CredentialRateLimit(cfg.RateLimitPerMinute, time.Minute, middleware.WithLimitedHandler(limited))

	authhandler.NewHandler(client, a.Sessions, a.Boards, pages).RegisterRoutes(router, credentialLimit)
	employeehandler.NewHandler(client, pages).RegisterRoutes(router)
	managerhandler.NewHandler(a.Boards, pages).RegisterRoutes(router)

	return router
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
		a.DB = nil
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func Run(ctx context.Context, cfg config.Config) error {
	log := logging.Base()
	app, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	jobCtx, stopJobs := context.WithCancel(ctx)
	defer stopJobs()
	app.Jobs.Start(jobCtx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Str("api", cfg.APIBaseURL).Str("sessions", cfg.SessionBackend).Msg("department portal listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	stopJobs()
	app.Jobs.Wait()
	return nil
}
