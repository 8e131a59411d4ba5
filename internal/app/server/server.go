package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/valkey-io/valkey-go"

	"hrmweb/internal/apiclient"
	"hrmweb/internal/domain/attendance"
	"hrmweb/internal/domain/audit"
	"hrmweb/internal/domain/auth"
	"hrmweb/internal/domain/employees"
	"hrmweb/internal/domain/helpdesk"
	"hrmweb/internal/domain/leave"
	"hrmweb/internal/domain/org"
	"hrmweb/internal/domain/payroll"
	"hrmweb/internal/domain/performance"
	"hrmweb/internal/domain/recruitment"
	"hrmweb/internal/domain/reports"
	"hrmweb/internal/notify"
	"hrmweb/internal/platform/config"
	cryptoutil "hrmweb/internal/platform/crypto"
	"hrmweb/internal/platform/db"
	"hrmweb/internal/platform/jobs"
	"hrmweb/internal/platform/metrics"
	"hrmweb/internal/session"
	"hrmweb/internal/transport/http/api"
	adminhandler "hrmweb/internal/transport/http/handlers/admin"
	attendancehandler "hrmweb/internal/transport/http/handlers/attendance"
	authhandler "hrmweb/internal/transport/http/handlers/auth"
	employeeshandler "hrmweb/internal/transport/http/handlers/employees"
	helpdeskhandler "hrmweb/internal/transport/http/handlers/helpdesk"
	leavehandler "hrmweb/internal/transport/http/handlers/leave"
	notificationshandler "hrmweb/internal/transport/http/handlers/notifications"
	payrollhandler "hrmweb/internal/transport/http/handlers/payroll"
	performancehandler "hrmweb/internal/transport/http/handlers/performance"
	recruitmenthandler "hrmweb/internal/transport/http/handlers/recruitment"
	reportshandler "hrmweb/internal/transport/http/handlers/reports"
	"hrmweb/internal/transport/http/middleware"
	"hrmweb/internal/transport/http/shared"
	"hrmweb/internal/transport/http/views"
)

const (
	toastPruneSchedule  = "@every 5m"
	auditPruneSchedule  = "@daily"
	shutdownTimeout     = 10 * time.Second
	readyTimeout        = 2 * time.Second
	auditMemoryCapacity = 1000
	// multipart framing on top of the largest allowed file
	bodyOverhead = 1 << 20
)

type pinger interface {
	Ping(ctx context.Context) error
}

type App struct {
	Config   config.Config
	Router   http.Handler
	Store    session.Store
	Sessions *session.Manager
	Toasts   *notify.Hub
	Client   *apiclient.Client
	Audit    *audit.Service
	Jobs     *jobs.Service
	Metrics  *metrics.Collector

	closers []func()
}

// Run loads configuration, serves until SIGINT or SIGTERM and then drains
// in-flight requests.
func Run() error {
	cfg := config.Load()
	setupLogging(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()
	app.Jobs.Start(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
		// Cancelled on shutdown so toast streams end.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HRMS web listening", "addr", cfg.Addr, "api", cfg.APIBaseURL, "sessionStore", cfg.SessionStore)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func setupLogging(cfg config.Config) {
	var handler slog.Handler
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	slog.SetDefault(slog.New(handler))
}

// New builds the session store, the backend client and the router. Jobs
// are registered but not started.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	app := &App{Config: cfg, Metrics: metrics.New()}

	store, auditStore, err := app.openStore(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Store = store
	app.Audit = audit.NewService(auditStore)
	app.Sessions = session.NewManager(store, cfg.SessionTTL, cfg.IsProduction())
	app.Toasts = notify.NewHub(cfg.ToastTimeout)
	app.Client = apiclient.New(cfg.APIBaseURL, cfg.APITimeout, app.Metrics)

	web := shared.NewWeb(views.MustRenderer(), app.Sessions, app.Toasts, cfg.GoogleClientID)
	web.Audit = app.Audit
	app.Client.OnUnauthorized = web.Unauthorized

	app.Jobs = jobs.New()
	if err := app.scheduleJobs(); err != nil {
		app.Close()
		return nil, err
	}

	app.Router = app.routes(web)
	return app, nil
}

// openStore picks the session backend. The audit trail lives in Postgres
// when a database is configured and in memory otherwise.
func (app *App) openStore(ctx context.Context) (session.Store, audit.Store, error) {
	cfg := app.Config
	sealer, err := cryptoutil.New(cfg.SessionSecret)
	if err != nil {
		return nil, nil, fmt.Errorf("session secret: %w", err)
	}

	switch cfg.SessionStore {
	case config.SessionStorePostgres:
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("db connect: %w", err)
		}
		app.closers = append(app.closers, pool.Close)
		if cfg.RunMigrations {
			if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
				return nil, nil, fmt.Errorf("migrations: %w", err)
			}
		}
		return session.NewPostgresStore(pool, sealer), audit.NewPostgresStore(pool), nil
	case config.SessionStoreValkey:
		client, err := session.NewValkeyClient(cfg.ValkeyURL)
		if err != nil {
			return nil, nil, fmt.Errorf("valkey connect: %w", err)
		}
		app.closers = append(app.closers, closeValkey(client))
		return session.NewValkeyStore(client, sealer), audit.NewMemoryStore(auditMemoryCapacity), nil
	default:
		return session.NewMemoryStore(), audit.NewMemoryStore(auditMemoryCapacity), nil
	}
}

func closeValkey(client valkey.Client) func() {
	return func() { client.Close() }
}

func (app *App) scheduleJobs() error {
	if err := app.Jobs.Schedule(app.Config.SessionSweepSchedule, jobs.JobSessionSweep, func(ctx context.Context) (any, error) {
		removed, err := app.Sessions.Sweep(ctx)
		return map[string]int{"removed": removed}, err
	}); err != nil {
		return fmt.Errorf("schedule %s: %w", jobs.JobSessionSweep, err)
	}
	if err := app.Jobs.Schedule(toastPruneSchedule, jobs.JobToastPrune, func(context.Context) (any, error) {
		return map[string]int{"pruned": app.Toasts.PruneIdle()}, nil
	}); err != nil {
		return fmt.Errorf("schedule %s: %w", jobs.JobToastPrune, err)
	}
	if err := app.Jobs.Schedule(auditPruneSchedule, jobs.JobAuditRetention, func(ctx context.Context) (any, error) {
		removed, err := app.Audit.Prune(ctx, app.Config.AuditRetention)
		return map[string]int64{"removed": removed}, err
	}); err != nil {
		return fmt.Errorf("schedule %s: %w", jobs.JobAuditRetention, err)
	}
	return nil
}

func (app *App) Close() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		app.closers[i]()
	}
	app.closers = nil
}

func (app *App) routes(web *shared.Web) http.Handler {
	cfg := app.Config
	client := app.Client

	authSvc := auth.NewService(client)
	orgSvc := org.NewService(client)
	employeesSvc := employees.NewService(client)
	leaveSvc := leave.NewService(client)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer(web.InternalError()))
	router.Use(middleware.SecureHeaders(cfg.IsProduction(), cfg.GoogleClientID != ""))
	router.Use(middleware.BodyLimit(cfg.MaxUploadBytes + bodyOverhead))
	router.NotFound(middleware.Session(app.Sessions)(web.NotFound()).ServeHTTP)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/readyz", app.handleReady)
	if cfg.MetricsEnabled {
		router.Get("/internal/metrics", app.handleMetrics)
	}
	router.Handle("/static/*", http.StripPrefix("/static/", views.Static()))

	router.Group(func(r chi.Router) {
		r.Use(middleware.Session(app.Sessions))

		authhandler.NewHandler(web, authSvc, cfg.LoginRateLimitPerMinute).RegisterRoutes(r)
		notificationshandler.NewHandler(app.Toasts).RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			reportshandler.NewHandler(web, reports.NewService(client), authSvc, leaveSvc).RegisterRoutes(r)
			employeeshandler.NewHandler(web, employeesSvc, orgSvc, cfg.MaxUploadBytes).RegisterRoutes(r)
			attendancehandler.NewHandler(web, attendance.NewService(client)).RegisterRoutes(r)
			leavehandler.NewHandler(web, leaveSvc).RegisterRoutes(r)
			payrollhandler.NewHandler(web, payroll.NewService(client), cfg.CompanyName).RegisterRoutes(r)
			performancehandler.NewHandler(web, performance.NewService(client), employeesSvc).RegisterRoutes(r)
			recruitmenthandler.NewHandler(web, recruitment.NewService(client), cfg.MaxUploadBytes).RegisterRoutes(r)
			helpdeskhandler.NewHandler(web, helpdesk.NewService(client)).RegisterRoutes(r)
			adminhandler.NewHandler(web, authSvc, orgSvc).RegisterRoutes(r)
		})
	})
	return router
}

// handleReady checks the session store and the backend. Either failing
// makes the instance unready.
func (app *App) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	checks := map[string]string{"sessionStore": "ok", "backend": "ok"}
	ready := true
	if p, ok := app.Store.(pinger); ok {
		if err := p.Ping(ctx); err != nil {
			checks["sessionStore"] = err.Error()
			ready = false
		}
	}
	if err := app.Client.Ping(ctx); err != nil {
		checks["backend"] = err.Error()
		ready = false
	}
	if !ready {
		api.WriteJSON(w, http.StatusServiceUnavailable, api.Envelope{Success: false, Data: checks, Error: &api.Error{Code: "not_ready", Message: "dependencies unavailable"}})
		return
	}
	api.Success(w, r, checks)
}

func (app *App) handleMetrics(w http.ResponseWriter, r *http.Request) {
	snapshot := app.Metrics.Snapshot()
	snapshot["toastSessions"] = app.Toasts.Len()
	snapshot["jobs"] = app.Jobs.LastRuns()
	api.Success(w, r, snapshot)
}
