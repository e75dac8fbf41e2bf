package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"paydesk/internal/domain/attendance"
	"paydesk/internal/domain/audit"
	"paydesk/internal/domain/auth"
	"paydesk/internal/domain/benefit"
	"paydesk/internal/domain/company"
	"paydesk/internal/domain/dashboard"
	"paydesk/internal/domain/deduction"
	"paydesk/internal/domain/employee"
	"paydesk/internal/domain/leave"
	"paydesk/internal/domain/payroll"
	"paydesk/internal/platform/authz"
	"paydesk/internal/platform/config"
	cryptoutil "paydesk/internal/platform/crypto"
	"paydesk/internal/platform/db"
	"paydesk/internal/platform/email"
	"paydesk/internal/platform/jobs"
	"paydesk/internal/platform/metrics"
	"paydesk/internal/transport/http/api"
	attendancehandler "paydesk/internal/transport/http/handlers/attendance"
	audithandler "paydesk/internal/transport/http/handlers/audit"
	authhandler "paydesk/internal/transport/http/handlers/auth"
	benefithandler "paydesk/internal/transport/http/handlers/benefits"
	companyhandler "paydesk/internal/transport/http/handlers/company"
	dashboardhandler "paydesk/internal/transport/http/handlers/dashboard"
	deductionhandler "paydesk/internal/transport/http/handlers/deductions"
	employeehandler "paydesk/internal/transport/http/handlers/employees"
	leavehandler "paydesk/internal/transport/http/handlers/leave"
	paymenthandler "paydesk/internal/transport/http/handlers/payments"
	"paydesk/internal/transport/http/middleware"
)

// devSecret signs tokens when JWT_SECRET is unset outside production.
const devSecret = "paydesk-development-secret"

type App struct {
	Config  config.Config
	DB      *db.Pool
	Jobs    *jobs.Service
	Metrics *metrics.Collector
	Router  http.Handler
}

// New connects to the database, applies migrations when enabled and builds
// the router. The caller owns Close.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.JWTSecret == "" {
		slog.Warn("JWT_SECRET not set, using the development secret")
		cfg.JWTSecret = devSecret
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, os.DirFS(cfg.MigrationsDir)); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}

	box, err := cryptoutil.New(cfg.DataEncryptionKey)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("data encryption key: %w", err)
	}
	perms, err := authz.Default()
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("authz: %w", err)
	}
	evaluator, err := benefit.NewEvaluator()
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("benefit evaluator: %w", err)
	}

	collector := metrics.New()
	jobSvc := jobs.New(pool, collector)
	auditSvc := audit.New(pool)

	authSvc := auth.NewService(auth.NewStore(pool), cfg.JWTSecret, cfg.TokenTTL)
	companyStore := company.NewStore(pool)
	companySvc := company.NewService(companyStore, email.New(cfg), jobSvc, company.Options{
		DefaultCurrency: cfg.DefaultCurrency,
		InvitationTTL:   cfg.InvitationTTL,
		EmailFrom:       cfg.EmailFrom,
	})
	employeeStore := employee.NewStore(pool, box)
	benefitStore := benefit.NewStore(pool)
	deductionStore := deduction.NewStore(pool)
	paymentStore := payroll.NewStore(pool)
	attendanceSvc := attendance.NewService(attendance.NewStore(pool), companyStore, time.Local)
	leaveSvc := leave.NewService(leave.NewStore(pool))
	payrollSvc := payroll.NewService(payroll.Deps{
		Payments:        paymentStore,
		Employees:       employeeStore,
		Benefits:        benefitStore,
		Deductions:      deductionStore,
		Hours:           attendanceSvc,
		Currency:        companyStore,
		Evaluator:       evaluator,
		Jobs:            jobSvc,
		Metrics:         collector,
		DefaultCurrency: cfg.DefaultCurrency,
	})
	dashboardSvc := &dashboard.Service{
		Employees:  employeeStore,
		Benefits:   benefitStore,
		Deductions: deductionStore,
		Payments:   paymentStore,
		Records:    attendanceSvc,
		Leave:      leaveSvc,
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Logger(slog.Default()))
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	if cfg.MetricsEnabled {
		router.Use(middleware.Metrics(collector))
	}
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.SensitiveRateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, map[string]string{"status": "ok"}, middleware.GetRequestID(r.Context()))
	})
	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		reqID := middleware.GetRequestID(r.Context())
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			api.Fail(w, http.StatusServiceUnavailable, "not_ready", "database not ready", reqID)
			return
		}
		api.Success(w, map[string]string{"status": "ready"}, reqID)
	})
	if cfg.MetricsEnabled {
		router.Handle("/metrics", collector.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(authSvc, companySvc, auditSvc).RegisterRoutes(r)
		companyhandler.NewHandler(companySvc, authSvc, perms, auditSvc).RegisterRoutes(r)
		employeehandler.NewHandler(employeeStore, perms, auditSvc).RegisterRoutes(r)
		benefithandler.NewHandler(benefitStore, evaluator, perms, auditSvc).RegisterRoutes(r)
		deductionhandler.NewHandler(deductionStore, perms, auditSvc).RegisterRoutes(r)
		paymenthandler.NewHandler(payrollSvc, perms, auditSvc, middleware.NewIdempotencyStore(pool)).RegisterRoutes(r)
		attendancehandler.NewHandler(attendanceSvc, perms, auditSvc).RegisterRoutes(r)
		leavehandler.NewHandler(leaveSvc, perms, auditSvc).RegisterRoutes(r)
		dashboardhandler.NewHandler(dashboardSvc, perms).RegisterRoutes(r)
		audithandler.NewHandler(auditSvc, perms).RegisterRoutes(r)
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.Fail(w, http.StatusNotFound, "not_found", "route not found", middleware.GetRequestID(r.Context()))
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		api.Fail(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed", middleware.GetRequestID(r.Context()))
	})

	return &App{Config: cfg, DB: pool, Jobs: jobSvc, Metrics: collector, Router: router}, nil
}

func (a *App) Close() {
	a.DB.Close()
}

// Run serves until SIGINT or SIGTERM, then drains in-flight requests and
// the job worker.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	workerCtx, stopWorker := context.WithCancel(context.WithoutCancel(ctx))
	a.Jobs.Start(workerCtx)

	srv := &http.Server{
		Addr:              a.Config.Addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("paydesk listening", "addr", a.Config.Addr, "env", a.Config.Environment)
		errCh <- srv.ListenAndServe()
	}()

	var serveErr error
	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			serveErr = err
		}
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.ShutdownTimeout)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			serveErr = fmt.Errorf("shutdown: %w", err)
		}
		cancel()
	}

	stopWorker()
	a.Jobs.Wait()
	return serveErr
}
