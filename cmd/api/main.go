package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/config"
	appHTTP "github.com/cmlabs-hris/attendance-engine-go/internal/handler/http"
	"github.com/cmlabs-hris/attendance-engine-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/cron"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-engine-go/internal/repository/cached"
	"github.com/cmlabs-hris/attendance-engine-go/internal/repository/postgresql"
	approvalService "github.com/cmlabs-hris/attendance-engine-go/internal/service/approval"
	geofenceService "github.com/cmlabs-hris/attendance-engine-go/internal/service/geofence"
	punchService "github.com/cmlabs-hris/attendance-engine-go/internal/service/punch"
	requestService "github.com/cmlabs-hris/attendance-engine-go/internal/service/request"
	scheduleService "github.com/cmlabs-hris/attendance-engine-go/internal/service/schedule"
	statsService "github.com/cmlabs-hris/attendance-engine-go/internal/service/stats"
	"github.com/go-chi/httplog/v3"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// punchLimiterIdle drops a user's punch bucket after this long without punches.
const punchLimiterIdle = 10 * time.Minute

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := newLogger(cfg.App)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := postgresql.Migrate(ctx, db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	policy, err := approvalService.LoadPolicy(cfg.Engine.ApprovalPolicyPath)
	if err != nil {
		return fmt.Errorf("load approval policy: %w", err)
	}

	store := cache.New(cfg.Engine.CacheTTL, 2*cfg.Engine.CacheTTL)

	tx := postgresql.NewTransactor(db)
	organizationRepo := cached.NewOrganizationRepository(postgresql.NewOrganizationRepository(db, cfg.Engine.DefaultUTCOffsetMinutes), store)
	geoFenceRepo := cached.NewGeoFenceRepository(postgresql.NewGeoFenceRepository(db), store)
	userRepo := postgresql.NewUserRepository(db)
	workScheduleRepo := postgresql.NewWorkScheduleRepository(db)
	punchRepo := postgresql.NewPunchRepository(db)
	anomalyRepo := postgresql.NewAnomalyRepository(db)
	requestRepo := postgresql.NewRequestRepository(db)
	approvalRepo := postgresql.NewApprovalRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	punchSvc := punchService.NewPunchService(tx, punchRepo, anomalyRepo, geoFenceRepo, workScheduleRepo, organizationRepo, nil)
	geoFenceSvc := geofenceService.NewGeoFenceService(geoFenceRepo, nil)
	scheduleSvc := scheduleService.NewScheduleService(tx, workScheduleRepo, organizationRepo, nil)
	requestSvc := requestService.NewRequestService(tx, requestRepo, approvalRepo, organizationRepo,
		approvalService.NewChainStrategy(policy, userRepo), nil)
	approvalSvc := approvalService.NewApprovalService(tx, requestRepo, approvalRepo, nil)
	statsSvc := statsService.NewStatsService(punchRepo, requestRepo, anomalyRepo, organizationRepo, workScheduleRepo, userRepo)

	router := appHTTP.NewRouter(JWTService, appHTTP.Handlers{
		Punch:    appHTTP.NewPunchHandler(punchSvc),
		GeoFence: appHTTP.NewGeoFenceHandler(geoFenceSvc),
		Schedule: appHTTP.NewScheduleHandler(scheduleSvc),
		Request:  appHTTP.NewRequestHandler(requestSvc),
		Approval: appHTTP.NewApprovalHandler(approvalSvc),
		Stats:    appHTTP.NewStatsHandler(statsSvc),
	}, appHTTP.RouterOptions{
		Logger:      logger,
		CORSOrigins: cfg.App.CORSOrigins,
		PunchLimiter: middleware.NewKeyedRateLimiter(
			rate.Every(time.Minute/time.Duration(cfg.Engine.PunchRatePerMinute)),
			cfg.Engine.PunchRatePerMinute,
			store,
			punchLimiterIdle,
		),
	})

	scheduler := cron.NewScheduler()
	cron.NewMissingPunchJobs(organizationRepo, punchRepo, anomalyRepo, nil).
		RegisterJobs(scheduler, cfg.Engine.MissingPunchInterval)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newLogger(app config.AppConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(app.LogLevel))); err != nil {
		level = slog.LevelInfo
	}

	logFormat := httplog.SchemaECS.Concise(app.Env != "production")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-engine"),
		slog.String("env", app.Env),
	)
}
