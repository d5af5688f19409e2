package main

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

	"github.com/cmlabs-hris/hris-attendance-go/internal/config"
	appHTTP "github.com/cmlabs-hris/hris-attendance-go/internal/handler/http"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/postgresql"
	activityService "github.com/cmlabs-hris/hris-attendance-go/internal/service/activity"
	attendanceService "github.com/cmlabs-hris/hris-attendance-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/hris-attendance-go/internal/service/auth"
	breakService "github.com/cmlabs-hris/hris-attendance-go/internal/service/breaks"
	employeeService "github.com/cmlabs-hris/hris-attendance-go/internal/service/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/service/identity"
	reportService "github.com/cmlabs-hris/hris-attendance-go/internal/service/report"
	ruleService "github.com/cmlabs-hris/hris-attendance-go/internal/service/rule"
	"github.com/go-chi/httplog/v3"
)

const (
	appName    = "hris-attendance"
	appVersion = "v1.0.0"
)

func newLogger(cfg *config.Config, level slog.Level) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(false)
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", appName),
		slog.String("version", appVersion),
		slog.String("env", cfg.App.Env),
	)
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level := parseLevel(cfg.App.LogLevel)
	logger := newLogger(cfg, level)
	slog.SetDefault(logger)
	response.ExposeErrorCause(cfg.IsDevelopment())

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), database.Options{
		MaxConns:   cfg.Database.MaxConns,
		MinConns:   cfg.Database.MinConns,
		LogQueries: cfg.Database.LogQueries,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if cfg.App.AutoMigrate {
		if err := db.Migrate(); err != nil {
			return err
		}
	}

	systemClock := clock.System()
	tx := postgresql.NewTransactor(db)

	sessionRepo := postgresql.NewSessionRepository(db)
	breakRepo := postgresql.NewBreakRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	directory := postgresql.NewEmployeeDirectory(db)
	reportRepo := postgresql.NewReportRepository(db)
	ruleRepo := postgresql.NewRuleRepository(db)
	activityRepo := postgresql.NewActivityRepository(db)
	accountRepo := postgresql.NewAccountRepository(db)
	loginSessionRepo := postgresql.NewLoginSessionRepository(db)
	resolver := identity.NewResolver(postgresql.NewIdentityRepository(db))

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	attendanceSvc := attendanceService.NewAttendanceService(tx, sessionRepo, directory, resolver, systemClock, cfg.Attendance)
	breakSvc := breakService.NewBreakService(tx, breakRepo, sessionRepo, resolver, systemClock, cfg.Attendance)
	reportSvc := reportService.NewReportService(reportRepo, sessionRepo, directory, systemClock)
	ruleSvc := ruleService.NewRuleService(ruleRepo)
	activitySvc := activityService.NewActivityService(activityRepo, resolver, systemClock)
	employeeSvc := employeeService.NewEmployeeService(tx, employeeRepo)
	authSvc := serviceAuth.NewAuthService(accountRepo, loginSessionRepo, JWTService, systemClock)

	router := appHTTP.NewRouter(appHTTP.RouterOptions{
		Logger:      logger,
		LogLevel:    level,
		CORSOrigins: cfg.App.CORSOrigins,
	}, JWTService, authSvc, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(authSvc),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc, resolver),
		Break:      appHTTP.NewBreakHandler(breakSvc, resolver),
		Report:     appHTTP.NewReportHandler(reportSvc),
		Rule:       appHTTP.NewRuleHandler(ruleSvc),
		Onboarding: appHTTP.NewOnboardingHandler(employeeSvc),
		Activity:   appHTTP.NewActivityHandler(activitySvc, resolver),
		Health:     appHTTP.NewHealthHandler(db, systemClock),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Attendance.CronEnabled {
		scheduler := cron.NewScheduler(ctx)
		cron.NewAttendanceJobs(attendanceSvc, systemClock).RegisterJobs(scheduler)
		scheduler.Start()
		defer scheduler.Stop()
	} else {
		slog.Info("Cron scheduler disabled")
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
