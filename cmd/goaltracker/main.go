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

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/example/goal-tracker/internal/application"
	"github.com/example/goal-tracker/internal/calendar"
	"github.com/example/goal-tracker/internal/config"
	httptransport "github.com/example/goal-tracker/internal/http"
	"github.com/example/goal-tracker/internal/persistence/sqlite"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A missing .env file is fine; the environment may be set directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	storage, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := storage.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	idGenerator := uuid.NewString
	tokenGenerator := func() string {
		return strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
	}
	now := time.Now

	goalRepo := newGoalRepositoryAdapter(storage)
	actionableRepo := newActionableRepositoryAdapter(storage)
	completionRepo := newCompletionRepositoryAdapter(storage)
	communityRepo := newCommunityRepositoryAdapter(storage)
	communityCatalog := newCommunityCatalogAdapter(storage)
	userRepo := newUserRepositoryAdapter(storage)
	credentialStore := newCredentialStoreAdapter(storage)
	sessionRepo := newSessionRepositoryAdapter(storage)

	materializer := calendar.NewMaterializer(calendar.MaterializerOptions{
		DefaultStartTime:       cfg.DefaultStartTime,
		DefaultDurationMinutes: cfg.DefaultDurationMinutes,
		DefaultTimezone:        cfg.DefaultTimezone,
	})
	coordinator := calendar.NewCoordinator(
		newGoalSourceAdapter(storage),
		newActionableSourceAdapter(storage),
		newCompletionSourceAdapter(storage),
		materializer,
		logger,
	)

	goalService := application.NewGoalService(goalRepo, communityCatalog, idGenerator, now, logger)
	actionableService := application.NewActionableService(actionableRepo, goalRepo, idGenerator, now, logger)
	completionService := application.NewCompletionService(completionRepo, actionableRepo, goalRepo, idGenerator, now, logger)
	communityService := application.NewCommunityService(communityRepo, idGenerator, now, logger)
	userService := application.NewUserService(userRepo, idGenerator, now, logger)
	authService := application.NewAuthService(credentialStore, sessionRepo, nil, tokenGenerator, now, cfg.SessionTTL, logger)
	calendarService := application.NewCalendarService(coordinator, now, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:        httptransport.NewAuthHandler(authService, logger),
		Users:       httptransport.NewUserHandler(userService, logger),
		Communities: httptransport.NewCommunityHandler(communityService, logger),
		Goals:       httptransport.NewGoalHandler(goalService, logger),
		Actionables: httptransport.NewActionableHandler(actionableService, logger),
		Completions: httptransport.NewCompletionHandler(completionService, logger),
		Calendar:    httptransport.NewCalendarHandler(calendarService, logger),
	})

	protected := httptransport.RequireSession(authService, logger)(router)
	handler := httptransport.RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublicRoute(r) {
			router.ServeHTTP(w, r)
			return
		}
		protected.ServeHTTP(w, r)
	}))

	purger := cron.New()
	if _, err := purger.AddFunc(cfg.SessionPurgeSchedule, func() {
		if err := authService.PurgeExpiredSessions(context.Background()); err != nil {
			logger.Error("failed to purge expired sessions", "error", err)
		}
	}); err != nil {
		logger.Error("failed to schedule session purge", "schedule", cfg.SessionPurgeSchedule, "error", err)
		os.Exit(1)
	}
	purger.Start()
	defer purger.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("goal tracker API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

// isPublicRoute reports whether a request may bypass session validation.
// Logging in and registering an account are the only anonymous operations.
func isPublicRoute(r *http.Request) bool {
	if r.Method != http.MethodPost {
		return false
	}
	path := strings.TrimSuffix(r.URL.Path, "/")
	return path == "/sessions" || path == "/users"
}
