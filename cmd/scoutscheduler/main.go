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

	"github.com/example/scout-scheduler/internal/application"
	"github.com/example/scout-scheduler/internal/config"
	httptransport "github.com/example/scout-scheduler/internal/http"
	"github.com/example/scout-scheduler/internal/persistence"
	"github.com/example/scout-scheduler/internal/persistence/sqlite"
	"github.com/example/scout-scheduler/internal/suggest"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Error("failed to close store", "error", cerr)
		}
	}()

	if err := store.Migrate(ctx); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	if err := bootstrapLeader(ctx, sqlite.NewLeaderRepository(store), cfg.LeaderEmail, cfg.LeaderPassword, time.Now); err != nil {
		logger.Error("failed to bootstrap leader account", "error", err)
		os.Exit(1)
	}

	handler := buildHandler(cfg, store, logger)

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

	logger.Info("scout scheduler API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

// buildHandler wires services, handlers and middleware into the root handler.
func buildHandler(cfg config.Config, store *sqlite.Store, logger *slog.Logger) http.Handler {
	now := time.Now
	idGenerator := uuid.NewString
	tokenGenerator := uuid.NewString

	var summarizer application.Summarizer
	if cfg.WriterAPIKey != "" {
		summarizer = suggest.NewClient(suggest.Options{
			BaseURL: cfg.WriterBaseURL,
			APIKey:  cfg.WriterAPIKey,
			Model:   cfg.WriterModel,
		})
	}

	badgeRepo := sqlite.NewBadgeRepository(store)
	sessionRepo := sqlite.NewSessionRepository(store)
	holidayRepo := sqlite.NewHolidayRepository(store)
	leaderRepo := sqlite.NewLeaderRepository(store)
	authSessionRepo := sqlite.NewAuthSessionRepository(store)

	badgeService := application.NewBadgeServiceWithLogger(badgeRepo, now, logger)
	sessionService := application.NewSessionServiceWithLogger(sessionRepo, idGenerator, now, logger)
	holidayService := application.NewHolidayServiceWithLogger(holidayRepo, idGenerator, now, logger)
	plannerService := application.NewPlannerServiceWithLogger(badgeRepo, sessionRepo, holidayRepo, sessionRepo, summarizer, idGenerator, now, cfg.PlanWindowDays, cfg.SuggestionTTL, cfg.SuggestionCap, logger)
	badgeService.NotifyOnChange(plannerService.InvalidateSummaries)
	authService := application.NewAuthServiceWithLogger(leaderRepo, authSessionRepo, nil, tokenGenerator, now, cfg.SessionTTL, logger)

	return httptransport.NewRouter(httptransport.RouterConfig{
		Auth:     httptransport.NewAuthHandler(authService, logger),
		Badges:   httptransport.NewBadgeHandler(badgeService, logger),
		Sessions: httptransport.NewSessionHandler(sessionService, logger),
		Holidays: httptransport.NewHolidayHandler(holidayService, logger),
		Plans:    httptransport.NewPlanHandler(plannerService, logger),
		Protect:  httptransport.RequireSession(authService, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
		},
	})
}

// bootstrapLeader ensures the configured leader account exists with the
// configured password. The stored hash is refreshed on every start so a
// changed environment password takes effect immediately.
func bootstrapLeader(ctx context.Context, leaders persistence.LeaderRepository, email, password string, now func() time.Time) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return errors.New("leader email is required")
	}

	hash, err := application.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash leader password: %w", err)
	}

	leader := persistence.Leader{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now().UTC(),
		UpdatedAt:    now().UTC(),
	}

	if existing, err := leaders.GetLeaderByEmail(ctx, email); err == nil {
		leader.ID = existing.ID
		leader.DisplayName = existing.DisplayName
		leader.CreatedAt = existing.CreatedAt
	} else if !errors.Is(err, persistence.ErrNotFound) {
		return fmt.Errorf("look up leader: %w", err)
	}

	if err := leaders.UpsertLeader(ctx, leader); err != nil {
		return fmt.Errorf("store leader: %w", err)
	}
	return nil
}
