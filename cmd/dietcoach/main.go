package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dietcoach/internal/adapter/backend"
	"dietcoach/internal/adapter/file"
	adapthttp "dietcoach/internal/adapter/http"
	"dietcoach/internal/adapter/memory"
	"dietcoach/internal/adapter/postgres"
	"dietcoach/internal/adapter/redis"
	"dietcoach/internal/app"
	"dietcoach/internal/config"
	"dietcoach/internal/domain"
	"dietcoach/internal/logging"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kv, closer, err := openStore(ctx, cfg.Store)
	if err != nil {
		logger.Fatal("store open", zap.String("backend", cfg.Store.Backend), zap.Error(err))
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}

	formula, err := domain.NewCalorieFormula(cfg.CalorieFormula)
	if err != nil {
		logger.Fatal("calorie formula", zap.Error(err))
	}

	store := app.NewLocalStore(kv, logger)
	client := backend.New(cfg.BackendURL,
		backend.WithTimeout(cfg.BackendTimeout),
		backend.WithTokenSource(store.TokenSource(ctx)),
		backend.WithLogger(logger),
	)
	alerts := app.NewLogAlerter(logger)

	authSvc := app.NewAuthService(client, client, store, logger)
	surveySvc := app.NewSurveyService(client, store, logger)
	diarySvc := app.NewDiaryService(client, store, formula, alerts, logger)
	recSvc := app.NewRecommendationService(client, store, alerts, cfg.RefreshBackoff, logger)

	srv := adapthttp.New(authSvc, surveySvc, diarySvc, recSvc, logger)
	if cfg.WebDir != "" {
		srv = srv.WithWebDir(cfg.WebDir)
	}

	hs := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = hs.Shutdown(shutdownCtx)
	}()

	logger.Info("listening",
		zap.String("addr", cfg.Addr),
		zap.String("backend", cfg.BackendURL),
		zap.String("store", cfg.Store.Backend),
		zap.String("formula", formula.Name()),
	)
	if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("serve", zap.Error(err))
	}
}

// openStore builds the configured key/value backend. The returned closer is
// nil for backends without resources to release.
func openStore(ctx context.Context, c config.StoreConfig) (domain.KVStore, io.Closer, error) {
	switch c.Backend {
	case "memory":
		return memory.New(), nil, nil
	case "file":
		key, err := file.ParseKey(c.KeyHex)
		if err != nil {
			return nil, nil, err
		}
		s, err := file.New(c.Path, key)
		if err != nil {
			return nil, nil, err
		}
		return s, nil, nil
	case "postgres":
		db, err := postgres.Open(c.DatabaseURL, c.Scope)
		if err != nil {
			return nil, nil, err
		}
		return db, db, nil
	case "redis":
		s := redis.New(c.RedisAddr, c.RedisPassword, c.RedisNamespace)
		if err := s.Ping(ctx); err != nil {
			_ = s.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		return s, s, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", c.Backend)
}
