// Command api serves the notes HTTP API.
//
// @title                       Notes API
// @version                     1.0
// @description                 Accounts, tokens, profiles and categories for the notes backend.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/notesapp/notes-api/internal/api"
	"github.com/notesapp/notes-api/internal/api/handler"
	"github.com/notesapp/notes-api/internal/core/service"
	"github.com/notesapp/notes-api/internal/infrastructure/config"
	"github.com/notesapp/notes-api/internal/infrastructure/db/postgres"
	"github.com/notesapp/notes-api/internal/infrastructure/db/redis"
	"github.com/notesapp/notes-api/internal/infrastructure/queue"
	"github.com/notesapp/notes-api/internal/infrastructure/security"
	"github.com/notesapp/notes-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx, nil)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "notes-api",
	})

	// --- Storage ---
	pool, err := postgres.Connect(ctx, postgres.Config{
		URL:      cfg.Database.URL,
		MaxConns: cfg.Database.MaxConns,
	})
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			return err
		}
		log.Info().Msg("database migrations applied")
	}

	checks := map[string]handler.Check{
		"postgres": pool.Ping,
	}

	var rdb *goredis.Client
	if cfg.Redis.Enabled() {
		rdb, err = redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	} else {
		log.Warn().Msg("REDIS_ADDR not set, login rate limiting disabled")
	}

	// --- Security ---
	hasher := security.NewArgon2Hasher(security.DefaultArgon2Params)
	tokens, err := security.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Algorithm)
	if err != nil {
		return err
	}

	// --- Services and workers ---
	uow := postgres.NewUnitOfWorkFactory(pool)
	users := postgres.NewUserRepository(pool)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	rehash := service.NewPasswordRehashService(uow, hasher, log.With().Str("component", "rehash").Logger())
	dispatcher := queue.NewDispatcher(cfg.Rehash.Workers, rehash, log)
	dispatcher.Start(workerCtx)

	deps := api.Deps{
		Auth:       service.NewAuthService(users, uow, hasher, tokens, dispatcher, cfg.JWT.TokenTTL(), log),
		Categories: service.NewCategoryService(uow, log),
		Checks:     checks,
		Registerer: prometheus.DefaultRegisterer,
		Log:        log,
	}
	if rdb != nil {
		deps.LoginLimiter = redis.NewLoginLimiter(rdb, cfg.Redis.LoginRateLimit, cfg.Redis.LoginRateWindow)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		stopWorkers()
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("server shutting down")
	return shutdown(srv, dispatcher, stopWorkers, log)
}

// shutdown stops accepting requests, lets in-flight ones finish, then stops
// the rehash workers. The pool is closed by the caller's defer.
func shutdown(srv *http.Server, dispatcher *queue.Dispatcher, stopWorkers context.CancelFunc, log zerolog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := srv.Shutdown(ctx)
	stopWorkers()
	dispatcher.Wait()

	if err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		return err
	}
	log.Info().Msg("shutdown complete")
	return nil
}
