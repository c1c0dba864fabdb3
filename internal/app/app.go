package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/campusapti/aptitude-platform/internal/aptitude"
	"github.com/campusapti/aptitude-platform/internal/auth"
	"github.com/campusapti/aptitude-platform/internal/cache"
	"github.com/campusapti/aptitude-platform/internal/config"
	"github.com/campusapti/aptitude-platform/internal/db/repository"
	"github.com/campusapti/aptitude-platform/internal/logging"
	"github.com/campusapti/aptitude-platform/internal/server"
	"github.com/campusapti/aptitude-platform/internal/testmgmt"
)

// Application aggregates shared infrastructure (DB, cache, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	http  *http.Server
}

// New bootstraps config, logger, Postgres, Redis and the HTTP server. All
// collaborators are constructed here and passed down explicitly; nothing
// holds a package-level handle.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	connString := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s pool_max_conns=10",
		cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Database, cfg.Postgres.SSLMode)

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	testRepo := repository.NewTestRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	participantRepo := repository.NewParticipantRepository(pool)
	submissionRepo := repository.NewSubmissionRepository(pool)

	resultCache := cache.New(redisClient, cfg.Cache.ViewTTL)

	tokenMgr := auth.NewManager(auth.TokenConfig{
		Secret: []byte(cfg.Security.JWTSecret),
		Issuer: cfg.Name,
	})

	aptitudeSvc := aptitude.NewService(
		testRepo,
		questionRepo,
		participantRepo,
		submissionRepo,
		resultCache,
		aptitude.ServiceOptions{
			ViewTTL: cfg.Cache.ViewTTL,
			TopN:    cfg.Cache.ToppersTop,
		},
		logger,
	)
	aptitudeHandler := aptitude.NewHTTPHandler(aptitudeSvc, logger)

	authoringSvc := testmgmt.NewService(testRepo, questionRepo, logger)
	authoringHandler := testmgmt.NewHTTPHandler(authoringSvc, logger)

	apiServer := server.NewHTTPServer(cfg, logger, pool, redisClient, tokenMgr, aptitudeHandler, authoringHandler)

	return &Application{
		cfg:    cfg,
		logger: logger,
		pool:   pool,
		redis:  redisClient,
		http:   apiServer,
	}, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	a.pool.Close()
	if err := a.redis.Close(); err != nil {
		a.logger.Error().Err(err).Msg("redis shutdown error")
	}

	a.logger.Info().Msg("shutdown complete")
	return nil
}
