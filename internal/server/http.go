package server

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/campusapti/aptitude-platform/internal/aptitude"
	"github.com/campusapti/aptitude-platform/internal/auth"
	"github.com/campusapti/aptitude-platform/internal/config"
	"github.com/campusapti/aptitude-platform/internal/logging"
	"github.com/campusapti/aptitude-platform/internal/testmgmt"
)

// NewHTTPServer wires all routes for the API service. Participant-facing
// paths (appear, submit, toppers) are open; reporting and authoring paths sit
// behind the token middleware.
func NewHTTPServer(
	cfg *config.App,
	logger zerolog.Logger,
	pool *pgxpool.Pool,
	redisClient *redis.Client,
	tokenMgr *auth.Manager,
	aptiHandler *aptitude.HTTPHandler,
	adminHandler *testmgmt.HTTPHandler,
) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /v1/ping", func(w http.ResponseWriter, r *http.Request) {
		if err := pingDependencies(r.Context(), pool, redisClient); err != nil {
			logger.Error().Err(err).Msg("dependency ping failed")
			http.Error(w, "upstream error", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pong":true}`))
	})

	// Participant paths
	mux.HandleFunc("POST /v1/aptitudes/{id}/appear", aptiHandler.Appear)
	mux.HandleFunc("POST /v1/aptitudes/{id}/submit", aptiHandler.Submit)
	mux.HandleFunc("GET /v1/aptitudes/{id}/toppers", aptiHandler.Toppers)
	mux.Handle("GET /v1/aptitudes/{id}/responses", auth.RequireAdmin(http.HandlerFunc(aptiHandler.Responses)))
	mux.Handle("GET /v1/aptitudes/{id}/responses/me", auth.RequireAuth(http.HandlerFunc(aptiHandler.MyResponse)))

	// Authoring paths
	mux.Handle("POST /v1/aptitudes", auth.RequireAdmin(http.HandlerFunc(adminHandler.Create)))
	mux.Handle("GET /v1/aptitudes", auth.RequireAuth(http.HandlerFunc(adminHandler.List)))
	mux.Handle("PUT /v1/aptitudes/{id}", auth.RequireAdmin(http.HandlerFunc(adminHandler.Update)))
	mux.Handle("DELETE /v1/aptitudes/{id}", auth.RequireAdmin(http.HandlerFunc(adminHandler.Delete)))
	mux.Handle("GET /v1/aptitudes/upcoming", auth.RequireAuth(http.HandlerFunc(adminHandler.Upcoming)))
	mux.HandleFunc("GET /v1/aptitudes/past", adminHandler.Past)
	mux.Handle("GET /v1/aptitudes/{id}/detail", auth.RequireAdmin(http.HandlerFunc(adminHandler.Detail)))
	mux.Handle("PUT /v1/aptitudes/{id}/questions", auth.RequireAdmin(http.HandlerFunc(adminHandler.AddQuestions)))
	mux.Handle("POST /v1/aptitudes/questions/delete", auth.RequireAdmin(http.HandlerFunc(adminHandler.RemoveQuestion)))

	handler := requestID(logger, auth.Middleware(tokenMgr, logger)(mux))

	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: handler,
	}
}

// requestID tags each request with a uuid and a request-scoped logger.
func requestID(logger zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)
		reqLogger := logger.With().Str("request_id", id).Logger()
		next.ServeHTTP(w, r.WithContext(logging.IntoContext(r.Context(), reqLogger)))
	})
}

func pingDependencies(ctx context.Context, pool *pgxpool.Pool, redisClient *redis.Client) error {
	if err := pool.Ping(ctx); err != nil {
		return err
	}
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return err
	}
	return nil
}
