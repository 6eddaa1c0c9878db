// AngelaMos | 2026
// serve.go

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/barulogix/barulogix-api/internal/admin"
	"github.com/barulogix/barulogix-api/internal/auth"
	"github.com/barulogix/barulogix-api/internal/conductor"
	"github.com/barulogix/barulogix-api/internal/config"
	"github.com/barulogix/barulogix-api/internal/core"
	"github.com/barulogix/barulogix-api/internal/delivery"
	"github.com/barulogix/barulogix-api/internal/health"
	"github.com/barulogix/barulogix-api/internal/metrics"
	"github.com/barulogix/barulogix-api/internal/middleware"
	"github.com/barulogix/barulogix-api/internal/report"
	"github.com/barulogix/barulogix-api/internal/server"
	"github.com/barulogix/barulogix-api/internal/user"
)

const drainDelay = 5 * time.Second

func newServeCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func serve(parent context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := slog.Default()
	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		_ = db.Close() //nolint:errcheck // best-effort cleanup on startup failure
		return err
	}
	logger.Info("redis connected", "pool_size", cfg.Redis.PoolSize)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		_ = redis.Close() //nolint:errcheck // best-effort cleanup on startup failure
		_ = db.Close()    //nolint:errcheck // best-effort cleanup on startup failure
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.GetKeyID(),
	)

	userSvc := user.NewService(user.NewRepository(db.DB))
	userHandler := user.NewHandler(userSvc)

	authSvc := auth.NewService(auth.NewRepository(db.DB), jwtManager, userSvc, redis)
	authHandler := auth.NewHandler(authSvc, auth.CookieConfig{
		Name:   cfg.JWT.SessionCookie,
		Secure: cfg.IsProduction(),
	})

	conductorSvc := conductor.NewService(conductor.NewRepository(db.DB), db, conductor.NewRepository)
	conductorHandler := conductor.NewHandler(conductorSvc)

	deliverySvc := delivery.NewService(delivery.NewRepository(db.DB), conductorSvc, cfg.Deliveries)
	deliveryHandler := delivery.NewHandler(deliverySvc)

	reportSvc := report.NewService(report.NewRepository(db.DB), cfg.Deliveries)
	reportHandler := report.NewHandler(reportSvc)

	healthHandler := health.NewHandler(
		cfg.App.Version,
		health.Dependency{Name: "postgres", Checker: db},
		health.Dependency{Name: "redis", Checker: redis},
	)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		Overview:   admin.NewOverview(db.DB),
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
	})

	var wrap func(http.Handler) http.Handler
	if telemetry != nil {
		wrap = func(h http.Handler) http.Handler {
			return otelhttp.NewHandler(h, cfg.Otel.ServiceName)
		}
	}

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
		Wrap:          wrap,
	})

	limit := middleware.PerMinute(cfg.RateLimit.Requests, cfg.RateLimit.Burst)

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit:    limit,
			KeyFunc:  middleware.KeyByIP,
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)
	router.Get("/.well-known/jwks.json", jwtManager.GetJWKSHandler())

	if cfg.Metrics.Enabled {
		router.Handle(cfg.Metrics.Path, metrics.Handler())
	}

	perTenant := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Limit:    limit,
		KeyFunc:  middleware.KeyByUser,
		FailOpen: true,
	})
	verify := middleware.Authenticator(
		authSvc,
		middleware.WithSessionCookie(cfg.JWT.SessionCookie),
	)
	authenticator := func(next http.Handler) http.Handler {
		return verify(perTenant.Handler(next))
	}
	adminOnly := middleware.RequireAdmin

	router.Route("/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authenticator)

		userHandler.RegisterRoutes(r, authenticator)
		userHandler.RegisterAdminRoutes(r, authenticator, adminOnly)
		adminHandler.RegisterRoutes(r, authenticator, adminOnly)

		conductorHandler.RegisterRoutes(r, authenticator)
		deliveryHandler.RegisterRoutes(r, authenticator)
		reportHandler.RegisterRoutes(r, authenticator)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}
