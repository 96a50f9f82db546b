package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"

	"github.com/verdeo/auth-service/application/port/outbound"
	"github.com/verdeo/auth-service/application/usecase"
	"github.com/verdeo/auth-service/infrastructure/config"
	"github.com/verdeo/auth-service/infrastructure/http/handler"
	"github.com/verdeo/auth-service/infrastructure/http/middleware"
	"github.com/verdeo/auth-service/infrastructure/persistence/postgres"
	jwtservice "github.com/verdeo/auth-service/infrastructure/service/jwt"
	"github.com/verdeo/auth-service/infrastructure/service/logger"
	"github.com/verdeo/auth-service/infrastructure/service/password"
	"github.com/verdeo/auth-service/infrastructure/service/ratelimit"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	structuredLogger := logger.NewStructuredLogger(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: "auth-service",
	})
	structuredLogger.Info(ctx, "application starting", map[string]interface{}{
		"env": cfg.Environment,
	})

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		log.Fatalf("failed to ping database: %v", err)
	}
	structuredLogger.Info(ctx, "database connection established", nil)

	var limiter outbound.RateLimiter
	if cfg.RateLimitEnabled {
		redisLimiter, err := ratelimit.NewRedisLimiter(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to initialize rate limiter: %v", err)
		}
		defer redisLimiter.Close()
		limiter = redisLimiter
		structuredLogger.Info(ctx, "rate limiting enabled", map[string]interface{}{
			"attempts": cfg.RateLimitAttempts,
			"window":   cfg.RateLimitWindow.String(),
		})
	} else {
		limiter = ratelimit.NewNoopLimiter()
	}

	accountRepo := postgres.NewAccountRepository(db)
	tokenPairRepo := postgres.NewTokenPairRepository(db)
	uow := postgres.NewUnitOfWork(db)

	codec, err := jwtservice.NewCodec(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)
	if err != nil {
		log.Fatalf("failed to initialize token codec: %v", err)
	}
	passwordService := password.NewBcryptService(cfg.BcryptCost)

	authUseCase := usecase.NewAuthUseCase(
		accountRepo,
		tokenPairRepo,
		uow,
		codec,
		passwordService,
		limiter,
		structuredLogger,
		cfg.RateLimitAttempts,
		cfg.RateLimitWindow,
	)

	authMiddleware := middleware.NewAuthMiddleware(codec)

	router := mux.NewRouter()
	handler.NewAuthHandler(authUseCase, authMiddleware).RegisterRoutes(router)
	handler.NewIndividualHandler(authUseCase).RegisterRoutes(router)
	handler.NewOrganizationHandler(authUseCase).RegisterRoutes(router)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	var h http.Handler = middleware.CorrelationID(router)
	if cfg.CORSEnabled && len(cfg.CORSAllowedOrigins) > 0 {
		h = middleware.CORS(h, cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials)
	}

	server := &http.Server{
		Addr:         cfg.ServerAddr(),
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		structuredLogger.Info(ctx, "starting server", map[string]interface{}{
			"addr": cfg.ServerAddr(),
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			structuredLogger.Error(ctx, "server failed", err, nil)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	structuredLogger.Info(ctx, "shutting down server", nil)
	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		structuredLogger.Error(ctx, "server forced to shutdown", err, nil)
	}
	structuredLogger.Info(ctx, "server exited", nil)
}
