package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/identity-gateway/internal/api/http"
	"github.com/spec-kit/identity-gateway/internal/api/http/handlers"
	"github.com/spec-kit/identity-gateway/internal/config"
	"github.com/spec-kit/identity-gateway/internal/events"
	"github.com/spec-kit/identity-gateway/internal/idp"
	"github.com/spec-kit/identity-gateway/internal/observability"
	"github.com/spec-kit/identity-gateway/internal/persistence"
	"github.com/spec-kit/identity-gateway/internal/ratelimit"
	"github.com/spec-kit/identity-gateway/internal/repository"
	"github.com/spec-kit/identity-gateway/internal/service"
	"github.com/spec-kit/identity-gateway/internal/session"
	"github.com/spec-kit/identity-gateway/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations && pg.PoolHandle() != nil {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()

	tokens := session.NewTokenManager(cfg.Session.Secret, cfg.Session.TTL())
	store := session.NewStore(tokens, cfg.Session.CookieName, cfg.App.IsProduction(), logger)

	routes, err := session.NewRouteClassifier(session.DefaultProtectedPrefixes, session.DefaultPublicRoutes)
	if err != nil {
		logger.Fatal("invalid route configuration", zap.Error(err))
	}
	gate := session.NewGate(tokens, routes, cfg.Session.CookieName, logger, metrics)

	provider := idp.NewClient(cfg.Provider, logger)

	dispatcher := events.NewInMemoryDispatcher()

	var auditRepo repository.AuditRepository
	if pg.PoolHandle() != nil {
		auditRepo = repository.NewAuditRepository(pg.PoolHandle())
	}
	auditService := service.NewAuditService(dispatcher, auditRepo, logger)
	worker.StartAuditWorker(auditService)

	loginService := service.NewLoginService(provider, dispatcher, logger)
	credentialService := service.NewCredentialService(provider, cfg.App.IsProduction(), logger)

	limiter := ratelimit.NewLimiter(redis.Client, logger)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:               handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:                 handlers.NewAuthHandler(loginService, store, provider, dispatcher),
		Me:                   handlers.NewMeHandler(store, provider, dispatcher),
		Token:                handlers.NewTokenHandler(credentialService),
		OTP:                  handlers.NewOTPHandler(credentialService, provider, dispatcher),
		Gate:                 gate,
		Limiter:              limiter,
		OTPRequestsPerMinute: cfg.Provider.OTPRequestsPerMinute,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
