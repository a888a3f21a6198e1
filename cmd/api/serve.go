package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/vetclinic-service/internal/api/http"
	"github.com/spec-kit/vetclinic-service/internal/api/http/handlers"
	"github.com/spec-kit/vetclinic-service/internal/auth"
	"github.com/spec-kit/vetclinic-service/internal/config"
	"github.com/spec-kit/vetclinic-service/internal/events"
	"github.com/spec-kit/vetclinic-service/internal/observability"
	"github.com/spec-kit/vetclinic-service/internal/persistence"
	"github.com/spec-kit/vetclinic-service/internal/ratelimit"
	"github.com/spec-kit/vetclinic-service/internal/service"
	"github.com/spec-kit/vetclinic-service/internal/worker"
)

const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadRuntime()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	rdb := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer rdb.Close()

	pingers := st.pingers
	var limitStore ratelimit.Store = ratelimit.NewMemoryStore()
	if rdb != nil {
		pingers["redis"] = rdb
		limitStore = ratelimit.NewRedisStore(rdb.Client)
	}

	dispatcher := events.NewInMemoryDispatcher()
	audit := service.NewAuditService(dispatcher, logger)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		VetRepo:          st.vets,
		RefreshTokenRepo: st.sessions,
		Dispatcher:       dispatcher,
		Logger:           logger,
	})
	recordDeps := service.RecordDependencies{
		ClientRepo:   st.clients,
		PetRepo:      st.pets,
		AnamneseRepo: st.anamneses,
		Dispatcher:   dispatcher,
		Logger:       logger,
	}

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.App.BodyLimitBytes,
		ErrorHandler: httptransport.ErrorHandler(logger, cfg.App.IsDevelopment()),
	})
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Logger:       logger,
		Metrics:      metrics,
		Timeout:      cfg.App.RequestTimeout(),
		DevMode:      cfg.App.IsDevelopment(),
		AllowOrigins: cfg.App.CORSAllowOrigins,
	})
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pingers),
		Vets:           handlers.NewVetHandler(authService),
		Clients:        handlers.NewClientsHandler(service.NewClientService(recordDeps)),
		Pets:           handlers.NewPetsHandler(service.NewPetService(recordDeps)),
		Anamneses:      handlers.NewAnamneseHandler(service.NewAnamneseService(recordDeps)),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), logger),
		Limiters:       buildLimiters(cfg.RateLimit, limitStore, logger),
		Metrics:        metrics,
		AdminGuard:     auth.RequireAPIKey(cfg.Auth.AdminAPIKey, logger),
	})

	background := worker.Start(ctx, audit,
		worker.NewPruneWorker(authService, cfg.Auth.SessionPruneInterval, logger))
	defer background.Stop()

	listenErr := make(chan error, 1)
	go func() {
		logger.Info("http server starting",
			zap.String("addr", cfg.App.Addr()),
			zap.String("storage", cfg.Storage.Driver),
			zap.String("env", cfg.App.Env))
		listenErr <- app.Listen(cfg.App.Addr())
	}()

	select {
	case err := <-listenErr:
		return oops.Code("HTTP_LISTEN_FAILED").Wrap(err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		logger.Warn("http shutdown", zap.Error(err))
	}
	return nil
}

// buildLimiters returns no limiters when rate limiting is disabled.
func buildLimiters(cfg config.RateLimitConfig, store ratelimit.Store, logger *zap.Logger) httptransport.Limiters {
	if !cfg.Enabled {
		return httptransport.Limiters{}
	}
	return httptransport.Limiters{
		General: ratelimit.New(store, ratelimit.Options{
			Name:    "general",
			Rule:    cfg.General,
			Message: ratelimit.MsgGeneral,
		}, logger),
		Auth: ratelimit.New(store, ratelimit.Options{
			Name:           "auth",
			Rule:           cfg.Auth,
			Message:        ratelimit.MsgAuth,
			SkipSuccessful: true,
		}, logger),
		Anamnese: ratelimit.New(store, ratelimit.Options{
			Name:    "anamnese",
			Rule:    cfg.Anamnese,
			Message: ratelimit.MsgAnamnese,
		}, logger),
	}
}
