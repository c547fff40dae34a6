package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	httptransport "github.com/tcgvault/card-catalog/internal/api/http"
	"github.com/tcgvault/card-catalog/internal/api/http/handlers"
	"github.com/tcgvault/card-catalog/internal/auth"
	"github.com/tcgvault/card-catalog/internal/config"
	"github.com/tcgvault/card-catalog/internal/events"
	"github.com/tcgvault/card-catalog/internal/observability"
	"github.com/tcgvault/card-catalog/internal/persistence"
	"github.com/tcgvault/card-catalog/internal/repository"
	"github.com/tcgvault/card-catalog/internal/service"
	"github.com/tcgvault/card-catalog/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Name)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if cfg.Auth.JWTSecret == "" {
		logger.Warn("SECRET_KEY is empty; issued tokens are signed with an empty key")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	comparer, err := auth.NewPasswordComparer(cfg.Auth.PasswordScheme)
	if err != nil {
		logger.Fatal("invalid password scheme", zap.Error(err))
	}

	deps := map[string]handlers.Pinger{}

	var principals repository.PrincipalRepository
	if cfg.Storage.UsesPostgres() {
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer pg.Close()

		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		principals = repository.NewPostgresPrincipalRepository(pg.PoolHandle())
		deps["postgres"] = pg
	} else {
		principals = repository.NewFilePrincipalRepository(cfg.Storage.UsersFile)
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()
	if redis.Enabled() {
		deps["redis"] = redis
	}

	cardRepo := repository.NewFileCardRepository(cfg.Storage.CardsFile, logger)
	deps["cards"] = cardRepo

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartCardFeedWorker(service.NewCardFeedService(dispatcher, redis, cfg.Redis.CardChannel, logger))

	cardService := service.NewCardService(service.CardDependencies{
		CardRepo:   cardRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		PrincipalRepo: principals,
		Comparer:      comparer,
		Logger:        logger,
	})

	app := httptransport.NewServer(httptransport.ServerConfig{
		Name:           cfg.App.Name,
		RequestTimeout: cfg.App.RequestTimeout(),
		Logger:         logger,
		Metrics:        observability.NewMetrics(),
		Routes: httptransport.RouteConfig{
			Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, deps),
			Auth:           handlers.NewAuthHandler(authService),
			Cards:          handlers.NewCardsHandler(cardService),
			AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), logger),
		},
	})

	go func() {
		logger.Info("server listening", zap.String("addr", cfg.App.Addr()))
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
