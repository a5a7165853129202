package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/civic-kit/complaint-service/internal/api/http"
	"github.com/civic-kit/complaint-service/internal/api/http/handlers"
	"github.com/civic-kit/complaint-service/internal/auth"
	"github.com/civic-kit/complaint-service/internal/cache"
	"github.com/civic-kit/complaint-service/internal/config"
	"github.com/civic-kit/complaint-service/internal/events"
	"github.com/civic-kit/complaint-service/internal/observability"
	"github.com/civic-kit/complaint-service/internal/persistence"
	"github.com/civic-kit/complaint-service/internal/repository"
	"github.com/civic-kit/complaint-service/internal/service"
	"github.com/civic-kit/complaint-service/internal/storage"
	"github.com/civic-kit/complaint-service/internal/worker"
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

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	fileStore, err := storage.NewLocalStore(cfg.Storage.Dir, cfg.Storage.PublicPath)
	if err != nil {
		logger.Fatal("failed to init file store", zap.Error(err))
	}

	pool := pg.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	agentRepo := repository.NewAgentRepository(pool)
	moduleRepo := repository.NewModuleRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	transferRepo := repository.NewTransferRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	feed := cache.NewTicketFeed(redis, cfg.Redis.FeedTTL(), logger)

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo,
		FileStore:  fileStore,
		Feed:       feed,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	commentService := service.NewCommentService(service.CommentDependencies{
		CommentRepo: commentRepo,
		TicketRepo:  ticketRepo,
		Dispatcher:  dispatcher,
	})
	workflowService := service.NewWorkflowService(service.WorkflowDependencies{
		TicketRepo:   ticketRepo,
		AgentRepo:    agentRepo,
		TransferRepo: transferRepo,
		Feed:         feed,
		Dispatcher:   dispatcher,
	})
	authService := service.NewAuthService(cfg.Auth, agentRepo)
	taxonomyService := service.NewTaxonomyService(moduleRepo, categoryRepo)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), agentRepo)
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	app.Static(cfg.Storage.PublicPath, fileStore.Dir())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Agents:         handlers.NewAgentsHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService, workflowService),
		Comments:       handlers.NewCommentsHandler(commentService),
		Taxonomy:       handlers.NewTaxonomyHandler(taxonomyService, ticketService),
		AuthMiddleware: authMiddleware,
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
