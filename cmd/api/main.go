package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/kasi-noc/incident-tickets/internal/api/http"
	"github.com/kasi-noc/incident-tickets/internal/api/http/handlers"
	"github.com/kasi-noc/incident-tickets/internal/attachment"
	"github.com/kasi-noc/incident-tickets/internal/auth"
	"github.com/kasi-noc/incident-tickets/internal/config"
	"github.com/kasi-noc/incident-tickets/internal/events"
	"github.com/kasi-noc/incident-tickets/internal/observability"
	"github.com/kasi-noc/incident-tickets/internal/persistence"
	"github.com/kasi-noc/incident-tickets/internal/repository"
	"github.com/kasi-noc/incident-tickets/internal/service"
	"github.com/kasi-noc/incident-tickets/internal/worker"
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

	if err := os.MkdirAll(cfg.Storage.UploadsDir, 0o755); err != nil {
		logger.Fatal("failed to create uploads dir", zap.Error(err))
	}

	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open storage", zap.String("backend", cfg.Storage.Backend), zap.Error(err))
	}
	defer store.close()

	dispatcher := events.NewInMemoryDispatcher()
	notifier := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	notifierDone := worker.StartNotificationWorker(ctx, notifier)

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:  store.tickets,
		HistoryRepo: store.history,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	authService, err := service.NewAuthService(cfg.Auth)
	if err != nil {
		logger.Fatal("failed to init auth", zap.Error(err))
	}

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: cfg.App.BodyLimit(),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, store.checks),
		Auth:   handlers.NewAuthHandler(authService),
		Tickets: handlers.NewTicketsHandler(handlers.TicketsHandlerDependencies{
			Service:    ticketService,
			Resolver:   attachment.NewResolver(cfg.Storage.PublicPath),
			Namer:      attachment.NewNamer(nil),
			UploadsDir: cfg.Storage.UploadsDir,
			Metrics:    metrics,
			Logger:     logger,
		}),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager()),
		AuthRequired:   authService.Required(),
		Metrics:        metrics,
		UploadsDir:     cfg.Storage.UploadsDir,
		UploadsPath:    attachment.NewResolver(cfg.Storage.PublicPath).PublicPath(),
	})

	go func() {
		logger.Info("listening",
			zap.String("addr", cfg.App.Addr()),
			zap.String("backend", cfg.Storage.Backend),
			zap.Bool("auth_required", cfg.Auth.Required))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
	cancel()
	<-notifierDone
}

// storage is the selected backend with its readiness checks and cleanup.
type storage struct {
	tickets repository.TicketTable
	history repository.TicketHistoryRepository
	checks  map[string]handlers.HealthCheck
	closers []func()
}

func (s *storage) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func openStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*storage, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return &storage{
			tickets: repository.NewMemoryTicketTable(),
			history: repository.NewMemoryHistoryRepository(),
			checks:  map[string]handlers.HealthCheck{},
		}, nil

	case config.BackendRedis:
		rdb := persistence.NewRedis(cfg.Redis, logger)
		return &storage{
			tickets: repository.NewRedisTicketTable(rdb.Client, cfg.Storage.RedisKeyPrefix),
			history: repository.NewRedisHistoryRepository(rdb.Client, cfg.Storage.RedisKeyPrefix),
			checks:  map[string]handlers.HealthCheck{"redis": rdb.Ping},
			closers: []func(){rdb.Close},
		}, nil

	case config.BackendPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, err
		}
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
				pg.Close()
				return nil, fmt.Errorf("run migrations: %w", err)
			}
		}
		return &storage{
			tickets: repository.NewPostgresTicketTable(pg.PoolHandle()),
			history: repository.NewPostgresHistoryRepository(pg.PoolHandle()),
			checks:  map[string]handlers.HealthCheck{"postgres": pg.Ping},
			closers: []func(){pg.Close},
		}, nil

	default:
		if err := persistence.InitializeFiles(cfg.Storage, logger); err != nil {
			return nil, err
		}
		ticketsFile, historyFile := cfg.Storage.TicketsFile(), cfg.Storage.HistoryFile()
		return &storage{
			tickets: repository.NewCSVTicketTable(ticketsFile),
			history: repository.NewCSVHistoryRepository(historyFile),
			checks: map[string]handlers.HealthCheck{
				"tickets_file": fileCheck(ticketsFile),
				"history_file": fileCheck(historyFile),
			},
		}, nil
	}
}

func fileCheck(path string) handlers.HealthCheck {
	return func(context.Context) error {
		_, err := os.Stat(path)
		return err
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
