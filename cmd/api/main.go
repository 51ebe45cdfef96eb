package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/helpdesk/internal/api/http"
	"github.com/spec-kit/helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk/internal/audit"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/notify"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/persistence"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/internal/service"
	"github.com/spec-kit/helpdesk/internal/worker"
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

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	kbRepo := repository.NewKBRepository(pool)
	auditRepo := repository.NewAuditLogRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	configRepo := repository.NewConfigRepository(pool)

	metrics := observability.NewMetrics()
	auditor := audit.NewLogger(auditRepo, logger)

	dedupCache := notify.NewMemoryCache()
	if redis != nil {
		dedupCache = notify.NewRedisCache(redis.Client)
	}
	hub := notify.NewHub()
	mailer, err := notify.NewMailer(cfg.Mail, logger)
	if err != nil {
		logger.Fatal("failed to init mailer", zap.Error(err))
	}
	dispatcher := notify.NewDispatcher(notificationRepo, userRepo, dedupCache, hub, mailer, metrics, logger)

	agentService := service.NewAgentService(service.AgentDependencies{
		TicketRepo: ticketRepo,
		KBRepo:     kbRepo,
		UserRepo:   userRepo,
		ConfigRepo: configRepo,
		Auditor:    auditor,
		Notifier:   dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo,
		UserRepo:   userRepo,
		KBRepo:     kbRepo,
		Triager:    agentService,
		Notifier:   dispatcher,
		Logger:     logger,
	})
	slaService := service.NewSLAService(service.SLADependencies{
		TicketRepo: ticketRepo,
		ConfigRepo: configRepo,
		Auditor:    auditor,
		Notifier:   dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})
	kbService := service.NewKBService(kbRepo)
	notificationService := service.NewNotificationService(notificationRepo)
	configService := service.NewConfigService(configRepo)
	authService := service.NewAuthService(*cfg, userRepo)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService, auditor),
		Agent:          handlers.NewAgentHandler(agentService),
		KB:             handlers.NewKBHandler(kbService),
		Notifications:  handlers.NewNotificationsHandler(notificationService),
		Config:         handlers.NewConfigHandler(configService, slaService),
		Realtime:       handlers.NewRealtimeHandler(hub, logger),
		AuthMiddleware: authMiddleware,
		Metrics:        metrics,
	})

	var slaWorker *worker.SLAWorker
	if cfg.SLA.Enabled {
		slaWorker, err = worker.NewSLAWorker(cfg.SLA.CronSpec, slaService, logger)
		if err != nil {
			logger.Fatal("failed to schedule sla sweep", zap.Error(err))
		}
		slaWorker.Start()
	}

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if slaWorker != nil {
		slaWorker.Stop()
	}
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
