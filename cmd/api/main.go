package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/carnage999-max/ultimate-app-manager/internal/api/http"
	"github.com/carnage999-max/ultimate-app-manager/internal/api/http/handlers"
	"github.com/carnage999-max/ultimate-app-manager/internal/auth"
	"github.com/carnage999-max/ultimate-app-manager/internal/config"
	"github.com/carnage999-max/ultimate-app-manager/internal/events"
	"github.com/carnage999-max/ultimate-app-manager/internal/mail"
	"github.com/carnage999-max/ultimate-app-manager/internal/observability"
	"github.com/carnage999-max/ultimate-app-manager/internal/payments"
	"github.com/carnage999-max/ultimate-app-manager/internal/persistence"
	"github.com/carnage999-max/ultimate-app-manager/internal/policy"
	"github.com/carnage999-max/ultimate-app-manager/internal/queue"
	"github.com/carnage999-max/ultimate-app-manager/internal/ratelimit"
	"github.com/carnage999-max/ultimate-app-manager/internal/repository"
	"github.com/carnage999-max/ultimate-app-manager/internal/service"
	"github.com/carnage999-max/ultimate-app-manager/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
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
		if _, err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	rdb := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer rdb.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	leaseRepo := repository.NewLeaseRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)

	engine, err := policy.NewEngine(ctx)
	if err != nil {
		logger.Fatal("failed to compile authorization policy", zap.Error(err))
	}

	renderer, err := mail.NewRenderer(cfg.App.SiteURL, cfg.Mail.SupportEmail)
	if err != nil {
		logger.Fatal("failed to parse email templates", zap.Error(err))
	}

	var outbox queue.Outbox
	if rdb != nil {
		queueClient := queue.NewClient(cfg.Redis)
		defer queueClient.Close() //nolint:errcheck
		outbox = queue.NewQueueOutbox(queueClient)
	} else {
		outbox = queue.NewDirectOutbox(mail.NewSender(cfg.Mail, logger), logger)
	}

	dispatcher := events.NewInMemoryDispatcher(logger)
	notifications := service.NewNotificationService(dispatcher, renderer, outbox, logger)
	notifications.RegisterHandlers()

	var presigner storage.Presigner = storage.Unconfigured{}
	if s3, err := storage.NewS3Presigner(cfg.Storage); err != nil {
		logger.Warn("file storage disabled", zap.Error(err))
	} else {
		presigner = s3
	}

	var processor payments.Processor = payments.Unconfigured{}
	if stripe, err := payments.NewStripeProcessor(cfg.Payments); err != nil {
		logger.Warn("payments disabled", zap.Error(err))
	} else {
		processor = stripe
	}

	refreshSecret, fallback := cfg.Auth.RefreshSecret()
	if fallback {
		logger.Warn("AUTH_REFRESH_TOKEN_SECRET not set; refresh tokens share the access signing key")
	}
	tokens := auth.NewTokenManager(cfg.Auth.AccessTokenSecret, refreshSecret)

	var limiter ratelimit.Limiter
	if rdb != nil {
		limiter, err = ratelimit.NewRedisLimiter(rdb.Client)
		if err != nil {
			logger.Fatal("failed to init rate limiter", zap.Error(err))
		}
	} else {
		limiter = ratelimit.NewMemoryLimiter(time.Now, 0)
	}

	authService := service.NewAuthService(service.AuthDependencies{
		UserRepo:   userRepo,
		Tokens:     tokens,
		BcryptCost: cfg.Auth.BcryptCost,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	leaseService := service.NewLeaseService(service.LeaseDependencies{
		LeaseRepo:  leaseRepo,
		UserRepo:   userRepo,
		Authorizer: engine,
		Presigner:  presigner,
		Logger:     logger,
	})
	maintenanceService := service.NewMaintenanceService(service.MaintenanceDependencies{
		TicketRepo: ticketRepo,
		Authorizer: engine,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	paymentService := service.NewPaymentService(service.PaymentDependencies{
		PaymentRepo: paymentRepo,
		Processor:   processor,
		Authorizer:  engine,
		Dispatcher:  dispatcher,
		Currency:    cfg.Payments.Currency,
		Logger:      logger,
	})

	metrics := observability.NewMetrics()
	var redisPinger handlers.Pinger
	if rdb != nil {
		redisPinger = rdb
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.ErrorHandler(logger),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redisPinger, metrics),
		Auth:           handlers.NewAuthHandler(authService, auth.CookieWriter{Secure: cfg.App.IsProduction()}),
		Leases:         handlers.NewLeasesHandler(leaseService),
		Maintenance:    handlers.NewMaintenanceHandler(maintenanceService),
		Users:          handlers.NewUsersHandler(service.NewUserService(userRepo, engine)),
		Files:          handlers.NewFilesHandler(service.NewFileService(engine, presigner)),
		Payments:       handlers.NewPaymentsHandler(paymentService, logger),
		Account:        handlers.NewAccountHandler(service.NewAccountService(notifications)),
		AuthMiddleware: auth.NewAuthMiddleware(tokens),
		Authorizer:     engine,
		Limiter:        limiter,
		AuthPerMinute:  cfg.RateLimit.AuthPerMinute,
		Logger:         logger,
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
