package main

import (
	"log"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/carnage999-max/ultimate-app-manager/internal/config"
	"github.com/carnage999-max/ultimate-app-manager/internal/mail"
	"github.com/carnage999-max/ultimate-app-manager/internal/observability"
	"github.com/carnage999-max/ultimate-app-manager/internal/queue"
	"github.com/carnage999-max/ultimate-app-manager/internal/worker"
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

	if !cfg.Redis.Enabled() {
		logger.Fatal("REDIS_ADDR is required to run the email worker")
	}

	srv := asynq.NewServer(queue.RedisOpt(cfg.Redis), asynq.Config{
		Concurrency: 5,
		Queues:      map[string]int{"default": 1},
		Logger:      logger.Sugar(),
	})

	registry := queue.NewHandlersRegistry()
	worker.Register(registry, worker.NewEmailWorker(mail.NewSender(cfg.Mail, logger), logger))

	logger.Info("email worker starting", zap.String("redis", cfg.Redis.Addr))
	if err := srv.Run(registry.Mux()); err != nil {
		logger.Fatal("worker stopped", zap.Error(err))
	}
}
