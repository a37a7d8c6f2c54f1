package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"taskboss/internal/ai"
	"taskboss/internal/bot"
	"taskboss/internal/config"
	"taskboss/internal/conversation"
	"taskboss/internal/logging"
	"taskboss/internal/repository"
	"taskboss/internal/service"
)

// reminderJobTimeout bounds one whole tick across all tasks.
const reminderJobTimeout = 30 * time.Minute

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogJSON)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("taskboss stopped with error", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	db, err := repository.NewDB(cfg.DatabaseURL, logging.GormLogger(logger))
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	provider, err := ai.NewGeminiProvider(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return err
	}
	client, err := ai.NewClient(provider, cfg.AIModels,
		ai.WithBackoff(cfg.AIRateLimitBackoff),
		ai.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("ai client: %w", err)
	}

	clock := service.SystemClock{}
	taskRepo := repository.NewTaskRepository(db)
	routing := service.NewRoutingService(cfg.GroupID, cfg.OwnerID, cfg.Topics)
	taskSvc := service.NewTaskService(taskRepo, client, ai.NewClassifier(client), routing, clock, logger)
	chatSvc := service.NewChatService(client, conversation.NewBuffer(cfg.ConversationSize), clock, logger)

	telegramBot, err := bot.New(cfg.TelegramToken, taskSvc, chatSvc, &cfg, logger)
	if err != nil {
		return err
	}

	reminderSvc := service.NewReminderService(taskRepo, client, telegramBot, clock, logger)
	reminderSvc.SetGenerationTimeout(cfg.AICallTimeout)

	scheduler := service.NewSchedulerService(time.Local, logger)
	if _, err := scheduler.ScheduleRunner(ctx, "reminders", cfg.ReminderInterval, reminderJobTimeout, reminderSvc); err != nil {
		return fmt.Errorf("schedule reminders: %w", err)
	}

	logger.Info("taskboss started",
		zap.Strings("models", cfg.AIModels),
		zap.Duration("reminder_interval", cfg.ReminderInterval),
		zap.Bool("group_routing", cfg.GroupID != 0))

	scheduler.Start()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := telegramBot.Start(gctx); err != nil {
			return err
		}
		if gctx.Err() == nil {
			return errors.New("update polling stopped")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		scheduler.Stop()
		return nil
	})
	return g.Wait()
}
