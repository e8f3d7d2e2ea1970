package main

import (
	"context"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/sbgadvisor/WellNavigator3/internal/bot"
	"github.com/sbgadvisor/WellNavigator3/internal/classifier"
	"github.com/sbgadvisor/WellNavigator3/internal/dispatcher"
	"github.com/sbgadvisor/WellNavigator3/internal/llm"
	"github.com/sbgadvisor/WellNavigator3/internal/reminder"
	"github.com/sbgadvisor/WellNavigator3/internal/session"
	"github.com/sbgadvisor/WellNavigator3/internal/storage"
	"github.com/sbgadvisor/WellNavigator3/internal/workflow"
	"github.com/sbgadvisor/WellNavigator3/pkg/config"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", "config.yaml"))
	}

	// Initialize storage
	var store storage.Storage
	if cfg.Database.UseInMemory {
		logger.Info("Using in-memory storage")
		store = storage.NewMemoryStorage()
	} else {
		logger.Info("Using PostgreSQL storage")
		store, err = storage.NewPostgresStorage(storage.DatabaseConfig{
			Host:        cfg.Database.Host,
			Port:        cfg.Database.Port,
			User:        cfg.Database.User,
			Password:    cfg.Database.Password,
			DBName:      cfg.Database.DBName,
			SSLMode:     cfg.Database.SSLMode,
			UseInMemory: cfg.Database.UseInMemory,
		})
		if err != nil {
			logger.Fatal("Failed to initialize storage", zap.Error(err))
		}
	}
	defer store.Close()

	// LLM client and intent classifier
	client := llm.NewOpenAI(cfg.OpenAI.APIKey)
	clf := classifier.New(client, cfg.OpenAI.ClassifierModel, logger)

	// Workflows; registration order is trigger precedence
	registry := workflow.NewRegistry(
		workflow.NewAppointmentBooking(clf, store, logger),
		workflow.NewClinicalTrialSearch(),
	)

	d := dispatcher.New(
		client,
		registry,
		clf,
		cfg.OpenAI.ChatModel,
		float32(cfg.OpenAI.Temperature),
		cfg.OpenAI.MaxTokens,
		logger,
	)

	sessions := session.NewManager()

	b, err := bot.New(cfg.Telegram.Token, sessions, d, clf, store, logger)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	if cfg.Reminder.Enabled {
		sched, err := reminder.New(store, b, cfg.Reminder.Schedule, logger)
		if err != nil {
			logger.Fatal("Failed to create reminder scheduler", zap.Error(err))
		}
		sched.Start()
		defer sched.Stop()
	}

	if err := b.Start(context.Background()); err != nil {
		logger.Fatal("Bot error", zap.Error(err))
	}
}
