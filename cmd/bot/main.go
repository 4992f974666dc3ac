package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/cerebro-bot/cerebro/config"
	"github.com/cerebro-bot/cerebro/internal/agents"
	"github.com/cerebro-bot/cerebro/internal/auth"
	"github.com/cerebro-bot/cerebro/internal/database"
	"github.com/cerebro-bot/cerebro/internal/telegram"
	"github.com/cerebro-bot/cerebro/internal/transcription"
)

func main() {
	log.Println("🧠 Cerebro Bot Starting...")

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	ctx := context.Background()

	var store database.Store
	var err error
	switch cfg.StoreBackend {
	case "postgres":
		store, err = database.NewPostgresStore(ctx, cfg.DatabaseURL)
	default:
		store, err = database.NewSQLiteStore(ctx, cfg.SQLitePath)
	}
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()

	chatClient := agents.NewChatClient(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
	classifier := agents.NewClassifier(chatClient)
	generator := agents.NewGenerator(chatClient)

	converter, err := transcription.NewConverter()
	if err != nil {
		log.Fatalf("Failed to initialize audio converter: %v", err)
	}
	transcriber := transcription.NewClient(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.OpenAIWhisperModel)

	gate := auth.NewGate(cfg.AllowedChatIDs, cfg.SuperuserChatIDs)

	client, err := telegram.NewClient(cfg.TelegramToken)
	if err != nil {
		log.Fatalf("Failed to connect to Telegram: %v", err)
	}

	handler := telegram.NewMessageHandler(
		client,
		client,
		gate,
		store,
		classifier,
		generator,
		converter,
		transcriber,
	)

	updates := client.Updates()
	go func() {
		// Updates are handled sequentially: one message is processed to
		// completion before the next, matching the turn-based conversation.
		for update := range updates {
			handler.HandleUpdate(ctx, update)
		}
	}()

	log.Println("✅ System initialized successfully")
	log.Printf("📊 Store backend: %s", cfg.StoreBackend)
	log.Printf("🔐 Authorized chats: %d (superusers: %d)", len(cfg.AllowedChatIDs), len(cfg.SuperuserChatIDs))
	log.Println("💬 Telegram: connected and listening")
	log.Println("")
	log.Println("Bot is running. Press Ctrl+C to stop...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down gracefully...")
	client.Stop()
}
