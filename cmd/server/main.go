package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"mschat/domain/chat"
	"mschat/infrastructure/server"
	"mschat/infrastructure/ws"
	"mschat/moderation"
	"mschat/repositories"
	"mschat/runtime"
	"mschat/runtime/workers"
	"mschat/services"
	"mschat/sink"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting, so defers (like the database close) always
// execute before the process exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Domain & use cases
	policy, err := moderation.NewPolicyWithWords(config.BannedWords)
	if err != nil {
		return fmt.Errorf("moderation policy failed: %w", err)
	}
	repository := repositories.NewRoomRepository(db, log)
	events := make(chan chat.DomainEvent, config.BufferSize)
	chatService := services.NewChatService(log, repository, policy, events)

	// 4. Event pipeline under supervision
	registry := runtime.NewRegistry()
	fanout := workers.NewEventFanout(log, events, registry, config.SinkTimeout).
		Add(sink.NewAuditSink(log))
	supervisor := workers.NewSupervisor(log, config.RestartInterval)
	supervisor.Add(fanout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go supervisor.Run(ctx)

	// 5. HTTP & WebSocket transport
	app := fiber.New(fiber.Config{AppName: "mschat"})
	server.NewChatController(log, chatService).Register(app)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/chat/:roomId", ws.Handler(log, chatService, registry, config.ConnectionBufferSize))

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting server", "address", address)
		if err := app.Listen(address); err != nil {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	// 6. Wait for stop or error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 7. Final cleanup
	if err := app.Shutdown(); err != nil {
		log.Warn("Server shutdown failed", "error", err)
	}
	supervisor.Stop()
	log.Info("Program stopped cleanly")

	return nil
}
