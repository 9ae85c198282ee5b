package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xiaot623/gogo/assistant/internal/action"
	"github.com/xiaot623/gogo/assistant/internal/adapter/backend"
	"github.com/xiaot623/gogo/assistant/internal/adapter/effects"
	"github.com/xiaot623/gogo/assistant/internal/adapter/llm"
	"github.com/xiaot623/gogo/assistant/internal/config"
	"github.com/xiaot623/gogo/assistant/internal/hub"
	"github.com/xiaot623/gogo/assistant/internal/intent"
	"github.com/xiaot623/gogo/assistant/internal/repository"
	"github.com/xiaot623/gogo/assistant/internal/service"
	server "github.com/xiaot623/gogo/assistant/internal/transport/http"
	"github.com/xiaot623/gogo/assistant/policy"
)

// collaborators is the set of domain services the actions call.
type collaborators interface {
	action.TicketService
	action.DocumentService
	action.ImageService
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Printf("Starting assistant...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Database: %s", cfg.DatabaseURL)
	log.Printf("Backend: %s", cfg.BackendMode)
	log.Printf("LiteLLM URL: %s", cfg.LiteLLMURL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize store
	db, err := repository.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer db.Close()

	// Initialize domain collaborators
	var backendSvc collaborators = db
	if cfg.BackendMode == config.BackendRemote {
		log.Printf("Backend URL: %s", cfg.BackendURL)
		backendSvc = backend.NewClient(cfg.BackendURL, cfg.BackendAPIKey, cfg.ActionTimeout)
	}

	// Initialize LLM client
	llmClient := llm.NewLLMClient(cfg.LiteLLMURL, cfg.LiteLLMAPIKey, cfg.LLMTimeout)

	// Initialize policy engine
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		log.Fatalf("Failed to initialize policy engine: %v", err)
	}

	// Initialize hub
	h := hub.NewHub()
	go h.Run(ctx)
	publisher := effects.NewPublisher(h)

	// Initialize service
	dispatcher := action.NewDispatcher(action.Deps{
		Tickets:   backendSvc,
		Documents: backendSvc,
		Images:    backendSvc,
		Effects:   publisher,
		Policy:    policyEngine,
	}, action.Options{
		Timeout:         cfg.ActionTimeout,
		NavigationDelay: cfg.NavigationDelay,
	})
	matcher := intent.NewMatcher(intent.DefaultRules())
	svc := service.New(matcher, dispatcher, llmClient, db, publisher, cfg)

	// Create Echo server
	e := server.NewServer(cfg, svc, h)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Assistant API started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down assistant...")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("Assistant stopped")
}
