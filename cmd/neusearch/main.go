// Neusearch is a retrieval-augmented product-search assistant.
//
// It decides whether a query asks for product recommendations or general
// conversation, retrieves catalog items by vector similarity, validates
// them against a keyword vocabulary, and phrases a grounded answer that
// only references retrieved items.
//
// Configuration is loaded from an optional YAML file and environment
// variables. See internal/config for details.
//
// Usage:
//
//	# Start server with defaults
//	neusearch
//
//	# Configure via environment
//	SERVER_PORT=8000 CHAT_API_KEY=... EMBEDDINGS_API_KEY=... neusearch
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/neusearch/neusearch/internal/assistant"
	"github.com/neusearch/neusearch/internal/catalog"
	"github.com/neusearch/neusearch/internal/chunker"
	"github.com/neusearch/neusearch/internal/config"
	"github.com/neusearch/neusearch/internal/embeddings"
	"github.com/neusearch/neusearch/internal/guard"
	httpserver "github.com/neusearch/neusearch/internal/http"
	"github.com/neusearch/neusearch/internal/intent"
	"github.com/neusearch/neusearch/internal/llm"
	"github.com/neusearch/neusearch/internal/logging"
	"github.com/neusearch/neusearch/internal/retrieval"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	// Local development convenience; missing .env is fine.
	_ = godotenv.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	}()

	if err := run(ctx, *configPath); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server shutdown complete")
}

// run wires all services and blocks until ctx is cancelled.
func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return err
	}
	defer logger.Sync()

	store, err := catalog.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	embedder, err := embeddings.NewService(embeddings.Config{
		BaseURL:   cfg.Embeddings.BaseURL,
		Model:     cfg.Embeddings.Model,
		APIKey:    cfg.Embeddings.APIKey.Value(),
		Timeout:   cfg.Embeddings.Timeout,
		Dimension: cfg.Embeddings.Dimension,
	}, logger.Named("embeddings"))
	if err != nil {
		return err
	}

	completer, err := llm.NewClient(llm.Config{
		BaseURL: cfg.Chat.BaseURL,
		APIKey:  cfg.Chat.APIKey.Value(),
		Model:   cfg.Chat.Model,
	})
	if err != nil {
		return err
	}

	classifier := intent.NewClassifier(completer, intent.Config{
		Greetings:        cfg.Intent.Greetings,
		GeneralQuestions: cfg.Intent.GeneralQuestions,
		Timeout:          cfg.Chat.ClassifyTimeout,
		MaxTokens:        cfg.Chat.ClassifyMaxTokens,
	}, logger.Named("intent"))

	retriever := retrieval.NewRetriever(store, retrieval.Config{
		MaxResults:        cfg.Retrieval.MaxResults,
		DistanceThreshold: cfg.Retrieval.DistanceThreshold,
		ListAllPhrases:    cfg.Retrieval.ListAllPhrases,
	})

	svc, err := assistant.NewService(
		store,
		embedder,
		classifier,
		retriever,
		guard.New(cfg.Guard.Keywords),
		completer,
		chunker.New(cfg.Ingest.ChunkSize, cfg.Ingest.ChunkOverlap),
		assistant.Config{
			GeneralTimeout:    cfg.Chat.ClassifyTimeout,
			GenerateTimeout:   cfg.Chat.GenerateTimeout,
			GeneralMaxTokens:  cfg.Chat.GeneralMaxTokens,
			GenerateMaxTokens: cfg.Chat.GenerateMaxTokens,
		},
		logger.Named("assistant"),
	)
	if err != nil {
		return err
	}

	server, err := httpserver.NewServer(svc, store, logger.Named("http"), &httpserver.Config{
		Host:      cfg.Server.Host,
		Port:      cfg.Server.Port,
		StaticDir: cfg.Server.StaticDir,
	})
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
		return err
	}
	return nil
}
