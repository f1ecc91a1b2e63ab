// Package assistant orchestrates the product-search pipeline: intent
// classification, embedding, vector retrieval, keyword validation, and
// grounded response composition.
package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/neusearch/neusearch/internal/catalog"
	"github.com/neusearch/neusearch/internal/chunker"
	"github.com/neusearch/neusearch/internal/embeddings"
	"github.com/neusearch/neusearch/internal/guard"
	"github.com/neusearch/neusearch/internal/intent"
	"github.com/neusearch/neusearch/internal/retrieval"
)

// Embedder turns text into a vector, never failing the caller.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) embeddings.Result
}

// Completer generates a chat completion for a system+user message pair.
type Completer interface {
	Complete(ctx context.Context, system, user string, maxTokens int) (string, error)
}

// Config holds assistant configuration.
type Config struct {
	// GeneralTimeout bounds remote generation for general conversation.
	GeneralTimeout time.Duration
	// GenerateTimeout bounds remote generation for grounded answers.
	GenerateTimeout time.Duration
	// GeneralMaxTokens bounds general replies.
	GeneralMaxTokens int
	// GenerateMaxTokens bounds grounded replies.
	GenerateMaxTokens int
}

// Reply is the outcome of one chat request. Products is never nil.
type Reply struct {
	Response string
	Products []catalog.Item
}

// IngestStats summarizes a full catalog re-embedding.
type IngestStats struct {
	ProcessedProducts int
	TotalEmbeddings   int
}

// Service runs the chat pipeline and catalog ingestion.
type Service struct {
	store      catalog.Store
	embedder   Embedder
	classifier *intent.Classifier
	retriever  *retrieval.Retriever
	guard      *guard.Guard
	completer  Completer
	splitter   *chunker.Splitter
	config     Config
	logger     *zap.Logger
}

// NewService creates the assistant service.
func NewService(
	store catalog.Store,
	embedder Embedder,
	classifier *intent.Classifier,
	retriever *retrieval.Retriever,
	g *guard.Guard,
	completer Completer,
	splitter *chunker.Splitter,
	cfg Config,
	logger *zap.Logger,
) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder cannot be nil")
	}
	if classifier == nil || retriever == nil || g == nil {
		return nil, fmt.Errorf("classifier, retriever and guard are required")
	}
	if completer == nil {
		return nil, fmt.Errorf("completer cannot be nil")
	}
	if splitter == nil {
		splitter = chunker.New(0, 0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.GeneralTimeout == 0 {
		cfg.GeneralTimeout = 30 * time.Second
	}
	if cfg.GenerateTimeout == 0 {
		cfg.GenerateTimeout = 60 * time.Second
	}
	if cfg.GeneralMaxTokens == 0 {
		cfg.GeneralMaxTokens = 150
	}
	if cfg.GenerateMaxTokens == 0 {
		cfg.GenerateMaxTokens = 500
	}

	return &Service{
		store:      store,
		embedder:   embedder,
		classifier: classifier,
		retriever:  retriever,
		guard:      g,
		completer:  completer,
		splitter:   splitter,
		config:     cfg,
		logger:     logger,
	}, nil
}

// Chat answers one user query. It never returns an error: every failure
// degrades to a well-formed canned reply with an empty product list.
func (s *Service) Chat(ctx context.Context, query string) Reply {
	reply, err := s.chat(ctx, query)
	if err != nil {
		s.logger.Error("chat pipeline failed", zap.Error(err))
		recordChat("product", "error")
		return Reply{Response: msgApology, Products: []catalog.Item{}}
	}
	return reply
}

func (s *Service) chat(ctx context.Context, query string) (Reply, error) {
	// Exact-match small talk short-circuits everything, including the
	// remote classifier.
	if s.classifier.IsSmallTalk(query) {
		recordChat("general", "greeting")
		return Reply{Response: msgWelcome, Products: []catalog.Item{}}, nil
	}

	if s.classifier.Classify(ctx, query) == intent.General {
		recordChat("general", "composed")
		return s.generalReply(ctx, query), nil
	}

	count, err := s.store.CountItems(ctx)
	if err != nil {
		return Reply{}, fmt.Errorf("counting products: %w", err)
	}
	if count == 0 {
		recordChat("product", "empty_catalog")
		return Reply{Response: msgEmptyCatalog, Products: []catalog.Item{}}, nil
	}

	if s.retriever.IsListAll(query) {
		items, err := s.retriever.ListAll(ctx)
		if err != nil {
			return Reply{}, fmt.Errorf("listing products: %w", err)
		}
		recordChat("product", "list_all")
		return Reply{
			Response: fmt.Sprintf("Here are all our products (%d total):", count),
			Products: items,
		}, nil
	}

	result := s.embedder.EmbedQuery(ctx, query)

	candidates, err := s.retriever.Retrieve(ctx, result.Vector)
	if err != nil {
		return Reply{}, fmt.Errorf("searching vectors: %w", err)
	}

	validated := s.guard.Validate(query, candidates)
	return s.compose(ctx, query, validated), nil
}

// generalReply phrases a friendly non-product answer, degrading to a fixed
// greeting on remote failure.
func (s *Service) generalReply(ctx context.Context, query string) Reply {
	ctx, cancel := context.WithTimeout(ctx, s.config.GeneralTimeout)
	defer cancel()

	text, err := s.completer.Complete(ctx, generalPrompt, query, s.config.GeneralMaxTokens)
	if err != nil {
		s.logger.Warn("general reply generation failed", zap.Error(err))
		text = msgGeneralFallback
	}
	return Reply{Response: text, Products: []catalog.Item{}}
}

// compose builds the grounded context from validated candidates and phrases
// the final answer. Retrieval success is never discarded: if generation
// fails, the deduplicated item list still ships with a generic
// acknowledgement.
func (s *Service) compose(ctx context.Context, query string, validated []catalog.Candidate) Reply {
	if len(validated) == 0 {
		recordChat("product", "no_results")
		return Reply{Response: msgRefusal, Products: []catalog.Item{}}
	}

	// One context line per candidate occurrence; the product list is
	// deduplicated by item ID preserving first-seen order.
	contextLines := make([]string, 0, len(validated))
	seen := make(map[int64]struct{}, len(validated))
	products := make([]catalog.Item, 0, len(validated))
	for _, c := range validated {
		contextLines = append(contextLines,
			fmt.Sprintf("- %s ($%.2f) - %s", c.Item.Name, c.Item.Price, c.Item.Description))
		if _, ok := seen[c.Item.ID]; !ok {
			seen[c.Item.ID] = struct{}{}
			products = append(products, c.Item)
		}
	}

	genCtx, cancel := context.WithTimeout(ctx, s.config.GenerateTimeout)
	defer cancel()

	user := fmt.Sprintf("User Query: %s\n\nContext: %s", query, strings.Join(contextLines, "\n"))
	text, err := s.completer.Complete(genCtx, groundingPrompt, user, s.config.GenerateMaxTokens)
	if err != nil {
		s.logger.Warn("grounded generation failed", zap.Error(err))
		recordChat("product", "generation_fallback")
		return Reply{Response: msgGenerationFallback, Products: products}
	}

	recordChat("product", "composed")
	return Reply{Response: text, Products: products}
}

// IngestAll re-embeds the whole catalog: it clears every chunk row, then
// splits and embeds each item's composed description. This is an
// administrative single-writer operation, not designed to run concurrently
// with itself.
func (s *Service) IngestAll(ctx context.Context) (IngestStats, error) {
	items, err := s.store.ListItems(ctx)
	if err != nil {
		return IngestStats{}, fmt.Errorf("listing products: %w", err)
	}
	if len(items) == 0 {
		return IngestStats{}, catalog.ErrEmptyCatalog
	}

	if err := s.store.ClearChunks(ctx); err != nil {
		return IngestStats{}, fmt.Errorf("clearing embeddings: %w", err)
	}

	stats := IngestStats{ProcessedProducts: len(items)}
	for _, item := range items {
		content := fmt.Sprintf("Product: %s\nCategory: %s\nPrice: $%.2f\nDescription: %s",
			item.Name, item.Category, item.Price, item.Description)

		for _, text := range s.splitter.Split(content) {
			result := s.embedder.EmbedQuery(ctx, text)
			chunk := catalog.Chunk{
				ID:        uuid.NewString(),
				ItemID:    item.ID,
				Content:   text,
				Embedding: result.Vector,
			}
			if err := s.store.InsertChunk(ctx, chunk); err != nil {
				return IngestStats{}, fmt.Errorf("inserting chunk for product %d: %w", item.ID, err)
			}
			stats.TotalEmbeddings++
		}
	}

	s.logger.Info("catalog ingested",
		zap.Int("products", stats.ProcessedProducts),
		zap.Int("embeddings", stats.TotalEmbeddings),
	)
	return stats, nil
}
