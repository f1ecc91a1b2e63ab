// Package intent labels queries as product-seeking or general conversation.
package intent

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Intent is the classification result for a query.
type Intent string

const (
	// Product means the user wants product recommendations.
	Product Intent = "PRODUCT"
	// General means greetings or general conversation.
	General Intent = "GENERAL"
)

const classifyPrompt = "Classify this user message as either 'PRODUCT_QUERY' or 'GENERAL_QUERY'. " +
	"PRODUCT_QUERY means they want to find/buy products. GENERAL_QUERY means greetings, " +
	"questions about you, or general chat. Reply with only one word: PRODUCT_QUERY or GENERAL_QUERY"

// Completer generates a chat completion for a system+user message pair.
type Completer interface {
	Complete(ctx context.Context, system, user string, maxTokens int) (string, error)
}

// Config holds classifier configuration.
type Config struct {
	// Greetings are exact-match phrases classified General without a remote call.
	Greetings []string
	// GeneralQuestions are exact-match questions classified General without a remote call.
	GeneralQuestions []string
	// Timeout bounds the remote classification call.
	Timeout time.Duration
	// MaxTokens bounds the remote classifier's output.
	MaxTokens int
}

// Classifier labels queries. A lexical fast path handles common small talk
// before any remote call; the remote classifier covers the rest, defaulting
// to Product on failure so a query is searched rather than dropped.
type Classifier struct {
	completer Completer
	smallTalk map[string]struct{}
	timeout   time.Duration
	maxTokens int
	logger    *zap.Logger
}

// NewClassifier creates a Classifier.
func NewClassifier(completer Completer, cfg Config, logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 10
	}

	smallTalk := make(map[string]struct{}, len(cfg.Greetings)+len(cfg.GeneralQuestions))
	for _, p := range cfg.Greetings {
		smallTalk[normalize(p)] = struct{}{}
	}
	for _, p := range cfg.GeneralQuestions {
		smallTalk[normalize(p)] = struct{}{}
	}

	return &Classifier{
		completer: completer,
		smallTalk: smallTalk,
		timeout:   cfg.Timeout,
		maxTokens: cfg.MaxTokens,
		logger:    logger,
	}
}

// IsSmallTalk reports whether query exactly matches a configured greeting or
// general question after normalization.
func (c *Classifier) IsSmallTalk(query string) bool {
	_, ok := c.smallTalk[normalize(query)]
	return ok
}

// Classify labels query as Product or General. It never fails: remote
// classifier errors default to Product.
func (c *Classifier) Classify(ctx context.Context, query string) Intent {
	if c.IsSmallTalk(query) {
		return General
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	label, err := c.completer.Complete(ctx, classifyPrompt, query, c.maxTokens)
	if err != nil {
		c.logger.Warn("intent classification failed, defaulting to product search", zap.Error(err))
		return Product
	}

	if strings.Contains(strings.ToUpper(label), "GENERAL") {
		return General
	}
	return Product
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
