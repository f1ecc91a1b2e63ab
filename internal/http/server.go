// Package http provides the HTTP API for neusearch.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/neusearch/neusearch/internal/assistant"
	"github.com/neusearch/neusearch/internal/catalog"
)

// Assistant is the chat pipeline the server fronts.
type Assistant interface {
	Chat(ctx context.Context, query string) assistant.Reply
	IngestAll(ctx context.Context) (assistant.IngestStats, error)
}

// ItemStore is the slice of the catalog store the admin endpoints need.
type ItemStore interface {
	InsertItem(ctx context.Context, item *catalog.Item) error
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
	// StaticDir serves frontend assets when it exists; empty disables it.
	StaticDir string
}

// Server provides HTTP endpoints for neusearch.
type Server struct {
	echo      *echo.Echo
	assistant Assistant
	store     ItemStore
	logger    *zap.Logger
	config    *Config
}

// NewServer creates a new HTTP server.
func NewServer(a Assistant, store ItemStore, logger *zap.Logger, cfg *Config) (*Server, error) {
	if a == nil {
		return nil, fmt.Errorf("assistant cannot be nil")
	}
	if store == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{
			Host: "0.0.0.0",
			Port: 8000,
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(MetricsMiddleware())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			return err
		}
	})

	s := &Server{
		echo:      e,
		assistant: a,
		store:     store,
		logger:    logger,
		config:    cfg,
	}

	s.registerRoutes()

	return s, nil
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	s.echo.POST("/chat", s.handleChat)

	admin := s.echo.Group("/admin")
	admin.POST("/products", s.handleAddProduct)
	admin.POST("/ingest-all", s.handleIngestAll)

	// Frontend assets, when built.
	if s.config.StaticDir != "" {
		if index := filepath.Join(s.config.StaticDir, "index.html"); fileExists(index) {
			s.echo.Static("/static", s.config.StaticDir)
			s.echo.GET("/", func(c echo.Context) error {
				return c.File(index)
			})
		}
	}
}

// ChatRequest is the request body for POST /chat.
type ChatRequest struct {
	Query string `json:"query"`
}

// ChatResponse is the response body for POST /chat.
type ChatResponse struct {
	Response string         `json:"response"`
	Products []catalog.Item `json:"products"`
}

// AddProductRequest is the request body for POST /admin/products.
type AddProductRequest struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
}

// IngestResponse is the response body for POST /admin/ingest-all.
type IngestResponse struct {
	Message           string `json:"message"`
	ProcessedProducts int    `json:"processed_products"`
	TotalEmbeddings   int    `json:"total_embeddings"`
}

// ErrorResponse is the error payload for admin endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// handleChat runs the chat pipeline. The pipeline degrades internally, so
// this handler always answers 200 with a well-formed body for valid input.
func (s *Server) handleChat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid chat request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query field is required")
	}

	reply := s.assistant.Chat(c.Request().Context(), req.Query)

	return c.JSON(http.StatusOK, ChatResponse{
		Response: reply.Response,
		Products: reply.Products,
	})
}

// handleAddProduct creates a catalog item.
func (s *Server) handleAddProduct(c echo.Context) error {
	var req AddProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	item := catalog.Item{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Category:    req.Category,
	}
	if err := s.store.InsertItem(c.Request().Context(), &item); err != nil {
		if errors.Is(err, catalog.ErrInvalidItem) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		s.logger.Error("failed to insert product", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to store product")
	}

	return c.JSON(http.StatusOK, item)
}

// handleIngestAll triggers full catalog re-embedding. Failures surface as
// an error payload rather than a generated response.
func (s *Server) handleIngestAll(c echo.Context) error {
	stats, err := s.assistant.IngestAll(c.Request().Context())
	if err != nil {
		s.logger.Error("ingestion failed", zap.Error(err))
		status := http.StatusInternalServerError
		if errors.Is(err, catalog.ErrEmptyCatalog) {
			status = http.StatusNotFound
		}
		return c.JSON(status, ErrorResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusOK, IngestResponse{
		Message:           "Successfully ingested all products",
		ProcessedProducts: stats.ProcessedProducts,
		TotalEmbeddings:   stats.TotalEmbeddings,
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
