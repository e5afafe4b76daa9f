// Package httpapi exposes the ingestion and query services over HTTP.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Otachiking/Chatbot-RAG/internal/core/ports/driving"
	"github.com/Otachiking/Chatbot-RAG/internal/logger"
)

// DefaultMaxUploadBytes caps the multipart upload body.
const DefaultMaxUploadBytes int64 = 50 << 20

// ErrMissingService is returned when a required port is nil.
var ErrMissingService = errors.New("httpapi: ingest and query services are required")

// Ports aggregates the driving ports served over HTTP.
type Ports struct {
	Ingest driving.IngestService
	Query  driving.QueryService

	// Documents backs GET /api/documents. Optional.
	Documents driving.DocumentService
}

// Config configures the HTTP server.
type Config struct {
	// Addr is the listen address, e.g. ":8000".
	Addr string

	// Version is reported by the landing endpoint.
	Version string

	// MaxUploadBytes caps uploads. Zero selects DefaultMaxUploadBytes.
	MaxUploadBytes int64

	// AllowOrigins restricts CORS. Empty allows any origin.
	AllowOrigins []string

	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
}

// Server is the HTTP API.
type Server struct {
	ports  *Ports
	cfg    Config
	engine *gin.Engine
}

// NewServer builds the router. Gin's mode is left to the caller.
func NewServer(ports *Ports, cfg Config) (*Server, error) {
	if ports == nil || ports.Ingest == nil || ports.Query == nil {
		return nil, ErrMissingService
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}

	s := &Server{ports: ports, cfg: cfg, engine: gin.New()}
	s.engine.Use(gin.Recovery(), requestLogger(), cors.New(corsConfig(cfg.AllowOrigins)))
	s.routes()
	return s, nil
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
		c.AllowCredentials = true
	}
	return c
}

func (s *Server) routes() {
	s.engine.GET("/", s.handleRoot)

	api := s.engine.Group("/api")
	api.GET("/health", s.handleHealth)
	api.POST("/upload", s.handleUpload)
	api.POST("/query", s.handleQuery)
	api.GET("/documents", s.handleDocuments)

	if s.cfg.Metrics != nil {
		s.engine.GET("/metrics", gin.WrapH(s.cfg.Metrics))
	}
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("HTTP shutdown: %v", err)
		}
	}()

	logger.Info("HTTP server listening on %s", s.cfg.Addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
