package http

import (
	"context"
	"net/http"
	"time"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/pushgram/pkg/domain/interfaces"
)

// DefaultMaxBodySize limits the size of an inbound webhook body
const DefaultMaxBodySize = 1 << 20

// config holds internal HTTP server configuration
type config struct {
	addr              string
	readHeaderTimeout time.Duration
	maxBodySize       int64
}

// Option is a functional option for Server configuration
type Option func(*config)

// WithAddr sets the server address
func WithAddr(addr string) Option {
	return func(c *config) {
		c.addr = addr
	}
}

// WithReadHeaderTimeout sets the read header timeout of the server
func WithReadHeaderTimeout(timeout time.Duration) Option {
	return func(c *config) {
		c.readHeaderTimeout = timeout
	}
}

// WithMaxBodySize sets the largest accepted webhook body in bytes
func WithMaxBodySize(size int64) Option {
	return func(c *config) {
		c.maxBodySize = size
	}
}

// Server represents the HTTP server
type Server struct {
	*http.Server
}

// NewServer creates a new HTTP server
func NewServer(
	ctx context.Context,
	dispatchUC interfaces.DispatchUseCase,
	opts ...Option,
) (*Server, error) {
	// Default configuration
	cfg := &config{
		addr:              "localhost:8080",
		readHeaderTimeout: 15 * time.Second,
		maxBodySize:       DefaultMaxBodySize,
	}

	// Apply options
	for _, opt := range opts {
		opt(cfg)
	}

	router := chi.NewRouter()

	// Global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)
	router.Use(sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle)

	// Health check
	router.Get("/health", handleHealth)

	// Webhook endpoint
	webhookHandler := NewWebhookHandler(dispatchUC, cfg.maxBodySize)
	router.Post("/gitlab/{webhookUrl}", webhookHandler.Handle)

	server := &Server{
		Server: &http.Server{
			Addr:              cfg.addr,
			Handler:           router,
			ReadHeaderTimeout: cfg.readHeaderTimeout,
		},
	}

	return server, nil
}
