// Package apiserver provides the JSON API HTTP server
package apiserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/andybalholm/brotli"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/savorly/savorly/internal/infrastructure/config"
	"github.com/savorly/savorly/internal/infrastructure/http/handlers"
	"github.com/savorly/savorly/internal/infrastructure/http/middleware"
	"github.com/savorly/savorly/internal/infrastructure/http/respond"
	"github.com/savorly/savorly/internal/ports/outbound"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// APIServer serves /api/v1
type APIServer struct {
	config  *config.Config
	logger  *zap.Logger
	server  *http.Server
	router  *chi.Mux
	limiter *middleware.RateLimiter
}

// NewAPIServer creates the API server. limiter may be nil to disable rate limiting.
func NewAPIServer(
	cfg *config.Config,
	log *zap.Logger,
	h *handlers.Handlers,
	mw *middleware.Middleware,
	limiter *middleware.RateLimiter,
	tokens outbound.TokenService,
) *APIServer {
	s := &APIServer{
		config:  cfg,
		logger:  log.Named("api-server"),
		limiter: limiter,
	}
	s.router = s.setupRoutes(h, mw, tokens)

	var handler http.Handler = otelhttp.NewHandler(s.router, "savorly-api",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
	if cfg.Server.EnableH2C {
		handler = h2c.NewHandler(handler, &http2.Server{
			MaxConcurrentStreams: cfg.Server.MaxConcurrentStreams,
			IdleTimeout:          cfg.Server.IdleTimeout,
		})
	}

	s.server = &http.Server{
		Addr:           fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:        handler,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}
	return s
}

func (s *APIServer) setupRoutes(h *handlers.Handlers, mw *middleware.Middleware, tokens outbound.TokenService) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(mw.Logger())
	r.Use(mw.Metrics())
	r.Use(chimiddleware.Recoverer)
	r.Use(mw.Security())
	r.Use(mw.CORS())
	if s.limiter != nil {
		r.Use(s.limiter.Handler)
	}
	if s.config.Server.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(s.config.Server.RequestTimeout))
	}
	if s.config.Server.EnableCompression {
		r.Use(newCompressor().Handler)
	}
	r.Use(mw.JSONOnly())

	r.NotFound(mw.NotFound)
	r.MethodNotAllowed(mw.MethodNotAllowed)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": s.config.App.Name,
			"version": s.config.App.Version,
		})
	})

	openAPI := NewOpenAPIHandler(s.logger)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/openapi.yaml", openAPI.ServeOpenAPISpec)
		r.Get("/openapi.json", openAPI.ServeOpenAPIJSON)
		h.Routes(r, mw.Authenticate(tokens))
	})

	return r
}

// newCompressor compresses JSON with brotli when the client accepts it, gzip otherwise
func newCompressor() *chimiddleware.Compressor {
	c := chimiddleware.NewCompressor(5, "application/json", "application/x-yaml")
	c.SetEncoder("br", func(w io.Writer, level int) io.Writer {
		return brotli.NewWriterLevel(w, level)
	})
	return c
}

// Handler returns the instrumented root handler
func (s *APIServer) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server and blocks until it stops
func (s *APIServer) Start() error {
	s.logger.Info("Starting API server", zap.String("address", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *APIServer) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server")
	if s.limiter != nil {
		s.limiter.Close()
	}
	return s.server.Shutdown(ctx)
}
