// Package middleware provides Chi-compatible middleware for the JSON API
package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/savorly/savorly/internal/infrastructure/config"
	"github.com/savorly/savorly/internal/infrastructure/http/respond"
	"github.com/savorly/savorly/internal/infrastructure/monitoring"
	"github.com/savorly/savorly/pkg/errors"
	"go.uber.org/zap"
)

// Middleware provides all middleware functions
type Middleware struct {
	config  *config.Config
	logger  *zap.Logger
	metrics *monitoring.MetricsCollector
}

// New creates a new middleware instance. metrics may be nil.
func New(cfg *config.Config, logger *zap.Logger, metrics *monitoring.MetricsCollector) *Middleware {
	return &Middleware{
		config:  cfg,
		logger:  logger.Named("http"),
		metrics: metrics,
	}
}

// Logger logs every request once it has been served
func (m *Middleware) Logger() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status_code", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", chimiddleware.GetReqID(r.Context())),
				zap.String("remote_addr", r.RemoteAddr),
			}
			if traceID := monitoring.TraceIDFromContext(r.Context()); traceID != "" {
				fields = append(fields, zap.String("trace_id", traceID))
			}
			if claims, ok := ClaimsFromContext(r.Context()); ok {
				fields = append(fields, zap.String("user_id", claims.UserID.String()))
			}

			switch {
			case ww.Status() >= http.StatusInternalServerError:
				m.logger.Error("API Request", fields...)
			case ww.Status() >= http.StatusBadRequest:
				m.logger.Warn("API Request", fields...)
			default:
				m.logger.Info("API Request", fields...)
			}
		})
	}
}

// Metrics records request count and latency by route pattern
func (m *Middleware) Metrics() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m.metrics == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			done := m.metrics.RequestStarted()
			defer done()

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := ""
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				route = rctx.RoutePattern()
			}
			m.metrics.ObserveRequest(r.Method, route, ww.Status(), time.Since(start))
		})
	}
}

// Security adds security headers for API responses
func (m *Middleware) Security() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
			if m.config.IsProduction() {
				w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CORS answers preflight requests and allows the configured origins
func (m *Middleware) CORS() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !m.config.Server.EnableCORS {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && m.isOriginAllowed(origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-Id")
				w.Header().Set("Access-Control-Max-Age", "86400")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// JSONOnly rejects request bodies that are not JSON
func (m *Middleware) JSONOnly() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch:
				if r.ContentLength != 0 && !strings.Contains(r.Header.Get("Content-Type"), "application/json") {
					respond.Error(w, r, m.logger, errors.NewAppError(
						errors.CodeBadRequest,
						"Content-Type must be application/json",
						"",
					))
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// NotFound reports unknown routes with the error envelope
func (m *Middleware) NotFound(w http.ResponseWriter, r *http.Request) {
	respond.Error(w, r, m.logger, errors.NewNotFoundError("Route"))
}

// MethodNotAllowed reports a known route called with the wrong method
func (m *Middleware) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respond.Error(w, r, m.logger, errors.NewAppError(errors.CodeBadRequest, "Method not allowed", r.Method))
}

func (m *Middleware) isOriginAllowed(origin string) bool {
	if m.config.IsDevelopment() && len(m.config.Server.AllowedOrigins) == 0 {
		return true
	}
	for _, allowed := range m.config.Server.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}
