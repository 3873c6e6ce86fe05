package monitoring

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/savorly/savorly/internal/infrastructure/persistence/memory"
	"github.com/savorly/savorly/internal/ports/outbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestObserveRequest(t *testing.T) {
	m := NewMetricsCollector(zap.NewNop())

	m.ObserveRequest(http.MethodGet, "/api/v1/recipes", http.StatusOK, 20*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/api/v1/recipes", http.StatusOK, 30*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "", http.StatusNotFound, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/api/v1/recipes", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "unmatched", "404")))
}

func TestDomainEventsAndHandler(t *testing.T) {
	m := NewMetricsCollector(zap.NewNop())
	m.RecordDomainEvent("booking.created")
	m.RecordDomainEvent("booking.created")
	m.RecordRateLimited()
	m.RecordCacheOperation("get", "hit")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `savorly_domain_events_total{event="booking.created"} 2`))
	assert.Contains(t, body, "savorly_rate_limited_requests_total 1")
	assert.Contains(t, body, `savorly_cache_operations_total{operation="get",result="hit"} 1`)
	assert.Contains(t, body, "go_goroutines")
}

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetricsCollector(zap.NewNop())

	r := gin.New()
	r.Use(m.GinMiddleware())
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/health", "200")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.httpInFlight))
}

func TestDisabledTracingHandsOutNoopSpans(t *testing.T) {
	tp, err := NewTracingProvider(TracingConfig{ServiceName: "savorly-test"}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, tp.Enabled())

	ctx, span := tp.StartSpan(context.Background(), "op")
	defer span.End()
	assert.Empty(t, TraceIDFromContext(ctx))
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestExporterOptions(t *testing.T) {
	opts, err := exporterOptions("http://collector:4318")
	require.NoError(t, err)
	assert.Len(t, opts, 2)

	opts, err = exporterOptions("https://collector.example.com/custom/v1/traces")
	require.NoError(t, err)
	assert.Len(t, opts, 2)

	_, err = exporterOptions("collector:4318")
	assert.Error(t, err)
}

func TestInstrumentCache(t *testing.T) {
	m := NewMetricsCollector(zap.NewNop())
	store := memory.NewCacheRepository(time.Minute)
	defer func() { _ = store.Close() }()
	cache := InstrumentCache(store, m)
	ctx := context.Background()

	_, err := cache.Get(ctx, "recipes:v0:popular:")
	require.ErrorIs(t, err, outbound.ErrCacheMiss)
	require.NoError(t, cache.Set(ctx, "recipes:v0:popular:", []byte("[]"), time.Minute))
	_, err = cache.Get(ctx, "recipes:v0:popular:")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, `savorly_cache_operations_total{operation="get",result="miss"} 1`)
	assert.Contains(t, body, `savorly_cache_operations_total{operation="get",result="hit"} 1`)
	assert.Contains(t, body, `savorly_cache_operations_total{operation="set",result="ok"} 1`)

	assert.Same(t, store, InstrumentCache(store, nil))
}
