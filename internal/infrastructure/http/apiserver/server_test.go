package apiserver

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	appingredient "github.com/alchemorsel/pantry/internal/application/ingredient"
	apprecipe "github.com/alchemorsel/pantry/internal/application/recipe"
	"github.com/alchemorsel/pantry/internal/infrastructure/config"
	"github.com/alchemorsel/pantry/internal/infrastructure/monitoring"
	"github.com/alchemorsel/pantry/internal/infrastructure/persistence/blob"
	"github.com/alchemorsel/pantry/pkg/healthcheck"
	"github.com/alchemorsel/pantry/test/testutils"
	"github.com/andybalholm/brotli"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

type echoSuggestions struct{}

func (echoSuggestions) Suggest(ctx context.Context, prompt string) (string, error) {
	return "try: " + prompt, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Version = "test"
	cfg.Server.AllowedOrigins = []string{"*"}
	cfg.Server.EnableCompression = true
	cfg.Server.EnableH2C = true
	cfg.RateLimit.Enable = true
	cfg.RateLimit.RequestsPerMin = 1
	cfg.RateLimit.BurstSize = 1
	cfg.Monitoring.EnableMetrics = true
	cfg.Monitoring.HealthCheckPath = "/health"
	cfg.Monitoring.ReadinessPath = "/ready"
	return cfg
}

func newTestServer(t *testing.T) (http.Handler, *monitoring.MetricsCollector, *blob.MemoryStore) {
	t.Helper()

	logger := zap.NewNop()
	data, _ := testutils.NewRecipeFactory(1).Blob(2)
	store := blob.NewMemoryStore(data)
	metrics := monitoring.NewMetricsCollector(prometheus.NewRegistry(), logger)

	s := NewAPIServer(testConfig(), logger, metrics, noop.NewTracerProvider(), Services{
		Ingredients: appingredient.NewIngredientService(testutils.NewMockIngredientRepository(), logger),
		Recipes:     apprecipe.NewRecipeService(store, logger),
		Suggestions: echoSuggestions{},
	})
	return s.Handler(), metrics, store
}

func TestAPIServer_Routes(t *testing.T) {
	handler, _, _ := newTestServer(t)

	t.Run("Index", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Hello World", rec.Body.String())
	})

	t.Run("ListRecipes", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/recipes", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.True(t, strings.HasPrefix(rec.Body.String(), "["))
	})

	t.Run("WriteWithoutJSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/recipes", strings.NewReader("recipe"))
		req.Header.Set("Content-Type", "text/plain")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"message":"recipe_name, ingredients, instructions, taste, cuisine and preparation_time are required"}`, rec.Body.String())
	})

	t.Run("CORSPreflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/recipes/1", nil)
		req.Header.Set("Origin", "https://pantry.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodPut)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("SearchIsNotARid", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/recipes/search?rid=1", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestAPIServer_BrotliCompression(t *testing.T) {
	handler, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/recipes", nil)
	req.Header.Set("Accept-Encoding", "br, gzip")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "br", rec.Header().Get("Content-Encoding"))

	body, err := io.ReadAll(brotli.NewReader(rec.Body))
	require.NoError(t, err)
	assert.Contains(t, string(body), `"rid":"1"`)
}

func TestAPIServer_SuggestionsRateLimited(t *testing.T) {
	handler, metrics, _ := newTestServer(t)

	post := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/recipes/suggestions", strings.NewReader(`{"prompt":"soup"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	first := post()
	require.Equal(t, http.StatusOK, first.Code)
	assert.JSONEq(t, `{"message":"Suggestions generated successfully","suggestions":"try: soup"}`, first.Body.String())

	second := post()
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	// other routes share no budget with suggestions
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/recipes", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	families, err := metrics.Registry().Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "http_rate_limited_total")
	assert.Contains(t, names, "http_requests_total")
}

func TestAdminServer(t *testing.T) {
	logger := zap.NewNop()
	cfg := testConfig()
	metrics := monitoring.NewMetricsCollector(prometheus.NewRegistry(), logger)
	health := healthcheck.New("test", logger)
	health.Register("recipe_store", healthcheck.NewRecipeStoreChecker(blob.NewMemoryStore(nil)))

	handler := NewAdminServer(cfg, logger, metrics, health).Handler()

	for _, path := range []string{"/health", "/ready", "/metrics"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}
