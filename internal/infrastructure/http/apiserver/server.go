// Package apiserver provides the JSON API HTTP server
package apiserver

import (
	"context"
	"io"
	"net/http"

	"github.com/alchemorsel/pantry/internal/infrastructure/config"
	"github.com/alchemorsel/pantry/internal/infrastructure/http/handlers"
	"github.com/alchemorsel/pantry/internal/infrastructure/http/middleware"
	"github.com/alchemorsel/pantry/internal/infrastructure/monitoring"
	"github.com/alchemorsel/pantry/internal/ports/inbound"
	"github.com/andybalholm/brotli"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

const suggestionsRoute = "/api/recipes/suggestions"

// Services groups the use cases the API exposes
type Services struct {
	Ingredients inbound.IngredientService
	Recipes     inbound.RecipeService
	Suggestions inbound.SuggestionService
}

// APIServer serves the pantry JSON API
type APIServer struct {
	config  *config.Config
	logger  *zap.Logger
	metrics *monitoring.MetricsCollector
	server  *http.Server
	router  *chi.Mux
}

// NewAPIServer creates a new API server instance
func NewAPIServer(
	cfg *config.Config,
	log *zap.Logger,
	metrics *monitoring.MetricsCollector,
	tracerProvider trace.TracerProvider,
	services Services,
) *APIServer {
	s := &APIServer{
		config:  cfg,
		logger:  log.Named("api-server"),
		metrics: metrics,
	}

	s.router = s.setupRoutes(services)

	var handler http.Handler = otelhttp.NewHandler(s.router, "pantry-api",
		otelhttp.WithTracerProvider(tracerProvider),
	)
	if cfg.Server.EnableH2C {
		handler = h2c.NewHandler(handler, &http2.Server{})
	}

	s.server = &http.Server{
		Addr:           cfg.ListenAddr(),
		Handler:        handler,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	return s
}

func (s *APIServer) setupRoutes(services Services) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(s.config.Server.AllowedOrigins))
	if s.metrics != nil {
		r.Use(s.metrics.HTTPMiddleware)
	}
	if s.config.Server.EnableCompression {
		r.Use(compressor().Handler)
	}

	r.Get("/", handlers.Index)

	ingredients := handlers.NewIngredientHandler(services.Ingredients, s.logger)
	recipes := handlers.NewRecipeHandler(services.Recipes, s.logger)
	suggestions := handlers.NewSuggestionHandler(services.Suggestions, s.logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.JSONContent())

		r.Route("/ingredients", ingredients.Routes)

		r.Route("/recipes", func(r chi.Router) {
			recipes.Routes(r)

			suggest := r.With()
			if s.config.RateLimit.Enable {
				limiter := middleware.NewLimiter(s.config.RateLimit.RequestsPerMin, s.config.RateLimit.BurstSize)
				suggest = r.With(middleware.RateLimit(limiter, s.metrics, suggestionsRoute))
			}
			suggest.Post("/suggestions", suggestions.Suggest)
		})
	})

	return r
}

// compressor negotiates br ahead of gzip and deflate
func compressor() *chimiddleware.Compressor {
	c := chimiddleware.NewCompressor(5, "application/json", "text/plain")
	c.SetEncoder("br", func(w io.Writer, level int) io.Writer {
		return brotli.NewWriterLevel(w, level)
	})
	return c
}

// Start listens until Shutdown is called
func (s *APIServer) Start() error {
	s.logger.Info("Starting API server",
		zap.String("address", s.server.Addr),
		zap.Bool("h2c", s.config.Server.EnableH2C),
		zap.Bool("compression", s.config.Server.EnableCompression),
	)

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Handler returns the fully wrapped handler
func (s *APIServer) Handler() http.Handler {
	return s.server.Handler
}

// Shutdown gracefully shuts down the API server
func (s *APIServer) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server")
	return s.server.Shutdown(ctx)
}
