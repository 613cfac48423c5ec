// Package suggestion asks a text-completion provider for recipe ideas
// based on what is in the pantry
package suggestion

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	stderrors "errors"
	"strings"
	"time"

	"github.com/alchemorsel/pantry/internal/ports/inbound"
	"github.com/alchemorsel/pantry/internal/ports/outbound"
	"github.com/alchemorsel/pantry/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "suggestion:"

// Options holds the optional collaborators of the service
type Options struct {
	// Cache stores flattened replies; nil disables caching.
	Cache    outbound.CacheRepository
	CacheTTL time.Duration
	Tracer   trace.Tracer
}

// SuggestionService implements the suggestion use case
type SuggestionService struct {
	ingredients inbound.IngredientService
	recipes     inbound.RecipeService
	client      outbound.CompletionClient
	cache       outbound.CacheRepository
	cacheTTL    time.Duration
	tracer      trace.Tracer
	logger      *zap.Logger
}

// NewSuggestionService creates a new suggestion service
func NewSuggestionService(
	ingredients inbound.IngredientService,
	recipes inbound.RecipeService,
	client outbound.CompletionClient,
	opts Options,
	logger *zap.Logger,
) inbound.SuggestionService {
	tracer := opts.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("suggestion")
	}
	return &SuggestionService{
		ingredients: ingredients,
		recipes:     recipes,
		client:      client,
		cache:       opts.Cache,
		cacheTTL:    opts.CacheTTL,
		tracer:      tracer,
		logger:      logger.Named("suggestion-service"),
	}
}

// Suggest makes one completion round trip and returns the flattened reply
func (s *SuggestionService) Suggest(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", errors.NewValidationError("prompt is required")
	}

	available, err := s.ingredients.AvailableIngredients(ctx)
	if err != nil {
		return "", err
	}
	all, err := s.recipes.ListRecipes(ctx)
	if err != nil {
		return "", err
	}
	cookable := Cookable(all, available)
	full := BuildPrompt(available, cookable, prompt)

	key := cacheKey(full)
	if cached, ok := s.lookup(ctx, key); ok {
		return cached, nil
	}

	ctx, span := s.tracer.Start(ctx, "suggestion.complete",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("completion.provider", s.client.Provider()),
			attribute.Int("suggestion.available_ingredients", len(available)),
			attribute.Int("suggestion.cookable_recipes", len(cookable)),
		),
	)
	defer span.End()

	reply, err := s.client.Complete(ctx, full)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Error("Completion request failed",
			zap.String("provider", s.client.Provider()),
			zap.Error(err),
		)
		return "", errors.NewExternalServiceError(s.client.Provider(), err)
	}

	flat := Flatten(reply)
	s.store(ctx, key, flat)

	s.logger.Info("Suggestion generated",
		zap.String("provider", s.client.Provider()),
		zap.Int("cookable_recipes", len(cookable)),
		zap.Int("reply_length", len(flat)),
	)

	return flat, nil
}

func (s *SuggestionService) lookup(ctx context.Context, key string) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !stderrors.Is(err, outbound.ErrCacheMiss) {
			s.logger.Warn("Suggestion cache read failed", zap.Error(err))
		}
		return "", false
	}
	return string(data), true
}

func (s *SuggestionService) store(ctx context.Context, key, value string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, []byte(value), s.cacheTTL); err != nil {
		s.logger.Warn("Suggestion cache write failed", zap.Error(err))
	}
}

func cacheKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}
