// Package testutils provides mock implementations for testing
package testutils

import (
	"context"
	"sync"
	"time"

	"github.com/alchemorsel/pantry/internal/domain/ingredient"
	"github.com/alchemorsel/pantry/internal/ports/outbound"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockIngredientRepository provides a mock implementation of IngredientRepository
type MockIngredientRepository struct {
	mock.Mock
}

// NewMockIngredientRepository creates a new mock ingredient repository
func NewMockIngredientRepository() *MockIngredientRepository {
	return &MockIngredientRepository{}
}

// Create inserts an ingredient. A successful call assigns an id and timestamp
// the way the database would.
func (m *MockIngredientRepository) Create(ctx context.Context, i *ingredient.Ingredient) error {
	args := m.Called(ctx, i)
	if args.Error(0) == nil {
		if i.ID == uuid.Nil {
			i.ID = uuid.New()
		}
		i.UpdatedAt = time.Now().UTC()
	}
	return args.Error(0)
}

// UpdateQuantity updates quantity and unit
func (m *MockIngredientRepository) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity float64, unit string) (*ingredient.Ingredient, error) {
	args := m.Called(ctx, id, quantity, unit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ingredient.Ingredient), args.Error(1)
}

// FindAll returns all ingredients
func (m *MockIngredientRepository) FindAll(ctx context.Context) ([]ingredient.Ingredient, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ingredient.Ingredient), args.Error(1)
}

// MockCompletionClient provides a mock implementation of CompletionClient
type MockCompletionClient struct {
	mock.Mock
}

// Complete returns the configured reply
func (m *MockCompletionClient) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// Provider returns the provider name
func (m *MockCompletionClient) Provider() string {
	return "mock"
}

// MockCacheRepository provides an in-memory CacheRepository for tests
type MockCacheRepository struct {
	data map[string][]byte
	mu   sync.RWMutex
}

// NewMockCacheRepository creates a new mock cache
func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{data: make(map[string][]byte)}
}

// Get returns a cached value or outbound.ErrCacheMiss
func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, outbound.ErrCacheMiss
	}
	return v, nil
}

// Set stores a value, ignoring ttl
func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// Delete removes a value
func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Exists reports whether key is cached
func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[key]
	return ok, nil
}

// Len returns the number of cached keys
func (m *MockCacheRepository) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
