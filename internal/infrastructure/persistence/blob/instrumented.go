package blob

import (
	"context"
	"time"

	"github.com/alchemorsel/pantry/internal/infrastructure/monitoring"
	"github.com/alchemorsel/pantry/internal/ports/outbound"
)

// InstrumentedStore records metrics for every call to the wrapped store
type InstrumentedStore struct {
	next    outbound.RecipeBlobStore
	metrics *monitoring.MetricsCollector
	backend string
}

// Instrument wraps store with metrics. backend labels the series.
func Instrument(store outbound.RecipeBlobStore, metrics *monitoring.MetricsCollector, backend string) *InstrumentedStore {
	return &InstrumentedStore{next: store, metrics: metrics, backend: backend}
}

func (s *InstrumentedStore) Read(ctx context.Context) ([]byte, error) {
	start := time.Now()
	data, err := s.next.Read(ctx)
	s.metrics.StoreOperation("read", s.backend, time.Since(start), err)
	return data, err
}

func (s *InstrumentedStore) Append(ctx context.Context, data []byte) error {
	start := time.Now()
	err := s.next.Append(ctx, data)
	s.metrics.StoreOperation("append", s.backend, time.Since(start), err)
	return err
}

func (s *InstrumentedStore) Replace(ctx context.Context, data []byte) error {
	start := time.Now()
	err := s.next.Replace(ctx, data)
	s.metrics.StoreOperation("replace", s.backend, time.Since(start), err)
	return err
}

func (s *InstrumentedStore) Describe() string {
	return s.next.Describe()
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Ping checks the backend for readiness. Stores without a cheaper
// check are read once.
func (s *InstrumentedStore) Ping(ctx context.Context) error {
	start := time.Now()
	var err error
	if p, ok := s.next.(pinger); ok {
		err = p.Ping(ctx)
	} else {
		_, err = s.next.Read(ctx)
	}
	s.metrics.StoreOperation("ping", s.backend, time.Since(start), err)
	return err
}
