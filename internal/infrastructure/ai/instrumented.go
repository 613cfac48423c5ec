package ai

import (
	"context"
	"time"

	"github.com/alchemorsel/pantry/internal/infrastructure/monitoring"
	"github.com/alchemorsel/pantry/internal/ports/outbound"
)

// InstrumentedClient records metrics for every completion round trip
type InstrumentedClient struct {
	next    outbound.CompletionClient
	metrics *monitoring.MetricsCollector
}

// Instrument wraps client with metrics
func Instrument(client outbound.CompletionClient, metrics *monitoring.MetricsCollector) *InstrumentedClient {
	return &InstrumentedClient{next: client, metrics: metrics}
}

// Provider returns the wrapped provider name
func (c *InstrumentedClient) Provider() string {
	return c.next.Provider()
}

// Complete forwards to the wrapped client
func (c *InstrumentedClient) Complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	reply, err := c.next.Complete(ctx, prompt)
	c.metrics.CompletionRequest(c.next.Provider(), time.Since(start), err)
	return reply, err
}
