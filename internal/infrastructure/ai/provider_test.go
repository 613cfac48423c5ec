package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/alchemorsel/pantry/internal/infrastructure/config"
	"github.com/alchemorsel/pantry/internal/infrastructure/monitoring"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewCompletionClient(t *testing.T) {
	tests := []struct {
		provider string
		want     string
	}{
		{"mock", "mock"},
		{"", "mock"},
		{"openai", "openai"},
		{"ollama", "ollama"},
		{"anthropic", "anthropic"},
	}
	for _, tt := range tests {
		t.Run(tt.want+"/"+tt.provider, func(t *testing.T) {
			client, err := NewCompletionClient(config.AIConfig{Provider: tt.provider, OpenAIKey: "k", AnthropicKey: "k"}, zap.NewNop())

			require.NoError(t, err)
			assert.Equal(t, tt.want, client.Provider())
		})
	}

	_, err := NewCompletionClient(config.AIConfig{Provider: "bard"}, zap.NewNop())
	assert.ErrorContains(t, err, "unsupported ai provider")
}

func TestMockClient_EchoesRequest(t *testing.T) {
	reply, err := NewMockClient().Complete(context.Background(), "Available ingredients:\n- rice\n\nRequest: something quick")

	require.NoError(t, err)
	assert.Contains(t, reply, `"something quick"`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewMockClient().Complete(ctx, "p")
	assert.ErrorIs(t, err, context.Canceled)
}

type failingClient struct{}

func (failingClient) Complete(context.Context, string) (string, error) {
	return "", errors.New("provider down")
}

func (failingClient) Provider() string { return "failing" }

func TestInstrument_RecordsOutcome(t *testing.T) {
	metrics := monitoring.NewMetricsCollector(prometheus.NewRegistry(), zap.NewNop())

	_, err := Instrument(NewMockClient(), metrics).Complete(context.Background(), "Request: x")
	require.NoError(t, err)
	_, err = Instrument(failingClient{}, metrics).Complete(context.Background(), "p")
	require.Error(t, err)

	count, err := testutil.GatherAndCount(metrics.Registry(), "completion_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
