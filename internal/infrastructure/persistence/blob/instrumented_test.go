package blob

import (
	"context"
	"testing"

	"github.com/alchemorsel/pantry/internal/infrastructure/monitoring"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInstrumentedStore_Ping(t *testing.T) {
	ctx := context.Background()
	metrics := monitoring.NewMetricsCollector(prometheus.NewRegistry(), zap.NewNop())

	t.Run("S3PingsTheBucket", func(t *testing.T) {
		client := newFakeS3()
		store := Instrument(NewS3StoreWithClient(client, "pantry", "recipes.txt", zap.NewNop()), metrics, "s3")

		assert.NoError(t, store.Ping(ctx))

		missing := Instrument(NewS3StoreWithClient(client, "elsewhere", "recipes.txt", zap.NewNop()), metrics, "s3")
		assert.Error(t, missing.Ping(ctx))
	})

	t.Run("MemoryFallsBackToRead", func(t *testing.T) {
		store := Instrument(NewMemoryStore([]byte("RID: 1")), metrics, "memory")

		assert.NoError(t, store.Ping(ctx))
	})

	count, err := testutil.GatherAndCount(metrics.Registry(), "recipe_store_operations_total")
	require.NoError(t, err)
	// s3 success, s3 error, memory success
	assert.Equal(t, 3, count)
}
