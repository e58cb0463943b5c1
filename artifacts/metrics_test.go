package artifacts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestRecordOperation(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	ctx := context.Background()
	recordOperation(ctx, opSave, string(BackendLocal), time.Now(), nil)
	recordOperation(ctx, opLoad, string(BackendObjectStore), time.Now(), errors.New("boom"))

	var collected metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &collected))

	var scope *metricdata.ScopeMetrics
	for i := range collected.ScopeMetrics {
		if collected.ScopeMetrics[i].Scope.Name == meterName {
			scope = &collected.ScopeMetrics[i]
		}
	}
	require.NotNil(t, scope, "no metrics recorded for %s", meterName)

	var sawCount, sawDuration bool
	for _, m := range scope.Metrics {
		switch m.Name {
		case "release_artifacts.operations":
			sawCount = true
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			// One data point per distinct operation/backend/outcome set.
			assert.Len(t, sum.DataPoints, 2)
		case "release_artifacts.operation.duration":
			sawDuration = true
		}
	}
	assert.True(t, sawCount)
	assert.True(t, sawDuration)
}
