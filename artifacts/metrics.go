package artifacts

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/jasoet/go-release-artifacts/artifacts"

const (
	opSave = "save"
	opLoad = "load"
	opGC   = "gc"

	// backendNone labels operations that failed before a backend was
	// selected.
	backendNone = "none"
)

var (
	operationCount    metric.Int64Counter
	operationDuration metric.Float64Histogram
)

func init() {
	meter := otel.Meter(meterName)
	operationCount, _ = meter.Int64Counter(
		"release_artifacts.operations",
		metric.WithDescription("Completed save/load/gc operations."),
	)
	operationDuration, _ = meter.Float64Histogram(
		"release_artifacts.operation.duration",
		metric.WithDescription("Duration of save/load/gc operations."),
		metric.WithUnit("s"),
	)
}

// recordOperation reports one completed operation. Metrics never affect the
// operation outcome.
func recordOperation(ctx context.Context, operation, backend string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("backend", backend),
		attribute.String("outcome", outcome),
	)
	operationCount.Add(ctx, 1, attrs)
	operationDuration.Record(ctx, time.Since(start).Seconds(), attrs)
}
