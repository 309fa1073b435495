package ports

import (
	"context"
	"time"

	"fieldready/domain/core"
	"fieldready/domain/metrics"
)

// MetricReader defines the interface for raw biometric sample reads.
// Implementations return whatever snapshot is visible at call time; the
// engine tolerates concurrent appends by the sync pipeline.
type MetricReader interface {
	// GetRecentMetrics returns samples within the trailing window ending
	// now. A zero metric type list means all types.
	GetRecentMetrics(ctx context.Context, userID core.UserID, window time.Duration, types ...metrics.MetricType) ([]metrics.RawSample, error)

	// GetMetricsInRange returns samples with timestamps in [start, end)
	GetMetricsInRange(ctx context.Context, userID core.UserID, start, end time.Time, types ...metrics.MetricType) ([]metrics.RawSample, error)

	// SaveSamples appends device samples. Invalid samples are the
	// caller's problem; storage persists what it is given.
	SaveSamples(ctx context.Context, samples []metrics.RawSample) error
}
