// Package postgres implements the storage ports on PostgreSQL via sqlx.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"fieldready/domain/core"
	"fieldready/domain/metrics"
	"fieldready/ports"
)

// SampleRepository implements ports.MetricReader on PostgreSQL
type SampleRepository struct {
	db *sqlx.DB
}

// NewSampleRepository creates a new PostgreSQL sample repository
func NewSampleRepository(db *sqlx.DB) ports.MetricReader {
	return &SampleRepository{db: db}
}

// SaveSamples appends device samples in one batch insert
func (r *SampleRepository) SaveSamples(ctx context.Context, samples []metrics.RawSample) error {
	if len(samples) == 0 {
		return nil
	}
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO raw_samples (user_id, metric_type, value, unit, timestamp, source, interval_ns)
		VALUES (:user_id, :metric_type, :value, :unit, :timestamp, :source, :interval_ns)`,
		samples)
	if err != nil {
		return core.NewStorageError("insert samples", err)
	}
	return nil
}

// GetRecentMetrics returns samples within the trailing window ending now
func (r *SampleRepository) GetRecentMetrics(ctx context.Context, userID core.UserID, window time.Duration, types ...metrics.MetricType) ([]metrics.RawSample, error) {
	end := time.Now().UTC()
	return r.GetMetricsInRange(ctx, userID, end.Add(-window), end, types...)
}

// GetMetricsInRange returns samples with timestamps in [start, end)
func (r *SampleRepository) GetMetricsInRange(ctx context.Context, userID core.UserID, start, end time.Time, types ...metrics.MetricType) ([]metrics.RawSample, error) {
	query := `
		SELECT user_id, metric_type, value, unit, timestamp, source, interval_ns
		FROM raw_samples
		WHERE user_id = ? AND timestamp >= ? AND timestamp < ?`
	args := []interface{}{string(userID), start, end}

	if len(types) > 0 {
		names := make([]string, len(types))
		for i, t := range types {
			names[i] = string(t)
		}
		expanded, expandedArgs, err := sqlx.In(query+" AND metric_type IN (?)", string(userID), start, end, names)
		if err != nil {
			return nil, core.NewStorageError("build sample query", err)
		}
		query, args = expanded, expandedArgs
	}
	query += " ORDER BY timestamp ASC"

	var out []metrics.RawSample
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(query), args...); err != nil {
		return nil, core.NewStorageError(fmt.Sprintf("read samples for %s", userID), err)
	}
	return out, nil
}
