package ports

import (
	"context"

	"fieldready/domain/core"
	"fieldready/domain/score"
)

// ScoreStore persists computed readiness results, keyed by (user, day).
// Store is an upsert: recomputing a day replaces the prior record.
type ScoreStore interface {
	Store(ctx context.Context, result score.ComprehensiveReadinessResult) error

	// GetScore returns the result for a day, or core.ErrResultNotFound
	GetScore(ctx context.Context, userID core.UserID, day core.Day) (score.ComprehensiveReadinessResult, error)

	// GetLatestScore returns the most recent result regardless of age,
	// or core.ErrResultNotFound when the user has none
	GetLatestScore(ctx context.Context, userID core.UserID) (score.ComprehensiveReadinessResult, error)

	// GetScoresInRange returns results for days in [start, end],
	// ordered by day ascending. Days with no result are absent, not
	// zero-filled.
	GetScoresInRange(ctx context.Context, userID core.UserID, start, end core.Day) ([]score.ComprehensiveReadinessResult, error)

	// GetTrend returns up to days results ending at endDay, ordered by
	// day ascending, for anomaly and insight input.
	GetTrend(ctx context.Context, userID core.UserID, days int, endDay core.Day) ([]score.ComprehensiveReadinessResult, error)

	// ListUsers returns every user with at least one stored result
	ListUsers(ctx context.Context) ([]core.UserID, error)
}
