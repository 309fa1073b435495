// Package sqlite implements a single-file readiness result store for
// offline deployments. The same ScoreStore port runs on PostgreSQL in
// the hub and on SQLite at the edge.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	goerrors "errors"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"fieldready/domain/core"
	"fieldready/domain/score"
	"fieldready/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS readiness_results (
	user_id  TEXT NOT NULL,
	date     TEXT NOT NULL,
	category TEXT NOT NULL,
	overall  REAL NOT NULL,
	payload  TEXT NOT NULL,
	PRIMARY KEY (user_id, date)
);
CREATE INDEX IF NOT EXISTS idx_results_date ON readiness_results (date);
`

// ScoreStore keeps full results as JSON payloads with the queryable
// fields broken out as columns. Dates are TEXT in YYYY-MM-DD form so
// range scans order lexicographically.
type ScoreStore struct {
	db *sqlx.DB
}

// Open opens (or creates) the store at path. Use ":memory:" for an
// ephemeral store.
func Open(path string) (*ScoreStore, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, core.NewStorageError("open sqlite store", err)
	}
	// modernc's driver does not support concurrent writers on one file
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, core.NewStorageError("init sqlite schema", err)
	}
	return &ScoreStore{db: db}, nil
}

// Close releases the underlying database handle
func (s *ScoreStore) Close() error {
	return s.db.Close()
}

// Store upserts a result by (user, date)
func (s *ScoreStore) Store(ctx context.Context, result score.ComprehensiveReadinessResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return core.NewStorageError("encode result", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO readiness_results (user_id, date, category, overall, payload)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id, date) DO UPDATE SET
			category = excluded.category,
			overall = excluded.overall,
			payload = excluded.payload`,
		result.UserID.String(), result.Date.String(), string(result.Category),
		result.OverallReadiness, payload)
	if err != nil {
		return core.NewStorageError("upsert result", err)
	}
	return nil
}

// GetScore returns the result for a day, or core.ErrResultNotFound
func (s *ScoreStore) GetScore(ctx context.Context, userID core.UserID, day core.Day) (score.ComprehensiveReadinessResult, error) {
	var payload []byte
	err := s.db.GetContext(ctx, &payload, `
		SELECT payload FROM readiness_results
		WHERE user_id = ? AND date = ?`,
		string(userID), day.String())
	if err != nil {
		if goerrors.Is(err, sql.ErrNoRows) {
			return score.ComprehensiveReadinessResult{}, core.ErrResultNotFound
		}
		return score.ComprehensiveReadinessResult{}, core.NewStorageError("read result", err)
	}
	return decodeResult(payload)
}

// GetLatestScore returns the newest result regardless of how old it is
func (s *ScoreStore) GetLatestScore(ctx context.Context, userID core.UserID) (score.ComprehensiveReadinessResult, error) {
	var payload []byte
	err := s.db.GetContext(ctx, &payload, `
		SELECT payload FROM readiness_results
		WHERE user_id = ?
		ORDER BY date DESC
		LIMIT 1`,
		string(userID))
	if err != nil {
		if goerrors.Is(err, sql.ErrNoRows) {
			return score.ComprehensiveReadinessResult{}, core.ErrResultNotFound
		}
		return score.ComprehensiveReadinessResult{}, core.NewStorageError("read latest result", err)
	}
	return decodeResult(payload)
}

// GetScoresInRange returns results for days in [start, end], ascending
func (s *ScoreStore) GetScoresInRange(ctx context.Context, userID core.UserID, start, end core.Day) ([]score.ComprehensiveReadinessResult, error) {
	var payloads [][]byte
	err := s.db.SelectContext(ctx, &payloads, `
		SELECT payload FROM readiness_results
		WHERE user_id = ? AND date >= ? AND date <= ?
		ORDER BY date ASC`,
		string(userID), start.String(), end.String())
	if err != nil {
		return nil, core.NewStorageError("read result range", err)
	}

	out := make([]score.ComprehensiveReadinessResult, 0, len(payloads))
	for _, payload := range payloads {
		result, err := decodeResult(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, result)
	}
	return out, nil
}

// GetTrend returns up to days results ending at endDay, ascending
func (s *ScoreStore) GetTrend(ctx context.Context, userID core.UserID, days int, endDay core.Day) ([]score.ComprehensiveReadinessResult, error) {
	return s.GetScoresInRange(ctx, userID, endDay.AddDays(-(days-1)), endDay)
}

// ListUsers returns every user with at least one stored result
func (s *ScoreStore) ListUsers(ctx context.Context) ([]core.UserID, error) {
	var ids []string
	err := s.db.SelectContext(ctx, &ids,
		`SELECT DISTINCT user_id FROM readiness_results ORDER BY user_id`)
	if err != nil {
		return nil, core.NewStorageError("list users", err)
	}
	out := make([]core.UserID, len(ids))
	for i, id := range ids {
		out[i] = core.UserID(id)
	}
	return out, nil
}

func decodeResult(payload []byte) (score.ComprehensiveReadinessResult, error) {
	var result score.ComprehensiveReadinessResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return score.ComprehensiveReadinessResult{}, core.NewStorageError("decode result", err)
	}
	return result, nil
}

var _ ports.ScoreStore = (*ScoreStore)(nil)
