package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	goerrors "errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"fieldready/domain/core"
	"fieldready/domain/score"
	"fieldready/ports"
)

// ScoreRepository implements ports.ScoreStore on PostgreSQL. Results
// upsert on (user_id, date): recomputation replaces the prior record.
type ScoreRepository struct {
	db *sqlx.DB
}

// NewScoreRepository creates a new PostgreSQL score repository
func NewScoreRepository(db *sqlx.DB) ports.ScoreStore {
	return &ScoreRepository{db: db}
}

// resultRow is the flat row shape; the per-score maps ride in JSONB
type resultRow struct {
	ID               string    `db:"id"`
	UserID           string    `db:"user_id"`
	Date             time.Time `db:"date"`
	OverallReadiness float64   `db:"overall_readiness"`
	Category         string    `db:"category"`
	Confidence       string    `db:"confidence"`
	Scores           []byte    `db:"scores"`
	ConfidenceLevels []byte    `db:"confidence_levels"`
	Breakdowns       []byte    `db:"breakdowns"`
	CoreContribution []byte    `db:"core_contribution"`
	PenaltyApplied   []byte    `db:"penalty_applied"`
	CalculatedAt     time.Time `db:"calculated_at"`
}

const resultColumns = `id, user_id, date, overall_readiness, category, confidence,
	scores, confidence_levels, breakdowns, core_contribution, penalty_applied, calculated_at`

// Store upserts a result by (user, date)
func (r *ScoreRepository) Store(ctx context.Context, result score.ComprehensiveReadinessResult) error {
	row, err := toRow(result)
	if err != nil {
		return core.NewStorageError("encode result", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO readiness_results (`+resultColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (user_id, date) DO UPDATE SET
			id = EXCLUDED.id,
			overall_readiness = EXCLUDED.overall_readiness,
			category = EXCLUDED.category,
			confidence = EXCLUDED.confidence,
			scores = EXCLUDED.scores,
			confidence_levels = EXCLUDED.confidence_levels,
			breakdowns = EXCLUDED.breakdowns,
			core_contribution = EXCLUDED.core_contribution,
			penalty_applied = EXCLUDED.penalty_applied,
			calculated_at = EXCLUDED.calculated_at`,
		row.ID, row.UserID, row.Date, row.OverallReadiness, row.Category, row.Confidence,
		row.Scores, row.ConfidenceLevels, row.Breakdowns, row.CoreContribution,
		row.PenaltyApplied, row.CalculatedAt)
	if err != nil {
		return core.NewStorageError("upsert result", err)
	}
	return nil
}

// GetScore returns the result for a day, or core.ErrResultNotFound
func (r *ScoreRepository) GetScore(ctx context.Context, userID core.UserID, day core.Day) (score.ComprehensiveReadinessResult, error) {
	var row resultRow
	err := r.db.GetContext(ctx, &row, `
		SELECT `+resultColumns+`
		FROM readiness_results
		WHERE user_id = $1 AND date = $2`,
		string(userID), day.Start())
	if err != nil {
		if goerrors.Is(err, sql.ErrNoRows) {
			return score.ComprehensiveReadinessResult{}, core.ErrResultNotFound
		}
		return score.ComprehensiveReadinessResult{}, core.NewStorageError("read result", err)
	}
	return fromRow(row)
}

// GetLatestScore returns the newest result regardless of how old it is
func (r *ScoreRepository) GetLatestScore(ctx context.Context, userID core.UserID) (score.ComprehensiveReadinessResult, error) {
	var row resultRow
	err := r.db.GetContext(ctx, &row, `
		SELECT `+resultColumns+`
		FROM readiness_results
		WHERE user_id = $1
		ORDER BY date DESC
		LIMIT 1`,
		string(userID))
	if err != nil {
		if goerrors.Is(err, sql.ErrNoRows) {
			return score.ComprehensiveReadinessResult{}, core.ErrResultNotFound
		}
		return score.ComprehensiveReadinessResult{}, core.NewStorageError("read latest result", err)
	}
	return fromRow(row)
}

// GetScoresInRange returns results for days in [start, end], ascending
func (r *ScoreRepository) GetScoresInRange(ctx context.Context, userID core.UserID, start, end core.Day) ([]score.ComprehensiveReadinessResult, error) {
	var rows []resultRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT `+resultColumns+`
		FROM readiness_results
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC`,
		string(userID), start.Start(), end.Start())
	if err != nil {
		return nil, core.NewStorageError("read result range", err)
	}

	out := make([]score.ComprehensiveReadinessResult, 0, len(rows))
	for _, row := range rows {
		result, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, result)
	}
	return out, nil
}

// GetTrend returns up to days results ending at endDay, ascending
func (r *ScoreRepository) GetTrend(ctx context.Context, userID core.UserID, days int, endDay core.Day) ([]score.ComprehensiveReadinessResult, error) {
	return r.GetScoresInRange(ctx, userID, endDay.AddDays(-(days-1)), endDay)
}

// ListUsers returns every user with at least one stored result
func (r *ScoreRepository) ListUsers(ctx context.Context) ([]core.UserID, error) {
	var ids []string
	err := r.db.SelectContext(ctx, &ids,
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

func toRow(result score.ComprehensiveReadinessResult) (resultRow, error) {
	encode := func(v interface{}, name string) ([]byte, error) {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", name, err)
		}
		return data, nil
	}

	scores, err := encode(result.Scores, "scores")
	if err != nil {
		return resultRow{}, err
	}
	levels, err := encode(result.ConfidenceLevels, "confidence levels")
	if err != nil {
		return resultRow{}, err
	}
	breakdowns, err := encode(result.Breakdowns, "breakdowns")
	if err != nil {
		return resultRow{}, err
	}
	contribution, err := encode(result.CoreContribution, "core contribution")
	if err != nil {
		return resultRow{}, err
	}
	penalties, err := encode(result.PenaltyApplied, "penalties")
	if err != nil {
		return resultRow{}, err
	}

	return resultRow{
		ID:               result.ID.String(),
		UserID:           result.UserID.String(),
		Date:             result.Date.Start(),
		OverallReadiness: result.OverallReadiness,
		Category:         string(result.Category),
		Confidence:       string(result.Confidence),
		Scores:           scores,
		ConfidenceLevels: levels,
		Breakdowns:       breakdowns,
		CoreContribution: contribution,
		PenaltyApplied:   penalties,
		CalculatedAt:     result.CalculatedAt.Time(),
	}, nil
}

func fromRow(row resultRow) (score.ComprehensiveReadinessResult, error) {
	result := score.ComprehensiveReadinessResult{
		ID:               core.ResultID(row.ID),
		UserID:           core.UserID(row.UserID),
		Date:             core.DayOf(row.Date),
		OverallReadiness: row.OverallReadiness,
		Category:         score.Category(row.Category),
		Confidence:       score.Confidence(row.Confidence),
		CalculatedAt:     core.NewTimestamp(row.CalculatedAt),
	}

	decode := func(data []byte, dst interface{}, name string) error {
		if len(data) == 0 {
			return nil
		}
		if err := json.Unmarshal(data, dst); err != nil {
			return core.NewStorageError(fmt.Sprintf("decode %s", name), err)
		}
		return nil
	}

	if err := decode(row.Scores, &result.Scores, "scores"); err != nil {
		return score.ComprehensiveReadinessResult{}, err
	}
	if err := decode(row.ConfidenceLevels, &result.ConfidenceLevels, "confidence levels"); err != nil {
		return score.ComprehensiveReadinessResult{}, err
	}
	if err := decode(row.Breakdowns, &result.Breakdowns, "breakdowns"); err != nil {
		return score.ComprehensiveReadinessResult{}, err
	}
	if err := decode(row.CoreContribution, &result.CoreContribution, "core contribution"); err != nil {
		return score.ComprehensiveReadinessResult{}, err
	}
	if err := decode(row.PenaltyApplied, &result.PenaltyApplied, "penalties"); err != nil {
		return score.ComprehensiveReadinessResult{}, err
	}
	return result, nil
}
