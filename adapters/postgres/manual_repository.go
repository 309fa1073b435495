package postgres

import (
	"context"
	"database/sql"
	goerrors "errors"
	"time"

	"github.com/jmoiron/sqlx"

	"fieldready/domain/core"
	"fieldready/domain/metrics"
	"fieldready/ports"
)

// ManualEntryRepository implements ports.ManualEntryRepository on
// PostgreSQL. Non-activity kinds upsert per (user, day, kind); activity
// sessions append.
type ManualEntryRepository struct {
	db *sqlx.DB
}

// NewManualEntryRepository creates a new PostgreSQL manual entry repository
func NewManualEntryRepository(db *sqlx.DB) ports.ManualEntryRepository {
	return &ManualEntryRepository{db: db}
}

type manualRow struct {
	ID               string    `db:"id"`
	UserID           string    `db:"user_id"`
	Kind             string    `db:"kind"`
	Day              time.Time `db:"day"`
	Override         bool      `db:"override_device"`
	DurationMinutes  float64   `db:"duration_minutes"`
	Intensity        float64   `db:"intensity"`
	SleepMinutes     float64   `db:"sleep_minutes"`
	DeepMinutes      float64   `db:"deep_minutes"`
	REMMinutes       float64   `db:"rem_minutes"`
	Awakenings       int       `db:"awakenings"`
	StressLevel      float64   `db:"stress_level"`
	HydrationLiters  float64   `db:"hydration_liters"`
	Calories         float64   `db:"calories"`
	NutritionQuality float64   `db:"nutrition_quality"`
	RecordedAt       time.Time `db:"recorded_at"`
}

const manualColumns = `id, user_id, kind, day, override_device, duration_minutes, intensity,
	sleep_minutes, deep_minutes, rem_minutes, awakenings, stress_level,
	hydration_liters, calories, nutrition_quality, recorded_at`

// SaveEntry stores an entry; non-activity kinds replace the prior one
func (r *ManualEntryRepository) SaveEntry(ctx context.Context, entry metrics.ManualEntry) error {
	if entry.ID.IsEmpty() {
		entry.ID = core.NewID()
	}
	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO manual_entries (` + manualColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	if entry.Kind != metrics.EntryActivity {
		query += `
		ON CONFLICT (user_id, day, kind) WHERE kind <> 'activity' DO UPDATE SET
			id = EXCLUDED.id,
			override_device = EXCLUDED.override_device,
			duration_minutes = EXCLUDED.duration_minutes,
			intensity = EXCLUDED.intensity,
			sleep_minutes = EXCLUDED.sleep_minutes,
			deep_minutes = EXCLUDED.deep_minutes,
			rem_minutes = EXCLUDED.rem_minutes,
			awakenings = EXCLUDED.awakenings,
			stress_level = EXCLUDED.stress_level,
			hydration_liters = EXCLUDED.hydration_liters,
			calories = EXCLUDED.calories,
			nutrition_quality = EXCLUDED.nutrition_quality,
			recorded_at = EXCLUDED.recorded_at`
	}

	_, err := r.db.ExecContext(ctx, query,
		entry.ID.String(), entry.UserID.String(), string(entry.Kind), entry.Day.Start(),
		entry.Override, entry.DurationMinutes, entry.Intensity,
		entry.SleepMinutes, entry.DeepMinutes, entry.REMMinutes, entry.Awakenings,
		entry.StressLevel, entry.HydrationLiters, entry.Calories, entry.NutritionQuality,
		entry.RecordedAt)
	if err != nil {
		return core.NewStorageError("save manual entry", err)
	}
	return nil
}

// ListActivity returns the day's logged activity sessions
func (r *ManualEntryRepository) ListActivity(ctx context.Context, userID core.UserID, day core.Day) ([]metrics.ManualEntry, error) {
	var rows []manualRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT `+manualColumns+`
		FROM manual_entries
		WHERE user_id = $1 AND day = $2 AND kind = $3
		ORDER BY recorded_at ASC`,
		string(userID), day.Start(), string(metrics.EntryActivity))
	if err != nil {
		return nil, core.NewStorageError("list manual activity", err)
	}

	out := make([]metrics.ManualEntry, len(rows))
	for i, row := range rows {
		out[i] = fromManualRow(row)
	}
	return out, nil
}

// GetEntry returns the day's entry of the given kind, or nil
func (r *ManualEntryRepository) GetEntry(ctx context.Context, userID core.UserID, day core.Day, kind metrics.EntryKind) (*metrics.ManualEntry, error) {
	var row manualRow
	err := r.db.GetContext(ctx, &row, `
		SELECT `+manualColumns+`
		FROM manual_entries
		WHERE user_id = $1 AND day = $2 AND kind = $3`,
		string(userID), day.Start(), string(kind))
	if err != nil {
		if goerrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, core.NewStorageError("read manual entry", err)
	}
	entry := fromManualRow(row)
	return &entry, nil
}

func fromManualRow(row manualRow) metrics.ManualEntry {
	return metrics.ManualEntry{
		ID:               core.ID(row.ID),
		UserID:           core.UserID(row.UserID),
		Kind:             metrics.EntryKind(row.Kind),
		Day:              core.DayOf(row.Day),
		Override:         row.Override,
		DurationMinutes:  row.DurationMinutes,
		Intensity:        row.Intensity,
		SleepMinutes:     row.SleepMinutes,
		DeepMinutes:      row.DeepMinutes,
		REMMinutes:       row.REMMinutes,
		Awakenings:       row.Awakenings,
		StressLevel:      row.StressLevel,
		HydrationLiters:  row.HydrationLiters,
		Calories:         row.Calories,
		NutritionQuality: row.NutritionQuality,
		RecordedAt:       row.RecordedAt,
	}
}
