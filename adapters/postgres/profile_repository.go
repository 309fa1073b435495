package postgres

import (
	"context"
	"database/sql"
	goerrors "errors"

	"github.com/jmoiron/sqlx"

	"fieldready/domain/core"
	"fieldready/domain/metrics"
	"fieldready/ports"
)

// ProfileRepository implements ports.ProfileRepository on PostgreSQL
type ProfileRepository struct {
	db *sqlx.DB
}

// NewProfileRepository creates a new PostgreSQL profile repository
func NewProfileRepository(db *sqlx.DB) ports.ProfileRepository {
	return &ProfileRepository{db: db}
}

// Load returns a user's profile or core.ErrProfileNotFound
func (r *ProfileRepository) Load(ctx context.Context, userID core.UserID) (metrics.UserProfile, error) {
	var profile metrics.UserProfile
	err := r.db.GetContext(ctx, &profile, `
		SELECT user_id, age, height_cm, weight_kg, gender, target_sleep_minutes, external_id
		FROM user_profiles
		WHERE user_id = $1`,
		string(userID))
	if err != nil {
		if goerrors.Is(err, sql.ErrNoRows) {
			return metrics.UserProfile{}, core.ErrProfileNotFound
		}
		return metrics.UserProfile{}, core.NewStorageError("load profile", err)
	}
	return profile, nil
}

// Save upserts a profile by user
func (r *ProfileRepository) Save(ctx context.Context, profile metrics.UserProfile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_profiles (user_id, age, height_cm, weight_kg, gender, target_sleep_minutes, external_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			age = EXCLUDED.age,
			height_cm = EXCLUDED.height_cm,
			weight_kg = EXCLUDED.weight_kg,
			gender = EXCLUDED.gender,
			target_sleep_minutes = EXCLUDED.target_sleep_minutes,
			external_id = EXCLUDED.external_id`,
		profile.UserID.String(), profile.Age, profile.HeightCM, profile.WeightKG,
		string(profile.Gender), profile.TargetSleepMinutes, profile.ExternalID)
	if err != nil {
		return core.NewStorageError("save profile", err)
	}
	return nil
}
