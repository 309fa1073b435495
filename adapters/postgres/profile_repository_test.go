package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldready/domain/core"
	"fieldready/domain/metrics"
)

func TestProfileLoadMapsRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProfileRepository(db)

	rows := sqlmock.NewRows([]string{"user_id", "age", "height_cm", "weight_kg", "gender", "target_sleep_minutes", "external_id"}).
		AddRow("u1", 28, 178.0, 74.5, string(metrics.GenderMale), 480.0, "ext-17")
	mock.ExpectQuery(`(?s)SELECT .* FROM user_profiles\s+WHERE user_id = \$1`).
		WithArgs("u1").
		WillReturnRows(rows)

	profile, err := repo.Load(context.Background(), core.UserID("u1"))
	require.NoError(t, err)
	assert.Equal(t, core.UserID("u1"), profile.UserID)
	assert.Equal(t, 28, profile.Age)
	assert.Equal(t, 480.0, profile.TargetSleepMinutes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileLoadMissingUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProfileRepository(db)

	mock.ExpectQuery(`(?s)SELECT .* FROM user_profiles`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	_, err := repo.Load(context.Background(), core.UserID("ghost"))
	assert.ErrorIs(t, err, core.ErrProfileNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileSaveUpserts(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProfileRepository(db)

	mock.ExpectExec(`(?s)INSERT INTO user_profiles .*ON CONFLICT \(user_id\) DO UPDATE SET`).
		WithArgs("u1", 28, 178.0, 74.5, string(metrics.GenderMale), 480.0, "").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Save(context.Background(), metrics.UserProfile{
		UserID:             core.UserID("u1"),
		Age:                28,
		HeightCM:           178,
		WeightKG:           74.5,
		Gender:             metrics.GenderMale,
		TargetSleepMinutes: 480,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
