package metrics

import (
	"time"

	"fieldready/domain/core"
)

// EntryKind identifies the category of a self-reported log
type EntryKind string

const (
	EntryActivity  EntryKind = "activity"
	EntrySleep     EntryKind = "sleep"
	EntryStress    EntryKind = "stress"
	EntryNutrition EntryKind = "nutrition"
	EntryHydration EntryKind = "hydration"
)

// ManualEntry is a user-asserted record for a specific day. When Override
// is set, the entry replaces device-derived values for the same concern.
type ManualEntry struct {
	ID       core.ID     `json:"id" db:"id"`
	UserID   core.UserID `json:"user_id" db:"user_id"`
	Kind     EntryKind   `json:"kind" db:"kind"`
	Day      core.Day    `json:"day"`
	Override bool        `json:"override" db:"override_device"`

	// Activity fields
	DurationMinutes float64 `json:"duration_minutes,omitempty" db:"duration_minutes"`
	Intensity       float64 `json:"intensity,omitempty" db:"intensity"` // RPE 1-10

	// Sleep fields (minutes)
	SleepMinutes float64 `json:"sleep_minutes,omitempty" db:"sleep_minutes"`
	DeepMinutes  float64 `json:"deep_minutes,omitempty" db:"deep_minutes"`
	REMMinutes   float64 `json:"rem_minutes,omitempty" db:"rem_minutes"`
	Awakenings   int     `json:"awakenings,omitempty" db:"awakenings"`

	// Stress: subjective 1-10
	StressLevel float64 `json:"stress_level,omitempty" db:"stress_level"`

	// Hydration: liters. Nutrition: kcal plus a 0-1 quality rating.
	HydrationLiters  float64 `json:"hydration_liters,omitempty" db:"hydration_liters"`
	Calories         float64 `json:"calories,omitempty" db:"calories"`
	NutritionQuality float64 `json:"nutrition_quality,omitempty" db:"nutrition_quality"`

	RecordedAt time.Time `json:"recorded_at" db:"recorded_at"`
}
