package metrics

import "fieldready/domain/core"

// Gender as reported in the profile. Only used where physiology tables
// differ; never for access decisions.
type Gender string

const (
	GenderFemale      Gender = "female"
	GenderMale        Gender = "male"
	GenderUnspecified Gender = "unspecified"
)

// UserProfile is the static profile supplied once per calculation.
// Immutable for the duration of a run.
type UserProfile struct {
	UserID             core.UserID `json:"user_id" db:"user_id"`
	Age                int         `json:"age" db:"age"`
	HeightCM           float64     `json:"height_cm" db:"height_cm"`
	WeightKG           float64     `json:"weight_kg" db:"weight_kg"`
	Gender             Gender      `json:"gender" db:"gender"`
	TargetSleepMinutes float64     `json:"target_sleep_minutes" db:"target_sleep_minutes"`
	ExternalID         string      `json:"external_id,omitempty" db:"external_id"`
}

// Defaults used when no profile exists for a user. A missing profile
// never blocks a calculation.
const (
	DefaultAge                = 30
	DefaultHeightCM           = 175.0
	DefaultWeightKG           = 75.0
	DefaultTargetSleepMinutes = 480.0
)

// DefaultProfile returns the documented fallback profile for a user
func DefaultProfile(userID core.UserID) UserProfile {
	return UserProfile{
		UserID:             userID,
		Age:                DefaultAge,
		HeightCM:           DefaultHeightCM,
		WeightKG:           DefaultWeightKG,
		Gender:             GenderUnspecified,
		TargetSleepMinutes: DefaultTargetSleepMinutes,
	}
}

// Normalize fills zero-valued fields with the documented defaults
func (p UserProfile) Normalize() UserProfile {
	if p.Age <= 0 {
		p.Age = DefaultAge
	}
	if p.HeightCM <= 0 {
		p.HeightCM = DefaultHeightCM
	}
	if p.WeightKG <= 0 {
		p.WeightKG = DefaultWeightKG
	}
	if p.Gender == "" {
		p.Gender = GenderUnspecified
	}
	if p.TargetSleepMinutes <= 0 {
		p.TargetSleepMinutes = DefaultTargetSleepMinutes
	}
	return p
}

// MaxHeartRate estimates HRmax from age (Tanaka formula)
func (p UserProfile) MaxHeartRate() float64 {
	return 208 - 0.7*float64(p.Age)
}
