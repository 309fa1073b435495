// Package score implements the eighteen readiness sub-score calculators,
// the confidence grader, and the composite aggregator. Every calculator
// is a pure function of normalized signals, baselines, manual entries,
// and the static profile; all weights live in this package as documented
// constants.
package score

// Name identifies one of the eighteen sub-scores
type Name string

const (
	// Core scores feed Overall Readiness with positive weight.
	Recovery      Name = "recovery"
	SleepIndex    Name = "sleep_index"
	FatigueIndex  Name = "fatigue_index"
	Endurance     Name = "endurance"
	CardioFitness Name = "cardio_fitness"
	DailyActivity Name = "daily_activity"

	// Penalty scores subtract from Overall Readiness; higher is worse.
	IllnessRisk          Name = "illness_risk"
	CardiacSafetyPenalty Name = "cardiac_safety_penalty"

	// Context scores inform insights and anomaly detection.
	ThermoregulatoryAdaptation Name = "thermoregulatory_adaptation"
	AltitudeScore              Name = "altitude_score"
	CognitiveAlertness         Name = "cognitive_alertness"
	HydrationStatus            Name = "hydration_status"
	NutritionBalance           Name = "nutrition_balance"
	StressResilience           Name = "stress_resilience"
	TrainingLoad               Name = "training_load"
	RespiratoryEfficiency      Name = "respiratory_efficiency"
	CircadianAlignment         Name = "circadian_alignment"
	MusculoskeletalReadiness   Name = "musculoskeletal_readiness"
)

// AllNames lists the eighteen sub-scores in their canonical order
var AllNames = []Name{
	Recovery, SleepIndex, FatigueIndex, Endurance, CardioFitness, DailyActivity,
	IllnessRisk, CardiacSafetyPenalty,
	ThermoregulatoryAdaptation, AltitudeScore, CognitiveAlertness,
	HydrationStatus, NutritionBalance, StressResilience, TrainingLoad,
	RespiratoryEfficiency, CircadianAlignment, MusculoskeletalReadiness,
}

// String returns the wire representation
func (n Name) String() string { return string(n) }

// Confidence grades how much data supports a sub-score
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Rank orders confidence grades for comparison; higher is better
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceHigh:
		return 2
	case ConfidenceMedium:
		return 1
	default:
		return 0
	}
}

// Min returns the weaker of two grades
func (c Confidence) Min(other Confidence) Confidence {
	if other.Rank() < c.Rank() {
		return other
	}
	return c
}

// Breakdown records each weighted term that contributed to a value,
// keyed by component label. The insight generator ranks these.
type Breakdown map[string]float64

// ScoreResult is one sub-score's output for a run
type ScoreResult struct {
	Name       Name       `json:"name"`
	Value      float64    `json:"value"` // always clamped to [0,100]
	Confidence Confidence `json:"confidence"`
	Breakdown  Breakdown  `json:"component_breakdown"`
}

// NeutralMidpoint substitutes for a sub-score whose required signals are
// entirely absent. The run proceeds; confidence communicates the gap.
const NeutralMidpoint = 50.0
