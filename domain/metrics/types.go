package metrics

import (
	"fmt"
	"math"
	"time"

	"fieldready/domain/core"
)

// MetricType is the closed enumeration of metric kinds the engine
// understands. Unknown source strings resolve to MetricUnknown at the
// boundary instead of silently falling back to a default type.
type MetricType string

const (
	MetricHeartRate        MetricType = "heart_rate"
	MetricRestingHeartRate MetricType = "resting_heart_rate"
	MetricHRV              MetricType = "hrv_rmssd"
	MetricRespiratoryRate  MetricType = "respiratory_rate"
	MetricBodyTemperature  MetricType = "body_temperature"
	MetricOxygenSaturation MetricType = "oxygen_saturation"
	MetricVO2Max           MetricType = "vo2_max"
	MetricWeight           MetricType = "weight"
	MetricSteps            MetricType = "steps"
	MetricActiveEnergy     MetricType = "active_energy"
	MetricExerciseMinutes  MetricType = "exercise_minutes"
	MetricMindfulMinutes   MetricType = "mindful_minutes"
	MetricSleepDeep        MetricType = "sleep_deep"
	MetricSleepREM         MetricType = "sleep_rem"
	MetricSleepCore        MetricType = "sleep_core"
	MetricSleepAwake       MetricType = "sleep_awake"
	MetricUnknown          MetricType = "unknown"
)

// AllMetricTypes lists every known metric type, in a stable order.
// MetricUnknown is deliberately excluded.
var AllMetricTypes = []MetricType{
	MetricHeartRate,
	MetricRestingHeartRate,
	MetricHRV,
	MetricRespiratoryRate,
	MetricBodyTemperature,
	MetricOxygenSaturation,
	MetricVO2Max,
	MetricWeight,
	MetricSteps,
	MetricActiveEnergy,
	MetricExerciseMinutes,
	MetricMindfulMinutes,
	MetricSleepDeep,
	MetricSleepREM,
	MetricSleepCore,
	MetricSleepAwake,
}

// ParseMetricType resolves a raw string to a metric type at the boundary
func ParseMetricType(s string) MetricType {
	for _, t := range AllMetricTypes {
		if string(t) == s {
			return t
		}
	}
	return MetricUnknown
}

// SampleKind distinguishes how a metric's samples aggregate into a day
type SampleKind int

const (
	// KindPoint metrics take the most recent sample within the window
	// (heart rate, weight, temperature).
	KindPoint SampleKind = iota
	// KindInterval metrics sum across the calendar day (sleep stages,
	// active energy, mindful minutes).
	KindInterval
)

// Kind returns the aggregation kind for a metric type
func (t MetricType) Kind() SampleKind {
	switch t {
	case MetricSteps, MetricActiveEnergy, MetricExerciseMinutes, MetricMindfulMinutes,
		MetricSleepDeep, MetricSleepREM, MetricSleepCore, MetricSleepAwake:
		return KindInterval
	default:
		return KindPoint
	}
}

// Unit returns the canonical unit for a metric type
func (t MetricType) Unit() string {
	switch t {
	case MetricHeartRate, MetricRestingHeartRate:
		return "bpm"
	case MetricHRV:
		return "ms"
	case MetricRespiratoryRate:
		return "breaths/min"
	case MetricBodyTemperature:
		return "degC"
	case MetricOxygenSaturation:
		return "percent"
	case MetricVO2Max:
		return "ml/kg/min"
	case MetricWeight:
		return "kg"
	case MetricSteps:
		return "count"
	case MetricActiveEnergy:
		return "kcal"
	case MetricExerciseMinutes, MetricMindfulMinutes,
		MetricSleepDeep, MetricSleepREM, MetricSleepCore, MetricSleepAwake:
		return "min"
	default:
		return ""
	}
}

// String returns the wire representation
func (t MetricType) String() string { return string(t) }

// SleepStageTypes lists the interval metrics that make up a night's sleep
var SleepStageTypes = []MetricType{MetricSleepDeep, MetricSleepREM, MetricSleepCore, MetricSleepAwake}

// RawSample is a single device-recorded observation. Immutable once
// recorded; owned by the storage collaborator.
type RawSample struct {
	UserID    core.UserID   `json:"user_id" db:"user_id"`
	Type      MetricType    `json:"metric_type" db:"metric_type"`
	Value     float64       `json:"value" db:"value"`
	Unit      string        `json:"unit" db:"unit"`
	Timestamp time.Time     `json:"timestamp" db:"timestamp"`
	Source    string        `json:"source" db:"source"`
	Interval  time.Duration `json:"interval,omitempty" db:"interval_ns"`
}

// Validate checks that a sample is structurally usable. A failing sample
// is skipped and logged, never fatal to a run.
func (s RawSample) Validate() error {
	if s.Type == MetricUnknown || s.Type == "" {
		return core.ErrUnknownMetric
	}
	if s.Timestamp.IsZero() {
		return core.NewMetricParseError(string(s.Type), "zero timestamp")
	}
	if math.IsNaN(s.Value) || math.IsInf(s.Value, 0) {
		return core.NewMetricParseError(string(s.Type), fmt.Sprintf("non-finite value %v", s.Value))
	}
	if s.Value < 0 {
		return core.NewMetricParseError(string(s.Type), fmt.Sprintf("negative value %v", s.Value))
	}
	return nil
}
