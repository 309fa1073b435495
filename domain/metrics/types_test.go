package metrics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"fieldready/domain/core"
)

func TestParseMetricType(t *testing.T) {
	assert.Equal(t, MetricHRV, ParseMetricType("hrv_rmssd"))
	assert.Equal(t, MetricSleepREM, ParseMetricType("sleep_rem"))
	assert.Equal(t, MetricUnknown, ParseMetricType("blood_glucose"))
	assert.Equal(t, MetricUnknown, ParseMetricType(""))
}

func TestMetricKinds(t *testing.T) {
	assert.Equal(t, KindPoint, MetricHeartRate.Kind())
	assert.Equal(t, KindPoint, MetricBodyTemperature.Kind())
	assert.Equal(t, KindInterval, MetricSteps.Kind())
	for _, stage := range SleepStageTypes {
		assert.Equal(t, KindInterval, stage.Kind(), "sleep stage %s", stage)
	}
}

func validSample() RawSample {
	return RawSample{
		UserID:    core.UserID("u1"),
		Type:      MetricHeartRate,
		Value:     64,
		Unit:      "bpm",
		Timestamp: time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC),
		Source:    "wearable",
	}
}

func TestRawSampleValidate(t *testing.T) {
	assert.NoError(t, validSample().Validate())

	tests := []struct {
		name   string
		mutate func(*RawSample)
	}{
		{"unknown type", func(s *RawSample) { s.Type = MetricUnknown }},
		{"empty type", func(s *RawSample) { s.Type = "" }},
		{"zero timestamp", func(s *RawSample) { s.Timestamp = time.Time{} }},
		{"NaN value", func(s *RawSample) { s.Value = math.NaN() }},
		{"infinite value", func(s *RawSample) { s.Value = math.Inf(1) }},
		{"negative value", func(s *RawSample) { s.Value = -5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSample()
			tt.mutate(&s)
			assert.Error(t, s.Validate())
		})
	}
}

func TestProfileNormalizeFillsDefaults(t *testing.T) {
	p := UserProfile{UserID: core.UserID("u1")}.Normalize()

	assert.Equal(t, DefaultAge, p.Age)
	assert.Equal(t, DefaultTargetSleepMinutes, p.TargetSleepMinutes)

	custom := UserProfile{UserID: core.UserID("u2"), Age: 44, TargetSleepMinutes: 420}.Normalize()
	assert.Equal(t, 44, custom.Age)
	assert.Equal(t, 420.0, custom.TargetSleepMinutes)
}

func TestMaxHeartRateIsAgeGraded(t *testing.T) {
	young := UserProfile{Age: 20}.MaxHeartRate()
	old := UserProfile{Age: 60}.MaxHeartRate()
	assert.Greater(t, young, old)
	assert.InDelta(t, 194, UserProfile{Age: 20}.MaxHeartRate(), 0.5)
}
