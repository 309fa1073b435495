package signal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldready/domain/core"
	"fieldready/domain/metrics"
)

const normUser = core.UserID("norm-user")

func normDay(t *testing.T) core.Day {
	t.Helper()
	day, err := core.ParseDay("2026-03-10")
	require.NoError(t, err)
	return day
}

func sampleAt(t metrics.MetricType, at time.Time, value float64) metrics.RawSample {
	return metrics.RawSample{
		UserID:    normUser,
		Type:      t,
		Value:     value,
		Unit:      t.Unit(),
		Timestamp: at,
		Source:    "wearable",
	}
}

func TestNormalizePointTakesLatestAndDailyMean(t *testing.T) {
	day := normDay(t)
	samples := []metrics.RawSample{
		sampleAt(metrics.MetricHeartRate, day.Start().Add(8*time.Hour), 60),
		sampleAt(metrics.MetricHeartRate, day.Start().Add(12*time.Hour), 70),
		sampleAt(metrics.MetricHeartRate, day.Start().Add(20*time.Hour), 80),
	}

	set := NewNormalizer(nil).Normalize(normUser, day, samples)
	sig := set.Get(metrics.MetricHeartRate)

	require.True(t, sig.Present())
	assert.Equal(t, 80.0, sig.Latest)
	assert.InDelta(t, 70.0, sig.Aggregate, 1e-9)
	assert.Equal(t, 3, sig.Samples)
}

func TestNormalizeIntervalSumsCalendarDayOnly(t *testing.T) {
	day := normDay(t)
	samples := []metrics.RawSample{
		sampleAt(metrics.MetricSteps, day.AddDays(-1).Start().Add(12*time.Hour), 5000),
		sampleAt(metrics.MetricSteps, day.Start().Add(9*time.Hour), 3000),
		sampleAt(metrics.MetricSteps, day.Start().Add(15*time.Hour), 4000),
	}

	set := NewNormalizer(nil).Normalize(normUser, day, samples)
	sig := set.Get(metrics.MetricSteps)

	require.True(t, sig.Present())
	assert.Equal(t, 7000.0, sig.Aggregate, "yesterday's steps must not leak into today")
	assert.Equal(t, 7000.0, sig.Value())
}

func TestNormalizeIntervalWithOnlyLookbackSamplesIsMissing(t *testing.T) {
	day := normDay(t)
	samples := []metrics.RawSample{
		sampleAt(metrics.MetricSleepDeep, day.AddDays(-1).Start().Add(2*time.Hour), 90),
	}

	set := NewNormalizer(nil).Normalize(normUser, day, samples)
	assert.False(t, set.Get(metrics.MetricSleepDeep).Present())
}

func TestNormalizePointLookbackInformsLatestNotCoverage(t *testing.T) {
	day := normDay(t)
	samples := []metrics.RawSample{
		sampleAt(metrics.MetricVO2Max, day.AddDays(-2).Start().Add(10*time.Hour), 42),
	}

	set := NewNormalizer(nil).Normalize(normUser, day, samples)
	sig := set.Get(metrics.MetricVO2Max)

	require.True(t, sig.Present())
	assert.Equal(t, 42.0, sig.Latest)
	assert.Equal(t, 0.0, sig.Coverage, "a lookback-only metric earns no coverage for the day")
	assert.Greater(t, sig.Staleness, 24*time.Hour)
}

func TestNeverObservedMetricIsMissingNotZero(t *testing.T) {
	set := NewNormalizer(nil).Normalize(normUser, normDay(t), nil)

	sig := set.Get(metrics.MetricHRV)
	assert.False(t, sig.Present())
	assert.Equal(t, 0.0, set.Coverage(metrics.MetricHRV))
}

func TestCoverageCapsAtFull(t *testing.T) {
	day := normDay(t)
	var samples []metrics.RawSample
	// Resting heart rate expects one sample per day.
	for i := 0; i < 5; i++ {
		samples = append(samples, sampleAt(metrics.MetricRestingHeartRate,
			day.Start().Add(time.Duration(8+i)*time.Hour), 60))
	}

	set := NewNormalizer(nil).Normalize(normUser, day, samples)
	assert.Equal(t, 1.0, set.Get(metrics.MetricRestingHeartRate).Coverage)
}

func TestMalformedSamplesGoToSinkAndAreSkipped(t *testing.T) {
	day := normDay(t)
	var sunk []metrics.RawSample
	sink := func(s metrics.RawSample, err error) {
		require.Error(t, err)
		sunk = append(sunk, s)
	}

	bad := sampleAt(metrics.MetricHeartRate, day.Start().Add(9*time.Hour), -10)
	good := sampleAt(metrics.MetricHeartRate, day.Start().Add(10*time.Hour), 62)

	set := NewNormalizer(sink).Normalize(normUser, day, []metrics.RawSample{bad, good})

	require.Len(t, sunk, 1)
	assert.Equal(t, -10.0, sunk[0].Value)

	sig := set.Get(metrics.MetricHeartRate)
	require.True(t, sig.Present())
	assert.Equal(t, 62.0, sig.Latest)
	assert.Equal(t, 1, sig.Samples)
}

func TestStalenessMeasuredAgainstDayEnd(t *testing.T) {
	day := normDay(t)
	samples := []metrics.RawSample{
		sampleAt(metrics.MetricBodyTemperature, day.Start().Add(6*time.Hour), 36.6),
	}

	// Two normalizations at different wall-clock moments must agree.
	first := NewNormalizer(nil).Normalize(normUser, day, samples)
	time.Sleep(5 * time.Millisecond)
	second := NewNormalizer(nil).Normalize(normUser, day, samples)

	assert.Equal(t,
		first.Get(metrics.MetricBodyTemperature).Staleness,
		second.Get(metrics.MetricBodyTemperature).Staleness)
	assert.Equal(t, 18*time.Hour, first.Get(metrics.MetricBodyTemperature).Staleness)
}
