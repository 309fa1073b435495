package signal

import (
	"sort"
	"time"

	"fieldready/domain/core"
	"fieldready/domain/metrics"

	"github.com/montanaflynn/stats"
)

// expectedDailySamples is the per-type sample count that earns full
// coverage. Tuned to what wearables actually deliver in a day.
var expectedDailySamples = map[metrics.MetricType]int{
	metrics.MetricHeartRate:        24,
	metrics.MetricRestingHeartRate: 1,
	metrics.MetricHRV:              2,
	metrics.MetricRespiratoryRate:  2,
	metrics.MetricBodyTemperature:  2,
	metrics.MetricOxygenSaturation: 2,
	metrics.MetricVO2Max:           1,
	metrics.MetricWeight:           1,
	metrics.MetricSteps:            12,
	metrics.MetricActiveEnergy:     12,
	metrics.MetricExerciseMinutes:  1,
	metrics.MetricMindfulMinutes:   1,
	metrics.MetricSleepDeep:        1,
	metrics.MetricSleepREM:         1,
	metrics.MetricSleepCore:        1,
	metrics.MetricSleepAwake:       1,
}

// ParseErrorSink receives samples that failed validation. The normalizer
// skips them and proceeds; it never aborts a run on a malformed sample.
type ParseErrorSink func(sample metrics.RawSample, err error)

// Normalizer builds a Set from raw samples for a (user, day) pair
type Normalizer struct {
	onParseError ParseErrorSink
}

// NewNormalizer creates a normalizer. sink may be nil.
func NewNormalizer(sink ParseErrorSink) *Normalizer {
	return &Normalizer{onParseError: sink}
}

// Normalize converts raw samples into per-type signals for the given
// day. Samples may span a trailing lookback window; point metrics take
// the most recent sample in the window while interval metrics sum only
// what falls inside the calendar day. Missing metric types simply do not
// appear in the set; Set.Get returns a missing-state signal for them.
func (n *Normalizer) Normalize(userID core.UserID, day core.Day, samples []metrics.RawSample) *Set {
	set := NewSet(userID, day)

	byType := make(map[metrics.MetricType][]metrics.RawSample)
	for _, s := range samples {
		if err := s.Validate(); err != nil {
			if n.onParseError != nil {
				n.onParseError(s, err)
			}
			continue
		}
		byType[s.Type] = append(byType[s.Type], s)
	}

	for t, group := range byType {
		sort.Slice(group, func(i, j int) bool {
			return group[i].Timestamp.Before(group[j].Timestamp)
		})

		var sig Signal
		switch t.Kind() {
		case metrics.KindInterval:
			sig = n.normalizeInterval(t, day, group)
		default:
			sig = n.normalizePoint(t, day, group)
		}
		if sig.Present() {
			set.Put(sig)
		}
	}

	return set
}

func (n *Normalizer) normalizePoint(t metrics.MetricType, day core.Day, group []metrics.RawSample) Signal {
	latest := group[len(group)-1]

	// Daily aggregate is the mean of samples that landed on the day
	// itself; lookback samples inform Latest and Staleness only.
	var dayValues []float64
	for _, s := range group {
		if day.Contains(s.Timestamp) {
			dayValues = append(dayValues, s.Value)
		}
	}
	aggregate := latest.Value
	if len(dayValues) > 0 {
		if m, err := stats.Mean(dayValues); err == nil {
			aggregate = m
		}
	}

	return Signal{
		Type:      t,
		Latest:    latest.Value,
		Aggregate: aggregate,
		Samples:   len(dayValues),
		Coverage:  coverage(t, len(dayValues)),
		Staleness: staleness(day, latest.Timestamp),
		State:     StatePresent,
	}
}

func (n *Normalizer) normalizeInterval(t metrics.MetricType, day core.Day, group []metrics.RawSample) Signal {
	sum := 0.0
	count := 0
	var last time.Time
	for _, s := range group {
		if !day.Contains(s.Timestamp) {
			continue
		}
		sum += s.Value
		count++
		if s.Timestamp.After(last) {
			last = s.Timestamp
		}
	}
	if count == 0 {
		return Signal{Type: t, State: StateMissing}
	}

	return Signal{
		Type:      t,
		Latest:    group[len(group)-1].Value,
		Aggregate: sum,
		Samples:   count,
		Coverage:  coverage(t, count),
		Staleness: staleness(day, last),
		State:     StatePresent,
	}
}

// coverage caps at 1.0; extra samples never earn bonus coverage
func coverage(t metrics.MetricType, n int) float64 {
	expected := expectedDailySamples[t]
	if expected <= 0 {
		expected = 1
	}
	c := float64(n) / float64(expected)
	if c > 1 {
		c = 1
	}
	return c
}

// staleness is measured against the end of the calculation day, not the
// wall clock, so a recomputation for the same day is deterministic.
func staleness(day core.Day, last time.Time) time.Duration {
	d := day.End().Sub(last.UTC())
	if d < 0 {
		return 0
	}
	return d
}
