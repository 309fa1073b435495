// Package baseline maintains per-(user, metric) rolling statistics over
// a trailing window, so today's signal can be expressed as a deviation
// from personal norm rather than an absolute value.
package baseline

import (
	"fieldready/domain/core"
	"fieldready/domain/metrics"
)

// Window and maturity thresholds. Baselines update once per completed
// day; partial-day data never feeds the window.
const (
	WindowDays = 14

	// CollectingMaxDays is the history size below which no calculation
	// runs at all. WarmingMinDays..EstablishedMinDays-1 runs with
	// population defaults and capped confidence.
	CollectingMaxDays  = 3
	EstablishedMinDays = 7
)

// Maturity describes how much history backs a baseline
type Maturity int

const (
	MaturityCollecting Maturity = iota
	MaturityWarming
	MaturityEstablished
)

// String returns the human-readable maturity label
func (m Maturity) String() string {
	switch m {
	case MaturityCollecting:
		return "collecting"
	case MaturityWarming:
		return "warming"
	case MaturityEstablished:
		return "established"
	default:
		return "unknown"
	}
}

// MaturityFor maps a day count onto the longitudinal state machine.
// A long data gap demotes only the affected metric back to warming; the
// day count shrinks as stale days fall out of the window, so no explicit
// reset transition exists.
func MaturityFor(days int) Maturity {
	switch {
	case days < CollectingMaxDays:
		return MaturityCollecting
	case days < EstablishedMinDays:
		return MaturityWarming
	default:
		return MaturityEstablished
	}
}

// Baseline is the rolling mean/stddev for one (user, metric) pair
type Baseline struct {
	UserID   core.UserID        `json:"user_id" db:"user_id"`
	Type     metrics.MetricType `json:"metric_type" db:"metric_type"`
	Mean     float64            `json:"mean" db:"mean"`
	StdDev   float64            `json:"std_dev" db:"std_dev"`
	Days     int                `json:"days" db:"days"`
	Maturity Maturity           `json:"maturity"`
	AsOf     core.Day           `json:"as_of"`
}

// Established reports whether the baseline has matured
func (b Baseline) Established() bool { return b.Maturity == MaturityEstablished }

// ZScore standardizes a value against the baseline. During warm-up the
// population default for the metric is used instead, so deviation-based
// calculators always have something sane to work with.
func (b Baseline) ZScore(value float64) float64 {
	mean, sd := b.Mean, b.StdDev
	if b.Maturity != MaturityEstablished {
		pop := PopulationDefault(b.Type)
		mean, sd = pop.Mean, pop.StdDev
	}
	if sd <= 0 {
		pop := PopulationDefault(b.Type)
		sd = pop.StdDev
		if sd <= 0 {
			return 0
		}
	}
	return (value - mean) / sd
}

// Set holds the baselines for one run, keyed by metric type
type Set struct {
	UserID    core.UserID
	baselines map[metrics.MetricType]Baseline
}

// NewSet creates an empty baseline set
func NewSet(userID core.UserID) *Set {
	return &Set{UserID: userID, baselines: make(map[metrics.MetricType]Baseline)}
}

// Get returns the baseline for a metric, or a collecting-state zero
// baseline when none exists.
func (s *Set) Get(t metrics.MetricType) Baseline {
	if b, ok := s.baselines[t]; ok {
		return b
	}
	return Baseline{UserID: s.UserID, Type: t, Maturity: MaturityCollecting}
}

// Put stores a baseline, replacing any prior entry for the metric
func (s *Set) Put(b Baseline) {
	s.baselines[b.Type] = b
}

// MinMaturity returns the weakest maturity across the given types
func (s *Set) MinMaturity(types ...metrics.MetricType) Maturity {
	min := MaturityEstablished
	for _, t := range types {
		if m := s.Get(t).Maturity; m < min {
			min = m
		}
	}
	return min
}
