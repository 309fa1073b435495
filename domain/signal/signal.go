// Package signal converts heterogeneous raw samples into one unified
// per-metric signal for a calculation day: latest value, daily
// aggregate, sample coverage, and staleness. "No data" is an explicit
// state distinct from a measured zero; conflating the two would corrupt
// both confidence grading and deviation-from-baseline math downstream.
package signal

import (
	"time"

	"fieldready/domain/core"
	"fieldready/domain/metrics"
)

// State marks whether a metric produced any usable samples
type State int

const (
	StateMissing State = iota
	StatePresent
)

// Signal is the normalized per-(metric, day) input to the calculators
type Signal struct {
	Type      metrics.MetricType `json:"metric_type"`
	Latest    float64            `json:"latest"`
	Aggregate float64            `json:"aggregate"`
	Samples   int                `json:"samples"`
	Coverage  float64            `json:"coverage"` // samples present / samples expected, capped at 1
	Staleness time.Duration      `json:"staleness"`
	State     State              `json:"state"`
}

// Present reports whether the signal carries measured data
func (s Signal) Present() bool { return s.State == StatePresent }

// Value returns the representative value for the signal's kind: the
// latest sample for point metrics, the daily sum for interval metrics.
func (s Signal) Value() float64 {
	if s.Type.Kind() == metrics.KindInterval {
		return s.Aggregate
	}
	return s.Latest
}

// Set holds the normalized signals for one (user, day) run
type Set struct {
	UserID  core.UserID
	Day     core.Day
	signals map[metrics.MetricType]Signal
}

// NewSet creates an empty signal set for a user and day
func NewSet(userID core.UserID, day core.Day) *Set {
	return &Set{UserID: userID, Day: day, signals: make(map[metrics.MetricType]Signal)}
}

// Get returns the signal for a metric type. A type never observed yields
// a missing-state signal rather than an error.
func (s *Set) Get(t metrics.MetricType) Signal {
	if sig, ok := s.signals[t]; ok {
		return sig
	}
	return Signal{Type: t, State: StateMissing}
}

// Put records a signal, replacing any prior signal for the same type
func (s *Set) Put(sig Signal) {
	s.signals[sig.Type] = sig
}

// Coverage returns the mean coverage across the given metric types.
// Missing metrics contribute zero.
func (s *Set) Coverage(types ...metrics.MetricType) float64 {
	if len(types) == 0 {
		return 0
	}
	total := 0.0
	for _, t := range types {
		total += s.Get(t).Coverage
	}
	return total / float64(len(types))
}

// PresentCount counts how many of the given types carry data
func (s *Set) PresentCount(types ...metrics.MetricType) int {
	n := 0
	for _, t := range types {
		if s.Get(t).Present() {
			n++
		}
	}
	return n
}
