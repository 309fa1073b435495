package baseline

import (
	"sort"

	"fieldready/domain/core"
	"fieldready/domain/metrics"

	"github.com/montanaflynn/stats"
)

// DailyValue is one completed day's representative value for a metric
type DailyValue struct {
	Day   core.Day
	Value float64
}

// Estimator computes sliding-window baselines from completed-day values.
// The calculation day itself is excluded so mid-day partial data cannot
// drift the baseline.
type Estimator struct {
	windowDays int
}

// NewEstimator creates an estimator with the default trailing window
func NewEstimator() *Estimator {
	return &Estimator{windowDays: WindowDays}
}

// NewEstimatorWithWindow creates an estimator with a custom window size
func NewEstimatorWithWindow(days int) *Estimator {
	if days < 1 {
		days = WindowDays
	}
	return &Estimator{windowDays: days}
}

// Estimate builds a baseline for one metric from its daily history.
// Values on or after asOf, outside the trailing window, or duplicated
// per day are excluded; the latest value per day wins.
func (e *Estimator) Estimate(userID core.UserID, t metrics.MetricType, asOf core.Day, history []DailyValue) Baseline {
	cutoff := asOf.AddDays(-e.windowDays)

	perDay := make(map[core.Day]float64)
	for _, dv := range history {
		if !dv.Day.Before(asOf) {
			continue
		}
		if dv.Day.Before(cutoff) {
			continue
		}
		perDay[dv.Day] = dv.Value
	}

	days := make([]core.Day, 0, len(perDay))
	for d := range perDay {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	values := make([]float64, 0, len(days))
	for _, d := range days {
		values = append(values, perDay[d])
	}

	b := Baseline{
		UserID:   userID,
		Type:     t,
		Days:     len(values),
		Maturity: MaturityFor(len(values)),
		AsOf:     asOf,
	}
	if len(values) == 0 {
		return b
	}

	mean, err := stats.Mean(values)
	if err != nil {
		return b
	}
	b.Mean = mean

	if len(values) > 1 {
		// Sample standard deviation; a single day has no spread.
		sd, err := stats.StandardDeviationSample(values)
		if err == nil {
			b.StdDev = sd
		}
	}
	return b
}

// EstimateSet builds baselines for every metric present in the per-type
// history map.
func (e *Estimator) EstimateSet(userID core.UserID, asOf core.Day, history map[metrics.MetricType][]DailyValue) *Set {
	set := NewSet(userID)
	for t, dvs := range history {
		set.Put(e.Estimate(userID, t, asOf, dvs))
	}
	return set
}
