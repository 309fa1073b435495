package app

import (
	"context"

	"fieldready/domain/baseline"
	"fieldready/domain/core"
	"fieldready/domain/metrics"
)

// Availability reports whether enough history exists to score a day and
// which longitudinal state the user is in.
type Availability struct {
	CanCalculate bool   `json:"can_calculate"`
	Status       string `json:"status"` // collecting, warming, established
	DaysOfData   int    `json:"days_of_data"`
}

// Availability checks the insufficient-history gate without scoring.
// Presentation surfaces call this to show a "collecting baseline"
// status instead of a score while a new user builds history.
func (e *ReadinessEngine) Availability(ctx context.Context, userID core.UserID, day core.Day) (Availability, error) {
	start := day.AddDays(-baseline.WindowDays).Start()
	samples, err := e.metricReader.GetMetricsInRange(ctx, userID, start, day.End())
	if err != nil {
		return Availability{}, core.NewStorageError("read samples", err)
	}
	return availabilityOf(samples, day), nil
}

// availabilityOf counts distinct days carrying at least one valid
// sample. Calculation is gated only while collecting; warming days run
// with population defaults and capped confidence.
func availabilityOf(samples []metrics.RawSample, day core.Day) Availability {
	seen := make(map[core.Day]bool)
	for _, s := range samples {
		if s.Validate() != nil {
			continue
		}
		d := core.DayOf(s.Timestamp)
		if day.Before(d) {
			continue
		}
		seen[d] = true
	}
	maturity := baseline.MaturityFor(len(seen))
	return Availability{
		CanCalculate: maturity != baseline.MaturityCollecting,
		Status:       maturity.String(),
		DaysOfData:   len(seen),
	}
}
