package baseline

import (
	"fieldready/domain/core"
	"fieldready/domain/metrics"
)

// DailyHistory folds raw samples into per-metric daily values for the
// estimator: the mean for point metrics, the calendar-day sum for
// interval metrics. Invalid samples are skipped.
func DailyHistory(samples []metrics.RawSample) map[metrics.MetricType][]DailyValue {
	type acc struct {
		sum   float64
		count int
	}
	perDay := make(map[metrics.MetricType]map[core.Day]*acc)

	for _, s := range samples {
		if s.Validate() != nil {
			continue
		}
		day := core.DayOf(s.Timestamp)
		if perDay[s.Type] == nil {
			perDay[s.Type] = make(map[core.Day]*acc)
		}
		a := perDay[s.Type][day]
		if a == nil {
			a = &acc{}
			perDay[s.Type][day] = a
		}
		a.sum += s.Value
		a.count++
	}

	history := make(map[metrics.MetricType][]DailyValue, len(perDay))
	for t, days := range perDay {
		values := make([]DailyValue, 0, len(days))
		for day, a := range days {
			v := a.sum
			if t.Kind() == metrics.KindPoint && a.count > 0 {
				v = a.sum / float64(a.count)
			}
			values = append(values, DailyValue{Day: day, Value: v})
		}
		history[t] = values
	}
	return history
}
