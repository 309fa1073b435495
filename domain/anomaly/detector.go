// Package anomaly flags sub-scores whose value today sits far outside
// the user's own trailing trend. Detection is stateless per call:
// identical (result, trend) inputs always produce identical alerts.
package anomaly

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"fieldready/domain/score"
)

// DefaultThreshold is the |z| a value must exceed against its trailing
// trend before it is flagged.
const DefaultThreshold = 2.0

// MinTrendDays is the fewest historical results a trend must carry
// before deviation statistics are meaningful.
const MinTrendDays = 3

// saturatedZ stands in for the z-score when a perfectly flat trend
// meets a different value today (stddev of zero, deviation defined but
// unbounded).
const saturatedZ = 4.0

// overallMetric labels alerts raised on Overall Readiness itself
const overallMetric = "overall_readiness"

// Alert is one statistically unusual finding for a run. Alerts are
// ephemeral; they are produced per call and never persisted.
type Alert struct {
	Metric                 string  `json:"metric"`
	ZScore                 float64 `json:"z_score"`
	Message                string  `json:"message"`
	TacticalRecommendation string  `json:"tactical_recommendation"`
	IsCritical             bool    `json:"is_critical"`
}

// correlatedPair names two sub-scores that corroborate each other when
// they cross threshold in opposite directions the same day. Elevated
// illness risk with suppressed recovery is the canonical case: both are
// driven by a resting heart rate rise paired with an HRV drop.
type correlatedPair struct {
	up   score.Name
	down score.Name
}

var criticalPairs = []correlatedPair{
	{up: score.IllnessRisk, down: score.Recovery},
	{up: score.IllnessRisk, down: score.RespiratoryEfficiency},
	{up: score.CardiacSafetyPenalty, down: score.CardioFitness},
}

// Detector compares a day's result against trailing history
type Detector struct {
	threshold float64
}

// NewDetector creates a detector with the default threshold
func NewDetector() *Detector {
	return &Detector{threshold: DefaultThreshold}
}

// NewDetectorWithThreshold overrides the |z| flagging threshold
func NewDetectorWithThreshold(threshold float64) *Detector {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Detector{threshold: threshold}
}

// Detect flags every tracked sub-score, plus Overall Readiness, whose
// value today deviates from the trailing trend by more than the
// threshold. A trend shorter than MinTrendDays yields no alerts. The
// result's own day is excluded from the trend if present.
func (d *Detector) Detect(result score.ComprehensiveReadinessResult, trend []score.ComprehensiveReadinessResult) []Alert {
	history := make([]score.ComprehensiveReadinessResult, 0, len(trend))
	for _, r := range trend {
		if r.Date.Equal(result.Date) {
			continue
		}
		history = append(history, r)
	}
	if len(history) < MinTrendDays {
		return nil
	}

	deviations := make(map[score.Name]float64, len(score.AllNames))
	var alerts []Alert

	for _, name := range score.AllNames {
		values := make([]float64, len(history))
		for i, r := range history {
			values[i] = r.Score(name)
		}
		z, ok := trendZ(result.Score(name), values)
		if !ok {
			continue
		}
		deviations[name] = z
		if abs(z) > d.threshold {
			alerts = append(alerts, Alert{
				Metric:                 name.String(),
				ZScore:                 z,
				Message:                message(name.String(), z),
				TacticalRecommendation: recommendation(name, z),
			})
		}
	}

	overallValues := make([]float64, len(history))
	for i, r := range history {
		overallValues[i] = r.OverallReadiness
	}
	if z, ok := trendZ(result.OverallReadiness, overallValues); ok && abs(z) > d.threshold {
		alerts = append(alerts, Alert{
			Metric:                 overallMetric,
			ZScore:                 z,
			Message:                message(overallMetric, z),
			TacticalRecommendation: "Review the contributing sub-scores before committing to a demanding schedule.",
		})
	}

	markCritical(alerts, deviations, d.threshold)
	return alerts
}

// trendZ standardizes today's value against the trend. A flat trend
// matching today's value is no deviation at all; a flat trend with a
// different value today saturates instead of dividing by zero.
func trendZ(today float64, values []float64) (float64, bool) {
	mean, err := stats.Mean(values)
	if err != nil {
		return 0, false
	}
	sd, err := stats.StandardDeviationSample(values)
	if err != nil {
		return 0, false
	}
	diff := today - mean
	if sd == 0 {
		if diff == 0 {
			return 0, false
		}
		if diff < 0 {
			return -saturatedZ, true
		}
		return saturatedZ, true
	}
	return diff / sd, true
}

// markCritical sets IsCritical on alerts whose sub-score belongs to a
// correlated pair where both members crossed threshold in the
// corroborating directions.
func markCritical(alerts []Alert, deviations map[score.Name]float64, threshold float64) {
	critical := make(map[string]bool)
	for _, p := range criticalPairs {
		if deviations[p.up] > threshold && deviations[p.down] < -threshold {
			critical[p.up.String()] = true
			critical[p.down.String()] = true
		}
	}
	for i := range alerts {
		if critical[alerts[i].Metric] {
			alerts[i].IsCritical = true
		}
	}
}

func message(metric string, z float64) string {
	direction := "above"
	if z < 0 {
		direction = "below"
	}
	return fmt.Sprintf("%s is %.1f standard deviations %s its recent trend", metric, abs(z), direction)
}

// recommendation maps a flagged sub-score and direction to a short
// actionable next step. Unlisted scores get a generic prompt.
func recommendation(name score.Name, z float64) string {
	switch {
	case name == score.IllnessRisk && z > 0:
		return "Monitor vitals closely today and reduce planned exertion until readings settle."
	case name == score.CardiacSafetyPenalty && z > 0:
		return "Avoid maximal-effort work today; recheck resting heart rate this evening."
	case name == score.Recovery && z < 0:
		return "Prioritize rest and hydration; defer high-intensity training."
	case name == score.SleepIndex && z < 0:
		return "Protect tonight's sleep window; avoid late stimulants and screens."
	case name == score.HydrationStatus && z < 0:
		return "Increase fluid intake now rather than catching up later in the day."
	case name == score.TrainingLoad && z > 0:
		return "Acute load is running hot; schedule a lighter session."
	default:
		return "Compare today's logs against the last week before acting on this reading."
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
