// Package insight phrases a computed result for humans: the largest
// contributors to today's readiness, the trend direction, and a status
// line for the category. It is purely derivative of already-computed
// numbers and introduces no scoring logic of its own.
package insight

import (
	"fmt"
	"sort"

	"github.com/montanaflynn/stats"

	"fieldready/domain/score"
)

// MaxFactors bounds how many contributing-factor statements a run emits
const MaxFactors = 3

// steadyBand is the overall-readiness distance from the trailing
// average inside which the trend reads as steady.
const steadyBand = 3.0

// Insights is the human-readable companion to a result
type Insights struct {
	TopFactors  []string `json:"top_factors"`
	TrendLabel  string   `json:"trend_label"`
	StatusLabel string   `json:"status_label"`
}

// factor is one score's signed pull on Overall Readiness: positive
// lifts it, negative costs it.
type factor struct {
	name score.Name
	pull float64
}

var displayNames = map[score.Name]string{
	score.Recovery:                   "Recovery",
	score.SleepIndex:                 "Sleep",
	score.FatigueIndex:               "Fatigue",
	score.Endurance:                  "Endurance",
	score.CardioFitness:              "Cardio fitness",
	score.DailyActivity:              "Daily activity",
	score.IllnessRisk:                "Illness risk",
	score.CardiacSafetyPenalty:       "Cardiac safety",
	score.ThermoregulatoryAdaptation: "Heat adaptation",
	score.AltitudeScore:              "Altitude",
	score.CognitiveAlertness:         "Alertness",
	score.HydrationStatus:            "Hydration",
	score.NutritionBalance:           "Nutrition",
	score.StressResilience:           "Stress resilience",
	score.TrainingLoad:               "Training load",
	score.RespiratoryEfficiency:      "Respiratory efficiency",
	score.CircadianAlignment:         "Circadian alignment",
	score.MusculoskeletalReadiness:   "Musculoskeletal readiness",
}

var statusLabels = map[score.Category]string{
	score.CategoryGo:      "GO: ready for full activity",
	score.CategoryCaution: "CAUTION: train with moderation",
	score.CategoryLimited: "LIMITED: light duty recommended",
	score.CategoryStop:    "STOP: rest and recover",
}

// Generate derives insights from a result and its trailing trend. The
// trend may be empty; the trend label then reads as steady.
func Generate(result score.ComprehensiveReadinessResult, trend []score.ComprehensiveReadinessResult) Insights {
	return Insights{
		TopFactors:  topFactors(result),
		TrendLabel:  trendLabel(result, trend),
		StatusLabel: statusLabels[result.Category],
	}
}

// topFactors ranks every score's signed pull on Overall Readiness by
// absolute magnitude and phrases the strongest few. Core scores pull by
// their weighted distance from neutral; penalties always pull down by
// the amount they subtracted.
func topFactors(result score.ComprehensiveReadinessResult) []string {
	factors := make([]factor, 0, len(result.CoreContribution)+len(result.PenaltyApplied))
	for name, contribution := range result.CoreContribution {
		pull := contribution - score.CoreWeight(name)*score.NeutralMidpoint
		factors = append(factors, factor{name: name, pull: pull})
	}
	for name, penalty := range result.PenaltyApplied {
		if penalty == 0 {
			continue
		}
		factors = append(factors, factor{name: name, pull: -penalty})
	}

	sort.Slice(factors, func(i, j int) bool {
		ai, aj := abs(factors[i].pull), abs(factors[j].pull)
		if ai != aj {
			return ai > aj
		}
		return factors[i].name < factors[j].name
	})

	statements := make([]string, 0, MaxFactors)
	for _, f := range factors {
		if len(statements) == MaxFactors {
			break
		}
		if abs(f.pull) < 0.5 {
			continue
		}
		statements = append(statements, phrase(f))
	}
	return statements
}

func phrase(f factor) string {
	label := displayNames[f.name]
	if label == "" {
		label = f.name.String()
	}
	if f.pull >= 0 {
		return fmt.Sprintf("%s is lifting readiness by %.1f points", label, f.pull)
	}
	return fmt.Sprintf("%s is costing %.1f points", label, -f.pull)
}

// trendLabel compares today's Overall Readiness to the trailing
// average. Days matching today's date are excluded so a re-run does
// not read its own output as trend.
func trendLabel(result score.ComprehensiveReadinessResult, trend []score.ComprehensiveReadinessResult) string {
	values := make([]float64, 0, len(trend))
	for _, r := range trend {
		if r.Date.Equal(result.Date) {
			continue
		}
		values = append(values, r.OverallReadiness)
	}
	if len(values) == 0 {
		return "steady"
	}
	mean, err := stats.Mean(values)
	if err != nil {
		return "steady"
	}
	switch {
	case result.OverallReadiness > mean+steadyBand:
		return "improving"
	case result.OverallReadiness < mean-steadyBand:
		return "declining"
	default:
		return "steady"
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
