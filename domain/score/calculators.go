package score

import (
	"fieldready/domain/baseline"
	"fieldready/domain/metrics"
	"fieldready/domain/signal"
)

// Manual collects the day's self-reported entries, nil when absent
type Manual struct {
	Activity  []metrics.ManualEntry
	Sleep     *metrics.ManualEntry
	Stress    *metrics.ManualEntry
	Hydration *metrics.ManualEntry
	Nutrition *metrics.ManualEntry
}

// Inputs is everything a calculator may consume. All fields are
// read-only snapshots; calculators never mutate them.
type Inputs struct {
	Signals   *signal.Set
	Baselines *baseline.Set
	Manual    Manual
	Profile   metrics.UserProfile
}

// z standardizes a signal's value against its baseline, returning 0 and
// false when the signal is missing. Calculators branch on ok, never on
// value == 0.
func (in Inputs) z(t metrics.MetricType) (float64, bool) {
	sig := in.Signals.Get(t)
	if !sig.Present() {
		return 0, false
	}
	return in.Baselines.Get(t).ZScore(sig.Value()), true
}

// value returns a signal's representative value and presence
func (in Inputs) value(t metrics.MetricType) (float64, bool) {
	sig := in.Signals.Get(t)
	if !sig.Present() {
		return 0, false
	}
	return sig.Value(), true
}

// Calculator binds a sub-score to its required inputs and pure scoring
// function. Fn returns an unclamped value plus the labeled weighted
// terms that produced it.
type Calculator struct {
	Name     Name
	Requires []metrics.MetricType
	Manual   []metrics.EntryKind
	Fn       func(Inputs) (float64, Breakdown)
}

// Score runs the calculator. A calculator whose inputs are entirely
// absent yields the neutral midpoint with low confidence; it never
// errors.
func (c Calculator) Score(in Inputs) ScoreResult {
	present := in.Signals.PresentCount(c.Requires...)
	manualPresent := c.manualPresent(in)

	if present == 0 && manualPresent == 0 {
		return ScoreResult{
			Name:       c.Name,
			Value:      NeutralMidpoint,
			Confidence: ConfidenceLow,
			Breakdown:  Breakdown{"no_data": 0},
		}
	}

	value, breakdown := c.Fn(in)
	return ScoreResult{
		Name:       c.Name,
		Value:      clamp100(value),
		Confidence: c.confidence(in, present, manualPresent),
		Breakdown:  breakdown,
	}
}

func (c Calculator) manualPresent(in Inputs) int {
	n := 0
	for _, k := range c.Manual {
		switch k {
		case metrics.EntryActivity:
			if len(in.Manual.Activity) > 0 {
				n++
			}
		case metrics.EntrySleep:
			if in.Manual.Sleep != nil {
				n++
			}
		case metrics.EntryStress:
			if in.Manual.Stress != nil {
				n++
			}
		case metrics.EntryHydration:
			if in.Manual.Hydration != nil {
				n++
			}
		case metrics.EntryNutrition:
			if in.Manual.Nutrition != nil {
				n++
			}
		}
	}
	return n
}

func (c Calculator) confidence(in Inputs, present, manualPresent int) Confidence {
	coverage := 0.0
	weight := 0.0
	if len(c.Requires) > 0 {
		coverage += in.Signals.Coverage(c.Requires...)
		weight++
	}
	if len(c.Manual) > 0 {
		coverage += float64(manualPresent) / float64(len(c.Manual))
		weight++
	}
	if weight > 0 {
		coverage /= weight
	}

	maturity := baseline.MaturityEstablished
	if len(c.Requires) > 0 {
		maturity = in.Baselines.MinMaturity(c.Requires...)
	}
	return gradeConfidence(coverage, maturity)
}

// All returns the closed list of the eighteen calculators, in canonical
// order. The list is rebuilt per call so callers cannot alias shared
// state between runs.
func All() []Calculator {
	return []Calculator{
		recoveryCalculator(),
		sleepIndexCalculator(),
		fatigueIndexCalculator(),
		enduranceCalculator(),
		cardioFitnessCalculator(),
		dailyActivityCalculator(),
		illnessRiskCalculator(),
		cardiacSafetyCalculator(),
		thermoregulatoryCalculator(),
		altitudeCalculator(),
		cognitiveAlertnessCalculator(),
		hydrationCalculator(),
		nutritionCalculator(),
		stressResilienceCalculator(),
		trainingLoadCalculator(),
		respiratoryCalculator(),
		circadianCalculator(),
		musculoskeletalCalculator(),
	}
}
