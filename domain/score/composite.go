package score

// Core composite weights. They sum to 1.0 over the six core scores.
var coreWeights = map[Name]float64{
	Recovery:      0.22,
	SleepIndex:    0.22,
	FatigueIndex:  0.16,
	Endurance:     0.12,
	CardioFitness: 0.14,
	DailyActivity: 0.14,
}

// Penalty scores subtract from the weighted core sum rather than
// contributing positively. Their factors scale the raw 0-100 score.
const (
	illnessPenaltyFactor = 0.25
	cardiacPenaltyFactor = 0.15
)

// CoreWeight returns the composite weight of a core score, or 0 for
// penalty and context scores.
func CoreWeight(name Name) float64 {
	return coreWeights[name]
}

// Composite is the aggregated readiness outcome.
type Composite struct {
	Overall    float64
	Category   Category
	Confidence Confidence
	// CoreContribution holds each core score's weighted share of the
	// overall value, for breakdown reporting.
	CoreContribution map[Name]float64
	PenaltyApplied   map[Name]float64
}

// Compose aggregates per-score results into an overall readiness
// value and category. A core score absent from results contributes its
// neutral midpoint, so a sparse day degrades toward 50 rather than 0.
// Composite confidence is the minimum confidence among core scores.
func Compose(results map[Name]ScoreResult) Composite {
	c := Composite{
		Confidence:       ConfidenceHigh,
		CoreContribution: make(map[Name]float64, len(coreWeights)),
		PenaltyApplied:   make(map[Name]float64, 2),
	}

	var overall float64
	for name, w := range coreWeights {
		value := NeutralMidpoint
		if r, ok := results[name]; ok {
			value = r.Value
			c.Confidence = c.Confidence.Min(r.Confidence)
		} else {
			c.Confidence = ConfidenceLow
		}
		contribution := w * value
		c.CoreContribution[name] = contribution
		overall += contribution
	}

	if r, ok := results[IllnessRisk]; ok {
		p := illnessPenaltyFactor * r.Value
		c.PenaltyApplied[IllnessRisk] = p
		overall -= p
	}
	if r, ok := results[CardiacSafetyPenalty]; ok {
		p := cardiacPenaltyFactor * r.Value
		c.PenaltyApplied[CardiacSafetyPenalty] = p
		overall -= p
	}

	c.Overall = clamp100(overall)
	c.Category = CategoryFor(c.Overall)
	return c
}
