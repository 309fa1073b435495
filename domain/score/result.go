package score

import (
	"fmt"
	"sort"
	"strings"

	"fieldready/domain/core"
)

// ComprehensiveReadinessResult is the complete outcome of one scoring
// run for one user-day. It is the unit of persistence and the payload
// every read surface serves.
type ComprehensiveReadinessResult struct {
	ID               core.ResultID       `json:"id" db:"id"`
	UserID           core.UserID         `json:"user_id" db:"user_id"`
	Date             core.Day            `json:"date" db:"date"`
	Scores           map[Name]float64    `json:"scores"`
	ConfidenceLevels map[Name]Confidence `json:"confidence_levels"`
	Breakdowns       map[Name]Breakdown  `json:"breakdowns,omitempty"`
	OverallReadiness float64             `json:"overall_readiness" db:"overall_readiness"`
	Category         Category            `json:"category" db:"category"`
	Confidence       Confidence          `json:"confidence" db:"confidence"`
	CoreContribution map[Name]float64    `json:"core_contribution"`
	PenaltyApplied   map[Name]float64    `json:"penalty_applied"`
	CalculatedAt     core.Timestamp      `json:"calculated_at" db:"calculated_at"`
}

// NewResult assembles a result from per-score outcomes and their
// composite. Every calculator in the registry must have produced an
// entry in results.
//
// Each call mints a fresh ID and stamps the supplied clock time, so
// recomputing an unchanged day yields a new row identity. Idempotence
// is defined over Fingerprint: the scoring outcome of two runs over
// identical inputs compares equal even though ID and CalculatedAt
// differ.
func NewResult(userID core.UserID, day core.Day, results map[Name]ScoreResult, composite Composite, at core.Timestamp) ComprehensiveReadinessResult {
	r := ComprehensiveReadinessResult{
		ID:               core.NewResultID(),
		UserID:           userID,
		Date:             day,
		Scores:           make(map[Name]float64, len(results)),
		ConfidenceLevels: make(map[Name]Confidence, len(results)),
		Breakdowns:       make(map[Name]Breakdown, len(results)),
		OverallReadiness: composite.Overall,
		Category:         composite.Category,
		Confidence:       composite.Confidence,
		CoreContribution: composite.CoreContribution,
		PenaltyApplied:   composite.PenaltyApplied,
		CalculatedAt:     at,
	}
	for name, sr := range results {
		r.Scores[name] = sr.Value
		r.ConfidenceLevels[name] = sr.Confidence
		if len(sr.Breakdown) > 0 {
			r.Breakdowns[name] = sr.Breakdown
		}
	}
	return r
}

// Score returns the value for a named sub-score, or the neutral
// midpoint if the result predates that score.
func (r ComprehensiveReadinessResult) Score(name Name) float64 {
	if v, ok := r.Scores[name]; ok {
		return v
	}
	return NeutralMidpoint
}

// Fingerprint identifies the scoring outcome independent of when it
// was computed or which row holds it. Two runs over identical inputs
// produce identical fingerprints; ID and CalculatedAt are excluded.
func (r ComprehensiveReadinessResult) Fingerprint() core.Hash {
	names := make([]Name, 0, len(r.Scores))
	for name := range r.Scores {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	var b strings.Builder
	fmt.Fprintf(&b, "%s|%s|%.6f|%s|%s", r.UserID, r.Date, r.OverallReadiness, r.Category, r.Confidence)
	for _, name := range names {
		fmt.Fprintf(&b, "|%s=%.6f:%s", name, r.Scores[name], r.ConfidenceLevels[name])
	}
	return core.NewHash([]byte(b.String()))
}
