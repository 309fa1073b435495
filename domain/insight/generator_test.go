package insight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldready/domain/core"
	"fieldready/domain/score"
)

func insightDay(t *testing.T, s string) core.Day {
	t.Helper()
	d, err := core.ParseDay(s)
	require.NoError(t, err)
	return d
}

func composedResult(t *testing.T, coreValues map[score.Name]float64, illness float64) score.ComprehensiveReadinessResult {
	t.Helper()
	results := make(map[score.Name]score.ScoreResult, len(coreValues)+1)
	for name, v := range coreValues {
		results[name] = score.ScoreResult{Name: name, Value: v, Confidence: score.ConfidenceHigh}
	}
	results[score.IllnessRisk] = score.ScoreResult{
		Name: score.IllnessRisk, Value: illness, Confidence: score.ConfidenceHigh,
	}
	composite := score.Compose(results)
	return score.NewResult("insight-user", insightDay(t, "2026-03-08"), results, composite, core.Now())
}

func balancedCores(value float64) map[score.Name]float64 {
	return map[score.Name]float64{
		score.Recovery:      value,
		score.SleepIndex:    value,
		score.FatigueIndex:  value,
		score.Endurance:     value,
		score.CardioFitness: value,
		score.DailyActivity: value,
	}
}

func TestGenerateRanksStrongestPullsFirst(t *testing.T) {
	cores := balancedCores(55)
	cores[score.SleepIndex] = 20 // pull 0.22*(20-50) = -6.6
	cores[score.Recovery] = 85   // pull 0.22*(85-50) = +7.7
	result := composedResult(t, cores, 40)

	in := Generate(result, nil)

	require.Len(t, in.TopFactors, MaxFactors)
	assert.Contains(t, in.TopFactors[0], "Illness risk", "the 10-point illness penalty is the largest pull")
	assert.Contains(t, in.TopFactors[1], "Recovery")
	assert.Contains(t, in.TopFactors[2], "Sleep")
}

func TestGeneratePhrasesDirection(t *testing.T) {
	cores := balancedCores(50)
	cores[score.Recovery] = 80
	cores[score.SleepIndex] = 10
	result := composedResult(t, cores, 0)

	in := Generate(result, nil)

	require.NotEmpty(t, in.TopFactors)
	assert.Contains(t, in.TopFactors[0], "costing", "suppressed sleep is the strongest pull and reads negative")
	assert.Contains(t, in.TopFactors[1], "lifting")
}

func TestGenerateOmitsNegligibleFactors(t *testing.T) {
	result := composedResult(t, balancedCores(50), 0)

	in := Generate(result, nil)
	assert.Empty(t, in.TopFactors, "an all-neutral day has nothing worth naming")
	assert.Equal(t, "steady", in.TrendLabel)
}

func TestStatusLabelFollowsCategory(t *testing.T) {
	tests := []struct {
		coreValue float64
		want      string
	}{
		{90, "GO"},
		{70, "CAUTION"},
		{50, "LIMITED"},
		{20, "STOP"},
	}

	for _, tt := range tests {
		result := composedResult(t, balancedCores(tt.coreValue), 0)
		in := Generate(result, nil)
		assert.Contains(t, in.StatusLabel, tt.want, "core value %.0f", tt.coreValue)
	}
}

func TestTrendLabelComparesAgainstTrailingAverage(t *testing.T) {
	today := composedResult(t, balancedCores(85), 0)

	trailing := func(values ...float64) []score.ComprehensiveReadinessResult {
		trend := make([]score.ComprehensiveReadinessResult, len(values))
		base := insightDay(t, "2026-03-01")
		for i, v := range values {
			trend[i] = score.ComprehensiveReadinessResult{
				Date:             base.AddDays(i),
				OverallReadiness: v,
			}
		}
		return trend
	}

	assert.Equal(t, "improving", Generate(today, trailing(70, 72, 74)).TrendLabel)
	assert.Equal(t, "declining", Generate(today, trailing(95, 94, 96)).TrendLabel)
	assert.Equal(t, "steady", Generate(today, trailing(84, 85, 86)).TrendLabel)
}
