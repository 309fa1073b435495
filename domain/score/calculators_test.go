package score

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldready/domain/baseline"
	"fieldready/domain/core"
	"fieldready/domain/metrics"
	"fieldready/domain/signal"
)

const testUser = core.UserID("user-under-test")

func testDay(t *testing.T) core.Day {
	t.Helper()
	day, err := core.ParseDay("2026-03-10")
	require.NoError(t, err)
	return day
}

// establishedInputs builds inputs where every given metric has full
// coverage and a mature baseline at its population mean, so z-scores
// equal (value - popMean) / popStdDev.
func establishedInputs(t *testing.T, values map[metrics.MetricType]float64) Inputs {
	t.Helper()
	day := testDay(t)
	sigs := signal.NewSet(testUser, day)
	bases := baseline.NewSet(testUser)
	for mt, v := range values {
		sigs.Put(signal.Signal{
			Type:      mt,
			Latest:    v,
			Aggregate: v,
			Samples:   24,
			Coverage:  1,
			State:     signal.StatePresent,
		})
		pop := baseline.PopulationDefault(mt)
		bases.Put(baseline.Baseline{
			UserID:   testUser,
			Type:     mt,
			Mean:     pop.Mean,
			StdDev:   pop.StdDev,
			Days:     14,
			Maturity: baseline.MaturityEstablished,
			AsOf:     day,
		})
	}
	return Inputs{
		Signals:   sigs,
		Baselines: bases,
		Profile:   metrics.DefaultProfile(testUser),
	}
}

// healthyValues places every metric exactly at its population mean.
func healthyValues() map[metrics.MetricType]float64 {
	values := make(map[metrics.MetricType]float64, len(metrics.AllMetricTypes))
	for _, mt := range metrics.AllMetricTypes {
		values[mt] = baseline.PopulationDefault(mt).Mean
	}
	return values
}

func TestAllReturnsEveryCalculatorInCanonicalOrder(t *testing.T) {
	calcs := All()
	require.Len(t, calcs, len(AllNames))
	for i, c := range calcs {
		assert.Equal(t, AllNames[i], c.Name)
		assert.NotNil(t, c.Fn, "calculator %s has no scoring function", c.Name)
	}
}

func TestHealthyDayScoresStayInRangeAndFavorable(t *testing.T) {
	in := establishedInputs(t, healthyValues())

	results := make(map[Name]ScoreResult)
	for _, c := range All() {
		results[c.Name] = c.Score(in)
	}

	for name, r := range results {
		assert.GreaterOrEqual(t, r.Value, 0.0, "%s below range", name)
		assert.LessOrEqual(t, r.Value, 100.0, "%s above range", name)
	}

	// On-baseline vitals should score well on the positive cores and low
	// on the penalties.
	for _, name := range []Name{Recovery, FatigueIndex, CardioFitness} {
		assert.GreaterOrEqual(t, results[name].Value, 70.0, "%s too low for a healthy day", name)
	}
	assert.LessOrEqual(t, results[IllnessRisk].Value, 25.0)
	assert.LessOrEqual(t, results[CardiacSafetyPenalty].Value, 25.0)
}

func TestMissingInputsYieldNeutralMidpointAndLowConfidence(t *testing.T) {
	in := Inputs{
		Signals:   signal.NewSet(testUser, testDay(t)),
		Baselines: baseline.NewSet(testUser),
		Profile:   metrics.DefaultProfile(testUser),
	}

	for _, c := range All() {
		r := c.Score(in)
		assert.Equal(t, NeutralMidpoint, r.Value, "%s should be neutral with no inputs", c.Name)
		assert.Equal(t, ConfidenceLow, r.Confidence, "%s should be low confidence with no inputs", c.Name)
		assert.Contains(t, r.Breakdown, "no_data")
	}
}

func TestRecoveryDropsWhenHRVFallsAndRHRRises(t *testing.T) {
	healthy := establishedInputs(t, healthyValues())

	// HRV well below and resting heart rate well above their means.
	strained := healthyValues()
	strained[metrics.MetricHRV] = 35
	strained[metrics.MetricRestingHeartRate] = 74
	strainedIn := establishedInputs(t, strained)

	calc := recoveryCalculator()
	healthyScore := calc.Score(healthy)
	strainedScore := calc.Score(strainedIn)

	assert.Less(t, strainedScore.Value, healthyScore.Value)
	assert.Less(t, strainedScore.Value, 70.0)
}

func TestIllnessRiskRisesWithCorrelatedVitalDeviation(t *testing.T) {
	healthy := establishedInputs(t, healthyValues())

	sick := healthyValues()
	sick[metrics.MetricRestingHeartRate] = 75 // z ~ +1.9
	sick[metrics.MetricBodyTemperature] = 37.3
	sick[metrics.MetricHRV] = 48
	sick[metrics.MetricRespiratoryRate] = 17
	sickIn := establishedInputs(t, sick)

	calc := illnessRiskCalculator()
	healthyRisk := calc.Score(healthy)
	sickRisk := calc.Score(sickIn)

	assert.Greater(t, sickRisk.Value, healthyRisk.Value+20,
		"correlated vital deviation should raise illness risk materially")
}

func TestExtremeValuesStayClamped(t *testing.T) {
	extreme := make(map[metrics.MetricType]float64, len(metrics.AllMetricTypes))
	for _, mt := range metrics.AllMetricTypes {
		pop := baseline.PopulationDefault(mt)
		extreme[mt] = pop.Mean + 10*pop.StdDev
	}
	in := establishedInputs(t, extreme)

	for _, c := range All() {
		r := c.Score(in)
		assert.GreaterOrEqual(t, r.Value, 0.0, "%s under extreme inputs", c.Name)
		assert.LessOrEqual(t, r.Value, 100.0, "%s under extreme inputs", c.Name)
	}
}

func TestRecoveryMonotoneInHRV(t *testing.T) {
	calc := recoveryCalculator()
	prev := -1.0
	for hrv := 20.0; hrv <= 130; hrv += 5 {
		values := healthyValues()
		values[metrics.MetricHRV] = hrv
		r := calc.Score(establishedInputs(t, values))
		assert.GreaterOrEqual(t, r.Value, prev,
			"raising HRV to %.0f must never lower recovery", hrv)
		prev = r.Value
	}
}

func TestRandomizedInputsStayBounded(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		values := make(map[metrics.MetricType]float64, len(metrics.AllMetricTypes))
		for _, mt := range metrics.AllMetricTypes {
			pop := baseline.PopulationDefault(mt)
			v := pop.Mean + rng.NormFloat64()*pop.StdDev*4
			if v < 0 {
				v = 0
			}
			values[mt] = v
		}
		in := establishedInputs(t, values)
		for _, c := range All() {
			r := c.Score(in)
			require.GreaterOrEqual(t, r.Value, 0.0, "%s iteration %d", c.Name, i)
			require.LessOrEqual(t, r.Value, 100.0, "%s iteration %d", c.Name, i)
		}
	}
}

func TestConfidenceGrading(t *testing.T) {
	tests := []struct {
		name     string
		coverage float64
		maturity baseline.Maturity
		want     Confidence
	}{
		{"full coverage established", 1.0, baseline.MaturityEstablished, ConfidenceHigh},
		{"threshold coverage established", 0.8, baseline.MaturityEstablished, ConfidenceHigh},
		{"full coverage warming", 1.0, baseline.MaturityWarming, ConfidenceMedium},
		{"partial coverage established", 0.5, baseline.MaturityEstablished, ConfidenceMedium},
		{"thin coverage established", 0.2, baseline.MaturityEstablished, ConfidenceLow},
		{"full coverage collecting", 1.0, baseline.MaturityCollecting, ConfidenceLow},
		{"no coverage", 0, baseline.MaturityEstablished, ConfidenceLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, gradeConfidence(tt.coverage, tt.maturity))
		})
	}
}

func TestConfidenceMonotoneInCoverage(t *testing.T) {
	prev := ConfidenceHigh
	for coverage := 1.0; coverage >= 0; coverage -= 0.05 {
		got := gradeConfidence(coverage, baseline.MaturityEstablished)
		assert.LessOrEqual(t, got.Rank(), prev.Rank(),
			"grade rose as coverage fell past %.2f", coverage)
		prev = got
	}
}

func TestManualActivityStandsInForMissingDeviceData(t *testing.T) {
	in := Inputs{
		Signals:   signal.NewSet(testUser, testDay(t)),
		Baselines: baseline.NewSet(testUser),
		Profile:   metrics.DefaultProfile(testUser),
		Manual: Manual{
			Activity: []metrics.ManualEntry{{
				Kind:            metrics.EntryActivity,
				DurationMinutes: 45,
				Intensity:       6,
			}},
		},
	}

	r := dailyActivityCalculator().Score(in)
	assert.NotEqual(t, NeutralMidpoint, r.Value,
		"a logged session should move the score off neutral")
	assert.Greater(t, r.Value, 0.0)
}
