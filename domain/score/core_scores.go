package score

import (
	"fieldready/domain/metrics"
)

// Weights for the core calculators. Fixed and documented here; nothing
// downstream may restate them.
const (
	recoveryHRVWeight = 0.6
	recoveryRHRWeight = 0.4
	recoverySpan      = 25.0

	sleepDurationWeight = 0.5
	sleepStageWeight    = 0.3
	sleepWakeWeight     = 0.2
	deepREMLow          = 0.35
	deepREMHigh         = 0.55

	fatigueEnergyWeight   = 0.6
	fatigueExerciseWeight = 0.4
	fatigueSpan           = 22.0

	enduranceVO2Weight      = 0.5
	enduranceExerciseWeight = 0.3
	enduranceStepsWeight    = 0.2
	enduranceSpan           = 15.0

	cardioVO2Weight = 0.6
	cardioRHRWeight = 0.4

	activityStepsWeight    = 0.5
	activityEnergyWeight   = 0.3
	activityExerciseWeight = 0.2
	activityStepsTarget    = 10000.0
	activityExerciseTarget = 30.0
)

// recoveryCalculator combines HRV (positive weight) and resting heart
// rate (negative weight) deviations from personal baseline.
func recoveryCalculator() Calculator {
	return Calculator{
		Name:     Recovery,
		Requires: []metrics.MetricType{metrics.MetricHRV, metrics.MetricRestingHeartRate},
		Fn: func(in Inputs) (float64, Breakdown) {
			hrvTerm, rhrTerm := 0.0, 0.0
			if z, ok := in.z(metrics.MetricHRV); ok {
				hrvTerm = recoveryHRVWeight * bounded(z)
			}
			if z, ok := in.z(metrics.MetricRestingHeartRate); ok {
				rhrTerm = -recoveryRHRWeight * bounded(z)
			}
			value := healthyBase + recoverySpan*(hrvTerm+rhrTerm)
			return value, Breakdown{
				"hrv_deviation":        recoverySpan * hrvTerm,
				"resting_hr_deviation": recoverySpan * rhrTerm,
			}
		},
	}
}

// sleepIndexCalculator scores duration against the profile target, deep
// and REM proportion against the expected range, and wake frequency.
// Manual sleep overrides are applied upstream by replacing the sleep
// stage signals before this runs.
func sleepIndexCalculator() Calculator {
	return Calculator{
		Name:     SleepIndex,
		Requires: metrics.SleepStageTypes,
		Manual:   []metrics.EntryKind{metrics.EntrySleep},
		Fn: func(in Inputs) (float64, Breakdown) {
			deep, _ := in.value(metrics.MetricSleepDeep)
			rem, _ := in.value(metrics.MetricSleepREM)
			coreMin, _ := in.value(metrics.MetricSleepCore)
			awake, _ := in.value(metrics.MetricSleepAwake)

			total := deep + rem + coreMin
			target := in.Profile.TargetSleepMinutes

			durationScore := 0.5 // neutral when nothing measured
			stageScore := 0.5
			if total > 0 {
				durationScore = ratioBand(total/target, 0.9, 1.15)
				stageScore = ratioBand((deep+rem)/total, deepREMLow, deepREMHigh)
			}
			wakeScore := 1 - clamp01(awake/90)

			value := 100 * (sleepDurationWeight*durationScore +
				sleepStageWeight*stageScore +
				sleepWakeWeight*wakeScore)
			return value, Breakdown{
				"duration_vs_target":  100 * sleepDurationWeight * durationScore,
				"deep_rem_proportion": 100 * sleepStageWeight * stageScore,
				"wake_penalty":        100 * sleepWakeWeight * wakeScore,
			}
		},
	}
}

// fatigueIndexCalculator reads today's training load against the rolling
// baseline (an acute-vs-chronic comparison). High acute load suppresses
// the index; the value is freshness, not tiredness.
func fatigueIndexCalculator() Calculator {
	return Calculator{
		Name:     FatigueIndex,
		Requires: []metrics.MetricType{metrics.MetricActiveEnergy, metrics.MetricExerciseMinutes},
		Fn: func(in Inputs) (float64, Breakdown) {
			loadZ := 0.0
			if z, ok := in.z(metrics.MetricActiveEnergy); ok {
				loadZ += fatigueEnergyWeight * bounded(z)
			}
			if z, ok := in.z(metrics.MetricExerciseMinutes); ok {
				loadZ += fatigueExerciseWeight * bounded(z)
			}
			value := healthyBase - fatigueSpan*loadZ
			return value, Breakdown{
				"acute_load_vs_chronic": -fatigueSpan * loadZ,
			}
		},
	}
}

// enduranceCalculator combines VO2max deviation, exercise volume, and
// step volume.
func enduranceCalculator() Calculator {
	return Calculator{
		Name: Endurance,
		Requires: []metrics.MetricType{
			metrics.MetricVO2Max, metrics.MetricExerciseMinutes, metrics.MetricSteps,
		},
		Fn: func(in Inputs) (float64, Breakdown) {
			vo2Term, exTerm, stepTerm := 0.0, 0.0, 0.0
			if z, ok := in.z(metrics.MetricVO2Max); ok {
				vo2Term = enduranceVO2Weight * bounded(z)
			}
			if z, ok := in.z(metrics.MetricExerciseMinutes); ok {
				exTerm = enduranceExerciseWeight * bounded(z)
			}
			if z, ok := in.z(metrics.MetricSteps); ok {
				stepTerm = enduranceStepsWeight * bounded(z)
			}
			value := healthyBase + enduranceSpan*(vo2Term+exTerm+stepTerm)
			return value, Breakdown{
				"vo2max_deviation": enduranceSpan * vo2Term,
				"exercise_volume":  enduranceSpan * exTerm,
				"step_volume":      enduranceSpan * stepTerm,
			}
		},
	}
}

// expectedVO2Max is the age-graded population expectation used by the
// cardio fitness calculator (unisex approximation of ACSM norms).
func expectedVO2Max(age int) float64 {
	return 46 - 0.25*float64(age)
}

// cardioFitnessCalculator grades VO2max against an age-graded
// expectation plus resting heart rate level.
func cardioFitnessCalculator() Calculator {
	return Calculator{
		Name:     CardioFitness,
		Requires: []metrics.MetricType{metrics.MetricVO2Max, metrics.MetricRestingHeartRate},
		Fn: func(in Inputs) (float64, Breakdown) {
			vo2Score := 0.5
			if vo2, ok := in.value(metrics.MetricVO2Max); ok {
				vo2Score = ratioBand(vo2/expectedVO2Max(in.Profile.Age), 0.95, 1.25)
			}
			rhrScore := 0.5
			if z, ok := in.z(metrics.MetricRestingHeartRate); ok {
				rhrScore = (1 - bounded(z)) / 2
			}
			value := 100 * (cardioVO2Weight*vo2Score + cardioRHRWeight*rhrScore)
			return value, Breakdown{
				"vo2max_vs_age_norm": 100 * cardioVO2Weight * vo2Score,
				"resting_hr_level":   100 * cardioRHRWeight * rhrScore,
			}
		},
	}
}

// dailyActivityCalculator grades steps, active energy, and exercise
// minutes against fixed public-health targets plus personal baseline.
func dailyActivityCalculator() Calculator {
	return Calculator{
		Name: DailyActivity,
		Requires: []metrics.MetricType{
			metrics.MetricSteps, metrics.MetricActiveEnergy, metrics.MetricExerciseMinutes,
		},
		Manual: []metrics.EntryKind{metrics.EntryActivity},
		Fn: func(in Inputs) (float64, Breakdown) {
			stepScore := 0.5
			if steps, ok := in.value(metrics.MetricSteps); ok {
				stepScore = clamp01(steps / activityStepsTarget)
			}
			energyScore := 0.5
			if z, ok := in.z(metrics.MetricActiveEnergy); ok {
				energyScore = (1 + bounded(z)) / 2
			}
			exMinutes, ok := in.value(metrics.MetricExerciseMinutes)
			if !ok {
				// Manual activity logs stand in for missing device minutes.
				for _, e := range in.Manual.Activity {
					exMinutes += e.DurationMinutes
				}
			}
			exScore := clamp01(exMinutes / activityExerciseTarget)

			value := 100 * (activityStepsWeight*stepScore +
				activityEnergyWeight*energyScore +
				activityExerciseWeight*exScore)
			return value, Breakdown{
				"steps_vs_target":  100 * activityStepsWeight * stepScore,
				"active_energy":    100 * activityEnergyWeight * energyScore,
				"exercise_minutes": 100 * activityExerciseWeight * exScore,
			}
		},
	}
}
