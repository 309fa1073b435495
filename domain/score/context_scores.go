package score

import (
	"math"

	"fieldready/domain/metrics"
)

// Context calculator weights, fixed and documented here.
const (
	thermoStabilityWeight = 0.7
	thermoHydrationWeight = 0.3

	altitudeSpO2Weight = 0.7
	altitudeRespWeight = 0.3

	cognitiveSleepWeight   = 0.4
	cognitiveHRVWeight     = 0.4
	cognitiveMindfulWeight = 0.2
	mindfulTargetMinutes   = 15.0

	hydrationLitersPerKG = 0.035

	nutritionEnergyWeight  = 0.7
	nutritionQualityWeight = 0.3
	activityEnergyFactor   = 1.4

	stressReportWeight  = 0.45
	stressHRVWeight     = 0.35
	stressMindfulWeight = 0.20

	respiratoryRateWeight = 0.6
	respiratorySpO2Weight = 0.4

	circadianDurationWeight = 0.6
	circadianWakeWeight     = 0.4

	muscleLoadWeight  = 0.5
	muscleSleepWeight = 0.3
	muscleHRVWeight   = 0.2
)

// thermoregulatoryCalculator reads body-temperature stability against
// baseline plus hydration adequacy.
func thermoregulatoryCalculator() Calculator {
	return Calculator{
		Name:     ThermoregulatoryAdaptation,
		Requires: []metrics.MetricType{metrics.MetricBodyTemperature},
		Manual:   []metrics.EntryKind{metrics.EntryHydration},
		Fn: func(in Inputs) (float64, Breakdown) {
			stability := 0.5
			if z, ok := in.z(metrics.MetricBodyTemperature); ok {
				stability = 1 - clamp01(math.Abs(z)/zClip)
			}
			hydration := 0.5
			if in.Manual.Hydration != nil {
				need := hydrationLitersPerKG * in.Profile.WeightKG
				hydration = ratioBand(in.Manual.Hydration.HydrationLiters/need, 0.8, 1.3)
			}
			value := 100 * (thermoStabilityWeight*stability + thermoHydrationWeight*hydration)
			return value, Breakdown{
				"temperature_stability": 100 * thermoStabilityWeight * stability,
				"hydration_adequacy":    100 * thermoHydrationWeight * hydration,
			}
		},
	}
}

// altitudeCalculator grades oxygen saturation level plus respiratory
// compensation.
func altitudeCalculator() Calculator {
	return Calculator{
		Name:     AltitudeScore,
		Requires: []metrics.MetricType{metrics.MetricOxygenSaturation, metrics.MetricRespiratoryRate},
		Fn: func(in Inputs) (float64, Breakdown) {
			spo2Score := 0.5
			if spo2, ok := in.value(metrics.MetricOxygenSaturation); ok {
				// 88% maps to 0, 98% and above to 1.
				spo2Score = clamp01((spo2 - 88) / 10)
			}
			respScore := 0.5
			if z, ok := in.z(metrics.MetricRespiratoryRate); ok {
				respScore = (1 - bounded(z)) / 2
			}
			value := 100 * (altitudeSpO2Weight*spo2Score + altitudeRespWeight*respScore)
			return value, Breakdown{
				"oxygen_saturation":        100 * altitudeSpO2Weight * spo2Score,
				"respiratory_compensation": 100 * altitudeRespWeight * respScore,
			}
		},
	}
}

// cognitiveAlertnessCalculator combines REM sleep adequacy, autonomic
// recovery, and mindfulness practice.
func cognitiveAlertnessCalculator() Calculator {
	return Calculator{
		Name: CognitiveAlertness,
		Requires: []metrics.MetricType{
			metrics.MetricSleepREM, metrics.MetricHRV, metrics.MetricMindfulMinutes,
		},
		Fn: func(in Inputs) (float64, Breakdown) {
			remScore := 0.5
			if z, ok := in.z(metrics.MetricSleepREM); ok {
				remScore = (1 + bounded(z)) / 2
			}
			hrvScore := 0.5
			if z, ok := in.z(metrics.MetricHRV); ok {
				hrvScore = (1 + bounded(z)) / 2
			}
			mindfulScore := 0.0
			if m, ok := in.value(metrics.MetricMindfulMinutes); ok {
				mindfulScore = clamp01(m / mindfulTargetMinutes)
			}
			value := 100 * (cognitiveSleepWeight*remScore +
				cognitiveHRVWeight*hrvScore +
				cognitiveMindfulWeight*mindfulScore)
			return value, Breakdown{
				"rem_sleep":       100 * cognitiveSleepWeight * remScore,
				"hrv_recovery":    100 * cognitiveHRVWeight * hrvScore,
				"mindful_minutes": 100 * cognitiveMindfulWeight * mindfulScore,
			}
		},
	}
}

// hydrationCalculator grades reported intake against a weight-based need
func hydrationCalculator() Calculator {
	return Calculator{
		Name:   HydrationStatus,
		Manual: []metrics.EntryKind{metrics.EntryHydration},
		Fn: func(in Inputs) (float64, Breakdown) {
			need := hydrationLitersPerKG * in.Profile.WeightKG
			ratio := 0.0
			if in.Manual.Hydration != nil && need > 0 {
				ratio = in.Manual.Hydration.HydrationLiters / need
			}
			value := 100 * ratioBand(ratio, 0.8, 1.3)
			return value, Breakdown{
				"intake_vs_need": value,
			}
		},
	}
}

// basalMetabolicRate estimates daily kcal via Mifflin-St Jeor. The
// unspecified-gender constant is the midpoint of the published offsets.
func basalMetabolicRate(p metrics.UserProfile) float64 {
	base := 10*p.WeightKG + 6.25*p.HeightCM - 5*float64(p.Age)
	switch p.Gender {
	case metrics.GenderMale:
		return base + 5
	case metrics.GenderFemale:
		return base - 161
	default:
		return base - 78
	}
}

// nutritionCalculator grades reported energy intake against estimated
// expenditure plus the self-rated quality of the day's nutrition.
func nutritionCalculator() Calculator {
	return Calculator{
		Name:     NutritionBalance,
		Requires: []metrics.MetricType{metrics.MetricActiveEnergy},
		Manual:   []metrics.EntryKind{metrics.EntryNutrition},
		Fn: func(in Inputs) (float64, Breakdown) {
			need := basalMetabolicRate(in.Profile) * activityEnergyFactor
			if energy, ok := in.value(metrics.MetricActiveEnergy); ok {
				need += energy
			}

			energyScore := 0.5
			qualityScore := 0.5
			if in.Manual.Nutrition != nil {
				if need > 0 {
					energyScore = ratioBand(in.Manual.Nutrition.Calories/need, 0.85, 1.15)
				}
				qualityScore = clamp01(in.Manual.Nutrition.NutritionQuality)
			}
			value := 100 * (nutritionEnergyWeight*energyScore + nutritionQualityWeight*qualityScore)
			return value, Breakdown{
				"energy_balance":    100 * nutritionEnergyWeight * energyScore,
				"nutrition_quality": 100 * nutritionQualityWeight * qualityScore,
			}
		},
	}
}

// stressResilienceCalculator combines self-reported stress, autonomic
// state, and mindfulness practice.
func stressResilienceCalculator() Calculator {
	return Calculator{
		Name:     StressResilience,
		Requires: []metrics.MetricType{metrics.MetricHRV, metrics.MetricMindfulMinutes},
		Manual:   []metrics.EntryKind{metrics.EntryStress},
		Fn: func(in Inputs) (float64, Breakdown) {
			reportScore := 0.5
			if in.Manual.Stress != nil {
				// Reported 1 (calm) .. 10 (overwhelmed).
				reportScore = 1 - clamp01((in.Manual.Stress.StressLevel-1)/9)
			}
			hrvScore := 0.5
			if z, ok := in.z(metrics.MetricHRV); ok {
				hrvScore = (1 + bounded(z)) / 2
			}
			mindfulScore := 0.0
			if m, ok := in.value(metrics.MetricMindfulMinutes); ok {
				mindfulScore = clamp01(m / mindfulTargetMinutes)
			}
			value := 100 * (stressReportWeight*reportScore +
				stressHRVWeight*hrvScore +
				stressMindfulWeight*mindfulScore)
			return value, Breakdown{
				"reported_stress": 100 * stressReportWeight * reportScore,
				"hrv_state":       100 * stressHRVWeight * hrvScore,
				"mindful_minutes": 100 * stressMindfulWeight * mindfulScore,
			}
		},
	}
}

// trainingLoadCalculator scores today's volume against the rolling
// baseline: chronically low and acutely spiked loads both lose points.
func trainingLoadCalculator() Calculator {
	return Calculator{
		Name:     TrainingLoad,
		Requires: []metrics.MetricType{metrics.MetricActiveEnergy, metrics.MetricExerciseMinutes},
		Manual:   []metrics.EntryKind{metrics.EntryActivity},
		Fn: func(in Inputs) (float64, Breakdown) {
			load := 0.0
			if v, ok := in.value(metrics.MetricActiveEnergy); ok {
				load = v
			}
			for _, e := range in.Manual.Activity {
				// Manual sessions convert at roughly 8 kcal per
				// intensity-weighted minute.
				load += e.DurationMinutes * e.Intensity * 0.8
			}

			chronic := in.Baselines.Get(metrics.MetricActiveEnergy).Mean
			if chronic <= 0 {
				chronic = load // first days: today is its own norm
			}
			ratio := 1.0
			if chronic > 0 {
				ratio = load / chronic
			}
			value := 100 * ratioBand(ratio, 0.8, 1.3)
			return value, Breakdown{
				"acute_chronic_ratio": value,
			}
		},
	}
}

// respiratoryCalculator grades respiratory rate deviation and oxygen
// saturation.
func respiratoryCalculator() Calculator {
	return Calculator{
		Name:     RespiratoryEfficiency,
		Requires: []metrics.MetricType{metrics.MetricRespiratoryRate, metrics.MetricOxygenSaturation},
		Fn: func(in Inputs) (float64, Breakdown) {
			rateScore := 0.5
			if z, ok := in.z(metrics.MetricRespiratoryRate); ok {
				rateScore = (1 - bounded(z)) / 2
			}
			spo2Score := 0.5
			if spo2, ok := in.value(metrics.MetricOxygenSaturation); ok {
				spo2Score = clamp01((spo2 - 90) / 8)
			}
			value := 100 * (respiratoryRateWeight*rateScore + respiratorySpO2Weight*spo2Score)
			return value, Breakdown{
				"respiratory_rate":  100 * respiratoryRateWeight * rateScore,
				"oxygen_saturation": 100 * respiratorySpO2Weight * spo2Score,
			}
		},
	}
}

// circadianCalculator reads sleep-duration consistency against baseline
// and wakefulness during the night.
func circadianCalculator() Calculator {
	return Calculator{
		Name:     CircadianAlignment,
		Requires: []metrics.MetricType{metrics.MetricSleepCore, metrics.MetricSleepAwake},
		Fn: func(in Inputs) (float64, Breakdown) {
			consistency := 0.5
			if z, ok := in.z(metrics.MetricSleepCore); ok {
				consistency = 1 - clamp01(math.Abs(z)/2.5)
			}
			wakeScore := 0.5
			if awake, ok := in.value(metrics.MetricSleepAwake); ok {
				wakeScore = 1 - clamp01(awake/90)
			}
			value := 100 * (circadianDurationWeight*consistency + circadianWakeWeight*wakeScore)
			return value, Breakdown{
				"duration_consistency": 100 * circadianDurationWeight * consistency,
				"night_wakefulness":    100 * circadianWakeWeight * wakeScore,
			}
		},
	}
}

// musculoskeletalCalculator reads yesterday-relative load, deep-sleep
// repair, and autonomic recovery.
func musculoskeletalCalculator() Calculator {
	return Calculator{
		Name: MusculoskeletalReadiness,
		Requires: []metrics.MetricType{
			metrics.MetricActiveEnergy, metrics.MetricSleepDeep, metrics.MetricHRV,
		},
		Fn: func(in Inputs) (float64, Breakdown) {
			loadScore := 0.5
			if z, ok := in.z(metrics.MetricActiveEnergy); ok {
				// Only above-baseline load costs repair capacity.
				loadScore = 1 - clamp01(bounded(z))
			}
			sleepScore := 0.5
			if z, ok := in.z(metrics.MetricSleepDeep); ok {
				sleepScore = (1 + bounded(z)) / 2
			}
			hrvScore := 0.5
			if z, ok := in.z(metrics.MetricHRV); ok {
				hrvScore = (1 + bounded(z)) / 2
			}
			value := 100 * (muscleLoadWeight*loadScore +
				muscleSleepWeight*sleepScore +
				muscleHRVWeight*hrvScore)
			return value, Breakdown{
				"recent_load":     100 * muscleLoadWeight * loadScore,
				"deep_sleep":      100 * muscleSleepWeight * sleepScore,
				"autonomic_state": 100 * muscleHRVWeight * hrvScore,
			}
		},
	}
}
