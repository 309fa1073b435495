package score

import (
	"fieldready/domain/metrics"

	"gonum.org/v1/gonum/stat/distuv"
)

// Illness risk weights. Each vital contributes through its own bounded
// probability curve so no single elevated signal can saturate the score
// past its weight.
const (
	illnessRHRWeight  = 0.30
	illnessHRVWeight  = 0.30
	illnessRespWeight = 0.20
	illnessTempWeight = 0.20

	// elevationOnset is the z-score at which a signal counts as
	// elevated; elevationSlope controls how sharply risk accrues past it.
	elevationOnset = 1.0
	elevationSlope = 1.5
)

// Cardiac safety weights.
const (
	cardiacHRProximityWeight = 0.40
	cardiacRHRWeight         = 0.35
	cardiacSpO2Weight        = 0.25
)

var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

// elevationProb maps a z-score onto the probability that the signal is
// genuinely elevated, via the standard normal CDF. Monotone in z and
// bounded in (0, 1).
func elevationProb(z float64) float64 {
	return stdNormal.CDF(elevationSlope * (clipZ(z) - elevationOnset))
}

// illnessRiskCalculator combines resting-HR elevation, HRV suppression,
// respiratory-rate elevation, and temperature elevation. Higher is
// worse; the composite aggregator subtracts it.
func illnessRiskCalculator() Calculator {
	return Calculator{
		Name: IllnessRisk,
		Requires: []metrics.MetricType{
			metrics.MetricRestingHeartRate, metrics.MetricHRV,
			metrics.MetricRespiratoryRate, metrics.MetricBodyTemperature,
		},
		Fn: func(in Inputs) (float64, Breakdown) {
			// A missing vital contributes its healthy-state probability,
			// not zero, so absence is neutral rather than reassuring.
			rhrZ, hrvZ, respZ, tempZ := 0.0, 0.0, 0.0, 0.0
			if z, ok := in.z(metrics.MetricRestingHeartRate); ok {
				rhrZ = z
			}
			if z, ok := in.z(metrics.MetricHRV); ok {
				hrvZ = z
			}
			if z, ok := in.z(metrics.MetricRespiratoryRate); ok {
				respZ = z
			}
			if z, ok := in.z(metrics.MetricBodyTemperature); ok {
				tempZ = z
			}

			rhrTerm := illnessRHRWeight * elevationProb(rhrZ)
			hrvTerm := illnessHRVWeight * elevationProb(-hrvZ)
			respTerm := illnessRespWeight * elevationProb(respZ)
			tempTerm := illnessTempWeight * elevationProb(tempZ)

			value := 100 * (rhrTerm + hrvTerm + respTerm + tempTerm)
			return value, Breakdown{
				"resting_hr_elevation":       100 * rhrTerm,
				"hrv_suppression":            100 * hrvTerm,
				"respiratory_rate_elevation": 100 * respTerm,
				"temperature_elevation":      100 * tempTerm,
			}
		},
	}
}

// cardiacSafetyCalculator penalizes proximity to age-predicted maximum
// heart rate, sustained resting-HR elevation, and oxygen-saturation
// depression. Higher is worse.
func cardiacSafetyCalculator() Calculator {
	return Calculator{
		Name: CardiacSafetyPenalty,
		Requires: []metrics.MetricType{
			metrics.MetricHeartRate, metrics.MetricRestingHeartRate,
			metrics.MetricOxygenSaturation,
		},
		Fn: func(in Inputs) (float64, Breakdown) {
			proximity := 0.0
			if hr, ok := in.value(metrics.MetricHeartRate); ok {
				// Penalty accrues once the day's HR passes 85% of HRmax.
				proximity = clamp01((hr/in.Profile.MaxHeartRate() - 0.85) / 0.15)
			}

			rhrTerm := 0.0
			if z, ok := in.z(metrics.MetricRestingHeartRate); ok {
				rhrTerm = stdNormal.CDF(elevationSlope * (clipZ(z) - 1.5))
			}

			spo2Term := 0.0
			if z, ok := in.z(metrics.MetricOxygenSaturation); ok {
				spo2Term = stdNormal.CDF(elevationSlope * (clipZ(-z) - 1.5))
			}

			value := 100 * (cardiacHRProximityWeight*proximity +
				cardiacRHRWeight*rhrTerm +
				cardiacSpO2Weight*spo2Term)
			return value, Breakdown{
				"hr_max_proximity":      100 * cardiacHRProximityWeight * proximity,
				"resting_hr_elevation":  100 * cardiacRHRWeight * rhrTerm,
				"oxygen_sat_depression": 100 * cardiacSpO2Weight * spo2Term,
			}
		},
	}
}
