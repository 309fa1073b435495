package baseline

import "fieldready/domain/metrics"

// PopulationStats are literature-typical adult ranges used while a
// personal baseline is warming up. Sources are standard sports-medicine
// reference values; they are deliberately broad.
type PopulationStats struct {
	Mean   float64
	StdDev float64
}

var populationDefaults = map[metrics.MetricType]PopulationStats{
	metrics.MetricHeartRate:        {Mean: 72, StdDev: 10},
	metrics.MetricRestingHeartRate: {Mean: 60, StdDev: 8},
	metrics.MetricHRV:              {Mean: 65, StdDev: 20},
	metrics.MetricRespiratoryRate:  {Mean: 14, StdDev: 2},
	metrics.MetricBodyTemperature:  {Mean: 36.6, StdDev: 0.4},
	metrics.MetricOxygenSaturation: {Mean: 97, StdDev: 1.5},
	metrics.MetricVO2Max:           {Mean: 40, StdDev: 7},
	metrics.MetricWeight:           {Mean: 75, StdDev: 12},
	metrics.MetricSteps:            {Mean: 8000, StdDev: 3500},
	metrics.MetricActiveEnergy:     {Mean: 500, StdDev: 250},
	metrics.MetricExerciseMinutes:  {Mean: 30, StdDev: 25},
	metrics.MetricMindfulMinutes:   {Mean: 10, StdDev: 10},
	metrics.MetricSleepDeep:        {Mean: 90, StdDev: 30},
	metrics.MetricSleepREM:         {Mean: 105, StdDev: 35},
	metrics.MetricSleepCore:        {Mean: 240, StdDev: 60},
	metrics.MetricSleepAwake:       {Mean: 30, StdDev: 20},
}

// PopulationDefault returns the warm-up fallback stats for a metric.
// Unknown types get a unit-variance default so a z-score stays finite.
func PopulationDefault(t metrics.MetricType) PopulationStats {
	if p, ok := populationDefaults[t]; ok {
		return p
	}
	return PopulationStats{Mean: 0, StdDev: 1}
}
