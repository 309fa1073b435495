package score

import "math"

// Monotonic penalty/bonus curves shared by the calculators. Every curve
// here is strictly monotonic on its input so sub-score monotonicity
// properties hold by construction.

// clipZ bounds a z-score to ±3 before it enters a curve, so one wild
// sample cannot dominate a weighted sum.
const zClip = 3.0

func clipZ(z float64) float64 {
	if z > zClip {
		return zClip
	}
	if z < -zClip {
		return -zClip
	}
	return z
}

// bounded squashes a z-score into (-1, 1), monotonically
func bounded(z float64) float64 {
	return math.Tanh(clipZ(z) / 2)
}

// sigmoid is the standard logistic curve
func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// clamp100 clamps a value to [0, 100]
func clamp100(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// clamp01 clamps a value to [0, 1]
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ratioBand scores a ratio against an ideal band, linearly. Inside
// [lo, hi] the score is 1; outside it falls off linearly to 0 over one
// band-width on either side.
func ratioBand(ratio, lo, hi float64) float64 {
	width := hi - lo
	if width <= 0 {
		return 0
	}
	switch {
	case ratio >= lo && ratio <= hi:
		return 1
	case ratio < lo:
		return clamp01(1 - (lo-ratio)/width)
	default:
		return clamp01(1 - (ratio-hi)/width)
	}
}

// healthyBase is the anchor a core score sits at when every signal is
// exactly on personal baseline (z = 0). Deviations move the value up or
// down from here; the neutral midpoint 50 is reserved for missing data.
const healthyBase = 85.0
