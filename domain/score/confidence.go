package score

import "fieldready/domain/baseline"

// Coverage thresholds for the confidence grader. High demands full
// coverage and an established baseline; medium tolerates partial
// coverage or a warming baseline; everything else is low.
const (
	fullCoverage    = 0.8
	partialCoverage = 0.4
)

// gradeConfidence derives a confidence grade from signal coverage and
// baseline maturity. It is monotone in coverage: reducing coverage can
// never raise the grade. It never looks at score values.
func gradeConfidence(coverage float64, maturity baseline.Maturity) Confidence {
	if maturity == baseline.MaturityCollecting {
		return ConfidenceLow
	}
	switch {
	case coverage >= fullCoverage && maturity == baseline.MaturityEstablished:
		return ConfidenceHigh
	case coverage >= partialCoverage:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
