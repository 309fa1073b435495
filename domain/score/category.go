package score

// Category is the four-band readiness classification
type Category string

const (
	CategoryGo      Category = "GO"
	CategoryCaution Category = "CAUTION"
	CategoryLimited Category = "LIMITED"
	CategoryStop    Category = "STOP"
)

// Canonical category band edges. This table is the single source of
// truth; no presentation surface may restate its own thresholds.
const (
	GoThreshold      = 80.0
	CautionThreshold = 60.0
	LimitedThreshold = 40.0
)

// CategoryFor maps an overall readiness value onto its band. Values
// exactly at an edge belong to the higher band.
func CategoryFor(overall float64) Category {
	switch {
	case overall >= GoThreshold:
		return CategoryGo
	case overall >= CautionThreshold:
		return CategoryCaution
	case overall >= LimitedThreshold:
		return CategoryLimited
	default:
		return CategoryStop
	}
}
