package domain

import "github.com/shopspring/decimal"

// Grade is the qualitative quality rating assigned to a discharge measurement.
type Grade string

const (
	GradeExcellent Grade = "EXCELLENT"
	GradeGood      Grade = "GOOD"
	GradeFair      Grade = "FAIR"
	GradePoor      Grade = "POOR"
)

// Percentages keep the scale used by the field-visit source system so report
// values print with the same number of decimal places.
var (
	excellentPercentage = decimal.RequireFromString("0.0200")
	goodPercentage      = decimal.RequireFromString("0.0500")
	fairPercentage      = decimal.RequireFromString("0.0800")
	poorPercentage      = decimal.RequireFromString("0.100")
)

// Percentage returns the fraction of the discharge used as the symmetric error
// envelope for the grade. Unknown grades get the POOR percentage.
func (g Grade) Percentage() decimal.Decimal {
	switch g {
	case GradeExcellent:
		return excellentPercentage
	case GradeGood:
		return goodPercentage
	case GradeFair:
		return fairPercentage
	default:
		return poorPercentage
	}
}

func (g Grade) String() string {
	return string(g)
}

// ParseGrade matches name exactly (case-sensitive) against the four grade
// labels. The boolean is false when the label is not recognised, in which case
// the returned grade is GradePoor.
func ParseGrade(name string) (Grade, bool) {
	switch g := Grade(name); g {
	case GradeExcellent, GradeGood, GradeFair, GradePoor:
		return g, true
	default:
		return GradePoor, false
	}
}

// GradeFromName resolves a free-form grade label to a Grade and never fails.
//
// Missing, empty, or unrecognised labels (including lower-case spellings of
// valid grades) resolve to GradePoor. This widens the error envelope to 10% for
// any measurement whose upstream grade cannot be read, so that an unknown label
// never aborts report generation. Callers that need to know a fallback happened
// should use ParseGrade.
func GradeFromName(name string) Grade {
	g, _ := ParseGrade(name)
	return g
}
