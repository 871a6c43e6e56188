package onboarding

import (
	"github.com/sofiabenali/lunchwise-backend/pkg/enums"
)

// Answers holds the onboarding questionnaire state for one session.
// Fields stay nil until the matching step is answered.
type Answers struct {
	LunchPreference *enums.LunchPreference `json:"lunch_preference,omitempty"`
	Weight          *float64               `json:"weight,omitempty"`
	WeightUnit      enums.WeightUnit       `json:"weight_unit,omitempty"`
}

// Answered reports whether every onboarding question has an answer.
func (a Answers) Answered() bool {
	return a.LunchPreference != nil && a.Weight != nil
}

// Weight ranges per unit. Values outside the range are rejected, not clamped.
const (
	minWeightKg  = 20.0
	maxWeightKg  = 300.0
	minWeightLbs = 44.0
	maxWeightLbs = 660.0
)

// ValidWeight reports whether value is a plausible body weight in the
// given unit.
func ValidWeight(value float64, unit enums.WeightUnit) bool {
	if value <= 0 {
		return false
	}
	switch unit {
	case enums.WeightUnitKilograms:
		return value >= minWeightKg && value <= maxWeightKg
	case enums.WeightUnitPounds:
		return value >= minWeightLbs && value <= maxWeightLbs
	default:
		return false
	}
}
