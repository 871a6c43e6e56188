package enums

import "fmt"

// WeightUnit is the unit the user entered their weight in.
type WeightUnit string

const (
	WeightUnitKilograms WeightUnit = "kg"
	WeightUnitPounds    WeightUnit = "lbs"
)

var validWeightUnits = []WeightUnit{
	WeightUnitKilograms,
	WeightUnitPounds,
}

// String implements fmt.Stringer.
func (w WeightUnit) String() string {
	return string(w)
}

// IsValid reports whether the value is known.
func (w WeightUnit) IsValid() bool {
	for _, candidate := range validWeightUnits {
		if candidate == w {
			return true
		}
	}
	return false
}

// ParseWeightUnit converts raw input into a WeightUnit.
func ParseWeightUnit(value string) (WeightUnit, error) {
	for _, candidate := range validWeightUnits {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid weight unit %q", value)
}
