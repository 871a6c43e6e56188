package enums

import "fmt"

// LunchPreference is the answer to the lunch onboarding question.
type LunchPreference string

const (
	LunchPreferenceSandwiches LunchPreference = "sandwiches"
	LunchPreferenceSoups      LunchPreference = "soups"
	LunchPreferenceFastFood   LunchPreference = "fastfood"
	LunchPreferenceOther      LunchPreference = "other"
)

var validLunchPreferences = []LunchPreference{
	LunchPreferenceSandwiches,
	LunchPreferenceSoups,
	LunchPreferenceFastFood,
	LunchPreferenceOther,
}

// String implements fmt.Stringer.
func (l LunchPreference) String() string {
	return string(l)
}

// IsValid reports whether the value is known.
func (l LunchPreference) IsValid() bool {
	for _, candidate := range validLunchPreferences {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseLunchPreference converts raw input into a LunchPreference.
func ParseLunchPreference(value string) (LunchPreference, error) {
	for _, candidate := range validLunchPreferences {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid lunch preference %q", value)
}
