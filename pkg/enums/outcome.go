package enums

import "fmt"

// Outcome is the destination a finished checkout attempt routes to.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeCancel  Outcome = "cancel"
	OutcomeError   Outcome = "error"
)

var validOutcomes = []Outcome{
	OutcomeSuccess,
	OutcomeCancel,
	OutcomeError,
}

// String implements fmt.Stringer.
func (o Outcome) String() string {
	return string(o)
}

// IsValid reports whether the value is known.
func (o Outcome) IsValid() bool {
	for _, candidate := range validOutcomes {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOutcome converts raw input into an Outcome.
func ParseOutcome(value string) (Outcome, error) {
	for _, candidate := range validOutcomes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid outcome %q", value)
}
