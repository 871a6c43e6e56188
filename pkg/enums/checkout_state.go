package enums

import "fmt"

// CheckoutState tracks where a checkout attempt currently is.
type CheckoutState string

const (
	CheckoutStateSelectingPlan   CheckoutState = "selecting_plan"
	CheckoutStateEnteringPayment CheckoutState = "entering_payment"
	CheckoutStateAuthenticating  CheckoutState = "authenticating"
	CheckoutStateProcessing      CheckoutState = "processing"
	CheckoutStateSucceeded       CheckoutState = "succeeded"
	CheckoutStateDeclined        CheckoutState = "declined"
	CheckoutStateAuthExpired     CheckoutState = "auth_expired"
	CheckoutStateCanceled        CheckoutState = "canceled"
)

var validCheckoutStates = []CheckoutState{
	CheckoutStateSelectingPlan,
	CheckoutStateEnteringPayment,
	CheckoutStateAuthenticating,
	CheckoutStateProcessing,
	CheckoutStateSucceeded,
	CheckoutStateDeclined,
	CheckoutStateAuthExpired,
	CheckoutStateCanceled,
}

// String implements fmt.Stringer.
func (s CheckoutState) String() string {
	return string(s)
}

// IsValid reports whether the value is known.
func (s CheckoutState) IsValid() bool {
	for _, candidate := range validCheckoutStates {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the attempt cannot continue without restarting.
func (s CheckoutState) IsTerminal() bool {
	switch s {
	case CheckoutStateSucceeded, CheckoutStateDeclined, CheckoutStateAuthExpired, CheckoutStateCanceled:
		return true
	}
	return false
}

// ParseCheckoutState converts raw input into a CheckoutState.
func ParseCheckoutState(value string) (CheckoutState, error) {
	for _, candidate := range validCheckoutStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout state %q", value)
}
