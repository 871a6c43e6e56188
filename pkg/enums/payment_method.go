package enums

import "fmt"

// PaymentMethod identifies how the user chose to pay.
type PaymentMethod string

const (
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodApplePay PaymentMethod = "apple_pay"
	PaymentMethodPayPal   PaymentMethod = "paypal"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodCard,
	PaymentMethodApplePay,
	PaymentMethodPayPal,
}

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is known.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// RequiresCardDetails reports whether the method needs card sub-fields.
func (p PaymentMethod) RequiresCardDetails() bool {
	return p == PaymentMethodCard
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
// The hyphenated apple-pay spelling used by older clients is accepted.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	if value == "apple-pay" {
		return PaymentMethodApplePay, nil
	}
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
