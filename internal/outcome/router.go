package outcome

import (
	"github.com/sofiabenali/lunchwise-backend/pkg/enums"
)

// Destination is one of the three exits from the checkout flow, plus
// the human-readable reason shown on the error destination.
type Destination struct {
	Outcome enums.Outcome `json:"outcome"`
	Message string        `json:"message,omitempty"`
}

// Route maps a terminal checkout state to its destination. Declines
// carry the message through to the error page; expiry and explicit
// cancellation route to the cancel page with no message.
func Route(state enums.CheckoutState, message string) Destination {
	switch state {
	case enums.CheckoutStateSucceeded:
		return Destination{Outcome: enums.OutcomeSuccess, Message: message}
	case enums.CheckoutStateDeclined:
		return Destination{Outcome: enums.OutcomeError, Message: message}
	case enums.CheckoutStateAuthExpired, enums.CheckoutStateCanceled:
		return Destination{Outcome: enums.OutcomeCancel}
	default:
		// Non-terminal states only reach the router through a
		// processing failure.
		return Destination{Outcome: enums.OutcomeError, Message: message}
	}
}

// RouteFailure is the destination for an unexpected processing error.
func RouteFailure(message string) Destination {
	return Destination{Outcome: enums.OutcomeError, Message: message}
}
