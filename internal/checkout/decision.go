package checkout

import (
	"github.com/sofiabenali/lunchwise-backend/pkg/card"
	"github.com/sofiabenali/lunchwise-backend/pkg/config"
	"github.com/sofiabenali/lunchwise-backend/pkg/enums"
)

// Decision is the simulated gateway's verdict on a payment attempt.
type Decision struct {
	Approved bool
	// Reason is the message key shown when the attempt is declined.
	Reason string
}

// Decide is the single authoritative approve/decline policy, shared by
// the state machine's card and non-card paths and by the standalone
// payments endpoint. Non-card methods always approve. Card payments
// approve only when both the card number and the challenge password
// match the configured sandbox values.
func Decide(method enums.PaymentMethod, cardNumber, password string, cfg config.CheckoutConfig) Decision {
	if !method.RequiresCardDetails() {
		return Decision{Approved: true}
	}
	if card.Digits(cardNumber) == card.Digits(cfg.ApprovedCard) && password == cfg.ApprovedPassword {
		return Decision{Approved: true}
	}
	return Decision{Reason: "checkout.declined"}
}
