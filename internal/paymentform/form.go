package paymentform

import (
	"strings"
	"time"

	"github.com/sofiabenali/lunchwise-backend/pkg/card"
	"github.com/sofiabenali/lunchwise-backend/pkg/config"
	"github.com/sofiabenali/lunchwise-backend/pkg/enums"
)

// Field names accepted by SetField. They double as the keys of the
// error map the clients render inline.
const (
	FieldEmail      = "email"
	FieldCardNumber = "card_number"
	FieldExpiration = "expiration"
	FieldCVC        = "cvc"
	FieldName       = "cardholder_name"
	FieldCountry    = "country"
)

// Draft is the in-progress payment form data. Card sub-fields are kept
// in their display format (grouped number, MM/YY expiration).
type Draft struct {
	Email          string              `json:"email"`
	Method         enums.PaymentMethod `json:"method"`
	CardNumber     string              `json:"card_number"`
	Expiration     string              `json:"expiration"`
	CVC            string              `json:"cvc"`
	CardholderName string              `json:"cardholder_name"`
	Country        string              `json:"country"`
}

// ErrorMap maps a field name to the message key describing its problem.
// An empty map means the draft is submittable.
type ErrorMap map[string]string

// Sandbox is the allowlist of card numbers that skip the Luhn check.
// Disabled in production.
type Sandbox struct {
	Enabled bool
	Cards   []string
}

func SandboxFromConfig(cfg config.CheckoutConfig) Sandbox {
	return Sandbox{Enabled: cfg.SandboxBypass, Cards: cfg.SandboxCards}
}

func (s Sandbox) allows(number string) bool {
	if !s.Enabled {
		return false
	}
	digits := card.Digits(number)
	for _, allowed := range s.Cards {
		if card.Digits(allowed) == digits {
			return true
		}
	}
	return false
}

// Form holds a Draft and recomputes per-field errors as fields change.
// It is not safe for concurrent use; the session layer serializes access.
type Form struct {
	draft   Draft
	errors  ErrorMap
	sandbox Sandbox
	now     func() time.Time
}

func New(sandbox Sandbox, now func() time.Time) *Form {
	if now == nil {
		now = time.Now
	}
	return &Form{
		draft:   Draft{Method: enums.PaymentMethodCard},
		errors:  ErrorMap{},
		sandbox: sandbox,
		now:     now,
	}
}

// Restore replaces the draft wholesale, used when rehydrating a session
// from its persisted snapshot. Errors are recomputed on the next change.
func (f *Form) Restore(draft Draft) {
	if draft.Method == "" {
		draft.Method = enums.PaymentMethodCard
	}
	f.draft = draft
	f.errors = ErrorMap{}
}

// Draft returns a copy of the current draft.
func (f *Form) Draft() Draft {
	return f.draft
}

// Errors returns a copy of the current per-field errors.
func (f *Form) Errors() ErrorMap {
	out := make(ErrorMap, len(f.errors))
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}

// SetField routes raw input through the matching formatter, stores the
// result, and recomputes that field's error only. It returns the value
// as stored plus the message key for the field, empty when valid.
func (f *Form) SetField(name, raw string) (formatted string, errKey string) {
	switch name {
	case FieldEmail:
		formatted = strings.TrimSpace(raw)
		f.draft.Email = formatted
		errKey = emailError(formatted)
	case FieldCardNumber:
		formatted = card.FormatNumber(raw)
		f.draft.CardNumber = formatted
		errKey = f.cardNumberError(formatted)
	case FieldExpiration:
		formatted = card.FormatExpiration(raw, f.draft.Expiration)
		f.draft.Expiration = formatted
		errKey = f.expirationTypingError(formatted)
	case FieldCVC:
		formatted = truncateDigits(raw, 4)
		f.draft.CVC = formatted
		if formatted != "" && !card.ValidCVC(formatted) {
			errKey = "validation.cvc_invalid"
		}
	case FieldName:
		formatted = strings.TrimSpace(raw)
		f.draft.CardholderName = formatted
	case FieldCountry:
		formatted = strings.TrimSpace(raw)
		f.draft.Country = formatted
		if formatted == "" {
			errKey = "validation.country_required"
		}
	default:
		return raw, ""
	}

	if errKey == "" {
		delete(f.errors, name)
	} else {
		f.errors[name] = errKey
	}
	return formatted, errKey
}

// SetMethod switches the payment method and clears the card sub-fields
// and their errors, regardless of the target method.
func (f *Form) SetMethod(method enums.PaymentMethod) {
	f.draft.Method = method
	f.draft.CardNumber = ""
	f.draft.Expiration = ""
	f.draft.CVC = ""
	delete(f.errors, FieldCardNumber)
	delete(f.errors, FieldExpiration)
	delete(f.errors, FieldCVC)
}

// Validate runs the full-draft validation and replaces the stored
// error map with the result.
func (f *Form) Validate() ErrorMap {
	f.errors = Validate(f.draft, f.sandbox, f.now())
	return f.Errors()
}

// Validate is the full-draft rule set. Card drafts need a card number
// passing Luhn (or the sandbox allowlist), an unexpired expiration, a
// CVC, and a country; every method needs a valid email. The name is
// always optional. Missing and expired expirations get distinct keys.
func Validate(d Draft, sandbox Sandbox, now time.Time) ErrorMap {
	errs := ErrorMap{}

	switch {
	case d.Email == "":
		errs[FieldEmail] = "validation.email_required"
	case !card.ValidEmail(d.Email):
		errs[FieldEmail] = "validation.email_invalid"
	}

	if !d.Method.RequiresCardDetails() {
		return errs
	}

	switch {
	case d.CardNumber == "":
		errs[FieldCardNumber] = "validation.card_number_required"
	case !card.LuhnValid(d.CardNumber) && !sandbox.allows(d.CardNumber):
		errs[FieldCardNumber] = "validation.card_number_invalid"
	}

	if d.Expiration == "" {
		errs[FieldExpiration] = "validation.expiration_required"
	} else if month, year, ok := card.ParseExpiration(d.Expiration); !ok {
		errs[FieldExpiration] = "validation.expiration_invalid"
	} else if !card.ExpirationInFuture(month, year, now) {
		errs[FieldExpiration] = "validation.expiration_expired"
	}

	switch {
	case d.CVC == "":
		errs[FieldCVC] = "validation.cvc_required"
	case !card.ValidCVC(d.CVC):
		errs[FieldCVC] = "validation.cvc_invalid"
	}

	if d.Country == "" {
		errs[FieldCountry] = "validation.country_required"
	}
	return errs
}

func emailError(value string) string {
	if value == "" {
		return "validation.email_required"
	}
	if !card.ValidEmail(value) {
		return "validation.email_invalid"
	}
	return ""
}

func (f *Form) cardNumberError(formatted string) string {
	if formatted == "" {
		return "validation.card_number_required"
	}
	if !card.LuhnValid(formatted) && !f.sandbox.allows(formatted) {
		return "validation.card_number_invalid"
	}
	return ""
}

// expirationTypingError only flags complete values so partial input does
// not flash an error on every keystroke.
func (f *Form) expirationTypingError(formatted string) string {
	if len(card.Digits(formatted)) < 4 {
		return ""
	}
	month, year, ok := card.ParseExpiration(formatted)
	if !ok {
		return "validation.expiration_invalid"
	}
	if !card.ExpirationInFuture(month, year, f.now()) {
		return "validation.expiration_expired"
	}
	return ""
}

func truncateDigits(value string, max int) string {
	digits := card.Digits(value)
	if len(digits) > max {
		return digits[:max]
	}
	return digits
}
