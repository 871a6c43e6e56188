package session

import (
	"github.com/sofiabenali/lunchwise-backend/internal/catalog"
	"github.com/sofiabenali/lunchwise-backend/internal/onboarding"
	"github.com/sofiabenali/lunchwise-backend/internal/paymentform"
	"github.com/sofiabenali/lunchwise-backend/pkg/enums"
)

// PersistedAppState is the full per-session snapshot written on every
// accepted mutation and read once at session bootstrap. Direction is
// derived from Language on every write and is never set independently.
type PersistedAppState struct {
	CurrentStepIndex int                `json:"current_step_index"`
	Answers          onboarding.Answers `json:"answers"`
	PaymentInfo      paymentform.Draft  `json:"payment_info"`
	SelectedPlan     *catalog.Plan      `json:"selected_plan,omitempty"`
	Language         enums.Language     `json:"language"`
	Direction        enums.Direction    `json:"direction"`
}

// DefaultState is the empty state a fresh or reset session starts from.
func DefaultState() PersistedAppState {
	return PersistedAppState{
		Language:  enums.LanguageEnglish,
		Direction: enums.LanguageEnglish.Direction(),
	}
}

// normalize reasserts the derived fields before a write.
func (s *PersistedAppState) normalize() {
	if !s.Language.IsValid() {
		s.Language = enums.LanguageEnglish
	}
	s.Direction = s.Language.Direction()
}
