package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// OnboardingSubmission records one answered onboarding step as the mock
// backend receives it. The payload keeps the step's raw answers so the
// simulator stays agnostic to question changes.
type OnboardingSubmission struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	SessionID string          `gorm:"column:session_id;index"`
	Step      string          `gorm:"column:step;not null"`
	Payload   json.RawMessage `gorm:"column:payload"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}
