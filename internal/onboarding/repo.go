package onboarding

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sofiabenali/lunchwise-backend/pkg/db/models"
)

// GormRecorder persists step submissions as audit rows in the mock
// backend database.
type GormRecorder struct {
	db *gorm.DB
}

func NewGormRecorder(db *gorm.DB) *GormRecorder {
	return &GormRecorder{db: db}
}

func (r *GormRecorder) RecordSubmission(ctx context.Context, sessionID, step string, payload json.RawMessage) error {
	row := models.OnboardingSubmission{
		ID:        uuid.New(),
		SessionID: sessionID,
		Step:      step,
		Payload:   payload,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}
