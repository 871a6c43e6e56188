package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/sofiabenali/lunchwise-backend/pkg/enums"
)

// PaymentRecord is the mock backend's trace of a payment attempt and the
// canned verdict it returned.
type PaymentRecord struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	SessionID     string              `gorm:"column:session_id;index"`
	Email         string              `gorm:"column:email"`
	Method        enums.PaymentMethod `gorm:"column:method;not null"`
	PlanID        string              `gorm:"column:plan_id"`
	CardLast4     string              `gorm:"column:card_last4"`
	Status        enums.PaymentStatus `gorm:"column:status;not null"`
	TransactionID string              `gorm:"column:transaction_id;uniqueIndex"`
	FailureReason *string             `gorm:"column:failure_reason"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
}
