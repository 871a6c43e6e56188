package payments

import (
	"context"

	"gorm.io/gorm"

	"github.com/sofiabenali/lunchwise-backend/pkg/db/models"
)

// GormRecordStore persists payment records.
type GormRecordStore struct {
	db *gorm.DB
}

func NewGormRecordStore(db *gorm.DB) *GormRecordStore {
	return &GormRecordStore{db: db}
}

func (s *GormRecordStore) Create(ctx context.Context, record *models.PaymentRecord) error {
	return s.db.WithContext(ctx).Create(record).Error
}
