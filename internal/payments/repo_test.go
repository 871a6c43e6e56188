package payments

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sofiabenali/lunchwise-backend/pkg/db/models"
	"github.com/sofiabenali/lunchwise-backend/pkg/enums"
)

func setupPaymentsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.PaymentRecord{}))
	return db
}

func TestGormRecordStoreCreate(t *testing.T) {
	db := setupPaymentsTestDB(t)
	store := NewGormRecordStore(db)

	svc, err := NewService(store, testCfg(), nil)
	require.NoError(t, err)

	receipt, err := svc.Submit(context.Background(), Input{
		SessionID:  "sess-1",
		Email:      "user@example.com",
		Method:     enums.PaymentMethodCard,
		CardNumber: "4242 4242 4242 4242",
		PlanID:     "monthly",
	})
	require.NoError(t, err)

	var row models.PaymentRecord
	require.NoError(t, db.Where("session_id = ?", "sess-1").First(&row).Error)
	assert.Equal(t, receipt.TransactionID, row.TransactionID)
	assert.Equal(t, enums.PaymentStatusApproved, row.Status)
	assert.Equal(t, "4242", row.CardLast4)
	assert.Equal(t, "monthly", row.PlanID)
	assert.Nil(t, row.FailureReason)
	assert.False(t, row.CreatedAt.IsZero())
}

func TestGormRecordStoreKeepsDeclinedAttempts(t *testing.T) {
	db := setupPaymentsTestDB(t)
	store := NewGormRecordStore(db)

	svc, err := NewService(store, testCfg(), nil)
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), Input{
		SessionID:  "sess-2",
		Email:      "user@example.com",
		Method:     enums.PaymentMethodCard,
		CardNumber: "4000000000000002",
	})
	require.Error(t, err)

	var row models.PaymentRecord
	require.NoError(t, db.Where("session_id = ?", "sess-2").First(&row).Error)
	assert.Equal(t, enums.PaymentStatusDeclined, row.Status)
	require.NotNil(t, row.FailureReason)
	assert.NotEmpty(t, *row.FailureReason)
}
