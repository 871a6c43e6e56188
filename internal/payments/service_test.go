package payments

import (
	"context"
	"testing"
	"time"

	"github.com/sofiabenali/lunchwise-backend/pkg/config"
	"github.com/sofiabenali/lunchwise-backend/pkg/db/models"
	"github.com/sofiabenali/lunchwise-backend/pkg/enums"
	pkgerrors "github.com/sofiabenali/lunchwise-backend/pkg/errors"
)

type stubRecordStore struct {
	records []*models.PaymentRecord
	err     error
}

func (s *stubRecordStore) Create(_ context.Context, record *models.PaymentRecord) error {
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, record)
	return nil
}

func testCfg() config.CheckoutConfig {
	return config.CheckoutConfig{
		AuthWindow:       5 * time.Minute,
		ApprovedCard:     "4242424242424242",
		ApprovedPassword: "123456",
	}
}

func TestSubmitApprovesDesignatedCard(t *testing.T) {
	store := &stubRecordStore{}
	svc, err := NewService(store, testCfg(), nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	receipt, err := svc.Submit(context.Background(), Input{
		SessionID:  "s1",
		Email:      "user@example.com",
		Method:     enums.PaymentMethodCard,
		CardNumber: "4242 4242 4242 4242",
		PlanID:     "monthly",
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if receipt.Status != enums.PaymentStatusApproved || receipt.TransactionID == "" {
		t.Fatalf("receipt = %+v", receipt)
	}
	if len(store.records) != 1 {
		t.Fatalf("records = %d", len(store.records))
	}
	rec := store.records[0]
	if rec.CardLast4 != "4242" || rec.Status != enums.PaymentStatusApproved || rec.FailureReason != nil {
		t.Fatalf("record = %+v", rec)
	}
}

func TestSubmitDeclinesOtherCards(t *testing.T) {
	store := &stubRecordStore{}
	svc, _ := NewService(store, testCfg(), nil)

	_, err := svc.Submit(context.Background(), Input{
		Method:     enums.PaymentMethodCard,
		CardNumber: "4000000000000002",
	})
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeDeclined {
		t.Fatalf("expected decline, got %v", err)
	}
	// The declined attempt is still recorded.
	if len(store.records) != 1 || store.records[0].Status != enums.PaymentStatusDeclined {
		t.Fatalf("records = %+v", store.records)
	}
	if store.records[0].FailureReason == nil {
		t.Fatal("declined record must carry a failure reason")
	}
}

func TestSubmitApprovesNonCardMethods(t *testing.T) {
	store := &stubRecordStore{}
	svc, _ := NewService(store, testCfg(), nil)

	receipt, err := svc.Submit(context.Background(), Input{
		Method: enums.PaymentMethodPayPal,
		Email:  "user@example.com",
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if receipt.Status != enums.PaymentStatusApproved {
		t.Fatalf("receipt = %+v", receipt)
	}
	if store.records[0].CardLast4 != "" {
		t.Fatalf("non-card record must not carry card digits: %+v", store.records[0])
	}
}

func TestSubmitRejectsUnknownMethod(t *testing.T) {
	svc, _ := NewService(&stubRecordStore{}, testCfg(), nil)
	_, err := svc.Submit(context.Background(), Input{Method: "bitcoin"})
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSubmitSurfacesStoreFailure(t *testing.T) {
	svc, _ := NewService(&stubRecordStore{err: context.DeadlineExceeded}, testCfg(), nil)
	_, err := svc.Submit(context.Background(), Input{Method: enums.PaymentMethodCard, CardNumber: "4242424242424242"})
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
