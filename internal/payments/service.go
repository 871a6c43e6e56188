package payments

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/sofiabenali/lunchwise-backend/internal/checkout"
	"github.com/sofiabenali/lunchwise-backend/pkg/card"
	"github.com/sofiabenali/lunchwise-backend/pkg/config"
	"github.com/sofiabenali/lunchwise-backend/pkg/db/models"
	"github.com/sofiabenali/lunchwise-backend/pkg/enums"
	pkgerrors "github.com/sofiabenali/lunchwise-backend/pkg/errors"
	"github.com/sofiabenali/lunchwise-backend/pkg/metrics"
)

// Input is one payment submission to the standalone mock gateway.
type Input struct {
	SessionID  string
	Email      string
	Method     enums.PaymentMethod
	CardNumber string
	PlanID     string
}

// Receipt is returned for approved payments.
type Receipt struct {
	TransactionID string              `json:"transaction_id"`
	Status        enums.PaymentStatus `json:"status"`
}

type recordStore interface {
	Create(ctx context.Context, record *models.PaymentRecord) error
}

// Service is the standalone payments endpoint's backend: it applies the
// shared approve/decline policy and records every attempt.
type Service interface {
	Submit(ctx context.Context, in Input) (*Receipt, error)
}

type service struct {
	records recordStore
	cfg     config.CheckoutConfig
	metrics *metrics.CheckoutMetrics
}

func NewService(records recordStore, cfg config.CheckoutConfig, m *metrics.CheckoutMetrics) (Service, error) {
	if records == nil {
		return nil, fmt.Errorf("payment record store required")
	}
	return &service{records: records, cfg: cfg, metrics: m}, nil
}

func (s *service) Submit(ctx context.Context, in Input) (*Receipt, error) {
	if !in.Method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method")
	}

	// This endpoint has no challenge step, so the stored password is
	// supplied as if the challenge had passed; the card number alone
	// decides the verdict.
	decision := checkout.Decide(in.Method, in.CardNumber, s.cfg.ApprovedPassword, s.cfg)

	record := models.PaymentRecord{
		ID:            uuid.New(),
		SessionID:     in.SessionID,
		Email:         in.Email,
		Method:        in.Method,
		PlanID:        in.PlanID,
		CardLast4:     last4(in.CardNumber),
		TransactionID: "txn_" + uuid.NewString(),
	}

	if decision.Approved {
		record.Status = enums.PaymentStatusApproved
	} else {
		record.Status = enums.PaymentStatusDeclined
		reason := decision.Reason
		record.FailureReason = &reason
	}

	if err := s.records.Create(ctx, &record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recording payment attempt")
	}
	if s.metrics != nil {
		s.metrics.IncOutcome(record.Status.String())
	}

	if !decision.Approved {
		return nil, pkgerrors.New(pkgerrors.CodeDeclined, "card declined").
			WithDetails(map[string]string{"reason": decision.Reason})
	}
	return &Receipt{TransactionID: record.TransactionID, Status: record.Status}, nil
}

func last4(number string) string {
	digits := card.Digits(number)
	if len(digits) < 4 {
		return digits
	}
	return digits[len(digits)-4:]
}
