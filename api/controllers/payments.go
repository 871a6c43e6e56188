package controllers

import (
	"net/http"

	"github.com/sofiabenali/lunchwise-backend/api/responses"
	"github.com/sofiabenali/lunchwise-backend/api/validators"
	"github.com/sofiabenali/lunchwise-backend/internal/payments"
	"github.com/sofiabenali/lunchwise-backend/pkg/enums"
	pkgerrors "github.com/sofiabenali/lunchwise-backend/pkg/errors"
	"github.com/sofiabenali/lunchwise-backend/pkg/logger"
)

type paymentRequest struct {
	SessionID  string `json:"session_id,omitempty"`
	Email      string `json:"email" validate:"required,email"`
	Method     string `json:"method" validate:"required"`
	CardNumber string `json:"card_number,omitempty"`
	PlanID     string `json:"plan_id,omitempty"`
}

// SubmitPayment is the standalone mock gateway endpoint with canned
// verdicts.
func SubmitPayment(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}

		var body paymentRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParsePaymentMethod(body.Method)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown payment method"))
			return
		}

		receipt, err := svc.Submit(r.Context(), payments.Input{
			SessionID:  body.SessionID,
			Email:      body.Email,
			Method:     method,
			CardNumber: body.CardNumber,
			PlanID:     body.PlanID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, receipt)
	}
}
