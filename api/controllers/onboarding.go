package controllers

import (
	"net/http"

	"github.com/sofiabenali/lunchwise-backend/api/responses"
	"github.com/sofiabenali/lunchwise-backend/api/validators"
	"github.com/sofiabenali/lunchwise-backend/internal/onboarding"
	"github.com/sofiabenali/lunchwise-backend/internal/session"
	pkgerrors "github.com/sofiabenali/lunchwise-backend/pkg/errors"
	"github.com/sofiabenali/lunchwise-backend/pkg/logger"
)

type onboardingStepRequest struct {
	SessionID       string  `json:"session_id" validate:"required"`
	Step            string  `json:"step" validate:"required,oneof=lunch_preference weight"`
	StepIndex       *int    `json:"step_index,omitempty"`
	LunchPreference string  `json:"lunch_preference,omitempty"`
	Weight          float64 `json:"weight,omitempty"`
	WeightUnit      string  `json:"weight_unit,omitempty"`
}

// OnboardingStep records one answered onboarding question.
func OnboardingStep(svc onboarding.Service, store *session.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "onboarding service unavailable"))
			return
		}

		var body onboardingStepRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state, err := store.Load(r.Context(), body.SessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		answers, err := svc.SubmitStep(r.Context(), body.SessionID, state.Answers, onboarding.StepSubmission{
			Step:            onboarding.Step(body.Step),
			LunchPreference: body.LunchPreference,
			Weight:          body.Weight,
			WeightUnit:      body.WeightUnit,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if body.StepIndex != nil {
			if err := store.SaveStepIndex(r.Context(), body.SessionID, *body.StepIndex); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		responses.WriteSuccess(w, map[string]any{
			"answers":  answers,
			"complete": answers.Answered(),
		})
	}
}
