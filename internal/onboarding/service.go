package onboarding

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sofiabenali/lunchwise-backend/pkg/enums"
	pkgerrors "github.com/sofiabenali/lunchwise-backend/pkg/errors"
)

// Step identifies one onboarding question.
type Step string

const (
	StepLunchPreference Step = "lunch_preference"
	StepWeight          Step = "weight"
)

// StepSubmission is one answered step as received from the client.
type StepSubmission struct {
	Step            Step
	LunchPreference string
	Weight          float64
	WeightUnit      string
}

type answerStore interface {
	SaveAnswers(ctx context.Context, sessionID string, answers Answers) error
}

type submissionRecorder interface {
	RecordSubmission(ctx context.Context, sessionID string, step string, payload json.RawMessage) error
}

// Service applies onboarding step submissions to a session's answers.
type Service interface {
	SubmitStep(ctx context.Context, sessionID string, current Answers, sub StepSubmission) (Answers, error)
}

type service struct {
	store    answerStore
	recorder submissionRecorder
}

// NewService builds an onboarding service. The recorder is optional;
// when nil, submissions update session state without an audit row.
func NewService(store answerStore, recorder submissionRecorder) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("answer store required")
	}
	return &service{store: store, recorder: recorder}, nil
}

func (s *service) SubmitStep(ctx context.Context, sessionID string, current Answers, sub StepSubmission) (Answers, error) {
	next := current

	switch sub.Step {
	case StepLunchPreference:
		pref, err := enums.ParseLunchPreference(sub.LunchPreference)
		if err != nil {
			return current, pkgerrors.New(pkgerrors.CodeValidation, "unknown lunch preference").
				WithDetails(map[string]string{"lunch_preference": "validation.lunch_preference_invalid"})
		}
		next.LunchPreference = &pref
	case StepWeight:
		unit, err := enums.ParseWeightUnit(sub.WeightUnit)
		if err != nil {
			return current, pkgerrors.New(pkgerrors.CodeValidation, "unknown weight unit").
				WithDetails(map[string]string{"weight_unit": "validation.weight_unit_invalid"})
		}
		if !ValidWeight(sub.Weight, unit) {
			return current, pkgerrors.New(pkgerrors.CodeValidation, "weight out of range").
				WithDetails(map[string]string{"weight": "validation.weight_out_of_range"})
		}
		weight := sub.Weight
		next.Weight = &weight
		next.WeightUnit = unit
	default:
		return current, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown onboarding step %q", sub.Step))
	}

	if err := s.store.SaveAnswers(ctx, sessionID, next); err != nil {
		return current, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persisting onboarding answers")
	}

	if s.recorder != nil {
		payload, err := json.Marshal(sub)
		if err != nil {
			return next, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding step payload")
		}
		if err := s.recorder.RecordSubmission(ctx, sessionID, string(sub.Step), payload); err != nil {
			return next, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recording onboarding submission")
		}
	}
	return next, nil
}
