package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sofiabenali/lunchwise-backend/internal/catalog"
	"github.com/sofiabenali/lunchwise-backend/internal/onboarding"
	"github.com/sofiabenali/lunchwise-backend/internal/paymentform"
	"github.com/sofiabenali/lunchwise-backend/pkg/enums"
	pkgerrors "github.com/sofiabenali/lunchwise-backend/pkg/errors"
	"github.com/sofiabenali/lunchwise-backend/pkg/kv"
)

func stateKey(sessionID string) string { return "state:" + sessionID }
func emailKey(sessionID string) string { return "email:" + sessionID }

// Store owns the durable PersistedAppState for each session. Writes are
// last-write-wins full-snapshot overwrites; the single-writer model at
// the session layer makes that safe.
type Store struct {
	kv kv.Store
}

func NewStore(store kv.Store) (*Store, error) {
	if store == nil {
		return nil, fmt.Errorf("kv store required")
	}
	return &Store{kv: store}, nil
}

// Load reads the last snapshot, or the empty default when none exists.
func (s *Store) Load(ctx context.Context, sessionID string) (PersistedAppState, error) {
	raw, err := s.kv.Get(ctx, stateKey(sessionID))
	if errors.Is(err, kv.ErrNotFound) {
		return DefaultState(), nil
	}
	if err != nil {
		return DefaultState(), pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading session state")
	}

	state := DefaultState()
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return DefaultState(), pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decoding session state")
	}
	state.normalize()
	return state, nil
}

// Save overwrites the full snapshot. The derived direction is reasserted
// before the write so a snapshot can never carry a mismatched pair.
func (s *Store) Save(ctx context.Context, sessionID string, state PersistedAppState) error {
	state.normalize()
	raw, err := json.Marshal(state)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding session state")
	}
	if err := s.kv.Set(ctx, stateKey(sessionID), string(raw)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "writing session state")
	}
	return nil
}

// SaveEmail writes the dedicated email key, updated on every email
// field change so the address survives even when a later full-snapshot
// write never lands.
func (s *Store) SaveEmail(ctx context.Context, sessionID, email string) error {
	if err := s.kv.Set(ctx, emailKey(sessionID), email); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "writing session email")
	}
	return nil
}

// Email resolves the user's email with the layered fallback: the
// in-memory draft value first, then the dedicated key, then the email
// nested in the last snapshot. First non-empty wins.
func (s *Store) Email(ctx context.Context, sessionID, inMemory string) (string, error) {
	if inMemory != "" {
		return inMemory, nil
	}

	dedicated, err := s.kv.Get(ctx, emailKey(sessionID))
	if err != nil && !errors.Is(err, kv.ErrNotFound) {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading session email")
	}
	if dedicated != "" {
		return dedicated, nil
	}

	state, err := s.Load(ctx, sessionID)
	if err != nil {
		return "", err
	}
	return state.PaymentInfo.Email, nil
}

// SaveAnswers merges new onboarding answers into the snapshot.
func (s *Store) SaveAnswers(ctx context.Context, sessionID string, answers onboarding.Answers) error {
	state, err := s.Load(ctx, sessionID)
	if err != nil {
		return err
	}
	state.Answers = answers
	return s.Save(ctx, sessionID, state)
}

// SaveDraft merges the current payment draft into the snapshot. The
// dedicated email key is refreshed alongside when the draft carries one.
func (s *Store) SaveDraft(ctx context.Context, sessionID string, draft paymentform.Draft) error {
	state, err := s.Load(ctx, sessionID)
	if err != nil {
		return err
	}
	state.PaymentInfo = draft
	if err := s.Save(ctx, sessionID, state); err != nil {
		return err
	}
	if draft.Email != "" {
		return s.SaveEmail(ctx, sessionID, draft.Email)
	}
	return nil
}

// SavePlan merges the selected plan into the snapshot.
func (s *Store) SavePlan(ctx context.Context, sessionID string, plan *catalog.Plan) error {
	state, err := s.Load(ctx, sessionID)
	if err != nil {
		return err
	}
	state.SelectedPlan = plan
	return s.Save(ctx, sessionID, state)
}

// SaveStepIndex merges the current onboarding step index into the snapshot.
func (s *Store) SaveStepIndex(ctx context.Context, sessionID string, index int) error {
	state, err := s.Load(ctx, sessionID)
	if err != nil {
		return err
	}
	state.CurrentStepIndex = index
	return s.Save(ctx, sessionID, state)
}

// SetLanguage updates the language; the direction follows automatically.
func (s *Store) SetLanguage(ctx context.Context, sessionID string, language enums.Language) error {
	state, err := s.Load(ctx, sessionID)
	if err != nil {
		return err
	}
	state.Language = language
	return s.Save(ctx, sessionID, state)
}

// Reset clears both keys and reinitializes the snapshot to its default.
func (s *Store) Reset(ctx context.Context, sessionID string) error {
	if err := s.kv.Remove(ctx, emailKey(sessionID)); err != nil && !errors.Is(err, kv.ErrNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clearing session email")
	}
	if err := s.kv.Remove(ctx, stateKey(sessionID)); err != nil && !errors.Is(err, kv.ErrNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clearing session state")
	}
	return s.Save(ctx, sessionID, DefaultState())
}
