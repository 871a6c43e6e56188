package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sofiabenali/lunchwise-backend/internal/catalog"
	"github.com/sofiabenali/lunchwise-backend/internal/errreport"
	"github.com/sofiabenali/lunchwise-backend/internal/outcome"
	"github.com/sofiabenali/lunchwise-backend/internal/paymentform"
	"github.com/sofiabenali/lunchwise-backend/internal/session"
	"github.com/sofiabenali/lunchwise-backend/internal/tracking"
	"github.com/sofiabenali/lunchwise-backend/pkg/config"
	"github.com/sofiabenali/lunchwise-backend/pkg/enums"
	pkgerrors "github.com/sofiabenali/lunchwise-backend/pkg/errors"
	"github.com/sofiabenali/lunchwise-backend/pkg/metrics"
)

// Timer slots. At most one timer per slot is ever scheduled.
const (
	timerReveal     = "reveal"
	timerAuthWindow = "auth_window"
	timerProcessing = "processing"
)

// Deps is the collaborator set a checkout session runs against.
type Deps struct {
	Clock    Clock
	Config   config.CheckoutConfig
	Store    *session.Store
	Tracker  tracking.Sink
	Reporter errreport.Reporter
	Metrics  *metrics.CheckoutMetrics
}

// Session is one checkout attempt's state machine. All methods are safe
// for concurrent use; timer callbacks take the same lock as callers, so
// there is exactly one logical writer at a time.
type Session struct {
	mu   sync.Mutex
	id   string
	deps Deps

	state        enums.CheckoutState
	form         *paymentform.Form
	plan         *catalog.Plan
	attemptCount int
	attemptStart time.Time
	authDeadline time.Time
	authRevealed bool
	converted    bool
	message      string

	timers map[string]Timer
}

// NewSession builds a session and rehydrates it from the persisted
// snapshot, so a returning client resumes with its draft and plan.
func NewSession(ctx context.Context, id string, deps Deps) (*Session, error) {
	if id == "" {
		return nil, fmt.Errorf("session id required")
	}
	if deps.Store == nil {
		return nil, fmt.Errorf("session store required")
	}
	if deps.Clock == nil {
		deps.Clock = NewClock()
	}
	if deps.Tracker == nil {
		deps.Tracker = tracking.NopSink{}
	}
	if deps.Reporter == nil {
		deps.Reporter = errreport.NopReporter{}
	}

	persisted, err := deps.Store.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	form := paymentform.New(paymentform.SandboxFromConfig(deps.Config), deps.Clock.Now)
	form.Restore(persisted.PaymentInfo)

	return &Session{
		id:     id,
		deps:   deps,
		state:  enums.CheckoutStateSelectingPlan,
		form:   form,
		plan:   persisted.SelectedPlan,
		timers: map[string]Timer{},
	}, nil
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) State() enums.CheckoutState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Plan() *catalog.Plan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plan
}

func (s *Session) Draft() paymentform.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form.Draft()
}

func (s *Session) Errors() paymentform.ErrorMap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form.Errors()
}

func (s *Session) AttemptCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attemptCount
}

// AuthRemaining reports the time left on the authentication window.
func (s *Session) AuthRemaining() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != enums.CheckoutStateAuthenticating {
		return 0
	}
	remaining := s.authDeadline.Sub(s.deps.Clock.Now())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// AuthRevealed reports whether the simulated reveal delay has elapsed.
func (s *Session) AuthRevealed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authRevealed
}

// PendingTimers counts timers that are scheduled and have not fired or
// been stopped. It is zero after every terminal transition.
func (s *Session) PendingTimers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Destination reports where a finished attempt routes. ok is false
// while the attempt is still in flight.
func (s *Session) Destination() (outcome.Destination, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.IsTerminal() {
		return outcome.Destination{}, false
	}
	return outcome.Route(s.state, s.message), true
}

// SelectPlan picks the plan for this attempt and moves to the payment
// step. Reselecting while still entering payment details is allowed.
func (s *Session) SelectPlan(ctx context.Context, plan catalog.Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != enums.CheckoutStateSelectingPlan && s.state != enums.CheckoutStateEnteringPayment {
		return s.stateConflict("select a plan")
	}
	s.plan = &plan
	s.state = enums.CheckoutStateEnteringPayment
	return s.deps.Store.SavePlan(ctx, s.id, s.plan)
}

// SetField applies one field edit to the draft and persists the result.
func (s *Session) SetField(ctx context.Context, name, raw string) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != enums.CheckoutStateEnteringPayment {
		return "", "", s.stateConflict("edit payment fields")
	}
	formatted, errKey := s.form.SetField(name, raw)
	if err := s.deps.Store.SaveDraft(ctx, s.id, s.form.Draft()); err != nil {
		return formatted, errKey, err
	}
	return formatted, errKey, nil
}

// SetMethod switches the payment method, clearing card sub-fields.
func (s *Session) SetMethod(ctx context.Context, method enums.PaymentMethod) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != enums.CheckoutStateEnteringPayment {
		return s.stateConflict("switch payment method")
	}
	s.form.SetMethod(method)
	return s.deps.Store.SaveDraft(ctx, s.id, s.form.Draft())
}

// Submit validates the draft and advances the attempt. A failed
// validation keeps the machine in the payment step and returns the
// error map; card payments enter the authentication challenge while
// other methods settle immediately.
func (s *Session) Submit(ctx context.Context) (paymentform.ErrorMap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != enums.CheckoutStateEnteringPayment {
		return nil, s.stateConflict("submit payment")
	}

	s.attemptCount++
	s.attemptStart = s.deps.Clock.Now()

	errs := s.form.Validate()
	if len(errs) > 0 {
		tracking.Emit(ctx, s.deps.Tracker, tracking.Event{
			Name:     "validation_failed",
			Category: "checkout",
			Action:   "submit",
			Label:    s.form.Draft().Method.String(),
			Value:    len(errs),
		})
		return errs, nil
	}

	draft := s.form.Draft()
	if !draft.Method.RequiresCardDetails() {
		s.finalize(ctx, Decide(draft.Method, "", "", s.deps.Config))
		return nil, nil
	}

	s.state = enums.CheckoutStateAuthenticating
	s.authRevealed = false
	s.authDeadline = s.deps.Clock.Now().Add(s.deps.Config.AuthWindow)
	s.schedule(timerReveal, s.deps.Config.RevealDelay, s.revealAuthForm)
	s.schedule(timerAuthWindow, s.deps.Config.AuthWindow, s.expireAuth)
	return nil, nil
}

// Authenticate submits the challenge password. Any non-empty value is
// accepted into processing; correctness is settled by the decision
// policy after the simulated delay.
func (s *Session) Authenticate(ctx context.Context, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != enums.CheckoutStateAuthenticating {
		return s.stateConflict("authenticate")
	}
	if password == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "password required").
			WithDetails(map[string]string{"password": "validation.password_required"})
	}

	s.stop(timerReveal)
	s.stop(timerAuthWindow)
	s.state = enums.CheckoutStateProcessing

	draft := s.form.Draft()
	s.schedule(timerProcessing, s.deps.Config.ProcessingDelay, func() {
		s.settle(draft, password)
	})
	return nil
}

// Cancel is the user-initiated exit, available while entering payment
// details or authenticating. Running timers are halted first.
func (s *Session) Cancel(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case enums.CheckoutStateEnteringPayment, enums.CheckoutStateAuthenticating:
	default:
		return s.stateConflict("cancel")
	}

	s.stopAll()
	s.state = enums.CheckoutStateCanceled
	s.message = ""
	if s.deps.Metrics != nil {
		s.deps.Metrics.IncOutcome(s.state.String())
	}
	return nil
}

// Restart returns a finished attempt to plan selection. The draft and
// plan survive so the user does not retype everything.
func (s *Session) Restart(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.IsTerminal() {
		return s.stateConflict("restart")
	}
	s.state = enums.CheckoutStateSelectingPlan
	s.message = ""
	s.authRevealed = false
	return nil
}

func (s *Session) revealAuthForm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.timers, timerReveal)
	if s.state != enums.CheckoutStateAuthenticating {
		return
	}
	s.authRevealed = true
}

func (s *Session) expireAuth() {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.timers, timerAuthWindow)
	if s.state != enums.CheckoutStateAuthenticating {
		return
	}

	s.stopAll()
	s.state = enums.CheckoutStateAuthExpired
	s.message = ""
	ctx := context.Background()
	tracking.Emit(ctx, s.deps.Tracker, tracking.Event{
		Name:     "auth_expired",
		Category: "checkout",
		Action:   "timeout",
		Label:    s.form.Draft().Method.String(),
	})
	if s.deps.Metrics != nil {
		s.deps.Metrics.IncOutcome(s.state.String())
		s.deps.Metrics.ObserveAttemptDuration(s.form.Draft().Method.String(), s.deps.Clock.Now().Sub(s.attemptStart))
	}
}

// settle runs after the processing delay. Unexpected panics are caught
// here, reported, and mapped to the error destination.
func (s *Session) settle(draft paymentform.Draft, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.timers, timerProcessing)
	if s.state != enums.CheckoutStateProcessing {
		return
	}

	ctx := context.Background()
	defer func() {
		if r := recover(); r != nil {
			s.deps.Reporter.Report(ctx, fmt.Errorf("checkout processing panic: %v", r), map[string]string{
				"session_id": s.id,
				"state":      s.state.String(),
			})
			s.stopAll()
			s.state = enums.CheckoutStateDeclined
			s.message = "checkout.processing_failed"
			if s.deps.Metrics != nil {
				s.deps.Metrics.IncOutcome("error")
			}
		}
	}()

	s.finalize(ctx, Decide(draft.Method, draft.CardNumber, password, s.deps.Config))
}

// finalize applies a decision as the attempt's terminal transition.
// Callers hold the lock.
func (s *Session) finalize(ctx context.Context, d Decision) {
	s.stopAll()

	draft := s.form.Draft()
	if d.Approved {
		s.state = enums.CheckoutStateSucceeded
		s.message = "checkout.succeeded"
		if !s.converted {
			s.converted = true
			event := tracking.Event{
				Name:     "checkout_conversion",
				Category: "checkout",
				Action:   "succeeded",
				Label:    draft.Method.String(),
			}
			if s.plan != nil {
				event.Label = s.plan.ID
			}
			tracking.Emit(ctx, s.deps.Tracker, event)
		}
	} else {
		s.state = enums.CheckoutStateDeclined
		s.message = d.Reason
		if s.message == "" {
			s.message = "checkout.declined"
		}
		tracking.Emit(ctx, s.deps.Tracker, tracking.Event{
			Name:     "checkout_declined",
			Category: "checkout",
			Action:   "declined",
			Label:    draft.Method.String(),
		})
	}

	if s.deps.Metrics != nil {
		s.deps.Metrics.IncOutcome(s.state.String())
		s.deps.Metrics.ObserveAttemptDuration(draft.Method.String(), s.deps.Clock.Now().Sub(s.attemptStart))
	}
}

func (s *Session) schedule(slot string, d time.Duration, fn func()) {
	s.stop(slot)
	s.timers[slot] = s.deps.Clock.AfterFunc(d, fn)
}

func (s *Session) stop(slot string) {
	if t, ok := s.timers[slot]; ok {
		t.Stop()
		delete(s.timers, slot)
	}
}

func (s *Session) stopAll() {
	for slot, t := range s.timers {
		t.Stop()
		delete(s.timers, slot)
	}
}

func (s *Session) stateConflict(action string) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("cannot %s while %s", action, s.state))
}
