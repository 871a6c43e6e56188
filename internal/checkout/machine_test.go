package checkout

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/sofiabenali/lunchwise-backend/internal/catalog"
	"github.com/sofiabenali/lunchwise-backend/internal/paymentform"
	"github.com/sofiabenali/lunchwise-backend/internal/session"
	"github.com/sofiabenali/lunchwise-backend/internal/tracking"
	"github.com/sofiabenali/lunchwise-backend/pkg/config"
	"github.com/sofiabenali/lunchwise-backend/pkg/enums"
	pkgerrors "github.com/sofiabenali/lunchwise-backend/pkg/errors"
	"github.com/sofiabenali/lunchwise-backend/pkg/kv"
)

type fakeTimer struct {
	clock   *fakeClock
	when    time.Time
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// fakeClock fires timers synchronously from Advance, so tests drive the
// simulated delays without sleeping.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, fn func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, when: c.now.Add(d), fn: fn}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var due *fakeTimer
		sort.SliceStable(c.timers, func(i, j int) bool { return c.timers[i].when.Before(c.timers[j].when) })
		for _, t := range c.timers {
			if !t.fired && !t.stopped && !t.when.After(target) {
				due = t
				break
			}
		}
		if due == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		if due.when.After(c.now) {
			c.now = due.when
		}
		due.fired = true
		fn := due.fn
		c.mu.Unlock()
		fn()
	}
}

type recordSink struct {
	events []tracking.Event
}

func (r *recordSink) Track(_ context.Context, event tracking.Event) {
	r.events = append(r.events, event)
}

func (r *recordSink) count(name string) int {
	n := 0
	for _, e := range r.events {
		if e.Name == name {
			n++
		}
	}
	return n
}

func testConfig() config.CheckoutConfig {
	return config.CheckoutConfig{
		AuthWindow:       5 * time.Minute,
		RevealDelay:      2 * time.Second,
		ProcessingDelay:  3 * time.Second,
		RedirectDelay:    2 * time.Second,
		ApprovedCard:     "4242424242424242",
		ApprovedPassword: "123456",
		SandboxBypass:    true,
		SandboxCards:     []string{"4242424242424242"},
	}
}

func newTestSession(t *testing.T) (*Session, *fakeClock, *recordSink) {
	t.Helper()
	store, err := session.NewStore(kv.NewMemory())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	clock := newFakeClock()
	sink := &recordSink{}
	sess, err := NewSession(context.Background(), "11111111-1111-1111-1111-111111111111", Deps{
		Clock:   clock,
		Config:  testConfig(),
		Store:   store,
		Tracker: sink,
	})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return sess, clock, sink
}

func freePlan() catalog.Plan {
	return *catalog.FreeTrialPlan(catalog.Defaults().Plans)
}

func enterValidCard(t *testing.T, sess *Session) {
	t.Helper()
	ctx := context.Background()
	steps := map[string]string{
		paymentform.FieldEmail:      "user@example.com",
		paymentform.FieldCardNumber: "4242424242424242",
		paymentform.FieldExpiration: "1228",
		paymentform.FieldCVC:        "123",
		paymentform.FieldCountry:    "AE",
	}
	for name, raw := range steps {
		if _, errKey, err := sess.SetField(ctx, name, raw); err != nil || errKey != "" {
			t.Fatalf("SetField(%s, %q): errKey=%q err=%v", name, raw, errKey, err)
		}
	}
}

func TestNonCardMethodSucceedsWithoutAuthentication(t *testing.T) {
	sess, _, sink := newTestSession(t)
	ctx := context.Background()

	if err := sess.SelectPlan(ctx, freePlan()); err != nil {
		t.Fatalf("SelectPlan: %v", err)
	}
	sess.SetField(ctx, paymentform.FieldEmail, "user@example.com")
	if err := sess.SetMethod(ctx, enums.PaymentMethodPayPal); err != nil {
		t.Fatalf("SetMethod: %v", err)
	}

	errs, err := sess.Submit(ctx)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(errs) != 0 {
		t.Fatalf("unexpected validation errors: %+v", errs)
	}
	if got := sess.State(); got != enums.CheckoutStateSucceeded {
		t.Fatalf("state = %s, want succeeded", got)
	}
	if sess.PendingTimers() != 0 {
		t.Fatalf("pending timers = %d, want 0", sess.PendingTimers())
	}
	if n := sink.count("checkout_conversion"); n != 1 {
		t.Fatalf("conversion events = %d, want exactly 1", n)
	}
	dest, ok := sess.Destination()
	if !ok || dest.Outcome != enums.OutcomeSuccess {
		t.Fatalf("destination = %+v ok=%v", dest, ok)
	}
}

func TestCardFlowApprovedCardAndPassword(t *testing.T) {
	sess, clock, _ := newTestSession(t)
	ctx := context.Background()

	sess.SelectPlan(ctx, freePlan())
	enterValidCard(t, sess)

	errs, err := sess.Submit(ctx)
	if err != nil || len(errs) != 0 {
		t.Fatalf("Submit: errs=%+v err=%v", errs, err)
	}
	if got := sess.State(); got != enums.CheckoutStateAuthenticating {
		t.Fatalf("state = %s, want authenticating", got)
	}
	if sess.PendingTimers() != 2 {
		t.Fatalf("pending timers = %d, want reveal + window", sess.PendingTimers())
	}

	clock.Advance(2 * time.Second)
	if !sess.AuthRevealed() {
		t.Fatal("auth form must reveal after the delay")
	}

	if err := sess.Authenticate(ctx, "123456"); err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got := sess.State(); got != enums.CheckoutStateProcessing {
		t.Fatalf("state = %s, want processing", got)
	}

	clock.Advance(3 * time.Second)
	if got := sess.State(); got != enums.CheckoutStateSucceeded {
		t.Fatalf("state = %s, want succeeded", got)
	}
	if sess.PendingTimers() != 0 {
		t.Fatalf("pending timers = %d after terminal transition", sess.PendingTimers())
	}
}

func TestCardFlowWrongPasswordDeclines(t *testing.T) {
	sess, clock, sink := newTestSession(t)
	ctx := context.Background()

	sess.SelectPlan(ctx, freePlan())
	enterValidCard(t, sess)
	sess.Submit(ctx)
	sess.Authenticate(ctx, "wrong")
	clock.Advance(3 * time.Second)

	if got := sess.State(); got != enums.CheckoutStateDeclined {
		t.Fatalf("state = %s, want declined", got)
	}
	if n := sink.count("checkout_declined"); n != 1 {
		t.Fatalf("declined events = %d", n)
	}
	dest, ok := sess.Destination()
	if !ok || dest.Outcome != enums.OutcomeError || dest.Message == "" {
		t.Fatalf("destination = %+v ok=%v", dest, ok)
	}
}

func TestDeclineCardRoutesToErrorDestination(t *testing.T) {
	sess, clock, _ := newTestSession(t)
	ctx := context.Background()

	sess.SelectPlan(ctx, freePlan())
	enterValidCard(t, sess)
	sess.SetField(ctx, paymentform.FieldCardNumber, "4000000000000002")

	if errs, err := sess.Submit(ctx); err != nil || len(errs) != 0 {
		t.Fatalf("Submit: errs=%+v err=%v", errs, err)
	}
	if err := sess.Authenticate(ctx, "any-password"); err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	clock.Advance(3 * time.Second)

	if got := sess.State(); got != enums.CheckoutStateDeclined {
		t.Fatalf("state = %s, want declined", got)
	}
	if dest, _ := sess.Destination(); dest.Outcome != enums.OutcomeError {
		t.Fatalf("destination = %+v", dest)
	}
	if sess.PendingTimers() != 0 {
		t.Fatalf("pending timers = %d", sess.PendingTimers())
	}
}

func TestAuthWindowExpiryRoutesToCancel(t *testing.T) {
	sess, clock, sink := newTestSession(t)
	ctx := context.Background()

	sess.SelectPlan(ctx, freePlan())
	enterValidCard(t, sess)
	sess.Submit(ctx)

	clock.Advance(5 * time.Minute)

	if got := sess.State(); got != enums.CheckoutStateAuthExpired {
		t.Fatalf("state = %s, want auth_expired", got)
	}
	if sess.PendingTimers() != 0 {
		t.Fatalf("pending timers = %d after expiry", sess.PendingTimers())
	}
	if n := sink.count("auth_expired"); n != 1 {
		t.Fatalf("auth_expired events = %d", n)
	}
	dest, ok := sess.Destination()
	if !ok || dest.Outcome != enums.OutcomeCancel || dest.Message != "" {
		t.Fatalf("destination = %+v ok=%v, want cancel with no message", dest, ok)
	}
}

func TestCancelDuringAuthenticationHaltsTimers(t *testing.T) {
	sess, _, _ := newTestSession(t)
	ctx := context.Background()

	sess.SelectPlan(ctx, freePlan())
	enterValidCard(t, sess)
	sess.Submit(ctx)

	if err := sess.Cancel(ctx); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if got := sess.State(); got != enums.CheckoutStateCanceled {
		t.Fatalf("state = %s, want canceled", got)
	}
	if sess.PendingTimers() != 0 {
		t.Fatalf("pending timers = %d after cancel", sess.PendingTimers())
	}
	if dest, _ := sess.Destination(); dest.Outcome != enums.OutcomeCancel {
		t.Fatalf("destination = %+v", dest)
	}
}

func TestSubmitWithInvalidDraftStaysInEnteringPayment(t *testing.T) {
	sess, _, sink := newTestSession(t)
	ctx := context.Background()

	sess.SelectPlan(ctx, freePlan())
	sess.SetField(ctx, paymentform.FieldEmail, "user@example.com")

	errs, err := sess.Submit(ctx)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(errs) == 0 {
		t.Fatal("card draft without card details must fail validation")
	}
	if got := sess.State(); got != enums.CheckoutStateEnteringPayment {
		t.Fatalf("state = %s, want entering_payment", got)
	}
	if n := sink.count("validation_failed"); n != 1 {
		t.Fatalf("validation_failed events = %d", n)
	}
}

func TestAuthenticateRequiresPassword(t *testing.T) {
	sess, _, _ := newTestSession(t)
	ctx := context.Background()

	sess.SelectPlan(ctx, freePlan())
	enterValidCard(t, sess)
	sess.Submit(ctx)

	err := sess.Authenticate(ctx, "")
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if got := sess.State(); got != enums.CheckoutStateAuthenticating {
		t.Fatalf("state = %s, must stay authenticating", got)
	}
}

func TestStateConflictsAreRejected(t *testing.T) {
	sess, _, _ := newTestSession(t)
	ctx := context.Background()

	if _, _, err := sess.SetField(ctx, paymentform.FieldEmail, "x@example.com"); pkgerrors.As(err) == nil {
		t.Fatal("editing fields before plan selection must conflict")
	}
	if _, err := sess.Submit(ctx); pkgerrors.As(err) == nil {
		t.Fatal("submitting before plan selection must conflict")
	}
	if err := sess.Authenticate(ctx, "123456"); pkgerrors.As(err) == nil {
		t.Fatal("authenticating before submit must conflict")
	}
}

func TestRestartAfterDecline(t *testing.T) {
	sess, clock, _ := newTestSession(t)
	ctx := context.Background()

	sess.SelectPlan(ctx, freePlan())
	enterValidCard(t, sess)
	sess.SetField(ctx, paymentform.FieldCardNumber, "4000000000000002")
	sess.Submit(ctx)
	sess.Authenticate(ctx, "123456")
	clock.Advance(3 * time.Second)

	if err := sess.Restart(ctx); err != nil {
		t.Fatalf("Restart: %v", err)
	}
	if got := sess.State(); got != enums.CheckoutStateSelectingPlan {
		t.Fatalf("state = %s, want selecting_plan", got)
	}

	// A second full attempt works after the restart.
	sess.SelectPlan(ctx, freePlan())
	sess.SetField(ctx, paymentform.FieldCardNumber, "4242424242424242")
	if errs, err := sess.Submit(ctx); err != nil || len(errs) != 0 {
		t.Fatalf("second Submit: errs=%+v err=%v", errs, err)
	}
	if got := sess.AttemptCount(); got != 2 {
		t.Fatalf("attempt count = %d, want 2", got)
	}
	sess.Authenticate(ctx, "123456")
	clock.Advance(3 * time.Second)
	if got := sess.State(); got != enums.CheckoutStateSucceeded {
		t.Fatalf("state = %s, want succeeded", got)
	}
}

func TestSessionRehydratesDraftFromSnapshot(t *testing.T) {
	store, err := session.NewStore(kv.NewMemory())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	clock := newFakeClock()
	deps := Deps{Clock: clock, Config: testConfig(), Store: store}
	ctx := context.Background()

	first, err := NewSession(ctx, "22222222-2222-2222-2222-222222222222", deps)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	first.SelectPlan(ctx, freePlan())
	first.SetField(ctx, paymentform.FieldEmail, "user@example.com")

	// Same ID, fresh process.
	second, err := NewSession(ctx, "22222222-2222-2222-2222-222222222222", deps)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if got := second.Draft().Email; got != "user@example.com" {
		t.Fatalf("rehydrated email = %q", got)
	}
	if second.Plan() == nil || !second.Plan().IsFree {
		t.Fatalf("rehydrated plan = %+v", second.Plan())
	}
}

func TestDecideIsSharedPolicy(t *testing.T) {
	cfg := testConfig()

	if d := Decide(enums.PaymentMethodPayPal, "", "", cfg); !d.Approved {
		t.Fatal("non-card methods always approve")
	}
	if d := Decide(enums.PaymentMethodCard, "4242 4242 4242 4242", "123456", cfg); !d.Approved {
		t.Fatal("approved card and password must approve")
	}
	if d := Decide(enums.PaymentMethodCard, "4242424242424242", "wrong", cfg); d.Approved {
		t.Fatal("wrong password must decline")
	}
	if d := Decide(enums.PaymentMethodCard, "4000000000000002", "123456", cfg); d.Approved || d.Reason == "" {
		t.Fatalf("decline must carry a reason, got %+v", d)
	}
}
