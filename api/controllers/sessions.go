package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sofiabenali/lunchwise-backend/api/middleware"
	"github.com/sofiabenali/lunchwise-backend/api/responses"
	"github.com/sofiabenali/lunchwise-backend/api/validators"
	"github.com/sofiabenali/lunchwise-backend/internal/catalog"
	"github.com/sofiabenali/lunchwise-backend/internal/checkout"
	"github.com/sofiabenali/lunchwise-backend/internal/i18n"
	"github.com/sofiabenali/lunchwise-backend/internal/paymentform"
	"github.com/sofiabenali/lunchwise-backend/internal/session"
	"github.com/sofiabenali/lunchwise-backend/pkg/config"
	"github.com/sofiabenali/lunchwise-backend/pkg/enums"
	pkgerrors "github.com/sofiabenali/lunchwise-backend/pkg/errors"
	"github.com/sofiabenali/lunchwise-backend/pkg/logger"
)

// SessionDeps bundles the collaborators the session flow endpoints share.
type SessionDeps struct {
	Registry *checkout.Registry
	Store    *session.Store
	Catalog  *catalog.Service
	Bundle   i18n.Bundle
	Config   config.CheckoutConfig
	Log      *logger.Logger
}

type destinationView struct {
	Outcome         string `json:"outcome"`
	Message         string `json:"message,omitempty"`
	RedirectDelayMS int64  `json:"redirect_delay_ms"`
}

type sessionView struct {
	ID              string            `json:"id"`
	State           string            `json:"state"`
	Plan            *catalog.Plan     `json:"plan,omitempty"`
	Draft           paymentform.Draft `json:"draft"`
	Errors          map[string]string `json:"errors"`
	AttemptCount    int               `json:"attempt_count"`
	AuthRevealed    bool              `json:"auth_revealed"`
	AuthRemainingMS int64             `json:"auth_remaining_ms"`
	Language        string            `json:"language"`
	Direction       string            `json:"direction"`
	Destination     *destinationView  `json:"destination,omitempty"`
}

func (d SessionDeps) view(r *http.Request, sess *checkout.Session) (sessionView, error) {
	state, err := d.Store.Load(r.Context(), sess.ID())
	if err != nil {
		return sessionView{}, err
	}
	tr := d.Bundle.For(state.Language)

	errs := map[string]string{}
	for field, key := range sess.Errors() {
		errs[field] = tr.T(key)
	}

	view := sessionView{
		ID:              sess.ID(),
		State:           sess.State().String(),
		Plan:            sess.Plan(),
		Draft:           sess.Draft(),
		Errors:          errs,
		AttemptCount:    sess.AttemptCount(),
		AuthRevealed:    sess.AuthRevealed(),
		AuthRemainingMS: sess.AuthRemaining().Milliseconds(),
		Language:        state.Language.String(),
		Direction:       string(state.Direction),
	}

	if dest, ok := sess.Destination(); ok {
		view.Destination = &destinationView{
			Outcome:         dest.Outcome.String(),
			Message:         tr.T(dest.Message),
			RedirectDelayMS: d.Config.RedirectDelay.Milliseconds(),
		}
		if dest.Message == "" {
			view.Destination.Message = ""
		}
	}
	return view, nil
}

func (d SessionDeps) write(w http.ResponseWriter, r *http.Request, status int, sess *checkout.Session) {
	view, err := d.view(r, sess)
	if err != nil {
		responses.WriteError(r.Context(), d.Log, w, err)
		return
	}
	responses.WriteSuccessStatus(w, status, view)
}

func (d SessionDeps) resolve(w http.ResponseWriter, r *http.Request) (*checkout.Session, bool) {
	sess, err := d.Registry.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		responses.WriteError(r.Context(), d.Log, w, err)
		return nil, false
	}
	return sess, true
}

// SessionCreate starts a checkout session, capturing the request's
// language so the snapshot carries the derived direction from the start.
func SessionCreate(d SessionDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := d.Registry.Create(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), d.Log, w, err)
			return
		}
		lang := middleware.LanguageFromContext(r.Context())
		if err := d.Store.SetLanguage(r.Context(), sess.ID(), lang); err != nil {
			responses.WriteError(r.Context(), d.Log, w, err)
			return
		}
		d.write(w, r, http.StatusCreated, sess)
	}
}

func SessionFetch(d SessionDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := d.resolve(w, r)
		if !ok {
			return
		}
		d.write(w, r, http.StatusOK, sess)
	}
}

type selectPlanRequest struct {
	PlanID string `json:"plan_id,omitempty"`
}

// SessionSelectPlan picks a plan. An empty plan ID selects the free
// trial when the catalog offers one.
func SessionSelectPlan(d SessionDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := d.resolve(w, r)
		if !ok {
			return
		}

		var body selectPlanRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), d.Log, w, err)
			return
		}

		plans := d.Catalog.Plans(r.Context())
		var plan *catalog.Plan
		if body.PlanID == "" {
			plan = catalog.FreeTrialPlan(plans)
		} else {
			plan = catalog.PlanByID(plans, body.PlanID)
		}
		if plan == nil {
			responses.WriteError(r.Context(), d.Log, w, pkgerrors.New(pkgerrors.CodeNotFound, "unknown plan"))
			return
		}

		if err := sess.SelectPlan(r.Context(), *plan); err != nil {
			responses.WriteError(r.Context(), d.Log, w, err)
			return
		}
		d.write(w, r, http.StatusOK, sess)
	}
}

type setFieldRequest struct {
	Field string `json:"field" validate:"required"`
	Value string `json:"value"`
}

func SessionSetField(d SessionDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := d.resolve(w, r)
		if !ok {
			return
		}

		var body setFieldRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), d.Log, w, err)
			return
		}

		if _, _, err := sess.SetField(r.Context(), body.Field, body.Value); err != nil {
			responses.WriteError(r.Context(), d.Log, w, err)
			return
		}
		d.write(w, r, http.StatusOK, sess)
	}
}

type setMethodRequest struct {
	Method string `json:"method" validate:"required"`
}

func SessionSetMethod(d SessionDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := d.resolve(w, r)
		if !ok {
			return
		}

		var body setMethodRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), d.Log, w, err)
			return
		}

		method, err := enums.ParsePaymentMethod(body.Method)
		if err != nil {
			responses.WriteError(r.Context(), d.Log, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown payment method"))
			return
		}

		if err := sess.SetMethod(r.Context(), method); err != nil {
			responses.WriteError(r.Context(), d.Log, w, err)
			return
		}
		d.write(w, r, http.StatusOK, sess)
	}
}

// SessionSubmit validates the draft and advances the machine. A draft
// that fails validation is not an HTTP error; the errors come back in
// the session view for inline rendering.
func SessionSubmit(d SessionDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := d.resolve(w, r)
		if !ok {
			return
		}
		if _, err := sess.Submit(r.Context()); err != nil {
			responses.WriteError(r.Context(), d.Log, w, err)
			return
		}
		d.write(w, r, http.StatusOK, sess)
	}
}

type authenticateRequest struct {
	Password string `json:"password"`
}

func SessionAuthenticate(d SessionDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := d.resolve(w, r)
		if !ok {
			return
		}

		var body authenticateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), d.Log, w, err)
			return
		}

		if err := sess.Authenticate(r.Context(), body.Password); err != nil {
			responses.WriteError(r.Context(), d.Log, w, err)
			return
		}
		d.write(w, r, http.StatusOK, sess)
	}
}

func SessionCancel(d SessionDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := d.resolve(w, r)
		if !ok {
			return
		}
		if err := sess.Cancel(r.Context()); err != nil {
			responses.WriteError(r.Context(), d.Log, w, err)
			return
		}
		d.write(w, r, http.StatusOK, sess)
	}
}

// SessionReset clears the persisted state and hands back a fresh
// session under the same ID.
func SessionReset(d SessionDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fresh, err := d.Registry.Reset(r.Context(), chi.URLParam(r, "sessionID"))
		if err != nil {
			responses.WriteError(r.Context(), d.Log, w, err)
			return
		}
		d.write(w, r, http.StatusOK, fresh)
	}
}
