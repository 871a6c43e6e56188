package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sofiabenali/lunchwise-backend/api/controllers"
	"github.com/sofiabenali/lunchwise-backend/api/middleware"
	"github.com/sofiabenali/lunchwise-backend/internal/catalog"
	"github.com/sofiabenali/lunchwise-backend/internal/checkout"
	"github.com/sofiabenali/lunchwise-backend/internal/i18n"
	"github.com/sofiabenali/lunchwise-backend/internal/onboarding"
	"github.com/sofiabenali/lunchwise-backend/internal/payments"
	"github.com/sofiabenali/lunchwise-backend/internal/session"
	"github.com/sofiabenali/lunchwise-backend/pkg/config"
	"github.com/sofiabenali/lunchwise-backend/pkg/enums"
	"github.com/sofiabenali/lunchwise-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	readiness map[string]controllers.Pinger,
	catalogSvc *catalog.Service,
	onboardingSvc onboarding.Service,
	paymentsSvc payments.Service,
	sessionStore *session.Store,
	registry *checkout.Registry,
	bundle i18n.Bundle,
	metricsHandler http.Handler,
) http.Handler {
	r := chi.NewRouter()

	defaultLang, err := enums.ParseLanguage(cfg.App.DefaultLanguage)
	if err != nil {
		defaultLang = enums.LanguageEnglish
	}

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Language(defaultLang, logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})

	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	sessionDeps := controllers.SessionDeps{
		Registry: registry,
		Store:    sessionStore,
		Catalog:  catalogSvc,
		Bundle:   bundle,
		Config:   cfg.Checkout,
		Log:      logg,
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/plans", controllers.CatalogPlans(catalogSvc))
		r.Get("/countries", controllers.CatalogCountries(catalogSvc))
		r.Get("/lunch-types", controllers.CatalogLunchTypes(catalogSvc))
		r.Get("/testimonials", controllers.CatalogTestimonials(catalogSvc))

		r.Post("/onboarding/steps", controllers.OnboardingStep(onboardingSvc, sessionStore, logg))
		r.Post("/payments", controllers.SubmitPayment(paymentsSvc, logg))

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", controllers.SessionCreate(sessionDeps))
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", controllers.SessionFetch(sessionDeps))
				r.Post("/plan", controllers.SessionSelectPlan(sessionDeps))
				r.Post("/fields", controllers.SessionSetField(sessionDeps))
				r.Post("/method", controllers.SessionSetMethod(sessionDeps))
				r.Post("/submit", controllers.SessionSubmit(sessionDeps))
				r.Post("/authenticate", controllers.SessionAuthenticate(sessionDeps))
				r.Post("/cancel", controllers.SessionCancel(sessionDeps))
				r.Post("/reset", controllers.SessionReset(sessionDeps))
			})
		})
	})

	return r
}
