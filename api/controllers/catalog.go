package controllers

import (
	"net/http"

	"github.com/sofiabenali/lunchwise-backend/api/responses"
	"github.com/sofiabenali/lunchwise-backend/internal/catalog"
)

func CatalogPlans(svc *catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{"plans": svc.Plans(r.Context())})
	}
}

func CatalogCountries(svc *catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{"countries": svc.Countries(r.Context())})
	}
}

func CatalogLunchTypes(svc *catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{"lunch_types": svc.LunchOptions(r.Context())})
	}
}

func CatalogTestimonials(svc *catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{"testimonials": svc.Testimonials(r.Context())})
	}
}
