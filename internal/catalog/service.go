package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"go.uber.org/multierr"

	"github.com/sofiabenali/lunchwise-backend/pkg/config"
	"github.com/sofiabenali/lunchwise-backend/pkg/logger"
)

// Data is a full snapshot of the reference datasets the clients render.
type Data struct {
	Plans        []Plan        `json:"plans"`
	Countries    []Country     `json:"countries"`
	LunchOptions []LunchOption `json:"lunch_types"`
	Testimonials []Testimonial `json:"testimonials"`
}

// Service serves reference data from an upstream catalog, degrading to
// the bundled defaults whenever the upstream is absent or unhealthy.
// Reads never fail; the worst case is stale or default data.
type Service struct {
	baseURL  string
	client   *http.Client
	log      *logger.Logger
	fallback *Data

	mu   sync.RWMutex
	data *Data
}

func NewService(cfg config.CatalogConfig, log *logger.Logger) (*Service, error) {
	if log == nil {
		return nil, fmt.Errorf("catalog service requires a logger")
	}
	return &Service{
		baseURL:  cfg.BaseURL,
		client:   &http.Client{Timeout: cfg.Timeout},
		log:      log,
		fallback: Defaults(),
	}, nil
}

// Plans returns the current plan list.
func (s *Service) Plans(ctx context.Context) []Plan {
	return s.snapshot(ctx).Plans
}

// Countries returns the current billing country list.
func (s *Service) Countries(ctx context.Context) []Country {
	return s.snapshot(ctx).Countries
}

// LunchOptions returns the current lunch question options.
func (s *Service) LunchOptions(ctx context.Context) []LunchOption {
	return s.snapshot(ctx).LunchOptions
}

// Testimonials returns the current testimonial list.
func (s *Service) Testimonials(ctx context.Context) []Testimonial {
	return s.snapshot(ctx).Testimonials
}

// Refresh pulls fresh datasets from the upstream catalog. Sources that
// fail keep their previous values; the combined error reports every
// source that could not be refreshed.
func (s *Service) Refresh(ctx context.Context) error {
	if s.baseURL == "" {
		return nil
	}

	next := *s.current()
	var errs error
	if err := s.fetch(ctx, "/catalog/plans", &next.Plans); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("plans: %w", err))
	}
	if err := s.fetch(ctx, "/catalog/countries", &next.Countries); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("countries: %w", err))
	}
	if err := s.fetch(ctx, "/catalog/lunch-types", &next.LunchOptions); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("lunch types: %w", err))
	}
	if err := s.fetch(ctx, "/catalog/testimonials", &next.Testimonials); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("testimonials: %w", err))
	}

	s.mu.Lock()
	s.data = &next
	s.mu.Unlock()

	if errs != nil {
		s.log.Error(ctx, "catalog refresh partially failed", errs)
	}
	return errs
}

func (s *Service) snapshot(ctx context.Context) *Data {
	s.mu.RLock()
	d := s.data
	s.mu.RUnlock()
	if d != nil {
		return d
	}

	if s.baseURL != "" {
		// Lazy first refresh. Failures fall through to the bundle.
		_ = s.Refresh(ctx)
	}
	return s.current()
}

func (s *Service) current() *Data {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data != nil {
		return s.data
	}
	return s.fallback
}

func (s *Service) fetch(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	res, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", res.StatusCode)
	}
	return json.NewDecoder(res.Body).Decode(dst)
}
