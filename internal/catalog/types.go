package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/sofiabenali/lunchwise-backend/pkg/enums"
)

// Plan is an offered subscription plan. Reference data; never mutated.
type Plan struct {
	ID              string           `json:"id"`
	DisplayName     string           `json:"display_name"`
	DurationLabel   string           `json:"duration_label"`
	Price           decimal.Decimal  `json:"price"`
	OriginalPrice   *decimal.Decimal `json:"original_price,omitempty"`
	DiscountPercent *int             `json:"discount_percent,omitempty"`
	IsFree          bool             `json:"is_free"`
	IsPopular       bool             `json:"is_popular"`
}

// Savings returns the absolute discount against the original price, or
// zero when no original price is published.
func (p Plan) Savings() decimal.Decimal {
	if p.OriginalPrice == nil {
		return decimal.Zero
	}
	return p.OriginalPrice.Sub(p.Price)
}

// Country is a selectable billing country.
type Country struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// LunchOption is one answer to the lunch onboarding question.
type LunchOption struct {
	ID    enums.LunchPreference `json:"id"`
	Label string                `json:"label"`
}

// Testimonial is a marketing quote shown alongside the paywall.
type Testimonial struct {
	Author string `json:"author"`
	Quote  string `json:"quote"`
	Rating int    `json:"rating"`
}

// FreeTrialPlan returns the first free plan, used as the default
// selection when the user has not picked one.
func FreeTrialPlan(plans []Plan) *Plan {
	for i := range plans {
		if plans[i].IsFree {
			return &plans[i]
		}
	}
	return nil
}

// PlanByID finds a plan by its identifier.
func PlanByID(plans []Plan, id string) *Plan {
	for i := range plans {
		if plans[i].ID == id {
			return &plans[i]
		}
	}
	return nil
}
