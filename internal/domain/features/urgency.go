package features

import (
	"github.com/givehub/campaign-discovery/internal/domain"
)

// Urgency ramp constants. Life-critical categories start from a higher base,
// so the same deadline produces a steeper effective ramp as it approaches.
const (
	urgencyBaseCritical = 1.0  // medical, emergency, disaster relief
	urgencyBaseDefault  = 0.7  // everything else
	urgencyFloor        = 0.05 // campaigns with distant or passed ramps
	urgencyNeutral      = 0.30 // campaigns with no deadline at all
	// urgencyDecayPerWeek is deliberately flat. A full point per week
	// zeroes everything past day seven; 0.1 keeps the near-deadline
	// ordering while leaving month-out campaigns distinguishable.
	urgencyDecayPerWeek = 0.1 // subtracted per 7 remaining days
)

// UrgencyExtractor scores how soon a campaign needs funds
type UrgencyExtractor struct{}

// NewUrgencyExtractor creates the deadline-proximity feature
func NewUrgencyExtractor() *UrgencyExtractor {
	return &UrgencyExtractor{}
}

// Name returns the feature name
func (e *UrgencyExtractor) Name() string {
	return "urgency"
}

// Extract computes base(category) - (daysRemaining/7) * decay, clamped.
// Campaigns without a deadline score the neutral default: open-ended
// campaigns are neither urgent nor penalized.
func (e *UrgencyExtractor) Extract(campaign domain.Campaign, _ *domain.Donor, ctx *Context) float64 {
	daysRemaining, hasDeadline := campaign.DaysRemaining(ctx.Now)
	if !hasDeadline {
		return urgencyNeutral
	}
	if daysRemaining < 0 {
		daysRemaining = 0
	}

	base := urgencyBaseDefault
	switch campaign.Category {
	case domain.CategoryMedical, domain.CategoryEmergency, domain.CategoryDisasterRelief:
		base = urgencyBaseCritical
	}

	score := base - (daysRemaining/7)*urgencyDecayPerWeek
	return clamp(score, urgencyFloor, 1.0)
}
