package features

import (
	"github.com/givehub/campaign-discovery/internal/domain"
)

// Recency tiers. Fresh campaigns decay linearly from 1.0 to 0.5 over their
// first week, sit at a flat mid-tier until a month old, then drop to a
// constant floor so old campaigns still surface occasionally.
const (
	trendingFreshDays = 7.0
	trendingMidDays   = 30.0
	trendingFreshSpan = 0.5 // decay across the fresh window: 1.0 down to 0.5
	trendingMidScore  = 0.40
	trendingFloor     = 0.15
)

// TrendingExtractor scores campaign recency
type TrendingExtractor struct{}

// NewTrendingExtractor creates the recency feature
func NewTrendingExtractor() *TrendingExtractor {
	return &TrendingExtractor{}
}

// Name returns the feature name
func (e *TrendingExtractor) Name() string {
	return "trending"
}

// Extract maps campaign age onto the three recency tiers. A missing or
// future creation timestamp counts as age zero.
func (e *TrendingExtractor) Extract(campaign domain.Campaign, _ *domain.Donor, ctx *Context) float64 {
	ageDays := ctx.Now.Sub(campaign.CreatedAt).Hours() / 24
	if ageDays < 0 || campaign.CreatedAt.IsZero() {
		ageDays = 0
	}

	switch {
	case ageDays < trendingFreshDays:
		return 1.0 - (ageDays/trendingFreshDays)*trendingFreshSpan
	case ageDays < trendingMidDays:
		return trendingMidScore
	default:
		return trendingFloor
	}
}
