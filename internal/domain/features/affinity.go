package features

import (
	"strings"

	"github.com/givehub/campaign-discovery/internal/domain"
)

// Neutral defaults for personalization features when no donor profile is
// available. Mid-range rather than zero so anonymous requests don't
// penalize every campaign on signals we simply don't have.
const (
	categoryAffinityNeutral = 0.30
	geoAffinityNeutral      = 0.20
	amountCompatNeutral     = 0.50
)

// Geo proximity scores by administrative level
const (
	geoSameCity    = 1.0
	geoSameState   = 0.6
	geoSameCountry = 0.3
)

// CategoryAffinityExtractor scores how well a campaign's category matches
// the donor's giving history
type CategoryAffinityExtractor struct{}

// NewCategoryAffinityExtractor creates the category-affinity feature
func NewCategoryAffinityExtractor() *CategoryAffinityExtractor {
	return &CategoryAffinityExtractor{}
}

// Name returns the feature name
func (e *CategoryAffinityExtractor) Name() string {
	return "category_affinity"
}

// Extract returns the donor's normalized donation share for the campaign's
// category. The distribution sums to 1, so the value is already in [0,1].
func (e *CategoryAffinityExtractor) Extract(campaign domain.Campaign, _ *domain.Donor, ctx *Context) float64 {
	if ctx.Profile.IsEmpty() {
		return categoryAffinityNeutral
	}
	share, ok := ctx.Profile.CategoryDistribution[campaign.Category]
	if !ok {
		return 0
	}
	return clamp(share, 0, 1)
}

// GeoAffinityExtractor scores geographic closeness between the donor and
// the campaign
type GeoAffinityExtractor struct{}

// NewGeoAffinityExtractor creates the geo-affinity feature
func NewGeoAffinityExtractor() *GeoAffinityExtractor {
	return &GeoAffinityExtractor{}
}

// Name returns the feature name
func (e *GeoAffinityExtractor) Name() string {
	return "geo_affinity"
}

// Extract prefers the donor's home location, falling back to regions they
// have donated into before. Campaigns or donors without location data
// resolve to the neutral default.
func (e *GeoAffinityExtractor) Extract(campaign domain.Campaign, _ *domain.Donor, ctx *Context) float64 {
	if ctx.Profile.IsEmpty() || campaign.Location.IsZero() {
		return geoAffinityNeutral
	}

	home := ctx.Profile.Location
	if !home.IsZero() {
		switch {
		case equalFold(home.City, campaign.Location.City):
			return geoSameCity
		case equalFold(home.State, campaign.Location.State):
			return geoSameState
		case equalFold(home.Country, campaign.Location.Country):
			return geoSameCountry
		}
	}

	// No home match: check regions the donor has previously funded
	if campaign.Location.City != "" {
		if ctx.Profile.PreferredRegions[strings.ToLower(campaign.Location.City)] > 0 {
			return geoSameCity
		}
	}
	if campaign.Location.State != "" {
		if ctx.Profile.PreferredRegions[strings.ToLower(campaign.Location.State)] > 0 {
			return geoSameState
		}
	}

	return geoAffinityNeutral
}

// AmountCompatibilityExtractor scores whether the campaign's typical
// donation size matches what this donor usually gives
type AmountCompatibilityExtractor struct{}

// NewAmountCompatibilityExtractor creates the amount-compatibility feature
func NewAmountCompatibilityExtractor() *AmountCompatibilityExtractor {
	return &AmountCompatibilityExtractor{}
}

// Name returns the feature name
func (e *AmountCompatibilityExtractor) Name() string {
	return "amount_compatibility"
}

// Extract compares the donor's average donation against the campaign's
// average donation as a smaller/larger ratio, so a perfect match scores 1.0
// and order-of-magnitude mismatches approach 0. Either side unknown
// resolves to the neutral default.
func (e *AmountCompatibilityExtractor) Extract(campaign domain.Campaign, _ *domain.Donor, ctx *Context) float64 {
	if ctx.Profile.IsEmpty() || ctx.Profile.AverageDonationAmount <= 0 {
		return amountCompatNeutral
	}
	campaignAvg := campaign.AverageDonation()
	if campaignAvg <= 0 {
		return amountCompatNeutral
	}

	donorAvg := ctx.Profile.AverageDonationAmount
	ratio := donorAvg / campaignAvg
	if ratio > 1 {
		ratio = 1 / ratio
	}
	return clamp(ratio, 0, 1)
}

// equalFold matches non-empty strings case-insensitively
func equalFold(a, b string) bool {
	return a != "" && b != "" && strings.EqualFold(a, b)
}
