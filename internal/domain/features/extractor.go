package features

import (
	"time"

	"github.com/givehub/campaign-discovery/internal/domain"
)

// Extractor computes one normalized feature score for a campaign
//
// This follows the same strategy pattern as the risk signals, allowing each
// feature to be:
//   - Independently developed and tested
//   - Easily added or removed from the scoring pipeline
//   - Weighted separately by the ranker
//
// Contract: Extract must be a pure function of its inputs, must return a
// finite value in [0,1], and must degrade to a documented neutral default
// on missing inputs rather than panic.
type Extractor interface {
	// Extract scores one campaign. creator may be nil when the creator
	// record could not be fetched.
	Extract(campaign domain.Campaign, creator *domain.Donor, ctx *Context) float64

	// Name returns the feature's identifier as used in the feature vector
	Name() string
}

// Context provides shared per-request data extractors may need.
// Not every extractor uses every field.
type Context struct {
	// Now anchors all time arithmetic so one request scores consistently
	Now time.Time

	// Profile is the requesting donor's preference profile. Nil or empty
	// for anonymous requests; personalization features then fall back to
	// their neutral defaults.
	Profile *domain.DonorProfile
}

// NewContext creates a scoring context for an anonymous request
func NewContext(now time.Time) *Context {
	return &Context{Now: now}
}

// WithProfile attaches a donor profile for personalized scoring
func (c *Context) WithProfile(profile *domain.DonorProfile) *Context {
	c.Profile = profile
	return c
}

// Set is the full ordered list of extractors composing a feature vector
type Set struct {
	urgency      *UrgencyExtractor
	creatorTrust *CreatorTrustExtractor
	socialProof  *SocialProofExtractor
	trending     *TrendingExtractor
	success      *SuccessProbabilityExtractor
	category     *CategoryAffinityExtractor
	geo          *GeoAffinityExtractor
	amount       *AmountCompatibilityExtractor
}

// NewSet creates the standard extractor set
func NewSet() *Set {
	return &Set{
		urgency:      NewUrgencyExtractor(),
		creatorTrust: NewCreatorTrustExtractor(),
		socialProof:  NewSocialProofExtractor(),
		trending:     NewTrendingExtractor(),
		success:      NewSuccessProbabilityExtractor(),
		category:     NewCategoryAffinityExtractor(),
		geo:          NewGeoAffinityExtractor(),
		amount:       NewAmountCompatibilityExtractor(),
	}
}

// Vector computes the full feature vector for one campaign
func (s *Set) Vector(campaign domain.Campaign, creator *domain.Donor, ctx *Context) domain.FeatureVector {
	return domain.FeatureVector{
		Urgency:            s.urgency.Extract(campaign, creator, ctx),
		CreatorTrust:       s.creatorTrust.Extract(campaign, creator, ctx),
		SocialProof:        s.socialProof.Extract(campaign, creator, ctx),
		Trending:           s.trending.Extract(campaign, creator, ctx),
		SuccessProbability: s.success.Extract(campaign, creator, ctx),
		CategoryAffinity:   s.category.Extract(campaign, creator, ctx),
		GeoAffinity:        s.geo.Extract(campaign, creator, ctx),
		AmountCompat:       s.amount.Extract(campaign, creator, ctx),
	}
}

// clamp bounds v to [lo, hi]
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
