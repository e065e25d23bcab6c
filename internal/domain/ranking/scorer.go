// Package ranking combines feature vectors into relevance scores and orders
// result sets under named sort strategies.
package ranking

import (
	"github.com/givehub/campaign-discovery/internal/domain"
)

// Relevance weights. Tunable named constants rather than a config surface;
// production would load these from a table to allow tuning without deploys.
//
// Every weighted term is bounded [0,1] before weighting except the donor
// count term, which is a deliberately unbounded popularity boost (0.01 per
// donor). Text match is an opaque non-negative input from storage.
const (
	WeightCompletion   = 1.5
	WeightDonorCount   = 0.01
	WeightCreatorTrust = 1.0
	WeightSocialProof  = 1.2
	WeightUrgency      = 1.3
	WeightTrending     = 0.8

	// Personalization terms, additive only when a donor profile is present
	WeightCategoryAffinity = 2.0
	WeightGeoAffinity      = 1.0
	WeightAmountCompat     = 0.5
)

// Scorer computes relevance scores from feature vectors
type Scorer struct{}

// NewScorer creates a relevance scorer with the standard weights
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score combines a campaign's feature vector into a single relevance number.
// personalized controls whether the affinity terms contribute; they carry
// neutral defaults for anonymous requests but are excluded entirely here so
// an anonymous score is a pure quality signal.
func (s *Scorer) Score(campaign domain.Campaign, features domain.FeatureVector, textMatch float64, personalized bool) float64 {
	if textMatch < 0 {
		textMatch = 0
	}

	score := textMatch +
		campaign.CompletionRatio()*WeightCompletion +
		float64(campaign.DonorCount)*WeightDonorCount +
		features.CreatorTrust*WeightCreatorTrust +
		features.SocialProof*WeightSocialProof +
		features.Urgency*WeightUrgency +
		features.Trending*WeightTrending

	if personalized {
		score += features.CategoryAffinity*WeightCategoryAffinity +
			features.GeoAffinity*WeightGeoAffinity +
			features.AmountCompat*WeightAmountCompat
	}

	return score
}

// Rank scores and attaches relevance to each campaign in place
func (s *Scorer) Rank(items []domain.RankedCampaign, personalized bool) {
	for i := range items {
		items[i].RelevanceScore = s.Score(items[i].Campaign, items[i].Features, items[i].TextMatchScore, personalized)
	}
}
