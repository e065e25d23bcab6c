package ranking

import (
	"testing"

	"github.com/givehub/campaign-discovery/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestScorer_Score(t *testing.T) {
	scorer := NewScorer()

	campaign := domain.Campaign{
		GoalAmount:   100000,
		RaisedAmount: 50000,
		DonorCount:   30,
	}
	features := domain.FeatureVector{
		Urgency:            0.8,
		CreatorTrust:       0.6,
		SocialProof:        0.5,
		Trending:           0.4,
		SuccessProbability: 0.8,
		CategoryAffinity:   1.0,
		GeoAffinity:        0.6,
		AmountCompat:       0.5,
	}

	anonymous := scorer.Score(campaign, features, 2.0, false)
	want := 2.0 + 0.5*WeightCompletion + 30*WeightDonorCount +
		0.6*WeightCreatorTrust + 0.5*WeightSocialProof + 0.8*WeightUrgency + 0.4*WeightTrending
	assert.InDelta(t, want, anonymous, 1e-9)

	personalized := scorer.Score(campaign, features, 2.0, true)
	wantPersonal := want + 1.0*WeightCategoryAffinity + 0.6*WeightGeoAffinity + 0.5*WeightAmountCompat
	assert.InDelta(t, wantPersonal, personalized, 1e-9)
	assert.Greater(t, personalized, anonymous)
}

func TestScorer_NegativeTextMatchTreatedAsZero(t *testing.T) {
	scorer := NewScorer()
	campaign := domain.Campaign{GoalAmount: 100}

	withZero := scorer.Score(campaign, domain.FeatureVector{}, 0, false)
	withNegative := scorer.Score(campaign, domain.FeatureVector{}, -5, false)
	assert.Equal(t, withZero, withNegative)
}

func TestScorer_PersonalizationMonotonicity(t *testing.T) {
	// A donor whose whole history is in one category must score a campaign
	// in that category strictly higher than the anonymous score for the
	// same campaign.
	scorer := NewScorer()
	campaign := domain.Campaign{GoalAmount: 100000, RaisedAmount: 10000, DonorCount: 5}

	features := domain.FeatureVector{
		Urgency:          0.5,
		CreatorTrust:     0.5,
		SocialProof:      0.3,
		Trending:         0.4,
		CategoryAffinity: 1.0, // 100% of history in this category
		GeoAffinity:      0.2,
		AmountCompat:     0.5,
	}

	assert.Greater(t,
		scorer.Score(campaign, features, 0, true),
		scorer.Score(campaign, features, 0, false))
}
