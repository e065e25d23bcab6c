package features

import (
	"math"
	"testing"
	"time"

	"github.com/givehub/campaign-discovery/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allExtractors returns every extractor in the standard set for bound checks
func allExtractors() []Extractor {
	return []Extractor{
		NewUrgencyExtractor(),
		NewCreatorTrustExtractor(),
		NewSocialProofExtractor(),
		NewTrendingExtractor(),
		NewSuccessProbabilityExtractor(),
		NewCategoryAffinityExtractor(),
		NewGeoAffinityExtractor(),
		NewAmountCompatibilityExtractor(),
	}
}

func TestExtractors_AlwaysFiniteAndBounded(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	// Deliberately degenerate campaigns: missing fields, zero values,
	// past deadlines, no location, no creator.
	campaigns := []domain.Campaign{
		{},
		{GoalAmount: 50000, Category: domain.CategoryMedical},
		{GoalAmount: 1, RaisedAmount: 1e9, DonorCount: 1 << 30, Category: domain.CategoryOther},
		{GoalAmount: 100, EndDate: now.Add(-90 * 24 * time.Hour), CreatedAt: now.Add(-180 * 24 * time.Hour)},
		{GoalAmount: 100, EndDate: now, CreatedAt: now},
	}

	contexts := []*Context{
		NewContext(now),
		NewContext(now).WithProfile(&domain.DonorProfile{}),
		NewContext(now).WithProfile(&domain.DonorProfile{
			TotalDonations:        3,
			AverageDonationAmount: 500,
			CategoryDistribution:  map[domain.Category]float64{domain.CategoryMedical: 1},
			PreferredRegions:      map[string]int{"mumbai": 3},
			Location:              domain.Location{City: "Mumbai", State: "MH", Country: "IN"},
		}),
	}

	creators := []*domain.Donor{nil, {}, {Verified: true, HasPhoto: true, HasBio: true, PhoneVerified: true}}

	for _, extractor := range allExtractors() {
		for _, campaign := range campaigns {
			for _, ctx := range contexts {
				for _, creator := range creators {
					score := extractor.Extract(campaign, creator, ctx)
					require.False(t, math.IsNaN(score), "%s returned NaN", extractor.Name())
					require.False(t, math.IsInf(score, 0), "%s returned Inf", extractor.Name())
					assert.GreaterOrEqual(t, score, 0.0, "%s below bound", extractor.Name())
					assert.LessOrEqual(t, score, 1.0, "%s above bound", extractor.Name())
				}
			}
		}
	}
}

func TestSet_Vector(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	set := NewSet()

	campaign := domain.Campaign{
		ID:           uuid.New(),
		Category:     domain.CategoryEducation,
		GoalAmount:   50000,
		RaisedAmount: 20000,
		DonorCount:   40,
		CreatedAt:    now.Add(-3 * 24 * time.Hour),
		EndDate:      now.Add(20 * 24 * time.Hour),
		Location:     domain.Location{City: "Pune", State: "MH", Country: "IN"},
	}
	creator := &domain.Donor{Verified: true, PhoneVerified: true}

	vector := set.Vector(campaign, creator, NewContext(now))

	assert.InDelta(t, (1.0+0.7)/2.5, vector.CreatorTrust, 1e-9)
	assert.Greater(t, vector.Trending, 0.7, "3-day-old campaign should be trending")
	assert.Greater(t, vector.SocialProof, 0.5, "40% funded with 40 donors")
	assert.Equal(t, categoryAffinityNeutral, vector.CategoryAffinity, "anonymous request uses neutral affinity")
	assert.Equal(t, geoAffinityNeutral, vector.GeoAffinity)
	assert.Equal(t, amountCompatNeutral, vector.AmountCompat)
}

func TestCreatorTrustExtractor_Signals(t *testing.T) {
	extractor := NewCreatorTrustExtractor()
	ctx := NewContext(time.Now())
	campaign := domain.Campaign{GoalAmount: 1000}

	tests := []struct {
		name    string
		creator *domain.Donor
		want    float64
	}{
		{"Nil creator - degraded default", nil, trustUnknownCreator},
		{"No signals", &domain.Donor{}, 0},
		{"Verified only", &domain.Donor{Verified: true}, 1.0 / 2.5},
		{"All signals - full trust", &domain.Donor{Verified: true, HasPhoto: true, HasBio: true, PhoneVerified: true}, 1.0},
		{"Photo and bio only", &domain.Donor{HasPhoto: true, HasBio: true}, 0.8 / 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, extractor.Extract(campaign, tt.creator, ctx), 1e-9)
		})
	}
}

func TestCreatorTrustExtractor_VerifiedCampaignOverrides(t *testing.T) {
	extractor := NewCreatorTrustExtractor()
	campaign := domain.Campaign{GoalAmount: 1000, Verified: true}
	got := extractor.Extract(campaign, &domain.Donor{}, NewContext(time.Now()))
	assert.Equal(t, 1.0, got)
}

func TestSocialProofExtractor_MomentumBonus(t *testing.T) {
	extractor := NewSocialProofExtractor()
	ctx := NewContext(time.Now())

	below := domain.Campaign{GoalAmount: 100000, RaisedAmount: 20000, DonorCount: 10}
	above := domain.Campaign{GoalAmount: 100000, RaisedAmount: 30000, DonorCount: 10}

	diff := extractor.Extract(above, nil, ctx) - extractor.Extract(below, nil, ctx)
	// 0.2 momentum bonus plus the raised-amount delta (10000/100000 * 0.4)
	assert.InDelta(t, socialProofMomentumBon+0.04, diff, 1e-9)
}

func TestCategoryAffinityExtractor_ProfileShare(t *testing.T) {
	extractor := NewCategoryAffinityExtractor()
	profile := &domain.DonorProfile{
		TotalDonations: 4,
		CategoryDistribution: map[domain.Category]float64{
			domain.CategoryEducation: 0.75,
			domain.CategoryMedical:   0.25,
		},
	}
	ctx := NewContext(time.Now()).WithProfile(profile)

	education := domain.Campaign{Category: domain.CategoryEducation, GoalAmount: 1}
	animals := domain.Campaign{Category: domain.CategoryAnimals, GoalAmount: 1}

	assert.InDelta(t, 0.75, extractor.Extract(education, nil, ctx), 1e-9)
	assert.Equal(t, 0.0, extractor.Extract(animals, nil, ctx), "category never donated to scores zero for a known donor")
}

func TestGeoAffinityExtractor_Proximity(t *testing.T) {
	extractor := NewGeoAffinityExtractor()
	profile := &domain.DonorProfile{
		TotalDonations: 1,
		Location:       domain.Location{City: "Chennai", State: "TN", Country: "IN"},
	}
	ctx := NewContext(time.Now()).WithProfile(profile)

	tests := []struct {
		name     string
		location domain.Location
		want     float64
	}{
		{"Same city", domain.Location{City: "chennai", State: "TN", Country: "IN"}, geoSameCity},
		{"Same state different city", domain.Location{City: "Madurai", State: "tn", Country: "IN"}, geoSameState},
		{"Same country only", domain.Location{City: "Jaipur", State: "RJ", Country: "in"}, geoSameCountry},
		{"No location on campaign", domain.Location{}, geoAffinityNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			campaign := domain.Campaign{GoalAmount: 1, Location: tt.location}
			assert.Equal(t, tt.want, extractor.Extract(campaign, nil, ctx))
		})
	}
}

func TestAmountCompatibilityExtractor_Ratio(t *testing.T) {
	extractor := NewAmountCompatibilityExtractor()
	profile := &domain.DonorProfile{TotalDonations: 2, AverageDonationAmount: 500}
	ctx := NewContext(time.Now()).WithProfile(profile)

	tests := []struct {
		name     string
		raised   float64
		donors   int
		expected float64
	}{
		{"Perfect match", 5000, 10, 1.0},         // campaign avg 500
		{"Donor gives half", 10000, 10, 0.5},     // campaign avg 1000
		{"Donor gives double", 2500, 10, 0.5},    // campaign avg 250
		{"No donors yet - neutral", 0, 0, amountCompatNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			campaign := domain.Campaign{GoalAmount: 100000, RaisedAmount: tt.raised, DonorCount: tt.donors}
			assert.InDelta(t, tt.expected, extractor.Extract(campaign, nil, ctx), 1e-9)
		})
	}
}

func TestSuccessProbabilityExtractor_Bands(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	ctx := NewContext(now)
	extractor := NewSuccessProbabilityExtractor()

	// 10-day campaign, 5 days elapsed: elapsed ratio 0.5
	created := now.Add(-5 * 24 * time.Hour)
	end := now.Add(5 * 24 * time.Hour)

	tests := []struct {
		name   string
		raised float64
		want   float64
	}{
		{"Well ahead of pace", 80000, successWellAheadScore}, // progress 0.8, pace 1.6
		{"On track", 55000, successOnTrackScore},             // pace 1.1
		{"Behind pace", 30000, successBehindScore},           // pace 0.6
		{"Stalled", 5000, successStalledScore},               // pace 0.1
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			campaign := domain.Campaign{
				GoalAmount:   100000,
				RaisedAmount: tt.raised,
				CreatedAt:    created,
				EndDate:      end,
			}
			assert.Equal(t, tt.want, extractor.Extract(campaign, nil, ctx))
		})
	}
}
