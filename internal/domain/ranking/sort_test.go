package ranking

import (
	"math/rand"
	"testing"
	"time"

	"github.com/givehub/campaign-discovery/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		raw  string
		want Strategy
	}{
		{"popular", SortPopular},
		{" NEWEST ", SortNewest},
		{"goal_high", SortGoalHigh},
		{"", SortRelevance},
		{"bogus", SortRelevance},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseStrategy(tt.raw), "input %q", tt.raw)
	}
}

func TestSort_Popular(t *testing.T) {
	items := []domain.RankedCampaign{
		{Campaign: domain.Campaign{ID: uuid.New(), DonorCount: 10, RaisedAmount: 500, GoalAmount: 1}},
		{Campaign: domain.Campaign{ID: uuid.New(), DonorCount: 30, RaisedAmount: 100, GoalAmount: 1}},
		{Campaign: domain.Campaign{ID: uuid.New(), DonorCount: 10, RaisedAmount: 900, GoalAmount: 1}},
	}

	Sort(items, SortPopular)

	assert.Equal(t, 30, items[0].Campaign.DonorCount)
	assert.Equal(t, 900.0, items[1].Campaign.RaisedAmount, "equal donor counts break on raised amount")
	assert.Equal(t, 500.0, items[2].Campaign.RaisedAmount)
}

func TestSort_NewestOldest(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	items := []domain.RankedCampaign{
		{Campaign: domain.Campaign{ID: uuid.New(), CreatedAt: now.Add(-48 * time.Hour), GoalAmount: 1}},
		{Campaign: domain.Campaign{ID: uuid.New(), CreatedAt: now, GoalAmount: 1}},
		{Campaign: domain.Campaign{ID: uuid.New(), CreatedAt: now.Add(-24 * time.Hour), GoalAmount: 1}},
	}

	Sort(items, SortNewest)
	assert.True(t, items[0].Campaign.CreatedAt.After(items[1].Campaign.CreatedAt))

	Sort(items, SortOldest)
	assert.True(t, items[0].Campaign.CreatedAt.Before(items[1].Campaign.CreatedAt))
}

func TestSort_RelevanceTieBreaksOnTextMatch(t *testing.T) {
	idA := uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	idB := uuid.MustParse("00000000-0000-0000-0000-00000000000b")
	items := []domain.RankedCampaign{
		{Campaign: domain.Campaign{ID: idA, GoalAmount: 1}, RelevanceScore: 5, TextMatchScore: 0.1},
		{Campaign: domain.Campaign{ID: idB, GoalAmount: 1}, RelevanceScore: 5, TextMatchScore: 0.9},
	}

	Sort(items, SortRelevance)
	assert.Equal(t, idB, items[0].Campaign.ID)
}

func TestSort_Deterministic(t *testing.T) {
	// Repeated sorts of shuffled copies must agree for every strategy,
	// including when scores collide. Required for pagination correctness.
	rng := rand.New(rand.NewSource(42))
	base := make([]domain.RankedCampaign, 50)
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := range base {
		base[i] = domain.RankedCampaign{
			Campaign: domain.Campaign{
				ID:           uuid.New(),
				GoalAmount:   float64(1000 * (1 + i%3)),
				RaisedAmount: float64(100 * (i % 5)),
				DonorCount:   i % 4,
				CreatedAt:    now.Add(-time.Duration(i%6) * 24 * time.Hour),
			},
			RelevanceScore: float64(i % 3),
			TextMatchScore: float64(i % 2),
			Features: domain.FeatureVector{
				Urgency:  float64(i%2) * 0.5,
				Trending: float64(i%3) * 0.3,
			},
		}
	}

	strategies := []Strategy{
		SortRelevance, SortNewest, SortOldest, SortGoalHigh, SortGoalLow,
		SortProgress, SortPopular, SortUrgent, SortTrending,
	}

	for _, strategy := range strategies {
		reference := append([]domain.RankedCampaign(nil), base...)
		Sort(reference, strategy)

		for trial := 0; trial < 5; trial++ {
			shuffled := append([]domain.RankedCampaign(nil), base...)
			rng.Shuffle(len(shuffled), func(i, j int) {
				shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
			})
			Sort(shuffled, strategy)

			for i := range reference {
				require.Equal(t, reference[i].Campaign.ID, shuffled[i].Campaign.ID,
					"strategy %s not a total order at position %d", strategy, i)
			}
		}
	}
}
