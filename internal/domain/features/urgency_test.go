package features

import (
	"testing"
	"time"

	"github.com/givehub/campaign-discovery/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestUrgencyExtractor_Extract(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ctx := NewContext(now)
	extractor := NewUrgencyExtractor()

	tests := []struct {
		name     string
		category domain.Category
		endDate  time.Time
		want     float64
	}{
		{
			name:     "Medical campaign ending in 2 days - near maximum",
			category: domain.CategoryMedical,
			endDate:  now.Add(2 * 24 * time.Hour),
			want:     1.0 - (2.0/7)*0.1,
		},
		{
			name:     "Education campaign ending in 2 days - lower base",
			category: domain.CategoryEducation,
			endDate:  now.Add(2 * 24 * time.Hour),
			want:     0.7 - (2.0/7)*0.1,
		},
		{
			name:     "Medical campaign with distant deadline decays",
			category: domain.CategoryMedical,
			endDate:  now.Add(60 * 24 * time.Hour),
			want:     1.0 - (60.0/7)*0.1,
		},
		{
			name:     "Far-future deadline hits the floor",
			category: domain.CategoryOther,
			endDate:  now.Add(365 * 24 * time.Hour),
			want:     urgencyFloor,
		},
		{
			name:     "Passed deadline scores as due now",
			category: domain.CategoryEmergency,
			endDate:  now.Add(-24 * time.Hour),
			want:     1.0,
		},
		{
			name:     "No deadline - neutral default",
			category: domain.CategoryCommunity,
			want:     urgencyNeutral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			campaign := domain.Campaign{
				Category:   tt.category,
				GoalAmount: 50000,
				EndDate:    tt.endDate,
			}
			got := extractor.Extract(campaign, nil, ctx)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestUrgencyExtractor_DeadlineProximityOrdering(t *testing.T) {
	// An otherwise-identical medical campaign ending in 2 days must outscore
	// one ending in 60 days.
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ctx := NewContext(now)
	extractor := NewUrgencyExtractor()

	base := domain.Campaign{
		Category:     domain.CategoryMedical,
		GoalAmount:   50000,
		RaisedAmount: 40000,
	}

	soon := base
	soon.EndDate = now.Add(2 * 24 * time.Hour)
	later := base
	later.EndDate = now.Add(60 * 24 * time.Hour)

	assert.Greater(t, extractor.Extract(soon, nil, ctx), extractor.Extract(later, nil, ctx))
}
