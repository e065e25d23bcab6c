package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/givehub/campaign-discovery/internal/adapters/storage"
	"github.com/givehub/campaign-discovery/internal/cache"
	"github.com/givehub/campaign-discovery/internal/domain"
	"github.com/givehub/campaign-discovery/internal/ports"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errStoreDown = errors.New("store unavailable")

// faultyStore wraps a real store and fails selected operations
type faultyStore struct {
	ports.Storage
	failHistory bool
	failSearch  bool
}

func (f *faultyStore) DonorHistory(ctx context.Context, donorID uuid.UUID) ([]domain.DonationRecord, error) {
	if f.failHistory {
		return nil, errStoreDown
	}
	return f.Storage.DonorHistory(ctx, donorID)
}

func (f *faultyStore) SearchCampaigns(ctx context.Context, filter ports.CampaignFilter) ([]ports.CampaignMatch, error) {
	if f.failSearch {
		return nil, errStoreDown
	}
	return f.Storage.SearchCampaigns(ctx, filter)
}

func seedPopularSet(t *testing.T, store *storage.MemoryStore, now time.Time) {
	t.Helper()
	for i := 0; i < 8; i++ {
		seedCampaign(t, store, domain.Campaign{
			Title:        fmt.Sprintf("Community kitchen %d", i),
			Category:     domain.CategoryCommunity,
			GoalAmount:   100000,
			RaisedAmount: float64(5000 * i),
			DonorCount:   10 * i,
			CreatedAt:    now.Add(-time.Duration(i) * 24 * time.Hour),
		})
	}
}

func TestPersonalized_FallsBackToPopularOnHistoryFailure(t *testing.T) {
	base := storage.NewMemoryStore()
	now := time.Now()
	seedPopularSet(t, base, now)

	donor := domain.Donor{ID: uuid.New(), CreatedAt: now.Add(-100 * 24 * time.Hour)}
	require.NoError(t, base.CreateDonor(context.Background(), &donor))

	faulty := &faultyStore{Storage: base, failHistory: true}
	profiles := NewProfileProvider(faulty, cache.NewTTL[uuid.UUID, *domain.DonorProfile](0), time.Second)
	service := NewRecommendationService(faulty, profiles)

	got, err := service.Personalized(context.Background(), donor.ID, 5)
	require.NoError(t, err, "degraded mode must not surface the store error")

	want, err := service.Popular(context.Background(), 5)
	require.NoError(t, err)

	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Campaign.ID, got[i].Campaign.ID,
			"fallback list must equal the popular list at position %d", i)
	}
}

func TestPersonalized_UsesProfile(t *testing.T) {
	store := storage.NewMemoryStore()
	now := time.Now()

	donor := domain.Donor{ID: uuid.New(), CreatedAt: now.Add(-365 * 24 * time.Hour)}
	require.NoError(t, store.CreateDonor(context.Background(), &donor))

	funded := seedCampaign(t, store, domain.Campaign{
		Title: "Completed animal rescue", Category: domain.CategoryAnimals,
		GoalAmount: 5000, Status: domain.StatusCompleted,
	})
	require.NoError(t, store.CreateDonation(context.Background(), &domain.Donation{
		ID: uuid.New(), DonorID: donor.ID, CampaignID: funded.ID,
		Amount: 1000, Status: "completed", CreatedAt: now.Add(-10 * 24 * time.Hour),
	}))

	animals := seedCampaign(t, store, domain.Campaign{
		Title: "Street dog sterilization", Category: domain.CategoryAnimals,
		GoalAmount: 50000, RaisedAmount: 5000, DonorCount: 3, CreatedAt: now.Add(-5 * 24 * time.Hour),
	})
	seedCampaign(t, store, domain.Campaign{
		Title: "Park cleanup", Category: domain.CategoryEnvironment,
		GoalAmount: 50000, RaisedAmount: 5000, DonorCount: 3, CreatedAt: now.Add(-5 * 24 * time.Hour),
	})

	service := NewRecommendationService(store, newTestProvider(store))
	got, err := service.Personalized(context.Background(), donor.ID, 5)
	require.NoError(t, err)
	require.NotEmpty(t, got)

	assert.Equal(t, animals.ID, got[0].Campaign.ID)
	assert.Contains(t, got[0].Reasons, "Matches your interest in animals")
}

func TestPopular_OrdersByBacking(t *testing.T) {
	store := storage.NewMemoryStore()
	seedPopularSet(t, store, time.Now())

	service := NewRecommendationService(store, newTestProvider(store))
	got, err := service.Popular(context.Background(), 3)
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, 70, got[0].Campaign.DonorCount)
	assert.Equal(t, 60, got[1].Campaign.DonorCount)
	assert.Equal(t, 50, got[2].Campaign.DonorCount)
}

func TestSimilar_PrefersSameCategoryAndPlace(t *testing.T) {
	store := storage.NewMemoryStore()
	now := time.Now()

	reference := seedCampaign(t, store, domain.Campaign{
		Title: "Rebuild the school", Category: domain.CategoryEducation,
		Location: domain.Location{City: "Pune", State: "MH"}, GoalAmount: 100000,
		CreatedAt: now,
	})
	twin := seedCampaign(t, store, domain.Campaign{
		Title: "Books for the school", Category: domain.CategoryEducation,
		Location: domain.Location{City: "Pune", State: "MH"}, GoalAmount: 90000,
		CreatedAt: now,
	})
	seedCampaign(t, store, domain.Campaign{
		Title: "Distant cause", Category: domain.CategoryAnimals,
		Location: domain.Location{City: "Delhi", State: "DL"}, GoalAmount: 500,
		CreatedAt: now,
	})

	service := NewRecommendationService(store, newTestProvider(store))
	got, err := service.Similar(context.Background(), reference.ID, 5)
	require.NoError(t, err)

	require.NotEmpty(t, got)
	assert.Equal(t, twin.ID, got[0].Campaign.ID)
	for _, item := range got {
		assert.NotEqual(t, reference.ID, item.Campaign.ID, "reference must not recommend itself")
	}
}

func TestTrending_RanksByDonationVelocity(t *testing.T) {
	store := storage.NewMemoryStore()
	now := time.Now()

	slow := seedCampaign(t, store, domain.Campaign{
		Title: "Slow burner", Category: domain.CategoryCommunity, GoalAmount: 10000, CreatedAt: now.Add(-40 * 24 * time.Hour),
	})
	hot := seedCampaign(t, store, domain.Campaign{
		Title: "Suddenly viral", Category: domain.CategoryCommunity, GoalAmount: 10000, CreatedAt: now.Add(-40 * 24 * time.Hour),
	})

	donorID := uuid.New()
	give := func(campaignID uuid.UUID, amount float64, at time.Time) {
		require.NoError(t, store.CreateDonation(context.Background(), &domain.Donation{
			ID: uuid.New(), DonorID: donorID, CampaignID: campaignID,
			Amount: amount, Status: "completed", CreatedAt: at,
		}))
	}
	give(hot.ID, 3000, now.Add(-2*time.Hour))
	give(hot.ID, 2000, now.Add(-4*time.Hour))
	give(slow.ID, 500, now.Add(-3*time.Hour))
	give(slow.ID, 50000, now.Add(-20*24*time.Hour)) // outside the window

	service := NewRecommendationService(store, newTestProvider(store))
	got, err := service.Trending(context.Background(), 5, 7)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, hot.ID, got[0].Campaign.ID)
	assert.Contains(t, got[0].Reasons, "Gaining momentum right now")
}

func TestUrgent_FiltersDeadlineAndFunding(t *testing.T) {
	store := storage.NewMemoryStore()
	now := time.Now()

	urgent := seedCampaign(t, store, domain.Campaign{
		Title: "Dialysis this week", Category: domain.CategoryMedical,
		GoalAmount: 50000, RaisedAmount: 10000, EndDate: now.Add(3 * 24 * time.Hour),
		CreatedAt: now.Add(-10 * 24 * time.Hour),
	})
	seedCampaign(t, store, domain.Campaign{
		Title: "Fully funded already", Category: domain.CategoryMedical,
		GoalAmount: 50000, RaisedAmount: 50000, EndDate: now.Add(2 * 24 * time.Hour),
		CreatedAt: now.Add(-10 * 24 * time.Hour),
	})
	seedCampaign(t, store, domain.Campaign{
		Title: "Months to go", Category: domain.CategoryMedical,
		GoalAmount: 50000, RaisedAmount: 1000, EndDate: now.Add(90 * 24 * time.Hour),
		CreatedAt: now.Add(-10 * 24 * time.Hour),
	})

	service := NewRecommendationService(store, newTestProvider(store))
	got, err := service.Urgent(context.Background(), 10, 7)
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, urgent.ID, got[0].Campaign.ID)
	assert.Contains(t, got[0].Reasons, "Urgent need")
}

func TestNearby(t *testing.T) {
	store := storage.NewMemoryStore()
	now := time.Now()

	t.Run("Donor without location", func(t *testing.T) {
		donor := domain.Donor{ID: uuid.New(), CreatedAt: now}
		require.NoError(t, store.CreateDonor(context.Background(), &donor))

		service := NewRecommendationService(store, newTestProvider(store))
		_, err := service.Nearby(context.Background(), donor.ID, 5)
		assert.ErrorIs(t, err, domain.ErrNoLocation)
	})

	t.Run("Same city preferred over same state", func(t *testing.T) {
		donor := domain.Donor{
			ID: uuid.New(), CreatedAt: now,
			Location: domain.Location{City: "Nagpur", State: "MH", Country: "IN"},
		}
		require.NoError(t, store.CreateDonor(context.Background(), &donor))

		inCity := seedCampaign(t, store, domain.Campaign{
			Title: "Nagpur shelter", Category: domain.CategoryCommunity, GoalAmount: 10000,
			Location: domain.Location{City: "Nagpur", State: "MH", Country: "IN"}, CreatedAt: now,
		})
		seedCampaign(t, store, domain.Campaign{
			Title: "Mumbai shelter", Category: domain.CategoryCommunity, GoalAmount: 10000,
			Location: domain.Location{City: "Mumbai", State: "MH", Country: "IN"}, CreatedAt: now,
		})

		service := NewRecommendationService(store, newTestProvider(store))
		got, err := service.Nearby(context.Background(), donor.ID, 5)
		require.NoError(t, err)

		require.NotEmpty(t, got)
		ids := make(map[uuid.UUID]bool)
		for _, item := range got {
			ids[item.Campaign.ID] = true
			assert.Contains(t, item.Reasons, "Near your location")
		}
		assert.True(t, ids[inCity.ID])
		assert.Len(t, got, len(ids), "results must be deduplicated")
	})
}

func TestRecommendation_TotalStoreFailureSurfacesError(t *testing.T) {
	base := storage.NewMemoryStore()
	faulty := &faultyStore{Storage: base, failSearch: true, failHistory: true}
	profiles := NewProfileProvider(faulty, cache.NewTTL[uuid.UUID, *domain.DonorProfile](0), time.Second)
	service := NewRecommendationService(faulty, profiles)

	_, err := service.Personalized(context.Background(), uuid.New(), 5)
	assert.ErrorIs(t, err, errStoreDown, "with no fallback available the cause surfaces")
}
