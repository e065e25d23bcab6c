package application

import (
	"context"
	"testing"
	"time"

	"github.com/givehub/campaign-discovery/internal/adapters/storage"
	"github.com/givehub/campaign-discovery/internal/domain"
	"github.com/givehub/campaign-discovery/internal/ports"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRiskService_ThirdRapidCreationIsHigh(t *testing.T) {
	store := storage.NewMemoryStore()
	now := time.Now()

	creator := domain.Donor{ID: uuid.New(), CreatedAt: now.Add(-2 * 365 * 24 * time.Hour)}
	require.NoError(t, store.CreateDonor(context.Background(), &creator))

	submit := func(minutesAgo int, title string) domain.Campaign {
		campaign := domain.Campaign{
			ID: uuid.New(), CreatorID: creator.ID, Title: title,
			Category: domain.CategoryCommunity, GoalAmount: 20000,
			Status: domain.StatusPending, CreatedAt: now.Add(-time.Duration(minutesAgo) * time.Minute),
		}
		require.NoError(t, store.CreateCampaign(context.Background(), &campaign))
		return campaign
	}

	service := NewRiskService(store)

	first := submit(50, "Fix the community hall roof")
	assert.NotEqual(t, "high", service.AssessCampaign(context.Background(), first).Level,
		"first submission alone is not a burst")

	submit(25, "Repair the community borewell")
	third := submit(0, "Repaint the community center")

	assessment := service.AssessCampaign(context.Background(), third)
	assert.Equal(t, "high", assessment.Level, "third creation within one hour must classify high")

	types := make([]string, 0, len(assessment.Flags))
	for _, flag := range assessment.Flags {
		types = append(types, flag.Type)
	}
	assert.Contains(t, types, "RAPID_CAMPAIGN_CREATION")
}

func TestRiskService_EstablishedCreatorOrdinaryCampaignIsLow(t *testing.T) {
	store := storage.NewMemoryStore()
	now := time.Now()

	creator := domain.Donor{ID: uuid.New(), CreatedAt: now.Add(-3 * 365 * 24 * time.Hour)}
	require.NoError(t, store.CreateDonor(context.Background(), &creator))

	old := domain.Campaign{
		ID: uuid.New(), CreatorID: creator.ID, Title: "Last year's winter drive for the shelter",
		Category: domain.CategoryCommunity, GoalAmount: 30000,
		Status: domain.StatusCompleted, CreatedAt: now.Add(-300 * 24 * time.Hour),
	}
	require.NoError(t, store.CreateCampaign(context.Background(), &old))

	candidate := domain.Campaign{
		ID: uuid.New(), CreatorID: creator.ID, Title: "This year's winter coat collection",
		Category: domain.CategoryCommunity, GoalAmount: 35000,
		Status: domain.StatusPending, CreatedAt: now,
	}
	require.NoError(t, store.CreateCampaign(context.Background(), &candidate))

	service := NewRiskService(store)
	assessment := service.AssessCampaign(context.Background(), candidate)

	assert.Equal(t, "low", assessment.Level)
	assert.Empty(t, assessment.Flags)
}

// brokenStore fails every read to prove risk assessment degrades instead
// of blocking
type brokenStore struct {
	ports.Storage
}

func (b *brokenStore) GetDonor(context.Context, uuid.UUID) (*domain.Donor, error) {
	return nil, errStoreDown
}

func (b *brokenStore) ListByCreator(context.Context, uuid.UUID, time.Time) ([]domain.Campaign, error) {
	return nil, errStoreDown
}

func (b *brokenStore) CountByCreator(context.Context, uuid.UUID) (int, error) {
	return 0, errStoreDown
}

func (b *brokenStore) ListRecentCampaigns(context.Context, int) ([]domain.Campaign, error) {
	return nil, errStoreDown
}

func (b *brokenStore) RecentByDonor(context.Context, uuid.UUID, int) ([]domain.Donation, error) {
	return nil, errStoreDown
}

func TestRiskService_StoreFailuresNeverBlock(t *testing.T) {
	service := NewRiskService(&brokenStore{Storage: storage.NewMemoryStore()})

	campaign := domain.Campaign{ID: uuid.New(), CreatorID: uuid.New(), GoalAmount: 20000, Category: domain.CategoryCommunity}
	assessment := service.AssessCampaign(context.Background(), campaign)
	assert.NotEmpty(t, assessment.Level, "assessment completes on partial context")

	donation := domain.Donation{ID: uuid.New(), DonorID: uuid.New(), Amount: 100}
	donationAssessment := service.AssessDonation(context.Background(), donation)
	assert.Equal(t, "low", donationAssessment.Level)
}
