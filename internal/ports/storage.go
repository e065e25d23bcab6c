package ports

import (
	"context"
	"time"

	"github.com/givehub/campaign-discovery/internal/domain"
	"github.com/google/uuid"
)

// CampaignFilter narrows a campaign search. Storage applies filtering and
// text scoring only; all feature arithmetic happens in application code.
type CampaignFilter struct {
	Query    string
	Category domain.Category
	City     string
	State    string
	MinGoal  float64
	MaxGoal  float64
	Status   domain.CampaignStatus

	// Limit caps the candidate set handed to the scoring pipeline
	Limit int
}

// CampaignMatch is a filtered campaign plus the store's opaque text-match
// score (non-negative, zero when the query is empty)
type CampaignMatch struct {
	Campaign  domain.Campaign
	TextScore float64
}

// VelocityStat aggregates donation flow into one campaign over a window
type VelocityStat struct {
	CampaignID uuid.UUID
	Amount     float64
	Count      int
}

// Storage defines the contract for persisting and querying domain entities
type Storage interface {
	// Donor operations
	CreateDonor(ctx context.Context, donor *domain.Donor) error
	GetDonor(ctx context.Context, id uuid.UUID) (*domain.Donor, error)

	// Campaign operations
	CreateCampaign(ctx context.Context, campaign *domain.Campaign) error
	GetCampaign(ctx context.Context, id uuid.UUID) (*domain.Campaign, error)
	SearchCampaigns(ctx context.Context, filter CampaignFilter) ([]CampaignMatch, error)
	ListByCreator(ctx context.Context, creatorID uuid.UUID, since time.Time) ([]domain.Campaign, error)
	CountByCreator(ctx context.Context, creatorID uuid.UUID) (int, error)
	ListRecentCampaigns(ctx context.Context, limit int) ([]domain.Campaign, error)

	// Donation operations
	CreateDonation(ctx context.Context, donation *domain.Donation) error
	DonorHistory(ctx context.Context, donorID uuid.UUID) ([]domain.DonationRecord, error)
	RecentByDonor(ctx context.Context, donorID uuid.UUID, limit int) ([]domain.Donation, error)
	DonationVelocity(ctx context.Context, since time.Time) ([]VelocityStat, error)

	// Lifecycle
	Close() error
}
