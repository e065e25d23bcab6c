package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/givehub/campaign-discovery/internal/domain"
	"github.com/givehub/campaign-discovery/internal/ports"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load demonstration data into the configured store",
		Long: `Create a small set of donors, campaigns and donations so the search,
recommend and analyze commands have something to work with. Intended for
local development only.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := initStorage(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := seedSampleData(cmd.Context(), store); err != nil {
				return fmt.Errorf("seeding failed: %w", err)
			}
			fmt.Println("Sample data loaded.")
			return nil
		},
	}
}

func seedSampleData(ctx context.Context, store ports.Storage) error {
	now := time.Now()

	asha := &domain.Donor{
		ID: uuid.New(), Name: "Asha Nair", Email: "asha@example.com",
		Verified: true, PhoneVerified: true, HasPhoto: true, HasBio: true,
		Location:  domain.Location{City: "Kochi", State: "KL", Country: "IN"},
		CreatedAt: now.Add(-2 * 365 * 24 * time.Hour),
	}
	ravi := &domain.Donor{
		ID: uuid.New(), Name: "Ravi Patel", Email: "ravi@example.com",
		Verified:  true,
		Location:  domain.Location{City: "Pune", State: "MH", Country: "IN"},
		CreatedAt: now.Add(-90 * 24 * time.Hour),
	}
	for _, donor := range []*domain.Donor{asha, ravi} {
		if err := store.CreateDonor(ctx, donor); err != nil {
			slog.Warn("donor creation skipped", "name", donor.Name, "error", err)
		}
	}

	campaigns := []*domain.Campaign{
		{
			ID: uuid.New(), Title: "Emergency heart surgery for Meera",
			Description: "Meera needs an urgent valve replacement. Every contribution helps.",
			Category:    domain.CategoryMedical,
			Location:    domain.Location{City: "Kochi", State: "KL", Country: "IN"},
			GoalAmount:  500000, RaisedAmount: 320000, DonorCount: 148,
			CreatorID: asha.ID, Status: domain.StatusActive, Verified: true,
			ShareCount: 420, CreatedAt: now.Add(-12 * 24 * time.Hour),
			EndDate: now.Add(4 * 24 * time.Hour),
		},
		{
			ID: uuid.New(), Title: "Rebuild the village school library",
			Description: "Flood waters destroyed three thousand books. Help us restock.",
			Category:    domain.CategoryEducation,
			Location:    domain.Location{City: "Pune", State: "MH", Country: "IN"},
			GoalAmount:  150000, RaisedAmount: 42000, DonorCount: 63,
			CreatorID: ravi.ID, Status: domain.StatusActive,
			ShareCount: 95, CreatedAt: now.Add(-5 * 24 * time.Hour),
		},
		{
			ID: uuid.New(), Title: "Street dog vaccination drive",
			Description: "Annual rabies vaccination for strays across the city.",
			Category:    domain.CategoryAnimals,
			Location:    domain.Location{City: "Pune", State: "MH", Country: "IN"},
			GoalAmount:  80000, RaisedAmount: 61000, DonorCount: 210,
			CreatorID: ravi.ID, Status: domain.StatusActive, Verified: true,
			ShareCount: 310, CreatedAt: now.Add(-20 * 24 * time.Hour),
			EndDate: now.Add(30 * 24 * time.Hour),
		},
		{
			ID: uuid.New(), Title: "Coastal cleanup equipment fund",
			Description: "Gloves, nets and transport for weekend beach cleanups.",
			Category:    domain.CategoryEnvironment,
			Location:    domain.Location{City: "Kochi", State: "KL", Country: "IN"},
			GoalAmount:  60000, RaisedAmount: 8000, DonorCount: 12,
			CreatorID: asha.ID, Status: domain.StatusActive,
			ShareCount: 18, CreatedAt: now.Add(-2 * 24 * time.Hour),
		},
	}
	for _, campaign := range campaigns {
		if err := store.CreateCampaign(ctx, campaign); err != nil {
			slog.Warn("campaign creation skipped", "title", campaign.Title, "error", err)
		}
	}

	donations := []*domain.Donation{
		{
			ID: uuid.New(), DonorID: asha.ID, CampaignID: campaigns[1].ID,
			Amount: 2500, PaymentMethod: "upi", Status: "completed",
			CreatedAt: now.Add(-4 * 24 * time.Hour),
		},
		{
			ID: uuid.New(), DonorID: asha.ID, CampaignID: campaigns[3].ID,
			Amount: 1000, PaymentMethod: "upi", Status: "completed",
			CreatedAt: now.Add(-36 * time.Hour),
		},
		{
			ID: uuid.New(), DonorID: ravi.ID, CampaignID: campaigns[0].ID,
			Amount: 5000, PaymentMethod: "card", Status: "completed",
			CreatedAt: now.Add(-6 * time.Hour),
		},
	}
	for _, donation := range donations {
		if err := store.CreateDonation(ctx, donation); err != nil {
			slog.Warn("donation creation skipped", "error", err)
		}
	}

	slog.Info("seeded sample data",
		"donors", 2, "campaigns", len(campaigns), "donations", len(donations))
	fmt.Printf("Donor IDs for --donor flags:\n  %s (Asha)\n  %s (Ravi)\n", asha.ID, ravi.ID)
	return nil
}
