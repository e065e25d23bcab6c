package main

import (
	"fmt"
	"time"

	"github.com/givehub/campaign-discovery/internal/application"
	"github.com/givehub/campaign-discovery/internal/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run fraud heuristics against a submission",
		Long: `Score a campaign or donation against the fraud heuristics the platform
runs at submission time. High scores block auto-publishing.`,
	}

	cmd.AddCommand(analyzeCampaignCmd())
	cmd.AddCommand(analyzeDonationCmd())

	return cmd
}

func analyzeCampaignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "campaign <campaign-id>",
		Short: "Assess an existing campaign",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			campaignID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid campaign id %q: %w", args[0], err)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := initStorage(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			campaign, err := store.GetCampaign(cmd.Context(), campaignID)
			if err != nil {
				return fmt.Errorf("failed to load campaign: %w", err)
			}

			service := application.NewRiskService(store)
			printAssessment(service.AssessCampaign(cmd.Context(), *campaign))
			return nil
		},
	}
}

func analyzeDonationCmd() *cobra.Command {
	var (
		donorID    string
		campaignID string
		amount     float64
	)

	cmd := &cobra.Command{
		Use:   "donation",
		Short: "Assess a donation before it is accepted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			donor, err := uuid.Parse(donorID)
			if err != nil {
				return fmt.Errorf("invalid donor id %q: %w", donorID, err)
			}
			campaign, err := uuid.Parse(campaignID)
			if err != nil {
				return fmt.Errorf("invalid campaign id %q: %w", campaignID, err)
			}
			if amount <= 0 {
				return fmt.Errorf("amount must be positive, got %.2f", amount)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := initStorage(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			service := application.NewRiskService(store)
			printAssessment(service.AssessDonation(cmd.Context(), domain.Donation{
				ID:         uuid.New(),
				DonorID:    donor,
				CampaignID: campaign,
				Amount:     amount,
				Status:     "pending",
				CreatedAt:  time.Now(),
			}))
			return nil
		},
	}

	cmd.Flags().StringVar(&donorID, "donor", "", "donor UUID")
	cmd.Flags().StringVar(&campaignID, "campaign", "", "campaign UUID")
	cmd.Flags().Float64Var(&amount, "amount", 0, "donation amount")
	_ = cmd.MarkFlagRequired("donor")
	_ = cmd.MarkFlagRequired("campaign")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}
