package main

import (
	"errors"
	"fmt"

	"github.com/givehub/campaign-discovery/internal/application"
	"github.com/givehub/campaign-discovery/internal/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func recommendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Generate recommendation feeds",
		Long: `Serve the recommendation variants: personalized, popular, similar,
trending, urgent and nearby. Variants that need donor context degrade to
the popular feed when that context is unavailable.`,
	}

	cmd.AddCommand(personalizedCmd())
	cmd.AddCommand(popularCmd())
	cmd.AddCommand(similarCmd())
	cmd.AddCommand(trendingCmd())
	cmd.AddCommand(urgentCmd())
	cmd.AddCommand(nearbyCmd())

	return cmd
}

// withRecommendationService handles the shared open-wire-close dance
func withRecommendationService(cmd *cobra.Command, run func(*application.RecommendationService) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := initStorage(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	return run(application.NewRecommendationService(store, newProfileProvider(cfg, store)))
}

func personalizedCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "personalized <donor-id>",
		Short: "Recommendations driven by the donor's giving history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			donorID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid donor id %q: %w", args[0], err)
			}
			return withRecommendationService(cmd, func(service *application.RecommendationService) error {
				items, err := service.Personalized(cmd.Context(), donorID, limit)
				if err != nil {
					return err
				}
				printRanked(items)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", application.DefaultRecommendLimit, "number of recommendations")
	return cmd
}

func popularCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "popular",
		Short: "Most-backed active campaigns",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRecommendationService(cmd, func(service *application.RecommendationService) error {
				items, err := service.Popular(cmd.Context(), limit)
				if err != nil {
					return err
				}
				printRanked(items)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", application.DefaultRecommendLimit, "number of recommendations")
	return cmd
}

func similarCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "similar <campaign-id>",
		Short: "Campaigns resembling a reference campaign",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			campaignID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid campaign id %q: %w", args[0], err)
			}
			return withRecommendationService(cmd, func(service *application.RecommendationService) error {
				items, err := service.Similar(cmd.Context(), campaignID, limit)
				if err != nil {
					return err
				}
				printRanked(items)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", application.DefaultRecommendLimit, "number of recommendations")
	return cmd
}

func trendingCmd() *cobra.Command {
	var (
		limit      int
		windowDays int
	)
	cmd := &cobra.Command{
		Use:   "trending",
		Short: "Campaigns with the fastest recent donation flow",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRecommendationService(cmd, func(service *application.RecommendationService) error {
				items, err := service.Trending(cmd.Context(), limit, windowDays)
				if err != nil {
					return err
				}
				printRanked(items)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", application.DefaultRecommendLimit, "number of recommendations")
	cmd.Flags().IntVar(&windowDays, "window", 7, "velocity window in days")
	return cmd
}

func urgentCmd() *cobra.Command {
	var (
		limit   int
		maxDays int
	)
	cmd := &cobra.Command{
		Use:   "urgent",
		Short: "Underfunded campaigns with approaching deadlines",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRecommendationService(cmd, func(service *application.RecommendationService) error {
				items, err := service.Urgent(cmd.Context(), limit, maxDays)
				if err != nil {
					return err
				}
				printRanked(items)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", application.DefaultRecommendLimit, "number of recommendations")
	cmd.Flags().IntVar(&maxDays, "max-days", 7, "maximum days until deadline")
	return cmd
}

func nearbyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "nearby <donor-id>",
		Short: "Campaigns close to the donor's location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			donorID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid donor id %q: %w", args[0], err)
			}
			return withRecommendationService(cmd, func(service *application.RecommendationService) error {
				items, err := service.Nearby(cmd.Context(), donorID, limit)
				if errors.Is(err, domain.ErrNoLocation) {
					fmt.Println("Donor has no location on file; try the popular feed instead.")
					return nil
				}
				if err != nil {
					return err
				}
				printRanked(items)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", application.DefaultRecommendLimit, "number of recommendations")
	return cmd
}
