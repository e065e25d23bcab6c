package main

import (
	"fmt"
	"strings"

	"github.com/givehub/campaign-discovery/internal/application"
	"github.com/spf13/cobra"
)

func searchCmd() *cobra.Command {
	var (
		query    string
		category string
		city     string
		state    string
		minGoal  float64
		maxGoal  float64
		status   string
		sortBy   string
		page     int
		limit    int
		donorID  string
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search and rank campaigns",
		Long: `Run the full discovery pipeline: filter campaigns, extract features,
score relevance (personalized when --donor is given) and print one page.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := initStorage(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			donor, err := parseDonorID(donorID)
			if err != nil {
				return err
			}

			service := application.NewDiscoveryService(store, newProfileProvider(cfg, store))
			service.SetCandidateCap(cfg.Discovery.CandidateCap)

			resp, err := service.Search(cmd.Context(), application.SearchRequest{
				Query: strings.TrimSpace(query),
				Filters: application.SearchFilters{
					Category: category,
					City:     city,
					State:    state,
					MinGoal:  minGoal,
					MaxGoal:  maxGoal,
					Status:   status,
				},
				Sort:    sortBy,
				Page:    page,
				Limit:   limit,
				DonorID: donor,
			})
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}

			printRanked(resp.Items)
			fmt.Printf("\nPage %d of %d (%d results, sort=%s)\n",
				resp.Pagination.Page, resp.Pagination.TotalPages,
				resp.Pagination.TotalResults, resp.Metadata.SortStrategy)
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "free-text search query")
	cmd.Flags().StringVar(&category, "category", "", "filter by category")
	cmd.Flags().StringVar(&city, "city", "", "filter by city")
	cmd.Flags().StringVar(&state, "state", "", "filter by state")
	cmd.Flags().Float64Var(&minGoal, "min-goal", 0, "minimum goal amount")
	cmd.Flags().Float64Var(&maxGoal, "max-goal", 0, "maximum goal amount")
	cmd.Flags().StringVar(&status, "status", "active", "campaign status filter")
	cmd.Flags().StringVar(&sortBy, "sort", "relevance", "sort strategy (relevance, newest, oldest, goal_high, goal_low, progress, popular, urgent, trending)")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&limit, "limit", application.DefaultPageSize, "results per page")
	cmd.Flags().StringVar(&donorID, "donor", "", "donor UUID for personalized ranking")

	return cmd
}
