package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/givehub/campaign-discovery/internal/adapters/storage"
	"github.com/givehub/campaign-discovery/internal/application"
	"github.com/givehub/campaign-discovery/internal/cache"
	"github.com/givehub/campaign-discovery/internal/config"
	"github.com/givehub/campaign-discovery/internal/domain"
	"github.com/givehub/campaign-discovery/internal/ports"
	"github.com/google/uuid"
)

// schemaInitializer is implemented by the SQL-backed stores
type schemaInitializer interface {
	InitSchema() error
}

// initStorage opens the configured backend and runs schema migration
func initStorage(cfg *config.Config) (ports.Storage, error) {
	var (
		store ports.Storage
		err   error
	)

	switch cfg.Storage.Driver {
	case "postgres":
		store, err = storage.NewPostgresStore(cfg.Storage.DSN)
	case "sqlite":
		store, err = storage.NewSQLiteStore(cfg.Storage.Path)
	case "memory":
		store = storage.NewMemoryStore()
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Storage.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Driver, err)
	}

	if migrator, ok := store.(schemaInitializer); ok {
		if err := migrator.InitSchema(); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return store, nil
}

// newProfileProvider wires the donor profile cache per the loaded config
func newProfileProvider(cfg *config.Config, store ports.Storage) *application.ProfileProvider {
	profileCache := cache.NewTTL[uuid.UUID, *domain.DonorProfile](cfg.Discovery.ProfileCacheTTL)
	return application.NewProfileProvider(store, profileCache, cfg.Discovery.ProfileTimeout)
}

// loadConfig materializes viper state; commands call it after PersistentPreRunE
func loadConfig() (*config.Config, error) {
	return config.Load()
}

// parseDonorID accepts an empty string as "anonymous"
func parseDonorID(raw string) (*uuid.UUID, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid donor id %q: %w", raw, err)
	}
	return &id, nil
}

// printRanked renders ranked campaigns as an aligned table
func printRanked(items []domain.RankedCampaign) {
	if len(items) == 0 {
		fmt.Println("No campaigns matched.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "SCORE\tCATEGORY\tRAISED\tGOAL\tDONORS\tTITLE\tREASONS")
	for _, item := range items {
		c := item.Campaign
		fmt.Fprintf(w, "%.3f\t%s\t%.0f\t%.0f\t%d\t%s\t%s\n",
			item.RelevanceScore, c.Category, c.RaisedAmount, c.GoalAmount,
			c.DonorCount, truncate(c.Title, 48), strings.Join(item.Reasons, "; "))
	}
}

func printAssessment(assessment domain.RiskAssessment) {
	fmt.Printf("Subject:  %s\n", assessment.SubjectID)
	fmt.Printf("Score:    %.0f / 100\n", assessment.Score)
	fmt.Printf("Level:    %s\n", assessment.Level)
	fmt.Printf("Assessed: %s\n", assessment.AssessedAt.Format(time.RFC3339))

	if len(assessment.Flags) == 0 {
		fmt.Println("Flags:    none")
		return
	}
	fmt.Println("Flags:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()
	for _, flag := range assessment.Flags {
		fmt.Fprintf(w, "  %s\t%.0f\t%s\n", flag.Type, flag.Weight, flag.Evidence)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
