package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/givehub/campaign-discovery/internal/domain"
	"github.com/givehub/campaign-discovery/internal/domain/features"
	"github.com/givehub/campaign-discovery/internal/domain/ranking"
	"github.com/givehub/campaign-discovery/internal/ports"
	"github.com/google/uuid"
)

// Pagination and candidate defaults. The candidate cap bounds how many
// filtered campaigns the scoring pipeline will rank for one request.
const (
	DefaultPageSize     = 20
	MaxPageSize         = 100
	DefaultCandidateCap = 500
)

// SearchRequest is the typed contract for the search operation
type SearchRequest struct {
	Query   string
	Filters SearchFilters
	Sort    string
	Page    int
	Limit   int

	// DonorID personalizes scoring when set; nil means anonymous
	DonorID *uuid.UUID
}

// SearchFilters narrows the candidate set. Malformed values are corrected
// to sane defaults rather than rejected (permissive input policy).
type SearchFilters struct {
	Category string
	City     string
	State    string
	MinGoal  float64
	MaxGoal  float64
	Status   string
}

// Pagination describes the page returned and the result universe
type Pagination struct {
	Page         int `json:"page"`
	TotalPages   int `json:"total_pages"`
	TotalResults int `json:"total_results"`
}

// SearchMetadata echoes the corrected inputs actually applied
type SearchMetadata struct {
	AppliedFilters ports.CampaignFilter `json:"applied_filters"`
	SortStrategy   ranking.Strategy     `json:"sort_strategy"`
}

// SearchResponse is one page of ranked campaigns
type SearchResponse struct {
	Items      []domain.RankedCampaign `json:"items"`
	Pagination Pagination              `json:"pagination"`
	Metadata   SearchMetadata          `json:"metadata"`
}

// DiscoveryService implements the search operation: filter sanitation,
// candidate fetch, feature extraction, ranking, pagination.
//
// Storage does filtering and text scoring only; every feature and relevance
// computation happens here so it can be unit tested without a database.
type DiscoveryService struct {
	store        ports.Storage
	extractors   *features.Set
	scorer       *ranking.Scorer
	profiles     *ProfileProvider
	candidateCap int
	clock        func() time.Time
}

// NewDiscoveryService creates a discovery service with dependency injection
func NewDiscoveryService(store ports.Storage, profiles *ProfileProvider) *DiscoveryService {
	return &DiscoveryService{
		store:        store,
		extractors:   features.NewSet(),
		scorer:       ranking.NewScorer(),
		profiles:     profiles,
		candidateCap: DefaultCandidateCap,
		clock:        time.Now,
	}
}

// SetCandidateCap overrides how many filtered campaigns enter the scoring
// pipeline. Values below 1 are ignored.
func (s *DiscoveryService) SetCandidateCap(limit int) {
	if limit > 0 {
		s.candidateCap = limit
	}
}

// Search runs the full scoring pipeline for one query and returns the
// requested page. The ordering is a total order, so the union of all pages
// for a fixed query is the exact unpaginated result set.
func (s *DiscoveryService) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	filter, strategy, page, limit := s.sanitize(req)

	matches, err := s.store.SearchCampaigns(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search campaigns: %w", err)
	}

	// Personalization is best-effort: a failed or timed-out profile fetch
	// degrades to anonymous scoring, never fails the search.
	var donorProfile *domain.DonorProfile
	if req.DonorID != nil {
		donorProfile, err = s.profiles.Profile(ctx, *req.DonorID)
		if err != nil {
			slog.Warn("profile unavailable, scoring anonymously", "donor_id", *req.DonorID, "error", err)
			donorProfile = nil
		}
	}

	items := s.rank(ctx, matches, donorProfile, strategy)

	total := len(items)
	totalPages := (total + limit - 1) / limit
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return &SearchResponse{
		Items: items[start:end],
		Pagination: Pagination{
			Page:         page,
			TotalPages:   totalPages,
			TotalResults: total,
		},
		Metadata: SearchMetadata{
			AppliedFilters: filter,
			SortStrategy:   strategy,
		},
	}, nil
}

// rank extracts features, scores, and orders the candidate set
func (s *DiscoveryService) rank(ctx context.Context, matches []ports.CampaignMatch, donorProfile *domain.DonorProfile, strategy ranking.Strategy) []domain.RankedCampaign {
	featureCtx := features.NewContext(s.clock()).WithProfile(donorProfile)
	personalized := !donorProfile.IsEmpty()
	creators := s.creatorsFor(ctx, matches)

	items := make([]domain.RankedCampaign, 0, len(matches))
	for _, match := range matches {
		creator := creators[match.Campaign.CreatorID]
		vector := s.extractors.Vector(match.Campaign, creator, featureCtx)
		items = append(items, domain.RankedCampaign{
			Campaign:       match.Campaign,
			TextMatchScore: match.TextScore,
			Features:       vector,
		})
	}

	s.scorer.Rank(items, personalized)
	ranking.Sort(items, strategy)
	return items
}

// creatorsFor fetches each distinct creator once. Individual lookup
// failures are logged and skipped; the trust feature degrades to its
// unknown-creator default for those campaigns.
func (s *DiscoveryService) creatorsFor(ctx context.Context, matches []ports.CampaignMatch) map[uuid.UUID]*domain.Donor {
	creators := make(map[uuid.UUID]*domain.Donor)
	for _, match := range matches {
		id := match.Campaign.CreatorID
		if id == uuid.Nil {
			continue
		}
		if _, seen := creators[id]; seen {
			continue
		}
		creator, err := s.store.GetDonor(ctx, id)
		if err != nil {
			slog.Debug("creator lookup failed", "creator_id", id, "error", err)
			creators[id] = nil
			continue
		}
		creators[id] = creator
	}
	return creators
}

// sanitize corrects malformed request values instead of rejecting them
func (s *DiscoveryService) sanitize(req SearchRequest) (ports.CampaignFilter, ranking.Strategy, int, int) {
	filters := req.Filters

	if filters.MinGoal < 0 {
		filters.MinGoal = 0
	}
	if filters.MaxGoal < 0 {
		filters.MaxGoal = 0
	}
	if filters.MaxGoal > 0 && filters.MaxGoal < filters.MinGoal {
		filters.MinGoal, filters.MaxGoal = filters.MaxGoal, filters.MinGoal
	}

	category := domain.Category(filters.Category)
	if !category.IsValid() {
		category = ""
	}

	status := domain.CampaignStatus(filters.Status)
	switch status {
	case domain.StatusActive, domain.StatusCompleted, domain.StatusCancelled, domain.StatusPending:
	default:
		status = domain.StatusActive
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit < 1 || limit > MaxPageSize {
		limit = DefaultPageSize
	}

	filter := ports.CampaignFilter{
		Query:    req.Query,
		Category: category,
		City:     filters.City,
		State:    filters.State,
		MinGoal:  filters.MinGoal,
		MaxGoal:  filters.MaxGoal,
		Status:   status,
		Limit:    s.candidateCap,
	}
	return filter, ranking.ParseStrategy(req.Sort), page, limit
}
