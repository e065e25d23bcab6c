package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/givehub/campaign-discovery/internal/domain"
	"github.com/givehub/campaign-discovery/internal/domain/features"
	"github.com/givehub/campaign-discovery/internal/domain/ranking"
	"github.com/givehub/campaign-discovery/internal/ports"
	"github.com/google/uuid"
)

// Reason thresholds. Reasons are presentational: they explain a ranking
// that has already been decided and never feed back into it.
const (
	reasonCategoryCut    = 0.5
	reasonGeoCut         = 0.6
	reasonUrgencyCut     = 0.7
	reasonTrustCut       = 0.8
	reasonCompletionCut  = 0.75
	reasonSocialProofCut = 0.6
)

// DefaultRecommendLimit bounds recommendation lists when callers pass a
// non-positive limit
const DefaultRecommendLimit = 10

// RecommendationService produces ranked, deduplicated campaign lists with
// human-readable reasons.
//
// Degraded-mode contract: any store failure inside a specialized variant
// falls back to Popular rather than surfacing an error, so the caller
// always gets a non-empty list when any campaigns exist at all.
type RecommendationService struct {
	store      ports.Storage
	extractors *features.Set
	scorer     *ranking.Scorer
	profiles   *ProfileProvider
	clock      func() time.Time
}

// NewRecommendationService creates a recommendation service
func NewRecommendationService(store ports.Storage, profiles *ProfileProvider) *RecommendationService {
	return &RecommendationService{
		store:      store,
		extractors: features.NewSet(),
		scorer:     ranking.NewScorer(),
		profiles:   profiles,
		clock:      time.Now,
	}
}

// Personalized returns the top campaigns for a donor, ranked with the
// donor's preference profile. The profile and the candidate set are
// independent reads and are fetched concurrently.
func (s *RecommendationService) Personalized(ctx context.Context, donorID uuid.UUID, limit int) ([]domain.RankedCampaign, error) {
	limit = normalizeLimit(limit)

	var (
		wg           sync.WaitGroup
		donorProfile *domain.DonorProfile
		profileErr   error
		matches      []ports.CampaignMatch
		matchErr     error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		donorProfile, profileErr = s.profiles.Profile(ctx, donorID)
	}()
	go func() {
		defer wg.Done()
		matches, matchErr = s.activeCandidates(ctx)
	}()
	wg.Wait()

	if matchErr != nil {
		return s.fallback(ctx, limit, "personalized", matchErr)
	}
	if profileErr != nil {
		// Candidates are in hand but history is not: the popular list is
		// the better degraded answer than anonymously-scored "for you".
		return s.fallback(ctx, limit, "personalized", profileErr)
	}

	items := s.rank(ctx, matches, donorProfile, ranking.SortRelevance)
	return s.finish(items, donorProfile, limit), nil
}

// Popular returns campaigns ranked by community backing. This is also the
// shared fallback for every degraded variant.
func (s *RecommendationService) Popular(ctx context.Context, limit int) ([]domain.RankedCampaign, error) {
	limit = normalizeLimit(limit)

	matches, err := s.activeCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch popular campaigns: %w", err)
	}

	items := s.rank(ctx, matches, nil, ranking.SortPopular)
	return s.finish(items, nil, limit), nil
}

// Similar returns campaigns close to a reference campaign on category,
// location, and goal size. No personalization.
func (s *RecommendationService) Similar(ctx context.Context, campaignID uuid.UUID, limit int) ([]domain.RankedCampaign, error) {
	limit = normalizeLimit(limit)

	reference, err := s.store.GetCampaign(ctx, campaignID)
	if err != nil {
		return s.fallback(ctx, limit, "similar", err)
	}
	matches, err := s.activeCandidates(ctx)
	if err != nil {
		return s.fallback(ctx, limit, "similar", err)
	}

	items := make([]domain.RankedCampaign, 0, len(matches))
	for _, match := range matches {
		if match.Campaign.ID == reference.ID {
			continue
		}
		items = append(items, domain.RankedCampaign{
			Campaign:       match.Campaign,
			RelevanceScore: similarity(*reference, match.Campaign),
		})
	}
	ranking.Sort(items, ranking.SortRelevance)
	return s.finish(items, nil, limit), nil
}

// Trending returns campaigns by donation velocity over the window
func (s *RecommendationService) Trending(ctx context.Context, limit, windowDays int) ([]domain.RankedCampaign, error) {
	limit = normalizeLimit(limit)
	if windowDays < 1 {
		windowDays = 7
	}

	since := s.clock().Add(-time.Duration(windowDays) * 24 * time.Hour)
	stats, err := s.store.DonationVelocity(ctx, since)
	if err != nil {
		return s.fallback(ctx, limit, "trending", err)
	}

	items := make([]domain.RankedCampaign, 0, len(stats))
	for _, stat := range stats {
		campaign, err := s.store.GetCampaign(ctx, stat.CampaignID)
		if err != nil {
			slog.Debug("trending campaign lookup failed", "campaign_id", stat.CampaignID, "error", err)
			continue
		}
		if campaign.Status != domain.StatusActive {
			continue
		}
		items = append(items, domain.RankedCampaign{
			Campaign:       *campaign,
			RelevanceScore: stat.Amount, // velocity is the ordering signal here
		})
		if len(items) >= limit {
			break
		}
	}
	ranking.Sort(items, ranking.SortRelevance)

	for i := range items {
		items[i].Reasons = append(items[i].Reasons, "Gaining momentum right now")
	}
	return items, nil
}

// Urgent returns under-funded campaigns with deadlines inside maxDays
func (s *RecommendationService) Urgent(ctx context.Context, limit, maxDays int) ([]domain.RankedCampaign, error) {
	limit = normalizeLimit(limit)
	if maxDays < 1 {
		maxDays = 7
	}

	matches, err := s.activeCandidates(ctx)
	if err != nil {
		return s.fallback(ctx, limit, "urgent", err)
	}

	now := s.clock()
	horizon := now.Add(time.Duration(maxDays) * 24 * time.Hour)
	eligible := matches[:0]
	for _, match := range matches {
		campaign := match.Campaign
		if campaign.EndDate.IsZero() || campaign.EndDate.After(horizon) || campaign.EndDate.Before(now) {
			continue
		}
		if campaign.CompletionRatio() >= 1.0 {
			continue
		}
		eligible = append(eligible, match)
	}

	items := s.rank(ctx, eligible, nil, ranking.SortUrgent)
	return s.finish(items, nil, limit), nil
}

// Nearby returns campaigns in the donor's city or state. A donor without a
// location yields ErrNoLocation; callers surface that explicitly instead of
// crashing or silently returning everything.
func (s *RecommendationService) Nearby(ctx context.Context, donorID uuid.UUID, limit int) ([]domain.RankedCampaign, error) {
	limit = normalizeLimit(limit)

	donor, err := s.store.GetDonor(ctx, donorID)
	if err != nil {
		return s.fallback(ctx, limit, "nearby", err)
	}
	if donor.Location.IsZero() {
		return nil, domain.ErrNoLocation
	}

	// Same-city results first, same-state fills the remainder
	var matches []ports.CampaignMatch
	if donor.Location.City != "" {
		cityMatches, err := s.store.SearchCampaigns(ctx, ports.CampaignFilter{
			Status: domain.StatusActive,
			City:   donor.Location.City,
			Limit:  DefaultCandidateCap,
		})
		if err != nil {
			return s.fallback(ctx, limit, "nearby", err)
		}
		matches = cityMatches
	}
	if donor.Location.State != "" {
		stateMatches, err := s.store.SearchCampaigns(ctx, ports.CampaignFilter{
			Status: domain.StatusActive,
			State:  donor.Location.State,
			Limit:  DefaultCandidateCap,
		})
		if err != nil {
			return s.fallback(ctx, limit, "nearby", err)
		}
		matches = append(matches, stateMatches...)
	}

	donorProfile, err := s.profiles.Profile(ctx, donorID)
	if err != nil {
		slog.Warn("profile unavailable for nearby, scoring anonymously", "donor_id", donorID, "error", err)
		donorProfile = nil
	}

	items := s.rank(ctx, matches, donorProfile, ranking.SortRelevance)
	out := s.finish(items, donorProfile, limit)
	for i := range out {
		out[i].Reasons = appendUnique(out[i].Reasons, "Near your location")
	}
	return out, nil
}

// fallback degrades a failed variant to the popular list
func (s *RecommendationService) fallback(ctx context.Context, limit int, variant string, cause error) ([]domain.RankedCampaign, error) {
	slog.Warn("recommendation variant degraded to popular", "variant", variant, "error", cause)
	items, err := s.Popular(ctx, limit)
	if err != nil {
		// Nothing left to degrade to; surface the original failure
		return nil, fmt.Errorf("%s recommendations failed: %w", variant, cause)
	}
	return items, nil
}

// activeCandidates fetches the standard candidate set for ranking
func (s *RecommendationService) activeCandidates(ctx context.Context) ([]ports.CampaignMatch, error) {
	return s.store.SearchCampaigns(ctx, ports.CampaignFilter{
		Status: domain.StatusActive,
		Limit:  DefaultCandidateCap,
	})
}

// rank mirrors the discovery pipeline: features, relevance, order
func (s *RecommendationService) rank(ctx context.Context, matches []ports.CampaignMatch, donorProfile *domain.DonorProfile, strategy ranking.Strategy) []domain.RankedCampaign {
	featureCtx := features.NewContext(s.clock()).WithProfile(donorProfile)
	personalized := !donorProfile.IsEmpty()

	creators := make(map[uuid.UUID]*domain.Donor)
	items := make([]domain.RankedCampaign, 0, len(matches))
	for _, match := range matches {
		creatorID := match.Campaign.CreatorID
		creator, seen := creators[creatorID]
		if !seen && creatorID != uuid.Nil {
			fetched, err := s.store.GetDonor(ctx, creatorID)
			if err != nil {
				slog.Debug("creator lookup failed", "creator_id", creatorID, "error", err)
			} else {
				creator = fetched
			}
			creators[creatorID] = creator
		}

		items = append(items, domain.RankedCampaign{
			Campaign:       match.Campaign,
			TextMatchScore: match.TextScore,
			Features:       s.extractors.Vector(match.Campaign, creator, featureCtx),
		})
	}

	s.scorer.Rank(items, personalized)
	ranking.Sort(items, strategy)
	return items
}

// finish deduplicates, truncates, and attaches reasons
func (s *RecommendationService) finish(items []domain.RankedCampaign, donorProfile *domain.DonorProfile, limit int) []domain.RankedCampaign {
	seen := make(map[uuid.UUID]bool, len(items))
	out := make([]domain.RankedCampaign, 0, limit)
	for _, item := range items {
		if seen[item.Campaign.ID] {
			continue
		}
		seen[item.Campaign.ID] = true
		item.Reasons = reasons(item, donorProfile)
		out = append(out, item)
		if len(out) >= limit {
			break
		}
	}
	return out
}

// reasons derives the ordered explanation list from feature thresholds
func reasons(item domain.RankedCampaign, donorProfile *domain.DonorProfile) []string {
	out := make([]string, 0, 3)
	personalized := !donorProfile.IsEmpty()

	if personalized && item.Features.CategoryAffinity > reasonCategoryCut {
		out = append(out, fmt.Sprintf("Matches your interest in %s", item.Campaign.Category))
	}
	if personalized && item.Features.GeoAffinity >= reasonGeoCut {
		out = append(out, "Near your location")
	}
	if item.Features.Urgency > reasonUrgencyCut {
		out = append(out, "Urgent need")
	}
	if item.Features.CreatorTrust >= reasonTrustCut {
		out = append(out, "Trusted organizer")
	}
	if item.Campaign.CompletionRatio() > reasonCompletionCut {
		out = append(out, "Almost at its goal")
	}
	if item.Features.SocialProof > reasonSocialProofCut {
		out = append(out, "Popular with other donors")
	}
	return out
}

// similarity scores how close candidate is to reference on category,
// location, and goal size. Bounded [0,1].
func similarity(reference, candidate domain.Campaign) float64 {
	score := 0.0
	if reference.Category == candidate.Category {
		score += 0.5
	}
	switch {
	case equalNonEmpty(reference.Location.City, candidate.Location.City):
		score += 0.3
	case equalNonEmpty(reference.Location.State, candidate.Location.State):
		score += 0.2
	}
	if reference.GoalAmount > 0 && candidate.GoalAmount > 0 {
		ratio := reference.GoalAmount / candidate.GoalAmount
		if ratio > 1 {
			ratio = 1 / ratio
		}
		score += 0.2 * ratio
	}
	return score
}

func equalNonEmpty(a, b string) bool {
	return a != "" && a == b
}

func normalizeLimit(limit int) int {
	if limit < 1 {
		return DefaultRecommendLimit
	}
	return limit
}

func appendUnique(list []string, value string) []string {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}
