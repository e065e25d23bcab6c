package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/givehub/campaign-discovery/internal/domain"
	"github.com/givehub/campaign-discovery/internal/ports"
	"github.com/google/uuid"
)

// MemoryStore implements ports.Storage with mutex-guarded maps.
// Used by tests and the seed/demo command; not intended for production.
type MemoryStore struct {
	mu        sync.RWMutex
	donors    map[uuid.UUID]domain.Donor
	campaigns map[uuid.UUID]domain.Campaign
	donations map[uuid.UUID]domain.Donation
}

// NewMemoryStore creates an empty in-memory storage instance
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		donors:    make(map[uuid.UUID]domain.Donor),
		campaigns: make(map[uuid.UUID]domain.Campaign),
		donations: make(map[uuid.UUID]domain.Donation),
	}
}

// Close is a no-op for the in-memory store
func (s *MemoryStore) Close() error {
	return nil
}

// CreateDonor stores a donor record
func (s *MemoryStore) CreateDonor(_ context.Context, donor *domain.Donor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.donors[donor.ID] = *donor
	return nil
}

// GetDonor fetches a donor by ID
func (s *MemoryStore) GetDonor(_ context.Context, id uuid.UUID) (*domain.Donor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	donor, ok := s.donors[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &donor, nil
}

// CreateCampaign stores a campaign record
func (s *MemoryStore) CreateCampaign(_ context.Context, campaign *domain.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.campaigns[campaign.ID] = *campaign
	return nil
}

// GetCampaign fetches a campaign by ID
func (s *MemoryStore) GetCampaign(_ context.Context, id uuid.UUID) (*domain.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	campaign, ok := s.campaigns[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &campaign, nil
}

// SearchCampaigns applies the filter and computes a crude term-frequency
// text score. The score is opaque to callers; only filtering and scoring
// live here, never feature arithmetic.
func (s *MemoryStore) SearchCampaigns(_ context.Context, filter ports.CampaignFilter) ([]ports.CampaignMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	terms := strings.Fields(strings.ToLower(filter.Query))
	matches := make([]ports.CampaignMatch, 0)

	for _, campaign := range s.campaigns {
		if !matchesFilter(campaign, filter) {
			continue
		}
		score := textScore(campaign, terms)
		if len(terms) > 0 && score == 0 {
			continue
		}
		matches = append(matches, ports.CampaignMatch{Campaign: campaign, TextScore: score})
	}

	// Deterministic candidate order before the cap
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].TextScore != matches[j].TextScore {
			return matches[i].TextScore > matches[j].TextScore
		}
		return matches[i].Campaign.ID.String() < matches[j].Campaign.ID.String()
	})

	if filter.Limit > 0 && len(matches) > filter.Limit {
		matches = matches[:filter.Limit]
	}
	return matches, nil
}

// ListByCreator returns the creator's campaigns created at or after since,
// newest first
func (s *MemoryStore) ListByCreator(_ context.Context, creatorID uuid.UUID, since time.Time) ([]domain.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Campaign, 0)
	for _, campaign := range s.campaigns {
		if campaign.CreatorID == creatorID && !campaign.CreatedAt.Before(since) {
			out = append(out, campaign)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// CountByCreator returns the creator's lifetime campaign count
func (s *MemoryStore) CountByCreator(_ context.Context, creatorID uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, campaign := range s.campaigns {
		if campaign.CreatorID == creatorID {
			count++
		}
	}
	return count, nil
}

// ListRecentCampaigns returns the newest campaigns up to limit
func (s *MemoryStore) ListRecentCampaigns(_ context.Context, limit int) ([]domain.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Campaign, 0, len(s.campaigns))
	for _, campaign := range s.campaigns {
		out = append(out, campaign)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// CreateDonation stores a donation and updates the campaign's raised
// amount and donor count, mirroring what the SQL adapters do in a
// transaction
func (s *MemoryStore) CreateDonation(_ context.Context, donation *domain.Donation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.donations[donation.ID] = *donation
	if campaign, ok := s.campaigns[donation.CampaignID]; ok && donation.Status == "completed" {
		campaign.RaisedAmount += donation.Amount
		campaign.DonorCount++
		s.campaigns[donation.CampaignID] = campaign
	}
	return nil
}

// DonorHistory returns the donor's completed donations joined with each
// campaign's category and location
func (s *MemoryStore) DonorHistory(_ context.Context, donorID uuid.UUID) ([]domain.DonationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.DonationRecord, 0)
	for _, donation := range s.donations {
		if donation.DonorID != donorID || donation.Status != "completed" {
			continue
		}
		record := domain.DonationRecord{Donation: donation}
		if campaign, ok := s.campaigns[donation.CampaignID]; ok {
			record.Category = campaign.Category
			record.Location = campaign.Location
		}
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// RecentByDonor returns the donor's donations newest first, up to limit
func (s *MemoryStore) RecentByDonor(_ context.Context, donorID uuid.UUID, limit int) ([]domain.Donation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Donation, 0)
	for _, donation := range s.donations {
		if donation.DonorID == donorID {
			out = append(out, donation)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// DonationVelocity aggregates completed donation flow per campaign since
// the given time
func (s *MemoryStore) DonationVelocity(_ context.Context, since time.Time) ([]ports.VelocityStat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byCampaign := make(map[uuid.UUID]*ports.VelocityStat)
	for _, donation := range s.donations {
		if donation.Status != "completed" || donation.CreatedAt.Before(since) {
			continue
		}
		stat, ok := byCampaign[donation.CampaignID]
		if !ok {
			stat = &ports.VelocityStat{CampaignID: donation.CampaignID}
			byCampaign[donation.CampaignID] = stat
		}
		stat.Amount += donation.Amount
		stat.Count++
	}

	out := make([]ports.VelocityStat, 0, len(byCampaign))
	for _, stat := range byCampaign {
		out = append(out, *stat)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].CampaignID.String() < out[j].CampaignID.String()
	})
	return out, nil
}

// matchesFilter applies every set filter field
func matchesFilter(campaign domain.Campaign, filter ports.CampaignFilter) bool {
	if filter.Status != "" && campaign.Status != filter.Status {
		return false
	}
	if filter.Category != "" && campaign.Category != filter.Category {
		return false
	}
	if filter.City != "" && !strings.EqualFold(campaign.Location.City, filter.City) {
		return false
	}
	if filter.State != "" && !strings.EqualFold(campaign.Location.State, filter.State) {
		return false
	}
	if filter.MinGoal > 0 && campaign.GoalAmount < filter.MinGoal {
		return false
	}
	if filter.MaxGoal > 0 && campaign.GoalAmount > filter.MaxGoal {
		return false
	}
	return true
}

// textScore counts query-term hits, weighting title matches above
// description matches
func textScore(campaign domain.Campaign, terms []string) float64 {
	if len(terms) == 0 {
		return 0
	}
	title := strings.ToLower(campaign.Title)
	description := strings.ToLower(campaign.Description)

	score := 0.0
	for _, term := range terms {
		if strings.Contains(title, term) {
			score += 2
		}
		if strings.Contains(description, term) {
			score++
		}
	}
	return score
}
