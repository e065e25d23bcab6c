package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/givehub/campaign-discovery/internal/domain"
	"github.com/givehub/campaign-discovery/internal/domain/risk"
	"github.com/givehub/campaign-discovery/internal/ports"
)

// Context-gathering bounds for the risk pass
const (
	riskCreatorWindow   = time.Hour
	riskDuplicateSample = 200
	riskDonorSample     = 50
)

// RiskService orchestrates the fraud heuristics pass.
//
// It runs independently of ranking: it shares the stores but produces a
// risk classification, and any failure gathering context degrades to a
// partial assessment rather than blocking the submission path.
type RiskService struct {
	store    ports.Storage
	assessor *risk.Assessor
	clock    func() time.Time
}

// NewRiskService creates a risk service
func NewRiskService(store ports.Storage) *RiskService {
	return &RiskService{
		store:    store,
		assessor: risk.NewAssessor(),
		clock:    time.Now,
	}
}

// AssessCampaign evaluates a candidate campaign at submission time.
// Context reads that fail are logged and left empty; the signals that
// depend on them simply don't trigger.
func (s *RiskService) AssessCampaign(ctx context.Context, campaign domain.Campaign) domain.RiskAssessment {
	now := s.clock()
	riskCtx := risk.NewContext(now)

	creator, err := s.store.GetDonor(ctx, campaign.CreatorID)
	if err != nil {
		slog.Debug("risk: creator lookup failed", "creator_id", campaign.CreatorID, "error", err)
		creator = nil
	}

	recent, err := s.store.ListByCreator(ctx, campaign.CreatorID, now.Add(-riskCreatorWindow))
	if err != nil {
		slog.Debug("risk: creator window fetch failed", "creator_id", campaign.CreatorID, "error", err)
	} else {
		riskCtx.CreatorRecent = recent
	}

	total, err := s.store.CountByCreator(ctx, campaign.CreatorID)
	if err != nil {
		slog.Debug("risk: creator count failed", "creator_id", campaign.CreatorID, "error", err)
	} else {
		// Exclude the submission under review from the lifetime count
		if total > 0 {
			total--
		}
		riskCtx.CreatorTotal = total
	}

	existing, err := s.store.ListRecentCampaigns(ctx, riskDuplicateSample)
	if err != nil {
		slog.Debug("risk: duplicate sample fetch failed", "error", err)
	} else {
		riskCtx.Existing = existing
	}

	return s.assessor.AssessCampaign(campaign, creator, riskCtx)
}

// AssessDonation evaluates a donation against the donor's recent activity
func (s *RiskService) AssessDonation(ctx context.Context, donation domain.Donation) domain.RiskAssessment {
	riskCtx := risk.NewContext(s.clock())

	recent, err := s.store.RecentByDonor(ctx, donation.DonorID, riskDonorSample)
	if err != nil {
		slog.Debug("risk: donor activity fetch failed", "donor_id", donation.DonorID, "error", err)
		recent = nil
	}

	return s.assessor.AssessDonation(donation, recent, riskCtx)
}
