package features

import (
	"github.com/givehub/campaign-discovery/internal/domain"
)

// Social proof caps. Donor count and raised amount each contribute at most
// 0.4 so that a flood of tiny donations or one whale cannot saturate the
// feature alone; crossing a quarter of the goal adds a flat momentum bonus.
const (
	socialProofDonorCap    = 100      // donors at which the donor term saturates
	socialProofAmountCap   = 100000.0 // raised amount at which the amount term saturates
	socialProofDonorMax    = 0.4
	socialProofAmountMax   = 0.4
	socialProofMomentumCut = 0.25
	socialProofMomentumBon = 0.2
)

// SocialProofExtractor scores how much community backing a campaign has
type SocialProofExtractor struct{}

// NewSocialProofExtractor creates the social-proof feature
func NewSocialProofExtractor() *SocialProofExtractor {
	return &SocialProofExtractor{}
}

// Name returns the feature name
func (e *SocialProofExtractor) Name() string {
	return "social_proof"
}

// Extract combines capped donor-count and raised-amount terms with a flat
// bonus once completion passes 25%. Result is bounded [0,1] by construction.
func (e *SocialProofExtractor) Extract(campaign domain.Campaign, _ *domain.Donor, _ *Context) float64 {
	donors := float64(campaign.DonorCount)
	if donors < 0 {
		donors = 0
	}
	donorTerm := clamp(donors/socialProofDonorCap, 0, 1) * socialProofDonorMax

	raised := campaign.RaisedAmount
	if raised < 0 {
		raised = 0
	}
	amountTerm := clamp(raised/socialProofAmountCap, 0, 1) * socialProofAmountMax

	score := donorTerm + amountTerm
	if campaign.CompletionRatio() > socialProofMomentumCut {
		score += socialProofMomentumBon
	}
	return clamp(score, 0, 1)
}
