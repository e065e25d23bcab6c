package risk

import (
	"math"

	"github.com/givehub/campaign-discovery/internal/domain"
	"github.com/google/uuid"
)

// Assessor runs all risk signals and aggregates triggered flags into a
// 0-100 score with a categorical level.
//
// Flags keep the registration order of their signals so assessments are
// reproducible run to run.
type Assessor struct {
	campaignSignals []CampaignSignal
	donationSignals []DonationSignal
}

// NewAssessor creates an assessor with the standard signal set
func NewAssessor() *Assessor {
	return &Assessor{
		campaignSignals: []CampaignSignal{
			NewNewCreatorSignal(),
			NewGoalOutlierSignal(),
			NewDuplicateTextSignal(),
			NewRapidCreationSignal(),
		},
		donationSignals: []DonationSignal{
			NewIdenticalAmountSignal(),
			NewRapidDonationSignal(),
			NewOversizeDonationSignal(),
		},
	}
}

// AssessCampaign runs every campaign signal and classifies the sum
func (a *Assessor) AssessCampaign(campaign domain.Campaign, creator *domain.Donor, ctx *Context) domain.RiskAssessment {
	flags := make([]domain.RiskFlag, 0)
	for _, signal := range a.campaignSignals {
		if flag := signal.Evaluate(campaign, creator, ctx); flag != nil {
			flags = append(flags, *flag)
		}
	}
	return a.classify(campaign.ID, flags, ctx)
}

// AssessDonation runs every donation signal and classifies the sum.
// recent must hold the donor's prior donations ordered newest first.
func (a *Assessor) AssessDonation(donation domain.Donation, recent []domain.Donation, ctx *Context) domain.RiskAssessment {
	flags := make([]domain.RiskFlag, 0)
	for _, signal := range a.donationSignals {
		if flag := signal.Evaluate(donation, recent, ctx); flag != nil {
			flags = append(flags, *flag)
		}
	}
	return a.classify(donation.ID, flags, ctx)
}

func (a *Assessor) classify(subjectID uuid.UUID, flags []domain.RiskFlag, ctx *Context) domain.RiskAssessment {
	score := 0.0
	for _, flag := range flags {
		score += flag.Weight
	}
	score = math.Min(score, 100)

	return domain.RiskAssessment{
		SubjectID:  subjectID,
		Score:      score,
		Level:      domain.RiskLevel(score),
		Flags:      flags,
		AssessedAt: ctx.Now,
	}
}
