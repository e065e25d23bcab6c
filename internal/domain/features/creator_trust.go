package features

import (
	"github.com/givehub/campaign-discovery/internal/domain"
)

// Trust signal weights. The raw sum ranges 0 to 2.5; it is normalized by the
// maximum so creator trust is comparable with every other [0,1] feature.
// The legacy behavior left the sum uncapped, which made trust dominate
// whenever a creator had every signal set; normalizing fixes comparability.
const (
	trustVerifiedWeight = 1.0
	trustPhotoWeight    = 0.5
	trustBioWeight      = 0.3
	trustPhoneWeight    = 0.7
	trustMaxSum         = trustVerifiedWeight + trustPhotoWeight + trustBioWeight + trustPhoneWeight

	trustUnknownCreator = 0.20 // creator record missing or fetch failed
)

// CreatorTrustExtractor scores how established the campaign creator is
type CreatorTrustExtractor struct{}

// NewCreatorTrustExtractor creates the creator-trust feature
func NewCreatorTrustExtractor() *CreatorTrustExtractor {
	return &CreatorTrustExtractor{}
}

// Name returns the feature name
func (e *CreatorTrustExtractor) Name() string {
	return "creator_trust"
}

// Extract sums boolean trust signals on the creator, normalized to [0,1].
// A missing creator degrades to a low-but-nonzero default rather than zero,
// since a failed lookup is not evidence of an untrustworthy creator.
func (e *CreatorTrustExtractor) Extract(campaign domain.Campaign, creator *domain.Donor, _ *Context) float64 {
	if creator == nil {
		return trustUnknownCreator
	}

	sum := 0.0
	if creator.Verified {
		sum += trustVerifiedWeight
	}
	if creator.HasPhoto {
		sum += trustPhotoWeight
	}
	if creator.HasBio {
		sum += trustBioWeight
	}
	if creator.PhoneVerified {
		sum += trustPhoneWeight
	}

	// Platform-verified campaigns get full marks regardless of profile
	// completeness; manual verification subsumes the weaker signals.
	if campaign.Verified {
		return 1.0
	}

	return clamp(sum/trustMaxSum, 0, 1)
}
