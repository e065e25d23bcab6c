package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Category is the fixed set of domain tags a campaign can carry
type Category string

const (
	CategoryMedical        Category = "medical"
	CategoryEmergency      Category = "emergency"
	CategoryEducation      Category = "education"
	CategoryEnvironment    Category = "environment"
	CategoryCommunity      Category = "community"
	CategoryAnimals        Category = "animals"
	CategoryDisasterRelief Category = "disaster_relief"
	CategoryOther          Category = "other"
)

// Categories lists every valid category, in canonical order
var Categories = []Category{
	CategoryMedical,
	CategoryEmergency,
	CategoryEducation,
	CategoryEnvironment,
	CategoryCommunity,
	CategoryAnimals,
	CategoryDisasterRelief,
	CategoryOther,
}

// IsValid reports whether c is one of the enumerated categories
func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// CampaignStatus tracks the lifecycle of a campaign
type CampaignStatus string

const (
	StatusActive    CampaignStatus = "active"
	StatusCompleted CampaignStatus = "completed"
	StatusCancelled CampaignStatus = "cancelled"
	StatusPending   CampaignStatus = "pending"
)

// Location is a coarse geographic reference attached to campaigns and donors
type Location struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
}

// IsZero reports whether no geographic information is present
func (l Location) IsZero() bool {
	return l.City == "" && l.State == "" && l.Country == ""
}

// Donor represents a platform user who donates to or creates campaigns
type Donor struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Verified      bool      `json:"verified"`
	PhoneVerified bool      `json:"phone_verified"`
	HasPhoto      bool      `json:"has_photo"`
	HasBio        bool      `json:"has_bio"`
	Location      Location  `json:"location"`
	CreatedAt     time.Time `json:"created_at"`
}

// Campaign represents a fundraising campaign as read from storage.
// This subsystem never mutates campaigns; it only scores them.
type Campaign struct {
	ID           uuid.UUID      `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Category     Category       `json:"category"`
	Location     Location       `json:"location"`
	GoalAmount   float64        `json:"goal_amount"`   // always > 0
	RaisedAmount float64        `json:"raised_amount"` // always >= 0
	DonorCount   int            `json:"donor_count"`
	CreatorID    uuid.UUID      `json:"creator_id"`
	Status       CampaignStatus `json:"status"`
	Verified     bool           `json:"verified"`
	ShareCount   int            `json:"share_count"`
	CreatedAt    time.Time      `json:"created_at"`
	EndDate      time.Time      `json:"end_date"` // zero value means no deadline
}

// CompletionRatio returns raised/goal clamped to [0,1].
// Goal is guaranteed positive by the store, but a zero guard keeps
// this safe on hand-built test fixtures.
func (c Campaign) CompletionRatio() float64 {
	if c.GoalAmount <= 0 {
		return 0
	}
	ratio := c.RaisedAmount / c.GoalAmount
	if ratio > 1 {
		return 1
	}
	return ratio
}

// DaysRemaining returns whole days until the campaign deadline, negative
// if the deadline has passed. Returns false when no deadline is set.
func (c Campaign) DaysRemaining(now time.Time) (float64, bool) {
	if c.EndDate.IsZero() {
		return 0, false
	}
	return c.EndDate.Sub(now).Hours() / 24, true
}

// AverageDonation returns the mean donation size so far, or 0 when the
// campaign has no donors yet.
func (c Campaign) AverageDonation() float64 {
	if c.DonorCount <= 0 {
		return 0
	}
	return c.RaisedAmount / float64(c.DonorCount)
}

// Donation represents a single completed contribution
type Donation struct {
	ID            uuid.UUID `json:"id"`
	DonorID       uuid.UUID `json:"donor_id"`
	CampaignID    uuid.UUID `json:"campaign_id"`
	Amount        float64   `json:"amount"` // always > 0
	PaymentMethod string    `json:"payment_method"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// DonationRecord is a donation joined with the category and location of the
// campaign it funded. The profile builder consumes these instead of issuing
// one campaign lookup per donation.
type DonationRecord struct {
	Donation
	Category Category `json:"category"`
	Location Location `json:"location"`
}

// FeatureVector holds every per-campaign feature computed for one request.
// All values are in [0,1]; vectors are recomputed per request, never persisted.
type FeatureVector struct {
	Urgency            float64 `json:"urgency"`
	CreatorTrust       float64 `json:"creator_trust"`
	SocialProof        float64 `json:"social_proof"`
	Trending           float64 `json:"trending"`
	SuccessProbability float64 `json:"success_probability"`
	CategoryAffinity   float64 `json:"category_affinity"`
	GeoAffinity        float64 `json:"geo_affinity"`
	AmountCompat       float64 `json:"amount_compatibility"`
}

// DonorProfile aggregates a donor's giving history into the preference
// signals the personalization features consume. Built fresh per request
// (or served from the injected cache); never shared across donors.
type DonorProfile struct {
	DonorID uuid.UUID `json:"donor_id"`

	// CategoryDistribution maps category -> share of the donor's donations,
	// normalized to sum to 1. Empty for donors with no history.
	CategoryDistribution map[Category]float64 `json:"category_distribution"`

	// PreferredRegions maps "city"/"state" keys to raw occurrence counts.
	PreferredRegions map[string]int `json:"preferred_regions"`

	AverageDonationAmount float64  `json:"average_donation_amount"`
	DonationsPerDay       float64  `json:"donations_per_day"`
	TotalDonations        int      `json:"total_donations"`
	Location              Location `json:"location"`
}

// IsEmpty reports whether the profile carries no history at all, in which
// case every personalization feature falls back to its neutral default.
func (p *DonorProfile) IsEmpty() bool {
	return p == nil || p.TotalDonations == 0
}

// RankedCampaign is a campaign plus the scoring metadata attached by the
// ranking pipeline. Reasons are presentational only and never influence order.
type RankedCampaign struct {
	Campaign       Campaign      `json:"campaign"`
	RelevanceScore float64       `json:"relevance_score"`
	TextMatchScore float64       `json:"text_match_score"`
	Features       FeatureVector `json:"features"`
	Reasons        []string      `json:"reasons,omitempty"`
}

// RiskFlag records one triggered fraud heuristic
type RiskFlag struct {
	Type     string  `json:"type"`     // e.g. "RAPID_CAMPAIGN_CREATION"
	Weight   float64 `json:"weight"`   // contribution to the 0-100 score
	Evidence string  `json:"evidence"` // human-readable explanation
}

// RiskAssessment is the output of the fraud heuristics pass. It is computed
// synchronously at submission time and is independent of ranking.
type RiskAssessment struct {
	SubjectID  uuid.UUID  `json:"subject_id"`
	Score      float64    `json:"score"` // 0 to 100
	Level      string     `json:"level"` // "low", "medium", "high"
	Flags      []RiskFlag `json:"flags"`
	AssessedAt time.Time  `json:"assessed_at"`
}

// Risk classification thresholds. Anything at or above RiskHighThreshold is
// blocked from auto-publishing by the surrounding platform.
const (
	RiskMediumThreshold = 30.0
	RiskHighThreshold   = 60.0
)

// RiskLevel converts a 0-100 risk score to a categorical level
func RiskLevel(score float64) string {
	switch {
	case score >= RiskHighThreshold:
		return "high"
	case score >= RiskMediumThreshold:
		return "medium"
	default:
		return "low"
	}
}

// Sentinel errors shared across the module
var (
	// ErrNotFound is returned by stores when a record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrNoLocation is returned by nearby recommendations when the donor
	// has no location on their profile
	ErrNoLocation = errors.New("donor has no location on profile")
)
