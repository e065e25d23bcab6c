package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/givehub/campaign-discovery/internal/cache"
	"github.com/givehub/campaign-discovery/internal/domain"
	"github.com/givehub/campaign-discovery/internal/domain/profile"
	"github.com/givehub/campaign-discovery/internal/ports"
	"github.com/google/uuid"
)

// ProfileProvider builds donor preference profiles, serving them from an
// injected TTL cache when possible.
//
// The cache is keyed by donor ID so one donor's profile can never be served
// to another; Invalidate must be called whenever the donor records a new
// donation.
type ProfileProvider struct {
	store   ports.Storage
	cache   *cache.TTL[uuid.UUID, *domain.DonorProfile]
	timeout time.Duration
}

// NewProfileProvider creates a provider with the given cache and per-fetch
// timeout. A zero timeout disables the bound.
func NewProfileProvider(store ports.Storage, profileCache *cache.TTL[uuid.UUID, *domain.DonorProfile], timeout time.Duration) *ProfileProvider {
	return &ProfileProvider{
		store:   store,
		cache:   profileCache,
		timeout: timeout,
	}
}

// Profile returns the donor's preference profile, building it from donation
// history on a cache miss. The donor record and the donation history are
// independent reads, so they are fetched concurrently and joined.
func (p *ProfileProvider) Profile(ctx context.Context, donorID uuid.UUID) (*domain.DonorProfile, error) {
	if cached, ok := p.cache.Get(donorID); ok {
		return cached, nil
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	var (
		wg         sync.WaitGroup
		donor      *domain.Donor
		donorErr   error
		history    []domain.DonationRecord
		historyErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		donor, donorErr = p.store.GetDonor(ctx, donorID)
	}()
	go func() {
		defer wg.Done()
		history, historyErr = p.store.DonorHistory(ctx, donorID)
	}()
	wg.Wait()

	if historyErr != nil {
		return nil, fmt.Errorf("failed to fetch donation history: %w", historyErr)
	}

	// A missing donor record is not fatal: the profile just has no home
	// location and geo affinity degrades to donated-into regions.
	home := domain.Location{}
	if donorErr != nil {
		slog.Debug("donor record unavailable for profile", "donor_id", donorID, "error", donorErr)
	} else {
		home = donor.Location
	}

	built := profile.Build(donorID, home, history)
	p.cache.Set(donorID, built)
	return built, nil
}

// Invalidate drops the donor's cached profile. Call on new-donation events.
func (p *ProfileProvider) Invalidate(donorID uuid.UUID) {
	p.cache.Invalidate(donorID)
}
