// Package history provides read access to persisted calculation results
// and per-owner activity tracking.
package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/opensource-trade/skipjack/internal/domain"
	"github.com/opensource-trade/skipjack/internal/repository"
)

// Service reads calculation history and tracks owner activity.
type Service struct {
	repo  domain.Repository
	cache domain.Cache
}

// NewService creates a new history service.
func NewService(repo domain.Repository, cache domain.Cache) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
	}
}

// Get returns one stored calculation by ID with owner isolation.
func (s *Service) Get(ctx context.Context, ownerID, calcID string) (*domain.CalculationResult, error) {
	if ownerID == "" || calcID == "" {
		return nil, fmt.Errorf("ownerID and calcID are required")
	}

	calc, err := s.repo.GetCalculation(ctx, ownerID, calcID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, domain.NewNotFoundError("calculation", calcID)
	}
	return calc, err
}

// Recent returns an owner's calculations performed since the given time,
// newest first.
func (s *Service) Recent(ctx context.Context, ownerID string, since time.Time, limit int) ([]*domain.CalculationResult, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("ownerID is required")
	}
	return s.repo.ListCalculations(ctx, ownerID, since, limit)
}

// RecordActivity bumps the owner's sliding activity counter and returns
// the count inside the window.
func (s *Service) RecordActivity(ctx context.Context, ownerID string, window time.Duration) (int64, error) {
	if s.cache == nil {
		return 0, nil
	}
	return s.cache.IncrementCounter(ctx, ownerID, "calculations", window)
}

// CountSince returns how many calculations an owner performed since a
// point in time.
func (s *Service) CountSince(ctx context.Context, ownerID string, since time.Time) (int64, error) {
	calcs, err := s.repo.ListCalculations(ctx, ownerID, since, 0)
	if err != nil {
		return 0, fmt.Errorf("failed to list calculations: %w", err)
	}
	return int64(len(calcs)), nil
}
