package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marathonhub/internal/domain"
	"marathonhub/internal/metrics"
)

type marathonService struct {
	marathonRepo     domain.MarathonRepository
	registrationRepo domain.RegistrationRepository
	contextTimeout   time.Duration
}

func NewMarathonService(
	marathonRepo domain.MarathonRepository,
	registrationRepo domain.RegistrationRepository,
	timeout time.Duration,
) domain.MarathonService {
	return &marathonService{
		marathonRepo:     marathonRepo,
		registrationRepo: registrationRepo,
		contextTimeout:   timeout,
	}
}

func (s *marathonService) CreateMarathon(ctx context.Context, marathon *domain.Marathon) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if marathon.CreatedBy == "" {
		return fmt.Errorf("%w: marathon owner is required", domain.ErrInvalidInput)
	}
	if !marathon.Distance.Valid() {
		return fmt.Errorf("%w: unsupported distance %q", domain.ErrInvalidInput, marathon.Distance)
	}
	if err := marathon.ValidateSchedule(); err != nil {
		return err
	}

	marathon.TotalRegistration = 0
	marathon.CreatedAt = now()
	if err := s.marathonRepo.Create(ctx, marathon); err != nil {
		return fmt.Errorf("create marathon: %w", err)
	}
	metrics.MarathonsCreated.Inc()
	return nil
}

func (s *marathonService) GetMarathon(ctx context.Context, id string) (*domain.Marathon, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	m, err := s.marathonRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get marathon: %w", err)
	}
	return m, nil
}

func (s *marathonService) ListMarathons(ctx context.Context, params domain.ListParams) ([]*domain.Marathon, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if params.Sort == "" {
		params.Sort = domain.SortNewest
	}
	if params.Limit < 0 {
		return nil, fmt.Errorf("%w: limit must be positive", domain.ErrInvalidInput)
	}
	marathons, err := s.marathonRepo.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list marathons: %w", err)
	}
	return marathons, nil
}

func (s *marathonService) ListByOwner(ctx context.Context, ownerID, callerID string) ([]*domain.Marathon, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !domain.CanMutate(callerID, ownerID) {
		return nil, domain.ErrForbidden
	}
	marathons, err := s.marathonRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list marathons by owner: %w", err)
	}
	return marathons, nil
}

// ownedMarathon loads the marathon and checks that callerID owns it.
func (s *marathonService) ownedMarathon(ctx context.Context, id, callerID string) (*domain.Marathon, error) {
	m, err := s.marathonRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get marathon: %w", err)
	}
	if !domain.CanMutate(callerID, m.CreatedBy) {
		return nil, domain.ErrForbidden
	}
	return m, nil
}

func (s *marathonService) UpdateMarathon(ctx context.Context, id, callerID string, update domain.MarathonUpdate) (*domain.Marathon, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	existing, err := s.ownedMarathon(ctx, id, callerID)
	if err != nil {
		return nil, err
	}
	if update.Distance != nil && !update.Distance.Valid() {
		return nil, fmt.Errorf("%w: unsupported distance %q", domain.ErrInvalidInput, *update.Distance)
	}
	merged := *existing
	update.Apply(&merged)
	if err := merged.ValidateSchedule(); err != nil {
		return nil, err
	}

	updated, err := s.marathonRepo.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update marathon: %w", err)
	}
	return updated, nil
}

func (s *marathonService) DeleteMarathon(ctx context.Context, id, callerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.ownedMarathon(ctx, id, callerID); err != nil {
		return err
	}
	// Registrations go first; the counter dies with the marathon so it is not adjusted.
	removed, err := s.registrationRepo.DeleteByMarathon(ctx, id)
	if err != nil {
		return fmt.Errorf("delete registrations: %w", err)
	}
	if err := s.marathonRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete marathon: %w", err)
	}
	metrics.RegistrationsDeleted.Add(float64(removed))
	metrics.MarathonsDeleted.Inc()
	return nil
}
