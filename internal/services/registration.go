package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"marathonhub/internal/domain"
	"marathonhub/internal/metrics"
)

// errAlreadyRegistered wraps domain.ErrConflict for a repeated (user, marathon) registration.
var errAlreadyRegistered = fmt.Errorf("%w: already registered for this marathon", domain.ErrConflict)

type registrationService struct {
	registrationRepo domain.RegistrationRepository
	marathonRepo     domain.MarathonRepository
	userRepo         domain.UserRepository
	emailService     domain.EmailService
	logger           *slog.Logger
	contextTimeout   time.Duration
}

// NewRegistrationService creates a RegistrationService. It keeps each marathon's
// TotalRegistration in step with the registrations that reference it.
func NewRegistrationService(
	registrationRepo domain.RegistrationRepository,
	marathonRepo domain.MarathonRepository,
	userRepo domain.UserRepository,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.RegistrationService {
	return &registrationService{
		registrationRepo: registrationRepo,
		marathonRepo:     marathonRepo,
		userRepo:         userRepo,
		emailService:     emailService,
		logger:           logger,
		contextTimeout:   timeout,
	}
}

func (s *registrationService) Register(ctx context.Context, reg *domain.Registration) (*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if reg.UserID == "" {
		return nil, fmt.Errorf("%w: registrant is required", domain.ErrInvalidInput)
	}
	marathon, err := s.marathonRepo.GetByID(ctx, reg.MarathonID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get marathon: %w", err)
	}

	// The unique index is what really prevents duplicates; this check just avoids the write.
	if _, err := s.registrationRepo.GetByUserAndMarathon(ctx, reg.UserID, reg.MarathonID); err == nil {
		metrics.RegistrationConflicts.Inc()
		return nil, errAlreadyRegistered
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get registration: %w", err)
	}

	if reg.Email == "" {
		user, err := s.userRepo.GetByID(ctx, reg.UserID)
		if err != nil {
			return nil, fmt.Errorf("get registrant: %w", err)
		}
		reg.Email = user.Email
	}

	reg.CreatedAt = now()
	if err := s.registrationRepo.Create(ctx, reg); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			metrics.RegistrationConflicts.Inc()
			return nil, errAlreadyRegistered
		}
		return nil, fmt.Errorf("create registration: %w", err)
	}

	if err := s.marathonRepo.AdjustRegistrationCount(ctx, reg.MarathonID, 1); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// The marathon was deleted between the two writes; drop the orphan.
			if delErr := s.registrationRepo.Delete(ctx, reg.ID); delErr != nil && !errors.Is(delErr, domain.ErrNotFound) {
				s.logger.ErrorContext(ctx, "orphan registration left behind", "registration_id", reg.ID, "err", delErr)
			}
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("increment registration count: %w", err)
	}
	metrics.RegistrationsCreated.Inc()

	data := &domain.RegistrationConfirmationEmailData{
		Email:          reg.Email,
		FirstName:      reg.FirstName,
		MarathonTitle:  marathon.Title,
		Location:       marathon.Location,
		Distance:       string(marathon.Distance),
		StartDate:      marathon.StartDate.Format("January 2, 2006"),
		RegistrationID: reg.ID,
	}
	if err := s.emailService.SendRegistrationConfirmation(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "registration confirmation not sent", "registration_id", reg.ID, "err", err)
	}
	return reg, nil
}

// ownedRegistration loads the registration and checks that callerID is the registrant.
func (s *registrationService) ownedRegistration(ctx context.Context, id, callerID string) (*domain.Registration, error) {
	reg, err := s.registrationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	if !domain.CanMutate(callerID, reg.UserID) {
		return nil, domain.ErrForbidden
	}
	return reg, nil
}

func (s *registrationService) GetRegistration(ctx context.Context, id, callerID string) (*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.ownedRegistration(ctx, id, callerID)
}

func (s *registrationService) ListByUser(ctx context.Context, userID, callerID, search string) ([]*domain.RegistrationWithMarathon, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !domain.CanMutate(callerID, userID) {
		return nil, domain.ErrForbidden
	}
	rows, err := s.registrationRepo.ListByUser(ctx, userID, search)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return rows, nil
}

func (s *registrationService) UpdateRegistration(ctx context.Context, id, callerID string, update domain.RegistrationUpdate) (*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.ownedRegistration(ctx, id, callerID); err != nil {
		return nil, err
	}
	updated, err := s.registrationRepo.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update registration: %w", err)
	}
	return updated, nil
}

func (s *registrationService) DeleteRegistration(ctx context.Context, id, callerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	reg, err := s.ownedRegistration(ctx, id, callerID)
	if err != nil {
		return err
	}
	if err := s.registrationRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete registration: %w", err)
	}
	if err := s.marathonRepo.AdjustRegistrationCount(ctx, reg.MarathonID, -1); err != nil {
		return fmt.Errorf("decrement registration count: %w", err)
	}
	metrics.RegistrationsDeleted.Inc()
	return nil
}
