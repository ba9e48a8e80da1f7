package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"marathonhub/internal/domain"
)

type userService struct {
	userRepo       domain.UserRepository
	emailService   domain.EmailService
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewUserService creates a UserService with the given repository and email service.
func NewUserService(userRepo domain.UserRepository, emailService domain.EmailService, logger *slog.Logger, timeout time.Duration) domain.UserService {
	return &userService{
		userRepo:       userRepo,
		emailService:   emailService,
		logger:         logger,
		contextTimeout: timeout,
	}
}

// now returns the current UTC time at the precision the durable store keeps.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func (s *userService) Register(ctx context.Context, user *domain.User) (*domain.User, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if user.FirebaseUID == "" {
		return nil, false, fmt.Errorf("%w: firebaseUid is required", domain.ErrInvalidInput)
	}
	if existing, err := s.userRepo.GetByExternalID(ctx, user.FirebaseUID); err == nil {
		return existing, false, nil
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, false, fmt.Errorf("get user: %w", err)
	}

	user.CreatedAt = now()
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			// Lost a race with a concurrent first login of the same subject.
			existing, getErr := s.userRepo.GetByExternalID(ctx, user.FirebaseUID)
			if getErr != nil {
				return nil, false, fmt.Errorf("get user: %w", getErr)
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("create user: %w", err)
	}

	data := &domain.WelcomeMessageEmailData{Email: user.Email}
	if user.DisplayName != nil {
		data.DisplayName = *user.DisplayName
	}
	if err := s.emailService.SendWelcomeMessage(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "welcome email not sent", "user_id", user.ID, "err", err)
	}
	return user, true, nil
}

func (s *userService) GetByExternalID(ctx context.Context, firebaseUID string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	u, err := s.userRepo.GetByExternalID(ctx, firebaseUID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}
