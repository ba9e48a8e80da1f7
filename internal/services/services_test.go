package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"marathonhub/internal/domain"
	"marathonhub/internal/repository/memory"
)

const testTimeout = 5 * time.Second

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fakeEmailService records what would have been sent.
type fakeEmailService struct {
	mu            sync.Mutex
	welcomes      []*domain.WelcomeMessageEmailData
	confirmations []*domain.RegistrationConfirmationEmailData
	err           error
}

func (f *fakeEmailService) SendWelcomeMessage(ctx context.Context, data *domain.WelcomeMessageEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.welcomes = append(f.welcomes, data)
	return f.err
}

func (f *fakeEmailService) SendRegistrationConfirmation(ctx context.Context, data *domain.RegistrationConfirmationEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmations = append(f.confirmations, data)
	return f.err
}

// flakyMarathonRepo wraps a real repository and overrides AdjustRegistrationCount.
type flakyMarathonRepo struct {
	domain.MarathonRepository
	adjustErr error
}

func (f *flakyMarathonRepo) AdjustRegistrationCount(ctx context.Context, id string, delta int) error {
	if f.adjustErr != nil {
		return f.adjustErr
	}
	return f.MarathonRepository.AdjustRegistrationCount(ctx, id, delta)
}

var errBoom = errors.New("boom")

type testEnv struct {
	users         domain.UserRepository
	marathons     domain.MarathonRepository
	registrations domain.RegistrationRepository
	email         *fakeEmailService
}

func newTestEnv() *testEnv {
	store := memory.New()
	return &testEnv{
		users:         memory.NewUserRepository(store),
		marathons:     memory.NewMarathonRepository(store),
		registrations: memory.NewRegistrationRepository(store),
		email:         &fakeEmailService{},
	}
}

func (e *testEnv) userService() domain.UserService {
	return NewUserService(e.users, e.email, testLogger(), testTimeout)
}

func (e *testEnv) marathonService() domain.MarathonService {
	return NewMarathonService(e.marathons, e.registrations, testTimeout)
}

func (e *testEnv) registrationService() domain.RegistrationService {
	return NewRegistrationService(e.registrations, e.marathons, e.users, e.email, testLogger(), testTimeout)
}

func (e *testEnv) seedUser(ctx context.Context, subject string) *domain.User {
	u := domain.NewUser(subject, subject+"@example.com", nil, nil, time.Now().UTC())
	if err := e.users.Create(ctx, u); err != nil {
		panic(err)
	}
	return u
}

func validMarathon(ownerID string) *domain.Marathon {
	base := time.Date(2030, 5, 1, 7, 0, 0, 0, time.UTC)
	return &domain.Marathon{
		Title:        "Spring Marathon",
		Description:  "Two laps of the park",
		Location:     "Porto",
		Distance:     domain.Distance42K,
		RegStartDate: base,
		RegEndDate:   base.AddDate(0, 0, 20),
		StartDate:    base.AddDate(0, 1, 0),
		ImageURL:     "https://img.example.com/spring.png",
		CreatedBy:    ownerID,
	}
}

func strPtr(s string) *string { return &s }
