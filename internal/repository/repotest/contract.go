// Package repotest holds the behaviour every storage backend must share. Backends run it from
// their own tests so the in-memory fallback and MongoDB stay interchangeable.
package repotest

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marathonhub/internal/domain"
	"marathonhub/internal/services"
)

// Repos is one backend's set of repositories, freshly emptied for each test.
type Repos struct {
	Users         domain.UserRepository
	Marathons     domain.MarathonRepository
	Registrations domain.RegistrationRepository
}

// Factory returns empty repositories for a single test.
type Factory func(t *testing.T) Repos

type noopEmailService struct{}

func (noopEmailService) SendWelcomeMessage(context.Context, *domain.WelcomeMessageEmailData) error {
	return nil
}

func (noopEmailService) SendRegistrationConfirmation(context.Context, *domain.RegistrationConfirmationEmailData) error {
	return nil
}

type fixture struct {
	repos         Repos
	users         domain.UserService
	marathons     domain.MarathonService
	registrations domain.RegistrationService
}

func newFixture(t *testing.T, factory Factory) *fixture {
	t.Helper()
	repos := factory(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
	timeout := 5 * time.Second
	return &fixture{
		repos:         repos,
		users:         services.NewUserService(repos.Users, noopEmailService{}, logger, timeout),
		marathons:     services.NewMarathonService(repos.Marathons, repos.Registrations, timeout),
		registrations: services.NewRegistrationService(repos.Registrations, repos.Marathons, repos.Users, noopEmailService{}, logger, timeout),
	}
}

func (f *fixture) user(t *testing.T, subject string) *domain.User {
	t.Helper()
	u, _, err := f.users.Register(context.Background(), domain.NewUser(subject, subject+"@example.com", nil, nil, time.Time{}))
	require.NoError(t, err)
	return u
}

// NewMarathon returns a valid marathon owned by ownerID.
func NewMarathon(ownerID, title string) *domain.Marathon {
	base := time.Date(2030, 3, 1, 8, 0, 0, 0, time.UTC)
	return &domain.Marathon{
		Title:        title,
		Description:  "Flat course along the river",
		Location:     "Lisbon",
		Distance:     domain.Distance42K,
		RegStartDate: base,
		RegEndDate:   base.AddDate(0, 1, 0),
		StartDate:    base.AddDate(0, 2, 0),
		ImageURL:     "https://img.example.com/" + title + ".png",
		CreatedBy:    ownerID,
	}
}

func (f *fixture) marathon(t *testing.T, ownerID, title string) *domain.Marathon {
	t.Helper()
	m := NewMarathon(ownerID, title)
	require.NoError(t, f.marathons.CreateMarathon(context.Background(), m))
	return m
}

func (f *fixture) register(ctx context.Context, userID, marathonID string) (*domain.Registration, error) {
	return f.registrations.Register(ctx, &domain.Registration{
		UserID:     userID,
		MarathonID: marathonID,
		FirstName:  "Ana",
		LastName:   "Silva",
		Contact:    "+351900000000",
	})
}

func (f *fixture) count(t *testing.T, marathonID string) int {
	t.Helper()
	m, err := f.marathons.GetMarathon(context.Background(), marathonID)
	require.NoError(t, err)
	return m.TotalRegistration
}

// Run executes the shared suite against the backend built by factory.
func Run(t *testing.T, factory Factory) {
	t.Run("registration counter follows create conflict and delete", func(t *testing.T) {
		f := newFixture(t, factory)
		ctx := context.Background()
		owner := f.user(t, "owner")
		runner := f.user(t, "runner")
		m := f.marathon(t, owner.ID, "City Marathon")
		require.Equal(t, 0, f.count(t, m.ID))

		reg, err := f.register(ctx, runner.ID, m.ID)
		require.NoError(t, err)
		assert.Equal(t, runner.Email, reg.Email)
		assert.Equal(t, 1, f.count(t, m.ID))

		_, err = f.register(ctx, runner.ID, m.ID)
		require.ErrorIs(t, err, domain.ErrConflict)
		assert.Equal(t, 1, f.count(t, m.ID))

		require.NoError(t, f.registrations.DeleteRegistration(ctx, reg.ID, runner.ID))
		assert.Equal(t, 0, f.count(t, m.ID))
		_, err = f.repos.Registrations.GetByID(ctx, reg.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("repository rejects a duplicate pair", func(t *testing.T) {
		f := newFixture(t, factory)
		ctx := context.Background()
		reg := &domain.Registration{UserID: "u1", MarathonID: "m1", FirstName: "A", LastName: "B", Contact: "1"}
		require.NoError(t, f.repos.Registrations.Create(ctx, reg))
		dup := &domain.Registration{UserID: "u1", MarathonID: "m1", FirstName: "C", LastName: "D", Contact: "2"}
		require.ErrorIs(t, f.repos.Registrations.Create(ctx, dup), domain.ErrConflict)
	})

	t.Run("repository rejects a duplicate subject", func(t *testing.T) {
		f := newFixture(t, factory)
		ctx := context.Background()
		require.NoError(t, f.repos.Users.Create(ctx, domain.NewUser("sub-1", "a@example.com", nil, nil, time.Now().UTC())))
		err := f.repos.Users.Create(ctx, domain.NewUser("sub-1", "b@example.com", nil, nil, time.Now().UTC()))
		require.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("deleting a marathon removes its registrations", func(t *testing.T) {
		f := newFixture(t, factory)
		ctx := context.Background()
		owner := f.user(t, "owner")
		m := f.marathon(t, owner.ID, "Trail Run")
		other := f.marathon(t, owner.ID, "Night Run")

		var regIDs []string
		for _, sub := range []string{"r1", "r2", "r3"} {
			u := f.user(t, sub)
			reg, err := f.register(ctx, u.ID, m.ID)
			require.NoError(t, err)
			regIDs = append(regIDs, reg.ID)
		}
		keep, err := f.register(ctx, owner.ID, other.ID)
		require.NoError(t, err)
		require.Equal(t, 3, f.count(t, m.ID))

		require.NoError(t, f.marathons.DeleteMarathon(ctx, m.ID, owner.ID))

		for _, id := range regIDs {
			_, err := f.repos.Registrations.GetByID(ctx, id)
			assert.ErrorIs(t, err, domain.ErrNotFound)
		}
		_, err = f.marathons.GetMarathon(ctx, m.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		_, err = f.repos.Registrations.GetByID(ctx, keep.ID)
		assert.NoError(t, err)
		assert.Equal(t, 1, f.count(t, other.ID))
	})

	t.Run("only the owner changes a marathon", func(t *testing.T) {
		f := newFixture(t, factory)
		ctx := context.Background()
		owner := f.user(t, "owner")
		intruder := f.user(t, "intruder")
		m := f.marathon(t, owner.ID, "Harbour 10k")

		title := "Hijacked"
		_, err := f.marathons.UpdateMarathon(ctx, m.ID, intruder.ID, domain.MarathonUpdate{Title: &title})
		require.ErrorIs(t, err, domain.ErrForbidden)
		require.ErrorIs(t, f.marathons.DeleteMarathon(ctx, m.ID, intruder.ID), domain.ErrForbidden)

		got, err := f.marathons.GetMarathon(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, "Harbour 10k", got.Title)

		title = "Harbour 10k 2030"
		updated, err := f.marathons.UpdateMarathon(ctx, m.ID, owner.ID, domain.MarathonUpdate{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, title, updated.Title)
		assert.Equal(t, owner.ID, updated.CreatedBy)
	})

	t.Run("only the registrant changes a registration", func(t *testing.T) {
		f := newFixture(t, factory)
		ctx := context.Background()
		owner := f.user(t, "owner")
		runner := f.user(t, "runner")
		m := f.marathon(t, owner.ID, "Bridge Run")
		reg, err := f.register(ctx, runner.ID, m.ID)
		require.NoError(t, err)

		contact := "+351911111111"
		_, err = f.registrations.UpdateRegistration(ctx, reg.ID, owner.ID, domain.RegistrationUpdate{Contact: &contact})
		require.ErrorIs(t, err, domain.ErrForbidden)
		require.ErrorIs(t, f.registrations.DeleteRegistration(ctx, reg.ID, owner.ID), domain.ErrForbidden)
		assert.Equal(t, 1, f.count(t, m.ID))

		updated, err := f.registrations.UpdateRegistration(ctx, reg.ID, runner.ID, domain.RegistrationUpdate{Contact: &contact})
		require.NoError(t, err)
		assert.Equal(t, contact, updated.Contact)
		assert.Equal(t, "Ana", updated.FirstName)
		assert.Equal(t, m.ID, updated.MarathonID)
	})

	t.Run("listing order is monotonic and stable on ties", func(t *testing.T) {
		f := newFixture(t, factory)
		ctx := context.Background()
		t0 := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
		stamps := []time.Time{t0, t0.Add(time.Second), t0.Add(time.Second), t0.Add(2 * time.Second)}
		var ids []string
		for i, ts := range stamps {
			m := NewMarathon("owner", string(rune('a'+i)))
			m.CreatedAt = ts
			require.NoError(t, f.repos.Marathons.Create(ctx, m))
			ids = append(ids, m.ID)
		}

		oldest, err := f.repos.Marathons.List(ctx, domain.ListParams{Sort: domain.SortOldest})
		require.NoError(t, err)
		assert.Equal(t, ids, marathonIDs(oldest))

		newest, err := f.repos.Marathons.List(ctx, domain.ListParams{Sort: domain.SortNewest})
		require.NoError(t, err)
		assert.Equal(t, []string{ids[3], ids[1], ids[2], ids[0]}, marathonIDs(newest))

		limited, err := f.repos.Marathons.List(ctx, domain.ListParams{Sort: domain.SortNewest, Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, []string{ids[3], ids[1]}, marathonIDs(limited))
	})

	t.Run("search joins marathons and filters by title", func(t *testing.T) {
		f := newFixture(t, factory)
		ctx := context.Background()
		owner := f.user(t, "owner")
		runner := f.user(t, "runner")
		city := f.marathon(t, owner.ID, "City Marathon")
		trail := f.marathon(t, owner.ID, "Mountain Trail")
		_, err := f.register(ctx, runner.ID, city.ID)
		require.NoError(t, err)
		_, err = f.register(ctx, runner.ID, trail.ID)
		require.NoError(t, err)

		all, err := f.registrations.ListByUser(ctx, runner.ID, runner.ID, "")
		require.NoError(t, err)
		require.Len(t, all, 2)
		for _, row := range all {
			require.NotNil(t, row.Marathon)
			assert.Equal(t, row.MarathonID, row.Marathon.ID)
		}

		hits, err := f.registrations.ListByUser(ctx, runner.ID, runner.ID, "trail")
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, "Mountain Trail", hits[0].Marathon.Title)

		none, err := f.registrations.ListByUser(ctx, runner.ID, runner.ID, "desert")
		require.NoError(t, err)
		assert.NotNil(t, none)
		assert.Empty(t, none)

		meta, err := f.registrations.ListByUser(ctx, runner.ID, runner.ID, ".*")
		require.NoError(t, err)
		assert.Empty(t, meta)

		_, err = f.registrations.ListByUser(ctx, runner.ID, owner.ID, "")
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("decrement never goes below zero", func(t *testing.T) {
		f := newFixture(t, factory)
		ctx := context.Background()
		m := NewMarathon("owner", "Floor")
		require.NoError(t, f.repos.Marathons.Create(ctx, m))

		require.NoError(t, f.repos.Marathons.AdjustRegistrationCount(ctx, m.ID, -1))
		got, err := f.repos.Marathons.GetByID(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, got.TotalRegistration)

		err = f.repos.Marathons.AdjustRegistrationCount(ctx, "missing", 1)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("user registration is idempotent per subject", func(t *testing.T) {
		f := newFixture(t, factory)
		ctx := context.Background()
		first, created, err := f.users.Register(ctx, domain.NewUser("sub-9", "nine@example.com", nil, nil, time.Time{}))
		require.NoError(t, err)
		assert.True(t, created)

		again, created, err := f.users.Register(ctx, domain.NewUser("sub-9", "other@example.com", nil, nil, time.Time{}))
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, first.ID, again.ID)
		assert.Equal(t, "nine@example.com", again.Email)
	})
}

func marathonIDs(ms []*domain.Marathon) []string {
	ids := make([]string, 0, len(ms))
	for _, m := range ms {
		ids = append(ids, m.ID)
	}
	return ids
}
