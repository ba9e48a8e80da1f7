package services

import (
	"context"
	"testing"

	"marathonhub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistration(userID, marathonID string) *domain.Registration {
	return &domain.Registration{
		UserID:     userID,
		MarathonID: marathonID,
		FirstName:  "Rui",
		LastName:   "Costa",
		Contact:    "+351912345678",
	}
}

func TestRegistrationService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults email and confirms", func(t *testing.T) {
		env := newTestEnv()
		runner := env.seedUser(ctx, "runner")
		m := validMarathon("owner")
		require.NoError(t, env.marathonService().CreateMarathon(ctx, m))

		reg, err := env.registrationService().Register(ctx, newRegistration(runner.ID, m.ID))
		require.NoError(t, err)
		assert.NotEmpty(t, reg.ID)
		assert.Equal(t, "runner@example.com", reg.Email)
		got, err := env.marathons.GetByID(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.TotalRegistration)

		require.Len(t, env.email.confirmations, 1)
		sent := env.email.confirmations[0]
		assert.Equal(t, "runner@example.com", sent.Email)
		assert.Equal(t, "Spring Marathon", sent.MarathonTitle)
		assert.Equal(t, reg.ID, sent.RegistrationID)
		assert.Equal(t, "42k", sent.Distance)
	})

	t.Run("explicit email is kept", func(t *testing.T) {
		env := newTestEnv()
		runner := env.seedUser(ctx, "runner")
		m := validMarathon("owner")
		require.NoError(t, env.marathonService().CreateMarathon(ctx, m))

		in := newRegistration(runner.ID, m.ID)
		in.Email = "race@example.com"
		reg, err := env.registrationService().Register(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, "race@example.com", reg.Email)
	})

	t.Run("missing marathon writes nothing", func(t *testing.T) {
		env := newTestEnv()
		runner := env.seedUser(ctx, "runner")

		_, err := env.registrationService().Register(ctx, newRegistration(runner.ID, "nope"))
		require.ErrorIs(t, err, domain.ErrNotFound)
		rows, err := env.registrations.ListByUser(ctx, runner.ID, "")
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("duplicate is a conflict", func(t *testing.T) {
		env := newTestEnv()
		runner := env.seedUser(ctx, "runner")
		m := validMarathon("owner")
		require.NoError(t, env.marathonService().CreateMarathon(ctx, m))
		svc := env.registrationService()

		_, err := svc.Register(ctx, newRegistration(runner.ID, m.ID))
		require.NoError(t, err)
		_, err = svc.Register(ctx, newRegistration(runner.ID, m.ID))
		require.ErrorIs(t, err, domain.ErrConflict)
		got, err := env.marathons.GetByID(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.TotalRegistration)
		assert.Len(t, env.email.confirmations, 1)
	})

	t.Run("email failure does not fail the registration", func(t *testing.T) {
		env := newTestEnv()
		env.email.err = errBoom
		runner := env.seedUser(ctx, "runner")
		m := validMarathon("owner")
		require.NoError(t, env.marathonService().CreateMarathon(ctx, m))

		reg, err := env.registrationService().Register(ctx, newRegistration(runner.ID, m.ID))
		require.NoError(t, err)
		assert.NotEmpty(t, reg.ID)
	})

	t.Run("marathon deleted before the increment removes the row", func(t *testing.T) {
		env := newTestEnv()
		runner := env.seedUser(ctx, "runner")
		m := validMarathon("owner")
		require.NoError(t, env.marathonService().CreateMarathon(ctx, m))
		flaky := &flakyMarathonRepo{MarathonRepository: env.marathons, adjustErr: domain.ErrNotFound}
		svc := NewRegistrationService(env.registrations, flaky, env.users, env.email, testLogger(), testTimeout)

		_, err := svc.Register(ctx, newRegistration(runner.ID, m.ID))
		require.ErrorIs(t, err, domain.ErrNotFound)
		_, err = env.registrations.GetByUserAndMarathon(ctx, runner.ID, m.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Empty(t, env.email.confirmations)
	})

	t.Run("increment failure is surfaced", func(t *testing.T) {
		env := newTestEnv()
		runner := env.seedUser(ctx, "runner")
		m := validMarathon("owner")
		require.NoError(t, env.marathonService().CreateMarathon(ctx, m))
		flaky := &flakyMarathonRepo{MarathonRepository: env.marathons, adjustErr: errBoom}
		svc := NewRegistrationService(env.registrations, flaky, env.users, env.email, testLogger(), testTimeout)

		_, err := svc.Register(ctx, newRegistration(runner.ID, m.ID))
		assert.ErrorIs(t, err, errBoom)
	})

	t.Run("registrant is required", func(t *testing.T) {
		env := newTestEnv()
		_, err := env.registrationService().Register(ctx, newRegistration("", "m"))
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestRegistrationService_Ownership(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	runner := env.seedUser(ctx, "runner")
	other := env.seedUser(ctx, "other")
	m := validMarathon("owner")
	require.NoError(t, env.marathonService().CreateMarathon(ctx, m))
	svc := env.registrationService()
	reg, err := svc.Register(ctx, newRegistration(runner.ID, m.ID))
	require.NoError(t, err)

	tests := []struct {
		name   string
		caller string
		want   error
	}{
		{name: "registrant", caller: runner.ID},
		{name: "someone else", caller: other.ID, want: domain.ErrForbidden},
		{name: "anonymous", caller: "", want: domain.ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.GetRegistration(ctx, reg.ID, tt.caller)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
				_, err = svc.UpdateRegistration(ctx, reg.ID, tt.caller, domain.RegistrationUpdate{FirstName: strPtr("X")})
				assert.ErrorIs(t, err, tt.want)
				assert.ErrorIs(t, svc.DeleteRegistration(ctx, reg.ID, tt.caller), tt.want)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, reg.ID, got.ID)
		})
	}

	_, err = svc.GetRegistration(ctx, "missing", runner.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegistrationService_ListByUserSearch(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	runner := env.seedUser(ctx, "runner")
	svc := env.registrationService()
	for _, title := range []string{"Spring Marathon", "Lisbon10k"} {
		m := validMarathon("owner")
		m.Title = title
		require.NoError(t, env.marathonService().CreateMarathon(ctx, m))
		_, err := svc.Register(ctx, newRegistration(runner.ID, m.ID))
		require.NoError(t, err)
	}

	tests := []struct {
		name   string
		search string
		want   []string
	}{
		{name: "no search", search: "", want: []string{"Lisbon10k", "Spring Marathon"}},
		{name: "case insensitive", search: "MARATHON", want: []string{"Spring Marathon"}},
		{name: "whitespace is matched literally", search: " ", want: []string{"Spring Marathon"}},
		{name: "surrounding spaces are kept", search: " lisbon", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := svc.ListByUser(ctx, runner.ID, runner.ID, tt.search)
			require.NoError(t, err)
			titles := make([]string, 0, len(rows))
			for _, row := range rows {
				require.NotNil(t, row.Marathon)
				titles = append(titles, row.Marathon.Title)
			}
			assert.ElementsMatch(t, tt.want, titles)
		})
	}
}

func TestRegistrationService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	runner := env.seedUser(ctx, "runner")
	m := validMarathon("owner")
	require.NoError(t, env.marathonService().CreateMarathon(ctx, m))
	svc := env.registrationService()
	reg, err := svc.Register(ctx, newRegistration(runner.ID, m.ID))
	require.NoError(t, err)

	updated, err := svc.UpdateRegistration(ctx, reg.ID, runner.ID, domain.RegistrationUpdate{
		LastName:       strPtr("Sousa"),
		AdditionalInfo: strPtr("Vegetarian meal"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Rui", updated.FirstName)
	assert.Equal(t, "Sousa", updated.LastName)
	require.NotNil(t, updated.AdditionalInfo)
	assert.Equal(t, "Vegetarian meal", *updated.AdditionalInfo)
	assert.Equal(t, runner.ID, updated.UserID)

	rows, err := svc.ListByUser(ctx, runner.ID, runner.ID, "  spring ")
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	require.NoError(t, svc.DeleteRegistration(ctx, reg.ID, runner.ID))
	got, err := env.marathons.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.TotalRegistration)
	assert.ErrorIs(t, svc.DeleteRegistration(ctx, reg.ID, runner.ID), domain.ErrNotFound)
}
