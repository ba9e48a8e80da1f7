package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marathonhub/internal/domain"
	"marathonhub/internal/repository/memory"
	"marathonhub/internal/repository/repotest"
)

func newRepos(t *testing.T) repotest.Repos {
	store := memory.New()
	return repotest.Repos{
		Users:         memory.NewUserRepository(store),
		Marathons:     memory.NewMarathonRepository(store),
		Registrations: memory.NewRegistrationRepository(store),
	}
}

func TestMemoryBackend(t *testing.T) {
	repotest.Run(t, newRepos)
}

func TestIDsAreSharedAcrossKinds(t *testing.T) {
	repos := newRepos(t)
	ctx := context.Background()

	u := domain.NewUser("sub", "a@example.com", nil, nil, time.Now())
	require.NoError(t, repos.Users.Create(ctx, u))
	m := repotest.NewMarathon(u.ID, "Run")
	require.NoError(t, repos.Marathons.Create(ctx, m))

	assert.Equal(t, "1", u.ID)
	assert.Equal(t, "2", m.ID)
}

func TestReturnedEntitiesAreCopies(t *testing.T) {
	repos := newRepos(t)
	ctx := context.Background()

	m := repotest.NewMarathon("owner", "Original")
	require.NoError(t, repos.Marathons.Create(ctx, m))
	m.Title = "changed by caller"

	got, err := repos.Marathons.GetByID(ctx, m.ID)
	require.NoError(t, err)
	got.TotalRegistration = 99

	again, err := repos.Marathons.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original", again.Title)
	assert.Equal(t, 0, again.TotalRegistration)
}

func TestReturnedPointerFieldsAreCopies(t *testing.T) {
	repos := newRepos(t)
	ctx := context.Background()

	info := "gluten free"
	reg := &domain.Registration{UserID: "u1", MarathonID: "m1", FirstName: "Ana", AdditionalInfo: &info}
	require.NoError(t, repos.Registrations.Create(ctx, reg))
	*reg.AdditionalInfo = "changed through the input"

	got, err := repos.Registrations.GetByID(ctx, reg.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AdditionalInfo)
	assert.Equal(t, "gluten free", *got.AdditionalInfo)
	*got.AdditionalInfo = "changed through a result"

	again, err := repos.Registrations.GetByID(ctx, reg.ID)
	require.NoError(t, err)
	assert.Equal(t, "gluten free", *again.AdditionalInfo)

	rows, err := repos.Registrations.ListByUser(ctx, "u1", "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	*rows[0].AdditionalInfo = "changed through a listing"
	again, err = repos.Registrations.GetByID(ctx, reg.ID)
	require.NoError(t, err)
	assert.Equal(t, "gluten free", *again.AdditionalInfo)

	name := "Ana"
	u := domain.NewUser("fb-1", "ana@example.com", &name, nil, time.Time{})
	require.NoError(t, repos.Users.Create(ctx, u))
	name = "changed through the input"
	gotUser, err := repos.Users.GetByExternalID(ctx, "fb-1")
	require.NoError(t, err)
	require.NotNil(t, gotUser.DisplayName)
	assert.Equal(t, "Ana", *gotUser.DisplayName)
	*gotUser.DisplayName = "changed through a result"
	gotUser, err = repos.Users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", *gotUser.DisplayName)
}

func TestListByUserKeepsOrphanedRegistrations(t *testing.T) {
	repos := newRepos(t)
	ctx := context.Background()

	reg := &domain.Registration{UserID: "u1", MarathonID: "gone", FirstName: "A", LastName: "B", Contact: "1"}
	require.NoError(t, repos.Registrations.Create(ctx, reg))

	rows, err := repos.Registrations.ListByUser(ctx, "u1", "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].Marathon)

	rows, err = repos.Registrations.ListByUser(ctx, "u1", "any")
	require.NoError(t, err)
	assert.Empty(t, rows)
}
