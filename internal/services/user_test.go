package services

import (
	"context"
	"testing"
	"time"

	"marathonhub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the user and sends a welcome email", func(t *testing.T) {
		env := newTestEnv()
		svc := env.userService()

		u, created, err := svc.Register(ctx, domain.NewUser("sub-1", "ana@example.com", strPtr("Ana"), nil, time.Time{}))
		require.NoError(t, err)
		assert.True(t, created)
		assert.NotEmpty(t, u.ID)
		assert.False(t, u.CreatedAt.IsZero())
		require.Len(t, env.email.welcomes, 1)
		assert.Equal(t, "ana@example.com", env.email.welcomes[0].Email)
		assert.Equal(t, "Ana", env.email.welcomes[0].DisplayName)
	})

	t.Run("known subject returns the existing user", func(t *testing.T) {
		env := newTestEnv()
		svc := env.userService()

		first, _, err := svc.Register(ctx, domain.NewUser("sub-1", "ana@example.com", nil, nil, time.Time{}))
		require.NoError(t, err)
		again, created, err := svc.Register(ctx, domain.NewUser("sub-1", "changed@example.com", nil, nil, time.Time{}))
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, first.ID, again.ID)
		assert.Equal(t, "ana@example.com", again.Email)
		assert.Len(t, env.email.welcomes, 1)
	})

	t.Run("missing subject is invalid", func(t *testing.T) {
		env := newTestEnv()
		_, _, err := env.userService().Register(ctx, domain.NewUser("", "ana@example.com", nil, nil, time.Time{}))
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("welcome email failure does not fail registration", func(t *testing.T) {
		env := newTestEnv()
		env.email.err = errBoom
		u, created, err := env.userService().Register(ctx, domain.NewUser("sub-2", "bo@example.com", nil, nil, time.Time{}))
		require.NoError(t, err)
		assert.True(t, created)
		assert.NotEmpty(t, u.ID)
	})
}

func TestUserService_Lookup(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	svc := env.userService()
	seeded := env.seedUser(ctx, "sub-1")

	got, err := svc.GetByExternalID(ctx, "sub-1")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, got.ID)

	got, err = svc.GetByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "sub-1", got.FirebaseUID)

	_, err = svc.GetByExternalID(ctx, "unknown")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	_, err = svc.GetByID(ctx, "unknown")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
