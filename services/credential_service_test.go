package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resort-backend/models"
)

func TestCredentialCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.credentials.Create(ctx, RegisterInput{
		Name: " Ann ", Email: "  Ann@Example.COM ", Phone: "0800", Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", u.Email)
	assert.Equal(t, "Ann", u.Name)
	assert.NotEqual(t, "secret123", u.Password)
	assert.Equal(t, models.RoleUser, u.Role())
	assert.Equal(t, 1, f.hasher.calls)

	_, err = f.credentials.Create(ctx, RegisterInput{
		Name: "Other", Email: "ANN@example.com", Phone: "1", Password: "secret123",
	})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, 1, f.hasher.calls, "rejected registrations must not hash")
}

func TestCredentialCreate_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := map[string]RegisterInput{
		"missing phone":  {Name: "A", Email: "a@example.com", Password: "secret123"},
		"bad email":      {Name: "A", Email: "not-an-email", Phone: "1", Password: "secret123"},
		"short password": {Name: "A", Email: "a@example.com", Phone: "1", Password: "abc"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.credentials.Create(ctx, in)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCredentialDigestNotRehashedOnUnrelatedSave(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "ann@example.com")
	digest := u.Password

	require.NoError(t, f.db.Model(&models.User{}).Where("id = ?", u.ID).Update("phone", "0999").Error)

	reloaded, err := f.credentials.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, digest, reloaded.Password)
	assert.True(t, f.credentials.VerifyPassword(reloaded, "secret123"))
}

func TestCredentialAuthenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.user(t, "ann@example.com")
	_, err := f.credentials.EnsureAdmin(ctx, "Root", "root@example.com", "rootpass")
	require.NoError(t, err)

	u, err := f.credentials.Authenticate(ctx, "ANN@example.com", "secret123", models.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", u.Email)

	_, err = f.credentials.Authenticate(ctx, "ann@example.com", "wrong-pass", models.RoleUser)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = f.credentials.Authenticate(ctx, "nobody@example.com", "secret123", models.RoleUser)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = f.credentials.Authenticate(ctx, "ann@example.com", "secret123", models.RoleAdmin)
	assert.ErrorIs(t, err, ErrUnauthenticated, "users cannot sign in to the console")

	_, err = f.credentials.Authenticate(ctx, "root@example.com", "rootpass", models.RoleUser)
	assert.ErrorIs(t, err, ErrUnauthenticated, "admins use the admin login")

	admin, err := f.credentials.Authenticate(ctx, "root@example.com", "rootpass", models.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)

	_, err = f.credentials.Authenticate(ctx, "", "x", models.RoleUser)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCredentialChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "ann@example.com")

	err := f.credentials.ChangePassword(ctx, u.ID, "wrong", "newsecret")
	assert.ErrorIs(t, err, ErrValidation)

	err = f.credentials.ChangePassword(ctx, u.ID, "secret123", "123")
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, f.credentials.ChangePassword(ctx, u.ID, "secret123", "newsecret"))
	assert.Equal(t, 2, f.hasher.calls)

	_, err = f.credentials.Authenticate(ctx, "ann@example.com", "secret123", models.RoleUser)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = f.credentials.Authenticate(ctx, "ann@example.com", "newsecret", models.RoleUser)
	assert.NoError(t, err)
}

func TestCredentialEnsureAdminAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.credentials.EnsureAdmin(ctx, "", "root@example.com", "rootpass")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = f.credentials.EnsureAdmin(ctx, "Other", "other@example.com", "rootpass")
	require.NoError(t, err)
	assert.False(t, created)

	f.user(t, "ann@example.com")
	f.user(t, "bob@resort.test")

	users, total, err := f.credentials.ListUsers(ctx, "EXAMPLE")
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, users, 2)
	assert.Equal(t, "ann@example.com", users[0].Email)
}
