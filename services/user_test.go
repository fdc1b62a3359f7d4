package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bascore/appointment-app/dto"
	"github.com/bascore/appointment-app/models"
)

func registerArgs(username string, role models.UserRole) dto.RegisterUser {
	return dto.RegisterUser{
		Username:  username,
		Role:      role,
		FirstName: "Test",
		LastName:  "User",
		Email:     username + "@example.com",
		Password:  "hunter22",
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to the regular role", func(t *testing.T) {
		svc := NewUserService(newMemStore(), NopDispatcher{})
		user, err := svc.Register(ctx, registerArgs("alice", ""))
		require.NoError(t, err)
		require.Equal(t, models.RoleRegular, user.Role)
		require.True(t, user.Enabled)
		require.NotZero(t, user.ID)
	})

	t.Run("stores a hash instead of the password", func(t *testing.T) {
		svc := NewUserService(newMemStore(), NopDispatcher{})
		user, err := svc.Register(ctx, registerArgs("alice", ""))
		require.NoError(t, err)
		require.NotEqual(t, "hunter22", user.PasswordHash)
		require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("hunter22")))
	})

	t.Run("registers a service provider", func(t *testing.T) {
		svc := NewUserService(newMemStore(), NopDispatcher{})
		user, err := svc.Register(ctx, registerArgs("pat", models.RoleServiceProvider))
		require.NoError(t, err)
		require.Equal(t, models.RoleServiceProvider, user.Role)
	})

	t.Run("rejects the admin role", func(t *testing.T) {
		svc := NewUserService(newMemStore(), NopDispatcher{})
		_, err := svc.Register(ctx, registerArgs("root", models.RoleAdmin))
		require.ErrorIs(t, err, ErrInvalidRole)
	})

	t.Run("rejects an unknown role", func(t *testing.T) {
		svc := NewUserService(newMemStore(), NopDispatcher{})
		_, err := svc.Register(ctx, registerArgs("alice", "SUPERUSER"))
		require.ErrorIs(t, err, ErrInvalidRole)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		svc := NewUserService(newMemStore(), NopDispatcher{})
		for _, args := range []dto.RegisterUser{
			{Email: "a@example.com", Password: "x"},
			{Username: "alice", Password: "x"},
			{Username: "alice", Email: "a@example.com"},
		} {
			_, err := svc.Register(ctx, args)
			require.ErrorIs(t, err, ErrMissingFields)
		}
	})

	t.Run("rejects a duplicate username", func(t *testing.T) {
		svc := NewUserService(newMemStore(), NopDispatcher{})
		_, err := svc.Register(ctx, registerArgs("alice", ""))
		require.NoError(t, err)
		_, err = svc.Register(ctx, registerArgs("alice", ""))
		require.ErrorIs(t, err, ErrUserExists)
	})
}

func TestCheckCredentials(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(newMemStore(), NopDispatcher{})
	_, err := svc.Register(ctx, registerArgs("alice", ""))
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		user, err := svc.CheckCredentials(ctx, "alice", "hunter22")
		require.NoError(t, err)
		require.Equal(t, "alice", user.Username)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.CheckCredentials(ctx, "alice", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.CheckCredentials(ctx, "ghost", "hunter22")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("disabled account fails with the right password", func(t *testing.T) {
		_, err := svc.Disable(ctx, "alice")
		require.NoError(t, err)
		defer func() {
			_, err := svc.Enable(ctx, "alice")
			require.NoError(t, err)
		}()

		_, err = svc.CheckCredentials(ctx, "alice", "hunter22")
		require.ErrorIs(t, err, ErrAccountDisabled)
	})
}

func TestCreateQualification(t *testing.T) {
	ctx := context.Background()

	t.Run("appends to a provider", func(t *testing.T) {
		m := newMemStore()
		svc := NewUserService(m, NopDispatcher{})
		seedUser(t, m, "pat", models.RoleServiceProvider)

		user, err := svc.CreateQualification(ctx, "pat", "Licensed physiotherapist")
		require.NoError(t, err)
		require.Len(t, user.Qualifications, 1)
		require.Equal(t, "Licensed physiotherapist", user.Qualifications[0].Description)

		user, err = svc.CreateQualification(ctx, "pat", "First aid certified")
		require.NoError(t, err)
		require.Len(t, user.Qualifications, 2)
	})

	t.Run("rejects non-providers", func(t *testing.T) {
		m := newMemStore()
		svc := NewUserService(m, NopDispatcher{})
		seedUser(t, m, "alice", models.RoleRegular)

		_, err := svc.CreateQualification(ctx, "alice", "Anything")
		require.ErrorIs(t, err, ErrNotProvider)
	})

	t.Run("rejects an empty description", func(t *testing.T) {
		m := newMemStore()
		svc := NewUserService(m, NopDispatcher{})
		seedUser(t, m, "pat", models.RoleServiceProvider)

		_, err := svc.CreateQualification(ctx, "pat", "")
		require.ErrorIs(t, err, ErrMissingFields)
	})
}

func TestEnableDisable(t *testing.T) {
	ctx := context.Background()

	t.Run("disable flips the flag and schedules a sweep", func(t *testing.T) {
		m := newMemStore()
		d := newRecordDispatcher()
		svc := NewUserService(m, d)
		seedUser(t, m, "pat", models.RoleServiceProvider)

		user, err := svc.Disable(ctx, "pat")
		require.NoError(t, err)
		require.False(t, user.Enabled)
		require.Equal(t, []string{"pat"}, d.sweeps)
	})

	t.Run("enable does not schedule a sweep", func(t *testing.T) {
		m := newMemStore()
		d := newRecordDispatcher()
		svc := NewUserService(m, d)
		seedUser(t, m, "pat", models.RoleServiceProvider)

		_, err := svc.Disable(ctx, "pat")
		require.NoError(t, err)
		user, err := svc.Enable(ctx, "pat")
		require.NoError(t, err)
		require.True(t, user.Enabled)
		require.Len(t, d.sweeps, 1)
	})

	t.Run("unknown user", func(t *testing.T) {
		d := newRecordDispatcher()
		svc := NewUserService(newMemStore(), d)
		_, err := svc.Disable(ctx, "ghost")
		require.ErrorIs(t, err, ErrNotFound)
		require.Empty(t, d.sweeps)
	})
}
