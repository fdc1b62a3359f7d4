package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bascore/appointment-app/models"
)

func TestNotifications(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T) (*memStore, *NotificationService, models.User, models.User) {
		m := newMemStore()
		alice := seedUser(t, m, "alice", models.RoleRegular)
		bob := seedUser(t, m, "bob", models.RoleRegular)
		return m, NewNotificationService(m), alice, bob
	}

	notify := func(t *testing.T, m *memStore, userID uint, message string) models.Notification {
		t.Helper()
		n := models.Notification{Type: models.NotificationAppointment, UserID: userID, Message: message}
		require.NoError(t, m.Notifications().Create(ctx, &n))
		return n
	}

	t.Run("list returns only the recipient's unviewed notifications", func(t *testing.T) {
		m, svc, alice, bob := seed(t)
		first := notify(t, m, alice.ID, "first")
		notify(t, m, bob.ID, "for bob")
		second := notify(t, m, alice.ID, "second")

		list, err := svc.List(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, list, 2)
		// Newest first.
		require.Equal(t, second.ID, list[0].ID)
		require.Equal(t, first.ID, list[1].ID)
	})

	t.Run("marking viewed removes it from the list", func(t *testing.T) {
		m, svc, alice, _ := seed(t)
		n := notify(t, m, alice.ID, "once")

		viewed, err := svc.MarkViewed(ctx, n.ID, "alice")
		require.NoError(t, err)
		require.True(t, viewed.Viewed)

		list, err := svc.List(ctx, "alice")
		require.NoError(t, err)
		require.Empty(t, list)
	})

	t.Run("recipients cannot touch each other's notifications", func(t *testing.T) {
		m, svc, alice, _ := seed(t)
		n := notify(t, m, alice.ID, "private")

		_, err := svc.Get(ctx, n.ID, "bob")
		require.ErrorIs(t, err, ErrNotFound)
		_, err = svc.MarkViewed(ctx, n.ID, "bob")
		require.ErrorIs(t, err, ErrNotFound)

		got, err := svc.Get(ctx, n.ID, "alice")
		require.NoError(t, err)
		require.Equal(t, "private", got.Message)
	})

	t.Run("unknown recipient", func(t *testing.T) {
		_, svc, _, _ := seed(t)
		_, err := svc.List(ctx, "ghost")
		require.ErrorIs(t, err, ErrNotFound)
	})
}
