package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/bascore/appointment-app/models"
	"github.com/bascore/appointment-app/store"
)

// NotificationService exposes a recipient's own notifications. Creation is
// not here: notifications come into existence only through the dispatcher.
type NotificationService struct {
	store store.Store
}

func NewNotificationService(st store.Store) *NotificationService {
	return &NotificationService{store: st}
}

func (s *NotificationService) List(ctx context.Context, username string) ([]models.Notification, error) {
	user, err := s.store.Users().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %q", ErrNotFound, username)
		}
		return nil, err
	}
	list, err := s.store.Notifications().ListUnviewed(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Notification{}
	}
	return list, nil
}

func (s *NotificationService) Get(ctx context.Context, id uint, username string) (models.Notification, error) {
	user, err := s.store.Users().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Notification{}, fmt.Errorf("%w: user %q", ErrNotFound, username)
		}
		return models.Notification{}, err
	}
	n, err := s.store.Notifications().GetForUser(ctx, id, user.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Notification{}, fmt.Errorf("%w: notification %d", ErrNotFound, id)
		}
		return models.Notification{}, err
	}
	return n, nil
}

func (s *NotificationService) MarkViewed(ctx context.Context, id uint, username string) (models.Notification, error) {
	user, err := s.store.Users().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Notification{}, fmt.Errorf("%w: user %q", ErrNotFound, username)
		}
		return models.Notification{}, err
	}
	n, err := s.store.Notifications().MarkViewed(ctx, id, user.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Notification{}, fmt.Errorf("%w: notification %d", ErrNotFound, id)
		}
		return models.Notification{}, err
	}
	return n, nil
}
