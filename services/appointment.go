package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/bascore/appointment-app/dto"
	"github.com/bascore/appointment-app/models"
	"github.com/bascore/appointment-app/store"
)

// AppointmentService is the appointment lifecycle engine: creation, booking
// and cancellation of a single slot, including conflict detection and
// temporal validity checks. All mutations run inside one store transaction
// per appointment id so concurrent bookers serialize on the row lock.
type AppointmentService struct {
	store      store.Store
	dispatcher Dispatcher
}

func NewAppointmentService(st store.Store, d Dispatcher) *AppointmentService {
	return &AppointmentService{store: st, dispatcher: d}
}

// Create publishes a new open slot for a service provider.
func (s *AppointmentService) Create(ctx context.Context, providerUsername string, args dto.CreateAppointment) (models.Appointment, error) {
	provider, err := s.store.Users().GetByUsername(ctx, providerUsername)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Appointment{}, fmt.Errorf("%w: user %q", ErrNotFound, providerUsername)
		}
		return models.Appointment{}, err
	}

	if !args.Type.Valid() {
		return models.Appointment{}, fmt.Errorf("%w: %q", ErrInvalidType, args.Type)
	}
	if provider.Role != models.RoleServiceProvider {
		return models.Appointment{}, ErrNotProvider
	}
	if !args.StartTime.Before(args.EndTime) {
		return models.Appointment{}, ErrInvertedInterval
	}
	if !args.StartTime.After(time.Now()) {
		return models.Appointment{}, ErrPastStart
	}

	appointment := models.Appointment{
		Type:        args.Type,
		Description: args.Description,
		ProviderID:  provider.ID,
		StartTime:   args.StartTime,
		EndTime:     args.EndTime,
	}
	if err := s.store.Appointments().Create(ctx, &appointment); err != nil {
		return models.Appointment{}, err
	}
	appointment.Provider = provider
	return appointment, nil
}

// Book places a regular user on an open slot. The existence, state and
// conflict checks and the booking write all happen inside one transaction
// holding the requester's user row lock and the target row lock: two
// bookers of one slot cannot both observe "unbooked", and one user booking
// two overlapping slots concurrently serializes on their own row, so the
// second overlap scan sees the first booking committed.
func (s *AppointmentService) Book(ctx context.Context, id uint, username string) (models.Appointment, error) {
	user, err := s.store.Users().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Appointment{}, fmt.Errorf("%w: user %q", ErrNotFound, username)
		}
		return models.Appointment{}, err
	}
	if user.Role != models.RoleRegular {
		return models.Appointment{}, ErrNotRegularUser
	}

	var providerID uint
	err = s.store.WithTx(ctx, func(tx store.Store) error {
		// Lock the requester's user row first. Two bookings by the same user
		// on different open slots would otherwise each scan the other's
		// still-uncommitted booking as absent; this lock serializes them.
		if _, err := tx.Users().GetByIDForUpdate(ctx, user.ID); err != nil {
			return err
		}

		appointment, err := tx.Appointments().GetByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("%w: appointment %d", ErrNotFound, id)
			}
			return err
		}
		if appointment.Canceled {
			return ErrCanceled
		}
		if appointment.Booked() {
			return ErrAlreadyBooked
		}
		if !appointment.StartTime.After(time.Now()) {
			return ErrPastStart
		}

		booked, err := tx.Appointments().ListBookedByUser(ctx, user.ID)
		if err != nil {
			return err
		}
		for i := range booked {
			if appointment.Overlaps(&booked[i]) {
				return fmt.Errorf("%w: appointment %d", ErrConflict, booked[i].ID)
			}
		}

		providerID = appointment.ProviderID
		return tx.Appointments().SetBookingUser(ctx, id, &user.ID)
	})
	if err != nil {
		return models.Appointment{}, err
	}

	s.dispatcher.Notify(providerID, fmt.Sprintf(
		"Your appointment %d has been booked by %s", id, user.Username))

	return s.store.Appointments().GetByID(ctx, id)
}

// Cancel is role-asymmetric. A regular user releases their own booking: the
// slot stays uncanceled and reopens for others. Any other actor marks the
// appointment canceled permanently; a second cancel of the same appointment
// fails rather than silently succeeding.
func (s *AppointmentService) Cancel(ctx context.Context, id uint, username string) (models.Appointment, error) {
	actor, err := s.store.Users().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Appointment{}, fmt.Errorf("%w: user %q", ErrNotFound, username)
		}
		return models.Appointment{}, err
	}

	var notifyID uint
	var notifyMsg string
	err = s.store.WithTx(ctx, func(tx store.Store) error {
		appointment, err := tx.Appointments().GetByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("%w: appointment %d", ErrNotFound, id)
			}
			return err
		}
		if appointment.Canceled {
			return ErrCanceled
		}
		if !appointment.EndTime.After(time.Now()) {
			return ErrExpired
		}

		if actor.Role == models.RoleRegular {
			if !appointment.Booked() {
				return ErrNotBooked
			}
			if *appointment.UserID != actor.ID {
				return ErrNotBookedByUser
			}
			notifyID = appointment.ProviderID
			notifyMsg = fmt.Sprintf("%s released the booking for appointment %d", actor.Username, id)
			return tx.Appointments().SetBookingUser(ctx, id, nil)
		}

		// Provider or admin: terminal cancellation. The booking user field
		// is left untouched as the historical record.
		if appointment.Booked() {
			notifyID = *appointment.UserID
			notifyMsg = fmt.Sprintf("Your appointment %d has been canceled", id)
		}
		return tx.Appointments().SetCanceled(ctx, id)
	})
	if err != nil {
		return models.Appointment{}, err
	}

	if notifyMsg != "" {
		s.dispatcher.Notify(notifyID, notifyMsg)
	}
	return s.store.Appointments().GetByID(ctx, id)
}

// CancelAll sweeps every still-cancelable appointment the user is party to,
// invoking Cancel with that user as actor. It is invoked only as the
// deferred consequence of disabling a user. Per-item failures are logged
// and skipped; this is a best-effort sweep, not a transaction.
func (s *AppointmentService) CancelAll(ctx context.Context, username string) error {
	user, err := s.store.Users().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: user %q", ErrNotFound, username)
		}
		return err
	}

	asProvider := user.Role != models.RoleRegular
	list, err := s.store.Appointments().ListCancelable(ctx, user.ID, asProvider, time.Now())
	if err != nil {
		return err
	}

	for i := range list {
		if _, err := s.Cancel(ctx, list[i].ID, username); err != nil {
			log.Printf("cancel sweep: appointment %d for user %s: %v", list[i].ID, username, err)
		}
	}
	return nil
}
