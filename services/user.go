package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/bascore/appointment-app/dto"
	"github.com/bascore/appointment-app/models"
	"github.com/bascore/appointment-app/store"
)

// UserService owns the identity store: registration, credential checks,
// qualifications and the enabled flag. Disabling a user hands the
// cancellation cascade to the dispatcher; it is not part of the disable
// transaction.
type UserService struct {
	store      store.Store
	dispatcher Dispatcher
}

func NewUserService(st store.Store, d Dispatcher) *UserService {
	return &UserService{store: st, dispatcher: d}
}

func (s *UserService) Register(ctx context.Context, args dto.RegisterUser) (models.User, error) {
	if args.Username == "" || args.Email == "" || args.Password == "" {
		return models.User{}, ErrMissingFields
	}

	role := args.Role
	if role == "" {
		role = models.RoleRegular
	}
	if !role.Valid() {
		return models.User{}, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	if role == models.RoleAdmin {
		return models.User{}, fmt.Errorf("%w: administrator accounts cannot be registered", ErrInvalidRole)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(args.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Username:     args.Username,
		Role:         role,
		FirstName:    args.FirstName,
		LastName:     args.LastName,
		Email:        args.Email,
		PhoneNumber:  args.PhoneNumber,
		PasswordHash: string(hash),
		Enabled:      true,
	}
	if err := s.store.Users().Create(ctx, &user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return models.User{}, ErrUserExists
		}
		return models.User{}, err
	}
	return user, nil
}

// CheckCredentials verifies a username/password pair and returns the user.
// Disabled accounts fail even with a correct password.
func (s *UserService) CheckCredentials(ctx context.Context, username, password string) (models.User, error) {
	user, err := s.store.Users().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	if !user.Enabled {
		return models.User{}, ErrAccountDisabled
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, username string) (models.User, error) {
	user, err := s.store.Users().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.User{}, fmt.Errorf("%w: user %q", ErrNotFound, username)
		}
		return models.User{}, err
	}
	return user, nil
}

// CreateQualification appends a qualification to a service provider.
// Qualifications are meaningless for any other role.
func (s *UserService) CreateQualification(ctx context.Context, username, description string) (models.User, error) {
	if description == "" {
		return models.User{}, ErrMissingFields
	}
	user, err := s.Get(ctx, username)
	if err != nil {
		return models.User{}, err
	}
	if user.Role != models.RoleServiceProvider {
		return models.User{}, ErrNotProvider
	}

	q := models.Qualification{Description: description, UserID: user.ID}
	if err := s.store.Users().AddQualification(ctx, &q); err != nil {
		return models.User{}, err
	}
	return s.Get(ctx, username)
}

func (s *UserService) Enable(ctx context.Context, username string) (models.User, error) {
	user, err := s.store.Users().SetEnabled(ctx, username, true)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.User{}, fmt.Errorf("%w: user %q", ErrNotFound, username)
		}
		return models.User{}, err
	}
	return user, nil
}

// Disable flips the enabled flag and schedules the best-effort cancellation
// sweep of the user's remaining appointments. The sweep runs after this
// returns and its failures never undo the disable.
func (s *UserService) Disable(ctx context.Context, username string) (models.User, error) {
	user, err := s.store.Users().SetEnabled(ctx, username, false)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.User{}, fmt.Errorf("%w: user %q", ErrNotFound, username)
		}
		return models.User{}, err
	}
	s.dispatcher.CancelSweep(username)
	return user, nil
}
