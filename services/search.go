package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/bascore/appointment-app/dto"
	"github.com/bascore/appointment-app/models"
	"github.com/bascore/appointment-app/store"
)

const (
	defaultRowsPerPage = 10
	maxRowsPerPage     = 100
)

// SearchService is the access-scoped query engine. It derives the row-level
// visibility scope from the requester's role before applying any
// caller-supplied filter; the scope is never optional and cannot be widened
// by filter parameters.
type SearchService struct {
	store store.Store
}

func NewSearchService(st store.Store) *SearchService {
	return &SearchService{store: st}
}

var appointmentSortFields = map[string]bool{
	"id": true, "type": true, "description": true,
	"start_time": true, "end_time": true, "canceled": true,
	"created_at": true, "updated_at": true,
	"user": true, "provider": true,
}

var userSortFields = map[string]bool{
	"id": true, "username": true, "first_name": true, "last_name": true,
	"email": true, "phone_number": true, "role": true, "enabled": true,
	"created_at": true, "updated_at": true,
}

// SearchAppointments applies the requester's visibility scope, then the
// optional filters, sort and pagination. An absent or unknown requester gets
// an empty result set, not an error; so does any filter set that matches
// nothing.
func (s *SearchService) SearchAppointments(ctx context.Context, req dto.SearchAppointments, requester string) (dto.AppointmentResults, error) {
	empty := dto.AppointmentResults{Results: []models.Appointment{}}
	if requester == "" {
		return empty, nil
	}
	user, err := s.store.Users().GetByUsername(ctx, requester)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return empty, nil
		}
		return empty, err
	}

	q := store.AppointmentSearch{
		ProviderUsername: req.ProviderID,
		BookedUsername:   req.UserID,
		Type:             models.AppointmentType(req.Type),
		Description:      req.Description,
		StartFrom:        req.StartTime,
		EndUntil:         req.EndTime,
		Canceled:         req.Canceled,
		UnbookedOnly:     req.UnbookedOnly,
	}

	switch user.Role {
	case models.RoleRegular:
		// Own rows (any status) unioned with open slots. The username
		// filter on the booking user would only duplicate the implicit
		// identity, so it is dropped.
		q.Scope = store.ScopeUserOrOpen
		q.ScopeID = user.ID
		q.BookedUsername = ""
	case models.RoleServiceProvider:
		q.Scope = store.ScopeProvider
		q.ScopeID = user.ID
		q.ProviderUsername = ""
	case models.RoleAdmin:
		q.Scope = store.ScopeAll
	default:
		return empty, fmt.Errorf("%w: %q", ErrInvalidRole, user.Role)
	}

	q.SortField, q.SortDesc = sortSpec(req.SearchOptions, appointmentSortFields)
	q.Offset, q.Limit = pageSpec(req.SearchOptions)

	results, total, err := s.store.Appointments().Search(ctx, q)
	if err != nil {
		return empty, err
	}
	if results == nil {
		results = []models.Appointment{}
	}
	return dto.AppointmentResults{Total: total, Results: results}, nil
}

// GetAppointment fetches a single row under the same visibility rules as
// the search: regular users see their own bookings and unbooked slots,
// providers their own slots, admins everything.
func (s *SearchService) GetAppointment(ctx context.Context, id uint, requester string) (models.Appointment, error) {
	user, err := s.store.Users().GetByUsername(ctx, requester)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Appointment{}, fmt.Errorf("%w: user %q", ErrNotFound, requester)
		}
		return models.Appointment{}, err
	}

	appointment, err := s.store.Appointments().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Appointment{}, fmt.Errorf("%w: appointment %d", ErrNotFound, id)
		}
		return models.Appointment{}, err
	}

	visible := true
	switch user.Role {
	case models.RoleRegular:
		visible = !appointment.Booked() || *appointment.UserID == user.ID
	case models.RoleServiceProvider:
		visible = appointment.ProviderID == user.ID
	}
	if !visible {
		return models.Appointment{}, fmt.Errorf("%w: appointment %d", ErrNotFound, id)
	}
	return appointment, nil
}

// SearchUsers is restricted to administrators. Admin accounts are hidden
// from the listing unless the role filter explicitly asks for them.
func (s *SearchService) SearchUsers(ctx context.Context, req dto.SearchUsers, requester string) (dto.UserResults, error) {
	empty := dto.UserResults{Results: []models.User{}}
	actor, err := s.store.Users().GetByUsername(ctx, requester)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return empty, ErrNotAdmin
		}
		return empty, err
	}
	if actor.Role != models.RoleAdmin {
		return empty, ErrNotAdmin
	}

	q := store.UserSearch{
		Username:    req.Username,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
		Enabled:     req.Enabled,
		ExcludeRole: models.RoleAdmin,
	}
	if req.Role != "" {
		role := models.UserRole(req.Role)
		if role.Valid() {
			q.Role = &role
			if role == models.RoleAdmin {
				q.ExcludeRole = ""
			}
		}
	}

	q.SortField, q.SortDesc = sortSpec(req.SearchOptions, userSortFields)
	q.Offset, q.Limit = pageSpec(req.SearchOptions)

	results, total, err := s.store.Users().Search(ctx, q)
	if err != nil {
		return empty, err
	}
	if results == nil {
		results = []models.User{}
	}
	return dto.UserResults{Total: total, Results: results}, nil
}

// sortSpec validates the requested sort field against the allowlist;
// unknown fields fall back to insertion order.
func sortSpec(opts dto.SearchOptions, allowed map[string]bool) (field string, desc bool) {
	if allowed[opts.SortField] {
		field = opts.SortField
	}
	return field, opts.SortDirection == dto.SortDesc
}

func pageSpec(opts dto.SearchOptions) (offset, limit int) {
	page := opts.Page
	if page < 1 {
		page = 1
	}
	size := opts.RowsPerPage
	if size <= 0 {
		size = defaultRowsPerPage
	}
	if size > maxRowsPerPage {
		size = maxRowsPerPage
	}
	return (page - 1) * size, size
}
