package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/bascore/appointment-app/models"
	"github.com/bascore/appointment-app/store"
)

// memStore is an in-memory store.Store used by the service tests. WithTx
// runs the function against the same store; the services are exercised
// single-threaded here, so no locking is required.
type memStore struct {
	users         map[uint]*models.User
	appointments  map[uint]*models.Appointment
	notifications map[uint]*models.Notification

	userOrder  []uint
	apptOrder  []uint
	notifOrder []uint

	nextUserID  uint
	nextApptID  uint
	nextNotifID uint

	// user ids locked via GetByIDForUpdate, in call order
	userLocks []uint
}

func newMemStore() *memStore {
	return &memStore{
		users:         make(map[uint]*models.User),
		appointments:  make(map[uint]*models.Appointment),
		notifications: make(map[uint]*models.Notification),
	}
}

func (m *memStore) Users() store.Users                 { return &memUsers{m} }
func (m *memStore) Appointments() store.Appointments   { return &memAppointments{m} }
func (m *memStore) Notifications() store.Notifications { return &memNotifications{m} }

func (m *memStore) WithTx(ctx context.Context, fn func(tx store.Store) error) error {
	return fn(m)
}

type memUsers struct{ m *memStore }

func (r *memUsers) Create(ctx context.Context, u *models.User) error {
	for _, existing := range r.m.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return store.ErrAlreadyExists
		}
	}
	r.m.nextUserID++
	u.ID = r.m.nextUserID
	u.CreatedAt = time.Now()
	cp := *u
	r.m.users[u.ID] = &cp
	r.m.userOrder = append(r.m.userOrder, u.ID)
	return nil
}

func (r *memUsers) GetByUsername(ctx context.Context, username string) (models.User, error) {
	for _, id := range r.m.userOrder {
		if r.m.users[id].Username == username {
			return *r.m.users[id], nil
		}
	}
	return models.User{}, store.ErrNotFound
}

func (r *memUsers) GetByID(ctx context.Context, id uint) (models.User, error) {
	u, ok := r.m.users[id]
	if !ok {
		return models.User{}, store.ErrNotFound
	}
	return *u, nil
}

func (r *memUsers) GetByIDForUpdate(ctx context.Context, id uint) (models.User, error) {
	r.m.userLocks = append(r.m.userLocks, id)
	return r.GetByID(ctx, id)
}

func (r *memUsers) SetEnabled(ctx context.Context, username string, enabled bool) (models.User, error) {
	for _, id := range r.m.userOrder {
		if r.m.users[id].Username == username {
			r.m.users[id].Enabled = enabled
			return *r.m.users[id], nil
		}
	}
	return models.User{}, store.ErrNotFound
}

func (r *memUsers) AddQualification(ctx context.Context, q *models.Qualification) error {
	u, ok := r.m.users[q.UserID]
	if !ok {
		return store.ErrNotFound
	}
	q.ID = uint(len(u.Qualifications) + 1)
	q.CreatedAt = time.Now()
	u.Qualifications = append(u.Qualifications, *q)
	return nil
}

func (r *memUsers) Search(ctx context.Context, q store.UserSearch) ([]models.User, int64, error) {
	var matched []models.User
	for _, id := range r.m.userOrder {
		u := r.m.users[id]
		if !containsFold(u.Username, q.Username) ||
			!containsFold(u.FirstName, q.FirstName) ||
			!containsFold(u.LastName, q.LastName) ||
			!containsFold(u.PhoneNumber, q.PhoneNumber) ||
			!containsFold(u.Email, q.Email) {
			continue
		}
		if q.Role != nil && u.Role != *q.Role {
			continue
		}
		if q.ExcludeRole != "" && u.Role == q.ExcludeRole {
			continue
		}
		if q.Enabled != nil && u.Enabled != *q.Enabled {
			continue
		}
		matched = append(matched, *u)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := &matched[i], &matched[j]
		var less, equal bool
		switch q.SortField {
		case "username":
			less, equal = a.Username < b.Username, a.Username == b.Username
		case "email":
			less, equal = a.Email < b.Email, a.Email == b.Email
		case "first_name":
			less, equal = a.FirstName < b.FirstName, a.FirstName == b.FirstName
		case "last_name":
			less, equal = a.LastName < b.LastName, a.LastName == b.LastName
		default:
			less, equal = a.ID < b.ID, a.ID == b.ID
		}
		if equal {
			return false
		}
		if q.SortDesc {
			return !less
		}
		return less
	})

	total := int64(len(matched))
	return page(matched, q.Offset, q.Limit), total, nil
}

type memAppointments struct{ m *memStore }

func (r *memAppointments) Create(ctx context.Context, a *models.Appointment) error {
	r.m.nextApptID++
	a.ID = r.m.nextApptID
	a.CreatedAt = time.Now()
	cp := *a
	r.m.appointments[a.ID] = &cp
	r.m.apptOrder = append(r.m.apptOrder, a.ID)
	return nil
}

func (r *memAppointments) GetByID(ctx context.Context, id uint) (models.Appointment, error) {
	a, ok := r.m.appointments[id]
	if !ok {
		return models.Appointment{}, store.ErrNotFound
	}
	return r.expand(a), nil
}

func (r *memAppointments) GetByIDForUpdate(ctx context.Context, id uint) (models.Appointment, error) {
	a, ok := r.m.appointments[id]
	if !ok {
		return models.Appointment{}, store.ErrNotFound
	}
	return *a, nil
}

func (r *memAppointments) ListBookedByUser(ctx context.Context, userID uint) ([]models.Appointment, error) {
	var list []models.Appointment
	for _, id := range r.m.apptOrder {
		a := r.m.appointments[id]
		if a.UserID != nil && *a.UserID == userID && !a.Canceled {
			list = append(list, *a)
		}
	}
	return list, nil
}

func (r *memAppointments) ListCancelable(ctx context.Context, userID uint, asProvider bool, now time.Time) ([]models.Appointment, error) {
	var list []models.Appointment
	for _, id := range r.m.apptOrder {
		a := r.m.appointments[id]
		if a.Canceled || !a.EndTime.After(now) {
			continue
		}
		if asProvider {
			if a.ProviderID == userID {
				list = append(list, *a)
			}
		} else if a.UserID != nil && *a.UserID == userID {
			list = append(list, *a)
		}
	}
	return list, nil
}

func (r *memAppointments) ListUpcomingBooked(ctx context.Context, from, to time.Time) ([]models.Appointment, error) {
	var list []models.Appointment
	for _, id := range r.m.apptOrder {
		a := r.m.appointments[id]
		if a.UserID != nil && !a.Canceled &&
			!a.StartTime.Before(from) && a.StartTime.Before(to) {
			list = append(list, r.expand(a))
		}
	}
	return list, nil
}

func (r *memAppointments) SetBookingUser(ctx context.Context, id uint, userID *uint) error {
	a, ok := r.m.appointments[id]
	if !ok {
		return store.ErrNotFound
	}
	a.UserID = userID
	a.UpdatedAt = time.Now()
	return nil
}

func (r *memAppointments) SetCanceled(ctx context.Context, id uint) error {
	a, ok := r.m.appointments[id]
	if !ok {
		return store.ErrNotFound
	}
	a.Canceled = true
	a.UpdatedAt = time.Now()
	return nil
}

func (r *memAppointments) Search(ctx context.Context, q store.AppointmentSearch) ([]models.Appointment, int64, error) {
	var matched []models.Appointment
	for _, id := range r.m.apptOrder {
		a := r.m.appointments[id]

		switch q.Scope {
		case store.ScopeProvider:
			if a.ProviderID != q.ScopeID {
				continue
			}
		case store.ScopeUserOrOpen:
			booked := a.UserID != nil && *a.UserID == q.ScopeID
			open := a.UserID == nil && !a.Canceled
			if !booked && !open {
				continue
			}
		}

		if q.ProviderUsername != "" && !containsFold(r.username(a.ProviderID), q.ProviderUsername) {
			continue
		}
		if q.BookedUsername != "" {
			if a.UserID == nil || !containsFold(r.username(*a.UserID), q.BookedUsername) {
				continue
			}
		}
		if q.Type != "" && a.Type != q.Type {
			continue
		}
		if q.Description != "" && !containsFold(a.Description, q.Description) {
			continue
		}
		if q.StartFrom != nil && a.StartTime.Before(*q.StartFrom) {
			continue
		}
		if q.EndUntil != nil && a.EndTime.After(*q.EndUntil) {
			continue
		}
		if q.Canceled != nil && a.Canceled != *q.Canceled {
			continue
		}
		if q.UnbookedOnly && a.UserID != nil {
			continue
		}
		matched = append(matched, r.expand(a))
	}

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := &matched[i], &matched[j]
		var less, equal bool
		switch q.SortField {
		case "start_time":
			less, equal = a.StartTime.Before(b.StartTime), a.StartTime.Equal(b.StartTime)
		case "end_time":
			less, equal = a.EndTime.Before(b.EndTime), a.EndTime.Equal(b.EndTime)
		case "type":
			less, equal = a.Type < b.Type, a.Type == b.Type
		case "description":
			less, equal = a.Description < b.Description, a.Description == b.Description
		case "provider":
			an, bn := a.Provider.Username, b.Provider.Username
			less, equal = an < bn, an == bn
		case "user":
			var an, bn string
			if a.User != nil {
				an = a.User.Username
			}
			if b.User != nil {
				bn = b.User.Username
			}
			less, equal = an < bn, an == bn
		default:
			less, equal = a.ID < b.ID, a.ID == b.ID
		}
		if equal {
			return false
		}
		if q.SortDesc {
			return !less
		}
		return less
	})

	total := int64(len(matched))
	return page(matched, q.Offset, q.Limit), total, nil
}

func (r *memAppointments) expand(a *models.Appointment) models.Appointment {
	cp := *a
	if p, ok := r.m.users[a.ProviderID]; ok {
		cp.Provider = *p
	}
	if a.UserID != nil {
		if u, ok := r.m.users[*a.UserID]; ok {
			cu := *u
			cp.User = &cu
		}
	}
	return cp
}

func (r *memAppointments) username(id uint) string {
	if u, ok := r.m.users[id]; ok {
		return u.Username
	}
	return ""
}

type memNotifications struct{ m *memStore }

func (r *memNotifications) Create(ctx context.Context, n *models.Notification) error {
	r.m.nextNotifID++
	n.ID = r.m.nextNotifID
	n.CreatedAt = time.Now()
	cp := *n
	r.m.notifications[n.ID] = &cp
	r.m.notifOrder = append(r.m.notifOrder, n.ID)
	return nil
}

func (r *memNotifications) GetForUser(ctx context.Context, id, userID uint) (models.Notification, error) {
	n, ok := r.m.notifications[id]
	if !ok || n.UserID != userID {
		return models.Notification{}, store.ErrNotFound
	}
	return *n, nil
}

func (r *memNotifications) ListUnviewed(ctx context.Context, userID uint) ([]models.Notification, error) {
	var list []models.Notification
	for i := len(r.m.notifOrder) - 1; i >= 0; i-- {
		n := r.m.notifications[r.m.notifOrder[i]]
		if n.UserID == userID && !n.Viewed {
			list = append(list, *n)
		}
	}
	return list, nil
}

func (r *memNotifications) MarkViewed(ctx context.Context, id, userID uint) (models.Notification, error) {
	n, ok := r.m.notifications[id]
	if !ok || n.UserID != userID {
		return models.Notification{}, store.ErrNotFound
	}
	n.Viewed = true
	return *n, nil
}

func containsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func page[T any](list []T, offset, limit int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

// recordDispatcher captures side effects synchronously for assertions.
type recordDispatcher struct {
	notified map[uint][]string
	sweeps   []string
}

func newRecordDispatcher() *recordDispatcher {
	return &recordDispatcher{notified: make(map[uint][]string)}
}

func (d *recordDispatcher) Notify(userID uint, message string) {
	d.notified[userID] = append(d.notified[userID], message)
}

func (d *recordDispatcher) CancelSweep(username string) {
	d.sweeps = append(d.sweeps, username)
}
