package store

import (
	"context"
	"errors"
	"time"

	"github.com/bascore/appointment-app/models"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. The postgres driver implements
// it; tests substitute in-memory fakes. Sub-repositories keep the surface
// tidy and let services declare exactly what they touch.
type Store interface {
	Users() Users
	Appointments() Appointments
	Notifications() Notifications

	// WithTx executes fn against a transaction-scoped store. If fn returns
	// an error the transaction is rolled back, otherwise committed. Row
	// reads that must be stable for the duration of fn (booking, canceling)
	// go through the ForUpdate variants, which take row locks inside a
	// transaction and degrade to plain reads outside one.
	WithTx(ctx context.Context, fn func(tx Store) error) error
}

type Users interface {
	Create(ctx context.Context, u *models.User) error
	GetByUsername(ctx context.Context, username string) (models.User, error)
	GetByID(ctx context.Context, id uint) (models.User, error)

	// GetByIDForUpdate locks the user row for the remainder of the enclosing
	// transaction. Booking takes this lock before its overlap scan so that
	// all bookings by one user serialize, even across different appointment
	// rows; locking only the target appointment would let two transactions
	// scan past each other's uncommitted bookings.
	GetByIDForUpdate(ctx context.Context, id uint) (models.User, error)
	SetEnabled(ctx context.Context, username string, enabled bool) (models.User, error)
	AddQualification(ctx context.Context, q *models.Qualification) error
	Search(ctx context.Context, q UserSearch) ([]models.User, int64, error)
}

type Appointments interface {
	Create(ctx context.Context, a *models.Appointment) error
	GetByID(ctx context.Context, id uint) (models.Appointment, error)
	GetByIDForUpdate(ctx context.Context, id uint) (models.Appointment, error)

	// ListBookedByUser returns the user's non-canceled booked appointments.
	// Inside a transaction the rows are locked, so a concurrent booking by
	// the same user serializes against the conflict scan.
	ListBookedByUser(ctx context.Context, userID uint) ([]models.Appointment, error)

	// ListCancelable returns the still-cancelable appointments a user is
	// party to: booked-by for regular users, provided-by otherwise.
	ListCancelable(ctx context.Context, userID uint, asProvider bool, now time.Time) ([]models.Appointment, error)

	// ListUpcomingBooked returns booked, non-canceled appointments whose
	// start time falls in [from, to). Feeds the reminder job.
	ListUpcomingBooked(ctx context.Context, from, to time.Time) ([]models.Appointment, error)

	SetBookingUser(ctx context.Context, id uint, userID *uint) error
	SetCanceled(ctx context.Context, id uint) error
	Search(ctx context.Context, q AppointmentSearch) ([]models.Appointment, int64, error)
}

type Notifications interface {
	Create(ctx context.Context, n *models.Notification) error
	GetForUser(ctx context.Context, id, userID uint) (models.Notification, error)
	ListUnviewed(ctx context.Context, userID uint) ([]models.Notification, error)
	MarkViewed(ctx context.Context, id, userID uint) (models.Notification, error)
}

// ScopeKind selects the row-level visibility clause for appointment
// searches. It is set by the query engine from the requester's role and is
// never derived from caller-supplied filters.
type ScopeKind int

const (
	// ScopeAll imposes no visibility restriction (admins).
	ScopeAll ScopeKind = iota
	// ScopeProvider restricts to rows owned by the provider ScopeID.
	ScopeProvider
	// ScopeUserOrOpen restricts to rows booked by ScopeID unioned with
	// open, non-canceled slots (regular users).
	ScopeUserOrOpen
)

type AppointmentSearch struct {
	Scope   ScopeKind
	ScopeID uint

	ProviderUsername string // substring match on the provider's username
	BookedUsername   string // substring match on the booking user's username
	Type             models.AppointmentType
	Description      string
	StartFrom        *time.Time
	EndUntil         *time.Time
	Canceled         *bool
	UnbookedOnly     bool

	SortField string // validated column or "user"/"provider" for usernames
	SortDesc  bool
	Offset    int
	Limit     int
}

type UserSearch struct {
	Username    string
	FirstName   string
	LastName    string
	PhoneNumber string
	Email       string
	Role        *models.UserRole
	ExcludeRole models.UserRole // rows with this role are hidden ("" disables)
	Enabled     *bool

	SortField string
	SortDesc  bool
	Offset    int
	Limit     int
}
