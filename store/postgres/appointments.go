package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bascore/appointment-app/models"
	"github.com/bascore/appointment-app/store"
)

type appointments struct {
	db *gorm.DB
}

func (r *appointments) Create(ctx context.Context, a *models.Appointment) error {
	return translate(r.db.WithContext(ctx).Create(a).Error)
}

func (r *appointments) GetByID(ctx context.Context, id uint) (models.Appointment, error) {
	var a models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Provider").
		Preload("Provider.Qualifications").
		Preload("User").
		First(&a, id).Error
	return a, translate(err)
}

// GetByIDForUpdate locks the appointment row for the remainder of the
// enclosing transaction. No preloads: the caller holds the lock precisely
// because it is about to mutate booking state, not render the row.
func (r *appointments) GetByIDForUpdate(ctx context.Context, id uint) (models.Appointment, error) {
	var a models.Appointment
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&a, id).Error
	return a, translate(err)
}

func (r *appointments) ListBookedByUser(ctx context.Context, userID uint) ([]models.Appointment, error) {
	var list []models.Appointment
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND canceled = false", userID).
		Find(&list).Error
	return list, translate(err)
}

func (r *appointments) ListCancelable(ctx context.Context, userID uint, asProvider bool, now time.Time) ([]models.Appointment, error) {
	db := r.db.WithContext(ctx).Where("canceled = false AND end_time > ?", now)
	if asProvider {
		db = db.Where("provider_id = ?", userID)
	} else {
		db = db.Where("user_id = ?", userID)
	}
	var list []models.Appointment
	err := db.Find(&list).Error
	return list, translate(err)
}

func (r *appointments) ListUpcomingBooked(ctx context.Context, from, to time.Time) ([]models.Appointment, error) {
	var list []models.Appointment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id IS NOT NULL AND canceled = false AND start_time >= ? AND start_time < ?", from, to).
		Find(&list).Error
	return list, translate(err)
}

func (r *appointments) SetBookingUser(ctx context.Context, id uint, userID *uint) error {
	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", id).
		Update("user_id", userID)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *appointments) SetCanceled(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", id).
		Update("canceled", true)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *appointments) Search(ctx context.Context, q store.AppointmentSearch) ([]models.Appointment, int64, error) {
	db := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Joins("JOIN users AS provider_user ON provider_user.id = appointments.provider_id").
		Joins("LEFT JOIN users AS booking_user ON booking_user.id = appointments.user_id")

	// Visibility scope first; filters only ever narrow it.
	switch q.Scope {
	case store.ScopeProvider:
		db = db.Where("appointments.provider_id = ?", q.ScopeID)
	case store.ScopeUserOrOpen:
		db = db.Where(
			"(appointments.user_id = ? OR (appointments.user_id IS NULL AND appointments.canceled = false))",
			q.ScopeID,
		)
	}

	if q.ProviderUsername != "" {
		db = db.Where("provider_user.username ILIKE ?", "%"+q.ProviderUsername+"%")
	}
	if q.BookedUsername != "" {
		db = db.Where("booking_user.username ILIKE ?", "%"+q.BookedUsername+"%")
	}
	if q.Type != "" {
		db = db.Where("appointments.type = ?", q.Type)
	}
	if q.Description != "" {
		db = db.Where("appointments.description ILIKE ?", "%"+q.Description+"%")
	}
	if q.StartFrom != nil {
		db = db.Where("appointments.start_time >= ?", *q.StartFrom)
	}
	if q.EndUntil != nil {
		db = db.Where("appointments.end_time <= ?", *q.EndUntil)
	}
	if q.Canceled != nil {
		db = db.Where("appointments.canceled = ?", *q.Canceled)
	}
	if q.UnbookedOnly {
		db = db.Where("appointments.user_id IS NULL")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var results []models.Appointment
	err := db.Select("appointments.*").
		Preload("Provider").
		Preload("Provider.Qualifications").
		Preload("User").
		Order(orderClause(q.SortField, q.SortDesc)).
		Limit(q.Limit).
		Offset(q.Offset).
		Find(&results).Error
	if err != nil {
		return nil, 0, translate(err)
	}
	return results, total, nil
}

// orderClause maps the validated sort field to a column. "user" and
// "provider" sort by the related username; everything else is an
// appointment column. The id tie-break keeps equal keys in insertion order
// so a row never appears on two pages.
func orderClause(field string, desc bool) string {
	var col string
	switch field {
	case "user":
		col = "booking_user.username"
	case "provider":
		col = "provider_user.username"
	case "":
		col = "appointments.id"
	default:
		col = "appointments." + field
	}
	if desc {
		col += " DESC"
	}
	return col + ", appointments.id ASC"
}
