package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bascore/appointment-app/models"
	"github.com/bascore/appointment-app/store"
)

type users struct {
	db *gorm.DB
}

func (r *users) Create(ctx context.Context, u *models.User) error {
	return translate(r.db.WithContext(ctx).Create(u).Error)
}

func (r *users) GetByUsername(ctx context.Context, username string) (models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).
		Preload("Qualifications").
		Where("username = ?", username).
		First(&u).Error
	return u, translate(err)
}

func (r *users) GetByID(ctx context.Context, id uint) (models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).
		Preload("Qualifications").
		First(&u, id).Error
	return u, translate(err)
}

// GetByIDForUpdate locks the user row until the enclosing transaction ends.
// No preloads: callers hold this lock to serialize, not to render the row.
func (r *users) GetByIDForUpdate(ctx context.Context, id uint) (models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&u, id).Error
	return u, translate(err)
}

func (r *users) SetEnabled(ctx context.Context, username string, enabled bool) (models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return models.User{}, translate(err)
	}
	if err := r.db.WithContext(ctx).Model(&u).Update("enabled", enabled).Error; err != nil {
		return models.User{}, translate(err)
	}
	u.Enabled = enabled
	return u, nil
}

func (r *users) AddQualification(ctx context.Context, q *models.Qualification) error {
	return translate(r.db.WithContext(ctx).Create(q).Error)
}

func (r *users) Search(ctx context.Context, q store.UserSearch) ([]models.User, int64, error) {
	db := r.db.WithContext(ctx).Model(&models.User{})

	if q.Username != "" {
		db = db.Where("username ILIKE ?", "%"+q.Username+"%")
	}
	if q.FirstName != "" {
		db = db.Where("first_name ILIKE ?", "%"+q.FirstName+"%")
	}
	if q.LastName != "" {
		db = db.Where("last_name ILIKE ?", "%"+q.LastName+"%")
	}
	if q.PhoneNumber != "" {
		db = db.Where("phone_number ILIKE ?", "%"+q.PhoneNumber+"%")
	}
	if q.Email != "" {
		db = db.Where("email ILIKE ?", "%"+q.Email+"%")
	}
	if q.Role != nil {
		db = db.Where("role = ?", *q.Role)
	}
	if q.ExcludeRole != "" {
		db = db.Where("role <> ?", q.ExcludeRole)
	}
	if q.Enabled != nil {
		db = db.Where("enabled = ?", *q.Enabled)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	order := "id"
	if q.SortField != "" {
		order = q.SortField
	}
	if q.SortDesc {
		order += " DESC"
	}
	// Stable tie-break so identical keys never straddle page boundaries.
	order += ", id ASC"

	var results []models.User
	err := db.Preload("Qualifications").
		Order(order).
		Limit(q.Limit).
		Offset(q.Offset).
		Find(&results).Error
	if err != nil {
		return nil, 0, translate(err)
	}
	return results, total, nil
}
