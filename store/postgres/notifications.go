package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/bascore/appointment-app/models"
)

type notifications struct {
	db *gorm.DB
}

func (r *notifications) Create(ctx context.Context, n *models.Notification) error {
	return translate(r.db.WithContext(ctx).Create(n).Error)
}

func (r *notifications) GetForUser(ctx context.Context, id, userID uint) (models.Notification, error) {
	var n models.Notification
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&n).Error
	return n, translate(err)
}

func (r *notifications) ListUnviewed(ctx context.Context, userID uint) ([]models.Notification, error) {
	var list []models.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND viewed = false", userID).
		Order("created_at DESC, id DESC").
		Find(&list).Error
	return list, translate(err)
}

func (r *notifications) MarkViewed(ctx context.Context, id, userID uint) (models.Notification, error) {
	n, err := r.GetForUser(ctx, id, userID)
	if err != nil {
		return models.Notification{}, err
	}
	if err := r.db.WithContext(ctx).Model(&n).Update("viewed", true).Error; err != nil {
		return models.Notification{}, translate(err)
	}
	n.Viewed = true
	return n, nil
}
