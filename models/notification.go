package models

import (
	"time"
)

type NotificationType string

const (
	NotificationAppointment NotificationType = "APPOINTMENT"
)

// Notification is created only as a side effect of an appointment lifecycle
// transition and is always addressed to the counterparty of the actor who
// triggered it. The recipient may mark it viewed; nothing deletes it.
type Notification struct {
	ID        uint             `json:"id" gorm:"primaryKey"`
	Type      NotificationType `json:"type"`
	UserID    uint             `json:"user_id"`
	Message   string           `json:"message"`
	Viewed    bool             `json:"viewed" gorm:"default:false"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}
