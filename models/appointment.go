package models

import (
	"time"
)

type AppointmentType string

const (
	TypeBeauty  AppointmentType = "BEAUTY"
	TypeFitness AppointmentType = "FITNESS"
	TypeMedical AppointmentType = "MEDICAL"
)

// Valid reports whether the appointment type is one of the recognized values.
func (t AppointmentType) Valid() bool {
	switch t {
	case TypeBeauty, TypeFitness, TypeMedical:
		return true
	}
	return false
}

// Appointment is a slot published by a service provider. UserID is nil while
// the slot is open and points at the booking user once booked. Canceled is a
// one-way flag set by provider or admin cancellation; a regular user
// releasing their booking clears UserID and leaves Canceled untouched.
type Appointment struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Type        AppointmentType `json:"type"`
	Description string          `json:"description"`
	ProviderID  uint            `json:"provider_id"`
	Provider    User            `json:"provider" gorm:"foreignKey:ProviderID"`
	UserID      *uint           `json:"user_id"`
	User        *User           `json:"user,omitempty" gorm:"foreignKey:UserID"`
	StartTime   time.Time       `json:"start_time"`
	EndTime     time.Time       `json:"end_time"`
	Canceled    bool            `json:"canceled"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Overlaps reports whether the two appointments' [start, end) intervals
// intersect.
func (a *Appointment) Overlaps(b *Appointment) bool {
	return a.StartTime.Before(b.EndTime) && a.EndTime.After(b.StartTime)
}

// Booked reports whether a regular user currently holds the slot.
func (a *Appointment) Booked() bool {
	return a.UserID != nil
}
