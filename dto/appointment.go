package dto

import (
	"time"

	"github.com/bascore/appointment-app/models"
)

// CreateAppointment is the request body for publishing a new slot. The
// provider is taken from the authenticated identity, never from the body.
type CreateAppointment struct {
	Type        models.AppointmentType `json:"type"`
	Description string                 `json:"description"`
	StartTime   time.Time              `json:"start_time"`
	EndTime     time.Time              `json:"end_time"`
}

type BookAppointment struct {
	ID uint `json:"id"`
}

type CancelAppointment struct {
	ID uint `json:"id"`
}

type CreateQualification struct {
	Description string `json:"description"`
}
