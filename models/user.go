package models

import (
	"time"
)

type UserRole string

const (
	RoleRegular         UserRole = "REGULAR"
	RoleServiceProvider UserRole = "SERVICE_PROVIDER"
	RoleAdmin           UserRole = "ADMIN"
)

// Valid reports whether the role is one of the recognized values.
func (r UserRole) Valid() bool {
	switch r {
	case RoleRegular, RoleServiceProvider, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	Username       string          `json:"username" gorm:"uniqueIndex"`
	Role           UserRole        `json:"role"`
	FirstName      string          `json:"first_name"`
	LastName       string          `json:"last_name"`
	Email          string          `json:"email" gorm:"uniqueIndex"`
	PhoneNumber    string          `json:"phone_number"`
	PasswordHash   string          `json:"-"`
	Enabled        bool            `json:"enabled" gorm:"default:true"`
	Qualifications []Qualification `json:"qualifications,omitempty" gorm:"foreignKey:UserID"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Qualification is a free-text credential attached to a service provider.
// Qualifications are append-only; nothing in the system updates or deletes
// them once created.
type Qualification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Description string    `json:"description"`
	UserID      uint      `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}
