package dto

import (
	"time"

	"github.com/bascore/appointment-app/models"
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SearchOptions is the shared sort/pagination contract for all searches.
// Page is 1-indexed; RowsPerPage bounds the page size.
type SearchOptions struct {
	Page          int           `json:"page" query:"page"`
	RowsPerPage   int           `json:"rows_per_page" query:"rowsPerPage"`
	SortField     string        `json:"sort_field" query:"sortField"`
	SortDirection SortDirection `json:"sort_direction" query:"sortDirection"`
}

// SearchAppointments carries the optional filters applied on top of the
// requester's visibility scope. UserID and ProviderID are username
// substrings, not numeric ids.
type SearchAppointments struct {
	UserID       string     `json:"user_id" query:"userId"`
	ProviderID   string     `json:"provider_id" query:"providerId"`
	Type         string     `json:"type" query:"type"`
	Description  string     `json:"description" query:"description"`
	StartTime    *time.Time `json:"start_time" query:"startTime"`
	EndTime      *time.Time `json:"end_time" query:"endTime"`
	Canceled     *bool      `json:"canceled" query:"canceled"`
	UnbookedOnly bool       `json:"unbooked_only" query:"unbookedOnly"`
	SearchOptions
}

type SearchUsers struct {
	Username    string `json:"username" query:"username"`
	FirstName   string `json:"first_name" query:"firstName"`
	LastName    string `json:"last_name" query:"lastName"`
	PhoneNumber string `json:"phone_number" query:"phoneNumber"`
	Email       string `json:"email" query:"email"`
	Role        string `json:"role" query:"role"`
	Enabled     *bool  `json:"enabled" query:"enabled"`
	SearchOptions
}

// AppointmentResults is one page of appointment search results. Total is the
// size of the full filtered scope, not the page.
type AppointmentResults struct {
	Total   int64                `json:"total"`
	Results []models.Appointment `json:"results"`
}

type UserResults struct {
	Total   int64         `json:"total"`
	Results []models.User `json:"results"`
}
