package dto

import "github.com/bascore/appointment-app/models"

// RegisterUser is the public registration payload. Role may be REGULAR or
// SERVICE_PROVIDER; admin accounts cannot be created through this path.
type RegisterUser struct {
	Username    string          `json:"username"`
	Role        models.UserRole `json:"role"`
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	Email       string          `json:"email"`
	PhoneNumber string          `json:"phone_number"`
	Password    string          `json:"password"`
}

type Login struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
