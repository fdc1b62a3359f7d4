package services

import "errors"

// Lifecycle and query failures are sentinel errors so the request layer can
// map each kind to an accurate response with errors.Is. Nothing here is ever
// swallowed; the only best-effort path is the side-effect dispatcher.
var (
	// validation
	ErrInvalidType      = errors.New("invalid appointment type")
	ErrInvertedInterval = errors.New("start time must be before end time")
	ErrPastStart        = errors.New("appointment start time must be in the future")
	ErrMissingFields    = errors.New("missing required fields")
	ErrInvalidRole      = errors.New("invalid user role")

	// role / authorization
	ErrNotProvider     = errors.New("only service providers can perform this action")
	ErrNotRegularUser  = errors.New("only regular users can perform this action")
	ErrNotAdmin        = errors.New("administrator access required")
	ErrNotBookedByUser = errors.New("only the user who booked the appointment can cancel it")

	// lifecycle state
	ErrNotFound      = errors.New("not found")
	ErrAlreadyBooked = errors.New("appointment is already booked")
	ErrCanceled      = errors.New("appointment is canceled")
	ErrNotBooked     = errors.New("appointment is not booked")
	ErrExpired       = errors.New("appointment end time has already passed")
	ErrConflict      = errors.New("appointment overlaps another booked appointment")

	// identity
	ErrUserExists         = errors.New("username or email is already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account is disabled")
)
