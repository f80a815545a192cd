package internal

import (
	"fmt"
)

var (
	ErrExpired      = fmt.Errorf("token expired")
	ErrInvalid      = fmt.Errorf("token invalid")
	ErrUnauthorized = fmt.Errorf("unauthorized")
	ErrForbidden    = fmt.Errorf("forbidden")
	ErrBadRequest   = fmt.Errorf("bad request")

	ErrConflict = fmt.Errorf("conflict")
	ErrNotFound = fmt.Errorf("record not found")

	// ErrInvalidAPIKey indicates a registration or operator key that does not
	// match any active key record.
	ErrInvalidAPIKey = fmt.Errorf("%w: invalid API key", ErrUnauthorized)
	// ErrOrgMismatch indicates an attempt to act on hardware that is already
	// registered to a different organization.
	ErrOrgMismatch = fmt.Errorf("%w: hardware is registered to another organization", ErrForbidden)
)
