package api

import (
	"fmt"
	"net/http"
	"strings"
)

// Error codes returned in the error envelope. Device firmware treats any
// non-2xx response as "retry next cycle", so the code exists for operator
// surfaces and logs, not for device control flow.
const (
	ErrorCodeAuthentication = "AUTHENTICATION_ERROR"
	ErrorCodeInvalidAPIKey  = "INVALID_API_KEY"
	ErrorCodeTokenExpired   = "TOKEN_EXPIRED"
	ErrorCodeForbidden      = "FORBIDDEN"
	ErrorCodeOrgMismatch    = "ORG_MISMATCH"
	ErrorCodeValidation     = "VALIDATION_ERROR"
	ErrorCodeNotFound       = "NOT_FOUND"
	ErrorCodeConflict       = "CONFLICT"
	ErrorCodeInternal       = "INTERNAL_ERROR"
)

// Error is the error half of the response envelope. It is also the error
// returned to callers of client helpers when a request fails.
type Error struct {
	// Code is the machine readable error code, one of the ErrorCode constants.
	Code string `json:"code"`
	// HTTPStatus is the HTTP status of the response. It is not serialized
	// into the envelope body.
	HTTPStatus int `json:"-"`
	// Message contains the full text of the failure as a single string.
	Message string `json:"message"`
	// FieldErrors contains a structured representation of any validation
	// failures.
	FieldErrors []FieldError `json:"fieldErrors,omitempty"`
}

func (e Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%d %v", e.HTTPStatus, strings.ToLower(http.StatusText(e.HTTPStatus)))
	}
	return e.Message
}

type FieldError struct {
	FieldName string   `json:"fieldName"`
	Errors    []string `json:"errors"`
}

// Response is the envelope for every API response. Exactly one of Data or
// Error is set.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}
