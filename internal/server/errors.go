package server

import (
	"context"
	"errors"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/boothhq/fleet/api"
	"github.com/boothhq/fleet/internal"
	"github.com/boothhq/fleet/internal/access"
	"github.com/boothhq/fleet/internal/logging"
	"github.com/boothhq/fleet/internal/server/data"
	"github.com/boothhq/fleet/internal/validate"
)

// sendAPIError translates err into the appropriate HTTP status and error
// code, then sends the failure half of the response envelope.
func sendAPIError(c *gin.Context, err error) {
	resp := &api.Error{
		Code:       api.ErrorCodeInternal,
		HTTPStatus: http.StatusInternalServerError,
		Message:    "internal server error", // don't leak any info by default
	}

	var validationError validate.Error
	var uniqueConstraintError data.UniqueConstraintError
	var authzError access.AuthorizationError

	log := logging.L.Debug()

	switch {
	case errors.Is(err, internal.ErrInvalidAPIKey):
		resp.Code = api.ErrorCodeInvalidAPIKey
		resp.HTTPStatus = http.StatusUnauthorized
		resp.Message = err.Error()

	case errors.Is(err, internal.ErrExpired):
		resp.Code = api.ErrorCodeTokenExpired
		resp.HTTPStatus = http.StatusUnauthorized
		resp.Message = err.Error()

	case errors.Is(err, internal.ErrUnauthorized), errors.Is(err, internal.ErrInvalid):
		resp.Code = api.ErrorCodeAuthentication
		resp.HTTPStatus = http.StatusUnauthorized
		// hide the error text, it may contain sensitive information
		resp.Message = "unauthorized"
		// log the error at info because it is not in the response
		log = logging.L.Info()

	case errors.Is(err, internal.ErrOrgMismatch):
		resp.Code = api.ErrorCodeOrgMismatch
		resp.HTTPStatus = http.StatusForbidden
		resp.Message = err.Error()

	case errors.As(err, &authzError):
		resp.Code = api.ErrorCodeForbidden
		resp.HTTPStatus = http.StatusForbidden
		resp.Message = authzError.Error()

	case errors.Is(err, internal.ErrForbidden):
		resp.Code = api.ErrorCodeForbidden
		resp.HTTPStatus = http.StatusForbidden
		resp.Message = err.Error()

	case errors.As(err, &uniqueConstraintError):
		resp.Code = api.ErrorCodeConflict
		resp.HTTPStatus = http.StatusConflict
		resp.Message = err.Error()

	case errors.Is(err, internal.ErrConflict):
		resp.Code = api.ErrorCodeConflict
		resp.HTTPStatus = http.StatusConflict
		resp.Message = err.Error()

	case errors.Is(err, internal.ErrNotFound):
		resp.Code = api.ErrorCodeNotFound
		resp.HTTPStatus = http.StatusNotFound
		resp.Message = err.Error()

	case errors.As(err, &validationError):
		resp.Code = api.ErrorCodeValidation
		resp.HTTPStatus = http.StatusBadRequest
		resp.Message = err.Error()
		for name, problems := range validationError {
			resp.FieldErrors = append(resp.FieldErrors, api.FieldError{
				FieldName: name,
				Errors:    problems,
			})
		}
		sort.Slice(resp.FieldErrors, func(i, j int) bool {
			return resp.FieldErrors[i].FieldName < resp.FieldErrors[j].FieldName
		})

	case errors.Is(err, internal.ErrBadRequest):
		resp.Code = api.ErrorCodeValidation
		resp.HTTPStatus = http.StatusBadRequest
		resp.Message = err.Error()

	case errors.Is(err, context.DeadlineExceeded):
		resp.HTTPStatus = http.StatusGatewayTimeout // not ideal, but StatusRequestTimeout isn't intended for this.
		resp.Message = "request timed out"

	default:
		log = logging.L.Error()
	}

	log.CallerSkipFrame(1).
		Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Int("statusCode", resp.HTTPStatus).
		Str("remoteAddr", c.Request.RemoteAddr).
		Msg("api request error")

	c.JSON(resp.HTTPStatus, api.Response{Success: false, Error: resp})
	c.Abort()
}
