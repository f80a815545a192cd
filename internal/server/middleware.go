package server

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/boothhq/fleet/internal"
	"github.com/boothhq/fleet/internal/access"
	"github.com/boothhq/fleet/internal/claims"
	"github.com/boothhq/fleet/internal/logging"
	"github.com/boothhq/fleet/internal/server/data"
	"github.com/boothhq/fleet/internal/server/models"
)

// TimeoutMiddleware adds a timeout to the request context within the Gin
// context. The goroutine for the request is never halted; users of the
// context must watch for c.Request.Context().Err() or
// <-c.Request.Context().Done().
func TimeoutMiddleware(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// DatabaseMiddleware runs the request inside a database transaction and
// injects the transaction into the Gin context.
func DatabaseMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
			c.Set("db", tx)
			c.Next()
			return nil
		})
		if err != nil {
			logging.Debugf(err.Error())
		}
	}
}

func getDB(c *gin.Context) *gorm.DB {
	db, ok := c.MustGet("db").(*gorm.DB)
	if !ok {
		return nil
	}
	return db
}

// RequestContextMiddleware populates the request context for routes that do
// not authenticate with a bearer credential.
func RequestContextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(access.RequestContextKey, access.RequestContext{
			Request: c.Request,
			DBTxn:   getDB(c),
		})
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, error) {
	header := c.Request.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", fmt.Errorf("%w: missing bearer authorization header", internal.ErrUnauthorized)
	}
	return token, nil
}

// MachineAuthMiddleware validates the machine token on device-origin routes.
// The token's machine id is compared against the path id by the access layer
// on every call.
func MachineAuthMiddleware(a *API) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c)
		if err != nil {
			sendAPIError(c, err)
			return
		}

		machine, err := claims.ValidateMachineToken(a.server.publicJWK, token)
		if err != nil {
			sendAPIError(c, err)
			return
		}

		c.Set(access.RequestContextKey, access.RequestContext{
			Request:       c.Request,
			DBTxn:         getDB(c),
			Authenticated: access.Authenticated{Machine: machine},
		})
		c.Next()
	}
}

// OperatorAuthMiddleware validates the operator registration key on
// operator-origin routes.
func OperatorAuthMiddleware(a *API) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c)
		if err != nil {
			sendAPIError(c, err)
			return
		}

		db := getDB(c)
		key, err := data.ValidateRegistrationKey(db, token, models.RegistrationKeyKindOperator)
		if err != nil {
			sendAPIError(c, err)
			return
		}

		c.Set(access.RequestContextKey, access.RequestContext{
			Request:       c.Request,
			DBTxn:         db,
			Authenticated: access.Authenticated{Key: key},
		})
		c.Next()
	}
}

// CronAuthMiddleware authenticates the external scheduler by shared secret.
// Sweep routes are disabled entirely when no secret is configured.
func CronAuthMiddleware(a *API) gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := a.server.options.CronSecret
		presented := c.Request.Header.Get("Cron-Secret")
		if secret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(presented)) != 1 {
			sendAPIError(c, fmt.Errorf("%w: invalid cron secret", internal.ErrUnauthorized))
			return
		}
		c.Next()
	}
}
