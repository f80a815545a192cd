package access

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/boothhq/fleet/internal/claims"
	"github.com/boothhq/fleet/internal/server/models"
)

const RequestContextKey = "requestContext"

// RequestContext stores the http.Request and values derived from it, like
// the authenticated caller. It also provides the request's database
// transaction.
type RequestContext struct {
	Request       *http.Request
	DBTxn         *gorm.DB
	Authenticated Authenticated
}

// Authenticated identifies the caller. Exactly one of Machine or Key is set
// on an authenticated request: Machine when the caller presented a machine
// token, Key when it presented an operator registration key.
type Authenticated struct {
	Machine *claims.Machine
	Key     *models.RegistrationKey
}

func GetRequestContext(c *gin.Context) RequestContext {
	if raw, ok := c.Get(RequestContextKey); ok {
		if rCtx, ok := raw.(RequestContext); ok {
			return rCtx
		}
	}
	return RequestContext{}
}
