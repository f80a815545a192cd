package access

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/boothhq/fleet/internal"
	"github.com/boothhq/fleet/internal/server/models"
	"github.com/boothhq/fleet/uid"
)

// AuthorizationError indicates that the authenticated caller is not allowed
// to perform the operation on the resource.
type AuthorizationError struct {
	Resource  string
	Operation string
}

func (e AuthorizationError) Error() string {
	return fmt.Sprintf("you do not have permission to %v %v", e.Operation, e.Resource)
}

func (e AuthorizationError) Is(other error) bool {
	return other == internal.ErrForbidden
}

// requireMachine checks that the request carries a machine token scoped to
// machineID. A valid token for a different machine must never act on this
// machine's resources.
func requireMachine(c *gin.Context, machineID uid.ID) (*gorm.DB, error) {
	rCtx := GetRequestContext(c)
	machine := rCtx.Authenticated.Machine
	if machine == nil {
		return nil, fmt.Errorf("%w: missing machine token", internal.ErrUnauthorized)
	}
	if machine.MachineID != machineID {
		return nil, AuthorizationError{Resource: "machine", Operation: "access"}
	}
	return rCtx.DBTxn, nil
}

// requireOperator checks that the request carries an operator registration
// key. All reads and writes are then scoped to the key's organization.
func requireOperator(c *gin.Context) (*gorm.DB, *models.RegistrationKey, error) {
	rCtx := GetRequestContext(c)
	key := rCtx.Authenticated.Key
	if key == nil {
		return nil, nil, fmt.Errorf("%w: missing operator key", internal.ErrUnauthorized)
	}
	return rCtx.DBTxn, key, nil
}
