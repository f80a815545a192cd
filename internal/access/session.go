package access

import (
	"github.com/gin-gonic/gin"

	"github.com/boothhq/fleet/api"
	"github.com/boothhq/fleet/internal/server/data"
	"github.com/boothhq/fleet/internal/server/models"
	"github.com/boothhq/fleet/uid"
)

// CreateSession ingests a session record reported by a device. A duplicate
// session code fails with a unique constraint error; nothing else about the
// record is interpreted here.
func CreateSession(c *gin.Context, req *api.CreateSessionRequest) (*models.Session, error) {
	db, err := requireMachine(c, req.ID)
	if err != nil {
		return nil, err
	}

	rCtx := GetRequestContext(c)

	session := &models.Session{
		OrganizationMember: models.OrganizationMember{OrganizationID: rCtx.Authenticated.Machine.OrganizationID},
		MachineID:          req.ID,
		Code:               req.Code,
		Kind:               req.Kind,
		Payload:            models.JSONMap(req.Payload),
	}

	if err := data.CreateSession(db, session); err != nil {
		return nil, err
	}

	return session, nil
}

// ListMachineSessions returns a machine's ingested sessions, newest first.
func ListMachineSessions(c *gin.Context, machineID uid.ID, kind string) ([]models.Session, error) {
	db, key, err := requireOperator(c)
	if err != nil {
		return nil, err
	}

	// resolves the machine inside the org first so a foreign machine id
	// reads as unknown rather than as an empty history
	if _, err := data.GetMachine(db, data.ByID(machineID), data.ByOrgID(key.OrganizationID)); err != nil {
		return nil, err
	}

	return data.ListSessions(db, data.ByMachineID(machineID), data.ByOptionalKind(kind))
}
