package access

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/boothhq/fleet/api"
	"github.com/boothhq/fleet/internal"
	"github.com/boothhq/fleet/internal/claims"
	"github.com/boothhq/fleet/internal/server/data"
	"github.com/boothhq/fleet/internal/server/models"
	"github.com/boothhq/fleet/uid"
)

// RegisteredMachine is the result of a successful registration: the machine
// row, a fresh signed token, and the machine's current config (synthesized
// defaults when none was ever saved).
type RegisteredMachine struct {
	Machine        *models.Machine
	Token          string
	TokenExpiresAt time.Time
	Config         *models.MachineConfig
}

// RegisterMachine validates the presented API key and upserts the machine
// row keyed by hardwareId. A hardwareId already registered to a different
// organization is never silently reassigned; the call fails with
// internal.ErrOrgMismatch before any write.
func RegisterMachine(c *gin.Context, req *api.RegisterMachineRequest, tokenLifetime time.Duration) (*RegisteredMachine, error) {
	db := GetRequestContext(c).DBTxn

	key, err := data.ValidateRegistrationKey(db, req.APIKey, models.RegistrationKeyKindDevice)
	if err != nil {
		return nil, err
	}

	machine, err := data.GetMachine(db, data.ByHardwareID(req.HardwareID))
	switch {
	case errors.Is(err, internal.ErrNotFound):
		machine = &models.Machine{
			OrganizationMember: models.OrganizationMember{OrganizationID: key.OrganizationID},
			Name:               req.Name,
			HardwareID:         req.HardwareID,
			Status:             api.MachineStatusOffline,
			HardwareInfo:       models.JSONMap(req.HardwareInfo),
		}
		if err := data.CreateMachine(db, machine); err != nil {
			return nil, fmt.Errorf("create machine: %w", err)
		}
	case err != nil:
		return nil, err
	case machine.OrganizationID != key.OrganizationID:
		return nil, internal.ErrOrgMismatch
	default:
		err := data.UpdateMachineRegistration(db, machine.ID, req.Name, models.JSONMap(req.HardwareInfo))
		if err != nil {
			return nil, fmt.Errorf("update machine: %w", err)
		}
	}

	settings, err := data.GetSettings(db)
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	token, expires, err := claims.CreateMachineToken(settings.PrivateJWK, claims.Machine{
		MachineID:      machine.ID,
		OrganizationID: machine.OrganizationID,
		HardwareID:     machine.HardwareID,
	}, tokenLifetime)
	if err != nil {
		return nil, fmt.Errorf("create machine token: %w", err)
	}

	config, err := activeOrDefaultConfig(db, machine.ID)
	if err != nil {
		return nil, err
	}

	return &RegisteredMachine{
		Machine:        machine,
		Token:          token,
		TokenExpiresAt: expires,
		Config:         config,
	}, nil
}

// RecordHeartbeat overwrites the device-owned fields of the machine row,
// last write wins. The second return value reports whether the device's
// reported config version differs from the active one.
func RecordHeartbeat(c *gin.Context, req *api.HeartbeatRequest) (*models.Machine, bool, error) {
	db, err := requireMachine(c, req.ID)
	if err != nil {
		return nil, false, err
	}

	err = data.UpdateMachineHeartbeat(db, req.ID, api.MachineStatus(req.Status),
		models.JSONMap(req.PeripheralStatus), models.JSONMap(req.Metrics))
	if err != nil {
		return nil, false, err
	}

	machine, err := data.GetMachine(db, data.ByID(req.ID))
	if err != nil {
		return nil, false, err
	}

	activeVersion := machine.ConfigVersion
	if activeVersion == "" {
		activeVersion = api.ConfigVersionDefault
	}

	return machine, req.ConfigVersion != activeVersion, nil
}

func ListMachines(c *gin.Context, name, status string) ([]models.Machine, error) {
	db, key, err := requireOperator(c)
	if err != nil {
		return nil, err
	}

	return data.ListMachines(db, data.ByOrgID(key.OrganizationID),
		data.ByName(name), data.ByOptionalStatus(status))
}

func GetMachine(c *gin.Context, id uid.ID) (*models.Machine, error) {
	db, key, err := requireOperator(c)
	if err != nil {
		return nil, err
	}

	return data.GetMachine(db, data.ByID(id), data.ByOrgID(key.OrganizationID))
}
