package access

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/boothhq/fleet/api"
	"github.com/boothhq/fleet/internal"
	"github.com/boothhq/fleet/internal/generate"
	"github.com/boothhq/fleet/internal/server/data"
	"github.com/boothhq/fleet/internal/server/models"
	"github.com/boothhq/fleet/uid"
)

const versionTokenSuffixLength = 6

func newVersionToken() string {
	return fmt.Sprintf("v%d-%s", time.Now().UnixMilli(),
		generate.MathRandom(versionTokenSuffixLength, generate.CharsetAlphaNumericNoVowels))
}

func newRollbackVersionToken() string {
	return fmt.Sprintf("rollback-%d-%s", time.Now().UnixMilli(),
		generate.MathRandom(versionTokenSuffixLength, generate.CharsetAlphaNumericNoVowels))
}

// activeOrDefaultConfig loads the machine's active config, or synthesizes
// the system default document for a machine that never had one saved. The
// synthesized row is not persisted.
func activeOrDefaultConfig(db *gorm.DB, machineID uid.ID) (*models.MachineConfig, error) {
	config, err := data.GetActiveConfig(db, machineID)
	switch {
	case errors.Is(err, internal.ErrNotFound):
		return &models.MachineConfig{
			MachineID: machineID,
			Version:   api.ConfigVersionDefault,
			Config:    models.ConfigDocument(api.DefaultKioskConfig()),
			IsActive:  true,
		}, nil
	case err != nil:
		return nil, err
	}
	return config, nil
}

// GetMachineConfig returns the machine's active config for the device fetch
// path.
func GetMachineConfig(c *gin.Context, machineID uid.ID) (*models.MachineConfig, error) {
	db, err := requireMachine(c, machineID)
	if err != nil {
		return nil, err
	}
	return activeOrDefaultConfig(db, machineID)
}

// SaveConfig activates a new config version for the machine. The prior
// active row is deactivated and the new row inserted atomically; a reader
// never observes zero or two active rows.
func SaveConfig(c *gin.Context, req *api.SaveConfigRequest) (*models.MachineConfig, error) {
	db, key, err := requireOperator(c)
	if err != nil {
		return nil, err
	}

	machine, err := data.GetMachine(db, data.ByID(req.ID), data.ByOrgID(key.OrganizationID))
	if err != nil {
		return nil, err
	}

	config := &models.MachineConfig{
		OrganizationMember: models.OrganizationMember{OrganizationID: key.OrganizationID},
		MachineID:          machine.ID,
		Version:            newVersionToken(),
		Config:             models.ConfigDocument(req.Config),
		CreatedBy:          key.ID,
	}

	if err := data.ActivateConfig(db, config); err != nil {
		return nil, fmt.Errorf("activate config: %w", err)
	}

	return config, nil
}

// RollbackConfig re-applies a historical version's document under a fresh
// rollback-provenance version token. History is append-only; the old token
// is never reused.
func RollbackConfig(c *gin.Context, req *api.RollbackConfigRequest) (*models.MachineConfig, error) {
	db, key, err := requireOperator(c)
	if err != nil {
		return nil, err
	}

	machine, err := data.GetMachine(db, data.ByID(req.ID), data.ByOrgID(key.OrganizationID))
	if err != nil {
		return nil, err
	}

	source, err := data.GetConfigByVersion(db, machine.ID, req.TargetVersion)
	if err != nil {
		return nil, err
	}

	config := &models.MachineConfig{
		OrganizationMember: models.OrganizationMember{OrganizationID: key.OrganizationID},
		MachineID:          machine.ID,
		Version:            newRollbackVersionToken(),
		Config:             source.Config,
		RolledBackFrom:     source.Version,
		CreatedBy:          key.ID,
	}

	if err := data.ActivateConfig(db, config); err != nil {
		return nil, fmt.Errorf("activate config: %w", err)
	}

	return config, nil
}

// ListConfigHistory returns a machine's config versions, newest first.
func ListConfigHistory(c *gin.Context, machineID uid.ID) ([]models.MachineConfig, error) {
	db, key, err := requireOperator(c)
	if err != nil {
		return nil, err
	}

	if _, err := data.GetMachine(db, data.ByID(machineID), data.ByOrgID(key.OrganizationID)); err != nil {
		return nil, err
	}

	return data.ListConfigs(db, machineID)
}
