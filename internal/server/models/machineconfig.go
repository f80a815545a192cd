package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/boothhq/fleet/api"
	"github.com/boothhq/fleet/uid"
)

// ConfigDocument stores a fully validated kiosk config as serialized JSON.
type ConfigDocument api.KioskConfig

func (d ConfigDocument) Value() (driver.Value, error) {
	raw, err := json.Marshal(api.KioskConfig(d))
	if err != nil {
		return nil, fmt.Errorf("marshal config document: %w", err)
	}
	return string(raw), nil
}

func (d *ConfigDocument) Scan(v interface{}) error {
	var raw []byte
	switch typed := v.(type) {
	case []byte:
		raw = typed
	case string:
		raw = []byte(typed)
	default:
		return fmt.Errorf("unexpected type %T for config document", v)
	}
	return json.Unmarshal(raw, (*api.KioskConfig)(d))
}

func (ConfigDocument) GormDataType() string {
	return "text"
}

// MachineConfig is one row of a machine's append-only configuration history.
// Exactly one row per machine has IsActive=true at any instant; the flag is
// flipped and the new row inserted inside a single transaction, and the
// partial unique index on (machine_id) where is_active backs the invariant
// in the database itself.
type MachineConfig struct {
	Model
	OrganizationMember

	MachineID uid.ID `gorm:"uniqueIndex:idx_machine_configs_machine_version,where:deleted_at is NULL;uniqueIndex:idx_machine_configs_active,where:is_active AND deleted_at is NULL"`

	// Version is an opaque, monotonic token. Tokens are never reused or
	// rewritten; a rollback mints a fresh token.
	Version string `gorm:"uniqueIndex:idx_machine_configs_machine_version,where:deleted_at is NULL"`
	Config  ConfigDocument

	IsActive bool `gorm:"index"`

	// RolledBackFrom holds the version token this row was copied from when
	// it was created by a rollback.
	RolledBackFrom string

	CreatedBy uid.ID
}

func (c *MachineConfig) ToAPI() *api.MachineConfig {
	return &api.MachineConfig{
		ID:             c.ID,
		MachineID:      c.MachineID,
		Version:        c.Version,
		Config:         api.KioskConfig(c.Config),
		IsActive:       c.IsActive,
		RolledBackFrom: c.RolledBackFrom,
		Created:        api.Time(c.CreatedAt),
		CreatedBy:      c.CreatedBy,
	}
}
