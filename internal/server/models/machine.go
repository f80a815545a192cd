package models

import (
	"time"

	"github.com/boothhq/fleet/api"
)

// Machine is the canonical record of a kiosk device. The row has multiple
// writers with disciplined field ownership: status is written by the device
// (heartbeat) and the reaper, lastHeartbeatAt/peripheralStatus/hardwareInfo/
// metrics only by the device, configVersion only by the config store. Each
// writer role uses its own narrow update statement, never a generic save.
type Machine struct {
	Model
	OrganizationMember

	Name       string
	HardwareID string `gorm:"uniqueIndex:idx_machines_hardware_id,where:deleted_at is NULL"`

	Status          api.MachineStatus `gorm:"default:offline"`
	LastHeartbeatAt time.Time

	// ConfigVersion is the version token of the machine's active config.
	ConfigVersion string

	PeripheralStatus JSONMap
	HardwareInfo     JSONMap
	Metrics          JSONMap
}

func (m *Machine) ToAPI() *api.Machine {
	return &api.Machine{
		ID:               m.ID,
		Name:             m.Name,
		HardwareID:       m.HardwareID,
		Status:           m.Status,
		LastHeartbeatAt:  api.Time(m.LastHeartbeatAt),
		ConfigVersion:    m.ConfigVersion,
		PeripheralStatus: m.PeripheralStatus,
		HardwareInfo:     m.HardwareInfo,
		Metrics:          m.Metrics,
		Created:          api.Time(m.CreatedAt),
		Updated:          api.Time(m.UpdatedAt),
	}
}
