package data

import (
	"time"

	"gorm.io/gorm"

	"github.com/boothhq/fleet/api"
	"github.com/boothhq/fleet/internal/server/models"
	"github.com/boothhq/fleet/uid"
)

func CreateMachine(db *gorm.DB, machine *models.Machine) error {
	return add(db, machine)
}

func GetMachine(db *gorm.DB, selectors ...SelectorFunc) (*models.Machine, error) {
	return get[models.Machine](db, selectors...)
}

func ListMachines(db *gorm.DB, selectors ...SelectorFunc) ([]models.Machine, error) {
	return list[models.Machine](db, append(selectors, CreatedAsc())...)
}

func CountMachinesByStatus(db *gorm.DB, status api.MachineStatus) (int64, error) {
	return count[models.Machine](db, ByOptionalStatus(string(status)))
}

// UpdateMachineHeartbeat overwrites the device-owned fields of the machine
// row and stamps lastHeartbeatAt. Last write wins; replaying an identical
// heartbeat produces identical state aside from the timestamp. Only the
// device-owned columns are touched so that concurrent writers (reaper,
// config store) are never overwritten.
func UpdateMachineHeartbeat(db *gorm.DB, machineID uid.ID, status api.MachineStatus, peripheralStatus, metrics models.JSONMap) error {
	updates := map[string]interface{}{
		"status":            status,
		"last_heartbeat_at": time.Now().UTC(),
	}
	if peripheralStatus != nil {
		updates["peripheral_status"] = peripheralStatus
	}
	if metrics != nil {
		updates["metrics"] = metrics
	}

	result := db.Model(&models.Machine{}).Where("id = ?", machineID).Updates(updates)
	return handleError(result.Error)
}

// UpdateMachineRegistration refreshes the identity fields a device may
// resubmit when it re-registers. Empty values leave the column untouched.
func UpdateMachineRegistration(db *gorm.DB, machineID uid.ID, name string, hardwareInfo models.JSONMap) error {
	updates := map[string]interface{}{}
	if name != "" {
		updates["name"] = name
	}
	if hardwareInfo != nil {
		updates["hardware_info"] = hardwareInfo
	}
	if len(updates) == 0 {
		return nil
	}

	result := db.Model(&models.Machine{}).Where("id = ?", machineID).Updates(updates)
	return handleError(result.Error)
}

// SetMachineConfigVersion updates the machine's active config pointer. Only
// the config store writes this column.
func SetMachineConfigVersion(db *gorm.DB, machineID uid.ID, version string) error {
	result := db.Model(&models.Machine{}).Where("id = ?", machineID).Update("config_version", version)
	return handleError(result.Error)
}

// SweepOfflineMachines demotes every machine whose last heartbeat is older
// than olderThan and that is not already offline. One batch update, forward
// transition only, idempotent: a second sweep matches zero rows.
func SweepOfflineMachines(db *gorm.DB, olderThan time.Time) (int64, error) {
	result := db.Model(&models.Machine{}).
		Where("last_heartbeat_at < ?", olderThan).
		Where("status <> ?", api.MachineStatusOffline).
		Update("status", api.MachineStatusOffline)
	if result.Error != nil {
		return 0, handleError(result.Error)
	}
	return result.RowsAffected, nil
}
