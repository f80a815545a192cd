package data

import (
	"gorm.io/gorm"

	"github.com/boothhq/fleet/internal/server/models"
	"github.com/boothhq/fleet/uid"
)

func GetActiveConfig(db *gorm.DB, machineID uid.ID) (*models.MachineConfig, error) {
	return get[models.MachineConfig](db, ByMachineID(machineID), func(db *gorm.DB) *gorm.DB {
		return db.Where("is_active = ?", true)
	})
}

func GetConfigByVersion(db *gorm.DB, machineID uid.ID, version string) (*models.MachineConfig, error) {
	return get[models.MachineConfig](db, ByMachineID(machineID), ByVersion(version))
}

func ListConfigs(db *gorm.DB, machineID uid.ID) ([]models.MachineConfig, error) {
	return list[models.MachineConfig](db, ByMachineID(machineID), CreatedDesc())
}

// ActivateConfig inserts config as the machine's new active version inside
// one transaction: the prior active row is deactivated, the new row is
// inserted with isActive=true, and the machine's configVersion pointer is
// updated to match. A reader can never observe zero or two active rows for
// the machine. Two writers racing on postgres can each miss the other's
// freshly inserted active row under read committed; the partial unique
// index on the active flag makes the second insert fail with a unique
// constraint error, so the losing transaction rolls back instead of
// committing a second active row.
func ActivateConfig(db *gorm.DB, config *models.MachineConfig) error {
	return db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.MachineConfig{}).
			Where("machine_id = ?", config.MachineID).
			Where("is_active = ?", true).
			Update("is_active", false).Error
		if err != nil {
			return handleError(err)
		}

		config.IsActive = true
		if err := add(tx, config); err != nil {
			return err
		}

		return SetMachineConfigVersion(tx, config.MachineID, config.Version)
	})
}
