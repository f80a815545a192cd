package data

import (
	"gorm.io/gorm"

	"github.com/boothhq/fleet/uid"
)

type SelectorFunc func(db *gorm.DB) *gorm.DB

func ByID(id uid.ID) SelectorFunc {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ?", id)
	}
}

func ByOrgID(orgID uid.ID) SelectorFunc {
	if orgID == 0 {
		panic("OrganizationID was not set")
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("organization_id = ?", orgID)
	}
}

func ByMachineID(machineID uid.ID) SelectorFunc {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("machine_id = ?", machineID)
	}
}

func ByIDs(ids []uid.ID) SelectorFunc {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id in (?)", ids)
	}
}

func ByHardwareID(hardwareID string) SelectorFunc {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("hardware_id = ?", hardwareID)
	}
}

func ByName(name string) SelectorFunc {
	return func(db *gorm.DB) *gorm.DB {
		if name == "" {
			return db
		}
		return db.Where("name = ?", name)
	}
}

func ByOptionalStatus(status string) SelectorFunc {
	return func(db *gorm.DB) *gorm.DB {
		if status == "" {
			return db
		}
		return db.Where("status = ?", status)
	}
}

func ByOptionalKind(kind string) SelectorFunc {
	return func(db *gorm.DB) *gorm.DB {
		if kind == "" {
			return db
		}
		return db.Where("kind = ?", kind)
	}
}

func ByKeyID(keyID string) SelectorFunc {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("key_id = ?", keyID)
	}
}

func ByVersion(version string) SelectorFunc {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("version = ?", version)
	}
}

func CreatedAsc() SelectorFunc {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}
}

func CreatedDesc() SelectorFunc {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at DESC")
	}
}

func Limit(limit int) SelectorFunc {
	return func(db *gorm.DB) *gorm.DB {
		if limit <= 0 {
			return db
		}
		return db.Limit(limit)
	}
}
