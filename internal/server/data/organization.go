package data

import (
	"gorm.io/gorm"

	"github.com/boothhq/fleet/internal/server/models"
)

func CreateOrganization(db *gorm.DB, org *models.Organization) error {
	return add(db, org)
}

func GetOrganization(db *gorm.DB, selectors ...SelectorFunc) (*models.Organization, error) {
	return get[models.Organization](db, selectors...)
}

func CountOrganizations(db *gorm.DB) (int64, error) {
	return count[models.Organization](db)
}
