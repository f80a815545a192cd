package models

type Organization struct {
	Model

	Name string `gorm:"uniqueIndex:idx_organizations_name,where:deleted_at is NULL"`
}
