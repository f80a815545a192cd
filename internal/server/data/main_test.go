package data

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/boothhq/fleet/internal/logging"
	"github.com/boothhq/fleet/internal/server/models"
)

func setup(t *testing.T) *gorm.DB {
	t.Helper()
	logging.PatchLogger(t, zerolog.NewTestWriter(t))

	driver, err := NewSQLiteDriver("file::memory:")
	require.NoError(t, err)

	db, err := NewDB(driver)
	require.NoError(t, err)
	return db
}

func createTestOrg(t *testing.T, db *gorm.DB, name string) *models.Organization {
	t.Helper()
	org := &models.Organization{Name: name}
	require.NoError(t, CreateOrganization(db, org))
	return org
}

func createTestMachine(t *testing.T, db *gorm.DB, org *models.Organization, hardwareID string) *models.Machine {
	t.Helper()
	machine := &models.Machine{
		OrganizationMember: models.OrganizationMember{OrganizationID: org.ID},
		HardwareID:         hardwareID,
		Name:               "booth " + hardwareID,
	}
	require.NoError(t, CreateMachine(db, machine))
	return machine
}
