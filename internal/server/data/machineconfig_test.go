package data

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/boothhq/fleet/api"
	"github.com/boothhq/fleet/internal"
	"github.com/boothhq/fleet/internal/server/models"
	"github.com/boothhq/fleet/uid"
)

func activateTestConfig(t *testing.T, db *gorm.DB, machine *models.Machine, version string) *models.MachineConfig {
	t.Helper()
	config := &models.MachineConfig{
		OrganizationMember: models.OrganizationMember{OrganizationID: machine.OrganizationID},
		MachineID:          machine.ID,
		Version:            version,
		Config:             models.ConfigDocument(api.DefaultKioskConfig()),
	}
	require.NoError(t, ActivateConfig(db, config))
	return config
}

func activeVersions(t *testing.T, db *gorm.DB, machineID uid.ID) []string {
	t.Helper()
	configs, err := ListConfigs(db, machineID)
	require.NoError(t, err)

	var active []string
	for _, c := range configs {
		if c.IsActive {
			active = append(active, c.Version)
		}
	}
	return active
}

func TestActivateConfigSingleActive(t *testing.T) {
	db := setup(t)
	org := createTestOrg(t, db, "acme")
	machine := createTestMachine(t, db, org, "HW-1")

	for i := 1; i <= 3; i++ {
		activateTestConfig(t, db, machine, fmt.Sprintf("v%d-abc", i))
		assert.Equal(t, []string{fmt.Sprintf("v%d-abc", i)}, activeVersions(t, db, machine.ID))
	}

	configs, err := ListConfigs(db, machine.ID)
	require.NoError(t, err)
	assert.Len(t, configs, 3)

	got, err := GetMachine(db, ByID(machine.ID))
	require.NoError(t, err)
	assert.Equal(t, "v3-abc", got.ConfigVersion)
}

func TestActivateConfigRollbackRow(t *testing.T) {
	db := setup(t)
	org := createTestOrg(t, db, "acme")
	machine := createTestMachine(t, db, org, "HW-1")

	original := activateTestConfig(t, db, machine, "v1-abc")
	activateTestConfig(t, db, machine, "v2-abc")

	// a rollback is an ordinary activation of a copied document under a
	// fresh version token; the source row stays inactive and untouched
	rollback := &models.MachineConfig{
		OrganizationMember: models.OrganizationMember{OrganizationID: org.ID},
		MachineID:          machine.ID,
		Version:            "rollback-99-xyz",
		Config:             original.Config,
		RolledBackFrom:     original.Version,
	}
	require.NoError(t, ActivateConfig(db, rollback))

	assert.Equal(t, []string{"rollback-99-xyz"}, activeVersions(t, db, machine.ID))

	gotOriginal, err := GetConfigByVersion(db, machine.ID, "v1-abc")
	require.NoError(t, err)
	assert.False(t, gotOriginal.IsActive)

	gotRollback, err := GetActiveConfig(db, machine.ID)
	require.NoError(t, err)
	assert.Equal(t, "v1-abc", gotRollback.RolledBackFrom)
}

func TestActivateConfigDuplicateVersion(t *testing.T) {
	db := setup(t)
	org := createTestOrg(t, db, "acme")
	machine := createTestMachine(t, db, org, "HW-1")
	other := createTestMachine(t, db, org, "HW-2")

	activateTestConfig(t, db, machine, "v1-abc")

	dup := &models.MachineConfig{
		OrganizationMember: models.OrganizationMember{OrganizationID: org.ID},
		MachineID:          machine.ID,
		Version:            "v1-abc",
		Config:             models.ConfigDocument(api.DefaultKioskConfig()),
	}
	err := ActivateConfig(db, dup)
	var uniqueErr UniqueConstraintError
	require.True(t, errors.As(err, &uniqueErr))

	// the failed activation rolls back entirely; v1-abc stays active
	assert.Equal(t, []string{"v1-abc"}, activeVersions(t, db, machine.ID))

	// the same token is fine on a different machine
	activateTestConfig(t, db, other, "v1-abc")
}

func TestActiveConfigUniquePerMachine(t *testing.T) {
	db := setup(t)
	org := createTestOrg(t, db, "acme")
	machine := createTestMachine(t, db, org, "HW-1")
	other := createTestMachine(t, db, org, "HW-2")

	activateTestConfig(t, db, machine, "v1-abc")

	// a writer that never saw the current active row, as the second of two
	// racing transactions on postgres, is stopped by the partial unique
	// index instead of committing a second active row
	second := &models.MachineConfig{
		OrganizationMember: models.OrganizationMember{OrganizationID: org.ID},
		MachineID:          machine.ID,
		Version:            "v2-abc",
		Config:             models.ConfigDocument(api.DefaultKioskConfig()),
		IsActive:           true,
	}
	err := add(db, second)
	var uniqueErr UniqueConstraintError
	require.True(t, errors.As(err, &uniqueErr))

	assert.Equal(t, []string{"v1-abc"}, activeVersions(t, db, machine.ID))

	// inactive history rows and other machines are not constrained
	activateTestConfig(t, db, machine, "v3-abc")
	activateTestConfig(t, db, other, "v1-abc")
}

func TestGetActiveConfigNone(t *testing.T) {
	db := setup(t)
	org := createTestOrg(t, db, "acme")
	machine := createTestMachine(t, db, org, "HW-1")

	_, err := GetActiveConfig(db, machine.ID)
	require.True(t, errors.Is(err, internal.ErrNotFound))
}

func TestListConfigsNewestFirst(t *testing.T) {
	db := setup(t)
	org := createTestOrg(t, db, "acme")
	machine := createTestMachine(t, db, org, "HW-1")

	activateTestConfig(t, db, machine, "v1-abc")
	activateTestConfig(t, db, machine, "v2-abc")

	configs, err := ListConfigs(db, machine.ID)
	require.NoError(t, err)
	require.Len(t, configs, 2)
	assert.Equal(t, "v2-abc", configs[0].Version)
}
