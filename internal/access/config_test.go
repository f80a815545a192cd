package access

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boothhq/fleet/api"
	"github.com/boothhq/fleet/internal"
	"github.com/boothhq/fleet/internal/server/data"
)

func TestSaveConfigActivatesNewVersion(t *testing.T) {
	db := setupDB(t)
	org := createOrg(t, db, "acme")
	machine := createMachine(t, db, org, "HW-1")
	key := createOperatorKey(t, db, org)

	doc := api.DefaultKioskConfig()
	doc.Processing.Quality = 95

	first, err := SaveConfig(operatorContext(db, key), &api.SaveConfigRequest{
		Resource: api.Resource{ID: machine.ID},
		Config:   doc,
	})
	require.NoError(t, err)
	assert.True(t, first.IsActive)
	assert.Equal(t, key.ID, first.CreatedBy)

	second, err := SaveConfig(operatorContext(db, key), &api.SaveConfigRequest{
		Resource: api.Resource{ID: machine.ID},
		Config:   api.DefaultKioskConfig(),
	})
	require.NoError(t, err)
	assert.NotEqual(t, first.Version, second.Version)

	active, err := data.GetActiveConfig(db, machine.ID)
	require.NoError(t, err)
	assert.Equal(t, second.Version, active.Version)

	got, err := data.GetMachine(db, data.ByID(machine.ID))
	require.NoError(t, err)
	assert.Equal(t, second.Version, got.ConfigVersion)
}

func TestRollbackConfig(t *testing.T) {
	db := setupDB(t)
	org := createOrg(t, db, "acme")
	machine := createMachine(t, db, org, "HW-1")
	key := createOperatorKey(t, db, org)

	docV1 := api.DefaultKioskConfig()
	docV1.Camera.Resolution = "4k"

	first, err := SaveConfig(operatorContext(db, key), &api.SaveConfigRequest{
		Resource: api.Resource{ID: machine.ID},
		Config:   docV1,
	})
	require.NoError(t, err)

	_, err = SaveConfig(operatorContext(db, key), &api.SaveConfigRequest{
		Resource: api.Resource{ID: machine.ID},
		Config:   api.DefaultKioskConfig(),
	})
	require.NoError(t, err)

	rolled, err := RollbackConfig(operatorContext(db, key), &api.RollbackConfigRequest{
		Resource:      api.Resource{ID: machine.ID},
		TargetVersion: first.Version,
	})
	require.NoError(t, err)

	assert.NotEqual(t, first.Version, rolled.Version)
	assert.Equal(t, first.Version, rolled.RolledBackFrom)
	assert.Equal(t, first.Config, rolled.Config)

	history, err := ListConfigHistory(operatorContext(db, key), machine.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)

	active, err := data.GetActiveConfig(db, machine.ID)
	require.NoError(t, err)
	assert.Equal(t, rolled.Version, active.Version)
}

func TestRollbackConfigUnknownVersion(t *testing.T) {
	db := setupDB(t)
	org := createOrg(t, db, "acme")
	machine := createMachine(t, db, org, "HW-1")
	key := createOperatorKey(t, db, org)

	_, err := RollbackConfig(operatorContext(db, key), &api.RollbackConfigRequest{
		Resource:      api.Resource{ID: machine.ID},
		TargetVersion: "v0-missing",
	})
	require.True(t, errors.Is(err, internal.ErrNotFound))
}

func TestGetMachineConfigSynthesizesDefaults(t *testing.T) {
	db := setupDB(t)
	org := createOrg(t, db, "acme")
	machine := createMachine(t, db, org, "HW-1")

	config, err := GetMachineConfig(machineContext(db, machine), machine.ID)
	require.NoError(t, err)
	assert.Equal(t, api.ConfigVersionDefault, config.Version)
	assert.Equal(t, api.DefaultKioskConfig(), api.KioskConfig(config.Config))
}

func TestSaveConfigForeignMachine(t *testing.T) {
	db := setupDB(t)
	acme := createOrg(t, db, "acme")
	rival := createOrg(t, db, "rival")
	machine := createMachine(t, db, rival, "HW-1")

	key := createOperatorKey(t, db, acme)
	_, err := SaveConfig(operatorContext(db, key), &api.SaveConfigRequest{
		Resource: api.Resource{ID: machine.ID},
		Config:   api.DefaultKioskConfig(),
	})
	require.True(t, errors.Is(err, internal.ErrNotFound))
}
