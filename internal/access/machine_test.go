package access

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boothhq/fleet/api"
	"github.com/boothhq/fleet/internal"
	"github.com/boothhq/fleet/internal/claims"
	"github.com/boothhq/fleet/internal/server/data"
	"github.com/boothhq/fleet/internal/server/models"
)

func TestRegisterMachine(t *testing.T) {
	db := setupDB(t)
	org := createOrg(t, db, "acme")
	apiKey := createDeviceKey(t, db, org)

	c := anonymousContext(db)
	registered, err := RegisterMachine(c, &api.RegisterMachineRequest{
		HardwareID:   "HW-1",
		APIKey:       apiKey,
		Name:         "lobby kiosk",
		HardwareInfo: map[string]interface{}{"model": "mk3"},
	}, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, "lobby kiosk", registered.Machine.Name)
	assert.Equal(t, org.ID, registered.Machine.OrganizationID)
	assert.NotEmpty(t, registered.Token)
	assert.True(t, registered.TokenExpiresAt.After(time.Now()))

	// no config was ever saved, so the defaults are synthesized
	require.NotNil(t, registered.Config)
	assert.Equal(t, api.ConfigVersionDefault, registered.Config.Version)
	assert.Equal(t, models.ConfigDocument(api.DefaultKioskConfig()), registered.Config.Config)

	settings, err := data.GetSettings(db)
	require.NoError(t, err)
	payload, err := claims.ValidateMachineToken(settings.PublicJWK, registered.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.Machine.ID, payload.MachineID)
	assert.Equal(t, org.ID, payload.OrganizationID)
	assert.Equal(t, "HW-1", payload.HardwareID)
}

func TestRegisterMachineAgainKeepsIdentity(t *testing.T) {
	db := setupDB(t)
	org := createOrg(t, db, "acme")
	apiKey := createDeviceKey(t, db, org)

	first, err := RegisterMachine(anonymousContext(db), &api.RegisterMachineRequest{
		HardwareID: "HW-1",
		APIKey:     apiKey,
	}, time.Hour)
	require.NoError(t, err)

	second, err := RegisterMachine(anonymousContext(db), &api.RegisterMachineRequest{
		HardwareID: "HW-1",
		APIKey:     apiKey,
		Name:       "renamed",
	}, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, first.Machine.ID, second.Machine.ID)

	machine, err := data.GetMachine(db, data.ByID(first.Machine.ID))
	require.NoError(t, err)
	assert.Equal(t, "renamed", machine.Name)
}

func TestRegisterMachineInvalidKey(t *testing.T) {
	db := setupDB(t)
	org := createOrg(t, db, "acme")
	createDeviceKey(t, db, org)

	_, err := RegisterMachine(anonymousContext(db), &api.RegisterMachineRequest{
		HardwareID: "HW-1",
		APIKey:     "bk_aaaaaaaaaa.aaaaaaaaaaaaaaaaaaaaaaaa",
	}, time.Hour)
	require.True(t, errors.Is(err, internal.ErrInvalidAPIKey))
}

func TestRegisterMachineOrgMismatch(t *testing.T) {
	db := setupDB(t)
	acme := createOrg(t, db, "acme")
	rival := createOrg(t, db, "rival")
	acmeKey := createDeviceKey(t, db, acme)
	rivalKey := createDeviceKey(t, db, rival)

	_, err := RegisterMachine(anonymousContext(db), &api.RegisterMachineRequest{
		HardwareID: "HW-1",
		APIKey:     acmeKey,
	}, time.Hour)
	require.NoError(t, err)

	_, err = RegisterMachine(anonymousContext(db), &api.RegisterMachineRequest{
		HardwareID: "HW-1",
		APIKey:     rivalKey,
	}, time.Hour)
	require.True(t, errors.Is(err, internal.ErrOrgMismatch))

	// the machine was not reassigned
	machine, err := data.GetMachine(db, data.ByHardwareID("HW-1"))
	require.NoError(t, err)
	assert.Equal(t, acme.ID, machine.OrganizationID)
}

func TestRecordHeartbeat(t *testing.T) {
	db := setupDB(t)
	org := createOrg(t, db, "acme")
	machine := createMachine(t, db, org, "HW-1")

	c := machineContext(db, machine)
	updated, configUpdate, err := RecordHeartbeat(c, &api.HeartbeatRequest{
		Resource:      api.Resource{ID: machine.ID},
		Status:        string(api.MachineStatusOnline),
		ConfigVersion: api.ConfigVersionDefault,
	})
	require.NoError(t, err)

	assert.Equal(t, api.MachineStatusOnline, updated.Status)
	assert.False(t, updated.LastHeartbeatAt.IsZero())
	assert.False(t, configUpdate)
}

func TestRecordHeartbeatConfigDrift(t *testing.T) {
	db := setupDB(t)
	org := createOrg(t, db, "acme")
	machine := createMachine(t, db, org, "HW-1")

	require.NoError(t, data.ActivateConfig(db, &models.MachineConfig{
		OrganizationMember: models.OrganizationMember{OrganizationID: org.ID},
		MachineID:          machine.ID,
		Version:            "v1-abc",
		Config:             models.ConfigDocument(api.DefaultKioskConfig()),
	}))

	c := machineContext(db, machine)
	_, configUpdate, err := RecordHeartbeat(c, &api.HeartbeatRequest{
		Resource:      api.Resource{ID: machine.ID},
		Status:        string(api.MachineStatusOnline),
		ConfigVersion: api.ConfigVersionDefault,
	})
	require.NoError(t, err)
	assert.True(t, configUpdate)
}

func TestRecordHeartbeatWrongMachineToken(t *testing.T) {
	db := setupDB(t)
	org := createOrg(t, db, "acme")
	machine := createMachine(t, db, org, "HW-1")
	other := createMachine(t, db, org, "HW-2")

	c := machineContext(db, other)
	_, _, err := RecordHeartbeat(c, &api.HeartbeatRequest{
		Resource: api.Resource{ID: machine.ID},
		Status:   string(api.MachineStatusOnline),
	})
	require.True(t, errors.Is(err, internal.ErrForbidden))
}

func TestListMachinesScopedToOrganization(t *testing.T) {
	db := setupDB(t)
	acme := createOrg(t, db, "acme")
	rival := createOrg(t, db, "rival")
	createMachine(t, db, acme, "HW-1")
	createMachine(t, db, acme, "HW-2")
	createMachine(t, db, rival, "HW-3")

	key := createOperatorKey(t, db, acme)
	machines, err := ListMachines(operatorContext(db, key), "", "")
	require.NoError(t, err)
	require.Len(t, machines, 2)
	for _, m := range machines {
		assert.Equal(t, acme.ID, m.OrganizationID)
	}
}

func TestGetMachineForeignOrg(t *testing.T) {
	db := setupDB(t)
	acme := createOrg(t, db, "acme")
	rival := createOrg(t, db, "rival")
	machine := createMachine(t, db, rival, "HW-1")

	key := createOperatorKey(t, db, acme)
	_, err := GetMachine(operatorContext(db, key), machine.ID)
	require.True(t, errors.Is(err, internal.ErrNotFound))
}
