package access

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/boothhq/fleet/internal/claims"
	"github.com/boothhq/fleet/internal/logging"
	"github.com/boothhq/fleet/internal/server/data"
	"github.com/boothhq/fleet/internal/server/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupDB(t *testing.T) *gorm.DB {
	logging.PatchLogger(t, zerolog.NewTestWriter(t))

	driver, err := data.NewSQLiteDriver("file::memory:")
	require.NoError(t, err)

	db, err := data.NewDB(driver)
	require.NoError(t, err)

	_, err = data.InitializeSettings(db)
	require.NoError(t, err)

	return db
}

func createOrg(t *testing.T, db *gorm.DB, name string) *models.Organization {
	t.Helper()
	org := &models.Organization{Name: name}
	require.NoError(t, data.CreateOrganization(db, org))
	return org
}

func createDeviceKey(t *testing.T, db *gorm.DB, org *models.Organization) string {
	t.Helper()
	presented, err := data.CreateRegistrationKey(db, &models.RegistrationKey{
		OrganizationMember: models.OrganizationMember{OrganizationID: org.ID},
		Kind:               models.RegistrationKeyKindDevice,
	})
	require.NoError(t, err)
	return presented
}

func createOperatorKey(t *testing.T, db *gorm.DB, org *models.Organization) *models.RegistrationKey {
	t.Helper()
	key := &models.RegistrationKey{
		OrganizationMember: models.OrganizationMember{OrganizationID: org.ID},
		Kind:               models.RegistrationKeyKindOperator,
	}
	_, err := data.CreateRegistrationKey(db, key)
	require.NoError(t, err)
	return key
}

func createMachine(t *testing.T, db *gorm.DB, org *models.Organization, hardwareID string) *models.Machine {
	t.Helper()
	machine := &models.Machine{
		OrganizationMember: models.OrganizationMember{OrganizationID: org.ID},
		HardwareID:         hardwareID,
	}
	require.NoError(t, data.CreateMachine(db, machine))
	return machine
}

func newContext(db *gorm.DB, authenticated Authenticated) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(RequestContextKey, RequestContext{
		Request:       c.Request,
		DBTxn:         db,
		Authenticated: authenticated,
	})
	return c
}

func machineContext(db *gorm.DB, machine *models.Machine) *gin.Context {
	return newContext(db, Authenticated{Machine: &claims.Machine{
		MachineID:      machine.ID,
		OrganizationID: machine.OrganizationID,
		HardwareID:     machine.HardwareID,
	}})
}

func operatorContext(db *gorm.DB, key *models.RegistrationKey) *gin.Context {
	return newContext(db, Authenticated{Key: key})
}

func anonymousContext(db *gorm.DB) *gin.Context {
	return newContext(db, Authenticated{})
}
