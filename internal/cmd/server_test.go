package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gotest.tools/v3/assert"

	"github.com/boothhq/fleet/internal/cmd/cliopts"
)

func TestServerOptionsFromEnv(t *testing.T) {
	t.Setenv("FLEET_SERVER_CRON_SECRET", "s3cret")
	t.Setenv("FLEET_SERVER_HEARTBEAT_THRESHOLD", "2m")
	t.Setenv("FLEET_SERVER_ADDR_HTTP", "127.0.0.1:4567")

	options := defaultServerOptions()
	err := cliopts.Load(&options, cliopts.Options{EnvPrefix: "FLEET_SERVER"})
	assert.NilError(t, err)

	assert.Equal(t, options.CronSecret, "s3cret")
	assert.Equal(t, options.HeartbeatThreshold, 2*time.Minute)
	assert.Equal(t, options.Addr.HTTP, "127.0.0.1:4567")
	// untouched fields keep their defaults
	assert.Equal(t, options.Addr.Metrics, ":9090")
	assert.Equal(t, options.CommandDeadline, 15*time.Minute)
}

func TestServerOptionsFromFile(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "server.yaml")
	content := `
cronSecret: from-file
commandDeadline: 45m
addr:
  metrics: "127.0.0.1:9100"
api:
  requestTimeout: 30s
`
	assert.NilError(t, os.WriteFile(filename, []byte(content), 0o600))

	options := defaultServerOptions()
	err := cliopts.Load(&options, cliopts.Options{Filename: filename})
	assert.NilError(t, err)

	assert.Equal(t, options.CronSecret, "from-file")
	assert.Equal(t, options.CommandDeadline, 45*time.Minute)
	assert.Equal(t, options.Addr.Metrics, "127.0.0.1:9100")
	assert.Equal(t, options.API.RequestTimeout, 30*time.Second)
}

func TestCanonicalPath(t *testing.T) {
	home, err := os.UserHomeDir()
	assert.NilError(t, err)

	p, err := canonicalPath("~/fleet/sqlite3.db")
	assert.NilError(t, err)
	assert.Equal(t, p, filepath.Join(home, "fleet", "sqlite3.db"))

	t.Setenv("FLEET_TEST_DIR", "/tmp/fleet")
	p, err = canonicalPath("$FLEET_TEST_DIR/sqlite3.db")
	assert.NilError(t, err)
	assert.Equal(t, p, "/tmp/fleet/sqlite3.db")

	p, err = canonicalPath("")
	assert.NilError(t, err)
	assert.Equal(t, p, "")
}
