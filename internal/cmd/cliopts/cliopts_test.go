package cliopts

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"gotest.tools/v3/assert"
)

type testOptions struct {
	Name     string
	Interval time.Duration
	Addr     testAddrOptions
}

type testAddrOptions struct {
	HTTP    string
	Metrics string
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "config.yaml")
	content := `
name: from-file
addr:
  metrics: ":9090"
`
	assert.NilError(t, os.WriteFile(filename, []byte(content), 0o600))

	t.Setenv("TESTAPP_INTERVAL", "90s")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("addr-http", "", "")
	assert.NilError(t, flags.Parse([]string{"--addr-http", ":8080"}))

	actual := testOptions{}
	err := Load(&actual, Options{
		Filename:  filename,
		EnvPrefix: "TESTAPP",
		Flags:     flags,
	})
	assert.NilError(t, err)

	expected := testOptions{
		Name:     "from-file",
		Interval: 90 * time.Second,
		Addr: testAddrOptions{
			HTTP:    ":8080",
			Metrics: ":9090",
		},
	}
	assert.DeepEqual(t, actual, expected)
}

func TestLoadMissingFile(t *testing.T) {
	actual := testOptions{}
	err := Load(&actual, Options{Filename: "/does/not/exist.yaml"})
	assert.ErrorContains(t, err, "failed to open file")
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "config.yaml")
	assert.NilError(t, os.WriteFile(filename, []byte("name: from-file\n"), 0o600))

	t.Setenv("TESTAPP_NAME", "from-env")

	actual := testOptions{}
	err := Load(&actual, Options{Filename: filename, EnvPrefix: "TESTAPP"})
	assert.NilError(t, err)
	assert.Equal(t, actual.Name, "from-env")
}
