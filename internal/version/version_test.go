package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetFormattedVersion(t *testing.T) {
	assert.Equal(t, Version, GetFormattedVersion())

	Version = "v0.4.1"
	t.Cleanup(func() { Version = "development" })
	assert.Equal(t, "0.4.1", GetFormattedVersion())
}
