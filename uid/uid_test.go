package uid_test

import (
	"encoding/json"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/boothhq/fleet/uid"
)

func TestJSONRoundTrip(t *testing.T) {
	obj := struct {
		ID uid.ID
	}{}

	newID := uid.New()

	source := []byte(`{"id": "` + newID.String() + `"}`)

	err := json.Unmarshal(source, &obj)
	assert.NilError(t, err)
	assert.Equal(t, newID, obj.ID)

	raw, err := json.Marshal(obj)
	assert.NilError(t, err)
	assert.Equal(t, string(raw), `{"ID":"`+newID.String()+`"}`)
}

func TestParseInvalid(t *testing.T) {
	_, err := uid.Parse([]byte("self-evidently-not-base58!"))
	assert.Assert(t, is.ErrorContains(err, ""))
}

func TestNewIsUnique(t *testing.T) {
	seen := make(map[uid.ID]struct{})
	for i := 0; i < 1000; i++ {
		id := uid.New()
		_, ok := seen[id]
		assert.Assert(t, !ok, "duplicate id %v", id)
		seen[id] = struct{}{}
	}
}
