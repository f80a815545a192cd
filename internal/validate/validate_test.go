package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRequest struct {
	Name  string      `json:"name"`
	Count int         `json:"count"`
	Inner *innerBlock `json:"inner"`
}

func (r testRequest) ValidationRules() []ValidationRule {
	return []ValidationRule{
		Required("name", r.Name),
		StringRule{Name: "name", Value: r.Name, MaxLength: 10, CharacterRanges: AlphaNumeric},
		IntRule{Name: "count", Value: r.Count, Min: Int(1), Max: Int(5)},
	}
}

type innerBlock struct {
	Mode string `json:"mode"`
}

func (b innerBlock) ValidationRules() []ValidationRule {
	return []ValidationRule{
		Enum("mode", b.Mode, []string{"fast", "slow"}),
	}
}

func TestValidate(t *testing.T) {
	t.Run("all rules pass", func(t *testing.T) {
		err := Validate(testRequest{Name: "ok", Count: 2})
		require.NoError(t, err)
	})
	t.Run("required", func(t *testing.T) {
		err := Validate(testRequest{Count: 2})
		require.Error(t, err)
		var fieldErr Error
		require.ErrorAs(t, err, &fieldErr)
		assert.Contains(t, fieldErr["name"], "is required")
	})
	t.Run("bounds", func(t *testing.T) {
		err := Validate(testRequest{Name: "ok", Count: 9})
		require.Error(t, err)
		var fieldErr Error
		require.ErrorAs(t, err, &fieldErr)
		assert.Len(t, fieldErr["count"], 1)
	})
	t.Run("nested fields use dotted names", func(t *testing.T) {
		err := Validate(testRequest{Name: "ok", Count: 2, Inner: &innerBlock{Mode: "warp"}})
		require.Error(t, err)
		var fieldErr Error
		require.ErrorAs(t, err, &fieldErr)
		assert.Len(t, fieldErr["inner.mode"], 1)
	})
	t.Run("enum zero value is optional", func(t *testing.T) {
		err := Validate(testRequest{Name: "ok", Count: 2, Inner: &innerBlock{}})
		require.NoError(t, err)
	})
}
