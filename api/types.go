package api

import (
	"strings"
	"time"

	"github.com/boothhq/fleet/internal/validate"
	"github.com/boothhq/fleet/uid"
)

// Resource identifies a machine by the id in the request path.
type Resource struct {
	ID uid.ID `uri:"id" json:"-"`
}

func (r Resource) ValidationRules() []validate.ValidationRule {
	return []validate.ValidationRule{
		validate.Required("id", r.ID),
	}
}

type Time time.Time

func (t *Time) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("null"), nil
	}
	if time.Time(*t).IsZero() {
		return []byte("null"), nil
	}
	s := time.Time(*t).UTC().Format(time.RFC3339)
	return []byte(`"` + s + `"`), nil
}

func (t *Time) UnmarshalJSON(data []byte) error {
	if string(data) == "null" || string(data) == `""` {
		return nil
	}
	s := strings.Trim(string(data), `"`)
	tmp, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return err
	}
	*t = Time(tmp.UTC())
	return nil
}

func (t Time) String() string {
	return time.Time(t).Format(time.RFC3339)
}
