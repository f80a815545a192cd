package api

import (
	"github.com/boothhq/fleet/internal/validate"
	"github.com/boothhq/fleet/uid"
)

// SessionKinds is the accepted vocabulary for a session's capture kind.
var SessionKinds = []string{"photo", "video", "boomerang"}

// Session is a single captured kiosk session ingested from a device. The
// server only records it; aggregation and bookkeeping live elsewhere.
type Session struct {
	ID        uid.ID                 `json:"id"`
	MachineID uid.ID                 `json:"machineId"`
	Code      string                 `json:"code"`
	Kind      string                 `json:"kind"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
	Created   Time                   `json:"created"`
}

type CreateSessionRequest struct {
	Resource
	Code    string                 `json:"code"`
	Kind    string                 `json:"kind"`
	Payload map[string]interface{} `json:"payload"`
}

func (r CreateSessionRequest) ValidationRules() []validate.ValidationRule {
	return append(r.Resource.ValidationRules(),
		validate.Required("code", r.Code),
		validate.StringRule{
			Name:      "code",
			Value:     r.Code,
			MinLength: 4,
			MaxLength: 64,
			CharacterRanges: []validate.CharRange{
				validate.AlphabetUpper,
				validate.AlphabetLower,
				validate.Numbers,
				validate.Dash,
			},
		},
		validate.Required("kind", r.Kind),
		validate.Enum("kind", r.Kind, SessionKinds),
	)
}

type CreateSessionResponse struct {
	Session Session `json:"session"`
}

type ListSessionsRequest struct {
	Resource
	Kind string `form:"kind" json:"-"`
}

func (r ListSessionsRequest) ValidationRules() []validate.ValidationRule {
	return append(r.Resource.ValidationRules(),
		validate.Enum("kind", r.Kind, SessionKinds),
	)
}

type ListSessionsResponse struct {
	Sessions []Session `json:"sessions"`
}
