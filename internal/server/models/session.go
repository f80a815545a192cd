package models

import (
	"github.com/boothhq/fleet/api"
	"github.com/boothhq/fleet/uid"
)

// Session is one captured kiosk session as reported by a device. Ingestion
// only; aggregation happens outside this service.
type Session struct {
	Model
	OrganizationMember

	MachineID uid.ID `gorm:"index"`

	Code    string `gorm:"uniqueIndex:idx_sessions_code,where:deleted_at is NULL"`
	Kind    string
	Payload JSONMap
}

func (s *Session) ToAPI() *api.Session {
	return &api.Session{
		ID:        s.ID,
		MachineID: s.MachineID,
		Code:      s.Code,
		Kind:      s.Kind,
		Payload:   s.Payload,
		Created:   api.Time(s.CreatedAt),
	}
}
