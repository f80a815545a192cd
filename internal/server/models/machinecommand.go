package models

import (
	"time"

	"github.com/boothhq/fleet/api"
	"github.com/boothhq/fleet/uid"
)

// MachineCommand is one operator directive queued for pull-based delivery.
// The cloud owns only the pending→sent transition; the device owns every
// transition from sent onward. Terminal rows are immutable.
type MachineCommand struct {
	Model
	OrganizationMember

	MachineID uid.ID `gorm:"index"`

	Type    api.CommandType
	Payload JSONMap

	Status       api.CommandStatus `gorm:"default:pending;index"`
	Result       JSONMap
	ErrorMessage string

	SentAt      *time.Time
	ReceivedAt  *time.Time
	CompletedAt *time.Time

	CreatedBy uid.ID
}

// commandStatusOrder is the partial order of the delivery state machine.
// Transitions must move strictly forward and may skip intermediate states,
// but never move backward or out of a terminal state.
var commandStatusOrder = map[api.CommandStatus]int{
	api.CommandStatusPending:   0,
	api.CommandStatusSent:      1,
	api.CommandStatusReceived:  2,
	api.CommandStatusExecuting: 3,
	api.CommandStatusCompleted: 4,
	api.CommandStatusFailed:    4,
	api.CommandStatusTimeout:   4,
}

// CommandStatusTerminal reports whether status is a terminal state.
func CommandStatusTerminal(status api.CommandStatus) bool {
	return commandStatusOrder[status] == 4
}

// ValidCommandTransition reports whether a command may move from cur to next.
func ValidCommandTransition(cur, next api.CommandStatus) bool {
	curOrder, ok := commandStatusOrder[cur]
	if !ok {
		return false
	}
	nextOrder, ok := commandStatusOrder[next]
	if !ok {
		return false
	}
	if CommandStatusTerminal(cur) {
		return false
	}
	return nextOrder > curOrder
}

func (c *MachineCommand) ToAPI() *api.MachineCommand {
	result := &api.MachineCommand{
		ID:           c.ID,
		MachineID:    c.MachineID,
		Type:         c.Type,
		Payload:      c.Payload,
		Status:       c.Status,
		Result:       c.Result,
		ErrorMessage: c.ErrorMessage,
		Created:      api.Time(c.CreatedAt),
		CreatedBy:    c.CreatedBy,
	}
	if c.SentAt != nil {
		t := api.Time(*c.SentAt)
		result.SentAt = &t
	}
	if c.ReceivedAt != nil {
		t := api.Time(*c.ReceivedAt)
		result.ReceivedAt = &t
	}
	if c.CompletedAt != nil {
		t := api.Time(*c.CompletedAt)
		result.CompletedAt = &t
	}
	return result
}

// ToPending is the wire shape delivered to a device on poll.
func (c *MachineCommand) ToPending() api.PendingCommand {
	return api.PendingCommand{
		ID:        c.ID,
		Type:      c.Type,
		Payload:   c.Payload,
		CreatedAt: api.Time(c.CreatedAt),
	}
}
