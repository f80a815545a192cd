package api

import (
	"github.com/boothhq/fleet/internal/validate"
	"github.com/boothhq/fleet/uid"
)

type CommandType string

const (
	CommandTypeRestart        CommandType = "restart"
	CommandTypeShutdown       CommandType = "shutdown"
	CommandTypeRestartApp     CommandType = "restart_app"
	CommandTypeSyncConfig     CommandType = "sync_config"
	CommandTypeUpdateSoftware CommandType = "update_software"
	CommandTypeClearCache     CommandType = "clear_cache"
	CommandTypeTestPrint      CommandType = "test_print"
	CommandTypeSetDemoMode    CommandType = "set_demo_mode"
)

var CommandTypes = []string{
	string(CommandTypeRestart),
	string(CommandTypeShutdown),
	string(CommandTypeRestartApp),
	string(CommandTypeSyncConfig),
	string(CommandTypeUpdateSoftware),
	string(CommandTypeClearCache),
	string(CommandTypeTestPrint),
	string(CommandTypeSetDemoMode),
}

type CommandStatus string

const (
	CommandStatusPending   CommandStatus = "pending"
	CommandStatusSent      CommandStatus = "sent"
	CommandStatusReceived  CommandStatus = "received"
	CommandStatusExecuting CommandStatus = "executing"
	CommandStatusCompleted CommandStatus = "completed"
	CommandStatusFailed    CommandStatus = "failed"
	CommandStatusTimeout   CommandStatus = "timeout"
)

// CommandAckStatuses is the vocabulary a device may use to acknowledge a
// command. Terminal "timeout" is owned by the timeout sweep.
var CommandAckStatuses = []string{
	string(CommandStatusReceived),
	string(CommandStatusCompleted),
	string(CommandStatusFailed),
}

type MachineCommand struct {
	ID           uid.ID                 `json:"id"`
	MachineID    uid.ID                 `json:"machineId"`
	Type         CommandType            `json:"type"`
	Payload      map[string]interface{} `json:"payload,omitempty"`
	Status       CommandStatus          `json:"status"`
	Result       map[string]interface{} `json:"result,omitempty"`
	ErrorMessage string                 `json:"errorMessage,omitempty"`
	Created      Time                   `json:"created"`
	SentAt       *Time                  `json:"sentAt,omitempty"`
	ReceivedAt   *Time                  `json:"receivedAt,omitempty"`
	CompletedAt  *Time                  `json:"completedAt,omitempty"`
	CreatedBy    uid.ID                 `json:"createdBy"`
}

// PendingCommand is the wire shape of a command delivered to a device.
type PendingCommand struct {
	ID        uid.ID                 `json:"id"`
	Type      CommandType            `json:"type"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
	CreatedAt Time                   `json:"createdAt"`
}

type PollCommandsRequest struct {
	Resource
	Limit int `form:"limit" json:"-"`
}

func (r PollCommandsRequest) ValidationRules() []validate.ValidationRule {
	return append(r.Resource.ValidationRules(),
		validate.IntRule{Name: "limit", Value: r.Limit, Min: validate.Int(1), Max: validate.Int(100)},
	)
}

type PollCommandsResponse struct {
	Commands []PendingCommand `json:"commands"`
}

type AckCommandRequest struct {
	Resource
	CommandID    uid.ID                 `uri:"cid" json:"-"`
	Status       string                 `json:"status"`
	Result       map[string]interface{} `json:"result"`
	ErrorMessage string                 `json:"errorMessage"`
}

func (r AckCommandRequest) ValidationRules() []validate.ValidationRule {
	return append(r.Resource.ValidationRules(),
		validate.Required("cid", r.CommandID),
		validate.Required("status", r.Status),
		validate.Enum("status", r.Status, CommandAckStatuses),
	)
}

type AckCommandResponse struct {
	Acknowledged bool `json:"acknowledged"`
}

// EnqueueCommandRequest enqueues a command for one machine, or the same
// command for several machines as one logical call.
type EnqueueCommandRequest struct {
	MachineID  uid.ID                 `json:"machineId"`
	MachineIDs []uid.ID               `json:"machineIds"`
	Type       string                 `json:"type"`
	Payload    map[string]interface{} `json:"payload"`
}

func (r EnqueueCommandRequest) ValidationRules() []validate.ValidationRule {
	return []validate.ValidationRule{
		validate.RequireOneOf(
			validate.Field{Name: "machineId", Value: r.MachineID},
			validate.Field{Name: "machineIds", Value: r.MachineIDs},
		),
		validate.Required("type", r.Type),
		validate.Enum("type", r.Type, CommandTypes),
	}
}

type EnqueueCommandResponse struct {
	Commands []MachineCommand `json:"commands"`
}

type ListCommandsRequest struct {
	Resource
	Status string `form:"status" json:"-"`
}

func (r ListCommandsRequest) ValidationRules() []validate.ValidationRule {
	return append(r.Resource.ValidationRules(),
		validate.Enum("status", r.Status, []string{
			string(CommandStatusPending),
			string(CommandStatusSent),
			string(CommandStatusReceived),
			string(CommandStatusExecuting),
			string(CommandStatusCompleted),
			string(CommandStatusFailed),
			string(CommandStatusTimeout),
		}),
	)
}

type ListCommandsResponse struct {
	Commands []MachineCommand `json:"commands"`
}
