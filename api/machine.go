package api

import (
	"github.com/boothhq/fleet/internal/validate"
	"github.com/boothhq/fleet/uid"
)

type MachineStatus string

const (
	MachineStatusOnline      MachineStatus = "online"
	MachineStatusBusy        MachineStatus = "busy"
	MachineStatusError       MachineStatus = "error"
	MachineStatusMaintenance MachineStatus = "maintenance"
	MachineStatusOffline     MachineStatus = "offline"
)

// MachineSelfReportableStatuses is the restricted vocabulary a device may
// report about itself. "offline" is owned by the reaper and "maintenance" by
// operators; a device reporting either is rejected as invalid input.
var MachineSelfReportableStatuses = []string{
	string(MachineStatusOnline),
	string(MachineStatusBusy),
	string(MachineStatusError),
}

// Machine is a registered kiosk device.
type Machine struct {
	ID               uid.ID                 `json:"id"`
	Name             string                 `json:"name"`
	HardwareID       string                 `json:"hardwareId"`
	Status           MachineStatus          `json:"status"`
	LastHeartbeatAt  Time                   `json:"lastHeartbeatAt"`
	ConfigVersion    string                 `json:"configVersion"`
	PeripheralStatus map[string]interface{} `json:"peripheralStatus,omitempty"`
	HardwareInfo     map[string]interface{} `json:"hardwareInfo,omitempty"`
	Metrics          map[string]interface{} `json:"metrics,omitempty"`
	Created          Time                   `json:"created"`
	Updated          Time                   `json:"updated"`
}

type RegisterMachineRequest struct {
	HardwareID   string                 `json:"hardwareId"`
	APIKey       string                 `json:"apiKey"`
	Name         string                 `json:"name"`
	HardwareInfo map[string]interface{} `json:"hardwareInfo"`
}

func (r RegisterMachineRequest) ValidationRules() []validate.ValidationRule {
	return []validate.ValidationRule{
		validate.Required("hardwareId", r.HardwareID),
		validate.StringRule{
			Name:      "hardwareId",
			Value:     r.HardwareID,
			MinLength: 3,
			MaxLength: 128,
			CharacterRanges: []validate.CharRange{
				validate.AlphabetLower,
				validate.AlphabetUpper,
				validate.Numbers,
				validate.Dash,
				validate.Underscore,
				validate.Dot,
			},
		},
		validate.Required("apiKey", r.APIKey),
		validate.StringRule{Name: "name", Value: r.Name, MaxLength: 256},
	}
}

type RegisterMachineResponse struct {
	MachineID    uid.ID         `json:"machineId"`
	MachineToken string         `json:"machineToken"`
	ExpiresAt    Time           `json:"expiresAt"`
	Config       *MachineConfig `json:"config"`
}

type HeartbeatRequest struct {
	Resource
	Status           string                 `json:"status"`
	ConfigVersion    string                 `json:"configVersion"`
	PeripheralStatus map[string]interface{} `json:"peripheralStatus"`
	Metrics          map[string]interface{} `json:"metrics"`
}

func (r HeartbeatRequest) ValidationRules() []validate.ValidationRule {
	return []validate.ValidationRule{
		validate.Required("status", r.Status),
		validate.Enum("status", r.Status, MachineSelfReportableStatuses),
	}
}

type HeartbeatResponse struct {
	Acknowledged          bool `json:"acknowledged"`
	ServerTime            Time `json:"serverTime"`
	ConfigUpdateAvailable bool `json:"configUpdateAvailable"`
}

type ListMachinesRequest struct {
	Name   string `form:"name" json:"-"`
	Status string `form:"status" json:"-"`
}

func (r ListMachinesRequest) ValidationRules() []validate.ValidationRule {
	return []validate.ValidationRule{
		validate.Enum("status", r.Status, []string{
			string(MachineStatusOnline),
			string(MachineStatusBusy),
			string(MachineStatusError),
			string(MachineStatusMaintenance),
			string(MachineStatusOffline),
		}),
	}
}

type ListMachinesResponse struct {
	Machines []Machine `json:"machines"`
}

// SweepResponse is the result of the scheduler-invoked liveness sweep.
type SweepResponse struct {
	OfflinedMachines int64 `json:"offlinedMachines"`
}

// CommandSweepResponse is the result of the scheduler-invoked command
// timeout sweep.
type CommandSweepResponse struct {
	TimedOutCommands int64 `json:"timedOutCommands"`
}

// EmptyRequest is used for requests with no parameters.
type EmptyRequest struct{}

func (r EmptyRequest) ValidationRules() []validate.ValidationRule {
	return nil
}
