package access

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/boothhq/fleet/api"
	"github.com/boothhq/fleet/internal/server/data"
	"github.com/boothhq/fleet/internal/server/models"
	"github.com/boothhq/fleet/uid"
)

const defaultPollLimit = 10

// PollCommands returns the machine's oldest deliverable commands and marks
// them sent. A command stays deliverable until the device acks it, so a
// crashed device sees it again on the next poll.
func PollCommands(c *gin.Context, machineID uid.ID, limit int) ([]models.MachineCommand, error) {
	db, err := requireMachine(c, machineID)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultPollLimit
	}

	return data.PollPendingCommands(db, machineID, limit)
}

// AcknowledgeCommand records a device-reported transition for one of the
// machine's own commands. Acks against another machine's command fail with
// not found.
func AcknowledgeCommand(c *gin.Context, req *api.AckCommandRequest) (*models.MachineCommand, error) {
	db, err := requireMachine(c, req.ID)
	if err != nil {
		return nil, err
	}

	return data.AcknowledgeCommand(db, req.ID, req.CommandID,
		api.CommandStatus(req.Status), models.JSONMap(req.Result), req.ErrorMessage)
}

// EnqueueCommands creates the same command for every target machine as one
// logical call. Every target must belong to the operator's organization; if
// any does not, the entire batch is rejected with zero rows written.
func EnqueueCommands(c *gin.Context, req *api.EnqueueCommandRequest) ([]models.MachineCommand, error) {
	db, key, err := requireOperator(c)
	if err != nil {
		return nil, err
	}

	targets := req.MachineIDs
	if req.MachineID != 0 {
		targets = append(targets, req.MachineID)
	}

	machines, err := data.ListMachines(db, data.ByOrgID(key.OrganizationID), data.ByIDs(targets))
	if err != nil {
		return nil, err
	}

	owned := make(map[uid.ID]bool, len(machines))
	for _, m := range machines {
		owned[m.ID] = true
	}
	for _, id := range targets {
		if !owned[id] {
			return nil, AuthorizationError{Resource: fmt.Sprintf("machine %v", id), Operation: "enqueue a command for"}
		}
	}

	commands := make([]models.MachineCommand, 0, len(targets))
	for _, id := range targets {
		commands = append(commands, models.MachineCommand{
			OrganizationMember: models.OrganizationMember{OrganizationID: key.OrganizationID},
			MachineID:          id,
			Type:               api.CommandType(req.Type),
			Payload:            models.JSONMap(req.Payload),
			Status:             api.CommandStatusPending,
			CreatedBy:          key.ID,
		})
	}

	if err := data.CreateCommands(db, commands); err != nil {
		return nil, fmt.Errorf("create commands: %w", err)
	}

	return commands, nil
}

// ListMachineCommands returns a machine's command history, newest first.
func ListMachineCommands(c *gin.Context, machineID uid.ID, status string) ([]models.MachineCommand, error) {
	db, key, err := requireOperator(c)
	if err != nil {
		return nil, err
	}

	// resolves the machine inside the org first so a foreign machine id
	// reads as unknown rather than as an empty history
	if _, err := data.GetMachine(db, data.ByID(machineID), data.ByOrgID(key.OrganizationID)); err != nil {
		return nil, err
	}

	return data.ListCommands(db, data.ByMachineID(machineID),
		data.ByOptionalStatus(status), data.CreatedDesc())
}
