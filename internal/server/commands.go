package server

import (
	"github.com/gin-gonic/gin"

	"github.com/boothhq/fleet/api"
	"github.com/boothhq/fleet/internal/access"
)

func (a *API) PollCommands(c *gin.Context, req *api.PollCommandsRequest) (*api.PollCommandsResponse, error) {
	commands, err := access.PollCommands(c, req.ID, req.Limit)
	if err != nil {
		return nil, err
	}

	resp := &api.PollCommandsResponse{Commands: make([]api.PendingCommand, len(commands))}
	for i := range commands {
		resp.Commands[i] = commands[i].ToPending()
	}
	return resp, nil
}

func (a *API) AckCommand(c *gin.Context, req *api.AckCommandRequest) (*api.AckCommandResponse, error) {
	if _, err := access.AcknowledgeCommand(c, req); err != nil {
		return nil, err
	}
	return &api.AckCommandResponse{Acknowledged: true}, nil
}

func (a *API) EnqueueCommands(c *gin.Context, req *api.EnqueueCommandRequest) (*api.EnqueueCommandResponse, error) {
	commands, err := access.EnqueueCommands(c, req)
	if err != nil {
		return nil, err
	}

	resp := &api.EnqueueCommandResponse{Commands: make([]api.MachineCommand, len(commands))}
	for i := range commands {
		resp.Commands[i] = *commands[i].ToAPI()
	}
	return resp, nil
}

func (a *API) ListMachineCommands(c *gin.Context, req *api.ListCommandsRequest) (*api.ListCommandsResponse, error) {
	commands, err := access.ListMachineCommands(c, req.ID, req.Status)
	if err != nil {
		return nil, err
	}

	resp := &api.ListCommandsResponse{Commands: make([]api.MachineCommand, len(commands))}
	for i := range commands {
		resp.Commands[i] = *commands[i].ToAPI()
	}
	return resp, nil
}
