package server

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/boothhq/fleet/api"
	"github.com/boothhq/fleet/internal/access"
)

func (a *API) RegisterMachine(c *gin.Context, req *api.RegisterMachineRequest) (*api.RegisterMachineResponse, error) {
	registered, err := access.RegisterMachine(c, req, a.server.options.TokenLifetime)
	if err != nil {
		return nil, err
	}

	return &api.RegisterMachineResponse{
		MachineID:    registered.Machine.ID,
		MachineToken: registered.Token,
		ExpiresAt:    api.Time(registered.TokenExpiresAt),
		Config:       registered.Config.ToAPI(),
	}, nil
}

func (a *API) Heartbeat(c *gin.Context, req *api.HeartbeatRequest) (*api.HeartbeatResponse, error) {
	_, configUpdate, err := access.RecordHeartbeat(c, req)
	if err != nil {
		return nil, err
	}

	return &api.HeartbeatResponse{
		Acknowledged:          true,
		ServerTime:            api.Time(time.Now().UTC()),
		ConfigUpdateAvailable: configUpdate,
	}, nil
}

func (a *API) ListMachines(c *gin.Context, req *api.ListMachinesRequest) (*api.ListMachinesResponse, error) {
	machines, err := access.ListMachines(c, req.Name, req.Status)
	if err != nil {
		return nil, err
	}

	resp := &api.ListMachinesResponse{Machines: make([]api.Machine, len(machines))}
	for i := range machines {
		resp.Machines[i] = *machines[i].ToAPI()
	}
	return resp, nil
}

func (a *API) GetMachine(c *gin.Context, req *api.Resource) (*api.Machine, error) {
	machine, err := access.GetMachine(c, req.ID)
	if err != nil {
		return nil, err
	}
	return machine.ToAPI(), nil
}
