package server

import (
	"github.com/gin-gonic/gin"

	"github.com/boothhq/fleet/api"
	"github.com/boothhq/fleet/internal/access"
)

// GetMachineConfig is the device-facing differential fetch. When the device
// already runs the active version the response omits the document body.
func (a *API) GetMachineConfig(c *gin.Context, req *api.GetMachineConfigRequest) (*api.GetMachineConfigResponse, error) {
	config, err := access.GetMachineConfig(c, req.ID)
	if err != nil {
		return nil, err
	}

	resp := &api.GetMachineConfigResponse{Version: config.Version}
	if req.CurrentVersion == config.Version {
		return resp, nil
	}

	resp.Changed = true
	doc := api.KioskConfig(config.Config)
	resp.Config = &doc
	if !config.UpdatedAt.IsZero() {
		updated := api.Time(config.UpdatedAt)
		resp.UpdatedAt = &updated
	}
	return resp, nil
}

func (a *API) SaveConfig(c *gin.Context, req *api.SaveConfigRequest) (*api.MachineConfig, error) {
	config, err := access.SaveConfig(c, req)
	if err != nil {
		return nil, err
	}
	return config.ToAPI(), nil
}

func (a *API) RollbackConfig(c *gin.Context, req *api.RollbackConfigRequest) (*api.MachineConfig, error) {
	config, err := access.RollbackConfig(c, req)
	if err != nil {
		return nil, err
	}
	return config.ToAPI(), nil
}

func (a *API) ListConfigHistory(c *gin.Context, req *api.ListConfigHistoryRequest) (*api.ListConfigHistoryResponse, error) {
	configs, err := access.ListConfigHistory(c, req.ID)
	if err != nil {
		return nil, err
	}

	resp := &api.ListConfigHistoryResponse{Configs: make([]api.MachineConfig, len(configs))}
	for i := range configs {
		resp.Configs[i] = *configs[i].ToAPI()
	}
	return resp, nil
}
