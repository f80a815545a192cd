package server

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/boothhq/fleet/api"
	"github.com/boothhq/fleet/internal/logging"
	"github.com/boothhq/fleet/internal/server/data"
)

// SweepOfflineMachines demotes machines whose last heartbeat is older than
// the liveness threshold. The sweep is invoked by an external scheduler;
// repeated invocations are safe and never revive a machine.
func (a *API) SweepOfflineMachines(c *gin.Context, _ *api.EmptyRequest) (*api.SweepResponse, error) {
	olderThan := time.Now().UTC().Add(-a.server.options.HeartbeatThreshold)

	swept, err := data.SweepOfflineMachines(getDB(c), olderThan)
	if err != nil {
		return nil, err
	}

	if swept > 0 {
		logging.L.Info().Int64("machines", swept).Msg("marked unresponsive machines offline")
	}
	return &api.SweepResponse{OfflinedMachines: swept}, nil
}

// SweepTimedOutCommands marks delivered but never-acked commands as timed
// out once they are past the command deadline.
func (a *API) SweepTimedOutCommands(c *gin.Context, _ *api.EmptyRequest) (*api.CommandSweepResponse, error) {
	olderThan := time.Now().UTC().Add(-a.server.options.CommandDeadline)

	swept, err := data.SweepTimedOutCommands(getDB(c), olderThan)
	if err != nil {
		return nil, err
	}

	if swept > 0 {
		logging.L.Info().Int64("commands", swept).Msg("marked stuck commands timed out")
	}
	return &api.CommandSweepResponse{TimedOutCommands: swept}, nil
}
