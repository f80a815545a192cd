package server

import (
	"github.com/gin-gonic/gin"

	"github.com/boothhq/fleet/api"
	"github.com/boothhq/fleet/internal/access"
)

func (a *API) CreateSession(c *gin.Context, req *api.CreateSessionRequest) (*api.CreateSessionResponse, error) {
	session, err := access.CreateSession(c, req)
	if err != nil {
		return nil, err
	}
	return &api.CreateSessionResponse{Session: *session.ToAPI()}, nil
}

func (a *API) ListMachineSessions(c *gin.Context, req *api.ListSessionsRequest) (*api.ListSessionsResponse, error) {
	sessions, err := access.ListMachineSessions(c, req.ID, req.Kind)
	if err != nil {
		return nil, err
	}

	resp := &api.ListSessionsResponse{Sessions: make([]api.Session, len(sessions))}
	for i := range sessions {
		resp.Sessions[i] = *sessions[i].ToAPI()
	}
	return resp, nil
}
