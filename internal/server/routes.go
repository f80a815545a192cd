package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/boothhq/fleet/api"
	"github.com/boothhq/fleet/internal"
	"github.com/boothhq/fleet/internal/logging"
	"github.com/boothhq/fleet/internal/validate"
	"github.com/boothhq/fleet/metrics"
)

// API carries the route handlers' shared dependencies.
type API struct {
	server *Server
}

// GenerateRoutes constructs the http.Handler for the primary http server.
//
// The order of routes in this function is important! Gin saves a route along
// with all the middleware that will apply to the route when the
// Router.{GET,POST,etc} method is called.
func (s *Server) GenerateRoutes(promRegistry prometheus.Registerer) http.Handler {
	a := &API{server: s}
	router := gin.New()
	router.NoRoute(notFoundHandler)

	router.Use(gin.Recovery())
	router.GET("/healthz", healthHandler)

	router.Use(
		logging.Middleware(s.options.EnableLogSampling),
		TimeoutMiddleware(s.options.API.RequestTimeout),
	)

	apiGroup := router.Group("/",
		metrics.Middleware(promRegistry),
		DatabaseMiddleware(s.db), // must be after TimeoutMiddleware to time out db queries.
	)

	// registration authenticates with the API key in the request body, not
	// a machine token
	noAuthn := apiGroup.Group("/", RequestContextMiddleware())
	post(a, noAuthn, "/api/machines/register", a.RegisterMachine)

	device := apiGroup.Group("/", MachineAuthMiddleware(a))
	post(a, device, "/api/machines/:id/heartbeat", a.Heartbeat)
	get(a, device, "/api/machines/:id/commands/pending", a.PollCommands)
	post(a, device, "/api/machines/:id/commands/:cid/ack", a.AckCommand)
	get(a, device, "/api/machines/:id/config", a.GetMachineConfig)
	post(a, device, "/api/machines/:id/sessions", a.CreateSession)

	operator := apiGroup.Group("/", OperatorAuthMiddleware(a))
	get(a, operator, "/api/machines", a.ListMachines)
	get(a, operator, "/api/machines/:id", a.GetMachine)
	post(a, operator, "/api/commands", a.EnqueueCommands)
	get(a, operator, "/api/machines/:id/commands", a.ListMachineCommands)
	post(a, operator, "/api/machines/:id/config", a.SaveConfig)
	post(a, operator, "/api/machines/:id/config/rollback", a.RollbackConfig)
	get(a, operator, "/api/machines/:id/config/history", a.ListConfigHistory)
	get(a, operator, "/api/machines/:id/sessions", a.ListMachineSessions)

	cron := apiGroup.Group("/", CronAuthMiddleware(a))
	get(a, cron, "/cron/machine-status", a.SweepOfflineMachines)
	get(a, cron, "/cron/command-timeouts", a.SweepTimedOutCommands)

	return router
}

type ReqResHandlerFunc[Req, Res any] func(c *gin.Context, req *Req) (Res, error)

func get[Req, Res any](a *API, r *gin.RouterGroup, route string, handler ReqResHandlerFunc[Req, Res]) {
	r.GET(route, func(c *gin.Context) {
		req := new(Req)
		if err := bind(c, req); err != nil {
			sendAPIError(c, err)
			return
		}

		resp, err := handler(c, req)
		if err != nil {
			sendAPIError(c, err)
			return
		}

		c.JSON(http.StatusOK, api.Response{Success: true, Data: resp})
	})
}

func post[Req, Res any](a *API, r *gin.RouterGroup, route string, handler ReqResHandlerFunc[Req, Res]) {
	r.POST(route, func(c *gin.Context) {
		req := new(Req)
		if err := bind(c, req); err != nil {
			sendAPIError(c, err)
			return
		}

		resp, err := handler(c, req)
		if err != nil {
			sendAPIError(c, err)
			return
		}

		c.JSON(http.StatusCreated, api.Response{Success: true, Data: resp})
	})
}

func bind(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindUri(req); err != nil {
		return fmt.Errorf("%w: %s", internal.ErrBadRequest, err)
	}

	if err := c.ShouldBindQuery(req); err != nil {
		return fmt.Errorf("%w: %s", internal.ErrBadRequest, err)
	}

	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(req); err != nil {
			return fmt.Errorf("%w: %s", internal.ErrBadRequest, err)
		}
	}

	if r, ok := req.(validate.Request); ok {
		return validate.Validate(r)
	}
	return nil
}

func init() {
	gin.DisableBindValidation()
}

func healthHandler(c *gin.Context) {
	c.Status(http.StatusOK)
}

func notFoundHandler(c *gin.Context) {
	sendAPIError(c, internal.ErrNotFound)
}
