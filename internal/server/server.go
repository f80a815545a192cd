package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/boothhq/fleet/internal/logging"
	"github.com/boothhq/fleet/internal/server/data"
	"github.com/boothhq/fleet/internal/server/models"
	"github.com/boothhq/fleet/internal/version"
	"github.com/boothhq/fleet/metrics"
)

type Options struct {
	// EnableLogSampling samples successful HTTP access logs down to 1 every
	// 7 seconds grouped by route. Heartbeat and poll traffic makes this
	// necessary on any fleet of real size.
	EnableLogSampling bool

	// TokenLifetime is the TTL of issued machine tokens.
	TokenLifetime time.Duration

	// HeartbeatThreshold is how stale a machine's last heartbeat may be
	// before the sweep demotes it to offline.
	HeartbeatThreshold time.Duration

	// CommandDeadline is how long a delivered command may sit without a
	// terminal ack before the sweep marks it timed out.
	CommandDeadline time.Duration

	// CronSecret authenticates the external scheduler that invokes the
	// sweep endpoints. Sweeps are disabled when empty.
	CronSecret string

	// BootstrapOrgName is the organization created on first boot, along
	// with its device and operator registration keys.
	BootstrapOrgName string

	DBConnectionString string
	DBFilePath         string

	Addr ListenerOptions
	API  APIOptions
}

type ListenerOptions struct {
	HTTP    string
	Metrics string
}

type APIOptions struct {
	RequestTimeout time.Duration
}

type Server struct {
	options         Options
	db              *gorm.DB
	publicJWK       []byte
	Addrs           Addrs
	routines        []routine
	metricsRegistry *prometheus.Registry
}

type Addrs struct {
	HTTP    net.Addr
	Metrics net.Addr
}

func (o *Options) SetDefaults() {
	if o.TokenLifetime == 0 {
		o.TokenLifetime = 30 * 24 * time.Hour
	}
	if o.HeartbeatThreshold == 0 {
		o.HeartbeatThreshold = 5 * time.Minute
	}
	if o.CommandDeadline == 0 {
		o.CommandDeadline = 15 * time.Minute
	}
	if o.BootstrapOrgName == "" {
		o.BootstrapOrgName = "default"
	}
	if o.API.RequestTimeout == 0 {
		o.API.RequestTimeout = time.Minute
	}
}

// New creates a Server and initializes it. The returned Server is ready to run.
func New(options Options) (*Server, error) {
	options.SetDefaults()
	server := &Server{options: options}

	driver, err := driverFromOptions(options)
	if err != nil {
		return nil, fmt.Errorf("database driver: %w", err)
	}

	db, err := data.NewDB(driver)
	if err != nil {
		return nil, fmt.Errorf("db: %w", err)
	}
	server.db = db

	settings, err := data.InitializeSettings(db)
	if err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}
	server.publicJWK = settings.PublicJWK

	if err := server.bootstrap(); err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	server.metricsRegistry = setupMetrics(server.db)

	if err := server.listen(); err != nil {
		return nil, fmt.Errorf("listening: %w", err)
	}

	return server, nil
}

// DB returns the database connection pool used by the server. It is
// primarily used by tests to create fixture data.
func (s *Server) DB() *gorm.DB {
	return s.db
}

// bootstrap creates the first organization and its registration keys when
// the database is empty. The keys are printed once; only their hashes are
// stored.
func (s *Server) bootstrap() error {
	count, err := data.CountOrganizations(s.db)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	org := &models.Organization{Name: s.options.BootstrapOrgName}
	if err := data.CreateOrganization(s.db, org); err != nil {
		return err
	}

	deviceKey, err := data.CreateRegistrationKey(s.db, &models.RegistrationKey{
		OrganizationMember: models.OrganizationMember{OrganizationID: org.ID},
		Name:               "bootstrap device key",
		Kind:               models.RegistrationKeyKindDevice,
	})
	if err != nil {
		return err
	}

	operatorKey, err := data.CreateRegistrationKey(s.db, &models.RegistrationKey{
		OrganizationMember: models.OrganizationMember{OrganizationID: org.ID},
		Name:               "bootstrap operator key",
		Kind:               models.RegistrationKeyKindOperator,
	})
	if err != nil {
		return err
	}

	logging.L.Info().
		Str("organization", org.Name).
		Str("deviceRegistrationKey", deviceKey).
		Str("operatorKey", operatorKey).
		Msg("created initial organization; store these keys now, they are not shown again")
	return nil
}

func driverFromOptions(options Options) (gorm.Dialector, error) {
	if options.DBConnectionString != "" {
		return data.NewPostgresDriver(options.DBConnectionString)
	}
	if options.DBFilePath != "" {
		return data.NewSQLiteDriver(options.DBFilePath)
	}
	return nil, errors.New("one of dbConnectionString or dbFilePath is required")
}

func (s *Server) Run(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)

	for i := range s.routines {
		group.Go(s.routines[i].run)
	}

	logging.Infof("starting fleet server (%s) - http:%s metrics:%s",
		version.GetFormattedVersion(), s.Addrs.HTTP, s.Addrs.Metrics)

	<-ctx.Done()
	for i := range s.routines {
		s.routines[i].stop()
	}

	err := group.Wait()

	if sqlDB, dbErr := s.db.DB(); dbErr == nil {
		if closeErr := sqlDB.Close(); closeErr != nil {
			logging.L.Warn().Err(closeErr).Msg("failed to close database connection")
		}
	}

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (s *Server) listen() error {
	router := s.GenerateRoutes(s.metricsRegistry)

	httpErrorLog := log.New(logging.NewHTTPErrorLog(), "", 0)
	metricsServer := &http.Server{
		ReadHeaderTimeout: 30 * time.Second,
		ReadTimeout:       60 * time.Second,
		Addr:              s.options.Addr.Metrics,
		Handler:           metrics.NewHandler(s.metricsRegistry),
		ErrorLog:          httpErrorLog,
	}

	var err error
	s.Addrs.Metrics, err = s.setupServer(metricsServer)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		ReadHeaderTimeout: 30 * time.Second,
		ReadTimeout:       60 * time.Second,
		Addr:              s.options.Addr.HTTP,
		Handler:           router,
		ErrorLog:          httpErrorLog,
	}
	s.Addrs.HTTP, err = s.setupServer(httpServer)
	if err != nil {
		return err
	}
	return nil
}

func (s *Server) setupServer(server *http.Server) (net.Addr, error) {
	if server.Addr == "" {
		server.Addr = "127.0.0.1:"
	}
	l, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return nil, err
	}
	logging.Infof("listening on %s", l.Addr().String())

	s.routines = append(s.routines, routine{
		run: func() error {
			err := server.Serve(l)
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
		stop: func() {
			_ = server.Close()
		},
	})
	return l.Addr(), nil
}

type routine struct {
	run  func() error
	stop func()
}
