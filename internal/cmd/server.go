package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/boothhq/fleet/internal/logging"
	"github.com/boothhq/fleet/internal/server"
)

func newServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the fleet server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logging.SetServerLogger()
			if logFile, err := cmd.Flags().GetString("log-file"); err == nil && logFile != "" {
				logging.UseFileLogger(logFile)
			}

			options := defaultServerOptions()
			if err := parseOptions(cmd, &options, "FLEET_SERVER"); err != nil {
				return err
			}

			dbFile, err := canonicalPath(options.DBFilePath)
			if err != nil {
				return err
			}
			options.DBFilePath = dbFile

			srv, err := server.New(options)
			if err != nil {
				return fmt.Errorf("creating server: %w", err)
			}
			return runServer(cmd.Context(), srv)
		},
	}

	cmd.Flags().StringP("config-file", "f", "", "Server configuration file")
	cmd.Flags().String("log-file", "", "Write logs to a size-rotated file instead of stdout")
	cmd.Flags().String("db-file-path", "$HOME/.fleet/sqlite3.db", "Path to SQLite 3 database")
	cmd.Flags().String("db-connection-string", "", "PostgreSQL connection string, takes precedence over db-file-path")
	cmd.Flags().String("cron-secret", "", "Shared secret required by the sweep endpoints (secret)")
	cmd.Flags().String("bootstrap-org-name", "default", "Organization created on first start")
	cmd.Flags().Duration("token-lifetime", 30*24*time.Hour, "Lifetime of issued machine tokens")
	cmd.Flags().Duration("heartbeat-threshold", 5*time.Minute, "Heartbeat age before a machine is marked offline")
	cmd.Flags().Duration("command-deadline", 15*time.Minute, "Delivery age before an unacknowledged command times out")
	cmd.Flags().String("addr-http", ":80", "HTTP API listen address")
	cmd.Flags().String("addr-metrics", ":9090", "Prometheus metrics listen address")
	cmd.Flags().Bool("enable-log-sampling", true, "Sample repetitive access log lines")

	return cmd
}

func defaultServerOptions() server.Options {
	options := server.Options{
		DBFilePath: "$HOME/.fleet/sqlite3.db",
		Addr: server.ListenerOptions{
			HTTP:    ":80",
			Metrics: ":9090",
		},
	}
	options.SetDefaults()
	return options
}

// shim for testing
var runServer = func(ctx context.Context, srv *server.Server) error {
	return srv.Run(ctx)
}

// canonicalPath expands environment variables and a leading ~, then makes
// the path absolute.
func canonicalPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	path = os.ExpandEnv(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(path)
}
