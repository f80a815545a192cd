package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/boothhq/fleet/internal/cmd/cliopts"
	"github.com/boothhq/fleet/internal/logging"
	"github.com/boothhq/fleet/internal/version"
)

// Run the main CLI command with the given args. The args should not contain
// the name of the binary (ex: os.Args[1:]).
func Run(ctx context.Context, args ...string) error {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "fleet",
		Short:             "Coordinate fleets of kiosk machines",
		SilenceUsage:      true,
		SilenceErrors:     true,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level, err := cmd.Flags().GetString("log-level")
			if err != nil {
				return err
			}
			return logging.SetLevel(level)
		},
	}

	rootCmd.PersistentFlags().String("log-level", "info", "Log level [trace, debug, info, warn, error]")

	rootCmd.AddCommand(newServerCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.Println(version.GetFormattedVersion())
			return nil
		},
	}
}

// parseOptions loads options from the file named by the config-file flag,
// then from environment variables with envPrefix, then from command line
// flags. Values set later override values set earlier.
func parseOptions(cmd *cobra.Command, options interface{}, envPrefix string) error {
	filename, err := cmd.Flags().GetString("config-file")
	if err != nil {
		return err
	}
	return cliopts.Load(options, cliopts.Options{
		Filename:  filename,
		EnvPrefix: envPrefix,
		Flags:     cmd.Flags(),
	})
}
