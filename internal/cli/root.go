// Package cli wires the tsexp commands.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"tsexp/internal/common"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	LogLevel   string
	ConfigFile string
	JSONLogs   bool
}

// NewRootCommand creates the root command for the tsexp CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "tsexp",
		Short:         "tsexp - time-series classification experiments",
		Long:          "Train and test pluggable time-series classifiers with capability negotiation, and compute series distances.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.ConfigFile != "" {
				if err := os.Setenv(common.EnvConfigFile, opts.ConfigFile); err != nil {
					return err
				}
			}
			return setupLogging(cmd.ErrOrStderr(), opts)
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level: trace, debug, info, warn, error (default from LOG_LEVEL or info)")
	cmd.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "YAML config file (sets CONFIG_FILE)")
	cmd.PersistentFlags().BoolVar(&opts.JSONLogs, "json-logs", false, "emit JSON logs instead of console output")

	// Add subcommands
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewParamsCommand(opts))
	cmd.AddCommand(NewDistanceCommand(opts))
	cmd.AddCommand(NewResultsCommand(opts))
	cmd.AddCommand(NewGenerateCommand(opts))

	return cmd
}

// logLevel resolves the effective level: flag, then LOG_LEVEL, then the default.
func (o *RootOptions) logLevel() string {
	if o.LogLevel != "" {
		return o.LogLevel
	}
	if env := os.Getenv(common.EnvLogLevel); env != "" {
		return env
	}
	return common.DefaultLogLevel
}

func setupLogging(w io.Writer, opts *RootOptions) error {
	level, err := zerolog.ParseLevel(opts.logLevel())
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", opts.logLevel(), err)
	}
	zerolog.SetGlobalLevel(level)
	if opts.JSONLogs {
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: w})
	}
	return nil
}
