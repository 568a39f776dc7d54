// Package cli wires the cobra command tree: a root command with
// PersistentPreRunE building the logger, and a run subcommand whose flags
// bind to the engine's invocation options.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ozwilder/xlconsolidate/internal/logging"
)

// Globals carries flag-bound state shared across subcommands.
type Globals struct {
	LogLevel  string
	LogFormat string
	LogFile   string
	ConfigPath string
	EnvPath   string

	Logger zerolog.Logger
}

// NewRoot builds the root cobra command.
func NewRoot() *cobra.Command {
	g := &Globals{}

	root := &cobra.Command{
		Use:   "xlconsolidate",
		Short: "Consolidate a folder of Excel workbooks into one, per a template",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(logging.Config{
				Level:  g.LogLevel,
				Format: g.LogFormat,
				File:   g.LogFile,
			})
			if err != nil {
				return err
			}
			g.Logger = logger
			return nil
		},
	}

	root.PersistentFlags().StringVar(&g.LogLevel, "log-level", "info", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&g.LogFormat, "log-format", "console", "log format: console or json")
	root.PersistentFlags().StringVar(&g.LogFile, "log-file", "", "additionally write JSON logs to this file")
	root.PersistentFlags().StringVar(&g.ConfigPath, "config", "", "optional YAML config file")
	root.PersistentFlags().StringVar(&g.EnvPath, "env-file", "", "optional .env file for default path overrides")

	root.AddCommand(newRunCommand(g))

	return root
}
