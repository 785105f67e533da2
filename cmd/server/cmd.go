package main

import (
	"strings"

	"rps_rooms/internal/config"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type flags struct {
	port     string
	logLevel string
	logJSON  bool
}

// apply overrides environment values with flags given on the command line.
func (f *flags) apply(fs *pflag.FlagSet, cfg *config.Config) {
	if fs.Changed("port") {
		cfg.Port = f.port
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if fs.Changed("log-json") {
		cfg.LogJSON = f.logJSON
	}
}

func (f *flags) register(fs *pflag.FlagSet) {
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&f.port, "port", "p", "3001", "port to listen on (env: PORT)")
	fs.StringVar(&f.logLevel, "log-level", "info", "debug, info, warn or error (env: LOG_LEVEL)")
	fs.BoolVar(&f.logJSON, "log-json", false, "write logs as JSON (env: LOG_JSON)")
}

// load reads the environment, applies flags on top and validates the result.
func (f *flags) load(fs *pflag.FlagSet) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	f.apply(fs, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newCmd() *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:           "rps-server",
		Short:         "Room and move synchronisation server for two-player rock-paper-scissors.",
		Args:          cobra.ExactArgs(0),
		Version:       releaseVersion,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := f.load(cmd.Flags())
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	f.register(cmd.Flags())

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("rps-server v{{.Version}}\n")

	return cmd
}
