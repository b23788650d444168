// =============================================================================
// options.go - Command-Line Flags and Configuration
// =============================================================================
//
// Flags shared by all subcommands. A flag only overrides the loaded
// configuration when it was given on the command line, so values from the
// config file or environment survive unless the user asks otherwise.
//
// =============================================================================

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/spacebumper/bumper/bumperprotocol"
	"github.com/spacebumper/bumper/internal/config"
)

// options holds the raw flag values before they are merged into a Config.
type options struct {
	configPath string

	host     string
	port     int
	name     string
	password string
	color    string

	launch     bool
	executable string
	record     string

	eventWindow time.Duration
	raw         bool

	logFile     string
	logLevel    string
	metricsAddr string
}

// bind registers the persistent flags on the root command.
func (o *options) bind(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.StringVarP(&o.configPath, "config", "c", "", "YAML config file")

	flags.StringVar(&o.host, "host", bumperprotocol.DefaultHost, "server host")
	flags.IntVarP(&o.port, "port", "p", bumperprotocol.DefaultPort, "server port")
	flags.StringVarP(&o.name, "name", "n", "", "player name (1-19 bytes)")
	flags.StringVar(&o.password, "password", "", "server password")
	flags.StringVar(&o.color, "color", "", "ship color: red, blue, green or orange")

	flags.BoolVar(&o.launch, "launch", false, "start a headless SpaceBumper server before connecting")
	flags.StringVar(&o.executable, "server-executable", "", "SpaceBumper server binary used by --launch")
	flags.StringVar(&o.record, "record", "", "copy the raw server stream to this file")

	flags.DurationVar(&o.eventWindow, "event-window", 0, "how long to print events between random accelerations")
	flags.BoolVar(&o.raw, "raw", false, "print events in wire format")

	flags.StringVar(&o.logFile, "log-file", "", "log file (rotated)")
	flags.StringVar(&o.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.StringVar(&o.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
}

// resolve loads the configuration and applies every flag that was set.
func (o *options) resolve(flags *pflag.FlagSet) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}

	overrides := []struct {
		flag  string
		apply func()
	}{
		{"host", func() { cfg.Server.Host = o.host }},
		{"port", func() { cfg.Server.Port = o.port }},
		{"server-executable", func() { cfg.Server.Executable = o.executable }},
		{"name", func() { cfg.Player.Name = o.name }},
		{"password", func() { cfg.Player.Password = o.password }},
		{"color", func() { cfg.Player.Color = o.color }},
		{"event-window", func() { cfg.EventWindow = o.eventWindow }},
		{"log-file", func() { cfg.Log.File = o.logFile }},
		{"log-level", func() { cfg.Log.Level = o.logLevel }},
		{"metrics-addr", func() { cfg.Metrics.Addr = o.metricsAddr }},
	}
	for _, ov := range overrides {
		if flags.Changed(ov.flag) {
			ov.apply()
		}
	}

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", cfg.Server.Port)
	}
	if cfg.EventWindow <= 0 {
		return nil, fmt.Errorf("event window must be positive, got %s", cfg.EventWindow)
	}
	return cfg, nil
}
