// Package config loads the bumper client settings from an optional YAML
// file and BUMPER_* environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds everything the CLI needs to reach a server and report on it.
type Config struct {
	Server  Server  `yaml:"server"`
	Player  Player  `yaml:"player"`
	Log     Log     `yaml:"log"`
	Metrics Metrics `yaml:"metrics"`

	// EventWindow is how long the random driver prints events before it
	// picks a new direction.
	EventWindow time.Duration `yaml:"event-window" env:"BUMPER_EVENT_WINDOW" env-default:"5s"`
}

type Server struct {
	Host string `yaml:"host" env:"BUMPER_HOST" env-default:"localhost"`
	Port int    `yaml:"port" env:"BUMPER_PORT" env-default:"3333"`

	// Executable is the SpaceBumper binary started by --launch. Empty means
	// search next to the CLI and in PATH.
	Executable string `yaml:"executable" env:"BUMPER_EXECUTABLE"`
}

type Player struct {
	Name     string `yaml:"name" env:"BUMPER_NAME" env-default:"Go Bumper"`
	Password string `yaml:"password" env:"BUMPER_PASSWORD"`
	Color    string `yaml:"color" env:"BUMPER_COLOR" env-default:"red"`
}

type Log struct {
	File  string `yaml:"file" env:"BUMPER_LOG_FILE" env-default:"bumper.log"`
	Level string `yaml:"level" env:"BUMPER_LOG_LEVEL" env-default:"info"`
}

type Metrics struct {
	// Addr is the listen address of the /metrics endpoint. Empty disables it.
	Addr string `yaml:"addr" env:"BUMPER_METRICS_ADDR"`
}

// Load reads the configuration. With an empty path only the environment
// and defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path == "" {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("unable to read environment: %w", err)
		}
		return cfg, nil
	}

	if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}
	return cfg, nil
}

// Address returns host:port of the configured server.
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
