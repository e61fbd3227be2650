package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mvre-project/mvre-hub/internal/core/deployment"
	coresystemd "github.com/mvre-project/mvre-hub/internal/core/systemd"
)

// =============================================================================
// Config Types
// =============================================================================

// Config holds all application configuration.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Compose ComposeConfig `mapstructure:"compose"`
	Systemd SystemdConfig `mapstructure:"systemd"`
	Deploy  DeployConfig  `mapstructure:"deploy"`
	Docker  DockerConfig  `mapstructure:"docker"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ComposeConfig selects the orchestration tool.
type ComposeConfig struct {
	// Command is split on whitespace, so "docker compose" selects the
	// plugin and "docker-compose" the standalone binary.
	Command string `mapstructure:"command"`
}

// Args returns the command split into its words.
func (c ComposeConfig) Args() []string {
	return strings.Fields(c.Command)
}

// SystemdConfig holds service manager configuration.
type SystemdConfig struct {
	UnitPath  string `mapstructure:"unit_path"`
	UnitName  string `mapstructure:"unit_name"`
	Systemctl string `mapstructure:"systemctl"`
}

// DeployConfig holds deploy defaults. Deploy answers (deploy.domain,
// deploy.client_secret, ...) live in the same section but are read
// through the explicit value source, not this struct.
type DeployConfig struct {
	DefaultDir string `mapstructure:"default_dir"`
}

// DockerConfig holds Docker client configuration.
type DockerConfig struct {
	Host string `mapstructure:"host"`
}

// =============================================================================
// Config Loading
// =============================================================================

// EnvPrefix is the prefix of environment overrides, e.g. MVRE_HUB_LOG_LEVEL.
const EnvPrefix = "MVRE_HUB"

// LoadConfig loads configuration from defaults, the optional file, the
// environment and the bound flags, in increasing precedence. bindings maps
// configuration keys to flag names in flags.
func LoadConfig(configPath string, flags *pflag.FlagSet, bindings map[string]string) (*Config, *viper.Viper, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("compose.command", "docker-compose")
	v.SetDefault("systemd.unit_path", coresystemd.DefaultUnitPath)
	v.SetDefault("systemd.unit_name", coresystemd.DefaultUnitName)
	v.SetDefault("systemd.systemctl", "systemctl")
	v.SetDefault("deploy.default_dir", deployment.DefaultDeployDir)
	v.SetDefault("docker.host", "")

	// Load from file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			var parseErr viper.ConfigParseError
			if errors.As(err, &parseErr) {
				return nil, nil, fmt.Errorf("failed to parse config file: %w", err)
			}
			// File not found is OK, we'll use defaults
		}
	}

	// Enable environment variable overrides
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for key, name := range bindings {
			f := flags.Lookup(name)
			if f == nil {
				return nil, nil, fmt.Errorf("bind %s: unknown flag --%s", key, name)
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, nil, fmt.Errorf("bind %s: %w", key, err)
			}
		}
	}

	// Unmarshal config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if len(cfg.Compose.Args()) == 0 {
		return nil, nil, errors.New("compose.command must not be empty")
	}

	return &cfg, v, nil
}

// =============================================================================
// Logger Setup
// =============================================================================

// LevelTrace is below debug and adds source locations.
const LevelTrace = slog.Level(-8)

// SetupLogger creates a logger with the configured level and format.
// Each -v raises the verbosity by one step: debug, then trace.
func SetupLogger(cfg *Config, verbosity int, w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Log.Level) {
	case "trace":
		level = LevelTrace
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	switch {
	case verbosity >= 2:
		level = LevelTrace
	case verbosity == 1 && level > slog.LevelDebug:
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= LevelTrace,
	}

	var handler slog.Handler
	if strings.ToLower(cfg.Log.Format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}
