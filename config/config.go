package config

import (
	"fmt"
	"time"

	"github.com/kbukum/depengine/logger"
	"github.com/kbukum/depengine/validation"
)

// Config is the depengine binary configuration.
type Config struct {
	Name        string          `yaml:"name" mapstructure:"name" validate:"required"`
	Environment string          `yaml:"environment" mapstructure:"environment" validate:"oneof=development staging production"`
	Logging     logger.Config   `yaml:"logging" mapstructure:"logging"`
	Engine      EngineConfig    `yaml:"engine" mapstructure:"engine"`
	Inspect     InspectConfig   `yaml:"inspect" mapstructure:"inspect"`
	Telemetry   TelemetryConfig `yaml:"telemetry" mapstructure:"telemetry"`
}

// EngineConfig configures how the binary wires its registry.
type EngineConfig struct {
	// ProtectOnRegister registers the built-in services with the Never policy.
	ProtectOnRegister bool `yaml:"protect_on_register" mapstructure:"protect_on_register"`
}

// InspectConfig configures the read-only HTTP introspection server.
type InspectConfig struct {
	Enabled         bool          `yaml:"enabled" mapstructure:"enabled"`
	Addr            string        `yaml:"addr" mapstructure:"addr" validate:"omitempty,hostname_port"`
	BasePath        string        `yaml:"base_path" mapstructure:"base_path" validate:"omitempty,startswith=/"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// TelemetryConfig configures OpenTelemetry export of registry metrics and traces.
type TelemetryConfig struct {
	Enabled    bool          `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string        `yaml:"endpoint" mapstructure:"endpoint" validate:"omitempty,hostname_port"`
	Insecure   bool          `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64       `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0,lte=1"`
	Interval   time.Duration `yaml:"interval" mapstructure:"interval"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "depengine"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	c.Logging.ApplyDefaults()

	if c.Inspect.Addr == "" {
		c.Inspect.Addr = "localhost:8089"
	}
	if c.Inspect.BasePath == "" {
		c.Inspect.BasePath = "/debug/di"
	}
	if c.Inspect.ShutdownTimeout == 0 {
		c.Inspect.ShutdownTimeout = 15 * time.Second
	}

	if c.Telemetry.Endpoint == "" {
		c.Telemetry.Endpoint = "localhost:4318"
	}
	if c.Telemetry.Interval == 0 {
		c.Telemetry.Interval = 15 * time.Second
	}
}

// Validate checks field rules and cross-field rules.
func (c *Config) Validate() error {
	v := validation.New().Merge(validation.Validate(c))
	v.RequiredWhen(c.Inspect.Enabled, "inspect.addr", c.Inspect.Addr)
	v.RequiredWhen(c.Telemetry.Enabled, "telemetry.endpoint", c.Telemetry.Endpoint)
	v.Custom(c.Telemetry.Interval >= 0, "telemetry.interval", "must not be negative")
	if err := v.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
