// Package validation validates depengine configuration.
//
// It supports struct tag validation using go-playground/validator, with
// field names taken from mapstructure tags so messages match config keys,
// and programmatic checks for rules that span several fields.
//
// # Struct Tag Validation
//
//	type InspectConfig struct {
//	    Addr string `mapstructure:"addr" validate:"omitempty,hostname_port"`
//	}
//	err := validation.Validate(cfg)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Custom(!cfg.Enabled || cfg.Addr != "", "inspect.addr", "is required when inspect is enabled")
//	err := v.Validate()
package validation
