// Package config loads depengine configuration.
//
// It uses Viper to read a YAML file and godotenv to load an optional .env
// file. Environment variables prefixed with DEPENGINE_ override file values
// using underscore-separated paths (e.g. DEPENGINE_INSPECT_ADDR overrides
// inspect.addr).
//
// # Usage
//
//	cfg, err := config.Load("depengine", config.WithConfigFile("config.yml"))
package config
