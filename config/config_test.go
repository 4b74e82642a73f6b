package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type mockFS struct {
	files    map[string]bool
	envLoads []string
}

func (m *mockFS) Exists(path string) bool { return m.files[path] }

func (m *mockFS) LoadEnv(path string) error {
	m.envLoads = append(m.envLoads, path)
	return nil
}

func TestConfigApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Name != "depengine" {
		t.Errorf("expected name 'depengine', got %q", cfg.Name)
	}
	if cfg.Environment != "development" {
		t.Errorf("expected 'development', got %q", cfg.Environment)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected logging level 'info', got %q", cfg.Logging.Level)
	}
	if cfg.Inspect.Addr != "localhost:8089" || cfg.Inspect.BasePath != "/debug/di" {
		t.Errorf("unexpected inspect defaults: %+v", cfg.Inspect)
	}
	if cfg.Telemetry.Interval != 15*time.Second {
		t.Errorf("expected 15s telemetry interval, got %v", cfg.Telemetry.Interval)
	}
}

func TestConfigValidate(t *testing.T) {
	valid := func() Config {
		var c Config
		c.ApplyDefaults()
		return c
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"defaults are valid", func(*Config) {}, ""},
		{"invalid environment", func(c *Config) { c.Environment = "qa" }, "environment: must be one of"},
		{"invalid log level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level: must be one of"},
		{"base path without slash", func(c *Config) { c.Inspect.BasePath = "debug" }, "inspect.base_path: must start with /"},
		{"sample rate above one", func(c *Config) { c.Telemetry.SampleRate = 1.5 }, "telemetry.sample_rate"},
		{"enabled inspect needs addr", func(c *Config) {
			c.Inspect.Enabled = true
			c.Inspect.Addr = ""
		}, "inspect.addr: is required"},
		{"enabled telemetry needs endpoint", func(c *Config) {
			c.Telemetry.Enabled = true
			c.Telemetry.Endpoint = ""
		}, "telemetry.endpoint: is required"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.errMsg == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.errMsg) {
				t.Errorf("expected error containing %q, got %q", tc.errMsg, err.Error())
			}
		})
	}
}

func TestResolverPrefersExplicitPaths(t *testing.T) {
	fs := &mockFS{files: map[string]bool{"./config.yml": true, ".env": true}}
	r := &Resolver{FileSystem: fs}

	got := r.ResolveFiles("depengine", LoaderConfig{ConfigFile: "custom.yml", EnvFile: "custom.env"})
	if got.ConfigFile != "custom.yml" || got.EnvFile != "custom.env" {
		t.Errorf("explicit paths not kept: %+v", got)
	}
}

func TestResolverSearchOrder(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./cmd/depengine/config.yml": true,
		"./config.yml":               true,
		".env":                       true,
	}}
	r := &Resolver{FileSystem: fs}

	got := r.ResolveFiles("depengine", LoaderConfig{})
	if got.ConfigFile != "./cmd/depengine/config.yml" {
		t.Errorf("expected cmd config to win, got %q", got.ConfigFile)
	}
	if got.EnvFile != ".env" {
		t.Errorf("expected .env, got %q", got.EnvFile)
	}
}

func TestResolverNothingFound(t *testing.T) {
	r := &Resolver{FileSystem: &mockFS{}}
	got := r.ResolveFiles("depengine", LoaderConfig{})
	if got.ConfigFile != "" || got.EnvFile != "" {
		t.Errorf("expected empty result, got %+v", got)
	}
}

func TestLoadWithYAML(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")

	yamlContent := `
name: engine-test
environment: staging
logging:
  level: debug
  format: json
engine:
  protect_on_register: true
inspect:
  enabled: true
  addr: 127.0.0.1:9100
  base_path: /internal/di
telemetry:
  sample_rate: 0.25
  interval: 30s
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("depengine", WithConfigFile(configPath), WithEnvFile(filepath.Join(dir, "missing.env")))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Name != "engine-test" || cfg.Environment != "staging" {
		t.Errorf("unexpected identity: %q / %q", cfg.Name, cfg.Environment)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("unexpected logging: %+v", cfg.Logging)
	}
	if !cfg.Engine.ProtectOnRegister {
		t.Error("expected protect_on_register=true")
	}
	if !cfg.Inspect.Enabled || cfg.Inspect.Addr != "127.0.0.1:9100" || cfg.Inspect.BasePath != "/internal/di" {
		t.Errorf("unexpected inspect: %+v", cfg.Inspect)
	}
	if cfg.Telemetry.SampleRate != 0.25 || cfg.Telemetry.Interval != 30*time.Second {
		t.Errorf("unexpected telemetry: %+v", cfg.Telemetry)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(configPath, []byte("inspect:\n  addr: 127.0.0.1:9100\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("DEPENGINE_INSPECT_ADDR", "0.0.0.0:7000")
	t.Setenv("DEPENGINE_TELEMETRY_SAMPLE_RATE", "0.5")
	t.Setenv("DEPENGINE_ENGINE_PROTECT_ON_REGISTER", "true")

	cfg, err := Load("depengine", WithConfigFile(configPath), WithEnvFile(filepath.Join(dir, "missing.env")))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Inspect.Addr != "0.0.0.0:7000" {
		t.Errorf("expected env override, got %q", cfg.Inspect.Addr)
	}
	if cfg.Telemetry.SampleRate != 0.5 {
		t.Errorf("expected sample rate 0.5, got %v", cfg.Telemetry.SampleRate)
	}
	if !cfg.Engine.ProtectOnRegister {
		t.Error("expected protect_on_register from env")
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("DEPENGINE_ENVIRONMENT=production\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// godotenv does not override variables already present.
	t.Setenv("DEPENGINE_ENVIRONMENT", "")
	os.Unsetenv("DEPENGINE_ENVIRONMENT")

	cfg, err := Load("depengine", WithConfigFile(""), WithEnvFile(envPath), WithFileSystem(&RealFileSystem{}))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Environment != "production" {
		t.Errorf("expected environment from .env, got %q", cfg.Environment)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load("depengine", WithConfigFile(filepath.Join(t.TempDir(), "nope.yml")))
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(configPath, []byte("environment: qa\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load("depengine", WithConfigFile(configPath), WithEnvFile(filepath.Join(dir, "missing.env")))
	if err == nil || !strings.Contains(err.Error(), "environment") {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGenerateEnvKeyVariants(t *testing.T) {
	got := generateEnvKeyVariants("TELEMETRY_SAMPLE_RATE")
	want := []string{"telemetry_sample_rate", "telemetry.sample.rate", "telemetry.sample_rate"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("variant %d: expected %q, got %q", i, want[i], got[i])
		}
	}

	if got := generateEnvKeyVariants("NAME"); len(got) != 1 || got[0] != "name" {
		t.Errorf("expected [name], got %v", got)
	}
}
