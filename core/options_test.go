package core

import (
	"context"
	"testing"
)

type mapRawLoader struct {
	values map[string]any
}

func (l mapRawLoader) LoadRaw(context.Context) (map[string]any, error) {
	if len(l.values) == 0 {
		return map[string]any{}, nil
	}
	out := make(map[string]any, len(l.values))
	for key, value := range l.values {
		out[key] = value
	}
	return out, nil
}

func envLookup(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(context.Background(), mapRawLoader{}, Config{})
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ServiceName != "payhooks" {
		t.Fatalf("expected default service name, got %q", cfg.ServiceName)
	}
	if cfg.HTTP.Port != 3001 {
		t.Fatalf("expected default port 3001, got %d", cfg.HTTP.Port)
	}
	if cfg.Processor.Environment != ProcessorEnvironmentTest {
		t.Fatalf("expected test environment, got %q", cfg.Processor.Environment)
	}
	if cfg.Processor.ConfigFile != "secure/BitPay.config.json" {
		t.Fatalf("unexpected config file default %q", cfg.Processor.ConfigFile)
	}
}

func TestLoadConfigRuntimeOverridesLoadedValues(t *testing.T) {
	loader := mapRawLoader{values: map[string]any{
		"service_name": "from-config",
		"http":         map[string]any{"port": 8080},
		"processor":    map[string]any{"environment": "prod"},
	}}

	cfg, err := LoadConfig(context.Background(), loader, Config{ServiceName: "from-runtime"})
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ServiceName != "from-runtime" {
		t.Fatalf("expected runtime value to override config, got %q", cfg.ServiceName)
	}
	if cfg.HTTP.Port != 8080 {
		t.Fatalf("expected config layer port, got %d", cfg.HTTP.Port)
	}
	if cfg.Processor.Environment != ProcessorEnvironmentProd {
		t.Fatalf("expected config layer environment, got %q", cfg.Processor.Environment)
	}
	if cfg.Processor.TimeoutSeconds != 30 {
		t.Fatalf("expected default processor timeout to survive, got %d", cfg.Processor.TimeoutSeconds)
	}
}

func TestLoadConfigRejectsInvalidEnvironment(t *testing.T) {
	loader := mapRawLoader{values: map[string]any{
		"processor": map[string]any{"environment": "staging"},
	}}
	if _, err := LoadConfig(context.Background(), loader, Config{}); err == nil {
		t.Fatalf("expected invalid environment error")
	}
}

func TestEnvConfigLoaderBuildsNestedMap(t *testing.T) {
	loader := &EnvConfigLoader{
		Prefix: "PAYHOOKS",
		Lookup: envLookup(map[string]string{
			"PAYHOOKS_HTTP_PORT":             "4000",
			"PAYHOOKS_PUBLIC_BASE_URL":       "https://hooks.example.com",
			"PAYHOOKS_PROCESSOR_ENVIRONMENT": "prod",
			"PAYHOOKS_LOG_FORMAT":            " ",
		}),
	}
	raw, err := loader.LoadRaw(context.Background())
	if err != nil {
		t.Fatalf("load raw: %v", err)
	}
	httpSection, ok := raw["http"].(map[string]any)
	if !ok || httpSection["port"] != 4000 {
		t.Fatalf("expected numeric http.port, got %#v", raw["http"])
	}
	if raw["public_base_url"] != "https://hooks.example.com" {
		t.Fatalf("unexpected public_base_url %#v", raw["public_base_url"])
	}
	if _, ok := raw["log"]; ok {
		t.Fatalf("expected blank values to be skipped, got %#v", raw["log"])
	}

	cfg, err := LoadConfig(context.Background(), loader, Config{})
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.NotificationURL() != "https://hooks.example.com/webhook-validator" {
		t.Fatalf("unexpected notification url %q", cfg.NotificationURL())
	}
}

func TestEnvConfigLoaderRejectsNonNumericPort(t *testing.T) {
	loader := &EnvConfigLoader{
		Prefix: "PAYHOOKS_",
		Lookup: envLookup(map[string]string{"PAYHOOKS_HTTP_PORT": "abc"}),
	}
	if _, err := loader.LoadRaw(context.Background()); err == nil {
		t.Fatalf("expected integer parse error")
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate: %v", err)
	}

	bad := DefaultConfig()
	bad.HTTP.Port = 70000
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected port range error")
	}

	bad = DefaultConfig()
	bad.PublicBaseURL = "not a url"
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected public_base_url error")
	}

	bad = DefaultConfig()
	bad.Log.Format = "xml"
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected log format error")
	}
}

func TestNotificationURLTrimsTrailingSlash(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.NotificationURL() != "" {
		t.Fatalf("expected empty notification url without base")
	}
	cfg.PublicBaseURL = "https://abc.ngrok.app/"
	if got := cfg.NotificationURL(); got != "https://abc.ngrok.app/webhook-validator" {
		t.Fatalf("unexpected notification url %q", got)
	}
}

func TestEnvConfigLoaderLegacyVariables(t *testing.T) {
	loader := &EnvConfigLoader{
		Prefix: "PAYHOOKS",
		Lookup: envLookup(map[string]string{
			"EXPRESS_PORT": "3005",
			"PORT":         "9999",
			"NGROK_DOMAIN": "demo.ngrok.app",
		}),
	}
	raw, err := loader.LoadRaw(context.Background())
	if err != nil {
		t.Fatalf("load raw: %v", err)
	}
	if raw["http"].(map[string]any)["port"] != 3005 {
		t.Fatalf("expected EXPRESS_PORT to win, got %#v", raw["http"])
	}
	if raw["public_base_url"] != "https://demo.ngrok.app" {
		t.Fatalf("expected ngrok domain as base url, got %#v", raw["public_base_url"])
	}
}
