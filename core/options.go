package core

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/goliatone/go-config/cfgx"
	opts "github.com/goliatone/go-options"
)

type ConfigProvider interface {
	Load(ctx context.Context, defaults Config) (Config, error)
}

type RawConfigLoader interface {
	LoadRaw(ctx context.Context) (map[string]any, error)
}

type OptionsResolver interface {
	Resolve(defaults Config, loaded Config, runtime Config) (Config, error)
}

// LoadConfig builds the effective configuration: defaults, then values from
// loader, then non-zero runtime overrides.
func LoadConfig(ctx context.Context, loader RawConfigLoader, runtime Config) (Config, error) {
	defaults := DefaultConfig()
	loaded, err := NewCfgxConfigProvider(loader).Load(ctx, defaults)
	if err != nil {
		return Config{}, err
	}
	return GoOptionsResolver{}.Resolve(defaults, loaded, runtime)
}

type staticRawConfigLoader struct {
	Values map[string]any
}

func (l staticRawConfigLoader) LoadRaw(context.Context) (map[string]any, error) {
	if len(l.Values) == 0 {
		return map[string]any{}, nil
	}
	out := make(map[string]any, len(l.Values))
	for key, value := range l.Values {
		out[key] = value
	}
	return out, nil
}

type envBinding struct {
	path    []string
	numeric bool
}

var envBindings = map[string]envBinding{
	"SERVICE_NAME":               {path: []string{"service_name"}},
	"PUBLIC_BASE_URL":            {path: []string{"public_base_url"}},
	"HTTP_PORT":                  {path: []string{"http", "port"}, numeric: true},
	"HTTP_READ_TIMEOUT_SECONDS":  {path: []string{"http", "read_timeout_seconds"}, numeric: true},
	"HTTP_WRITE_TIMEOUT_SECONDS": {path: []string{"http", "write_timeout_seconds"}, numeric: true},
	"PROCESSOR_ENVIRONMENT":      {path: []string{"processor", "environment"}},
	"PROCESSOR_BASE_URL":         {path: []string{"processor", "base_url"}},
	"PROCESSOR_CONFIG_FILE":      {path: []string{"processor", "config_file"}},
	"PROCESSOR_PRIVATE_KEY":      {path: []string{"processor", "private_key"}},
	"PROCESSOR_TIMEOUT_SECONDS":  {path: []string{"processor", "timeout_seconds"}, numeric: true},
	"SECURITY_APP_KEY":           {path: []string{"security", "app_key"}},
	"LOG_LEVEL":                  {path: []string{"log", "level"}},
	"LOG_FORMAT":                 {path: []string{"log", "format"}},
	"AUDIT_DSN":                  {path: []string{"audit", "dsn"}},
}

// EnvConfigLoader reads PREFIX_* environment variables into the nested raw
// map consumed by cfgx.
type EnvConfigLoader struct {
	Prefix string
	Lookup func(key string) (string, bool)
}

func NewEnvConfigLoader(prefix string) *EnvConfigLoader {
	return &EnvConfigLoader{Prefix: prefix, Lookup: os.LookupEnv}
}

func (l *EnvConfigLoader) LoadRaw(context.Context) (map[string]any, error) {
	raw := map[string]any{}
	if l == nil {
		return raw, nil
	}
	lookup := l.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	prefix := strings.ToUpper(strings.TrimSpace(l.Prefix))
	if prefix != "" && !strings.HasSuffix(prefix, "_") {
		prefix += "_"
	}
	for suffix, binding := range envBindings {
		value, ok := lookup(prefix + suffix)
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		var typed any = value
		if binding.numeric {
			parsed, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("core: %s%s must be an integer: %w", prefix, suffix, err)
			}
			typed = parsed
		}
		setPath(raw, binding.path, typed)
	}
	if err := applyLegacyEnv(raw, lookup); err != nil {
		return nil, err
	}
	return raw, nil
}

// applyLegacyEnv honours the unprefixed EXPRESS_PORT, PORT and NGROK_DOMAIN
// variables when the prefixed keys are absent.
func applyLegacyEnv(raw map[string]any, lookup func(string) (string, bool)) error {
	httpSection, _ := raw["http"].(map[string]any)
	if _, ok := httpSection["port"]; !ok {
		for _, key := range []string{"EXPRESS_PORT", "PORT"} {
			value, found := lookup(key)
			if value = strings.TrimSpace(value); !found || value == "" {
				continue
			}
			port, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("core: %s must be an integer: %w", key, err)
			}
			setPath(raw, []string{"http", "port"}, port)
			break
		}
	}
	if _, ok := raw["public_base_url"]; !ok {
		if domain, found := lookup("NGROK_DOMAIN"); found && strings.TrimSpace(domain) != "" {
			domain = strings.TrimSpace(domain)
			if !strings.Contains(domain, "://") {
				domain = "https://" + domain
			}
			raw["public_base_url"] = domain
		}
	}
	return nil
}

func setPath(target map[string]any, path []string, value any) {
	current := target
	for _, key := range path[:len(path)-1] {
		next, ok := current[key].(map[string]any)
		if !ok {
			next = map[string]any{}
			current[key] = next
		}
		current = next
	}
	current[path[len(path)-1]] = value
}

type CfgxConfigProvider struct {
	Loader RawConfigLoader
}

func NewCfgxConfigProvider(loader RawConfigLoader) *CfgxConfigProvider {
	return &CfgxConfigProvider{Loader: loader}
}

func (p *CfgxConfigProvider) Load(ctx context.Context, defaults Config) (Config, error) {
	if p == nil {
		return defaults, nil
	}
	loader := p.Loader
	if loader == nil {
		loader = staticRawConfigLoader{}
	}
	raw, err := loader.LoadRaw(ctx)
	if err != nil {
		return Config{}, err
	}
	cfg, err := cfgx.Build[Config](raw,
		cfgx.WithDefaults(defaults),
		cfgx.WithValidator[Config]((*Config).Validate),
	)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

type GoOptionsResolver struct{}

func (GoOptionsResolver) Resolve(defaults Config, loaded Config, runtime Config) (Config, error) {
	stack, err := opts.NewStack(
		opts.NewLayer(
			opts.NewScope("defaults", 0),
			configToLayerMap(defaults, true),
			opts.WithSnapshotID[map[string]any]("defaults"),
		),
		opts.NewLayer(
			opts.NewScope("config", 10),
			configToLayerMap(loaded, false),
			opts.WithSnapshotID[map[string]any]("config"),
		),
		opts.NewLayer(
			opts.NewScope("runtime", 20),
			configToLayerMap(runtime, false),
			opts.WithSnapshotID[map[string]any]("runtime"),
		),
	)
	if err != nil {
		return Config{}, fmt.Errorf("core: options stack build failed: %w", err)
	}
	merged, err := stack.Merge()
	if err != nil {
		return Config{}, fmt.Errorf("core: options merge failed: %w", err)
	}
	resolved, err := cfgx.Build[Config](merged.Value,
		cfgx.WithDefaults(defaults),
		cfgx.WithValidator[Config]((*Config).Validate),
	)
	if err != nil {
		return Config{}, err
	}
	if err := resolved.Validate(); err != nil {
		return Config{}, err
	}
	return resolved, nil
}

func configToLayerMap(cfg Config, includeZero bool) map[string]any {
	layer := map[string]any{}
	putString(layer, "service_name", cfg.ServiceName, includeZero)
	putString(layer, "public_base_url", cfg.PublicBaseURL, includeZero)

	httpLayer := map[string]any{}
	putInt(httpLayer, "port", cfg.HTTP.Port, includeZero)
	putInt(httpLayer, "read_timeout_seconds", cfg.HTTP.ReadTimeoutSeconds, includeZero)
	putInt(httpLayer, "write_timeout_seconds", cfg.HTTP.WriteTimeoutSeconds, includeZero)
	putSection(layer, "http", httpLayer)

	processorLayer := map[string]any{}
	putString(processorLayer, "environment", cfg.Processor.Environment, includeZero)
	putString(processorLayer, "base_url", cfg.Processor.BaseURL, includeZero)
	putString(processorLayer, "config_file", cfg.Processor.ConfigFile, includeZero)
	putString(processorLayer, "private_key", cfg.Processor.PrivateKey, includeZero)
	putInt(processorLayer, "timeout_seconds", cfg.Processor.TimeoutSeconds, includeZero)
	putSection(layer, "processor", processorLayer)

	securityLayer := map[string]any{}
	putString(securityLayer, "app_key", cfg.Security.AppKey, includeZero)
	putSection(layer, "security", securityLayer)

	logLayer := map[string]any{}
	putString(logLayer, "level", cfg.Log.Level, includeZero)
	putString(logLayer, "format", cfg.Log.Format, includeZero)
	putSection(layer, "log", logLayer)

	auditLayer := map[string]any{}
	putString(auditLayer, "dsn", cfg.Audit.DSN, includeZero)
	putSection(layer, "audit", auditLayer)
	return layer
}

func putString(layer map[string]any, key string, value string, includeZero bool) {
	if includeZero || strings.TrimSpace(value) != "" {
		layer[key] = value
	}
}

func putInt(layer map[string]any, key string, value int, includeZero bool) {
	if includeZero || value != 0 {
		layer[key] = value
	}
}

func putSection(layer map[string]any, key string, section map[string]any) {
	if len(section) > 0 {
		layer[key] = section
	}
}
