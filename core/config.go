package core

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	ProcessorEnvironmentTest = "test"
	ProcessorEnvironmentProd = "prod"
)

const (
	LogFormatJSON    = "json"
	LogFormatConsole = "console"
)

type HTTPConfig struct {
	Port                int `koanf:"port" mapstructure:"port"`
	ReadTimeoutSeconds  int `koanf:"read_timeout_seconds" mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds int `koanf:"write_timeout_seconds" mapstructure:"write_timeout_seconds"`
}

type ProcessorConfig struct {
	Environment    string `koanf:"environment" mapstructure:"environment"`
	BaseURL        string `koanf:"base_url" mapstructure:"base_url"`
	ConfigFile     string `koanf:"config_file" mapstructure:"config_file"`
	PrivateKey     string `koanf:"private_key" mapstructure:"private_key"`
	TimeoutSeconds int    `koanf:"timeout_seconds" mapstructure:"timeout_seconds"`
}

type SecurityConfig struct {
	AppKey string `koanf:"app_key" mapstructure:"app_key"`
}

type LogConfig struct {
	Level  string `koanf:"level" mapstructure:"level"`
	Format string `koanf:"format" mapstructure:"format"`
}

type AuditConfig struct {
	DSN string `koanf:"dsn" mapstructure:"dsn"`
}

type Config struct {
	ServiceName   string          `koanf:"service_name" mapstructure:"service_name"`
	PublicBaseURL string          `koanf:"public_base_url" mapstructure:"public_base_url"`
	HTTP          HTTPConfig      `koanf:"http" mapstructure:"http"`
	Processor     ProcessorConfig `koanf:"processor" mapstructure:"processor"`
	Security      SecurityConfig  `koanf:"security" mapstructure:"security"`
	Log           LogConfig       `koanf:"log" mapstructure:"log"`
	Audit         AuditConfig     `koanf:"audit" mapstructure:"audit"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName: "payhooks",
		HTTP: HTTPConfig{
			Port:                3001,
			ReadTimeoutSeconds:  15,
			WriteTimeoutSeconds: 30,
		},
		Processor: ProcessorConfig{
			Environment:    ProcessorEnvironmentTest,
			ConfigFile:     "secure/BitPay.config.json",
			TimeoutSeconds: 30,
		},
		Log: LogConfig{
			Level:  "info",
			Format: LogFormatJSON,
		},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("core: http.port %d is invalid", c.HTTP.Port)
	}
	switch strings.ToLower(strings.TrimSpace(c.Processor.Environment)) {
	case ProcessorEnvironmentTest, ProcessorEnvironmentProd:
	default:
		return fmt.Errorf("core: processor.environment %q is invalid", c.Processor.Environment)
	}
	if strings.TrimSpace(c.Processor.ConfigFile) == "" {
		return fmt.Errorf("core: processor.config_file is required")
	}
	if c.Processor.TimeoutSeconds < 0 {
		return fmt.Errorf("core: processor.timeout_seconds is invalid")
	}
	if raw := strings.TrimSpace(c.PublicBaseURL); raw != "" {
		parsed, err := url.Parse(raw)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("core: public_base_url %q is invalid", raw)
		}
	}
	switch strings.ToLower(strings.TrimSpace(c.Log.Format)) {
	case "", LogFormatJSON, LogFormatConsole:
	default:
		return fmt.Errorf("core: log.format %q is invalid", c.Log.Format)
	}
	return nil
}

// NotificationURL is the public webhook endpoint handed to the processor when
// creating invoices, refunds, payouts and recipients.
func (c Config) NotificationURL() string {
	base := strings.TrimRight(strings.TrimSpace(c.PublicBaseURL), "/")
	if base == "" {
		return ""
	}
	return base + "/webhook-validator"
}
