package logging

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-payhooks/core"
	glog "github.com/goliatone/go-logger/glog"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger adapts a zap logger to glog.Logger. Variadic args are treated as
// alternating key/value pairs.
type ZapLogger struct {
	base *zap.Logger
}

var (
	_ glog.Logger         = (*ZapLogger)(nil)
	_ glog.FieldsLogger   = (*ZapLogger)(nil)
	_ glog.LoggerProvider = (*ZapLogger)(nil)
)

// New builds a production zap logger from cfg. Format "console" switches to
// the human readable development encoder.
func New(cfg core.LogConfig, serviceName string) (*ZapLogger, error) {
	level := zapcore.InfoLevel
	if raw := strings.TrimSpace(cfg.Level); raw != "" {
		parsed, err := zapcore.ParseLevel(strings.ToLower(raw))
		if err != nil {
			return nil, fmt.Errorf("logging: invalid level %q: %w", cfg.Level, err)
		}
		level = parsed
	}

	zapCfg := zap.NewProductionConfig()
	if strings.EqualFold(strings.TrimSpace(cfg.Format), core.LogFormatConsole) {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.DisableStacktrace = true

	base, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build zap logger: %w", err)
	}
	if serviceName = strings.TrimSpace(serviceName); serviceName != "" {
		base = base.With(zap.String("service", serviceName))
	}
	return &ZapLogger{base: base}, nil
}

func NewZapLogger(base *zap.Logger) *ZapLogger {
	if base == nil {
		base = zap.NewNop()
	}
	return &ZapLogger{base: base}
}

func (l *ZapLogger) Zap() *zap.Logger {
	if l == nil || l.base == nil {
		return zap.NewNop()
	}
	return l.base
}

func (l *ZapLogger) Trace(msg string, args ...any) { l.Zap().Debug(msg, toFields(args)...) }
func (l *ZapLogger) Debug(msg string, args ...any) { l.Zap().Debug(msg, toFields(args)...) }
func (l *ZapLogger) Info(msg string, args ...any)  { l.Zap().Info(msg, toFields(args)...) }
func (l *ZapLogger) Warn(msg string, args ...any)  { l.Zap().Warn(msg, toFields(args)...) }
func (l *ZapLogger) Error(msg string, args ...any) { l.Zap().Error(msg, toFields(args)...) }
func (l *ZapLogger) Fatal(msg string, args ...any) { l.Zap().Fatal(msg, toFields(args)...) }

// WithContext attaches the request id and the active span ids, when present.
func (l *ZapLogger) WithContext(ctx context.Context) glog.Logger {
	if ctx == nil {
		return l
	}
	fields := make([]zap.Field, 0, 3)
	if requestID := RequestIDFromContext(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	if spanCtx := trace.SpanContextFromContext(ctx); spanCtx.IsValid() {
		fields = append(fields,
			zap.String("trace_id", spanCtx.TraceID().String()),
			zap.String("span_id", spanCtx.SpanID().String()),
		)
	}
	if len(fields) == 0 {
		return l
	}
	return &ZapLogger{base: l.Zap().With(fields...)}
}

func (l *ZapLogger) WithFields(fields map[string]any) glog.Logger {
	if len(fields) == 0 {
		return l
	}
	return &ZapLogger{base: l.Zap().With(mapFields(fields)...)}
}

func (l *ZapLogger) GetLogger(name string) glog.Logger {
	name = strings.TrimSpace(name)
	if name == "" {
		return l
	}
	return &ZapLogger{base: l.Zap().Named(name)}
}

func (l *ZapLogger) Sync() error {
	if l == nil || l.base == nil {
		return nil
	}
	return l.base.Sync()
}

func toFields(args []any) []zap.Field {
	if len(args) == 0 {
		return nil
	}
	fields := make([]zap.Field, 0, (len(args)+1)/2)
	for index := 0; index < len(args); index += 2 {
		key, ok := args[index].(string)
		if !ok {
			key = fmt.Sprintf("arg%d", index)
		}
		if index+1 >= len(args) {
			fields = append(fields, zap.Any(key, nil))
			break
		}
		fields = append(fields, zap.Any(key, args[index+1]))
	}
	return fields
}

func mapFields(values map[string]any) []zap.Field {
	fields := make([]zap.Field, 0, len(values))
	for key, value := range values {
		fields = append(fields, zap.Any(key, value))
	}
	return fields
}
