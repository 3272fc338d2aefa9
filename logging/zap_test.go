package logging

import (
	"context"
	"testing"

	"github.com/goliatone/go-payhooks/core"
	glog "github.com/goliatone/go-logger/glog"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger(level zapcore.Level) (*ZapLogger, *observer.ObservedLogs) {
	obsCore, logs := observer.New(level)
	return NewZapLogger(zap.New(obsCore)), logs
}

func TestZapLoggerKeyValueArgs(t *testing.T) {
	logger, logs := newObservedLogger(zapcore.InfoLevel)

	logger.Info("webhook validated", "event", "invoice_paidInFull", "validated", true)
	logger.Debug("dropped below level")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["event"] != "invoice_paidInFull" {
		t.Fatalf("expected event field, got %#v", fields["event"])
	}
	if fields["validated"] != true {
		t.Fatalf("expected validated field, got %#v", fields["validated"])
	}
}

func TestZapLoggerOddArgsAndNonStringKeys(t *testing.T) {
	logger, logs := newObservedLogger(zapcore.InfoLevel)

	logger.Warn("odd", 42, "value", "dangling")

	fields := logs.All()[0].ContextMap()
	if fields["arg0"] != "value" {
		t.Fatalf("expected positional key for non-string key, got %#v", fields)
	}
	if _, ok := fields["dangling"]; !ok {
		t.Fatalf("expected dangling key to be kept, got %#v", fields)
	}
}

func TestZapLoggerWithContextAddsRequestAndTrace(t *testing.T) {
	logger, logs := newObservedLogger(zapcore.InfoLevel)

	traceID, _ := trace.TraceIDFromHex("0123456789abcdef0123456789abcdef")
	spanID, _ := trace.SpanIDFromHex("0123456789abcdef")
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)
	ctx = WithRequestID(ctx, "req-1")

	logger.WithContext(ctx).Info("hello")

	fields := logs.All()[0].ContextMap()
	if fields["request_id"] != "req-1" {
		t.Fatalf("expected request_id, got %#v", fields["request_id"])
	}
	if fields["trace_id"] != traceID.String() {
		t.Fatalf("expected trace_id %q, got %#v", traceID.String(), fields["trace_id"])
	}
	if fields["span_id"] != spanID.String() {
		t.Fatalf("expected span_id %q, got %#v", spanID.String(), fields["span_id"])
	}
}

func TestZapLoggerWithFieldsAndNamedProvider(t *testing.T) {
	logger, logs := newObservedLogger(zapcore.InfoLevel)

	var provider glog.LoggerProvider = logger
	named := provider.GetLogger("webhooks")
	named.(glog.FieldsLogger).WithFields(map[string]any{"scope": "merchant"}).Info("resolved")

	entry := logs.All()[0]
	if entry.LoggerName != "webhooks" {
		t.Fatalf("expected named logger, got %q", entry.LoggerName)
	}
	if entry.ContextMap()["scope"] != "merchant" {
		t.Fatalf("expected scope field, got %#v", entry.ContextMap())
	}
}

func TestObserverDoesNotDuplicateFieldsOnZap(t *testing.T) {
	logger, logs := newObservedLogger(zapcore.InfoLevel)
	observerLog := core.NewObserver(logger, nil)

	observerLog.Info(context.Background(), "webhook validated", map[string]any{"event": "refund_created"})

	entry := logs.All()[0]
	count := 0
	for _, field := range entry.Context {
		if field.Key == "event" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected event field once, got %d", count)
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New(core.LogConfig{Level: "loud"}, "payhooks"); err == nil {
		t.Fatalf("expected invalid level error")
	}
	logger, err := New(core.LogConfig{Level: "debug", Format: core.LogFormatConsole}, "payhooks")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	if logger.Zap() == nil {
		t.Fatalf("expected zap logger")
	}
}

func TestRequestIDContextHelpers(t *testing.T) {
	if RequestIDFromContext(context.Background()) != "" {
		t.Fatalf("expected empty request id")
	}
	ctx := WithRequestID(context.Background(), "  ")
	if RequestIDFromContext(ctx) != "" {
		t.Fatalf("expected blank request id to be ignored")
	}
}

func TestResolvePrefersProvider(t *testing.T) {
	providerLogger, _ := newObservedLogger(zapcore.InfoLevel)
	direct, _ := newObservedLogger(zapcore.InfoLevel)

	_, resolved := Resolve("payhooks", providerLogger, direct)
	if resolved == glog.Logger(direct) {
		t.Fatalf("expected provider logger to take precedence")
	}
	_, fallback := Resolve("payhooks", nil, nil)
	if fallback == nil {
		t.Fatalf("expected nop fallback")
	}
}
