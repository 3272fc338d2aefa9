package webhooks

import (
	"context"
	"time"

	"github.com/goliatone/go-payhooks/core"
	"github.com/goliatone/go-payhooks/logging"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "github.com/goliatone/go-payhooks/webhooks"

	LogCodeValidationComplete = "WEBHOOK_VALIDATION_COMPLETE"
	LogCodeValidateFail       = "WEBHOOK_VALIDATE_FAIL"

	metricValidateTotal    = "webhooks.validate.total"
	metricValidateDuration = "webhooks.validate.duration_ms"
)

const (
	OutcomeValidated = "validated"
	OutcomeMismatch  = "mismatch"
	OutcomeRejected  = "rejected"
	OutcomeFailed    = "failed"
)

// Outcome is returned to the caller of a successful validation. Token holds
// the scope name of the credential used, never the credential itself.
type Outcome struct {
	Event      string            `json:"event"`
	Token      string            `json:"token"`
	Body       string            `json:"body"`
	Validation *ValidationResult `json:"validation,omitempty"`
}

type Option func(*Service)

func WithLogger(logger core.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetricsRecorder(recorder core.MetricsRecorder) Option {
	return func(s *Service) {
		if recorder != nil {
			s.metrics = recorder
		}
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

func WithVerifier(verifier SignatureVerifier) Option {
	return func(s *Service) {
		if verifier != nil {
			s.verifier = verifier
		}
	}
}

func WithAuditSink(sink AuditSink) Option {
	return func(s *Service) {
		s.audit = sink
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// Service validates inbound notifications. It holds no per-request state and
// is safe for concurrent use.
type Service struct {
	router   *Router
	verifier SignatureVerifier
	audit    AuditSink
	logger   core.Logger
	metrics  core.MetricsRecorder
	tracer   trace.Tracer
	now      func() time.Time
	observer *core.Observer
}

func NewService(router *Router, opts ...Option) *Service {
	svc := &Service{
		router:   router,
		verifier: HMACVerifier{},
		metrics:  core.NopMetricsRecorder{},
		tracer:   otel.Tracer(tracerName),
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(svc)
	}
	svc.observer = core.NewObserver(svc.logger, svc.metrics)
	return svc
}

// ValidateRequest extracts event.name from rawBody and validates it.
func (s *Service) ValidateRequest(ctx context.Context, rawBody []byte, signature string) (Outcome, error) {
	return s.Validate(ctx, ExtractEventName(rawBody), rawBody, signature)
}

// Validate checks, in order, that signature and rawBody are non-empty and that
// eventName routes to a credential, then verifies the signature. Failed gates
// return a rejection error; a mismatch returns Validated=false with no error.
func (s *Service) Validate(ctx context.Context, eventName string, rawBody []byte, signature string) (Outcome, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	startedAt := s.now()
	ctx, span := s.tracer.Start(ctx, "webhooks.validate",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("webhook.event", eventLabel(eventName)),
			attribute.Int("webhook.body_size", len(rawBody)),
		),
	)
	defer span.End()

	outcome, scope, err := s.validate(eventName, rawBody, signature)
	elapsed := float64(s.now().Sub(startedAt).Milliseconds())

	tags := map[string]string{
		"event":  eventLabel(eventName),
		"scope":  scope,
		"reason": "",
	}
	switch {
	case err != nil && IsRejection(err):
		tags["outcome"] = OutcomeRejected
		tags["reason"] = textCodeOf(err)
		span.SetStatus(codes.Error, tags["reason"])
		s.observer.Warn(ctx, "Webhook rejected.", map[string]any{
			"code":   LogCodeValidateFail,
			"reason": tags["reason"],
			"event":  eventName,
		})
	case err != nil:
		tags["outcome"] = OutcomeFailed
		tags["reason"] = textCodeOf(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		s.observer.Error(ctx, "Webhook validation failed.", map[string]any{
			"code":  LogCodeValidateFail,
			"event": eventName,
			"scope": scope,
			"error": err.Error(),
		})
	default:
		tags["outcome"] = OutcomeValidated
		if !outcome.Validation.Validated {
			tags["outcome"] = OutcomeMismatch
		}
		span.SetAttributes(
			attribute.String("webhook.scope", scope),
			attribute.Bool("webhook.validated", outcome.Validation.Validated),
		)
		s.observer.Info(ctx, "Webhook validation completed.", map[string]any{
			"code":      LogCodeValidationComplete,
			"event":     outcome.Event,
			"scope":     scope,
			"validated": outcome.Validation.Validated,
		})
		s.recordAudit(ctx, outcome, rawBody, startedAt)
	}
	s.observer.Count(ctx, metricValidateTotal, tags)
	s.observer.Observe(ctx, metricValidateDuration, elapsed, map[string]string{"outcome": tags["outcome"]})

	if err != nil {
		return Outcome{}, err
	}
	return outcome, nil
}

func (s *Service) validate(eventName string, rawBody []byte, signature string) (Outcome, string, error) {
	if signature == "" {
		return Outcome{}, "", signatureRequiredError()
	}
	if len(rawBody) == 0 {
		return Outcome{}, "", bodyRequiredError()
	}
	credential, ok, err := s.router.Resolve(eventName)
	if err != nil {
		return Outcome{}, "", err
	}
	if !ok {
		return Outcome{}, "", tokenNotFoundError()
	}
	scope := credential.Scope().String()

	request := ValidationRequest{Credential: credential, RawBody: rawBody, Signature: signature}
	result, err := s.verifier.Verify(request.Credential, request.RawBody, request.Signature)
	if err != nil {
		if textCodeOf(err) == "" {
			err = signatureUnavailableError(err)
		}
		return Outcome{}, scope, err
	}
	return Outcome{
		Event:      eventName,
		Token:      scope,
		Body:       string(rawBody),
		Validation: &result,
	}, scope, nil
}

func (s *Service) recordAudit(ctx context.Context, outcome Outcome, rawBody []byte, receivedAt time.Time) {
	if s.audit == nil {
		return
	}
	record := AuditRecord{
		ID:         uuid.NewString(),
		RequestID:  logging.RequestIDFromContext(ctx),
		Event:      outcome.Event,
		Scope:      outcome.Token,
		Validated:  outcome.Validation != nil && outcome.Validation.Validated,
		BodySHA256: bodyDigest(rawBody),
		BodySize:   len(rawBody),
		ReceivedAt: receivedAt,
	}
	if err := s.audit.Record(ctx, record); err != nil {
		s.observer.Warn(ctx, "Webhook audit record failed.", map[string]any{
			"code":  LogCodeValidateFail,
			"event": outcome.Event,
			"error": err.Error(),
		})
	}
}

// eventLabel bounds metric cardinality: names outside the routing table are
// reported as "unknown".
func eventLabel(eventName string) string {
	if _, ok := ScopeForEvent(eventName); ok {
		return eventName
	}
	return "unknown"
}
