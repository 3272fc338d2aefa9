// Package httpapi exposes the webhook validator, the processor demo routes,
// health and metrics over gin.
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goliatone/go-payhooks/command"
	"github.com/goliatone/go-payhooks/core"
	"github.com/goliatone/go-payhooks/query"
	"github.com/goliatone/go-payhooks/webhooks"
)

const (
	HeaderRequestID = "X-Request-Id"
	HeaderSignature = "x-signature"

	// maxWebhookBodyBytes bounds inbound notification bodies.
	maxWebhookBodyBytes = 1 << 20
)

type Executor[M any] interface {
	Execute(ctx context.Context, msg M) error
}

type Querier[M any, R any] interface {
	Query(ctx context.Context, msg M) (R, error)
}

// Handlers groups the command and query handlers served over HTTP. Nil
// entries leave their routes unregistered.
type Handlers struct {
	ValidateWebhook      Executor[command.ValidateWebhookMessage]
	CreateInvoice        Executor[command.CreateInvoiceMessage]
	CreateAndPayInvoice  Executor[command.CreateAndPayInvoiceMessage]
	ResendInvoiceWebhook Executor[command.ResendInvoiceWebhookMessage]
	RefundInvoice        Executor[command.RefundInvoiceMessage]
	SubmitPayout         Executor[command.SubmitPayoutMessage]
	InviteRecipient      Executor[command.InviteRecipientMessage]

	Health       Querier[query.HealthMessage, query.Health]
	WebhookAudit Querier[query.ListWebhookAuditMessage, []webhooks.AuditRecord]
}

type Option func(*Server)

func WithLogger(logger core.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

func WithMetricsRecorder(recorder core.MetricsRecorder) Option {
	return func(s *Server) {
		s.metrics = recorder
	}
}

// WithMetricsHandler serves handler on GET /metrics.
func WithMetricsHandler(handler http.Handler) Option {
	return func(s *Server) {
		s.metricsHandler = handler
	}
}

type Server struct {
	handlers       Handlers
	logger         core.Logger
	metrics        core.MetricsRecorder
	metricsHandler http.Handler
	observer       *core.Observer
	engine         *gin.Engine
}

func NewServer(handlers Handlers, opts ...Option) *Server {
	s := &Server{handlers: handlers}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.observer = core.NewObserver(s.logger, s.metrics)
	s.engine = s.routes()
	return s
}

// Handler returns the gin engine as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	engine := gin.New()
	engine.Use(
		requestIDMiddleware(),
		recoveryMiddleware(s.observer),
		accessLogMiddleware(s.observer),
		metricsMiddleware(s.observer),
	)

	engine.GET("/", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	if s.handlers.Health != nil {
		engine.GET("/health", s.handleHealth)
	}
	if s.metricsHandler != nil {
		engine.GET("/metrics", gin.WrapH(s.metricsHandler))
	}
	if s.handlers.ValidateWebhook != nil {
		engine.POST("/webhook-validator", s.handleValidateWebhook)
	}
	if s.handlers.WebhookAudit != nil {
		engine.GET("/webhook-audit", s.handleListWebhookAudit)
	}

	bitpay := engine.Group("/bitpay")
	{
		if s.handlers.CreateInvoice != nil {
			bitpay.POST("/createInvoice", s.handleCreateInvoice)
		}
		if s.handlers.CreateAndPayInvoice != nil {
			bitpay.POST("/createAndPayInvoice", s.handleCreateAndPayInvoice)
		}
		if s.handlers.ResendInvoiceWebhook != nil {
			bitpay.POST("/resendInvoiceWebhook/:invoiceId", s.handleResendInvoiceWebhook)
		}
		if s.handlers.RefundInvoice != nil {
			bitpay.POST("/refundInvoice/:invoiceId", s.handleRefundInvoice)
		}
		if s.handlers.InviteRecipient != nil {
			bitpay.POST("/inviteRecipient", s.handleInviteRecipient)
		}
		if s.handlers.SubmitPayout != nil {
			bitpay.POST("/createPayout", s.handleCreatePayout)
		}
	}
	return engine
}

// NewHTTPServer binds handler to cfg.Port with the configured timeouts.
func NewHTTPServer(cfg core.HTTPConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       secondsOr(cfg.ReadTimeoutSeconds, 15),
		WriteTimeout:      secondsOr(cfg.WriteTimeoutSeconds, 30),
	}
}

func secondsOr(value int, fallback int) time.Duration {
	if value <= 0 {
		value = fallback
	}
	return time.Duration(value) * time.Second
}
