package payhooks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-payhooks/core"
	"github.com/goliatone/go-payhooks/credentials"
	"github.com/goliatone/go-payhooks/httpapi"
	"github.com/goliatone/go-payhooks/logging"
	"github.com/goliatone/go-payhooks/metrics"
	"github.com/goliatone/go-payhooks/processor"
	"github.com/goliatone/go-payhooks/security"
	sqlstore "github.com/goliatone/go-payhooks/store/sql"
	"github.com/goliatone/go-payhooks/transport"
	"github.com/goliatone/go-payhooks/webhooks"
	"go.opentelemetry.io/otel"
)

type Config = core.Config

const tracerName = "github.com/goliatone/go-payhooks"

func DefaultConfig() Config {
	return core.DefaultConfig()
}

// App is a fully wired payhooks process: credential store, webhook
// validator, processor client, optional audit store and the HTTP server.
type App struct {
	Config      Config
	Credentials *credentials.Store
	Webhooks    *webhooks.Service
	Processor   *processor.Client
	Payments    *processor.PaymentService
	Facade      *Facade
	Server      *httpapi.Server
	Metrics     *metrics.PrometheusRecorder

	logger  core.Logger
	closers []func() error
}

type Option func(*appOptions)

type appOptions struct {
	logger      core.Logger
	tokenSource credentials.TokenSource
	httpDoer    transport.HTTPDoer
	signer      transport.RequestSigner
	metrics     *metrics.PrometheusRecorder
}

func WithLogger(logger core.Logger) Option {
	return func(o *appOptions) {
		o.logger = logger
	}
}

// WithTokenSource replaces the processor client file as the credential source.
func WithTokenSource(source credentials.TokenSource) Option {
	return func(o *appOptions) {
		o.tokenSource = source
	}
}

func WithHTTPDoer(doer transport.HTTPDoer) Option {
	return func(o *appOptions) {
		o.httpDoer = doer
	}
}

func WithRequestSigner(signer transport.RequestSigner) Option {
	return func(o *appOptions) {
		o.signer = signer
	}
}

func WithPrometheusRecorder(recorder *metrics.PrometheusRecorder) Option {
	return func(o *appOptions) {
		o.metrics = recorder
	}
}

// New validates cfg and wires every component. Credentials are loaded once
// here; a missing or incomplete client file fails startup.
func New(ctx context.Context, cfg Config, opts ...Option) (_ *App, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	options := appOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	app := &App{Config: cfg}
	defer func() {
		if err != nil {
			_ = app.Close()
		}
	}()
	logger := options.logger
	if logger == nil {
		zapLogger, err := logging.New(cfg.Log, cfg.ServiceName)
		if err != nil {
			return nil, err
		}
		logger = zapLogger
		app.closers = append(app.closers, func() error {
			_ = zapLogger.Sync()
			return nil
		})
	}
	app.logger = logger

	app.Metrics = options.metrics
	if app.Metrics == nil {
		app.Metrics = metrics.NewPrometheusRecorder(cfg.ServiceName, nil)
	}
	observer := core.NewObserver(logger, app.Metrics)

	opener, err := secretOpener(cfg.Security)
	if err != nil {
		return nil, err
	}
	source := options.tokenSource
	if source == nil {
		source = credentials.NewFileTokenSource(cfg.Processor.ConfigFile, cfg.Processor.Environment, opener)
	}
	store, err := credentials.Load(ctx, source)
	if err != nil {
		return nil, err
	}
	app.Credentials = store

	webhookOpts := []webhooks.Option{
		webhooks.WithLogger(logger),
		webhooks.WithMetricsRecorder(app.Metrics),
		webhooks.WithTracer(otel.Tracer(tracerName)),
	}
	facadeOpts := []FacadeOption{}
	if dsn := strings.TrimSpace(cfg.Audit.DSN); dsn != "" {
		auditStore, closeAudit, err := openAuditStore(ctx, dsn, cfg.Log.Level)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, closeAudit)
		webhookOpts = append(webhookOpts, webhooks.WithAuditSink(auditStore))
		facadeOpts = append(facadeOpts,
			WithAuditReader(auditStore),
			WithHealthCheck("audit", auditStore),
		)
	}
	app.Webhooks = webhooks.NewService(webhooks.NewRouter(store), webhookOpts...)

	signer := options.signer
	if signer == nil {
		resolved, err := resolveSigner(cfg.Processor)
		if err != nil {
			return nil, err
		}
		if resolved != nil {
			signer = resolved
		}
	}
	clientOpts := []processor.ClientOption{
		processor.WithObserver(observer),
		processor.WithTimeout(time.Duration(cfg.Processor.TimeoutSeconds) * time.Second),
	}
	if base := strings.TrimSpace(cfg.Processor.BaseURL); base != "" {
		clientOpts = append(clientOpts, processor.WithBaseURL(base))
	}
	if options.httpDoer != nil {
		clientOpts = append(clientOpts, processor.WithHTTPDoer(options.httpDoer))
	}
	if signer != nil {
		clientOpts = append(clientOpts, processor.WithSigner(signer))
	}
	app.Processor = processor.NewClient(cfg.Processor.Environment, store, clientOpts...)
	app.Payments = processor.NewPaymentService(app.Processor, cfg.NotificationURL(),
		processor.WithPaymentObserver(observer),
	)

	facade, err := NewFacade(app.Payments, app.Webhooks, facadeOpts...)
	if err != nil {
		return nil, err
	}
	app.Facade = facade
	app.Server = httpapi.NewServer(facade.Handlers(),
		httpapi.WithLogger(logger),
		httpapi.WithMetricsRecorder(app.Metrics),
		httpapi.WithMetricsHandler(app.Metrics.Handler()),
	)
	return app, nil
}

func (a *App) Handler() http.Handler {
	if a == nil || a.Server == nil {
		return http.NotFoundHandler()
	}
	return a.Server.Handler()
}

// HTTPServer returns an http.Server bound to the configured port.
func (a *App) HTTPServer() *http.Server {
	return httpapi.NewHTTPServer(a.Config.HTTP, a.Handler())
}

func (a *App) Logger() core.Logger {
	return a.logger
}

// Close releases the audit database and flushes the logger, newest first.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func secretOpener(cfg core.SecurityConfig) (credentials.Opener, error) {
	key := strings.TrimSpace(cfg.AppKey)
	if key == "" {
		return nil, nil
	}
	provider, err := security.NewAppKeySecretProviderFromString(key)
	if err != nil {
		return nil, fmt.Errorf("payhooks: security.app_key: %w", err)
	}
	return provider, nil
}

// resolveSigner prefers processor.private_key and falls back to the key held
// in the client file. No key means requests go out unsigned.
func resolveSigner(cfg core.ProcessorConfig) (*processor.ECDSASigner, error) {
	if key := strings.TrimSpace(cfg.PrivateKey); key != "" {
		return processor.NewECDSASignerFromHex(key)
	}
	file, err := credentials.ReadClientFile(cfg.ConfigFile, cfg.Environment)
	if err != nil {
		return nil, nil
	}
	switch {
	case strings.TrimSpace(file.PrivateKey) != "":
		return processor.NewECDSASignerFromHex(file.PrivateKey)
	case strings.TrimSpace(file.PrivateKeyPath) != "":
		return processor.NewECDSASignerFromFile(file.PrivateKeyPath)
	}
	return nil, nil
}

func openAuditStore(ctx context.Context, dsn string, logLevel string) (*sqlstore.CachedWebhookAuditStore, func() error, error) {
	client, err := sqlstore.Open(ctx, dsn, strings.EqualFold(strings.TrimSpace(logLevel), "debug"))
	if err != nil {
		return nil, nil, err
	}
	factory, err := sqlstore.NewRepositoryFactoryFromPersistence(client)
	if err != nil {
		_ = client.DB().Close()
		return nil, nil, err
	}
	cache, err := sqlstore.NewDefaultAuditCache()
	if err != nil {
		_ = client.DB().Close()
		return nil, nil, err
	}
	store, err := sqlstore.NewCachedWebhookAuditStore(factory.WebhookAuditStore(), cache)
	if err != nil {
		_ = client.DB().Close()
		return nil, nil, err
	}
	return store, client.DB().Close, nil
}
