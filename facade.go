package payhooks

import (
	"fmt"

	"github.com/goliatone/go-payhooks/command"
	"github.com/goliatone/go-payhooks/core"
	"github.com/goliatone/go-payhooks/httpapi"
	"github.com/goliatone/go-payhooks/query"
)

type Commands struct {
	ValidateWebhook      *command.ValidateWebhookCommand
	CreateInvoice        *command.CreateInvoiceCommand
	CreateAndPayInvoice  *command.CreateAndPayInvoiceCommand
	ResendInvoiceWebhook *command.ResendInvoiceWebhookCommand
	RefundInvoice        *command.RefundInvoiceCommand
	SubmitPayout         *command.SubmitPayoutCommand
	InviteRecipient      *command.InviteRecipientCommand
}

type Queries struct {
	Health           *query.HealthQuery
	ListWebhookAudit *query.ListWebhookAuditQuery
}

// Facade groups the command and query handlers built over one payment
// service and one webhook validator.
type Facade struct {
	commands Commands
	queries  Queries
}

type FacadeOption func(*facadeOptions)

type facadeOptions struct {
	auditReader  query.AuditReader
	healthChecks map[string]core.Pinger
}

func WithAuditReader(reader query.AuditReader) FacadeOption {
	return func(options *facadeOptions) {
		options.auditReader = reader
	}
}

// WithHealthCheck adds a named dependency to the health query.
func WithHealthCheck(name string, check core.Pinger) FacadeOption {
	return func(options *facadeOptions) {
		if name == "" || check == nil {
			return
		}
		if options.healthChecks == nil {
			options.healthChecks = map[string]core.Pinger{}
		}
		options.healthChecks[name] = check
	}
}

func NewFacade(payments command.PaymentService, validator command.WebhookValidator, opts ...FacadeOption) (*Facade, error) {
	if payments == nil {
		return nil, fmt.Errorf("payhooks: payment service is required")
	}
	if validator == nil {
		return nil, fmt.Errorf("payhooks: webhook validator is required")
	}
	cfg := facadeOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	facade := &Facade{}
	facade.commands = Commands{
		ValidateWebhook:      command.NewValidateWebhookCommand(validator),
		CreateInvoice:        command.NewCreateInvoiceCommand(payments),
		CreateAndPayInvoice:  command.NewCreateAndPayInvoiceCommand(payments),
		ResendInvoiceWebhook: command.NewResendInvoiceWebhookCommand(payments),
		RefundInvoice:        command.NewRefundInvoiceCommand(payments),
		SubmitPayout:         command.NewSubmitPayoutCommand(payments),
		InviteRecipient:      command.NewInviteRecipientCommand(payments),
	}
	facade.queries = Queries{
		Health: query.NewHealthQuery(cfg.healthChecks),
	}
	if cfg.auditReader != nil {
		facade.queries.ListWebhookAudit = query.NewListWebhookAuditQuery(cfg.auditReader)
	}
	return facade, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

// Handlers adapts the facade to the HTTP route table. The audit route is
// only registered when an audit reader was supplied.
func (f *Facade) Handlers() httpapi.Handlers {
	if f == nil {
		return httpapi.Handlers{}
	}
	handlers := httpapi.Handlers{
		ValidateWebhook:      f.commands.ValidateWebhook,
		CreateInvoice:        f.commands.CreateInvoice,
		CreateAndPayInvoice:  f.commands.CreateAndPayInvoice,
		ResendInvoiceWebhook: f.commands.ResendInvoiceWebhook,
		RefundInvoice:        f.commands.RefundInvoice,
		SubmitPayout:         f.commands.SubmitPayout,
		InviteRecipient:      f.commands.InviteRecipient,
		Health:               f.queries.Health,
	}
	if f.queries.ListWebhookAudit != nil {
		handlers.WebhookAudit = f.queries.ListWebhookAudit
	}
	return handlers
}
