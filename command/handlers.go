package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-payhooks/processor"
	"github.com/goliatone/go-payhooks/webhooks"
)

type PaymentService interface {
	CreateInvoice(ctx context.Context) (processor.Invoice, error)
	CreateAndPayInvoice(ctx context.Context) (processor.Invoice, error)
	ResendInvoiceWebhook(ctx context.Context, invoiceID string) (bool, error)
	RefundInvoice(ctx context.Context, invoiceID string, amount float64) (processor.Refund, error)
	SubmitPayout(ctx context.Context, recipientID string) (processor.Payout, error)
	InviteRecipient(ctx context.Context, email string) ([]processor.PayoutRecipient, error)
}

type WebhookValidator interface {
	ValidateRequest(ctx context.Context, rawBody []byte, signature string) (webhooks.Outcome, error)
}

type CreateInvoiceCommand struct {
	service PaymentService
}

func NewCreateInvoiceCommand(service PaymentService) *CreateInvoiceCommand {
	return &CreateInvoiceCommand{service: service}
}

func (c *CreateInvoiceCommand) Execute(ctx context.Context, msg CreateInvoiceMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: payment service is required")
	}
	out, err := c.service.CreateInvoice(ctx)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type CreateAndPayInvoiceCommand struct {
	service PaymentService
}

func NewCreateAndPayInvoiceCommand(service PaymentService) *CreateAndPayInvoiceCommand {
	return &CreateAndPayInvoiceCommand{service: service}
}

func (c *CreateAndPayInvoiceCommand) Execute(ctx context.Context, msg CreateAndPayInvoiceMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: payment service is required")
	}
	out, err := c.service.CreateAndPayInvoice(ctx)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type ResendInvoiceWebhookCommand struct {
	service PaymentService
}

func NewResendInvoiceWebhookCommand(service PaymentService) *ResendInvoiceWebhookCommand {
	return &ResendInvoiceWebhookCommand{service: service}
}

func (c *ResendInvoiceWebhookCommand) Execute(ctx context.Context, msg ResendInvoiceWebhookMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: payment service is required")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	out, err := c.service.ResendInvoiceWebhook(ctx, msg.InvoiceID)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type RefundInvoiceCommand struct {
	service PaymentService
}

func NewRefundInvoiceCommand(service PaymentService) *RefundInvoiceCommand {
	return &RefundInvoiceCommand{service: service}
}

func (c *RefundInvoiceCommand) Execute(ctx context.Context, msg RefundInvoiceMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: payment service is required")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	out, err := c.service.RefundInvoice(ctx, msg.InvoiceID, msg.Amount)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type SubmitPayoutCommand struct {
	service PaymentService
}

func NewSubmitPayoutCommand(service PaymentService) *SubmitPayoutCommand {
	return &SubmitPayoutCommand{service: service}
}

func (c *SubmitPayoutCommand) Execute(ctx context.Context, msg SubmitPayoutMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: payment service is required")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	out, err := c.service.SubmitPayout(ctx, msg.RecipientID)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type InviteRecipientCommand struct {
	service PaymentService
}

func NewInviteRecipientCommand(service PaymentService) *InviteRecipientCommand {
	return &InviteRecipientCommand{service: service}
}

func (c *InviteRecipientCommand) Execute(ctx context.Context, msg InviteRecipientMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: payment service is required")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	out, err := c.service.InviteRecipient(ctx, msg.Email)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type ValidateWebhookCommand struct {
	validator WebhookValidator
}

func NewValidateWebhookCommand(validator WebhookValidator) *ValidateWebhookCommand {
	return &ValidateWebhookCommand{validator: validator}
}

func (c *ValidateWebhookCommand) Execute(ctx context.Context, msg ValidateWebhookMessage) error {
	if c == nil || c.validator == nil {
		return commandDependencyError("command: webhook validator is required")
	}
	out, err := c.validator.ValidateRequest(ctx, msg.Body, msg.Signature)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
