package command

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-payhooks/processor"
	"github.com/goliatone/go-payhooks/webhooks"
)

var (
	_ gocmd.Commander[CreateInvoiceMessage]        = (*CreateInvoiceCommand)(nil)
	_ gocmd.Commander[CreateAndPayInvoiceMessage]  = (*CreateAndPayInvoiceCommand)(nil)
	_ gocmd.Commander[ResendInvoiceWebhookMessage] = (*ResendInvoiceWebhookCommand)(nil)
	_ gocmd.Commander[RefundInvoiceMessage]        = (*RefundInvoiceCommand)(nil)
	_ gocmd.Commander[SubmitPayoutMessage]         = (*SubmitPayoutCommand)(nil)
	_ gocmd.Commander[InviteRecipientMessage]      = (*InviteRecipientCommand)(nil)
	_ gocmd.Commander[ValidateWebhookMessage]      = (*ValidateWebhookCommand)(nil)

	_ PaymentService   = (*processor.PaymentService)(nil)
	_ WebhookValidator = (*webhooks.Service)(nil)
)
