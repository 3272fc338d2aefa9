package command

import (
	"strings"
)

const (
	TypeCreateInvoice        = "payhooks.command.invoice.create"
	TypeCreateAndPayInvoice  = "payhooks.command.invoice.create_and_pay"
	TypeResendInvoiceWebhook = "payhooks.command.invoice.resend_webhook"
	TypeRefundInvoice        = "payhooks.command.refund.create"
	TypeSubmitPayout         = "payhooks.command.payout.submit"
	TypeInviteRecipient      = "payhooks.command.recipient.invite"
	TypeValidateWebhook      = "payhooks.command.webhook.validate"
)

type CreateInvoiceMessage struct{}

func (CreateInvoiceMessage) Type() string { return TypeCreateInvoice }

func (CreateInvoiceMessage) Validate() error { return nil }

type CreateAndPayInvoiceMessage struct{}

func (CreateAndPayInvoiceMessage) Type() string { return TypeCreateAndPayInvoice }

func (CreateAndPayInvoiceMessage) Validate() error { return nil }

type ResendInvoiceWebhookMessage struct {
	InvoiceID string
}

func (ResendInvoiceWebhookMessage) Type() string { return TypeResendInvoiceWebhook }

func (m ResendInvoiceWebhookMessage) Validate() error {
	if strings.TrimSpace(m.InvoiceID) == "" {
		return commandValidationError("invoiceId", "invoice id is required")
	}
	return nil
}

// RefundInvoiceMessage refunds Amount on InvoiceID. A zero Amount uses the
// processor default.
type RefundInvoiceMessage struct {
	InvoiceID string
	Amount    float64
}

func (RefundInvoiceMessage) Type() string { return TypeRefundInvoice }

func (m RefundInvoiceMessage) Validate() error {
	if strings.TrimSpace(m.InvoiceID) == "" {
		return commandValidationError("invoiceId", "invoice id is required")
	}
	if m.Amount < 0 {
		return commandValidationError("amount", "amount must not be negative")
	}
	return nil
}

type SubmitPayoutMessage struct {
	RecipientID string
}

func (SubmitPayoutMessage) Type() string { return TypeSubmitPayout }

func (m SubmitPayoutMessage) Validate() error {
	if strings.TrimSpace(m.RecipientID) == "" {
		return commandValidationError("recipientId", "recipient id is required")
	}
	return nil
}

type InviteRecipientMessage struct {
	Email string
}

func (InviteRecipientMessage) Type() string { return TypeInviteRecipient }

func (m InviteRecipientMessage) Validate() error {
	email := strings.TrimSpace(m.Email)
	if email == "" {
		return commandValidationError("email", "email is required")
	}
	if !strings.Contains(email, "@") {
		return commandValidationError("email", "email is invalid")
	}
	return nil
}

// ValidateWebhookMessage carries an inbound notification exactly as received.
// Signature and body presence are enforced by the webhook service so that its
// rejection codes and ordering are preserved.
type ValidateWebhookMessage struct {
	Body      []byte
	Signature string
}

func (ValidateWebhookMessage) Type() string { return TypeValidateWebhook }

func (ValidateWebhookMessage) Validate() error { return nil }
