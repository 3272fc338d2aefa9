package command

import (
	"context"
	"errors"
	"testing"

	gocmd "github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-payhooks/core"
	"github.com/goliatone/go-payhooks/processor"
	"github.com/goliatone/go-payhooks/webhooks"
)

type stubPaymentService struct {
	createInvoiceFn       func(context.Context) (processor.Invoice, error)
	createAndPayInvoiceFn func(context.Context) (processor.Invoice, error)
	resendFn              func(context.Context, string) (bool, error)
	refundFn              func(context.Context, string, float64) (processor.Refund, error)
	payoutFn              func(context.Context, string) (processor.Payout, error)
	inviteFn              func(context.Context, string) ([]processor.PayoutRecipient, error)
}

func (s stubPaymentService) CreateInvoice(ctx context.Context) (processor.Invoice, error) {
	return s.createInvoiceFn(ctx)
}

func (s stubPaymentService) CreateAndPayInvoice(ctx context.Context) (processor.Invoice, error) {
	return s.createAndPayInvoiceFn(ctx)
}

func (s stubPaymentService) ResendInvoiceWebhook(ctx context.Context, invoiceID string) (bool, error) {
	return s.resendFn(ctx, invoiceID)
}

func (s stubPaymentService) RefundInvoice(ctx context.Context, invoiceID string, amount float64) (processor.Refund, error) {
	return s.refundFn(ctx, invoiceID, amount)
}

func (s stubPaymentService) SubmitPayout(ctx context.Context, recipientID string) (processor.Payout, error) {
	return s.payoutFn(ctx, recipientID)
}

func (s stubPaymentService) InviteRecipient(ctx context.Context, email string) ([]processor.PayoutRecipient, error) {
	return s.inviteFn(ctx, email)
}

type stubValidator struct {
	fn func(context.Context, []byte, string) (webhooks.Outcome, error)
}

func (s stubValidator) ValidateRequest(ctx context.Context, body []byte, signature string) (webhooks.Outcome, error) {
	return s.fn(ctx, body, signature)
}

func TestCreateInvoiceCommand_StoresResult(t *testing.T) {
	svc := stubPaymentService{
		createInvoiceFn: func(context.Context) (processor.Invoice, error) {
			return processor.Invoice{ID: "inv_1", Price: 100, Currency: "USD"}, nil
		},
	}
	collector := gocmd.NewResult[processor.Invoice]()
	ctx := gocmd.ContextWithResult(context.Background(), collector)

	if err := NewCreateInvoiceCommand(svc).Execute(ctx, CreateInvoiceMessage{}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	result, ok := collector.Load()
	if !ok || result.ID != "inv_1" {
		t.Fatalf("expected stored invoice, got %#v ok=%v", result, ok)
	}
}

func TestCreateAndPayInvoiceCommand_PropagatesError(t *testing.T) {
	svc := stubPaymentService{
		createAndPayInvoiceFn: func(context.Context) (processor.Invoice, error) {
			return processor.Invoice{}, errors.New("upstream down")
		},
	}
	err := NewCreateAndPayInvoiceCommand(svc).Execute(context.Background(), CreateAndPayInvoiceMessage{})
	if err == nil || err.Error() != "upstream down" {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestPaymentCommands_DelegateToService(t *testing.T) {
	t.Run("resend", func(t *testing.T) {
		svc := stubPaymentService{resendFn: func(_ context.Context, id string) (bool, error) {
			if id != "inv_1" {
				t.Fatalf("unexpected invoice id %q", id)
			}
			return true, nil
		}}
		collector := gocmd.NewResult[bool]()
		ctx := gocmd.ContextWithResult(context.Background(), collector)
		if err := NewResendInvoiceWebhookCommand(svc).Execute(ctx, ResendInvoiceWebhookMessage{InvoiceID: "inv_1"}); err != nil {
			t.Fatalf("execute: %v", err)
		}
		if ok, _ := collector.Load(); !ok {
			t.Fatalf("expected true result")
		}
	})

	t.Run("refund", func(t *testing.T) {
		svc := stubPaymentService{refundFn: func(_ context.Context, id string, amount float64) (processor.Refund, error) {
			if id != "inv_1" || amount != 0 {
				t.Fatalf("unexpected refund payload %q %v", id, amount)
			}
			return processor.Refund{ID: "ref_1", Amount: 100}, nil
		}}
		collector := gocmd.NewResult[processor.Refund]()
		ctx := gocmd.ContextWithResult(context.Background(), collector)
		if err := NewRefundInvoiceCommand(svc).Execute(ctx, RefundInvoiceMessage{InvoiceID: "inv_1"}); err != nil {
			t.Fatalf("execute: %v", err)
		}
		if refund, _ := collector.Load(); refund.ID != "ref_1" {
			t.Fatalf("unexpected refund %#v", refund)
		}
	})

	t.Run("payout", func(t *testing.T) {
		svc := stubPaymentService{payoutFn: func(_ context.Context, id string) (processor.Payout, error) {
			return processor.Payout{ID: "po_1", RecipientID: id}, nil
		}}
		collector := gocmd.NewResult[processor.Payout]()
		ctx := gocmd.ContextWithResult(context.Background(), collector)
		if err := NewSubmitPayoutCommand(svc).Execute(ctx, SubmitPayoutMessage{RecipientID: "rec_1"}); err != nil {
			t.Fatalf("execute: %v", err)
		}
		if payout, _ := collector.Load(); payout.RecipientID != "rec_1" {
			t.Fatalf("unexpected payout %#v", payout)
		}
	})

	t.Run("invite", func(t *testing.T) {
		svc := stubPaymentService{inviteFn: func(_ context.Context, email string) ([]processor.PayoutRecipient, error) {
			return []processor.PayoutRecipient{{Email: email, Status: "invited"}}, nil
		}}
		collector := gocmd.NewResult[[]processor.PayoutRecipient]()
		ctx := gocmd.ContextWithResult(context.Background(), collector)
		if err := NewInviteRecipientCommand(svc).Execute(ctx, InviteRecipientMessage{Email: "payee@example.com"}); err != nil {
			t.Fatalf("execute: %v", err)
		}
		if recipients, _ := collector.Load(); len(recipients) != 1 || recipients[0].Email != "payee@example.com" {
			t.Fatalf("unexpected recipients %#v", recipients)
		}
	})
}

func TestCommands_ValidateBeforeCallingService(t *testing.T) {
	svc := stubPaymentService{}
	tests := []struct {
		name string
		run  func() error
	}{
		{"resend", func() error {
			return NewResendInvoiceWebhookCommand(svc).Execute(context.Background(), ResendInvoiceWebhookMessage{})
		}},
		{"refund", func() error {
			return NewRefundInvoiceCommand(svc).Execute(context.Background(), RefundInvoiceMessage{InvoiceID: "inv_1", Amount: -1})
		}},
		{"payout", func() error {
			return NewSubmitPayoutCommand(svc).Execute(context.Background(), SubmitPayoutMessage{RecipientID: "  "})
		}},
		{"invite", func() error {
			return NewInviteRecipientCommand(svc).Execute(context.Background(), InviteRecipientMessage{Email: "not-an-email"})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			var rich *goerrors.Error
			if !goerrors.As(err, &rich) {
				t.Fatalf("expected go-errors envelope, got %T %v", err, err)
			}
			if rich.Category != goerrors.CategoryValidation || rich.TextCode != core.ServiceErrorBadInput {
				t.Fatalf("unexpected envelope %q %q", rich.Category, rich.TextCode)
			}
		})
	}
}

func TestValidateWebhookCommand_StoresOutcomeAndPassesRawInput(t *testing.T) {
	validator := stubValidator{fn: func(_ context.Context, body []byte, signature string) (webhooks.Outcome, error) {
		if string(body) != `{"event":{"name":"invoice_paidInFull"}}` || signature != "sig" {
			t.Fatalf("unexpected input %q %q", body, signature)
		}
		return webhooks.Outcome{Event: "invoice_paidInFull", Token: "merchant"}, nil
	}}
	collector := gocmd.NewResult[webhooks.Outcome]()
	ctx := gocmd.ContextWithResult(context.Background(), collector)

	err := NewValidateWebhookCommand(validator).Execute(ctx, ValidateWebhookMessage{
		Body:      []byte(`{"event":{"name":"invoice_paidInFull"}}`),
		Signature: "sig",
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	outcome, ok := collector.Load()
	if !ok || outcome.Token != "merchant" {
		t.Fatalf("unexpected outcome %#v", outcome)
	}
}

func TestCommands_NilDependencies(t *testing.T) {
	var create *CreateInvoiceCommand
	if err := create.Execute(context.Background(), CreateInvoiceMessage{}); err == nil {
		t.Fatalf("expected dependency error")
	}
	err := NewValidateWebhookCommand(nil).Execute(context.Background(), ValidateWebhookMessage{})
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) || rich.Category != goerrors.CategoryInternal {
		t.Fatalf("expected internal envelope, got %v", err)
	}
}
