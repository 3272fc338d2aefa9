package processor

import (
	"context"
	"strings"

	"github.com/goliatone/go-payhooks/core"
)

const (
	LogCodeInvoiceCreateFail         = "INVOICE_CREATE_FAIL"
	LogCodeInvoicePayFail            = "INVOICE_PAY_FAIL"
	LogCodeInvoiceRequestWebhookFail = "INVOICE_REQUEST_WEBHOOK_FAIL"
	LogCodeRefundCreateFail          = "REFUND_CREATE_FAIL"
	LogCodePayoutCreateFail          = "PAYOUT_CREATE_FAIL"
	LogCodeRecipientInviteFail       = "RECIPIENT_INVITE_FAIL"
)

const (
	DefaultInvoicePrice = 100.0
	DefaultRefundAmount = 100.0
	DefaultPayoutAmount = 10.0
	DefaultCurrency     = "USD"
)

// API is the subset of *Client used by PaymentService.
type API interface {
	Environment() string
	CreateInvoice(ctx context.Context, invoice Invoice) (Invoice, error)
	PayInvoice(ctx context.Context, invoiceID string, status string) (Invoice, error)
	RequestInvoiceWebhookResend(ctx context.Context, invoiceID string) (bool, error)
	CreateRefund(ctx context.Context, refund Refund) (Refund, error)
	SubmitPayout(ctx context.Context, payout Payout) (Payout, error)
	SubmitPayoutRecipients(ctx context.Context, recipients PayoutRecipients) ([]PayoutRecipient, error)
}

// PaymentService runs the demo payment flows against the processor. Every
// resource it creates points its notifications back at NotificationURL.
type PaymentService struct {
	api               API
	notificationURL   string
	notificationEmail string
	buyer             Buyer
	observer          *core.Observer
}

type PaymentOption func(*PaymentService)

func WithNotificationEmail(email string) PaymentOption {
	return func(s *PaymentService) {
		s.notificationEmail = strings.TrimSpace(email)
	}
}

func WithBuyer(buyer Buyer) PaymentOption {
	return func(s *PaymentService) {
		s.buyer = buyer
	}
}

func WithPaymentObserver(observer *core.Observer) PaymentOption {
	return func(s *PaymentService) {
		if observer != nil {
			s.observer = observer
		}
	}
}

func NewPaymentService(api API, notificationURL string, opts ...PaymentOption) *PaymentService {
	service := &PaymentService{
		api:               api,
		notificationURL:   strings.TrimSpace(notificationURL),
		notificationEmail: "merchant@example.com",
		buyer:             DefaultBuyer(),
		observer:          core.NewObserver(nil, nil),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(service)
	}
	return service
}

// DefaultBuyer is the fixture buyer attached to generated invoices.
func DefaultBuyer() Buyer {
	return Buyer{
		Name:       "Test Buyer",
		Email:      "buyer@example.com",
		Address1:   "123 Main St",
		Locality:   "Springfield",
		Region:     "IL",
		PostalCode: "62701",
		Country:    "US",
		Phone:      "555-0100",
		Notify:     true,
	}
}

func (s *PaymentService) NotificationURL() string {
	return s.notificationURL
}

func (s *PaymentService) CreateInvoice(ctx context.Context) (Invoice, error) {
	buyer := s.buyer
	invoice, err := s.api.CreateInvoice(ctx, Invoice{
		Price:             DefaultInvoicePrice,
		Currency:          DefaultCurrency,
		NotificationEmail: s.notificationEmail,
		NotificationURL:   s.notificationURL,
		Buyer:             &buyer,
	})
	if err != nil {
		s.fail(ctx, LogCodeInvoiceCreateFail, "Invoice creation failed.", err, nil)
		return Invoice{}, err
	}
	return invoice, nil
}

// CreateAndPayInvoice creates an invoice and immediately marks it complete.
// Paying is only possible in the test environment; a pay failure is logged
// and the created invoice is still returned.
func (s *PaymentService) CreateAndPayInvoice(ctx context.Context) (Invoice, error) {
	invoice, err := s.CreateInvoice(ctx)
	if err != nil {
		return Invoice{}, err
	}
	if _, err := s.api.PayInvoice(ctx, invoice.ID, "complete"); err != nil {
		s.fail(ctx, LogCodeInvoicePayFail, "Invoice payment failed.", err, map[string]any{"invoice_id": invoice.ID})
	}
	return invoice, nil
}

func (s *PaymentService) ResendInvoiceWebhook(ctx context.Context, invoiceID string) (bool, error) {
	ok, err := s.api.RequestInvoiceWebhookResend(ctx, invoiceID)
	if err != nil {
		s.fail(ctx, LogCodeInvoiceRequestWebhookFail, "Invoice webhook resend failed.", err,
			map[string]any{"invoice_id": invoiceID})
		return false, err
	}
	return ok, nil
}

// RefundInvoice refunds amount on invoiceID. A non-positive amount refunds
// DefaultRefundAmount.
func (s *PaymentService) RefundInvoice(ctx context.Context, invoiceID string, amount float64) (Refund, error) {
	if amount <= 0 {
		amount = DefaultRefundAmount
	}
	refund, err := s.api.CreateRefund(ctx, Refund{
		InvoiceID:       strings.TrimSpace(invoiceID),
		Amount:          amount,
		NotificationURL: s.notificationURL,
	})
	if err != nil {
		s.fail(ctx, LogCodeRefundCreateFail, "Refund creation failed.", err, map[string]any{"invoice_id": invoiceID})
		return Refund{}, err
	}
	return refund, nil
}

func (s *PaymentService) SubmitPayout(ctx context.Context, recipientID string) (Payout, error) {
	payout, err := s.api.SubmitPayout(ctx, Payout{
		Amount:          DefaultPayoutAmount,
		Currency:        DefaultCurrency,
		LedgerCurrency:  DefaultCurrency,
		RecipientID:     strings.TrimSpace(recipientID),
		NotificationURL: s.notificationURL,
	})
	if err != nil {
		s.fail(ctx, LogCodePayoutCreateFail, "Payout creation failed.", err, map[string]any{"recipient_id": recipientID})
		return Payout{}, err
	}
	return payout, nil
}

func (s *PaymentService) InviteRecipient(ctx context.Context, email string) ([]PayoutRecipient, error) {
	recipients, err := s.api.SubmitPayoutRecipients(ctx, PayoutRecipients{
		Recipients: []PayoutRecipient{{
			Email:           strings.TrimSpace(email),
			NotificationURL: s.notificationURL,
		}},
	})
	if err != nil {
		s.fail(ctx, LogCodeRecipientInviteFail, "Recipient invite failed.", err, nil)
		return nil, err
	}
	return recipients, nil
}

func (s *PaymentService) fail(ctx context.Context, code string, message string, err error, fields map[string]any) {
	entry := map[string]any{"code": code, "error": err.Error()}
	for key, value := range fields {
		entry[key] = value
	}
	s.observer.Error(ctx, message, entry)
}
