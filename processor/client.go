package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-payhooks/core"
	"github.com/goliatone/go-payhooks/credentials"
	"github.com/goliatone/go-payhooks/transport"
	"github.com/google/uuid"
)

const (
	TestBaseURL = "https://test.bitpay.com"
	ProdBaseURL = "https://bitpay.com"

	apiVersion = "2.0.0"
)

// TokenProvider is satisfied by *credentials.Store.
type TokenProvider interface {
	Token(ctx context.Context, scope credentials.Scope) (string, error)
}

// Client covers the processor operations payhooks uses. Each call resolves
// the facade token it needs from TokenProvider.
type Client struct {
	adapter     *transport.RESTAdapter
	baseURL     string
	environment string
	tokens      TokenProvider
	timeout     time.Duration
	observer    *core.Observer
}

type ClientOption func(*Client)

func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/"); trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

func WithHTTPDoer(doer transport.HTTPDoer) ClientOption {
	return func(c *Client) {
		if doer != nil {
			c.adapter.Client = doer
		}
	}
}

func WithSigner(signer transport.RequestSigner) ClientOption {
	return func(c *Client) {
		c.adapter.Signer = signer
	}
}

func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

func WithObserver(observer *core.Observer) ClientOption {
	return func(c *Client) {
		if observer != nil {
			c.observer = observer
		}
	}
}

// NewClient builds a client for environment ("test" or "prod").
func NewClient(environment string, tokens TokenProvider, opts ...ClientOption) *Client {
	environment = strings.ToLower(strings.TrimSpace(environment))
	if environment == "" {
		environment = core.ProcessorEnvironmentTest
	}
	adapter := transport.NewRESTAdapter(nil)
	adapter.DefaultHeaders["X-Accept-Version"] = apiVersion
	adapter.DefaultHeaders["Content-Type"] = "application/json"

	client := &Client{
		adapter:     adapter,
		baseURL:     BaseURLFor(environment),
		environment: environment,
		tokens:      tokens,
		timeout:     30 * time.Second,
		observer:    core.NewObserver(nil, nil),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(client)
	}
	return client
}

func BaseURLFor(environment string) string {
	if strings.EqualFold(strings.TrimSpace(environment), core.ProcessorEnvironmentProd) {
		return ProdBaseURL
	}
	return TestBaseURL
}

func (c *Client) Environment() string {
	return c.environment
}

// Token returns the facade token for scope.
func (c *Client) Token(ctx context.Context, scope credentials.Scope) (string, error) {
	if c == nil || c.tokens == nil {
		return "", tokenError(nil, scope.String())
	}
	token, err := c.tokens.Token(ctx, scope)
	if err != nil {
		return "", tokenError(err, scope.String())
	}
	if strings.TrimSpace(token) == "" {
		return "", tokenError(nil, scope.String())
	}
	return token, nil
}

func (c *Client) CreateInvoice(ctx context.Context, invoice Invoice) (Invoice, error) {
	if invoice.Price <= 0 {
		return Invoice{}, badInputError("processor: invoice price must be positive", "price")
	}
	if strings.TrimSpace(invoice.Currency) == "" {
		return Invoice{}, badInputError("processor: invoice currency is required", "currency")
	}
	token, err := c.Token(ctx, credentials.ScopeMerchant)
	if err != nil {
		return Invoice{}, err
	}
	invoice.Token = token
	var created Invoice
	if err := c.call(ctx, "create_invoice", http.MethodPost, "/invoices", nil, invoice, &created); err != nil {
		return Invoice{}, err
	}
	return created, nil
}

// PayInvoice marks a test invoice with status. Only available against the
// test environment.
func (c *Client) PayInvoice(ctx context.Context, invoiceID string, status string) (Invoice, error) {
	if c.environment != core.ProcessorEnvironmentTest {
		return Invoice{}, unsupportedError("processor: invoice payment is only available in the test environment",
			map[string]any{"environment": c.environment})
	}
	invoiceID = strings.TrimSpace(invoiceID)
	if invoiceID == "" {
		return Invoice{}, badInputError("processor: invoice id is required", "invoiceId")
	}
	if strings.TrimSpace(status) == "" {
		status = "complete"
	}
	token, err := c.Token(ctx, credentials.ScopeMerchant)
	if err != nil {
		return Invoice{}, err
	}
	var paid Invoice
	body := map[string]string{"status": status, "token": token}
	if err := c.call(ctx, "pay_invoice", http.MethodPut, "/invoices/pay/"+url.PathEscape(invoiceID), nil, body, &paid); err != nil {
		return Invoice{}, err
	}
	return paid, nil
}

// GetInvoice fetches an invoice with the merchant token.
func (c *Client) GetInvoice(ctx context.Context, invoiceID string) (Invoice, error) {
	invoiceID = strings.TrimSpace(invoiceID)
	if invoiceID == "" {
		return Invoice{}, badInputError("processor: invoice id is required", "invoiceId")
	}
	token, err := c.Token(ctx, credentials.ScopeMerchant)
	if err != nil {
		return Invoice{}, err
	}
	var invoice Invoice
	query := map[string]string{"token": token}
	if err := c.call(ctx, "get_invoice", http.MethodGet, "/invoices/"+url.PathEscape(invoiceID), query, nil, &invoice); err != nil {
		return Invoice{}, err
	}
	return invoice, nil
}

// RequestInvoiceWebhookResend asks the processor to resend the latest
// notification for an invoice. The request is authorized with the invoice's
// own token.
func (c *Client) RequestInvoiceWebhookResend(ctx context.Context, invoiceID string) (bool, error) {
	invoice, err := c.GetInvoice(ctx, invoiceID)
	if err != nil {
		return false, err
	}
	var result string
	body := map[string]string{"token": invoice.Token}
	path := "/invoices/" + url.PathEscape(strings.TrimSpace(invoiceID)) + "/notifications"
	if err := c.call(ctx, "resend_invoice_webhook", http.MethodPost, path, nil, body, &result); err != nil {
		return false, err
	}
	return strings.EqualFold(result, "success"), nil
}

func (c *Client) CreateRefund(ctx context.Context, refund Refund) (Refund, error) {
	if strings.TrimSpace(refund.InvoiceID) == "" {
		return Refund{}, badInputError("processor: invoice id is required", "invoiceId")
	}
	if refund.Amount <= 0 {
		return Refund{}, badInputError("processor: refund amount must be positive", "amount")
	}
	token, err := c.Token(ctx, credentials.ScopeMerchant)
	if err != nil {
		return Refund{}, err
	}
	refund.Token = token
	if refund.GUID == "" {
		refund.GUID = uuid.NewString()
	}
	var created Refund
	if err := c.call(ctx, "create_refund", http.MethodPost, "/refunds", nil, refund, &created); err != nil {
		return Refund{}, err
	}
	return created, nil
}

func (c *Client) SubmitPayout(ctx context.Context, payout Payout) (Payout, error) {
	if payout.Amount <= 0 {
		return Payout{}, badInputError("processor: payout amount must be positive", "amount")
	}
	if strings.TrimSpace(payout.RecipientID) == "" {
		return Payout{}, badInputError("processor: recipient id is required", "recipientId")
	}
	token, err := c.Token(ctx, credentials.ScopePayout)
	if err != nil {
		return Payout{}, err
	}
	payout.Token = token
	var created Payout
	if err := c.call(ctx, "submit_payout", http.MethodPost, "/payouts", nil, payout, &created); err != nil {
		return Payout{}, err
	}
	return created, nil
}

func (c *Client) SubmitPayoutRecipients(ctx context.Context, recipients PayoutRecipients) ([]PayoutRecipient, error) {
	if len(recipients.Recipients) == 0 {
		return nil, badInputError("processor: at least one recipient is required", "recipients")
	}
	for _, recipient := range recipients.Recipients {
		if strings.TrimSpace(recipient.Email) == "" {
			return nil, badInputError("processor: recipient email is required", "email")
		}
	}
	token, err := c.Token(ctx, credentials.ScopePayout)
	if err != nil {
		return nil, err
	}
	recipients.Token = token
	var created []PayoutRecipient
	if err := c.call(ctx, "submit_payout_recipients", http.MethodPost, "/recipients", nil, recipients, &created); err != nil {
		return nil, err
	}
	return created, nil
}

type envelope struct {
	Status  string          `json:"status"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) call(
	ctx context.Context,
	operation string,
	method string,
	path string,
	query map[string]string,
	body any,
	out any,
) (err error) {
	startedAt := time.Now()
	defer func() {
		c.observer.ObserveOperation(ctx, startedAt, "processor", operation, err,
			map[string]any{"method": method, "path": path, "environment": c.environment},
			"environment",
		)
	}()

	var payload []byte
	if body != nil {
		payload, err = json.Marshal(body)
		if err != nil {
			return encodeError(err, path)
		}
	}

	res, err := c.adapter.Do(ctx, transport.Request{
		Method:  method,
		URL:     c.baseURL + path,
		Query:   query,
		Body:    payload,
		Timeout: c.timeout,
	})
	if err != nil {
		return err
	}

	var env envelope
	if len(bytes.TrimSpace(res.Body)) > 0 {
		if decodeErr := json.Unmarshal(res.Body, &env); decodeErr != nil {
			if res.StatusCode >= http.StatusBadRequest {
				return apiError(fmt.Sprintf("processor: request failed with status %d", res.StatusCode), res.StatusCode, path)
			}
			return decodeError(decodeErr, path)
		}
	}
	if message := env.failure(); message != "" {
		return apiError(message, res.StatusCode, path)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return apiError(fmt.Sprintf("processor: request failed with status %d", res.StatusCode), res.StatusCode, path)
	}
	if out == nil {
		return nil
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return decodeError(fmt.Errorf("response has no data"), path)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return decodeError(err, path)
	}
	return nil
}

func (e envelope) failure() string {
	if strings.TrimSpace(e.Error) != "" {
		return strings.TrimSpace(e.Error)
	}
	if strings.EqualFold(e.Status, "error") {
		if message := strings.TrimSpace(e.Message); message != "" {
			return message
		}
		return "processor: request failed"
	}
	return ""
}
