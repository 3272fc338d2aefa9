package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-payhooks/command"
	"github.com/goliatone/go-payhooks/processor"
	"github.com/goliatone/go-payhooks/query"
	"github.com/goliatone/go-payhooks/webhooks"
)

// execute runs cmd and returns the value it stored in the result collector.
func execute[M any, T any](ctx context.Context, cmd Executor[M], msg M) (T, error) {
	collector := gocmd.NewResult[T]()
	ctx = gocmd.ContextWithResult(ctx, collector)
	if err := cmd.Execute(ctx, msg); err != nil {
		var zero T
		return zero, err
	}
	value, _ := collector.Load()
	return value, nil
}

func (s *Server) handleValidateWebhook(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			renderStatus(c, http.StatusRequestEntityTooLarge, "Request body too large.")
			return
		}
		renderStatus(c, http.StatusBadRequest, "Could not read request body.")
		return
	}
	outcome, err := execute[command.ValidateWebhookMessage, webhooks.Outcome](
		c.Request.Context(),
		s.handlers.ValidateWebhook,
		command.ValidateWebhookMessage{Body: body, Signature: c.GetHeader(HeaderSignature)},
	)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

func (s *Server) handleHealth(c *gin.Context) {
	health, err := s.handlers.Health.Query(c.Request.Context(), query.HealthMessage{})
	if err != nil {
		s.renderError(c, err)
		return
	}
	status := http.StatusOK
	if !health.Healthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, health)
}

func (s *Server) handleListWebhookAudit(c *gin.Context) {
	msg := query.ListWebhookAuditMessage{Event: strings.TrimSpace(c.Query("event"))}
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			renderStatus(c, http.StatusBadRequest, "Parameter limit must be an integer.")
			return
		}
		msg.Limit = limit
	}
	if raw := strings.TrimSpace(c.Query("since")); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			renderStatus(c, http.StatusBadRequest, "Parameter since must be an RFC3339 timestamp.")
			return
		}
		msg.Since = since
	}
	records, err := s.handlers.WebhookAudit.Query(c.Request.Context(), msg)
	if err != nil {
		s.renderError(c, err)
		return
	}
	if records == nil {
		records = []webhooks.AuditRecord{}
	}
	c.JSON(http.StatusOK, records)
}

func (s *Server) handleCreateInvoice(c *gin.Context) {
	invoice, err := execute[command.CreateInvoiceMessage, processor.Invoice](
		c.Request.Context(), s.handlers.CreateInvoice, command.CreateInvoiceMessage{},
	)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func (s *Server) handleCreateAndPayInvoice(c *gin.Context) {
	invoice, err := execute[command.CreateAndPayInvoiceMessage, processor.Invoice](
		c.Request.Context(), s.handlers.CreateAndPayInvoice, command.CreateAndPayInvoiceMessage{},
	)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func (s *Server) handleResendInvoiceWebhook(c *gin.Context) {
	ok, err := execute[command.ResendInvoiceWebhookMessage, bool](
		c.Request.Context(),
		s.handlers.ResendInvoiceWebhook,
		command.ResendInvoiceWebhookMessage{InvoiceID: c.Param("invoiceId")},
	)
	if err != nil {
		s.renderError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type refundRequest struct {
	Amount float64 `json:"amount"`
}

func (s *Server) handleRefundInvoice(c *gin.Context) {
	var req refundRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			renderStatus(c, http.StatusBadRequest, "Request body must be JSON.")
			return
		}
	}
	refund, err := execute[command.RefundInvoiceMessage, processor.Refund](
		c.Request.Context(),
		s.handlers.RefundInvoice,
		command.RefundInvoiceMessage{InvoiceID: c.Param("invoiceId"), Amount: req.Amount},
	)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, refund)
}

type inviteRecipientRequest struct {
	Email string `json:"email"`
}

func (s *Server) handleInviteRecipient(c *gin.Context) {
	var req inviteRecipientRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		renderStatus(c, http.StatusBadRequest, "Parameter email is required.")
		return
	}
	recipients, err := execute[command.InviteRecipientMessage, []processor.PayoutRecipient](
		c.Request.Context(), s.handlers.InviteRecipient, command.InviteRecipientMessage{Email: req.Email},
	)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipients)
}

type createPayoutRequest struct {
	RecipientID string `json:"recipientId"`
}

func (s *Server) handleCreatePayout(c *gin.Context) {
	var req createPayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.RecipientID) == "" {
		renderStatus(c, http.StatusBadRequest, "Parameter recipientId is required.")
		return
	}
	payout, err := execute[command.SubmitPayoutMessage, processor.Payout](
		c.Request.Context(), s.handlers.SubmitPayout, command.SubmitPayoutMessage{RecipientID: req.RecipientID},
	)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, payout)
}
