package query

import "time"

const (
	TypeHealth           = "payhooks.query.health"
	TypeListWebhookAudit = "payhooks.query.webhook_audit.list"

	maxAuditPageSize = 500
)

type HealthMessage struct{}

func (HealthMessage) Type() string { return TypeHealth }

func (HealthMessage) Validate() error { return nil }

// ListWebhookAuditMessage pages through recorded webhook validations, newest
// first. Since filters on received time when set.
type ListWebhookAuditMessage struct {
	Event string
	Since time.Time
	Limit int
}

func (ListWebhookAuditMessage) Type() string { return TypeListWebhookAudit }

func (m ListWebhookAuditMessage) Validate() error {
	if m.Limit < 0 || m.Limit > maxAuditPageSize {
		return queryValidationError("limit", "limit must be between 0 and 500")
	}
	return nil
}
