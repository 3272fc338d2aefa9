package sqlstore

import (
	"time"

	"github.com/goliatone/go-payhooks/webhooks"
	"github.com/uptrace/bun"
)

type webhookAuditRecord struct {
	bun.BaseModel `bun:"table:payhooks_webhook_audit,alias:pwa"`

	ID         string    `bun:"id,pk"`
	RequestID  string    `bun:"request_id,notnull"`
	Event      string    `bun:"event,notnull"`
	Scope      string    `bun:"scope,notnull"`
	Validated  bool      `bun:"validated,notnull"`
	BodySHA256 string    `bun:"body_sha256,notnull"`
	BodySize   int       `bun:"body_size,notnull"`
	ReceivedAt time.Time `bun:"received_at,nullzero,notnull,default:current_timestamp"`
}

func webhookAuditFromDomain(record webhooks.AuditRecord) *webhookAuditRecord {
	return &webhookAuditRecord{
		ID:         record.ID,
		RequestID:  record.RequestID,
		Event:      record.Event,
		Scope:      record.Scope,
		Validated:  record.Validated,
		BodySHA256: record.BodySHA256,
		BodySize:   record.BodySize,
		ReceivedAt: record.ReceivedAt.UTC(),
	}
}

func (r *webhookAuditRecord) toDomain() webhooks.AuditRecord {
	if r == nil {
		return webhooks.AuditRecord{}
	}
	return webhooks.AuditRecord{
		ID:         r.ID,
		RequestID:  r.RequestID,
		Event:      r.Event,
		Scope:      r.Scope,
		Validated:  r.Validated,
		BodySHA256: r.BodySHA256,
		BodySize:   r.BodySize,
		ReceivedAt: r.ReceivedAt.UTC(),
	}
}
