package sqlstore

import (
	"github.com/goliatone/go-payhooks/core"
	"github.com/goliatone/go-payhooks/webhooks"
)

var (
	_ webhooks.AuditSink = (*WebhookAuditStore)(nil)
	_ webhooks.AuditSink = (*CachedWebhookAuditStore)(nil)
	_ AuditStore         = (*WebhookAuditStore)(nil)
	_ AuditStore         = (*CachedWebhookAuditStore)(nil)
	_ core.Pinger        = (*WebhookAuditStore)(nil)
)
