package query

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-payhooks/webhooks"
)

var (
	_ gocmd.Querier[HealthMessage, Health]                           = (*HealthQuery)(nil)
	_ gocmd.Querier[ListWebhookAuditMessage, []webhooks.AuditRecord] = (*ListWebhookAuditQuery)(nil)
)
