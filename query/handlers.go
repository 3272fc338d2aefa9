package query

import (
	"context"
	"runtime"
	"time"

	"github.com/goliatone/go-payhooks/core"
	"github.com/goliatone/go-payhooks/webhooks"
)

// Memory mirrors the heap figures reported by the health endpoint, in bytes.
type Memory struct {
	HeapTotal uint64 `json:"heapTotal"`
	HeapUsed  uint64 `json:"heapUsed"`
	RSS       uint64 `json:"rss"`
}

type Health struct {
	Healthy bool              `json:"healthy"`
	Mem     Memory            `json:"mem"`
	Checks  map[string]string `json:"checks,omitempty"`
}

type HealthQuery struct {
	checks  map[string]core.Pinger
	timeout time.Duration
	memory  func() Memory
}

// NewHealthQuery reports process memory and the result of each named check.
// Any failing check marks the service unhealthy.
func NewHealthQuery(checks map[string]core.Pinger) *HealthQuery {
	copied := make(map[string]core.Pinger, len(checks))
	for name, check := range checks {
		if check != nil {
			copied[name] = check
		}
	}
	return &HealthQuery{checks: copied, timeout: 2 * time.Second, memory: readMemory}
}

func (q *HealthQuery) Query(ctx context.Context, _ HealthMessage) (Health, error) {
	if q == nil {
		return Health{}, queryDependencyError("query: health query is required")
	}
	memory := q.memory
	if memory == nil {
		memory = readMemory
	}
	health := Health{Healthy: true, Mem: memory()}
	if len(q.checks) == 0 {
		return health, nil
	}

	health.Checks = make(map[string]string, len(q.checks))
	for name, check := range q.checks {
		checkCtx, cancel := context.WithTimeout(ctx, q.timeout)
		err := check.Ping(checkCtx)
		cancel()
		if err != nil {
			health.Healthy = false
			health.Checks[name] = "error"
			continue
		}
		health.Checks[name] = "ok"
	}
	return health, nil
}

func readMemory() Memory {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	return Memory{
		HeapTotal: stats.HeapSys,
		HeapUsed:  stats.HeapAlloc,
		RSS:       stats.Sys,
	}
}

type AuditReader interface {
	List(ctx context.Context, filter webhooks.AuditFilter) ([]webhooks.AuditRecord, error)
}

type ListWebhookAuditQuery struct {
	reader AuditReader
}

func NewListWebhookAuditQuery(reader AuditReader) *ListWebhookAuditQuery {
	return &ListWebhookAuditQuery{reader: reader}
}

func (q *ListWebhookAuditQuery) Query(ctx context.Context, msg ListWebhookAuditMessage) ([]webhooks.AuditRecord, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: webhook audit reader is required")
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	limit := msg.Limit
	if limit == 0 {
		limit = 50
	}
	return q.reader.List(ctx, webhooks.AuditFilter{Event: msg.Event, Since: msg.Since, Limit: limit})
}
