package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-payhooks/webhooks"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const defaultAuditListLimit = 50

// WebhookAuditStore persists one row per completed webhook verification.
type WebhookAuditStore struct {
	db   *bun.DB
	repo repository.Repository[*webhookAuditRecord]
}

func NewWebhookAuditStore(db *bun.DB) (*WebhookAuditStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*webhookAuditRecord](db, webhookAuditHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid webhook audit repository wiring: %w", err)
		}
	}
	return &WebhookAuditStore{db: db, repo: repo}, nil
}

func (s *WebhookAuditStore) Record(ctx context.Context, record webhooks.AuditRecord) error {
	if s == nil || s.repo == nil {
		return fmt.Errorf("sqlstore: webhook audit store is not configured")
	}
	if strings.TrimSpace(record.Event) == "" {
		return fmt.Errorf("sqlstore: audit event is required")
	}
	if strings.TrimSpace(record.ID) == "" {
		record.ID = uuid.NewString()
	}
	if record.ReceivedAt.IsZero() {
		record.ReceivedAt = time.Now().UTC()
	}
	_, err := s.repo.Create(ctx, webhookAuditFromDomain(record))
	return err
}

func (s *WebhookAuditStore) Get(ctx context.Context, id string) (webhooks.AuditRecord, error) {
	if s == nil || s.repo == nil {
		return webhooks.AuditRecord{}, fmt.Errorf("sqlstore: webhook audit store is not configured")
	}
	record, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return webhooks.AuditRecord{}, err
	}
	return record.toDomain(), nil
}

// List returns matching records, newest first.
func (s *WebhookAuditStore) List(ctx context.Context, filter webhooks.AuditFilter) ([]webhooks.AuditRecord, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("sqlstore: webhook audit store is not configured")
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultAuditListLimit
	}
	selectors := []repository.SelectCriteria{
		repository.OrderBy("received_at DESC"),
		repository.SelectPaginate(limit, 0),
	}
	if event := strings.TrimSpace(filter.Event); event != "" {
		selectors = append(selectors, repository.SelectBy("event", "=", event))
	}
	if !filter.Since.IsZero() {
		since := filter.Since.UTC()
		selectors = append(selectors, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.received_at >= ?", since)
		}))
	}
	records, _, err := s.repo.List(ctx, selectors...)
	if err != nil {
		return nil, err
	}
	out := make([]webhooks.AuditRecord, 0, len(records))
	for _, record := range records {
		out = append(out, record.toDomain())
	}
	return out, nil
}

func (s *WebhookAuditStore) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: webhook audit store is not configured")
	}
	return s.db.PingContext(ctx)
}
