package sqlstore

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-payhooks/webhooks"
	repositorycache "github.com/goliatone/go-repository-cache/cache"
)

const webhookAuditCacheKeyPrefix = "go-payhooks::webhook_audit::v1"

// AuditStore is the persistence contract served by WebhookAuditStore.
type AuditStore interface {
	Record(ctx context.Context, record webhooks.AuditRecord) error
	Get(ctx context.Context, id string) (webhooks.AuditRecord, error)
	List(ctx context.Context, filter webhooks.AuditFilter) ([]webhooks.AuditRecord, error)
	Ping(ctx context.Context) error
}

// CachedWebhookAuditStore caches single-record reads. Audit rows are never
// updated, so a cached entry stays valid until it expires.
type CachedWebhookAuditStore struct {
	base  AuditStore
	cache repositorycache.CacheService
}

func NewCachedWebhookAuditStore(base AuditStore, cacheService repositorycache.CacheService) (*CachedWebhookAuditStore, error) {
	if base == nil {
		return nil, fmt.Errorf("sqlstore: base webhook audit store is required")
	}
	if cacheService == nil {
		return nil, fmt.Errorf("sqlstore: webhook audit cache service is required")
	}
	return &CachedWebhookAuditStore{base: base, cache: cacheService}, nil
}

// NewDefaultAuditCache builds an in-memory cache service with the library
// defaults.
func NewDefaultAuditCache() (repositorycache.CacheService, error) {
	return repositorycache.NewCacheService(repositorycache.DefaultConfig())
}

// WebhookAuditCacheKey returns go-payhooks::webhook_audit::v1::<id> with the
// id URL-path escaped.
func WebhookAuditCacheKey(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("sqlstore: audit id is required")
	}
	return webhookAuditCacheKeyPrefix + "::" + url.PathEscape(id), nil
}

func (s *CachedWebhookAuditStore) Record(ctx context.Context, record webhooks.AuditRecord) error {
	if s == nil || s.base == nil {
		return fmt.Errorf("sqlstore: cached webhook audit store is not configured")
	}
	return s.base.Record(ctx, record)
}

func (s *CachedWebhookAuditStore) Get(ctx context.Context, id string) (webhooks.AuditRecord, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return webhooks.AuditRecord{}, fmt.Errorf("sqlstore: cached webhook audit store is not configured")
	}
	key, err := WebhookAuditCacheKey(id)
	if err != nil {
		return webhooks.AuditRecord{}, err
	}
	return repositorycache.GetOrFetch(ctx, s.cache, key, func(ctx context.Context) (webhooks.AuditRecord, error) {
		return s.base.Get(ctx, strings.TrimSpace(id))
	})
}

func (s *CachedWebhookAuditStore) List(ctx context.Context, filter webhooks.AuditFilter) ([]webhooks.AuditRecord, error) {
	if s == nil || s.base == nil {
		return nil, fmt.Errorf("sqlstore: cached webhook audit store is not configured")
	}
	return s.base.List(ctx, filter)
}

func (s *CachedWebhookAuditStore) Ping(ctx context.Context) error {
	if s == nil || s.base == nil {
		return fmt.Errorf("sqlstore: cached webhook audit store is not configured")
	}
	return s.base.Ping(ctx)
}
