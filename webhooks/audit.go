package webhooks

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// AuditRecord describes one completed verification. It never carries the
// credential or the signature.
type AuditRecord struct {
	ID         string    `json:"id"`
	RequestID  string    `json:"request_id,omitempty"`
	Event      string    `json:"event"`
	Scope      string    `json:"scope"`
	Validated  bool      `json:"validated"`
	BodySHA256 string    `json:"body_sha256"`
	BodySize   int       `json:"body_size"`
	ReceivedAt time.Time `json:"received_at"`
}

// AuditFilter narrows an audit listing. Zero values match everything.
type AuditFilter struct {
	Event string
	Since time.Time
	Limit int
}

// AuditSink persists audit records. Failures are logged and never fail the
// validation.
type AuditSink interface {
	Record(ctx context.Context, record AuditRecord) error
}

type AuditSinkFunc func(ctx context.Context, record AuditRecord) error

func (fn AuditSinkFunc) Record(ctx context.Context, record AuditRecord) error {
	return fn(ctx, record)
}

func bodyDigest(rawBody []byte) string {
	sum := sha256.Sum256(rawBody)
	return hex.EncodeToString(sum[:])
}
