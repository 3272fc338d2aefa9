// Package sqlstore persists webhook audit records with bun on sqlite or
// postgres.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"strings"
	"time"

	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/goliatone/go-payhooks/migrations"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/schema"
)

const (
	driverSQLite   = "sqlite3"
	driverPostgres = "postgres"
)

type persistenceConfig struct {
	driver string
	server string
	debug  bool
}

func (c persistenceConfig) GetDebug() bool {
	return c.debug
}

func (c persistenceConfig) GetDriver() string {
	return c.driver
}

func (c persistenceConfig) GetServer() string {
	return c.server
}

func (c persistenceConfig) GetPingTimeout() time.Duration {
	return 5 * time.Second
}

func (c persistenceConfig) GetOtelIdentifier() string {
	return "go-payhooks"
}

// ParseDSN resolves the driver and driver-level DSN for sqlite://, file: and
// postgres:// style values. "sqlite://:memory:" yields a private shared-cache
// in-memory database.
func ParseDSN(dsn string) (driver string, source string, err error) {
	dsn = strings.TrimSpace(dsn)
	lower := strings.ToLower(dsn)
	switch {
	case dsn == "":
		return "", "", fmt.Errorf("sqlstore: dsn is required")
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return driverPostgres, dsn, nil
	case strings.HasPrefix(lower, "sqlite://"):
		path := dsn[len("sqlite://"):]
		if path == "" || path == ":memory:" {
			return driverSQLite, fmt.Sprintf("file:payhooks-%d?mode=memory&cache=shared", time.Now().UnixNano()), nil
		}
		return driverSQLite, "file:" + path, nil
	case strings.HasPrefix(lower, "file:"):
		return driverSQLite, dsn, nil
	default:
		return "", "", fmt.Errorf("sqlstore: unsupported dsn scheme in %q", redactDSN(dsn))
	}
}

// Open connects to dsn, applies the embedded migrations and returns the
// persistence client.
func Open(ctx context.Context, dsn string, debug bool) (*persistence.Client, error) {
	driver, source, err := ParseDSN(dsn)
	if err != nil {
		return nil, err
	}
	sqlDB, err := sql.Open(driver, source)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open %s: %w", driver, err)
	}

	var dialect schema.Dialect
	switch driver {
	case driverSQLite:
		sqlDB.SetMaxOpenConns(1)
		dialect = sqlitedialect.New()
	default:
		dialect = pgdialect.New()
	}

	client, err := persistence.New(persistenceConfig{driver: driver, server: source, debug: debug}, sqlDB, dialect)
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("sqlstore: persistence client: %w", err)
	}

	target := migrations.NormalizeDialect(driver)
	if _, err := migrations.Register(ctx, func(_ context.Context, dialect string, _ string, fsys fs.FS) error {
		if dialect != target {
			return nil
		}
		client.RegisterSQLMigrations(fsys)
		return nil
	}, migrations.WithDialects(target)); err != nil {
		_ = client.DB().Close()
		return nil, err
	}
	if err := client.Migrate(ctx); err != nil {
		_ = client.DB().Close()
		return nil, fmt.Errorf("sqlstore: migrate: %w", err)
	}
	return client, nil
}

type RepositoryFactory struct {
	db         *bun.DB
	auditStore *WebhookAuditStore
}

func NewRepositoryFactoryFromPersistence(client *persistence.Client) (*RepositoryFactory, error) {
	return newRepositoryFactory(client)
}

func NewRepositoryFactoryFromDB(db *bun.DB) (*RepositoryFactory, error) {
	return newRepositoryFactory(db)
}

func newRepositoryFactory(candidate any) (*RepositoryFactory, error) {
	db, err := resolveBunDB(candidate)
	if err != nil {
		return nil, err
	}
	auditStore, err := NewWebhookAuditStore(db)
	if err != nil {
		return nil, err
	}
	return &RepositoryFactory{db: db, auditStore: auditStore}, nil
}

func (f *RepositoryFactory) DB() *bun.DB {
	if f == nil {
		return nil
	}
	return f.db
}

func (f *RepositoryFactory) WebhookAuditStore() *WebhookAuditStore {
	if f == nil {
		return nil
	}
	return f.auditStore
}

func resolveBunDB(candidate any) (*bun.DB, error) {
	switch typed := candidate.(type) {
	case nil:
		return nil, fmt.Errorf("sqlstore: persistence client is required")
	case *bun.DB:
		if typed == nil {
			return nil, fmt.Errorf("sqlstore: bun db is required")
		}
		return typed, nil
	case interface{ DB() *bun.DB }:
		db := typed.DB()
		if db == nil {
			return nil, fmt.Errorf("sqlstore: persistence client returned nil bun db")
		}
		return db, nil
	default:
		return nil, fmt.Errorf("sqlstore: unsupported persistence client type %T", candidate)
	}
}

// redactDSN drops credentials from a URL-style dsn for error messages.
func redactDSN(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	scheme := strings.Index(dsn, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return dsn
	}
	return dsn[:scheme+3] + "***" + dsn[at:]
}
