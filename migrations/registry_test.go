package migrations

import (
	"context"
	"database/sql"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func TestFilesystems_ReturnsPostgresAndSQLite(t *testing.T) {
	filesystems, err := Filesystems()
	if err != nil {
		t.Fatalf("filesystems: %v", err)
	}
	if len(filesystems) != 2 {
		t.Fatalf("expected 2 filesystems, got %d", len(filesystems))
	}
	found := map[string]bool{}
	for _, entry := range filesystems {
		matches, globErr := fs.Glob(entry.FS, "*.up.sql")
		if globErr != nil {
			t.Fatalf("glob %s: %v", entry.Dialect, globErr)
		}
		if len(matches) == 0 {
			t.Fatalf("expected %s migration files, got none", entry.Dialect)
		}
		found[entry.Dialect] = true
	}
	if !found[DialectPostgres] || !found[DialectSQLite] {
		t.Fatalf("expected both dialects, got %v", found)
	}
}

func TestRegister_UsesSelectedDialects(t *testing.T) {
	var calls []string
	reg, err := Register(context.Background(), func(_ context.Context, dialect string, label string, _ fs.FS) error {
		calls = append(calls, dialect+":"+label)
		return nil
	}, WithDialects("sqlite3"), WithSourceLabel("audit"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if len(calls) != 1 || calls[0] != "sqlite:audit" {
		t.Fatalf("unexpected registration calls %v", calls)
	}
	if reg.SourceLabel != "audit" {
		t.Fatalf("unexpected source label %q", reg.SourceLabel)
	}
}

func TestRegister_RequiresFunction(t *testing.T) {
	if _, err := Register(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil register function")
	}
}

func TestNormalizeDialect(t *testing.T) {
	cases := map[string]string{
		"postgres":   DialectPostgres,
		"PostgreSQL": DialectPostgres,
		"sqlite3":    DialectSQLite,
		"sqlite":     DialectSQLite,
		"mysql":      "",
	}
	for input, want := range cases {
		if got := NormalizeDialect(input); got != want {
			t.Fatalf("NormalizeDialect(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestWebhookAuditMigrationPair_ExistsForBothDialects(t *testing.T) {
	paths := []string{
		"data/sql/migrations/00001_payhooks_webhook_audit.up.sql",
		"data/sql/migrations/00001_payhooks_webhook_audit.down.sql",
		"data/sql/migrations/sqlite/00001_payhooks_webhook_audit.up.sql",
		"data/sql/migrations/sqlite/00001_payhooks_webhook_audit.down.sql",
	}
	for _, migrationPath := range paths {
		content, err := fs.ReadFile(FS(), migrationPath)
		if err != nil {
			t.Fatalf("read migration %s: %v", migrationPath, err)
		}
		if strings.TrimSpace(string(content)) == "" {
			t.Fatalf("expected migration %s to have SQL content", migrationPath)
		}
	}
}

func TestSQLiteWebhookAuditMigration_ApplyAndRollback(t *testing.T) {
	db, err := sql.Open("sqlite3", "file:migrations-webhook-audit?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open sqlite db: %v", err)
	}
	defer func() { _ = db.Close() }()
	db.SetMaxOpenConns(1)

	sqliteMigrations, err := fs.Sub(FS(), "data/sql/migrations/sqlite")
	if err != nil {
		t.Fatalf("resolve sqlite migrations: %v", err)
	}
	ctx := context.Background()
	if err := execSQLMigration(ctx, db, sqliteMigrations, "00001_payhooks_webhook_audit.up.sql"); err != nil {
		t.Fatalf("apply up: %v", err)
	}
	if _, err := db.ExecContext(ctx,
		`INSERT INTO payhooks_webhook_audit (id, event, scope, validated, body_sha256, body_size) VALUES (?, ?, ?, ?, ?, ?)`,
		"a1", "invoice_paidInFull", "merchant", true, "digest", 13,
	); err != nil {
		t.Fatalf("insert row: %v", err)
	}
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM payhooks_webhook_audit`).Scan(&count); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 row, got %d", count)
	}

	if err := execSQLMigration(ctx, db, sqliteMigrations, "00001_payhooks_webhook_audit.down.sql"); err != nil {
		t.Fatalf("apply down: %v", err)
	}
	var name string
	err = db.QueryRowContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'payhooks_webhook_audit'`,
	).Scan(&name)
	if err != sql.ErrNoRows {
		t.Fatalf("expected table to be dropped, got name=%q err=%v", name, err)
	}
}

func execSQLMigration(ctx context.Context, db *sql.DB, fsys fs.FS, filename string) error {
	content, err := fs.ReadFile(fsys, filepath.Clean(filename))
	if err != nil {
		return err
	}
	for _, statement := range strings.Split(string(content), "--bun:split") {
		if strings.TrimSpace(statement) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, statement); err != nil {
			return err
		}
	}
	return nil
}
