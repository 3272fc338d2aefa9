package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-payhooks/security"
	"github.com/goliatone/go-payhooks/webhooks"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSignWithExplicitSecret(t *testing.T) {
	out, err := run(t, "sign", "--secret", "test", "--body", `{"id":"test"}`)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if strings.TrimSpace(out) != "0KkGd2YCcbkhX15N8QF1moe/E6SG+EjHf6B8BE1uzr0=" {
		t.Fatalf("unexpected signature %q", out)
	}
}

func TestSignUsesScopeFromClientFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "client.json")
	doc := `{"environment":"test","tokens":{"merchant":"merchant-secret","payout":"payout-secret"}}`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write client file: %v", err)
	}

	body := `{"event":{"name":"payout_cancelled"}}`
	out, err := run(t, "--config-file", path, "--env", "test", "sign", "--body", body)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	want, _ := webhooks.Sign("payout-secret", []byte(body))
	if strings.TrimSpace(out) != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestSignGeneratesBodyFromEvent(t *testing.T) {
	out, err := run(t, "sign", "--secret", "s", "--event", "invoice_expired")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || lines[1] != `{"event":{"name":"invoice_expired"}}` {
		t.Fatalf("unexpected output %q", out)
	}
	want, _ := webhooks.Sign("s", []byte(lines[1]))
	if lines[0] != want {
		t.Fatalf("signature does not match generated body")
	}
}

func TestSignRejectsUnroutableEvent(t *testing.T) {
	if _, err := run(t, "sign", "--event", "invoice_unknown"); err == nil {
		t.Fatalf("expected routing error")
	}
}

func TestSignRequiresInput(t *testing.T) {
	if _, err := run(t, "sign", "--secret", "s"); err == nil {
		t.Fatalf("expected missing body error")
	}
}

func TestSealProducesOpenableEnvelope(t *testing.T) {
	key := "0123456789abcdef0123456789abcdef"
	out, err := run(t, "seal", "--app-key", key, "merchant-token")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	sealed := strings.TrimSpace(out)
	if !security.IsSealed(sealed) || strings.Contains(sealed, "merchant-token") {
		t.Fatalf("unexpected sealed value %q", sealed)
	}
	provider, err := security.NewAppKeySecretProviderFromString(key)
	if err != nil {
		t.Fatalf("provider: %v", err)
	}
	opened, err := provider.Open(context.Background(), sealed)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if opened != "merchant-token" {
		t.Fatalf("expected round trip, got %q", opened)
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if strings.TrimSpace(out) != Version {
		t.Fatalf("unexpected version %q", out)
	}
}
