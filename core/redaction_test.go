package core

import "testing"

func TestRedactSensitiveMapPreservesTraceabilityMetadata(t *testing.T) {
	redacted := RedactSensitiveMap(map[string]any{
		"trace_id":     "trace_1",
		"request_id":   "req_1",
		"event":        "invoice_paidInFull",
		"scope":        "merchant",
		"token":        "merchant-secret",
		"signature":    "0KkGd2YCcbkhX15N8QF1moe/E6SG+EjHf6B8BE1uzr0=",
		"nested":       map[string]any{"private_key": "deadbeef", "invoice_id": "inv_1"},
		"recipients":   []any{map[string]any{"api_key": "key_1"}, map[string]any{"recipient_id": "rcp_1"}},
		"invoice_id":   "inv_1",
		"notification": "https://example.com/webhook-validator",
	})

	if redacted["scope"] != "merchant" {
		t.Fatalf("expected scope to remain visible, got %#v", redacted["scope"])
	}
	if redacted["event"] != "invoice_paidInFull" {
		t.Fatalf("expected event to remain visible, got %#v", redacted["event"])
	}
	if redacted["token"] != RedactedValue {
		t.Fatalf("expected token to be redacted, got %#v", redacted["token"])
	}
	if redacted["signature"] != RedactedValue {
		t.Fatalf("expected signature to be redacted, got %#v", redacted["signature"])
	}
	nested, ok := redacted["nested"].(map[string]any)
	if !ok {
		t.Fatalf("expected nested redacted map")
	}
	if nested["private_key"] != RedactedValue {
		t.Fatalf("expected nested private_key to be redacted, got %#v", nested["private_key"])
	}
	if nested["invoice_id"] != "inv_1" {
		t.Fatalf("expected nested invoice_id to remain visible, got %#v", nested["invoice_id"])
	}
	recipients := redacted["recipients"].([]any)
	if recipients[0].(map[string]any)["api_key"] != RedactedValue {
		t.Fatalf("expected api_key inside slice to be redacted")
	}
}

func TestRedactHeadersMasksSignatureAndIdentity(t *testing.T) {
	headers := RedactHeaders(map[string][]string{
		"X-Signature":      {"abc"},
		"X-Identity":       {"02abcdef"},
		"Authorization":    {"Bearer x"},
		"Content-Type":     {"application/json"},
		"X-Accept-Version": {"2.0.0"},
	})
	for _, name := range []string{"x-signature", "x-identity", "authorization"} {
		if headers[name] != RedactedValue {
			t.Fatalf("expected %s to be redacted, got %q", name, headers[name])
		}
	}
	if headers["content-type"] != "application/json" {
		t.Fatalf("expected content-type to be kept, got %q", headers["content-type"])
	}
}
