package metrics

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPrometheusRecorderCounterLabels(t *testing.T) {
	recorder := NewPrometheusRecorder("payhooks", prometheus.NewRegistry())
	ctx := context.Background()

	recorder.IncCounter(ctx, "webhooks.validate.total", 1, map[string]string{
		"event": "invoice_paidInFull", "scope": "merchant", "outcome": "validated", "reason": "",
	})
	recorder.IncCounter(ctx, "webhooks.validate.total", 2, map[string]string{
		"event": "invoice_paidInFull", "scope": "merchant", "outcome": "validated",
	})
	recorder.IncCounter(ctx, "webhooks.validate.total", 1, map[string]string{
		"event": "", "outcome": "rejected", "reason": "WEBHOOK_TOKEN_NOT_FOUND", "extra": "dropped",
	})

	entry := recorder.counters["payhooks_webhooks_validate_total"]
	if entry == nil {
		t.Fatalf("expected counter to be registered")
	}
	got := testutil.ToFloat64(entry.vec.WithLabelValues("invoice_paidInFull", "validated", "", "merchant"))
	if got != 3 {
		t.Fatalf("expected 3 validated observations, got %v", got)
	}
	rejected := testutil.ToFloat64(entry.vec.WithLabelValues("", "rejected", "WEBHOOK_TOKEN_NOT_FOUND", ""))
	if rejected != 1 {
		t.Fatalf("expected 1 rejected observation, got %v", rejected)
	}
}

func TestPrometheusRecorderHandlerExposesMetrics(t *testing.T) {
	recorder := NewPrometheusRecorder("", nil)
	recorder.ObserveHistogram(context.Background(), "http.request.duration_ms", 12, map[string]string{"route": "/health"})

	server := httptest.NewServer(recorder.Handler())
	defer server.Close()

	resp, err := server.Client().Get(server.URL)
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "payhooks_http_request_duration_ms_bucket") {
		t.Fatalf("expected histogram in exposition, got:\n%s", body)
	}
	if !strings.Contains(string(body), "go_goroutines") {
		t.Fatalf("expected default go collector metrics")
	}
}

func TestSanitizeName(t *testing.T) {
	cases := map[string]string{
		"webhooks.validate.total": "webhooks_validate_total",
		"  HTTP--Requests ":       "http_requests",
		"a..b.":                   "a_b",
	}
	for input, want := range cases {
		if got := sanitizeName(input); got != want {
			t.Fatalf("sanitizeName(%q)=%q want %q", input, got, want)
		}
	}
}
