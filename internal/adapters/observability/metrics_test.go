package observability_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lead_finder/internal/adapters/observability"
)

func TestMetricsRegistryAndHandler(t *testing.T) {
	reg := observability.InitRegistry()

	// record one sample per family so counters are non-zero
	observability.ObserveHTTP("/search", "POST", 200, 12*time.Millisecond)
	observability.ObserveExternal("maps", "textsearch", 200, 30*time.Millisecond)
	observability.ObserveSearch("fallback")
	observability.ObserveAgent("agent_enrich_lead_data_v2", "mock")

	mh := observability.MetricsHandler(reg)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	out := string(body)
	for _, want := range []string{
		"leadfinder_http_requests_total",
		"leadfinder_external_requests_total",
		"leadfinder_searches_total",
		"leadfinder_agent_invocations_total",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in output", want)
		}
	}
}
