package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.Initiated("created")
	m.Verified("Completed")
	m.ObserveGateway("verify", "ok", 0.1)
}

func TestHandlerExposesPaymentCounters(t *testing.T) {
	m := New()
	m.Initiated("created")
	m.Verified("Failed")
	m.ObserveGateway("initialize", "ok", 0.2)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)

	for _, want := range []string{
		`payments_initiated_total{result="created"} 1`,
		`payments_verified_total{status="Failed"} 1`,
		`gateway_request_duration_seconds_count{operation="initialize",outcome="ok"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("expected metrics output to contain %q", want)
		}
	}
}
