package jobmetrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandlerExposesJobMetrics(t *testing.T) {
	metrics := NewMetrics(nil)

	if err := metrics.Track("billing:generate").End(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := metrics.Track("billing:generate").End(errors.New("boom")); err == nil {
		t.Fatal("expected error to pass through")
	}
	metrics.AddBills("created", 3)

	rr := httptest.NewRecorder()
	Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "dairydesk_jobs_total{job=\"billing:generate\",status=\"success\"}") {
		t.Fatalf("expected success counter, got: %s", body)
	}
	if !strings.Contains(body, "dairydesk_jobs_failures_total{job=\"billing:generate\"}") {
		t.Fatalf("expected failure counter, got: %s", body)
	}
	if !strings.Contains(body, "dairydesk_billing_bills_total{outcome=\"created\"} 3") {
		t.Fatalf("expected bill counter, got: %s", body)
	}
}

func TestTrackerNilMetrics(t *testing.T) {
	var metrics *Metrics

	err := metrics.Track("anything").End(errors.New("boom"))
	if err == nil || err.Error() != "boom" {
		t.Fatalf("tracker must pass the error through, got %v", err)
	}
}
