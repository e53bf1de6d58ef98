package observability

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsRecordAndServe(t *testing.T) {
	m := NewMetrics()
	m.ObserveAPI("GET", "/api/lessons/:id/activities", "200", 20*time.Millisecond)
	m.IncActivitySave("ok")
	m.IncActivitySave("ok")
	m.IncInvitationValidation("expired")
	m.IncInvitationUseRecordFailure()

	if got := testutil.ToFloat64(m.activitySaves.WithLabelValues("ok")); got != 2 {
		t.Fatalf("activity_saves_total{ok} = %v", got)
	}
	if got := testutil.ToFloat64(m.invitationUseFailures); got != 1 {
		t.Fatalf("invitation_use_record_failures_total = %v", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()
	for _, want := range []string{
		`http_requests_total{method="GET",route="/api/lessons/:id/activities",status="200"} 1`,
		`invitation_validations_total{result="expired"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/", "200", time.Millisecond)
	m.IncActivitySave("error")
	m.IncRegistration("ok")
	m.ApiInflightInc()
	m.ApiInflightDec()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 404 {
		t.Fatalf("nil metrics handler should 404, got %d", rec.Code)
	}
}
