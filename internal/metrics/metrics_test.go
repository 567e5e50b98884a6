package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordPack(t *testing.T) {
	t.Parallel()

	m := New()
	m.RecordPack("EB-AFIT", true, 8, 0, 1, 25*time.Millisecond)
	m.RecordPack("EB-AFIT", false, 3, 2, 0.4, 10*time.Millisecond)

	if got := testutil.ToFloat64(m.packRuns.WithLabelValues("EB-AFIT", "true")); got != 1 {
		t.Fatalf("expected 1 complete run, got %v", got)
	}
	if got := testutil.ToFloat64(m.itemsPacked.WithLabelValues("EB-AFIT")); got != 11 {
		t.Fatalf("expected 11 packed units, got %v", got)
	}
	if got := testutil.ToFloat64(m.itemsUnpacked.WithLabelValues("EB-AFIT")); got != 2 {
		t.Fatalf("expected 2 unpacked units, got %v", got)
	}
}

func TestNilRecorderIsNoop(t *testing.T) {
	t.Parallel()

	var m *Recorder
	m.RecordPack("EB-AFIT", true, 1, 0, 1, time.Millisecond)
	m.RecordRequest(http.MethodGet, "/api/health", http.StatusOK, time.Millisecond)
}

func TestHandlerExposesMetrics(t *testing.T) {
	t.Parallel()

	m := New()
	m.RecordRequest(http.MethodPost, "/api/containerpacking", http.StatusOK, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `http_requests_total{method="POST",path="/api/containerpacking",status="200"} 1`) {
		t.Fatalf("expected request counter in output, got:\n%s", body)
	}
}
