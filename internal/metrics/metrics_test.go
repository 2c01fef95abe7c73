package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
)

func TestObserveTurnIncrementsState(t *testing.T) {
	before := testutil.ToFloat64(TurnsTotal.WithLabelValues("ready"))
	ObserveTurn("ready", time.Now())
	after := testutil.ToFloat64(TurnsTotal.WithLabelValues("ready"))

	if after-before != 1 {
		t.Fatalf("expected counter to grow by one, got %v -> %v", before, after)
	}
}

func TestObserveRemote(t *testing.T) {
	before := testutil.ToFloat64(RemoteCallsTotal.WithLabelValues(RemoteCached))
	ObserveRemote(RemoteCached)
	if got := testutil.ToFloat64(RemoteCallsTotal.WithLabelValues(RemoteCached)); got != before+1 {
		t.Fatalf("expected %v, got %v", before+1, got)
	}
}

func TestServerExposesMetrics(t *testing.T) {
	ObserveHandoff("success")

	srv := NewServer(":0", zap.NewNop())
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "transfer_bot_wallet_handoffs_total") {
		t.Fatalf("metrics output missing handoff counter")
	}
}
