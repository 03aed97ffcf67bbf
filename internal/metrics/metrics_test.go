package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// counterValue はレジストリから指定メトリクスのカウンタ値を取り出す。
func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	for _, mf := range metrics {
		if mf.GetName() == name {
			if len(mf.GetMetric()) != 1 {
				t.Fatalf("expected 1 metric for %s, got %d", name, len(mf.GetMetric()))
			}
			return mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	t.Fatalf("%s metric not found", name)
	return 0
}

// TestNewCollector_ReturnsNonNil はCollectorが正常に生成されることを検証する。
func TestNewCollector_ReturnsNonNil(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	if c == nil {
		t.Fatal("expected non-nil Collector")
	}
}

// TestRecordPaymentCompleted_IncrementsCounter は支払い完了カウンタが増加することを検証する。
func TestRecordPaymentCompleted_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordPaymentCompleted()
	c.RecordPaymentCompleted()

	if val := counterValue(t, reg, "bistro_payments_completed_total"); val != 2 {
		t.Errorf("payments_completed_total = %v, want 2", val)
	}
}

// TestRecordCartItemsReconciled_AddsCount は削除されたカート項目数が
// 加算されることを検証する。
func TestRecordCartItemsReconciled_AddsCount(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordCartItemsReconciled(3)
	c.RecordCartItemsReconciled(2)

	if val := counterValue(t, reg, "bistro_cart_items_reconciled_total"); val != 5 {
		t.Errorf("cart_items_reconciled_total = %v, want 5", val)
	}
}

// TestRecordTokenIssued_IncrementsCounter はトークン発行カウンタが増加することを検証する。
func TestRecordTokenIssued_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordTokenIssued()

	if val := counterValue(t, reg, "bistro_tokens_issued_total"); val != 1 {
		t.Errorf("tokens_issued_total = %v, want 1", val)
	}
}

// TestRecordHTTPStatus_LabelsByStatusCode はステータスコードごとに
// ラベル付けされることを検証する。
func TestRecordHTTPStatus_LabelsByStatusCode(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(500)

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range metrics {
		if mf.GetName() != "bistro_http_status_total" {
			continue
		}
		found = true
		if len(mf.GetMetric()) != 2 {
			t.Errorf("expected 2 labeled series, got %d", len(mf.GetMetric()))
		}
	}
	if !found {
		t.Error("bistro_http_status_total metric not found")
	}
}

// TestHandler_ExposesMetrics は/metricsハンドラーが記録済みメトリクスを
// テキスト形式で公開することを検証する。
func TestHandler_ExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordPaymentCompleted()
	c.RecordRequestLatency(25 * time.Millisecond)

	h := Handler(reg)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	body, err := io.ReadAll(w.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	if !strings.Contains(string(body), "bistro_payments_completed_total 1") {
		t.Errorf("metrics output should contain payments counter, got:\n%s", body)
	}
	if !strings.Contains(string(body), "bistro_request_latency_seconds") {
		t.Errorf("metrics output should contain latency histogram, got:\n%s", body)
	}
}
