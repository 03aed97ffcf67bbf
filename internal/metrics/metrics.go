// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ミドルウェアやサービス層から利用する。
type MetricsCollector interface {
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
	RecordPaymentCompleted()
	RecordCartItemsReconciled(count int64)
	RecordTokenIssued()
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpStatus          *prometheus.CounterVec
	requestLatency      prometheus.Histogram
	paymentsCompleted   prometheus.Counter
	cartItemsReconciled prometheus.Counter
	tokensIssued        prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bistro_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "bistro_request_latency_seconds",
			Help:    "HTTPリクエスト処理のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		paymentsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bistro_payments_completed_total",
			Help: "完了した支払いの合計数",
		}),
		cartItemsReconciled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bistro_cart_items_reconciled_total",
			Help: "支払い完了時に削除されたカート項目の合計数",
		}),
		tokensIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bistro_tokens_issued_total",
			Help: "発行されたアクセストークンの合計数",
		}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.requestLatency,
		c.paymentsCompleted,
		c.cartItemsReconciled,
		c.tokensIssued,
	)

	return c
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエスト処理のレイテンシを記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// RecordPaymentCompleted は支払い完了を記録する。
func (c *Collector) RecordPaymentCompleted() {
	c.paymentsCompleted.Inc()
}

// RecordCartItemsReconciled は支払い完了時に削除されたカート項目数を記録する。
func (c *Collector) RecordCartItemsReconciled(count int64) {
	c.cartItemsReconciled.Add(float64(count))
}

// RecordTokenIssued はトークン発行を記録する。
func (c *Collector) RecordTokenIssued() {
	c.tokensIssued.Inc()
}

// Handler は/metricsエンドポイント用のHTTPハンドラーを返す。
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// compile-time interface check
var _ MetricsCollector = (*Collector)(nil)
