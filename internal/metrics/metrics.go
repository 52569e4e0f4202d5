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
// サービス層から利用する。
type MetricsCollector interface {
	RecordPairing(result string)
	RecordViewRecorded(domain string)
	RecordViewRecordFailure(domain string)
	RecordBadgeComputation()
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	pairings       *prometheus.CounterVec
	viewsRecorded  *prometheus.CounterVec
	viewFailures   *prometheus.CounterVec
	badgeComputes  prometheus.Counter
	httpStatus     *prometheus.CounterVec
	requestLatency prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		pairings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "futari_pairing_total",
			Help: "ペアリング処理の結果別合計数",
		}, []string{"result"}),
		viewsRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "futari_views_recorded_total",
			Help: "ドメイン別の閲覧記録成功の合計数",
		}, []string{"domain"}),
		viewFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "futari_view_record_failures_total",
			Help: "ドメイン別の閲覧記録失敗の合計数",
		}, []string{"domain"}),
		badgeComputes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "futari_badge_computations_total",
			Help: "新着バッジ計算の合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "futari_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "futari_request_latency_seconds",
			Help:    "HTTPリクエストのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.pairings,
		c.viewsRecorded,
		c.viewFailures,
		c.badgeComputes,
		c.httpStatus,
		c.requestLatency,
	)

	return c
}

// RecordPairing はペアリング処理の結果を記録する。
// resultは"created"（新規待機グループ作成）、"joined"（待機グループに参加）、
// "existing"（所属済み）、"failed"のいずれか。
func (c *Collector) RecordPairing(result string) {
	c.pairings.WithLabelValues(result).Inc()
}

// RecordViewRecorded はドメイン閲覧の記録成功を記録する。
func (c *Collector) RecordViewRecorded(domain string) {
	c.viewsRecorded.WithLabelValues(domain).Inc()
}

// RecordViewRecordFailure はドメイン閲覧の記録失敗を記録する。
func (c *Collector) RecordViewRecordFailure(domain string) {
	c.viewFailures.WithLabelValues(domain).Inc()
}

// RecordBadgeComputation は新着バッジ計算の実行を記録する。
func (c *Collector) RecordBadgeComputation() {
	c.badgeComputes.Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエストのレイテンシを記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
