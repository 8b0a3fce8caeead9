// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder はアプリケーション各層から利用するメトリクス記録のインターフェース。
// guard.DecisionRecorder, chat.ReplyRecorder, apiclient.CallRecorder を兼ねる。
type Recorder interface {
	RecordGuardDecision(class, target string)
	RecordChatReply(kind, rule string)
	RecordUpstreamCall(endpoint string, ok bool, elapsed time.Duration)
	RecordHTTPStatus(statusCode int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	guardDecisions  *prometheus.CounterVec
	chatReplies     *prometheus.CounterVec
	upstreamCalls   *prometheus.CounterVec
	upstreamLatency *prometheus.HistogramVec
	httpStatus      *prometheus.CounterVec
}

var _ Recorder = (*Collector)(nil)

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		guardDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "eduportal_guard_decisions_total",
			Help: "ルートガードの判定数（allowまたはリダイレクト先）",
		}, []string{"class", "target"}),
		chatReplies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "eduportal_chat_replies_total",
			Help: "会話種別とマッチしたルール別のアシスタント応答数",
		}, []string{"kind", "rule"}),
		upstreamCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "eduportal_upstream_calls_total",
			Help: "ユーザーAPI呼び出しの合計数",
		}, []string{"endpoint", "result"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "eduportal_upstream_latency_seconds",
			Help:    "ユーザーAPI呼び出しのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "eduportal_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.guardDecisions,
		c.chatReplies,
		c.upstreamCalls,
		c.upstreamLatency,
		c.httpStatus,
	)

	return c
}

// RecordGuardDecision はガードの判定結果を記録する。
func (c *Collector) RecordGuardDecision(class, target string) {
	c.guardDecisions.WithLabelValues(class, target).Inc()
}

// RecordChatReply はアシスタントの応答を記録する。
func (c *Collector) RecordChatReply(kind, rule string) {
	c.chatReplies.WithLabelValues(kind, rule).Inc()
}

// RecordUpstreamCall はユーザーAPIの呼び出し結果とレイテンシを記録する。
func (c *Collector) RecordUpstreamCall(endpoint string, ok bool, elapsed time.Duration) {
	result := "success"
	if !ok {
		result = "failure"
	}
	c.upstreamCalls.WithLabelValues(endpoint, result).Inc()
	c.upstreamLatency.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
