// Package prometheus exports the run reports as prometheus metrics, optionally pushed
// to a Pushgateway once the run finishes.
package prometheus

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"go.uber.org/zap"

	"github.com/x4b1/mqbackup"
)

const (
	namespace = "mqbackup"
	job       = "mqbackup"
)

// Outcomes of a message.
const (
	OutcomeProcessed = "processed"
	OutcomeSkipped   = "skipped"
	OutcomeFailed    = "failed"
)

var _ mqbackup.Reporter = (*Reporter)(nil)

// Option defines the optional parameters for Reporter.
type Option func(*Reporter)

// WithPushgateway pushes the metrics to the gateway url after each report.
func WithPushgateway(url string) Option {
	return func(r *Reporter) {
		r.gateway = url
	}
}

// WithLogger sets the logger of push failures.
func WithLogger(l *zap.Logger) Option {
	return func(r *Reporter) {
		r.logger = l
	}
}

// NewReporter returns a Reporter registering its metrics in a new registry.
func NewReporter(opts ...Option) *Reporter {
	r := Reporter{
		registry: prometheus.NewRegistry(),
		logger:   zap.NewNop(),
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_total",
			Help:      "Messages handled per operation, queue and outcome.",
		}, []string{"operation", "queue", "outcome"}),
		bytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_total",
			Help:      "Body bytes of the processed messages per operation and queue.",
		}, []string{"operation", "queue"}),
		aborted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queues_aborted_total",
			Help:      "Queues aborted by a broker failure.",
		}, []string{"operation", "queue"}),
		malformed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "malformed_lines_total",
			Help:      "Record file lines that could not be decoded.",
		}, []string{"operation"}),
		duration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of the last run.",
		}, []string{"operation"}),
		lastSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last run without skipped or failed messages.",
		}, []string{"operation"}),
	}
	for _, opt := range opts {
		opt(&r)
	}

	r.registry.MustRegister(r.messages, r.bytes, r.aborted, r.malformed, r.duration, r.lastSuccess)

	return &r
}

// Reporter counts the messages of each report.
type Reporter struct {
	registry *prometheus.Registry
	gateway  string
	logger   *zap.Logger

	messages    *prometheus.CounterVec
	bytes       *prometheus.CounterVec
	aborted     *prometheus.CounterVec
	malformed   *prometheus.CounterVec
	duration    *prometheus.GaugeVec
	lastSuccess *prometheus.GaugeVec
}

// Registry returns the registry holding the metrics.
func (r *Reporter) Registry() *prometheus.Registry {
	return r.registry
}

// Report implements mqbackup.Reporter.
func (r *Reporter) Report(ctx context.Context, rep *mqbackup.Report) {
	op := rep.Operation
	for _, q := range rep.Queues() {
		r.messages.WithLabelValues(op, q.Queue, OutcomeProcessed).Add(float64(q.Processed))
		r.messages.WithLabelValues(op, q.Queue, OutcomeSkipped).Add(float64(q.Skipped))
		r.messages.WithLabelValues(op, q.Queue, OutcomeFailed).Add(float64(q.Failed))
		r.bytes.WithLabelValues(op, q.Queue).Add(float64(q.Bytes))
		if q.Err != nil {
			r.aborted.WithLabelValues(op, q.Queue).Inc()
		}
	}
	r.malformed.WithLabelValues(op).Add(float64(rep.Malformed))
	r.duration.WithLabelValues(op).Set(rep.Duration().Seconds())
	if rep.Success() {
		r.lastSuccess.WithLabelValues(op).Set(float64(time.Now().Unix()))
	}

	if r.gateway == "" {
		return
	}
	if err := push.New(r.gateway, job).
		Gatherer(r.registry).
		Grouping("operation", op).
		PushContext(ctx); err != nil {
		r.logger.Error("pushing metrics", zap.String("gateway", r.gateway), zap.Error(err))
	}
}
