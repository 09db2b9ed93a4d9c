package codec

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/wippyai/mxpack/errors"
)

const (
	directionEncode = "encode"
	directionDecode = "decode"
)

// Metrics counts codec traffic. A nil *Metrics records nothing.
type Metrics struct {
	messages *prometheus.CounterVec
	bytes    *prometheus.CounterVec
	errors   *prometheus.CounterVec
}

// NewMetrics creates codec metrics. If registerer is nil, metrics will not be
// registered.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	const (
		namespace = "mxpack"
		subsystem = "codec"
	)

	m := Metrics{
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "messages_total",
			Help:      "Number of messages encoded or decoded",
		}, []string{"direction"}),
		bytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "bytes_total",
			Help:      "Number of wire bytes produced or consumed",
		}, []string{"direction"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "errors_total",
			Help:      "Number of failed codec calls by error kind",
		}, []string{"direction", "kind"}),
	}

	if registerer != nil {
		registerer = prometheus.WrapRegistererWith(
			prometheus.Labels{"component": "mxpack"},
			registerer,
		)
		registerer.MustRegister(m.messages, m.bytes, m.errors)
	}

	return &m
}

func (m *Metrics) observe(direction string, messages, n int) {
	if m == nil {
		return
	}
	m.messages.WithLabelValues(direction).Add(float64(messages))
	m.bytes.WithLabelValues(direction).Add(float64(n))
}

func (m *Metrics) fail(direction string, err error) {
	if m == nil || err == nil {
		return
	}
	kind := errors.KindOf(err)
	if kind == "" {
		kind = "unknown"
	}
	m.errors.WithLabelValues(direction, string(kind)).Inc()
}
