package texrecord

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultSuccess = "success"
	resultFailure = "failure"

	sourceAssign = "assign"
	sourceBlank  = "blank"

	stageCopy   = "copy"
	stageEncode = "encode"
)

// Metrics counts record cache activity. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	decodesTotal        *prometheus.CounterVec
	fallbacksTotal      prometheus.Counter
	encodesTotal        *prometheus.CounterVec
	copiesTotal         prometheus.Counter
	assignFailuresTotal *prometheus.CounterVec
}

// NewMetrics creates the record counters and registers them with reg. A nil
// reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		decodesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "texture_decodes_total",
				Help:      "Total number of payload decodes by result",
			},
			[]string{"result"},
		),

		fallbacksTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "texture_blank_fallbacks_total",
				Help:      "Total number of blank textures substituted for undecodable payloads",
			},
		),

		encodesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "texture_encodes_total",
				Help:      "Total number of PNG payloads produced by source",
			},
			[]string{"source"},
		),

		copiesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "texture_device_copies_total",
				Help:      "Total number of non-readable textures copied on assignment",
			},
		),

		assignFailuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "texture_assign_failures_total",
				Help:      "Total number of texture assignments that failed by stage",
			},
			[]string{"stage"},
		),
	}
}

func (m *Metrics) recordDecode(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.decodesTotal.WithLabelValues(resultFailure).Inc()
		m.fallbacksTotal.Inc()
		return
	}
	m.decodesTotal.WithLabelValues(resultSuccess).Inc()
}

func (m *Metrics) recordEncode(source string) {
	if m == nil {
		return
	}
	m.encodesTotal.WithLabelValues(source).Inc()
}

func (m *Metrics) recordCopy() {
	if m == nil {
		return
	}
	m.copiesTotal.Inc()
}

func (m *Metrics) recordAssignFailure(stage string) {
	if m == nil {
		return
	}
	m.assignFailuresTotal.WithLabelValues(stage).Inc()
}
