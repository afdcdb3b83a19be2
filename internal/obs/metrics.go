package obs

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "glassquote"

// Metrics groups the quotation domain collectors.
type Metrics struct {
	Calculations        *prometheus.CounterVec
	CalculationDuration prometheus.Histogram
	Proposals           prometheus.Counter
	DocumentBytes       *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calculations_total",
			Help:      "Count of quotation calculations by outcome.",
		}, []string{"result"}),
		CalculationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "calculation_duration_seconds",
			Help:      "Time spent loading the catalog and pricing a request.",
			Buckets:   prometheus.DefBuckets,
		}),
		Proposals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "proposals_total",
			Help:      "Count of persisted proposals.",
		}),
		DocumentBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "documents_bytes",
			Help:      "Size of generated quotation documents.",
			Buckets:   prometheus.ExponentialBuckets(4096, 2, 10),
		}, []string{"format"}),
	}
	if reg != nil {
		reg.MustRegister(m.Calculations, m.CalculationDuration, m.Proposals, m.DocumentBytes)
	}
	return m
}

// CalculationResult records the outcome label of a calculation.
func (m *Metrics) CalculationResult(ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "rejected"
	}
	m.Calculations.WithLabelValues(result).Inc()
}

// ObserveCalculation records how long a calculation took.
func (m *Metrics) ObserveCalculation(d time.Duration) {
	if m == nil {
		return
	}
	m.CalculationDuration.Observe(d.Seconds())
}

// ProposalCreated counts one persisted proposal.
func (m *Metrics) ProposalCreated() {
	if m == nil {
		return
	}
	m.Proposals.Inc()
}

// DocumentRendered records the size of a generated document of the given format.
func (m *Metrics) DocumentRendered(format string, size int) {
	if m == nil {
		return
	}
	m.DocumentBytes.WithLabelValues(format).Observe(float64(size))
}
