package metrics

import "github.com/prometheus/client_golang/prometheus"

// AssistantMetrics exposes counters/histograms for the query pipeline.
type AssistantMetrics struct {
	queriesTotal     *prometheus.CounterVec
	extractionsTotal *prometheus.CounterVec
	llmLatency       *prometheus.HistogramVec
	tableWritesTotal *prometheus.CounterVec
}

// NewAssistantMetrics registers the assistant collectors with reg, or with the
// default registerer when reg is nil.
func NewAssistantMetrics(reg prometheus.Registerer) *AssistantMetrics {
	m := &AssistantMetrics{
		queriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "swasthyasathi",
			Subsystem: "assistant",
			Name:      "queries_total",
			Help:      "Total queries answered, by dispatched intent and outcome",
		}, []string{"intent", "outcome"}),
		extractionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "swasthyasathi",
			Subsystem: "intent",
			Name:      "extractions_total",
			Help:      "Intent extractions by result (parsed, failed)",
		}, []string{"result"}),
		llmLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "swasthyasathi",
			Subsystem: "intent",
			Name:      "llm_latency_seconds",
			Help:      "Latency of language model completions",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		}, []string{"status"}),
		tableWritesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "swasthyasathi",
			Subsystem: "records",
			Name:      "table_writes_total",
			Help:      "Table write-backs by table and status",
		}, []string{"table", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.queriesTotal, m.extractionsTotal, m.llmLatency, m.tableWritesTotal)
	return m
}

func (m *AssistantMetrics) ObserveQuery(intent, outcome string) {
	if m == nil {
		return
	}
	m.queriesTotal.WithLabelValues(intent, outcome).Inc()
}

func (m *AssistantMetrics) ObserveExtraction(result string) {
	if m == nil {
		return
	}
	m.extractionsTotal.WithLabelValues(result).Inc()
}

func (m *AssistantMetrics) ObserveLLMLatency(failed bool, seconds float64) {
	if m == nil {
		return
	}
	status := "ok"
	if failed {
		status = "error"
	}
	m.llmLatency.WithLabelValues(status).Observe(seconds)
}

func (m *AssistantMetrics) ObserveTableWrite(table, status string) {
	if m == nil {
		return
	}
	m.tableWritesTotal.WithLabelValues(table, status).Inc()
}
