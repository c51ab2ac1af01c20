package reconstruct

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics of reconstruction requests.
type Metrics struct {
	requests    *prometheus.CounterVec
	rounds      prometheus.Histogram
	graphNodes  prometheus.Histogram
	pathLength  prometheus.Histogram
	reqDuration prometheus.Histogram
}

// NewMetrics creates metrics and registers them with the registerer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smpath_requests_total",
				Help: "Total number of path reconstruction requests by outcome",
			},
			[]string{"outcome"},
		),
		rounds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "smpath_prune_rounds",
			Help:    "Inference and pruning rounds per request",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21},
		}),
		graphNodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "smpath_error_graph_nodes",
			Help:    "Nodes of pruned error graphs",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}),
		pathLength: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "smpath_path_length",
			Help:    "Edges in reconstructed paths",
			Buckets: prometheus.LinearBuckets(0, 5, 10),
		}),
		reqDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "smpath_request_duration_seconds",
			Help:    "Duration of completed reconstruction requests",
			Buckets: prometheus.DefBuckets,
		}),
	}

	for _, c := range []prometheus.Collector{m.requests, m.rounds, m.graphNodes, m.pathLength, m.reqDuration} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}

	return m, nil
}

func (m *Metrics) observe(res *Result, outcome string, took time.Duration) {
	m.requests.WithLabelValues(outcome).Inc()
	if res.Graph == nil || outcome == "error" {
		return
	}

	m.rounds.Observe(float64(res.Rounds))
	m.graphNodes.Observe(float64(res.Graph.NodeCount()))
	m.reqDuration.Observe(took.Seconds())
	if res.Outcome == OutcomePath {
		m.pathLength.Observe(float64(len(res.Path)))
	}
}
