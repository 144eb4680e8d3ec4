package mockbridge

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metricsRegistry struct {
	registry      *prometheus.Registry
	requestsTotal *prometheus.CounterVec
	approvals     *prometheus.CounterVec
	onrampsTotal  prometheus.Counter
}

func newMetricsRegistry() *metricsRegistry {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "peer_bridge_requests_total",
		Help: "Bridge API requests by endpoint and response code",
	}, []string{"endpoint", "code"})

	approvals := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "peer_bridge_connection_requests_total",
		Help: "Connection approval prompts by result",
	}, []string{"result"})

	onramps := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "peer_bridge_onramps_total",
		Help: "Onramp actions accepted by the bridge",
	})

	r := prometheus.NewRegistry()
	r.MustRegister(requests, approvals, onramps)

	return &metricsRegistry{
		registry:      r,
		requestsTotal: requests,
		approvals:     approvals,
		onrampsTotal:  onramps,
	}
}

func (m *metricsRegistry) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *metricsRegistry) incRequest(endpoint string, code int) {
	m.requestsTotal.WithLabelValues(endpoint, strconv.Itoa(code)).Inc()
}

func (m *metricsRegistry) incApproval(approved bool) {
	result := "rejected"
	if approved {
		result = "approved"
	}
	m.approvals.WithLabelValues(result).Inc()
}

func (m *metricsRegistry) incOnramp() {
	m.onrampsTotal.Inc()
}
