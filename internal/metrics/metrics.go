package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Sale outcomes used as the "outcome" label.
const (
	OutcomeRecorded  = "recorded"
	OutcomeReplayed  = "replayed"
	OutcomeInvalid   = "invalid"
	OutcomeNotFound  = "not_found"
	OutcomeConflict  = "conflict"
	OutcomeTransient = "transient"
	OutcomeError     = "error"
)

// Metrics holds the collectors for the sale workflow and HTTP traffic.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	sales        *prometheus.CounterVec
	saleDuration prometheus.Histogram
	itemsSold    prometheus.Counter
	requests     *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return nil
	}
	m := &Metrics{
		sales: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cashierhub_sales_total",
			Help: "Sale submissions by outcome.",
		}, []string{"outcome"}),
		saleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cashierhub_sale_duration_seconds",
			Help:    "Time spent recording a sale, including the store transaction.",
			Buckets: prometheus.DefBuckets,
		}),
		itemsSold: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cashierhub_sale_items_total",
			Help: "Units sold by committed sales.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cashierhub_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(m.sales, m.saleDuration, m.itemsSold, m.requests)
	return m
}

// ObserveSale records one RecordSale call. units only counts for recorded sales.
func (m *Metrics) ObserveSale(outcome string, elapsed time.Duration, units int) {
	if m == nil {
		return
	}
	if outcome == "" {
		outcome = OutcomeError
	}
	m.sales.WithLabelValues(outcome).Inc()
	m.saleDuration.Observe(elapsed.Seconds())
	if outcome == OutcomeRecorded && units > 0 {
		m.itemsSold.Add(float64(units))
	}
}

func (m *Metrics) ObserveRequest(method, route string, status int) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}
