package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vitos/crypto_alert_monitor/internal/domain"
)

// Collector exposes alert engine counters on its own registry.
type Collector struct {
	registry    *prometheus.Registry
	cycles      *prometheus.CounterVec
	fired       *prometheus.CounterVec
	suppressed  *prometheus.CounterVec
	fieldErrors *prometheus.CounterVec
	dispatch    *prometheus.CounterVec
	lastCount   prometheus.Gauge
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "alert_cycles_total",
			Help: "Completed evaluation cycles by trigger source.",
		}, []string{"source"}),
		fired: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "alerts_fired_total",
			Help: "Alert messages emitted per metric kind.",
		}, []string{"metric"}),
		suppressed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "alerts_suppressed_total",
			Help: "Alerts held back by cooldown per metric kind.",
		}, []string{"metric"}),
		fieldErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "alert_field_errors_total",
			Help: "Records skipped because a metric field could not be converted.",
		}, []string{"metric"}),
		dispatch: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "alert_dispatch_total",
			Help: "Aggregated notification attempts by result.",
		}, []string{"result"}),
		lastCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "alert_last_cycle_count",
			Help: "Number of alerts fired in the most recent cycle.",
		}),
	}
	c.registry.MustRegister(c.cycles, c.fired, c.suppressed, c.fieldErrors, c.dispatch, c.lastCount)
	return c
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) CycleCompleted(source string, fired int) {
	c.cycles.WithLabelValues(source).Inc()
	c.lastCount.Set(float64(fired))
}

func (c *Collector) AlertFired(metric domain.MetricKind) {
	c.fired.WithLabelValues(string(metric)).Inc()
}

func (c *Collector) AlertSuppressed(metric domain.MetricKind) {
	c.suppressed.WithLabelValues(string(metric)).Inc()
}

func (c *Collector) FieldError(metric domain.MetricKind) {
	c.fieldErrors.WithLabelValues(string(metric)).Inc()
}

func (c *Collector) DispatchResult(result string) {
	c.dispatch.WithLabelValues(result).Inc()
}
