package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder on Prometheus collectors.
type PrometheusRecorder struct {
	buildDuration prom.Histogram
	pagesTouched  prom.Counter
	pagesCached   prom.Counter
	buildOutcome  *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers the build metrics on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "docsmith",
			Name:      "build_duration_seconds",
			Help:      "Total site build duration",
			Buckets:   prom.DefBuckets,
		}),
		pagesTouched: prom.NewCounter(prom.CounterOpts{
			Namespace: "docsmith",
			Name:      "pages_touched_total",
			Help:      "Pages freshly recomputed",
		}),
		pagesCached: prom.NewCounter(prom.CounterOpts{
			Namespace: "docsmith",
			Name:      "pages_cached_total",
			Help:      "Pages served from the document cache",
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docsmith",
			Name:      "build_outcomes_total",
			Help:      "Site build outcomes by final status",
		}, []string{"outcome"}),
	}
	reg.MustRegister(pr.buildDuration, pr.pagesTouched, pr.pagesCached, pr.buildOutcome)
	return pr
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) AddPagesTouched(n int) {
	p.pagesTouched.Add(float64(n))
}

func (p *PrometheusRecorder) AddPagesCached(n int) {
	p.pagesCached.Add(float64(n))
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome string) {
	p.buildOutcome.WithLabelValues(outcome).Inc()
}

// HTTPHandler serves the registry over HTTP for scraping.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
