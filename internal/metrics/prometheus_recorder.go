package metrics

import (
	"strconv"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "mdrender"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once            sync.Once
	renderDuration  prom.Histogram
	renderResults   *prom.CounterVec
	documentSize    prom.Histogram
	cacheLookups    *prom.CounterVec
	cachePruned     prom.Counter
	previewRequests *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.renderDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Duration of markdown to markup conversions",
			Buckets:   prom.DefBuckets,
		})
		pr.renderResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "render_results_total",
			Help:      "Render results by outcome",
		}, []string{"result"})
		pr.documentSize = prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "document_size_bytes",
			Help:      "Size of rendered markdown sources",
			Buckets:   prom.ExponentialBuckets(256, 4, 8),
		})
		pr.cacheLookups = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Render cache lookups by outcome",
		}, []string{"result"})
		pr.cachePruned = prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "cache_pruned_entries_total",
			Help:      "Expired render cache entries removed",
		})
		pr.previewRequests = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "preview_requests_total",
			Help:      "Preview server requests by status code",
		}, []string{"code"})
		reg.MustRegister(pr.renderDuration, pr.renderResults, pr.documentSize, pr.cacheLookups, pr.cachePruned, pr.previewRequests)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveRenderDuration(d time.Duration) {
	if p == nil || p.renderDuration == nil {
		return
	}
	p.renderDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRenderResult(result ResultLabel) {
	if p == nil || p.renderResults == nil {
		return
	}
	p.renderResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveDocumentSize(bytes int) {
	if p == nil || p.documentSize == nil {
		return
	}
	p.documentSize.Observe(float64(bytes))
}

func (p *PrometheusRecorder) IncCacheLookup(result CacheLabel) {
	if p == nil || p.cacheLookups == nil {
		return
	}
	p.cacheLookups.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) AddCachePruned(n int) {
	if p == nil || p.cachePruned == nil || n <= 0 {
		return
	}
	p.cachePruned.Add(float64(n))
}

func (p *PrometheusRecorder) IncPreviewRequest(status int) {
	if p == nil || p.previewRequests == nil {
		return
	}
	p.previewRequests.WithLabelValues(strconv.Itoa(status)).Inc()
}
