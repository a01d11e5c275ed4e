package metrics

import "time"

// ResultLabel enumerates render result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailed  ResultLabel = "failed"
)

// CacheLabel enumerates cache lookup outcomes.
type CacheLabel string

const (
	CacheHit   CacheLabel = "hit"
	CacheMiss  CacheLabel = "miss"
	CacheError CacheLabel = "error"
)

// Recorder defines observability hooks for rendering, caching and the preview
// server. Implementations may forward to Prometheus or similar backends.
type Recorder interface {
	ObserveRenderDuration(d time.Duration)
	IncRenderResult(result ResultLabel)
	ObserveDocumentSize(bytes int)
	IncCacheLookup(result CacheLabel)
	AddCachePruned(n int)
	IncPreviewRequest(status int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveRenderDuration(time.Duration) {}
func (NoopRecorder) IncRenderResult(ResultLabel)         {}
func (NoopRecorder) ObserveDocumentSize(int)             {}
func (NoopRecorder) IncCacheLookup(CacheLabel)           {}
func (NoopRecorder) AddCachePruned(int)                  {}
func (NoopRecorder) IncPreviewRequest(int)               {}

// OrNoop returns r, or a NoopRecorder when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return NoopRecorder{}
	}
	return r
}
