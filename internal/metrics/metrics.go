// Package metrics implements the observability hooks with Prometheus.
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/mindmap/pkg/observability"
)

// Metrics holds the collectors. It implements every hook interface of
// package observability.
type Metrics struct {
	layoutsTotal      prometheus.Counter
	layoutDuration    prometheus.Histogram
	layoutVisible     prometheus.Gauge
	layoutPasses      prometheus.Histogram
	layoutAdjustments prometheus.Counter

	framesTotal   *prometheus.CounterVec
	frameDuration prometheus.Histogram
	frameVisible  prometheus.Gauge

	loadsTotal    *prometheus.CounterVec
	loadDuration  *prometheus.HistogramVec
	loadedFolders prometheus.Gauge
	loadedFiles   prometheus.Gauge
	loadsActive   prometheus.Gauge

	cacheRequests *prometheus.CounterVec
	cacheBytes    *prometheus.CounterVec

	rendersTotal   *prometheus.CounterVec
	renderDuration prometheus.Histogram
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		layoutsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "mindmap_layouts_total",
			Help: "Total number of layout runs",
		}),
		layoutDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "mindmap_layout_duration_seconds",
			Help:    "Layout run duration in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		}),
		layoutVisible: f.NewGauge(prometheus.GaugeOpts{
			Name: "mindmap_layout_visible_nodes",
			Help: "Visible nodes in the last layout run",
		}),
		layoutPasses: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "mindmap_layout_collision_passes",
			Help:    "Collision passes per layout run",
			Buckets: prometheus.LinearBuckets(1, 1, 10),
		}),
		layoutAdjustments: f.NewCounter(prometheus.CounterOpts{
			Name: "mindmap_layout_collision_adjustments_total",
			Help: "Total node pairs pushed apart by collision resolution",
		}),

		framesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mindmap_frames_total",
			Help: "Total number of drawn frames",
		}, []string{"settled"}),
		frameDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "mindmap_frame_duration_seconds",
			Help:    "Frame advance and draw duration in seconds",
			Buckets: []float64{.0001, .0005, .001, .0025, .005, .01, .016, .033, .1},
		}),
		frameVisible: f.NewGauge(prometheus.GaugeOpts{
			Name: "mindmap_frame_visible_nodes",
			Help: "Visible nodes in the last frame",
		}),

		loadsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mindmap_source_loads_total",
			Help: "Total number of source loads",
		}, []string{"kind", "status"}),
		loadDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mindmap_source_load_duration_seconds",
			Help:    "Source load duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
		loadedFolders: f.NewGauge(prometheus.GaugeOpts{
			Name: "mindmap_source_folders",
			Help: "Folder records in the last successful load",
		}),
		loadedFiles: f.NewGauge(prometheus.GaugeOpts{
			Name: "mindmap_source_files",
			Help: "File records in the last successful load",
		}),
		loadsActive: f.NewGauge(prometheus.GaugeOpts{
			Name: "mindmap_source_loads_active",
			Help: "Source loads in progress",
		}),

		cacheRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mindmap_cache_requests_total",
			Help: "Cache lookups and writes by entry type and result",
		}, []string{"type", "result"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mindmap_cache_bytes_written_total",
			Help: "Total bytes written to the cache",
		}, []string{"type"}),

		rendersTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mindmap_renders_total",
			Help: "Total number of pipeline render runs",
		}, []string{"status"}),
		renderDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "mindmap_render_duration_seconds",
			Help:    "Pipeline render duration in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// Install makes m the global observability hooks.
func (m *Metrics) Install() {
	observability.SetLayoutHooks(m)
	observability.SetFrameHooks(m)
	observability.SetSourceHooks(m)
	observability.SetCacheHooks(m)
	observability.SetRenderHooks(m)
}

// OnLayout implements observability.LayoutHooks.
func (m *Metrics) OnLayout(visible, passes, adjustments int, duration time.Duration) {
	m.layoutsTotal.Inc()
	m.layoutDuration.Observe(duration.Seconds())
	m.layoutVisible.Set(float64(visible))
	m.layoutPasses.Observe(float64(passes))
	m.layoutAdjustments.Add(float64(adjustments))
}

// OnFrame implements observability.FrameHooks.
func (m *Metrics) OnFrame(visible int, settled bool, duration time.Duration) {
	m.framesTotal.WithLabelValues(strconv.FormatBool(settled)).Inc()
	m.frameDuration.Observe(duration.Seconds())
	m.frameVisible.Set(float64(visible))
}

// OnLoadStart implements observability.SourceHooks.
func (m *Metrics) OnLoadStart(_ context.Context, _ string) {
	m.loadsActive.Inc()
}

// OnLoadComplete implements observability.SourceHooks.
func (m *Metrics) OnLoadComplete(_ context.Context, kind string, folders, files int, duration time.Duration, err error) {
	m.loadsActive.Dec()
	m.loadDuration.WithLabelValues(kind).Observe(duration.Seconds())
	if err != nil {
		m.loadsTotal.WithLabelValues(kind, "error").Inc()
		return
	}
	m.loadsTotal.WithLabelValues(kind, "ok").Inc()
	m.loadedFolders.Set(float64(folders))
	m.loadedFiles.Set(float64(files))
}

// OnCacheHit implements observability.CacheHooks.
func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheRequests.WithLabelValues(keyType, "hit").Inc()
}

// OnCacheMiss implements observability.CacheHooks.
func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheRequests.WithLabelValues(keyType, "miss").Inc()
}

// OnCacheSet implements observability.CacheHooks.
func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheRequests.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

// OnRenderComplete implements observability.RenderHooks.
func (m *Metrics) OnRenderComplete(_ context.Context, _ []string, duration time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.rendersTotal.WithLabelValues(status).Inc()
	m.renderDuration.Observe(duration.Seconds())
}
