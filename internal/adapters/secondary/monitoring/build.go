package monitoring

import (
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
	"github.com/fredcamaral/deckgen/internal/domain/ports"
)

// BuildMetrics holds the measurements of the builds seen by a monitor
type BuildMetrics struct {
	// Render metrics
	SlideRenderCount  int64
	TitleSlideCount   int64
	ContentSlideCount int64
	ParagraphCount    int64
	RenderDuration    time.Duration
	SlowestRender     time.Duration

	// Export metrics
	ExportCount    int64
	BytesWritten   int64
	ExportDuration time.Duration
	LastFormat     string

	// Memory metrics, read when the snapshot is taken
	MemoryUsage int64
	HeapSize    int64
	GCCount     uint32
}

// AverageRenderTime returns the mean time spent on one slide
func (m BuildMetrics) AverageRenderTime() time.Duration {
	if m.SlideRenderCount == 0 {
		return 0
	}
	return m.RenderDuration / time.Duration(m.SlideRenderCount)
}

// BuildMonitor implements ports.BuildRecorder. It is safe for concurrent use.
type BuildMonitor struct {
	metrics BuildMetrics
	mu      sync.RWMutex
}

// NewBuildMonitor creates a new build monitor
func NewBuildMonitor() *BuildMonitor {
	return &BuildMonitor{}
}

// RecordSlideRender records one rendered slide
func (bm *BuildMonitor) RecordSlideRender(kind entities.SlideKind, paragraphs int, duration time.Duration) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	bm.metrics.SlideRenderCount++
	switch kind {
	case entities.SlideTitle:
		bm.metrics.TitleSlideCount++
	case entities.SlideContent:
		bm.metrics.ContentSlideCount++
	}

	bm.metrics.ParagraphCount += int64(paragraphs)
	bm.metrics.RenderDuration += duration
	if duration > bm.metrics.SlowestRender {
		bm.metrics.SlowestRender = duration
	}
}

// RecordExport records one written document
func (bm *BuildMonitor) RecordExport(format string, bytes int64, duration time.Duration) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	bm.metrics.ExportCount++
	bm.metrics.BytesWritten += bytes
	bm.metrics.ExportDuration += duration
	bm.metrics.LastFormat = format
}

// GetMetrics returns a copy of current metrics
func (bm *BuildMonitor) GetMetrics() BuildMetrics {
	bm.mu.RLock()
	metrics := bm.metrics
	bm.mu.RUnlock()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	// Safe conversion with overflow check
	metrics.MemoryUsage = safeUint64ToInt64(memStats.Alloc)
	metrics.HeapSize = safeUint64ToInt64(memStats.HeapAlloc)
	metrics.GCCount = memStats.NumGC

	return metrics
}

// Reset clears the counters
func (bm *BuildMonitor) Reset() {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	bm.metrics = BuildMetrics{}
}

// Fields returns the metrics as logger key/value pairs
func (bm *BuildMonitor) Fields() []interface{} {
	metrics := bm.GetMetrics()

	return []interface{}{
		"slides_rendered", metrics.SlideRenderCount,
		"title_slides", metrics.TitleSlideCount,
		"content_slides", metrics.ContentSlideCount,
		"paragraphs", metrics.ParagraphCount,
		"avg_render_us", metrics.AverageRenderTime().Microseconds(),
		"slowest_render_us", metrics.SlowestRender.Microseconds(),
		"exports", metrics.ExportCount,
		"bytes_written", metrics.BytesWritten,
		"export_ms", metrics.ExportDuration.Milliseconds(),
		"memory_mb", metrics.MemoryUsage / (1024 * 1024),
		"gc_cycles", metrics.GCCount,
	}
}

// safeUint64ToInt64 safely converts uint64 to int64, capping at max int64 value
func safeUint64ToInt64(val uint64) int64 {
	if val > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(val)
}

// Ensure BuildMonitor implements ports.BuildRecorder
var _ ports.BuildRecorder = (*BuildMonitor)(nil)
