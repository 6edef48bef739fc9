// Package profiler tracks per-phase frame timings and process memory
// statistics, reporting aggregates to the log at a fixed interval.
package profiler

import (
	"runtime"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/paavohuhtala/demogine/logger"
)

// Phase identifies one timed section of the frame loop.
type Phase string

const (
	// PhaseUpdate covers scene graph update and transform propagation.
	PhaseUpdate Phase = "update"
	// PhaseExtract covers drawable extraction from the scene.
	PhaseExtract Phase = "extract"
	// PhaseUpload covers per-frame GPU buffer writes.
	PhaseUpload Phase = "upload"
	// PhaseCompute covers encoding and submitting the compute passes.
	PhaseCompute Phase = "compute"
	// PhaseRender covers the render pass and present.
	PhaseRender Phase = "render"
)

// reportPhases fixes the log column order.
var reportPhases = []Phase{PhaseUpdate, PhaseExtract, PhaseUpload, PhaseCompute, PhaseRender}

// Profiler accumulates per-phase frame timings and reports mean, standard
// deviation, and tail quantiles once per interval, together with FPS and
// heap statistics.
type Profiler struct {
	mu *sync.Mutex

	samples map[Phase][]float64 // milliseconds, cleared each report

	frameCount     int
	lastReport     time.Time
	reportInterval time.Duration

	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
}

// NewProfiler creates a new Profiler. The report interval defaults to 1
// second.
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler() *Profiler {
	return &Profiler{
		mu:             &sync.Mutex{},
		samples:        make(map[Phase][]float64),
		lastReport:     time.Now(),
		reportInterval: time.Second,
	}
}

// Begin starts timing a frame phase. The returned function stops the timer
// and records the sample; call it when the phase completes.
//
// Parameters:
//   - phase: the frame phase being timed
//
// Returns:
//   - func(): stop function recording the elapsed time
func (p *Profiler) Begin(phase Phase) func() {
	start := time.Now()
	return func() {
		p.Record(phase, time.Since(start))
	}
}

// Record adds one timing sample for a phase.
//
// Parameters:
//   - phase: the frame phase the sample belongs to
//   - d: the measured duration
func (p *Profiler) Record(phase Phase, d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.samples[phase] = append(p.samples[phase], float64(d.Nanoseconds())/1e6)
}

// Tick should be called once per frame after all phases have been recorded.
// Logs aggregated statistics when the report interval has elapsed: FPS,
// per-phase mean/stddev/p50/p99 in milliseconds, heap usage, allocation
// rate, and GC pause times.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.frameCount++
	now := time.Now()
	elapsed := now.Sub(p.lastReport)
	if elapsed < p.reportInterval {
		return false
	}

	fps := float64(p.frameCount) / elapsed.Seconds()

	fields := []zap.Field{zap.Float64("fps", fps)}
	for _, phase := range reportPhases {
		samples := p.samples[phase]
		if len(samples) == 0 {
			continue
		}
		sort.Float64s(samples)
		fields = append(fields,
			zap.Float64(string(phase)+"_mean_ms", stat.Mean(samples, nil)),
			zap.Float64(string(phase)+"_stddev_ms", stat.StdDev(samples, nil)),
			zap.Float64(string(phase)+"_p50_ms", stat.Quantile(0.5, stat.Empirical, samples, nil)),
			zap.Float64(string(phase)+"_p99_ms", stat.Quantile(0.99, stat.Empirical, samples, nil)),
		)
	}

	runtime.ReadMemStats(&p.memStats)
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	fields = append(fields,
		zap.Float64("heap_mb", float64(p.memStats.Alloc)/1024/1024),
		zap.Float64("alloc_rate_mb_s", float64(allocDelta)/1024/1024/elapsed.Seconds()),
		zap.Float64("sys_mb", float64(p.memStats.Sys)/1024/1024),
	)

	// PauseNs is a circular buffer of the last 256 GC pauses.
	gcCount := p.memStats.NumGC
	if gcCount > p.lastGCCount {
		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		var maxPauseUs uint64
		for i := startIdx; i < gcCount; i++ {
			pause := p.memStats.PauseNs[i%256] / 1000
			if pause > maxPauseUs {
				maxPauseUs = pause
			}
		}
		fields = append(fields,
			zap.Uint32("gc_count", gcCount),
			zap.Uint64("gc_max_pause_us", maxPauseUs),
		)
	}

	logger.Info("frame stats", fields...)

	p.frameCount = 0
	p.lastReport = now
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	for phase := range p.samples {
		p.samples[phase] = p.samples[phase][:0]
	}
	return true
}
