package profiler

import (
	"log/slog"
	"runtime"
	"time"
)

// Report is one interval's worth of frame and memory statistics.
type Report struct {
	FPS         float64
	Frames      int
	Interval    time.Duration
	HeapAlloc   uint64
	Sys         uint64
	AllocRateMB float64
	NumGC       uint32
	LastPauseUs uint64
	MaxPauseUs  uint64
}

// Profiler tracks frame rate and memory statistics for performance monitoring.
// A Report is logged, and handed to the optional reporter, once per interval.
type Profiler struct {
	logger         *slog.Logger
	now            func() time.Time
	reporter       func(Report)
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
}

// ProfilerOption is a functional option for configuring a Profiler.
type ProfilerOption func(*Profiler)

// WithInterval sets how often a report is produced. Non-positive values are ignored.
//
// Parameters:
//   - d: the interval
//
// Returns:
//   - ProfilerOption: option function to apply
func WithInterval(d time.Duration) ProfilerOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// WithLogger sets the logger reports are written to. A nil logger is ignored.
//
// Parameters:
//   - logger: the structured logger
//
// Returns:
//   - ProfilerOption: option function to apply
func WithLogger(logger *slog.Logger) ProfilerOption {
	return func(p *Profiler) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithReporter sets a callback receiving every report, e.g. to export it as metrics.
//
// Parameters:
//   - fn: the callback
//
// Returns:
//   - ProfilerOption: option function to apply
func WithReporter(fn func(Report)) ProfilerOption {
	return func(p *Profiler) {
		p.reporter = fn
	}
}

// WithNow replaces the time source.
//
// Parameters:
//   - now: returns the current time
//
// Returns:
//   - ProfilerOption: option function to apply
func WithNow(now func() time.Time) ProfilerOption {
	return func(p *Profiler) {
		if now != nil {
			p.now = now
		}
	}
}

// NewProfiler creates a new Profiler. The interval defaults to 1 second and reports are
// discarded unless a logger or reporter is set.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		logger:         slog.New(slog.DiscardHandler),
		now:            time.Now,
		updateInterval: time.Second,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// Tick should be called once per frame.
//
// Returns:
//   - Report: the statistics for the interval that just ended
//   - bool: true if the interval elapsed and a report was produced this tick
func (p *Profiler) Tick() (Report, bool) {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return Report{}, false
	}

	runtime.ReadMemStats(&p.memStats)
	r := Report{
		FPS:       float64(p.frameCount) / elapsed.Seconds(),
		Frames:    p.frameCount,
		Interval:  elapsed,
		HeapAlloc: p.memStats.Alloc,
		Sys:       p.memStats.Sys,
		NumGC:     p.memStats.NumGC,
	}
	r.AllocRateMB = float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds()

	// PauseNs is a circular buffer of the last 256 pauses.
	if r.NumGC > 0 {
		r.LastPauseUs = p.memStats.PauseNs[(r.NumGC-1)%256] / 1000
		start := p.lastGCCount
		if r.NumGC-start > 256 {
			start = r.NumGC - 256
		}
		for i := start; i < r.NumGC; i++ {
			r.MaxPauseUs = max(r.MaxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	p.logger.Info("profile",
		"fps", r.FPS,
		"heap_mb", float64(r.HeapAlloc)/1024/1024,
		"alloc_rate_mb_s", r.AllocRateMB,
		"gc", r.NumGC,
		"gc_last_us", r.LastPauseUs,
		"gc_max_us", r.MaxPauseUs,
		"sys_mb", float64(r.Sys)/1024/1024,
	)
	if p.reporter != nil {
		p.reporter(r)
	}

	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = r.NumGC
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return r, true
}
