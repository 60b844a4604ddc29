package nerdstats

import (
	"runtime"
	"runtime/debug"
	"time"

	"github.com/pam-ai/pamgate/pkg/format"
)

/*
	NerdStats is a point in time read of the Go runtime, logged on shutdown and
	served from /internal/process. See https://pkg.go.dev/runtime#MemStats
*/

const (
	PressureLow    = "LOW"
	PressureMedium = "MEDIUM"
	PressureHigh   = "HIGH"

	GoroutinesHealthy    = "HEALTHY"
	GoroutinesNormal     = "NORMAL"
	GoroutinesElevated   = "ELEVATED"
	GoroutinesConcerning = "CONCERNING"
)

type NerdStats struct {
	LastGC    time.Time
	BuildInfo *debug.BuildInfo
	GoVersion string

	HeapAlloc    uint64
	HeapSys      uint64
	HeapInuse    uint64
	HeapReleased uint64
	StackInuse   uint64
	TotalAlloc   uint64
	Mallocs      uint64
	Frees        uint64

	TotalGCTime   time.Duration
	Uptime        time.Duration
	GCCPUFraction float64
	NumCgoCall    int64
	NumGoroutines int
	NumCPU        int
	GOMAXPROCS    int
	NumGC         uint32
}

func Snapshot(startTime time.Time) *NerdStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	stats := &NerdStats{
		HeapAlloc:     m.HeapAlloc,
		HeapSys:       m.HeapSys,
		HeapInuse:     m.HeapInuse,
		HeapReleased:  m.HeapReleased,
		StackInuse:    m.StackInuse,
		TotalAlloc:    m.TotalAlloc,
		Mallocs:       m.Mallocs,
		Frees:         m.Frees,
		NumGC:         m.NumGC,
		GCCPUFraction: m.GCCPUFraction,
		NumGoroutines: runtime.NumGoroutine(),
		NumCgoCall:    runtime.NumCgoCall(),
		NumCPU:        runtime.NumCPU(),
		GOMAXPROCS:    runtime.GOMAXPROCS(0),
		GoVersion:     runtime.Version(),
		Uptime:        time.Since(startTime),
	}

	if m.LastGC > 0 {
		stats.LastGC = time.Unix(0, int64(m.LastGC))
		stats.TotalGCTime = time.Duration(m.PauseTotalNs)
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		stats.BuildInfo = info
	}

	return stats
}

// NetObjects is live allocations, clamped so a racing read never goes negative
func (ps *NerdStats) NetObjects() int64 {
	if ps.Frees >= ps.Mallocs {
		return 0
	}
	return int64(ps.Mallocs - ps.Frees)
}

func (ps *NerdStats) GetMemoryPressure() string {
	if ps.HeapSys == 0 {
		return PressureLow
	}
	heapUsageRatio := float64(ps.HeapInuse) / float64(ps.HeapSys)
	allocsPerFree := float64(ps.Mallocs) / float64(ps.Frees+1)

	if heapUsageRatio > 0.9 && allocsPerFree > 1.5 {
		return PressureHigh
	} else if heapUsageRatio > 0.7 || allocsPerFree > 1.2 {
		return PressureMedium
	}
	return PressureLow
}

// GetGoroutineHealthStatus thresholds assume the gate idles at a few dozen
// goroutines (server, limiter sweep, config watcher)
func (ps *NerdStats) GetGoroutineHealthStatus() string {
	switch {
	case ps.NumGoroutines > 2000:
		return GoroutinesConcerning
	case ps.NumGoroutines > 500:
		return GoroutinesElevated
	case ps.NumGoroutines > 100:
		return GoroutinesNormal
	default:
		return GoroutinesHealthy
	}
}

func (ps *NerdStats) GetBuildInfoSummary() map[string]string {
	summary := make(map[string]string)
	if ps.BuildInfo == nil {
		return summary
	}

	summary["path"] = ps.BuildInfo.Path
	summary["main_version"] = ps.BuildInfo.Main.Version

	for _, setting := range ps.BuildInfo.Settings {
		switch setting.Key {
		case "CGO_ENABLED", "GOARCH", "GOOS", "vcs.revision", "vcs.time":
			summary[setting.Key] = setting.Value
		}
	}
	return summary
}

func (ps *NerdStats) AverageGCPause() string {
	if ps.NumGC == 0 {
		return "N/A"
	}
	return format.Duration(ps.TotalGCTime / time.Duration(ps.NumGC))
}
