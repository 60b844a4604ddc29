package handlers

import (
	"net/http"
	"time"

	"github.com/pam-ai/pamgate/pkg/format"
	"github.com/pam-ai/pamgate/pkg/nerdstats"
)

type ProcessStatsResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Memory    struct {
		HeapAlloc      string `json:"heap_alloc"`
		HeapSys        string `json:"heap_sys"`
		HeapInuse      string `json:"heap_inuse"`
		StackInuse     string `json:"stack_inuse"`
		TotalAlloc     string `json:"total_alloc"`
		MemoryPressure string `json:"memory_pressure"`
	} `json:"memory"`

	GarbageCollection struct {
		LastGC        string  `json:"last_gc,omitempty"`
		TotalGCTime   string  `json:"total_gc_time,omitempty"`
		AvgGCPause    string  `json:"avg_gc_pause"`
		GCCPUFraction float64 `json:"gc_cpu_fraction"`
		NumGC         uint32  `json:"num_gc_cycles"`
	} `json:"garbage_collection"`

	Goroutines struct {
		HealthStatus string `json:"health_status"`
		Count        int    `json:"count"`
	} `json:"goroutines"`

	Runtime struct {
		Uptime     string `json:"uptime"`
		GoVersion  string `json:"go_version"`
		NumCPU     int    `json:"num_cpu"`
		GOMAXPROCS int    `json:"gomaxprocs"`
	} `json:"runtime"`

	Allocations struct {
		TotalMallocs uint64 `json:"total_mallocs"`
		TotalFrees   uint64 `json:"total_frees"`
		NetObjects   int64  `json:"net_objects"`
	} `json:"allocations"`
}

func (a *Application) processStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats := nerdstats.Snapshot(a.startTime)

	response := ProcessStatsResponse{Timestamp: a.clock()}

	response.Memory.HeapAlloc = format.Bytes(stats.HeapAlloc)
	response.Memory.HeapSys = format.Bytes(stats.HeapSys)
	response.Memory.HeapInuse = format.Bytes(stats.HeapInuse)
	response.Memory.StackInuse = format.Bytes(stats.StackInuse)
	response.Memory.TotalAlloc = format.Bytes(stats.TotalAlloc)
	response.Memory.MemoryPressure = stats.GetMemoryPressure()

	response.Allocations.TotalMallocs = stats.Mallocs
	response.Allocations.TotalFrees = stats.Frees
	response.Allocations.NetObjects = stats.NetObjects()

	response.GarbageCollection.NumGC = stats.NumGC
	response.GarbageCollection.GCCPUFraction = stats.GCCPUFraction
	response.GarbageCollection.AvgGCPause = stats.AverageGCPause()
	if !stats.LastGC.IsZero() {
		response.GarbageCollection.LastGC = stats.LastGC.Format(time.RFC3339)
		response.GarbageCollection.TotalGCTime = format.Duration(stats.TotalGCTime)
	}

	response.Goroutines.Count = stats.NumGoroutines
	response.Goroutines.HealthStatus = stats.GetGoroutineHealthStatus()

	response.Runtime.Uptime = format.Duration(stats.Uptime)
	response.Runtime.GoVersion = stats.GoVersion
	response.Runtime.NumCPU = stats.NumCPU
	response.Runtime.GOMAXPROCS = stats.GOMAXPROCS

	a.writeJSON(w, http.StatusOK, response)
}
