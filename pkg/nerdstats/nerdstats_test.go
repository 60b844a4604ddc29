package nerdstats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSnapshot(t *testing.T) {
	stats := Snapshot(time.Now().Add(-time.Minute))

	assert.Positive(t, stats.NumGoroutines)
	assert.Positive(t, stats.NumCPU)
	assert.NotEmpty(t, stats.GoVersion)
	assert.GreaterOrEqual(t, stats.Uptime, time.Minute)
}

func TestGetMemoryPressure(t *testing.T) {
	assert.Equal(t, PressureLow, (&NerdStats{}).GetMemoryPressure())
	assert.Equal(t, PressureLow, (&NerdStats{HeapSys: 100, HeapInuse: 50, Mallocs: 10, Frees: 10}).GetMemoryPressure())
	assert.Equal(t, PressureMedium, (&NerdStats{HeapSys: 100, HeapInuse: 80, Mallocs: 10, Frees: 10}).GetMemoryPressure())
	assert.Equal(t, PressureHigh, (&NerdStats{HeapSys: 100, HeapInuse: 95, Mallocs: 30, Frees: 10}).GetMemoryPressure())
}

func TestGetGoroutineHealthStatus(t *testing.T) {
	cases := map[int]string{
		10:   GoroutinesHealthy,
		200:  GoroutinesNormal,
		800:  GoroutinesElevated,
		5000: GoroutinesConcerning,
	}
	for n, want := range cases {
		assert.Equal(t, want, (&NerdStats{NumGoroutines: n}).GetGoroutineHealthStatus(), n)
	}
}

func TestNetObjectsAndAverageGCPause(t *testing.T) {
	assert.Equal(t, int64(5), (&NerdStats{Mallocs: 15, Frees: 10}).NetObjects())
	assert.Zero(t, (&NerdStats{Mallocs: 10, Frees: 15}).NetObjects())

	assert.Equal(t, "N/A", (&NerdStats{}).AverageGCPause())
	assert.Equal(t, "2ms", (&NerdStats{NumGC: 2, TotalGCTime: 4 * time.Millisecond}).AverageGCPause())
}
