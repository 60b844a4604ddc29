package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBytes(t *testing.T) {
	assert.Equal(t, "512B", Bytes(512))
	assert.Equal(t, "1.5KiB", Bytes(1536))
	assert.Equal(t, "1MiB", Bytes(1<<20))
}

func TestDuration(t *testing.T) {
	assert.Equal(t, "250ms", Duration(250*time.Millisecond))
	assert.Equal(t, "42s", Duration(42*time.Second))
	assert.Equal(t, "2m5s", Duration(125*time.Second))
	assert.Equal(t, "1h1m1s", Duration(time.Hour+time.Minute+time.Second))
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, "0%", Percentage(0))
	assert.Equal(t, "97.5%", Percentage(0.975))
	assert.Equal(t, "100%", Percentage(1))
}

func TestLatency(t *testing.T) {
	assert.Equal(t, "0ms", Latency(0))
	assert.Equal(t, "85ms", Latency(85.2))
	assert.Equal(t, "2.5s", Latency(2500))
}

func TestCost(t *testing.T) {
	assert.Equal(t, "$0", Cost(0))
	assert.Equal(t, "$0.000450", Cost(0.00045))
	assert.Equal(t, "$1.25", Cost(1.25))
}

func TestTimeAgoAndUntil(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "never", TimeAgo(time.Time{}, now))
	assert.Equal(t, "30s ago", TimeAgo(now.Add(-30*time.Second), now))
	assert.Equal(t, "in 5m", TimeUntil(now.Add(5*time.Minute), now))
	assert.Equal(t, "now", TimeUntil(now.Add(-time.Second), now))
	assert.Equal(t, "unknown", TimeUntil(time.Time{}, now))
	assert.Equal(t, "2d", TimeDuration(48*time.Hour))
}
