package format

import (
	"fmt"
	"time"

	"github.com/docker/go-units"
)

const (
	zeroPercent  = "0%"
	zeroLatency  = "0ms"
	zeroCost     = "$0"
	neverChecked = "never"
)

// Bytes renders a binary size, 1536 -> "1.5KiB"
func Bytes(bytes uint64) string {
	return units.BytesSize(float64(bytes))
}

// Duration formats duration in a readable way
func Duration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Microsecond).String()
	}

	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
	} else if minutes > 0 {
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}

// Percentage takes a ratio in [0,1]
func Percentage(ratio float64) string {
	if ratio <= 0 {
		return zeroPercent
	}
	if ratio >= 1 {
		return "100%"
	}
	return fmt.Sprintf("%.1f%%", ratio*100)
}

func Latency(ms float64) string {
	if ms <= 0 {
		return zeroLatency
	}
	if ms >= 1000 {
		return fmt.Sprintf("%.1fs", ms/1000.0)
	}
	return fmt.Sprintf("%.0fms", ms)
}

// Cost renders USD, sub-cent spend keeps enough precision to compare models
func Cost(usd float64) string {
	if usd <= 0 {
		return zeroCost
	}
	if usd < 0.01 {
		return fmt.Sprintf("$%.6f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func TimeAgo(t, now time.Time) string {
	if t.IsZero() {
		return neverChecked
	}
	return TimeDuration(now.Sub(t)) + " ago"
}

func TimeUntil(t, now time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	diff := t.Sub(now)
	if diff <= 0 {
		return "now"
	}
	return "in " + TimeDuration(diff)
}

func TimeDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%.0fh", d.Hours())
	}
	return fmt.Sprintf("%.0fd", d.Hours()/24)
}
