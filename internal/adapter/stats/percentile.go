package stats

import "sort"

// percentiles uses nearest rank on a sorted copy, values is left untouched
func percentiles(values []int64) (p50, p95 int64) {
	if len(values) == 0 {
		return 0, 0
	}

	sorted := make([]int64, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})

	return sorted[rankIndex(len(sorted), 50)], sorted[rankIndex(len(sorted), 95)]
}

func rankIndex(n, pct int) int {
	idx := n * pct / 100
	if idx >= n {
		idx = n - 1
	}
	return idx
}
