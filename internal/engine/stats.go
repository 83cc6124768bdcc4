package engine

import "wfm-flipper/internal/wfm"

// TrailingVolume computes the trailing-volume estimate from a per-period
// statistics mapping. The preferred period's series wins when non-empty,
// otherwise the fallback's; with neither populated the estimate is zero.
// The estimate is the floor average of the volume field over the last
// window points (all of them when the series is shorter).
func TrailingVolume(periods map[string][]wfm.StatisticsPoint, preferred, fallback string, window int) int64 {
	series := periods[preferred]
	if len(series) == 0 {
		series = periods[fallback]
	}
	if len(series) == 0 || window <= 0 {
		return 0
	}

	if len(series) > window {
		series = series[len(series)-window:]
	}

	var total int64
	for _, p := range series {
		total += p.Volume
	}
	return total / int64(len(series))
}
