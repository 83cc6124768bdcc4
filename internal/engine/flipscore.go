package engine

import "math"

// FlipScore ranks an item's resale attractiveness: trailing volume scaled up
// and divided by the entry price. The +1 in the denominator is deliberate
// smoothing: it keeps a zero-priced item finite and dampens the score of
// very cheap, high-volume items relative to a naive volume/price ratio.
// The result is rounded to two decimals and carries no unit.
//
// Callers must only score items that have an online ask; items without one
// are excluded from flip ranking, not given a zero.
func FlipScore(bestAsk int, trailingVolume int64) float64 {
	score := float64(trailingVolume) * 100 / float64(bestAsk+1)
	return math.Round(score*100) / 100
}
