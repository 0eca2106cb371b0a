// Package money normalizes bids into comparable [0,1] scores.
package money

import (
	"math"

	"github.com/shopspring/decimal"
)

// Precision used when presenting scores and bids.
const (
	ScorePrecision = 3
	BidPrecision   = 2
)

// Scores min-max normalizes bids over the set. When every bid is equal each
// score is 1.0. Output order matches input order.
func Scores(bids []float64) []float64 {
	out := make([]float64, len(bids))
	if len(bids) == 0 {
		return out
	}

	lo, hi := bids[0], bids[0]
	for _, b := range bids[1:] {
		lo = math.Min(lo, b)
		hi = math.Max(hi, b)
	}

	spread := hi - lo
	for i, b := range bids {
		if spread == 0 {
			out[i] = 1.0
			continue
		}
		out[i] = Clamp01((b - lo) / spread)
	}
	return out
}

// Clamp01 bounds v to [0,1].
func Clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// Round rounds half away from zero to the given number of decimal places.
func Round(v float64, places int32) float64 {
	r, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return r
}
