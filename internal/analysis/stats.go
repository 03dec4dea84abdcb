// internal/analysis/stats.go
package analysis

import "math"

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStd is the n-1 denominator standard deviation. With fewer than two
// values it returns 0 rather than failing.
func sampleStd(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var ss float64
	for _, v := range values {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)-1))
}

// zScore is the inverse standard normal CDF for a service level probability.
// The probability is clamped away from 0 and 1 so a misconfigured service
// level cannot produce an infinite safety stock.
func zScore(p float64) float64 {
	const eps = 1e-9
	if p < eps {
		p = eps
	}
	if p > 1-eps {
		p = 1 - eps
	}
	return math.Sqrt2 * math.Erfinv(2*p-1)
}
