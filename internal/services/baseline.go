package services

import (
	"sort"

	"github.com/mohammadak95/yemen-market-analysis-go/internal/numeric"
)

// DefaultBaselineWindow is the number of trailing observations used to
// compute the reference price a candidate is compared against.
const DefaultBaselineWindow = 3

// RobustBaseline computes an outlier-resistant reference price from a window
// of trailing prices. Values outside the Tukey fences [Q1-1.5*IQR, Q3+1.5*IQR]
// are discarded; the mean of the retained values is returned when they cover
// at least half the window, otherwise the mean of the full window. The
// fallback keeps the estimator usable on tiny or degenerate windows where
// trimming would remove too much.
func RobustBaseline(prices []float64) float64 {
	if len(prices) == 0 {
		return 0
	}

	q1 := percentile(prices, 0.25)
	q3 := percentile(prices, 0.75)
	iqr := q3 - q1
	lower := q1 - 1.5*iqr
	upper := q3 + 1.5*iqr

	var retained []float64
	for _, p := range prices {
		if p >= lower && p <= upper {
			retained = append(retained, p)
		}
	}

	if len(retained)*2 >= len(prices) {
		return mean(retained)
	}
	return mean(prices)
}

// percentile returns the p-quantile (0..1) of values using linear
// interpolation between closest ranks. The input is not modified.
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	rank := p * float64(len(sorted)-1)
	lo := int(rank)
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return numeric.SafeDivide(sum, float64(len(values)), 0)
}
